package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/3-lines-studio/routegen/internal/adapters/env"
	"github.com/3-lines-studio/routegen/internal/core"
	"github.com/3-lines-studio/routegen/internal/markdown"
	"github.com/3-lines-studio/routegen/internal/scan"
)

const (
	Dir      = ".routegen"
	FileName = "conf.yaml"
)

// RelPath is where a project keeps its config, relative to the project dir.
var RelPath = path.Join(Dir, FileName)

type Config struct {
	Site     SiteConfig      `yaml:"site"`
	Server   ServerConfig    `yaml:"server"`
	Build    BuildConfig     `yaml:"build"`
	Markdown markdown.Config `yaml:"markdown"`
}

type SiteConfig struct {
	Title string `yaml:"title"`
}

type ServerConfig struct {
	Files ServerFiles `yaml:"files"`
	Port  int         `yaml:"port"`
}

type ServerFiles struct {
	Dev  FileLocations `yaml:"dev"`
	Prod FileLocations `yaml:"prod"`
}

type FileLocations struct {
	ContentRoot string `yaml:"contentRoot"`
	Script      string `yaml:"script"`
}

type BuildConfig struct {
	// Group is the project's base package. It resolves a pagesPackage that
	// starts with ".".
	Group          string   `yaml:"group"`
	PagesPackage   string   `yaml:"pagesPackage"`
	SourceRoots    []string `yaml:"sourceRoots"`
	ResourceRoot   string   `yaml:"resourceRoot"`
	PublicPath     string   `yaml:"publicPath"`
	GenDir         string   `yaml:"genDir"`
	AppAnnotation  string   `yaml:"appAnnotation"`
	PageAnnotation string   `yaml:"pageAnnotation"`
	HeadElements   []string `yaml:"headElements"`
}

func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{Title: "Kobweb Site"},
		Server: ServerConfig{
			Files: ServerFiles{
				Dev:  FileLocations{ContentRoot: "build/site", Script: "build/dist/js/site.js"},
				Prod: FileLocations{ContentRoot: "build/site", Script: "build/dist/js/site.js"},
			},
			Port: 8080,
		},
		Build: BuildConfig{
			PagesPackage:   ".pages",
			SourceRoots:    []string{"src/jsMain/kotlin"},
			ResourceRoot:   "src/jsMain/resources",
			PublicPath:     "public",
			GenDir:         "build/generated/routegen",
			AppAnnotation:  scan.DefaultAppFQCN,
			PageAnnotation: scan.DefaultPageFQCN,
			HeadElements:   append([]string(nil), core.DefaultHeadElements...),
		},
		Markdown: markdown.DefaultConfig(),
	}
}

// Load reads the project config. A missing file is a ConfigError wrapping
// core.ErrConfigNotFound; nothing else about the project is touched before
// the config is known to be good.
func Load(projectDir string) (*Config, error) {
	configPath := filepath.Join(projectDir, Dir, FileName)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &core.ConfigError{Path: RelPath, Err: core.ErrConfigNotFound}
		}
		return nil, &core.ConfigError{Path: RelPath, Err: fmt.Errorf("failed to read config: %w", err)}
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, &core.ConfigError{Path: RelPath, Err: err}
	}

	values, err := env.ReadProjectEnv(projectDir)
	if err != nil {
		return nil, &core.ConfigError{Path: RelPath, Err: fmt.Errorf("failed to load .env: %w", err)}
	}
	cfg.applyEnvOverrides(values)

	if err := cfg.Validate(); err != nil {
		return nil, &core.ConfigError{Path: RelPath, Err: err}
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults, so absent keys keep their default.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Markdown.Components == nil {
		cfg.Markdown.Components = map[markdown.Tag]string{}
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides(values env.Values) {
	if v, ok := values.Lookup(env.SiteTitle); ok {
		c.Site.Title = v
	}
	if v, ok := values.Lookup(env.PagesPackage); ok {
		c.Build.PagesPackage = v
	}
	if v, ok := values.Lookup(env.GenDir); ok {
		c.Build.GenDir = v
	}
	if v, ok := values.Lookup(env.PublicPath); ok {
		c.Build.PublicPath = v
	}
	if v, ok := values.Lookup(env.DevScript); ok {
		c.Server.Files.Dev.Script = v
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Files.Dev.Script) == "" {
		return fmt.Errorf("server.files.dev.script cannot be empty")
	}
	if err := validateRelative("build.publicPath", c.Build.PublicPath); err != nil {
		return err
	}
	if err := validateRelative("build.genDir", c.Build.GenDir); err != nil {
		return err
	}
	if len(c.Build.SourceRoots) == 0 {
		return fmt.Errorf("build.sourceRoots cannot be empty")
	}
	if c.Build.AppAnnotation == "" || c.Build.PageAnnotation == "" {
		return fmt.Errorf("build.appAnnotation and build.pageAnnotation cannot be empty")
	}
	return nil
}

func validateRelative(key, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", key)
	}
	if filepath.IsAbs(value) || strings.HasPrefix(value, "/") {
		return fmt.Errorf("%s must be relative to the project: %q", key, value)
	}
	for _, segment := range strings.Split(filepath.ToSlash(value), "/") {
		if segment == ".." {
			return fmt.Errorf("%s cannot contain parent directory references: %q", key, value)
		}
	}
	return nil
}

// PagesPackage is the fully resolved pages package.
func (c *Config) PagesPackage() string {
	return core.ResolvePagesPackage(c.Build.Group, c.Build.PagesPackage)
}

func (c *Config) ScanOptions() scan.Options {
	return scan.Options{
		PagesPackage: c.PagesPackage(),
		AppFQCN:      c.Build.AppAnnotation,
		PageFQCN:     c.Build.PageAnnotation,
	}
}

// GenSrcRoot is where generated Kotlin sources are written.
func (c *Config) GenSrcRoot() string {
	return path.Join(filepath.ToSlash(c.Build.GenDir), "src/jsMain/kotlin")
}

// GenResRoot is where generated resources are written.
func (c *Config) GenResRoot() string {
	return path.Join(filepath.ToSlash(c.Build.GenDir), "src/jsMain/resources")
}

// MarkdownRoot is the directory scanned for markdown pages.
func (c *Config) MarkdownRoot() string {
	return path.Join(filepath.ToSlash(c.Build.ResourceRoot), c.Markdown.Path)
}

// ScriptName is the file name index.html loads.
func (c *Config) ScriptName() string {
	return core.ScriptFileName(c.Server.Files.Dev.Script)
}

package usecase

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"path"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/3-lines-studio/routegen/internal/config"
	"github.com/3-lines-studio/routegen/internal/core"
	"github.com/3-lines-studio/routegen/internal/markdown"
	"github.com/3-lines-studio/routegen/internal/scan"
)

func projectRel(projectDir, p string) string {
	rel, err := filepath.Rel(projectDir, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}

// collectSources reads every .kt file below the configured source roots.
// Previously generated sources are skipped if a source root contains them.
func collectSources(fsys FileSystem, projectDir string, cfg *config.Config, logger *zap.Logger) ([]scan.SourceFile, error) {
	genSrc := filepath.Join(projectDir, filepath.FromSlash(cfg.GenSrcRoot()))
	seen := make(map[string]bool)
	var files []scan.SourceFile

	for _, root := range cfg.Build.SourceRoots {
		absRoot := filepath.Join(projectDir, filepath.FromSlash(root))
		if !fsys.FileExists(absRoot) {
			logger.Warn("source root does not exist", zap.String("root", root))
			continue
		}

		err := fsys.WalkDir(absRoot, func(p string, d iofs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p == genSrc {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(p) != ".kt" {
				return nil
			}

			rel := projectRel(projectDir, p)
			if seen[rel] {
				return nil
			}
			seen[rel] = true

			content, err := fsys.ReadFile(p)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", rel, err)
			}
			files = append(files, scan.SourceFile{Path: rel, Content: content})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk source root %s: %w", root, err)
		}
	}

	logger.Debug("collected sources", zap.Int("files", len(files)))
	return files, nil
}

// compileMarkdown turns every .md file below the markdown root into a Kotlin
// page source placed under the generated source root. Nothing is written.
func compileMarkdown(fsys FileSystem, projectDir string, cfg *config.Config, logger *zap.Logger) ([]scan.SourceFile, error) {
	root := filepath.Join(projectDir, filepath.FromSlash(cfg.MarkdownRoot()))
	if !fsys.FileExists(root) {
		return nil, nil
	}

	compiler := markdown.NewCompiler(cfg.Markdown, logger)
	pagesPackage := cfg.PagesPackage()
	var files []scan.SourceFile

	err := fsys.WalkDir(root, func(p string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(p) != ".md" {
			return nil
		}

		content, err := fsys.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", projectRel(projectDir, p), err)
		}

		doc, err := compiler.Compile(content)
		if err != nil {
			return &core.ParseError{File: projectRel(projectDir, p), Msg: err.Error()}
		}

		src := markdown.PageSourceFor(projectRel(root, p), pagesPackage)
		src.PageFQCN = cfg.Build.PageAnnotation
		files = append(files, scan.SourceFile{
			Path:    path.Join(cfg.GenSrcRoot(), src.Path()),
			Content: []byte(markdown.GeneratePage(doc, src)),
		})
		logger.Debug("compiled markdown page",
			zap.String("file", projectRel(projectDir, p)),
			zap.String("function", core.QualifiedName(src.Package, src.FuncName)),
		)
		return nil
	})
	if err != nil {
		var parseErr *core.ParseError
		if errors.As(err, &parseErr) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to compile markdown: %w", err)
	}
	return files, nil
}

// copyPublicDir mirrors the project's public resources next to the generated
// index.html. A user index.html is never copied over the generated one.
func copyPublicDir(fsys FileSystem, w *outputWriter, projectDir string, cfg *config.Config) ([]string, error) {
	src := filepath.Join(projectDir, filepath.FromSlash(cfg.Build.ResourceRoot), filepath.FromSlash(cfg.Build.PublicPath))
	if !fsys.FileExists(src) {
		return nil, nil
	}
	dst := path.Join(cfg.GenResRoot(), cfg.Build.PublicPath)

	var skipped []string
	err := fsys.WalkDir(src, func(p string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel := projectRel(src, p)
		if rel == "index.html" {
			skipped = append(skipped, projectRel(projectDir, p))
			return nil
		}

		content, err := fsys.ReadFile(p)
		if err != nil {
			return err
		}
		return w.write(path.Join(dst, rel), content)
	})
	return skipped, err
}

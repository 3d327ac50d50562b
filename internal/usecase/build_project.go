package usecase

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"

	"go.uber.org/zap"

	"github.com/3-lines-studio/routegen/internal/adapters/cli"
	"github.com/3-lines-studio/routegen/internal/config"
	"github.com/3-lines-studio/routegen/internal/core"
	"github.com/3-lines-studio/routegen/internal/scan"
)

type BuildInput struct {
	ProjectDir string
}

type BuildOutput struct {
	Success bool
	Routes  core.RouteTable
	// App is the entry point main.kt renders, the default when the project
	// declares none.
	App       string
	Written   []string
	Unchanged []string
	Warnings  []string
	Error     error
}

type BuildService struct {
	fs     FileSystem
	cli    CLIOutput
	logger *zap.Logger
}

func NewBuildService(fs FileSystem, cli CLIOutput, logger *zap.Logger) *BuildService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BuildService{
		fs:     fs,
		cli:    cli,
		logger: logger,
	}
}

// analysis is everything a build knows before it writes anything.
type analysis struct {
	cfg       *config.Config
	generated []scan.SourceFile
	scan      core.ScanResult
	table     core.RouteTable
}

func (a *analysis) app() string {
	if a.scan.HasApp && a.scan.AppFQCN != "" {
		return a.scan.AppFQCN
	}
	return core.DefaultAppFQCN
}

// BuildProject runs one generation pass. It stops at the first failing step;
// files written by earlier steps are left in place.
func (s *BuildService) BuildProject(ctx context.Context, input BuildInput) BuildOutput {
	s.cli.PrintHeader("Routegen Build")

	cfg, err := config.Load(input.ProjectDir)
	if err != nil {
		s.cli.PrintError("%v", err)
		return BuildOutput{Success: false, Error: err}
	}
	s.logger.Debug("loaded config",
		zap.String("pagesPackage", cfg.PagesPackage()),
		zap.String("genDir", cfg.Build.GenDir),
	)

	report := cli.NewBuildReport(s.cli, cfg.Build.GenDir)
	fail := func(step *cli.BuildStep, subject string, err error) BuildOutput {
		report.EndStep(step, false, err.Error())
		report.AddError(subject, err.Error(), nil)
		report.Render()
		s.logger.Error("build failed", zap.String("step", step.Name), zap.Error(err))
		return BuildOutput{Success: false, Error: err}
	}

	a := &analysis{cfg: cfg}

	step := report.StartStep("Compiling markdown pages")
	a.generated, err = compileMarkdown(s.fs, input.ProjectDir, cfg, s.logger)
	if err != nil {
		return fail(step, errorSubject(err, cfg.MarkdownRoot()), err)
	}
	report.EndStep(step, true, "")
	for _, tag := range cfg.Markdown.UnknownTags() {
		report.AddWarning("markdown.components", fmt.Sprintf("tag %q is never produced by markdown", tag), nil)
	}

	step = report.StartStep("Scanning Kotlin sources")
	if err := ctx.Err(); err != nil {
		return fail(step, "build", err)
	}
	if err := s.scanSources(input.ProjectDir, a); err != nil {
		return fail(step, errorSubject(err, "sources"), err)
	}
	report.EndStep(step, true, "")
	report.SetRouteCount(len(a.table))
	addRouteWarnings(report, a.table)

	writer := newOutputWriter(s.fs, input.ProjectDir, core.NewManifest(cfg.Site.Title, a.scan, a.table), s.logger)

	step = report.StartStep("Writing markdown sources")
	if err := ctx.Err(); err != nil {
		return fail(step, "build", err)
	}
	for _, file := range a.generated {
		if err := writer.write(file.Path, file.Content); err != nil {
			return fail(step, file.Path, err)
		}
	}
	report.EndStep(step, true, "")

	step = report.StartStep("Generating main.kt")
	mainKt, err := core.GenerateBootstrap(a.scan.AppFQCN, a.scan.HasApp, a.table)
	if err != nil {
		return fail(step, "main.kt", &core.GenerateError{Target: "main.kt", Err: err})
	}
	if err := writer.write(path.Join(cfg.GenSrcRoot(), "main.kt"), []byte(mainKt)); err != nil {
		return fail(step, "main.kt", err)
	}
	report.EndStep(step, true, "")

	step = report.StartStep("Generating index.html")
	indexHTML, err := core.RenderHTMLShell(cfg.Site.Title, cfg.Build.HeadElements, cfg.ScriptName())
	if err != nil {
		return fail(step, "index.html", &core.GenerateError{Target: "index.html", Err: err})
	}
	if err := writer.write(path.Join(cfg.GenResRoot(), cfg.Build.PublicPath, "index.html"), []byte(indexHTML)); err != nil {
		return fail(step, "index.html", err)
	}
	report.EndStep(step, true, "")

	step = report.StartStep("Copying public resources")
	skipped, err := copyPublicDir(s.fs, writer, input.ProjectDir, cfg)
	if err != nil {
		return fail(step, "public resources", asGenerateError(cfg.Build.PublicPath, err))
	}
	for _, file := range skipped {
		report.AddWarning(file, "index.html is generated; the project copy was not copied", nil)
	}
	report.EndStep(step, true, "")

	step = report.StartStep("Writing build manifest")
	if err := writer.writeManifest(path.Join(cfg.Build.GenDir, ManifestFileName)); err != nil {
		return fail(step, ManifestFileName, err)
	}
	report.EndStep(step, true, "")

	report.Render()
	s.logger.Info("build finished",
		zap.Int("routes", len(a.table)),
		zap.Int("written", len(writer.written)),
		zap.Int("unchanged", len(writer.unchanged)),
	)

	warnings := make([]string, 0, len(report.Warnings()))
	for _, w := range report.Warnings() {
		warnings = append(warnings, w.Subject+": "+w.Message)
	}

	return BuildOutput{
		Success:   true,
		Routes:    a.table,
		App:       a.app(),
		Written:   writer.written,
		Unchanged: writer.unchanged,
		Warnings:  warnings,
	}
}

func (s *BuildService) scanSources(projectDir string, a *analysis) error {
	sources, err := collectSources(s.fs, projectDir, a.cfg, s.logger)
	if err != nil {
		return err
	}

	opts := a.cfg.ScanOptions()
	opts.Logger = s.logger
	result, err := scan.NewParser(opts).ScanAll(append(sources, a.generated...))
	if err != nil {
		return err
	}

	a.scan = result
	a.table = core.BuildRouteTable(result.Pages)
	return nil
}

func addRouteWarnings(report *cli.BuildReport, table core.RouteTable) {
	for _, route := range table {
		if err := core.ValidateRoutePath(route.Path); err != nil {
			report.AddWarning(route.FQCN, fmt.Sprintf("invalid route %q: %v", route.Path, err), nil)
		}
	}

	dups := table.Duplicates()
	paths := make([]string, 0, len(dups))
	for p := range dups {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		report.AddWarning(p, "route is registered by more than one page", dups[p])
	}
}

// asGenerateError keeps an existing GenerateError and wraps anything else.
func asGenerateError(target string, err error) error {
	var genErr *core.GenerateError
	if errors.As(err, &genErr) {
		return err
	}
	return &core.GenerateError{Target: target, Err: err}
}

// errorSubject names the file a parse error points at, or fallback.
func errorSubject(err error, fallback string) string {
	var parseErr *core.ParseError
	if errors.As(err, &parseErr) {
		return parseErr.File
	}
	return fallback
}

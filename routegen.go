// Package routegen generates the routing entry point of a Kotlin/JS web
// site. It scans the project's sources for page and app functions, compiles
// markdown pages to Kotlin, and writes main.kt and index.html.
package routegen

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/3-lines-studio/routegen/internal/adapters/cli"
	"github.com/3-lines-studio/routegen/internal/adapters/fs"
	"github.com/3-lines-studio/routegen/internal/core"
	"github.com/3-lines-studio/routegen/internal/usecase"
)

type Route = core.Route

type RouteTable = core.RouteTable

type ConfigError = core.ConfigError

type ParseError = core.ParseError

type GenerateError = core.GenerateError

var ErrConfigNotFound = core.ErrConfigNotFound

type Option func(*options)

type options struct {
	ctx    context.Context
	logger *zap.Logger
	out    io.Writer
	errOut io.Writer
}

// WithLogger routes diagnostic logging to logger. The default discards it.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithOutput prints the build report to w and errors to errW. The default
// prints nothing.
func WithOutput(w, errW io.Writer) Option {
	return func(o *options) {
		o.out = w
		o.errOut = errW
	}
}

func WithContext(ctx context.Context) Option {
	return func(o *options) {
		o.ctx = ctx
	}
}

func newService(opts []Option) (*usecase.BuildService, context.Context) {
	o := &options{
		ctx:    context.Background(),
		logger: zap.NewNop(),
		out:    io.Discard,
		errOut: io.Discard,
	}
	for _, opt := range opts {
		opt(o)
	}
	return usecase.NewBuildService(fs.NewOSFileSystem(), cli.NewOutputTo(o.out, o.errOut), o.logger), o.ctx
}

type Result struct {
	Routes RouteTable
	// App is the function main.kt renders pages inside.
	App       string
	Written   []string
	Unchanged []string
	Warnings  []string
}

// Build runs one generation pass over the project in projectDir.
func Build(projectDir string, opts ...Option) (*Result, error) {
	svc, ctx := newService(opts)
	out := svc.BuildProject(ctx, usecase.BuildInput{ProjectDir: projectDir})
	if out.Error != nil {
		return nil, out.Error
	}
	return &Result{
		Routes:    out.Routes,
		App:       out.App,
		Written:   out.Written,
		Unchanged: out.Unchanged,
		Warnings:  out.Warnings,
	}, nil
}

// Routes returns the route table Build would generate without writing
// anything.
func Routes(projectDir string, opts ...Option) (RouteTable, error) {
	svc, _ := newService(opts)
	out := svc.ListRoutes(usecase.BuildInput{ProjectDir: projectDir})
	if out.Error != nil {
		return nil, out.Error
	}
	return out.Routes, nil
}

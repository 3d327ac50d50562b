package usecase

import (
	"go.uber.org/zap"

	"github.com/3-lines-studio/routegen/internal/config"
	"github.com/3-lines-studio/routegen/internal/core"
)

type ListRoutesOutput struct {
	Routes     core.RouteTable
	App        string
	HasApp     bool
	Duplicates map[string][]string
	Error      error
}

// ListRoutes loads, compiles and scans a project like BuildProject but writes
// nothing.
func (s *BuildService) ListRoutes(input BuildInput) ListRoutesOutput {
	cfg, err := config.Load(input.ProjectDir)
	if err != nil {
		return ListRoutesOutput{Error: err}
	}

	a := &analysis{cfg: cfg}
	a.generated, err = compileMarkdown(s.fs, input.ProjectDir, cfg, s.logger)
	if err != nil {
		return ListRoutesOutput{Error: err}
	}
	if err := s.scanSources(input.ProjectDir, a); err != nil {
		return ListRoutesOutput{Error: err}
	}

	s.logger.Debug("listed routes", zap.Int("routes", len(a.table)))
	return ListRoutesOutput{
		Routes:     a.table,
		App:        a.app(),
		HasApp:     a.scan.HasApp,
		Duplicates: a.table.Duplicates(),
	}
}

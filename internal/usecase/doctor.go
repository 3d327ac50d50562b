package usecase

import (
	"path/filepath"

	"github.com/3-lines-studio/routegen/internal/config"
)

type DoctorCheck struct {
	Name    string
	OK      bool
	Message string
}

type DoctorOutput struct {
	Checks []DoctorCheck
	Error  error
}

func (o DoctorOutput) Healthy() bool {
	if o.Error != nil {
		return false
	}
	for _, check := range o.Checks {
		if !check.OK {
			return false
		}
	}
	return true
}

const genDirGitignore = "# Generated by routegen\n*\n"

// Doctor checks that a project can be built and makes sure its generation
// directory exists and is ignored by git.
func (s *BuildService) Doctor(input BuildInput) DoctorOutput {
	s.cli.PrintHeader("Routegen Doctor")

	cfg, err := config.Load(input.ProjectDir)
	if err != nil {
		s.cli.PrintError("%v", err)
		return DoctorOutput{Error: err}
	}

	var checks []DoctorCheck
	add := func(check DoctorCheck) {
		checks = append(checks, check)
		if check.OK {
			s.cli.PrintSuccess("%s", check.Name)
		} else {
			s.cli.PrintWarning("%s: %s", check.Name, check.Message)
		}
	}

	for _, root := range cfg.Build.SourceRoots {
		ok := s.fs.FileExists(filepath.Join(input.ProjectDir, filepath.FromSlash(root)))
		add(DoctorCheck{Name: "source root " + root, OK: ok, Message: "directory does not exist"})
	}

	markdownRoot := cfg.MarkdownRoot()
	if s.fs.FileExists(filepath.Join(input.ProjectDir, filepath.FromSlash(markdownRoot))) {
		add(DoctorCheck{Name: "markdown root " + markdownRoot, OK: true})
	}

	for _, tag := range cfg.Markdown.UnknownTags() {
		add(DoctorCheck{Name: "markdown component " + string(tag), OK: false, Message: "tag is never produced by markdown"})
	}

	genDir := filepath.Join(input.ProjectDir, filepath.FromSlash(cfg.Build.GenDir))
	gitignore := filepath.Join(genDir, ".gitignore")
	check := DoctorCheck{Name: "generation directory " + cfg.Build.GenDir, OK: true}
	if !s.fs.FileExists(gitignore) {
		if err := s.fs.MkdirAll(genDir, 0755); err != nil {
			check = DoctorCheck{Name: check.Name, OK: false, Message: err.Error()}
		} else if err := s.fs.WriteFile(gitignore, []byte(genDirGitignore), 0644); err != nil {
			check = DoctorCheck{Name: check.Name, OK: false, Message: err.Error()}
		}
	}
	add(check)

	if out := s.ListRoutes(input); out.Error != nil {
		add(DoctorCheck{Name: "sources scan", OK: false, Message: out.Error.Error()})
	} else {
		add(DoctorCheck{Name: "sources scan", OK: true})
	}

	return DoctorOutput{Checks: checks}
}

package usecase

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"path/filepath"

	"github.com/3-lines-studio/routegen/internal/templates"
)

type InitInput struct {
	ProjectDir string
	Template   string
	// Group is the base package of the new project. Empty uses
	// templates.DefaultGroup.
	Group string
	// Title defaults to one derived from the directory name.
	Title string
}

type InitOutput struct {
	Success bool
	Created []string
	Error   error
}

type InitService struct {
	fs        FileSystem
	cli       CLIOutput
	templates TemplateSource
}

func NewInitService(fs FileSystem, cli CLIOutput, templates TemplateSource) *InitService {
	return &InitService{
		fs:        fs,
		cli:       cli,
		templates: templates,
	}
}

func (s *InitService) InitProject(input InitInput) InitOutput {
	s.cli.PrintHeader("Routegen Init")

	if s.fs.FileExists(input.ProjectDir) {
		entries, err := s.fs.ReadDir(input.ProjectDir)
		if err != nil {
			return InitOutput{
				Success: false,
				Error:   fmt.Errorf("failed to read directory: %w", err),
			}
		}
		if len(entries) > 0 {
			return InitOutput{
				Success: false,
				Error:   fmt.Errorf("directory '%s' already exists and is not empty", input.ProjectDir),
			}
		}
	}

	templateName := input.Template
	if templateName == "" {
		templateName = "minimal"
	}
	templateFS, err := s.templates.GetTemplate(templateName)
	if err != nil {
		if errors.Is(err, templates.ErrInvalidTemplate) {
			return InitOutput{Success: false, Error: fmt.Errorf("invalid template '%s'", templateName)}
		}
		return InitOutput{Success: false, Error: err}
	}

	data := templates.TemplateData{
		Group: input.Group,
		Title: input.Title,
	}
	if data.Group == "" {
		data.Group = templates.DefaultGroup
	}
	if !templates.ValidGroup(data.Group) {
		return InitOutput{Success: false, Error: fmt.Errorf("invalid group '%s'", data.Group)}
	}
	if data.Title == "" {
		data.Title = templates.DeriveTitle(input.ProjectDir)
	}

	if err := s.fs.MkdirAll(input.ProjectDir, 0755); err != nil {
		return InitOutput{Success: false, Error: fmt.Errorf("failed to create project directory: %w", err)}
	}

	var created []string
	err = iofs.WalkDir(templateFS, ".", func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		content, err := iofs.ReadFile(templateFS, path)
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", path, err)
		}

		targetRel, isTemplate := templates.ProcessFilename(path, data)
		targetPath := filepath.Join(input.ProjectDir, filepath.FromSlash(targetRel))

		if err := s.fs.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(targetPath), err)
		}
		processed, err := templates.ProcessContent(content, isTemplate, targetRel, data)
		if err != nil {
			return fmt.Errorf("failed to process template %s: %w", path, err)
		}
		if err := s.fs.WriteFile(targetPath, processed, 0644); err != nil {
			return fmt.Errorf("failed to write file %s: %w", targetPath, err)
		}

		if isTemplate {
			s.cli.PrintFile(targetPath + " (generated)")
		} else {
			s.cli.PrintFile(targetPath)
		}
		created = append(created, targetRel)
		return nil
	})
	if err != nil {
		return InitOutput{Success: false, Created: created, Error: err}
	}

	s.cli.PrintDone("Created %d files using '%s' template", len(created), templateName)
	s.cli.PrintStep("Next: routegen build %s", input.ProjectDir)

	return InitOutput{
		Success: true,
		Created: created,
	}
}

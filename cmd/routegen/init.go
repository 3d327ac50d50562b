package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/3-lines-studio/routegen/internal/adapters"
	"github.com/3-lines-studio/routegen/internal/adapters/fs"
	"github.com/3-lines-studio/routegen/internal/templates"
	"github.com/3-lines-studio/routegen/internal/usecase"
)

var (
	initTemplate string
	initGroup    string
	initTitle    string
)

var initCmd = &cobra.Command{
	Use:   "init <dir>",
	Short: "Create a new project from a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectDir, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve project directory: %w", err)
		}

		svc := usecase.NewInitService(fs.NewOSFileSystem(), output, adapters.NewTemplateSource())
		result := svc.InitProject(usecase.InitInput{
			ProjectDir: projectDir,
			Template:   initTemplate,
			Group:      initGroup,
			Title:      initTitle,
		})
		return result.Error
	},
}

func init() {
	initCmd.Flags().StringVar(&initTemplate, "template", "minimal",
		"project template ("+strings.Join(templates.Names(), ", ")+")")
	initCmd.Flags().StringVar(&initGroup, "group", templates.DefaultGroup, "base Kotlin package")
	initCmd.Flags().StringVar(&initTitle, "title", "", "site title (default: derived from the directory name)")
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/3-lines-studio/routegen/internal/usecase"
)

var buildCmd = &cobra.Command{
	Use:   "build [dir]",
	Short: "Generate main.kt, index.html and markdown pages for a project",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectDir, err := projectDirArg(args)
		if err != nil {
			return err
		}

		result := newBuildService().BuildProject(cmd.Context(), usecase.BuildInput{ProjectDir: projectDir})
		return result.Error
	},
}

package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/3-lines-studio/routegen/internal/usecase"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor [dir]",
	Short: "Check a project and repair its generation directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectDir, err := projectDirArg(args)
		if err != nil {
			return err
		}

		result := newBuildService().Doctor(usecase.BuildInput{ProjectDir: projectDir})
		if result.Error != nil {
			return result.Error
		}
		if !result.Healthy() {
			return errors.New("project has problems")
		}
		output.PrintDone("Project is healthy")
		return nil
	},
}

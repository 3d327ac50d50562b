package main

import (
	"context"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/3-lines-studio/routegen/internal/config"
	"github.com/3-lines-studio/routegen/internal/usecase"
	"github.com/3-lines-studio/routegen/internal/watch"
)

var watchDebounce = watch.DefaultDebounce

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Build, then rebuild whenever sources, resources or config change",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectDir, err := projectDirArg(args)
		if err != nil {
			return err
		}

		cfg, err := config.Load(projectDir)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc := newBuildService()
		input := usecase.BuildInput{ProjectDir: projectDir}
		if result := svc.BuildProject(ctx, input); result.Error != nil {
			output.PrintError("%v", result.Error)
		}

		roots := []string{filepath.Join(projectDir, filepath.FromSlash(config.Dir))}
		for _, root := range cfg.Build.SourceRoots {
			roots = append(roots, filepath.Join(projectDir, filepath.FromSlash(root)))
		}
		roots = append(roots, filepath.Join(projectDir, filepath.FromSlash(cfg.Build.ResourceRoot)))

		genDir := filepath.Join(projectDir, filepath.FromSlash(cfg.Build.GenDir))
		w, err := watch.New(watch.Options{
			Roots:    roots,
			Debounce: watchDebounce,
			Ignore:   func(dir string) bool { return dir == genDir },
			Logger:   logger,
		})
		if err != nil {
			return err
		}

		output.PrintStep("Watching %s for changes (Ctrl+C to stop)", projectDir)
		return w.Run(ctx, func(ctx context.Context, changed []string) {
			logger.Info("change detected", zap.Int("files", len(changed)))
			if result := svc.BuildProject(ctx, input); result.Error != nil {
				output.PrintError("%v", result.Error)
			}
		})
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "quiet period before a rebuild")
}

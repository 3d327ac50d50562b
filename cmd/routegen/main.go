package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/3-lines-studio/routegen/internal/adapters/cli"
	"github.com/3-lines-studio/routegen/internal/adapters/fs"
	"github.com/3-lines-studio/routegen/internal/usecase"
)

var (
	verbose bool
	logger  = zap.NewNop()
	output  = cli.NewOutput()
)

var rootCmd = &cobra.Command{
	Use:   "routegen",
	Short: "Generate the route table and entry point of a Kotlin web site",
	Long: `routegen scans a Kotlin/JS project for @Page and @App functions, compiles
markdown pages, and writes the generated main.kt and index.html.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Encoding = "console"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(buildCmd, routesCmd, watchCmd, initCmd, doctorCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		output.PrintError("%v", err)
		os.Exit(1)
	}
}

// projectDirArg resolves the optional [dir] argument, defaulting to the
// working directory.
func projectDirArg(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project directory: %w", err)
	}
	return abs, nil
}

func newBuildService() *usecase.BuildService {
	return usecase.NewBuildService(fs.NewOSFileSystem(), output, logger)
}

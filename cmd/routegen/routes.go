package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/3-lines-studio/routegen/internal/usecase"
)

var routesCmd = &cobra.Command{
	Use:   "routes [dir]",
	Short: "Print the route table without writing anything",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectDir, err := projectDirArg(args)
		if err != nil {
			return err
		}

		result := newBuildService().ListRoutes(usecase.BuildInput{ProjectDir: projectDir})
		if result.Error != nil {
			return result.Error
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ROUTE\tFUNCTION")
		for _, route := range result.Routes {
			fmt.Fprintf(w, "%s\t%s\n", route.Path, route.FQCN)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\napp: %s\n", result.App)
		paths := make([]string, 0, len(result.Duplicates))
		for path := range result.Duplicates {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		for _, path := range paths {
			fqcns := result.Duplicates[path]
			output.PrintWarning("%s is registered by %d pages: %s", path, len(fqcns), strings.Join(fqcns, ", "))
		}
		return nil
	},
}

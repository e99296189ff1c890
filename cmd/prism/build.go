package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/yacobolo/prism"
	"github.com/yacobolo/prism/internal/report"
)

var buildCmd = &cobra.Command{
	Use:     "build",
	Aliases: []string{"b"},
	Short:   "Update framework barrels from component sources",
	Long: `Discover component files under each tier, parse their metadata and
append missing exports to every framework's tier and root barrels.
Barrels that do not exist are skipped, never created.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runBuild,
}

func init() {
	addBuildFlags(buildCmd.Flags())
	registerFrameworkCompletion(buildCmd)
}

// addBuildFlags registers the flags shared by build and watch.
func addBuildFlags(f *pflag.FlagSet) {
	f.String("out", "packages", "Directory holding one package per framework")
	f.StringSlice("frameworks", nil, "Frameworks to update (default: all)")
	f.StringSlice("tokens", nil, "Stylesheets declaring design tokens")
	f.String("css-dir", "", "Write light-DOM stylesheets into this directory")
	f.Int("concurrency", 8, "Maximum files parsed in parallel")
	f.Bool("gitignore", false, "Skip files matched by the root .gitignore")
	f.String("format", "text", "Output format: text|json")
}

func runBuild(_ *cobra.Command, _ []string) error {
	config, err := buildConfig()
	if err != nil {
		return err
	}

	result, err := prism.Build(config)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	if getBoolWithFallback("quiet", "quiet", false) {
		return nil
	}

	if report.DetermineFormat(getStringWithFallback("format", "build.format", "text")) == report.FormatJSON {
		return report.WriteJSON(os.Stdout, result)
	}

	r := report.NewReporter(os.Stdout, getBoolWithFallback("color", "color", false))
	r.PrintBuild(result)
	return nil
}

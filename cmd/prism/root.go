package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "prism",
	Short: "Multi-framework barrel and style generator for web components",
	Long: `Parse web components once and keep every framework package in sync.
Component metadata drives barrel exports for React, Vue, Svelte, Angular,
Solid, Preact and plain custom elements, plus light-DOM stylesheets.`,
	// Default behavior: run build when no subcommand is given.
	// We must call loadConfig here because PreRunE of buildCmd
	// is not triggered when delegating via rootCmd.RunE.
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		return runBuild(buildCmd, nil)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	pf := rootCmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable verbose logging")
	pf.Bool("quiet", false, "Suppress all output (exit code only)")
	pf.Bool("color", false, "Force color output")
	pf.String("config", ".prism.yaml", "Config file path")
	pf.String("prefix", "", "Class name prefix stripped to build wrapper names (e.g. arc)")
	pf.String("root", ".", "Project root directory")
	pf.String("components", "src/components", "Directory housing the tier directories")
	pf.StringSlice("tiers", nil, "Tier directories to scan, in order")
	pf.StringSlice("ignore", nil, "Ignore patterns (e.g. **/index.js,*.register.js)")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(cssCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

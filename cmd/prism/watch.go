package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/yacobolo/prism"
	"github.com/yacobolo/prism/internal/report"
	"github.com/yacobolo/prism/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild barrels whenever component sources change",
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runWatch,
}

func init() {
	f := watchCmd.Flags()
	addBuildFlags(f)
	f.Duration("debounce", 0, "Quiet period before rebuilding (default 300ms)")
	registerFrameworkCompletion(watchCmd)
}

func runWatch(_ *cobra.Command, _ []string) error {
	config, err := buildConfig()
	if err != nil {
		return err
	}
	logger := config.Logger
	r := report.NewReporter(os.Stdout, getBoolWithFallback("color", "color", false))
	quiet := getBoolWithFallback("quiet", "quiet", false)

	rebuild := func() {
		result, err := prism.Build(config)
		if err != nil {
			logger.Error("build failed", "err", err)
			return
		}
		if !quiet {
			r.PrintBuild(result)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(watch.Config{
		BaseDir:  filepath.Join(config.RootDir, config.Components),
		Patterns: []string{"**/*.js"},
		Ignore:   config.Ignore,
		Debounce: watchDebounce(),
		Logger:   logger,
		OnChange: func(_ context.Context, changed []string) error {
			logger.Info("sources changed, rebuilding", "files", len(changed))
			rebuild()
			return nil
		},
	})
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}

	rebuild()
	logger.Info("watching for changes", "dir", filepath.Join(config.RootDir, config.Components))
	return w.Run(ctx)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yacobolo/prism"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [files...]",
	Short: "Print component metadata as a JSON manifest",
	Long: `Parse component files and print their metadata as JSON.
Without arguments every discovered component is inspected.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runInspect,
}

func runInspect(_ *cobra.Command, args []string) error {
	config, err := buildConfig()
	if err != nil {
		return err
	}
	logger := config.Logger

	files := args
	if len(files) == 0 {
		files, err = prism.DiscoverComponents(config, config.RootDir)
		if err != nil {
			return fmt.Errorf("discovery failed: %w", err)
		}
	}

	var metas []*prism.ComponentMeta
	for _, file := range files {
		meta, err := prism.ParseFile(file, config.Prefix)
		if err != nil {
			return err
		}
		if meta == nil {
			logger.Warn("not a component, skipped", "file", file)
			continue
		}
		metas = append(metas, meta)
	}

	return prism.WriteManifest(os.Stdout, metas)
}

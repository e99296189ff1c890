package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .prism.yaml config file",
	Long:  `Create a .prism.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(".prism.yaml"); err == nil && !force {
			return fmt.Errorf(".prism.yaml already exists (use --force to overwrite)")
		}

		if err := os.WriteFile(".prism.yaml", []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Println("Created .prism.yaml")
		return nil
	},
}

const defaultConfig = `# prism configuration

# Shared settings
prefix: arc
verbose: false
components: src/components
tiers:
  - content
  - reactive
  - application
ignore:
  - "**/index.js"
  - "*.register.js"

# Build settings
build:
  out: packages
  frameworks:          # react | wc | vue | svelte | angular | solid | preact
    - react
    - wc
    - vue
    - svelte
    - angular
    - solid
    - preact
  tokens:
    - src/tokens/tokens.css
  css-dir: ""          # set to write light-DOM stylesheets
  concurrency: 8
  gitignore: false
  format: text         # text | json

# Watch settings
watch:
  debounce: 300ms
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}

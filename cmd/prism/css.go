package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yacobolo/prism"
)

var cssCmd = &cobra.Command{
	Use:   "css <file>",
	Short: "Print the light-DOM stylesheet for a component",
	Long: `Convert a component's shadow-DOM styles into a stylesheet scoped by
the component's tag name, then substitute design tokens.

A .js file is parsed as a component. Any other file is read as raw CSS
and requires --tag.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runCSS,
}

func init() {
	f := cssCmd.Flags()
	f.String("tag", "", "Custom element tag used as the scope")
	f.StringSlice("tokens", nil, "Stylesheets declaring design tokens")
}

func runCSS(cmd *cobra.Command, args []string) error {
	tag, _ := cmd.Flags().GetString("tag")
	cssText, detected, err := readStyles(args[0], getStringWithFallback("prefix", "prefix", ""))
	if err != nil {
		return err
	}
	if tag == "" {
		tag = detected
	}
	if tag == "" {
		return fmt.Errorf("%s: --tag is required for raw CSS input", args[0])
	}

	tokens, err := prism.LoadTokenMap(getStringsWithFallback("tokens", "build.tokens", nil)...)
	if err != nil {
		return err
	}

	out := prism.ResolveTokens(prism.ShadowToLight(cssText, tag), tokens)
	_, err = fmt.Fprint(os.Stdout, strings.TrimSpace(out)+"\n")
	return err
}

// readStyles returns the CSS text of a file and, for components, its tag.
func readStyles(path, prefix string) (string, string, error) {
	if filepath.Ext(path) == ".js" {
		meta, err := prism.ParseFile(path, prefix)
		if err != nil {
			return "", "", err
		}
		if meta == nil {
			return "", "", fmt.Errorf("%s: no custom element definition found", path)
		}
		return meta.CSS, meta.Tag, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), "", nil
}

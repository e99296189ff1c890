package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yacobolo/prism"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate a completion script for prism's commands, flags and framework names.

  prism completion bash > /etc/bash_completion.d/prism
  prism completion zsh > "${fpath[1]}/_prism"
  prism completion fish > ~/.config/fish/completions/prism.fish`,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(out)
		default:
			return rootCmd.GenBashCompletionV2(out, true)
		}
	},
}

// registerFrameworkCompletion completes --frameworks values for cmd.
// It must run after the flag is defined.
func registerFrameworkCompletion(cmd *cobra.Command) {
	complete := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, 0, len(prism.AllFrameworks()))
		for _, fw := range prism.AllFrameworks() {
			names = append(names, string(fw))
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
	if err := cmd.RegisterFlagCompletionFunc("frameworks", complete); err != nil {
		fmt.Fprintf(os.Stderr, "registering completion: %v\n", err)
	}
}

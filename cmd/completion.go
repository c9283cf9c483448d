package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xolan/punch/internal/cli"
)

// shells maps a shell name to its completion generator, in help order
var shells = []struct {
	name string
	gen  func(w io.Writer) error
}{
	{"bash", func(w io.Writer) error { return rootCmd.GenBashCompletion(w) }},
	{"zsh", func(w io.Writer) error { return rootCmd.GenZshCompletion(w) }},
	{"fish", func(w io.Writer) error { return rootCmd.GenFishCompletion(w, true) }},
	{"powershell", func(w io.Writer) error { return rootCmd.GenPowerShellCompletionWithDesc(w) }},
}

func shellNames() []string {
	names := make([]string, len(shells))
	for i, s := range shells {
		names[i] = s.name
	}
	return names
}

var completionCmd = &cobra.Command{
	Use:   "completion <shell>",
	Short: "Print a shell completion script",
	Long: `Print a completion script for bash, zsh, fish or powershell.

Try it in the current shell:
  source <(punch completion bash)
  source <(punch completion zsh)

Install it:
  punch completion bash > ~/.local/share/bash-completion/completions/punch
  punch completion zsh  > "${fpath[1]}/_punch"
  punch completion fish > ~/.config/fish/completions/punch.fish

For PowerShell, add this line to $PROFILE:
  punch completion powershell | Out-String | Invoke-Expression`,
	ValidArgs: shellNames(),
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		generateCompletion(args[0])
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// generateCompletion writes the script for shell to stdout
func generateCompletion(shell string) {
	deps := cli.GetDeps()

	for _, s := range shells {
		if s.name != shell {
			continue
		}
		if err := s.gen(deps.Stdout); err != nil {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Failed to generate %s completion: %v\n", shell, err)
			deps.Exit(1)
		}
		return
	}

	_, _ = fmt.Fprintf(deps.Stderr, "Error: Unsupported shell '%s'\n", shell)
	_, _ = fmt.Fprintf(deps.Stderr, "Supported shells: %s\n", strings.Join(shellNames(), ", "))
	deps.Exit(1)
}

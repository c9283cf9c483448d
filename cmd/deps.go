package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/xolan/punch/internal/cli"
)

// SetDeps sets the dependencies every command uses (for testing).
func SetDeps(d *cli.Deps) {
	cli.SetDeps(d)
}

// ResetDeps resets dependencies to defaults (for testing cleanup).
func ResetDeps() {
	cli.ResetDeps()
}

// withDeps adapts a handler to a cobra Run func. Services are opened before
// the handler runs and closed after it returns.
func withDeps(fn func(ctx context.Context, d *cli.Deps, args []string)) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		d := cli.GetDeps()
		if !d.Ready() {
			return
		}
		defer d.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		fn(ctx, d, args)
	}
}

// optionalArg returns args[0], or "" when there are no args.
func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

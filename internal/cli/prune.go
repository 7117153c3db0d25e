package cli

import (
	"github.com/spf13/cobra"

	"glu.dev/glu/internal/list"
	"glu.dev/glu/internal/runtime"
)

// newPruneCmd creates the prune command
func newPruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Drop tracking entries for branches that no longer exist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := runtime.NewContext(".")
			if err != nil {
				return err
			}
			defer ctx.Close()

			useCase := list.New(ctx.Repo, ctx.Store)
			removed, err := useCase.Prune()
			if err != nil {
				return err
			}

			if removed == 0 {
				ctx.Splog.Info("Nothing to prune.")
			} else {
				ctx.Splog.Info("Pruned %d stale location(s).", removed)
			}
			return nil
		},
	}
}

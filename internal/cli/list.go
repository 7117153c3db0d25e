package cli

import (
	"github.com/spf13/cobra"

	"glu.dev/glu/internal/list"
	"glu.dev/glu/internal/output"
	"glu.dev/glu/internal/runtime"
	"glu.dev/glu/internal/tracking"
)

// newListCmd creates the list command
func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show tracked commits and every branch where they live",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := runtime.NewContext(".")
			if err != nil {
				return err
			}
			defer ctx.Close()

			useCase := list.New(ctx.Repo, ctx.Store)
			tracked, err := useCase.Tracked()
			if err != nil {
				return err
			}

			if len(tracked) == 0 {
				ctx.Splog.Info("No tracked commits. Run 'glu review' to publish some.")
				return nil
			}

			for _, tc := range tracked {
				subject := tc.Subject
				if subject == "" {
					subject = "(unresolvable)"
				}
				ctx.Splog.Info("%s  %s", output.IdentityStyle.Render(tc.ID), subject)
				for _, loc := range tc.Locations {
					ctx.Splog.Info("    %s %s  %s",
						output.HashStyle.Render(output.ShortHash(loc.CommitHash)),
						output.BranchStyle.Render(loc.Branch),
						renderStatus(loc))
				}
				if len(tc.Stale) > 0 {
					ctx.Splog.Info("    (%d stale location(s); run 'glu prune')", len(tc.Stale))
				}
			}
			return nil
		},
	}
}

func renderStatus(loc tracking.Location) string {
	if loc.Status == tracking.StatusPushed {
		status := "pushed"
		if loc.Remote != "" {
			status += " -> " + loc.Remote
		}
		return output.PushedStyle.Render(status)
	}
	return output.UnpushedStyle.Render("unpushed")
}

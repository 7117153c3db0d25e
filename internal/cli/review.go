package cli

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"glu.dev/glu/internal/forge"
	"glu.dev/glu/internal/output"
	"glu.dev/glu/internal/review"
	"glu.dev/glu/internal/runtime"
)

// newReviewCmd creates the review command
func newReviewCmd() *cobra.Command {
	var (
		branchName string
		force      bool
		push       bool
		remote     string
		openPR     bool
		draft      bool
	)

	cmd := &cobra.Command{
		Use:   "review <range>",
		Short: "Publish a range of stacked commits as an independent review branch",
		Long: `Publish commits from the unpushed stack as an independent review branch.

The range selects 1-based positions in the unpushed stack, oldest first:
"2" picks the second commit, "1-3" picks the first three. Selected commits
are tagged with a Glu-ID trailer (rewriting the stack in place if needed),
cherry-picked onto a branch based at the upstream, and recorded in the
tracking graph.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := review.ParseRange(args[0])
			if err != nil {
				return err
			}

			ctx, err := runtime.NewContext(".")
			if err != nil {
				return err
			}
			defer ctx.Close()

			if force && output.IsTerminal() {
				confirmed := false
				prompt := &survey.Confirm{
					Message: "--force will replace an existing review branch of the same name. Continue?",
				}
				if err := survey.AskOne(prompt, &confirmed); err != nil || !confirmed {
					ctx.Splog.Info("Aborted.")
					return nil
				}
			}

			opts := review.Options{
				Start:      start,
				End:        end,
				BranchName: branchName,
				Force:      force,
				Push:       push || openPR,
				Remote:     remote,
				Progress: func(step review.Step) {
					ctx.Splog.Debug("-> %s", step)
				},
			}

			useCase := review.New(ctx.Repo, ctx.Store, ctx.Config, ctx.Splog)
			result, err := useCase.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}

			ctx.Splog.Newline()
			ctx.Splog.Info("%s Created review branch %s with %d commit(s)",
				output.SuccessStyle.Render("✓"),
				output.BranchStyle.Render(result.BranchName), len(result.Commits))
			if result.IdentitiesInjected > 0 {
				ctx.Splog.Info("Tagged %d commit(s) with a new Glu-ID", result.IdentitiesInjected)
			}
			for _, commit := range result.Commits {
				ctx.Splog.Info("  %s %s", output.HashStyle.Render(output.ShortHash(commit.Hash)), commit.Subject)
			}
			if result.Pushed {
				ctx.Splog.Info("Pushed to %s", remoteOrDefault(remote, ctx))
			}

			if openPR {
				if err := createPullRequest(cmd, ctx, result); err != nil {
					ctx.Splog.Warn("branch pushed but PR creation failed: %v", err)
					return nil
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&branchName, "branch-name", "b", "", "Name for the review branch (default: derived from the first commit subject)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing branch of the same name")
	cmd.Flags().BoolVarP(&push, "push", "p", false, "Push the review branch to the remote")
	cmd.Flags().StringVar(&remote, "remote", "", "Remote to push to (default: configured remote)")
	cmd.Flags().BoolVar(&openPR, "pr", false, "Push and open a draft pull request (implies --push)")
	cmd.Flags().BoolVar(&draft, "draft", true, "Open the pull request as a draft (with --pr)")

	return cmd
}

func remoteOrDefault(remote string, ctx *runtime.Context) string {
	if remote != "" {
		return remote
	}
	return ctx.Config.GetRemote()
}

func createPullRequest(cmd *cobra.Command, ctx *runtime.Context, result *review.Result) error {
	remote := ctx.Config.GetRemote()
	remoteURL, err := ctx.Repo.RemoteURL(cmd.Context(), remote)
	if err != nil {
		return err
	}

	client, err := forge.NewGitHubClient(cmd.Context(), remoteURL)
	if err != nil {
		return err
	}

	upstream, err := ctx.Repo.Upstream(cmd.Context())
	if err != nil {
		return err
	}
	base := upstream
	if len(base) > len(remote)+1 && base[:len(remote)+1] == remote+"/" {
		base = base[len(remote)+1:]
	}

	draft, _ := cmd.Flags().GetBool("draft")
	pr, err := client.CreatePullRequest(cmd.Context(), forge.CreatePROptions{
		Title: result.Commits[0].Subject,
		Body:  fmt.Sprintf("Review branch created by glu (%d commits).", len(result.Commits)),
		Head:  result.BranchName,
		Base:  base,
		Draft: draft,
	})
	if err != nil {
		return err
	}

	ctx.Splog.Info("Opened pull request #%d: %s", pr.Number, pr.HTMLURL)
	return nil
}

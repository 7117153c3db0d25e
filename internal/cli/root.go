// Package cli defines the glu command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "glu",
		Short: "Glu extracts commits from your patch stack into independent review branches",
		Long: `Glu extracts arbitrary subsets of your patch stack into independent review
branches, tracking each logical commit across amends, rebases and
cherry-picks via a persistent Glu-ID commit trailer.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newReviewCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newPruneCmd())
	rootCmd.AddCommand(newVersionCmd(version, commit, date))

	return rootCmd
}

func newVersionCmd(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Printf("glu %s (%s, built %s)\n", version, commit, date)
		},
	}
}

package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles for terminal rendering. Lipgloss degrades gracefully when the
// output is not a terminal, but callers can also check IsTerminal to skip
// decoration entirely.
var (
	SuccessStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	WarningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	ErrorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	BranchStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	HashStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	IdentityStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	PushedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	UnpushedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// IsTerminal reports whether stdout is attached to a terminal
func IsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// ShortHash abbreviates a commit hash for display. Hashes shorter than the
// abbreviated length are returned as-is.
func ShortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

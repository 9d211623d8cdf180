package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
)

// Palette shared by every command.
var (
	colourSuccess = lipgloss.Color("#A6E3A1")
	colourWarning = lipgloss.Color("#F9E2AF")
	colourError   = lipgloss.Color("#F38BA8")
	colourMuted   = lipgloss.Color("#6C7086")
	colourTitle   = lipgloss.Color("#7C3AED")
)

// styles are bound to a command's output so colour is dropped when the
// output is not a terminal.
type styles struct {
	Title   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
}

func newStyles(cmd *cobra.Command) styles {
	r := lipgloss.NewRenderer(cmd.OutOrStdout())
	return styles{
		Title:   r.NewStyle().Bold(true).Foreground(colourTitle),
		Success: r.NewStyle().Foreground(colourSuccess),
		Warning: r.NewStyle().Foreground(colourWarning),
		Error:   r.NewStyle().Foreground(colourError),
		Muted:   r.NewStyle().Foreground(colourMuted),
	}
}

// status renders a validation status as an upper-case badge.
func (s styles) status(v domain.ValidationStatus) string {
	switch v {
	case domain.ValidationPass:
		return s.Success.Render("PASS")
	case domain.ValidationFail:
		return s.Warning.Render("FAIL")
	default:
		return s.Error.Render("ERROR")
	}
}

// syncStatus renders a sync status.
func (s styles) syncStatus(v domain.SyncStatus) string {
	switch v {
	case domain.SyncSuccess:
		return s.Success.Render(string(v))
	case domain.SyncNotFound:
		return s.Warning.Render(string(v))
	default:
		return s.Error.Render(string(v))
	}
}

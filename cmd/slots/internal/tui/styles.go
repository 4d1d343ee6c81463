// Package tui runs the demo components in a terminal. bubbletea owns the
// event loop: every message is turned into handler calls on the current
// component output, then the scheduler is flushed before the next View.
package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by the demo views.
type Styles struct {
	Title    lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Card     lipgloss.Style
	Hovered  lipgloss.Style
}

// DefaultStyles returns the default palette.
func DefaultStyles() Styles {
	accent := lipgloss.AdaptiveColor{Light: "#5A3FC0", Dark: "#A78BFA"}
	muted := lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(muted).
		Width(cardWidth).
		MarginRight(cardGap)

	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		Item:     lipgloss.NewStyle().PaddingLeft(2),
		Selected: lipgloss.NewStyle().PaddingLeft(1).Foreground(accent).Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true),
		Card:     card,
		Hovered:  card.BorderForeground(accent).Foreground(accent).Bold(true),
	}
}

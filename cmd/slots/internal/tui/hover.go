package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/go-drift/slots/cmd/slots/internal/demo"
	"github.com/go-drift/slots/pkg/core"
)

const (
	cardWidth  = 14
	cardGap    = 1
	cardHeight = 4 // border, label, visits, border
	cardsTop   = 2 // title and a blank line
)

// cardStride is the horizontal distance between the left edges of two cards.
const cardStride = cardWidth + 2 + cardGap

// HoverModel is the bubbletea model of the hover demo. Mouse motion is
// hit-tested against the card row and translated into enter and leave
// handler calls; left and right move a virtual pointer for terminals
// without mouse reporting.
type HoverModel struct {
	scheduler *core.Scheduler
	cards     []*core.Instance[demo.CardView]
	pointer   int
	styles    Styles
	logger    *zap.Logger
	err       error
}

// NewHoverModel wraps mounted HoverCard instances.
func NewHoverModel(s *core.Scheduler, cards []*core.Instance[demo.CardView], logger *zap.Logger) HoverModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return HoverModel{
		scheduler: s,
		cards:     cards,
		pointer:   -1,
		styles:    DefaultStyles(),
		logger:    logger,
	}
}

// Init does nothing.
func (m HoverModel) Init() tea.Cmd {
	return nil
}

// Err returns the error that stopped the model, if any.
func (m HoverModel) Err() error {
	return m.err
}

// Pointer returns the index of the card under the pointer, or -1.
func (m HoverModel) Pointer() int {
	return m.pointer
}

// Update handles messages.
func (m HoverModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit
		case "right", "tab":
			m = m.movePointer(min(m.pointer+1, len(m.cards)-1))
		case "left", "shift+tab":
			m = m.movePointer(max(m.pointer-1, 0))
		case "x":
			m = m.movePointer(-1)
		}
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionMotion || msg.Action == tea.MouseActionPress {
			m = m.movePointer(HitTest(msg.X, msg.Y, len(m.cards)))
		}
	}

	if err := m.scheduler.Flush(); err != nil {
		m.logger.Error("flush failed", zap.Error(err))
		m.err = err
		return m, tea.Quit
	}
	return m, nil
}

// movePointer sends leave to the card the pointer left and enter to the one
// it entered.
func (m HoverModel) movePointer(next int) HoverModel {
	if next >= len(m.cards) {
		next = -1
	}
	if next == m.pointer {
		return m
	}
	if m.pointer >= 0 {
		m.cards[m.pointer].Output().OnPointerLeave()
	}
	if next >= 0 {
		m.cards[next].Output().OnPointerEnter()
	}
	m.logger.Debug("pointer moved", zap.Int("from", m.pointer), zap.Int("to", next))
	m.pointer = next
	return m
}

// HitTest returns the index of the card drawn at cell (x, y), or -1.
func HitTest(x, y, cards int) int {
	if y < cardsTop || y >= cardsTop+cardHeight || x < 0 {
		return -1
	}
	i := x / cardStride
	if i >= cards || x%cardStride >= cardStride-cardGap {
		return -1
	}
	return i
}

// View renders the card row.
func (m HoverModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Hover the cards"))
	b.WriteString("\n\n")

	rendered := make([]string, len(m.cards))
	for i, card := range m.cards {
		view := card.Output()
		style := m.styles.Card
		if view.Hovering {
			style = m.styles.Hovered
		}
		rendered[i] = style.Render(fmt.Sprintf("%s\nvisits: %d", view.Label, view.Visits))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Muted.Render("mouse or left/right to hover • x to leave • q quit"))
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(m.err.Error()))
	}
	b.WriteString("\n")
	return b.String()
}

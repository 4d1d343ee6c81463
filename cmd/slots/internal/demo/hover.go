package demo

import (
	"fmt"

	"github.com/go-drift/slots/pkg/core"
	"github.com/go-drift/slots/pkg/hooks"
)

// CardView is the output of HoverCard.
type CardView struct {
	Label    string
	Hovering bool
	// Visits counts pointer entries over the card's lifetime.
	Visits int
	hooks.HoverHandlers
}

// HoverCard returns a component that highlights while the pointer is over
// it. Every mounted card tracks its own hover state.
func HoverCard(label string) core.Component[CardView] {
	return func(h *core.Hooks) CardView {
		hovering, handlers := hooks.UseHover(h)
		visits := core.UseRef(h, 0)
		wasHovering := core.UseRef(h, false)
		if hovering && !wasHovering.Current {
			visits.Current++
		}
		wasHovering.Current = hovering

		return CardView{
			Label:         label,
			Hovering:      hovering,
			Visits:        visits.Current,
			HoverHandlers: handlers,
		}
	}
}

// HoverBoard mounts n independent hover cards on s.
func HoverBoard(s *core.Scheduler, n int) ([]*core.Instance[CardView], error) {
	cards := make([]*core.Instance[CardView], 0, n)
	for i := range n {
		card, err := core.Mount(s, fmt.Sprintf("HoverCard[%d]", i), HoverCard(fmt.Sprintf("Card %d", i+1)))
		if err != nil {
			return cards, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

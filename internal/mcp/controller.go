package mcp

import (
	"context"
	"fmt"

	"github.com/peterkuimelis/purrsevere/internal/game"
	"github.com/peterkuimelis/purrsevere/internal/log"
	"github.com/peterkuimelis/purrsevere/internal/net"
)

// MCPController implements game.Controller for the owner's seat by posting
// decisions to the session's pending channel and blocking on a response
// channel.
type MCPController struct {
	session    *GameSession
	responseCh chan int
}

// NewMCPController creates the owner's controller for session.
func NewMCPController(session *GameSession) *MCPController {
	return &MCPController{
		session:    session,
		responseCh: make(chan int),
	}
}

func (c *MCPController) await(ctx context.Context, pending *PendingDecision) (int, error) {
	select {
	case c.session.pendingCh <- pending:
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	select {
	case idx := <-c.responseCh:
		return idx, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// ChooseDeck implements game.Controller.
func (c *MCPController) ChooseDeck(ctx context.Context, decks []game.Deck) (int, error) {
	views := make([]net.DeckView, len(decks))
	for i, d := range decks {
		views[i] = net.DeckView{Index: i, Cards: net.NewCardViews(d)}
	}
	return c.await(ctx, &PendingDecision{Type: DecisionChooseDeck, Decks: views})
}

// ChooseCard implements game.Controller.
func (c *MCPController) ChooseCard(ctx context.Context, view game.TurnView) (*game.Card, error) {
	idx, err := c.await(ctx, &PendingDecision{
		Type: DecisionChooseCard,
		State: &net.StateView{
			Turn: view.Turn,
			You:  net.NewPlayerView(view.Self),
			Foe:  net.NewPlayerView(view.Foe),
		},
		Cards: net.NewCardViews(view.Deck),
	})
	if err != nil {
		return nil, err
	}
	// play_card validates the index; this guards direct callers
	if idx < 0 || idx >= view.Deck.Len() {
		return nil, fmt.Errorf("card %d is not in a %d-card deck", idx+1, view.Deck.Len())
	}
	return view.Deck.Card(idx), nil
}

// Notify implements game.Controller.
func (c *MCPController) Notify(ctx context.Context, event log.GameEvent) error {
	c.session.appendEvent(*net.NewEventView(event))
	return nil
}

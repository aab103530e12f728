package console

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/peterkuimelis/purrsevere/internal/game"
	"github.com/peterkuimelis/purrsevere/internal/log"
)

// Controller implements game.Controller for a player at a local terminal.
type Controller struct {
	name   string
	prompt *Prompter
	out    io.Writer
}

// NewController creates a terminal controller for the player called name.
func NewController(name string, in io.Reader, out io.Writer) *Controller {
	return &Controller{name: name, prompt: NewPrompter(in, out), out: out}
}

// ChooseDeck implements game.Controller.
func (c *Controller) ChooseDeck(ctx context.Context, decks []game.Deck) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	WriteDecks(c.out, DeckLines(decks))
	return c.prompt.Choice("Choose your deck: ", len(decks))
}

// ChooseCard implements game.Controller.
func (c *Controller) ChooseCard(ctx context.Context, view game.TurnView) (*game.Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if view.Deck.Len() == 0 {
		return nil, fmt.Errorf("%w: nothing to play", game.ErrEmptyDeck)
	}
	idx, err := c.prompt.CardMenu(CardLines(view.Deck), StatLines(view.Self, view.Foe))
	if err != nil {
		return nil, err
	}
	return view.Deck.Card(idx), nil
}

// Notify implements game.Controller.
func (c *Controller) Notify(ctx context.Context, event log.GameEvent) error {
	if text := Narrate(event, c.name); text != "" {
		_, err := io.WriteString(c.out, text)
		return err
	}
	return nil
}

// PlayAgain asks whether to start another match. Closed input counts as no.
func (c *Controller) PlayAgain() (bool, error) {
	answer, err := c.prompt.Word("Play again? (yes/no): ", "yes", "y", "no", "n")
	if errors.Is(err, ErrInputClosed) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return answer == "yes" || answer == "y", nil
}

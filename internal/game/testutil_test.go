package game

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/peterkuimelis/purrsevere/internal/log"
)

// ScriptedController is a Controller that follows a predefined script.
// Used in tests to deterministically drive a match.
type ScriptedController struct {
	t     *testing.T
	name  string
	deck  int
	cards []string
	pos   int

	notified []log.GameEvent
}

func NewScriptedController(t *testing.T, name string) *ScriptedController {
	return &ScriptedController{t: t, name: name}
}

// WithDeck sets the deck index returned by ChooseDeck.
func (sc *ScriptedController) WithDeck(i int) *ScriptedController {
	sc.deck = i
	return sc
}

// AddCard queues a card (by name) for the next turn.
func (sc *ScriptedController) AddCard(name string) *ScriptedController {
	sc.cards = append(sc.cards, name)
	return sc
}

func (sc *ScriptedController) ChooseDeck(ctx context.Context, decks []Deck) (int, error) {
	return sc.deck, nil
}

func (sc *ScriptedController) ChooseCard(ctx context.Context, view TurnView) (*Card, error) {
	if sc.pos >= len(sc.cards) {
		// Default: the first card in the deck
		return view.Deck.Card(0), nil
	}
	name := sc.cards[sc.pos]
	sc.pos++
	for _, c := range view.Deck.Cards() {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("[%s] card %q not in deck %v", sc.name, name, view.Deck.Names())
}

func (sc *ScriptedController) Notify(ctx context.Context, event log.GameEvent) error {
	sc.notified = append(sc.notified, event)
	return nil
}

// --- Test card helpers ---

func attackCard(name string, lo, hi int, power, accuracy float64) *Card {
	return &Card{
		Name:        name,
		Description: name + " hits",
		Type:        CardTypeAttack,
		Damage:      DamageRange{Min: lo, Max: hi},
		PowerLevel:  power,
		Accuracy:    accuracy,
	}
}

func modifierCard(name string, ct CardType, factor, power, accuracy float64) *Card {
	return &Card{
		Name:        name,
		Description: name + " applies",
		Type:        ct,
		Factor:      factor,
		PowerLevel:  power,
		Accuracy:    accuracy,
	}
}

func seeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// runMatchToCompletion runs a match and returns the logger for inspection.
func runMatchToCompletion(t *testing.T, cfg MatchConfig, owner, cat Controller) (*Match, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	cfg.Logger = logger
	if cfg.Rand == nil {
		cfg.Rand = seeded(1)
	}

	m := NewMatch(cfg, owner, cat)
	state, err := m.Run(context.Background())
	if err != nil {
		t.Logf("Event log:\n%s", log.FormatAll(logger.Events()))
		t.Fatalf("Match error: %v", err)
	}

	t.Logf("Match result: %s (%s)", state, m.Result)
	t.Logf("Event log:\n%s", log.FormatAll(logger.Events()))
	return m, logger
}

package web

import (
	"fmt"

	"github.com/peterkuimelis/purrsevere/internal/game"
	purrnet "github.com/peterkuimelis/purrsevere/internal/net"
)

// CardInfo is the JSON representation of a card for the /api/cards endpoint.
type CardInfo struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	CardType    string  `json:"cardType"`
	MinDamage   int     `json:"minDamage,omitempty"`
	MaxDamage   int     `json:"maxDamage,omitempty"`
	Factor      float64 `json:"factor,omitempty"`
	Power       float64 `json:"power"`
	Accuracy    float64 `json:"accuracy"`
	Summary     string  `json:"summary"`
}

// DeckInfo is the JSON body of the /api/decks endpoint.
type DeckInfo struct {
	Side  string             `json:"side"`
	Seed  int64              `json:"seed"`
	Decks []purrnet.DeckView `json:"decks"`
}

func newCardInfos(catalog []*game.Card) []CardInfo {
	cards := make([]CardInfo, 0, len(catalog))
	for _, c := range catalog {
		ci := CardInfo{
			Name:        c.Name,
			Description: c.Description,
			CardType:    c.Type.String(),
			Power:       c.PowerLevel,
			Accuracy:    c.Accuracy,
			Summary:     c.String(),
		}
		if c.Type == game.CardTypeAttack {
			ci.MinDamage = c.Damage.Min
			ci.MaxDamage = c.MaxDamage()
		} else {
			ci.Factor = c.Factor
		}
		cards = append(cards, ci)
	}
	return cards
}

// sampleDecks deals the decks a match with seed would offer to side. Both
// sides are drawn in match order, player first, so the cat decks shown are
// the ones that match would really offer. A zero seed draws a fresh one,
// which is reported back.
func sampleDecks(player, cat []*game.Card, side string, seed int64) ([]purrnet.DeckView, int64, error) {
	rng, seed, err := game.NewRand(seed)
	if err != nil {
		return nil, 0, err
	}
	mc, err := game.NewMatchConfig(game.Rules{}, rng, player, cat)
	if err != nil {
		return nil, 0, fmt.Errorf("build decks: %w", err)
	}
	decks := mc.PlayerDecks
	if side == "cat" {
		decks = mc.CatDecks
	}
	views := make([]purrnet.DeckView, len(decks))
	for i, d := range decks {
		views[i] = purrnet.DeckView{Index: i, Cards: purrnet.NewCardViews(d)}
	}
	return views, seed, nil
}

package game

import (
	"cmp"
	"fmt"
	"math/rand"
	"slices"
)

// Deck is an ordered, immutable sequence of cards.
type Deck struct {
	cards []*Card
}

// NewDeck returns a deck holding the given cards in order.
func NewDeck(cards ...*Card) Deck {
	return Deck{cards: slices.Clone(cards)}
}

// Cards returns a copy of the deck's cards.
func (d Deck) Cards() []*Card {
	return slices.Clone(d.cards)
}

// Len returns the number of cards in the deck.
func (d Deck) Len() int {
	return len(d.cards)
}

// Card returns the i-th card (0-indexed).
func (d Deck) Card(i int) *Card {
	return d.cards[i]
}

// Contains reports whether this exact card is part of the deck.
func (d Deck) Contains(card *Card) bool {
	return slices.Contains(d.cards, card)
}

// TotalPower sums the power level of every card.
func (d Deck) TotalPower() float64 {
	total := 0.0
	for _, c := range d.cards {
		total += c.PowerLevel
	}
	return total
}

// OfType returns the cards of the given type in deck order.
func (d Deck) OfType(t CardType) []*Card {
	var result []*Card
	for _, c := range d.cards {
		if c.Type == t {
			result = append(result, c)
		}
	}
	return result
}

// Attacks returns the attack cards in deck order.
func (d Deck) Attacks() []*Card {
	return d.OfType(CardTypeAttack)
}

// Modifiers returns the buff and debuff cards in deck order.
func (d Deck) Modifiers() []*Card {
	var result []*Card
	for _, c := range d.cards {
		if c.Type.IsModifier() {
			result = append(result, c)
		}
	}
	return result
}

// Names returns the card names in deck order.
func (d Deck) Names() []string {
	names := make([]string, len(d.cards))
	for i, c := range d.cards {
		names[i] = c.Name
	}
	return names
}

// BuildDeck assembles a deck from catalog under a card-count and power
// budget. The deck always starts with one random attack and one random
// modifier; the remaining slots are filled from the rest of the catalog,
// dropping cards that no longer fit the budget. The last slot goes to one of
// the most powerful cards that still fits.
func BuildDeck(rng *rand.Rand, catalog []*Card, maxCount int, maxPower float64) (Deck, error) {
	if maxCount < 2 {
		return Deck{}, fmt.Errorf("deck needs room for at least 2 cards, got %d", maxCount)
	}

	var attacks, modifiers []*Card
	for _, c := range catalog {
		switch {
		case c.Type == CardTypeAttack:
			attacks = append(attacks, c)
		case c.Type.IsModifier():
			modifiers = append(modifiers, c)
		}
	}
	if len(attacks) == 0 {
		return Deck{}, fmt.Errorf("%w: no attack cards", ErrMalformedCatalog)
	}
	if len(modifiers) == 0 {
		return Deck{}, fmt.Errorf("%w: no buff or debuff cards", ErrMalformedCatalog)
	}

	// The seed pair must fit the budget together, so the attack is drawn
	// from those that leave room for the cheapest modifier.
	cheapestModifier := slices.MinFunc(modifiers, byPower)
	var seedAttacks []*Card
	for _, a := range attacks {
		if fits(a.PowerLevel, cheapestModifier, maxPower) {
			seedAttacks = append(seedAttacks, a)
		}
	}
	if len(seedAttacks) == 0 {
		return Deck{}, fmt.Errorf("%w: no attack and modifier pair fits power %.4g", ErrMalformedCatalog, maxPower)
	}

	var deck []*Card
	power := 0.0

	attack := seedAttacks[rng.Intn(len(seedAttacks))]
	attacks = remove(attacks, attack)
	deck = append(deck, attack)
	power += attack.PowerLevel

	seedModifiers := affordable(modifiers, power, maxPower)
	if len(seedModifiers) == 0 {
		return Deck{}, fmt.Errorf("%w: no modifier fits beside %s within power %.4g", ErrMalformedCatalog, attack.Name, maxPower)
	}
	modifier := seedModifiers[rng.Intn(len(seedModifiers))]
	modifiers = remove(modifiers, modifier)
	deck = append(deck, modifier)
	power += modifier.PowerLevel

	pool := append(attacks, modifiers...)
	slices.SortStableFunc(pool, func(a, b *Card) int {
		return byPower(b, a)
	})

	for len(deck) < maxCount && len(pool) > 0 {
		// pool is sorted strongest first, so everything over budget is a prefix
		skip := 0
		for skip < len(pool) && !fits(power, pool[skip], maxPower) {
			skip++
		}
		pool = pool[skip:]
		if len(pool) == 0 {
			break
		}

		var idx int
		if len(deck)+1 == maxCount {
			tied := 1
			for tied < len(pool) && pool[tied].PowerLevel == pool[0].PowerLevel {
				tied++
			}
			idx = rng.Intn(tied)
		} else {
			idx = rng.Intn(len(pool))
		}

		card := pool[idx]
		pool = slices.Delete(pool, idx, idx+1)
		deck = append(deck, card)
		power += card.PowerLevel
	}

	return Deck{cards: deck}, nil
}

// BuildDecks builds n independent decks from the same catalog.
func BuildDecks(rng *rand.Rand, catalog []*Card, n, maxCount int, maxPower float64) ([]Deck, error) {
	decks := make([]Deck, 0, n)
	for i := 0; i < n; i++ {
		d, err := BuildDeck(rng, catalog, maxCount, maxPower)
		if err != nil {
			return nil, fmt.Errorf("build deck %d: %w", i+1, err)
		}
		decks = append(decks, d)
	}
	return decks, nil
}

func byPower(a, b *Card) int {
	return cmp.Compare(a.PowerLevel, b.PowerLevel)
}

// fits reports whether card can join a deck already holding power. The sum
// is compared against the cap, the same way the deck total is computed, so
// a deck never ends up over budget through rounding.
func fits(power float64, card *Card, maxPower float64) bool {
	return power+card.PowerLevel <= maxPower
}

func affordable(cards []*Card, power, maxPower float64) []*Card {
	var result []*Card
	for _, c := range cards {
		if fits(power, c, maxPower) {
			result = append(result, c)
		}
	}
	return result
}

// remove returns a new slice without the first occurrence of card.
func remove(cards []*Card, card *Card) []*Card {
	result := make([]*Card, 0, len(cards))
	removed := false
	for _, c := range cards {
		if !removed && c == card {
			removed = true
			continue
		}
		result = append(result, c)
	}
	return result
}

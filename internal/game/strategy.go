package game

import (
	"cmp"
	"context"
	"fmt"
	"math/rand"
	"slices"

	"github.com/peterkuimelis/purrsevere/internal/log"
)

// AttackChance is the probability the cat picks an attack over a modifier
// when no rule forces its hand.
const AttackChance = 0.7

// ChooseCatCard picks the cat's card for this turn. In order:
//
//  1. Panic: once per match, if any owner attack doubled could finish the
//     cat, play the strongest defense buff.
//  2. Lethal: play the strongest attack if it can finish the owner.
//  3. Otherwise an attack with probability AttackChance, else a modifier.
//
// The only side effect is bumping cat.FearCount when the panic rule fires.
func ChooseCatCard(rng *rand.Rand, catHP, ownerHP int, catDeck, ownerDeck Deck, cat *Player) (*Card, error) {
	if cat.FearCount == 1 {
		if guards := catDeck.OfType(CardTypeDefenseBuff); len(guards) > 0 {
			for _, attack := range ownerDeck.Attacks() {
				if attack.MaxDamage()*2 >= catHP {
					slices.SortStableFunc(guards, func(a, b *Card) int {
						return cmp.Compare(b.Factor, a.Factor)
					})
					cat.FearCount++
					return guards[0], nil
				}
			}
		}
	}

	attacks := catDeck.Attacks()
	if len(attacks) == 0 {
		return nil, fmt.Errorf("%w: cat holds no attack cards", ErrEmptyDeck)
	}
	slices.SortStableFunc(attacks, func(a, b *Card) int {
		return cmp.Compare(b.MaxDamage(), a.MaxDamage())
	})
	if attacks[0].MaxDamage() >= ownerHP {
		return attacks[0], nil
	}

	modifiers := catDeck.Modifiers()
	if rng.Float64() < AttackChance || len(modifiers) == 0 {
		return attacks[rng.Intn(len(attacks))], nil
	}
	return modifiers[rng.Intn(len(modifiers))], nil
}

// CatController drives the cat's side of a match with ChooseCatCard.
type CatController struct {
	rng *rand.Rand
}

// NewCatController creates a cat controller drawing from rng.
func NewCatController(rng *rand.Rand) *CatController {
	return &CatController{rng: rng}
}

// ChooseDeck implements Controller. The cat takes any offered deck.
func (c *CatController) ChooseDeck(ctx context.Context, decks []Deck) (int, error) {
	if len(decks) == 0 {
		return 0, fmt.Errorf("%w: no decks offered", ErrEmptyDeck)
	}
	return c.rng.Intn(len(decks)), nil
}

// ChooseCard implements Controller.
func (c *CatController) ChooseCard(ctx context.Context, view TurnView) (*Card, error) {
	return ChooseCatCard(c.rng, view.Self.HP, view.Foe.HP, view.Deck, view.FoeDeck, view.Self)
}

// Notify implements Controller.
func (c *CatController) Notify(ctx context.Context, event log.GameEvent) error {
	return nil
}

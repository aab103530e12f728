package game

import (
	"errors"
	"fmt"
	"testing"
)

func TestBuildDeckInvariantsHoldAcrossSeeds(t *testing.T) {
	catalog, err := LoadDefaultCatalog(PlayerCatalogFile)
	if err != nil {
		t.Fatal(err)
	}

	for seed := int64(1); seed <= 200; seed++ {
		deck, err := BuildDeck(seeded(seed), catalog, MaxDeckCards, MaxDeckPower)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if deck.TotalPower() > MaxDeckPower {
			t.Fatalf("seed %d: power %v exceeds %v", seed, deck.TotalPower(), MaxDeckPower)
		}
		if deck.Len() > MaxDeckCards {
			t.Fatalf("seed %d: %d cards exceeds %d", seed, deck.Len(), MaxDeckCards)
		}
		if len(deck.Attacks()) == 0 || len(deck.Modifiers()) == 0 {
			t.Fatalf("seed %d: deck lacks an attack or modifier: %v", seed, deck.Names())
		}
		if deck.Card(0).Type != CardTypeAttack || !deck.Card(1).Type.IsModifier() {
			t.Fatalf("seed %d: deck must open with an attack then a modifier: %v", seed, deck.Names())
		}
		if len(deck.OfType(CardTypeDefense)) != 0 {
			t.Fatalf("seed %d: defense cards are never drafted: %v", seed, deck.Names())
		}

		seen := make(map[*Card]bool)
		for _, c := range deck.Cards() {
			if seen[c] {
				t.Fatalf("seed %d: card %s drafted twice", seed, c.Name)
			}
			seen[c] = true
		}
	}
}

func TestBuildDeckTwoCardCatalog(t *testing.T) {
	strike := attackCard("Strike", 10, 20, 5, 1.0)
	rage := modifierCard("Rage", CardTypeAttackBuff, 1.5, 5, 1.0)

	deck, err := BuildDeck(seeded(1), []*Card{strike, rage}, 6, 15)
	if err != nil {
		t.Fatalf("BuildDeck: %v", err)
	}
	if deck.Len() != 2 {
		t.Fatalf("expected 2 cards, got %v", deck.Names())
	}
	if deck.Card(0) != strike || deck.Card(1) != rage {
		t.Errorf("unexpected deck order: %v", deck.Names())
	}
	if deck.TotalPower() != 10 {
		t.Errorf("expected power 10, got %v", deck.TotalPower())
	}
}

func TestBuildDeckFractionalPowerPair(t *testing.T) {
	// 0.5-0.4 is just under 0.1 in floating point, but 0.4+0.1 is 0.5
	strike := attackCard("Strike", 1, 2, 0.4, 1.0)
	rage := modifierCard("Rage", CardTypeAttackBuff, 1.5, 0.1, 1.0)

	deck, err := BuildDeck(seeded(1), []*Card{strike, rage}, 6, 0.5)
	if err != nil {
		t.Fatalf("BuildDeck: %v", err)
	}
	if deck.Len() != 2 || deck.Card(0) != strike || deck.Card(1) != rage {
		t.Errorf("expected [Strike Rage], got %v", deck.Names())
	}
}

func TestBuildDeckFractionalPowerStaysInBudget(t *testing.T) {
	gen := seeded(99)
	tenths := func(lo, hi int) float64 {
		return float64(lo+gen.Intn(hi-lo+1)) / 10
	}

	built := 0
	for i := 0; i < 20000; i++ {
		var catalog []*Card
		for n := 1 + gen.Intn(4); n > 0; n-- {
			catalog = append(catalog, attackCard(fmt.Sprintf("A%d", n), 1, 5, tenths(1, 40), 1.0))
		}
		for n := 1 + gen.Intn(4); n > 0; n-- {
			catalog = append(catalog, modifierCard(fmt.Sprintf("M%d", n), CardTypeAttackBuff, 1.2, tenths(1, 40), 1.0))
		}
		maxPower := tenths(2, 60)
		maxCount := 2 + gen.Intn(5)

		deck, err := BuildDeck(seeded(int64(i)), catalog, maxCount, maxPower)
		if err != nil {
			if !errors.Is(err, ErrMalformedCatalog) {
				t.Fatalf("catalog %d: unexpected error %v", i, err)
			}
			if pairFits(catalog, maxPower) {
				t.Fatalf("catalog %d: a pair fits power %v but BuildDeck failed: %v", i, maxPower, err)
			}
			continue
		}
		built++
		if deck.TotalPower() > maxPower {
			t.Fatalf("catalog %d: power %v exceeds %v: %v", i, deck.TotalPower(), maxPower, deck.Names())
		}
		if deck.Len() > maxCount {
			t.Fatalf("catalog %d: %d cards exceeds %d", i, deck.Len(), maxCount)
		}
		if deck.Card(0).Type != CardTypeAttack || !deck.Card(1).Type.IsModifier() {
			t.Fatalf("catalog %d: deck must open with an attack then a modifier: %v", i, deck.Names())
		}
	}
	if built == 0 {
		t.Fatal("no catalog produced a deck")
	}
}

func pairFits(catalog []*Card, maxPower float64) bool {
	for _, a := range catalog {
		if a.Type != CardTypeAttack {
			continue
		}
		for _, m := range catalog {
			if m.Type.IsModifier() && a.PowerLevel+m.PowerLevel <= maxPower {
				return true
			}
		}
	}
	return false
}

func TestBuildDeckLastSlotTakesStrongestThatFits(t *testing.T) {
	catalog := []*Card{
		attackCard("Poke", 1, 2, 1, 1),
		modifierCard("Hum", CardTypeAttackBuff, 1.1, 1, 1),
		attackCard("Big A", 5, 9, 5, 1),
		modifierCard("Big B", CardTypeDefenseBuff, 1.5, 5, 1),
		attackCard("Small", 1, 3, 1, 1),
		attackCard("Huge", 20, 30, 9, 1),
	}

	for seed := int64(1); seed <= 50; seed++ {
		deck, err := BuildDeck(seeded(seed), catalog, 3, 10)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}

		// strongest card left over after the opening pair that still fits
		budget := 10 - deck.Card(0).PowerLevel - deck.Card(1).PowerLevel
		best := -1.0
		for _, c := range catalog {
			if c == deck.Card(0) || c == deck.Card(1) || c.PowerLevel > budget {
				continue
			}
			if c.PowerLevel > best {
				best = c.PowerLevel
			}
		}

		if best < 0 {
			if deck.Len() != 2 {
				t.Fatalf("seed %d: nothing fits after the opening pair, got %v", seed, deck.Names())
			}
			continue
		}
		if deck.Len() != 3 {
			t.Fatalf("seed %d: expected 3 cards, got %v", seed, deck.Names())
		}
		if last := deck.Card(2); last.PowerLevel != best {
			t.Fatalf("seed %d: last slot should take a power-%v card, got %s (%v)", seed, best, last.Name, last.PowerLevel)
		}
	}
}

func TestBuildDeckDropsCardsOverBudget(t *testing.T) {
	catalog := []*Card{
		attackCard("Poke", 1, 2, 1, 1),
		modifierCard("Hum", CardTypeAttackBuff, 1.1, 1, 1),
		attackCard("Huge", 20, 30, 5, 1),
		modifierCard("Mega", CardTypeDefenseBuff, 2, 4, 1),
		attackCard("Small", 1, 3, 1, 1),
		attackCard("Tiny", 1, 1, 1, 1),
	}

	for seed := int64(1); seed <= 50; seed++ {
		deck, err := BuildDeck(seeded(seed), catalog, 5, 4)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		for _, c := range deck.Cards() {
			if c.Name == "Huge" || c.Name == "Mega" {
				t.Fatalf("seed %d: %s does not fit the budget: %v", seed, c.Name, deck.Names())
			}
		}
		if deck.Len() != 4 {
			t.Fatalf("seed %d: expected every affordable card, got %v", seed, deck.Names())
		}
	}
}

func TestBuildDeckIsReproducibleForSeed(t *testing.T) {
	catalog, err := LoadDefaultCatalog(CatCatalogFile)
	if err != nil {
		t.Fatal(err)
	}
	a, err := BuildDeck(seeded(42), catalog, MaxDeckCards, MaxDeckPower)
	if err != nil {
		t.Fatal(err)
	}
	b, err := BuildDeck(seeded(42), catalog, MaxDeckCards, MaxDeckPower)
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Names()) != len(b.Names()) {
		t.Fatalf("decks differ: %v vs %v", a.Names(), b.Names())
	}
	for i := range a.Names() {
		if a.Card(i) != b.Card(i) {
			t.Fatalf("decks differ: %v vs %v", a.Names(), b.Names())
		}
	}
}

func TestBuildDeckRequiresAttackAndModifier(t *testing.T) {
	noAttacks := []*Card{modifierCard("Hum", CardTypeAttackBuff, 1.1, 1, 1)}
	if _, err := BuildDeck(seeded(1), noAttacks, 6, 15); !errors.Is(err, ErrMalformedCatalog) {
		t.Errorf("expected ErrMalformedCatalog without attacks, got %v", err)
	}

	noModifiers := []*Card{
		attackCard("Poke", 1, 2, 1, 1),
		modifierCard("Box", CardTypeDefense, 1.2, 1, 1),
	}
	if _, err := BuildDeck(seeded(1), noModifiers, 6, 15); !errors.Is(err, ErrMalformedCatalog) {
		t.Errorf("expected ErrMalformedCatalog without modifiers, got %v", err)
	}

	tooExpensive := []*Card{
		attackCard("Huge", 20, 30, 10, 1),
		modifierCard("Mega", CardTypeDefenseBuff, 2, 10, 1),
	}
	if _, err := BuildDeck(seeded(1), tooExpensive, 6, 15); !errors.Is(err, ErrMalformedCatalog) {
		t.Errorf("expected ErrMalformedCatalog when no pair fits, got %v", err)
	}

	if _, err := BuildDeck(seeded(1), tooExpensive, 1, 100); err == nil {
		t.Error("expected error for a one-card limit")
	}
}

func TestBuildDecks(t *testing.T) {
	catalog, err := LoadDefaultCatalog(PlayerCatalogFile)
	if err != nil {
		t.Fatal(err)
	}
	decks, err := BuildDecks(seeded(3), catalog, DeckChoices, MaxDeckCards, MaxDeckPower)
	if err != nil {
		t.Fatalf("BuildDecks: %v", err)
	}
	if len(decks) != DeckChoices {
		t.Fatalf("expected %d decks, got %d", DeckChoices, len(decks))
	}
}

func TestDeckIsImmutable(t *testing.T) {
	a := attackCard("Poke", 1, 2, 1, 1)
	b := attackCard("Jab", 1, 2, 1, 1)
	src := []*Card{a}
	deck := NewDeck(src...)
	src[0] = b

	cards := deck.Cards()
	cards[0] = b

	if deck.Card(0) != a {
		t.Fatal("deck changed through an outside slice")
	}
}

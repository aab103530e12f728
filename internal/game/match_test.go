package game

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/peterkuimelis/purrsevere/internal/log"
)

func oneDeck(cards ...*Card) []Deck {
	return []Deck{NewDeck(cards...)}
}

func TestMatchOwnerWinsOnFirstTurn(t *testing.T) {
	cfg := MatchConfig{
		PlayerDecks: oneDeck(attackCard("Vacuum", 200, 200, 8, 1), modifierCard("Coffee", CardTypeAttackBuff, 1.3, 3, 1)),
		CatDecks:    oneDeck(attackCard("Claw", 5, 10, 2, 1), modifierCard("Sharpen", CardTypeAttackBuff, 1.3, 3, 1)),
	}
	owner := NewScriptedController(t, "owner").AddCard("Vacuum")
	cat := NewScriptedController(t, "cat")

	m, logger := runMatchToCompletion(t, cfg, owner, cat)

	if m.State != MatchPlayerWon {
		t.Fatalf("expected owner win, got %s", m.State)
	}
	if m.Turn != 1 || m.Result != "Player wins on turn 1" {
		t.Errorf("unexpected result %q on turn %d", m.Result, m.Turn)
	}
	if m.Winner() != m.Player || m.Cat.HP != 0 {
		t.Errorf("expected the cat at 0 HP, got %d", m.Cat.HP)
	}
	if win := logger.EventsOfType(log.EventWin); len(win) != 1 || win[0].Actor != "Player" {
		t.Errorf("expected one win event for Player, got %+v", win)
	}
	// The cat never got a turn.
	for _, e := range logger.EventsOfType(log.EventNewTurn) {
		if e.Actor == "Cat" {
			t.Fatal("cat should not act after losing")
		}
	}
}

func TestMatchCatWinsWithLethalAttack(t *testing.T) {
	cfg := MatchConfig{
		PlayerDecks: oneDeck(attackCard("Whiff", 1, 1, 1, 0), modifierCard("Coffee", CardTypeAttackBuff, 1.3, 3, 1)),
		CatDecks:    oneDeck(attackCard("Pounce", 150, 150, 6, 1), modifierCard("Sharpen", CardTypeAttackBuff, 1.3, 3, 1)),
	}
	owner := NewScriptedController(t, "owner")

	m, logger := runMatchToCompletion(t, cfg, owner, NewCatController(seeded(2)))

	if m.State != MatchOpponentWon || m.Winner() != m.Cat {
		t.Fatalf("expected cat win, got %s", m.State)
	}
	if m.Result != "Cat wins on turn 1" {
		t.Errorf("unexpected result %q", m.Result)
	}
	if m.Player.HP != 0 || m.Cat.HP != ShortMatchHP {
		t.Errorf("unexpected health: owner %d, cat %d", m.Player.HP, m.Cat.HP)
	}
	if len(logger.EventsOfType(log.EventCardMissed)) != 1 {
		t.Error("expected the owner's miss to be logged")
	}
}

func TestMatchTurnAdvancesAfterCatTurn(t *testing.T) {
	cfg := MatchConfig{
		PlayerDecks: oneDeck(attackCard("Poke", 1, 1, 1, 1), modifierCard("Hum", CardTypeAttackBuff, 1.1, 1, 1)),
		CatDecks:    oneDeck(attackCard("Tap", 2, 2, 1, 1), modifierCard("Purr", CardTypeAttackBuff, 1.1, 1, 1)),
		Rand:        seeded(1),
	}
	owner := NewScriptedController(t, "owner")
	cat := NewScriptedController(t, "cat")
	m := NewMatch(cfg, owner, cat)
	ctx := context.Background()

	if err := m.Step(ctx); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if m.State != MatchPlayerTurn || m.Turn != 1 {
		t.Fatalf("after setup: %s turn %d", m.State, m.Turn)
	}

	if err := m.Step(ctx); err != nil {
		t.Fatal(err)
	}
	if m.State != MatchOpponentTurn || m.Turn != 1 {
		t.Fatalf("after owner: %s turn %d", m.State, m.Turn)
	}

	if err := m.Step(ctx); err != nil {
		t.Fatal(err)
	}
	if m.State != MatchPlayerTurn || m.Turn != 2 {
		t.Fatalf("after cat: %s turn %d", m.State, m.Turn)
	}
	if m.Cat.HP != 99 || m.Player.HP != 98 {
		t.Errorf("unexpected health: owner %d, cat %d", m.Player.HP, m.Cat.HP)
	}
}

func TestMatchStartingHealth(t *testing.T) {
	tests := []struct {
		rules Rules
		owner int
		cat   int
	}{
		{Rules{DifficultyEasy, LengthShort}, 100, 100},
		{Rules{DifficultyHard, LengthShort}, 100, 200},
		{Rules{DifficultyEasy, LengthLong}, 500, 500},
		{Rules{DifficultyHard, LengthLong}, 500, 600},
	}
	for _, tt := range tests {
		cfg := MatchConfig{
			Rules:       tt.rules,
			PlayerDecks: oneDeck(attackCard("Poke", 1, 1, 1, 1)),
			CatDecks:    oneDeck(attackCard("Tap", 1, 1, 1, 1)),
			Rand:        seeded(1),
		}
		m := NewMatch(cfg, NewScriptedController(t, "owner"), NewScriptedController(t, "cat"))
		if err := m.Step(context.Background()); err != nil {
			t.Fatal(err)
		}
		if m.Player.HP != tt.owner || m.Cat.HP != tt.cat {
			t.Errorf("%s/%s: got %d/%d, want %d/%d", tt.rules.Difficulty, tt.rules.Length, m.Player.HP, m.Cat.HP, tt.owner, tt.cat)
		}
	}
}

func TestMatchLogsDeckChoicesOneBased(t *testing.T) {
	poke := attackCard("Poke", 1, 1, 1, 1)
	tap := attackCard("Tap", 1, 1, 1, 1)
	cfg := MatchConfig{
		PlayerDecks: []Deck{NewDeck(poke), NewDeck(tap)},
		CatDecks:    oneDeck(attackCard("Claw", 1, 1, 1, 1)),
		Logger:      log.NewMemoryLogger(),
	}
	logger := cfg.Logger.(*log.MemoryLogger)
	m := NewMatch(cfg, NewScriptedController(t, "owner").WithDeck(1), NewScriptedController(t, "cat"))
	if err := m.Step(context.Background()); err != nil {
		t.Fatal(err)
	}
	if m.PlayerDeck.Card(0) != tap {
		t.Fatalf("expected the second deck, got %v", m.PlayerDeck.Names())
	}
	chosen := logger.EventsOfType(log.EventDeckChosen)
	if len(chosen) != 2 || !strings.Contains(chosen[0].Details, "deck 2: Tap") {
		t.Fatalf("unexpected deck events: %+v", chosen)
	}
}

func TestMatchRejectsBadDeckIndex(t *testing.T) {
	cfg := MatchConfig{
		PlayerDecks: oneDeck(attackCard("Poke", 1, 1, 1, 1)),
		CatDecks:    oneDeck(attackCard("Tap", 1, 1, 1, 1)),
	}
	m := NewMatch(cfg, NewScriptedController(t, "owner").WithDeck(3), NewScriptedController(t, "cat"))
	if _, err := m.Run(context.Background()); err == nil {
		t.Fatal("expected an error for an out-of-range deck")
	}

	m = NewMatch(MatchConfig{CatDecks: cfg.CatDecks}, NewScriptedController(t, "owner"), NewScriptedController(t, "cat"))
	if _, err := m.Run(context.Background()); !errors.Is(err, ErrEmptyDeck) {
		t.Fatalf("expected ErrEmptyDeck without offered decks, got %v", err)
	}
}

// foreignCardController plays a card that is not in its deck.
type foreignCardController struct {
	*ScriptedController
}

func (c foreignCardController) ChooseCard(ctx context.Context, view TurnView) (*Card, error) {
	return attackCard("Smuggled", 500, 500, 1, 1), nil
}

func TestMatchRejectsCardOutsideDeck(t *testing.T) {
	cfg := MatchConfig{
		PlayerDecks: oneDeck(attackCard("Poke", 1, 1, 1, 1)),
		CatDecks:    oneDeck(attackCard("Tap", 1, 1, 1, 1)),
	}
	owner := foreignCardController{NewScriptedController(t, "owner")}
	m := NewMatch(cfg, owner, NewScriptedController(t, "cat"))

	_, err := m.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "outside their deck") {
		t.Fatalf("expected an outside-deck error, got %v", err)
	}
	if m.Cat.HP != ShortMatchHP {
		t.Errorf("foreign card must not resolve, cat HP %d", m.Cat.HP)
	}
}

func TestMatchRunStopsOnCancelledContext(t *testing.T) {
	cfg := MatchConfig{
		PlayerDecks: oneDeck(attackCard("Poke", 1, 1, 1, 1)),
		CatDecks:    oneDeck(attackCard("Tap", 1, 1, 1, 1)),
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewMatch(cfg, NewScriptedController(t, "owner"), NewScriptedController(t, "cat"))
	state, err := m.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if state != MatchSetup {
		t.Errorf("expected the match to stay in setup, got %s", state)
	}
}

func TestMatchStepAfterEndFails(t *testing.T) {
	cfg := MatchConfig{
		PlayerDecks: oneDeck(attackCard("Vacuum", 200, 200, 8, 1)),
		CatDecks:    oneDeck(attackCard("Tap", 1, 1, 1, 1)),
	}
	m, _ := runMatchToCompletion(t, cfg, NewScriptedController(t, "owner"), NewScriptedController(t, "cat"))
	if err := m.Step(context.Background()); !errors.Is(err, ErrMatchOver) {
		t.Fatalf("expected ErrMatchOver, got %v", err)
	}
}

func TestMatchLogsCatPanic(t *testing.T) {
	fluff := modifierCard("Fluff Up", CardTypeDefenseBuff, 1.5, 4, 1)
	cfg := MatchConfig{
		// 60 doubled threatens a 100 HP cat; accuracy 0 keeps the owner harmless
		PlayerDecks: oneDeck(attackCard("Vacuum", 40, 60, 8, 0)),
		CatDecks:    oneDeck(attackCard("Tap", 1, 1, 1, 1), fluff),
		Rand:        seeded(9),
	}
	owner := NewScriptedController(t, "owner")
	logger := log.NewMemoryLogger()
	cfg.Logger = logger
	m := NewMatch(cfg, owner, NewCatController(seeded(9)))

	for i := 0; i < 3; i++ {
		if err := m.Step(context.Background()); err != nil {
			t.Fatal(err)
		}
	}

	panics := logger.EventsOfType(log.EventPanic)
	if len(panics) != 1 || panics[0].Actor != "Cat" || panics[0].Card != "Fluff Up" {
		t.Fatalf("expected one panic event for Fluff Up, got %+v", panics)
	}
	if !approxEqual(m.Cat.DefenseMultiplier, 1.5) || m.Cat.FearCount != 2 {
		t.Errorf("unexpected cat state: %s (fear %d)", m.Cat, m.Cat.FearCount)
	}
	if len(owner.notified) != len(logger.Events()) {
		t.Errorf("owner saw %d of %d events", len(owner.notified), len(logger.Events()))
	}
}

func TestStandardMatchRunsToCompletion(t *testing.T) {
	player, err := LoadDefaultCatalog(PlayerCatalogFile)
	if err != nil {
		t.Fatal(err)
	}
	cat, err := LoadDefaultCatalog(CatCatalogFile)
	if err != nil {
		t.Fatal(err)
	}

	for seed := int64(1); seed <= 20; seed++ {
		cfg, err := NewMatchConfig(Rules{Difficulty: DifficultyHard}, seeded(seed), player, cat)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if len(cfg.PlayerDecks) != DeckChoices || len(cfg.CatDecks) != DeckChoices {
			t.Fatalf("seed %d: expected %d decks per side", seed, DeckChoices)
		}

		m := NewMatch(cfg, NewScriptedController(t, "owner").WithDeck(int(seed)%DeckChoices), NewCatController(seeded(seed)))
		state, err := m.Run(context.Background())
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if !state.Terminal() || m.Winner() == nil || m.Winner().Defeated() {
			t.Fatalf("seed %d: bad final state %s", seed, state)
		}
		if m.Player.HP != 0 && m.Cat.HP != 0 {
			t.Fatalf("seed %d: match ended with both sides standing", seed)
		}
	}
}

func TestMatchDefaultsKeepHistory(t *testing.T) {
	cfg := MatchConfig{
		PlayerDecks: oneDeck(attackCard("Vacuum", 200, 200, 8, 1), modifierCard("Coffee", CardTypeAttackBuff, 1.3, 3, 1)),
		CatDecks:    oneDeck(attackCard("Claw", 5, 10, 2, 1), modifierCard("Sharpen", CardTypeAttackBuff, 1.3, 3, 1)),
	}
	owner := NewScriptedController(t, "owner").AddCard("Vacuum")
	cat := NewScriptedController(t, "cat")

	// no random source and no logger configured
	m := NewMatch(cfg, owner, cat)
	if _, err := m.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if m.State != MatchPlayerWon {
		t.Fatalf("expected owner win, got %s", m.State)
	}
	events := m.Events()
	if len(events) == 0 {
		t.Fatal("expected the default logger to keep the match history")
	}
	if last := events[len(events)-1]; last.Type != log.EventWin {
		t.Errorf("expected the history to end with a win, got %+v", last)
	}
}

func TestMatchEventsWithoutHistory(t *testing.T) {
	cfg := MatchConfig{
		PlayerDecks: oneDeck(attackCard("Vacuum", 200, 200, 8, 1), modifierCard("Coffee", CardTypeAttackBuff, 1.3, 3, 1)),
		CatDecks:    oneDeck(attackCard("Claw", 5, 10, 2, 1), modifierCard("Sharpen", CardTypeAttackBuff, 1.3, 3, 1)),
		Logger:      log.RecorderFunc(func(log.GameEvent) {}),
	}
	m := NewMatch(cfg, NewScriptedController(t, "owner").AddCard("Vacuum"), NewScriptedController(t, "cat"))
	if _, err := m.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if events := m.Events(); events != nil {
		t.Errorf("expected no history from a plain recorder, got %d events", len(events))
	}
}

func TestDefaultRandIsUsable(t *testing.T) {
	rng := defaultRand()
	if rng == nil {
		t.Fatal("expected a random source")
	}
	if n := rng.Intn(10); n < 0 || n >= 10 {
		t.Errorf("Intn(10) = %d", n)
	}
}

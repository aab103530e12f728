package game

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/peterkuimelis/purrsevere/internal/log"
)

// Default player names.
const (
	OwnerName = "Player"
	CatName   = "Cat"
)

// MatchState tracks where a match is between setup and its end.
type MatchState int

const (
	MatchSetup MatchState = iota
	MatchPlayerTurn
	MatchOpponentTurn
	MatchPlayerWon
	MatchOpponentWon
)

func (s MatchState) String() string {
	switch s {
	case MatchSetup:
		return "Setup"
	case MatchPlayerTurn:
		return "Player Turn"
	case MatchOpponentTurn:
		return "Opponent Turn"
	case MatchPlayerWon:
		return "Player Won"
	case MatchOpponentWon:
		return "Opponent Won"
	default:
		return "Unknown"
	}
}

// Terminal reports whether the match has ended.
func (s MatchState) Terminal() bool {
	return s == MatchPlayerWon || s == MatchOpponentWon
}

// TurnView is what a controller sees when asked for a card. Self is the
// acting side; the cat strategy mutates Self.FearCount through it.
type TurnView struct {
	Turn    int
	Self    *Player
	Foe     *Player
	Deck    Deck
	FoeDeck Deck
}

// Controller is implemented by everything that can sit on one side of a
// match: the local console, a remote terminal, an MCP agent and the cat.
type Controller interface {
	// ChooseDeck picks one of the offered decks and returns its index.
	ChooseDeck(ctx context.Context, decks []Deck) (int, error)

	// ChooseCard picks the card to play this turn from view.Deck.
	ChooseCard(ctx context.Context, view TurnView) (*Card, error)

	// Notify sends a match event (no response needed).
	Notify(ctx context.Context, event log.GameEvent) error
}

// MatchConfig holds configuration for creating a new match.
type MatchConfig struct {
	Rules       Rules
	PlayerDecks []Deck // decks offered to the owner
	CatDecks    []Deck // decks offered to the cat
	Logger      log.Recorder
	Rand        *rand.Rand
	OwnerName   string
	CatName     string
}

// NewMatchConfig draws the standard offer of DeckChoices decks per side from
// the two catalogs.
func NewMatchConfig(rules Rules, rng *rand.Rand, playerCatalog, catCatalog []*Card) (MatchConfig, error) {
	playerDecks, err := BuildDecks(rng, playerCatalog, DeckChoices, MaxDeckCards, MaxDeckPower)
	if err != nil {
		return MatchConfig{}, fmt.Errorf("player decks: %w", err)
	}
	catDecks, err := BuildDecks(rng, catCatalog, DeckChoices, MaxDeckCards, MaxDeckPower)
	if err != nil {
		return MatchConfig{}, fmt.Errorf("cat decks: %w", err)
	}
	return MatchConfig{
		Rules:       rules,
		PlayerDecks: playerDecks,
		CatDecks:    catDecks,
		Rand:        rng,
	}, nil
}

// Match runs a single game between the owner and the cat.
type Match struct {
	State      MatchState
	Turn       int
	Player     *Player
	Cat        *Player
	PlayerDeck Deck
	CatDeck    Deck
	Result     string

	cfg         MatchConfig
	controllers [2]Controller // owner, cat
	resolver    *Resolver
	logger      log.Recorder
	ctx         context.Context
}

// NewMatch creates a match in the Setup state.
func NewMatch(cfg MatchConfig, owner, cat Controller) *Match {
	if cfg.Logger == nil {
		cfg.Logger = log.NewMemoryLogger()
	}
	if cfg.Rand == nil {
		cfg.Rand = defaultRand()
	}
	if cfg.OwnerName == "" {
		cfg.OwnerName = OwnerName
	}
	if cfg.CatName == "" {
		cfg.CatName = CatName
	}

	m := &Match{
		State:       MatchSetup,
		cfg:         cfg,
		controllers: [2]Controller{owner, cat},
		logger:      cfg.Logger,
		ctx:         context.Background(),
	}
	m.resolver = NewResolver(cfg.Rand, log.RecorderFunc(m.log))
	return m
}

// Run steps the match until one side is defeated and returns the final state.
func (m *Match) Run(ctx context.Context) (MatchState, error) {
	for !m.State.Terminal() {
		if err := ctx.Err(); err != nil {
			return m.State, err
		}
		if err := m.Step(ctx); err != nil {
			return m.State, err
		}
	}
	return m.State, nil
}

// Step performs a single state transition.
func (m *Match) Step(ctx context.Context) error {
	m.ctx = ctx
	switch m.State {
	case MatchSetup:
		return m.setup()
	case MatchPlayerTurn:
		return m.playerTurn()
	case MatchOpponentTurn:
		return m.opponentTurn()
	default:
		return ErrMatchOver
	}
}

// setup lets both sides pick a deck and builds the players.
func (m *Match) setup() error {
	ownerDeck, err := m.chooseDeck(0, m.cfg.OwnerName, m.cfg.PlayerDecks)
	if err != nil {
		return err
	}
	catDeck, err := m.chooseDeck(1, m.cfg.CatName, m.cfg.CatDecks)
	if err != nil {
		return err
	}
	m.PlayerDeck = ownerDeck
	m.CatDeck = catDeck

	ownerHP, catHP := m.cfg.Rules.StartingHP()
	m.Player = NewPlayer(m.cfg.OwnerName, ownerHP)
	m.Cat = NewPlayer(m.cfg.CatName, catHP)

	m.Turn = 1
	m.State = MatchPlayerTurn
	return nil
}

func (m *Match) chooseDeck(side int, name string, decks []Deck) (Deck, error) {
	if len(decks) == 0 {
		return Deck{}, fmt.Errorf("%w: no decks offered to %s", ErrEmptyDeck, name)
	}
	idx, err := m.controllers[side].ChooseDeck(m.ctx, decks)
	if err != nil {
		return Deck{}, fmt.Errorf("%s deck choice: %w", name, err)
	}
	if idx < 0 || idx >= len(decks) {
		return Deck{}, fmt.Errorf("%s chose deck %d of %d", name, idx+1, len(decks))
	}
	m.log(log.NewDeckChosenEvent(name, idx+1, decks[idx].Names()))
	return decks[idx], nil
}

// playerTurn executes the owner's half of the round.
func (m *Match) playerTurn() error {
	if err := m.takeTurn(0, m.Player, m.Cat, m.PlayerDeck, m.CatDeck); err != nil {
		return err
	}
	if m.Cat.Defeated() {
		m.finish(MatchPlayerWon, m.Player.Name)
		return nil
	}
	m.State = MatchOpponentTurn
	return nil
}

// opponentTurn executes the cat's half; the round counter advances after it.
func (m *Match) opponentTurn() error {
	if err := m.takeTurn(1, m.Cat, m.Player, m.CatDeck, m.PlayerDeck); err != nil {
		return err
	}
	if m.Player.Defeated() {
		m.finish(MatchOpponentWon, m.Cat.Name)
		return nil
	}
	m.Turn++
	m.State = MatchPlayerTurn
	return nil
}

func (m *Match) takeTurn(side int, self, foe *Player, deck, foeDeck Deck) error {
	m.log(log.NewTurnEvent(m.Turn, self.Name))

	fear := self.FearCount
	card, err := m.controllers[side].ChooseCard(m.ctx, TurnView{
		Turn:    m.Turn,
		Self:    self,
		Foe:     foe,
		Deck:    deck,
		FoeDeck: foeDeck,
	})
	if err != nil {
		return fmt.Errorf("%s card choice: %w", self.Name, err)
	}
	if card == nil || !deck.Contains(card) {
		return fmt.Errorf("%s played a card outside their deck", self.Name)
	}
	if self.FearCount != fear {
		m.log(log.NewPanicEvent(m.Turn, self.Name, card.Name))
	}

	if _, err := m.resolver.ApplyCard(card, self, foe, m.Turn); err != nil {
		return fmt.Errorf("apply %s: %w", card.Name, err)
	}
	return nil
}

func (m *Match) finish(state MatchState, winner string) {
	m.State = state
	m.Result = fmt.Sprintf("%s wins on turn %d", winner, m.Turn)
	m.log(log.NewWinEvent(m.Turn, winner))
}

// Winner returns the winning player, or nil while the match is running.
func (m *Match) Winner() *Player {
	switch m.State {
	case MatchPlayerWon:
		return m.Player
	case MatchOpponentWon:
		return m.Cat
	default:
		return nil
	}
}

// Events returns the match history when the configured logger keeps one,
// as the default in-memory logger does.
func (m *Match) Events() []log.GameEvent {
	if el, ok := m.logger.(log.EventLogger); ok {
		return el.Events()
	}
	return nil
}

// log records an event and forwards it to both controllers.
func (m *Match) log(event log.GameEvent) {
	m.logger.Log(event)
	// Notify controllers (ignore errors for notifications)
	for i := 0; i < 2; i++ {
		_ = m.controllers[i].Notify(m.ctx, event)
	}
}

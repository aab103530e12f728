package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/peterkuimelis/purrsevere/internal/game"
	"github.com/peterkuimelis/purrsevere/internal/log"
	"github.com/peterkuimelis/purrsevere/internal/net"
)

// DecisionType identifies what kind of decision the match is waiting for.
type DecisionType string

const (
	DecisionChooseDeck DecisionType = "choose_deck"
	DecisionChooseCard DecisionType = "choose_card"
	DecisionGameOver   DecisionType = "game_over"
)

// PendingDecision represents a decision the match is waiting for.
type PendingDecision struct {
	Type  DecisionType   `json:"type"`
	State *net.StateView `json:"state,omitempty"`
	Decks []net.DeckView `json:"decks,omitempty"`
	Cards []net.CardView `json:"cards,omitempty"`
}

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	SessionID string          `json:"session_id"`
	Seed      int64           `json:"seed,omitempty"`
	Events    []net.EventView `json:"events"`
	State     *net.StateView  `json:"state,omitempty"`
	Pending   *PendingView    `json:"pending,omitempty"`
	GameOver  bool            `json:"game_over"`
	Winner    string          `json:"winner,omitempty"`
	Result    string          `json:"result,omitempty"`
}

// PendingView is the pending decision as presented in the tool response JSON.
type PendingView struct {
	Type  DecisionType   `json:"type"`
	Decks []net.DeckView `json:"decks,omitempty"`
	Cards []net.CardView `json:"cards,omitempty"`
}

// GameSession holds one match between the agent (owner) and the cat.
type GameSession struct {
	ID   string
	Seed int64

	ctrl   *MCPController
	cancel context.CancelFunc

	// calls serializes tool calls on this session
	calls sync.Mutex

	pendingCh      chan *PendingDecision
	currentPending *PendingDecision

	mu       sync.Mutex
	events   []net.EventView
	gameOver bool
	winner   string
	result   string
}

// SessionOptions configures NewGameSession.
type SessionOptions struct {
	Rules         game.Rules
	Seed          int64
	PlayerCatalog []*game.Card
	CatCatalog    []*game.Card
	Recorder      log.Recorder
	Logger        *slog.Logger
}

// NewGameSession builds the offered decks and starts the match in a
// goroutine. The first decision is collected with waitForPending.
func NewGameSession(opts SessionOptions) (*GameSession, error) {
	rng, seed, err := game.NewRand(opts.Seed)
	if err != nil {
		return nil, err
	}
	cfg, err := game.NewMatchConfig(opts.Rules, rng, opts.PlayerCatalog, opts.CatCatalog)
	if err != nil {
		return nil, fmt.Errorf("build decks: %w", err)
	}
	if opts.Recorder != nil {
		cfg.Logger = opts.Recorder
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sess := &GameSession{
		ID:        uuid.NewString(),
		Seed:      seed,
		pendingCh: make(chan *PendingDecision, 1),
	}
	sess.ctrl = NewMCPController(sess)
	logger = logger.With("session", sess.ID, "seed", seed)

	match := game.NewMatch(cfg, sess.ctrl, game.NewCatController(rng))

	ctx, cancel := context.WithCancel(context.Background())
	sess.cancel = cancel

	go func() {
		defer cancel()
		_, err := match.Run(ctx)

		sess.mu.Lock()
		sess.gameOver = true
		if err != nil {
			sess.result = fmt.Sprintf("error: %v", err)
		} else {
			sess.result = match.Result
			if w := match.Winner(); w != nil {
				sess.winner = w.Name
			}
		}
		result := sess.result
		sess.mu.Unlock()

		if err != nil {
			logger.Error("Match stopped", "error", err)
		} else {
			logger.Info("Match finished", "result", result)
		}

		final := &PendingDecision{Type: DecisionGameOver}
		if match.Player != nil {
			final.State = &net.StateView{
				Turn: match.Turn,
				You:  net.NewPlayerView(match.Player),
				Foe:  net.NewPlayerView(match.Cat),
			}
		}
		select {
		case sess.pendingCh <- final:
		case <-ctx.Done():
		}
	}()

	logger.Info("Match started", "difficulty", opts.Rules.Difficulty.String(), "length", opts.Rules.Length.String())
	return sess, nil
}

// Close stops the match goroutine.
func (s *GameSession) Close() {
	s.cancel()
}

// appendEvent adds an event to the session's event log. Thread-safe.
func (s *GameSession) appendEvent(ev net.EventView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

// drainEvents returns all accumulated events and clears the buffer.
func (s *GameSession) drainEvents() []net.EventView {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	if events == nil {
		// keep "events" an array in JSON
		events = []net.EventView{}
	}
	return events
}

// waitForPending blocks until the next decision arrives from the match,
// then builds a ToolResponse with accumulated events + the pending decision.
func (s *GameSession) waitForPending(ctx context.Context) (*ToolResponse, error) {
	var pending *PendingDecision
	select {
	case pending = <-s.pendingCh:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	s.currentPending = pending
	return s.response(), nil
}

// response describes the session as of the current pending decision.
func (s *GameSession) response() *ToolResponse {
	resp := &ToolResponse{
		SessionID: s.ID,
		Seed:      s.Seed,
		Events:    s.drainEvents(),
	}
	pending := s.currentPending
	if pending == nil {
		return resp
	}
	resp.State = pending.State

	if pending.Type == DecisionGameOver {
		s.mu.Lock()
		resp.GameOver = true
		resp.Winner = s.winner
		resp.Result = s.result
		s.mu.Unlock()
		return resp
	}

	resp.Pending = &PendingView{
		Type:  pending.Type,
		Decks: pending.Decks,
		Cards: pending.Cards,
	}
	return resp
}

// respond hands the agent's answer to the match and waits for the next
// decision.
func (s *GameSession) respond(ctx context.Context, index int) (*ToolResponse, error) {
	select {
	case s.ctrl.responseCh <- index:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return s.waitForPending(ctx)
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}

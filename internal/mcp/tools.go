package mcp

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/purrsevere/internal/game"
	"github.com/peterkuimelis/purrsevere/internal/log"
)

// Manager owns the running sessions of one MCP server process. Each
// start_game call opens a new session keyed by a UUID.
type Manager struct {
	PlayerCatalog []*game.Card
	CatCatalog    []*game.Card
	Recorder      log.Recorder
	Logger        *slog.Logger

	mu       sync.Mutex
	sessions map[string]*GameSession
}

// NewManager creates a manager drawing decks from the given catalogs.
func NewManager(playerCatalog, catCatalog []*game.Card) *Manager {
	return &Manager{
		PlayerCatalog: playerCatalog,
		CatCatalog:    catCatalog,
		sessions:      make(map[string]*GameSession),
	}
}

// RegisterTools adds all game tools to the MCP server.
func (m *Manager) RegisterTools(s *server.MCPServer) {
	s.AddTool(startGameTool(), m.handleStartGame)
	s.AddTool(chooseDeckTool(), m.handleChooseDeck)
	s.AddTool(playCardTool(), m.handlePlayCard)
	s.AddTool(getGameStateTool(), m.handleGetGameState)
}

// Close stops every running match.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, sess := range m.sessions {
		sess.Close()
		delete(m.sessions, id)
	}
}

func (m *Manager) session(id string) *GameSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id]
}

func (m *Manager) finish(resp *ToolResponse) {
	if !resp.GameOver {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, resp.SessionID)
}

// --- Tool definitions ---

func startGameTool() mcp.Tool {
	return mcp.NewTool("start_game",
		mcp.WithDescription("Start a new Purrsevere match. You play the owner against the cat. "+
			"Returns a session_id and the first pending decision (choose_deck)."),
		mcp.WithString("difficulty", mcp.Description("easy or hard (hard gives the cat +100 HP)"), mcp.Enum("easy", "hard")),
		mcp.WithString("length", mcp.Description("short (100 HP) or long (500 HP)"), mcp.Enum("short", "long")),
		mcp.WithNumber("seed", mcp.Description("Random seed for a reproducible match; 0 or omitted picks one")),
	)
}

func chooseDeckTool() mcp.Tool {
	return mcp.NewTool("choose_deck",
		mcp.WithDescription("Pick one of the offered decks. Use this when the pending decision type is 'choose_deck'."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session returned by start_game")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index of the deck")),
	)
}

func playCardTool() mcp.Tool {
	return mcp.NewTool("play_card",
		mcp.WithDescription("Play a card from your deck. Cards are never used up. Use this when the pending decision type is 'choose_card'."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session returned by start_game")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index of the card in your deck")),
	)
}

func getGameStateTool() mcp.Tool {
	return mcp.NewTool("get_game_state",
		mcp.WithDescription("Get the current match state, accumulated events, and pending decision without submitting a response. Read-only."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session returned by start_game")),
	)
}

// --- Tool handlers ---

func (m *Manager) handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	difficulty, err := game.ParseDifficulty(strings.ToLower(request.GetString("difficulty", "easy")))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	length, err := game.ParseLength(strings.ToLower(request.GetString("length", "short")))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sess, err := NewGameSession(SessionOptions{
		Rules:         game.Rules{Difficulty: difficulty, Length: length},
		Seed:          int64(request.GetInt("seed", 0)),
		PlayerCatalog: m.PlayerCatalog,
		CatCatalog:    m.CatCatalog,
		Recorder:      m.Recorder,
		Logger:        m.Logger,
	})
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start game: %v", err), nil
	}

	sess.calls.Lock()
	defer sess.calls.Unlock()
	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()

	resp, err := sess.waitForPending(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Error waiting for first decision: %v", err), nil
	}
	m.finish(resp)
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (m *Manager) handleChooseDeck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.answer(ctx, request, DecisionChooseDeck)
}

func (m *Manager) handlePlayCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.answer(ctx, request, DecisionChooseCard)
}

// answer validates an index against the pending decision of the given type
// and forwards it to the match.
func (m *Manager) answer(ctx context.Context, request mcp.CallToolRequest, want DecisionType) (*mcp.CallToolResult, error) {
	sess := m.session(request.GetString("session_id", ""))
	if sess == nil {
		return mcp.NewToolResultError("No such game. Use start_game first."), nil
	}
	sess.calls.Lock()
	defer sess.calls.Unlock()

	pending := sess.currentPending
	if pending == nil {
		return mcp.NewToolResultError("No pending decision."), nil
	}
	if pending.Type != want {
		return mcp.NewToolResultErrorf("Wrong tool: pending decision is '%s', not '%s'. Use the correct tool.", pending.Type, want), nil
	}

	count := len(pending.Cards)
	if want == DecisionChooseDeck {
		count = len(pending.Decks)
	}
	index := request.GetInt("index", -1)
	if index < 0 || index >= count {
		return mcp.NewToolResultErrorf("Invalid index %d. Must be 0-%d.", index, count-1), nil
	}

	resp, err := sess.respond(ctx, index)
	if err != nil {
		return mcp.NewToolResultErrorf("Error waiting for next decision: %v", err), nil
	}
	m.finish(resp)
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (m *Manager) handleGetGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := m.session(request.GetString("session_id", ""))
	if sess == nil {
		return mcp.NewToolResultError("No such game. Use start_game first."), nil
	}
	sess.calls.Lock()
	defer sess.calls.Unlock()
	return mcp.NewToolResultText(respondJSON(sess.response())), nil
}

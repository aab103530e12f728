package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/coder/websocket"

	"github.com/peterkuimelis/purrsevere/internal/game"
	purrnet "github.com/peterkuimelis/purrsevere/internal/net"
)

// Server is the purrsevere HTTP server: a JSON card API and a websocket
// relay to a `purrsevere host` game server.
type Server struct {
	playerCatalog []*game.Card
	catCatalog    []*game.Card
	hostAddr      string
	logger        *slog.Logger
	mux           *http.ServeMux
}

// NewServer creates a web server. hostAddr is the game server a websocket
// connects to when its connect message names no address.
func NewServer(playerCatalog, catCatalog []*game.Card, hostAddr string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		playerCatalog: playerCatalog,
		catCatalog:    catCatalog,
		hostAddr:      hostAddr,
		logger:        logger,
		mux:           http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/decks", s.handleDecks)

	// WebSocket relay
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) catalog(side string) ([]*game.Card, bool) {
	switch side {
	case "", "player":
		return s.playerCatalog, true
	case "cat":
		return s.catCatalog, true
	default:
		return nil, false
	}
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	catalog, ok := s.catalog(r.URL.Query().Get("side"))
	if !ok {
		http.Error(w, "side must be player or cat", http.StatusBadRequest)
		return
	}
	writeJSON(w, newCardInfos(catalog))
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	side := r.URL.Query().Get("side")
	if _, ok := s.catalog(side); !ok {
		http.Error(w, "side must be player or cat", http.StatusBadRequest)
		return
	}
	if side == "" {
		side = "player"
	}

	var seed int64
	if raw := r.URL.Query().Get("seed"); raw != "" {
		var err error
		seed, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "seed must be an integer", http.StatusBadRequest)
			return
		}
	}

	decks, seed, err := sampleDecks(s.playerCatalog, s.catCatalog, side, seed)
	if err != nil {
		s.logger.Error("Could not build decks", "side", side, "error", err)
		http.Error(w, "could not build decks", http.StatusInternalServerError)
		return
	}
	writeJSON(w, DeckInfo{Side: side, Seed: seed, Decks: decks})
}

// connectMessage is the first websocket message from the browser.
type connectMessage struct {
	Type string `json:"type"`
	Addr string `json:"addr"`
	Name string `json:"name"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		s.logger.Warn("WebSocket accept failed", "error", err)
		return
	}
	defer wsConn.CloseNow()

	ctx := r.Context()

	_, connectData, err := wsConn.Read(ctx)
	if err != nil {
		s.logger.Warn("WebSocket read connect", "error", err)
		return
	}
	var connect connectMessage
	if err := json.Unmarshal(connectData, &connect); err != nil || connect.Type != "connect" {
		wsConn.Close(websocket.StatusPolicyViolation, "expected connect message")
		return
	}
	addr := connect.Addr
	if addr == "" {
		addr = s.hostAddr
	}

	dialer := net.Dialer{Timeout: 5 * time.Second}
	tcpConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		errMsg, _ := json.Marshal(map[string]string{
			"type":   "error",
			"result": fmt.Sprintf("Could not connect to game server at %s: %v", addr, err),
		})
		_ = wsConn.Write(ctx, websocket.MessageText, errMsg)
		wsConn.Close(websocket.StatusNormalClosure, "connection failed")
		return
	}
	defer tcpConn.Close()

	logger := s.logger.With("remote", r.RemoteAddr, "host", addr)
	if err := json.NewEncoder(tcpConn).Encode(purrnet.ClientMessage{Type: purrnet.MsgJoin, Name: connect.Name}); err != nil {
		logger.Warn("TCP write join", "error", err)
		return
	}
	logger.Info("Relay opened")

	done := make(chan struct{})

	// TCP → WebSocket (server messages to browser)
	go func() {
		defer close(done)
		dec := json.NewDecoder(tcpConn)
		for {
			var msg json.RawMessage
			if err := dec.Decode(&msg); err != nil {
				if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
					logger.Warn("TCP read error", "error", err)
				}
				return
			}
			if err := wsConn.Write(ctx, websocket.MessageText, msg); err != nil {
				logger.Warn("WebSocket write error", "error", err)
				return
			}
		}
	}()

	// WebSocket → TCP (browser answers to server)
	go func() {
		for {
			_, data, err := wsConn.Read(ctx)
			if err != nil {
				_ = tcpConn.Close()
				return
			}
			data = append(data, '\n')
			if _, err := tcpConn.Write(data); err != nil {
				return
			}
		}
	}()

	<-done
	logger.Info("Relay closed")
	wsConn.Close(websocket.StatusNormalClosure, "game ended")
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.mux, ReadHeaderTimeout: 10 * time.Second}
	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	})
	defer stop()

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

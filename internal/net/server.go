package net

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/google/uuid"

	"github.com/peterkuimelis/purrsevere/internal/game"
	"github.com/peterkuimelis/purrsevere/internal/log"
)

// Server hosts matches against the cat for remote terminals. Every
// connection gets its own match; there is no player-versus-player mode.
type Server struct {
	Port          string
	Rules         game.Rules
	PlayerCatalog []*game.Card
	CatCatalog    []*game.Card
	Seed          int64        // 0 draws a fresh seed per match
	Recorder      log.Recorder // optional, e.g. the turn log
	Logger        *slog.Logger
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// Run listens on Port and serves connections until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+s.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled or ln fails.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer ln.Close()
	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	s.logger().Info("Waiting for players", "addr", ln.Addr().String())

	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer conn.Close()
			if err := s.Handle(ctx, conn); err != nil {
				s.logger().Error("Match failed", "remote", conn.RemoteAddr().String(), "error", err)
			}
		}()
	}
}

// Handle runs one match for the client on conn: it reads the join
// message, plays the owner's side over the connection and the cat locally,
// then sends game_over.
func (s *Server) Handle(ctx context.Context, conn net.Conn) error {
	owner := NewNetworkController(conn)
	join, err := owner.ReadJoin(ctx)
	if err != nil {
		return fmt.Errorf("read join message: %w", err)
	}
	name := join.Name
	if name == "" {
		name = game.OwnerName
	}

	rng, seed, err := game.NewRand(s.Seed)
	if err != nil {
		return err
	}
	cfg, err := game.NewMatchConfig(s.Rules, rng, s.PlayerCatalog, s.CatCatalog)
	if err != nil {
		return err
	}
	cfg.OwnerName = name
	if s.Recorder != nil {
		cfg.Logger = s.Recorder
	}

	matchID := uuid.NewString()
	logger := s.logger().With("match", matchID, "seed", seed, "player", name)
	logger.Info("Match started", "remote", conn.RemoteAddr().String())

	m := game.NewMatch(cfg, owner, game.NewCatController(rng))

	state, err := m.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Match cancelled")
		}
		return fmt.Errorf("match %s: %w", matchID, err)
	}

	winner := ""
	if w := m.Winner(); w != nil {
		winner = w.Name
	}
	if err := owner.SendGameOver(matchID, winner, m.Result); err != nil {
		return fmt.Errorf("send game_over: %w", err)
	}
	logger.Info("Match finished", "state", state.String(), "result", m.Result)
	return nil
}

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/purrsevere/internal/config"
	"github.com/peterkuimelis/purrsevere/internal/log"
	purrmcp "github.com/peterkuimelis/purrsevere/internal/mcp"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	playerCards := flag.String("player-cards", "", "path to the player card catalog (default: built in)")
	catCards := flag.String("cat-cards", "", "path to the cat card catalog (default: built in)")
	turnLog := flag.String("turn-log", "", "file the turn history of every session is appended to (overrides turn_log)")
	flag.Parse()

	if err := run(*configPath, *playerCards, *catCards, *turnLog); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, playerCards, catCards, turnLog string) error {
	cfg, err := loadConfig(configPath, playerCards, catCards, turnLog)
	if err != nil {
		return err
	}

	// stdout carries the MCP protocol
	logger := cfg.NewLogger(os.Stderr)

	m, err := newManager(cfg, logger)
	if err != nil {
		return err
	}
	defer m.Close()

	s := server.NewMCPServer("purrsevere", "1.0.0")
	m.RegisterTools(s)

	return server.ServeStdio(s)
}

// loadConfig layers the non-empty flags over the config file and environment.
func loadConfig(configPath, playerCards, catCards, turnLog string) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if playerCards != "" {
		cfg.PlayerCards = playerCards
	}
	if catCards != "" {
		cfg.CatCards = catCards
	}
	if turnLog != "" {
		cfg.TurnLog = turnLog
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newManager(cfg config.Config, logger *slog.Logger) (*purrmcp.Manager, error) {
	playerCatalog, catCatalog, err := cfg.Catalogs()
	if err != nil {
		return nil, err
	}
	m := purrmcp.NewManager(playerCatalog, catCatalog)
	m.Logger = logger
	if cfg.TurnLog != "" {
		m.Recorder = log.NewFileLogger(cfg.TurnLog, logger)
	}
	return m, nil
}

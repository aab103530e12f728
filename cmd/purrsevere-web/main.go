package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/peterkuimelis/purrsevere/internal/config"
	"github.com/peterkuimelis/purrsevere/internal/web"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	port := flag.Int("port", 0, "HTTP port to listen on (default 8080)")
	addr := flag.String("addr", "", "purrsevere host the websocket relay connects to (default localhost:9000)")
	flag.Parse()

	if err := run(*configPath, *port, *addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, port int, addr string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if port != 0 {
		cfg.WebPort = port
	}
	if addr != "" {
		cfg.Addr = addr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := cfg.NewLogger(os.Stderr)

	playerCatalog, catCatalog, err := cfg.Catalogs()
	if err != nil {
		return err
	}
	srv := web.NewServer(playerCatalog, catCatalog, cfg.Addr, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("purrsevere web listening", "url", fmt.Sprintf("http://localhost:%d", cfg.WebPort), "host", cfg.Addr)
	return srv.ListenAndServe(ctx, fmt.Sprintf(":%d", cfg.WebPort))
}

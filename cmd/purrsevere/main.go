package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/peterkuimelis/purrsevere/internal/config"
	"github.com/peterkuimelis/purrsevere/internal/console"
	"github.com/peterkuimelis/purrsevere/internal/game"
	"github.com/peterkuimelis/purrsevere/internal/log"
	purrnet "github.com/peterkuimelis/purrsevere/internal/net"
)

func main() {
	cmd, args := "play", os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	// terminal reads are not interruptible, so only host traps SIGINT
	case "play":
		err = runPlay(context.Background(), args)
	case "join":
		err = runJoin(context.Background(), args)
	case "host":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		err = runHost(ctx, args)
		stop()
	case "decks":
		err = runDecks(args)
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  purrsevere [play] [-d|--difficulty easy|hard] [-l|--length short|long] [--seed N] [--turn-log FILE]")
	fmt.Println("  purrsevere host [--port P] [--difficulty easy|hard] [--length short|long]")
	fmt.Println("  purrsevere join [--addr ADDR] [--name NAME]")
	fmt.Println("  purrsevere decks [--seed N]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  play    Play against the cat in this terminal (default)")
	fmt.Println("  host    Serve matches against the cat to remote terminals")
	fmt.Println("  join    Play a hosted match from this terminal")
	fmt.Println("  decks   Show the decks a seed would offer both sides")
	fmt.Println()
	fmt.Println("Every command also accepts --config FILE, --player-cards FILE and --cat-cards FILE.")
}

// settings binds the shared flags of every subcommand. Flags override the
// config file and environment only when given on the command line.
type settings struct {
	fs         *flag.FlagSet
	configPath *string
	values     config.Config
}

func newSettings(name string) *settings {
	s := &settings{fs: flag.NewFlagSet(name, flag.ExitOnError)}
	d := config.Default()
	s.configPath = s.fs.String("config", "", "path to a YAML config file")
	s.fs.StringVar(&s.values.Difficulty, "difficulty", d.Difficulty, "easy or hard (hard gives the cat +100 HP)")
	s.fs.StringVar(&s.values.Length, "length", d.Length, "short (100 HP) or long (500 HP)")
	s.fs.StringVar(&s.values.Difficulty, "d", d.Difficulty, "shorthand for --difficulty")
	s.fs.StringVar(&s.values.Length, "l", d.Length, "shorthand for --length")
	s.fs.Int64Var(&s.values.Seed, "seed", 0, "random seed for a reproducible match (0 picks one)")
	s.fs.StringVar(&s.values.PlayerCards, "player-cards", "", "path to the player card catalog (default: built in)")
	s.fs.StringVar(&s.values.CatCards, "cat-cards", "", "path to the cat card catalog (default: built in)")
	s.fs.StringVar(&s.values.TurnLog, "turn-log", d.TurnLog, "file the turn history is appended to")
	s.fs.StringVar(&s.values.LogLevel, "log-level", d.LogLevel, "operator log level (debug, info, warn, error)")
	return s
}

// load parses args and layers the explicitly set flags over the config.
func (s *settings) load(args []string) (config.Config, error) {
	if err := s.fs.Parse(args); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(*s.configPath)
	if err != nil {
		return config.Config{}, err
	}
	s.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "difficulty", "d":
			cfg.Difficulty = s.values.Difficulty
		case "length", "l":
			cfg.Length = s.values.Length
		case "seed":
			cfg.Seed = s.values.Seed
		case "player-cards":
			cfg.PlayerCards = s.values.PlayerCards
		case "cat-cards":
			cfg.CatCards = s.values.CatCards
		case "turn-log":
			cfg.TurnLog = s.values.TurnLog
		case "log-level":
			cfg.LogLevel = s.values.LogLevel
		case "port":
			cfg.Port = s.values.Port
		case "addr":
			cfg.Addr = s.values.Addr
		}
	})
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func runPlay(ctx context.Context, args []string) error {
	s := newSettings("play")
	cfg, err := s.load(args)
	if err != nil {
		return err
	}
	logger := cfg.NewLogger(os.Stderr)

	rules, err := cfg.Rules()
	if err != nil {
		return err
	}
	playerCatalog, catCatalog, err := cfg.Catalogs()
	if err != nil {
		return err
	}
	rng, seed, err := game.NewRand(cfg.Seed)
	if err != nil {
		return err
	}
	logger.Debug("Random source ready", "seed", seed, "difficulty", rules.Difficulty.String(), "length", rules.Length.String())
	turnLog := log.NewFileLogger(cfg.TurnLog, logger)
	owner := console.NewController(game.OwnerName, os.Stdin, os.Stdout)

	for {
		mc, err := game.NewMatchConfig(rules, rng, playerCatalog, catCatalog)
		if err != nil {
			return err
		}
		mc.Logger = turnLog
		m := game.NewMatch(mc, owner, game.NewCatController(rng))

		fmt.Print(console.Welcome())
		if _, err := m.Run(ctx); err != nil {
			return err
		}
		fmt.Print(console.Banner(m.Result))

		again, err := owner.PlayAgain()
		if err != nil || !again {
			return err
		}
	}
}

func runHost(ctx context.Context, args []string) error {
	s := newSettings("host")
	s.fs.StringVar(&s.values.Port, "port", config.DefaultPort, "TCP port to listen on")
	cfg, err := s.load(args)
	if err != nil {
		return err
	}
	logger := cfg.NewLogger(os.Stderr)

	rules, err := cfg.Rules()
	if err != nil {
		return err
	}
	playerCatalog, catCatalog, err := cfg.Catalogs()
	if err != nil {
		return err
	}

	srv := &purrnet.Server{
		Port:          cfg.Port,
		Rules:         rules,
		PlayerCatalog: playerCatalog,
		CatCatalog:    catCatalog,
		Seed:          cfg.Seed,
		Recorder:      log.NewFileLogger(cfg.TurnLog, logger),
		Logger:        logger,
	}
	return srv.Run(ctx)
}

func runJoin(ctx context.Context, args []string) error {
	s := newSettings("join")
	s.fs.StringVar(&s.values.Addr, "addr", config.DefaultAddr, "server address to connect to")
	name := s.fs.String("name", game.OwnerName, "name shown to the host")
	cfg, err := s.load(args)
	if err != nil {
		return err
	}
	return purrnet.Connect(ctx, cfg.Addr, *name, os.Stdin, os.Stdout)
}

func runDecks(args []string) error {
	s := newSettings("decks")
	cfg, err := s.load(args)
	if err != nil {
		return err
	}
	playerCatalog, catCatalog, err := cfg.Catalogs()
	if err != nil {
		return err
	}
	rng, seed, err := game.NewRand(cfg.Seed)
	if err != nil {
		return err
	}
	// same draw order as a match, so a seed shows the decks it will offer
	mc, err := game.NewMatchConfig(game.Rules{}, rng, playerCatalog, catCatalog)
	if err != nil {
		return err
	}

	fmt.Printf("Seed %d\n\n", seed)
	fmt.Println("Player decks:")
	console.WriteDecks(os.Stdout, console.DeckLines(mc.PlayerDecks))
	fmt.Println("Cat decks:")
	console.WriteDecks(os.Stdout, console.DeckLines(mc.CatDecks))
	return nil
}

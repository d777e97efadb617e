package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/holdroom/holdroom/internal/config"
	"github.com/holdroom/holdroom/internal/game"
	"github.com/holdroom/holdroom/internal/ledger"
	"github.com/holdroom/holdroom/internal/ws"
)

const version = "v0.3.0-dev"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`holdroom - Texas Hold'em table server

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080 or PORT env var)

Environment Variables:
  PORT                Port to listen on (default: 8080)
  DATABASE_URL        Postgres DSN for the balance ledger (in-memory if unset)
  CURRENCY_SYMBOL     Currency symbol used at the tables (default: $)
  CURRENCY_PRECISION  Decimal places for amounts (default: 2)
  OPENING_BALANCE     Starting balance in the in-memory ledger (default: 1000)
  DEFAULT_ROUNDS      Default round limit per game (default: 3)
  DEFAULT_BUY_IN      Default buy-in per game (default: 20)
  MIN_BUY_IN          Minimum allowed buy-in (default: 20)
  SESSION_TIMEOUT     Idle session cancellation window (default: 10m)
  TURN_TIMEOUT        Per-turn clock before a forced check/fold (default: 90s)
  SWEEP_INTERVAL      How often stalled turns are swept (default: 15s)
`, os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("holdroom %s\n", version)
		return
	}

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *portFlag != "" {
		cfg.Port = *portFlag
	}

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		zerologlog.Info().
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("dur", time.Since(start)).
			Msg("http")
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	// Ledger: Postgres when configured, in-memory otherwise.
	var bank ledger.Ledger
	if cfg.DatabaseURL != "" {
		ctx := context.Background()
		db, err := ledger.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			zerologlog.Fatal().Err(err).Msg("ledger open")
		}
		defer db.Close()
		if err := db.Ping(ctx); err != nil {
			zerologlog.Fatal().Err(err).Msg("ledger ping")
		}
		if err := ledger.Migrate(ctx, db); err != nil {
			zerologlog.Fatal().Err(err).Msg("ledger migrate")
		}
		bank = db
		zerologlog.Info().Msg("using postgres ledger")
	} else {
		opening, err := decimal.NewFromString(cfg.OpeningBalance)
		if err != nil {
			zerologlog.Fatal().Err(err).Msg("invalid OPENING_BALANCE")
		}
		bank = ledger.NewMemory(opening)
		zerologlog.Info().Str("opening", opening.String()).Msg("using in-memory ledger")
	}

	rooms := game.NewManager()
	sock := ws.New(rooms, bank, cfg)
	io := sock.Mount(r)
	defer io.Close()

	// Minimal JSON API next to the socket interface.
	r.GET("/api/tables", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tables": rooms.Tables()})
	})
	r.GET("/api/tables/:id", func(c *gin.Context) {
		sess, err := rooms.Get(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no_active_session"})
			return
		}
		c.JSON(http.StatusOK, sess.State())
	})

	// Turn-clock sweeper.
	go func() {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		for now := range ticker.C {
			sock.Sweep(now)
		}
	}()

	zerologlog.Info().Str("port", cfg.Port).Msg("listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		zerologlog.Fatal().Err(err).Msg("server exited")
	}
}

package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`

	CurrencySymbol    string `env:"CURRENCY_SYMBOL" envDefault:"$"`
	CurrencyPrecision int32  `env:"CURRENCY_PRECISION" envDefault:"2"`

	// Opening balance handed to unknown players by the in-memory ledger.
	// Ignored when DATABASE_URL is set.
	OpeningBalance string `env:"OPENING_BALANCE" envDefault:"1000"`

	DefaultRounds int    `env:"DEFAULT_ROUNDS" envDefault:"3"`
	DefaultBuyIn  string `env:"DEFAULT_BUY_IN" envDefault:"20"`
	MinBuyIn      string `env:"MIN_BUY_IN" envDefault:"20"`

	SessionTimeout time.Duration `env:"SESSION_TIMEOUT" envDefault:"10m"`
	TurnTimeout    time.Duration `env:"TURN_TIMEOUT" envDefault:"90s"`
	SweepInterval  time.Duration `env:"SWEEP_INTERVAL" envDefault:"15s"`
}

func FromEnv() (Config, error) {
	var c Config
	err := env.Parse(&c)
	return c, err
}

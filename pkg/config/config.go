package config

import (
	"time"
)

type DB struct {
	Url     string `envconfig:"URL"`
	Migrate bool   `envconfig:"MIGRATE" default:"false"`
}

type Jwt struct {
	Secret string        `envconfig:"SECRET" required:"true"`
	Expiry time.Duration `envconfig:"EXPIRY" default:"24h"`
}

type Auth struct {
	Jwt *Jwt `envconfig:"JWT"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"json"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[investra]"`
}

type Server struct {
	Host string `envconfig:"HOST" default:"localhost"`
	Port int    `envconfig:"PORT" default:"3000"`
}

// Distribution holds the commission-rate table and business-day settings.
// LevelRates is a comma-separated list of per-level decimals, level 1 first.
// Malformed values fall back to compiled defaults at run start.
type Distribution struct {
	DailyRate     string `envconfig:"DAILY_RATE" default:"0.01"`
	LevelRates    string `envconfig:"LEVEL_RATES" default:"0.10,0.05,0.03,0.02,0.01,0.01,0.01,0.005,0.005,0.005"`
	TzOffsetHours int    `envconfig:"TZ_OFFSET_HOURS" default:"1"`
}

// ChainScan configures the external payment verification lookup.
type ChainScan struct {
	ApiUrl           string        `envconfig:"API_URL"`
	ApiKey           string        `envconfig:"API_KEY"`
	HTTPTimeout      time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
	MinConfirmations int           `envconfig:"MIN_CONFIRMATIONS" default:"6"`
	AdminWallet      string        `envconfig:"ADMIN_WALLET"`
}

type App struct {
	Env          string        `envconfig:"APP_ENV" default:"development"`
	Server       *Server       `envconfig:"SERVER"`
	Log          *Log          `envconfig:"LOG"`
	DB           *DB           `envconfig:"DATABASE"`
	Auth         *Auth         `envconfig:"AUTH"`
	RateLimit    *RateLimit    `envconfig:"RATE_LIMIT"`
	Distribution *Distribution `envconfig:"DISTRIBUTION"`
	ChainScan    *ChainScan    `envconfig:"CHAINSCAN"`
}

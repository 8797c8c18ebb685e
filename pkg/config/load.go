package config

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads the .env file if present and builds the App config from the
// environment. Secrets are masked in the startup log.
func Load() (*App, error) {
	logger := slog.Default()
	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found, using system environment variables")
	}

	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	logger.Info("App config loaded",
		"env", cfg.Env,
		"db", maskValue(cfg.DB.Url),
		"rate_limit_max_requests", cfg.RateLimit.MaxRequests,
		"rate_limit_window", cfg.RateLimit.Window,
		"daily_rate", cfg.Distribution.DailyRate,
		"level_rates", cfg.Distribution.LevelRates,
		"tz_offset_hours", cfg.Distribution.TzOffsetHours,
		"chainscan_url", cfg.ChainScan.ApiUrl,
		"chainscan_api_key", maskValue(cfg.ChainScan.ApiKey),
	)
	return &cfg, nil
}

func maskValue(key string) string {
	if len(key) <= 6 {
		return "****"
	}
	return key[:2] + "****" + key[len(key)-4:]
}

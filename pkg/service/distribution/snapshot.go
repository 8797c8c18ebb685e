package distribution

import (
	"log/slog"
	"strings"
	"time"

	"github.com/investra/platform/pkg/config"
	"github.com/shopspring/decimal"
)

// maxLevels bounds the upline cascade.
const maxLevels = 10

// defaultDailyRate and defaultLevelRates are the compiled fallbacks used
// when configuration is absent or malformed.
var (
	defaultDailyRate  = decimal.RequireFromString("0.01")
	defaultLevelRates = []decimal.Decimal{
		decimal.RequireFromString("0.10"),
		decimal.RequireFromString("0.05"),
		decimal.RequireFromString("0.03"),
		decimal.RequireFromString("0.02"),
		decimal.RequireFromString("0.01"),
		decimal.RequireFromString("0.01"),
		decimal.RequireFromString("0.01"),
		decimal.RequireFromString("0.005"),
		decimal.RequireFromString("0.005"),
		decimal.RequireFromString("0.005"),
	}
)

// Snapshot is the configuration a single run operates on. It is resolved
// once at run start so the run stays internally consistent even if
// configuration changes concurrently.
type Snapshot struct {
	Date       string
	DailyRate  decimal.Decimal
	LevelRates []decimal.Decimal
}

// newSnapshot resolves the business day and rate tables. The business day is
// the calendar date in the platform's fixed operating timezone, not UTC
// midnight.
func newSnapshot(cfg *config.Distribution, now time.Time, logger *slog.Logger) Snapshot {
	offset := 0
	if cfg != nil {
		offset = cfg.TzOffsetHours
	}
	loc := time.FixedZone("business", offset*3600)

	snap := Snapshot{
		Date:       now.In(loc).Format("2006-01-02"),
		DailyRate:  defaultDailyRate,
		LevelRates: defaultLevelRates,
	}
	if cfg == nil {
		return snap
	}

	// An empty value is absent configuration, not malformed; only set values
	// warn on parse failure.
	if cfg.DailyRate != "" {
		if rate, err := decimal.NewFromString(cfg.DailyRate); err == nil && rate.IsPositive() {
			snap.DailyRate = rate
		} else {
			logger.Warn("malformed daily rate, using default", "value", cfg.DailyRate)
		}
	}

	if cfg.LevelRates != "" {
		if rates, ok := parseLevelRates(cfg.LevelRates); ok {
			snap.LevelRates = rates
		} else {
			logger.Warn("malformed level rates, using defaults", "value", cfg.LevelRates)
		}
	}
	return snap
}

// parseLevelRates parses a comma-separated decimal list. Any bad entry
// rejects the whole table; partial tables would silently change payout
// semantics.
func parseLevelRates(s string) ([]decimal.Decimal, bool) {
	parts := strings.Split(s, ",")
	if len(parts) == 0 || len(parts) > maxLevels {
		return nil, false
	}
	rates := make([]decimal.Decimal, 0, len(parts))
	for _, p := range parts {
		rate, err := decimal.NewFromString(strings.TrimSpace(p))
		if err != nil || rate.IsNegative() {
			return nil, false
		}
		rates = append(rates, rate)
	}
	return rates, true
}

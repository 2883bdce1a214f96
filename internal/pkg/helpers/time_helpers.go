package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// DateLayout is the calendar-day form accepted by list filters
const DateLayout = "2006-01-02"

// ParseDuration parses a config duration such as "10m", falling back to def
// when the value is empty or malformed.
func ParseDuration(value string, def time.Duration) time.Duration {
	if value == "" {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		// The global logger may still be the default one at config time
		log.Warn().Err(err).Str("value", value).Dur("default", def).Msg("Invalid duration, using default")
		return def
	}
	return d
}

// ParseDateOrTime accepts an RFC3339 instant or a plain YYYY-MM-DD day (UTC midnight)
func ParseDateOrTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse(DateLayout, value)
}

package update

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type RuntimeConfig struct {
	DBPath          string
	EngineBuffer    int
	MaxSnoozes      int
	SnoozeMinutes   int
	SessionMinutes  int
	PulseSeconds    int
	FollowupOffsets []time.Duration
	Sound           bool
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		EngineBuffer:    64,
		MaxSnoozes:      2,
		SnoozeMinutes:   9,
		SessionMinutes:  15,
		PulseSeconds:    2,
		FollowupOffsets: []time.Duration{30 * time.Second, 60 * time.Second, 120 * time.Second},
		Sound:           true,
	}
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("ALTARD_DB_PATH")); v != "" {
		cfg.DBPath = v
	}
	if v, ok := getEnvInt("ALTARD_ENGINE_BUFFER"); ok && v > 0 {
		cfg.EngineBuffer = v
	}
	if v, ok := getEnvInt("ALTARD_MAX_SNOOZES"); ok && v >= 0 {
		cfg.MaxSnoozes = v
	}
	if v, ok := getEnvInt("ALTARD_SNOOZE_MINUTES"); ok && v > 0 {
		cfg.SnoozeMinutes = v
	}
	if v, ok := getEnvInt("ALTARD_SESSION_MINUTES"); ok && v > 0 {
		cfg.SessionMinutes = v
	}
	if v, ok := getEnvInt("ALTARD_PULSE_SECONDS"); ok && v > 0 {
		cfg.PulseSeconds = v
	}
	if v, ok := getEnvBool("ALTARD_SOUND"); ok {
		cfg.Sound = v
	}
	if offsets, ok := getEnvDurations("ALTARD_FOLLOWUP_OFFSETS"); ok {
		cfg.FollowupOffsets = offsets
	}
	return cfg
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	switch raw {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

// getEnvDurations parses a comma-separated duration list like "30s,60s,2m".
// The whole value is rejected if any element fails to parse.
func getEnvDurations(name string) ([]time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return nil, false
	}
	parts := strings.Split(raw, ",")
	out := make([]time.Duration, 0, len(parts))
	for _, part := range parts {
		d, err := time.ParseDuration(strings.TrimSpace(part))
		if err != nil || d <= 0 {
			return nil, false
		}
		out = append(out, d)
	}
	return out, true
}

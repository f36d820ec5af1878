package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr            string
	StoreKind       string
	SQLitePath      string
	DatabaseURL     string
	SaveFile        string
	TickEvery       time.Duration
	Speed           float64
	SecondsPerMonth float64
	Autosave        bool
	Seed            int64
	BalanceFile     string
	DiscordToken    string
	DiscordChannel  string
}

type CLIConfig struct {
	APIBaseURL string
}

func LoadFromEnv() (Config, error) {
	addr := os.Getenv("PORT")
	if addr != "" {
		if !strings.HasPrefix(addr, ":") {
			addr = ":" + addr
		}
	} else {
		addr = envDefault("BIZDOM_API_ADDR", ":8080")
	}

	cfg := Config{
		Addr:            addr,
		StoreKind:       strings.ToLower(envDefault("BIZDOM_STORE", "sqlite")),
		SQLitePath:      envDefault("BIZDOM_SQLITE_PATH", "tmp/bizdom.sqlite"),
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SaveFile:        strings.TrimSpace(os.Getenv("BIZDOM_SAVE_FILE")),
		TickEvery:       envDurationDefault("BIZDOM_TICK_EVERY", time.Second),
		Speed:           envFloatDefault("BIZDOM_SPEED", 1),
		SecondsPerMonth: envFloatDefault("BIZDOM_SECONDS_PER_MONTH", 300),
		Autosave:        envBoolDefault("BIZDOM_AUTOSAVE", true),
		Seed:            envInt64Default("BIZDOM_SEED", 0),
		BalanceFile:     strings.TrimSpace(os.Getenv("BIZDOM_BALANCE_FILE")),
		DiscordToken:    strings.TrimSpace(os.Getenv("BIZDOM_DISCORD_TOKEN")),
		DiscordChannel:  strings.TrimSpace(os.Getenv("BIZDOM_DISCORD_CHANNEL")),
	}
	switch cfg.StoreKind {
	case "sqlite", "file":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return cfg, fmt.Errorf("DATABASE_URL is required when BIZDOM_STORE=postgres")
		}
	default:
		return cfg, fmt.Errorf("unsupported BIZDOM_STORE %q", cfg.StoreKind)
	}
	if cfg.Speed <= 0 {
		return cfg, fmt.Errorf("BIZDOM_SPEED must be positive")
	}
	if cfg.TickEvery <= 0 {
		return cfg, fmt.Errorf("BIZDOM_TICK_EVERY must be positive")
	}
	if cfg.SecondsPerMonth <= 0 {
		return cfg, fmt.Errorf("BIZDOM_SECONDS_PER_MONTH must be positive")
	}
	if (cfg.DiscordToken == "") != (cfg.DiscordChannel == "") {
		return cfg, fmt.Errorf("BIZDOM_DISCORD_TOKEN and BIZDOM_DISCORD_CHANNEL must be set together")
	}
	return cfg, nil
}

func LoadCLIFromEnv() CLIConfig {
	return CLIConfig{
		APIBaseURL: strings.TrimRight(envDefault("BIZDOM_API_BASE_URL", "http://localhost:8080"), "/"),
	}
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envDurationDefault(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envFloatDefault(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envInt64Default(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func envBoolDefault(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

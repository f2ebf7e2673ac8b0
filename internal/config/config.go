package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/game"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	StaticDir   string
	ProfilePath string // optional YAML timing overrides

	StartDelay          time.Duration
	InterAnimationDelay time.Duration
	ExpireFactor        float64
	SessionTTL          time.Duration
}

// Load reads the environment after merging in the file named by ENV_FILE
// (default .env). Variables already set win over the file.
func Load() Config {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[Config] Reading %s: %v\n", envFile, err)
	}

	cfg := Config{
		Port:                getEnv("PORT", "5000"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		StaticDir:           getEnv("STATIC_DIR", "dist"),
		ProfilePath:         os.Getenv("PROFILE_PATH"),
		StartDelay:          time.Duration(getEnvInt("START_DELAY_MS", 2000)) * time.Millisecond,
		InterAnimationDelay: time.Duration(getEnvInt("INTER_ANIMATION_DELAY_MS", 500)) * time.Millisecond,
		ExpireFactor:        getEnvFloat("EXPIRE_FACTOR", 4),
		SessionTTL:          time.Duration(getEnvInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
	}
	return cfg
}

// Game returns the scheduler settings.
func (c Config) Game() game.Config {
	return game.Config{
		StartDelay:          c.StartDelay,
		InterAnimationDelay: c.InterAnimationDelay,
		ExpireFactor:        c.ExpireFactor,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return fallback
}

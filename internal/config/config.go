// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for all game and settlement settings.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"
	"time"
)

// =============================================================================
// WORLD & GAME RULES
// =============================================================================

// GameConfig holds the arena geometry and food spawn rules.
// These values are shared between the game engine and its tests.
type GameConfig struct {
	WorldWidth   float64 // Arena width in world units
	WorldHeight  float64 // Arena height in world units
	SpawnX       float64 // Fixed spawn point for joining players
	SpawnY       float64
	FoodBatch    int // Food entities spawned when the pool is empty
	FoodScoreMin int // Inclusive lower bound of a food item's score
	FoodScoreMax int // Inclusive upper bound of a food item's score
}

// DefaultGame returns the default game rules.
func DefaultGame() GameConfig {
	return GameConfig{
		WorldWidth:   1000,
		WorldHeight:  1000,
		SpawnX:       500,
		SpawnY:       500,
		FoodBatch:    20,
		FoodScoreMin: 1,
		FoodScoreMax: 10,
	}
}

// GameFromEnv returns game rules with environment variable overrides.
// Environment variables take precedence over defaults.
func GameFromEnv() GameConfig {
	cfg := DefaultGame()

	if w := getEnvFloat("WORLD_WIDTH", 0); w > 0 {
		cfg.WorldWidth = w
	}
	if h := getEnvFloat("WORLD_HEIGHT", 0); h > 0 {
		cfg.WorldHeight = h
	}
	if b := getEnvInt("FOOD_BATCH", 0); b > 0 {
		cfg.FoodBatch = b
	}

	return cfg
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port: 3000,
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}

	return cfg
}

// =============================================================================
// SETTLEMENT CONFIGURATION
// =============================================================================

// LedgerConfig holds the external share-ledger connection settings.
// An empty URL selects the in-process ledger (dev/test mode).
type LedgerConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// DefaultLedger returns the default ledger configuration (in-process ledger).
func DefaultLedger() LedgerConfig {
	return LedgerConfig{
		Timeout: 10 * time.Second,
	}
}

// LedgerFromEnv returns ledger configuration with environment variable overrides.
func LedgerFromEnv() LedgerConfig {
	cfg := DefaultLedger()

	cfg.URL = os.Getenv("LEDGER_URL")
	cfg.APIKey = os.Getenv("LEDGER_API_KEY")
	if s := getEnvInt("LEDGER_TIMEOUT_SECONDS", 0); s > 0 {
		cfg.Timeout = time.Duration(s) * time.Second
	}

	return cfg
}

// NotifierConfig holds the analytics webhook settings.
// An empty URL disables delivery (no-op notifier).
type NotifierConfig struct {
	WebhookURL string
	Timeout    time.Duration
}

// DefaultNotifier returns the default notifier configuration (disabled).
func DefaultNotifier() NotifierConfig {
	return NotifierConfig{
		Timeout: 5 * time.Second,
	}
}

// NotifierFromEnv returns notifier configuration with environment variable overrides.
func NotifierFromEnv() NotifierConfig {
	cfg := DefaultNotifier()

	cfg.WebhookURL = os.Getenv("NOTIFIER_WEBHOOK_URL")
	if s := getEnvInt("NOTIFIER_TIMEOUT_SECONDS", 0); s > 0 {
		cfg.Timeout = time.Duration(s) * time.Second
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Game     GameConfig
	Server   ServerConfig
	Ledger   LedgerConfig
	Notifier NotifierConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Game:     GameFromEnv(),
		Server:   ServerFromEnv(),
		Ledger:   LedgerFromEnv(),
		Notifier: NotifierFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"munch-arena/internal/api"
	"munch-arena/internal/config"
	"munch-arena/internal/game"
	"munch-arena/internal/settlement"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("💡 No .env file found, using environment variables only")
	}

	log.Println("🎮 ================================")
	log.Println("🎮  MUNCH ARENA - GAME SERVER")
	log.Println("🎮 ================================")

	// Centralized configuration (SSOT - Single Source of Truth).
	appConfig := config.Load()
	gameCfg := appConfig.Game
	serverCfg := appConfig.Server
	ledgerCfg := appConfig.Ledger
	notifierCfg := appConfig.Notifier

	log.Printf("🗺️ World: %.0fx%.0f, spawn (%.0f,%.0f), food batch %d [%d..%d]",
		gameCfg.WorldWidth, gameCfg.WorldHeight, gameCfg.SpawnX, gameCfg.SpawnY,
		gameCfg.FoodBatch, gameCfg.FoodScoreMin, gameCfg.FoodScoreMax)

	// Ledger: remote when configured, in-process otherwise.
	var ledger settlement.Ledger
	if ledgerCfg.URL != "" {
		ledger = settlement.NewHTTPLedger(ledgerCfg.URL, ledgerCfg.APIKey, ledgerCfg.Timeout)
		log.Printf("💰 Ledger: %s", ledgerCfg.URL)
	} else {
		ledger = settlement.NewMemoryLedger()
		log.Println("💰 Ledger: in-process (set LEDGER_URL for remote settlement)")
	}

	var notifier settlement.Notifier
	if notifierCfg.WebhookURL != "" {
		notifier = settlement.NewWebhookNotifier(notifierCfg.WebhookURL, notifierCfg.Timeout)
		log.Printf("📣 Notifier webhook: %s", notifierCfg.WebhookURL)
	} else {
		notifier = settlement.NoopNotifier{}
		log.Println("📣 Notifier disabled (set NOTIFIER_WEBHOOK_URL to enable)")
	}

	bridge := settlement.NewBridge(ledger, notifier)

	// Audit event log.
	events := game.NewEventLog()
	eventLogPath := getEnvWithDefault("EVENT_LOG_PATH", "events.jsonl")
	if err := events.Start(eventLogPath); err != nil {
		log.Printf("⚠️ Event log disabled: %v", err)
		events = nil
	} else {
		log.Printf("📝 Event log: %s", eventLogPath)
	}

	registry := game.NewRegistry(gameCfg, bridge, events)

	// Debug server (pprof + prometheus), localhost only.
	debugCfg := api.DefaultObservabilityConfig()
	if os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		if err := api.StartDebugServer(debugCfg); err != nil {
			log.Printf("⚠️ Debug server disabled: %v", err)
		}
	}

	server := api.NewServer(registry)

	go func() {
		addr := ":" + strconv.Itoa(serverCfg.Port)
		if err := server.Start(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Server ready! Press Ctrl+C to stop.")
	<-quit

	log.Println("🛑 Shutting down...")
	server.Stop()
	bridge.Wait()
	events.Stop()
	log.Println("👋 Goodbye!")
}

func getEnvWithDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

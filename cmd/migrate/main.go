package main

import (
	"wallet_ledger/internal/config"  // Configuration
	"wallet_ledger/internal/db"      // Database
	"wallet_ledger/internal/logging" // Logger setup
)

// Main entry point for migration
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logging.New(cfg)

	conn, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	log.Info("Migration completed.")
}

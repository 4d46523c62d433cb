package main

import (
	"context" // Request context
	"flag"    // Command line flags
	"os"      // Password from environment

	"wallet_ledger/internal/config"  // Configuration
	"wallet_ledger/internal/db"      // Database
	"wallet_ledger/internal/logging" // Logger setup
	"wallet_ledger/internal/service" // Auth service
)

// Creates an admin account, or promotes an existing account of the same handle.
//
//	ADMIN_PASSWORD=... go run ./cmd/admin_seed -username root
func main() {
	username := flag.String("username", "admin", "admin handle")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logging.New(cfg)

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("ADMIN_PASSWORD is required")
	}

	conn, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	svc := service.New(conn, nil, cfg, log)
	acc, err := svc.Auth.EnsureAdmin(context.Background(), *username, password)
	if err != nil {
		log.Fatalf("seed admin: %v", err)
	}
	log.WithField("account_id", acc.ID).Info("Admin ready: " + acc.Username)
}

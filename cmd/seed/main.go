// File: cmd/seed/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"fedup-chat/internal/config"
	pg "fedup-chat/internal/infra/db/postgres"
)

// schema holds the DDL for every table the app reads and writes. Statements
// are idempotent so the command is safe to rerun against a live database.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS quota_ledgers (
		user_id            TEXT PRIMARY KEY,
		period             TEXT NOT NULL,
		user_turns         INT NOT NULL DEFAULT 0,
		voice_user_turns   INT NOT NULL DEFAULT 0,
		text_cap_override  INT NOT NULL DEFAULT 0,
		voice_cap_override INT NOT NULL DEFAULT 0,
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS messages (
		user_id    TEXT NOT NULL,
		id         BIGINT NOT NULL,
		text       TEXT NOT NULL,
		is_user    BOOLEAN NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, id)
	);`,
	`CREATE TABLE IF NOT EXISTS user_settings (
		user_id        TEXT PRIMARY KEY,
		chat_mode      TEXT NOT NULL DEFAULT 'professional',
		voice_enabled  BOOLEAN NOT NULL DEFAULT FALSE,
		selected_voice TEXT NOT NULL DEFAULT '',
		last_active_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS waitlist (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
}

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			log.Fatalf("apply schema: %v", err)
		}
	}

	fmt.Println("schema is up to date.")
}

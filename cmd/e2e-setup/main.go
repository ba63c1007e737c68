// File: cmd/e2e-setup/main.go
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/ledvelvet/doorcheck/internal/config"
	"github.com/ledvelvet/doorcheck/internal/domain/model"
	"github.com/ledvelvet/doorcheck/internal/infra/db/postgres"
	"github.com/ledvelvet/doorcheck/internal/infra/redis"
	"github.com/ledvelvet/doorcheck/internal/usecase"

	"github.com/rs/zerolog"
)

// This script sets up a clean, predictable database state for manual
// end-to-end testing against a running stack.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	// --- Connect to Postgres ---
	pool, err := postgres.NewPgxPool(ctx, cfg.Database.URL, 5)
	if err != nil {
		log.Fatalf("postgres connection failed: %v", err)
	}
	defer pool.Close()

	// --- Connect to Redis ---
	redisClient, err := redis.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis connection failed: %v", err)
	}
	defer redisClient.Close()

	log.Println("--- Starting E2E Environment Setup ---")

	// 1. Clean the Redis cache to remove any stale data.
	log.Println("[1/3] Wiping Redis cache...")
	if err := redisClient.FlushDB(ctx); err != nil {
		log.Fatalf("failed to flush redis: %v", err)
	}

	// 2. Clean the database completely.
	log.Println("[2/3] Wiping all existing database data...")
	_, err = pool.Exec(ctx, `
		TRUNCATE
			events, members, member_cards, memberships, checkins
		RESTART IDENTITY CASCADE;
	`)
	if err != nil {
		log.Fatalf("failed to truncate tables: %v", err)
	}

	// 3. Seed a known event, members, and credentials.
	log.Println("[3/3] Seeding known fixtures...")

	logger := zerolog.Nop()
	eventRepo := postgres.NewEventRepo(pool)
	memberRepo := postgres.NewMemberRepo(pool)
	cardRepo := postgres.NewMemberCardRepo(pool)
	membershipRepo := postgres.NewMembershipRepo(pool)
	tm := postgres.NewTxManager(pool)

	eventUC := usecase.NewEventUseCase(eventRepo, &logger)
	memberUC := usecase.NewMemberUseCase(memberRepo, cardRepo, membershipRepo, tm, &logger)
	membershipUC := usecase.NewMembershipUseCase(membershipRepo, &logger)

	starts := time.Now().Add(24 * time.Hour).UTC()
	event, err := eventUC.Create(ctx, "E2E Test Night", "e2e-night", &starts, "Test Hall")
	if err != nil {
		log.Fatalf("seed event: %v", err)
	}
	log.Printf("event: %s (ref=%s)", event.ID, event.Ref)

	// An active member with a card, for the happy path.
	active, err := memberUC.Create(ctx, "Active", "Member", "active@example.org", false, "")
	if err != nil {
		log.Fatalf("seed active member: %v", err)
	}
	card, err := memberUC.IssueCard(ctx, active.ID)
	if err != nil {
		log.Fatalf("issue card: %v", err)
	}
	end := time.Now().AddDate(1, 0, 0)
	if _, err := membershipUC.Create(ctx, active.ID, model.MembershipStatusActive, time.Now(), &end); err != nil {
		log.Fatalf("seed membership: %v", err)
	}
	log.Printf("active member: %s token=%s", active.ID, card.Token)

	// A lapsed member, for the not_member_active denial.
	lapsed, err := memberUC.Create(ctx, "Lapsed", "Member", "lapsed@example.org", false, "")
	if err != nil {
		log.Fatalf("seed lapsed member: %v", err)
	}
	lapsedCard, err := memberUC.IssueCard(ctx, lapsed.ID)
	if err != nil {
		log.Fatalf("issue lapsed card: %v", err)
	}
	lapsedEnd := time.Now().AddDate(0, 0, -7)
	if _, err := membershipUC.Create(ctx, lapsed.ID, model.MembershipStatusActive, lapsedEnd.AddDate(0, -6, 0), &lapsedEnd); err != nil {
		log.Fatalf("seed lapsed membership: %v", err)
	}
	log.Printf("lapsed member: %s token=%s", lapsed.ID, lapsedCard.Token)

	// A revoked card, for the card_revoked denial.
	revoked, err := memberUC.Create(ctx, "Revoked", "Member", "revoked@example.org", false, "")
	if err != nil {
		log.Fatalf("seed revoked member: %v", err)
	}
	revokedCard, err := memberUC.IssueCard(ctx, revoked.ID)
	if err != nil {
		log.Fatalf("issue revoked card: %v", err)
	}
	if err := memberUC.RevokeCard(ctx, revokedCard.ID); err != nil {
		log.Fatalf("revoke card: %v", err)
	}
	log.Printf("revoked member: %s token=%s", revoked.ID, revokedCard.Token)

	// A legacy member with a Wally barcode, for the legacy_ok bypass.
	if _, err := memberUC.Create(ctx, "Legacy", "Member", "legacy@example.org", true, "004923110042"); err != nil {
		log.Fatalf("seed legacy member: %v", err)
	}
	log.Printf("legacy member barcode: 004923110042")

	log.Println("--- E2E Environment Setup Complete ---")
}

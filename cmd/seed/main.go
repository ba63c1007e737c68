// File: cmd/seed/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/rs/zerolog"

	"github.com/ledvelvet/doorcheck/internal/config"
	"github.com/ledvelvet/doorcheck/internal/domain/model"
	pg "github.com/ledvelvet/doorcheck/internal/infra/db/postgres"
	"github.com/ledvelvet/doorcheck/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	logger := zerolog.Nop()
	eventRepo := pg.NewEventRepo(pool)
	memberRepo := pg.NewMemberRepo(pool)
	cardRepo := pg.NewMemberCardRepo(pool)
	membershipRepo := pg.NewMembershipRepo(pool)
	tm := pg.NewTxManager(pool)

	eventUC := usecase.NewEventUseCase(eventRepo, &logger)
	memberUC := usecase.NewMemberUseCase(memberRepo, cardRepo, membershipRepo, tm, &logger)
	membershipUC := usecase.NewMembershipUseCase(membershipRepo, &logger)

	// If events already exist, do nothing
	events, err := eventUC.List(ctx)
	if err != nil {
		log.Fatalf("list events: %v", err)
	}
	if len(events) > 0 {
		fmt.Printf("%d events already present. No changes.\n", len(events))
		return
	}

	starts := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Hour)
	event, err := eventUC.Create(ctx, "Opening Night", "opening-night", &starts, "Main Hall")
	if err != nil {
		log.Fatalf("create event: %v", err)
	}
	fmt.Printf("seeded event: %s (id=%s, ref=%s)\n", event.Title, event.ID, event.Ref)

	seed := []struct {
		First   string
		Last    string
		Email   string
		Legacy  bool
		Barcode string
	}{
		{"Ada", "Veldt", "ada@example.org", false, ""},
		{"Bram", "Kooij", "bram@example.org", false, ""},
		{"Cleo", "Martens", "cleo@example.org", true, "004923110001"},
	}

	for _, s := range seed {
		m, err := memberUC.Create(ctx, s.First, s.Last, s.Email, s.Legacy, s.Barcode)
		if err != nil {
			log.Fatalf("create member %s %s: %v", s.First, s.Last, err)
		}
		fmt.Printf("seeded member: %s %s (id=%s, legacy=%v)\n", m.FirstName, m.LastName, m.ID, m.Legacy)

		if !s.Legacy {
			card, err := memberUC.IssueCard(ctx, m.ID)
			if err != nil {
				log.Fatalf("issue card: %v", err)
			}
			fmt.Printf("  card token: %s\n", card.Token)

			end := time.Now().AddDate(1, 0, 0)
			if _, err := membershipUC.Create(ctx, m.ID, model.MembershipStatusActive, time.Now(), &end); err != nil {
				log.Fatalf("create membership: %v", err)
			}
			fmt.Println("  membership: active for one year")
		}
	}

	fmt.Println("✅ Seeding complete.")
}

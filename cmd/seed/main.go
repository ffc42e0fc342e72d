package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"

	"pigmemento/internal/config"
	"pigmemento/internal/platform/database"
	"pigmemento/internal/waitlist"
)

var (
	firstNames = []string{"Ada", "Grace", "Alan", "Rosalind", "Marie", "Niels", "Lise", "Carl", "Emmy", "Paul"}
	lastNames  = []string{"Lovelace", "Hopper", "Turing", "Franklin", "Curie", "Bohr", "Meitner", "Sagan", "Noether", "Dirac"}
)

// Seeds demo waitlist signups for local development. Signups go through the
// same service as the API, so re-running the command only reports duplicates.
func main() {
	var (
		count  = flag.Int("count", 50, "Number of demo signups")
		domain = flag.String("domain", "example.com", "Email domain for demo signups")
	)
	flag.Parse()

	config.LoadEnvFiles()
	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	repo := waitlist.NewPostgresRepo(pool, cfg.DBQueryTimeout)
	svc := waitlist.NewService(repo)

	log.Printf("Seeding %d waitlist signups...", *count)
	var added, existing int
	for i := 0; i < *count; i++ {
		first := firstNames[rand.IntN(len(firstNames))]
		last := lastNames[rand.IntN(len(lastNames))]
		name := first + " " + last
		email := fmt.Sprintf("demo+%04d@%s", i+1, *domain)

		status, err := svc.Join(ctx, name, email)
		if err != nil {
			log.Fatalf("Failed to seed %s: %v", email, err)
		}
		if status == waitlist.StatusAdded {
			added++
		} else {
			existing++
		}
	}
	log.Printf("Seeded waitlist added=%d already_registered=%d", added, existing)

	total, err := repo.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count subscribers: %v", err)
	}
	log.Printf("Total subscribers in database: %d", total)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"pigmemento/internal/config"
	"pigmemento/internal/platform/database"

	"github.com/pressly/goose/v3"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	config.LoadEnvFiles()

	if *command == "create" {
		if *name == "" {
			log.Fatal("Name is required for 'create' command")
		}
		if err := goose.Create(nil, createDir(), *name, "sql"); err != nil {
			log.Fatalf("Failed to create migration: %v", err)
		}
		fmt.Printf("Migration created: %s\n", *name)
		return
	}

	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	cmd := database.Command(*command)
	switch cmd {
	case database.CommandUp, database.CommandDown, database.CommandStatus:
	default:
		log.Fatalf("Unknown command: %s. Use: up, down, status, create", *command)
	}

	if err := database.RunMigrations(ctx, pool, migrationsSource(), cmd); err != nil {
		log.Fatalf("Migration %s failed: %v", cmd, err)
	}
	switch cmd {
	case database.CommandUp:
		fmt.Println("Migrations applied successfully")
	case database.CommandDown:
		fmt.Println("Migrations rolled back successfully")
	}
}

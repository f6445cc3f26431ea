package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/orbitronic/internal/config"
	"github.com/Skotchmaster/orbitronic/internal/db"
	"github.com/Skotchmaster/orbitronic/internal/events"
	"github.com/Skotchmaster/orbitronic/internal/models"
	"github.com/Skotchmaster/orbitronic/internal/repo"
	"github.com/Skotchmaster/orbitronic/internal/seed"
	"github.com/Skotchmaster/orbitronic/internal/service"
)

const usage = "expected 'add-user' or 'seed' subcommand"

func main() {
	addUserCmd := flag.NewFlagSet("add-user", flag.ExitOnError)
	username := addUserCmd.String("username", "", "Username for the new user")
	password := addUserCmd.String("password", "", "Password for the new user")
	role := addUserCmd.String("role", models.RoleUser, "Role: admin or user")

	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add-user":
		_ = addUserCmd.Parse(os.Args[2:])
		if *username == "" || *password == "" {
			fmt.Println("username and password are required")
			addUserCmd.PrintDefaults()
			os.Exit(1)
		}
		createUser(*username, *password, *role)
	case "seed":
		_ = seedCmd.Parse(os.Args[2:])
		runSeed()
	default:
		fmt.Println(usage)
		os.Exit(1)
	}
}

func openDB(ctx context.Context) *gorm.DB {
	cfg := config.Load()
	if cfg.DatabaseDriver == db.DriverPostgres {
		config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	}

	gdb, err := db.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	// the cli may run before the server ever has
	if err := db.Migrate(ctx, gdb); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}
	return gdb
}

func createUser(username, password, role string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	gdb := openDB(ctx)
	defer db.Close(gdb)

	svc := &service.AuthService{Users: &repo.GormRepo{DB: gdb}, Events: events.Nop{}}
	if err := svc.CreateAccount(ctx, username, password, role); err != nil {
		var fe *service.FieldError
		if errors.As(err, &fe) {
			fmt.Println(fe.Message)
			os.Exit(1)
		}
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("User '%s' created with role %s.\n", username, role)
}

func runSeed() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	gdb := openDB(ctx)
	defer db.Close(gdb)

	if err := seed.Run(ctx, gdb); err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}
	fmt.Println("Seed complete.")
}

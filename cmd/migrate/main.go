package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"offer-ticketing-platform/internal/config"
	"offer-ticketing-platform/internal/database"
	"offer-ticketing-platform/internal/logging"

	"github.com/sirupsen/logrus"
)

func main() {
	var (
		statusFlag = flag.Bool("status", false, "Show migration status")
		upFlag     = flag.Bool("up", false, "Run pending migrations")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load config")
	}
	logging.Init(cfg.Log.Level, cfg.IsDevelopment())

	ctx := context.Background()
	db, err := database.NewConnection(ctx, database.Config{
		URL:      cfg.Database.URL,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	switch {
	case *statusFlag:
		statuses, err := db.GetMigrationStatus(ctx)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to get migration status")
		}
		for _, s := range statuses {
			state := "pending"
			if s.Applied {
				state = "applied"
			}
			fmt.Printf("%03d %-40s %s\n", s.Version, s.Name, state)
		}
	case *upFlag:
		if err := db.RunMigrations(ctx); err != nil {
			logrus.WithError(err).Fatal("Failed to run migrations")
		}
		fmt.Println("All migrations completed successfully!")
	default:
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/migrate -status   # Show migration status")
		fmt.Println("  go run ./cmd/migrate -up       # Run pending migrations")
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"

	"offer-ticketing-platform/internal/config"
	"offer-ticketing-platform/internal/database"
	"offer-ticketing-platform/internal/logging"
	"offer-ticketing-platform/internal/models"
	"offer-ticketing-platform/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
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

	if err := db.RunMigrations(ctx); err != nil {
		logrus.WithError(err).Fatal("Failed to run migrations")
	}

	offers := []models.OfferCreateRequest{
		{
			Name:        "Solo pass",
			Description: "Access to every event for one person.",
			Price:       decimal.RequireFromString("25.00"),
		},
		{
			Name:        "Duo pass",
			Description: "Access to every event for two people.",
			Price:       decimal.RequireFromString("45.00"),
		},
		{
			Name:        "Family pass",
			Description: "Access to every event for up to four people.",
			Price:       decimal.RequireFromString("80.00"),
		},
	}

	repo := repositories.NewOfferRepository(db.DB)
	for i := range offers {
		req := &offers[i]
		if err := req.Validate(); err != nil {
			logrus.WithError(err).WithField("offer", req.Name).Fatal("Invalid seed offer")
		}

		offer, err := repo.Create(ctx, req)
		if err != nil {
			logrus.WithError(err).WithField("offer", req.Name).Fatal("Failed to create offer")
		}
		fmt.Printf("Created offer %d: %s (%s €)\n", offer.ID, offer.Name, offer.Price.StringFixed(2))
	}
}

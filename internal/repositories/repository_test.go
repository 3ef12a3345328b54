package repositories

import (
	"context"
	"os"
	"testing"

	"offer-ticketing-platform/internal/database"
	"offer-ticketing-platform/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// setupTestDB connects to TEST_DATABASE_URL, migrates and empties the schema.
// Tests are skipped when it is unset.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}

	ctx := context.Background()
	db, err := database.NewConnection(ctx, database.Config{URL: url})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.RunMigrations(ctx))
	_, err = db.ExecContext(ctx, `TRUNCATE tickets, offers, user_sessions, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return db.DB
}

func createTestUser(t *testing.T, db *sqlx.DB, username string) *models.User {
	t.Helper()
	user, err := NewUserRepository(db).Create(context.Background(), &models.UserCreateRequest{
		Username: username,
		Email:    username + "@example.com",
	}, "hash")
	require.NoError(t, err)
	return user
}

func createTestOffer(t *testing.T, db *sqlx.DB, name, price string) *models.Offer {
	t.Helper()
	offer, err := NewOfferRepository(db).Create(context.Background(), &models.OfferCreateRequest{
		Name:  name,
		Price: decimal.RequireFromString(price),
	})
	require.NoError(t, err)
	return offer
}

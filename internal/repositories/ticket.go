package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"offer-ticketing-platform/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// TicketRepository handles ticket data operations
type TicketRepository struct {
	db *sqlx.DB
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *sqlx.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

const ticketColumns = `id, user_id, offer_id, purchase_key, final_key, qr_code, created_at`

// TicketTx is an open issuance transaction. Nothing it writes is visible to
// other readers until Commit.
type TicketTx struct {
	tx *sqlx.Tx
}

// Begin opens an issuance transaction
func (r *TicketRepository) Begin(ctx context.Context) (*TicketTx, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &TicketTx{tx: tx}, nil
}

// Insert persists the ticket row without its artifact and fills in ID and CreatedAt.
// A duplicate purchase or final key yields models.ErrKeyCollision.
func (t *TicketTx) Insert(ctx context.Context, ticket *models.Ticket) error {
	query := `
		INSERT INTO tickets (user_id, offer_id, purchase_key, final_key, qr_code, created_at)
		VALUES ($1, $2, $3, $4, '', $5)
		RETURNING id, created_at`

	err := t.tx.QueryRowxContext(ctx, query,
		ticket.UserID, ticket.OfferID, ticket.PurchaseKey, ticket.FinalKey, time.Now(),
	).Scan(&ticket.ID, &ticket.CreatedAt)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			return fmt.Errorf("%s: %w", constraint, models.ErrKeyCollision)
		}
		return fmt.Errorf("failed to insert ticket: %w", err)
	}

	return nil
}

// AttachArtifact records the stored QR artifact key on an inserted ticket
func (t *TicketTx) AttachArtifact(ctx context.Context, ticketID int, key string) error {
	result, err := t.tx.ExecContext(ctx, `UPDATE tickets SET qr_code = $1 WHERE id = $2`, key, ticketID)
	if err != nil {
		return fmt.Errorf("failed to attach artifact: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("ticket %d: %w", ticketID, models.ErrTicketNotFound)
	}
	return nil
}

// Commit makes the issued ticket visible
func (t *TicketTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ticket: %w", err)
	}
	return nil
}

// Rollback discards the transaction. It is a no-op after Commit.
func (t *TicketTx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to roll back ticket: %w", err)
	}
	return nil
}

// GetByID retrieves a ticket by ID
func (r *TicketRepository) GetByID(ctx context.Context, id int) (*models.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`

	ticket := &models.Ticket{}
	if err := r.db.GetContext(ctx, ticket, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("ticket with id %d: %w", id, models.ErrTicketNotFound)
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return ticket, nil
}

// GetByFinalKey retrieves a ticket by the key encoded in its QR code
func (r *TicketRepository) GetByFinalKey(ctx context.Context, key uuid.UUID) (*models.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE final_key = $1`

	ticket := &models.Ticket{}
	if err := r.db.GetContext(ctx, ticket, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("ticket with key %s: %w", key, models.ErrTicketNotFound)
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return ticket, nil
}

type ticketOfferRow struct {
	models.Ticket
	OfferName        string          `db:"offer_name"`
	OfferDescription string          `db:"offer_description"`
	OfferPrice       decimal.Decimal `db:"offer_price"`
	OfferCreatedAt   time.Time       `db:"offer_created_at"`
}

// ListByUser retrieves a user's tickets with their offers, newest first
func (r *TicketRepository) ListByUser(ctx context.Context, userID int) ([]*models.TicketWithOffer, error) {
	query := `
		SELECT t.id, t.user_id, t.offer_id, t.purchase_key, t.final_key, t.qr_code, t.created_at,
		       o.name AS offer_name, o.description AS offer_description,
		       o.price AS offer_price, o.created_at AS offer_created_at
		FROM tickets t
		JOIN offers o ON o.id = t.offer_id
		WHERE t.user_id = $1
		ORDER BY t.created_at DESC, t.id DESC`

	var rows []ticketOfferRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}

	tickets := make([]*models.TicketWithOffer, 0, len(rows))
	for i := range rows {
		row := rows[i]
		ticket := row.Ticket
		tickets = append(tickets, &models.TicketWithOffer{
			Ticket: &ticket,
			Offer: &models.Offer{
				ID:          row.OfferID,
				Name:        row.OfferName,
				Description: row.OfferDescription,
				Price:       row.OfferPrice,
				CreatedAt:   row.OfferCreatedAt,
			},
		})
	}
	return tickets, nil
}

// CountByUserAndOffer counts the tickets a user holds for an offer
func (r *TicketRepository) CountByUserAndOffer(ctx context.Context, userID, offerID int) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM tickets WHERE user_id = $1 AND offer_id = $2`
	if err := r.db.GetContext(ctx, &count, query, userID, offerID); err != nil {
		return 0, fmt.Errorf("failed to count tickets: %w", err)
	}
	return count, nil
}

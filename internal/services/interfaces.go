package services

import (
	"context"
	"time"

	"offer-ticketing-platform/internal/cart"
	"offer-ticketing-platform/internal/models"
	"offer-ticketing-platform/internal/repositories"
)

// OfferRepository is the offer storage used by the catalog
type OfferRepository interface {
	GetByID(ctx context.Context, id int) (*models.Offer, error)
	GetByIDs(ctx context.Context, ids []int) (map[int]*models.Offer, error)
	List(ctx context.Context) ([]*models.Offer, error)
}

// TicketTx is an open issuance transaction
type TicketTx interface {
	Insert(ctx context.Context, ticket *models.Ticket) error
	AttachArtifact(ctx context.Context, ticketID int, key string) error
	Commit() error
	Rollback() error
}

// TicketRepository is the ticket storage used by issuance and the finalizer
type TicketRepository interface {
	Begin(ctx context.Context) (TicketTx, error)
	GetByID(ctx context.Context, id int) (*models.Ticket, error)
	ListByUser(ctx context.Context, userID int) ([]*models.TicketWithOffer, error)
	CountByUserAndOffer(ctx context.Context, userID, offerID int) (int, error)
}

// UserRepository is the credential and session store used by AuthService
type UserRepository interface {
	Create(ctx context.Context, req *models.UserCreateRequest, passwordHash string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	CreateSession(ctx context.Context, userID int, sessionID string, expiresAt time.Time) error
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

// QRCodeEncoder renders content as an image artifact
type QRCodeEncoder interface {
	Encode(content string) ([]byte, error)
	ContentType() string
}

// TicketEventPublisher announces issued tickets
type TicketEventPublisher interface {
	PublishTicketIssued(ctx context.Context, ticket *models.Ticket) error
}

// CatalogServiceInterface defines the read-only offer catalog
type CatalogServiceInterface interface {
	GetOffer(ctx context.Context, id int) (*models.Offer, error)
	GetOffers(ctx context.Context, ids []int) (map[int]*models.Offer, error)
	ListOffers(ctx context.Context) ([]*models.Offer, error)
}

// CartServiceInterface defines per-user cart operations
type CartServiceInterface interface {
	Add(ctx context.Context, store cart.Store, userID, offerID int) error
	Remove(ctx context.Context, store cart.Store, userID, offerID int) error
	Decrement(ctx context.Context, store cart.Store, userID, offerID int) error
	Clear(ctx context.Context, store cart.Store, userID int) error
	List(ctx context.Context, store cart.Store, userID int) (*models.CartView, error)
}

// OrderServiceInterface defines order finalization and ticket lookup
type OrderServiceInterface interface {
	FinalizeOrder(ctx context.Context, user *models.User, offerID int) (*models.Ticket, error)
	GetConfirmation(ctx context.Context, user *models.User, ticketID int) (*models.TicketWithOffer, error)
	ListUserTickets(ctx context.Context, user *models.User) ([]*models.TicketWithOffer, error)
}

// CheckoutServiceInterface defines the payment gate in front of finalization
type CheckoutServiceInterface interface {
	Validate(form *models.CheckoutForm) error
	CheckoutCart(ctx context.Context, store cart.Store, user *models.User, form *models.CheckoutForm) ([]*models.Ticket, error)
}

// AuthServiceInterface defines the interface for authentication services
type AuthServiceInterface interface {
	Register(ctx context.Context, req *models.UserCreateRequest) (*models.User, error)
	Login(ctx context.Context, username, password string) (*AuthResponse, error)
	ValidateSession(ctx context.Context, sessionID string) (*models.User, error)
	Logout(ctx context.Context, sessionID string) error
}

// NewTicketRepository adapts the SQL ticket repository to TicketRepository
func NewTicketRepository(repo *repositories.TicketRepository) TicketRepository {
	return sqlTicketRepository{repo}
}

type sqlTicketRepository struct {
	*repositories.TicketRepository
}

func (r sqlTicketRepository) Begin(ctx context.Context) (TicketTx, error) {
	tx, err := r.TicketRepository.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

package services

import (
	"context"
	"fmt"

	"offer-ticketing-platform/internal/logging"
	"offer-ticketing-platform/internal/models"

	"github.com/sirupsen/logrus"
)

// OrderService turns a purchase intent into an issued ticket
type OrderService struct {
	catalog             CatalogServiceInterface
	tickets             TicketRepository
	issuer              *TicketService
	storage             StorageService
	events              TicketEventPublisher
	allowRepeatPurchase bool
}

// OrderServiceConfig holds the optional collaborators of OrderService
type OrderServiceConfig struct {
	// Events receives TicketIssued notifications; nil disables publishing
	Events TicketEventPublisher
	// AllowRepeatPurchase lets a user finalize the same offer more than once
	AllowRepeatPurchase bool
}

// NewOrderService creates a new order service
func NewOrderService(
	catalog CatalogServiceInterface,
	tickets TicketRepository,
	issuer *TicketService,
	storage StorageService,
	cfg OrderServiceConfig,
) *OrderService {
	return &OrderService{
		catalog:             catalog,
		tickets:             tickets,
		issuer:              issuer,
		storage:             storage,
		events:              cfg.Events,
		allowRepeatPurchase: cfg.AllowRepeatPurchase,
	}
}

// FinalizeOrder issues one ticket for offerID to user
func (s *OrderService) FinalizeOrder(ctx context.Context, user *models.User, offerID int) (*models.Ticket, error) {
	if user == nil {
		return nil, models.ErrUnauthorized
	}

	offer, err := s.catalog.GetOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}

	if !s.allowRepeatPurchase {
		count, err := s.tickets.CountByUserAndOffer(ctx, user.ID, offer.ID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, fmt.Errorf("offer %d: %w", offer.ID, models.ErrDuplicatePurchase)
		}
	}

	ticket := models.NewTicket(user.ID, offer.ID)
	if err := s.issuer.Issue(ctx, ticket); err != nil {
		return nil, err
	}

	s.publishIssued(ctx, ticket)
	return ticket, nil
}

func (s *OrderService) publishIssued(ctx context.Context, ticket *models.Ticket) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishTicketIssued(ctx, ticket); err != nil {
		logging.FromContext(ctx).WithError(err).WithFields(logrus.Fields{
			"ticket_id": ticket.ID,
		}).Warn("Failed to publish TicketIssued")
	}
}

// GetConfirmation returns a ticket of user's with its offer. Tickets of other
// users are reported as not found.
func (s *OrderService) GetConfirmation(ctx context.Context, user *models.User, ticketID int) (*models.TicketWithOffer, error) {
	if user == nil {
		return nil, models.ErrUnauthorized
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.UserID != user.ID {
		return nil, fmt.Errorf("ticket with id %d: %w", ticketID, models.ErrTicketNotFound)
	}

	offer, err := s.catalog.GetOffer(ctx, ticket.OfferID)
	if err != nil {
		return nil, err
	}

	ticket.QRCodeURL = ResolveURL(ctx, s.storage, ticket.QRCode)
	return &models.TicketWithOffer{Ticket: ticket, Offer: offer}, nil
}

// ListUserTickets returns user's tickets, newest first
func (s *OrderService) ListUserTickets(ctx context.Context, user *models.User) ([]*models.TicketWithOffer, error) {
	if user == nil {
		return nil, models.ErrUnauthorized
	}

	tickets, err := s.tickets.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	for _, t := range tickets {
		t.Ticket.QRCodeURL = ResolveURL(ctx, s.storage, t.Ticket.QRCode)
	}
	return tickets, nil
}

package services

import (
	"context"
	"fmt"

	"offer-ticketing-platform/internal/cart"
	"offer-ticketing-platform/internal/logging"
	"offer-ticketing-platform/internal/models"
)

// CheckoutService is the payment gate in front of order finalization. It only
// validates the submitted card fields; nothing is charged.
type CheckoutService struct {
	carts  CartServiceInterface
	orders OrderServiceInterface
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(carts CartServiceInterface, orders OrderServiceInterface) *CheckoutService {
	return &CheckoutService{carts: carts, orders: orders}
}

// Validate normalizes and checks the payment form
func (s *CheckoutService) Validate(form *models.CheckoutForm) error {
	form.Normalize()
	return form.Validate()
}

// CheckoutCart pays for the whole cart once and issues one ticket per unit.
// Every issued ticket takes its unit out of the cart, so after a failure the
// cart holds exactly the units still owed. The tickets issued so far are
// returned with the error.
func (s *CheckoutService) CheckoutCart(ctx context.Context, store cart.Store, user *models.User, form *models.CheckoutForm) ([]*models.Ticket, error) {
	if user == nil {
		return nil, models.ErrUnauthorized
	}
	if err := s.Validate(form); err != nil {
		return nil, err
	}

	view, err := s.carts.List(ctx, store, user.ID)
	if err != nil {
		return nil, err
	}
	if view.IsEmpty() {
		errs := models.ValidationErrors{}
		errs.Add("cart", "your cart is empty")
		return nil, errs
	}

	log := logging.FromContext(ctx).WithField("user_id", user.ID)

	issued := make([]*models.Ticket, 0, view.ItemCount())
	for _, line := range view.Lines {
		for i := 0; i < line.Quantity; i++ {
			ticket, err := s.orders.FinalizeOrder(ctx, user, line.Offer.ID)
			if err != nil {
				return issued, fmt.Errorf("offer %d: %w", line.Offer.ID, err)
			}
			issued = append(issued, ticket)

			if err := s.carts.Decrement(ctx, store, user.ID, line.Offer.ID); err != nil {
				return issued, fmt.Errorf("offer %d: ticket %d issued but cart not updated: %w", line.Offer.ID, ticket.ID, err)
			}
		}
	}

	log.WithField("tickets", len(issued)).Info("Cart checked out")
	return issued, nil
}

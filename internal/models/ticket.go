package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Ticket is the durable proof of purchase for an offer.
//
// PurchaseKey is fixed when the ticket is built. FinalKey is assigned once when the
// ticket is first persisted and is the value encoded into the QR artifact.
type Ticket struct {
	ID          int       `json:"id" db:"id"`
	UserID      int       `json:"user_id" db:"user_id"`
	OfferID     int       `json:"offer_id" db:"offer_id"`
	PurchaseKey uuid.UUID `json:"purchase_key" db:"purchase_key"`
	FinalKey    uuid.UUID `json:"final_key" db:"final_key"`
	QRCode      string    `json:"qr_code" db:"qr_code"` // storage key of the artifact
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	// QRCodeURL is resolved from QRCode by the storage layer; not persisted.
	QRCodeURL string `json:"qr_code_url" db:"-"`
}

// TicketWithOffer is a ticket joined with its offer for display
type TicketWithOffer struct {
	Ticket *Ticket `json:"ticket"`
	Offer  *Offer  `json:"offer"`
}

// NewTicket builds an unsaved ticket with a fresh purchase key
func NewTicket(userID, offerID int) *Ticket {
	return &Ticket{
		UserID:      userID,
		OfferID:     offerID,
		PurchaseKey: uuid.New(),
	}
}

// HasFinalKey reports whether the final key has been assigned
func (t *Ticket) HasFinalKey() bool {
	return t.FinalKey != uuid.Nil
}

// AssignFinalKey sets the final key if it is unset. It reports whether a key was assigned.
func (t *Ticket) AssignFinalKey() bool {
	if t.HasFinalKey() {
		return false
	}
	t.FinalKey = uuid.New()
	return true
}

// IsPersisted reports whether the ticket has a database identity
func (t *Ticket) IsPersisted() bool {
	return t.ID > 0
}

// QRCodeFilename returns the artifact filename for this ticket
func (t *Ticket) QRCodeFilename() string {
	return QRCodeFilename(t.ID)
}

// QRCodeFilename returns the artifact filename for a ticket ID
func QRCodeFilename(ticketID int) string {
	return fmt.Sprintf("qr_code_%d.png", ticketID)
}

// Validate validates a persisted ticket
func (t *Ticket) Validate() error {
	errs := ValidationErrors{}

	if t.UserID <= 0 {
		errs.Add("user_id", "user is required")
	}
	if t.OfferID <= 0 {
		errs.Add("offer_id", "offer is required")
	}
	if t.PurchaseKey == uuid.Nil {
		errs.Add("purchase_key", "purchase key is required")
	}
	if t.FinalKey == uuid.Nil {
		errs.Add("final_key", "final key is required")
	}
	if t.QRCode == "" {
		errs.Add("qr_code", "QR code artifact is required")
	}

	return errs.Err()
}

// Package events publishes domain events about issued tickets.
package events

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
)

// TopicTicketIssued is the topic TicketIssued events are published on
const TopicTicketIssued = "TicketIssued"

type Header struct {
	ID          string    `json:"id"`
	PublishedAt time.Time `json:"published_at"`
}

// NewHeader stamps a new event with a fresh ID and the current time
func NewHeader() Header {
	return Header{
		ID:          watermill.NewUUID(),
		PublishedAt: time.Now().UTC(),
	}
}

// TicketIssued is emitted after a ticket and its artifact are committed
type TicketIssued struct {
	Header    Header `json:"header"`
	TicketID  int    `json:"ticket_id"`
	UserID    int    `json:"user_id"`
	OfferID   int    `json:"offer_id"`
	FinalKey  string `json:"final_key"`
	QRCodeURL string `json:"qr_code_url"`
}

func (e TicketIssued) Type() string {
	return "TicketIssued"
}

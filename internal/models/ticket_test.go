package models

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTicket(t *testing.T) {
	ticket := NewTicket(3, 7)

	assert.Equal(t, 3, ticket.UserID)
	assert.Equal(t, 7, ticket.OfferID)
	assert.NotEqual(t, uuid.Nil, ticket.PurchaseKey)
	assert.False(t, ticket.HasFinalKey())
	assert.False(t, ticket.IsPersisted())
}

func TestNewTicket_DistinctPurchaseKeys(t *testing.T) {
	first := NewTicket(1, 1)
	second := NewTicket(1, 1)

	assert.NotEqual(t, first.PurchaseKey, second.PurchaseKey)
}

func TestTicket_AssignFinalKey(t *testing.T) {
	ticket := NewTicket(1, 1)

	require.True(t, ticket.AssignFinalKey())
	finalKey := ticket.FinalKey
	assert.NotEqual(t, uuid.Nil, finalKey)
	assert.NotEqual(t, ticket.PurchaseKey, finalKey)

	// A second call never replaces the key
	assert.False(t, ticket.AssignFinalKey())
	assert.Equal(t, finalKey, ticket.FinalKey)
}

func TestTicket_QRCodeFilename(t *testing.T) {
	ticket := &Ticket{ID: 42}
	assert.Equal(t, "qr_code_42.png", ticket.QRCodeFilename())
}

func TestTicket_Validate(t *testing.T) {
	valid := func() *Ticket {
		ticket := NewTicket(1, 2)
		ticket.AssignFinalKey()
		ticket.QRCode = "qrcodes/qr_code_1.png"
		return ticket
	}

	tests := []struct {
		name      string
		mutate    func(*Ticket)
		wantField string
	}{
		{name: "valid ticket", mutate: func(*Ticket) {}},
		{name: "missing user", mutate: func(t *Ticket) { t.UserID = 0 }, wantField: "user_id"},
		{name: "missing offer", mutate: func(t *Ticket) { t.OfferID = 0 }, wantField: "offer_id"},
		{name: "missing purchase key", mutate: func(t *Ticket) { t.PurchaseKey = uuid.Nil }, wantField: "purchase_key"},
		{name: "missing final key", mutate: func(t *Ticket) { t.FinalKey = uuid.Nil }, wantField: "final_key"},
		{name: "missing artifact", mutate: func(t *Ticket) { t.QRCode = "" }, wantField: "qr_code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := valid()
			tt.mutate(ticket)

			err := ticket.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidationFailed))
			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Contains(t, verrs, tt.wantField)
		})
	}
}

func TestErrorTaxonomy(t *testing.T) {
	assert.True(t, errors.Is(ErrOfferNotFound, ErrNotFound))
	assert.True(t, errors.Is(ErrTicketNotFound, ErrNotFound))
	assert.True(t, errors.Is(ErrUserNotFound, ErrNotFound))
	assert.False(t, errors.Is(ErrKeyCollision, ErrNotFound))
	assert.Nil(t, ValidationErrors{}.Err())
}

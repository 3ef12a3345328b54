package services

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"offer-ticketing-platform/internal/logging"
	"offer-ticketing-platform/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ArtifactPrefix is the storage folder for ticket QR codes
const ArtifactPrefix = "qrcodes"

// ArtifactKey returns the storage key of a ticket's QR code
func ArtifactKey(ticketID int) string {
	return path.Join(ArtifactPrefix, models.QRCodeFilename(ticketID))
}

// TicketService issues tickets: it assigns the final key, renders and stores the
// QR artifact and persists the row in one transaction.
type TicketService struct {
	tickets TicketRepository
	qr      QRCodeEncoder
	storage StorageService
}

// NewTicketService creates a new ticket issuance service
func NewTicketService(tickets TicketRepository, qr QRCodeEncoder, storage StorageService) *TicketService {
	return &TicketService{
		tickets: tickets,
		qr:      qr,
		storage: storage,
	}
}

// Issue persists a new ticket together with its QR artifact. Either the row, both
// keys and the artifact all exist afterwards, or none of them do.
//
// Artifact failures return models.ErrArtifactGenerationFailed; a duplicate key
// returns models.ErrKeyCollision.
func (s *TicketService) Issue(ctx context.Context, ticket *models.Ticket) (err error) {
	if ticket.IsPersisted() {
		return fmt.Errorf("ticket %d is already issued", ticket.ID)
	}
	if ticket.PurchaseKey == uuid.Nil {
		return fmt.Errorf("ticket has no purchase key")
	}

	log := logging.FromContext(ctx).WithFields(logrus.Fields{
		"user_id":  ticket.UserID,
		"offer_id": ticket.OfferID,
	})

	tx, err := s.tickets.Begin(ctx)
	if err != nil {
		return err
	}

	assigned := ticket.AssignFinalKey()
	var storedKey string

	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			log.WithError(rbErr).Error("Failed to roll back ticket issuance")
		}
		if storedKey != "" {
			// the request may already be cancelled; the cleanup must still run
			if delErr := s.storage.Delete(context.WithoutCancel(ctx), storedKey); delErr != nil {
				log.WithError(delErr).WithField("key", storedKey).Error("Failed to delete orphaned artifact")
			}
		}
		ticket.ID = 0
		ticket.QRCode = ""
		ticket.QRCodeURL = ""
		ticket.CreatedAt = time.Time{}
		if assigned {
			ticket.FinalKey = uuid.Nil
		}
	}()

	if err = tx.Insert(ctx, ticket); err != nil {
		return err
	}

	png, err := s.qr.Encode(ticket.FinalKey.String())
	if err != nil {
		return fmt.Errorf("%w: encode: %w", models.ErrArtifactGenerationFailed, err)
	}

	key := ArtifactKey(ticket.ID)
	url, err := s.storage.Upload(ctx, key, bytes.NewReader(png), s.qr.ContentType(), int64(len(png)))
	if err != nil {
		// a failed upload may still leave a partial object behind
		storedKey = key
		return fmt.Errorf("%w: store: %w", models.ErrArtifactGenerationFailed, err)
	}
	storedKey = key

	if err = tx.AttachArtifact(ctx, ticket.ID, key); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return err
	}

	ticket.QRCode = key
	ticket.QRCodeURL = url

	log.WithField("ticket_id", ticket.ID).Info("Ticket issued")
	return nil
}

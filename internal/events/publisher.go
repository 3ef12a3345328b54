package events

import (
	"context"
	"encoding/json"
	"fmt"

	"offer-ticketing-platform/internal/logging"
	"offer-ticketing-platform/internal/models"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/redis/go-redis/v9"
)

// Publisher turns issued tickets into TicketIssued messages
type Publisher struct {
	pub message.Publisher
}

// NewPublisher wraps any watermill publisher, e.g. gochannel in tests
func NewPublisher(pub message.Publisher) *Publisher {
	return &Publisher{pub: pub}
}

// NewRedisStreamPublisher publishes to Redis streams through client
func NewRedisStreamPublisher(client *redis.Client, logger watermill.LoggerAdapter) (*Publisher, error) {
	pub, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: client,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("creating publisher: %w", err)
	}
	return NewPublisher(pub), nil
}

// PublishTicketIssued publishes a TicketIssued event carrying the request ID as correlation ID
func (p *Publisher) PublishTicketIssued(ctx context.Context, ticket *models.Ticket) error {
	msg, err := newTicketIssuedMessage(ticket, logging.RequestIDFromContext(ctx))
	if err != nil {
		return err
	}
	msg.SetContext(ctx)

	if err := p.pub.Publish(TopicTicketIssued, msg); err != nil {
		return fmt.Errorf("publishing %s: %w", TopicTicketIssued, err)
	}
	return nil
}

// Close closes the underlying watermill publisher
func (p *Publisher) Close() error {
	return p.pub.Close()
}

func newTicketIssuedMessage(ticket *models.Ticket, correlationID string) (*message.Message, error) {
	e := TicketIssued{
		Header:    NewHeader(),
		TicketID:  ticket.ID,
		UserID:    ticket.UserID,
		OfferID:   ticket.OfferID,
		FinalKey:  ticket.FinalKey.String(),
		QRCodeURL: ticket.QRCodeURL,
	}

	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshalling event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if correlationID == "" {
		correlationID = watermill.NewShortUUID()
	}
	middleware.SetCorrelationID(correlationID, msg)
	msg.Metadata.Set("type", e.Type())

	return msg, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"offer-ticketing-platform/internal/models"

	"github.com/shopspring/decimal"
)

type fakeOfferRepository struct {
	offers map[int]*models.Offer
}

func newFakeOfferRepository(offers ...*models.Offer) *fakeOfferRepository {
	repo := &fakeOfferRepository{offers: map[int]*models.Offer{}}
	for _, o := range offers {
		repo.offers[o.ID] = o
	}
	return repo
}

func testOffer(id int, name, price string) *models.Offer {
	return &models.Offer{ID: id, Name: name, Price: decimal.RequireFromString(price), CreatedAt: time.Now()}
}

func (r *fakeOfferRepository) GetByID(ctx context.Context, id int) (*models.Offer, error) {
	o, ok := r.offers[id]
	if !ok {
		return nil, fmt.Errorf("offer with id %d: %w", id, models.ErrOfferNotFound)
	}
	return o, nil
}

func (r *fakeOfferRepository) GetByIDs(ctx context.Context, ids []int) (map[int]*models.Offer, error) {
	result := map[int]*models.Offer{}
	for _, id := range ids {
		if o, ok := r.offers[id]; ok {
			result[id] = o
		}
	}
	return result, nil
}

func (r *fakeOfferRepository) List(ctx context.Context) ([]*models.Offer, error) {
	offers := make([]*models.Offer, 0, len(r.offers))
	for _, o := range r.offers {
		offers = append(offers, o)
	}
	sort.Slice(offers, func(i, j int) bool { return offers[i].ID < offers[j].ID })
	return offers, nil
}

// memTicketRepository keeps tickets in memory with the same transactional
// visibility and unique keys as the SQL repository
type memTicketRepository struct {
	mu        sync.Mutex
	committed map[int]*models.Ticket
	nextID    int
	commitErr error
}

func newMemTicketRepository() *memTicketRepository {
	return &memTicketRepository{committed: map[int]*models.Ticket{}}
}

func (r *memTicketRepository) Begin(ctx context.Context) (TicketTx, error) {
	return &memTicketTx{repo: r, staged: map[int]*models.Ticket{}}, nil
}

func (r *memTicketRepository) GetByID(ctx context.Context, id int) (*models.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.committed[id]
	if !ok {
		return nil, fmt.Errorf("ticket with id %d: %w", id, models.ErrTicketNotFound)
	}
	clone := *t
	return &clone, nil
}

func (r *memTicketRepository) ListByUser(ctx context.Context, userID int) ([]*models.TicketWithOffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*models.TicketWithOffer
	for _, t := range r.committed {
		if t.UserID == userID {
			clone := *t
			result = append(result, &models.TicketWithOffer{Ticket: &clone, Offer: &models.Offer{ID: t.OfferID}})
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Ticket.ID > result[j].Ticket.ID })
	return result, nil
}

func (r *memTicketRepository) CountByUserAndOffer(ctx context.Context, userID, offerID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, t := range r.committed {
		if t.UserID == userID && t.OfferID == offerID {
			count++
		}
	}
	return count, nil
}

func (r *memTicketRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.committed)
}

func (r *memTicketRepository) all() []*models.Ticket {
	r.mu.Lock()
	defer r.mu.Unlock()

	tickets := make([]*models.Ticket, 0, len(r.committed))
	for _, t := range r.committed {
		tickets = append(tickets, t)
	}
	return tickets
}

type memTicketTx struct {
	repo   *memTicketRepository
	staged map[int]*models.Ticket
	done   bool
}

func (tx *memTicketTx) Insert(ctx context.Context, ticket *models.Ticket) error {
	tx.repo.mu.Lock()
	defer tx.repo.mu.Unlock()

	for _, existing := range tx.repo.committed {
		if existing.PurchaseKey == ticket.PurchaseKey {
			return fmt.Errorf("tickets_purchase_key_key: %w", models.ErrKeyCollision)
		}
		if existing.FinalKey == ticket.FinalKey {
			return fmt.Errorf("tickets_final_key_key: %w", models.ErrKeyCollision)
		}
	}

	tx.repo.nextID++
	ticket.ID = tx.repo.nextID
	ticket.CreatedAt = time.Now()

	clone := *ticket
	tx.staged[ticket.ID] = &clone
	return nil
}

func (tx *memTicketTx) AttachArtifact(ctx context.Context, ticketID int, key string) error {
	t, ok := tx.staged[ticketID]
	if !ok {
		return models.ErrTicketNotFound
	}
	t.QRCode = key
	return nil
}

func (tx *memTicketTx) Commit() error {
	if tx.done {
		return errors.New("transaction already closed")
	}
	tx.done = true

	tx.repo.mu.Lock()
	defer tx.repo.mu.Unlock()

	if tx.repo.commitErr != nil {
		return tx.repo.commitErr
	}
	for id, t := range tx.staged {
		tx.repo.committed[id] = t
	}
	return nil
}

func (tx *memTicketTx) Rollback() error {
	tx.done = true
	tx.staged = nil
	return nil
}

type failingEncoder struct{}

func (failingEncoder) Encode(string) ([]byte, error) { return nil, errors.New("encoder exploded") }
func (failingEncoder) ContentType() string           { return "image/png" }

// failingStorage writes part of the object and then fails
type failingStorage struct {
	StorageService
}

func (s failingStorage) Upload(ctx context.Context, key string, reader io.Reader, contentType string, size int64) (string, error) {
	_, _ = s.StorageService.Upload(ctx, key, io.LimitReader(reader, 8), contentType, -1)
	return "", errors.New("bucket unavailable")
}

type recordingPublisher struct {
	mu      sync.Mutex
	tickets []*models.Ticket
	err     error
}

func (p *recordingPublisher) PublishTicketIssued(ctx context.Context, ticket *models.Ticket) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tickets = append(p.tickets, ticket)
	return p.err
}

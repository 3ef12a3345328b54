package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"offer-ticketing-platform/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type issueFixture struct {
	tickets *memTicketRepository
	storage *LocalStorageService
	dir     string
	service *TicketService
}

func newIssueFixture(t *testing.T) *issueFixture {
	t.Helper()
	storage, dir := newTestLocalStorage(t)
	tickets := newMemTicketRepository()
	return &issueFixture{
		tickets: tickets,
		storage: storage,
		dir:     dir,
		service: NewTicketService(tickets, NewQRCodeService(), storage),
	}
}

func (f *issueFixture) artifactFiles(t *testing.T) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(f.dir, ArtifactPrefix))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	require.NoError(t, err)
	return entries
}

func TestArtifactKey(t *testing.T) {
	assert.Equal(t, "qrcodes/qr_code_12.png", ArtifactKey(12))
}

func TestTicketService_Issue(t *testing.T) {
	f := newIssueFixture(t)
	ctx := context.Background()

	ticket := models.NewTicket(7, 1)
	purchaseKey := ticket.PurchaseKey

	require.NoError(t, f.service.Issue(ctx, ticket))

	assert.True(t, ticket.IsPersisted())
	assert.Equal(t, purchaseKey, ticket.PurchaseKey)
	assert.NotEqual(t, uuid.Nil, ticket.FinalKey)
	assert.NotEqual(t, ticket.PurchaseKey, ticket.FinalKey)
	assert.Equal(t, "qrcodes/qr_code_1.png", ticket.QRCode)
	assert.Equal(t, "http://localhost:8080/media/qrcodes/qr_code_1.png", ticket.QRCodeURL)
	assert.NoError(t, ticket.Validate())

	stored, err := f.tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.FinalKey, stored.FinalKey)
	assert.Equal(t, ticket.QRCode, stored.QRCode)

	data, err := os.ReadFile(filepath.Join(f.dir, "qrcodes", "qr_code_1.png"))
	require.NoError(t, err)
	assert.Equal(t, ticket.FinalKey.String(), decodeQR(t, decodePNG(t, data)))
}

func TestTicketService_Issue_DistinctKeysForSameOffer(t *testing.T) {
	f := newIssueFixture(t)
	ctx := context.Background()

	first := models.NewTicket(7, 1)
	second := models.NewTicket(7, 1)
	require.NoError(t, f.service.Issue(ctx, first))
	require.NoError(t, f.service.Issue(ctx, second))

	assert.NotEqual(t, first.PurchaseKey, second.PurchaseKey)
	assert.NotEqual(t, first.FinalKey, second.FinalKey)
	assert.NotEqual(t, first.QRCode, second.QRCode)
	assert.Len(t, f.artifactFiles(t), 2)
}

func TestTicketService_Issue_KeepsPresetFinalKey(t *testing.T) {
	f := newIssueFixture(t)

	ticket := models.NewTicket(7, 1)
	preset := uuid.New()
	ticket.FinalKey = preset

	require.NoError(t, f.service.Issue(context.Background(), ticket))
	assert.Equal(t, preset, ticket.FinalKey)
}

func TestTicketService_Issue_EncoderFailure(t *testing.T) {
	f := newIssueFixture(t)
	f.service = NewTicketService(f.tickets, failingEncoder{}, f.storage)

	ticket := models.NewTicket(7, 1)
	err := f.service.Issue(context.Background(), ticket)

	assert.ErrorIs(t, err, models.ErrArtifactGenerationFailed)
	assert.False(t, ticket.IsPersisted())
	assert.Equal(t, uuid.Nil, ticket.FinalKey)
	assert.Zero(t, f.tickets.count())
	assert.Empty(t, f.artifactFiles(t))
}

func TestTicketService_Issue_StorageFailureCleansUp(t *testing.T) {
	f := newIssueFixture(t)
	f.service = NewTicketService(f.tickets, NewQRCodeService(), failingStorage{f.storage})

	ticket := models.NewTicket(7, 1)
	err := f.service.Issue(context.Background(), ticket)

	assert.ErrorIs(t, err, models.ErrArtifactGenerationFailed)
	assert.Contains(t, err.Error(), "bucket unavailable")
	assert.False(t, ticket.IsPersisted())
	assert.Empty(t, ticket.QRCode)
	assert.Zero(t, f.tickets.count())
	assert.Empty(t, f.artifactFiles(t), "partial artifact must be removed")
}

func TestTicketService_Issue_CommitFailureRemovesArtifact(t *testing.T) {
	f := newIssueFixture(t)
	f.tickets.commitErr = errors.New("connection reset")

	err := f.service.Issue(context.Background(), models.NewTicket(7, 1))

	assert.ErrorContains(t, err, "connection reset")
	assert.Zero(t, f.tickets.count())
	assert.Empty(t, f.artifactFiles(t))
}

func TestTicketService_Issue_KeyCollision(t *testing.T) {
	f := newIssueFixture(t)
	ctx := context.Background()

	first := models.NewTicket(7, 1)
	require.NoError(t, f.service.Issue(ctx, first))

	dup := models.NewTicket(7, 1)
	dup.PurchaseKey = first.PurchaseKey

	err := f.service.Issue(ctx, dup)
	assert.ErrorIs(t, err, models.ErrKeyCollision)
	assert.Equal(t, 1, f.tickets.count())

	// the existing ticket and its artifact are untouched
	stored, err := f.tickets.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.FinalKey, stored.FinalKey)
	assert.Len(t, f.artifactFiles(t), 1)
}

func TestTicketService_Issue_RejectsPersistedTicket(t *testing.T) {
	f := newIssueFixture(t)

	ticket := models.NewTicket(7, 1)
	ticket.ID = 3

	assert.Error(t, f.service.Issue(context.Background(), ticket))
	assert.Zero(t, f.tickets.count())
}

func TestTicketService_EveryIssuedTicketHasDecodableArtifact(t *testing.T) {
	f := newIssueFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, f.service.Issue(ctx, models.NewTicket(7, 1+i%2)))
	}

	seen := map[uuid.UUID]bool{}
	for _, ticket := range f.tickets.all() {
		require.NotEqual(t, uuid.Nil, ticket.FinalKey)
		assert.False(t, seen[ticket.FinalKey], "final keys must be unique")
		seen[ticket.FinalKey] = true

		exists, err := f.storage.Exists(ctx, ticket.QRCode)
		require.NoError(t, err)
		require.True(t, exists)

		data, err := os.ReadFile(filepath.Join(f.dir, filepath.FromSlash(ticket.QRCode)))
		require.NoError(t, err)
		assert.Equal(t, ticket.FinalKey.String(), decodeQR(t, decodePNG(t, data)))
	}
	assert.Len(t, seen, 5)
}

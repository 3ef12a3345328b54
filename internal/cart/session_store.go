package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"offer-ticketing-platform/internal/models"

	"github.com/gorilla/sessions"
)

// SessionName is the cookie session shared with authentication and flash messages
const SessionName = "session"

// SessionBackend keeps carts inside the user's cookie session
type SessionBackend struct {
	store sessions.Store
}

// NewSessionBackend creates a session-backed cart backend
func NewSessionBackend(store sessions.Store) *SessionBackend {
	return &SessionBackend{store: store}
}

// Open binds the cart to the current request and response
func (b *SessionBackend) Open(w http.ResponseWriter, r *http.Request) Store {
	return &sessionStore{store: b.store, w: w, r: r}
}

type sessionStore struct {
	store sessions.Store
	w     http.ResponseWriter
	r     *http.Request
}

func sessionKey(userID int) string {
	return fmt.Sprintf("cart:%d", userID)
}

func (s *sessionStore) load(userID int) (*sessions.Session, []models.CartEntry, error) {
	// a session that fails to decode is replaced by a fresh one
	session, err := s.store.Get(s.r, SessionName)
	if session == nil {
		return nil, nil, fmt.Errorf("failed to get session: %w", err)
	}

	raw, ok := session.Values[sessionKey(userID)].(string)
	if !ok {
		return session, nil, nil
	}

	var entries []models.CartEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return session, nil, nil
	}
	return session, entries, nil
}

func (s *sessionStore) save(session *sessions.Session, userID int, entries []models.CartEntry) error {
	if len(entries) == 0 {
		delete(session.Values, sessionKey(userID))
	} else {
		data, err := json.Marshal(entries)
		if err != nil {
			return fmt.Errorf("failed to encode cart: %w", err)
		}
		session.Values[sessionKey(userID)] = string(data)
	}

	if err := session.Save(s.r, s.w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *sessionStore) Add(ctx context.Context, userID, offerID int) error {
	session, entries, err := s.load(userID)
	if err != nil {
		return err
	}
	return s.save(session, userID, addEntry(entries, offerID))
}

func (s *sessionStore) Decrement(ctx context.Context, userID, offerID int) error {
	session, entries, err := s.load(userID)
	if err != nil {
		return err
	}

	entries, changed := decrementEntry(entries, offerID)
	if !changed {
		return nil
	}
	return s.save(session, userID, entries)
}

func (s *sessionStore) Remove(ctx context.Context, userID, offerID int) error {
	session, entries, err := s.load(userID)
	if err != nil {
		return err
	}

	entries, removed := removeEntry(entries, offerID)
	if !removed {
		return nil
	}
	return s.save(session, userID, entries)
}

func (s *sessionStore) Clear(ctx context.Context, userID int) error {
	session, entries, err := s.load(userID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	return s.save(session, userID, nil)
}

func (s *sessionStore) Entries(ctx context.Context, userID int) ([]models.CartEntry, error) {
	_, entries, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"offer-ticketing-platform/internal/logging"
	"offer-ticketing-platform/internal/models"
	"offer-ticketing-platform/internal/utils"
)

// AuthService handles registration, login and server-side sessions
type AuthService struct {
	users           UserRepository
	sessionLifetime time.Duration
	hashParams      utils.Argon2Params
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	User      *models.User `json:"user"`
	SessionID string       `json:"session_id"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// NewAuthService creates a new authentication service
func NewAuthService(users UserRepository, sessionLifetime time.Duration) *AuthService {
	if sessionLifetime <= 0 {
		sessionLifetime = 24 * time.Hour
	}
	return &AuthService{
		users:           users,
		sessionLifetime: sessionLifetime,
		hashParams:      utils.DefaultArgon2Params(),
	}
}

// Register validates req for its registration kind and creates the user
func (s *AuthService) Register(ctx context.Context, req *models.UserCreateRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := utils.HashPasswordWithParams(req.Password, s.hashParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Create(ctx, req, hash)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateEntry) {
			errs := models.ValidationErrors{}
			errs.Add("username", "a user with that username already exists")
			return nil, errs
		}
		return nil, err
	}

	logging.FromContext(ctx).WithField("user_id", user.ID).Info("User registered")
	return user, nil
}

// Login checks credentials and opens a session
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok || !user.IsActive {
		return nil, models.ErrInvalidCredentials
	}

	sessionID, err := utils.GenerateSecureToken(32)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(s.sessionLifetime)
	if err := s.users.CreateSession(ctx, user.ID, sessionID, expiresAt); err != nil {
		return nil, err
	}

	return &AuthResponse{User: user, SessionID: sessionID, ExpiresAt: expiresAt}, nil
}

// ValidateSession returns the user behind a live session
func (s *AuthService) ValidateSession(ctx context.Context, sessionID string) (*models.User, error) {
	if sessionID == "" {
		return nil, models.ErrUnauthorized
	}

	session, err := s.users.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthorized
		}
		return nil, err
	}

	if session.IsExpired() {
		if err := s.users.DeleteSession(ctx, sessionID); err != nil {
			logging.FromContext(ctx).WithError(err).Warn("Failed to delete expired session")
		}
		return nil, models.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, models.ErrUnauthorized
	}
	return user, nil
}

// Logout ends a session
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.users.DeleteSession(ctx, sessionID)
}

// CleanupExpiredSessions removes expired session rows
func (s *AuthService) CleanupExpiredSessions(ctx context.Context) error {
	removed, err := s.users.DeleteExpiredSessions(ctx)
	if err != nil {
		return err
	}
	if removed > 0 {
		logging.FromContext(ctx).WithField("removed", removed).Info("Expired sessions removed")
	}
	return nil
}

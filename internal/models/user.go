package models

import (
	"regexp"
	"strings"
	"time"
)

// MinPasswordLength is enforced on every registration path
const MinPasswordLength = 8

// User represents a registered customer
type User struct {
	ID           int       `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Session represents a server-side login session
type Session struct {
	ID        string    `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// RegistrationKind selects which fields a registration form requires
type RegistrationKind string

const (
	// RegistrationSignup is the full profile form (names and email required)
	RegistrationSignup RegistrationKind = "signup"
	// RegistrationBasic only asks for username and password
	RegistrationBasic RegistrationKind = "basic"
)

// UserCreateRequest represents the data needed to create a new user
type UserCreateRequest struct {
	Kind            RegistrationKind `json:"-"`
	Username        string           `json:"username"`
	Email           string           `json:"email"`
	FirstName       string           `json:"first_name"`
	LastName        string           `json:"last_name"`
	Password        string           `json:"password"`
	PasswordConfirm string           `json:"password_confirm"`
}

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)
)

// Validate validates user creation data for the request's registration kind.
// The password rule is shared by all kinds.
func (req *UserCreateRequest) Validate() error {
	errs := ValidationErrors{}

	if msg := validateUsername(req.Username); msg != "" {
		errs.Add("username", msg)
	}

	if req.Kind == RegistrationSignup {
		if msg := validateEmail(req.Email); msg != "" {
			errs.Add("email", msg)
		}
		if strings.TrimSpace(req.FirstName) == "" {
			errs.Add("first_name", "first name is required")
		} else if len(req.FirstName) > 30 {
			errs.Add("first_name", "first name must be at most 30 characters")
		}
		if strings.TrimSpace(req.LastName) == "" {
			errs.Add("last_name", "last name is required")
		} else if len(req.LastName) > 30 {
			errs.Add("last_name", "last name must be at most 30 characters")
		}
	} else if req.Email != "" {
		if msg := validateEmail(req.Email); msg != "" {
			errs.Add("email", msg)
		}
	}

	if err := ValidatePassword(req.Password); err != nil {
		errs.Add("password", err.Error())
	}
	if req.Password != req.PasswordConfirm {
		errs.Add("password_confirm", "passwords do not match")
	}

	return errs.Err()
}

// ValidatePassword applies the password policy
func ValidatePassword(password string) error {
	switch {
	case password == "":
		return passwordError("password is required")
	case len(password) < MinPasswordLength:
		return passwordError("password must be at least 8 characters long")
	case len(password) > 128:
		return passwordError("password must be less than 128 characters")
	}
	return nil
}

type passwordError string

func (e passwordError) Error() string { return string(e) }

func validateUsername(username string) string {
	switch {
	case username == "":
		return "username is required"
	case len(username) > 150:
		return "username must be at most 150 characters"
	case !usernameRegex.MatchString(username):
		return "username may contain only letters, digits and @/./+/-/_"
	}
	return ""
}

func validateEmail(email string) string {
	switch {
	case email == "":
		return "email is required"
	case len(email) > 254:
		return "email must be at most 254 characters"
	case !emailRegex.MatchString(email):
		return "email format is invalid"
	}
	return ""
}

// FullName returns the user's full name, falling back to the username
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// IsExpired reports whether the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

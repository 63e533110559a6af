package auth

import "time"

// Config drives token issuance.
type Config struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// User is a farmer account. Fields, schedules and history rows are owned by it.
type User struct {
	ID           int64
	Email        string
	Name         string
	Location     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the public view of a User.
type Profile struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	Email           string `json:"email"`
	Name            string `json:"name"`
	Location        string `json:"location"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// Credentials are exchanged for a Session.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session carries a signed token pair.
type Session struct {
	Access  string  `json:"access"`
	Refresh string  `json:"refresh"`
	User    Profile `json:"user"`
}

// ProfileUpdate changes the fields that are set.
type ProfileUpdate struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
}

// PasswordChange replaces the password after checking the current one.
type PasswordChange struct {
	OldPassword        string `json:"oldPassword"`
	NewPassword        string `json:"newPassword"`
	NewPasswordConfirm string `json:"newPasswordConfirm"`
}

// Claims are read back from a verified token.
type Claims struct {
	UserID    int64
	Email     string
	Kind      TokenKind
	ExpiresAt time.Time
}

// TokenKind separates access tokens from refresh tokens.
type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

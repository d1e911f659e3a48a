// file: model/token.go

package model

import "time"

// RefreshToken holds the data for a refresh token in the database.
// Only the SHA-256 digest of the opaque value is persisted; the raw value
// is handed to the client exactly once at issuance.
type RefreshToken struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	TokenHash string    `json:"-"` // The hash is not exposed in JSON responses.
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenPair is what every successful signup, login and refresh returns.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

package model

import (
	"database/sql"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
)

type User struct {
	ID           int          `json:"id"`
	Email        string       `json:"email"`
	Name         string       `json:"name,omitempty"`
	AvatarURL    string       `json:"avatar_url,omitempty"`
	Role         Role         `json:"role"`
	Verified     bool         `json:"verified"`
	PasswordHash string       `json:"-"` // Never exposed in JSON responses.
	CreatedAt    time.Time    `json:"created_at"`
	LastLoginAt  sql.NullTime `json:"-"`
}

package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// User is the persisted account record. PasswordHash is never serialized.
type User struct {
	ID            string                     `json:"id"`
	Username      string                     `json:"username"`
	Email         string                     `json:"email"`
	PasswordHash  string                     `json:"-"`
	Accounts      map[Platform]LinkedAccount `json:"chess_accounts"`
	CreatedAt     time.Time                  `json:"created_at"`
	GamesImported int                        `json:"games_imported"`
	EmailVerified bool                       `json:"email_verified"`
}

// NewUser builds a user record, validating required fields.
func NewUser(id, username, email, passwordHash string) (*User, error) {
	if id == "" {
		return nil, fmt.Errorf("user id cannot be empty")
	}
	if username == "" {
		return nil, fmt.Errorf("username cannot be empty")
	}
	if email == "" {
		return nil, fmt.Errorf("email cannot be empty")
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("password hash cannot be empty")
	}
	return &User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Accounts:     map[Platform]LinkedAccount{},
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// LinkedAccount is a verified external chess-platform account owned by a user.
// At most one exists per platform per user.
type LinkedAccount struct {
	Platform   Platform        `json:"platform"`
	Username   string          `json:"username"`
	LinkedAt   time.Time       `json:"linked_at"`
	Verified   bool            `json:"verified"`
	RawProfile json.RawMessage `json:"player_data,omitempty"`
}

// NewLinkedAccount builds a linked-account record with a lowercased username.
func NewLinkedAccount(platform Platform, username string, rawProfile json.RawMessage) (LinkedAccount, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return LinkedAccount{}, fmt.Errorf("platform username cannot be empty")
	}
	return LinkedAccount{
		Platform:   platform,
		Username:   username,
		LinkedAt:   time.Now().UTC(),
		Verified:   true,
		RawProfile: rawProfile,
	}, nil
}

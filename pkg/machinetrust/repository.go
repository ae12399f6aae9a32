package machinetrust

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no trust token is stored for an account.
var ErrNotFound = errors.New("machine-trust token not found")

// Token is one account's machine-trust credential. The value is opaque; the
// server mints it and may rotate it in poll results, in which case the stored
// value is overwritten, never merged.
type Token struct {
	ID        uuid.UUID `json:"id"`
	SteamID   uint64    `json:"steam_id"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository defines the interface for machine-trust token storage
type Repository interface {
	// Upsert stores or replaces the token for its account
	Upsert(ctx context.Context, token Token) (Token, error)
	// GetBySteamID retrieves the token for an account, ErrNotFound when absent
	GetBySteamID(ctx context.Context, steamID uint64) (Token, error)
	// Delete removes the token for an account
	Delete(ctx context.Context, steamID uint64) error
	// All returns every stored token
	All(ctx context.Context) ([]Token, error)
}

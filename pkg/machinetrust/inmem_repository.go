package machinetrust

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemRepository implements Repository using an in-memory map
type InMemRepository struct {
	tokens map[uint64]Token
	mu     sync.Mutex
}

// NewInMemRepository creates a new in-memory machine-trust repository
func NewInMemRepository() *InMemRepository {
	return &InMemRepository{
		tokens: make(map[uint64]Token),
	}
}

// Upsert stores or replaces the token for its account
func (r *InMemRepository) Upsert(ctx context.Context, token Token) (Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	existing, exists := r.tokens[token.SteamID]
	if exists {
		token.ID = existing.ID
		token.CreatedAt = existing.CreatedAt
		slog.Debug("Rotating machine-trust token", "steamID", token.SteamID)
	} else {
		token.ID = uuid.New()
		token.CreatedAt = now
	}
	token.UpdatedAt = now

	r.tokens[token.SteamID] = token
	return token, nil
}

// GetBySteamID retrieves the token for an account
func (r *InMemRepository) GetBySteamID(ctx context.Context, steamID uint64) (Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, exists := r.tokens[steamID]
	if !exists {
		return Token{}, ErrNotFound
	}
	return token, nil
}

// Delete removes the token for an account
func (r *InMemRepository) Delete(ctx context.Context, steamID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tokens[steamID]; !exists {
		return ErrNotFound
	}
	delete(r.tokens, steamID)
	return nil
}

// All returns every stored token
func (r *InMemRepository) All(ctx context.Context) ([]Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tokens := make([]Token, 0, len(r.tokens))
	for _, token := range r.tokens {
		tokens = append(tokens, token)
	}
	return tokens, nil
}

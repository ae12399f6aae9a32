package machinetrust

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Service owns the per-account machine-trust tokens. The engine consults it
// before starting a credentials session and feeds rotated tokens back from
// poll results. A token is only ever replaced or explicitly forgotten, never
// dropped as a side effect.
type Service struct {
	repository Repository
}

// NewService creates a machine-trust service with the given repository
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// TokenForAccount returns the cached trust token for an account, or "" when
// none is stored.
func (s *Service) TokenForAccount(ctx context.Context, steamID uint64) (string, error) {
	token, err := s.repository.GetBySteamID(ctx, steamID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to look up machine-trust token: %w", err)
	}
	slog.Debug("Machine-trust token found", "steamID", steamID)
	return token.Value, nil
}

// Store saves or rotates the trust token for an account.
func (s *Service) Store(ctx context.Context, steamID uint64, value string) error {
	if value == "" {
		return fmt.Errorf("refusing to store empty machine-trust token for %d", steamID)
	}
	_, err := s.repository.Upsert(ctx, Token{SteamID: steamID, Value: value})
	if err != nil {
		return fmt.Errorf("failed to store machine-trust token: %w", err)
	}
	slog.Info("Machine-trust token stored", "steamID", steamID)
	return nil
}

// Forget removes the trust token for an account, used when the server
// signals the token is no longer valid.
func (s *Service) Forget(ctx context.Context, steamID uint64) error {
	err := s.repository.Delete(ctx, steamID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to forget machine-trust token: %w", err)
	}
	slog.Info("Machine-trust token forgotten", "steamID", steamID)
	return nil
}

// Accounts lists every account with a stored token.
func (s *Service) Accounts(ctx context.Context) ([]Token, error) {
	tokens, err := s.repository.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list machine-trust tokens: %w", err)
	}
	return tokens, nil
}

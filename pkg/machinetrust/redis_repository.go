package machinetrust

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "machine_trust:"

// RedisRepository implements Repository backed by Redis, for processes that
// share one trust store across hosts.
type RedisRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisRepository creates a Redis-backed machine-trust repository
func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{
		client: client,
		prefix: defaultKeyPrefix,
	}
}

func (r *RedisRepository) key(steamID uint64) string {
	return r.prefix + strconv.FormatUint(steamID, 10)
}

// Upsert stores or replaces the token for its account
func (r *RedisRepository) Upsert(ctx context.Context, token Token) (Token, error) {
	now := time.Now().UTC()

	existing, err := r.GetBySteamID(ctx, token.SteamID)
	if err == nil {
		token.ID = existing.ID
		token.CreatedAt = existing.CreatedAt
	} else {
		token.ID = uuid.New()
		token.CreatedAt = now
	}
	token.UpdatedAt = now

	data, err := json.Marshal(token)
	if err != nil {
		return Token{}, fmt.Errorf("failed to marshal token: %w", err)
	}
	if err := r.client.Set(ctx, r.key(token.SteamID), data, 0).Err(); err != nil {
		return Token{}, fmt.Errorf("failed to store token: %w", err)
	}
	return token, nil
}

// GetBySteamID retrieves the token for an account
func (r *RedisRepository) GetBySteamID(ctx context.Context, steamID uint64) (Token, error) {
	val, err := r.client.Get(ctx, r.key(steamID)).Result()
	if err == redis.Nil {
		return Token{}, ErrNotFound
	}
	if err != nil {
		return Token{}, fmt.Errorf("failed to get token: %w", err)
	}

	var token Token
	if err := json.Unmarshal([]byte(val), &token); err != nil {
		return Token{}, fmt.Errorf("failed to unmarshal token: %w", err)
	}
	return token, nil
}

// Delete removes the token for an account
func (r *RedisRepository) Delete(ctx context.Context, steamID uint64) error {
	n, err := r.client.Del(ctx, r.key(steamID)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// All returns every stored token
func (r *RedisRepository) All(ctx context.Context) ([]Token, error) {
	var tokens []Token
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		val, err := r.client.Get(ctx, iter.Val()).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get token: %w", err)
		}
		var token Token
		if err := json.Unmarshal([]byte(val), &token); err != nil {
			return nil, fmt.Errorf("failed to unmarshal token: %w", err)
		}
		tokens = append(tokens, token)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan tokens: %w", err)
	}
	return tokens, nil
}

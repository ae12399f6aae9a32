package machinetrust

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	db DBTX
}

// NewPostgresRepository creates a new PostgreSQL machine-trust repository
func NewPostgresRepository(db DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert stores or replaces the token for its account
func (r *PostgresRepository) Upsert(ctx context.Context, token Token) (Token, error) {
	now := time.Now().UTC()
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	token.UpdatedAt = now

	row := r.db.QueryRow(ctx,
		`INSERT INTO machine_trust_tokens (id, steam_id, value, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $4)
		 ON CONFLICT (steam_id) DO UPDATE SET
		   value = EXCLUDED.value,
		   updated_at = EXCLUDED.updated_at
		 RETURNING id, steam_id, value, created_at, updated_at`,
		token.ID, token.SteamID, token.Value, now,
	)
	var stored Token
	if err := row.Scan(&stored.ID, &stored.SteamID, &stored.Value, &stored.CreatedAt, &stored.UpdatedAt); err != nil {
		return Token{}, fmt.Errorf("failed to upsert machine-trust token: %w", err)
	}
	return stored, nil
}

// GetBySteamID retrieves the token for an account
func (r *PostgresRepository) GetBySteamID(ctx context.Context, steamID uint64) (Token, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, steam_id, value, created_at, updated_at
		 FROM machine_trust_tokens WHERE steam_id = $1`,
		steamID,
	)
	var token Token
	if err := row.Scan(&token.ID, &token.SteamID, &token.Value, &token.CreatedAt, &token.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Token{}, ErrNotFound
		}
		return Token{}, fmt.Errorf("failed to get machine-trust token: %w", err)
	}
	return token, nil
}

// Delete removes the token for an account
func (r *PostgresRepository) Delete(ctx context.Context, steamID uint64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM machine_trust_tokens WHERE steam_id = $1`, steamID)
	if err != nil {
		return fmt.Errorf("failed to delete machine-trust token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// All returns every stored token
func (r *PostgresRepository) All(ctx context.Context) ([]Token, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, steam_id, value, created_at, updated_at
		 FROM machine_trust_tokens ORDER BY steam_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list machine-trust tokens: %w", err)
	}
	defer rows.Close()

	var tokens []Token
	for rows.Next() {
		var token Token
		if err := rows.Scan(&token.ID, &token.SteamID, &token.Value, &token.CreatedAt, &token.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan machine-trust token: %w", err)
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read machine-trust tokens: %w", err)
	}
	return tokens, nil
}

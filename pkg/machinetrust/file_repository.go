package machinetrust

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

const tokensFileName = "machine_trust_tokens.json"

// FileRepository implements Repository using file-based storage
type FileRepository struct {
	dataDir string
	tokens  map[uint64]Token
	mu      sync.Mutex
}

// tokenData represents the structure of data stored in the JSON file
type tokenData struct {
	Tokens []Token `json:"tokens"`
}

// NewFileRepository creates a new file-based machine-trust repository
func NewFileRepository(dataDir string) (*FileRepository, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	repo := &FileRepository{
		dataDir: dataDir,
		tokens:  make(map[uint64]Token),
	}
	if err := repo.load(); err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}
	return repo, nil
}

func (r *FileRepository) filePath() string {
	return filepath.Join(r.dataDir, tokensFileName)
}

// load reads the token file; a missing file is an empty repository.
func (r *FileRepository) load() error {
	raw, err := os.ReadFile(r.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read token file: %w", err)
	}

	var data tokenData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to parse token file: %w", err)
	}
	for _, token := range data.Tokens {
		r.tokens[token.SteamID] = token
	}
	return nil
}

// save persists all tokens; caller must hold the lock.
func (r *FileRepository) save() error {
	data := tokenData{Tokens: make([]Token, 0, len(r.tokens))}
	for _, token := range r.tokens {
		data.Tokens = append(data.Tokens, token)
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tokens: %w", err)
	}
	if err := os.WriteFile(r.filePath(), raw, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Upsert stores or replaces the token for its account
func (r *FileRepository) Upsert(ctx context.Context, token Token) (Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	existing, exists := r.tokens[token.SteamID]
	if exists {
		token.ID = existing.ID
		token.CreatedAt = existing.CreatedAt
	} else {
		token.ID = uuid.New()
		token.CreatedAt = now
	}
	token.UpdatedAt = now

	r.tokens[token.SteamID] = token
	if err := r.save(); err != nil {
		return Token{}, err
	}
	return token, nil
}

// GetBySteamID retrieves the token for an account
func (r *FileRepository) GetBySteamID(ctx context.Context, steamID uint64) (Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, exists := r.tokens[steamID]
	if !exists {
		return Token{}, ErrNotFound
	}
	return token, nil
}

// Delete removes the token for an account
func (r *FileRepository) Delete(ctx context.Context, steamID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tokens[steamID]; !exists {
		return ErrNotFound
	}
	delete(r.tokens, steamID)
	return r.save()
}

// All returns every stored token
func (r *FileRepository) All(ctx context.Context) ([]Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tokens := make([]Token, 0, len(r.tokens))
	for _, token := range r.tokens {
		tokens = append(tokens, token)
	}
	return tokens, nil
}

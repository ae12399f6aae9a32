package machinetrust

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSteamID uint64 = 76561198000000001

func repositories(t *testing.T) map[string]Repository {
	t.Helper()
	fileRepo, err := NewFileRepository(t.TempDir())
	require.NoError(t, err)
	return map[string]Repository{
		"inmem": NewInMemRepository(),
		"file":  fileRepo,
	}
}

func TestRepositoryUpsertAndGet(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := repo.GetBySteamID(ctx, testSteamID)
			assert.ErrorIs(t, err, ErrNotFound)

			stored, err := repo.Upsert(ctx, Token{SteamID: testSteamID, Value: "trust-1"})
			require.NoError(t, err)
			assert.NotEqual(t, stored.ID.String(), "00000000-0000-0000-0000-000000000000")
			assert.False(t, stored.CreatedAt.IsZero())

			got, err := repo.GetBySteamID(ctx, testSteamID)
			require.NoError(t, err)
			assert.Equal(t, "trust-1", got.Value)
		})
	}
}

func TestRepositoryRotationOverwrites(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			first, err := repo.Upsert(ctx, Token{SteamID: testSteamID, Value: "trust-1"})
			require.NoError(t, err)

			second, err := repo.Upsert(ctx, Token{SteamID: testSteamID, Value: "trust-2"})
			require.NoError(t, err)

			// Rotation keeps the identity, replaces the value.
			assert.Equal(t, first.ID, second.ID)
			assert.Equal(t, first.CreatedAt, second.CreatedAt)

			got, err := repo.GetBySteamID(ctx, testSteamID)
			require.NoError(t, err)
			assert.Equal(t, "trust-2", got.Value)

			all, err := repo.All(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 1)
		})
	}
}

func TestRepositoryDelete(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			assert.ErrorIs(t, repo.Delete(ctx, testSteamID), ErrNotFound)

			_, err := repo.Upsert(ctx, Token{SteamID: testSteamID, Value: "trust-1"})
			require.NoError(t, err)
			require.NoError(t, repo.Delete(ctx, testSteamID))

			_, err = repo.GetBySteamID(ctx, testSteamID)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestFileRepositoryPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	repo, err := NewFileRepository(dir)
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, Token{SteamID: testSteamID, Value: "trust-1"})
	require.NoError(t, err)

	reopened, err := NewFileRepository(dir)
	require.NoError(t, err)
	got, err := reopened.GetBySteamID(ctx, testSteamID)
	require.NoError(t, err)
	assert.Equal(t, "trust-1", got.Value)
}

func TestServiceTokenForAccount(t *testing.T) {
	ctx := context.Background()
	service := NewService(NewInMemRepository())

	// Absent token is not an error, it just means no trust.
	value, err := service.TokenForAccount(ctx, testSteamID)
	require.NoError(t, err)
	assert.Equal(t, "", value)

	require.NoError(t, service.Store(ctx, testSteamID, "trust-1"))
	value, err = service.TokenForAccount(ctx, testSteamID)
	require.NoError(t, err)
	assert.Equal(t, "trust-1", value)
}

func TestServiceRefusesEmptyToken(t *testing.T) {
	service := NewService(NewInMemRepository())
	assert.Error(t, service.Store(context.Background(), testSteamID, ""))
}

func TestServiceForget(t *testing.T) {
	ctx := context.Background()
	service := NewService(NewInMemRepository())

	// Forgetting an absent token is a no-op.
	require.NoError(t, service.Forget(ctx, testSteamID))

	require.NoError(t, service.Store(ctx, testSteamID, "trust-1"))
	require.NoError(t, service.Forget(ctx, testSteamID))

	value, err := service.TokenForAccount(ctx, testSteamID)
	require.NoError(t, err)
	assert.Equal(t, "", value)
}

func TestServiceAccounts(t *testing.T) {
	ctx := context.Background()
	service := NewService(NewInMemRepository())

	require.NoError(t, service.Store(ctx, testSteamID, "trust-1"))
	require.NoError(t, service.Store(ctx, testSteamID+1, "trust-2"))

	tokens, err := service.Accounts(ctx)
	require.NoError(t, err)
	assert.Len(t, tokens, 2)
}

func TestNewRepositoryFactory(t *testing.T) {
	repo, err := NewRepository("memory", RepositoryConfig{})
	require.NoError(t, err)
	assert.IsType(t, &InMemRepository{}, repo)

	repo, err = NewRepository("file", RepositoryConfig{DataDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileRepository{}, repo)

	_, err = NewRepository("file", RepositoryConfig{})
	assert.Error(t, err)

	_, err = NewRepository("postgres", RepositoryConfig{})
	assert.Error(t, err)

	_, err = NewRepository("carrier-pigeon", RepositoryConfig{})
	assert.Error(t, err)
}

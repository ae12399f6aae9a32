package machinetrust

import (
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RepositoryConfig contains configuration for creating a machine-trust repository
type RepositoryConfig struct {
	// DB is required for PostgreSQL repositories (DBTX interface)
	DB DBTX
	// Redis is required for Redis repositories
	Redis *redis.Client
	// DataDir is required for file-based repositories
	DataDir string
}

// NewRepository creates a machine-trust repository based on the persistence type
func NewRepository(persistenceType string, config RepositoryConfig) (Repository, error) {
	switch persistenceType {
	case "postgres", "postgresql":
		if config.DB == nil {
			return nil, fmt.Errorf("db required for postgres repository")
		}
		return NewPostgresRepository(config.DB), nil
	case "redis":
		if config.Redis == nil {
			return nil, fmt.Errorf("redis client required for redis repository")
		}
		return NewRedisRepository(config.Redis), nil
	case "file":
		if config.DataDir == "" {
			return nil, fmt.Errorf("dataDir required for file repository")
		}
		return NewFileRepository(config.DataDir)
	case "memory", "":
		return NewInMemRepository(), nil
	default:
		return nil, fmt.Errorf("unsupported persistence type: %s (supported: postgres, redis, file, memory)", persistenceType)
	}
}

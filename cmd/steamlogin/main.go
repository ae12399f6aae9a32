package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/tendric/steamauth/pkg/authapi"
	"github.com/tendric/steamauth/pkg/authsession"
	"github.com/tendric/steamauth/pkg/machinetrust"
	"github.com/tendric/steamauth/pkg/transport"
)

type TrustDbConfig struct {
	Host     string `env:"STEAMAUTH_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"STEAMAUTH_PG_PORT" env-default:"5432"`
	Database string `env:"STEAMAUTH_PG_DATABASE" env-default:"steamauth_db"`
	User     string `env:"STEAMAUTH_PG_USER" env-default:"steamauth"`
	Password string `env:"STEAMAUTH_PG_PASSWORD" env-default:"pwd"`
}

func (d TrustDbConfig) toDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Database)
}

type TrustRedisConfig struct {
	Host     string `env:"STEAMAUTH_REDIS_HOST" env-default:"localhost"`
	Port     uint16 `env:"STEAMAUTH_REDIS_PORT" env-default:"6379"`
	Password string `env:"STEAMAUTH_REDIS_PASSWORD" env-default:""`
	DB       int    `env:"STEAMAUTH_REDIS_DB" env-default:"0"`
}

type Config struct {
	APIBase        string `env:"STEAMAUTH_API_BASE" env-default:"https://api.steampowered.com"`
	CheckDeviceURL string `env:"STEAMAUTH_CHECK_DEVICE_URL" env-default:"https://login.steampowered.com/jwt/checkdevice"`
	WebsiteID      string `env:"STEAMAUTH_WEBSITE_ID" env-default:"Client"`
	DeviceName     string `env:"STEAMAUTH_DEVICE_NAME" env-default:"steamauth-cli"`
	LoginTimeout   string `env:"STEAMAUTH_LOGIN_TIMEOUT" env-default:"2m"`

	// TrustStore selects where machine-trust tokens live:
	// memory, file, redis or postgres.
	TrustStore string `env:"STEAMAUTH_TRUST_STORE" env-default:"file"`
	DataDir    string `env:"STEAMAUTH_DATA_DIR" env-default:".steamauth"`

	TrustDbConfig    TrustDbConfig
	TrustRedisConfig TrustRedisConfig
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load .env file if present (before reading environment variables)
	_ = godotenv.Load()

	config := Config{}
	cleanenv.ReadEnv(&config)

	root := newRootCmd(&config)
	if err := root.Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(-1)
	}
}

func newRootCmd(config *Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "steamlogin",
		Short:         "Authenticate a Steam account and print the issued tokens",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newLoginCmd(config))
	root.AddCommand(newQRCmd(config))
	root.AddCommand(newDevicesCmd(config))
	root.AddCommand(newCodeCmd())
	return root
}

// newTrustService builds the machine-trust store the config asks for and
// returns a cleanup for whatever backend it opened.
func newTrustService(ctx context.Context, config *Config) (*machinetrust.Service, func(), error) {
	cleanup := func() {}
	repoConfig := machinetrust.RepositoryConfig{DataDir: config.DataDir}

	switch config.TrustStore {
	case "postgres", "postgresql":
		pool, err := pgxpool.New(ctx, config.TrustDbConfig.toDatabaseURL())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		repoConfig.DB = pool
		cleanup = pool.Close
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", config.TrustRedisConfig.Host, config.TrustRedisConfig.Port),
			Password: config.TrustRedisConfig.Password,
			DB:       config.TrustRedisConfig.DB,
		})
		repoConfig.Redis = client
		cleanup = func() { _ = client.Close() }
	}

	repo, err := machinetrust.NewRepository(config.TrustStore, repoConfig)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return machinetrust.NewService(repo), cleanup, nil
}

func newAuthService(config *Config, trust *machinetrust.Service) (*authsession.Service, error) {
	timeout, err := time.ParseDuration(config.LoginTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid STEAMAUTH_LOGIN_TIMEOUT: %w", err)
	}

	tp := transport.NewHTTPTransport(
		transport.WithAPIBase(config.APIBase),
		transport.WithCheckDeviceURL(config.CheckDeviceURL),
		transport.WithUserAgent(config.DeviceName),
	)
	return authsession.NewService(tp,
		authsession.WithMachineTrust(trust),
		authsession.WithWebsiteID(config.WebsiteID),
		authsession.WithDeviceDetails(authapi.DeviceDetails{
			DeviceFriendlyName: config.DeviceName,
			PlatformType:       authapi.PlatformTypeSteamClient,
		}),
		authsession.WithOverallTimeout(timeout),
	), nil
}

package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-trader/pkg/simpletrader"
	repobolt "github.com/tendant/simple-trader/pkg/simpletrader/repo/bolt"
	"github.com/tendant/simple-trader/pkg/simpletrader/repo/memory"
	repopg "github.com/tendant/simple-trader/pkg/simpletrader/repo/postgres"
	fsstorage "github.com/tendant/simple-trader/pkg/simpletrader/storage/fs"
	memorystorage "github.com/tendant/simple-trader/pkg/simpletrader/storage/memory"
	s3storage "github.com/tendant/simple-trader/pkg/simpletrader/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:         "8080",
		Environment:  "development",
		DatabaseType: "memory",
		DBSchema:     "trader",
		Storage: StorageBackendConfig{
			Type:   "memory",
			Config: map[string]interface{}{},
		},
		CatalogKey:         simpletrader.DefaultCatalogKey,
		SessionTTL:         simpletrader.DefaultSessionTTL,
		EnableOrderLogging: true,
	}
}

// ServerConfig represents server configuration for the trader service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string // connection string for postgres, file path for bolt
	DatabaseType string // "memory", "postgres", "bolt"
	DBSchema     string // Postgres schema to use (default: trader)
	AutoMigrate  bool   // create the orders table on startup

	// Price list storage
	Storage    StorageBackendConfig
	CatalogKey string

	SessionTTL         time.Duration
	EnableOrderLogging bool
}

// StorageBackendConfig represents configuration for the price list store
type StorageBackendConfig struct {
	Type   string // "memory", "fs", "s3"
	Config map[string]interface{}
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	switch c.DatabaseType {
	case "memory":
	case "postgres", "bolt":
		if c.DatabaseURL == "" {
			return fmt.Errorf("database_url is required when using %s", c.DatabaseType)
		}
	default:
		return errors.New("database_type must be 'memory', 'postgres' or 'bolt'")
	}

	switch c.Storage.Type {
	case "memory", "fs", "s3":
	default:
		return fmt.Errorf("unsupported storage backend type: %s", c.Storage.Type)
	}

	if c.CatalogKey == "" {
		return errors.New("catalog key is required")
	}
	if c.SessionTTL <= 0 {
		return errors.New("session ttl must be positive")
	}

	return nil
}

// BuildService creates a Service instance from the server configuration.
// The returned cleanup releases the database connection or file.
func (c *ServerConfig) BuildService(ctx context.Context) (simpletrader.Service, func(), error) {
	var options []simpletrader.Option

	repo, cleanup, err := c.buildRepository(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build repository: %w", err)
	}
	options = append(options, simpletrader.WithRepository(repo))

	store, err := c.buildStorageBackend()
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to build storage backend %s: %w", c.Storage.Type, err)
	}
	options = append(options,
		simpletrader.WithCatalogStore(store),
		simpletrader.WithCatalogKey(c.CatalogKey),
		simpletrader.WithSessionTTL(c.SessionTTL),
	)

	if c.EnableOrderLogging {
		options = append(options, simpletrader.WithOrderSink(simpletrader.NewLogOrderSink(slog.Default())))
	} else {
		options = append(options, simpletrader.WithOrderSink(simpletrader.NewNoopOrderSink()))
	}

	svc, err := simpletrader.New(options...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}

// buildRepository creates a Repository based on the configuration
func (c *ServerConfig) buildRepository(ctx context.Context) (simpletrader.Repository, func(), error) {
	switch c.DatabaseType {
	case "memory":
		return memory.New(), func() {}, nil
	case "postgres":
		pool, err := newPool(ctx, c.DatabaseURL, c.DBSchema)
		if err != nil {
			return nil, nil, err
		}
		repo := repopg.NewWithPool(pool)
		if c.AutoMigrate {
			if err := repo.Migrate(ctx); err != nil {
				pool.Close()
				return nil, nil, fmt.Errorf("failed to migrate orders table: %w", err)
			}
		}
		return repo, pool.Close, nil
	case "bolt":
		repo, err := repobolt.Open(c.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {
			if err := repo.Close(); err != nil {
				slog.Warn("failed to close bolt database", "path", c.DatabaseURL, "error", err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

func newPool(ctx context.Context, databaseURL, schema string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
	}
	if schema != "" {
		cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			_, err := conn.Exec(ctx, "SET search_path TO "+pgx.Identifier{schema}.Sanitize())
			return err
		}
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	return pool, nil
}

// PingPostgres verifies connectivity to Postgres using the configured schema.
func PingPostgres(databaseURL, schema string) error {
	if databaseURL == "" {
		return errors.New("database_url is required")
	}
	pool, err := newPool(context.Background(), databaseURL, schema)
	if err != nil {
		return err
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// buildStorageBackend creates a CatalogStore based on the backend configuration
func (c *ServerConfig) buildStorageBackend() (simpletrader.CatalogStore, error) {
	config := c.Storage.Config
	switch c.Storage.Type {
	case "memory":
		return memorystorage.New(), nil

	case "fs":
		return fsstorage.New(fsstorage.Config{
			BaseDir: getString(config, "base_dir", "./data/pricelists"),
		})

	case "s3":
		return s3storage.New(s3storage.Config{
			Region:                 getString(config, "region", "us-east-1"),
			Bucket:                 getString(config, "bucket", ""),
			Prefix:                 getString(config, "prefix", ""),
			AccessKeyID:            getString(config, "access_key_id", ""),
			SecretAccessKey:        getString(config, "secret_access_key", ""),
			Endpoint:               getString(config, "endpoint", ""),
			UsePathStyle:           getBool(config, "use_path_style", false),
			CreateBucketIfNotExist: getBool(config, "create_bucket_if_not_exist", false),
		})

	default:
		return nil, fmt.Errorf("unsupported storage backend type: %s", c.Storage.Type)
	}
}

func getString(config map[string]interface{}, key string, defaultValue string) string {
	if value, exists := config[key]; exists {
		if str, ok := value.(string); ok {
			return str
		}
	}
	return defaultValue
}

func getBool(config map[string]interface{}, key string, defaultValue bool) bool {
	if value, exists := config[key]; exists {
		if b, ok := value.(bool); ok {
			return b
		}
		if str, ok := value.(string); ok {
			if b, err := strconv.ParseBool(str); err == nil {
				return b
			}
		}
	}
	return defaultValue
}

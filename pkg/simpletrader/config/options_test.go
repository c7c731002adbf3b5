package config

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-trader/pkg/simpletrader"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory", cfg.DatabaseType)
	assert.Equal(t, "memory", cfg.Storage.Type)
	assert.Equal(t, simpletrader.DefaultCatalogKey, cfg.CatalogKey)
	assert.Equal(t, simpletrader.DefaultSessionTTL, cfg.SessionTTL)
	assert.True(t, cfg.EnableOrderLogging)
}

func TestOptionValidation(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"empty port", WithPort("")},
		{"empty environment", WithEnvironment("")},
		{"unknown database", WithDatabase("mysql", "mysql://localhost")},
		{"postgres without url", WithDatabase("postgres", "")},
		{"bolt without path", WithDatabase("bolt", "")},
		{"empty fs dir", WithFilesystemStorage("")},
		{"empty bucket", WithS3Storage("", "")},
		{"credentials without s3", WithS3Credentials("id", "secret")},
		{"endpoint without s3", WithS3Endpoint("http://localhost:9000", true)},
		{"empty catalog key", WithCatalogKey("")},
		{"zero session ttl", WithSessionTTL(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.opt)
			assert.Error(t, err)
		})
	}
}

func TestS3Options(t *testing.T) {
	cfg, err := Load(
		WithS3Storage("price-lists", ""),
		WithS3Credentials("id", "secret"),
		WithS3Endpoint("http://localhost:9000", true),
	)
	require.NoError(t, err)

	assert.Equal(t, "s3", cfg.Storage.Type)
	assert.Equal(t, "us-east-1", cfg.Storage.Config["region"])
	assert.Equal(t, "id", cfg.Storage.Config["access_key_id"])
	assert.Equal(t, true, cfg.Storage.Config["use_path_style"])
}

func TestBuildService_BoltAndFilesystem(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(
		WithDatabase("bolt", filepath.Join(dir, "orders.db")),
		WithFilesystemStorage(filepath.Join(dir, "pricelists")),
		WithCatalogKey("live.json"),
		WithSessionTTL(time.Minute),
		WithOrderLogging(false),
	)
	require.NoError(t, err)

	ctx := context.Background()
	svc, cleanup, err := cfg.BuildService(ctx)
	require.NoError(t, err)
	defer cleanup()

	_, err = svc.Categories(ctx)
	assert.ErrorIs(t, err, simpletrader.ErrCatalogNotFound)

	require.NoError(t, svc.PublishCatalog(ctx, strings.NewReader(`{"categories": {"Tools": {"Axe": {"Iron": 30, "Stone": 9}}}}`)))
	assert.FileExists(t, filepath.Join(dir, "pricelists", "live.json"))

	order, err := svc.SubmitOrderText(ctx, simpletrader.SubmitOrderTextRequest{UserID: "u1", Text: "Tools: Axe: iron x2"})
	require.NoError(t, err)
	assert.Equal(t, "60", order.Total.String())

	got, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Iron", got.Lines[0].Variant)
}

func TestBuildService_Memory(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	svc, cleanup, err := cfg.BuildService(context.Background())
	require.NoError(t, err)
	defer cleanup()
	assert.NotNil(t, svc)
}

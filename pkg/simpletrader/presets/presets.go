// Package presets builds trader services for common setups without the
// boilerplate of wiring repositories and price list stores by hand.
package presets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tendant/simple-trader/pkg/simpletrader"
	repobolt "github.com/tendant/simple-trader/pkg/simpletrader/repo/bolt"
	memoryrepo "github.com/tendant/simple-trader/pkg/simpletrader/repo/memory"
	fsstorage "github.com/tendant/simple-trader/pkg/simpletrader/storage/fs"
	memorystorage "github.com/tendant/simple-trader/pkg/simpletrader/storage/memory"
)

// SamplePriceList is a small price list with flat and variant-priced items.
const SamplePriceList = `{
	"categories": {
		"Weapons": {"Rifle": 1200, "Pistol": 450},
		"Vehicles": {"Truck": {"Red": 9000, "Blue": 9500}},
		"Supplies": {"Medkit": {"Small": 50, "Large": 120}, "Water": 5}
	}
}`

// NewDevelopment creates a service configured for local development.
//
// Orders are kept in a bolt file and the price list in the filesystem, both
// under ./dev-data. When no price list has been published yet the sample
// list is published. The returned cleanup closes the bolt file and removes
// the directory.
//
// Example:
//
//	svc, cleanup, err := presets.NewDevelopment()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cleanup()
func NewDevelopment(opts ...DevelopmentOption) (simpletrader.Service, func(), error) {
	cfg := &devConfig{
		dataDir:   "./dev-data",
		priceList: SamplePriceList,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	repo, err := repobolt.Open(filepath.Join(cfg.dataDir, "orders.db"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open order database: %w", err)
	}
	cleanup := func() {
		repo.Close()
		os.RemoveAll(cfg.dataDir)
	}

	store, err := fsstorage.New(fsstorage.Config{BaseDir: filepath.Join(cfg.dataDir, "pricelists")})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to create filesystem storage: %w", err)
	}

	svc, err := simpletrader.New(
		simpletrader.WithRepository(repo),
		simpletrader.WithCatalogStore(store),
		simpletrader.WithOrderSink(simpletrader.NewLogOrderSink(nil)),
	)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to create service: %w", err)
	}

	ctx := context.Background()
	exists, err := store.Exists(ctx, simpletrader.DefaultCatalogKey)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if !exists && cfg.priceList != "" {
		if err := svc.PublishCatalog(ctx, strings.NewReader(cfg.priceList)); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to publish price list: %w", err)
		}
	}

	return svc, cleanup, nil
}

// NewTesting creates a service for unit and integration tests. Orders and
// the price list live in memory, so each call is isolated. The price list
// defaults to SamplePriceList.
//
// Example:
//
//	func TestMyFeature(t *testing.T) {
//	    svc := presets.NewTesting(t)
//	}
func NewTesting(t *testing.T, opts ...TestingOption) simpletrader.Service {
	t.Helper()
	cfg := &testConfig{priceList: SamplePriceList}
	for _, opt := range opts {
		opt(cfg)
	}

	options := []simpletrader.Option{
		simpletrader.WithRepository(memoryrepo.New()),
		simpletrader.WithCatalogStore(memorystorage.NewWithDocument(simpletrader.DefaultCatalogKey, []byte(cfg.priceList))),
		simpletrader.WithOrderSink(simpletrader.NewNoopOrderSink()),
	}
	options = append(options, cfg.serviceOptions...)

	svc, err := simpletrader.New(options...)
	if err != nil {
		t.Fatalf("failed to create test service: %v", err)
	}
	return svc
}

type devConfig struct {
	dataDir   string
	priceList string
}

type testConfig struct {
	priceList      string
	serviceOptions []simpletrader.Option
}

// DevelopmentOption is a functional option for NewDevelopment
type DevelopmentOption func(*devConfig)

// WithDevDataDir sets the development data directory
func WithDevDataDir(dir string) DevelopmentOption {
	return func(cfg *devConfig) {
		cfg.dataDir = dir
	}
}

// WithDevPriceList sets the price list published on first start. An empty
// document publishes nothing.
func WithDevPriceList(doc string) DevelopmentOption {
	return func(cfg *devConfig) {
		cfg.priceList = doc
	}
}

// TestingOption is a functional option for NewTesting
type TestingOption func(*testConfig)

// WithTestPriceList replaces the sample price list
func WithTestPriceList(doc string) TestingOption {
	return func(cfg *testConfig) {
		cfg.priceList = doc
	}
}

// WithTestServiceOptions passes extra options to simpletrader.New
func WithTestServiceOptions(opts ...simpletrader.Option) TestingOption {
	return func(cfg *testConfig) {
		cfg.serviceOptions = append(cfg.serviceOptions, opts...)
	}
}

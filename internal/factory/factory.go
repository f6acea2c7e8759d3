package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/BAYRYO/monopoly-rgpd/internal/dependencies/clock"
	"github.com/BAYRYO/monopoly-rgpd/internal/dependencies/random"
	"github.com/BAYRYO/monopoly-rgpd/internal/services/registry"
	"github.com/BAYRYO/monopoly-rgpd/internal/services/turn"
	"github.com/BAYRYO/monopoly-rgpd/internal/storage"
	"github.com/BAYRYO/monopoly-rgpd/internal/storage/memory"
	redisstorage "github.com/BAYRYO/monopoly-rgpd/internal/storage/redis"
	"github.com/BAYRYO/monopoly-rgpd/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Transport
	Hub       *ws.Hub
	WSHandler *ws.Handler

	// Services
	Registry        *registry.Service
	TurnCoordinator *turn.Coordinator
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// RegistryConfig overrides the default registry settings (optional)
	RegistryConfig *registry.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	regCfg := registry.DefaultConfig()
	if cfg.RegistryConfig != nil {
		regCfg = *cfg.RegistryConfig
	}

	return newWithDependencies(store, clock.New(), random.New(), regCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, regCfg registry.Config, logger *slog.Logger) *App {
	hub := ws.NewHub(logger)

	// One process-wide exclusion region shared by registry and coordinator:
	// no two room/turn mutations may ever interleave
	mu := &sync.Mutex{}

	coordinator := turn.NewCoordinator(store, hub, mu, clk, logger)
	reg := registry.NewService(store, hub, mu, clk, rnd, regCfg, logger)
	handler := ws.NewHandler(reg, coordinator, hub, logger)

	return &App{
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		Hub:             hub,
		WSHandler:       handler,
		Registry:        reg,
		TurnCoordinator: coordinator,
	}
}

// Bootstrap seeds process-start state: the permanent default room
func (a *App) Bootstrap(ctx context.Context) error {
	return a.Registry.EnsureDefaultRoom(ctx)
}

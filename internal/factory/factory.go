package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/freestreet/internal/dependencies/clock"
	"github.com/mcoot/freestreet/internal/dependencies/random"
	"github.com/mcoot/freestreet/internal/flows"
	"github.com/mcoot/freestreet/internal/gateway"
	"github.com/mcoot/freestreet/internal/services/account"
	"github.com/mcoot/freestreet/internal/services/crew"
	"github.com/mcoot/freestreet/internal/services/police"
	"github.com/mcoot/freestreet/internal/session"
	"github.com/mcoot/freestreet/internal/storage"
	"github.com/mcoot/freestreet/internal/storage/memory"
	redisstorage "github.com/mcoot/freestreet/internal/storage/redis"
	"github.com/mcoot/freestreet/internal/world"
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
	World  *world.Memory

	// Services
	Accounts *account.Service
	Crews    *crew.Controller
	Police   *police.Authority

	// Sessions and their transport
	Registry *session.Registry
	Engine   *flows.Engine
	Gateway  *gateway.Hub
}

// Config holds configuration for the application factory
type Config struct {
	// AccountConfig holds configuration for the account service (optional)
	// If zero value, defaults to account.DefaultConfig()
	AccountConfig account.Config
	// SessionConfig bounds the participant slots (optional)
	// If zero value, defaults to session.DefaultConfig()
	SessionConfig session.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}

	accountCfg := cfg.AccountConfig
	if accountCfg.PasswordCost == 0 {
		accountCfg = account.DefaultConfig()
	}
	sessionCfg := cfg.SessionConfig
	if sessionCfg.MaxParticipants == 0 {
		sessionCfg = session.DefaultConfig()
	}

	return newWithDependencies(store, clock.New(), random.New(), accountCfg, sessionCfg, logger), nil
}

// NewStorage opens only the storage backend, for tools that edit records offline
func NewStorage(cfg Config) (storage.Storage, error) {
	return newStorage(cfg)
}

func newStorage(cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	accountCfg account.Config,
	sessionCfg session.Config,
	logger *slog.Logger,
) *App {
	hub := gateway.NewHub(logger)
	registry := session.New(hub, clk, logger, sessionCfg)
	w := world.NewMemory(hub, rnd, nil)

	accounts := account.New(store, clk, logger, accountCfg)
	crews := crew.NewController(store, clk, logger)
	authority := police.NewAuthority(store, clk, logger)
	engine := flows.New(registry, accounts, crews, authority, w, logger)
	hub.Attach(registry, engine, w)

	return &App{
		Storage:  store,
		Clock:    clk,
		Random:   rnd,
		World:    w,
		Accounts: accounts,
		Crews:    crews,
		Police:   authority,
		Registry: registry,
		Engine:   engine,
		Gateway:  hub,
	}
}

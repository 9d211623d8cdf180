package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/justgo-bridge/internal/connectors/justgo"
	"github.com/custodia-labs/justgo-bridge/internal/core/ports/driven"
)

// Configuration keys, in dot notation.
const (
	KeySecret         = "justgo.secret"
	KeyBaseURL        = "justgo.base_url"
	KeyAPIVersion     = "justgo.api_version"
	KeyTimeout        = "justgo.timeout_seconds"
	KeyMaxRetries     = "justgo.max_retries"
	KeyRateLimitDelay = "justgo.rate_limit_delay_seconds"
	KeyReadOnly       = "justgo.read_only"

	KeyCacheBackend   = "cache.backend"
	KeyRedisAddr      = "cache.redis_addr"
	KeyRedisUsername  = "cache.redis_username"
	KeyRedisPassword  = "cache.redis_password"
	KeyRedisDB        = "cache.redis_db"
	KeyCacheKeyPrefix = "cache.key_prefix"

	KeyDataDir = "storage.data_dir"

	KeyExpiryDaysAhead = "expiry.days_ahead"
)

// Environment variables that override the file.
const (
	EnvSecret     = "JUSTGO_SECRET"
	EnvBaseURL    = "JUSTGO_BASE_URL"
	EnvAPIVersion = "JUSTGO_API_VERSION"
	EnvReadOnly   = "JUSTGO_READ_ONLY"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// DefaultExpiryDaysAhead is the expiry report window when none is configured.
const DefaultExpiryDaysAhead = 30

// Settings is the typed view of the configuration file.
type Settings struct {
	JustGo  justgo.Config
	Cache   CacheSettings
	Storage StorageSettings
	Expiry  ExpirySettings
}

// CacheSettings selects the token store.
type CacheSettings struct {
	Backend       string
	RedisAddr     string
	RedisUsername string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string
}

// StorageSettings locates the local database.
type StorageSettings struct {
	// DataDir is empty for the store's default location.
	DataDir string
}

// ExpirySettings tunes the expiry report.
type ExpirySettings struct {
	DaysAhead int
}

// LookupFunc reads an environment variable.
type LookupFunc func(key string) (string, bool)

// LoadDotEnv loads KEY=value pairs from the given files into the process
// environment without overriding variables already set. With no paths it
// reads ./.env. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// LoadSettings builds Settings from the store, applies environment
// overrides through lookup (os.LookupEnv when nil) and validates the
// client configuration.
func LoadSettings(store driven.ConfigStore, lookup LookupFunc) (Settings, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	cfg := justgo.DefaultConfig()
	cfg.Secret = store.GetString(KeySecret)
	cfg.BaseURL = store.GetString(KeyBaseURL)
	if v := store.GetString(KeyAPIVersion); v != "" {
		cfg.APIVersion = v
	}
	if _, ok := store.Get(KeyTimeout); ok {
		cfg.Timeout = seconds(store.GetFloat(KeyTimeout))
	}
	if _, ok := store.Get(KeyMaxRetries); ok {
		cfg.MaxRetries = store.GetInt(KeyMaxRetries)
	}
	if _, ok := store.Get(KeyRateLimitDelay); ok {
		cfg.RateLimitDelay = seconds(store.GetFloat(KeyRateLimitDelay))
	}
	if v, ok := store.Get(KeyReadOnly); ok {
		b, isBool := v.(bool)
		if !isBool {
			return Settings{}, fmt.Errorf("%s: expected a boolean, got %v", KeyReadOnly, v)
		}
		cfg.AllowWrites = !b
	}

	if v, ok := lookup(EnvSecret); ok {
		cfg.Secret = v
	}
	if v, ok := lookup(EnvBaseURL); ok {
		cfg.BaseURL = v
	}
	if v, ok := lookup(EnvAPIVersion); ok && v != "" {
		cfg.APIVersion = v
	}
	if v, ok := lookup(EnvReadOnly); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return Settings{}, fmt.Errorf("%s: %w", EnvReadOnly, err)
		}
		cfg.AllowWrites = !b
	}

	if cfg.MaxRetries < 1 {
		return Settings{}, fmt.Errorf("%s: must be at least 1", KeyMaxRetries)
	}
	if err := cfg.Validate(); err != nil {
		return Settings{}, err
	}

	cache := CacheSettings{
		Backend:       strings.ToLower(store.GetString(KeyCacheBackend)),
		RedisAddr:     store.GetString(KeyRedisAddr),
		RedisUsername: store.GetString(KeyRedisUsername),
		RedisPassword: store.GetString(KeyRedisPassword),
		RedisDB:       store.GetInt(KeyRedisDB),
		KeyPrefix:     store.GetString(KeyCacheKeyPrefix),
	}
	switch cache.Backend {
	case "":
		cache.Backend = CacheMemory
	case CacheMemory:
	case CacheRedis:
		if cache.RedisAddr == "" {
			return Settings{}, fmt.Errorf("%s: required when %s is %q", KeyRedisAddr, KeyCacheBackend, CacheRedis)
		}
	default:
		return Settings{}, fmt.Errorf("%s: unknown backend %q", KeyCacheBackend, cache.Backend)
	}

	expiry := ExpirySettings{DaysAhead: DefaultExpiryDaysAhead}
	if _, ok := store.Get(KeyExpiryDaysAhead); ok {
		expiry.DaysAhead = store.GetInt(KeyExpiryDaysAhead)
	}

	return Settings{
		JustGo:  cfg,
		Cache:   cache,
		Storage: StorageSettings{DataDir: store.GetString(KeyDataDir)},
		Expiry:  expiry,
	}, nil
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

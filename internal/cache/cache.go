// Package cache stores computed amortization results keyed by their input.
// Results depend only on the four input scalars, so an entry never goes stale;
// the TTL bounds memory rather than correctness.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/amortize/pkg/amortization"
	"github.com/iwvelando/amortize/pkg/constants"
)

// Backends accepted in Config.Backend.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// ErrMiss is returned by Get when no result is stored under the key.
var ErrMiss = errors.New("cache miss")

// Cache stores amortization results.
type Cache interface {
	Get(ctx context.Context, key string) (amortization.Result, error)
	Set(ctx context.Context, key string, result amortization.Result) error
}

// Config selects and tunes a cache backend.
type Config struct {
	Backend    string `yaml:"backend"`    // none, memory, redis
	Address    string `yaml:"address"`    // redis host:port
	Password   string `yaml:"password"`   // redis only
	DB         int    `yaml:"db"`         // redis only
	TTL        string `yaml:"ttl"`        // e.g. "10m"; empty or "0" keeps entries until evicted
	MaxEntries int    `yaml:"maxEntries"` // memory only
}

// TTLDuration parses TTL. An empty value means no expiry.
func (c Config) TTLDuration() (time.Duration, error) {
	if strings.TrimSpace(c.TTL) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(c.TTL))
	if err != nil {
		return 0, fmt.Errorf("invalid cache ttl %q: %w", c.TTL, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid cache ttl %q: must not be negative", c.TTL)
	}
	return d, nil
}

// New builds the cache described by cfg.
func New(cfg Config) (Cache, error) {
	ttl, err := cfg.TTLDuration()
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendNone:
		return Nop{}, nil
	case BackendMemory:
		maxEntries := cfg.MaxEntries
		if maxEntries <= 0 {
			maxEntries = constants.DefaultCacheMaxEntries
		}
		return NewMemory(maxEntries, ttl), nil
	case BackendRedis:
		if cfg.Address == "" {
			return nil, errors.New("redis cache requires an address")
		}
		return NewRedis(cfg.Address, cfg.Password, cfg.DB, ttl), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// Key identifies in. Inputs that compare equal produce the same key.
func Key(in amortization.Input) string {
	return strings.Join([]string{
		"amortization",
		strconv.FormatFloat(in.Principal, 'g', -1, 64),
		strconv.FormatFloat(in.AnnualRatePercent, 'g', -1, 64),
		strconv.FormatFloat(in.TenureYears, 'g', -1, 64),
		strconv.Itoa(in.PeriodsPerYear),
	}, ":")
}

// Nop never stores anything.
type Nop struct{}

// Get always misses.
func (Nop) Get(context.Context, string) (amortization.Result, error) {
	return amortization.Result{}, ErrMiss
}

// Set discards result.
func (Nop) Set(context.Context, string, amortization.Result) error {
	return nil
}

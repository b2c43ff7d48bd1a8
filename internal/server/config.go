package server

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strings"
	"unicode"

	"github.com/iwvelando/amortize/internal/cache"
	"github.com/iwvelando/amortize/internal/config"
	"github.com/iwvelando/amortize/pkg/constants"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Config holds the settings read from server-config.yaml.
type Config struct {
	Address       string               `yaml:"address"`
	MaxUploadSize ByteSize             `yaml:"maxUploadSize"`
	MaxPeriods    int                  `yaml:"maxPeriods"`
	Logging       config.LoggingConfig `yaml:"logging"`
	Cache         cache.Config         `yaml:"cache"`
}

// DefaultConfig is what LoadConfig starts from before applying the file.
func DefaultConfig() *Config {
	return &Config{
		Address:       constants.DefaultServerAddress,
		MaxUploadSize: ByteSize(constants.DefaultMaxUploadSizeBytes),
		MaxPeriods:    constants.DefaultMaxPeriods,
		Cache:         cache.Config{Backend: cache.BackendNone},
	}
}

// LoadConfig overlays the YAML file at path on DefaultConfig. A missing or
// empty file yields the defaults; unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open server config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse server config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every problem in c at once.
func (c *Config) Validate() error {
	var err error
	if strings.TrimSpace(c.Address) == "" {
		err = multierr.Append(err, errors.New("address must not be empty"))
	}
	if c.MaxUploadSize <= 0 {
		err = multierr.Append(err, fmt.Errorf("maxUploadSize must be positive, got %d", c.MaxUploadSize))
	}
	if c.MaxPeriods <= 0 {
		err = multierr.Append(err, fmt.Errorf("maxPeriods must be positive, got %d", c.MaxPeriods))
	}

	switch strings.ToLower(strings.TrimSpace(c.Cache.Backend)) {
	case "", cache.BackendNone, cache.BackendMemory:
	case cache.BackendRedis:
		if c.Cache.Address == "" {
			err = multierr.Append(err, errors.New("cache: redis backend requires an address"))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("cache: unknown backend %q", c.Cache.Backend))
	}
	if _, ttlErr := c.Cache.TTLDuration(); ttlErr != nil {
		err = multierr.Append(err, fmt.Errorf("cache: %w", ttlErr))
	}
	return err
}

// ByteSize is a byte count written as a plain number or with a binary unit
// suffix: "262144", "256K", "1.5M".
type ByteSize int64

// UnmarshalYAML accepts any scalar ParseSize understands.
func (b *ByteSize) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: size must be a scalar", node.Line)
	}
	size, err := ParseSize(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*b = ByteSize(size)
	return nil
}

// String uses the largest unit that divides b exactly.
func (b ByteSize) String() string {
	for _, unit := range []string{"G", "M", "K"} {
		if m := sizeUnits[unit]; b != 0 && int64(b)%m == 0 {
			return fmt.Sprintf("%d%s", int64(b)/m, unit)
		}
	}
	return fmt.Sprintf("%d", int64(b))
}

var sizeUnits = map[string]int64{
	"":   1,
	"B":  1,
	"K":  1 << 10,
	"KB": 1 << 10,
	"M":  1 << 20,
	"MB": 1 << 20,
	"G":  1 << 30,
	"GB": 1 << 30,
}

// ParseSize converts a size such as "512", "256K" or "1.5MB" into bytes,
// rounding fractional results down. An empty value is the default upload limit.
func ParseSize(value string) (int64, error) {
	upper := strings.ToUpper(strings.TrimSpace(value))
	if upper == "" {
		return constants.DefaultMaxUploadSizeBytes, nil
	}

	split := strings.IndexFunc(upper, func(r rune) bool {
		return r != '.' && !unicode.IsDigit(r)
	})
	if split < 0 {
		split = len(upper)
	}
	number, unit := upper[:split], strings.TrimSpace(upper[split:])

	multiplier, ok := sizeUnits[unit]
	if !ok {
		return 0, fmt.Errorf("unsupported size unit %q in %q", unit, value)
	}
	amount, err := decimal.NewFromString(number)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", value, err)
	}

	size := amount.Mul(decimal.NewFromInt(multiplier)).Floor()
	if size.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0, fmt.Errorf("size %q overflows int64", value)
	}
	return size.IntPart(), nil
}

package poolconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the bootstrap configuration for a pool.Pool[T]'s limits. It is
// loaded from YAML and then overlaid with any matching ENTRYPOOL_* env
// vars.
type Config struct {
	Pool PoolBox `yaml:"pool"`
}

type PoolBox struct {
	// MaxEntries is the hard upper bound on the shared entry list size.
	MaxEntries int `yaml:"max_entries"`
	// CacheSize is the per-goroutine cache capacity; 0 disables caching.
	CacheSize int `yaml:"cache_size"`
	// MaxMultiplex caps concurrent acquisitions per entry; must be >= 1.
	MaxMultiplex int32 `yaml:"max_multiplex"`
	// MaxUsageCount caps lifetime acquisitions per entry; -1 is unbounded.
	MaxUsageCount int32 `yaml:"max_usage_count"`
}

// Default returns the configuration the pool itself defaults to when
// constructed with no options, useful as a fallback when no YAML file is
// present.
func Default() *Config {
	return &Config{
		Pool: PoolBox{
			MaxEntries:    1024,
			CacheSize:     64,
			MaxMultiplex:  1,
			MaxUsageCount: -1,
		},
	}
}

// LoadConfig reads localPath first and falls back to defaultPath, so a
// local override file wins over the checked-in default. Either file may
// be absent; if both are, Default is returned. Whichever file is found, any ENTRYPOOL_POOL_* environment
// variable overlays the corresponding field.
func LoadConfig(localPath, defaultPath string) (*Config, error) {
	cfg, err := loadFromFile(localPath)
	if err != nil {
		cfg, err = loadFromFile(defaultPath)
		if err != nil {
			if os.IsNotExist(err) {
				cfg = Default()
			} else {
				return nil, err
			}
		}
	}

	overlayEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFromFile(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path %s: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config yaml %s: %w", abs, err)
	}
	return &cfg, nil
}

func overlayEnv(cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix("ENTRYPOOL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bind := func(key string) (int, bool) {
		if !v.IsSet(key) {
			return 0, false
		}
		return v.GetInt(key), true
	}

	if n, ok := bind("pool.max_entries"); ok {
		cfg.Pool.MaxEntries = n
	}
	if n, ok := bind("pool.cache_size"); ok {
		cfg.Pool.CacheSize = n
	}
	if n, ok := bind("pool.max_multiplex"); ok {
		cfg.Pool.MaxMultiplex = int32(n)
	}
	if n, ok := bind("pool.max_usage_count"); ok {
		cfg.Pool.MaxUsageCount = int32(n)
	}
}

// Validate mirrors the pool's own validation so misconfiguration is
// caught at bootstrap time rather than on the first SetMaxMultiplex call.
func (c *Config) Validate() error {
	if c.Pool.MaxEntries <= 0 {
		return fmt.Errorf("poolconfig: max_entries must be positive, got %d", c.Pool.MaxEntries)
	}
	if c.Pool.CacheSize < 0 {
		return fmt.Errorf("poolconfig: cache_size must be non-negative, got %d", c.Pool.CacheSize)
	}
	if c.Pool.MaxMultiplex < 1 {
		return fmt.Errorf("poolconfig: max_multiplex must be >= 1, got %d", c.Pool.MaxMultiplex)
	}
	if c.Pool.MaxUsageCount == 0 {
		return fmt.Errorf("poolconfig: max_usage_count must be != 0, got %d", c.Pool.MaxUsageCount)
	}
	return nil
}

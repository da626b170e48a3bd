package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load, e.g.
// DTREE_HTTP_ADDR or DTREE_LOGGING_LEVEL.
const EnvPrefix = "DTREE"

const DefaultMaxNodes = 100_000

type Runtime struct {
	HTTPAddr      string
	CacheMaxItems int
	ObsBuffer     int
	MaxNodes      int // per solved tree, 0 disables the check
	Logging       Logging
}

// Logging selects the zap logger built by NewLogger.
type Logging struct {
	Level  string // debug, info, warn, error
	Format string // json, console
}

// Load reads the runtime settings from the environment. Missing or invalid
// values fall back to their defaults.
func Load() Runtime {
	return fromViper(newViper())
}

// LoadFile is Load with a config file (yaml or json) underneath the
// environment.
func LoadFile(path string) (Runtime, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Runtime{}, fmt.Errorf("error reading config file, %s", err)
	}
	return fromViper(v), nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("cache_max_items", 1024)
	v.SetDefault("obs_buffer", 4096)
	v.SetDefault("max_nodes", DefaultMaxNodes)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	return v
}

func fromViper(v *viper.Viper) Runtime {
	return Runtime{
		HTTPAddr:      getString(v, "http_addr", ":8080"),
		CacheMaxItems: getInt(v, "cache_max_items", 1024, 1),
		ObsBuffer:     getInt(v, "obs_buffer", 4096, 1),
		MaxNodes:      getInt(v, "max_nodes", DefaultMaxNodes, 0),
		Logging: Logging{
			Level:  getString(v, "logging.level", "info"),
			Format: getString(v, "logging.format", "json"),
		},
	}
}

func getString(v *viper.Viper, key, fallback string) string {
	if s := strings.TrimSpace(v.GetString(key)); s != "" {
		return s
	}
	return fallback
}

func getInt(v *viper.Viper, key string, fallback, min int) int {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min {
		return fallback
	}
	return n
}

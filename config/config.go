package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment variable names, e.g.
// DISPATCH_GEO_INDEX overrides geo.index.
const EnvPrefix = "DISPATCH"

type Config struct {
	Env      string         `mapstructure:"env"`
	LogLevel string         `mapstructure:"log_level"`
	Geo      GeoConfig      `mapstructure:"geo"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Contract ContractConfig `mapstructure:"contract"`
}

type GeoConfig struct {
	Index            string  `mapstructure:"index"`
	GeohashPrecision uint    `mapstructure:"geohash_precision"`
	RadiusKm         float64 `mapstructure:"radius_km"`
	Limit            int     `mapstructure:"limit"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type ContractConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("log_level", "warn")
	v.SetDefault("geo.index", "rtree")
	v.SetDefault("geo.geohash_precision", 7)
	v.SetDefault("geo.radius_km", 0)
	v.SetDefault("geo.limit", 50)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 5*time.Minute)
	v.SetDefault("redis.timeout", 2*time.Second)
	v.SetDefault("contract.output_dir", "./contrats")
}

// Load builds the configuration from, in increasing priority: defaults,
// config.yaml (in . or ./config, or the file named by the "config" flag),
// an optional .env file, DISPATCH_* environment variables and the flags that were set
// explicitly. bindings maps flag names to keys, e.g. "radius" to
// "geo.radius_km".
func Load(flags *pflag.FlagSet, bindings map[string]string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType("yaml")
	if path := configFlag(flags); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	for name, key := range bindings {
		if flags == nil {
			break
		}
		f := flags.Lookup(name)
		if f == nil {
			return nil, fmt.Errorf("unknown flag %q bound to %q", name, key)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, fmt.Errorf("bind flag %q: %w", name, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

func configFlag(flags *pflag.FlagSet) string {
	if flags == nil {
		return ""
	}
	path, err := flags.GetString("config")
	if err != nil {
		return ""
	}
	return path
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

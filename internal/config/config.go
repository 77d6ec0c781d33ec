package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"barcodegen/internal/barcode"
	"barcodegen/internal/infra/cache"
)

const defaultPath = "config.yaml"

type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         string        `yaml:"port"`
	Prefork      bool          `yaml:"prefork"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type LoggerConfig struct {
	File       string `yaml:"file"`
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// CacheConfig selects the optional render cache. Backend "none" disables it.
type CacheConfig struct {
	Backend   string        `yaml:"backend"`
	TTL       time.Duration `yaml:"ttl"`
	RedisHost string        `yaml:"redis_host"`
	RedisDB   int           `yaml:"redis_db"`
}

type Config struct {
	Server ServerConfig          `yaml:"server"`
	Logger LoggerConfig          `yaml:"logger"`
	Cache  CacheConfig           `yaml:"cache"`
	Render barcode.RenderOptions `yaml:"render"`
}

// Addr is the listen address passed to Fiber.
func (c Config) Addr() string { return c.Server.Host + c.Server.Port }

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:         ":8000",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Logger: LoggerConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
		Cache: CacheConfig{
			Backend: cache.BackendNone,
			TTL:     time.Minute,
		},
		Render: barcode.DefaultRenderOptions(),
	}
}

// Validate implements validation.Validatable.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Server, validation.By(func(value interface{}) error {
			sc, _ := value.(ServerConfig)
			return validation.ValidateStruct(&sc,
				validation.Field(&sc.Port, validation.Required),
				validation.Field(&sc.ReadTimeout, validation.Min(time.Duration(0))),
				validation.Field(&sc.WriteTimeout, validation.Min(time.Duration(0))),
			)
		})),
		validation.Field(&c.Logger, validation.By(func(value interface{}) error {
			lc, _ := value.(LoggerConfig)
			return validation.ValidateStruct(&lc,
				validation.Field(&lc.Level, validation.In("", "trace", "debug", "info", "warn", "error")),
				validation.Field(&lc.MaxSizeMB, validation.Min(0)),
				validation.Field(&lc.MaxBackups, validation.Min(0)),
				validation.Field(&lc.MaxAgeDays, validation.Min(0)),
			)
		})),
		validation.Field(&c.Cache, validation.By(func(value interface{}) error {
			cc, _ := value.(CacheConfig)
			return validation.ValidateStruct(&cc,
				validation.Field(&cc.Backend, validation.Required, validation.In(cache.BackendNone, cache.BackendMemory, cache.BackendRedis)),
				validation.Field(&cc.TTL, validation.Min(time.Duration(0))),
				validation.Field(&cc.RedisHost, validation.When(cc.Backend == cache.BackendRedis, validation.Required)),
				validation.Field(&cc.RedisDB, validation.Min(0)),
			)
		})),
		validation.Field(&c.Render),
	)
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFrom reads the config at path. A missing file yields the defaults;
// unreadable or invalid config panics.
func LoadFrom(path string) Config {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default()
	}
	if err != nil {
		panic(fmt.Sprintf("read config %s: %v", path, err))
	}
	cfg, err := Parse(data)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", path, err))
	}
	return cfg
}

// Load reads the config named by CONFIG_PATH, or config.yaml.
func Load() Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultPath
	}
	return LoadFrom(path)
}

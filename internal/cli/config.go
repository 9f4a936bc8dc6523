package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	pkgerrors "github.com/matzehuels/pkgscore/pkg/errors"
)

// Cache backends.
const (
	cacheNone   = "none"
	cacheMemory = "memory"
	cacheFile   = "file"
	cacheRedis  = "redis"
)

// Config is the runtime configuration of pkgscore.
type Config struct {
	GitHub GitHubConfig `mapstructure:"github"`
	Npm    NpmConfig    `mapstructure:"npm"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Store  StoreConfig  `mapstructure:"store"`
	Policy PolicyConfig `mapstructure:"policy"`
	Batch  BatchConfig  `mapstructure:"batch"`
	Serve  ServeConfig  `mapstructure:"serve"`
}

type GitHubConfig struct {
	Token   string `mapstructure:"token"`
	BaseURL string `mapstructure:"base_url"`
}

type NpmConfig struct {
	RegistryURL string `mapstructure:"registry_url"`
}

// CacheConfig selects the HTTP response cache. Caching is off by default.
type CacheConfig struct {
	Backend   string        `mapstructure:"backend"`
	TTL       time.Duration `mapstructure:"ttl"`
	Dir       string        `mapstructure:"dir"`
	RedisAddr string        `mapstructure:"redis_addr"`
	Entries   int           `mapstructure:"entries"`
}

// StoreConfig selects where finished reports are kept. With neither a Mongo
// URI nor a directory, reports are not stored.
type StoreConfig struct {
	MongoURI string `mapstructure:"mongo_uri"`
	Database string `mapstructure:"database"`
	Dir      string `mapstructure:"dir"`
}

type PolicyConfig struct {
	File string `mapstructure:"file"`
}

type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

type ServeConfig struct {
	Addr string `mapstructure:"addr"`
}

// defaults are registered for every key so that AutomaticEnv picks up
// PKGSCORE_* overrides during Unmarshal.
var defaults = map[string]any{
	"github.token":      "",
	"github.base_url":   "",
	"npm.registry_url":  "",
	"cache.backend":     cacheNone,
	"cache.ttl":         24 * time.Hour,
	"cache.dir":         "",
	"cache.redis_addr":  "localhost:6379",
	"cache.entries":     1024,
	"store.mongo_uri":   "",
	"store.database":    "pkgscore",
	"store.dir":         "",
	"policy.file":       "",
	"batch.concurrency": 4,
	"serve.addr":        ":3000",
}

// initConfig registers defaults and environment bindings on v and reads the
// config file. An explicit file must exist; the default locations are
// optional.
func initConfig(v *viper.Viper, file string) error {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetEnvPrefix("PKGSCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("github.token", "PKGSCORE_GITHUB_TOKEN", "GITHUB_TOKEN"); err != nil {
		return err
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return pkgerrors.Wrap(pkgerrors.ErrCodeInvalidConfig, err, "read config %s", file)
		}
		return nil
	}

	v.SetConfigName(appName)
	v.AddConfigPath(".")
	if dir, err := configDir(); err == nil {
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return pkgerrors.Wrap(pkgerrors.ErrCodeInvalidConfig, err, "read config")
		}
	}
	return nil
}

// decodeConfig unmarshals and validates the settings held by v.
func decodeConfig(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidConfig, err, "decode config")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case cacheNone, cacheMemory, cacheFile, cacheRedis:
	default:
		return pkgerrors.New(pkgerrors.ErrCodeInvalidConfig,
			"invalid cache.backend: %s (must be none, memory, file or redis)", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if c.Batch.Concurrency < 1 {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidConfig, "batch.concurrency must be at least 1")
	}
	if c.Serve.Addr == "" {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidConfig, "serve.addr must not be empty")
	}
	return nil
}

func (c *Config) String() string {
	token := "unset"
	if c.GitHub.Token != "" {
		token = "set"
	}
	return fmt.Sprintf("github token %s, cache %s, store %s", token, c.Cache.Backend, c.storeKind())
}

func (c *Config) storeKind() string {
	switch {
	case c.Store.MongoURI != "":
		return "mongo"
	case c.Store.Dir != "":
		return "file"
	}
	return "none"
}

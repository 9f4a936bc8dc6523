package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pkgscore/pkg/cache"
	"github.com/matzehuels/pkgscore/pkg/identity"
	"github.com/matzehuels/pkgscore/pkg/integrations/github"
	"github.com/matzehuels/pkgscore/pkg/integrations/npm"
	"github.com/matzehuels/pkgscore/pkg/metrics"
	"github.com/matzehuels/pkgscore/pkg/pipeline"
	"github.com/matzehuels/pkgscore/pkg/policy"
	"github.com/matzehuels/pkgscore/pkg/store"
)

// app holds the long-lived dependencies shared by every runner a command
// builds: provider clients, the response cache and the report store.
type app struct {
	cfg      *Config
	logger   *log.Logger
	cache    cache.Cache
	github   *github.Client
	resolver *identity.Resolver
	store    store.Store
}

// openApp builds the dependencies described by the current configuration.
// refresh bypasses cached provider responses.
func (c *CLI) openApp(ctx context.Context, refresh bool) (*app, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	logger := loggerFromContext(ctx)
	logger.Debug("configuration", "summary", cfg.String())

	ch, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	st, err := newStore(ctx, cfg.Store)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}

	if cfg.GitHub.Token == "" {
		logger.Warn("GITHUB_TOKEN not set, GitHub rate limits will be low")
	}
	gh := github.NewClient(github.Options{
		Token:    cfg.GitHub.Token,
		BaseURL:  cfg.GitHub.BaseURL,
		Cache:    ch,
		CacheTTL: cfg.Cache.TTL,
		Refresh:  refresh,
	})
	reg := npm.NewClient(npm.Options{
		RegistryURL: cfg.Npm.RegistryURL,
		Cache:       ch,
		CacheTTL:    cfg.Cache.TTL,
		Refresh:     refresh,
	})

	return &app{
		cfg:      cfg,
		logger:   logger,
		cache:    ch,
		github:   gh,
		resolver: identity.NewResolver(reg),
		store:    st,
	}, nil
}

// newCache opens the configured response cache backend.
func newCache(ctx context.Context, cfg CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case cacheMemory:
		c, err := cache.NewMemoryCache(cfg.Entries)
		if err != nil {
			return nil, err
		}
		return c, nil
	case cacheFile:
		dir := cfg.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return nil, fmt.Errorf("get cache dir: %w", err)
			}
			dir = d
		}
		c, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case cacheRedis:
		c, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.RedisAddr})
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return cache.NewNullCache(), nil
}

// newStore opens the configured report store.
func newStore(ctx context.Context, cfg StoreConfig) (store.Store, error) {
	switch {
	case cfg.MongoURI != "":
		s, err := store.NewMongoStore(ctx, store.MongoConfig{URI: cfg.MongoURI, Database: cfg.Database})
		if err != nil {
			return nil, err
		}
		return s, nil
	case cfg.Dir != "":
		s, err := store.NewFileStore(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return store.NullStore{}, nil
}

// loadPolicy reads policy.file, or returns the built-in policy.
func (a *app) loadPolicy() (*policy.Policy, error) {
	if a.cfg.Policy.File == "" {
		return policy.Default(), nil
	}
	p, err := policy.Load(a.cfg.Policy.File)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("loaded policy", "path", a.cfg.Policy.File, "timeout", p.Timeout())
	return p, nil
}

// runner builds a pipeline runner for p. Runners are cheap; the serve
// command builds a new one whenever the policy changes.
func (a *app) runner(p *policy.Policy) (*pipeline.Runner, error) {
	return pipeline.New(pipeline.Options{
		Resolver:      a.resolver,
		Evaluators:    metrics.All(a.github, metrics.Options{AllowedLicenses: p.License.Allowed}),
		Weights:       p.Weights,
		MetricTimeout: p.Timeout(),
		Concurrency:   a.cfg.Batch.Concurrency,
		Store:         a.store,
		Logger:        a.logger,
	})
}

// Close releases the cache and the store.
func (a *app) Close() error {
	return errors.Join(a.cache.Close(), a.store.Close())
}

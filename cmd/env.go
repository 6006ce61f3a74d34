package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/overunder/internal/artifact"
	"github.com/sells-group/overunder/internal/cache"
	"github.com/sells-group/overunder/internal/fetcher"
	"github.com/sells-group/overunder/internal/provider"
	"github.com/sells-group/overunder/internal/resilience"
	"github.com/sells-group/overunder/internal/service"
	"github.com/sells-group/overunder/pkg/betsapi"
)

// predictEnv holds the initialized cache, provider chain and service needed by
// the serve and predict commands.
type predictEnv struct {
	Cache    cache.Cache
	Source   *provider.Cached
	Breakers *resilience.ServiceBreakers
	Service  *service.Service
}

// Close releases resources held by the environment.
func (pe *predictEnv) Close() {
	if pe.Cache != nil {
		_ = pe.Cache.Close()
	}
}

// initPredict wires the BetsAPI client, circuit breakers, cache and artifact
// sink into a Service. Callers should defer env.Close().
func initPredict(ctx context.Context, mode string) (*predictEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	store, err := cache.Open(ctx, cfg.Cache)
	if err != nil {
		return nil, eris.Wrap(err, "open cache")
	}

	retry, circuit := resilience.FromConfig(cfg.Resilience)
	httpFetcher := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		Timeout:  time.Duration(cfg.BetsAPI.TimeoutSecs) * time.Second,
		Retry:    retry,
		Limiters: fetcher.DefaultLimiters(cfg.BetsAPI.RatePerSec, cfg.BetsAPI.Burst),
	})
	client := betsapi.NewClient(cfg.BetsAPI.Token,
		betsapi.WithBaseURL(cfg.BetsAPI.BaseURL),
		betsapi.WithFetcher(httpFetcher),
	)

	breakers := resilience.NewServiceBreakers(circuit)
	source := provider.NewCached(
		provider.NewBetsAPI(client, breakers, cfg.BetsAPI.PageConcurrency),
		store,
		time.Duration(cfg.Cache.TTLHours)*time.Hour,
	)

	var sink artifact.Sink = artifact.Nop{}
	if cfg.Artifacts.Enabled {
		sink = artifact.NewDir(cfg.Artifacts.Dir)
		zap.L().Info("artifacts enabled", zap.String("dir", cfg.Artifacts.Dir))
	}

	zap.L().Info("prediction environment ready",
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.Int("odds_concurrency", cfg.Odds.Concurrency),
	)

	return &predictEnv{
		Cache:    store,
		Source:   source,
		Breakers: breakers,
		Service:  service.New(source, sink, cfg.Odds.Concurrency),
	}, nil
}

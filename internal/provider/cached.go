package provider

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/overunder/internal/cache"
	"github.com/sells-group/overunder/internal/model"
)

// Cached decorates a Source with a response cache. Cache failures are
// logged and fall through to the wrapped source; lookup errors and empty
// results are never cached.
type Cached struct {
	next  Source
	store cache.Cache
	ttl   time.Duration
}

// NewCached wraps next with store. A non-positive ttl disables writes.
func NewCached(next Source, store cache.Cache, ttl time.Duration) *Cached {
	return &Cached{next: next, store: store, ttl: ttl}
}

func historyKey(teamID string) string { return "history:" + teamID }
func oddsKey(matchID string) string { return "odds:" + matchID }
func eventKey(matchID string) string { return "event:" + matchID }

func (c *Cached) FetchAllMatches(ctx context.Context, teamID string) ([]model.MatchRecord, error) {
	return cachedFetch(ctx, c, historyKey(teamID), func(ctx context.Context) ([]model.MatchRecord, error) {
		return c.next.FetchAllMatches(ctx, teamID)
	}, nonEmpty[model.MatchRecord])
}

func (c *Cached) FetchOpeningQuotes(ctx context.Context, matchID string) ([]model.OpeningLine, error) {
	return cachedFetch(ctx, c, oddsKey(matchID), func(ctx context.Context) ([]model.OpeningLine, error) {
		return c.next.FetchOpeningQuotes(ctx, matchID)
	}, nonEmpty[model.OpeningLine])
}

func (c *Cached) FetchMatchDetail(ctx context.Context, matchID string) (*model.MatchDetail, error) {
	return cachedFetch(ctx, c, eventKey(matchID), func(ctx context.Context) (*model.MatchDetail, error) {
		return c.next.FetchMatchDetail(ctx, matchID)
	}, func(d *model.MatchDetail) bool { return d != nil })
}

// Invalidate drops the cached history of the given teams.
func (c *Cached) Invalidate(ctx context.Context, teamIDs ...string) error {
	keys := make([]string, len(teamIDs))
	for i, id := range teamIDs {
		keys[i] = historyKey(id)
	}
	return c.store.Delete(ctx, keys...)
}

// nonEmpty keeps slices with at least one element. An empty result usually
// means the provider has not published the data yet.
func nonEmpty[E any](v []E) bool { return len(v) > 0 }

// cachedFetch serves key from the cache or calls fetch. Only results that
// satisfy cacheable are stored.
func cachedFetch[T any](ctx context.Context, c *Cached, key string, fetch func(context.Context) (T, error), cacheable func(T) bool) (T, error) {
	log := zap.L().With(zap.String("cache_key", key))

	data, err := c.store.Get(ctx, key)
	switch {
	case err != nil:
		log.Warn("cache read failed", zap.Error(err))
	case data != nil:
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			log.Debug("cache hit")
			return v, nil
		}
		log.Warn("cache entry undecodable, refetching")
	}

	v, err := fetch(ctx)
	if err != nil {
		return v, err
	}
	if !cacheable(v) {
		log.Debug("empty result not cached")
		return v, nil
	}

	encoded, err := json.Marshal(v)
	if err != nil {
		log.Warn("cache encode failed", zap.Error(err))
		return v, nil
	}
	if err := c.store.Set(ctx, key, encoded, c.ttl); err != nil {
		log.Warn("cache write failed", zap.Error(err))
	}
	return v, nil
}

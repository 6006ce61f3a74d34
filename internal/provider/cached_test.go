package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/overunder/internal/cache"
	"github.com/sells-group/overunder/internal/model"
)

type countingSource struct {
	histories map[string][]model.MatchRecord
	quotes    map[string][]model.OpeningLine
	err       error
	calls     int
}

func (s *countingSource) FetchAllMatches(_ context.Context, teamID string) ([]model.MatchRecord, error) {
	s.calls++
	return s.histories[teamID], s.err
}

func (s *countingSource) FetchOpeningQuotes(_ context.Context, matchID string) ([]model.OpeningLine, error) {
	s.calls++
	return s.quotes[matchID], s.err
}

func (s *countingSource) FetchMatchDetail(_ context.Context, matchID string) (*model.MatchDetail, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &model.MatchDetail{MatchID: matchID, HomeTeamID: "101", AwayTeamID: "202"}, nil
}

type failingCache struct{ cache.Nop }

func (failingCache) Get(context.Context, string) ([]byte, error) { return nil, errors.New("cache down") }

func TestCached_HistoryServedFromCache(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	src := &countingSource{histories: map[string][]model.MatchRecord{
		"101": {{MatchID: "1", HomeTeamID: "101", MatchTime: ts, TotalScore: model.IntPtr(210)}},
	}}
	c := NewCached(src, cache.NewMemory(), time.Hour)
	ctx := context.Background()

	first, err := c.FetchAllMatches(ctx, "101")
	require.NoError(t, err)
	second, err := c.FetchAllMatches(ctx, "101")
	require.NoError(t, err)

	assert.Equal(t, 1, src.calls)
	assert.Equal(t, first, second)
	assert.True(t, second[0].MatchTime.Equal(ts))
	assert.Equal(t, 210, *second[0].TotalScore)
}

func TestCached_QuotesAndDetail(t *testing.T) {
	src := &countingSource{quotes: map[string][]model.OpeningLine{
		"42": {{Handicap: "220.5", RecordedAt: "10"}},
	}}
	c := NewCached(src, cache.NewMemory(), time.Hour)
	ctx := context.Background()

	for range 2 {
		lines, err := c.FetchOpeningQuotes(ctx, "42")
		require.NoError(t, err)
		assert.Equal(t, "220.5", lines[0].Handicap)

		d, err := c.FetchMatchDetail(ctx, "42")
		require.NoError(t, err)
		assert.Equal(t, "101", d.HomeTeamID)
	}
	assert.Equal(t, 2, src.calls)
}

func TestCached_ErrorsNotCached(t *testing.T) {
	src := &countingSource{err: errors.New("upstream")}
	c := NewCached(src, cache.NewMemory(), time.Hour)
	ctx := context.Background()

	_, err := c.FetchAllMatches(ctx, "101")
	require.Error(t, err)
	_, err = c.FetchAllMatches(ctx, "101")
	require.Error(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestCached_CacheFailureFallsThrough(t *testing.T) {
	src := &countingSource{quotes: map[string][]model.OpeningLine{"42": {{Handicap: "1"}}}}
	c := NewCached(src, failingCache{}, time.Hour)

	lines, err := c.FetchOpeningQuotes(context.Background(), "42")
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestCached_UndecodableEntryRefetched(t *testing.T) {
	store := cache.NewMemory()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, oddsKey("42"), []byte("{garbage"), time.Hour))

	src := &countingSource{quotes: map[string][]model.OpeningLine{"42": {{Handicap: "1"}}}}
	lines, err := NewCached(src, store, time.Hour).FetchOpeningQuotes(ctx, "42")
	require.NoError(t, err)
	assert.Len(t, lines, 1)
	assert.Equal(t, 1, src.calls)
}

func TestCached_Invalidate(t *testing.T) {
	src := &countingSource{histories: map[string][]model.MatchRecord{"101": {{MatchID: "1"}}}}
	c := NewCached(src, cache.NewMemory(), time.Hour)
	ctx := context.Background()

	_, _ = c.FetchAllMatches(ctx, "101")
	require.NoError(t, c.Invalidate(ctx, "101"))
	_, _ = c.FetchAllMatches(ctx, "101")

	assert.Equal(t, 2, src.calls)
}

func TestCached_EmptyQuotesNotCached(t *testing.T) {
	src := &countingSource{quotes: map[string][]model.OpeningLine{}}
	c := NewCached(src, cache.NewMemory(), 12*time.Hour)
	ctx := context.Background()

	lines, err := c.FetchOpeningQuotes(ctx, "999")
	require.NoError(t, err)
	assert.Empty(t, lines)

	// The line gets posted after the first lookup.
	src.quotes["999"] = []model.OpeningLine{{Handicap: "160.5", RecordedAt: "10"}}

	lines, err = c.FetchOpeningQuotes(ctx, "999")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "160.5", lines[0].Handicap)
	assert.Equal(t, 2, src.calls)

	// Non-empty results are cached from then on.
	_, err = c.FetchOpeningQuotes(ctx, "999")
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestCached_EmptyHistoryNotCached(t *testing.T) {
	src := &countingSource{histories: map[string][]model.MatchRecord{}}
	c := NewCached(src, cache.NewMemory(), time.Hour)
	ctx := context.Background()

	_, err := c.FetchAllMatches(ctx, "101")
	require.NoError(t, err)
	_, err = c.FetchAllMatches(ctx, "101")
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

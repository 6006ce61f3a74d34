package odds

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/overunder/internal/model"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) FetchOpeningQuotes(ctx context.Context, matchID string) ([]model.OpeningLine, error) {
	args := m.Called(ctx, matchID)
	quotes, _ := args.Get(0).([]model.OpeningLine)
	return quotes, args.Error(1)
}

type mapSource struct {
	quotes map[string][]model.OpeningLine
	errs   map[string]error
	calls  atomic.Int32
}

func (s *mapSource) FetchOpeningQuotes(_ context.Context, matchID string) ([]model.OpeningLine, error) {
	s.calls.Add(1)
	if err := s.errs[matchID]; err != nil {
		return nil, err
	}
	return s.quotes[matchID], nil
}

func scored(id string, total int) model.MatchRecord {
	return model.MatchRecord{MatchID: id, TotalScore: model.IntPtr(total), MatchTime: time.Unix(1700000000, 0)}
}

func TestOpeningLine_EarliestRecorded(t *testing.T) {
	t.Parallel()

	quotes := []model.OpeningLine{
		{Handicap: "151.5", RecordedAt: "1700000300"},
		{Handicap: "148.5", RecordedAt: "1700000100"},
		{Handicap: "150.0", RecordedAt: "1700000200"},
	}

	line, ok := OpeningLine(quotes)
	require.True(t, ok)
	assert.Equal(t, 148.5, line)
}

func TestOpeningLine_SkipsUnparseable(t *testing.T) {
	t.Parallel()

	quotes := []model.OpeningLine{
		{Handicap: "152.5", RecordedAt: "1700000300"},
		{Handicap: "", RecordedAt: "1700000100"},
		{Handicap: "149.5", RecordedAt: "bad"},
		{Handicap: "151.0", RecordedAt: "1700000200"},
	}

	line, ok := OpeningLine(quotes)
	require.True(t, ok)
	assert.Equal(t, 151.0, line)
}

func TestOpeningLine_TiesKeepInputOrder(t *testing.T) {
	t.Parallel()

	quotes := []model.OpeningLine{
		{Handicap: "160.5", RecordedAt: "5"},
		{Handicap: "158.5", RecordedAt: "5"},
	}

	line, ok := OpeningLine(quotes)
	require.True(t, ok)
	assert.Equal(t, 160.5, line)
}

func TestOpeningLine_None(t *testing.T) {
	t.Parallel()

	_, ok := OpeningLine(nil)
	assert.False(t, ok)

	_, ok = OpeningLine([]model.OpeningLine{{Handicap: "x", RecordedAt: "1"}, {Handicap: "150", RecordedAt: ""}})
	assert.False(t, ok)
}

func TestPair_ScoreDifferenceExact(t *testing.T) {
	t.Parallel()

	src := &mockSource{}
	src.On("FetchOpeningQuotes", mock.Anything, "100").
		Return([]model.OpeningLine{{Handicap: "148.5", RecordedAt: "1"}}, nil).Once()

	entries := Pair(context.Background(), src, []model.MatchRecord{scored("100", 150)}, model.TeamRoleHome)

	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "100", e.MatchID)
	require.NotNil(t, e.ScoreDifference)
	assert.Equal(t, 1.5, *e.ScoreDifference)
	assert.Equal(t, 148.5, *e.OddScore)
	assert.Equal(t, 150.0, *e.ActualScore)
	src.AssertExpectations(t)
}

func TestPair_SkipsWithoutAborting(t *testing.T) {
	t.Parallel()

	src := &mapSource{
		quotes: map[string][]model.OpeningLine{
			"ok1":      {{Handicap: "150.5", RecordedAt: "1"}},
			"no-line":  {{Handicap: "n/a", RecordedAt: "1"}},
			"ok2":      {{Handicap: "139.5", RecordedAt: "2"}, {Handicap: "141.5", RecordedAt: "1"}},
			"no-quote": nil,
		},
		errs: map[string]error{"boom": errors.New("provider down")},
	}

	matches := []model.MatchRecord{
		scored("ok1", 160),
		{MatchID: "unscored"},
		scored("boom", 150),
		scored("no-line", 150),
		scored("no-quote", 150),
		scored("ok2", 140),
	}

	entries := Pair(context.Background(), src, matches, model.TeamRoleAway)

	require.Len(t, entries, 2)
	assert.Equal(t, "ok1", entries[0].MatchID)
	assert.Equal(t, 9.5, *entries[0].ScoreDifference)
	assert.Equal(t, "ok2", entries[1].MatchID)
	assert.Equal(t, 1.5, *entries[1].ScoreDifference)

	// The unscored match never reaches the provider.
	assert.Equal(t, int32(5), src.calls.Load())
}

func TestPair_AllUnresolvable(t *testing.T) {
	t.Parallel()

	src := &mapSource{}
	entries := Pair(context.Background(), src, []model.MatchRecord{scored("1", 150), scored("2", 150)}, model.TeamRoleVersus)
	assert.Empty(t, entries)
}

func TestPairer_ConcurrentKeepsOrder(t *testing.T) {
	t.Parallel()

	src := &mapSource{quotes: map[string][]model.OpeningLine{}}
	var matches []model.MatchRecord
	for i, id := range []string{"a", "b", "c", "d", "e", "f"} {
		src.quotes[id] = []model.OpeningLine{{Handicap: "150", RecordedAt: "1"}}
		matches = append(matches, scored(id, 150+i))
	}

	entries := NewPairer(src, 4).Pair(context.Background(), matches, model.TeamRoleHome)

	require.Len(t, entries, 6)
	for i, e := range entries {
		assert.Equal(t, matches[i].MatchID, e.MatchID)
		assert.Equal(t, float64(i), *e.ScoreDifference)
	}
}

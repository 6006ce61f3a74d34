package artifact

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDir_SaveWritesIndentedJSON(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "artifacts")
	d := NewDir(root)

	require.NoError(t, d.Save(context.Background(), "101_at_home.json", map[string]int{"count": 3}))

	data, err := os.ReadFile(filepath.Join(root, "101_at_home.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"count\": 3")

	var got map[string]int
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 3, got["count"])

	_, err = os.Stat(filepath.Join(root, "101_at_home.json.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestDir_SaveOverwrites(t *testing.T) {
	d := NewDir(t.TempDir())
	ctx := context.Background()

	require.NoError(t, d.Save(ctx, "a.json", []int{1, 2, 3}))
	require.NoError(t, d.Save(ctx, "a.json", []int{4}))

	data, err := os.ReadFile(d.Path("a.json"))
	require.NoError(t, err)
	var got []int
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, []int{4}, got)
}

func TestDir_PathStaysInsideDir(t *testing.T) {
	d := NewDir("/tmp/artifacts")
	assert.Equal(t, "/tmp/artifacts/passwd", d.Path("../../etc/passwd"))
}

func TestDir_SaveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, NewDir(t.TempDir()).Save(ctx, "a.json", 1))
}

func TestDir_SaveUnencodable(t *testing.T) {
	err := NewDir(t.TempDir()).Save(context.Background(), "a.json", make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "artifact: encode a.json")
}

func TestDir_PurgeIgnoresMissing(t *testing.T) {
	d := NewDir(t.TempDir())
	ctx := context.Background()
	require.NoError(t, d.Save(ctx, "a.json", 1))

	require.NoError(t, d.Purge(ctx, "a.json", "missing.json"))

	_, err := os.Stat(d.Path("a.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestDir_PurgeAllNames(t *testing.T) {
	d := NewDir(t.TempDir())
	ctx := context.Background()
	names := Names("101", "202")
	for _, n := range names {
		require.NoError(t, d.Save(ctx, n, n))
	}

	require.NoError(t, d.Purge(ctx, names...))

	entries, err := os.ReadDir(filepath.Dir(d.Path("x")))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNop(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, Nop{}.Save(ctx, "a.json", 1))
	assert.NoError(t, Nop{}.Purge(ctx, "a.json"))
}

func TestNames(t *testing.T) {
	names := Names("101", "202")

	assert.Len(t, names, 14)
	assert.Contains(t, names, "101_vs_202_recent_versus_matches_odds.json")
	assert.Contains(t, names, "101_vs_202_recent_versus_matches_statics.json")
	assert.Contains(t, names, "101_vs_202_versus_matches.json")
	assert.Contains(t, names, "101_all_matches.json")
	assert.Contains(t, names, "202_all_matches.json")
	assert.Contains(t, names, "101_at_home.json")
	assert.Contains(t, names, "202_at_away.json")
	assert.Contains(t, names, "101_recent_home_match_statics.json")
	assert.Contains(t, names, "202_recent_away_match.json")

	seen := map[string]bool{}
	for _, n := range names {
		assert.False(t, seen[n], "duplicate %s", n)
		seen[n] = true
	}
}

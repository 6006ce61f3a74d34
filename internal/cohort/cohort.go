// Package cohort partitions a team's match history and selects recent matches.
package cohort

import (
	"slices"

	"github.com/sells-group/overunder/internal/model"
)

// Home returns the matches teamID played at home, in input order.
func Home(matches []model.MatchRecord, teamID string) []model.MatchRecord {
	out := make([]model.MatchRecord, 0, len(matches))
	for _, m := range matches {
		if m.HomeTeamID == teamID {
			out = append(out, m)
		}
	}
	return out
}

// Away returns the matches teamID played away, in input order.
func Away(matches []model.MatchRecord, teamID string) []model.MatchRecord {
	out := make([]model.MatchRecord, 0, len(matches))
	for _, m := range matches {
		if m.AwayTeamID == teamID {
			out = append(out, m)
		}
	}
	return out
}

// HeadToHead returns the meetings between homeTeamID and awayTeamID. A match
// qualifies when its ID appears in both histories and its two sides are the
// two teams in either order. Records come from homeTeamMatches and each match
// ID is returned at most once.
func HeadToHead(homeTeamMatches, awayTeamMatches []model.MatchRecord, homeTeamID, awayTeamID string) []model.MatchRecord {
	inAway := make(map[string]struct{}, len(awayTeamMatches))
	for _, m := range awayTeamMatches {
		if isPairing(m, homeTeamID, awayTeamID) {
			inAway[m.MatchID] = struct{}{}
		}
	}

	seen := make(map[string]struct{})
	out := make([]model.MatchRecord, 0)
	for _, m := range homeTeamMatches {
		if !isPairing(m, homeTeamID, awayTeamID) {
			continue
		}
		if _, ok := inAway[m.MatchID]; !ok {
			continue
		}
		if _, dup := seen[m.MatchID]; dup {
			continue
		}
		seen[m.MatchID] = struct{}{}
		out = append(out, m)
	}
	return out
}

func isPairing(m model.MatchRecord, a, b string) bool {
	return (m.HomeTeamID == a && m.AwayTeamID == b) ||
		(m.HomeTeamID == b && m.AwayTeamID == a)
}

// SelectRecent returns up to count matches ordered most recent first. Matches
// with equal times keep their relative input order. The input is not modified.
func SelectRecent(matches []model.MatchRecord, count int) []model.MatchRecord {
	if count <= 0 || len(matches) == 0 {
		return []model.MatchRecord{}
	}

	sorted := slices.Clone(matches)
	slices.SortStableFunc(sorted, func(a, b model.MatchRecord) int {
		return b.MatchTime.Compare(a.MatchTime)
	})

	if len(sorted) > count {
		sorted = sorted[:count]
	}
	return sorted
}

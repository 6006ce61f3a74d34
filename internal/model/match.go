package model

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// TeamRole labels which cohort a batch of matches belongs to. It is used for
// logging and artifact naming only.
type TeamRole string

const (
	TeamRoleHome   TeamRole = "home"
	TeamRoleAway   TeamRole = "away"
	TeamRoleVersus TeamRole = "versus"
)

// MatchRecord is one completed match from a team's history.
type MatchRecord struct {
	MatchID      string    `json:"match_id"`
	HomeTeamID   string    `json:"home_id"`
	HomeTeamName string    `json:"home_name"`
	AwayTeamID   string    `json:"away_id"`
	AwayTeamName string    `json:"away_name"`
	MatchTime    time.Time `json:"match_time"`
	TotalScore   *int      `json:"total_score"` // nil when the final score is missing or malformed
}

// HasScore reports whether the match carries a usable total score.
func (m MatchRecord) HasScore() bool {
	return m.TotalScore != nil
}

// MatchDetail identifies the two sides of the match being predicted.
type MatchDetail struct {
	MatchID      string `json:"match_id"`
	HomeTeamID   string `json:"home_id"`
	HomeTeamName string `json:"home_name"`
	AwayTeamID   string `json:"away_id"`
	AwayTeamName string `json:"away_name"`
}

// Label renders the match as "<home> vs <away>".
func (d MatchDetail) Label() string {
	return d.HomeTeamName + " vs " + d.AwayTeamName
}

// OpeningLine is a single total-points quote as reported by the odds provider.
// Both fields are kept raw; a quote is only usable when both parse.
type OpeningLine struct {
	Handicap   string `json:"handicap"`
	RecordedAt string `json:"add_time"`
}

// Line parses the handicap as a finite decimal.
func (o OpeningLine) Line() (float64, bool) {
	s := strings.TrimSpace(o.Handicap)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Recorded parses the recording timestamp (unix seconds or any monotonic
// integer sequence).
func (o OpeningLine) Recorded() (int64, bool) {
	s := strings.TrimSpace(o.RecordedAt)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 {
	return &v
}

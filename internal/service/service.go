// Package service runs the over/under prediction for a single match: it
// loads both teams' histories, builds the home, away and head-to-head
// cohorts, pairs them with opening lines and turns the resulting statistics
// into a forecast.
package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/overunder/internal/artifact"
	"github.com/sells-group/overunder/internal/cohort"
	"github.com/sells-group/overunder/internal/model"
	"github.com/sells-group/overunder/internal/odds"
	"github.com/sells-group/overunder/internal/predict"
	"github.com/sells-group/overunder/internal/provider"
	"github.com/sells-group/overunder/internal/stats"
)

var matchLinkPattern = regexp.MustCompile(`/r[h]?/(\d+)/`)

// ParseMatchID extracts the event id from a match link such as
// https://betsapi.com/r/123456/home-vs-away.
func ParseMatchID(link string) (string, bool) {
	m := matchLinkPattern.FindStringSubmatch(link)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Request asks for a prediction. MatchID wins over MatchLink when both are set.
type Request struct {
	MatchLink         string `json:"matchLink"`
	MatchID           string `json:"match_id"`
	HomeRecentCount   int    `json:"home_recent_count"`
	AwayRecentCount   int    `json:"away_recent_count"`
	VersusRecentCount int    `json:"versus_recent_count"`
	// AutoDelete removes the run's artifacts once the prediction succeeds.
	AutoDelete bool `json:"autoDelete"`
}

// Response is a successful prediction.
type Response struct {
	// RunID identifies this prediction in logs.
	RunID      string                 `json:"runId"`
	MatchID    string                 `json:"matchId"`
	Match      string                 `json:"match"`
	Prediction model.PredictionResult `json:"prediction_results"`
	Assessment model.Assessment       `json:"assessment"`
}

// Service predicts total-score outcomes.
type Service struct {
	source    provider.Source
	pairer    *odds.Pairer
	artifacts artifact.Sink
	newRunID  func() string
}

// New creates a Service. A nil sink disables artifacts; oddsConcurrency
// bounds parallel odds lookups within each cohort.
func New(source provider.Source, sink artifact.Sink, oddsConcurrency int) *Service {
	if sink == nil {
		sink = artifact.Nop{}
	}
	return &Service{
		source:    source,
		pairer:    odds.NewPairer(source, oddsConcurrency),
		artifacts: sink,
		newRunID:  uuid.NewString,
	}
}

func (r Request) validate() (string, error) {
	matchID := strings.TrimSpace(r.MatchID)
	if matchID == "" {
		if strings.TrimSpace(r.MatchLink) == "" {
			return "", invalidInput("matchLink is required")
		}
		id, ok := ParseMatchID(r.MatchLink)
		if !ok {
			return "", invalidInput("invalid match link %q", r.MatchLink)
		}
		matchID = id
	}

	if r.HomeRecentCount <= 0 || r.AwayRecentCount <= 0 || r.VersusRecentCount <= 0 {
		return "", invalidInput("recent counts must be positive (home=%d away=%d versus=%d)",
			r.HomeRecentCount, r.AwayRecentCount, r.VersusRecentCount)
	}
	return matchID, nil
}

// cohortRun carries one cohort through selection, pairing and statistics.
type cohortRun struct {
	role    model.TeamRole
	count   int
	all     []model.MatchRecord
	recent  []model.MatchRecord
	entries []model.ComparisonEntry
	stats   model.ComparisonStatistics

	cohortName string
	recentName string
	oddsName   string
	statsName  string
}

// Predict runs the full prediction for req. Failures are returned as *Error.
func (s *Service) Predict(ctx context.Context, req Request) (*Response, error) {
	matchID, err := req.validate()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	runID := s.newRunID()
	log := zap.L().With(zap.String("run_id", runID), zap.String("match_id", matchID))
	log.Info("service: prediction started",
		zap.Int("home_recent_count", req.HomeRecentCount),
		zap.Int("away_recent_count", req.AwayRecentCount),
		zap.Int("versus_recent_count", req.VersusRecentCount),
	)

	detail, err := s.source.FetchMatchDetail(ctx, matchID)
	if err != nil {
		if errors.Is(err, provider.ErrMatchNotFound) {
			return nil, &Error{Kind: KindInvalidInput, Err: eris.Wrapf(err, "service: match %s", matchID)}
		}
		return nil, upstream(err, "service: fetch match detail")
	}
	homeID, awayID := detail.HomeTeamID, detail.AwayTeamID
	log = log.With(zap.String("home_id", homeID), zap.String("away_id", awayID))

	var (
		homeHistory, awayHistory []model.MatchRecord
		targetQuotes             []model.OpeningLine
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		homeHistory, err = s.source.FetchAllMatches(gctx, homeID)
		if err != nil {
			return upstream(err, "service: fetch home history")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		awayHistory, err = s.source.FetchAllMatches(gctx, awayID)
		if err != nil {
			return upstream(err, "service: fetch away history")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		targetQuotes, err = s.source.FetchOpeningQuotes(gctx, matchID)
		if err != nil {
			return upstream(err, "service: fetch match odds")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Info("service: histories fetched",
		zap.Int("home_matches", len(homeHistory)),
		zap.Int("away_matches", len(awayHistory)),
	)
	s.save(ctx, artifact.History(homeID), homeHistory)
	s.save(ctx, artifact.History(awayID), awayHistory)

	openingLine, ok := odds.OpeningLine(targetQuotes)
	if !ok {
		return nil, &Error{Kind: KindInsufficientData, Err: eris.Errorf("service: no opening line for match %s", matchID)}
	}

	runs := []*cohortRun{
		{
			role: model.TeamRoleHome, count: req.HomeRecentCount,
			cohortName: artifact.AtHome(homeID), recentName: artifact.RecentHome(homeID),
			oddsName: artifact.HomeOdds(homeID), statsName: artifact.HomeStatistics(homeID),
		},
		{
			role: model.TeamRoleAway, count: req.AwayRecentCount,
			cohortName: artifact.AtAway(awayID), recentName: artifact.RecentAway(awayID),
			oddsName: artifact.AwayOdds(awayID), statsName: artifact.AwayStatistics(awayID),
		},
		{
			role: model.TeamRoleVersus, count: req.VersusRecentCount,
			cohortName: artifact.Versus(homeID, awayID), recentName: artifact.RecentVersus(homeID, awayID),
			oddsName: artifact.VersusOdds(homeID, awayID), statsName: artifact.VersusStatistics(homeID, awayID),
		},
	}

	var partition errgroup.Group
	partition.Go(func() error {
		runs[0].all = cohort.Home(homeHistory, homeID)
		return nil
	})
	partition.Go(func() error {
		runs[1].all = cohort.Away(awayHistory, awayID)
		return nil
	})
	partition.Go(func() error {
		runs[2].all = cohort.HeadToHead(homeHistory, awayHistory, homeID, awayID)
		return nil
	})
	_ = partition.Wait()

	for _, r := range runs {
		r.recent = cohort.SelectRecent(r.all, r.count)
		log.Info("service: cohort selected",
			zap.String("role", string(r.role)),
			zap.Int("cohort", len(r.all)),
			zap.Int("recent", len(r.recent)),
		)
		s.save(ctx, r.cohortName, r.all)
		s.save(ctx, r.recentName, r.recent)
	}

	// Lookup failures are absorbed by the pairer, so pairing never fails the group.
	var pairing errgroup.Group
	for _, r := range runs {
		pairing.Go(func() error {
			r.entries = s.pairer.Pair(ctx, r.recent, r.role)
			return nil
		})
	}
	_ = pairing.Wait()
	if err := ctx.Err(); err != nil {
		return nil, upstream(err, "service: pair opening odds")
	}

	for _, r := range runs {
		s.save(ctx, r.oddsName, r.entries)

		r.stats, err = stats.ComputeComparisonStatistics(r.entries)
		if err != nil {
			if errors.Is(err, stats.ErrEmptySample) {
				return nil, insufficientData(err, "service: "+string(r.role)+" cohort has no usable matches")
			}
			return nil, eris.Wrapf(err, "service: %s statistics", r.role)
		}
		s.save(ctx, r.statsName, r.stats)
	}

	prediction, err := predict.Predict(runs[0].stats, runs[1].stats, runs[2].stats, openingLine)
	if err != nil {
		if errors.Is(err, predict.ErrDegenerateDistribution) {
			return nil, &Error{Kind: KindDegenerateDistribution, Err: err}
		}
		return nil, eris.Wrap(err, "service: predict")
	}

	resp := &Response{
		RunID:      runID,
		MatchID:    matchID,
		Match:      detail.Label(),
		Prediction: prediction,
		Assessment: predict.Assess(prediction.PredictedTotalScore, openingLine),
	}

	log.Info("service: prediction complete",
		zap.Float64("opening_line", prediction.OpeningLine),
		zap.Float64("predicted_total_score", prediction.PredictedTotalScore),
		zap.Float64("probability_under", prediction.ProbabilityUnder),
		zap.Float64("probability_over", prediction.ProbabilityOver),
		zap.Duration("elapsed", time.Since(start)),
	)

	if req.AutoDelete {
		if err := s.artifacts.Purge(ctx, artifact.Names(homeID, awayID)...); err != nil {
			log.Warn("service: artifact cleanup failed", zap.Error(err))
		}
	}
	return resp, nil
}

// save stores an artifact. Failures only cost observability and are logged.
func (s *Service) save(ctx context.Context, name string, v any) {
	if err := s.artifacts.Save(ctx, name, v); err != nil {
		zap.L().Warn("service: artifact save failed", zap.String("artifact", name), zap.Error(err))
	}
}

// Package odds pairs historical matches with their opening total-points line.
package odds

import (
	"context"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/overunder/internal/model"
)

// QuoteSource returns every recorded total-points quote for a match. A nil or
// empty slice means the provider has no line for the match.
type QuoteSource interface {
	FetchOpeningQuotes(ctx context.Context, matchID string) ([]model.OpeningLine, error)
}

// OpeningLine resolves the opening line from a match's quotes. Quotes are
// ordered by recording time (quotes with an unusable timestamp are dropped)
// and the first one with a numeric handicap wins.
func OpeningLine(quotes []model.OpeningLine) (float64, bool) {
	type timed struct {
		at    int64
		quote model.OpeningLine
	}

	candidates := make([]timed, 0, len(quotes))
	for _, q := range quotes {
		at, ok := q.Recorded()
		if !ok {
			continue
		}
		candidates = append(candidates, timed{at: at, quote: q})
	}

	slices.SortStableFunc(candidates, func(a, b timed) int {
		switch {
		case a.at < b.at:
			return -1
		case a.at > b.at:
			return 1
		default:
			return 0
		}
	})

	for _, c := range candidates {
		if line, ok := c.quote.Line(); ok {
			return line, true
		}
	}
	return 0, false
}

// Pairer builds comparison entries for a batch of matches.
type Pairer struct {
	source      QuoteSource
	concurrency int
}

// NewPairer creates a Pairer. A concurrency below 2 performs lookups one at a
// time.
func NewPairer(source QuoteSource, concurrency int) *Pairer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pairer{source: source, concurrency: concurrency}
}

// Pair resolves each match's opening line and emits a comparison entry for
// every match that has both a total score and a usable line. Matches that
// fail either check are skipped, including those whose lookup errored. Output
// order follows input order.
func (p *Pairer) Pair(ctx context.Context, matches []model.MatchRecord, role model.TeamRole) []model.ComparisonEntry {
	log := zap.L().With(zap.String("role", string(role)))
	log.Info("resolving opening odds", zap.Int("matches", len(matches)))

	resolved := make([]*model.ComparisonEntry, len(matches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, m := range matches {
		if !m.HasScore() {
			log.Debug("skipped: total score missing", zap.String("match_id", m.MatchID))
			continue
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			entry, ok := p.pairOne(gctx, log, m)
			if ok {
				resolved[i] = &entry
			}
			return nil
		})
	}
	_ = g.Wait()

	entries := make([]model.ComparisonEntry, 0, len(matches))
	for _, e := range resolved {
		if e != nil {
			entries = append(entries, *e)
		}
	}

	log.Info("opening odds resolved",
		zap.Int("matches", len(matches)),
		zap.Int("paired", len(entries)),
	)
	return entries
}

func (p *Pairer) pairOne(ctx context.Context, log *zap.Logger, m model.MatchRecord) (model.ComparisonEntry, bool) {
	quotes, err := p.source.FetchOpeningQuotes(ctx, m.MatchID)
	if err != nil {
		log.Warn("skipped: odds lookup failed",
			zap.String("match_id", m.MatchID),
			zap.Error(err),
		)
		return model.ComparisonEntry{}, false
	}
	if len(quotes) == 0 {
		log.Debug("skipped: no total points quotes", zap.String("match_id", m.MatchID))
		return model.ComparisonEntry{}, false
	}

	line, ok := OpeningLine(quotes)
	if !ok {
		log.Debug("skipped: no parseable handicap", zap.String("match_id", m.MatchID))
		return model.ComparisonEntry{}, false
	}

	actual := float64(*m.TotalScore)
	return model.NewComparisonEntry(m.MatchID, model.Float64Ptr(line), model.Float64Ptr(actual)), true
}

// Pair is a convenience wrapper performing sequential lookups.
func Pair(ctx context.Context, source QuoteSource, matches []model.MatchRecord, role model.TeamRole) []model.ComparisonEntry {
	return NewPairer(source, 1).Pair(ctx, matches, role)
}

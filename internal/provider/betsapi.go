package provider

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/overunder/internal/model"
	"github.com/sells-group/overunder/internal/resilience"
	"github.com/sells-group/overunder/pkg/betsapi"
)

// BetsAPI implements Source on top of a betsapi.Client.
type BetsAPI struct {
	client          betsapi.Client
	breakers        *resilience.ServiceBreakers
	pageConcurrency int
}

// NewBetsAPI creates the adapter. pageConcurrency bounds parallel history
// page fetches (minimum 1).
func NewBetsAPI(client betsapi.Client, breakers *resilience.ServiceBreakers, pageConcurrency int) *BetsAPI {
	if breakers == nil {
		breakers = resilience.NewServiceBreakers(resilience.DefaultCircuitBreakerConfig())
	}
	return &BetsAPI{
		client:          client,
		breakers:        breakers,
		pageConcurrency: max(pageConcurrency, 1),
	}
}

// FetchAllMatches returns every ended match of teamID. Page 1 is fetched
// first to learn the total; the remaining pages are fetched concurrently and
// concatenated in page order. Any page failure fails the whole history.
func (b *BetsAPI) FetchAllMatches(ctx context.Context, teamID string) ([]model.MatchRecord, error) {
	log := zap.L().With(zap.String("team_id", teamID))

	first, err := b.endedPage(ctx, teamID, 1)
	if err != nil {
		return nil, err
	}

	pages := first.Pager.Pages()
	byPage := make([][]betsapi.Event, max(pages, 1)+1)
	byPage[1] = first.Results

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.pageConcurrency)
	for page := 2; page <= pages; page++ {
		g.Go(func() error {
			resp, err := b.endedPage(gctx, teamID, page)
			if err != nil {
				return err
			}
			byPage[page] = resp.Results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var records []model.MatchRecord
	for _, events := range byPage {
		for _, ev := range events {
			records = append(records, toRecord(ev))
		}
	}

	log.Debug("fetched match history",
		zap.Int("pages", pages),
		zap.Int("matches", len(records)),
	)
	return records, nil
}

func (b *BetsAPI) endedPage(ctx context.Context, teamID string, page int) (*betsapi.EndedResponse, error) {
	resp, err := resilience.ExecuteVal(ctx, b.breakers.Get(opHistory), func(ctx context.Context) (*betsapi.EndedResponse, error) {
		return b.client.EndedEvents(ctx, teamID, page)
	})
	if err != nil {
		return nil, eris.Wrapf(err, "provider: history team=%s page=%d", teamID, page)
	}
	return resp, nil
}

// FetchOpeningQuotes returns the recorded total-points quotes of a match.
func (b *BetsAPI) FetchOpeningQuotes(ctx context.Context, matchID string) ([]model.OpeningLine, error) {
	resp, err := resilience.ExecuteVal(ctx, b.breakers.Get(opOdds), func(ctx context.Context) (*betsapi.OddsResponse, error) {
		return b.client.EventOdds(ctx, matchID)
	})
	if err != nil {
		return nil, eris.Wrapf(err, "provider: odds match=%s", matchID)
	}

	quotes := resp.TotalPoints()
	lines := make([]model.OpeningLine, 0, len(quotes))
	for _, q := range quotes {
		lines = append(lines, model.OpeningLine{Handicap: q.Handicap, RecordedAt: q.AddTime})
	}
	return lines, nil
}

// FetchMatchDetail resolves the two teams of a match.
func (b *BetsAPI) FetchMatchDetail(ctx context.Context, matchID string) (*model.MatchDetail, error) {
	ev, err := resilience.ExecuteVal(ctx, b.breakers.Get(opEvent), func(ctx context.Context) (*betsapi.Event, error) {
		return b.client.EventView(ctx, matchID)
	})
	if err != nil {
		if errors.Is(err, betsapi.ErrEventNotFound) {
			return nil, eris.Wrapf(ErrMatchNotFound, "provider: match %s", matchID)
		}
		return nil, eris.Wrapf(err, "provider: match detail %s", matchID)
	}
	if ev.Home.ID == "" || ev.Away.ID == "" {
		return nil, eris.Wrapf(ErrMatchNotFound, "provider: match %s has no teams", matchID)
	}

	return &model.MatchDetail{
		MatchID:      matchID,
		HomeTeamID:   ev.Home.ID,
		HomeTeamName: ev.Home.Name,
		AwayTeamID:   ev.Away.ID,
		AwayTeamName: ev.Away.Name,
	}, nil
}

func toRecord(ev betsapi.Event) model.MatchRecord {
	return model.MatchRecord{
		MatchID:      ev.ID,
		HomeTeamID:   ev.Home.ID,
		HomeTeamName: ev.Home.Name,
		AwayTeamID:   ev.Away.ID,
		AwayTeamName: ev.Away.Name,
		MatchTime:    parseUnix(ev.Time),
		TotalScore:   parseTotalScore(ev.SS),
	}
}

// parseTotalScore sums a final score of the form "H-A". Anything else,
// including an empty score, yields nil.
func parseTotalScore(ss string) *int {
	home, away, ok := strings.Cut(strings.TrimSpace(ss), "-")
	if !ok {
		return nil
	}
	h, err := strconv.Atoi(strings.TrimSpace(home))
	if err != nil || h < 0 {
		return nil
	}
	a, err := strconv.Atoi(strings.TrimSpace(away))
	if err != nil || a < 0 {
		return nil
	}
	return model.IntPtr(h + a)
}

// parseUnix converts a unix-seconds string. Unparseable values map to the
// zero time, which sorts as the oldest match.
func parseUnix(s string) time.Time {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(v, 0).UTC()
}

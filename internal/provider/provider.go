// Package provider adapts BetsAPI payloads to match records and opening quotes.
package provider

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/overunder/internal/model"
)

// ErrMatchNotFound is returned when the requested match does not exist.
var ErrMatchNotFound = eris.New("provider: match not found")

// Source is the full set of lookups the prediction service needs.
type Source interface {
	FetchAllMatches(ctx context.Context, teamID string) ([]model.MatchRecord, error)
	FetchOpeningQuotes(ctx context.Context, matchID string) ([]model.OpeningLine, error)
	FetchMatchDetail(ctx context.Context, matchID string) (*model.MatchDetail, error)
}

// Circuit breaker names, one per upstream operation.
const (
	opHistory = "betsapi.history"
	opOdds    = "betsapi.odds"
	opEvent   = "betsapi.event"
)

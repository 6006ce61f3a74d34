// Package betsapi is a client for the BetsAPI (b365api) basketball endpoints.
package betsapi

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/overunder/internal/fetcher"
)

const (
	defaultBaseURL = "https://api.b365api.com"

	// SportBasketball is the BetsAPI sport id for basketball.
	SportBasketball = 18
	// PerPage is the largest page size the ended-events endpoint accepts.
	PerPage = 100
	// OddsSource is the bookmaker the opening lines are taken from.
	OddsSource = "bet365"
	// MarketTotalPoints is the odds market key for basketball game totals.
	MarketTotalPoints = "18_3"
)

// ErrEventNotFound is returned when an event lookup yields no result.
var ErrEventNotFound = eris.New("betsapi: event not found")

// Client performs BetsAPI operations.
type Client interface {
	// EventView returns the event with the given id.
	EventView(ctx context.Context, eventID string) (*Event, error)
	// EndedEvents returns one page of a team's finished basketball events.
	EndedEvents(ctx context.Context, teamID string, page int) (*EndedResponse, error)
	// EventOdds returns the bet365 odds history for an event.
	EventOdds(ctx context.Context, eventID string) (*OddsResponse, error)
}

// Team is a participant of an event.
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// League identifies the competition an event belongs to.
type League struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Event is a single basketball event. SS holds the final score as "H-A"
// and is empty for events without a recorded result.
type Event struct {
	ID         string `json:"id"`
	SportID    string `json:"sport_id"`
	Time       string `json:"time"`
	TimeStatus string `json:"time_status"`
	League     League `json:"league"`
	Home       Team   `json:"home"`
	Away       Team   `json:"away"`
	SS         string `json:"ss"`
}

// Pager describes the pagination of a list response.
type Pager struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
}

// Pages returns the number of pages needed to list Total events.
func (p Pager) Pages() int {
	perPage := p.PerPage
	if perPage <= 0 {
		perPage = PerPage
	}
	return (p.Total + perPage - 1) / perPage
}

// EndedResponse is one page of ended events.
type EndedResponse struct {
	Pager   Pager   `json:"pager"`
	Results []Event `json:"results"`
}

// Quote is one recorded line of an odds market.
type Quote struct {
	ID        string `json:"id"`
	OverOdds  string `json:"over_od"`
	UnderOdds string `json:"under_od"`
	Handicap  string `json:"handicap"`
	AddTime   string `json:"add_time"`
}

// OddsResults holds quotes keyed by market.
type OddsResults struct {
	Odds map[string][]Quote `json:"odds"`
}

// OddsResponse is the odds history of an event.
type OddsResponse struct {
	Results OddsResults `json:"results"`
}

// TotalPoints returns the quotes of the game-total market.
func (r *OddsResponse) TotalPoints() []Quote {
	if r == nil {
		return nil
	}
	return r.Results.Odds[MarketTotalPoints]
}

type envelope struct {
	Success     int    `json:"success"`
	Error       string `json:"error"`
	ErrorDetail string `json:"error_detail"`
}

type viewResponse struct {
	envelope
	Results []Event `json:"results"`
}

type endedResponse struct {
	envelope
	EndedResponse
}

type oddsResponse struct {
	envelope
	OddsResponse
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithFetcher overrides the default rate-limited fetcher.
func WithFetcher(f fetcher.Fetcher) Option {
	return func(c *httpClient) {
		c.fetcher = f
	}
}

type httpClient struct {
	token   string
	baseURL string
	fetcher fetcher.Fetcher
}

// NewClient creates a BetsAPI client authenticated with token.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:   token,
		baseURL: defaultBaseURL,
	}
	for _, o := range opts {
		o(c)
	}
	if c.fetcher == nil {
		c.fetcher = fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
			Timeout:  30 * time.Second,
			Limiters: fetcher.DefaultLimiters(1, 5),
		})
	}
	return c
}

func (c *httpClient) endpoint(path string, params url.Values) string {
	params.Set("token", c.token)
	return c.baseURL + path + "?" + params.Encode()
}

func (c *httpClient) EventView(ctx context.Context, eventID string) (*Event, error) {
	u := c.endpoint("/v1/event/view", url.Values{"event_id": {eventID}})

	resp, err := fetcher.GetJSON[viewResponse](ctx, c.fetcher, u)
	if err != nil {
		return nil, eris.Wrapf(err, "betsapi: event view %s", eventID)
	}
	if err := resp.check("event view"); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, eris.Wrapf(ErrEventNotFound, "betsapi: event %s", eventID)
	}
	return &resp.Results[0], nil
}

func (c *httpClient) EndedEvents(ctx context.Context, teamID string, page int) (*EndedResponse, error) {
	u := c.endpoint("/v3/events/ended", url.Values{
		"sport_id": {strconv.Itoa(SportBasketball)},
		"team_id":  {teamID},
		"per_page": {strconv.Itoa(PerPage)},
		"page":     {strconv.Itoa(page)},
	})

	resp, err := fetcher.GetJSON[endedResponse](ctx, c.fetcher, u)
	if err != nil {
		return nil, eris.Wrapf(err, "betsapi: ended events team=%s page=%d", teamID, page)
	}
	if err := resp.check("ended events"); err != nil {
		return nil, err
	}
	return &resp.EndedResponse, nil
}

func (c *httpClient) EventOdds(ctx context.Context, eventID string) (*OddsResponse, error) {
	u := c.endpoint("/v2/event/odds", url.Values{
		"event_id": {eventID},
		"source":   {OddsSource},
	})

	resp, err := fetcher.GetJSON[oddsResponse](ctx, c.fetcher, u)
	if err != nil {
		return nil, eris.Wrapf(err, "betsapi: event odds %s", eventID)
	}
	if err := resp.check("event odds"); err != nil {
		return nil, err
	}
	return &resp.OddsResponse, nil
}

func (e envelope) check(op string) error {
	if e.Success == 1 {
		return nil
	}
	if e.Error == "" {
		return eris.Errorf("betsapi: %s: unsuccessful response", op)
	}
	return eris.Errorf("betsapi: %s: %s %s", op, e.Error, e.ErrorDetail)
}

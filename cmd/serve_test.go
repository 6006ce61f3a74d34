package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/overunder/internal/model"
	"github.com/sells-group/overunder/internal/resilience"
	"github.com/sells-group/overunder/internal/service"
)

type fakePredictor struct {
	resp *service.Response
	err  error
	got  service.Request
}

func (f *fakePredictor) Predict(_ context.Context, req service.Request) (*service.Response, error) {
	f.got = req
	return f.resp, f.err
}

func okPredictor() *fakePredictor {
	return &fakePredictor{resp: &service.Response{
		MatchID: "9000",
		Match:   "Lakers vs Celtics",
		Prediction: model.PredictionResult{
			OpeningLine:         158.5,
			PredictedTotalScore: 154,
			ProbabilityUnder:    69.15,
			ProbabilityOver:     30.85,
		},
		Assessment: model.AssessmentBelow,
	}}
}

func postPredict(t *testing.T, h http.Handler, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/match/predict_score", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoint(t *testing.T) {
	breakers := resilience.NewServiceBreakers(resilience.DefaultCircuitBreakerConfig())
	breakers.Get("betsapi.history")
	router := buildRouter(okPredictor(), breakers, "")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body struct {
		Status   string            `json:"status"`
		Circuits map[string]string `json:"circuits"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "closed", body.Circuits["betsapi.history"])
}

func TestPredictScore_Valid(t *testing.T) {
	pred := okPredictor()
	router := buildRouter(pred, nil, "")

	payload := map[string]any{
		"matchLink":           "https://betsapi.com/r/9000/lakers-v-celtics",
		"home_recent_count":   10,
		"away_recent_count":   8,
		"versus_recent_count": 5,
		"autoDelete":          true,
	}
	body, _ := json.Marshal(payload)
	rr := postPredict(t, router, string(body), nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "https://betsapi.com/r/9000/lakers-v-celtics", pred.got.MatchLink)
	assert.Equal(t, 10, pred.got.HomeRecentCount)
	assert.Equal(t, 8, pred.got.AwayRecentCount)
	assert.Equal(t, 5, pred.got.VersusRecentCount)
	assert.True(t, pred.got.AutoDelete)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "9000", resp["matchId"])
	assert.Equal(t, "Lakers vs Celtics", resp["match"])
	assert.Equal(t, "below", resp["assessment"])

	results, ok := resp["prediction_results"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 69.15, results["probability_under"])
	assert.Equal(t, 30.85, results["probability_over"])
}

func TestPredictScore_InvalidBody(t *testing.T) {
	rr := postPredict(t, buildRouter(okPredictor(), nil, ""), "{not json", nil)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "invalid request body", body.Error)
	assert.Equal(t, "invalid_input", body.Kind)
}

func TestPredictScore_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
		kind string
	}{
		{"invalid input", &service.Error{Kind: service.KindInvalidInput, Err: errors.New("matchLink is required")}, http.StatusBadRequest, "invalid_input"},
		{"insufficient data", &service.Error{Kind: service.KindInsufficientData, Err: errors.New("versus cohort empty")}, http.StatusUnprocessableEntity, "insufficient_data"},
		{"degenerate", &service.Error{Kind: service.KindDegenerateDistribution, Err: errors.New("zero spread")}, http.StatusUnprocessableEntity, "degenerate_distribution"},
		{"upstream", &service.Error{Kind: service.KindUpstreamUnavailable, Err: errors.New("http 502")}, http.StatusBadGateway, "upstream_unavailable"},
		{"circuit open", &service.Error{Kind: service.KindUpstreamUnavailable, Err: eris.Wrap(resilience.ErrCircuitOpen, "betsapi.history")}, http.StatusServiceUnavailable, "upstream_unavailable"},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := buildRouter(&fakePredictor{err: tt.err}, nil, "")
			rr := postPredict(t, router, `{"matchLink":"x"}`, nil)

			assert.Equal(t, tt.want, rr.Code)
			var body errorBody
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tt.kind, body.Kind)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestPredictScore_Auth(t *testing.T) {
	router := buildRouter(okPredictor(), nil, "s3cret")

	tests := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{"missing", nil, http.StatusUnauthorized},
		{"wrong bearer", map[string]string{"Authorization": "Bearer nope"}, http.StatusUnauthorized},
		{"bearer", map[string]string{"Authorization": "Bearer s3cret"}, http.StatusOK},
		{"lowercase scheme", map[string]string{"Authorization": "bearer s3cret"}, http.StatusOK},
		{"api key", map[string]string{"X-API-Key": "s3cret"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postPredict(t, router, `{"matchLink":"x"}`, tt.headers)
			assert.Equal(t, tt.want, rr.Code)
		})
	}
}

func TestHealth_NotBehindAuth(t *testing.T) {
	router := buildRouter(okPredictor(), nil, "s3cret")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCORSPreflight(t *testing.T) {
	router := buildRouter(okPredictor(), nil, "")

	req := httptest.NewRequest(http.MethodOptions, "/api/match/predict_score", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestPredictScore_MethodNotAllowed(t *testing.T) {
	router := buildRouter(okPredictor(), nil, "")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/match/predict_score", bytes.NewReader(nil)))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

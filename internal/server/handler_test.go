package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/naka-gawa/github-insights/internal/chart"
	"github.com/naka-gawa/github-insights/internal/domain"
	"github.com/naka-gawa/github-insights/internal/usecase"
)

type fakeResolver struct {
	repos []string
	err   error
}

func (f fakeResolver) Resolve(_ context.Context, profile string) (usecase.Profile, error) {
	username, err := usecase.ParseUsername(profile)
	if err != nil {
		return usecase.Profile{}, err
	}
	if f.err != nil {
		return usecase.Profile{}, f.err
	}
	return usecase.Profile{Username: username, Repos: f.repos}, nil
}

type fakeSource struct {
	metrics   *domain.RepoMetrics
	frequency *domain.RepoFrequency
	err       error
}

func (f fakeSource) CollectMetrics(context.Context, string, []string, int) (*domain.RepoMetrics, error) {
	return f.metrics, f.err
}

func (f fakeSource) CollectFrequency(context.Context, string, []string, int) (*domain.RepoFrequency, error) {
	return f.frequency, f.err
}

func sampleSource() fakeSource {
	m := domain.NewRepoMetrics()
	m.Set("zeta", domain.NewMetricRecord(7, 2, 1, 4))
	m.Set("alpha", domain.NewMetricRecord(3, 1, 1, 0))
	f := domain.NewRepoFrequency()
	f.Set("zeta", domain.Churn{Additions: 100, Deletions: 40})
	f.Set("alpha", domain.Churn{Additions: 5, Deletions: 0})
	return fakeSource{metrics: m, frequency: f}
}

func newTestEngine(resolver fakeResolver, source fakeSource, origins ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewEngine(NewHandler(resolver, source, zap.NewNop()), origins, zap.NewNop())
}

func doRequest(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	return w
}

func decodeApiError(t *testing.T, w *httptest.ResponseRecorder) ApiError {
	t.Helper()
	var rsp ApiError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rsp))
	return rsp
}

func TestHealth(t *testing.T) {
	w := doRequest(newTestEngine(fakeResolver{}, sampleSource()), http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestLink(t *testing.T) {
	engine := newTestEngine(fakeResolver{repos: []string{"zeta", "alpha"}}, sampleSource())

	w := doRequest(engine, http.MethodPost, "/api/link", `{"url":"https://github.com/octocat"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"username":"octocat","repos":["zeta","alpha"]}`, w.Body.String())

	w = doRequest(engine, http.MethodPost, "/api/link", `{"url":"https://github.com/"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeBadRequest, decodeApiError(t, w).ErrorCode)

	w = doRequest(engine, http.MethodPost, "/api/link", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStats_KeepsRepositoryOrder(t *testing.T) {
	engine := newTestEngine(fakeResolver{repos: []string{"zeta", "alpha"}}, sampleSource())

	w := doRequest(engine, http.MethodPost, "/api/stats", `{"username":"octocat","year":2024}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := w.Body.String()
	assert.Less(t, strings.Index(body, `"zeta"`), strings.Index(body, `"alpha"`))

	var rsp struct {
		Totals domain.Totals `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rsp))
	assert.Equal(t, domain.Totals{Commits: 10, PRs: 3, Merges: 2, Issues: 4}, rsp.Totals)
}

func TestFrequency(t *testing.T) {
	engine := newTestEngine(fakeResolver{repos: []string{"zeta", "alpha"}}, sampleSource())

	w := doRequest(engine, http.MethodPost, "/api/frequency", `{"username":"octocat","year":2024}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"freq":{"zeta":[100,40],"alpha":[5,0]}}`, w.Body.String())
}

func TestCharts(t *testing.T) {
	engine := newTestEngine(fakeResolver{repos: []string{"zeta", "alpha"}}, sampleSource())

	w := doRequest(engine, http.MethodPost, "/api/charts", `{"username":"https://github.com/octocat","year":2024}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var rsp struct {
		Username string        `json:"username"`
		Year     int           `json:"year"`
		Totals   domain.Totals `json:"totals"`
		Charts   []struct {
			Data struct {
				Labels   []string `json:"labels"`
				Datasets []struct {
					Label           string    `json:"label"`
					Data            []float64 `json:"data"`
					BackgroundColor string    `json:"backgroundColor"`
				} `json:"datasets"`
			} `json:"data"`
			Options struct {
				Plugins struct {
					Title struct {
						Text string `json:"text"`
					} `json:"title"`
				} `json:"plugins"`
			} `json:"options"`
		} `json:"charts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rsp))
	assert.Equal(t, "octocat", rsp.Username)
	assert.Equal(t, 2024, rsp.Year)
	assert.Equal(t, 10, rsp.Totals.Commits)
	require.Len(t, rsp.Charts, 6)
	assert.Equal(t, []string{"zeta", "alpha"}, rsp.Charts[0].Data.Labels)
	assert.Equal(t, "rgba(54, 162, 235, 0.5)", rsp.Charts[0].Data.Datasets[0].BackgroundColor)
	freq := rsp.Charts[5]
	assert.Equal(t, "Additions vs Deletions Per Repo", freq.Options.Plugins.Title.Text)
	assert.Equal(t, "Deletions", freq.Data.Datasets[1].Label)
	assert.Equal(t, []float64{-40, 0}, freq.Data.Datasets[1].Data)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		resolver fakeResolver
		source   fakeSource
		path     string
		body     string
		wantCode int
		wantErr  string
	}{
		{
			name:     "year before GitHub existed",
			resolver: fakeResolver{repos: []string{"zeta"}},
			source:   sampleSource(),
			path:     "/api/stats",
			body:     `{"username":"octocat","year":2001}`,
			wantCode: http.StatusBadRequest,
			wantErr:  CodeBadRequest,
		},
		{
			name:     "upstream failure",
			resolver: fakeResolver{err: fmt.Errorf("%w: %w", usecase.ErrUpstream, errors.New("rate limited"))},
			source:   sampleSource(),
			path:     "/api/frequency",
			body:     `{"username":"octocat","year":2024}`,
			wantCode: http.StatusBadGateway,
			wantErr:  CodeBadGateway,
		},
		{
			name:     "malformed record",
			resolver: fakeResolver{repos: []string{"zeta"}},
			source: func() fakeSource {
				s := sampleSource()
				s.metrics.Set("broken", domain.MetricRecord{"commits": 1})
				return s
			}(),
			path:     "/api/charts",
			body:     `{"username":"octocat","year":2024}`,
			wantCode: http.StatusUnprocessableEntity,
			wantErr:  CodeUnprocessable,
		},
		{
			name:     "unknown route",
			resolver: fakeResolver{},
			source:   sampleSource(),
			path:     "/api/send_obj",
			body:     `{}`,
			wantCode: http.StatusNotFound,
			wantErr:  CodeNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(newTestEngine(tt.resolver, tt.source), http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantErr, decodeApiError(t, w).ErrorCode)
		})
	}
}

func TestCvtToErrResponse_ChartErrors(t *testing.T) {
	rsp := cvtToErrResponse(fmt.Errorf("failed to build chart: %w", &chart.UnknownMetricError{Metric: "stars"}))
	assert.Equal(t, http.StatusUnprocessableEntity, rsp.HttpCode)
	assert.Equal(t, `failed to build chart: unknown metric "stars"`, rsp.ErrorMessage)

	rsp = cvtToErrResponse(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, rsp.HttpCode)
	assert.Equal(t, CodeInternal, rsp.ErrorCode)
}

func TestCORS(t *testing.T) {
	engine := newTestEngine(fakeResolver{}, sampleSource(), "http://localhost:3000")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/stats", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rates-api-go/internal/auth"
	"rates-api-go/internal/hierarchy"
	"rates-api-go/internal/rates"
	"rates-api-go/internal/store"
	"rates-api-go/internal/store/storetest"
	"rates-api-go/pkg/logger"
	"rates-api-go/pkg/model"
)

const testSecret = "handler-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

type brokenPrices struct{}

func (brokenPrices) DailyStats(ctx context.Context, origins, destinations []string, from, to civil.Date) ([]model.DailyStat, error) {
	return nil, errors.New("pq: connection refused")
}

type testServer struct {
	router *gin.Engine
	mem    *store.Memory
}

func newTestServer(t *testing.T, prices store.PriceReader, db Pinger) *testServer {
	t.Helper()
	mem := storetest.NewStore()
	if prices == nil {
		prices = mem
	}
	cache := hierarchy.NewCache(mem, logger.Nop())
	require.NoError(t, cache.Warm(context.Background()))

	svc := rates.NewService(prices, cache, rates.Config{MinSamples: 3, MaxSpanDays: 31}, logger.Nop())
	router := NewRouter(RouterConfig{
		RateService:    svc,
		Hierarchy:      cache,
		DB:             db,
		Tokens:         auth.NewTokenService(testSecret),
		Logger:         logger.Nop(),
		CORSOrigins:    []string{"http://localhost:3000"},
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	})
	return &testServer{router: router, mem: mem}
}

func (s *testServer) do(method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestGetRatesScenario(t *testing.T) {
	srv := newTestServer(t, nil, stubPinger{})

	w := srv.do(http.MethodGet, "/rates?date_from=2016-01-01&date_to=2016-01-10&origin=CNSGH&destination=north_europe_main", "")
	require.Equal(t, http.StatusOK, w.Code)

	var rows []struct {
		Day          string `json:"day"`
		AveragePrice *int64 `json:"average_price"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 10)

	assert.Equal(t, "2016-01-01", rows[0].Day)
	require.NotNil(t, rows[0].AveragePrice)
	assert.Equal(t, int64(1112), *rows[0].AveragePrice)
	assert.Nil(t, rows[2].AveragePrice)
	assert.Nil(t, rows[3].AveragePrice)
	assert.Equal(t, "2016-01-10", rows[9].Day)
	require.NotNil(t, rows[9].AveragePrice)
	assert.Equal(t, int64(1124), *rows[9].AveragePrice)

	assert.Contains(t, w.Body.String(), `"average_price":null`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestGetRatesErrors(t *testing.T) {
	srv := newTestServer(t, nil, stubPinger{})

	tests := []struct {
		name   string
		query  string
		status int
		error  string
	}{
		{
			name:   "missing origin",
			query:  "date_from=2016-01-01&date_to=2016-01-10&destination=north_europe_main",
			status: http.StatusUnprocessableEntity,
			error:  "origin is required",
		},
		{
			name:   "malformed date",
			query:  "date_from=2016-13-01&date_to=2016-01-10&origin=CNSGH&destination=north_europe_main",
			status: http.StatusUnprocessableEntity,
			error:  "date_from must be a date in YYYY-MM-DD format",
		},
		{
			name:   "reversed range",
			query:  "date_from=2016-01-01&date_to=2015-01-10&origin=MYHOUSE&destination=north_europe_main",
			status: http.StatusUnprocessableEntity,
			error:  "date_to must be after date_from",
		},
		{
			name:   "range too long",
			query:  "date_from=2016-01-01&date_to=2016-02-10&origin=CNSGH&destination=north_europe_main",
			status: http.StatusUnprocessableEntity,
			error:  "[date_from-date_to] range must be less than 31 days",
		},
		{
			name:   "unknown origin",
			query:  "date_from=2016-01-01&date_to=2016-01-10&origin=MYHOUSE&destination=NOWHERE",
			status: http.StatusNotFound,
			error:  "Could not find port/region: MYHOUSE",
		},
		{
			name:   "unknown destination",
			query:  "date_from=2016-01-01&date_to=2016-01-10&origin=CNSGH&destination=NOWHERE",
			status: http.StatusNotFound,
			error:  "Could not find port/region: NOWHERE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.do(http.MethodGet, "/rates?"+tt.query, "")
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.error, errorBody(t, w))
		})
	}
}

func TestGetRatesStoreFailure(t *testing.T) {
	srv := newTestServer(t, brokenPrices{}, stubPinger{})

	w := srv.do(http.MethodGet, "/rates?date_from=2016-01-01&date_to=2016-01-10&origin=CNSGH&destination=north_europe_main", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to fetch rates", errorBody(t, w))
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestGetLocation(t *testing.T) {
	srv := newTestServer(t, nil, stubPinger{})

	w := srv.do(http.MethodGet, "/api/locations/scandinavia", "")
	require.Equal(t, http.StatusOK, w.Code)

	var loc model.LocationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loc))
	assert.Equal(t, model.LocationResponse{
		Identifier: "scandinavia",
		Kind:       "region",
		Ports:      []string{"EETLL", "NOOSL", "SEGOT"},
	}, loc)

	w = srv.do(http.MethodGet, "/api/locations/antarctica", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ports":[]`)

	w = srv.do(http.MethodGet, "/api/locations/MYHOUSE", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Could not find port/region: MYHOUSE", errorBody(t, w))
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil, stubPinger{})
	w := srv.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version":1`)

	down := newTestServer(t, nil, stubPinger{err: errors.New("dial tcp: connection refused")})
	w = down.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "unavailable")
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil, stubPinger{})
	srv.do(http.MethodGet, "/api/locations/CNSGH", "")

	w := srv.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "rates_hierarchy_snapshot_version")
	assert.Contains(t, w.Body.String(), "rates_http_requests_total")
}

func TestRefreshHierarchy(t *testing.T) {
	srv := newTestServer(t, nil, stubPinger{})

	w := srv.do(http.MethodPost, "/api/admin/hierarchy/refresh", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	srv.mem.Replace(
		append(storetest.Regions(), model.NewRegion("iberia", "Iberia", "")),
		append(storetest.Ports(), model.Port{Code: "ESBCN", Name: "Barcelona", ParentSlug: "iberia"}),
	)

	token, err := auth.NewTokenService(testSecret).GenerateAdminToken("ops", time.Minute)
	require.NoError(t, err)
	w = srv.do(http.MethodPost, "/api/admin/hierarchy/refresh", token)
	require.Equal(t, http.StatusOK, w.Code)

	var stats model.HierarchyStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, model.HierarchyStats{Version: 2, Regions: 7, Ports: 8}, stats)

	w = srv.do(http.MethodGet, "/api/locations/iberia", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ESBCN")
}

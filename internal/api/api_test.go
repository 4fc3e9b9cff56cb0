package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/freshmark/backend-go/internal/domain"
	"github.com/freshmark/backend-go/internal/forecast"
	"github.com/freshmark/backend-go/internal/markdown"
	"github.com/freshmark/backend-go/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepository struct {
	items []domain.InventoryItem
	sales map[string][]domain.SalesRecord
	saved []domain.MarkdownDecision
}

func (r *stubRepository) GetInventory(_ context.Context, filter domain.InventoryFilter) ([]domain.InventoryItem, error) {
	var out []domain.InventoryItem
	for _, item := range r.items {
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if filter.MaxDaysUntilExpiry != nil && item.DaysUntilExpiry > *filter.MaxDaysUntilExpiry {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *stubRepository) GetSalesHistory(_ context.Context, productID string, _ int) ([]domain.SalesRecord, error) {
	return r.sales[productID], nil
}

func (r *stubRepository) SaveMarkdownSuggestion(_ context.Context, decision domain.MarkdownDecision) error {
	r.saved = append(r.saved, decision)
	return nil
}

func newTestRouter() (*gin.Engine, *stubRepository) {
	gin.SetMode(gin.TestMode)

	sales := make([]domain.SalesRecord, 30)
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := range sales {
		sales[i] = domain.SalesRecord{Date: start.AddDate(0, 0, i), UnitsSold: 8 + i%4, Price: 2.0}
	}

	repo := &stubRepository{
		items: []domain.InventoryItem{
			{ProductID: "a", ProductName: "Milk 1L", Category: "Dairy", Stock: 40, CurrentPrice: 1.5, DaysUntilExpiry: 2, Status: domain.StatusExpiring},
			{ProductID: "b", ProductName: "Apples 1kg", Category: "Produce", Stock: 60, CurrentPrice: 2.5, DaysUntilExpiry: 9, Status: domain.StatusSafe},
		},
		sales: map[string][]domain.SalesRecord{"a": sales},
	}

	forecaster := forecast.NewForecaster(forecast.NewModelStore(nil), 14)
	services := &Services{
		InventoryService: service.NewInventoryService(repo),
		ForecastService:  service.NewForecastService(repo, forecaster, 90, 7),
		MarkdownService:  service.NewMarkdownService(repo, forecaster, markdown.NewOptimizer(nil), 90, 2),
	}
	return NewRouter(services, nil), repo
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
	Error   string          `json:"error"`
}

func doRequest(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestGetInventoryEndpoint(t *testing.T) {
	router, _ := newTestRouter()

	rec, env := doRequest(t, router, http.MethodGet, "/api/v1/inventory", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	require.NotNil(t, env.Count)
	assert.Equal(t, 2, *env.Count)

	rec, env = doRequest(t, router, http.MethodGet, "/api/v1/inventory?category=Dairy", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Count)
	assert.Equal(t, 1, *env.Count)

	rec, env = doRequest(t, router, http.MethodGet, "/api/v1/inventory?expiry_days=3", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Count)
	assert.Equal(t, 1, *env.Count)
}

func TestGetForecastEndpoint(t *testing.T) {
	router, _ := newTestRouter()

	rec, env := doRequest(t, router, http.MethodGet, "/api/v1/forecast/a?days=5", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var result domain.ForecastResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "a", result.ProductID)
	assert.Len(t, result.Forecast, 5)
	assert.Equal(t, 5, result.HorizonDays)
}

func TestGetForecastEndpointNoHistory(t *testing.T) {
	router, _ := newTestRouter()

	rec, env := doRequest(t, router, http.MethodGet, "/api/v1/forecast/b", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
}

func TestGetSalesHistoryEndpoint(t *testing.T) {
	router, _ := newTestRouter()

	rec, env := doRequest(t, router, http.MethodGet, "/api/v1/products/a/sales_history?days=30", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var result domain.SalesHistoryResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 30, result.DaysCovered)
	assert.Greater(t, result.TotalUnits, 0)
}

func TestGetMarkdownEndpoint(t *testing.T) {
	router, _ := newTestRouter()

	rec, env := doRequest(t, router, http.MethodGet, "/api/v1/markdown/a", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var decision domain.MarkdownDecision
	require.NoError(t, json.Unmarshal(env.Data, &decision))
	assert.Equal(t, "a", decision.ProductID)

	rec, _ = doRequest(t, router, http.MethodGet, "/api/v1/markdown/zzz", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAcceptMarkdownEndpointPersists(t *testing.T) {
	router, repo := newTestRouter()

	// GET only computes, POST records the acceptance.
	rec, _ := doRequest(t, router, http.MethodGet, "/api/v1/markdown/a", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, repo.saved)

	rec, env := doRequest(t, router, http.MethodPost, "/api/v1/markdown/a", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, "a", repo.saved[0].ProductID)

	rec, _ = doRequest(t, router, http.MethodPost, "/api/v1/markdown/zzz", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Len(t, repo.saved, 1)
}

func TestBatchMarkdownEndpoint(t *testing.T) {
	router, _ := newTestRouter()

	rec, env := doRequest(t, router, http.MethodPost, "/api/v1/markdown/batch", `{"product_ids":["a","b"]}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Count)
	assert.Equal(t, 2, *env.Count)

	// Empty body defaults to the expiring set.
	rec, env = doRequest(t, router, http.MethodPost, "/api/v1/markdown/batch", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Count)
	assert.Equal(t, 1, *env.Count)
}

func TestAnalyticsSummaryEndpoint(t *testing.T) {
	router, _ := newTestRouter()

	rec, env := doRequest(t, router, http.MethodGet, "/api/v1/analytics/summary", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var summary domain.AnalyticsSummary
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 2, summary.InventoryOverview.TotalItems)
	assert.Equal(t, 1, summary.WastePrevention.MarkdownCandidates)
}

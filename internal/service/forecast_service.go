// internal/service/forecast_service.go
package service

import (
	"context"
	"math"

	"github.com/freshmark/backend-go/internal/domain"
	"github.com/freshmark/backend-go/internal/forecast"
	"github.com/freshmark/backend-go/internal/repository"
)

const (
	// chartHistoryDays is how many trailing actuals get charted alongside
	// the projection.
	chartHistoryDays = 14

	// accuracyTestDays is the holdout length for backtesting.
	accuracyTestDays = 7
)

// ForecastService wires the sales repository to the demand forecaster.
type ForecastService struct {
	repo        repository.InventoryRepository
	forecaster  *forecast.Forecaster
	historyDays int
	horizonDays int
}

func NewForecastService(repo repository.InventoryRepository, forecaster *forecast.Forecaster, historyDays, horizonDays int) *ForecastService {
	if historyDays <= 0 {
		historyDays = 90
	}
	if horizonDays <= 0 {
		horizonDays = 7
	}
	return &ForecastService{repo: repo, forecaster: forecaster, historyDays: historyDays, horizonDays: horizonDays}
}

// GetForecast projects demand for one product over the requested horizon and
// backtests the model on the same history.
func (s *ForecastService) GetForecast(ctx context.Context, productID string, days int) (*domain.ForecastResult, error) {
	series, err := s.repo.GetSalesHistory(ctx, productID, s.historyDays)
	if err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return nil, domain.ErrNoSalesHistory
	}

	if days <= 0 {
		days = s.horizonDays
	}

	points := s.forecaster.Forecast(ctx, productID, series, days)
	metrics := s.forecaster.Accuracy(ctx, productID, series, accuracyTestDays)

	return &domain.ForecastResult{
		ProductID:       productID,
		Forecast:        points,
		ChartData:       buildChartData(series, points),
		AccuracyMetrics: metrics,
		HorizonDays:     days,
	}, nil
}

// GetSalesHistory returns the raw trailing sales window plus simple totals.
func (s *ForecastService) GetSalesHistory(ctx context.Context, productID string, days int) (*domain.SalesHistoryResult, error) {
	series, err := s.repo.GetSalesHistory(ctx, productID, days)
	if err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return nil, domain.ErrNoSalesHistory
	}

	total := 0
	for _, rec := range series {
		total += rec.UnitsSold
	}
	avg := float64(total) / float64(len(series))

	return &domain.SalesHistoryResult{
		ProductID:         productID,
		SalesHistory:      series,
		TotalUnits:        total,
		AverageDailySales: round2(avg),
		DaysCovered:       len(series),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// buildChartData merges the last two weeks of actuals with the projection so
// clients can plot one continuous series.
func buildChartData(series []domain.SalesRecord, points []domain.ForecastPoint) []domain.ChartPoint {
	start := 0
	if len(series) > chartHistoryDays {
		start = len(series) - chartHistoryDays
	}

	chart := make([]domain.ChartPoint, 0, len(series)-start+len(points))
	for _, rec := range series[start:] {
		actual := rec.UnitsSold
		chart = append(chart, domain.ChartPoint{
			Date:   rec.Date.Format("2006-01-02"),
			Actual: &actual,
		})
	}
	for _, p := range points {
		predicted := p.Predicted
		lower := p.ConfidenceLower
		upper := p.ConfidenceUpper
		chart = append(chart, domain.ChartPoint{
			Date:            p.Date,
			Predicted:       &predicted,
			ConfidenceLower: &lower,
			ConfidenceUpper: &upper,
		})
	}
	return chart
}

// internal/forecast/forecaster.go
package forecast

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/freshmark/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	// zScore is the 95% band multiplier applied to recent demand variability.
	zScore = 1.96

	// recentWindow is how many trailing observations feed the confidence band
	// and the fallback heuristic.
	recentWindow = 14

	dateLayout = "2006-01-02"
)

// Forecaster produces multi-day demand projections for single products.
type Forecaster struct {
	store           *ModelStore
	minTrainingRows int
}

func NewForecaster(store *ModelStore, minTrainingRows int) *Forecaster {
	if minTrainingRows <= 0 {
		minTrainingRows = 14
	}
	return &Forecaster{store: store, minTrainingRows: minTrainingRows}
}

// Train fits a model on the full series and publishes it, overwriting any
// cached entry for the product. Fails softly on short series.
func (f *Forecaster) Train(ctx context.Context, productID string, series []domain.SalesRecord) (*domain.TrainedModel, error) {
	m, err := f.fit(series)
	if err != nil {
		return nil, err
	}
	f.store.Publish(ctx, productID, m)
	log.Info().Str("product_id", productID).Int("observations", m.Observations).Msg("model trained and cached")
	return m, nil
}

func (f *Forecaster) fit(series []domain.SalesRecord) (*domain.TrainedModel, error) {
	if len(series) < f.minTrainingRows {
		return nil, fmt.Errorf("insufficient data: %d rows, need %d", len(series), f.minTrainingRows)
	}
	rows := BuildFeatures(series)
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty feature table")
	}
	return fitModel(rows)
}

// Forecast projects demand horizonDays ahead of the series' last date. It
// never fails: when no model can be resolved or trained it degrades to the
// seasonal moving-average heuristic.
func (f *Forecaster) Forecast(ctx context.Context, productID string, series []domain.SalesRecord, horizonDays int) []domain.ForecastPoint {
	if horizonDays <= 0 {
		horizonDays = 7
	}

	model, ok := f.store.Load(ctx, productID)
	if !ok {
		var err error
		model, err = f.store.TrainOnce(ctx, productID, func() (*domain.TrainedModel, error) {
			return f.fit(series)
		})
		if err != nil {
			log.Warn().Err(err).Str("product_id", productID).Msg("training failed, using fallback forecast")
			return f.fallbackForecast(series, horizonDays)
		}
	}

	points, err := f.project(model, series, horizonDays)
	if err != nil {
		log.Warn().Err(err).Str("product_id", productID).Msg("projection failed, using fallback forecast")
		return f.fallbackForecast(series, horizonDays)
	}
	return points
}

// project runs the recursive one-step-ahead projection. The lag-1 feature
// chains on prior predictions, lag-7 switches from actuals to predictions
// after the first week, and the moving averages stay pinned at their last
// observed values so the forecast drifts toward the trailing level.
func (f *Forecaster) project(model *domain.TrainedModel, series []domain.SalesRecord, horizonDays int) ([]domain.ForecastPoint, error) {
	rows := BuildFeatures(series)
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty series")
	}

	records := sortedCopy(series)
	last := rows[len(rows)-1]
	lastDate := records[len(records)-1].Date

	units := make([]float64, len(records))
	for i, rec := range records {
		units[i] = float64(rec.UnitsSold)
	}
	recentStd := sampleStd(tailUnits(units, recentWindow))

	points := make([]domain.ForecastPoint, 0, horizonDays)
	predictions := make([]float64, 0, horizonDays)

	for i := 0; i < horizonDays; i++ {
		date := lastDate.AddDate(0, 0, i+1)

		var lag1 float64
		if i == 0 {
			lag1 = last.UnitsSold
		} else {
			lag1 = predictions[i-1]
		}

		var lag7 float64
		switch {
		case i >= 7:
			lag7 = predictions[i-7]
		case len(records) >= 7-i:
			lag7 = float64(records[len(records)-(7-i)].UnitsSold)
		default:
			// Series shorter than a week: fall back to the oldest observation.
			lag7 = float64(records[0].UnitsSold)
		}

		features := []float64{
			float64(weekdayIndex(date)),
			float64(date.Day()),
			float64(date.Month()),
			last.DaysSinceStart + float64(i+1),
			lag1,
			lag7,
			last.MovingAvg7,
			last.MovingAvg14,
		}

		prediction := math.Max(0, predict(model, features))

		// The reported (rounded) value is what chains into later lags.
		predicted := roundTo(prediction, 1)
		predictions = append(predictions, predicted)

		points = append(points, domain.ForecastPoint{
			Date:            date.Format(dateLayout),
			Predicted:       predicted,
			ConfidenceLower: roundTo(math.Max(0, prediction-zScore*recentStd), 1),
			ConfidenceUpper: roundTo(prediction+zScore*recentStd, 1),
		})
	}

	return points, nil
}

// fallbackForecast is the seasonal moving-average heuristic: trailing 14-day
// mean scaled up 20% for Friday through Sunday and down 10% otherwise. An
// empty series yields all-zero points.
func (f *Forecaster) fallbackForecast(series []domain.SalesRecord, horizonDays int) []domain.ForecastPoint {
	points := make([]domain.ForecastPoint, 0, horizonDays)

	if len(series) == 0 {
		base := time.Now()
		for i := 0; i < horizonDays; i++ {
			points = append(points, domain.ForecastPoint{
				Date: base.AddDate(0, 0, i+1).Format(dateLayout),
			})
		}
		return points
	}

	records := sortedCopy(series)
	units := make([]float64, len(records))
	for i, rec := range records {
		units[i] = float64(rec.UnitsSold)
	}
	recent := tailUnits(units, recentWindow)
	recentAvg := mean(recent)
	recentStd := sampleStd(recent)

	base := records[len(records)-1].Date
	for i := 0; i < horizonDays; i++ {
		date := base.AddDate(0, 0, i+1)

		seasonal := 0.9
		switch date.Weekday() {
		case time.Friday, time.Saturday, time.Sunday:
			seasonal = 1.2
		}

		prediction := recentAvg * seasonal
		points = append(points, domain.ForecastPoint{
			Date:            date.Format(dateLayout),
			Predicted:       roundTo(prediction, 1),
			ConfidenceLower: roundTo(math.Max(0, prediction-zScore*recentStd), 1),
			ConfidenceUpper: roundTo(prediction+zScore*recentStd, 1),
		})
	}
	return points
}

// Accuracy backtests the forecaster on a held-out suffix of the series. It
// returns nil when the series is too short to split. The backtest model is
// fit on the training prefix only and never published, so cached
// full-history models cannot leak into the evaluation.
func (f *Forecaster) Accuracy(ctx context.Context, productID string, series []domain.SalesRecord, testDays int) *domain.AccuracyMetrics {
	if testDays <= 0 {
		testDays = 7
	}
	if len(series) < testDays+f.minTrainingRows {
		return nil
	}

	records := sortedCopy(series)
	trainSet := records[:len(records)-testDays]
	testSet := records[len(records)-testDays:]

	var points []domain.ForecastPoint
	if model, err := f.fit(trainSet); err == nil {
		points, err = f.project(model, trainSet, testDays)
		if err != nil {
			points = f.fallbackForecast(trainSet, testDays)
		}
	} else {
		points = f.fallbackForecast(trainSet, testDays)
	}
	if len(points) < testDays {
		return nil
	}

	var absErrSum float64
	var pctErrSum float64
	nonzero := 0
	for i, rec := range testSet {
		actual := float64(rec.UnitsSold)
		diff := math.Abs(actual - points[i].Predicted)
		absErrSum += diff
		if actual != 0 {
			pctErrSum += diff / actual
			nonzero++
		}
	}

	metrics := &domain.AccuracyMetrics{
		MAE: roundTo(absErrSum/float64(testDays), 2),
	}
	if nonzero > 0 {
		mape := roundTo(pctErrSum/float64(nonzero)*100, 2)
		accuracy := roundTo(math.Max(0, 100-mape), 1)
		metrics.MAPE = &mape
		metrics.Accuracy = &accuracy
	} else {
		log.Debug().Str("product_id", productID).Msg("all held-out actuals are zero, MAPE undefined")
	}
	return metrics
}

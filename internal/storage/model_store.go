package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/freshmark/backend-go/internal/domain"
)

// ModelObjectStore persists trained models in object storage as two blobs per
// product: the fitted regressor and its standardization parameters. It
// satisfies the same contract as the redis model cache.
type ModelObjectStore struct {
	backend ObjectStorage
}

type regressorObject struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	Observations int       `json:"observations"`
	TrainedAt    time.Time `json:"trained_at"`
}

type scalerObject struct {
	Means  []float64 `json:"means"`
	Scales []float64 `json:"scales"`
}

func NewModelObjectStore(backend ObjectStorage) *ModelObjectStore {
	return &ModelObjectStore{backend: backend}
}

func regressorObjectKey(productID string) string {
	return fmt.Sprintf("models/%s/regressor.json", productID)
}

func scalerObjectKey(productID string) string {
	return fmt.Sprintf("models/%s/scaler.json", productID)
}

func (s *ModelObjectStore) Get(ctx context.Context, productID string) (*domain.TrainedModel, bool, error) {
	rawRegressor, ok, err := s.backend.GetObject(ctx, regressorObjectKey(productID))
	if err != nil || !ok {
		return nil, false, err
	}
	rawScaler, ok, err := s.backend.GetObject(ctx, scalerObjectKey(productID))
	if err != nil || !ok {
		return nil, false, err
	}

	var reg regressorObject
	if err := json.Unmarshal(rawRegressor, &reg); err != nil {
		return nil, false, fmt.Errorf("decode stored model: %w", err)
	}
	var sc scalerObject
	if err := json.Unmarshal(rawScaler, &sc); err != nil {
		return nil, false, fmt.Errorf("decode stored model: %w", err)
	}

	return &domain.TrainedModel{
		Coefficients:  reg.Coefficients,
		Intercept:     reg.Intercept,
		Observations:  reg.Observations,
		TrainedAt:     reg.TrainedAt,
		FeatureMeans:  sc.Means,
		FeatureScales: sc.Scales,
	}, true, nil
}

func (s *ModelObjectStore) Put(ctx context.Context, productID string, model *domain.TrainedModel) error {
	rawRegressor, err := json.Marshal(regressorObject{
		Coefficients: model.Coefficients,
		Intercept:    model.Intercept,
		Observations: model.Observations,
		TrainedAt:    model.TrainedAt,
	})
	if err != nil {
		return fmt.Errorf("encode stored model: %w", err)
	}
	rawScaler, err := json.Marshal(scalerObject{
		Means:  model.FeatureMeans,
		Scales: model.FeatureScales,
	})
	if err != nil {
		return fmt.Errorf("encode stored model: %w", err)
	}

	if err := s.backend.PutObject(ctx, regressorObjectKey(productID), rawRegressor); err != nil {
		return err
	}
	return s.backend.PutObject(ctx, scalerObjectKey(productID), rawScaler)
}

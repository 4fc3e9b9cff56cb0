package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/freshmark/backend-go/internal/config"
	"github.com/freshmark/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
)

const modelKeyPrefix = "model"

// ModelCache is the durable store for trained models, addressed by product id.
// Absent entries are reported via the bool, not an error.
type ModelCache interface {
	Get(ctx context.Context, productID string) (*domain.TrainedModel, bool, error)
	Put(ctx context.Context, productID string, model *domain.TrainedModel) error
}

// regressorBlob and scalerBlob are the two logical blobs stored per entry:
// the fitted coefficients and the standardization parameters.
type regressorBlob struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	Observations int       `json:"observations"`
	TrainedAt    time.Time `json:"trained_at"`
}

type scalerBlob struct {
	Means  []float64 `json:"means"`
	Scales []float64 `json:"scales"`
}

type redisModelCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopModelCache struct{}

// NewRedisModelCache connects to redis and verifies it with a ping.
func NewRedisModelCache(cfg config.CacheConfig) (ModelCache, error) {
	client, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}
	return &redisModelCache{
		client: client,
		ttl:    time.Duration(cfg.ModelTTLSeconds) * time.Second,
	}, nil
}

func NewNoopModelCache() ModelCache {
	return &noopModelCache{}
}

func regressorKey(productID string) string {
	return fmt.Sprintf("%s:%s:regressor", modelKeyPrefix, productID)
}

func scalerKey(productID string) string {
	return fmt.Sprintf("%s:%s:scaler", modelKeyPrefix, productID)
}

func (c *redisModelCache) Get(ctx context.Context, productID string) (*domain.TrainedModel, bool, error) {
	rawRegressor, err := c.client.Get(ctx, regressorKey(productID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	rawScaler, err := c.client.Get(ctx, scalerKey(productID)).Bytes()
	if err == redis.Nil {
		// Half an entry is no entry.
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var reg regressorBlob
	if err := json.Unmarshal(rawRegressor, &reg); err != nil {
		return nil, false, fmt.Errorf("decode model cache entry: %w", err)
	}
	var sc scalerBlob
	if err := json.Unmarshal(rawScaler, &sc); err != nil {
		return nil, false, fmt.Errorf("decode model cache entry: %w", err)
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

func (c *redisModelCache) Put(ctx context.Context, productID string, model *domain.TrainedModel) error {
	rawRegressor, err := json.Marshal(regressorBlob{
		Coefficients: model.Coefficients,
		Intercept:    model.Intercept,
		Observations: model.Observations,
		TrainedAt:    model.TrainedAt,
	})
	if err != nil {
		return fmt.Errorf("encode model cache entry: %w", err)
	}
	rawScaler, err := json.Marshal(scalerBlob{
		Means:  model.FeatureMeans,
		Scales: model.FeatureScales,
	})
	if err != nil {
		return fmt.Errorf("encode model cache entry: %w", err)
	}

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, regressorKey(productID), rawRegressor, c.ttl)
	pipe.Set(ctx, scalerKey(productID), rawScaler, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (n *noopModelCache) Get(ctx context.Context, productID string) (*domain.TrainedModel, bool, error) {
	return nil, false, nil
}

func (n *noopModelCache) Put(ctx context.Context, productID string, model *domain.TrainedModel) error {
	return nil
}

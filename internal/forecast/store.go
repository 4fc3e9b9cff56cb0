// internal/forecast/store.go
package forecast

import (
	"context"
	"sync"

	"github.com/freshmark/backend-go/internal/cache"
	"github.com/freshmark/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// ModelStore resolves trained models: in-memory first, durable cache second.
// Training for a given product id runs at most once at a time; concurrent
// callers share the published result. Published models are immutable and
// replaced wholesale on retrain.
type ModelStore struct {
	mu      sync.RWMutex
	models  map[string]*domain.TrainedModel
	durable cache.ModelCache
	group   singleflight.Group
}

func NewModelStore(durable cache.ModelCache) *ModelStore {
	if durable == nil {
		durable = cache.NewNoopModelCache()
	}
	return &ModelStore{
		models:  make(map[string]*domain.TrainedModel),
		durable: durable,
	}
}

// Load looks a model up in memory, then in the durable cache. A durable hit
// is promoted into memory.
func (s *ModelStore) Load(ctx context.Context, productID string) (*domain.TrainedModel, bool) {
	s.mu.RLock()
	m, ok := s.models[productID]
	s.mu.RUnlock()
	if ok {
		return m, true
	}

	m, ok, err := s.durable.Get(ctx, productID)
	if err != nil {
		log.Warn().Err(err).Str("product_id", productID).Msg("model cache: durable get failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	s.mu.Lock()
	s.models[productID] = m
	s.mu.Unlock()
	return m, true
}

// Publish installs a freshly trained model in memory and overwrites any
// durable entry for the product. Durable write failures are logged, not
// surfaced; the in-memory copy still serves.
func (s *ModelStore) Publish(ctx context.Context, productID string, m *domain.TrainedModel) {
	s.mu.Lock()
	s.models[productID] = m
	s.mu.Unlock()

	if err := s.durable.Put(ctx, productID, m); err != nil {
		log.Warn().Err(err).Str("product_id", productID).Msg("model cache: durable put failed")
	}
}

// TrainOnce runs train for the product unless another caller is already
// training it, in which case the caller waits for that run's model.
func (s *ModelStore) TrainOnce(ctx context.Context, productID string, train func() (*domain.TrainedModel, error)) (*domain.TrainedModel, error) {
	v, err, _ := s.group.Do(productID, func() (interface{}, error) {
		// A concurrent caller may have just published.
		s.mu.RLock()
		if m, ok := s.models[productID]; ok {
			s.mu.RUnlock()
			return m, nil
		}
		s.mu.RUnlock()

		m, err := train()
		if err != nil {
			return nil, err
		}
		s.Publish(ctx, productID, m)
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.TrainedModel), nil
}

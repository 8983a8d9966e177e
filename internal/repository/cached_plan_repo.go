package repository

import (
	"context"
	"time"

	"github.com/vivotour/vivotour/internal/domain"
)

const planCacheTTL = 5 * time.Minute

// CachedPlanRepository wraps MongoPlanRepository with Redis caching.
// Plans are read on every public page load but change rarely.
type CachedPlanRepository struct {
	mongo *MongoPlanRepository
	cache *RedisCacheRepository
}

// NewCachedPlanRepository creates a new cached plan repository
func NewCachedPlanRepository(mongo *MongoPlanRepository, cache *RedisCacheRepository) *CachedPlanRepository {
	return &CachedPlanRepository{
		mongo: mongo,
		cache: cache,
	}
}

// GetByID retrieves a plan by ID with caching
func (r *CachedPlanRepository) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	key := planByIDKeyPrefix + id

	var plan domain.Plan
	if err := r.cache.Get(ctx, key, &plan); err == nil {
		return &plan, nil
	}

	result, err := r.mongo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Store in cache (ignore cache errors)
	_ = r.cache.Set(ctx, key, result, planCacheTTL)

	return result, nil
}

// GetActivePlans retrieves the public plan catalogue with caching
func (r *CachedPlanRepository) GetActivePlans(ctx context.Context) ([]*domain.Plan, error) {
	var plans []*domain.Plan
	if err := r.cache.Get(ctx, activePlansKey, &plans); err == nil {
		return plans, nil
	}

	result, err := r.mongo.GetActivePlans(ctx)
	if err != nil {
		return nil, err
	}

	_ = r.cache.Set(ctx, activePlansKey, result, planCacheTTL)

	return result, nil
}

// Create creates a plan and invalidates the catalogue cache
func (r *CachedPlanRepository) Create(ctx context.Context, plan *domain.Plan) error {
	if err := r.mongo.Create(ctx, plan); err != nil {
		return err
	}
	_ = r.cache.Delete(ctx, activePlansKey)
	return nil
}

// Update updates a plan and invalidates its caches
func (r *CachedPlanRepository) Update(ctx context.Context, plan *domain.Plan) error {
	if err := r.mongo.Update(ctx, plan); err != nil {
		return err
	}
	_ = r.cache.Delete(ctx, planByIDKeyPrefix+plan.ID, activePlansKey)
	return nil
}

// Delete deletes a plan and invalidates its caches
func (r *CachedPlanRepository) Delete(ctx context.Context, id string) error {
	if err := r.mongo.Delete(ctx, id); err != nil {
		return err
	}
	_ = r.cache.Delete(ctx, planByIDKeyPrefix+id, activePlansKey)
	return nil
}

// === Pass-through methods (no caching) ===

func (r *CachedPlanRepository) GetAll(ctx context.Context) ([]*domain.Plan, error) {
	return r.mongo.GetAll(ctx)
}

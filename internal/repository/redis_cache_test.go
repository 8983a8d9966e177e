package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vivotour/vivotour/internal/domain"
)

func newTestCache(t *testing.T) (*RedisCacheRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCacheRepository(client), mr
}

func TestRedisCache_SetGet(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	plan := &domain.Plan{
		ID:        "plan_1",
		Title:     "Cabaña Fénix",
		Price:     600000,
		PriceType: domain.PriceTypePerCouple,
	}
	require.NoError(t, cache.Set(ctx, planByIDKeyPrefix+plan.ID, plan, time.Minute))

	var got domain.Plan
	require.NoError(t, cache.Get(ctx, planByIDKeyPrefix+plan.ID, &got))
	assert.Equal(t, plan.Title, got.Title)
	assert.Equal(t, plan.Price, got.Price)
}

func TestRedisCache_Miss(t *testing.T) {
	cache, _ := newTestCache(t)

	var got domain.Plan
	err := cache.Get(context.Background(), planByIDKeyPrefix+"missing", &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_Expiry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, activePlansKey, []*domain.Plan{{ID: "plan_1"}}, time.Minute))
	mr.FastForward(2 * time.Minute)

	var got []*domain.Plan
	err := cache.Get(ctx, activePlansKey, &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_DeleteByPattern(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "availability:plan_1:2027-01-01:2027-01-05", true, time.Minute))
	require.NoError(t, cache.Set(ctx, "availability:plan_1:2027-02-01:2027-02-05", true, time.Minute))
	require.NoError(t, cache.Set(ctx, "availability:plan_2:2027-01-01:2027-01-05", true, time.Minute))

	require.NoError(t, cache.InvalidatePlanAvailability(ctx, "plan_1"))

	var got bool
	assert.ErrorIs(t, cache.Get(ctx, "availability:plan_1:2027-01-01:2027-01-05", &got), ErrCacheMiss)
	assert.NoError(t, cache.Get(ctx, "availability:plan_2:2027-01-01:2027-01-05", &got))
}

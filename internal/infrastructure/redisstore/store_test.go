package redisstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/jhoicas/clinic-console/internal/domain/entity"
	"github.com/jhoicas/clinic-console/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*miniredis.Miniredis, *Store) {
	mr := miniredis.RunT(t)
	c := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = c.Close() })
	return mr, New(c)
}

func TestStore_PutGetDelete(t *testing.T) {
	mr, s := setupStore(t)
	ctx := context.Background()
	key := repository.TenantKey("t1", "onboarding")

	var doc entity.OnboardingDocument
	found, err := s.Get(ctx, key, &doc)
	require.NoError(t, err)
	assert.False(t, found)

	in := entity.OnboardingDocument{
		Version:  entity.OnboardingDocumentVersion,
		Progress: &entity.OnboardingProgress{CurrentStep: 2, Outlets: []entity.OutletDraft{{ID: "o1", Name: "Jakarta"}}},
	}
	require.NoError(t, s.Put(ctx, key, in))
	assert.True(t, mr.Exists("tenant:t1:onboarding"))
	assert.Zero(t, mr.TTL(key), "sin expiración")

	found, err = s.Get(ctx, key, &doc)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2, doc.Progress.CurrentStep)
	assert.Equal(t, "Jakarta", doc.Progress.Outlets[0].Name)

	require.NoError(t, s.Put(ctx, "tenant:t1:other", map[string]int{"a": 1}))
	require.NoError(t, s.Delete(ctx, key, "tenant:t1:other", "tenant:t1:missing"))
	assert.False(t, mr.Exists(key))
	assert.False(t, mr.Exists("tenant:t1:other"))
	require.NoError(t, s.Delete(ctx))
}

func TestStore_CorruptDocument(t *testing.T) {
	mr, s := setupStore(t)
	require.NoError(t, mr.Set("tenant:t1:settings", "{not json"))

	var doc entity.TenantSettingsDocument
	found, err := s.Get(context.Background(), "tenant:t1:settings", &doc)
	assert.True(t, found)
	assert.Error(t, err)
}

func TestStore_ConnectionFailure(t *testing.T) {
	mr, s := setupStore(t)
	mr.Close()

	var v map[string]any
	_, err := s.Get(context.Background(), "k", &v)
	assert.Error(t, err)
	assert.Error(t, s.Put(context.Background(), "k", v))
}

func TestStore_ReplaceIsAtomicSwap(t *testing.T) {
	mr, s := setupStore(t)
	ctx := context.Background()
	require.NoError(t, mr.Set("tenant:t1:onboardingProgress", `{"current_step":2}`))
	require.NoError(t, mr.Set("tenant:t1:onboardingCompleted", `{"completed":false}`))

	doc := entity.OnboardingDocument{Version: entity.OnboardingDocumentVersion}
	require.NoError(t, s.Replace(ctx, "tenant:t1:onboarding", doc, "tenant:t1:onboardingProgress", "tenant:t1:onboardingCompleted"))

	assert.True(t, mr.Exists("tenant:t1:onboarding"))
	assert.False(t, mr.Exists("tenant:t1:onboardingProgress"))
	assert.False(t, mr.Exists("tenant:t1:onboardingCompleted"))
}

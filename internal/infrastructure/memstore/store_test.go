package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Version int      `json:"version"`
	Items   []string `json:"items"`
}

func TestStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := New()

	var got doc
	found, err := s.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)

	in := doc{Version: 2, Items: []string{"a"}}
	require.NoError(t, s.Put(ctx, "k", in))
	in.Items[0] = "mutado"

	found, err = s.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, doc{Version: 2, Items: []string{"a"}}, got)

	require.NoError(t, s.Delete(ctx, "k", "inexistente"))
	assert.Equal(t, 0, s.Len())
}

func TestStore_Replace(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Put(ctx, "viejo-a", doc{Version: 1}))
	require.NoError(t, s.Put(ctx, "viejo-b", doc{Version: 1}))

	require.NoError(t, s.Replace(ctx, "nuevo", doc{Version: 2}, "viejo-a", "viejo-b"))
	assert.Equal(t, 1, s.Len())

	var got doc
	found, err := s.Get(ctx, "nuevo", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2, got.Version)
}

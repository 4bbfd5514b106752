package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDisconnectedCacheIsBypassed(t *testing.T) {
	RDB = nil
	ctx := context.Background()

	var dest []string
	assert.False(t, Get(ctx, "catalog:products", &dest))
	assert.NoError(t, Set(ctx, "catalog:products", []string{"a"}, time.Minute))
	assert.NoError(t, Del(ctx, "catalog:products"))
	assert.NoError(t, Close())

	var s Store
	assert.False(t, s.Get(ctx, "k", &dest))
	assert.NoError(t, s.Set(ctx, "k", 1, time.Second))
	assert.NoError(t, s.Del(ctx))
}

package mem_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mem "concierge/pkg/memcache"
)

func TestLocalStore_SetGet(t *testing.T) {
	s := mem.NewLocalStore(time.Minute, time.Minute)
	ctx := context.Background()

	s.Set(ctx, "zurich", []byte(`[8.5417,47.3769]`), time.Minute)

	got, ok := s.Get(ctx, "zurich")
	require.True(t, ok)
	assert.Equal(t, `[8.5417,47.3769]`, string(got))
}

func TestLocalStore_Miss(t *testing.T) {
	s := mem.NewLocalStore(time.Minute, time.Minute)

	_, ok := s.Get(context.Background(), "bern")
	assert.False(t, ok)
}

func TestLocalStore_Expires(t *testing.T) {
	s := mem.NewLocalStore(time.Minute, time.Minute)
	ctx := context.Background()

	s.Set(ctx, "lucerne", []byte("x"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	_, ok := s.Get(ctx, "lucerne")
	assert.False(t, ok)
}

func TestLocalStore_ReturnsCopy(t *testing.T) {
	s := mem.NewLocalStore(time.Minute, time.Minute)
	ctx := context.Background()

	s.Set(ctx, "k", []byte("abc"), time.Minute)
	got, _ := s.Get(ctx, "k")
	got[0] = 'z'

	again, _ := s.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

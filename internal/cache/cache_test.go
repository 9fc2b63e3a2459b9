package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedPost struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	prev := SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(prev) })
	return mr
}

func TestGetJSON_MissReturnsFalse(t *testing.T) {
	setupMiniredis(t)

	var dest cachedPost
	found, err := GetJSON(context.Background(), PostKey(42), &dest)
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestSetJSON_ThenGetJSONRoundTrip(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	want := cachedPost{ID: 7, Title: "Goroutines vs callbacks"}
	require.NoError(t, SetJSON(ctx, PostKey(want.ID), want, PostTTL))

	var got cachedPost
	found, err := GetJSON(ctx, PostKey(want.ID), &got)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)
}

func TestAside_FetchesOnceThenServesFromCache(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedPost) func() error {
		return func() error {
			fetches++
			*dest = cachedPost{ID: 3, Title: "Channel patterns"}
			return nil
		}
	}

	var first cachedPost
	require.NoError(t, Aside(ctx, PostKey(3), &first, PostTTL, fetch(&first)))
	assert.Equal(t, 1, fetches)

	var second cachedPost
	require.NoError(t, Aside(ctx, PostKey(3), &second, PostTTL, fetch(&second)))
	assert.Equal(t, 1, fetches, "second read should hit the cache")
	assert.Equal(t, first, second)
}

func TestInvalidatePost_DropsPostAndListKeys(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, PostKey(5), cachedPost{ID: 5}, PostTTL))
	require.NoError(t, SetJSON(ctx, RecentPostsKey(20, 0), []cachedPost{{ID: 5}}, RecentPostsTTL))
	require.NoError(t, SetJSON(ctx, RecentPostsKey(20, 20), []cachedPost{{ID: 4}}, RecentPostsTTL))
	require.NoError(t, SetJSON(ctx, CategoryKey("React", 20, 0), []cachedPost{{ID: 5}}, CategoryTTL))
	require.NoError(t, SetJSON(ctx, CategoryKey("Node.js", 10, 0), []cachedPost{{ID: 2}}, CategoryTTL))
	require.NoError(t, SetJSON(ctx, UserKey(9), cachedPost{ID: 9}, UserTTL))

	InvalidatePost(ctx, 5)

	assert.False(t, mr.Exists(PostKey(5)))
	assert.False(t, mr.Exists(RecentPostsKey(20, 0)))
	assert.False(t, mr.Exists(RecentPostsKey(20, 20)))
	assert.False(t, mr.Exists(CategoryKey("React", 20, 0)))
	assert.False(t, mr.Exists(CategoryKey("Node.js", 10, 0)))
	assert.True(t, mr.Exists(UserKey(9)), "unrelated keys must survive the pattern delete")
}

func TestHelpers_NoopWithoutClient(t *testing.T) {
	prev := SetClient(nil)
	t.Cleanup(func() { SetClient(prev) })
	ctx := context.Background()

	assert.NoError(t, SetJSON(ctx, PostKey(1), cachedPost{ID: 1}, time.Minute))

	var dest cachedPost
	found, err := GetJSON(ctx, PostKey(1), &dest)
	assert.NoError(t, err)
	assert.False(t, found)

	fetched := false
	err = Aside(ctx, PostKey(1), &dest, time.Minute, func() error {
		fetched = true
		dest = cachedPost{ID: 1}
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, fetched)
}

func TestInvalidateAuthoredContent_DropsPostsAndListings(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, PostKey(5), cachedPost{ID: 5}, PostTTL))
	require.NoError(t, SetJSON(ctx, PostKey(8), cachedPost{ID: 8}, PostTTL))
	require.NoError(t, SetJSON(ctx, RecentPostsKey(20, 0), []cachedPost{{ID: 5}}, RecentPostsTTL))
	require.NoError(t, SetJSON(ctx, UserKey(3), cachedPost{ID: 3}, UserTTL))

	InvalidateAuthoredContent(ctx)

	assert.False(t, mr.Exists(PostKey(5)))
	assert.False(t, mr.Exists(PostKey(8)))
	assert.False(t, mr.Exists(RecentPostsKey(20, 0)))
	assert.True(t, mr.Exists(UserKey(3)), "user entries are invalidated separately")
}

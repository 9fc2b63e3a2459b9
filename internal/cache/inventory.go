package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix        = "user:%d"
	PostKeyPrefix        = "post:%d"
	RecentPostsKeyPrefix = "posts:recent:%d:%d"
	CategoryKeyPrefix    = "posts:category:%s:%d:%d"
)

const (
	UserTTL        = 5 * time.Minute
	PostTTL        = 30 * time.Minute
	RecentPostsTTL = 1 * time.Minute
	CategoryTTL    = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

// RecentPostsKey identifies one page of the newest-first post listing.
func RecentPostsKey(limit, offset int) string {
	return fmt.Sprintf(RecentPostsKeyPrefix, limit, offset)
}

// CategoryKey identifies one page of a category listing. The category must
// already be in canonical form.
func CategoryKey(category string, limit, offset int) string {
	return fmt.Sprintf(CategoryKeyPrefix, category, limit, offset)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidatePattern deletes every key matching the glob pattern. Uses SCAN
// rather than KEYS so it stays safe on a busy instance.
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidatePost drops the post entry and every listing page it may appear in.
func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
	InvalidatePostLists(ctx)
}

// InvalidatePostLists drops all cached listing pages. Pages are keyed by
// limit and offset, so a pattern delete is the only way to clear them; both
// the old and new category of an edited post are covered.
func InvalidatePostLists(ctx context.Context) {
	InvalidatePattern(ctx, "posts:recent:*")
	InvalidatePattern(ctx, "posts:category:*")
}

// InvalidateAuthoredContent drops every cached post payload and listing
// page. Post payloads embed the author's username and bio, so a profile
// change would otherwise serve stale author data for up to PostTTL.
func InvalidateAuthoredContent(ctx context.Context) {
	InvalidatePattern(ctx, "post:*")
	InvalidatePostLists(ctx)
}

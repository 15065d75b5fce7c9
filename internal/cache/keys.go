package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Cache TTLs per key family.
const (
	PostTTL       = 5 * time.Minute
	CategoryTTL   = 30 * time.Minute
	MilestoneTTL  = time.Hour
	ChatStatsTTL  = 5 * time.Minute
	postsListScan = "posts:list:*"
)

// PostKey returns the cache key for a single post.
func PostKey(id uuid.UUID) string {
	return fmt.Sprintf("post:%s", id)
}

// PostsListKey returns the cache key for one page of the post catalog.
func PostsListKey(postType, categoryID, sort string, page, limit int) string {
	return fmt.Sprintf("posts:list:%s:%s:%s:%d:%d", postType, categoryID, sort, page, limit)
}

// ChatStatsKey returns the cache key for a user's chat usage stats.
func ChatStatsKey(userID uuid.UUID) string {
	return fmt.Sprintf("chat:stats:%s", userID)
}

// CategoriesKey is the cache key for the active category list.
func CategoriesKey() string {
	return "categories:active"
}

// MilestonesKey returns the cache key for a filtered milestone catalog view.
func MilestonesKey(ageGroup, area string) string {
	return fmt.Sprintf("milestones:%s:%s", ageGroup, area)
}

// InvalidatePostsList drops every cached page of the post catalog.
func InvalidatePostsList(ctx context.Context) {
	if client == nil {
		return
	}

	iter := client.Scan(ctx, 0, postsListScan, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	Invalidate(ctx, keys...)
}

package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	PostKeyPrefix      = "post:%d"
	IndexPageKeyPrefix = "posts:index:page:%d"
	GroupKeyPrefix     = "group:%s"
	RevokedSessionKey  = "session:revoked:%s"
	indexPagePattern   = "posts:index:page:*"
)

const (
	PostTTL  = 10 * time.Minute
	GroupTTL = 30 * time.Minute
)

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func IndexPageKey(page int) string {
	return fmt.Sprintf(IndexPageKeyPrefix, page)
}

func GroupKey(slug string) string {
	return fmt.Sprintf(GroupKeyPrefix, slug)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

// InvalidateIndex drops every cached index page.
func InvalidateIndex(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, indexPagePattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	Invalidate(ctx, keys...)
}

// RevokeSession marks a session id as logged out until it would have expired anyway.
func RevokeSession(ctx context.Context, jti string, ttl time.Duration) error {
	if client == nil || jti == "" || ttl <= 0 {
		return nil
	}
	return client.Set(ctx, fmt.Sprintf(RevokedSessionKey, jti), 1, ttl).Err()
}

// IsSessionRevoked reports whether RevokeSession was called for jti.
// Without Redis nothing is ever revoked.
func IsSessionRevoked(ctx context.Context, jti string) bool {
	if client == nil || jti == "" {
		return false
	}
	n, err := client.Exists(ctx, fmt.Sprintf(RevokedSessionKey, jti)).Result()
	return err == nil && n > 0
}

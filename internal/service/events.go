package service

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"go-storefront/internal/cache"
	"go-storefront/internal/ws"
)

const (
	actionCreated = "created"
	actionUpdated = "updated"
	actionDeleted = "deleted"
)

// ChangeFeed fans catalog writes out to websocket clients and drops stale
// storefront cache entries. A nil feed does nothing.
type ChangeFeed struct {
	Publisher ws.Publisher
	Cache     *StorefrontCache
}

func NewChangeFeed(p ws.Publisher, c *StorefrontCache) *ChangeFeed {
	return &ChangeFeed{Publisher: p, Cache: c}
}

func (f *ChangeFeed) changed(ctx context.Context, actor Actor, resource, action string, ids []uint, label string) {
	if f == nil {
		return
	}
	f.Cache.Invalidate(ctx)
	if f.Publisher == nil {
		return
	}

	msg := fmt.Sprintf("%s %s %d %s", actor.display(), action, len(ids), resource)
	if label != "" {
		msg = fmt.Sprintf("%s %s %s '%s'", actor.display(), action, singular(resource), label)
	}
	f.Publisher.Publish(ws.Event{
		Type:     ws.EventCatalogUpdate,
		Resource: resource,
		Action:   action,
		IDs:      ids,
		Message:  msg,
	})
}

func singular(resource string) string {
	if resource == "categories" {
		return "category"
	}
	return strings.TrimSuffix(resource, "s")
}

const storefrontVersionKey = "storefront:version"

// StorefrontCache keys public catalog reads by a version counter, so one
// increment retires every cached page and product.
type StorefrontCache struct {
	c   cache.Cache
	ttl time.Duration
}

func NewStorefrontCache(c cache.Cache, ttl time.Duration) *StorefrontCache {
	if c == nil {
		c = cache.Nop{}
	}
	return &StorefrontCache{c: c, ttl: ttl}
}

// key names one read: the query is url-encoded so user input such as a
// search containing ":" cannot collide with another request's key.
func (s *StorefrontCache) key(ctx context.Context, name string, query url.Values) string {
	version := "0"
	if raw, ok, err := s.c.Get(ctx, storefrontVersionKey); err == nil && ok {
		version = string(raw)
	}
	return "storefront:v" + version + ":" + name + "?" + query.Encode()
}

func (s *StorefrontCache) Invalidate(ctx context.Context) {
	if s == nil || !s.c.Enabled() {
		return
	}
	if _, err := s.c.Incr(ctx, storefrontVersionKey, 0); err != nil {
		log.Printf("cache: bump storefront version: %v", err)
	}
}

func remember[T any](ctx context.Context, s *StorefrontCache, load func() (T, error), name string, query url.Values) (T, error) {
	if s == nil {
		return load()
	}
	return cache.Remember(ctx, s.c, s.key(ctx, name, query), s.ttl, load)
}

// Package cache provides a thread-safe generic cache and the rendered preview cache.
package cache

import (
	"html/template"
	"sync"
)

type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		items: make(map[K]V),
	}
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, ok := c.items[key]
	return val, ok
}

func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}

func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]V)
}

func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// MaxRenderedPreviews bounds the preview cache. Every keystroke in the composer can
// produce a new entry, so the cache starts over once it is full.
const MaxRenderedPreviews = 512

var (
	renderedPreviewCache = NewCache[string, template.HTML]()
	staticCache          = NewCache[string, string]()
)

func previewKey(contentHash, syntaxTheme string) string {
	return contentHash + ":" + syntaxTheme
}

// GetRenderedPreview returns the cached preview HTML for content rendered with a syntax theme.
func GetRenderedPreview(contentHash, syntaxTheme string) (template.HTML, bool) {
	return renderedPreviewCache.Get(previewKey(contentHash, syntaxTheme))
}

func SetRenderedPreview(contentHash, syntaxTheme string, html template.HTML) {
	if renderedPreviewCache.Len() >= MaxRenderedPreviews {
		renderedPreviewCache.Clear()
	}
	renderedPreviewCache.Set(previewKey(contentHash, syntaxTheme), html)
}

func ClearRenderedPreviewCache() {
	renderedPreviewCache.Clear()
}

func RenderedPreviewCount() int {
	return renderedPreviewCache.Len()
}

// GetStaticHash returns the content hash of an embedded static file by URL path.
func GetStaticHash(path string) (string, bool) {
	return staticCache.Get(path)
}

func SetStaticHash(path, hash string) {
	staticCache.Set(path, hash)
}

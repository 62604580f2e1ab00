package cache

import (
	"fmt"
	"html/template"
	"sync"
	"testing"
)

func TestCache_BasicOperations(t *testing.T) {
	cache := NewCache[string, string]()

	t.Run("Set and Get", func(t *testing.T) {
		cache.Set("test-key", "test-value")

		got, exists := cache.Get("test-key")
		if !exists {
			t.Fatal("Expected key to exist")
		}
		if got != "test-value" {
			t.Errorf("Expected %q, got %q", "test-value", got)
		}
	})

	t.Run("Get non-existent key", func(t *testing.T) {
		if _, exists := cache.Get("non-existent"); exists {
			t.Error("Expected key to not exist")
		}
	})

	t.Run("Overwrite existing key", func(t *testing.T) {
		cache.Set("overwrite-key", "value1")
		cache.Set("overwrite-key", "value2")

		got, _ := cache.Get("overwrite-key")
		if got != "value2" {
			t.Errorf("Expected %q, got %q", "value2", got)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		cache.Set("doomed", "x")
		cache.Delete("doomed")
		if _, exists := cache.Get("doomed"); exists {
			t.Error("Expected key to be deleted")
		}
		// Deleting again must not panic
		cache.Delete("doomed")
	})

	t.Run("Clear and Len", func(t *testing.T) {
		cache.Set("a", "1")
		if cache.Len() == 0 {
			t.Fatal("Expected non-empty cache")
		}
		cache.Clear()
		if cache.Len() != 0 {
			t.Errorf("Expected empty cache after Clear, got %d items", cache.Len())
		}
	})
}

func TestCache_Concurrency(t *testing.T) {
	cache := NewCache[int, int]()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				cache.Set(w*1000+i, i)
				cache.Get(w*1000 + i)
				if i%50 == 0 {
					cache.Delete(w*1000 + i)
				}
			}
		}(w)
	}
	wg.Wait()

	if got, want := cache.Len(), 8*(200-4); got != want {
		t.Errorf("Expected %d items, got %d", want, got)
	}
}

func TestRenderedPreviewCache(t *testing.T) {
	ClearRenderedPreviewCache()

	t.Run("Keyed by hash and theme", func(t *testing.T) {
		SetRenderedPreview("hash-1", "github", template.HTML("<p>github</p>"))
		SetRenderedPreview("hash-1", "monokai", template.HTML("<p>monokai</p>"))

		got1, ok1 := GetRenderedPreview("hash-1", "github")
		got2, ok2 := GetRenderedPreview("hash-1", "monokai")
		if !ok1 || !ok2 {
			t.Fatal("Expected both themes to be cached")
		}
		if got1 == got2 {
			t.Error("Expected different HTML per syntax theme")
		}
	})

	t.Run("Miss", func(t *testing.T) {
		if _, ok := GetRenderedPreview("hash-1", "dracula"); ok {
			t.Error("Expected cache miss for unknown theme")
		}
	})

	t.Run("Bounded", func(t *testing.T) {
		ClearRenderedPreviewCache()
		for i := 0; i < MaxRenderedPreviews; i++ {
			SetRenderedPreview(fmt.Sprintf("hash-%d", i), "github", template.HTML("<p>x</p>"))
		}
		if RenderedPreviewCount() != MaxRenderedPreviews {
			t.Fatalf("Expected %d entries, got %d", MaxRenderedPreviews, RenderedPreviewCount())
		}

		SetRenderedPreview("overflow", "github", template.HTML("<p>y</p>"))
		if RenderedPreviewCount() != 1 {
			t.Errorf("Expected cache to start over when full, got %d entries", RenderedPreviewCount())
		}
		if _, ok := GetRenderedPreview("overflow", "github"); !ok {
			t.Error("Expected newest entry to be cached")
		}
	})

	t.Run("Clear", func(t *testing.T) {
		ClearRenderedPreviewCache()
		if RenderedPreviewCount() != 0 {
			t.Errorf("Expected empty preview cache, got %d", RenderedPreviewCount())
		}
	})
}

func TestStaticHash(t *testing.T) {
	SetStaticHash("/static/app.css", "abc")
	if hash, ok := GetStaticHash("/static/app.css"); !ok || hash != "abc" {
		t.Errorf("Expected static hash abc, got %q (found=%v)", hash, ok)
	}
}

func BenchmarkRenderedPreviewCache_Get(b *testing.B) {
	for i := 0; i < MaxRenderedPreviews; i++ {
		SetRenderedPreview(fmt.Sprintf("hash-%d", i), "github", template.HTML("<p>x</p>"))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		GetRenderedPreview(fmt.Sprintf("hash-%d", i%MaxRenderedPreviews), "github")
	}
}

package render

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/debemdeboas/postcraft/internal/cache"
)

func TestRenderPostKeepsLineBreaks(t *testing.T) {
	out := string(RenderPost([]byte("First line\nSecond line"), "github"))
	assert.Contains(t, out, "First line<br")
	assert.Contains(t, out, "Second line")
}

func TestRenderPostHashtags(t *testing.T) {
	out := string(RenderPost([]byte("Great day\n\n#Innovation #Growth email@host#nope"), "github"))

	assert.Contains(t, out, `<span class="hashtag">#Innovation</span>`)
	assert.Contains(t, out, `<span class="hashtag">#Growth</span>`)
	assert.NotContains(t, out, `<span class="hashtag">#nope</span>`)
	assert.NotContains(t, out, "<h1", "hashtags without a space are not headings")
}

func TestRenderPostDropsRawHTML(t *testing.T) {
	out := string(RenderPost([]byte("hello <script>alert(1)</script> & bye"), "github"))

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&amp;")
}

func TestRenderPostHighlightsCode(t *testing.T) {
	out := string(RenderPost([]byte("```go\nfunc main() {}\n```"), "github"))

	assert.Contains(t, out, `<div class="highlight">`)
	assert.Contains(t, out, "chroma")
}

func TestPreviewEmpty(t *testing.T) {
	assert.Contains(t, string(Preview("  \n", "github")), EmptyPreview)
}

func TestPreviewCached(t *testing.T) {
	cache.ClearRenderedPreviewCache()

	first := Preview("Cached #post", "github")
	assert.Equal(t, 1, cache.RenderedPreviewCount())

	second := Preview("Cached #post", "github")
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.RenderedPreviewCount())

	Preview("Cached #post", "monokai")
	assert.Equal(t, 2, cache.RenderedPreviewCount(), "entries are per syntax theme")
}

func TestPreviewConcurrent(t *testing.T) {
	cache.ClearRenderedPreviewCache()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out := Preview("Concurrent #render", "github")
			assert.True(t, strings.Contains(string(out), "hashtag"))
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, cache.RenderedPreviewCount())
}

package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debemdeboas/postcraft/internal/db"
	"github.com/debemdeboas/postcraft/internal/metrics"
	"github.com/debemdeboas/postcraft/internal/model"
	"github.com/debemdeboas/postcraft/internal/util/compression"
)

var fixedNow = time.Date(2025, time.March, 4, 10, 30, 0, 0, time.UTC)

type factory func(t *testing.T) DraftRepository

func newMemory(t *testing.T) DraftRepository {
	r := NewMemoryDraftRepository()
	r.now = func() time.Time { return fixedNow }
	return r
}

func newSQLite(t *testing.T) DraftRepository {
	t.Helper()
	database := db.NewSQLite(filepath.Join(t.TempDir(), "drafts.db"))
	require.NoError(t, database.InitDB(context.Background()))
	t.Cleanup(func() { database.Close() })

	r := NewDBDraftRepository(database, compression.ZstdCompressor{})
	r.now = func() time.Time { return fixedNow }
	return r
}

func newInstrumented(t *testing.T) DraftRepository {
	return NewInstrumentedDraftRepository(newMemory(t), metrics.New())
}

var implementations = map[string]factory{
	"memory":       newMemory,
	"sqlite":       newSQLite,
	"instrumented": newInstrumented,
}

func forEach(t *testing.T, test func(t *testing.T, repo DraftRepository)) {
	for name, f := range implementations {
		t.Run(name, func(t *testing.T) {
			test(t, f(t))
		})
	}
}

func titles(t *testing.T, repo DraftRepository, term string) []string {
	t.Helper()
	seq, err := repo.Search(context.Background(), term)
	require.NoError(t, err)

	out := make([]string, 0)
	for d := range seq {
		out = append(out, d.Title)
	}
	return out
}

func TestSaveDraft(t *testing.T) {
	forEach(t, func(t *testing.T, repo DraftRepository) {
		ctx := context.Background()

		d, err := repo.SaveDraft(ctx, model.Candidate{Title: "Hello", Content: "World #go"})
		require.NoError(t, err)

		assert.NotEmpty(t, d.ID)
		assert.Equal(t, "Hello", d.Title)
		assert.Equal(t, "World #go", d.Content)
		assert.True(t, d.CreatedAt.Equal(fixedNow))
		assert.True(t, d.UpdatedAt.Equal(d.CreatedAt))

		got, err := repo.GetDraft(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, d.Content, got.Content)
		assert.True(t, got.CreatedAt.Equal(fixedNow))

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestSaveDraftUntitled(t *testing.T) {
	forEach(t, func(t *testing.T, repo DraftRepository) {
		d, err := repo.SaveDraft(context.Background(), model.Candidate{Title: "   ", Content: "x"})
		require.NoError(t, err)
		assert.Equal(t, "Untitled - 2025-03-04", d.Title)
	})
}

func TestSaveDraftNeverUpserts(t *testing.T) {
	forEach(t, func(t *testing.T, repo DraftRepository) {
		ctx := context.Background()
		c := model.Candidate{Title: "Same", Content: "Same"}

		a, err := repo.SaveDraft(ctx, c)
		require.NoError(t, err)
		b, err := repo.SaveDraft(ctx, c)
		require.NoError(t, err)

		assert.NotEqual(t, a.ID, b.ID)
		assert.Equal(t, []string{"Same", "Same"}, titles(t, repo, ""))
	})
}

func TestSaveDraftImage(t *testing.T) {
	forEach(t, func(t *testing.T, repo DraftRepository) {
		ctx := context.Background()

		d, err := repo.SaveDraft(ctx, model.Candidate{Title: "Pic", Content: "c", HasImage: true, ImageURL: "https://example.com/a.png"})
		require.NoError(t, err)

		got, err := repo.GetDraft(ctx, d.ID)
		require.NoError(t, err)
		url, ok := got.Image()
		assert.True(t, ok)
		assert.Equal(t, "https://example.com/a.png", url)
	})
}

func TestGetDraftNotFound(t *testing.T) {
	forEach(t, func(t *testing.T, repo DraftRepository) {
		_, err := repo.GetDraft(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrDraftNotFound)
	})
}

func TestDeleteDraft(t *testing.T) {
	forEach(t, func(t *testing.T, repo DraftRepository) {
		ctx := context.Background()

		var ids []model.DraftID
		for _, title := range []string{"one", "two", "three"} {
			d, err := repo.SaveDraft(ctx, model.Candidate{Title: title, Content: title})
			require.NoError(t, err)
			ids = append(ids, d.ID)
		}

		require.NoError(t, repo.DeleteDraft(ctx, ids[1]))
		assert.Equal(t, []string{"one", "three"}, titles(t, repo, ""))

		_, err := repo.GetDraft(ctx, ids[1])
		assert.ErrorIs(t, err, ErrDraftNotFound)

		// remaining drafts are still addressable after the index shift
		got, err := repo.GetDraft(ctx, ids[2])
		require.NoError(t, err)
		assert.Equal(t, "three", got.Title)
	})
}

func TestDeleteDraftAbsentIsNoop(t *testing.T) {
	forEach(t, func(t *testing.T, repo DraftRepository) {
		ctx := context.Background()
		_, err := repo.SaveDraft(ctx, model.Candidate{Title: "keep", Content: "keep"})
		require.NoError(t, err)

		require.NoError(t, repo.DeleteDraft(ctx, "nope"))

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestSearch(t *testing.T) {
	forEach(t, func(t *testing.T, repo DraftRepository) {
		require.NoError(t, repo.Seed(context.Background(), ExampleDrafts()))

		tests := []struct {
			term string
			want []string
		}{
			{"", []string{"AI in the Workplace", "Remote Team Collaboration", "Career Growth Strategies"}},
			{"   ", []string{"AI in the Workplace", "Remote Team Collaboration", "Career Growth Strategies"}},
			{"remote", []string{"Remote Team Collaboration"}},
			{"REMOTE", []string{"Remote Team Collaboration"}},
			{"#leadership", []string{"Remote Team Collaboration", "Career Growth Strategies"}},
			{"xyzzy", []string{}},
		}

		for _, tt := range tests {
			assert.Equal(t, tt.want, titles(t, repo, tt.term), "term %q", tt.term)
		}
	})
}

func TestSearchIsIdempotent(t *testing.T) {
	forEach(t, func(t *testing.T, repo DraftRepository) {
		ctx := context.Background()
		require.NoError(t, repo.Seed(ctx, ExampleDrafts()))

		for _, term := range []string{"Lead", "#AI", "remote", "", "no such term"} {
			seq, err := repo.Search(ctx, term)
			require.NoError(t, err)
			first := Collect(seq)
			if term == "Lead" {
				assert.Len(t, first, 2)
			}

			again := Collect(filter(first, term))
			assert.Equal(t, first, again, "term %q", term)
		}
	})
}

func TestSearchIsASnapshot(t *testing.T) {
	forEach(t, func(t *testing.T, repo DraftRepository) {
		ctx := context.Background()
		_, err := repo.SaveDraft(ctx, model.Candidate{Title: "first", Content: "a"})
		require.NoError(t, err)

		seq, err := repo.Search(ctx, "")
		require.NoError(t, err)

		_, err = repo.SaveDraft(ctx, model.Candidate{Title: "second", Content: "b"})
		require.NoError(t, err)

		assert.Len(t, Collect(seq), 1)
	})
}

func TestSearchStopsEarly(t *testing.T) {
	forEach(t, func(t *testing.T, repo DraftRepository) {
		require.NoError(t, repo.Seed(context.Background(), ExampleDrafts()))

		seq, err := repo.Search(context.Background(), "")
		require.NoError(t, err)

		seen := 0
		for range seq {
			seen++
			break
		}
		assert.Equal(t, 1, seen)
	})
}

func TestSeedKeepsTimestamps(t *testing.T) {
	forEach(t, func(t *testing.T, repo DraftRepository) {
		ctx := context.Background()
		require.NoError(t, repo.Seed(ctx, ExampleDrafts()))

		d, err := repo.GetDraft(ctx, "example-2")
		require.NoError(t, err)
		assert.True(t, d.WasUpdated())
		assert.Equal(t, 16, d.UpdatedAt.Day())
	})
}

func TestMemoryConcurrentSaves(t *testing.T) {
	repo := NewMemoryDraftRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.SaveDraft(ctx, model.Candidate{Title: fmt.Sprint(i), Content: "c"})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, n)
}

func TestInstrumentedRecordsMetrics(t *testing.T) {
	m := metrics.New()
	repo := NewInstrumentedDraftRepository(NewMemoryDraftRepository(), m)
	ctx := context.Background()

	d, err := repo.SaveDraft(ctx, model.Candidate{Title: "t", Content: "c"})
	require.NoError(t, err)
	_, err = repo.SaveDraft(ctx, model.Candidate{Title: "u", Content: "c"})
	require.NoError(t, err)
	require.NoError(t, repo.DeleteDraft(ctx, d.ID))

	_ = Collect(mustSearch(t, repo, ""))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.StoreOperationsTotal.WithLabelValues("save", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreOperationsTotal.WithLabelValues("delete", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DraftsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchResultsTotal))
}

func TestDBRepositoryStoresCompressedContent(t *testing.T) {
	database := db.NewSQLite(filepath.Join(t.TempDir(), "drafts.db"))
	require.NoError(t, database.InitDB(context.Background()))
	t.Cleanup(func() { database.Close() })

	repo := NewDBDraftRepository(database, nil)
	content := "Compressible content. Compressible content. Compressible content."
	d, err := repo.SaveDraft(context.Background(), model.Candidate{Title: "z", Content: content})
	require.NoError(t, err)

	var blob []byte
	err = database.QueryRowContext(context.Background(), `SELECT content FROM drafts WHERE id = ?`, string(d.ID)).Scan(&blob)
	require.NoError(t, err)
	assert.NotEqual(t, []byte(content), blob)

	plain, err := compression.ZstdCompressor{}.Decompress(blob)
	require.NoError(t, err)
	assert.Equal(t, content, string(plain))
}

func mustSearch(t *testing.T, repo DraftRepository, term string) func(func(model.Draft) bool) {
	t.Helper()
	seq, err := repo.Search(context.Background(), term)
	require.NoError(t, err)
	return seq
}

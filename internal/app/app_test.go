package app

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debemdeboas/postcraft/internal/composer"
	"github.com/debemdeboas/postcraft/internal/config"
	"github.com/debemdeboas/postcraft/internal/connection"
	"github.com/debemdeboas/postcraft/internal/sse"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Composer.ReplyDelay = 5 * time.Millisecond
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	a, err := New(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func waitFor(t *testing.T, task *composer.Task) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, task.Wait(ctx))
}

func TestComposeSaveSearchDelete(t *testing.T) {
	for _, driver := range []string{config.StoreDriverMemory, config.StoreDriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			cfg := testConfig()
			cfg.Store.Driver = driver
			cfg.Store.DSN = filepath.Join(t.TempDir(), "drafts.db")

			a := newTestApp(t, cfg)
			ctx := context.Background()
			s := a.Sessions.Create()

			task, ok := s.SubmitMessage("AI trends")
			require.True(t, ok)
			waitFor(t, task)
			require.Equal(t, composer.OutcomeDelivered, task.Outcome())

			d, notice, err := a.SaveDraft(ctx, s)
			require.NoError(t, err)
			assert.Equal(t, DraftSavedNotice, notice)
			assert.Equal(t, composer.InitialTitle, d.Title)
			assert.Contains(t, d.Content, "AI trends")

			found, err := a.SearchDrafts(ctx, "trends")
			require.NoError(t, err)
			require.Len(t, found, 1)
			assert.Equal(t, d.ID, found[0].ID)

			notice, err = a.DeleteDraft(ctx, d.ID)
			require.NoError(t, err)
			assert.Equal(t, "Draft deleted", notice.Title)

			found, err = a.SearchDrafts(ctx, "")
			require.NoError(t, err)
			assert.Empty(t, found)
		})
	}
}

func TestEditThenSaveForks(t *testing.T) {
	a := newTestApp(t, testConfig())
	ctx := context.Background()

	s := a.Sessions.Create()
	original, _, err := a.SaveDraft(ctx, s)
	require.NoError(t, err)

	editor := a.Sessions.Create()
	notice, err := a.EditDraft(ctx, editor, original.ID)
	require.NoError(t, err)
	assert.Equal(t, OpeningDraftNotice, notice)

	editor.SetTitle("Edited copy")
	copyDraft, _, err := a.SaveDraft(ctx, editor)
	require.NoError(t, err)

	assert.NotEqual(t, original.ID, copyDraft.ID)
	n, err := a.Drafts.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	stored, err := a.Drafts.GetDraft(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, original.Title, stored.Title, "the source draft is untouched")
}

func TestEditMissingDraft(t *testing.T) {
	a := newTestApp(t, testConfig())

	_, err := a.EditDraft(context.Background(), a.Sessions.Create(), "missing")
	assert.True(t, IsNotFound(err))
}

func TestPublishRequiresConnection(t *testing.T) {
	a := newTestApp(t, testConfig())
	s := a.Sessions.Create()
	ctx := context.Background()

	before, err := a.Drafts.Count(ctx)
	require.NoError(t, err)

	_, err = a.Publish(s, false)
	assert.ErrorIs(t, err, connection.ErrNotConnected)

	notice, err := a.Publish(s, true)
	require.NoError(t, err)
	assert.Equal(t, connection.PublishedNotice, notice)
	assert.True(t, a.Connection.IsConnected())

	after, err := a.Drafts.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after, "publishing never touches drafts")
}

func TestSeedExamples(t *testing.T) {
	cfg := testConfig()
	cfg.Content.SeedExamples = true
	a := newTestApp(t, cfg)

	found, err := a.SearchDrafts(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, found, 3)
	assert.Equal(t, "AI in the Workplace", found[0].Title)
}

func TestSQLiteAppsDoNotShareMemoryStore(t *testing.T) {
	cfg := testConfig()
	cfg.Store.Driver = config.StoreDriverSQLite
	cfg.Content.SeedExamples = true

	first := newTestApp(t, cfg)
	second := newTestApp(t, cfg)

	ctx := context.Background()
	_, _, err := first.SaveDraft(ctx, first.Sessions.Create())
	require.NoError(t, err)

	n, err := first.Drafts.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = second.Drafts.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestWithGenerator(t *testing.T) {
	gen := composer.GeneratorFunc(func(ctx context.Context, prompt string) (composer.Reply, error) {
		return composer.Reply{Message: "ok", Content: fmt.Sprintf("custom %s", prompt)}, nil
	})
	a, err := New(context.Background(), testConfig(), zerolog.Nop(), WithGenerator(gen))
	require.NoError(t, err)
	defer a.Close()

	s := a.Sessions.Create()
	task, _ := s.SubmitMessage("x")
	waitFor(t, task)
	assert.Equal(t, "custom x", s.Snapshot().Candidate.Content)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Store.Driver = "postgres"

	_, err := New(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestSessionRepliesReachHub(t *testing.T) {
	a := newTestApp(t, testConfig())
	s := a.Sessions.Create()

	client := sse.NewClient(string(s.ID()), 4)
	a.Hub.Clients().Add(client)
	defer a.Hub.Clients().Delete(client)

	task, _ := s.SubmitMessage("hub")
	waitFor(t, task)

	select {
	case ev := <-client.Msg:
		assert.Equal(t, "reply", ev.Name)
		assert.Contains(t, ev.Data, "delivered")
	case <-time.After(2 * time.Second):
		t.Fatal("no reply event")
	}
}

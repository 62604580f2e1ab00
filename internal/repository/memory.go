package repository

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"sync"
	"time"

	"github.com/debemdeboas/postcraft/internal/model"
)

type MemoryDraftRepository struct { // implements DraftRepository
	mu     sync.RWMutex
	drafts []model.Draft
	index  map[model.DraftID]int

	now func() time.Time
}

func NewMemoryDraftRepository() *MemoryDraftRepository {
	return &MemoryDraftRepository{
		index: make(map[model.DraftID]int),
		now:   utcNow,
	}
}

func (r *MemoryDraftRepository) SaveDraft(_ context.Context, candidate model.Candidate) (model.Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := newDraftID()
	if _, exists := r.index[id]; exists {
		return model.Draft{}, fmt.Errorf("draft id collision: %s", id)
	}

	draft := model.NewDraft(id, candidate, r.now())
	r.index[id] = len(r.drafts)
	r.drafts = append(r.drafts, draft)

	repoLogger.Debug().Str("draft_id", string(id)).Str("title", draft.Title).Msg("Draft saved")
	return draft, nil
}

func (r *MemoryDraftRepository) GetDraft(_ context.Context, id model.DraftID) (model.Draft, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return model.Draft{}, fmt.Errorf("%w: %s", ErrDraftNotFound, id)
	}
	return r.drafts[i], nil
}

func (r *MemoryDraftRepository) DeleteDraft(_ context.Context, id model.DraftID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return nil
	}

	r.drafts = slices.Delete(r.drafts, i, i+1)
	delete(r.index, id)
	for j := i; j < len(r.drafts); j++ {
		r.index[r.drafts[j].ID] = j
	}

	repoLogger.Debug().Str("draft_id", string(id)).Msg("Draft deleted")
	return nil
}

func (r *MemoryDraftRepository) Search(_ context.Context, term string) (iter.Seq[model.Draft], error) {
	r.mu.RLock()
	snapshot := slices.Clone(r.drafts)
	r.mu.RUnlock()

	return filter(snapshot, term), nil
}

func (r *MemoryDraftRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.drafts), nil
}

func (r *MemoryDraftRepository) Seed(_ context.Context, drafts []model.Draft) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range drafts {
		if _, exists := r.index[d.ID]; exists {
			return fmt.Errorf("seed draft %s already exists", d.ID)
		}
		r.index[d.ID] = len(r.drafts)
		r.drafts = append(r.drafts, d)
	}
	return nil
}

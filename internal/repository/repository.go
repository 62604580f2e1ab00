// Package repository holds the draft store: the authoritative, ordered list of saved drafts.
package repository

import (
	"context"
	"errors"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/postcraft/internal/model"
)

var ErrDraftNotFound = errors.New("draft not found")

// DraftRepository stores drafts in insertion order. Drafts are returned by value so
// callers never alias the stored entity.
type DraftRepository interface {
	// SaveDraft always inserts a new draft built from the candidate.
	SaveDraft(ctx context.Context, candidate model.Candidate) (model.Draft, error)
	GetDraft(ctx context.Context, id model.DraftID) (model.Draft, error)
	// DeleteDraft is a no-op when the id is absent.
	DeleteDraft(ctx context.Context, id model.DraftID) error
	// Search yields, in store order, drafts whose title or content contains term
	// case-insensitively. A blank term yields every draft.
	Search(ctx context.Context, term string) (iter.Seq[model.Draft], error)
	Count(ctx context.Context) (int, error)
	// Seed appends fully formed drafts, keeping their ids and timestamps.
	Seed(ctx context.Context, drafts []model.Draft) error
}

var repoLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	repoLogger = l
}

var newDraftID = func() model.DraftID {
	return model.DraftID(uuid.New().String())
}

func utcNow() time.Time {
	return time.Now().UTC()
}

// filter lazily yields the drafts of snapshot matching term.
func filter(snapshot []model.Draft, term string) iter.Seq[model.Draft] {
	return func(yield func(model.Draft) bool) {
		for i := range snapshot {
			if !snapshot[i].Matches(term) {
				continue
			}
			if !yield(snapshot[i]) {
				return
			}
		}
	}
}

// Collect drains a search result into a slice.
func Collect(seq iter.Seq[model.Draft]) []model.Draft {
	drafts := make([]model.Draft, 0)
	for d := range seq {
		drafts = append(drafts, d)
	}
	return drafts
}

package repository

import (
	"context"
	"iter"
	"time"

	"github.com/debemdeboas/postcraft/internal/metrics"
	"github.com/debemdeboas/postcraft/internal/model"
)

// InstrumentedDraftRepository records metrics for every call to the wrapped repository.
type InstrumentedDraftRepository struct {
	next    DraftRepository
	metrics *metrics.Metrics
}

func NewInstrumentedDraftRepository(next DraftRepository, m *metrics.Metrics) *InstrumentedDraftRepository {
	return &InstrumentedDraftRepository{next: next, metrics: m}
}

func (r *InstrumentedDraftRepository) observe(ctx context.Context, op string, start time.Time, err error) {
	r.metrics.RecordStoreOperation(op, err, time.Since(start))
	if err != nil {
		repoLogger.Debug().Err(err).Str("operation", op).Msg("Draft store operation failed")
		return
	}

	if n, cerr := r.next.Count(ctx); cerr == nil {
		r.metrics.DraftsTotal.Set(float64(n))
	}
}

func (r *InstrumentedDraftRepository) SaveDraft(ctx context.Context, candidate model.Candidate) (model.Draft, error) {
	start := time.Now()
	d, err := r.next.SaveDraft(ctx, candidate)
	r.observe(ctx, "save", start, err)
	return d, err
}

func (r *InstrumentedDraftRepository) GetDraft(ctx context.Context, id model.DraftID) (model.Draft, error) {
	start := time.Now()
	d, err := r.next.GetDraft(ctx, id)
	r.metrics.RecordStoreOperation("get", err, time.Since(start))
	return d, err
}

func (r *InstrumentedDraftRepository) DeleteDraft(ctx context.Context, id model.DraftID) error {
	start := time.Now()
	err := r.next.DeleteDraft(ctx, id)
	r.observe(ctx, "delete", start, err)
	return err
}

func (r *InstrumentedDraftRepository) Search(ctx context.Context, term string) (iter.Seq[model.Draft], error) {
	start := time.Now()
	seq, err := r.next.Search(ctx, term)
	r.metrics.RecordStoreOperation("search", err, time.Since(start))
	if err != nil {
		return nil, err
	}

	return func(yield func(model.Draft) bool) {
		for d := range seq {
			r.metrics.SearchResultsTotal.Inc()
			if !yield(d) {
				return
			}
		}
	}, nil
}

func (r *InstrumentedDraftRepository) Count(ctx context.Context) (int, error) {
	return r.next.Count(ctx)
}

func (r *InstrumentedDraftRepository) Seed(ctx context.Context, drafts []model.Draft) error {
	start := time.Now()
	err := r.next.Seed(ctx, drafts)
	r.observe(ctx, "seed", start, err)
	return err
}

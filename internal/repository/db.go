package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/debemdeboas/postcraft/internal/db"
	"github.com/debemdeboas/postcraft/internal/model"
	"github.com/debemdeboas/postcraft/internal/util"
	"github.com/debemdeboas/postcraft/internal/util/compression"
)

const draftColumns = `id, title, content, has_image, image_url, created_at, updated_at`

type DBDraftRepository struct { // implements DraftRepository
	db         db.DB
	compressor compression.Compressor

	now func() time.Time
}

func NewDBDraftRepository(database db.DB, compressor compression.Compressor) *DBDraftRepository {
	if compressor == nil {
		compressor = compression.ZstdCompressor{}
	}
	return &DBDraftRepository{
		db:         database,
		compressor: compressor,
		now:        utcNow,
	}
}

func (r *DBDraftRepository) SaveDraft(ctx context.Context, candidate model.Candidate) (model.Draft, error) {
	draft := model.NewDraft(newDraftID(), candidate, r.now())
	if err := r.insert(ctx, draft); err != nil {
		return model.Draft{}, err
	}

	repoLogger.Debug().Str("draft_id", string(draft.ID)).Str("title", draft.Title).Msg("Draft saved")
	return draft, nil
}

func (r *DBDraftRepository) insert(ctx context.Context, d model.Draft) error {
	compressed, err := r.compressor.Compress([]byte(d.Content))
	if err != nil {
		return fmt.Errorf("error compressing content: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO drafts (id, title, content, content_hash, has_image, image_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(d.ID), d.Title, compressed, util.ContentHashString(d.Content),
		d.HasImage, d.ImageURL, d.CreatedAt.UTC(), d.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("error inserting draft %s: %w", d.ID, err)
	}
	return nil
}

func (r *DBDraftRepository) GetDraft(ctx context.Context, id model.DraftID) (model.Draft, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+draftColumns+` FROM drafts WHERE id = ?`, string(id))
	if row == nil {
		return model.Draft{}, db.ErrNotInitialized
	}

	d, err := r.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Draft{}, fmt.Errorf("%w: %s", ErrDraftNotFound, id)
	}
	if err != nil {
		return model.Draft{}, err
	}
	return d, nil
}

func (r *DBDraftRepository) DeleteDraft(ctx context.Context, id model.DraftID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = ?`, string(id))
	if err != nil {
		return fmt.Errorf("error deleting draft %s: %w", id, err)
	}

	if n, err := res.RowsAffected(); err == nil && n > 0 {
		repoLogger.Debug().Str("draft_id", string(id)).Msg("Draft deleted")
	}
	return nil
}

// Search reads a consistent snapshot of all drafts in insertion order and filters it lazily.
func (r *DBDraftRepository) Search(ctx context.Context, term string) (iter.Seq[model.Draft], error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+draftColumns+` FROM drafts ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("error querying drafts: %w", err)
	}
	defer rows.Close()

	snapshot := make([]model.Draft, 0)
	for rows.Next() {
		d, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		snapshot = append(snapshot, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating drafts: %w", err)
	}

	return filter(snapshot, term), nil
}

func (r *DBDraftRepository) Count(ctx context.Context) (int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM drafts`)
	if row == nil {
		return 0, db.ErrNotInitialized
	}

	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting drafts: %w", err)
	}
	return n, nil
}

func (r *DBDraftRepository) Seed(ctx context.Context, drafts []model.Draft) error {
	for _, d := range drafts {
		if err := r.insert(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *DBDraftRepository) scan(s scanner) (model.Draft, error) {
	var (
		d          model.Draft
		id         string
		compressed []byte
	)

	err := s.Scan(&id, &d.Title, &compressed, &d.HasImage, &d.ImageURL, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Draft{}, err
		}
		return model.Draft{}, fmt.Errorf("error scanning draft: %w", err)
	}

	content, err := r.compressor.Decompress(compressed)
	if err != nil {
		return model.Draft{}, fmt.Errorf("error decompressing content: %w", err)
	}

	d.ID = model.DraftID(id)
	d.Content = string(content)
	d.CreatedAt = d.CreatedAt.UTC()
	d.UpdatedAt = d.UpdatedAt.UTC()
	return d, nil
}

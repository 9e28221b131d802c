package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

type Kind string

const (
	KindValidation     Kind = "validation"
	KindIdentification Kind = "identification"
)

// Entry is one journaled call of a model-backed check.
type Entry struct {
	ID          int64
	CreatedAt   time.Time
	Kind        Kind
	ItemName    string
	Description string
	ImageHash   string
	ImageCount  int
	Engine      string
	Model       string
	Result      json.RawMessage
	Error       string
}

func (e Entry) OK() bool { return e.Error == "" }

type JournalRepo struct{ DB *sql.DB }

func NewJournalRepo(db *sql.DB) *JournalRepo { return &JournalRepo{DB: db} }

const schema = `
create table if not exists analysis_journal (
    id               bigserial primary key,
    created_at       timestamptz not null default now(),
    kind             text not null,
    item_name        text not null,
    item_description text not null default '',
    image_hash       text not null,
    image_count      int not null,
    engine           text not null,
    model            text not null default '',
    result_json      jsonb,
    error            text
);
create index if not exists analysis_journal_hash_idx on analysis_journal (image_hash, kind);`

func (r *JournalRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("journal schema: %w", err)
	}
	return nil
}

// Record appends e. result is marshalled to JSON; a nil result stores NULL.
func (r *JournalRepo) Record(ctx context.Context, e Entry, result any) error {
	var js any
	if result != nil {
		b, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("journal marshal: %w", err)
		}
		js = string(b)
	}
	const q = `
insert into analysis_journal(kind, item_name, item_description, image_hash, image_count, engine, model, result_json, error)
values ($1,$2,$3,$4,$5,$6,$7,$8,nullif($9,''))`
	_, err := r.DB.ExecContext(ctx, q,
		string(e.Kind), e.ItemName, e.Description, e.ImageHash, e.ImageCount, e.Engine, e.Model, js, e.Error)
	return err
}

// Recent returns the newest entries first.
func (r *JournalRepo) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
select id, created_at, kind, item_name, item_description, image_hash, image_count,
       engine, model, coalesce(result_json::text, ''), coalesce(error, '')
from analysis_journal
order by created_at desc, id desc
limit $1`
	rows, err := r.DB.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e    Entry
			kind string
			js   string
		)
		if err := rows.Scan(&e.ID, &e.CreatedAt, &kind, &e.ItemName, &e.Description, &e.ImageHash,
			&e.ImageCount, &e.Engine, &e.Model, &js, &e.Error); err != nil {
			return nil, err
		}
		e.Kind = Kind(kind)
		if js != "" {
			e.Result = json.RawMessage(js)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

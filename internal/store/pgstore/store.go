// Package pgstore keeps tasks as JSONB documents in a Postgres table.
package pgstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"tasks-manager-backend/internal/tasks"
)

type Store struct {
	db    *sql.DB
	table string
}

// New wraps dbx; table is quoted, so any name is safe.
func New(dbx *sql.DB, table string) *Store {
	if table == "" {
		table = "tasks"
	}
	return &Store{db: dbx, table: pq.QuoteIdentifier(table)}
}

// Migrate creates the documents table and its deadline index if missing.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS `+s.table+` (
			id       UUID PRIMARY KEY,
			deadline TIMESTAMPTZ NOT NULL,
			doc      JSONB NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create tasks table: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS `+
		pq.QuoteIdentifier(unquoted(s.table)+"_deadline_idx")+` ON `+s.table+` (deadline)`)
	if err != nil {
		return fmt.Errorf("create deadline index: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]tasks.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, doc
		FROM `+s.table+`
		ORDER BY deadline ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var result []tasks.Task
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t, err := decodeDoc(id, raw)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}
	return result, nil
}

func (s *Store) Create(ctx context.Context, t tasks.Task) (tasks.Task, error) {
	t = normalize(t)
	t.ID = uuid.NewString()

	raw, err := encodeDoc(t)
	if err != nil {
		return tasks.Task{}, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO `+s.table+` (id, deadline, doc)
		VALUES ($1, $2, $3)
	`, t.ID, t.Deadline, string(raw))
	if err != nil {
		return tasks.Task{}, fmt.Errorf("insert task: %w", mapErr(err))
	}
	return t, nil
}

func (s *Store) Get(ctx context.Context, id string) (tasks.Task, error) {
	id, err := canonicalID(id)
	if err != nil {
		return tasks.Task{}, err
	}

	var raw []byte
	err = s.db.QueryRowContext(ctx, `SELECT doc FROM `+s.table+` WHERE id = $1`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return tasks.Task{}, tasks.ErrNotFound
	}
	if err != nil {
		return tasks.Task{}, fmt.Errorf("get task %s: %w", id, mapErr(err))
	}
	return decodeDoc(id, raw)
}

func (s *Store) Replace(ctx context.Context, t tasks.Task) (tasks.Task, error) {
	id, err := canonicalID(t.ID)
	if err != nil {
		return tasks.Task{}, err
	}
	t.ID = id
	t = normalize(t)

	raw, err := encodeDoc(t)
	if err != nil {
		return tasks.Task{}, err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE `+s.table+`
		SET deadline = $2, doc = $3
		WHERE id = $1
	`, t.ID, t.Deadline, string(raw))
	if err != nil {
		return tasks.Task{}, fmt.Errorf("replace task %s: %w", t.ID, mapErr(err))
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return tasks.Task{}, tasks.ErrNotFound
	}
	return t, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	id, err := canonicalID(id)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM `+s.table+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, mapErr(err))
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return tasks.ErrNotFound
	}
	return nil
}

// canonicalID returns the lowercase hyphenated form Postgres prints uuids in.
func canonicalID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q is not a UUID", tasks.ErrInvalidID, id)
	}
	return u.String(), nil
}

// mapErr turns a uuid cast failure reported by the server into ErrInvalidID.
func mapErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "invalid_text_representation" {
		return fmt.Errorf("%w: %s", tasks.ErrInvalidID, pqErr.Message)
	}
	return err
}

// timestamptz keeps microseconds.
func normalize(t tasks.Task) tasks.Task {
	t.Deadline = t.Deadline.UTC().Truncate(time.Microsecond)
	t.CreatedAt = t.CreatedAt.UTC().Truncate(time.Microsecond)
	return t
}

// pq sends []byte as bytea, so callers pass the document as a string.
func encodeDoc(t tasks.Task) ([]byte, error) {
	raw, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encode task: %w", err)
	}
	return raw, nil
}

func decodeDoc(id string, raw []byte) (tasks.Task, error) {
	var t tasks.Task
	if err := json.Unmarshal(raw, &t); err != nil {
		return tasks.Task{}, fmt.Errorf("decode task %s: %w", id, err)
	}
	t.ID = id
	t.Deadline = t.Deadline.UTC()
	t.CreatedAt = t.CreatedAt.UTC()
	return t, nil
}

func unquoted(quoted string) string {
	if len(quoted) >= 2 && quoted[0] == '"' && quoted[len(quoted)-1] == '"' {
		return quoted[1 : len(quoted)-1]
	}
	return quoted
}

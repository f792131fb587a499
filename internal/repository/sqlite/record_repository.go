package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/puzzlequest/internal/logger"
	"github.com/vytor/puzzlequest/internal/repository"
)

type recordRepository struct {
	db *sql.DB
}

// NewRecordRepository creates a new RecordRepository implementation
func NewRecordRepository(db *sql.DB) repository.RecordRepository {
	return &recordRepository{db: db}
}

// runner is satisfied by both *sql.DB and *sql.Tx.
type runner interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *recordRepository) Get(ctx context.Context, kind string) ([]byte, error) {
	log := logger.FromContext(ctx).WithPrefix("record_repo")
	log.Debug("getting record: kind=%s", kind)

	body, err := get(ctx, r.db, kind)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Debug("record not found: kind=%s", kind)
		} else {
			log.Error("failed to get record: %v", err)
		}
		return nil, err
	}
	return body, nil
}

func (r *recordRepository) UpdateMany(ctx context.Context, kinds []string, fn func(current map[string][]byte) (map[string][]byte, error)) error {
	log := logger.FromContext(ctx).WithPrefix("record_repo")
	log.Debug("updating records: kinds=%v", kinds)

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		current := make(map[string][]byte, len(kinds))
		for _, kind := range kinds {
			body, err := get(ctx, tx, kind)
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			if err != nil {
				log.Error("failed to read record for update: %v", err)
				return err
			}
			current[kind] = body
		}

		next, err := fn(current)
		if err != nil {
			return err
		}
		for kind, body := range next {
			if !slices.Contains(kinds, kind) {
				return fmt.Errorf("kind %q was not part of the update", kind)
			}
			if err := put(ctx, tx, kind, body); err != nil {
				log.Error("failed to write updated record: kind=%s: %v", kind, err)
				return err
			}
		}
		return nil
	})
}

func (r *recordRepository) Delete(ctx context.Context, kinds ...string) error {
	log := logger.FromContext(ctx).WithPrefix("record_repo")
	if len(kinds) == 0 {
		return nil
	}
	log.Debug("deleting records: kinds=%v", kinds)

	query, args, err := sqlBuilder.Delete("records").Where(squirrel.Eq{"kind": kinds}).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to delete records: %v", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil {
		log.Debug("deleted %d records", n)
	}
	return nil
}

func (r *recordRepository) Kinds(ctx context.Context) ([]string, error) {
	log := logger.FromContext(ctx).WithPrefix("record_repo")
	log.Debug("listing record kinds")

	query, args, err := sqlBuilder.Select("kind").From("records").OrderBy("kind ASC").ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list kinds: %v", err)
		return nil, err
	}
	defer rows.Close()

	var kinds []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			log.Error("failed to scan kind row: %v", err)
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, rows.Err()
}

func get(ctx context.Context, db runner, kind string) ([]byte, error) {
	query, args, err := sqlBuilder.Select("body").From("records").Where(squirrel.Eq{"kind": kind}).ToSql()
	if err != nil {
		return nil, err
	}
	var body string
	if err := db.QueryRowContext(ctx, query, args...).Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return []byte(body), nil
}

func put(ctx context.Context, db runner, kind string, body []byte) error {
	query, args, err := sqlBuilder.Insert("records").
		Columns("kind", "body", "updated_at").
		Values(kind, string(body), time.Now().UTC()).
		Suffix("ON CONFLICT(kind) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, query, args...)
	return err
}

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"therapath-portal/internal/model"
)

const (
	uniqueViolation = "23505"

	// activeSlotIndex guards one active booking per user and slot.
	activeSlotIndex = "appointments_active_slot_idx"
)

type scanner interface {
	Scan(dest ...any) error
}

// table is a Repository over one Postgres table. cols[0] is the primary key
// and values must return arguments in cols order.
type table[T Entity] struct {
	pool    *pgxpool.Pool
	name    string
	cols    []string
	orderBy string
	scan    func(s scanner) (T, error)
	values  func(v T) []any
}

func (t *table[T]) selectSQL() string {
	return "SELECT " + strings.Join(t.cols, ", ") + " FROM " + t.name
}

func (t *table[T]) Get(ctx context.Context, id string) (T, error) {
	row := t.pool.QueryRow(ctx, t.selectSQL()+" WHERE "+t.cols[0]+" = $1", id)
	v, err := t.scan(row)
	if err != nil {
		var zero T
		return zero, pgErr(err)
	}
	return v, nil
}

func (t *table[T]) List(ctx context.Context) ([]T, error) {
	return t.query(ctx, t.selectSQL()+" ORDER BY "+t.orderBy)
}

func (t *table[T]) query(ctx context.Context, sql string, args ...any) ([]T, error) {
	rows, err := t.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := t.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (t *table[T]) Add(ctx context.Context, v T) error {
	ph := make([]string, len(t.cols))
	for i := range ph {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	_, err := t.pool.Exec(ctx,
		"INSERT INTO "+t.name+" ("+strings.Join(t.cols, ", ")+") VALUES ("+strings.Join(ph, ", ")+")",
		t.values(v)...,
	)
	return pgErr(err)
}

func (t *table[T]) Update(ctx context.Context, v T) error {
	set := make([]string, 0, len(t.cols)-1)
	for i, c := range t.cols[1:] {
		set = append(set, fmt.Sprintf("%s = $%d", c, i+2))
	}
	tag, err := t.pool.Exec(ctx,
		"UPDATE "+t.name+" SET "+strings.Join(set, ", ")+" WHERE "+t.cols[0]+" = $1",
		t.values(v)...,
	)
	if err != nil {
		return pgErr(err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (t *table[T]) Remove(ctx context.Context, id string) error {
	tag, err := t.pool.Exec(ctx, "DELETE FROM "+t.name+" WHERE "+t.cols[0]+" = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// pgErr maps driver errors onto the store's sentinels.
func pgErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrNotFound
	}
	var pe *pgconn.PgError
	if errors.As(err, &pe) && pe.Code == uniqueViolation {
		if pe.ConstraintName == activeSlotIndex {
			return model.ErrSlotTaken
		}
		return fmt.Errorf("%w: %s", model.ErrDuplicate, pe.ConstraintName)
	}
	return err
}

package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/iliyamo/student-marks/internal/model"
)

// MarkRepo runs the single-statement queries against mark_table. Each method
// borrows one pooled connection for the duration of its statement.
type MarkRepo struct {
	db *sql.DB
}

// NewMarkRepo constructs a MarkRepo with the provided pool.
func NewMarkRepo(db *sql.DB) *MarkRepo {
	return &MarkRepo{db: db}
}

const (
	qUpsertMarks = `INSERT INTO mark_table (student_id, sub1, sub2, sub3, sub4, sub5)
	                VALUES (?, ?, ?, ?, ?, ?)
	                ON DUPLICATE KEY UPDATE
	                sub1 = VALUES(sub1),
	                sub2 = VALUES(sub2),
	                sub3 = VALUES(sub3),
	                sub4 = VALUES(sub4),
	                sub5 = VALUES(sub5)`
	qListMarks  = `SELECT student_id, sub1, sub2, sub3, sub4, sub5 FROM mark_table`
	qGetMarks   = `SELECT student_id, sub1, sub2, sub3, sub4, sub5 FROM mark_table WHERE student_id = ? LIMIT 1`
	qDeleteMark = `DELETE FROM mark_table WHERE student_id = ?`
)

// Upsert inserts the row or, when student_id exists, overwrites all five
// subject columns. Nil scores are written as NULL.
func (r *MarkRepo) Upsert(ctx context.Context, m model.StudentMark) error {
	_, err := r.db.ExecContext(ctx, qUpsertMarks,
		string(m.StudentID), m.Sub1, m.Sub2, m.Sub3, m.Sub4, m.Sub5)
	return errors.Wrap(err, "upsert marks")
}

// List returns every row in the datastore's natural order. An empty table
// yields an empty, non-nil slice.
func (r *MarkRepo) List(ctx context.Context) ([]model.StudentMark, error) {
	rows, err := r.db.QueryContext(ctx, qListMarks)
	if err != nil {
		return nil, errors.Wrap(err, "list marks")
	}
	defer rows.Close()

	out := []model.StudentMark{}
	for rows.Next() {
		m, err := scanMark(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan marks")
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list marks")
	}
	return out, nil
}

// Get fetches the marks of one student. It returns ErrMarksNotFound when no
// row exists.
func (r *MarkRepo) Get(ctx context.Context, studentID string) (model.StudentMark, error) {
	m, err := scanMark(r.db.QueryRowContext(ctx, qGetMarks, studentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.StudentMark{}, ErrMarksNotFound
		}
		return model.StudentMark{}, errors.Wrap(err, "get marks")
	}
	return m, nil
}

// Delete removes the marks of one student. It returns ErrMarksNotFound when
// no row was affected.
func (r *MarkRepo) Delete(ctx context.Context, studentID string) error {
	res, err := r.db.ExecContext(ctx, qDeleteMark, studentID)
	if err != nil {
		return errors.Wrap(err, "delete marks")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete marks")
	}
	if n == 0 {
		return ErrMarksNotFound
	}
	return nil
}

// Ping reports whether the pool can reach the datastore.
func (r *MarkRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMark(s rowScanner) (model.StudentMark, error) {
	var (
		id   string
		subs [5]sql.NullFloat64
	)
	if err := s.Scan(&id, &subs[0], &subs[1], &subs[2], &subs[3], &subs[4]); err != nil {
		return model.StudentMark{}, err
	}
	m := model.StudentMark{StudentID: model.StudentID(id)}
	dst := [5]**float64{&m.Sub1, &m.Sub2, &m.Sub3, &m.Sub4, &m.Sub5}
	for i, s := range subs {
		if s.Valid {
			*dst[i] = model.Float(s.Float64)
		}
	}
	return m, nil
}

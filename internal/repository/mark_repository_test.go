package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/student-marks/internal/model"
)

var markColumns = []string{"student_id", "sub1", "sub2", "sub3", "sub4", "sub5"}

func newMock(t *testing.T) (*MarkRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewMarkRepo(db), mock
}

func TestUpsertWritesAllFiveSubjects(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(qUpsertMarks).
		WithArgs("S1", 80.0, 75.0, 90.0, 60.0, 88.0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), model.StudentMark{
		StudentID: "S1",
		Sub1:      model.Float(80), Sub2: model.Float(75), Sub3: model.Float(90),
		Sub4: model.Float(60), Sub5: model.Float(88),
	})
	assert.NoError(t, err)
}

func TestUpsertOmittedSubjectsBecomeNull(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(qUpsertMarks).
		WithArgs("S2", 70.0, nil, nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.Upsert(context.Background(), model.StudentMark{StudentID: "S2", Sub1: model.Float(70)})
	assert.NoError(t, err)
}

func TestUpsertWrapsDriverError(t *testing.T) {
	repo, mock := newMock(t)
	driverErr := &mysql.MySQLError{Number: 1146, Message: "Table 'student.mark_table' doesn't exist"}
	mock.ExpectExec(qUpsertMarks).WillReturnError(driverErr)

	err := repo.Upsert(context.Background(), model.StudentMark{StudentID: "S1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, driverErr)

	n, ok := DriverErrorNumber(err)
	assert.True(t, ok)
	assert.Equal(t, uint16(1146), n)
}

func TestList(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(qListMarks).WillReturnRows(sqlmock.NewRows(markColumns).
		AddRow("S1", 80.0, 75.0, 90.0, 60.0, 88.0).
		AddRow("S2", 70.0, nil, nil, nil, nil))

	marks, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, marks, 2)
	assert.Equal(t, model.StudentID("S1"), marks[0].StudentID)
	assert.Equal(t, 88.0, *marks[0].Sub5)
	assert.Equal(t, 70.0, *marks[1].Sub1)
	assert.Nil(t, marks[1].Sub2)
}

func TestListEmptyIsNonNil(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(qListMarks).WillReturnRows(sqlmock.NewRows(markColumns))

	marks, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, marks)
	assert.Empty(t, marks)
}

func TestListQueryError(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(qListMarks).WillReturnError(sql.ErrConnDone)

	_, err := repo.List(context.Background())
	assert.ErrorIs(t, err, sql.ErrConnDone)
}

func TestGet(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(qGetMarks).WithArgs("S1").
		WillReturnRows(sqlmock.NewRows(markColumns).AddRow("S1", 80.0, 75.0, 90.0, 60.0, 88.0))

	m, err := repo.Get(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, model.StudentID("S1"), m.StudentID)
	assert.Equal(t, 90.0, *m.Sub3)
}

func TestGetNotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(qGetMarks).WithArgs("nope").WillReturnRows(sqlmock.NewRows(markColumns))

	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrMarksNotFound)
}

func TestGetDatastoreError(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(qGetMarks).WithArgs("S1").WillReturnError(errors.New("bad connection"))

	_, err := repo.Get(context.Background(), "S1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMarksNotFound)
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{"removed", 1, nil},
		{"nothing to remove", 0, ErrMarksNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMock(t)
			mock.ExpectExec(qDeleteMark).WithArgs("S1").WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := repo.Delete(context.Background(), "S1")
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestDriverErrorNumberPlainError(t *testing.T) {
	_, ok := DriverErrorNumber(errors.New("plain"))
	assert.False(t, ok)
}

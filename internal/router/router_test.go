package router_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/student-marks/internal/handler"
	"github.com/iliyamo/student-marks/internal/middleware"
	"github.com/iliyamo/student-marks/internal/repository"
	"github.com/iliyamo/student-marks/internal/router"
)

var markColumns = []string{"student_id", "sub1", "sub2", "sub3", "sub4", "sub5"}

func newTestServer(t *testing.T) (*echo.Echo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	repo := repository.NewMarkRepo(db)
	e := router.New(
		router.Options{Logger: zerolog.Nop(), CORSOrigins: []string{"*"}},
		handler.NewHealthHandler("test", repo.Ping, nil),
		handler.NewMarkHandler(repo, nil),
	)
	return e, mock
}

func request(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestStudentLifecycle(t *testing.T) {
	e, mock := newTestServer(t)

	mock.ExpectExec(`INSERT INTO mark_table`).
		WithArgs("S1", 80.0, 75.0, 90.0, 60.0, 88.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	rec := request(e, http.MethodPost, "/add-marks",
		`{"student_id":"S1","sub1":80,"sub2":75,"sub3":90,"sub4":60,"sub5":88}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Marks added/updated successfully!"}`, rec.Body.String())

	mock.ExpectQuery(`SELECT (.+) FROM mark_table WHERE student_id = \?`).
		WithArgs("S1").
		WillReturnRows(sqlmock.NewRows(markColumns).AddRow("S1", 80.0, 75.0, 90.0, 60.0, 88.0))
	rec = request(e, http.MethodGet, "/marks/S1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"student_id":"S1","sub1":80,"sub2":75,"sub3":90,"sub4":60,"sub5":88}`, rec.Body.String())

	mock.ExpectExec(`DELETE FROM mark_table WHERE student_id = \?`).
		WithArgs("S1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	rec = request(e, http.MethodDelete, "/marks/S1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Marks deleted successfully!"}`, rec.Body.String())

	mock.ExpectQuery(`SELECT (.+) FROM mark_table WHERE student_id = \?`).
		WithArgs("S1").
		WillReturnRows(sqlmock.NewRows(markColumns))
	rec = request(e, http.MethodGet, "/marks/S1", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"No marks found for this student ID"}`, rec.Body.String())
}

func TestUpsertNumericStringScore(t *testing.T) {
	e, mock := newTestServer(t)

	mock.ExpectExec(`INSERT INTO mark_table`).
		WithArgs("S1", 80.0, nil, nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	rec := request(e, http.MethodPost, "/add-marks", `{"student_id":"S1","sub1":"80"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Marks added/updated successfully!"}`, rec.Body.String())
}

func TestMissingStudentIDNeverReachesDatastore(t *testing.T) {
	e, _ := newTestServer(t)

	rec := request(e, http.MethodPost, "/add-marks", `{"sub1":80,"sub2":75,"sub3":90,"sub4":60,"sub5":88}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Student ID is required"}`, rec.Body.String())
}

func TestListEmptyTable(t *testing.T) {
	e, mock := newTestServer(t)

	mock.ExpectQuery(`SELECT (.+) FROM mark_table`).WillReturnRows(sqlmock.NewRows(markColumns))
	rec := request(e, http.MethodGet, "/marks", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"No marks found in database"}`, rec.Body.String())
}

func TestRootAndUnknownRoutes(t *testing.T) {
	e, _ := newTestServer(t)

	rec := request(e, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Server is running!", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	rec = request(e, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Not Found"}`, rec.Body.String())
}

func TestHealthz(t *testing.T) {
	e, _ := newTestServer(t)

	rec := request(e, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
}

func TestCORSPreflight(t *testing.T) {
	e, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/marks", nil)
	req.Header.Set(echo.HeaderOrigin, "http://example.com")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodGet)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

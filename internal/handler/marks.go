package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/student-marks/internal/errs"
	"github.com/iliyamo/student-marks/internal/middleware"
	"github.com/iliyamo/student-marks/internal/model"
	"github.com/iliyamo/student-marks/internal/queue"
	"github.com/iliyamo/student-marks/internal/repository"
)

// MarkStore is the persistence the marks endpoints need. *repository.MarkRepo
// implements it; Get and Delete return repository.ErrMarksNotFound on a miss.
type MarkStore interface {
	Upsert(ctx context.Context, m model.StudentMark) error
	List(ctx context.Context) ([]model.StudentMark, error)
	Get(ctx context.Context, studentID string) (model.StudentMark, error)
	Delete(ctx context.Context, studentID string) error
}

// EventPublisher receives a change event after every successful write.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.MarksChangedEvent) error
}

// MarkHandler serves the marks endpoints.
type MarkHandler struct {
	store    MarkStore
	events   EventPublisher
	validate *validator.Validate
}

// NewMarkHandler wires a handler to its store. events may be nil, in which
// case no change events are published.
func NewMarkHandler(store MarkStore, events EventPublisher) *MarkHandler {
	if store == nil {
		panic("nil store passed to NewMarkHandler")
	}
	return &MarkHandler{store: store, events: events, validate: validator.New()}
}

type messageResp struct {
	Message string `json:"message"`
}

// Upsert handles POST /add-marks. All five subjects are overwritten; omitted
// ones become NULL.
func (h *MarkHandler) Upsert(c echo.Context) error {
	var req model.StudentMark
	if err := c.Bind(&req); err != nil {
		return errs.NewValidationError("Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return errs.NewValidationError("Student ID is required")
	}

	ctx := c.Request().Context()
	if err := h.store.Upsert(ctx, req); err != nil {
		return errs.NewDatastoreError("Failed to add or update marks", err)
	}

	h.publish(c, queue.UpsertedEvent(req, middleware.GetRequestID(c)))
	return c.JSON(http.StatusOK, messageResp{Message: "Marks added/updated successfully!"})
}

// List handles GET /marks. An empty table is reported as 404.
func (h *MarkHandler) List(c echo.Context) error {
	marks, err := h.store.List(c.Request().Context())
	if err != nil {
		return errs.NewDatastoreError("Failed to fetch marks", err)
	}
	if len(marks) == 0 {
		return errs.NewNotFoundError("No marks found in database")
	}
	return c.JSON(http.StatusOK, marks)
}

// Get handles GET /marks/:student_id.
func (h *MarkHandler) Get(c echo.Context) error {
	m, err := h.store.Get(c.Request().Context(), c.Param("student_id"))
	if err != nil {
		if errors.Is(err, repository.ErrMarksNotFound) {
			return errs.NewNotFoundError("No marks found for this student ID")
		}
		return errs.NewDatastoreError("Failed to fetch student marks", err)
	}
	return c.JSON(http.StatusOK, m)
}

// Delete handles DELETE /marks/:student_id.
func (h *MarkHandler) Delete(c echo.Context) error {
	id := c.Param("student_id")
	if err := h.store.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrMarksNotFound) {
			return errs.NewNotFoundError("No marks found to delete")
		}
		return errs.NewDatastoreError("Failed to delete student marks", err)
	}

	h.publish(c, queue.DeletedEvent(id, middleware.GetRequestID(c)))
	return c.JSON(http.StatusOK, messageResp{Message: "Marks deleted successfully!"})
}

// publish is best effort: the write already committed, so a broker failure
// is logged and the request still succeeds.
func (h *MarkHandler) publish(c echo.Context, ev queue.MarksChangedEvent) {
	if h.events == nil {
		return
	}
	if err := h.events.Publish(c.Request().Context(), ev); err != nil {
		middleware.GetLogger(c).Warn().Err(err).
			Str("action", ev.Action).
			Str("student_id", ev.StudentID).
			Msg("publish marks event failed")
	}
}

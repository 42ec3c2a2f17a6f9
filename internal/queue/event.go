// Package queue publishes and consumes marks change events over RabbitMQ.
package queue

import (
	"time"

	"github.com/iliyamo/student-marks/internal/model"
)

// Actions carried by MarksChangedEvent.
const (
	ActionUpserted = "upserted"
	ActionDeleted  = "deleted"
)

// MarksChangedEvent is published after a successful write to mark_table.
// For deletions the subject fields are nil.
type MarksChangedEvent struct {
	Action     string   `json:"action"`
	StudentID  string   `json:"student_id"`
	Sub1       *float64 `json:"sub1"`
	Sub2       *float64 `json:"sub2"`
	Sub3       *float64 `json:"sub3"`
	Sub4       *float64 `json:"sub4"`
	Sub5       *float64 `json:"sub5"`
	RequestID  string   `json:"request_id,omitempty"`
	OccurredAt string   `json:"occurred_at"`
}

// UpsertedEvent describes the row written by an upsert.
func UpsertedEvent(m model.StudentMark, requestID string) MarksChangedEvent {
	return MarksChangedEvent{
		Action:     ActionUpserted,
		StudentID:  string(m.StudentID),
		Sub1:       m.Sub1,
		Sub2:       m.Sub2,
		Sub3:       m.Sub3,
		Sub4:       m.Sub4,
		Sub5:       m.Sub5,
		RequestID:  requestID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// DeletedEvent describes the removal of one student's row.
func DeletedEvent(studentID, requestID string) MarksChangedEvent {
	return MarksChangedEvent{
		Action:     ActionDeleted,
		StudentID:  studentID,
		RequestID:  requestID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}

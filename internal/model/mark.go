package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// StudentMark represents one row of the `mark_table` table: the five
// subject scores of a single student. A nil score is stored as NULL.
//
// Fields:
//
//	StudentID – primary key, required on every write.
//	Sub1..Sub5 – subject scores; an upsert always writes all five.
type StudentMark struct {
	StudentID StudentID `json:"student_id" validate:"required"` // mark_table.student_id
	Sub1      *float64  `json:"sub1"`                           // mark_table.sub1
	Sub2      *float64  `json:"sub2"`                           // mark_table.sub2
	Sub3      *float64  `json:"sub3"`                           // mark_table.sub3
	Sub4      *float64  `json:"sub4"`                           // mark_table.sub4
	Sub5      *float64  `json:"sub5"`                           // mark_table.sub5
}

var errScoreType = errors.New("subject score must be a number or a numeric string")

// UnmarshalJSON decodes a request body. Scores may arrive as JSON numbers or
// as numeric strings ("80"), which the datastore column would coerce anyway.
func (m *StudentMark) UnmarshalJSON(b []byte) error {
	var raw struct {
		StudentID StudentID       `json:"student_id"`
		Sub1      json.RawMessage `json:"sub1"`
		Sub2      json.RawMessage `json:"sub2"`
		Sub3      json.RawMessage `json:"sub3"`
		Sub4      json.RawMessage `json:"sub4"`
		Sub5      json.RawMessage `json:"sub5"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	out := StudentMark{StudentID: raw.StudentID}
	dst := [5]**float64{&out.Sub1, &out.Sub2, &out.Sub3, &out.Sub4, &out.Sub5}
	for i, r := range [5]json.RawMessage{raw.Sub1, raw.Sub2, raw.Sub3, raw.Sub4, raw.Sub5} {
		v, err := parseScore(r)
		if err != nil {
			return err
		}
		*dst[i] = v
	}
	*m = out
	return nil
}

func parseScore(r json.RawMessage) (*float64, error) {
	r = bytes.TrimSpace(r)
	if len(r) == 0 || bytes.Equal(r, []byte("null")) {
		return nil, nil
	}
	if r[0] == '"' {
		var s string
		if err := json.Unmarshal(r, &s); err != nil {
			return nil, err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, errScoreType
		}
		return &f, nil
	}
	var f float64
	if err := json.Unmarshal(r, &f); err != nil {
		return nil, errScoreType
	}
	return &f, nil
}

// Subjects returns the five scores in column order.
func (m StudentMark) Subjects() [5]*float64 {
	return [5]*float64{m.Sub1, m.Sub2, m.Sub3, m.Sub4, m.Sub5}
}

// StudentID identifies a student. Clients send it either as a JSON string or
// as a JSON number; both decode to the same textual id. A numeric zero and
// null decode to the empty id, which validation treats as missing.
type StudentID string

var errStudentIDType = errors.New("student_id must be a string or a number")

func (id *StudentID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = StudentID(s)
		return nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		f, err := n.Float64()
		if err != nil {
			return err
		}
		if f == 0 {
			*id = ""
			return nil
		}
		// 101.0 and 1e2 are the numbers 101 and 100.
		*id = StudentID(strconv.FormatFloat(f, 'f', -1, 64))
		return nil
	}
	return errStudentIDType
}

func (id StudentID) String() string { return string(id) }

// Float returns a pointer to v, for building marks in code.
func Float(v float64) *float64 { return &v }

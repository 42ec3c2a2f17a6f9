package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentIDUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    StudentID
		wantErr bool
	}{
		{"string", `{"student_id":"S1"}`, "S1", false},
		{"number", `{"student_id":42}`, "42", false},
		{"number with fraction zero", `{"student_id":101.0}`, "101", false},
		{"exponent", `{"student_id":1e2}`, "100", false},
		{"fraction", `{"student_id":12.5}`, "12.5", false},
		{"zero is missing", `{"student_id":0}`, "", false},
		{"empty string", `{"student_id":""}`, "", false},
		{"null", `{"student_id":null}`, "", false},
		{"absent", `{}`, "", false},
		{"boolean", `{"student_id":true}`, "", true},
		{"object", `{"student_id":{"id":1}}`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m StudentMark
			err := json.Unmarshal([]byte(tt.body), &m)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.StudentID)
		})
	}
}

func TestStudentMarkJSONNulls(t *testing.T) {
	m := StudentMark{StudentID: "S1", Sub1: Float(80), Sub3: Float(90.5)}

	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"student_id":"S1","sub1":80,"sub2":null,"sub3":90.5,"sub4":null,"sub5":null}`, string(b))
}

func TestSubjectsOrder(t *testing.T) {
	m := StudentMark{Sub1: Float(1), Sub2: Float(2), Sub3: Float(3), Sub4: Float(4), Sub5: Float(5)}
	for i, s := range m.Subjects() {
		require.NotNil(t, s)
		assert.Equal(t, float64(i+1), *s)
	}
}

func TestScoreUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    *float64
		wantErr bool
	}{
		{"number", `{"student_id":"S1","sub1":80}`, Float(80), false},
		{"numeric string", `{"student_id":"S1","sub1":"80"}`, Float(80), false},
		{"padded decimal string", `{"student_id":"S1","sub1":" 72.5 "}`, Float(72.5), false},
		{"null", `{"student_id":"S1","sub1":null}`, nil, false},
		{"absent", `{"student_id":"S1"}`, nil, false},
		{"word", `{"student_id":"S1","sub1":"eighty"}`, nil, true},
		{"empty string", `{"student_id":"S1","sub1":""}`, nil, true},
		{"not a number", `{"student_id":"S1","sub1":"NaN"}`, nil, true},
		{"boolean", `{"student_id":"S1","sub1":true}`, nil, true},
		{"array", `{"student_id":"S1","sub1":[80]}`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m StudentMark
			err := json.Unmarshal([]byte(tt.body), &m)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, StudentID("S1"), m.StudentID)
			assert.Equal(t, tt.want, m.Sub1)
		})
	}
}

func TestStudentMarkUnmarshalAllSubjects(t *testing.T) {
	var m StudentMark
	require.NoError(t, json.Unmarshal([]byte(`{"student_id":7,"sub1":1,"sub2":"2","sub3":3.5,"sub4":null,"sub5":"5"}`), &m))

	assert.Equal(t, StudentID("7"), m.StudentID)
	assert.Equal(t, [5]*float64{Float(1), Float(2), Float(3.5), nil, Float(5)}, m.Subjects())
}

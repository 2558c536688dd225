package handler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		supplied bool
		truthy   bool
		text     string
	}{
		{name: "string", raw: `"Yes"`, supplied: true, truthy: true, text: "Yes"},
		{name: "empty string", raw: `""`, supplied: true, truthy: false, text: ""},
		{name: "null", raw: `null`, supplied: false, truthy: false},
		{name: "true", raw: `true`, supplied: true, truthy: true, text: "true"},
		{name: "false", raw: `false`, supplied: true, truthy: false, text: "false"},
		{name: "number", raw: `4`, supplied: true, truthy: true, text: "4"},
		{name: "zero", raw: `0`, supplied: true, truthy: false, text: "0"},
		{name: "string zero", raw: `"0"`, supplied: true, truthy: true, text: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Answer
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &a))
			assert.Equal(t, tt.supplied, a.Supplied())
			assert.Equal(t, tt.truthy, a.Truthy())
			assert.Equal(t, tt.text, a.String())
		})
	}
}

func TestAnswerRejectsObjectsAndArrays(t *testing.T) {
	var a Answer
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &a))
	assert.Error(t, json.Unmarshal([]byte(`["Yes"]`), &a))
}

func TestAnswerAbsentKeyIsNotSupplied(t *testing.T) {
	var s SurveySubmission
	require.NoError(t, json.Unmarshal([]byte(`{"country":"Kenya","q4":null}`), &s))

	assert.True(t, s.Country.Supplied())
	assert.False(t, s.Q4.Supplied())
	assert.False(t, s.Q8.Supplied())
	assert.Nil(t, s.Q14.Ptr())
}

func TestRecordJSONUsesColumnNames(t *testing.T) {
	reason := "clarity"
	record := SurveyResponseRecord{
		Country:                "Kenya",
		ReceivedUsefulFeedback: true,
		FeedbackReason:         &reason,
		IPAddress:              "unknown",
	}

	data, err := json.Marshal(record)
	require.NoError(t, err)

	var columns map[string]any
	require.NoError(t, json.Unmarshal(data, &columns))
	assert.Len(t, columns, 17)
	assert.Equal(t, "Kenya", columns["country"])
	assert.Equal(t, "clarity", columns["feedback_reason"])
	assert.Nil(t, columns["main_challenge"])
	assert.Contains(t, columns, "main_challenge")
	assert.Nil(t, columns["improvement_recommendations_compensation"])
	assert.Equal(t, "unknown", columns["ip_address"])
}

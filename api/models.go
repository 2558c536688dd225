package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Answer is one survey answer as submitted by the form.
// A key that is missing and a key set to null are both "not supplied".
// Strings, numbers and booleans are accepted and kept as text.
type Answer struct {
	value    string
	supplied bool
	truthy   bool
}

// NewAnswer returns a supplied string answer
func NewAnswer(value string) Answer {
	return Answer{value: value, supplied: true, truthy: value != ""}
}

// UnmarshalJSON implements json.Unmarshaler
func (a *Answer) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*a = Answer{}
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*a = NewAnswer(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return err
		}
		*a = Answer{value: strconv.FormatBool(b), supplied: true, truthy: b}
	case '{', '[':
		return fmt.Errorf("answer must be a string, number or boolean")
	default:
		n, err := strconv.ParseFloat(string(trimmed), 64)
		if err != nil {
			return fmt.Errorf("invalid answer %s: %w", trimmed, err)
		}
		*a = Answer{value: string(trimmed), supplied: true, truthy: n != 0}
	}
	return nil
}

// Supplied reports whether the answer was present and not null
func (a Answer) Supplied() bool { return a.supplied }

// Truthy reports whether the answer counts as filled in
func (a Answer) Truthy() bool { return a.supplied && a.truthy }

// Is reports whether the answer was supplied and equals s
func (a Answer) Is(s string) bool { return a.supplied && a.value == s }

func (a Answer) String() string { return a.value }

// Ptr returns the answer text, or nil when not supplied
func (a Answer) Ptr() *string {
	if !a.supplied {
		return nil
	}
	v := a.value
	return &v
}

// SurveySubmission represents the incoming managers survey form
type SurveySubmission struct {
	Country Answer `json:"country"`
	Q1      Answer `json:"q1"`  // satisfaction_performance
	Q2      Answer `json:"q2"`  // strengths_performance
	Q3      Answer `json:"q3"`  // improvement_recommendations_performance
	Q4      Answer `json:"q4"`  // faced_challenges
	Q5      Answer `json:"q5"`  // main_challenge
	Q6      Answer `json:"q6"`  // support_assessment
	Q7      Answer `json:"q7"`  // manager_discussion_quality
	Q8      Answer `json:"q8"`  // received_useful_feedback
	Q9      Answer `json:"q9"`  // feedback_reason
	Q10     Answer `json:"q10"` // satisfaction_compensation
	Q11     Answer `json:"q11"` // strengths_compensation
	Q12     Answer `json:"q12"` // strengths_details
	Q13     Answer `json:"q13"` // improvement_area_compensation
	Q14     Answer `json:"q14"` // improvement_recommendations_compensation
	Q15     Answer `json:"q15"` // workday_experience
}

// SurveyResponseRecord is one row of the survey responses table
type SurveyResponseRecord struct {
	Country                                string  `json:"country"`
	SatisfactionPerformance                string  `json:"satisfaction_performance"`
	StrengthsPerformance                   string  `json:"strengths_performance"`
	ImprovementRecommendationsPerformance  string  `json:"improvement_recommendations_performance"`
	FacedChallenges                        bool    `json:"faced_challenges"`
	MainChallenge                          *string `json:"main_challenge"`
	SupportAssessment                      string  `json:"support_assessment"`
	ManagerDiscussionQuality               string  `json:"manager_discussion_quality"`
	ReceivedUsefulFeedback                 bool    `json:"received_useful_feedback"`
	FeedbackReason                         *string `json:"feedback_reason"`
	SatisfactionCompensation               string  `json:"satisfaction_compensation"`
	StrengthsCompensation                  string  `json:"strengths_compensation"`
	StrengthsDetails                       string  `json:"strengths_details"`
	ImprovementAreaCompensation            string  `json:"improvement_area_compensation"`
	ImprovementRecommendationsCompensation *string `json:"improvement_recommendations_compensation"`
	WorkdayExperience                      string  `json:"workday_experience"`
	IPAddress                              string  `json:"ip_address"`
}

// SubmissionResponse is returned when a survey has been stored
type SubmissionResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse is returned on every failure path
type ErrorResponse struct {
	Error string `json:"error"`
}

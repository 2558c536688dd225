package handler

import (
	"net"
	"net/http"
)

// Validate checks the required answers of a submission.
// q4 and q8 only need to be supplied, since "No" is a valid answer.
// q5, q9 and q14 are optional and never checked, whatever q4 and q8 say.
func (s SurveySubmission) Validate() error {
	required := []Answer{
		s.Country, s.Q1, s.Q2, s.Q3, s.Q6, s.Q7,
		s.Q10, s.Q11, s.Q12, s.Q13, s.Q15,
	}
	for _, answer := range required {
		if !answer.Truthy() {
			return newSurveyError(KindValidationFailed, msgMissingFields, nil)
		}
	}

	if !s.Q4.Supplied() || !s.Q8.Supplied() {
		return newSurveyError(KindValidationFailed, msgMissingFields, nil)
	}

	return nil
}

// BuildResponseRecord maps a validated submission onto the table columns
func BuildResponseRecord(s SurveySubmission, ipAddress string) SurveyResponseRecord {
	facedChallenges := s.Q4.Is("Yes")
	receivedUsefulFeedback := s.Q8.Is("Yes")

	record := SurveyResponseRecord{
		Country:                                s.Country.String(),
		SatisfactionPerformance:                s.Q1.String(),
		StrengthsPerformance:                   s.Q2.String(),
		ImprovementRecommendationsPerformance:  s.Q3.String(),
		FacedChallenges:                        facedChallenges,
		SupportAssessment:                      s.Q6.String(),
		ManagerDiscussionQuality:               s.Q7.String(),
		ReceivedUsefulFeedback:                 receivedUsefulFeedback,
		SatisfactionCompensation:               s.Q10.String(),
		StrengthsCompensation:                  s.Q11.String(),
		StrengthsDetails:                       s.Q12.String(),
		ImprovementAreaCompensation:            s.Q13.String(),
		ImprovementRecommendationsCompensation: s.Q14.Ptr(),
		WorkdayExperience:                      s.Q15.String(),
		IPAddress:                              ipAddress,
	}

	// Follow-up answers are only kept when their gate question is "Yes"
	if facedChallenges {
		record.MainChallenge = s.Q5.Ptr()
	}
	if receivedUsefulFeedback {
		record.FeedbackReason = s.Q9.Ptr()
	}

	return record
}

// ClientIPAddress returns the X-Forwarded-For header as sent, else the
// remote host of the connection, else "unknown"
func ClientIPAddress(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}

	if r.RemoteAddr != "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
			return host
		}
		return r.RemoteAddr
	}

	return "unknown"
}

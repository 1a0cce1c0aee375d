package dto

// GradeResult is the grade_me response body.
type GradeResult struct {
	GradeRequestSent bool `json:"grade_request_sent"`
}

package dto

// TransferRequest describes an annotation copy between two
// (course, assignment) contexts. Field names match the form the
// annotation dashboard has always posted.
type TransferRequest struct {
	OldAssignmentID string   `form:"old_assignment_id" validate:"required"`
	NewAssignmentID string   `form:"new_assignment_id" validate:"required"`
	OldCourseID     string   `form:"old_course_id" validate:"required"`
	NewCourseID     string   `form:"new_course_id" validate:"required"`
	ObjectIDs       []string `form:"object_ids[]" validate:"required,min=1"`
}

// TransferOutcome reports how many annotations were copied per source
// object. It is logged server-side; the HTTP response body stays `{}` for
// compatibility with existing dashboard consumers.
type TransferOutcome struct {
	Copied map[string]int
}

// TotalCopied sums the per-object counts.
func (o *TransferOutcome) TotalCopied() int {
	total := 0
	for _, n := range o.Copied {
		total += n
	}
	return total
}

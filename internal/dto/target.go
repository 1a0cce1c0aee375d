package dto

// TargetNeighbor identifies the target object before or after the current
// one within an assignment's ordered sequence.
type TargetNeighbor struct {
	ObjectID int64  `json:"object_id"`
	Title    string `json:"title"`
	Order    int    `json:"order"`
}

// TargetDetail is the resolved view of one assignment target: decoded
// external options, the effective canvas ID and the neighbors used for
// previous/next navigation.
type TargetDetail struct {
	AssignmentID       string          `json:"assignment_id"`
	ObjectID           int64           `json:"object_id"`
	Title              string          `json:"title"`
	Media              string          `json:"media"`
	Order              int             `json:"order"`
	ViewType           string          `json:"view_type"`
	CanvasID           *string         `json:"canvas_id"`
	DashboardHidden    string          `json:"dashboard_hidden"`
	TranscriptHidden   string          `json:"transcript_hidden"`
	TranscriptDownload string          `json:"transcript_download"`
	VideoDownload      string          `json:"video_download"`
	Instructions       *string         `json:"instructions,omitempty"`
	Previous           *TargetNeighbor `json:"previous,omitempty"`
	Next               *TargetNeighbor `json:"next,omitempty"`
}

// ExportRequest selects the export payload and format.
type ExportRequest struct {
	Format string `form:"format" validate:"omitempty,oneof=csv pdf"`
	Media  string `form:"media"`
	Limit  int    `form:"limit"`
}

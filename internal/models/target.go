package models

import "time"

// Media kinds understood by the annotation store.
const (
	MediaText  = "text"
	MediaImage = "image"
	MediaVideo = "video"
)

var mediaByTargetType = map[string]string{
	"tx": MediaText,
	"ig": MediaImage,
	"vd": MediaVideo,
}

// TargetObject is a piece of annotatable source material. For text objects
// Content holds the material itself and the object primary key is the
// annotation URI; for image objects Content is the IIIF manifest URL and
// annotations reference a canvas URI inside it.
type TargetObject struct {
	ID         int64     `db:"id" json:"id"`
	Title      string    `db:"target_title" json:"target_title"`
	Content    string    `db:"target_content" json:"target_content"`
	TargetType string    `db:"target_type" json:"target_type"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Media maps the stored target type code to the store's media name.
// The second return is false for unknown codes.
func (t *TargetObject) Media() (string, bool) {
	media, ok := mediaByTargetType[t.TargetType]
	return media, ok
}

// AssignmentTarget places a TargetObject inside an Assignment at a 1-based
// order position, unique and dense within the assignment.
type AssignmentTarget struct {
	ID              int64     `db:"id" json:"id"`
	AssignmentID    int64     `db:"assignment_id" json:"assignment_id"`
	TargetObjectID  int64     `db:"target_object_id" json:"target_object_id"`
	Order           int       `db:"target_order" json:"order"`
	ExternalCSS     string    `db:"target_external_css" json:"target_external_css"`
	Instructions    *string   `db:"target_instructions" json:"target_instructions,omitempty"`
	ExternalOptions *string   `db:"target_external_options" json:"target_external_options,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// Options decodes the target's external options string. Decoding happens on
// every call rather than being cached on the row.
func (t *AssignmentTarget) Options() ExternalOptions {
	return DecodeExternalOptions(t.ExternalOptions)
}

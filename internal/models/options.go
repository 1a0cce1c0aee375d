package models

import "strings"

// External option positions within the stored CSV string.
const (
	optViewType = iota
	optCanvasID
	optDashboardHidden
	optTranscriptHidden
	optTranscriptDownload
	optVideoDownload
)

const defaultViewType = "ImageView"

// ExternalOptions is the decoded form of an assignment target's compact
// positional options string. The format is a boundary contract with data
// already stored by older deployments: missing trailing fields and blank
// fields both fall back to their defaults, and non-empty values are
// returned verbatim without validation.
type ExternalOptions struct {
	fields []string
}

// DecodeExternalOptions splits the raw options string on commas. A nil
// input decodes to an empty option list.
func DecodeExternalOptions(raw *string) ExternalOptions {
	if raw == nil {
		return ExternalOptions{}
	}
	return ExternalOptions{fields: strings.Split(*raw, ",")}
}

// Fields returns the raw positional fields.
func (o ExternalOptions) Fields() []string {
	return o.fields
}

// ViewType returns the viewer type for the image client.
func (o ExternalOptions) ViewType() string {
	if len(o.fields) <= 1 || o.fields[optViewType] == "" {
		return defaultViewType
	}
	return o.fields[optViewType]
}

// CanvasID returns the explicit canvas identifier, or nil when the canvas
// must be resolved from the target's IIIF manifest instead.
func (o ExternalOptions) CanvasID() *string {
	if len(o.fields) <= 1 || o.fields[optCanvasID] == "" {
		return nil
	}
	return &o.fields[optCanvasID]
}

// DashboardHidden reports whether the dashboard is hidden for this target.
func (o ExternalOptions) DashboardHidden() string {
	return o.flag(optDashboardHidden)
}

// TranscriptHidden reports whether the transcript pane is hidden.
func (o ExternalOptions) TranscriptHidden() string {
	return o.flag(optTranscriptHidden)
}

// TranscriptDownload reports whether transcript download is offered.
func (o ExternalOptions) TranscriptDownload() string {
	return o.flag(optTranscriptDownload)
}

// VideoDownload reports whether video download is offered.
func (o ExternalOptions) VideoDownload() string {
	return o.flag(optVideoDownload)
}

// flag returns the boolean-ish field at the given position. Values are not
// interpreted here: any non-empty string is handed to the caller verbatim.
func (o ExternalOptions) flag(index int) string {
	if len(o.fields) < index+1 || o.fields[index] == "" {
		return "false"
	}
	return o.fields[index]
}

package models

import "encoding/json"

// Annotation rows are handled as loosely-typed documents: the store owns
// the schema and rows must round-trip through transfer with every field
// intact, including ones this service knows nothing about.
type AnnotationRow = map[string]interface{}

// SearchEnvelope is the annotation store's search response shape.
type SearchEnvelope struct {
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
	Rows   []AnnotationRow `json:"rows"`
}

// StoreResponse is the pass-through payload of one upstream store call.
// Non-2xx statuses travel through it verbatim rather than as errors.
type StoreResponse struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the upstream answered with HTTP 200.
func (r *StoreResponse) OK() bool {
	return r != nil && r.StatusCode == 200
}

// Envelope parses the response body as a search envelope.
func (r *StoreResponse) Envelope() (*SearchEnvelope, error) {
	var env SearchEnvelope
	if err := json.Unmarshal(r.Body, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// RowAuthor extracts the user.id and user.name fields from an annotation row.
func RowAuthor(row AnnotationRow) (id, name string) {
	user, ok := row["user"].(map[string]interface{})
	if !ok {
		return "", ""
	}
	id, _ = user["id"].(string)
	name, _ = user["name"].(string)
	return id, name
}

// SetRowAuthorID rewrites the user.id field of an annotation row in place.
func SetRowAuthorID(row AnnotationRow, id string) {
	if user, ok := row["user"].(map[string]interface{}); ok {
		user["id"] = id
	}
}

// RowReadPermissions returns the permissions.read list of a row and whether
// the row carries one at all.
func RowReadPermissions(row AnnotationRow) ([]interface{}, bool) {
	perms, ok := row["permissions"].(map[string]interface{})
	if !ok {
		return nil, false
	}
	read, ok := perms["read"].([]interface{})
	return read, ok
}

package service

import "github.com/hxat/annotation-api/internal/models"

// FilterEnvelope applies the read-permission filter to a search envelope.
// Elevated users and anonymous requests see the envelope unchanged. For
// everyone else only rows without a permissions.read list, with an empty
// list, or listing the requesting user survive. Total is recomputed to the
// surviving row count; limit and offset describe the request and pass
// through untouched.
func FilterEnvelope(env *models.SearchEnvelope, userID string, elevated bool) *models.SearchEnvelope {
	if env == nil || userID == "" || elevated {
		return env
	}

	filtered := &models.SearchEnvelope{
		Limit:  env.Limit,
		Offset: env.Offset,
		Rows:   make([]models.AnnotationRow, 0, len(env.Rows)),
	}

	for _, row := range env.Rows {
		read, ok := models.RowReadPermissions(row)
		if !ok || len(read) == 0 || containsUser(read, userID) {
			filtered.Rows = append(filtered.Rows, row)
		}
	}

	filtered.Total = len(filtered.Rows)
	return filtered
}

func containsUser(read []interface{}, userID string) bool {
	for _, entry := range read {
		if id, ok := entry.(string); ok && id == userID {
			return true
		}
	}
	return false
}

package models

// LaunchSession carries the LTI launch context established upstream. It is
// persisted in Redis at launch time and attached to every in-session
// request by middleware.
type LaunchSession struct {
	UserID       string   `json:"hx_user_id"`
	DisplayName  string   `json:"hx_user_name"`
	ContextID    string   `json:"hx_context_id"`
	CollectionID string   `json:"hx_collection_id"`
	ObjectID     string   `json:"hx_object_id"`
	Roles        []string `json:"hx_roles"`
}

// Roles that grant elevated read permission over other users' annotations.
var elevatedRoles = map[string]struct{}{
	"Instructor":        {},
	"Administrator":     {},
	"TeachingAssistant": {},
	"ContentDeveloper":  {},
}

// Elevated reports whether the launch roles include an instructor-level role.
func (s *LaunchSession) Elevated() bool {
	if s == nil {
		return false
	}
	for _, role := range s.Roles {
		if _, ok := elevatedRoles[role]; ok {
			return true
		}
	}
	return false
}

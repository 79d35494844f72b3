package models

import "time"

// Audited actions
const (
	ActionLogin          = "login"
	ActionResetPIN       = "reset_pin"
	ActionAddStudent     = "add_student"
	ActionUpdateStudent  = "update_student"
	ActionDeleteStudent  = "delete_student"
	ActionAddResult      = "add_result"
	ActionUpdateResult   = "update_result"
	ActionDeleteResult   = "delete_result"
	ActionUpdateSettings = "update_settings"
)

// ActivityLog is one append-only entry of the 'activity_logs' table
type ActivityLog struct {
	ID          string         `json:"id" db:"id"`
	ActorType   ActorType      `json:"actorType" db:"actor_type" example:"admin"`
	ActorID     string         `json:"actorId" db:"actor_id"`
	Action      string         `json:"action" db:"action" example:"login"`
	Description string         `json:"description" db:"description" example:"Admin Ada Obi logged in"`
	Metadata    map[string]any `json:"metadata" db:"metadata"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
}

// NewActivityLog builds an entry for the given actor. ID and CreatedAt are assigned on append.
func NewActivityLog(actor Actor, action, description string, metadata map[string]any) *ActivityLog {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &ActivityLog{
		ActorType:   actor.Kind(),
		ActorID:     actor.ActorID(),
		Action:      action,
		Description: description,
		Metadata:    metadata,
	}
}

package dto

import "github.com/scholaris/resultportal/internal/app/models"

// ActivityLogQuery are the filters of the activity log viewer
type ActivityLogQuery struct {
	ActorType models.ActorType `form:"actorType" binding:"omitempty,oneof=admin student"`
	Search    string           `form:"search" binding:"max=100"`
	Limit     int              `form:"limit" binding:"omitempty,min=1,max=500"`
}

// ActivityLogResponse lists the newest entries first
type ActivityLogResponse struct {
	Logs  []*models.ActivityLog `json:"logs"`
	Total int64                 `json:"total" example:"1250"`
}

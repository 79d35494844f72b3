package models

import "time"

// StudentFilter narrows student listings
type StudentFilter struct {
	Search     string // matches full name, student id or class
	ActiveOnly bool
	Offset     uint64
	Limit      int
}

// ResultFilter narrows result listings
type ResultFilter struct {
	StudentID string // internal student UUID
	Term      Term
	Session   string
	Search    string // matches student name, student id, term or session
	Offset    uint64
	Limit     int
}

// ActivityLogFilter narrows activity log listings
type ActivityLogFilter struct {
	ActorType ActorType
	Search    string // matches action or description
	Since     *time.Time
	Limit     int
}

// Overview holds the dashboard counters
type Overview struct {
	TotalStudents  int64 `json:"totalStudents" example:"120"`
	ActiveStudents int64 `json:"activeStudents" example:"115"`
	TotalResults   int64 `json:"totalResults" example:"340"`
	RecentActivity int64 `json:"recentActivity" example:"42"`
}

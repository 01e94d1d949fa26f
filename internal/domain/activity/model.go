package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeProjectCreated     ActivityType = "project_created"
	TypeProjectUpdated     ActivityType = "project_updated"
	TypeGenerationRecorded ActivityType = "generation_recorded"
	TypeGenerationFailed   ActivityType = "generation_failed"
)

// ActivityEntry represents an event in a project's activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	ProjectID    int64        `json:"project_id"`
	GenerationID *int64       `json:"generation_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

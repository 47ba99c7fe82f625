package domain

import "time"

// ActivityType classifies an activity-log entry.
type ActivityType string

const (
	ActivitySystem  ActivityType = "system"
	ActivityCreate  ActivityType = "create"
	ActivityEdit    ActivityType = "edit"
	ActivityDelete  ActivityType = "delete"
	ActivityComment ActivityType = "comment"
	ActivityError   ActivityType = "error"
)

// LogEntry is one activity audit record. Entries are append-only, kept
// newest first, and the in-memory log is capped; older history can be
// mirrored to Postgres for retention.
type LogEntry struct {
	ID         int
	UserName   string
	Type       ActivityType
	EntityType string
	EntityID   string
	Detail     string
	CreatedAt  time.Time
}

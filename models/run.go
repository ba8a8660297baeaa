package models

import "time"

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run trigger
const (
	RunTriggerSchedule = "schedule"
	RunTriggerManual   = "manual"
)

// CycleRun records one scrape→generate→publish cycle (or one manual scrape)
// in the operational store.
type CycleRun struct {
	ID             int64      `json:"id" db:"id"`
	Trigger        string     `json:"trigger" db:"run_trigger"`
	Location       string     `json:"location" db:"location"`
	StartedAt      time.Time  `json:"started_at" db:"started_at"`
	FinishedAt     *time.Time `json:"finished_at" db:"finished_at"`
	Status         RunStatus  `json:"status" db:"status"`
	HotelsFound    int        `json:"hotels_found" db:"hotels_found"`
	HotelsSaved    int        `json:"hotels_saved" db:"hotels_saved"`
	PostsCreated   int        `json:"posts_created" db:"posts_created"`
	PostsDelivered int        `json:"posts_delivered" db:"posts_delivered"`
	ErrorsCount    int        `json:"errors_count" db:"errors_count"`
}

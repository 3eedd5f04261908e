package domain

import "time"

type AgentRunStatus string

const (
	AgentRunStatusRunning   AgentRunStatus = "running"
	AgentRunStatusSucceeded AgentRunStatus = "succeeded"
	AgentRunStatusFailed    AgentRunStatus = "failed"
)

// AgentRun records one execution of a background agent.
type AgentRun struct {
	ID             string
	AgentID        string
	Status         AgentRunStatus
	Trigger        string
	ItemsProcessed int
	Error          string
	StartedAt      time.Time
	FinishedAt     *time.Time
}

// Run triggers.
const (
	RunTriggerSchedule = "schedule"
	RunTriggerManual   = "manual"
)

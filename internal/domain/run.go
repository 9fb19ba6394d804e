package domain

import "time"

type RunStatus string

const (
	RunPending RunStatus = "pending"
	RunSuccess RunStatus = "success"
	RunFailed  RunStatus = "failed"
)

// Run records the lifecycle of one reconciliation task. The orchestrator
// creates it as pending and flips it to success or failed exactly once.
type Run struct {
	ID        string    `json:"task_id"`
	Status    RunStatus `json:"status"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package dto

import "time"

type TriggerRunResponse struct {
	TaskID string `json:"task_id"`
}

type RunStatusResponse struct {
	TaskID    string    `json:"task_id"`
	Status    string    `json:"status"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type WelcomeResponse struct {
	Message string `json:"message"`
}

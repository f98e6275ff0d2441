package imagetask

import "strings"

// DefaultSeed is used when the caller has no preference.
const DefaultSeed = 42

// TaskStatus mirrors the task record of the image service. It is only ever decoded.
type TaskStatus struct {
	ID          string  `json:"id"`
	Status      string  `json:"status"`
	Progress    float64 `json:"progress"`
	TotalSteps  int     `json:"total_steps"`
	Prompt      string  `json:"prompt"`
	Seed        int64   `json:"seed"`
	CreatedAt   string  `json:"created_at"`
	CompletedAt *string `json:"completed_at,omitempty"`
	Error       *string `json:"error,omitempty"`
}

type createRequest struct {
	Prompt string `json:"prompt"`
	Seed   int64  `json:"seed"`
}

type createResponse struct {
	TaskID string `json:"task_id"`
}

type resultResponse struct {
	ImageBase64 string `json:"image_base64"`
}

type phase int

const (
	phaseRunning phase = iota
	phaseSucceeded
	phaseFailed
)

// Anything not listed is still running.
func classify(status string) phase {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "completed", "succeeded", "success", "done":
		return phaseSucceeded
	case "failed", "error", "cancelled", "canceled":
		return phaseFailed
	default:
		return phaseRunning
	}
}

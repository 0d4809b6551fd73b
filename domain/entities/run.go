package entities

import "time"

// Script is an ordered list of steps loaded from a file
type Script struct {
	Name    string `json:"name" yaml:"name"`
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Steps   []Step `json:"steps" yaml:"steps"`
}

// Run represents one execution of a script
type Run struct {
	ID       string       `json:"id"`
	Script   string       `json:"script"`
	Status   RunStatus    `json:"status"`
	Results  []StepResult `json:"results"`
	Started  time.Time    `json:"started"`
	Finished time.Time    `json:"finished,omitempty"`
}

// RunStatus represents the status of a run
type RunStatus string

const (
	RunStatusInProgress RunStatus = "in_progress"
	RunStatusCompleted  RunStatus = "completed"
	RunStatusFailed     RunStatus = "failed"
)

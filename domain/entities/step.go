package entities

import "time"

// StepAction represents the wrapper operation a step performs
type StepAction string

const (
	StepOpen       StepAction = "open"
	StepClick      StepAction = "click"
	StepVisible    StepAction = "visible"
	StepAllVisible StepAction = "all-visible"
	StepType       StepAction = "type"
	StepText       StepAction = "text"
	StepAttribute  StepAction = "attr"
	StepHover      StepAction = "hover"
	StepEnabled    StepAction = "enabled"
	StepClear      StepAction = "clear"
	StepCount      StepAction = "count"
)

// StepActions lists every action in the order the help text shows them
var StepActions = []StepAction{
	StepOpen, StepClick, StepVisible, StepAllVisible, StepType, StepText,
	StepAttribute, StepHover, StepEnabled, StepClear, StepCount,
}

// Valid reports whether a is a known action
func (a StepAction) Valid() bool {
	for _, known := range StepActions {
		if a == known {
			return true
		}
	}
	return false
}

// NeedsSelector reports whether the action targets elements on the page
func (a StepAction) NeedsSelector() bool {
	return a != StepOpen
}

// Step represents a single wrapper call with the selector it targets
type Step struct {
	Action      StepAction `json:"action" yaml:"action"`
	Selector    string     `json:"selector,omitempty" yaml:"selector,omitempty"`
	URL         string     `json:"url,omitempty" yaml:"url,omitempty"`
	Text        string     `json:"text,omitempty" yaml:"text,omitempty"`
	Attribute   string     `json:"attribute,omitempty" yaml:"attribute,omitempty"`
	Expect      *string    `json:"expect,omitempty" yaml:"expect,omitempty"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
}

// StepResult represents the outcome of a step
type StepResult struct {
	Step     Step          `json:"step"`
	Success  bool          `json:"success"`
	Output   string        `json:"output,omitempty"`
	Error    string        `json:"error,omitempty"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
}

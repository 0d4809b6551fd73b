package interfaces

import "webdriver_wrapper/domain/entities"

// TranscriptStore persists finished script runs
type TranscriptStore interface {
	// SaveRun appends a run to the transcript
	SaveRun(run *entities.Run) error

	// LoadRuns returns every saved run, oldest first
	LoadRuns() ([]entities.Run, error)
}

package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"webdriver_wrapper/domain/entities"
	"webdriver_wrapper/domain/interfaces"
)

const transcriptFile = "runs.json"

type transcriptStore struct {
	mu   sync.Mutex
	path string
}

// NewTranscriptStore - creates run transcript storage inside dir
func NewTranscriptStore(dir string) (interfaces.TranscriptStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &transcriptStore{
		path: filepath.Join(dir, transcriptFile),
	}, nil
}

// SaveRun - appends a run to the transcript file
func (s *transcriptStore) SaveRun(run *entities.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	runs, err := s.load()
	if err != nil {
		return err
	}
	runs = append(runs, *run)

	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

// LoadRuns - loads every saved run
func (s *transcriptStore) LoadRuns() ([]entities.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *transcriptStore) load() ([]entities.Run, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []entities.Run{}, nil
		}
		return nil, err
	}

	var runs []entities.Run
	if err := json.Unmarshal(data, &runs); err != nil {
		return nil, fmt.Errorf("corrupt transcript %s: %w", s.path, err)
	}
	return runs, nil
}

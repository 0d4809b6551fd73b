package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"webdriver_wrapper/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscriptStoreMissingFileLoadsEmpty(t *testing.T) {
	store, err := NewTranscriptStore(filepath.Join(t.TempDir(), "state"))
	require.NoError(t, err)

	runs, err := store.LoadRuns()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestTranscriptStoreAppendsRuns(t *testing.T) {
	store, err := NewTranscriptStore(t.TempDir())
	require.NoError(t, err)

	started := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	first := &entities.Run{
		ID:      "run-1",
		Script:  "login",
		Status:  entities.RunStatusCompleted,
		Started: started,
		Results: []entities.StepResult{{
			Step:    entities.Step{Action: entities.StepText, Selector: "h1"},
			Success: true,
			Output:  "Welcome",
		}},
	}
	second := &entities.Run{ID: "run-2", Script: "logout", Status: entities.RunStatusFailed, Started: started}

	require.NoError(t, store.SaveRun(first))
	require.NoError(t, store.SaveRun(second))

	runs, err := store.LoadRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-1", runs[0].ID)
	assert.Equal(t, "Welcome", runs[0].Results[0].Output)
	assert.Equal(t, entities.RunStatusFailed, runs[1].Status)
}

func TestTranscriptStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, transcriptFile), []byte("{not json"), 0644))

	store, err := NewTranscriptStore(dir)
	require.NoError(t, err)

	_, err = store.LoadRuns()
	assert.ErrorContains(t, err, "corrupt transcript")
}

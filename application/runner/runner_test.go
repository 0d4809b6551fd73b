package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"webdriver_wrapper/application/wrapper"
	"webdriver_wrapper/domain/entities"
	"webdriver_wrapper/infrastructure/browser/fake"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	runs []entities.Run
	err  error
}

func (m *memoryStore) SaveRun(run *entities.Run) error {
	if m.err != nil {
		return m.err
	}
	m.runs = append(m.runs, *run)
	return nil
}

func (m *memoryStore) LoadRuns() ([]entities.Run, error) {
	return m.runs, nil
}

func strPtr(s string) *string { return &s }

func newTestRunner(s *fake.Session, store *memoryStore) *Runner {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	w := wrapper.NewWrapper(50*time.Millisecond, logger)
	if store == nil {
		return NewRunner(s, w, nil, logger)
	}
	return NewRunner(s, w, store, logger)
}

func newLoginPage() *fake.Session {
	s := fake.NewSession()
	s.Add("#user", fake.NewElement(""))
	s.Add("button", fake.NewElement("Sign in"))
	link := fake.NewElement("Docs")
	link.Attributes["href"] = "/docs"
	s.Add("a.docs", link)
	s.Add("li", fake.NewElement("one"), fake.NewElement("two"), fake.NewElement("three"))
	return s
}

func TestExecuteSteps(t *testing.T) {
	tests := []struct {
		name       string
		step       entities.Step
		wantOutput string
		wantOK     bool
	}{
		{"text", entities.Step{Action: entities.StepText, Selector: "button"}, "Sign in", true},
		{"attribute", entities.Step{Action: entities.StepAttribute, Selector: "a.docs", Attribute: "href"}, "/docs", true},
		{"missing attribute", entities.Step{Action: entities.StepAttribute, Selector: "a.docs", Attribute: "target"}, "<absent>", true},
		{"count", entities.Step{Action: entities.StepCount, Selector: "li"}, "3", true},
		{"count no matches", entities.Step{Action: entities.StepCount, Selector: "tr"}, "0", true},
		{"all visible", entities.Step{Action: entities.StepAllVisible, Selector: "li"}, "3", true},
		{"enabled", entities.Step{Action: entities.StepEnabled, Selector: "button"}, "true", true},
		{"visible", entities.Step{Action: entities.StepVisible, Selector: "button"}, "", true},
		{"hover", entities.Step{Action: entities.StepHover, Selector: "a.docs"}, "", true},
		{"click", entities.Step{Action: entities.StepClick, Selector: "button"}, "", true},
		{"clear", entities.Step{Action: entities.StepClear, Selector: "#user"}, "", true},
		{"missing element", entities.Step{Action: entities.StepClick, Selector: "#nope"}, "", false},
		{"expect matches", entities.Step{Action: entities.StepText, Selector: "button", Expect: strPtr("Sign in")}, "Sign in", true},
		{"expect mismatch", entities.Step{Action: entities.StepText, Selector: "button", Expect: strPtr("Log in")}, "Sign in", false},
		{"unknown action", entities.Step{Action: "drag", Selector: "button"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRunner(newLoginPage(), nil)
			result := r.Execute(context.Background(), tt.step)
			assert.Equal(t, tt.wantOK, result.Success, result.Error)
			assert.Equal(t, tt.wantOutput, result.Output)
			if !tt.wantOK {
				assert.NotEmpty(t, result.Error)
			}
		})
	}
}

func TestExecuteTypeThenText(t *testing.T) {
	s := newLoginPage()
	r := newTestRunner(s, nil)
	ctx := context.Background()

	require.True(t, r.Execute(ctx, entities.Step{Action: entities.StepType, Selector: "#user", Text: "alice"}).Success)
	result := r.Execute(ctx, entities.Step{Action: entities.StepText, Selector: "#user"})
	assert.Equal(t, "alice", result.Output)
	assert.Len(t, r.History(), 2)
}

func TestOpenResolvesAgainstBaseURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		url  string
		want string
	}{
		{"no base", "", "https://example.com/a", "https://example.com/a"},
		{"relative path", "https://example.com/app/", "login", "https://example.com/app/login"},
		{"absolute path", "https://example.com/app/", "/login", "https://example.com/login"},
		{"absolute url wins", "https://example.com", "https://other.org/", "https://other.org/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := fake.NewSession()
			r := newTestRunner(s, nil)
			r.SetBaseURL(tt.base)

			result := r.Execute(context.Background(), entities.Step{Action: entities.StepOpen, URL: tt.url})
			require.True(t, result.Success, result.Error)
			assert.Equal(t, tt.want, s.URL())
		})
	}
}

func TestOpenDoesNotWait(t *testing.T) {
	s := fake.NewSession()
	r := newTestRunner(s, nil)

	r.Execute(context.Background(), entities.Step{Action: entities.StepOpen, URL: "https://example.com"})
	assert.Equal(t, []string{"navigate:https://example.com"}, s.Calls())
}

func TestRunScriptCompletes(t *testing.T) {
	s := newLoginPage()
	store := &memoryStore{}
	r := newTestRunner(s, store)

	script := &entities.Script{
		Name:    "login",
		BaseURL: "https://example.com",
		Steps: []entities.Step{
			{Action: entities.StepOpen, URL: "/login"},
			{Action: entities.StepType, Selector: "#user", Text: "alice"},
			{Action: entities.StepClick, Selector: "button"},
			{Action: entities.StepText, Selector: "#user", Expect: strPtr("alice")},
		},
	}

	run, err := r.RunScript(context.Background(), script)
	require.NoError(t, err)
	assert.Equal(t, entities.RunStatusCompleted, run.Status)
	assert.Len(t, run.Results, 4)
	assert.Equal(t, "https://example.com/login", s.URL())
	_, err = uuid.Parse(run.ID)
	assert.NoError(t, err)
	require.Len(t, store.runs, 1)
	assert.Equal(t, run.ID, store.runs[0].ID)
	assert.False(t, run.Finished.Before(run.Started))
}

func TestRunScriptDoesNotReusePreviousBaseURL(t *testing.T) {
	s := newLoginPage()
	r := newTestRunner(s, nil)

	first := &entities.Script{
		Name:    "app",
		BaseURL: "https://a.example/app/",
		Steps:   []entities.Step{{Action: entities.StepOpen, URL: "login"}},
	}
	second := &entities.Script{
		Name:  "absolute",
		Steps: []entities.Step{{Action: entities.StepOpen, URL: "login"}},
	}

	_, err := r.RunScript(context.Background(), first)
	require.NoError(t, err)
	assert.Equal(t, "https://a.example/app/login", s.URL())

	_, err = r.RunScript(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, "login", s.URL())
}

func TestRunScriptStopsAtFirstFailure(t *testing.T) {
	s := newLoginPage()
	hidden := fake.NewElement("")
	hidden.Displayed = false
	s.Add("#spinner", hidden)
	store := &memoryStore{}
	r := newTestRunner(s, store)

	script := &entities.Script{
		Name: "broken",
		Steps: []entities.Step{
			{Action: entities.StepClick, Selector: "button"},
			{Action: entities.StepVisible, Selector: "#spinner"},
			{Action: entities.StepClick, Selector: "a.docs"},
		},
	}

	run, err := r.RunScript(context.Background(), script)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 2 (visible) failed")
	assert.Contains(t, err.Error(), "wait timed out")
	assert.Equal(t, entities.RunStatusFailed, run.Status)
	assert.Len(t, run.Results, 2)
	assert.NotContains(t, s.Calls(), "click:a.docs")
	require.Len(t, store.runs, 1)
	assert.Equal(t, entities.RunStatusFailed, store.runs[0].Status)
}

func TestRunScriptCancelled(t *testing.T) {
	r := newTestRunner(newLoginPage(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run, err := r.RunScript(ctx, &entities.Script{Steps: []entities.Step{{Action: entities.StepClick, Selector: "button"}}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, entities.RunStatusFailed, run.Status)
	assert.Empty(t, run.Results)
}

func TestRunScriptStoreFailureDoesNotFailRun(t *testing.T) {
	store := &memoryStore{err: errors.New("disk full")}
	r := newTestRunner(newLoginPage(), store)

	run, err := r.RunScript(context.Background(), &entities.Script{Steps: []entities.Step{{Action: entities.StepCount, Selector: "li"}}})
	require.NoError(t, err)
	assert.Equal(t, entities.RunStatusCompleted, run.Status)
}

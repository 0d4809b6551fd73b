package runner

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"webdriver_wrapper/application/wrapper"
	"webdriver_wrapper/domain/entities"
	"webdriver_wrapper/domain/interfaces"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Runner struct {
	session interfaces.Session
	wrapper *wrapper.Wrapper
	store   interfaces.TranscriptStore
	logger  *logrus.Logger
	history []entities.StepResult
	baseURL string
}

// NewRunner - creates a runner; store may be nil to skip transcripts
func NewRunner(session interfaces.Session, w *wrapper.Wrapper, store interfaces.TranscriptStore, logger *logrus.Logger) *Runner {
	return &Runner{
		session: session,
		wrapper: w,
		store:   store,
		logger:  logger,
		history: make([]entities.StepResult, 0),
	}
}

// SetBaseURL - sets the URL relative open steps resolve against
func (r *Runner) SetBaseURL(base string) {
	r.baseURL = base
}

// History - returns results of every step executed so far
func (r *Runner) History() []entities.StepResult {
	return append([]entities.StepResult(nil), r.history...)
}

// Execute - runs one step and records its result
func (r *Runner) Execute(ctx context.Context, step entities.Step) entities.StepResult {
	result := entities.StepResult{
		Step:    step,
		Started: time.Now(),
	}

	output, err := r.dispatch(ctx, step)
	if err == nil && step.Expect != nil && output != *step.Expect {
		err = fmt.Errorf("expected %q, got %q", *step.Expect, output)
	}

	result.Duration = time.Since(result.Started)
	result.Output = output
	if err != nil {
		result.Error = err.Error()
		r.logger.WithFields(logrus.Fields{
			"action":   step.Action,
			"selector": step.Selector,
		}).Warnf("Step failed: %v", err)
	} else {
		result.Success = true
		r.logger.WithFields(logrus.Fields{
			"action":   step.Action,
			"selector": step.Selector,
			"duration": result.Duration,
		}).Info("Step succeeded")
	}

	r.history = append(r.history, result)
	return result
}

// RunScript - runs steps in order and stops at the first failure
func (r *Runner) RunScript(ctx context.Context, script *entities.Script) (*entities.Run, error) {
	run := &entities.Run{
		ID:      uuid.NewString(),
		Script:  script.Name,
		Status:  entities.RunStatusInProgress,
		Results: make([]entities.StepResult, 0, len(script.Steps)),
		Started: time.Now(),
	}
	// each script resolves against its own base, or none
	r.SetBaseURL(script.BaseURL)

	r.logger.Infof("Run %s: executing %d steps of %q", run.ID, len(script.Steps), script.Name)

	var runErr error
	for i, step := range script.Steps {
		if err := ctx.Err(); err != nil {
			runErr = fmt.Errorf("run canceled: %w", err)
			break
		}

		result := r.Execute(ctx, step)
		run.Results = append(run.Results, result)
		if !result.Success {
			runErr = fmt.Errorf("step %d (%s) failed: %s", i+1, step.Action, result.Error)
			break
		}
	}

	run.Finished = time.Now()
	if runErr != nil {
		run.Status = entities.RunStatusFailed
	} else {
		run.Status = entities.RunStatusCompleted
	}

	if r.store != nil {
		if err := r.store.SaveRun(run); err != nil {
			r.logger.Warnf("Failed to save run %s: %v", run.ID, err)
		}
	}

	return run, runErr
}

// dispatch - locates the step target and calls the matching wrapper operation
func (r *Runner) dispatch(ctx context.Context, step entities.Step) (string, error) {
	w := r.wrapper
	d := r.session

	switch step.Action {
	case entities.StepOpen:
		target, err := r.resolveURL(step.URL)
		if err != nil {
			return "", err
		}
		return "", w.Navigate(ctx, d, target)

	case entities.StepCount:
		els, err := r.session.FindElements(ctx, step.Selector)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(w.Count(els)), nil

	case entities.StepAllVisible:
		els, err := r.session.FindElements(ctx, step.Selector)
		if err != nil {
			return "", err
		}
		if err := w.AssertAllVisible(ctx, d, els); err != nil {
			return "", err
		}
		return strconv.Itoa(len(els)), nil
	}

	if !step.Action.Valid() {
		return "", fmt.Errorf("unknown action %q", step.Action)
	}

	el, err := r.session.FindElement(ctx, step.Selector)
	if err != nil {
		return "", err
	}

	switch step.Action {
	case entities.StepClick:
		return "", w.Click(ctx, d, el)
	case entities.StepVisible:
		return "", w.AssertVisible(ctx, d, el)
	case entities.StepType:
		return "", w.SetText(ctx, d, el, step.Text)
	case entities.StepText:
		return w.GetText(ctx, d, el)
	case entities.StepAttribute:
		attr, err := w.GetAttribute(ctx, d, el, step.Attribute)
		if err != nil {
			return "", err
		}
		return attr.String(), nil
	case entities.StepHover:
		return "", w.Hover(ctx, d, el)
	case entities.StepEnabled:
		enabled, err := w.IsEnabled(ctx, d, el)
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(enabled), nil
	case entities.StepClear:
		return "", w.ClearText(ctx, d, el)
	default:
		return "", fmt.Errorf("unsupported action %q", step.Action)
	}
}

// resolveURL - resolves a relative URL against the base URL when one is set
func (r *Runner) resolveURL(raw string) (string, error) {
	if r.baseURL == "" {
		return raw, nil
	}
	base, err := url.Parse(r.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", r.baseURL, err)
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", raw, err)
	}
	return base.ResolveReference(ref).String(), nil
}

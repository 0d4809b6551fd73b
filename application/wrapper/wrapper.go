// Package wrapper holds the wait-then-act helpers used by test steps.
//
// Every helper that touches an element first waits for it to be visible,
// bounded by the timeout the Wrapper was built with. Errors from the driver
// or the element are returned as they are, so a failed wait can be detected
// with errors.Is(err, interfaces.ErrWaitTimeout).
//
// An error from the element while polling, such as a stale reference, ends
// the wait at once instead of being treated as "not visible yet".
package wrapper

import (
	"context"
	"time"

	"webdriver_wrapper/domain/entities"
	"webdriver_wrapper/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// Wrapper is stateless apart from its wait bound and logger. Handles are
// owned by the caller and passed in on every call.
type Wrapper struct {
	timeout time.Duration
	logger  *logrus.Logger
}

// NewWrapper - creates a wrapper that waits at most timeout per operation
func NewWrapper(timeout time.Duration, logger *logrus.Logger) *Wrapper {
	if logger == nil {
		logger = logrus.New()
	}
	return &Wrapper{
		timeout: timeout,
		logger:  logger,
	}
}

// Timeout - returns the wait bound
func (w *Wrapper) Timeout() time.Duration {
	return w.timeout
}

// Navigate - loads the URL without waiting for any element
func (w *Wrapper) Navigate(ctx context.Context, d interfaces.Driver, url string) error {
	return d.Navigate(ctx, url)
}

// Click - waits until the element is visible and then clickable, then clicks it.
// Both waits share a single timeout.
func (w *Wrapper) Click(ctx context.Context, d interfaces.Driver, el interfaces.Element) error {
	deadline := time.Now().Add(w.timeout)

	w.logger.Debug("Waiting for element visibility before click")
	if err := d.Wait(ctx, visibilityOf(el), w.timeout); err != nil {
		return err
	}

	w.logger.Debug("Waiting for element to become clickable")
	if err := d.Wait(ctx, elementToBeClickable(el), remaining(deadline)); err != nil {
		return err
	}

	return el.Click(ctx)
}

// AssertVisible - waits until the element is visible
func (w *Wrapper) AssertVisible(ctx context.Context, d interfaces.Driver, el interfaces.Element) error {
	w.logger.Debugf("Waiting up to %s for element visibility", w.timeout)
	return d.Wait(ctx, visibilityOf(el), w.timeout)
}

// AssertAllVisible - waits until every element is visible at the same time
func (w *Wrapper) AssertAllVisible(ctx context.Context, d interfaces.Driver, els []interfaces.Element) error {
	w.logger.Debugf("Waiting up to %s for %d elements to be visible", w.timeout, len(els))
	return d.Wait(ctx, visibilityOfAll(els), w.timeout)
}

// SetText - clicks the element, clears it and types text into it
func (w *Wrapper) SetText(ctx context.Context, d interfaces.Driver, el interfaces.Element, text string) error {
	if err := w.AssertVisible(ctx, d, el); err != nil {
		return err
	}
	if err := el.Click(ctx); err != nil {
		return err
	}
	if err := el.Clear(ctx); err != nil {
		return err
	}
	return el.SendKeys(ctx, text)
}

// GetText - returns the rendered text of the element
func (w *Wrapper) GetText(ctx context.Context, d interfaces.Driver, el interfaces.Element) (string, error) {
	if err := w.AssertVisible(ctx, d, el); err != nil {
		return "", err
	}
	return el.Text(ctx)
}

// GetAttribute - returns the current value of the named attribute.
// A missing attribute is reported through Attribute.Present, not as an error.
func (w *Wrapper) GetAttribute(ctx context.Context, d interfaces.Driver, el interfaces.Element, name string) (entities.Attribute, error) {
	if err := w.AssertVisible(ctx, d, el); err != nil {
		return entities.Attribute{}, err
	}
	value, ok, err := el.Attribute(ctx, name)
	if err != nil {
		return entities.Attribute{}, err
	}
	return entities.Attribute{Value: value, Present: ok}, nil
}

// Hover - moves the pointer over the element
func (w *Wrapper) Hover(ctx context.Context, d interfaces.Driver, el interfaces.Element) error {
	if err := w.AssertVisible(ctx, d, el); err != nil {
		return err
	}
	return d.Hover(ctx, el)
}

// IsEnabled - reports whether the element accepts interaction
func (w *Wrapper) IsEnabled(ctx context.Context, d interfaces.Driver, el interfaces.Element) (bool, error) {
	if err := w.AssertVisible(ctx, d, el); err != nil {
		return false, err
	}
	return el.IsEnabled(ctx)
}

// ClearText - clears the editable content of the element
func (w *Wrapper) ClearText(ctx context.Context, d interfaces.Driver, el interfaces.Element) error {
	if err := w.AssertVisible(ctx, d, el); err != nil {
		return err
	}
	return el.Clear(ctx)
}

// Count - returns the number of elements without touching the browser
func (w *Wrapper) Count(els []interfaces.Element) int {
	return len(els)
}

func remaining(deadline time.Time) time.Duration {
	left := time.Until(deadline)
	if left < 0 {
		return 0
	}
	return left
}

package fake

import (
	"context"
	"sync"

	"webdriver_wrapper/domain/interfaces"
)

// Element is an in-memory DOM node. Text input echoes typed keys verbatim.
type Element struct {
	mu sync.Mutex

	Name       string
	Displayed  bool
	Enabled    bool
	Hovered    bool
	Value      string
	Attributes map[string]string

	// Err is returned by every interaction when set, e.g. a stale reference
	Err error

	session *Session
}

// NewElement - creates a visible, enabled element with the given text
func NewElement(text string) *Element {
	return &Element{
		Displayed:  true,
		Enabled:    true,
		Value:      text,
		Attributes: make(map[string]string),
	}
}

// SetDisplayed changes visibility, e.g. from another goroutine
func (e *Element) SetDisplayed(v bool) {
	e.mu.Lock()
	e.Displayed = v
	e.mu.Unlock()
}

// SetEnabled changes the enabled state
func (e *Element) SetEnabled(v bool) {
	e.mu.Lock()
	e.Enabled = v
	e.mu.Unlock()
}

func (e *Element) record(op string) {
	if e.session != nil {
		e.session.record("%s:%s", op, e.Name)
	}
}

func (e *Element) Click(ctx context.Context) error {
	e.record("click")
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Err
}

func (e *Element) SendKeys(ctx context.Context, text string) error {
	e.record("sendkeys")
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return e.Err
	}
	e.Value += text
	return nil
}

func (e *Element) Clear(ctx context.Context) error {
	e.record("clear")
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return e.Err
	}
	e.Value = ""
	return nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	e.record("text")
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return "", e.Err
	}
	return e.Value, nil
}

func (e *Element) Attribute(ctx context.Context, name string) (string, bool, error) {
	e.record("attr")
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return "", false, e.Err
	}
	v, ok := e.Attributes[name]
	return v, ok, nil
}

func (e *Element) IsDisplayed(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return false, e.Err
	}
	return e.Displayed, nil
}

func (e *Element) IsEnabled(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return false, e.Err
	}
	return e.Enabled, nil
}

var _ interfaces.Element = (*Element)(nil)

// Package fake provides an in-memory browser session for tests and dry runs.
package fake

import (
	"context"
	"fmt"
	"sync"
	"time"

	"webdriver_wrapper/domain/interfaces"
)

// PollInterval is how often Wait re-evaluates its condition
const PollInterval = 5 * time.Millisecond

// Session is an in-memory page keyed by selector
type Session struct {
	mu       sync.Mutex
	url      string
	elements map[string][]*Element
	calls    []string
	closed   bool

	// NavigateErr is returned by Navigate when set
	NavigateErr error
}

// NewSession - creates an empty fake page
func NewSession() *Session {
	return &Session{elements: make(map[string][]*Element)}
}

// Add registers elements under selector and returns them
func (s *Session) Add(selector string, els ...*Element) []*Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, el := range els {
		el.session = s
		if el.Name == "" {
			el.Name = selector
		}
	}
	s.elements[selector] = append(s.elements[selector], els...)
	return els
}

// URL returns the last navigated URL
func (s *Session) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url
}

// Calls returns the recorded calls in order
func (s *Session) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// Closed reports whether Close was called
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) record(format string, args ...any) {
	s.mu.Lock()
	s.calls = append(s.calls, fmt.Sprintf(format, args...))
	s.mu.Unlock()
}

// Navigate - records the URL
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.record("navigate:%s", url)
	if s.NavigateErr != nil {
		return s.NavigateErr
	}
	s.mu.Lock()
	s.url = url
	s.mu.Unlock()
	return nil
}

// Wait - polls cond every PollInterval until it holds or timeout elapses
func (s *Session) Wait(ctx context.Context, cond interfaces.Condition, timeout time.Duration) error {
	s.record("wait")
	start := time.Now()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ok, err := cond(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if elapsed := time.Since(start); elapsed >= timeout {
			return fmt.Errorf("%w after %s", interfaces.ErrWaitTimeout, elapsed)
		}
		time.Sleep(PollInterval)
	}
}

// Hover - records the gesture and marks the element hovered
func (s *Session) Hover(ctx context.Context, el interfaces.Element) error {
	fe, ok := el.(*Element)
	if !ok {
		return fmt.Errorf("fake: cannot hover %T", el)
	}
	s.record("hover:%s", fe.Name)
	fe.mu.Lock()
	fe.Hovered = true
	fe.mu.Unlock()
	return nil
}

// FindElement - returns the first element registered under selector
func (s *Session) FindElement(ctx context.Context, selector string) (interfaces.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	els := s.elements[selector]
	if len(els) == 0 {
		return nil, fmt.Errorf("no such element: %s", selector)
	}
	return els[0], nil
}

// FindElements - returns every element registered under selector
func (s *Session) FindElements(ctx context.Context, selector string) ([]interfaces.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]interfaces.Element, 0, len(s.elements[selector]))
	for _, el := range s.elements[selector] {
		result = append(result, el)
	}
	return result, nil
}

// Close - marks the session closed
func (s *Session) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

var _ interfaces.Session = (*Session)(nil)

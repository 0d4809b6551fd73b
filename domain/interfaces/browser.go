package interfaces

//go:generate mockgen -destination=mocks/mock_browser.go -package=mocks webdriver_wrapper/domain/interfaces Driver,Element

import (
	"context"
	"errors"
	"time"
)

// ErrWaitTimeout is wrapped by Driver.Wait when a condition is still false
// after the timeout elapsed.
var ErrWaitTimeout = errors.New("wait timed out")

// Condition is polled by Driver.Wait until it reports true or fails
type Condition func(ctx context.Context) (bool, error)

// Driver is the capability set the wrapper needs from a live browser session
type Driver interface {
	// Navigate loads the URL in the current page
	Navigate(ctx context.Context, url string) error

	// Wait polls cond until it returns true, returns an error, or timeout elapses
	Wait(ctx context.Context, cond Condition, timeout time.Duration) error

	// Hover moves the pointer onto the element
	Hover(ctx context.Context, el Element) error
}

// Element is a single located DOM node
type Element interface {
	Click(ctx context.Context) error
	SendKeys(ctx context.Context, text string) error
	Clear(ctx context.Context) error
	Text(ctx context.Context) (string, error)

	// Attribute returns ok=false when the element has no such attribute
	Attribute(ctx context.Context, name string) (value string, ok bool, err error)

	IsDisplayed(ctx context.Context) (bool, error)
	IsEnabled(ctx context.Context) (bool, error)
}

// Locator finds elements in the current page by selector
type Locator interface {
	FindElement(ctx context.Context, selector string) (Element, error)
	FindElements(ctx context.Context, selector string) ([]Element, error)
}

// Session is a browser backend owned by the process
type Session interface {
	Driver
	Locator

	// Close ends the browser session and stops any helper process
	Close() error
}

package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"webdriver_wrapper/domain/interfaces"
	"webdriver_wrapper/infrastructure/config"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/wait"
)

const playwrightStateFile = "playwright_state.json"

// attributeScript returns null for a missing attribute, unlike Locator.GetAttribute
const attributeScript = `(el, name) => el.getAttribute(name)`

type PlaywrightSession struct {
	pw           *playwright.Playwright
	browser      playwright.Browser
	context      playwright.BrowserContext
	page         playwright.Page
	pages        []playwright.Page
	pagesMutex   sync.Mutex
	storagePath  string
	logger       *logrus.Logger
	pollInterval time.Duration
}

// NewPlaywrightSession - launches Chromium through playwright with one page
func NewPlaywrightSession(cfg *config.Config, logger *logrus.Logger) (*PlaywrightSession, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	if err := os.MkdirAll(cfg.StateDir, 0755); err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	storagePath := filepath.Join(cfg.StateDir, playwrightStateFile)

	contextOptions := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  1280,
			Height: 720,
		},
		JavaScriptEnabled: playwright.Bool(true),
		IgnoreHttpsErrors: playwright.Bool(true),
	}

	if data, err := os.ReadFile(storagePath); err == nil {
		var storageState playwright.StorageState
		if err := json.Unmarshal(data, &storageState); err == nil {
			contextOptions.StorageState = storageState.ToOptionalStorageState()
		} else {
			logger.Warnf("Ignoring unreadable browser state %s: %v", storagePath, err)
		}
	}

	launchOptions := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		Args:     chromeArgs(false),
	}
	if cfg.ChromeBinary != "" {
		launchOptions.ExecutablePath = playwright.String(cfg.ChromeBinary)
	}

	browser, err := pw.Chromium.Launch(launchOptions)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browserContext, err := browser.NewContext(contextOptions)
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}
	// actionability checks inside playwright share the wrapper's bound
	browserContext.SetDefaultTimeout(float64(cfg.MaxTimeout.Milliseconds()))

	page, err := browserContext.NewPage()
	if err != nil {
		browserContext.Close()
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	s := &PlaywrightSession{
		pw:           pw,
		browser:      browser,
		context:      browserContext,
		page:         page,
		pages:        []playwright.Page{page},
		storagePath:  storagePath,
		logger:       logger,
		pollInterval: cfg.PollInterval,
	}

	s.watchPage(page)
	browserContext.OnPage(func(newPage playwright.Page) {
		s.pagesMutex.Lock()
		s.pages = append(s.pages, newPage)
		s.page = newPage
		s.pagesMutex.Unlock()

		s.logger.Infof("Switched to new page: %s", newPage.URL())
		s.watchPage(newPage)
	})

	return s, nil
}

// watchPage - accepts dialogs and falls back to the first page when the current one closes
func (s *PlaywrightSession) watchPage(page playwright.Page) {
	page.OnDialog(func(dialog playwright.Dialog) {
		s.logger.Infof("Accepting %s dialog: %s", dialog.Type(), dialog.Message())
		dialog.Accept()
	})

	page.OnClose(func(closedPage playwright.Page) {
		s.pagesMutex.Lock()
		defer s.pagesMutex.Unlock()

		for i, p := range s.pages {
			if p == closedPage {
				s.pages = append(s.pages[:i], s.pages[i+1:]...)
				break
			}
		}

		if s.page == closedPage && len(s.pages) > 0 {
			s.page = s.pages[0]
		}
	})
}

func (s *PlaywrightSession) currentPage() playwright.Page {
	s.pagesMutex.Lock()
	defer s.pagesMutex.Unlock()
	return s.page
}

// Navigate - navigates the current page to the specified URL
func (s *PlaywrightSession) Navigate(ctx context.Context, url string) error {
	s.logger.Infof("Navigating to: %s", url)
	_, err := s.currentPage().Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	})
	return err
}

// Wait - polls cond every poll interval until it holds or timeout elapses
func (s *PlaywrightSession) Wait(ctx context.Context, cond interfaces.Condition, timeout time.Duration) error {
	return pollCondition(ctx, cond, s.pollInterval, timeout)
}

// pollCondition runs cond immediately and then every interval.
// A condition error is returned as is; running out of time wraps ErrWaitTimeout.
func pollCondition(ctx context.Context, cond interfaces.Condition, interval, timeout time.Duration) error {
	var condErr error
	err := wait.PollUntilContextTimeout(ctx, interval, timeout, true, func(pollCtx context.Context) (bool, error) {
		var ok bool
		ok, condErr = cond(pollCtx)
		return ok, condErr
	})
	switch {
	case err == nil:
		return nil
	case condErr != nil:
		return condErr
	case ctx.Err() != nil:
		return ctx.Err()
	case wait.Interrupted(err):
		return fmt.Errorf("%w after %s", interfaces.ErrWaitTimeout, timeout)
	default:
		return err
	}
}

// Hover - moves the mouse over the element
func (s *PlaywrightSession) Hover(ctx context.Context, el interfaces.Element) error {
	pe, ok := el.(*playwrightElement)
	if !ok {
		return fmt.Errorf("playwright: cannot hover over %T", el)
	}
	s.logger.Infof("Hovering over: %s", pe.selector)
	return pe.loc.Hover()
}

// FindElement - returns the first element matching selector
func (s *PlaywrightSession) FindElement(ctx context.Context, selector string) (interfaces.Element, error) {
	loc := s.currentPage().Locator(selector)
	count, err := loc.Count()
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("element not found with selector: %s", selector)
	}
	return &playwrightElement{loc: loc.First(), selector: selector, logger: s.logger}, nil
}

// FindElements - returns every element matching selector
func (s *PlaywrightSession) FindElements(ctx context.Context, selector string) ([]interfaces.Element, error) {
	locs, err := s.currentPage().Locator(selector).All()
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	result := make([]interfaces.Element, 0, len(locs))
	for _, loc := range locs {
		result = append(result, &playwrightElement{loc: loc, selector: selector, logger: s.logger})
	}
	return result, nil
}

// SaveState - saves cookies and local storage for the next session
func (s *PlaywrightSession) SaveState() error {
	if s.context == nil || s.storagePath == "" {
		return nil
	}
	if _, err := s.context.StorageState(s.storagePath); err != nil && !isClosedErr(err) {
		return fmt.Errorf("failed to save browser state: %w", err)
	}
	return nil
}

// Close - saves state, closes the browser and stops playwright
func (s *PlaywrightSession) Close() error {
	var errs []error

	if err := s.SaveState(); err != nil {
		errs = append(errs, err)
	}

	if s.context != nil {
		if err := s.context.Close(); err != nil && !isClosedErr(err) {
			errs = append(errs, fmt.Errorf("failed to close context: %w", err))
		}
		s.context = nil
	}

	if s.browser != nil {
		if err := s.browser.Close(); err != nil && !isClosedErr(err) {
			errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
		}
		s.browser = nil
	}

	if s.pw != nil {
		if err := s.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
		}
		s.pw = nil
	}

	return errors.Join(errs...)
}

// isClosedErr - reports errors raised because the target is already gone
func isClosedErr(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "closed") || strings.Contains(errStr, "target closed")
}

type playwrightElement struct {
	loc      playwright.Locator
	selector string
	logger   *logrus.Logger
}

func (e *playwrightElement) Click(ctx context.Context) error {
	e.logger.Infof("Clicking on: %s", e.selector)
	return e.loc.Click()
}

func (e *playwrightElement) SendKeys(ctx context.Context, text string) error {
	e.logger.Infof("Typing text into: %s", e.selector)
	return e.loc.PressSequentially(text)
}

func (e *playwrightElement) Clear(ctx context.Context) error {
	e.logger.Infof("Clearing: %s", e.selector)
	return e.loc.Clear()
}

func (e *playwrightElement) Text(ctx context.Context) (string, error) {
	return e.loc.InnerText()
}

func (e *playwrightElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	v, err := e.loc.Evaluate(attributeScript, name)
	if err != nil {
		return "", false, err
	}
	return attributeValue(v)
}

// attributeValue - converts the evaluated getAttribute result
func attributeValue(v interface{}) (string, bool, error) {
	switch value := v.(type) {
	case nil:
		return "", false, nil
	case string:
		return value, true, nil
	default:
		return "", false, fmt.Errorf("unexpected attribute value of type %T", v)
	}
}

func (e *playwrightElement) IsDisplayed(ctx context.Context) (bool, error) {
	return e.loc.IsVisible()
}

func (e *playwrightElement) IsEnabled(ctx context.Context) (bool, error) {
	return e.loc.IsEnabled()
}

// Ensure PlaywrightSession implements Session interface
var _ interfaces.Session = (*PlaywrightSession)(nil)

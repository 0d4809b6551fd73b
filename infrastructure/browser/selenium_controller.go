package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"webdriver_wrapper/domain/interfaces"
	"webdriver_wrapper/infrastructure/config"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

// nilAttributeReply is what the selenium client returns for an attribute
// the element does not have
const nilAttributeReply = "nil return value"

type SeleniumSession struct {
	wd           selenium.WebDriver
	service      *selenium.Service
	logger       *logrus.Logger
	pollInterval time.Duration
}

// findChromeDriver - finds ChromeDriver executable path
func findChromeDriver(configured string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured, nil
		}
	}

	commonPaths := []string{
		"/usr/local/bin/chromedriver",
		"/usr/bin/chromedriver",
		"/opt/homebrew/bin/chromedriver",
		filepath.Join(os.Getenv("HOME"), "bin", "chromedriver"),
	}

	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if path, err := exec.LookPath("chromedriver"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("chromedriver not found. Please install it or set BROWSER_DRIVER_PATH environment variable")
}

// findChromeBinary - finds Chrome/Chromium browser executable path
func findChromeBinary(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	chromePaths := []string{
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		`C:\Program Files\Google\Chrome\Application\chrome.exe`,
		`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
	}

	for _, path := range chromePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	return ""
}

// chromeArgs - builds the Chrome command line for a session
func chromeArgs(headless bool) []string {
	args := []string{
		"--disable-blink-features=AutomationControlled",
		"--disable-dev-shm-usage",
		"--no-sandbox",
	}
	if headless {
		args = append(args, "--headless=new")
	}
	return args
}

// NewSeleniumSession - starts ChromeDriver (unless a remote URL is configured)
// and opens a WebDriver session
func NewSeleniumSession(cfg *config.Config, logger *logrus.Logger) (*SeleniumSession, error) {
	var service *selenium.Service
	remoteURL := cfg.RemoteURL

	if remoteURL == "" {
		driverPath, err := findChromeDriver(cfg.DriverPath)
		if err != nil {
			return nil, fmt.Errorf("failed to find chromedriver: %w", err)
		}
		logger.Infof("Using ChromeDriver at: %s", driverPath)

		service, err = selenium.NewChromeDriverService(driverPath, cfg.DriverPort)
		if err != nil {
			return nil, fmt.Errorf("failed to start chromedriver: %w", err)
		}
		remoteURL = fmt.Sprintf("http://localhost:%d/wd/hub", cfg.DriverPort)
	} else {
		logger.Infof("Using remote WebDriver at: %s", remoteURL)
	}

	caps := selenium.Capabilities{
		"browserName": "chrome",
	}

	chromeCaps := chrome.Capabilities{
		Args: chromeArgs(cfg.Headless),
	}
	if chromeBinary := findChromeBinary(cfg.ChromeBinary); chromeBinary != "" {
		logger.Infof("Using Chrome binary at: %s", chromeBinary)
		chromeCaps.Path = chromeBinary
	}
	caps.AddChrome(chromeCaps)

	wd, err := selenium.NewRemote(caps, remoteURL)
	if err != nil {
		if service != nil {
			service.Stop()
		}
		if strings.Contains(err.Error(), "cannot find Chrome binary") {
			return nil, fmt.Errorf("failed to create webdriver: Chrome browser not found. Please install Google Chrome or set CHROME_BINARY_PATH environment variable. Error: %w", err)
		}
		return nil, fmt.Errorf("failed to create webdriver: %w", err)
	}

	return &SeleniumSession{
		wd:           wd,
		service:      service,
		logger:       logger,
		pollInterval: cfg.PollInterval,
	}, nil
}

// Navigate - navigates browser to specified URL
func (s *SeleniumSession) Navigate(ctx context.Context, url string) error {
	s.logger.Infof("Navigating to: %s", url)
	return s.wd.Get(url)
}

// Wait - polls cond through the WebDriver wait loop.
// A condition error ends the wait and is returned as is.
func (s *SeleniumSession) Wait(ctx context.Context, cond interfaces.Condition, timeout time.Duration) error {
	var condErr error
	err := s.wd.WaitWithTimeoutAndInterval(func(selenium.WebDriver) (bool, error) {
		if condErr = ctx.Err(); condErr != nil {
			return false, condErr
		}
		var ok bool
		ok, condErr = cond(ctx)
		return ok, condErr
	}, timeout, s.pollInterval)

	if err == nil || condErr != nil {
		return err
	}
	return fmt.Errorf("%w: %v", interfaces.ErrWaitTimeout, err)
}

// Hover - moves the mouse to the centre of the element with W3C pointer actions
func (s *SeleniumSession) Hover(ctx context.Context, el interfaces.Element) error {
	se, ok := el.(*seleniumElement)
	if !ok {
		return fmt.Errorf("selenium: cannot hover over %T", el)
	}

	loc, err := se.we.LocationInView()
	if err != nil {
		return err
	}
	size, err := se.we.Size()
	if err != nil {
		return err
	}

	target := selenium.Point{X: loc.X + size.Width/2, Y: loc.Y + size.Height/2}
	s.logger.Debugf("Hovering at %d,%d", target.X, target.Y)

	s.wd.StorePointerActions("mouse", selenium.MousePointer,
		selenium.PointerMoveAction(0, target, selenium.FromViewport),
	)
	if err := s.wd.PerformActions(); err != nil {
		return err
	}
	return s.wd.ReleaseActions()
}

// FindElement - finds element using various selector strategies
func (s *SeleniumSession) FindElement(ctx context.Context, selector string) (interfaces.Element, error) {
	for _, strategy := range selectorStrategies(selector) {
		we, err := s.wd.FindElement(strategy.by, strategy.value)
		if err == nil {
			return &seleniumElement{we: we, logger: s.logger, selector: selector}, nil
		}
	}
	return nil, fmt.Errorf("element not found with selector: %s", selector)
}

// FindElements - returns the matches of the first strategy that finds any.
// No match is an empty result, not an error.
func (s *SeleniumSession) FindElements(ctx context.Context, selector string) ([]interfaces.Element, error) {
	for _, strategy := range selectorStrategies(selector) {
		found, err := s.wd.FindElements(strategy.by, strategy.value)
		if err != nil || len(found) == 0 {
			continue
		}
		result := make([]interfaces.Element, 0, len(found))
		for _, we := range found {
			result = append(result, &seleniumElement{we: we, logger: s.logger, selector: selector})
		}
		return result, nil
	}
	return []interfaces.Element{}, nil
}

// Close - closes browser and stops ChromeDriver service
func (s *SeleniumSession) Close() error {
	var quitErr error
	if s.wd != nil {
		quitErr = s.wd.Quit()
	}
	if s.service != nil {
		if err := s.service.Stop(); err != nil {
			return err
		}
	}
	return quitErr
}

type selectorStrategy struct {
	by    string
	value string
}

// selectorStrategies - lists lookups to try for a selector, most specific first
func selectorStrategies(selector string) []selectorStrategy {
	strategies := []selectorStrategy{
		{selenium.ByCSSSelector, selector},
		{selenium.ByXPATH, selector},
		{selenium.ByID, selector},
		{selenium.ByLinkText, selector},
	}

	if isPlainText(selector) {
		literal := xpathLiteral(selector)
		strategies = append(strategies,
			selectorStrategy{selenium.ByXPATH, fmt.Sprintf("//button[contains(text(), %s)]", literal)},
			selectorStrategy{selenium.ByXPATH, fmt.Sprintf("//a[contains(text(), %s)]", literal)},
			selectorStrategy{selenium.ByXPATH, fmt.Sprintf("//*[contains(text(), %s)]", literal)},
		)
	}
	return strategies
}

// isPlainText - reports whether selector looks like visible text rather than CSS or XPath
func isPlainText(selector string) bool {
	return !strings.ContainsAny(selector, "/[#.>:=")
}

// xpathLiteral - quotes s for use inside an XPath expression
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	return "concat('" + strings.Join(parts, `', "'", '`) + "')"
}

type seleniumElement struct {
	we       selenium.WebElement
	logger   *logrus.Logger
	selector string
}

func (e *seleniumElement) Click(ctx context.Context) error {
	e.logger.Infof("Clicking on: %s", e.selector)
	return e.we.Click()
}

func (e *seleniumElement) SendKeys(ctx context.Context, text string) error {
	e.logger.Infof("Typing text into: %s", e.selector)
	return e.we.SendKeys(text)
}

func (e *seleniumElement) Clear(ctx context.Context) error {
	e.logger.Infof("Clearing: %s", e.selector)
	return e.we.Clear()
}

func (e *seleniumElement) Text(ctx context.Context) (string, error) {
	return e.we.Text()
}

func (e *seleniumElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	value, err := e.we.GetAttribute(name)
	if err != nil {
		if err.Error() == nilAttributeReply {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (e *seleniumElement) IsDisplayed(ctx context.Context) (bool, error) {
	return e.we.IsDisplayed()
}

func (e *seleniumElement) IsEnabled(ctx context.Context) (bool, error) {
	return e.we.IsEnabled()
}

// Ensure SeleniumSession implements Session interface
var _ interfaces.Session = (*SeleniumSession)(nil)

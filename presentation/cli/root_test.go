package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"webdriver_wrapper/domain/interfaces"
	"webdriver_wrapper/infrastructure/browser/fake"
	"webdriver_wrapper/infrastructure/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type openerSpy struct {
	session *fake.Session
	cfg     *config.Config
	err     error
}

func (o *openerSpy) open(cfg *config.Config, logger *logrus.Logger) (interfaces.Session, error) {
	o.cfg = cfg
	if o.err != nil {
		return nil, o.err
	}
	return o.session, nil
}

func newSpy() *openerSpy {
	s := fake.NewSession()
	s.Add("h1", fake.NewElement("Welcome"))
	s.Add("li", fake.NewElement("a"), fake.NewElement("b"))
	return &openerSpy{session: s}
}

// setupEnv points state at a temp dir and hides any real .env
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("WEBDRIVER_STATE_DIR", dir)
	t.Setenv("BROWSER_BACKEND", "selenium")
	t.Setenv("WEBDRIVER_MAX_TIMEOUT", "1")
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func execute(t *testing.T, spy *openerSpy, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(spy.open)
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "smoke.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunCommandRecordsHistory(t *testing.T) {
	setupEnv(t)
	spy := newSpy()
	script := writeScript(t, `
steps:
  - action: open
    url: https://example.com
  - action: text
    selector: h1
    expect: Welcome
  - action: count
    selector: li
    expect: "2"
`)

	out, err := execute(t, spy, "", "run", script)
	require.NoError(t, err)
	assert.Contains(t, out, "completed smoke (3 steps")
	assert.True(t, spy.session.Closed())
	assert.Equal(t, "https://example.com", spy.session.URL())

	out, err = execute(t, spy, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "completed")
	assert.Contains(t, out, "smoke")
}

func TestRunCommandFailingScript(t *testing.T) {
	setupEnv(t)
	spy := newSpy()
	script := writeScript(t, "steps:\n  - action: text\n    selector: h1\n    expect: Goodbye\n")

	out, err := execute(t, spy, "", "run", script)
	assert.EqualError(t, err, "1 of 1 scripts failed")
	assert.Contains(t, out, "failed smoke")
	assert.Contains(t, out, `expected "Goodbye", got "Welcome"`)
}

func TestRunCommandInvalidScriptDoesNotOpenBrowser(t *testing.T) {
	setupEnv(t)
	spy := newSpy()
	script := writeScript(t, "steps:\n  - action: click\n")

	_, err := execute(t, spy, "", "run", script)
	assert.ErrorContains(t, err, "click requires a selector")
	assert.Nil(t, spy.cfg)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	setupEnv(t)
	spy := newSpy()

	_, err := execute(t, spy, "quit\n", "repl", "--backend", "playwright", "--timeout", "3s", "--headless")
	require.NoError(t, err)
	require.NotNil(t, spy.cfg)
	assert.Equal(t, config.BackendPlaywright, spy.cfg.Backend)
	assert.Equal(t, "3s", spy.cfg.MaxTimeout.String())
	assert.True(t, spy.cfg.Headless)
}

func TestInvalidBackendFlag(t *testing.T) {
	setupEnv(t)
	_, err := execute(t, newSpy(), "", "repl", "--backend", "lynx")
	assert.ErrorContains(t, err, `unknown browser backend "lynx"`)
}

func TestReplCommand(t *testing.T) {
	setupEnv(t)
	spy := newSpy()

	out, err := execute(t, spy, "text h1\nquit\n", "repl")
	require.NoError(t, err)
	assert.Contains(t, out, "ok   text h1 => Welcome")
	assert.True(t, spy.session.Closed())
}

func TestBrowserStartFailure(t *testing.T) {
	setupEnv(t)
	spy := newSpy()
	spy.err = errors.New("chromedriver not found")

	_, err := execute(t, spy, "", "repl")
	assert.ErrorContains(t, err, "failed to initialize browser: chromedriver not found")
}

func TestHistoryEmpty(t *testing.T) {
	setupEnv(t)
	out, err := execute(t, newSpy(), "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded")
}

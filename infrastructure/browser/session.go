package browser

import (
	"fmt"

	"webdriver_wrapper/domain/interfaces"
	"webdriver_wrapper/infrastructure/config"

	"github.com/sirupsen/logrus"
)

// NewSession - opens a browser session with the configured backend
func NewSession(cfg *config.Config, logger *logrus.Logger) (interfaces.Session, error) {
	logger.Infof("Starting %s browser session (headless=%t)", cfg.Backend, cfg.Headless)

	switch cfg.Backend {
	case config.BackendSelenium:
		s, err := NewSeleniumSession(cfg, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendPlaywright:
		s, err := NewPlaywrightSession(cfg, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown browser backend %q", cfg.Backend)
	}
}

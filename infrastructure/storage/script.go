package storage

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"webdriver_wrapper/domain/entities"

	"gopkg.in/yaml.v3"
)

// LoadScript - reads and validates a YAML step script
func LoadScript(path string) (*entities.Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	script, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if script.Name == "" {
		script.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return script, nil
}

// ParseScript - decodes a YAML script, rejecting unknown fields
func ParseScript(data []byte) (*entities.Script, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var script entities.Script
	if err := dec.Decode(&script); err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}
	if err := ValidateScript(&script); err != nil {
		return nil, err
	}
	return &script, nil
}

// ValidateScript - checks that every step carries the fields its action needs
func ValidateScript(script *entities.Script) error {
	if len(script.Steps) == 0 {
		return errors.New("script has no steps")
	}

	var errs []error
	for i, step := range script.Steps {
		if err := ValidateStep(step); err != nil {
			errs = append(errs, fmt.Errorf("step %d: %w", i+1, err))
		}
	}
	return errors.Join(errs...)
}

// ValidateStep - checks a single step
func ValidateStep(step entities.Step) error {
	if !step.Action.Valid() {
		return fmt.Errorf("unknown action %q", step.Action)
	}
	if step.Action == entities.StepOpen && step.URL == "" {
		return errors.New("open requires a url")
	}
	if step.Action.NeedsSelector() && step.Selector == "" {
		return fmt.Errorf("%s requires a selector", step.Action)
	}
	if step.Action == entities.StepAttribute && step.Attribute == "" {
		return errors.New("attr requires an attribute name")
	}
	return nil
}

package runner

import (
	"errors"
	"fmt"
	"strings"

	"webdriver_wrapper/domain/entities"

	shlex "github.com/anmitsu/go-shlex"
)

// ParseCommand turns a terminal line such as `type "#q" "hello world"` into a step.
// Arguments follow shell quoting rules.
func ParseCommand(line string) (entities.Step, error) {
	args, err := shlex.Split(line, true)
	if err != nil {
		return entities.Step{}, fmt.Errorf("cannot parse command: %w", err)
	}
	if len(args) == 0 {
		return entities.Step{}, errors.New("empty command")
	}

	step := entities.Step{Action: entities.StepAction(strings.ToLower(args[0]))}
	args = args[1:]

	switch step.Action {
	case entities.StepOpen:
		if len(args) != 1 {
			return step, errors.New("usage: open <url>")
		}
		step.URL = args[0]
	case entities.StepType:
		if len(args) < 2 {
			return step, errors.New("usage: type <selector> <text>")
		}
		step.Selector = args[0]
		step.Text = strings.Join(args[1:], " ")
	case entities.StepAttribute:
		if len(args) != 2 {
			return step, errors.New("usage: attr <selector> <name>")
		}
		step.Selector = args[0]
		step.Attribute = args[1]
	default:
		if !step.Action.Valid() {
			return step, fmt.Errorf("unknown command %q", step.Action)
		}
		if len(args) != 1 {
			return step, fmt.Errorf("usage: %s <selector>", step.Action)
		}
		step.Selector = args[0]
	}
	return step, nil
}

// Usage lists the commands ParseCommand understands
func Usage() string {
	return strings.Join([]string{
		"open <url>",
		"click <selector>",
		"visible <selector>",
		"all-visible <selector>",
		"type <selector> <text>",
		"text <selector>",
		"attr <selector> <name>",
		"hover <selector>",
		"enabled <selector>",
		"clear <selector>",
		"count <selector>",
	}, "\n")
}

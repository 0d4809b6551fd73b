package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"webdriver_wrapper/application/runner"
	"webdriver_wrapper/domain/entities"
	"webdriver_wrapper/domain/interfaces"

	"github.com/sirupsen/logrus"
)

type TerminalInterface struct {
	runner  *runner.Runner
	session interfaces.Session
	logger  *logrus.Logger
	reader  *bufio.Reader
	out     io.Writer
}

// NewTerminalInterface - builds a REPL over an already opened session
func NewTerminalInterface(r *runner.Runner, session interfaces.Session, logger *logrus.Logger, in io.Reader, out io.Writer) *TerminalInterface {
	return &TerminalInterface{
		runner:  r,
		session: session,
		logger:  logger,
		reader:  bufio.NewReader(in),
		out:     out,
	}
}

// Run - reads commands until quit or end of input
func (t *TerminalInterface) Run(ctx context.Context) error {
	fmt.Fprintln(t.out, "WebDriver wrapper")
	fmt.Fprintln(t.out, "=================")
	fmt.Fprintln(t.out, "Type a command, 'help' for the list, or 'quit' to exit")
	fmt.Fprintln(t.out)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(t.out, "> ")
		input, err := t.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		eof := err == io.EOF

		input = strings.TrimSpace(input)
		switch input {
		case "":
			if eof {
				fmt.Fprintln(t.out)
				return nil
			}
			continue
		case "quit", "exit", "q":
			fmt.Fprintln(t.out, "Bye!")
			return nil
		case "help":
			fmt.Fprintln(t.out, runner.Usage())
		case "history":
			t.printHistory()
		default:
			t.execute(ctx, input)
		}

		if eof {
			return nil
		}
	}
}

func (t *TerminalInterface) execute(ctx context.Context, input string) {
	step, err := runner.ParseCommand(input)
	if err != nil {
		fmt.Fprintf(t.out, "Error: %v\n", err)
		return
	}

	result := t.runner.Execute(ctx, step)
	printResult(t.out, result)
}

func (t *TerminalInterface) printHistory() {
	history := t.runner.History()
	if len(history) == 0 {
		fmt.Fprintln(t.out, "No steps executed yet")
		return
	}
	for i, result := range history {
		fmt.Fprintf(t.out, "%3d. ", i+1)
		printResult(t.out, result)
	}
}

// printResult - writes one line per step result
func printResult(out io.Writer, result entities.StepResult) {
	target := result.Step.Selector
	if result.Step.Action == entities.StepOpen {
		target = result.Step.URL
	}

	if !result.Success {
		fmt.Fprintf(out, "FAIL %s %s: %s\n", result.Step.Action, target, result.Error)
		return
	}
	if result.Output != "" {
		fmt.Fprintf(out, "ok   %s %s => %s\n", result.Step.Action, target, result.Output)
		return
	}
	fmt.Fprintf(out, "ok   %s %s\n", result.Step.Action, target)
}

// Close - closes the browser session
func (t *TerminalInterface) Close() error {
	return t.session.Close()
}

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"webdriver_wrapper/application/runner"
	"webdriver_wrapper/application/wrapper"
	"webdriver_wrapper/domain/entities"
	"webdriver_wrapper/domain/interfaces"
	"webdriver_wrapper/infrastructure/browser"
	"webdriver_wrapper/infrastructure/config"
	"webdriver_wrapper/infrastructure/storage"
	"webdriver_wrapper/presentation/terminal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	envFile  string
	backend  string
	timeout  time.Duration
	headless bool
	logLevel string
}

// sessionOpener is swapped in tests to avoid launching a browser
type sessionOpener func(cfg *config.Config, logger *logrus.Logger) (interfaces.Session, error)

// NewRootCommand - builds the webdriver-wrapper command tree
func NewRootCommand() *cobra.Command {
	return newRootCommand(browser.NewSession)
}

func newRootCommand(open sessionOpener) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "webdriver-wrapper",
		Short:         "Drive a browser with wait-then-act steps",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.envFile, "env-file", ".env", "optional dotenv file")
	flags.StringVar(&opts.backend, "backend", "", "browser backend: selenium or playwright")
	flags.DurationVar(&opts.timeout, "timeout", 0, "maximum wait per operation")
	flags.BoolVar(&opts.headless, "headless", false, "run the browser without a window")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newReplCommand(opts, open),
		newRunCommand(opts, open),
		newHistoryCommand(opts),
	)
	return root
}

// loadConfig - reads the environment and applies flags the user set explicitly
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend = opts.backend
	}
	if flags.Changed("timeout") {
		cfg.MaxTimeout = opts.timeout
	}
	if flags.Changed("headless") {
		cfg.Headless = opts.headless
	}
	if flags.Changed("log-level") {
		if cfg.LogLevel, err = logrus.ParseLevel(opts.logLevel); err != nil {
			return nil, fmt.Errorf("invalid --log-level: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// app holds the pieces every browser command needs
type app struct {
	cfg     *config.Config
	logger  *logrus.Logger
	session interfaces.Session
	runner  *runner.Runner
}

func newApp(cmd *cobra.Command, opts *rootOptions, open sessionOpener) (*app, error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}
	logger := cfg.NewLogger()
	logger.SetOutput(cmd.ErrOrStderr())

	store, err := storage.NewTranscriptStore(cfg.StateDir)
	if err != nil {
		return nil, err
	}

	session, err := open(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize browser: %w", err)
	}

	w := wrapper.NewWrapper(cfg.MaxTimeout, logger)
	return &app{
		cfg:     cfg,
		logger:  logger,
		session: session,
		runner:  runner.NewRunner(session, w, store, logger),
	}, nil
}

func newReplCommand(opts *rootOptions, open sessionOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Run steps typed at an interactive prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts, open)
			if err != nil {
				return err
			}

			term := terminal.NewTerminalInterface(a.runner, a.session, a.logger, cmd.InOrStdin(), cmd.OutOrStdout())
			defer term.Close()

			return term.Run(cmd.Context())
		},
	}
}

func newRunCommand(opts *rootOptions, open sessionOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "run <script.yaml>...",
		Short: "Run step scripts and record the results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scripts := make([]*entities.Script, 0, len(args))
			for _, path := range args {
				script, err := storage.LoadScript(path)
				if err != nil {
					return err
				}
				scripts = append(scripts, script)
			}

			a, err := newApp(cmd, opts, open)
			if err != nil {
				return err
			}
			defer func() {
				if err := a.session.Close(); err != nil {
					a.logger.Warnf("Failed to close browser: %v", err)
				}
			}()

			failed := 0
			for _, script := range scripts {
				run, err := a.runner.RunScript(cmd.Context(), script)
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d steps, run %s)\n", run.Status, run.Script, len(run.Results), run.ID)
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "  %v\n", err)
					failed++
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d scripts failed", failed, len(scripts))
			}
			return nil
		},
	}
}

func newHistoryCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List recorded script runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			store, err := storage.NewTranscriptStore(cfg.StateDir)
			if err != nil {
				return err
			}
			runs, err := store.LoadRuns()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			for _, run := range runs {
				fmt.Fprintf(out, "%s  %-10s %-20s %d steps  %s\n",
					run.Started.Format(time.RFC3339), run.Status, run.Script, len(run.Results), run.ID)
			}
			return nil
		},
	}
}

// Execute - runs the root command until it finishes or the process is interrupted
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nhle/issue-tracker/internal/app"
	"github.com/nhle/issue-tracker/internal/logging"
	"github.com/nhle/issue-tracker/internal/model"
	"github.com/nhle/issue-tracker/internal/render"
	"github.com/nhle/issue-tracker/internal/source/issueapi"
)

// errFetchFailed is returned after the failure message was already shown.
var errFetchFailed = errors.New("fetch failed")

// env is the state shared by all commands once flags and config are read.
type env struct {
	v       *viper.Viper
	cfgFile string
	cfg     *model.AppConfig
	logger  *slog.Logger
	closers []io.Closer
}

// Execute runs the root command and prints any error not already shown
// to the user.
func Execute(ctx context.Context) error {
	e := &env{v: model.NewViper()}
	defer e.close()

	root := newRootCmd(e)
	err := root.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errFetchFailed) {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
	}
	return err
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&env{v: model.NewViper()})
}

func newRootCmd(e *env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "issues",
		Short: "Browse the issue list served by the issues backend",
		Long: `issues fetches the issue collection from the backend once and shows it
as a table in the terminal.

Example:
  issues --endpoint http://localhost:8000/issues
  issues list --format html > issues.html`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			e.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.runTUI(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&e.cfgFile, "config", "", "config file (default is ~/.config/issuetracker/config.yaml)")
	flags.String("endpoint", model.DefaultEndpoint, "URL of the issues collection")
	flags.Int("timeout", model.DefaultTimeoutSec, "fetch timeout in seconds")
	flags.String("timezone", "", "IANA timezone for timestamps (default local)")
	flags.String("log-level", model.DefaultLogLevel, "log level (debug, info, warn, error)")
	flags.Bool("log-json", false, "write logs as JSON")
	flags.String("log-file", "", "write logs to this file (the TUI discards logs otherwise)")

	_ = e.v.BindPFlag("api.endpoint", flags.Lookup("endpoint"))
	_ = e.v.BindPFlag("api.timeout_sec", flags.Lookup("timeout"))
	_ = e.v.BindPFlag("display.timezone", flags.Lookup("timezone"))
	_ = e.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = e.v.BindPFlag("log.json", flags.Lookup("log-json"))
	_ = e.v.BindPFlag("log.file", flags.Lookup("log-file"))

	rootCmd.AddCommand(newListCmd(e))
	rootCmd.AddCommand(newConfigureCmd(e))

	return rootCmd
}

// load reads config and builds the logger. Logs go to --log-file when set.
// Otherwise only list writes them to stderr, and only when --log-level
// was passed, so a plain run shows nothing but its result.
func (e *env) load(cmd *cobra.Command) error {
	if e.cfgFile == "" {
		e.cfgFile = model.DefaultConfigPath()
	}

	cfg, err := model.LoadConfig(e.v, e.cfgFile)
	if err != nil {
		return err
	}
	e.cfg = cfg

	var out io.Writer
	switch {
	case cfg.Log.File != "":
		f, err := logging.OpenFile(cfg.Log.File)
		if err != nil {
			return err
		}
		e.closers = append(e.closers, f)
		out = f
	case cmd.Name() == "list" && cmd.Flags().Changed("log-level"):
		out = cmd.ErrOrStderr()
	}

	logger, err := logging.New(&logging.Config{
		Level:      logging.LogLevel(cfg.Log.Level),
		Output:     out,
		JSONFormat: cfg.Log.JSON,
	})
	if err != nil {
		return err
	}
	e.logger, _ = logging.WithSession(logger)
	e.logger.Debug("config loaded", "path", e.cfgFile, "endpoint", cfg.API.Endpoint)

	return nil
}

func (e *env) close() {
	for _, c := range e.closers {
		_ = c.Close()
	}
	e.closers = nil
}

// client builds the HTTP fetcher from the loaded config.
func (e *env) client() *issueapi.Client {
	return issueapi.NewClient(
		e.cfg.API.Endpoint,
		e.cfg.Timeout(),
		issueapi.WithLogger(e.logger),
	)
}

// formatter builds the timestamp formatter from the loaded config.
func (e *env) formatter() (render.Formatter, error) {
	loc, err := e.cfg.Location()
	if err != nil {
		return render.Formatter{}, err
	}
	return render.NewFormatter(loc, e.cfg.Display.TimeLayout), nil
}

// runTUI starts the Bubble Tea program.
func (e *env) runTUI(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	formatter, err := e.formatter()
	if err != nil {
		return err
	}

	m := app.New(ctx, e.client(), app.Options{
		Formatter: formatter,
		Logger:    e.logger,
		Endpoint:  e.cfg.API.Endpoint,
	})
	defer m.Close()

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(os.Stdin),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("running terminal UI: %w", err)
	}
	return nil
}

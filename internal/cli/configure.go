package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/issue-tracker/internal/model"
)

func newConfigureCmd(e *env) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Set the backend endpoint and write the config file",
		Long: `configure asks for the backend endpoint, fetch timeout and display
timezone, then writes them to the config file. Current values (from the
file, environment or flags) are offered as defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *e.cfg

			if !yes {
				confirmed, err := runConfigureForm(cmd, &cfg)
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing written.")
					return nil
				}
			}

			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := model.SaveConfig(e.cfgFile, &cfg); err != nil {
				return err
			}

			e.logger.Info("config written", "path", e.cfgFile, "endpoint", cfg.API.Endpoint)
			fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", e.cfgFile)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "write the current values without prompting")

	return cmd
}

// runConfigureForm edits cfg in place. It reports false when the user
// declined to save.
func runConfigureForm(cmd *cobra.Command, cfg *model.AppConfig) (bool, error) {
	endpoint := cfg.API.Endpoint
	timeout := strconv.Itoa(cfg.API.TimeoutSec)
	timezone := cfg.Display.Timezone
	confirmed := true

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Issues endpoint").
				Description("URL that returns the issue list as JSON").
				Value(&endpoint).
				Validate(validateEndpoint),
			huh.NewInput().
				Title("Fetch timeout (seconds)").
				Value(&timeout).
				Validate(validateTimeout),
			huh.NewInput().
				Title("Timezone").
				Description("IANA name such as Europe/Berlin; empty for local time").
				Value(&timezone).
				Validate(validateTimezone),
			huh.NewConfirm().
				Title("Write config?").
				Value(&confirmed),
		),
	).WithInput(cmd.InOrStdin()).WithOutput(cmd.OutOrStdout())

	if err := form.RunWithContext(cmd.Context()); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("running configure form: %w", err)
	}

	if !confirmed {
		return false, nil
	}

	cfg.API.Endpoint = strings.TrimSpace(endpoint)
	cfg.API.TimeoutSec, _ = strconv.Atoi(strings.TrimSpace(timeout))
	cfg.Display.Timezone = strings.TrimSpace(timezone)
	return true, nil
}

func validateEndpoint(s string) error {
	cfg := model.DefaultAppConfig()
	cfg.API.Endpoint = strings.TrimSpace(s)
	return cfg.Validate()
}

func validateTimeout(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.New("timeout must be a whole number of seconds")
	}
	if n <= 0 {
		return errors.New("timeout must be positive")
	}
	return nil
}

func validateTimezone(s string) error {
	cfg := model.DefaultAppConfig()
	cfg.Display.Timezone = strings.TrimSpace(s)
	_, err := cfg.Location()
	return err
}

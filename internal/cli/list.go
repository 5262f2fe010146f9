package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/issue-tracker/internal/render"
	"github.com/nhle/issue-tracker/internal/source"
	"github.com/nhle/issue-tracker/internal/theme"
)

const (
	formatTable = "table"
	formatHTML  = "html"
)

func newListCmd(e *env) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Fetch the issues once and print them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatTable && format != formatHTML {
				return fmt.Errorf("unknown format %q (want %s or %s)", format, formatTable, formatHTML)
			}

			formatter, err := e.formatter()
			if err != nil {
				return err
			}

			issues, err := e.client().FetchIssues(cmd.Context())
			if err != nil {
				e.logger.Debug("list aborted", "error", err)
				fmt.Fprintln(cmd.ErrOrStderr(), theme.ErrorStyle.UnsetMarginTop().Render(source.FailureMessage))
				return errFetchFailed
			}

			out := cmd.OutOrStdout()
			if format == formatHTML {
				return render.HTML(out, issues, formatter)
			}
			fmt.Fprintln(out, render.Table(issues, formatter))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "output format (table, html)")

	return cmd
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/aanand-mishra/roster-api/internal/viewer"
)

func (c *CLI) newViewCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Print every row of the Students table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viewer.Dump(cmd.Context(), viewer.Options{
				StoragePath: c.cfg.StoragePath,
				Format:      format,
			}, c.out)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", viewer.FormatTable, "output format: table, json or yaml")
	return cmd
}

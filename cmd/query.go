package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/confwatch/confwatch/internal/config"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Print the last data received.",
	Long: `Print the payload from the local snapshot cache. The remote source
is never contacted, so this reflects whatever the last successful check
observed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()
		return runQuery(cmd.Context(), rt, cmd.OutOrStdout())
	},
}

func runQuery(ctx context.Context, rt *config.Runtime, out io.Writer) error {
	data, err := rt.Provider.Query(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, data)
	return err
}

package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/confwatch/confwatch/internal/awsapi"
	"github.com/confwatch/confwatch/internal/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Poll the provider and run hooks if the data changed.",
	Long: `Poll the configured provider once. If the remote data differs from
the cached snapshot, run every configured hook against the new data, in the
order the hooks appear in the configuration file. The first failing hook
aborts the run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()
		return runCheck(cmd.Context(), rt)
	},
}

// loadRuntime builds the provider and hooks from the configuration file,
// wired to the real AWS clients.
func loadRuntime(ctx context.Context) (*config.Runtime, error) {
	if configFile == "" {
		return nil, errMissingFileFlag
	}
	clients, err := awsapi.New(ctx)
	if err != nil {
		return nil, err
	}
	return config.Load(configFile, config.Deps{
		AppConfig: clients.AppConfig,
		Params:    clients.SSM,
		Stdout:    os.Stdout,
	})
}

// runCheck is the whole orchestration: one poll, then the hooks in declared
// order, stopping at the first failure.
func runCheck(ctx context.Context, rt *config.Runtime) error {
	payload, changed, err := rt.Provider.Poll(ctx)
	if err != nil {
		return err
	}
	if !changed {
		slog.Debug("no change detected")
		return nil
	}

	slog.Debug("change detected", "hooks", len(rt.Hooks))
	for _, h := range rt.Hooks {
		if err := h.Run(payload); err != nil {
			return &HookFailedError{Hook: h.Name(), Err: err}
		}
	}
	return nil
}

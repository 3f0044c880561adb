package cmd

import (
	"log/slog"

	"github.com/abhisek/examiz/internal/api"
	"github.com/abhisek/examiz/internal/app"
	"github.com/abhisek/examiz/internal/config"
	"github.com/abhisek/examiz/internal/screens"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// AttemptHeader tags every backend call made during one run of the client.
const AttemptHeader = "X-Attempt-ID"

// runApp loads config, builds the backend client, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closer, err := openLog(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closer.Close()

	attemptID := uuid.NewString()
	logger = logger.With(slog.String("attempt_id", attemptID))
	logger.Info("starting", slog.String("version", version), slog.String("api_url", cfg.APIURL))

	env := screens.NewEnv(newClient(cfg, attemptID, logger))
	env.Logger = logger
	env.AttemptID = attemptID
	env.AIChecks = cfg.AI.Enabled
	env.CheckDelay = cfg.AI.Delay
	env.MinChars = cfg.AI.MinChars

	return app.Run(app.Options{
		Env:         env,
		StudentName: cfg.StudentName,
	})
}

// newClient builds the logged backend client used by every command.
func newClient(cfg *config.Config, attemptID string, logger *slog.Logger) api.Client {
	opts := []api.Option{api.WithTimeout(cfg.Timeout)}
	if attemptID != "" {
		opts = append(opts, api.WithHeader(AttemptHeader, attemptID))
	}
	return api.WithLogging(api.NewHTTPClient(cfg.APIURL, opts...), logger)
}

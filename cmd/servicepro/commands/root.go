package commands

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"servicepro/internal/app"
	"servicepro/internal/notify"
)

var (
	configPath string
	envFile    string
	home       string
	baseURL    string
	logLevel   string
	timeout    time.Duration

	appCtx *app.Wire
)

func Execute() error {
	root := &cobra.Command{
		Use:          "servicepro",
		Short:        "Service provider onboarding client",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(configPath, envFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("home") {
				cfg.Home = home
			}
			if cmd.Flags().Changed("base-url") {
				cfg.BaseURL = baseURL
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			if cmd.Flags().Changed("timeout") {
				cfg.Timeout = timeout
			}
			if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
				return err
			}

			w, err := app.NewWire(cfg,
				app.WithNotifier(&notify.Console{Out: cmd.ErrOrStderr()}),
				app.WithLogOutput(cmd.ErrOrStderr()),
			)
			if err != nil {
				return err
			}
			if _, err := w.Session.Restore(cmd.Context()); err != nil {
				w.Log.WithError(err).Warn("restore session")
			}
			w.BindNavigator(&consoleNavigator{out: cmd.OutOrStdout()})
			appCtx = w
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file loaded before the environment")
	root.PersistentFlags().StringVar(&home, "home", "", "state dir (default ~/.servicepro)")
	root.PersistentFlags().StringVar(&baseURL, "base-url", "", "backend base URL (e.g. http://127.0.0.1:8080)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 0, "per-request timeout")

	root.AddCommand(
		loginCmd(), logoutCmd(), statusCmd(), routeCmd(), callCmd(),
		profileCmd(), kycCmd(), trainingCmd(), watchCmd(),
	)
	return root.Execute()
}

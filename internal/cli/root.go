package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/thruflo/devmock/internal/config"
	"github.com/thruflo/devmock/internal/logging"
	"github.com/thruflo/devmock/internal/server"
	"github.com/thruflo/devmock/web"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	configPath      string
	portFlag        int
	rootFlag        string
	logLevelFlag    string
	consoleInterval time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "devmock",
	Short: "Mock device backend for the configuration web UI",
	Long: `devmock serves the device configuration UI and pretends to be the device
behind it. The UI talks to it over a websocket at "/" exactly as it talks to
real hardware: it can read the clock, LED, extras and info screens, change
settings, and receives a synthetic console log every couple of seconds.

State lives in memory and is shared by every connected UI.

The listening port comes from $PORT (default 8080) unless --port is given.

Example:
  devmock
  PORT=3000 devmock --root ../ui/dist
  devmock --config devmock.yaml --log-level debug`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("devmock version {{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "YAML config file")
	flags.IntVarP(&portFlag, "port", "p", 0, "listening port (overrides $PORT)")
	flags.StringVar(&rootFlag, "root", "", "directory of the UI bundle (default "+config.DefaultRoot+")")
	flags.StringVar(&logLevelFlag, "log-level", "", "debug, info, warn or error")
	flags.DurationVar(&consoleInterval, "console-interval", 0, "period of console log updates (default 2s)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the config file and environment, then applies the flags
// the user actually set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Server.Port = portFlag
	}
	if flags.Changed("root") {
		cfg.Server.Root = rootFlag
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevelFlag
	}
	if flags.Changed("console-interval") {
		cfg.Console.Interval = consoleInterval
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return config.ValidationError{Field: "log.level", Message: err.Error()}
	}
	log := logging.Default()
	log.SetLevel(level)
	log.SetWriter(cmd.OutOrStdout())

	assets, live := web.GetAssets(cfg.Server.Root)
	if live {
		log.Info("serving UI bundle", "root", cfg.Server.Root)
	} else {
		log.Warn("UI bundle not found, serving embedded page", "root", cfg.Server.Root)
	}

	srv, err := server.NewServerFromConfig(cfg, assets, log)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Start(ctx)
}

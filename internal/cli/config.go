package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thruflo/devmock/internal/state"
)

var configShowScreens bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration devmock would run with, after applying the config
file, $PORT and flags.

With --screens the default value of every screen setting is included, which
is a convenient starting point for a config file's screens section.

Example:
  devmock config
  devmock config --screens > devmock.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configShowScreens, "screens", false, "include default screen values")
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if configShowScreens {
		defaults := defaultScreens()
		for id, values := range cfg.Screens {
			for k, v := range values {
				defaults[id][k] = v
			}
		}
		cfg.Screens = defaults
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func defaultScreens() map[int]map[string]any {
	out := make(map[int]map[string]any)
	for id, settings := range state.DefaultSchema() {
		values := make(map[string]any, len(settings))
		for _, s := range settings {
			values[s.Key] = s.Default
		}
		out[int(id)] = values
	}
	return out
}

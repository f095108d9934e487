package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/thruflo/devmock/internal/config"
	"github.com/thruflo/devmock/internal/logging"
)

// executeCommand runs the root command with args and returns its output.
func executeCommand(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(func() {
		resetFlags()
		logging.Default().SetWriter(io.Discard)
	})

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	return buf.String(), err
}

func resetFlags() {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	configCmd.Flags().VisitAll(reset)
}

func TestConfigCommandDefaults(t *testing.T) {
	t.Setenv("PORT", "")

	out, err := executeCommand(t, context.Background(), "config")
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, config.DefaultPort, cfg.Server.Port)
	assert.Equal(t, config.DefaultRoot, cfg.Server.Root)
	assert.Equal(t, config.DefaultConsoleInterval, cfg.Console.Interval)
	assert.Empty(t, cfg.Screens)
}

func TestConfigCommandPortPrecedence(t *testing.T) {
	t.Setenv("PORT", "3000")

	out, err := executeCommand(t, context.Background(), "config")
	require.NoError(t, err)
	assert.Contains(t, out, "port: 3000")

	out, err = executeCommand(t, context.Background(), "config", "--port", "4000")
	require.NoError(t, err)
	assert.Contains(t, out, "port: 4000")
}

func TestConfigCommandFileAndScreens(t *testing.T) {
	t.Setenv("PORT", "")

	path := filepath.Join(t.TempDir(), "devmock.yaml")
	require.NoError(t, os.WriteFile(path, []byte("screens:\n  3:\n    command: reboot\n"), 0o644))

	out, err := executeCommand(t, context.Background(), "config", "--config", path, "--screens")
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, "reboot", cfg.Screens[3]["command"])
	assert.Equal(t, "EST5EDT,M3.2.0,M11.1.0", cfg.Screens[1]["time_zone"])
	assert.Equal(t, false, cfg.Screens[2]["backlights"])
	assert.Len(t, cfg.Screens, 4)
}

func TestConfigCommandErrors(t *testing.T) {
	t.Setenv("PORT", "")

	_, err := executeCommand(t, context.Background(), "config", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = executeCommand(t, context.Background(), "config", "--port", "70000")
	var verr config.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "server.port", verr.Field)
}

func TestServeRejectsUnknownLogLevel(t *testing.T) {
	t.Setenv("PORT", "")

	_, err := executeCommand(t, context.Background(), "--log-level", "loud")
	var verr config.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "log.level", verr.Field)
}

func TestServeRunsUntilCancelled(t *testing.T) {
	t.Setenv("PORT", "")

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	root := t.TempDir()
	out, err := executeCommand(t, ctx, "--port", "0", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "serving UI bundle")
	assert.Contains(t, out, "listening")
}

package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/starford/kasten/internal"
)

// clearEnv unsets the ZTL_* variables for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"ZTL_PATH", "ZTL_CONFIG_FILE"} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func runLoadConfig(t *testing.T, args ...string) (*internal.Config, error) {
	t.Helper()
	var (
		cfg *internal.Config
		err error
	)
	cmd := &cli.Command{
		Name:  "ztl",
		Flags: globalFlags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err = loadConfig(cmd)
			return nil
		},
	}
	require.NoError(t, cmd.Run(context.Background(), append([]string{"ztl"}, args...)))
	return cfg, err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Precedence(t *testing.T) {
	file := writeConfig(t, "kasten:\n  path: /from/file\n")

	tests := []struct {
		name string
		env  string
		args []string
		want string
	}{
		{"defaults", "", nil, internal.DefaultKastenPath},
		{"config file", "", []string{"--config", file}, "/from/file"},
		{"env over file", "/from/env", []string{"--config", file}, "/from/env"},
		{"flag over env and file", "/from/env", []string{"--config", file, "--path", "/from/flag"}, "/from/flag"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			if tt.env != "" {
				t.Setenv("ZTL_PATH", tt.env)
			}
			cfg, err := runLoadConfig(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Kasten.Path)
		})
	}
}

func TestLoadConfig_ConfigFileFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ZTL_CONFIG_FILE", writeConfig(t, "kasten:\n  path: /via/env/file\n"))

	cfg, err := runLoadConfig(t)
	require.NoError(t, err)
	assert.Equal(t, "/via/env/file", cfg.Kasten.Path)
}

func TestLoadConfig_PathFlagRescuesEmptyConfigPath(t *testing.T) {
	clearEnv(t)
	file := writeConfig(t, "kasten:\n  path: \"\"\n")

	_, err := runLoadConfig(t, "--config", file)
	assert.Error(t, err, "empty kasten.path must fail without an override")

	cfg, err := runLoadConfig(t, "--config", file, "--path", "/from/flag")
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", cfg.Kasten.Path)
}

func TestLoadConfig_Verbose(t *testing.T) {
	clearEnv(t)
	file := writeConfig(t, "app:\n  log_level: error\n")

	cfg, err := runLoadConfig(t, "--config", file)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelError, cfg.App.LogLevel)

	cfg, err = runLoadConfig(t, "--config", file, "--verbose")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, cfg.App.LogLevel)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SENSORES_CONFIG", "")

	c, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "sim", c.Platform.Backend)
	require.Equal(t, 200*time.Millisecond, c.Platform.IIO.PollInterval)
	require.Equal(t, 2*time.Second, c.UI.NoticeTTL)
	require.Equal(t, []string{"proximity", "magnetic", "light", "tilt"}, c.Platform.Kafka.Kinds)
}

func TestLoadFileAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[platform]
backend = "iio"

[platform.iio]
root = "/tmp/iio"
poll_interval = "50ms"

[startup]
sensor = "light"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	t.Setenv("SENSORES_API_ADDR", ":9999")

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "iio", c.Platform.Backend)
	require.Equal(t, "/tmp/iio", c.Platform.IIO.Root)
	require.Equal(t, 50*time.Millisecond, c.Platform.IIO.PollInterval)
	require.Equal(t, "light", c.Startup.Sensor)
	require.Equal(t, ":9999", c.API.Addr)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SENSORES_PLATFORM_BACKEND", "bluetooth")

	_, err := Load("")
	require.Error(t, err)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

package platform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luki/sensores/internal/config"
)

func TestOpenBackends(t *testing.T) {
	b, err := Open(config.PlatformConfig{Backend: "sim"}, nil)
	require.NoError(t, err)
	require.Len(t, b.Available(), 4)
	require.NoError(t, b.Close())

	b, err = Open(config.PlatformConfig{Backend: "iio", IIO: config.IIOConfig{Root: t.TempDir()}}, nil)
	require.NoError(t, err)
	require.Empty(t, b.Available())

	b, err = Open(config.PlatformConfig{Backend: "kafka", Kafka: config.KafkaConfig{Kinds: []string{"light", "tilt"}}}, nil)
	require.NoError(t, err)
	require.Len(t, b.Available(), 2)

	_, err = Open(config.PlatformConfig{Backend: "kafka", Kafka: config.KafkaConfig{Kinds: []string{"sonar"}}}, nil)
	require.Error(t, err)

	_, err = Open(config.PlatformConfig{Backend: "bluetooth"}, nil)
	require.Error(t, err)
}

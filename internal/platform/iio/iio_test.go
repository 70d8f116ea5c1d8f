package iio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/luki/sensores/internal/sensor"
)

// writeDevice creates a fake iio:deviceN directory with the given files.
func writeDevice(t *testing.T, root, dev string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(root, dev)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

func fakeSysfs(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeDevice(t, root, "iio:device0", map[string]string{
		"name":                 "stk3310\n",
		"in_illuminance_raw":   "40\n",
		"in_illuminance_scale": "0.25\n",
		"in_proximity_raw":     "3\n",
		"in_proximity_scale":   "0.5\n",
		"in_proximity_offset":  "-1\n",
	})
	writeDevice(t, root, "iio:device1", map[string]string{
		"name":          "ak09911\n",
		"in_magn_x_raw": "300\n",
		"in_magn_y_raw": "400\n",
		"in_magn_z_raw": "0\n",
		"in_magn_scale": "0.001\n",
	})
	writeDevice(t, root, "iio:device2", map[string]string{
		"name":                    "dev_rotation\n",
		"in_rot_quaternion_raw":   "6000 100 -200 9000\n",
		"in_rot_quaternion_scale": "0.0001\n",
	})
	writeDevice(t, root, "iio:device3", map[string]string{
		"name":           "accel_3d\n",
		"in_accel_x_raw": "1\n",
	})
	return root
}

func TestDiscover(t *testing.T) {
	p := New(fakeSysfs(t), 10*time.Millisecond, nil)

	got := map[sensor.Kind]string{}
	for _, d := range p.Available() {
		got[d.Kind] = d.Device
	}
	require.Equal(t, map[sensor.Kind]string{
		sensor.Light:         "iio:device0/stk3310",
		sensor.Proximity:     "iio:device0/stk3310",
		sensor.MagneticField: "iio:device1/ak09911",
		sensor.Tilt:          "iio:device2/dev_rotation",
	}, got)
}

func TestChannelScaling(t *testing.T) {
	p := New(fakeSysfs(t), 10*time.Millisecond, nil)

	tests := []struct {
		kind sensor.Kind
		want []float64
	}{
		{sensor.Light, []float64{10}},
		{sensor.Proximity, []float64{1}},
		{sensor.MagneticField, []float64{30, 40, 0}},
		{sensor.Tilt, []float64{0.6, 0.01, -0.02, 0.9}},
	}
	for _, tt := range tests {
		c, ok := p.find(tt.kind)
		require.True(t, ok, tt.kind.String())
		values, err := c.read()
		require.NoError(t, err, tt.kind.String())
		require.Len(t, values, len(tt.want))
		for i := range tt.want {
			require.InDelta(t, tt.want[i], values[i], 1e-9, "%s axis %d", tt.kind, i)
		}
	}
}

func TestInputPreferredOverRaw(t *testing.T) {
	root := t.TempDir()
	writeDevice(t, root, "iio:device0", map[string]string{
		"name":                 "als\n",
		"in_illuminance_input": "123.5\n",
		"in_illuminance_raw":   "9\n",
	})
	p := New(root, 10*time.Millisecond, nil)
	c, ok := p.find(sensor.Light)
	require.True(t, ok)
	values, err := c.read()
	require.NoError(t, err)
	require.Equal(t, []float64{123.5}, values)
}

type chanSink chan sensor.Sample

func (c chanSink) Deliver(_ sensor.Handle, s sensor.Sample) {
	select {
	case c <- s:
	default:
	}
}

func TestSubscribePolls(t *testing.T) {
	p := New(fakeSysfs(t), 5*time.Millisecond, nil)
	t.Cleanup(func() { _ = p.Close() })

	sink := make(chanSink, 4)
	h, err := p.Subscribe(sensor.MagneticField, sink)
	require.NoError(t, err)

	select {
	case s := <-sink:
		require.Equal(t, sensor.MagneticField, s.Kind)
		require.NoError(t, s.Validate())
	case <-time.After(2 * time.Second):
		t.Fatal("no sample polled")
	}
	p.Unsubscribe(h)
}

func TestSubscribeFailures(t *testing.T) {
	root := fakeSysfs(t)
	p := New(root, 5*time.Millisecond, nil)

	_, err := p.Subscribe(sensor.Proximity, make(chanSink))
	require.NoError(t, err)
	require.NoError(t, p.Close())

	require.NoError(t, os.Remove(filepath.Join(root, "iio:device1", "in_magn_x_raw")))
	_, err = p.Subscribe(sensor.MagneticField, make(chanSink))
	require.True(t, errors.Is(err, sensor.ErrRegistrationFailed))

	empty := New(filepath.Join(t.TempDir(), "missing"), 5*time.Millisecond, nil)
	require.Empty(t, empty.Available())
	_, err = empty.Subscribe(sensor.Light, make(chanSink))
	require.True(t, errors.Is(err, sensor.ErrUnavailable))
}

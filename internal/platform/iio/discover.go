package iio

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/luki/sensores/internal/sensor"
)

// gaussToMicroTesla converts IIO magnetometer units (Gauss) to µT.
const gaussToMicroTesla = 100.0

// channel is one readable sensor on an IIO device.
type channel struct {
	kind   sensor.Kind
	device string // "iio:device0/als"
	dir    string
	axes   []string // attribute base names, e.g. "in_magn_x"
	input  bool     // axes end in _input (already scaled)
	quat   bool     // single attribute holding a quaternion
	factor float64  // unit conversion applied after scaling
}

// discover scans root for IIO devices and returns one channel per kind
// each device supports.
func discover(root string) []channel {
	matches, _ := filepath.Glob(filepath.Join(root, "iio:device*"))
	sort.Strings(matches)

	var chans []channel
	for _, dir := range matches {
		nameBytes, err := os.ReadFile(filepath.Join(dir, "name"))
		if err != nil {
			continue
		}
		name := strings.TrimSpace(string(nameBytes))
		device := filepath.Base(dir) + "/" + name

		if c, ok := scalarChannel(dir, "in_proximity"); ok {
			c.kind, c.device = sensor.Proximity, device
			chans = append(chans, c)
		}
		if c, ok := scalarChannel(dir, "in_illuminance"); ok {
			c.kind, c.device = sensor.Light, device
			chans = append(chans, c)
		}
		if exists(dir, "in_magn_x_raw") && exists(dir, "in_magn_y_raw") && exists(dir, "in_magn_z_raw") {
			chans = append(chans, channel{
				kind:   sensor.MagneticField,
				device: device,
				dir:    dir,
				axes:   []string{"in_magn_x", "in_magn_y", "in_magn_z"},
				factor: gaussToMicroTesla,
			})
		}
		if exists(dir, "in_rot_quaternion_raw") {
			chans = append(chans, channel{
				kind:   sensor.Tilt,
				device: device,
				dir:    dir,
				axes:   []string{"in_rot_quaternion"},
				quat:   true,
				factor: 1,
			})
		}
	}
	return chans
}

// scalarChannel finds prefix{,0,1..}_{input,raw}, preferring _input.
func scalarChannel(dir, prefix string) (channel, bool) {
	for _, idx := range []string{"", "0", "1"} {
		base := prefix + idx
		if exists(dir, base+"_input") {
			return channel{dir: dir, axes: []string{base}, input: true, factor: 1}, true
		}
		if exists(dir, base+"_raw") {
			return channel{dir: dir, axes: []string{base}, factor: 1}, true
		}
	}
	return channel{}, false
}

// read returns the channel's current values.
func (c channel) read() ([]float64, error) {
	if c.quat {
		return c.readQuaternion()
	}
	values := make([]float64, 0, len(c.axes))
	for _, base := range c.axes {
		if c.input {
			v, err := readFloat(filepath.Join(c.dir, base+"_input"))
			if err != nil {
				return nil, err
			}
			values = append(values, v*c.factor)
			continue
		}
		raw, err := readFloat(filepath.Join(c.dir, base+"_raw"))
		if err != nil {
			return nil, err
		}
		scale, offset := c.calibration(base)
		values = append(values, (raw+offset)*scale*c.factor)
	}
	return values, nil
}

// readQuaternion parses the space separated x y z w components.
func (c channel) readQuaternion() ([]float64, error) {
	data, err := os.ReadFile(filepath.Join(c.dir, c.axes[0]+"_raw"))
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(string(data))
	if len(fields) < 3 {
		return nil, fmt.Errorf("quaternion %s: want 4 components, got %d", c.device, len(fields))
	}
	scale, _ := c.calibration(c.axes[0])
	values := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("quaternion %s: %w", c.device, err)
		}
		values = append(values, v*scale)
	}
	return values, nil
}

// calibration reads <base>_scale/_offset, falling back to the attribute
// shared by all axes (e.g. in_magn_scale). Missing files mean 1 and 0.
func (c channel) calibration(base string) (scale, offset float64) {
	scale, offset = 1, 0
	shared := sharedPrefix(base)
	for _, name := range []string{base + "_scale", shared + "_scale"} {
		if v, err := readFloat(filepath.Join(c.dir, name)); err == nil {
			scale = v
			break
		}
	}
	for _, name := range []string{base + "_offset", shared + "_offset"} {
		if v, err := readFloat(filepath.Join(c.dir, name)); err == nil {
			offset = v
			break
		}
	}
	return scale, offset
}

// sharedPrefix strips an axis or index suffix: in_magn_x -> in_magn,
// in_illuminance0 -> in_illuminance.
func sharedPrefix(base string) string {
	for _, axis := range []string{"_x", "_y", "_z"} {
		if strings.HasSuffix(base, axis) {
			return strings.TrimSuffix(base, axis)
		}
	}
	return strings.TrimRight(base, "0123456789")
}

func exists(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}

func readFloat(path string) (float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
}

package sensor

import "strings"

// deviceIdentityMap maps IIO/Android device name prefixes to friendly part names.
var deviceIdentityMap = []struct {
	prefix string
	name   string
}{
	{"ak09", "AKM magnetometer"},
	{"ak89", "AKM magnetometer"},
	{"mmc", "MEMSIC magnetometer"},
	{"hmc5", "Honeywell magnetometer"},
	{"lis3mdl", "ST magnetometer"},
	{"bmm", "Bosch magnetometer"},
	{"magn_3d", "HID magnetometer"},
	{"als_3d", "HID ambient light"},
	{"als", "Ambient light"},
	{"tsl2", "TAOS light"},
	{"ltr", "Lite-On light/proximity"},
	{"apds", "Broadcom light/proximity"},
	{"stk3", "Sensortek light/proximity"},
	{"vcnl", "Vishay light/proximity"},
	{"cm36", "Capella light/proximity"},
	{"prox", "Proximity"},
	{"sx93", "Semtech proximity"},
	{"dev_rotation", "HID rotation vector"},
	{"incli_3d", "HID inclinometer"},
	{"game_rotation", "Game rotation vector"},
	{"bmi", "Bosch IMU"},
	{"lsm6", "ST IMU"},
	{"sim-", "Simulated"},
	{"kafka-", "Remote gateway"},
}

// FriendlyName returns a human-readable part name for a device ID.
func FriendlyName(device string) string {
	lower := strings.ToLower(device)
	for _, entry := range deviceIdentityMap {
		if strings.HasPrefix(lower, entry.prefix) {
			return entry.name
		}
	}
	return "Sensor"
}

package sensor

import (
	"errors"
	"math"
	"testing"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"proximity", Proximity},
		{"Magnetic-Field", MagneticField},
		{"magnetic", MagneticField},
		{" light ", Light},
		{"rotation", Tilt},
		{"tilt", Tilt},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if err != nil {
			t.Errorf("ParseKind(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseKind("gyroscope"); err == nil {
		t.Error("ParseKind(gyroscope): expected error")
	}
}

func TestKindRoundTrip(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v; want %v", k.String(), got, err, k)
		}
		if k.DisplayName() == "" {
			t.Errorf("%v has no display name", k)
		}
	}
}

func TestSampleValidate(t *testing.T) {
	tests := []struct {
		name    string
		sample  Sample
		wantErr bool
	}{
		{"scalar proximity", Scalar(Proximity, 3), false},
		{"vector magnetic", Vector(MagneticField, 30, 40, 0), false},
		{"short magnetic", Sample{Kind: MagneticField, Values: []float64{1, 2}}, true},
		{"empty light", Sample{Kind: Light}, true},
		{"tilt uses first axis", Vector(Tilt, 0.2, 0, 0), false},
		{"nan light", Scalar(Light, math.NaN()), true},
		{"unknown kind", Sample{Kind: KindUnknown, Values: []float64{1}}, true},
	}
	for _, tt := range tests {
		err := tt.sample.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrMalformedSample) {
			t.Errorf("%s: error %v is not ErrMalformedSample", tt.name, err)
		}
	}
}

func TestCatalogOrderAndDefaults(t *testing.T) {
	c := NewCatalog([]Descriptor{
		{Kind: Light, Device: "iio:device0/als"},
		{Kind: KindUnknown, Device: "iio:device1/accel_3d"},
		{Kind: Proximity, Device: "iio:device2/stk3x1x"},
		{Kind: Light, Device: "iio:device3/tsl2563"},
	})

	list := c.List()
	if len(list) != 2 {
		t.Fatalf("List(): got %d entries, want 2", len(list))
	}
	if list[0].Kind != Proximity || list[1].Kind != Light {
		t.Errorf("List() order: got %v, %v", list[0].Kind, list[1].Kind)
	}
	if list[1].Device != "iio:device0/als" {
		t.Errorf("default light device: got %q, want iio:device0/als", list[1].Device)
	}
	if list[0].Name != "Sensor de proximidad" {
		t.Errorf("proximity name: got %q", list[0].Name)
	}

	if _, ok := c.Lookup(MagneticField); ok {
		t.Error("Lookup(MagneticField): expected missing")
	}

	devs := c.Devices()
	if len(devs) != 4 {
		t.Fatalf("Devices(): got %d, want 4", len(devs))
	}
	if devs[2].Vendor != "Sensortek light/proximity" {
		t.Errorf("vendor for stk3x1x: got %q", devs[2].Vendor)
	}
}

func TestEmptyCatalog(t *testing.T) {
	c := NewCatalog(nil)
	if len(c.List()) != 0 {
		t.Error("expected empty list")
	}
}

func TestFriendlyName(t *testing.T) {
	tests := []struct {
		device string
		want   string
	}{
		{"ak09911", "AKM magnetometer"},
		{"magn_3d", "HID magnetometer"},
		{"als", "Ambient light"},
		{"dev_rotation", "HID rotation vector"},
		{"sim-light", "Simulated"},
		{"some-unknown-device", "Sensor"},
	}
	for _, tt := range tests {
		got := FriendlyName(tt.device)
		if got != tt.want {
			t.Errorf("FriendlyName(%q) = %q, want %q", tt.device, got, tt.want)
		}
	}
}

package classify

import (
	"testing"

	"github.com/luki/sensores/internal/sensor"
)

func TestProximityThreshold(t *testing.T) {
	tests := []struct {
		d        float64
		label    string
		emphasis Emphasis
		image    Image
	}{
		{0, "CERCA: 0.0", EmphasisAlert, ImageOne},
		{0.99, "CERCA: 0.99", EmphasisAlert, ImageOne},
		{1.0, "LEJOS: 1.0", EmphasisNormal, ImageTwo},
		{5, "LEJOS: 5.0", EmphasisNormal, ImageTwo},
	}
	for _, tt := range tests {
		got := Classify(sensor.Proximity, sensor.Scalar(sensor.Proximity, tt.d))
		if got.Label != tt.label {
			t.Errorf("d=%v label: got %q, want %q", tt.d, got.Label, tt.label)
		}
		if got.Emphasis != tt.emphasis {
			t.Errorf("d=%v emphasis: got %v, want %v", tt.d, got.Emphasis, tt.emphasis)
		}
		if got.Image != tt.image {
			t.Errorf("d=%v image: got %v, want %v", tt.d, got.Image, tt.image)
		}
		if got.Background != BackgroundNone {
			t.Errorf("d=%v background: got %v, want none", tt.d, got.Background)
		}
	}
}

func TestMagneticMagnitude(t *testing.T) {
	got := Classify(sensor.MagneticField, sensor.Vector(sensor.MagneticField, 30, 40, 0))
	if got.Value != 50.0 {
		t.Errorf("magnitude: got %v, want 50", got.Value)
	}
	if got.Label != "Campo magnético normal: 50.0 µT" {
		t.Errorf("label: got %q", got.Label)
	}
	if got.Background != BackgroundNormal || got.Image != ImageTwo {
		t.Errorf("state: got background=%v image=%v, want gray/two", got.Background, got.Image)
	}

	neg := Classify(sensor.MagneticField, sensor.Vector(sensor.MagneticField, -30, -40, 0))
	if neg.Value != 50.0 {
		t.Errorf("negative axes magnitude: got %v, want 50", neg.Value)
	}
}

func TestMagneticThreshold(t *testing.T) {
	tests := []struct {
		z     float64
		bg    Background
		image Image
	}{
		{60, BackgroundNormal, ImageTwo},
		{60.0001, BackgroundAlert, ImageOne},
		{120, BackgroundAlert, ImageOne},
	}
	for _, tt := range tests {
		got := Classify(sensor.MagneticField, sensor.Vector(sensor.MagneticField, 0, 0, tt.z))
		if got.Background != tt.bg || got.Image != tt.image {
			t.Errorf("m=%v: got background=%v image=%v, want %v/%v", tt.z, got.Background, got.Image, tt.bg, tt.image)
		}
	}

	strong := Classify(sensor.MagneticField, sensor.Vector(sensor.MagneticField, 0, 0, 80))
	if strong.Label != "Campo magnético FUERTE: 80.0 µT" {
		t.Errorf("strong label: got %q", strong.Label)
	}
}

func TestLightThreshold(t *testing.T) {
	tests := []struct {
		v     float64
		image Image
		label string
	}{
		{9.99, ImageOne, "Intensidad de luz: 9.99"},
		{10, ImageTwo, "Intensidad de luz: 10.0"},
		{250.5, ImageTwo, "Intensidad de luz: 250.5"},
	}
	for _, tt := range tests {
		got := Classify(sensor.Light, sensor.Scalar(sensor.Light, tt.v))
		if got.Image != tt.image {
			t.Errorf("v=%v image: got %v, want %v", tt.v, got.Image, tt.image)
		}
		if got.Label != tt.label {
			t.Errorf("v=%v label: got %q, want %q", tt.v, got.Label, tt.label)
		}
	}
}

func TestTiltThreshold(t *testing.T) {
	tests := []struct {
		x     float64
		image Image
	}{
		{0.5, ImageTwo},
		{0.5001, ImageOne},
		{-0.9, ImageTwo},
	}
	for _, tt := range tests {
		got := Classify(sensor.Tilt, sensor.Vector(sensor.Tilt, tt.x, 0.9, 0.9))
		if got.Image != tt.image {
			t.Errorf("x=%v image: got %v, want %v", tt.x, got.Image, tt.image)
		}
		if got.Value != tt.x {
			t.Errorf("x=%v value: got %v", tt.x, got.Value)
		}
	}

	got := Classify(sensor.Tilt, sensor.Scalar(sensor.Tilt, 0.25))
	if got.Label != "Inclinación detectada: 0.25" {
		t.Errorf("tilt label: got %q", got.Label)
	}
}

func TestClassifyIsIndependentPerSample(t *testing.T) {
	var images []Image
	for _, v := range []float64{9.9, 10.1, 9.9, 10.1} {
		images = append(images, Classify(sensor.Light, sensor.Scalar(sensor.Light, v)).Image)
	}
	want := []Image{ImageOne, ImageTwo, ImageOne, ImageTwo}
	for i := range want {
		if images[i] != want[i] {
			t.Errorf("sample %d: got %v, want %v", i, images[i], want[i])
		}
	}
}

func TestEveryKnownKindHasRule(t *testing.T) {
	for _, k := range sensor.Kinds {
		if _, ok := Threshold(k); !ok {
			t.Errorf("no rule for %v", k)
		}
	}
}

func TestClassifyUnknownKindPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown kind")
		}
	}()
	Classify(sensor.KindUnknown, sensor.Scalar(sensor.KindUnknown, 1))
}

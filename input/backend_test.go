package input

import (
	"testing"

	"github.com/pkg/errors"
)

type fakeDevice string

func (d fakeDevice) String() string { return string(d) }

type fakeBackend struct {
	devices []Device
}

func (b *fakeBackend) Init() error  { return nil }
func (b *fakeBackend) Close() error { return nil }

func (b *fakeBackend) Devices() ([]Device, error) {
	return b.devices, nil
}

func (b *fakeBackend) DefaultDevice() (Device, error) {
	return b.devices[0], nil
}

func (b *fakeBackend) Start(SessionConfig) (Session, error) {
	return nil, nil
}

func TestGetDevice(t *testing.T) {
	backend := &fakeBackend{devices: []Device{
		fakeDevice("Built-in Microphone"),
		fakeDevice("USB Audio Interface"),
	}}

	// Empty name selects the default.
	dev, err := GetDevice(backend, "")
	if err != nil {
		t.Fatalf("default lookup failed: %v", err)
	}
	if dev.String() != "Built-in Microphone" {
		t.Errorf("default device = %q", dev)
	}

	// Substring match is case-insensitive.
	dev, err = GetDevice(backend, "usb")
	if err != nil {
		t.Fatalf("substring lookup failed: %v", err)
	}
	if dev.String() != "USB Audio Interface" {
		t.Errorf("matched %q, want USB Audio Interface", dev)
	}

	// No match is a device-not-found error.
	if _, err := GetDevice(backend, "bluetooth"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("unmatched lookup error = %v, want ErrDeviceNotFound", err)
	}
}

func TestInitBackendUnknown(t *testing.T) {
	if _, err := InitBackend("no-such-backend"); err == nil {
		t.Error("unknown backend did not fail")
	}
}

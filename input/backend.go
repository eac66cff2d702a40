package input

import (
	"strings"

	"github.com/pkg/errors"
)

// Input errors.
var (
	// ErrDeviceNotFound reports that no enumerated capture device
	// matched the requested name.
	ErrDeviceNotFound = errors.New("input: device not found")
	// ErrUnsupportedFormat reports a file whose encoding cannot be
	// decoded.
	ErrUnsupportedFormat = errors.New("input: unsupported format")
)

// Backend is a capture backend that can enumerate and open devices.
type Backend interface {
	// Init should do nothing if called more than once.
	Init() error
	Close() error

	Devices() ([]Device, error)
	DefaultDevice() (Device, error)
	Start(SessionConfig) (Session, error)
}

// NamedBackend pairs a backend with its registry name.
type NamedBackend struct {
	Name string
	Backend
}

// Backends holds all registered backends.
var Backends []NamedBackend

// RegisterBackend registers a backend globally. This function is not
// thread-safe, and most packages should call it on init().
func RegisterBackend(name string, b Backend) {
	Backends = append(Backends, NamedBackend{
		Name:    name,
		Backend: b,
	})
}

// FindBackend returns the named backend, or nil.
func FindBackend(name string) Backend {
	for _, backend := range Backends {
		if backend.Name == name {
			return backend
		}
	}
	return nil
}

// InitBackend finds and initializes the named backend.
func InitBackend(name string) (Backend, error) {
	backend := FindBackend(name)
	if backend == nil {
		return nil, errors.Errorf("backend not found: %q; check list-devices", name)
	}

	if err := backend.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize input backend")
	}

	return backend, nil
}

// GetDevice matches a device by case-insensitive substring. An empty
// name selects the backend's default device.
func GetDevice(backend Backend, name string) (Device, error) {
	if name == "" {
		def, err := backend.DefaultDevice()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get default device")
		}
		return def, nil
	}

	devices, err := backend.Devices()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get devices")
	}

	want := strings.ToLower(name)
	for idx := range devices {
		if strings.Contains(strings.ToLower(devices[idx].String()), want) {
			return devices[idx], nil
		}
	}

	return nil, errors.Wrapf(ErrDeviceNotFound, "%q; check list-devices", name)
}

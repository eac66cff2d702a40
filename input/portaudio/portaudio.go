// Package portaudio provides a live capture backend.
package portaudio

import (
	"context"

	"github.com/noriah/sgram/dsp"
	"github.com/noriah/sgram/input"

	"github.com/gordonklaus/portaudio"
	"github.com/pkg/errors"
)

// GlobalBackend is the registered backend instance.
var GlobalBackend = &Backend{}

func init() {
	input.RegisterBackend("portaudio", GlobalBackend)
}

const maxChannels = 2

// Backend represents the portaudio backend. A zero-value instance is a
// valid instance.
type Backend struct {
	devices []*portaudio.DeviceInfo
}

func (b *Backend) Init() error {
	return portaudio.Initialize()
}

func (b *Backend) Close() error {
	return portaudio.Terminate()
}

func (b *Backend) Devices() ([]input.Device, error) {
	if b.devices == nil {
		devices, err := portaudio.Devices()
		if err != nil {
			return nil, err
		}
		for _, device := range devices {
			if device.MaxInputChannels > 0 {
				b.devices = append(b.devices, device)
			}
		}
	}

	gDevices := make([]input.Device, len(b.devices))
	for i, device := range b.devices {
		gDevices[i] = Device{device}
	}

	return gDevices, nil
}

func (b *Backend) DefaultDevice() (input.Device, error) {
	device, err := portaudio.DefaultInputDevice()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get default input device")
	}

	return Device{device}, nil
}

func (b *Backend) Start(cfg input.SessionConfig) (input.Session, error) {
	return NewSession(cfg)
}

// Device represents a portaudio device.
type Device struct {
	*portaudio.DeviceInfo
}

// String returns the device name.
func (d Device) String() string {
	return d.Name
}

// Session captures from a portaudio stream at the device's native rate
// and channel count, downmixes to mono, and resamples to the target
// rate. The portaudio read never feeds the sink directly; chunks that
// cannot be queued are dropped by the sink.
type Session struct {
	cfg      input.SessionConfig
	device   *portaudio.DeviceInfo
	channels int
}

// NewSession creates a capture session for the configured device.
func NewSession(cfg input.SessionConfig) (*Session, error) {
	dv, ok := cfg.Device.(Device)
	if !ok {
		return nil, errors.Errorf("device is of unknown type %T", cfg.Device)
	}

	channels := dv.MaxInputChannels
	if channels > maxChannels {
		channels = maxChannels
	}
	if channels < 1 {
		return nil, errors.Wrapf(input.ErrDeviceNotFound, "%q has no input channels", dv.Name)
	}

	return &Session{
		cfg:      cfg,
		device:   dv.DeviceInfo,
		channels: channels,
	}, nil
}

func (s *Session) Start(ctx context.Context, sink input.Sink) error {
	frames := s.cfg.ChunkSize
	buffer := make([]float32, frames*s.channels)

	param := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   s.device,
			Channels: s.channels,
			Latency:  s.device.DefaultLowInputLatency,
		},
		SampleRate:      s.device.DefaultSampleRate,
		FramesPerBuffer: frames,
	}

	stream, err := portaudio.OpenStream(param, buffer)
	if err != nil {
		return errors.Wrap(err, "failed to open stream")
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return errors.Wrap(err, "failed to start stream")
	}
	defer stream.Stop()

	resampler := dsp.NewResampler(s.device.DefaultSampleRate, s.cfg.SampleRate)
	mono := make([]input.Sample, frames)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := stream.Read()
		if err != nil && err != portaudio.InputOverflowed {
			return errors.Wrap(err, "failed to read stream")
		}

		for i := 0; i < frames; i++ {
			sum := 0.0
			for ch := 0; ch < s.channels; ch++ {
				sum += float64(buffer[i*s.channels+ch])
			}
			mono[i] = sum / float64(s.channels)
		}

		if out := resampler.Resample(mono); len(out) > 0 {
			sink.Push(out)
		}
	}
}

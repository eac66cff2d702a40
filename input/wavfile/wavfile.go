// Package wavfile provides a file sample source for WAV audio.
package wavfile

import (
	"context"
	"os"
	"time"

	"github.com/noriah/sgram/dsp"
	"github.com/noriah/sgram/input"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"
)

const wavFormatPCM = 1

// readFrames is the number of frames decoded per read.
const readFrames = 4096

// throttleCap bounds a single realtime sleep so hiccups do not stall
// the pipeline.
const throttleCap = 50 * time.Millisecond

// Session streams a WAV file as mono samples at the target rate.
//
// Integer PCM is centered before scaling so constant mid-scale input
// decodes to zero at every bit depth. WAV stores 8-bit samples
// unsigned; all wider widths are signed.
type Session struct {
	cfg  input.SessionConfig
	path string
}

// NewSession opens path and validates that it is decodable WAV.
func NewSession(path string, cfg input.SessionConfig) (*Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %q", path)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, errors.Wrapf(input.ErrUnsupportedFormat, "%q is not decodable WAV", path)
	}
	if d.WavAudioFormat != wavFormatPCM {
		return nil, errors.Wrapf(input.ErrUnsupportedFormat,
			"%q: audio format %d, only integer PCM is supported", path, d.WavAudioFormat)
	}

	return &Session{cfg: cfg, path: path}, nil
}

func (s *Session) Start(ctx context.Context, sink input.Sink) error {
	f, err := os.Open(s.path)
	if err != nil {
		return errors.Wrapf(err, "failed to open %q", s.path)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	d.ReadInfo()

	channels := int(d.NumChans)
	if channels < 1 {
		channels = 1
	}

	resampler := dsp.NewResampler(float64(d.SampleRate), s.cfg.SampleRate)
	scale := DecodeScale(int(d.BitDepth))

	buf := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: channels, SampleRate: int(d.SampleRate)},
		Data:   make([]int, readFrames*channels),
	}

	var pending []input.Sample
	mono := make([]input.Sample, 0, readFrames)

	start := time.Now()
	emitted := 0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := d.PCMBuffer(buf)
		if err != nil {
			return errors.Wrapf(err, "failed to decode %q", s.path)
		}
		if n == 0 {
			break
		}

		mono = mono[:0]
		for i := 0; i+channels <= n; i += channels {
			sum := 0.0
			for ch := 0; ch < channels; ch++ {
				sum += DecodeSample(buf.Data[i+ch], int(d.BitDepth), scale)
			}
			mono = append(mono, sum/float64(channels))
		}

		pending = append(pending, resampler.Resample(mono)...)
		for len(pending) >= s.cfg.ChunkSize {
			sink.Push(pending[:s.cfg.ChunkSize])
			kept := copy(pending, pending[s.cfg.ChunkSize:])
			pending = pending[:kept]

			emitted += s.cfg.ChunkSize
			s.throttle(start, emitted)
		}
	}

	if len(pending) > 0 {
		sink.Push(pending)
	}

	return nil
}

// throttle sleeps until wall time catches up with the emitted sample
// count, pacing playback to a real-time factor of about 1.0.
func (s *Session) throttle(start time.Time, emitted int) {
	if !s.cfg.Realtime {
		return
	}

	target := time.Duration(float64(emitted) / s.cfg.SampleRate * float64(time.Second))
	if wait := target - time.Since(start); wait > 0 {
		if wait > throttleCap {
			wait = throttleCap
		}
		time.Sleep(wait)
	}
}

// DecodeScale returns the divisor converting a centered n-bit sample to
// a float in [-1, 1).
func DecodeScale(bitDepth int) float64 {
	return float64(int64(1) << uint(bitDepth-1))
}

// DecodeSample converts one integer PCM sample to a bias-free float.
// 8-bit WAV samples are unsigned and centered on 128.
func DecodeSample(v, bitDepth int, scale float64) float64 {
	if bitDepth == 8 {
		return (float64(v) - 128.0) / 128.0
	}
	return float64(v) / scale
}

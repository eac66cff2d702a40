// Package ffmpeg decodes non-WAV audio files by piping them through an
// ffmpeg subprocess as raw little-endian float64 samples.
package ffmpeg

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os/exec"
	"time"

	"github.com/noriah/sgram/input"

	"github.com/pkg/errors"
)

const throttleCap = 50 * time.Millisecond

// Session streams a decoded file. ffmpeg performs the downmix and
// resampling, so the output is already mono at the target rate.
type Session struct {
	cfg  input.SessionConfig
	path string
}

// NewSession returns a session decoding path. It fails with
// ErrUnsupportedFormat when no ffmpeg binary is available.
func NewSession(path string, cfg input.SessionConfig) (*Session, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, errors.Wrapf(input.ErrUnsupportedFormat,
			"%q: not WAV and no ffmpeg binary found", path)
	}

	return &Session{cfg: cfg, path: path}, nil
}

func (s *Session) Start(ctx context.Context, sink input.Sink) error {
	args := []string{
		"-hide_banner", "-loglevel", "panic",
		"-i", s.path,
		"-ar", fmt.Sprintf("%.0f", s.cfg.SampleRate),
		"-ac", "1",
		"-f", "f64le",
		"-",
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	out, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(err, "failed to get stdout pipe")
	}

	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "failed to start ffmpeg")
	}

	raw := make([]byte, s.cfg.ChunkSize*8)
	samples := make([]input.Sample, s.cfg.ChunkSize)

	start := time.Now()
	emitted := 0

	for {
		select {
		case <-ctx.Done():
			cmd.Wait()
			return ctx.Err()
		default:
		}

		n, err := io.ReadFull(out, raw)
		if n >= 8 {
			count := n / 8
			for i := 0; i < count; i++ {
				bits := binary.LittleEndian.Uint64(raw[i*8:])
				samples[i] = math.Float64frombits(bits)
			}
			sink.Push(samples[:count])

			emitted += count
			s.throttle(start, emitted)
		}

		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			cmd.Wait()
			return errors.Wrap(err, "failed to read from ffmpeg")
		}
	}

	if err := cmd.Wait(); err != nil {
		return errors.Wrapf(input.ErrUnsupportedFormat, "ffmpeg could not decode %q: %v", s.path, err)
	}

	return nil
}

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

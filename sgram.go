// Package sgram wires the spectrogram pipeline: a sample source feeds
// a bounded queue, the processing loop turns queued samples into
// spectral rows in the history store, and the display projects the
// store onto the terminal.
package sgram

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/noriah/sgram/dsp"
	"github.com/noriah/sgram/dsp/window"
	"github.com/noriah/sgram/graphic"
	"github.com/noriah/sgram/history"
	"github.com/noriah/sgram/input"
	"github.com/noriah/sgram/input/ffmpeg"
	"github.com/noriah/sgram/input/wavfile"
	"github.com/noriah/sgram/processor"

	"github.com/pkg/errors"
)

// DefaultBackend is the capture backend used for live input.
const DefaultBackend = "portaudio"

// Run starts the pipeline described by cfg and blocks until the user
// quits or the display dies. Source failures after startup end the
// capture context only; the display keeps serving whatever history was
// produced.
func Run(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	winFn, err := window.Lookup(cfg.WindowName)
	if err != nil {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}

	framer := dsp.NewFramer(dsp.FramerConfig{
		WindowLen:   cfg.WindowLen,
		FFTSize:     cfg.FFTSize,
		Hop:         cfg.Hop,
		Window:      winFn,
		PreEmphasis: cfg.PreEmphasis,
	})

	analyzer := dsp.NewAnalyzer(dsp.AnalyzerConfig{
		SampleRate: cfg.SampleRate,
		FFTSize:    cfg.FFTSize,
		Alpha:      cfg.Alpha,
		DBFloor:    cfg.DBFloor,
		Normalize:  cfg.Normalize,
		ClampFloor: cfg.ClampFloor,
	})

	hist := history.New(analyzer.BinCount())
	queue := processor.NewQueue(cfg.QueueDepth)

	session, sourceDesc, closeSource, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	display := graphic.NewDisplay(graphic.DisplayConfig{
		View: graphic.View{
			Style:      cfg.Style,
			Scale:      cfg.Scale,
			Density:    cfg.Density,
			Zoom:       cfg.Zoom,
			DBFloor:    cfg.DBFloor,
			DBCeiling:  cfg.DBCeiling,
			PaletteIdx: cfg.PaletteIdx,
			Rate:       cfg.SampleRate,
			Overview:   cfg.Overview,
			Fullscreen: cfg.Fullscreen,
			Detailed:   cfg.Detailed,
		},
		SourceDesc: sourceDesc,
		PNGPath:    cfg.PNGPath,
		CSVPath:    cfg.CSVPath,
		PNGWidth:   cfg.PNGWidth,
		PNGHeight:  cfg.PNGHeight,
		WindowLen:  cfg.WindowLen,
		FFTSize:    cfg.FFTSize,
		Hop:        cfg.Hop,
	})

	if err := display.Init(); err != nil {
		return err
	}
	defer display.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctx = display.Start(ctx)

	// Capture context. Its failure is terminal for the source only.
	go func() {
		session.Start(ctx, queue)
	}()

	proc := processor.New(processor.Config{
		SampleRate:  cfg.SampleRate,
		Hop:         cfg.Hop,
		ProcessRate: cfg.ProcessRate,
		Framer:      framer,
		Analyzer:    analyzer,
		History:     hist,
		Queue:       queue,
		Output:      display,
	})

	proc.Process(ctx)

	// The capture context is torn down by the canceled context; flush
	// any export requested after the final draw before exiting.
	display.Flush(hist.Snapshot())

	return nil
}

// openSource builds the sample session for cfg: a WAV reader for .wav
// files (with an ffmpeg fallback for everything else) or a live
// capture session on the default backend.
func openSource(cfg *Config) (input.Session, string, func(), error) {
	sessCfg := input.SessionConfig{
		SampleRate: cfg.SampleRate,
		ChunkSize:  cfg.ChunkSize,
		Realtime:   cfg.Realtime,
	}

	if cfg.File != "" {
		if strings.EqualFold(filepath.Ext(cfg.File), ".wav") {
			session, err := wavfile.NewSession(cfg.File, sessCfg)
			if err == nil {
				return session, "wav: " + cfg.File, func() {}, nil
			}
			if !errors.Is(err, input.ErrUnsupportedFormat) {
				return nil, "", nil, err
			}
		}

		session, err := ffmpeg.NewSession(cfg.File, sessCfg)
		if err != nil {
			return nil, "", nil, err
		}
		return session, "file: " + cfg.File, func() {}, nil
	}

	backend, err := input.InitBackend(DefaultBackend)
	if err != nil {
		return nil, "", nil, err
	}

	device, err := input.GetDevice(backend, cfg.Device)
	if err != nil {
		backend.Close()
		return nil, "", nil, err
	}
	sessCfg.Device = device

	session, err := backend.Start(sessCfg)
	if err != nil {
		backend.Close()
		return nil, "", nil, errors.Wrap(err, "failed to start capture session")
	}

	return session, "mic: " + device.String(), func() { backend.Close() }, nil
}

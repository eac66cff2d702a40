package sgram

import (
	"github.com/noriah/sgram/dsp"
	"github.com/noriah/sgram/dsp/window"
	"github.com/noriah/sgram/graphic"

	"github.com/pkg/errors"
)

// ErrInvalidConfig reports a configuration that cannot be run.
// Configuration failures are fatal at startup; the pipeline never
// starts with clamped-and-continued parameters.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the immutable per-run parameters. It is set once at
// startup and never re-read or mutated by the core; interactive
// adjustments mutate the view state, not the config.
type Config struct {
	// Device is a case-insensitive substring of the capture device
	// name. Empty selects the default device.
	Device string
	// File is a path to an audio file. Empty selects live capture.
	File string

	// SampleRate is the target processing rate.
	SampleRate float64
	// FFTSize is the transform size N.
	FFTSize int
	// WindowLen is the analysis frame length L, L <= N.
	WindowLen int
	// Hop is the samples advanced between frames, 1 <= Hop <= L.
	Hop int
	// WindowName selects the window function (hann, hamming, ...).
	WindowName string
	// Alpha selects the dB law: 1 magnitude, 2 power.
	Alpha int
	// PreEmphasis is the pre-emphasis beta in (0, 1); 0 disables.
	PreEmphasis float64

	// DBFloor and DBCeiling bound the display range.
	DBFloor   float64
	DBCeiling float64
	// Normalize shifts each row so its peak sits at 0 dB.
	Normalize bool
	// ClampFloor clamps every bin to DBFloor after normalization.
	ClampFloor bool

	// ProcessRate is the processing/draw tick rate per second.
	ProcessRate int
	// ChunkSize is the samples per producer chunk.
	ChunkSize int
	// QueueDepth is the producer queue bound, in chunks.
	QueueDepth int
	// Realtime paces file input to wall-clock playback speed.
	Realtime bool

	// Initial view state.
	Zoom       float64
	Scale      dsp.Scale
	Style      graphic.Style
	Density    graphic.Density
	PaletteIdx int
	Overview   bool
	Fullscreen bool
	Detailed   bool

	// Export targets; empty paths use timestamped defaults.
	PNGPath   string
	CSVPath   string
	PNGWidth  int
	PNGHeight int
}

// NewZeroConfig returns the default config.
func NewZeroConfig() Config {
	return Config{
		SampleRate:  48000,
		FFTSize:     1024,
		WindowLen:   1024,
		Hop:         256,
		WindowName:  "hann",
		Alpha:       dsp.AlphaMagnitude,
		DBFloor:     -80.0,
		DBCeiling:   0.0,
		ProcessRate: 30,
		ChunkSize:   1024,
		QueueDepth:  64,
		Zoom:        1.0,
		Scale:       dsp.ScaleLinear,
		Style:       graphic.StyleWaterfall,
		Density:     graphic.DensityCell,
		PaletteIdx:  graphic.PaletteByName("viridis"),
		PNGWidth:    800,
		PNGHeight:   600,
	}
}

// Validate fails closed on any parameter the pipeline cannot honor.
func (cfg *Config) Validate() error {
	switch {
	case cfg.SampleRate <= 0:
		return errors.Wrapf(ErrInvalidConfig, "sample rate %v is not positive", cfg.SampleRate)

	case cfg.FFTSize < 16:
		return errors.Wrapf(ErrInvalidConfig, "transform size %d too small (16+ required)", cfg.FFTSize)

	case cfg.WindowLen < 1 || cfg.WindowLen > cfg.FFTSize:
		return errors.Wrapf(ErrInvalidConfig, "window length %d outside [1, %d]", cfg.WindowLen, cfg.FFTSize)

	case cfg.Hop < 1 || cfg.Hop > cfg.WindowLen:
		return errors.Wrapf(ErrInvalidConfig, "hop %d outside [1, %d]", cfg.Hop, cfg.WindowLen)

	case cfg.Alpha != dsp.AlphaMagnitude && cfg.Alpha != dsp.AlphaPower:
		return errors.Wrapf(ErrInvalidConfig, "alpha %d is neither magnitude (1) nor power (2)", cfg.Alpha)

	case cfg.DBFloor >= cfg.DBCeiling:
		return errors.Wrapf(ErrInvalidConfig, "dB floor %v not below ceiling %v", cfg.DBFloor, cfg.DBCeiling)

	case cfg.PreEmphasis < 0 || cfg.PreEmphasis >= 1:
		return errors.Wrapf(ErrInvalidConfig, "pre-emphasis %v outside [0, 1)", cfg.PreEmphasis)

	case cfg.Zoom < 1:
		return errors.Wrapf(ErrInvalidConfig, "zoom %v below 1", cfg.Zoom)

	case cfg.ChunkSize < 1:
		return errors.Wrapf(ErrInvalidConfig, "chunk size %d below 1", cfg.ChunkSize)

	case cfg.QueueDepth < 1:
		return errors.Wrapf(ErrInvalidConfig, "queue depth %d below 1", cfg.QueueDepth)
	}

	if _, err := window.Lookup(cfg.WindowName); err != nil {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}

	return nil
}

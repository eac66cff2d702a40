package sgram

import (
	"testing"

	"github.com/pkg/errors"
)

func TestZeroConfigIsValid(t *testing.T) {
	cfg := NewZeroConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateFailsClosed(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero rate", func(c *Config) { c.SampleRate = 0 }},
		{"negative rate", func(c *Config) { c.SampleRate = -48000 }},
		{"tiny fft", func(c *Config) { c.FFTSize = 8 }},
		{"window beyond fft", func(c *Config) { c.WindowLen = c.FFTSize + 1 }},
		{"zero window", func(c *Config) { c.WindowLen = 0 }},
		{"zero hop", func(c *Config) { c.Hop = 0 }},
		{"hop beyond window", func(c *Config) { c.Hop = c.WindowLen + 1 }},
		{"bad alpha", func(c *Config) { c.Alpha = 3 }},
		{"floor above ceiling", func(c *Config) { c.DBFloor = 10; c.DBCeiling = 0 }},
		{"pre-emphasis at 1", func(c *Config) { c.PreEmphasis = 1 }},
		{"negative pre-emphasis", func(c *Config) { c.PreEmphasis = -0.5 }},
		{"zoom below 1", func(c *Config) { c.Zoom = 0.5 }},
		{"zero chunk", func(c *Config) { c.ChunkSize = 0 }},
		{"zero queue", func(c *Config) { c.QueueDepth = 0 }},
		{"unknown window", func(c *Config) { c.WindowName = "flattop" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewZeroConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

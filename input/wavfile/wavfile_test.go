package wavfile

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/noriah/sgram/input"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"
)

type collectSink struct {
	samples []input.Sample
}

func (s *collectSink) Push(samples []input.Sample) bool {
	s.samples = append(s.samples, samples...)
	return true
}

func writeWAV(t *testing.T, rate, bitDepth, channels int, data []int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "in.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}

	e := wav.NewEncoder(f, rate, bitDepth, channels, wavFormatPCM)
	err = e.Write(&audio.IntBuffer{
		Format: &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:   data,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestDecodeSample(t *testing.T) {
	cases := []struct {
		v, bitDepth int
		want        float64
	}{
		{128, 8, 0},        // 8-bit is unsigned, 128 is mid-scale
		{0, 8, -1},
		{255, 8, 127.0 / 128.0},
		{0, 16, 0},
		{-32768, 16, -1},
		{16384, 16, 0.5},
		{-4194304, 24, -0.5},
	}

	for _, tc := range cases {
		got := DecodeSample(tc.v, tc.bitDepth, DecodeScale(tc.bitDepth))
		if math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("DecodeSample(%d, %d-bit) = %v, want %v", tc.v, tc.bitDepth, got, tc.want)
		}
	}
}

// Constant mid-scale 8-bit input is digital silence and must decode to
// all zeros, not a DC offset.
func TestEightBitSilence(t *testing.T) {
	data := make([]int, 512)
	for i := range data {
		data[i] = 128
	}
	path := writeWAV(t, 44100, 8, 1, data)

	session, err := NewSession(path, input.SessionConfig{
		SampleRate: 44100,
		ChunkSize:  128,
	})
	if err != nil {
		t.Fatal(err)
	}

	sink := &collectSink{}
	if err := session.Start(context.Background(), sink); err != nil {
		t.Fatal(err)
	}

	if len(sink.samples) != 512 {
		t.Fatalf("got %d samples, want 512", len(sink.samples))
	}
	for i, v := range sink.samples {
		if v != 0 {
			t.Fatalf("sample %d = %v, want 0", i, v)
		}
	}
}

func TestStereoDownmix(t *testing.T) {
	// Opposite-phase stereo cancels to silence when averaged.
	data := make([]int, 256)
	for i := 0; i < len(data); i += 2 {
		data[i] = 12000
		data[i+1] = -12000
	}
	path := writeWAV(t, 48000, 16, 2, data)

	session, err := NewSession(path, input.SessionConfig{
		SampleRate: 48000,
		ChunkSize:  64,
	})
	if err != nil {
		t.Fatal(err)
	}

	sink := &collectSink{}
	if err := session.Start(context.Background(), sink); err != nil {
		t.Fatal(err)
	}

	if len(sink.samples) != 128 {
		t.Fatalf("got %d mono samples from 128 frames", len(sink.samples))
	}
	for i, v := range sink.samples {
		if math.Abs(v) > 1e-12 {
			t.Fatalf("sample %d = %v, want 0", i, v)
		}
	}
}

func TestSixteenBitRoundTrip(t *testing.T) {
	data := []int{0, 16384, -16384, 32767, -32768}
	path := writeWAV(t, 48000, 16, 1, data)

	session, err := NewSession(path, input.SessionConfig{
		SampleRate: 48000,
		ChunkSize:  5,
	})
	if err != nil {
		t.Fatal(err)
	}

	sink := &collectSink{}
	if err := session.Start(context.Background(), sink); err != nil {
		t.Fatal(err)
	}

	want := []float64{0, 0.5, -0.5, 32767.0 / 32768.0, -1}
	if len(sink.samples) != len(want) {
		t.Fatalf("got %d samples, want %d", len(sink.samples), len(want))
	}
	for i := range want {
		if math.Abs(sink.samples[i]-want[i]) > 1e-12 {
			t.Errorf("sample %d = %v, want %v", i, sink.samples[i], want[i])
		}
	}
}

func TestNewSessionRejectsNonWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not.wav")
	if err := os.WriteFile(path, []byte("definitely not RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewSession(path, input.SessionConfig{SampleRate: 48000, ChunkSize: 64})
	if !errors.Is(err, input.ErrUnsupportedFormat) {
		t.Errorf("error = %v, want ErrUnsupportedFormat", err)
	}
}

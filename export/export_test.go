package export

import (
	"encoding/csv"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/noriah/sgram/history"
)

func TestMatrixRoundTrip(t *testing.T) {
	h := history.New(5)
	rows := [][]float64{
		{0, -3.25, -80, -12.5, -0.125},
		{-1.5, 0, -40, -60, -80},
		{-80, -80, -80, -80, -80},
	}
	for _, row := range rows {
		h.Append(append([]float64(nil), row...))
	}

	const binSpacing = 46.875 // 48000 / 1024
	path := filepath.Join(t.TempDir(), "out.csv")

	if err := Matrix(h.Snapshot(), binSpacing, path); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	if len(records) != len(rows)+1 {
		t.Fatalf("got %d records, want %d", len(records), len(rows)+1)
	}

	// Header carries bin center frequencies.
	for j, cell := range records[0] {
		freq, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			t.Fatal(err)
		}
		want := float64(j) * binSpacing
		if diff := freq - want; diff > 0.01 || diff < -0.01 {
			t.Errorf("header bin %d = %v, want %v", j, freq, want)
		}
	}

	// Data rows are oldest first and parse back to the stored values.
	for i, row := range rows {
		for j, want := range row {
			got, err := strconv.ParseFloat(records[i+1][j], 64)
			if err != nil {
				t.Fatal(err)
			}
			if got != want {
				t.Errorf("row %d bin %d = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestPNGWritesEveryPixel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")

	err := PNG(4, 3, func(x, y int) (uint8, uint8, uint8) {
		return uint8(x * 50), uint8(y * 80), 7
	}, path)
	if err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}

	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Fatalf("image is %dx%d, want 4x3", b.Dx(), b.Dy())
	}

	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if uint8(r>>8) != uint8(x*50) || uint8(g>>8) != uint8(y*80) || uint8(b>>8) != 7 {
				t.Errorf("pixel (%d,%d) = %d,%d,%d", x, y, r>>8, g>>8, b>>8)
			}
		}
	}
}

func TestPNGRejectsEmptyCanvas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")

	if err := PNG(0, 10, nil, path); err == nil {
		t.Error("zero-width export did not fail")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("failed export left a file behind")
	}
}

// A failing export must not leave a partial file at the target path.
func TestAtomicityOnWriteFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	err := atomically(path, func(*os.File) error {
		return os.ErrClosed
	})
	if err == nil {
		t.Fatal("failing write did not error")
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("failed export left a file at the target path")
	}

	// The temp file is cleaned up too.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("export directory not empty after failure: %v", entries)
	}
}

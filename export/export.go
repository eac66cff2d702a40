// Package export writes history data to image and delimited-text files.
// Writes go to a temporary file first and are renamed into place, so a
// failed export never leaves a partial file behind.
package export

import (
	"encoding/csv"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/noriah/sgram/history"

	"github.com/pkg/errors"
)

// PNG writes a width x height RGB grid, fetched cell by cell from at,
// as a PNG file. The caller supplies the projected grid so the written
// image matches whatever view produced it.
func PNG(width, height int, at func(x, y int) (r, g, b uint8), path string) error {
	if width <= 0 || height <= 0 {
		return errors.New("export: empty canvas")
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b := at(x, y)
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}

	return atomically(path, func(f *os.File) error {
		return png.Encode(f, img)
	})
}

// Matrix writes the full-resolution row/bin matrix as comma-delimited
// text: a header of bin center frequencies, then one line per time
// step, oldest first. It is a data export, independent of the current
// zoom or style.
func Matrix(snap history.Snapshot, binSpacing float64, path string) error {
	return atomically(path, func(f *os.File) error {
		w := csv.NewWriter(f)

		header := make([]string, snap.Bins())
		for i := range header {
			header[i] = fmt.Sprintf("%.2f", float64(i)*binSpacing)
		}
		if err := w.Write(header); err != nil {
			return err
		}

		record := make([]string, snap.Bins())
		for i := 0; i < snap.Len(); i++ {
			row := snap.At(i)
			for j := range record {
				record[j] = fmt.Sprintf("%.6f", row[j])
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}

		w.Flush()
		return w.Error()
	})
}

// atomically writes into a temp file next to path, then renames it into
// place. On any failure the temp file is removed.
func atomically(path string, write func(*os.File) error) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "failed to create export directory")
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return errors.Wrap(err, "failed to create temporary file")
	}

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(err, "failed to write export")
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "failed to flush export")
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "failed to place export")
	}

	return nil
}

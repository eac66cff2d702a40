// Package graphic renders history snapshots onto a terminal screen and
// owns the interactive view state.
package graphic

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/noriah/sgram/export"
	"github.com/noriah/sgram/history"
	"github.com/noriah/sgram/processor"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
)

// DisplayConfig holds startup display parameters.
type DisplayConfig struct {
	View       View   // initial view state
	SourceDesc string // shown on the status line
	PNGPath    string // export target, "" for a timestamped default
	CSVPath    string // export target, "" for a timestamped default
	PNGWidth   int
	PNGHeight  int
	WindowLen  int
	FFTSize    int
	Hop        int
}

// Display draws the spectrogram with tcell and turns key events into
// view mutations. Export requests raised by keys are performed from the
// processing context on the next draw, never from the event goroutine.
type Display struct {
	cfg DisplayConfig

	mu       sync.Mutex
	view     View
	showHelp bool
	wantPNG  bool
	wantCSV  bool
	notice   string

	screen tcell.Screen
}

// NewDisplay returns an uninitialized display.
func NewDisplay(cfg DisplayConfig) *Display {
	if cfg.PNGWidth <= 0 {
		cfg.PNGWidth = 800
	}
	if cfg.PNGHeight <= 0 {
		cfg.PNGHeight = 600
	}

	return &Display{
		cfg:  cfg,
		view: cfg.View,
	}
}

// Init sets up the terminal screen.
func (d *Display) Init() error {
	restore, err := normalizeTerminal()
	if err != nil {
		return errors.Wrap(err, "failed to normalize terminal")
	}
	defer restore()

	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "failed to create screen")
	}

	if err = screen.Init(); err != nil {
		return errors.Wrap(err, "failed to initialize screen")
	}

	screen.DisableMouse()
	screen.HideCursor()

	d.screen = screen

	return nil
}

// Close cleans up the terminal.
func (d *Display) Close() error {
	if d.screen != nil {
		d.screen.Fini()
	}
	return nil
}

// Start launches the event poller. The returned context is canceled
// when the user quits.
func (d *Display) Start(ctx context.Context) context.Context {
	dispCtx, dispCancel := context.WithCancel(ctx)
	go d.eventPoller(dispCtx, dispCancel)
	return dispCtx
}

// View returns a copy of the current view state.
func (d *Display) View() View {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view
}

// Paused reports whether consumption is frozen.
func (d *Display) Paused() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view.Paused
}

func (d *Display) eventPoller(ctx context.Context, cancel context.CancelFunc) {
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		ev := d.screen.PollEvent()
		if ev == nil {
			return
		}

		switch ev := ev.(type) {
		case *tcell.EventResize:
			d.screen.Sync()

		case *tcell.EventKey:
			if d.handleKey(ev) {
				return
			}
		}
	}
}

// handleKey mutates the view. Returns true on quit.
func (d *Display) handleKey(ev *tcell.EventKey) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true

	case tcell.KeyF1:
		d.showHelp = !d.showHelp
		return false

	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return true
		case 'p':
			d.view.Paused = !d.view.Paused
		case 'a':
			d.view.ToggleStyle()
		case '+', '=':
			d.view.AdjustZoom(0.25)
		case '-':
			d.view.AdjustZoom(-0.25)
		case '[':
			d.view.AdjustFloor(-2.0)
		case ']':
			d.view.AdjustFloor(2.0)
		case 'c':
			d.view.NextPalette()
		case 'C':
			d.view.PrevPalette()
		case 's':
			d.wantPNG = true
		case 'w':
			d.wantCSV = true
		case 'f':
			d.view.Fullscreen = !d.view.Fullscreen
		case 'd':
			d.view.Detailed = !d.view.Detailed
		case 'o':
			d.view.Overview = !d.view.Overview
		case 'h':
			d.showHelp = !d.showHelp
		}
	}

	return false
}

// Draw renders one frame and performs any pending export requests. It
// is called from the processing context.
func (d *Display) Draw(snap history.Snapshot, stats processor.Stats) error {
	d.Flush(snap)

	d.mu.Lock()
	view := d.view
	showHelp := d.showHelp
	notice := d.notice
	d.mu.Unlock()

	d.screen.Clear()

	width, height := d.screen.Size()
	area := height
	if !view.Fullscreen {
		area = height - 2
	}
	if area < 1 || width < 1 {
		d.screen.Show()
		return nil
	}

	grid := Project(snap, view, Geometry{
		Width:  width,
		Height: area * view.SubCells(),
	})
	d.blit(grid, view)

	if !view.Fullscreen {
		d.drawStatus(width, height, view, snap, stats, notice)
	}
	if view.Detailed && !view.Fullscreen {
		d.drawDetails(width, view, snap, stats)
	}
	if showHelp {
		d.drawHelp(width, area)
	}

	d.screen.Show()

	return nil
}

// Flush performs pending export requests against snap. Called on every
// draw and once more during teardown so no requested write is lost.
func (d *Display) Flush(snap history.Snapshot) {
	d.mu.Lock()
	wantPNG, wantCSV := d.wantPNG, d.wantCSV
	d.wantPNG, d.wantCSV = false, false
	view := d.view
	d.mu.Unlock()

	if !wantPNG && !wantCSV {
		return
	}

	var notice string

	if wantPNG {
		path := d.exportPath(d.cfg.PNGPath, "png")
		grid := Project(snap, view, Geometry{Width: d.cfg.PNGWidth, Height: d.cfg.PNGHeight})
		err := export.PNG(grid.Width, grid.Height, func(x, y int) (uint8, uint8, uint8) {
			c := grid.At(x, y)
			return c.R, c.G, c.B
		}, path)
		if err != nil {
			notice = fmt.Sprintf("png export failed: %v", err)
		} else {
			notice = "saved " + path
		}
	}

	if wantCSV {
		path := d.exportPath(d.cfg.CSVPath, "csv")
		if err := export.Matrix(snap, view.Rate/float64(d.cfg.FFTSize), path); err != nil {
			notice = fmt.Sprintf("csv export failed: %v", err)
		} else {
			notice = "saved " + path
		}
	}

	d.mu.Lock()
	d.notice = notice
	d.mu.Unlock()
}

func (d *Display) exportPath(configured, ext string) string {
	if configured != "" {
		return configured
	}
	name := fmt.Sprintf("sgram_%d.%s", time.Now().Unix(), ext)
	return filepath.Join("saved", name)
}

// blit copies the projected grid onto the screen, packing two vertical
// sub-cells per character cell in half density.
func (d *Display) blit(grid *Grid, view View) {
	if view.SubCells() == 2 {
		for y := 0; y+1 < grid.Height; y += 2 {
			for x := 0; x < grid.Width; x++ {
				top := grid.At(x, y)
				bottom := grid.At(x, y+1)
				style := tcell.StyleDefault.
					Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
					Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
				d.screen.SetContent(x, y/2, '▀', nil, style)
			}
		}
		return
	}

	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			c := grid.At(x, y)
			style := tcell.StyleDefault.
				Background(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
			d.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

const keyHelp = "[q] quit  [p] pause  [a] style  [+/-] zoom  [[/]] floor  [c/C] palette  [s] png  [w] csv  [f] fullscreen  [d] details  [o] overview  [h] help"

func (d *Display) drawStatus(width, height int, view View, snap history.Snapshot, stats processor.Stats, notice string) {
	style := tcell.StyleDefault

	d.drawText(0, height-2, width, style, keyHelp)

	fMax := view.Rate / 2.0 / view.Zoom
	line := fmt.Sprintf(
		"src: %s | style: %s | scale: %s | render: %s | zoom: %.2f | floor: %.0f ceil: %.0f dB | rows: %d | freq: 0..%.0f Hz | rps: %.1f | rtf: %.2fx",
		d.cfg.SourceDesc, view.Style, view.Scale, view.Density, view.Zoom,
		view.DBFloor, view.DBCeiling, snap.Len(), fMax,
		stats.RowsPerSec, stats.RealTimeFactor,
	)
	if notice != "" {
		line += " | " + notice
	}
	d.drawText(0, height-1, width, style, line)
}

func (d *Display) drawDetails(width int, view View, snap history.Snapshot, stats processor.Stats) {
	df := view.Rate / float64(d.cfg.FFTSize)
	total := float64(stats.TotalRows) * float64(d.cfg.Hop) / view.Rate

	lines := []string{
		fmt.Sprintf("fs: %.0f Hz | L/H/N: %d/%d/%d", view.Rate, d.cfg.WindowLen, d.cfg.Hop, d.cfg.FFTSize),
		fmt.Sprintf("bins: %d | df: %.1f Hz", snap.Bins(), df),
		fmt.Sprintf("floor/ceil: %.0f/%.0f dB | zoom: %.2f", view.DBFloor, view.DBCeiling, view.Zoom),
		fmt.Sprintf("throughput: %.1f rows/s | rtf: %.2fx | total: %.2fs", stats.RowsPerSec, stats.RealTimeFactor, total),
		fmt.Sprintf("dropped chunks: %d", stats.Dropped),
	}

	x := width - 46
	if x < 0 {
		x = 0
	}
	for i, line := range lines {
		d.drawText(x, i, width-x, tcell.StyleDefault.Reverse(true), line)
	}
}

func (d *Display) drawHelp(width, height int) {
	lines := []string{
		"Usage: sgram [mic|FILE] [flags]",
		"Keys: q/Esc quit, p pause, a style, +/- zoom, [/] floor,",
		"      c/C palette, f fullscreen, o overview, d details,",
		"      s png, w csv, h help",
	}

	y := height/2 - len(lines)/2
	if y < 0 {
		y = 0
	}
	for i, line := range lines {
		x := (width - len(line)) / 2
		if x < 0 {
			x = 0
		}
		d.drawText(x, y+i, width-x, tcell.StyleDefault.Reverse(true), line)
	}
}

func (d *Display) drawText(x, y, max int, style tcell.Style, text string) {
	for i, r := range text {
		if i >= max {
			return
		}
		d.screen.SetContent(x+i, y, r, nil, style)
	}
}

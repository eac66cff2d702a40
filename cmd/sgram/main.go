package main

import (
	"fmt"
	"log"

	"github.com/noriah/sgram"
	"github.com/noriah/sgram/dsp"
	"github.com/noriah/sgram/graphic"
	"github.com/noriah/sgram/input"

	_ "github.com/noriah/sgram/input/portaudio"

	"github.com/integrii/flaggy"
)

// AppName is the app name
const AppName = "sgram"

// AppDesc is the app description
const AppDesc = "terminal spectrogram viewer"

var version = "unknown"

func main() {
	log.SetFlags(0)

	cfg := sgram.NewZeroConfig()

	if doFlags(&cfg) {
		return
	}

	chk(cfg.Validate(), "invalid config")

	chk(sgram.Run(&cfg), "failed to run sgram")
}

func doFlags(cfg *sgram.Config) bool {
	parser := flaggy.NewParser(AppName)
	parser.Description = AppDesc
	parser.Version = version

	listDevicesCmd := flaggy.Subcommand{
		Name:        "list-devices",
		ShortName:   "ld",
		Description: "list all capture devices",
	}
	parser.AttachSubcommand(&listDevicesCmd, 1)

	var (
		source      string
		scaleName   = cfg.Scale.String()
		styleName   = cfg.Style.String()
		renderName  = cfg.Density.String()
		paletteName = graphic.Palettes[cfg.PaletteIdx].Name
		resolution  = "medium"
	)

	parser.AddPositionalValue(&source, "source", 1, false, "mic or an audio file path")

	parser.String(&cfg.Device, "d", "device", "capture device name substring")
	parser.Float64(&cfg.SampleRate, "r", "rate", "target sample rate")
	parser.Int(&cfg.FFTSize, "n", "fft", "transform size N")
	parser.Int(&cfg.WindowLen, "l", "win", "window length L (<= fft, zero-padded if smaller)")
	parser.Int(&cfg.Hop, "j", "hop", "hop size between frames (<= win)")
	parser.String(&cfg.WindowName, "k", "window", "window function (hann, hamming, blackman, bartlett, rectangle)")
	parser.Int(&cfg.Alpha, "a", "alpha", "magnitude exponent (1=magnitude, 2=power)")
	parser.Float64(&cfg.PreEmphasis, "e", "pre-emphasis", "pre-emphasis beta in (0,1), 0 disables")
	parser.Float64(&cfg.DBFloor, "b", "floor", "dB floor")
	parser.Float64(&cfg.DBCeiling, "t", "ceil", "dB ceiling")
	parser.Bool(&cfg.Normalize, "m", "normalize", "normalize each row to peak at 0 dB")
	parser.Bool(&cfg.ClampFloor, "c", "clamp-floor", "clamp every bin to the dB floor")
	parser.Int(&cfg.ProcessRate, "f", "fps", "processing/draw ticks per second")
	parser.Float64(&cfg.Zoom, "z", "zoom", "initial zoom (>1 zooms into low frequencies)")
	parser.String(&scaleName, "s", "scale", "frequency scale (linear, log, mel)")
	parser.String(&styleName, "y", "style", "orientation (horizontal, waterfall)")
	parser.String(&renderName, "g", "render", "render density (cell, half)")
	parser.String(&paletteName, "p", "palette", "color palette name")
	parser.String(&resolution, "q", "resolution", "preset (low, medium, high, ultra)")
	parser.Bool(&cfg.Overview, "o", "overview", "fit the entire history into the view")
	parser.Bool(&cfg.Fullscreen, "u", "fullscreen", "hide borders and status")
	parser.Bool(&cfg.Detailed, "i", "detailed", "show the details overlay")
	parser.Bool(&cfg.Realtime, "w", "realtime", "pace file input to wall-clock speed")
	parser.String(&cfg.PNGPath, "", "png-path", "image export path")
	parser.String(&cfg.CSVPath, "", "csv-path", "matrix export path")

	chk(parser.Parse(), "failed to parse arguments")

	cfg.PaletteIdx = graphic.PaletteByName(paletteName)
	chk(parseScale(scaleName, &cfg.Scale), "invalid scale")
	chk(parseStyle(styleName, &cfg.Style), "invalid style")
	chk(parseRender(renderName, &cfg.Density), "invalid render density")
	chk(applyResolution(resolution, cfg), "invalid resolution")

	if source != "" && source != "mic" {
		cfg.File = source
	}

	if listDevicesCmd.Used {
		listDevices()
		return true
	}

	return false
}

func listDevices() {
	backend, err := input.InitBackend(sgram.DefaultBackend)
	chk(err, "failed to init backend")
	defer backend.Close()

	devices, err := backend.Devices()
	chk(err, "failed to get devices")

	// We don't really need the default device to be indicated.
	defaultDevice, _ := backend.DefaultDevice()

	fmt.Println("all capture devices. '*' marks default")

	for idx := range devices {
		star := ' '
		if defaultDevice != nil && devices[idx].String() == defaultDevice.String() {
			star = '*'
		}

		fmt.Printf("- %v %c\n", devices[idx], star)
	}
}

func parseScale(name string, out *dsp.Scale) error {
	switch name {
	case "linear":
		*out = dsp.ScaleLinear
	case "log":
		*out = dsp.ScaleLog
	case "mel":
		*out = dsp.ScaleMel
	default:
		return fmt.Errorf("unknown scale %q", name)
	}
	return nil
}

func parseStyle(name string, out *graphic.Style) error {
	switch name {
	case "horizontal":
		*out = graphic.StyleHorizontal
	case "waterfall":
		*out = graphic.StyleWaterfall
	default:
		return fmt.Errorf("unknown style %q", name)
	}
	return nil
}

func parseRender(name string, out *graphic.Density) error {
	switch name {
	case "cell":
		*out = graphic.DensityCell
	case "half":
		*out = graphic.DensityHalf
	default:
		return fmt.Errorf("unknown render density %q", name)
	}
	return nil
}

// applyResolution maps a convenience preset onto render density and
// tick rate, without overriding explicit flags that differ from the
// defaults.
func applyResolution(name string, cfg *sgram.Config) error {
	switch name {
	case "low":
		cfg.ProcessRate = 15
	case "medium":
	case "high":
		cfg.Density = graphic.DensityHalf
	case "ultra":
		cfg.Density = graphic.DensityHalf
		cfg.ProcessRate = 60
	default:
		return fmt.Errorf("unknown resolution %q", name)
	}
	return nil
}

func chk(err error, wrap string) {
	if err != nil {
		log.Fatalln(wrap+": ", err)
	}
}

// pixup enlarges an image by an integer factor, turning every pixel into a
// solid square block.  Good for pixel art and for looking closely at small
// images.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"

	"github.com/golang/glog"
	"github.com/ncabatoff/pixup/imglib"
	"github.com/ncabatoff/pixup/upscaler"
	"github.com/pkg/profile"
)

var (
	// The scale factor.  A third positional argument overrides it.
	flagRate int

	// Number of goroutines used to fill the output image.
	flagWorkers int

	// Quality used when the output is a JPEG.
	flagQuality int

	// Apply EXIF orientation to JPEG input.
	flagAutoRotate bool

	// If set to cpu or mem, a profile is written to the current directory.
	flagProfile string
)

// Diagnostics go here rather than straight to os.Stderr so tests can read them.
var stderr io.Writer = os.Stderr

// Replaced in tests.
var upscaleFile = upscaler.UpscaleFile

// Exit codes, one per kind of failure.
const (
	exitOK = iota
	exitFailure
	exitUsage
	exitDecode
	exitEncode
	exitWrite
)

func init() {
	flag.IntVar(&flagRate, "rate", upscaler.DefaultRate,
		"The scale factor, a positive integer.")
	flag.IntVar(&flagWorkers, "workers", runtime.NumCPU(),
		"The number of goroutines filling the output image.")
	flag.IntVar(&flagQuality, "quality", imglib.DefaultJPEGQuality,
		"JPEG output quality, 1-100.")
	flag.BoolVar(&flagAutoRotate, "autorotate", false,
		"If set, JPEG input is rotated according to its EXIF orientation.")
	flag.StringVar(&flagProfile, "profile", "",
		"If set to cpu or mem, save that profile in the current directory.")
	flag.Usage = usage
}

func usage() {
	fmt.Fprintf(stderr, "Usage: %s [flags] source-path dest-path [rate]\n",
		filepath.Base(os.Args[0]))
	fmt.Fprintf(stderr, "The output format follows the extension of dest-path: "+
		".png, .jpg, .jpeg, .gif, .bmp, .tif or .tiff.\n")
	flag.CommandLine.SetOutput(stderr)
	flag.PrintDefaults()
}

func main() {
	flag.Parse()
	code := run(flag.Args())
	glog.Flush()
	os.Exit(code)
}

// run does the work of main on the positional arguments and returns the
// process exit code.
func run(args []string) int {
	if len(args) < 2 || len(args) > 3 {
		fmt.Fprintf(stderr, "pixup: expected source and destination paths, got %d arguments\n", len(args))
		usage()
		return exitUsage
	}

	rate := flagRate
	if len(args) == 3 {
		r, err := upscaler.ParseRate(args[2])
		if err != nil {
			return fail(err)
		}
		rate = r
	}

	switch flagProfile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet).Stop()
	default:
		fmt.Fprintf(stderr, "pixup: -profile must be cpu or mem, not %q\n", flagProfile)
		return exitUsage
	}

	// The first interrupt cancels the run; stopping the relay right away
	// lets a second one kill the process.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		stop()
	}()

	opts := upscaler.Options{
		Rate:        rate,
		Workers:     flagWorkers,
		AutoRotate:  flagAutoRotate,
		JPEGQuality: flagQuality,
	}
	lg("upscaling %s to %s, rate=%d workers=%d", args[0], args[1], rate, flagWorkers)
	if err := upscaleFile(ctx, args[0], args[1], opts); err != nil {
		return fail(err)
	}
	return exitOK
}

// fail reports err on one line and picks the exit code for it.  The log
// files get it too, at warning level so that glog does not repeat it on
// stderr.
func fail(err error) int {
	fmt.Fprintf(stderr, "pixup: %v\n", err)
	glog.Warningf("pixup: %v", err)
	switch {
	case errors.Is(err, upscaler.ErrInvalidArgument):
		return exitUsage
	case errors.Is(err, upscaler.ErrDecode):
		return exitDecode
	case errors.Is(err, upscaler.ErrEncode):
		return exitEncode
	case errors.Is(err, upscaler.ErrWrite):
		return exitWrite
	}
	return exitFailure
}

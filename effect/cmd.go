// Package effect implements the CLI command that runs a pixel-stream
// pipeline over every image in a folder.
package effect

import (
	"fmt"
	"image"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"streampix/parallel"
	"streampix/pixel"
	"streampix/stream"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Scan        string  `help:"Source folder to scan" default:"."`
	Dest        string  `help:"Destination folder for processed pictures. Relative to scan dir if not absolute. If same as scan dir, will overwrite source files." default:"streamed"`
	Resize      bool    `help:"Scale image down to fit the given box before streaming" default:"false" group:"resize"`
	Width       int     `help:"Max width" group:"resize"`
	Height      int     `help:"Max height" group:"resize"`
	Gray        bool    `help:"Average each pixel's channels to grayscale" default:"false" group:"color"`
	Invert      bool    `help:"Invert every color channel" default:"false" group:"color"`
	Brighten    float64 `help:"Add this amount to every color channel, negative values darken" group:"color"`
	Rotate      float64 `help:"Rotate pixel positions about the image center, in degrees" group:"geometry"`
	Threshold   float64 `help:"Drop pixels whose mean brightness is below this value (0 disables)" group:"filter"`
	TightBounds bool    `help:"Size the output to the pixels' minimal bounding box instead of padding back to the origin" default:"false" group:"geometry"`
	Format      string  `help:"Output format of processed image" enum:"same,gif,jpeg,png,bmp,tiff" default:"png"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	scanDir, err := filepath.Abs(c.Scan)
	var info os.FileInfo
	if err == nil {
		if info, err = os.Stat(scanDir); err == nil && !info.IsDir() {
			err = fmt.Errorf("not a directory")
		}
	}
	if err != nil {
		return fmt.Errorf("invalid scan path %q: %w", c.Scan, err)
	}
	c.Scan = scanDir

	if !filepath.IsAbs(c.Dest) {
		c.Dest = filepath.Join(scanDir, c.Dest)
	}

	if c.Resize {
		switch {
		case (c.Width < 0):
			return fmt.Errorf("invalid resize width: %d", c.Width)
		case (c.Height < 0):
			return fmt.Errorf("invalid resize height: %d", c.Height)
		case (c.Width == 0) && (c.Height == 0):
			return fmt.Errorf("no resize dimensions given")
		}
	}

	if (c.Threshold < 0) || (c.Threshold > 1) {
		return fmt.Errorf("threshold out of range [0, 1]: %g", c.Threshold)
	}

	return nil
}

func (c *CLICmd) Run(worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	if err := os.MkdirAll(c.Dest, os.ModeDir); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}

	files, err := os.ReadDir(c.Scan)
	if err != nil {
		return fmt.Errorf("unable to read folder %q: %w", c.Scan, err)
	}

	var processedCount, errCount atomic.Uint64
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		worker(func(fileName string) func() {
			return func() {
				filePath := filepath.Join(c.Scan, fileName)
				logger := slog.Default().With("file", filePath)

				if err := c.processFile(logger, fileName, filePath); err != nil {
					errCount.Add(1)
					logger.Error("could not process image", "error", err)
					return
				}
				processedCount.Add(1)
			}
		}(file.Name()))
	}

	wait(true)

	processed := processedCount.Load()
	errors := errCount.Load()
	slog.Info("stats", "processed", processed, "errors", errors,
		"total", processed+errors)

	if errors > 0 {
		return fmt.Errorf("error processing %d files", errors)
	}
	return nil
}

func (c *CLICmd) processFile(logger *slog.Logger, fileName, filePath string) error {
	imgFile, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("could not open image: %w", err)
	}
	defer func() {
		if closeErr := imgFile.Close(); closeErr != nil {
			logger.Error("could not close image", "error", closeErr)
		}
	}()

	src, imgType, err := image.Decode(imgFile)
	if err != nil {
		return fmt.Errorf("could not decode image: %w", err)
	}

	if c.Resize {
		src = fit(logger, src, c.Width, c.Height)
	}

	img := stream.FromImage(src, stream.Options{Workers: 1})
	out := stream.FromSeqOpts(c.pipeline(img), stream.Options{TightBounds: c.TightBounds, Workers: 1})

	outExt := c.Format
	if outExt == "same" {
		outExt = imgType
	}
	oldExt := filepath.Ext(fileName)
	destName := fmt.Sprintf("%s.%s", fileName[:len(fileName)-len(oldExt)], outExt)

	logger.Info("saving", "name", destName, "width", out.Width(), "height", out.Height())
	if err := out.Save(filepath.Join(c.Dest, destName)); err != nil {
		return fmt.Errorf("could not save image: %w", err)
	}
	return nil
}

// pipeline chains the requested transforms onto the image's pixel
// sequence. Flags left at their zero value add no stage.
func (c *CLICmd) pipeline(img *stream.Image) iter.Seq[pixel.Pixel] {
	s := img.Pixels()

	if c.Gray {
		s = stream.Map(s, pixel.Pixel.Gray)
	}
	if c.Invert {
		s = stream.Map(s, func(p pixel.Pixel) pixel.Pixel {
			return p.MapRGB(func(ch float64) float64 { return 1 - ch })
		})
	}
	if c.Brighten != 0 {
		s = stream.Map(s, func(p pixel.Pixel) pixel.Pixel {
			return p.Brighter(c.Brighten)
		})
	}
	if c.Rotate != 0 {
		// Rotated spins about the origin, so re-center around the
		// image middle.
		cx := (img.Width() - 1) / 2
		cy := (img.Height() - 1) / 2
		s = stream.Map(s, func(p pixel.Pixel) pixel.Pixel {
			r := pixel.New(p.X-cx, p.Y-cy, p.R, p.G, p.B).Rotated(c.Rotate)
			return r.At(r.X+cx, r.Y+cy)
		})
	}
	if c.Threshold > 0 {
		s = stream.Filter(s, func(p pixel.Pixel) bool {
			return (p.R+p.G+p.B)/3 >= c.Threshold
		})
	}

	return s
}

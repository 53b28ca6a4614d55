package effect

import (
	"image"
	"log/slog"
	"math"

	"golang.org/x/image/draw"
)

// fit scales the image down to fit inside maxWidth x maxHeight while
// keeping its aspect ratio. A zero dimension is unconstrained. Images
// already inside the box pass through untouched.
func fit(logger *slog.Logger, img image.Image, maxWidth, maxHeight int) image.Image {
	srcBounds := img.Bounds()
	srcWidth := float64(srcBounds.Dx())
	srcHeight := float64(srcBounds.Dy())

	scale := 1.0
	if (maxWidth > 0) && (srcWidth > float64(maxWidth)) {
		scale = float64(maxWidth) / srcWidth
	}
	if (maxHeight > 0) && (srcHeight*scale > float64(maxHeight)) {
		scale = float64(maxHeight) / srcHeight
	}
	if scale == 1.0 {
		return img
	}

	destBounds := image.Rect(0, 0,
		int(math.Round(srcWidth*scale)),
		int(math.Round(srcHeight*scale)))

	logger.Info("resizing", "width", destBounds.Dx(), "height", destBounds.Dy())
	dest := image.NewRGBA64(destBounds)
	draw.CatmullRom.Scale(dest, destBounds, img, srcBounds, draw.Over, nil)

	return dest
}

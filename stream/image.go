// Package stream is the image container: it loads a raster into a
// collection of typed pixels, exposes the collection as a lazy
// sequence for declarative transformation, and rebuilds a raster from
// the transformed result.
package stream

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"streampix/parallel"
	"streampix/pixel"
	"streampix/raster"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/vp8l"
	_ "golang.org/x/image/webp"
)

// Options tune image construction.
type Options struct {
	// TightBounds computes the minimal bounding box of the pixel
	// collection instead of the default origin-seeded fold (see
	// raster.Infer), so off-origin collections are not padded back
	// to (0, 0).
	TightBounds bool
	// Workers caps the decode/rasterize fan-out; 0 means all CPUs.
	Workers int
}

// Image owns a pixel collection and the raster cached from it. The
// raster is computed once at construction and the collection never
// changes afterwards, so an Image is effectively immutable: transforms
// produce a fresh Image via FromSeq rather than mutating in place.
type Image struct {
	pixels           []pixel.Pixel
	offsetX, offsetY float64
	width, height    float64
	raster           *raster.Buffer
}

// Load reads the image file at path into a pixel collection, one
// pixel per raster cell in row-major order.
func Load(path string) (*Image, error) {
	return LoadOpts(path, Options{})
}

// LoadOpts is Load with explicit Options.
func LoadOpts(path string, opts Options) (*Image, error) {
	imgFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open image %q: %w", path, err)
	}
	defer func() {
		if closeErr := imgFile.Close(); closeErr != nil {
			slog.Error("could not close image", "file", path, "error", closeErr)
		}
	}()

	src, _, err := image.Decode(imgFile)
	if err != nil {
		return nil, fmt.Errorf("could not decode image %q: %w", path, err)
	}

	return FromImage(src, opts), nil
}

// FromImage decodes an in-memory raster into a pixel collection.
// Offsets are zero and width/height are the raster dimensions exactly;
// no bounds inference runs because the raster is already dense and
// anchored at the origin. Rows are decoded in parallel.
func FromImage(src image.Image, opts Options) *Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	pixels := make([]pixel.Pixel, w*h)
	buf := raster.NewBuffer(w, h)

	pool := parallel.Start(opts.Workers)
	defer pool.Wait(true)

	pool.ForEachBand(h, func(band parallel.Band) {
		for y := band.Lo; y < band.Hi; y++ {
			for x := range w {
				c := color.NRGBAModel.Convert(src.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
				packed := uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
				pixels[y*w+x] = pixel.FromARGB(x, y, packed)
				buf.SetCell(x, y, packed)
			}
		}
	})

	return &Image{
		pixels: pixels,
		width:  float64(w),
		height: float64(h),
		raster: buf,
	}
}

// FromSeq collects a pixel sequence, infers its bounds and rasterizes
// it. This is how a transformed stream becomes an image again.
func FromSeq(seq iter.Seq[pixel.Pixel]) *Image {
	return FromSeqOpts(seq, Options{})
}

// FromSeqOpts is FromSeq with explicit Options.
func FromSeqOpts(seq iter.Seq[pixel.Pixel], opts Options) *Image {
	pixels := slices.Collect(seq)

	var box raster.Box
	if opts.TightBounds {
		box = raster.InferTight(pixels)
	} else {
		box = raster.Infer(pixels)
	}

	pool := parallel.Start(opts.Workers)
	defer pool.Wait(true)

	return &Image{
		pixels:  pixels,
		offsetX: box.MinX,
		offsetY: box.MinY,
		width:   box.Width(),
		height:  box.Height(),
		raster:  raster.Render(pixels, box, pool),
	}
}

// Pixels returns the pixel collection as a lazy, restartable sequence
// in stable insertion order (row-major for loaded images). The view is
// read-only; build a new image from the transformed sequence with
// FromSeq.
func (img *Image) Pixels() iter.Seq[pixel.Pixel] {
	return func(yield func(pixel.Pixel) bool) {
		for _, p := range img.pixels {
			if !yield(p) {
				return
			}
		}
	}
}

// ParallelPixels returns the same logical element set as Pixels, fed
// from worker-owned bands of the collection. Element order across
// bands depends on scheduling and is not guaranteed.
func (img *Image) ParallelPixels() iter.Seq[pixel.Pixel] {
	return func(yield func(pixel.Pixel) bool) {
		pool := parallel.Start(0)
		out := make(chan pixel.Pixel, 256)
		done := make(chan struct{})

		go func() {
			pool.ForEachBand(len(img.pixels), func(band parallel.Band) {
				for _, p := range img.pixels[band.Lo:band.Hi] {
					select {
					case out <- p:
					case <-done:
						return
					}
				}
			})
			pool.Wait(true)
			close(out)
		}()

		defer close(done)
		for p := range out {
			if !yield(p) {
				return
			}
		}
	}
}

// Width returns the raster footprint along x. May be non-integral for
// images built from a transformed sequence.
func (img *Image) Width() float64 {
	return img.width
}

// Height returns the raster footprint along y.
func (img *Image) Height() float64 {
	return img.height
}

// Size returns width * height, an approximate pixel count.
func (img *Image) Size() float64 {
	return img.width * img.height
}

// OffsetX returns the raster's placement along x in the collection's
// coordinate space.
func (img *Image) OffsetX() float64 {
	return img.offsetX
}

// OffsetY returns the raster's placement along y.
func (img *Image) OffsetY() float64 {
	return img.offsetY
}

// Raster exposes the cached raster for codec or display collaborators.
// It satisfies image.Image.
func (img *Image) Raster() *raster.Buffer {
	return img.raster
}

// Save writes the cached raster to path. The format follows the file
// extension (png, gif, jpeg, bmp, tiff) and defaults to png. The file
// is written to a temporary name and renamed into place once the
// encoder has finished.
func (img *Image) Save(path string) (err error) {
	var format string
	switch strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".") {
	case "gif":
		format = "gif"
	case "jpg", "jpeg":
		format = "jpeg"
	case "bmp":
		format = "bmp"
	case "tif", "tiff":
		format = "tiff"
	default:
		format = "png"
	}

	destDir := filepath.Dir(path)
	outFile, err := os.CreateTemp(destDir, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("could not create temporary destination %q: %w", path, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Sync(); defErr != nil {
			err = fmt.Errorf("could not flush temporary destination %q: %w", path, defErr)
		}
		if defErr := outFile.Close(); defErr != nil {
			err = fmt.Errorf("could not close temporary destination %q: %w", path, defErr)
		}

		if canRename {
			if defErr := os.Rename(outFile.Name(), path); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", path, defErr)
			}
		}
	}()

	switch format {
	case "gif":
		if err = gif.Encode(outFile, img.raster, nil); err != nil {
			return fmt.Errorf("could not encode GIF destination %q: %w", path, err)
		}
	case "jpeg":
		if err = jpeg.Encode(outFile, img.raster, &jpeg.Options{Quality: 100}); err != nil {
			return fmt.Errorf("could not encode JPEG destination %q: %w", path, err)
		}
	case "png":
		enc := png.Encoder{
			CompressionLevel: png.BestCompression,
			BufferPool:       pngPool,
		}
		if err = enc.Encode(outFile, img.raster); err != nil {
			return fmt.Errorf("could not encode PNG destination %q: %w", path, err)
		}
	case "bmp":
		if err = bmp.Encode(outFile, img.raster); err != nil {
			return fmt.Errorf("could not encode BMP destination %q: %w", path, err)
		}
	case "tiff":
		if err = tiff.Encode(outFile, img.raster, nil); err != nil {
			return fmt.Errorf("could not encode TIFF destination %q: %w", path, err)
		}
	}

	canRename = true
	return err
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}

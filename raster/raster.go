// Package raster reconstructs a dense raster from a pixel collection.
// It infers the collection's bounding box and writes every pixel onto
// the grid with a 2x2 bilinear splat, blending onto whatever is
// already there.
package raster

import (
	"image"
	"image/color"
	"math"

	"streampix/parallel"
	"streampix/pixel"
)

// Buffer is a dense grid of packed 32-bit ARGB cells, row-major from
// (0, 0). A zero cell is fully transparent.
type Buffer struct {
	Pix  []uint32
	W, H int
}

// NewBuffer allocates a cleared w x h buffer. Dimensions below 1 are
// raised to 1.
func NewBuffer(w, h int) *Buffer {
	w = max(w, 1)
	h = max(h, 1)
	return &Buffer{
		Pix: make([]uint32, w*h),
		W:   w,
		H:   h,
	}
}

// Cell returns the packed color at (x, y). Out-of-range cells read as
// transparent.
func (b *Buffer) Cell(x, y int) uint32 {
	if x < 0 || x >= b.W || y < 0 || y >= b.H {
		return 0
	}
	return b.Pix[y*b.W+x]
}

// SetCell overwrites the packed color at (x, y). Out-of-range writes
// are dropped.
func (b *Buffer) SetCell(x, y int, argb uint32) {
	if x < 0 || x >= b.W || y < 0 || y >= b.H {
		return
	}
	b.Pix[y*b.W+x] = argb
}

func (b *Buffer) ColorModel() color.Model {
	return color.NRGBAModel
}

func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.W, b.H)
}

func (b *Buffer) At(x, y int) color.Color {
	c := b.Cell(x, y)
	return color.NRGBA{
		R: uint8(c >> 16),
		G: uint8(c >> 8),
		B: uint8(c),
		A: uint8(c >> 24),
	}
}

// Box is the axis-aligned bounding box of a pixel collection's
// positions, in the collection's own coordinate space.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the raster footprint along x. The +1 makes a
// single-point collection one cell wide.
func (b Box) Width() float64 {
	return b.MaxX - b.MinX + 1
}

// Height returns the raster footprint along y.
func (b Box) Height() float64 {
	return b.MaxY - b.MinY + 1
}

// Infer folds the collection into its bounding box. The fold is seeded
// with the zero box, so the result always includes the origin even
// when no pixel lies there; collections offset from the origin come
// out wider than their tight extent. An empty collection yields the
// origin box. InferTight computes the unseeded variant.
func Infer(pixels []pixel.Pixel) Box {
	var b Box
	for _, p := range pixels {
		b.MinX = min(b.MinX, p.X)
		b.MinY = min(b.MinY, p.Y)
		b.MaxX = max(b.MaxX, p.X)
		b.MaxY = max(b.MaxY, p.Y)
	}
	return b
}

// InferTight folds the collection into the minimal box covering its
// positions, without pulling in the origin. An empty collection still
// yields the origin box.
func InferTight(pixels []pixel.Pixel) Box {
	if len(pixels) == 0 {
		return Box{}
	}

	b := Box{
		MinX: math.Inf(1),
		MinY: math.Inf(1),
		MaxX: math.Inf(-1),
		MaxY: math.Inf(-1),
	}
	for _, p := range pixels {
		b.MinX = min(b.MinX, p.X)
		b.MinY = min(b.MinY, p.Y)
		b.MaxX = max(b.MaxX, p.X)
		b.MaxY = max(b.MaxY, p.Y)
	}
	return b
}

// Splat writes one pixel onto the buffer at local coordinates
// (p.X-offX, p.Y-offY). The pixel is blended onto the 2x2 cell
// neighborhood under it, each cell weighted by 1-|dx*dy| to its
// fractional position. Cells outside the buffer are skipped. Each
// write re-reads the cell, so overlapping splats accumulate in call
// order.
func (b *Buffer) Splat(p pixel.Pixel, offX, offY float64) {
	b.splatRows(p, offX, offY, 0, b.H)
}

// splatRows is Splat restricted to cells with rowLo <= j < rowHi.
func (b *Buffer) splatRows(p pixel.Pixel, offX, offY float64, rowLo, rowHi int) {
	x := p.X - offX
	y := p.Y - offY

	i0 := int(math.Floor(x))
	j0 := int(math.Floor(y))

	for i := max(i0, 0); i <= min(i0+1, b.W-1); i++ {
		for j := max(j0, max(rowLo, 0)); j <= min(j0+1, min(rowHi, b.H)-1); j++ {
			bg := pixel.FromARGB(i, j, b.Cell(i, j))
			weight := 1 - math.Abs((x-float64(i))*(y-float64(j)))
			b.SetCell(i, j, bg.Blend(p, weight).ARGB())
		}
	}
}

// Render rasterizes the collection into a cleared buffer sized by the
// box. Work fans out over the pool with each worker owning a band of
// rows: every worker scans the whole collection but only writes cells
// in its own rows, so overlapping splats on any one row always land in
// collection order and no two workers touch the same cell.
func Render(pixels []pixel.Pixel, box Box, pool *parallel.Pool) *Buffer {
	buf := NewBuffer(int(math.Ceil(box.Width())), int(math.Ceil(box.Height())))

	pool.ForEachBand(buf.H, func(band parallel.Band) {
		for _, p := range pixels {
			buf.splatRows(p, box.MinX, box.MinY, band.Lo, band.Hi)
		}
	})

	return buf
}

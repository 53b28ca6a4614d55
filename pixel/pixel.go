// Package pixel models one image pixel as an immutable value with a
// continuous 2-D position and an RGB color. Channel values are
// conventionally in [0, 1] but are not clamped until packed for output,
// so intermediate math is free to leave the range.
package pixel

import "math"

type Pixel struct {
	X, Y    float64
	R, G, B float64
}

// New creates a color pixel at the given coordinates. Non-finite
// coordinates are replaced with 0.
func New(x, y, r, g, b float64) Pixel {
	return Pixel{X: finite(x), Y: finite(y), R: r, G: g, B: b}
}

// Gray creates a grayscale pixel with r = g = b = brightness.
func Gray(x, y, brightness float64) Pixel {
	return New(x, y, brightness, brightness, brightness)
}

// FromARGB creates a pixel at integer cell coordinates from a packed
// 32-bit color word (bits 23-16 red, 15-8 green, 7-0 blue; alpha
// ignored). Channels map to [0, 1].
func FromARGB(x, y int, argb uint32) Pixel {
	return Pixel{
		X: float64(x),
		Y: float64(y),
		R: float64((argb>>16)&0xff) / 255.0,
		G: float64((argb>>8)&0xff) / 255.0,
		B: float64(argb&0xff) / 255.0,
	}
}

// At returns a pixel carrying p's color at new coordinates.
func (p Pixel) At(x, y float64) Pixel {
	return New(x, y, p.R, p.G, p.B)
}

// ARGB packs the pixel's color into a 32-bit word with alpha 0xff.
// Each channel is clamped to [0, 255] here, and only here.
func (p Pixel) ARGB() uint32 {
	return 0xff000000 | clamp255(p.R)<<16 | clamp255(p.G)<<8 | clamp255(p.B)
}

// Gray returns the pixel converted to grayscale using the arithmetic
// mean of the three channels.
func (p Pixel) Gray() Pixel {
	avg := (p.R + p.G + p.B) / 3
	return Pixel{X: p.X, Y: p.Y, R: avg, G: avg, B: avg}
}

// Brighter adds amount to each color channel.
func (p Pixel) Brighter(amount float64) Pixel {
	return p.MapRGB(func(c float64) float64 { return c + amount })
}

// Darker subtracts amount from each color channel.
func (p Pixel) Darker(amount float64) Pixel {
	return p.Brighter(-amount)
}

// MapRGB applies f to each of the three color channels. Position is
// untouched.
func (p Pixel) MapRGB(f func(float64) float64) Pixel {
	return Pixel{X: p.X, Y: p.Y, R: f(p.R), G: f(p.G), B: f(p.B)}
}

// MapXY applies f to each coordinate. Color is untouched.
func (p Pixel) MapXY(f func(float64) float64) Pixel {
	return New(f(p.X), f(p.Y), p.R, p.G, p.B)
}

// Blend alpha-blends the other pixel onto p, with alpha as the other
// pixel's opacity. Alpha is unconstrained, so callers may extrapolate
// outside [0, 1]. The result keeps p's position.
func (p Pixel) Blend(other Pixel, alpha float64) Pixel {
	return Pixel{
		X: p.X,
		Y: p.Y,
		R: other.R*alpha + p.R*(1-alpha),
		G: other.G*alpha + p.G*(1-alpha),
		B: other.B*alpha + p.B*(1-alpha),
	}
}

// Rotated rotates the pixel's position about the origin by the given
// angle in degrees. Rotation is about (0, 0), not the image center.
func (p Pixel) Rotated(angleDeg float64) Pixel {
	angleRad := math.Pi * angleDeg / 180
	sina, cosa := math.Sincos(angleRad)
	return New(p.X*cosa-p.Y*sina, p.X*sina+p.Y*cosa, p.R, p.G, p.B)
}

// AddRGB returns p with the other pixel's channels added to its own.
func (p Pixel) AddRGB(other Pixel) Pixel {
	return Pixel{X: p.X, Y: p.Y, R: p.R + other.R, G: p.G + other.G, B: p.B + other.B}
}

// AverageRGB returns p with each channel averaged with the other
// pixel's.
func (p Pixel) AverageRGB(other Pixel) Pixel {
	return Pixel{X: p.X, Y: p.Y, R: (p.R + other.R) / 2, G: (p.G + other.G) / 2, B: (p.B + other.B) / 2}
}

// Distance returns the euclidean distance from the pixel to the given
// point.
func (p Pixel) Distance(ox, oy float64) float64 {
	return math.Sqrt((p.X-ox)*(p.X-ox) + (p.Y-oy)*(p.Y-oy))
}

func clamp255(c float64) uint32 {
	return uint32(max(0, min(255, int(c*255))))
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

package pixel

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestBlendBoundaries(t *testing.T) {
	p := New(1, 2, 0.2, 0.4, 0.6)
	q := New(7, 8, 0.9, 0.1, 0.3)

	got := p.Blend(q, 0)
	if got.R != p.R || got.G != p.G || got.B != p.B {
		t.Errorf("Blend(q, 0) = %+v, want p's color %+v", got, p)
	}

	got = p.Blend(q, 1)
	if got.R != q.R || got.G != q.G || got.B != q.B {
		t.Errorf("Blend(q, 1) = %+v, want q's color %+v", got, q)
	}

	if got.X != p.X || got.Y != p.Y {
		t.Errorf("Blend moved position to (%g, %g), want (%g, %g)", got.X, got.Y, p.X, p.Y)
	}
}

func TestBlendMidpoint(t *testing.T) {
	p := Gray(0, 0, 0)
	q := Gray(5, 5, 1)

	got := p.Blend(q, 0.5)
	if !almostEqual(got.R, 0.5) || !almostEqual(got.G, 0.5) || !almostEqual(got.B, 0.5) {
		t.Errorf("Blend(white, 0.5) over black = %+v, want mid-gray", got)
	}
}

func TestMapIdentity(t *testing.T) {
	id := func(v float64) float64 { return v }
	p := New(1.5, -2.5, 0.1, 0.2, 0.3)

	if got := p.MapRGB(id); got != p {
		t.Errorf("MapRGB(id) = %+v, want %+v", got, p)
	}
	if got := p.MapXY(id); got != p {
		t.Errorf("MapXY(id) = %+v, want %+v", got, p)
	}
}

func TestBrighterDarkerInverse(t *testing.T) {
	// Dyadic values keep the addition exact.
	p := New(0, 0, 0.5, 0.25, 0.75)
	for _, amount := range []float64{0.25, 0.5, 1.5} {
		if got := p.Brighter(amount).Darker(amount); got != p {
			t.Errorf("Brighter(%g).Darker(%g) = %+v, want %+v", amount, amount, got, p)
		}
	}
}

func TestBrighterNoClamp(t *testing.T) {
	p := Gray(0, 0, 0.9)
	got := p.Brighter(0.5)
	if got.R != 1.4 {
		t.Errorf("Brighter left R = %g, want 1.4 (no clamping before encode)", got.R)
	}
}

func TestRotated(t *testing.T) {
	p := New(3, 4, 0.1, 0.2, 0.3)

	if got := p.Rotated(0); got.X != p.X || got.Y != p.Y {
		t.Errorf("Rotated(0) moved (%g, %g) to (%g, %g)", p.X, p.Y, got.X, got.Y)
	}

	if got := p.Rotated(360); !almostEqual(got.X, p.X) || !almostEqual(got.Y, p.Y) {
		t.Errorf("Rotated(360) = (%g, %g), want (%g, %g)", got.X, got.Y, p.X, p.Y)
	}

	for _, angle := range []float64{30, 45, 123.4, -77} {
		got := p.Rotated(angle).Rotated(-angle)
		if !almostEqual(got.X, p.X) || !almostEqual(got.Y, p.Y) {
			t.Errorf("Rotated(%g) then Rotated(%g) = (%g, %g), want (%g, %g)",
				angle, -angle, got.X, got.Y, p.X, p.Y)
		}
	}

	got := New(1, 0, 0, 0, 0).Rotated(90)
	if !almostEqual(got.X, 0) || !almostEqual(got.Y, 1) {
		t.Errorf("Rotated(90) of (1, 0) = (%g, %g), want (0, 1)", got.X, got.Y)
	}

	if got := p.Rotated(90); got.R != p.R || got.G != p.G || got.B != p.B {
		t.Errorf("Rotated changed color: %+v", got)
	}
}

func TestDistance(t *testing.T) {
	p := New(3, 4, 0, 0, 0)

	if got := p.Distance(3, 4); got != 0 {
		t.Errorf("Distance to own position = %g, want 0", got)
	}
	if got := p.Distance(0, 0); got != 5 {
		t.Errorf("Distance((3,4), origin) = %g, want 5", got)
	}

	q := New(-1, 7, 0, 0, 0)
	if d1, d2 := p.Distance(q.X, q.Y), q.Distance(p.X, p.Y); d1 != d2 {
		t.Errorf("Distance not symmetric: %g != %g", d1, d2)
	}
}

func TestGray(t *testing.T) {
	p := New(1, 1, 0.3, 0.6, 0.9)
	got := p.Gray()
	want := (0.3 + 0.6 + 0.9) / 3
	if got.R != want || got.G != want || got.B != want {
		t.Errorf("Gray() = %+v, want all channels %g", got, want)
	}
	if got.X != p.X || got.Y != p.Y {
		t.Errorf("Gray moved position to (%g, %g)", got.X, got.Y)
	}
}

func TestAddAverageRGB(t *testing.T) {
	p := New(1, 2, 0.25, 0.5, 0.75)
	q := New(9, 9, 0.75, 0.5, 0.25)

	sum := p.AddRGB(q)
	if sum.R != 1 || sum.G != 1 || sum.B != 1 {
		t.Errorf("AddRGB = %+v, want all channels 1", sum)
	}
	if sum.X != p.X || sum.Y != p.Y {
		t.Errorf("AddRGB position = (%g, %g), want p's", sum.X, sum.Y)
	}

	avg := p.AverageRGB(q)
	if avg.R != 0.5 || avg.G != 0.5 || avg.B != 0.5 {
		t.Errorf("AverageRGB = %+v, want all channels 0.5", avg)
	}
}

func TestARGBPack(t *testing.T) {
	tests := []struct {
		name string
		p    Pixel
		want uint32
	}{
		{"white", Gray(0, 0, 1), 0xffffffff},
		{"black", Gray(0, 0, 0), 0xff000000},
		{"clamps high", Gray(0, 0, 2.5), 0xffffffff},
		{"clamps low", Gray(0, 0, -1), 0xff000000},
		{"red only", New(0, 0, 1, 0, 0), 0xffff0000},
		{"blue only", New(0, 0, 0, 0, 1), 0xff0000ff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.ARGB(); got != tt.want {
				t.Errorf("ARGB() = %#08x, want %#08x", got, tt.want)
			}
		})
	}
}

func TestFromARGB(t *testing.T) {
	p := FromARGB(3, 4, 0xff336699)
	if p.X != 3 || p.Y != 4 {
		t.Errorf("FromARGB position = (%g, %g), want (3, 4)", p.X, p.Y)
	}
	if p.R != 0x33/255.0 || p.G != 0x66/255.0 || p.B != 0x99/255.0 {
		t.Errorf("FromARGB channels = (%g, %g, %g)", p.R, p.G, p.B)
	}
}

func TestNonFiniteCoordinates(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		p := New(v, v, 0.5, 0.5, 0.5)
		if p.X != 0 || p.Y != 0 {
			t.Errorf("New with coordinate %g = (%g, %g), want (0, 0)", v, p.X, p.Y)
		}
	}
}

func TestAt(t *testing.T) {
	p := New(1, 2, 0.1, 0.2, 0.3)
	got := p.At(10, 20)
	if got.X != 10 || got.Y != 20 {
		t.Errorf("At position = (%g, %g), want (10, 20)", got.X, got.Y)
	}
	if got.R != p.R || got.G != p.G || got.B != p.B {
		t.Errorf("At changed color: %+v", got)
	}
}

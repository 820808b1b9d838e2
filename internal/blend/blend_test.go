package blend

import (
	"testing"

	"github.com/gogpu/ggsvg/scene"
)

type px [4]byte

func apply(fn Func, s, d px) px {
	r, g, b, a := fn(s[0], s[1], s[2], s[3], d[0], d[1], d[2], d[3])
	return px{r, g, b, a}
}

func near(a, b px, tol int) bool {
	for i := range a {
		d := int(a[i]) - int(b[i])
		if d > tol || d < -tol {
			return false
		}
	}
	return true
}

func TestPorterDuff(t *testing.T) {
	red := px{255, 0, 0, 255}
	halfRed := px{128, 0, 0, 128}
	blue := px{0, 0, 255, 255}
	halfBlue := px{0, 0, 128, 128}

	tests := []struct {
		name string
		mode Mode
		s, d px
		want px
	}{
		{"clear", Clear, red, blue, px{}},
		{"source", Source, halfRed, blue, halfRed},
		{"destination", Destination, red, halfBlue, halfBlue},
		{"source-over opaque", SourceOver, red, blue, red},
		{"source-over transparent", SourceOver, px{}, blue, blue},
		{"source-over half", SourceOver, halfRed, blue, px{128, 0, 127, 255}},
		{"destination-over", DestinationOver, red, halfBlue, px{127, 0, 128, 255}},
		{"source-in", SourceIn, red, halfBlue, px{128, 0, 0, 128}},
		{"destination-in", DestinationIn, px{0, 0, 0, 128}, px{200, 100, 50, 255}, px{100, 50, 25, 128}},
		{"source-out", SourceOut, red, halfBlue, px{127, 0, 0, 127}},
		{"destination-out", DestinationOut, red, blue, px{}},
		{"source-atop", SourceAtop, red, halfBlue, px{128, 0, 0, 128}},
		{"destination-atop", DestinationAtop, halfBlue, red, px{128, 0, 0, 128}},
		{"xor opaque", Xor, red, blue, px{}},
		{"xor half", Xor, halfRed, halfBlue, px{64, 0, 64, 128}},
		{"plus clamps", Plus, px{200, 0, 0, 200}, px{100, 0, 10, 100}, px{255, 0, 10, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := apply(FuncFor(tt.mode), tt.s, tt.d)
			if !near(got, tt.want, 1) {
				t.Errorf("%v: got %v, want %v", tt.mode, got, tt.want)
			}
		})
	}
}

func TestSeparable(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
		s, d px
		want px
	}{
		{"multiply", Multiply, px{255, 128, 0, 255}, px{128, 128, 128, 255}, px{128, 64, 0, 255}},
		{"screen", Screen, px{255, 0, 0, 255}, px{0, 0, 255, 255}, px{255, 0, 255, 255}},
		{"darken", Darken, px{200, 50, 100, 255}, px{100, 150, 100, 255}, px{100, 50, 100, 255}},
		{"lighten", Lighten, px{200, 50, 100, 255}, px{100, 150, 100, 255}, px{200, 150, 100, 255}},
		{"difference", Difference, px{255, 255, 255, 255}, px{100, 50, 0, 255}, px{155, 205, 255, 255}},
		{"exclusion", Exclusion, px{255, 255, 255, 255}, px{100, 50, 0, 255}, px{155, 205, 255, 255}},
		{"overlay black backdrop", Overlay, px{200, 200, 200, 255}, px{0, 0, 0, 255}, px{0, 0, 0, 255}},
		{"hard-light white", HardLight, px{255, 255, 255, 255}, px{100, 50, 0, 255}, px{255, 255, 255, 255}},
		{"color-dodge black source", ColorDodge, px{0, 0, 0, 255}, px{100, 50, 0, 255}, px{100, 50, 0, 255}},
		{"color-burn white source", ColorBurn, px{255, 255, 255, 255}, px{100, 50, 0, 255}, px{100, 50, 0, 255}},
		{"soft-light mid source", SoftLight, px{128, 128, 128, 255}, px{100, 50, 0, 255}, px{100, 50, 0, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := apply(FuncFor(tt.mode), tt.s, tt.d)
			if !near(got, tt.want, 1) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNonSeparable(t *testing.T) {
	white := px{255, 255, 255, 255}
	red := px{255, 0, 0, 255}
	grey := px{128, 128, 128, 255}

	tests := []struct {
		name string
		mode Mode
		s, d px
		want px
	}{
		{"luminosity", Luminosity, white, red, white},
		{"color", Color, red, grey, px{255, 74, 74, 255}},
		{"hue of grey", Hue, grey, red, px{77, 77, 77, 255}},
		{"saturation of grey", Saturation, grey, red, px{77, 77, 77, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := apply(FuncFor(tt.mode), tt.s, tt.d)
			if !near(got, tt.want, 1) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBlendModesKeepAlpha(t *testing.T) {
	s := px{100, 50, 0, 128}
	d := px{0, 60, 120, 192}
	for m := Multiply; m <= Luminosity; m++ {
		got := apply(FuncFor(m), s, d)
		// as + ab*(1-as) = 0.502 + 0.753*0.498 = 0.877
		if !near(got, px{got[0], got[1], got[2], 224}, 1) {
			t.Errorf("%v: alpha %d", m, got[3])
		}
		for c := range 3 {
			if got[c] > got[3] {
				t.Errorf("%v: channel %d = %d exceeds alpha %d", m, c, got[c], got[3])
			}
		}
		if got := apply(FuncFor(m), px{}, d); got != d {
			t.Errorf("%v: a transparent source must keep the backdrop, got %v", m, got)
		}
		if got := apply(FuncFor(m), s, px{}); got != s {
			t.Errorf("%v: a transparent backdrop must keep the source, got %v", m, got)
		}
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name           string
		k1, k2, k3, k4 float64
		s, d, want     px
	}{
		{"sum", 0, 1, 1, 0, px{100, 0, 0, 100}, px{0, 0, 100, 100}, px{100, 0, 100, 200}},
		{"zero", 0, 0, 0, 0, px{100, 0, 0, 100}, px{0, 0, 100, 100}, px{}},
		{"constant", 0, 0, 0, 1, px{}, px{}, px{255, 255, 255, 255}},
		{"product", 1, 0, 0, 0, px{255, 255, 255, 255}, px{0, 128, 255, 255}, px{0, 128, 255, 255}},
		{"clamped to alpha", 0, 1, 0, 0.5, px{0, 0, 0, 0}, px{}, px{128, 128, 128, 128}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := apply(Arithmetic(tt.k1, tt.k2, tt.k3, tt.k4), tt.s, tt.d)
			if !near(got, tt.want, 1) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestModeMapping(t *testing.T) {
	if FromBlendMode(scene.BlendNormal) != SourceOver {
		t.Error("normal must map to source-over")
	}
	for m := scene.BlendMultiply; m <= scene.BlendLuminosity; m++ {
		if got := FromBlendMode(m).String(); got != m.String() {
			t.Errorf("FromBlendMode(%v) = %v", m, got)
		}
	}

	ops := map[scene.CompositeOperator]Mode{
		scene.CompositeOver: SourceOver,
		scene.CompositeIn:   SourceIn,
		scene.CompositeOut:  SourceOut,
		scene.CompositeAtop: SourceAtop,
		scene.CompositeXor:  Xor,
	}
	for op, want := range ops {
		got, ok := FromComposite(op)
		if !ok || got != want {
			t.Errorf("FromComposite(%v) = %v, %v", op, got, ok)
		}
	}
	if _, ok := FromComposite(scene.CompositeArithmetic); ok {
		t.Error("arithmetic has no mode")
	}
	if FuncFor(Mode(200)) == nil {
		t.Error("unknown modes must fall back to a function")
	}
}

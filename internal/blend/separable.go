package blend

import "math"

// separable lifts a per-channel blend function B(Cs, Cb) on demultiplied
// values to a pixel function using the W3C compositing formula
//
//	co = cs*(1-ab) + cb*(1-as) + as*ab*B(Cs, Cb)
//	ao = as + ab*(1-as)
func separable(fn func(s, d float32) float32) Func {
	return func(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
		if sa == 0 {
			return dr, dg, db, da
		}
		if da == 0 {
			return sr, sg, sb, sa
		}
		as, ab := float32(sa)/255, float32(da)/255
		mix := func(s, d byte) byte {
			cs, cb := float32(s)/255, float32(d)/255
			return toByte(cs*(1-ab) + cb*(1-as) + as*ab*fn(cs/as, cb/ab))
		}
		return mix(sr, dr), mix(sg, dg), mix(sb, db), toByte(as + ab*(1-as))
	}
}

func multiply(s, d float32) float32 { return s * d }

func screen(s, d float32) float32 { return s + d - s*d }

func overlay(s, d float32) float32 { return hardLight(d, s) }

func darken(s, d float32) float32 { return min(s, d) }

func lighten(s, d float32) float32 { return max(s, d) }

func colorDodge(s, d float32) float32 {
	switch {
	case d <= 0:
		return 0
	case s >= 1:
		return 1
	}
	return min(1, d/(1-s))
}

func colorBurn(s, d float32) float32 {
	switch {
	case d >= 1:
		return 1
	case s <= 0:
		return 0
	}
	return 1 - min(1, (1-d)/s)
}

func hardLight(s, d float32) float32 {
	if s <= 0.5 {
		return multiply(2*s, d)
	}
	return screen(2*s-1, d)
}

func softLight(s, d float32) float32 {
	if s <= 0.5 {
		return d - (1-2*s)*d*(1-d)
	}
	var dd float32
	if d <= 0.25 {
		dd = ((16*d-12)*d + 4) * d
	} else {
		dd = float32(math.Sqrt(float64(d)))
	}
	return d + (2*s-1)*(dd-d)
}

func difference(s, d float32) float32 {
	if s > d {
		return s - d
	}
	return d - s
}

func exclusion(s, d float32) float32 { return s + d - 2*s*d }

package blend

// Non-separable blend modes operate on the whole RGB triplet. The helpers
// follow section 8 of W3C Compositing and Blending Level 1.

type rgb struct{ r, g, b float32 }

func lum(c rgb) float32 {
	return 0.3*c.r + 0.59*c.g + 0.11*c.b
}

func sat(c rgb) float32 {
	return max(c.r, c.g, c.b) - min(c.r, c.g, c.b)
}

// clipColor pulls out of range components back to [0, 1] towards the
// luminance.
func clipColor(c rgb) rgb {
	l := lum(c)
	n := min(c.r, c.g, c.b)
	x := max(c.r, c.g, c.b)
	if n < 0 {
		c = rgb{
			l + (c.r-l)*l/(l-n),
			l + (c.g-l)*l/(l-n),
			l + (c.b-l)*l/(l-n),
		}
	}
	if x > 1 {
		c = rgb{
			l + (c.r-l)*(1-l)/(x-l),
			l + (c.g-l)*(1-l)/(x-l),
			l + (c.b-l)*(1-l)/(x-l),
		}
	}
	return c
}

func setLum(c rgb, l float32) rgb {
	d := l - lum(c)
	return clipColor(rgb{c.r + d, c.g + d, c.b + d})
}

func setSat(c rgb, s float32) rgb {
	lo, mid, hi := sortChannels(&c)
	if *hi > *lo {
		*mid = (*mid - *lo) * s / (*hi - *lo)
		*hi = s
	} else {
		*mid, *hi = 0, 0
	}
	*lo = 0
	return c
}

// sortChannels returns pointers to the smallest, middle and largest
// component of c.
func sortChannels(c *rgb) (lo, mid, hi *float32) {
	lo, mid, hi = &c.r, &c.g, &c.b
	if *lo > *mid {
		lo, mid = mid, lo
	}
	if *mid > *hi {
		mid, hi = hi, mid
	}
	if *lo > *mid {
		lo, mid = mid, lo
	}
	return lo, mid, hi
}

func hslHue(s, d rgb) rgb { return setLum(setSat(s, sat(d)), lum(d)) }

func hslSaturation(s, d rgb) rgb { return setLum(setSat(d, sat(s)), lum(d)) }

func hslColor(s, d rgb) rgb { return setLum(s, lum(d)) }

func hslLuminosity(s, d rgb) rgb { return setLum(d, lum(s)) }

// nonSeparable lifts B(Cs, Cb) on demultiplied triplets to a pixel
// function with the same compositing formula as the separable modes.
func nonSeparable(fn func(s, d rgb) rgb) Func {
	return func(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
		if sa == 0 {
			return dr, dg, db, da
		}
		if da == 0 {
			return sr, sg, sb, sa
		}
		as, ab := float32(sa)/255, float32(da)/255
		s := rgb{float32(sr) / 255, float32(sg) / 255, float32(sb) / 255}
		d := rgb{float32(dr) / 255, float32(dg) / 255, float32(db) / 255}
		b := fn(
			rgb{s.r / as, s.g / as, s.b / as},
			rgb{d.r / ab, d.g / ab, d.b / ab},
		)
		mix := func(cs, cb, bc float32) byte {
			return toByte(cs*(1-ab) + cb*(1-as) + as*ab*bc)
		}
		return mix(s.r, d.r, b.r), mix(s.g, d.g, b.g), mix(s.b, d.b, b.b), toByte(as + ab*(1-as))
	}
}

package geom

import "math"

// appendArc converts the SVG endpoint arc from (x0, y0) to (x, y) into
// cubic curves of at most a quarter turn each.
func appendArc(p *PathData, x0, y0, rx, ry, angle float64, largeArc, sweep bool, x, y float64) {
	if x0 == x && y0 == y {
		return
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if FuzzyZero(rx) || FuzzyZero(ry) {
		p.LineTo(x, y)
		return
	}

	sinPhi, cosPhi := math.Sincos(angle * math.Pi / 180)

	// Step 1: compute (x1', y1').
	dx2 := (x0 - x) / 2
	dy2 := (y0 - y) / 2
	x1p := cosPhi*dx2 + sinPhi*dy2
	y1p := -sinPhi*dx2 + cosPhi*dy2

	// Correct out-of-range radii.
	lambda := (x1p*x1p)/(rx*rx) + (y1p*y1p)/(ry*ry)
	if lambda > 1 {
		s := math.Sqrt(lambda)
		rx *= s
		ry *= s
	}

	// Step 2: compute (cx', cy').
	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	coef := 0.0
	if den != 0 && num > 0 {
		coef = math.Sqrt(num / den)
	}
	if largeArc == sweep {
		coef = -coef
	}
	cxp := coef * (rx * y1p / ry)
	cyp := coef * -(ry * x1p / rx)

	// Step 3: compute (cx, cy).
	cx := cosPhi*cxp - sinPhi*cyp + (x0+x)/2
	cy := sinPhi*cxp + cosPhi*cyp + (y0+y)/2

	// Step 4: compute the start angle and the sweep.
	theta1 := vectorAngle(1, 0, (x1p-cxp)/rx, (y1p-cyp)/ry)
	delta := vectorAngle((x1p-cxp)/rx, (y1p-cyp)/ry, (-x1p-cxp)/rx, (-y1p-cyp)/ry)
	if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	n := int(math.Ceil(math.Abs(delta) / (math.Pi / 2)))
	if n < 1 {
		n = 1
	}
	step := delta / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4)

	point := func(t float64) (float64, float64) {
		sin, cos := math.Sincos(t)
		return cx + rx*cos*cosPhi - ry*sin*sinPhi, cy + rx*cos*sinPhi + ry*sin*cosPhi
	}
	deriv := func(t float64) (float64, float64) {
		sin, cos := math.Sincos(t)
		return -rx*sin*cosPhi - ry*cos*sinPhi, -rx*sin*sinPhi + ry*cos*cosPhi
	}

	t := theta1
	px, py := x0, y0
	for i := 0; i < n; i++ {
		t2 := t + step
		ex, ey := point(t2)
		if i == n-1 {
			ex, ey = x, y
		}
		d1x, d1y := deriv(t)
		d2x, d2y := deriv(t2)
		p.CurveTo(px+k*d1x, py+k*d1y, ex-k*d2x, ey-k*d2y, ex, ey)
		px, py = ex, ey
		t = t2
	}
}

func vectorAngle(ux, uy, vx, vy float64) float64 {
	return math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
}

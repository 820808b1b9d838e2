package blend

// Arithmetic returns the feComposite arithmetic operator
//
//	result = k1*i1*i2 + k2*i1 + k3*i2 + k4
//
// evaluated on premultiplied channels, where i1 is the source and i2 the
// destination. Alpha is clamped to [0, 1] and color channels to the new
// alpha so the result stays premultiplied.
func Arithmetic(k1, k2, k3, k4 float64) Func {
	calc := func(i1, i2 byte, limit float64) float64 {
		a, b := float64(i1)/255, float64(i2)/255
		v := k1*a*b + k2*a + k3*b + k4
		return min(max(v, 0), limit)
	}
	return func(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
		a := calc(sa, da, 1)
		if a <= 1.0/512 {
			return 0, 0, 0, 0
		}
		return toByte(float32(calc(sr, dr, a))),
			toByte(float32(calc(sg, dg, a))),
			toByte(float32(calc(sb, db, a))),
			toByte(float32(a))
	}
}

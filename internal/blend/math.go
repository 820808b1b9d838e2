package blend

// div255 divides x by 255 with rounding, exactly for every product of two
// bytes.
func div255(x uint32) uint32 {
	x += 128
	return (x + x>>8) >> 8
}

// mulDiv255 returns a*b/255 rounded.
func mulDiv255(a, b byte) byte {
	return byte(div255(uint32(a) * uint32(b)))
}

// addClamp adds two bytes and clamps to 255.
func addClamp(a, b byte) byte {
	sum := uint16(a) + uint16(b)
	if sum > 255 {
		return 255
	}
	return byte(sum)
}

// toByte converts v in [0, 1] to a byte with rounding and clamping.
func toByte(v float32) byte {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return byte(v*255 + 0.5)
}

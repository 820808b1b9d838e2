package blend

func clearAll(_, _, _, _, _, _, _, _ byte) (byte, byte, byte, byte) {
	return 0, 0, 0, 0
}

func source(sr, sg, sb, sa, _, _, _, _ byte) (byte, byte, byte, byte) {
	return sr, sg, sb, sa
}

func destination(_, _, _, _, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return dr, dg, db, da
}

func sourceOver(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	switch sa {
	case 255:
		return sr, sg, sb, sa
	case 0:
		return dr, dg, db, da
	}
	inv := 255 - sa
	return addClamp(sr, mulDiv255(dr, inv)),
		addClamp(sg, mulDiv255(dg, inv)),
		addClamp(sb, mulDiv255(db, inv)),
		addClamp(sa, mulDiv255(da, inv))
}

func destinationOver(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return sourceOver(dr, dg, db, da, sr, sg, sb, sa)
}

func sourceIn(sr, sg, sb, sa, _, _, _, da byte) (byte, byte, byte, byte) {
	return mulDiv255(sr, da), mulDiv255(sg, da), mulDiv255(sb, da), mulDiv255(sa, da)
}

func destinationIn(_, _, _, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return mulDiv255(dr, sa), mulDiv255(dg, sa), mulDiv255(db, sa), mulDiv255(da, sa)
}

func sourceOut(sr, sg, sb, sa, _, _, _, da byte) (byte, byte, byte, byte) {
	inv := 255 - da
	return mulDiv255(sr, inv), mulDiv255(sg, inv), mulDiv255(sb, inv), mulDiv255(sa, inv)
}

func destinationOut(_, _, _, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	inv := 255 - sa
	return mulDiv255(dr, inv), mulDiv255(dg, inv), mulDiv255(db, inv), mulDiv255(da, inv)
}

// sourceAtop keeps the destination alpha.
func sourceAtop(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	inv := 255 - sa
	return byte(div255(uint32(sr)*uint32(da) + uint32(dr)*uint32(inv))),
		byte(div255(uint32(sg)*uint32(da) + uint32(dg)*uint32(inv))),
		byte(div255(uint32(sb)*uint32(da) + uint32(db)*uint32(inv))),
		da
}

func destinationAtop(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return sourceAtop(dr, dg, db, da, sr, sg, sb, sa)
}

func xor(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invS, invD := uint32(255-sa), uint32(255-da)
	mix := func(s, d byte) byte {
		return byte(div255(uint32(s)*invD + uint32(d)*invS))
	}
	return mix(sr, dr), mix(sg, dg), mix(sb, db), mix(sa, da)
}

func plus(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return addClamp(sr, dr), addClamp(sg, dg), addClamp(sb, db), addClamp(sa, da)
}

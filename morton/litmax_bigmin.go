package morton

import (
	"zindex/errutil"
	"zindex/geom"
)

// LitMaxBigMin splits the Z-order range [mmin, mmax] at its largest gap of
// keys falling outside the AABB spanned by the two input points. Taking the
// points as parameters lets callers reuse cached positions instead of
// decoding the keys again.
//
// Contracts on input: mmin < mmax, pmin decodes mmin, pmax decodes mmax.
// Violations are a panic under DEBUG=1 and undefined behaviour otherwise.
//
// Contracts on output: mmin <= litmax < bigmin <= mmax; every key in
// [mmin, mmax] whose point lies inside the AABB is in [mmin, litmax] or
// [bigmin, mmax].
func LitMaxBigMin(mmin Key, pmin geom.Point, mmax Key, pmax geom.Point) (litmax, bigmin Key) {
	errutil.BugOn(mmin >= mmax, "litmax/bigmin: %v >= %v", mmin, mmax)
	errutil.BugOn(Encode(pmin.X, pmin.Y) != mmin, "litmax/bigmin: %v does not decode %v", pmin, mmin)
	errutil.BugOn(Encode(pmax.X, pmax.Y) != mmax, "litmax/bigmin: %v does not decode %v", pmax, mmax)

	x1, y1 := uint32(pmin.X), uint32(pmin.Y)
	x2, y2 := uint32(pmax.X), uint32(pmax.Y)

	// split along the axis owning the most significant differing bit;
	// even bits belong to the x axis
	diffMSB := MSB(uint32(mmin) ^ uint32(mmax))
	if diffMSB&1 == 0 {
		xLit, xBig := axisSplit(x1, x2, diffMSB/2)
		litmax = EncodeU32(xLit, y2)
		bigmin = EncodeU32(xBig, y1)
	} else {
		m1, yBig := axisSplit(y1, y2, diffMSB/2)
		// keep the bits of y1 below the split on the small side
		yLit := m1 | y1
		errutil.BugOn(yLit >= yBig, "litmax/bigmin: %d >= %d", yLit, yBig)
		litmax = EncodeU32(x2, yLit)
		bigmin = EncodeU32(x1, yBig)
	}

	errutil.BugOn(litmax >= bigmin, "litmax/bigmin: %v >= %v", litmax, bigmin)
	errutil.BugOn(mmin > litmax, "litmax/bigmin: %v > %v", mmin, litmax)
	errutil.BugOn(bigmin > mmax, "litmax/bigmin: %v > %v", bigmin, mmax)
	return litmax, bigmin
}

// axisSplit splits one axis at bit diffMSB: the small side gets the common
// prefix with an all-ones suffix, the big side the common prefix with the
// split bit set and zeros below.
func axisSplit(a, b, diffMSB uint32) (litmax, bigmin uint32) {
	errutil.BugOn(a >= b, "axis split: %d >= %d", a, b)

	prefix2 := uint32(1) << diffMSB
	prefix1 := prefix2 - 1

	// the common most significant bits
	mask := ^(^prefix2 & prefix1)
	z := (a & b) & mask

	litmax = z | prefix1
	bigmin = z | prefix2

	errutil.BugOn(litmax >= bigmin, "axis split: %d >= %d", litmax, bigmin)
	errutil.BugOn(a > litmax, "axis split: %d > %d", a, litmax)
	errutil.BugOn(bigmin > b, "axis split: %d > %d", bigmin, b)
	return litmax, bigmin
}

package bytetrack

// Box is an axis-aligned box in (x1, y1, x2, y2) image-pixel form.
type Box [4]float64

// area returns the box area, which is permitted to be zero or negative for
// degenerate input; callers treat a non-positive area as contributing zero
// intersection.
func (b Box) area() float64 {
	w := b[2] - b[0]
	h := b[3] - b[1]
	return w * h
}

// IoU computes the Intersection-over-Union matrix between two batches of
// boxes in (x1, y1, x2, y2) form. Entry (i, j) is the IoU of a[i] and b[j].
// Either batch being empty yields an empty matrix of the correct shape; no
// error is returned for degenerate (zero or negative area) boxes, which
// simply contribute an IoU of 0 against every other box.
func IoU(a, b []Box) [][]float64 {
	m := make([][]float64, len(a))

	if len(a) == 0 || len(b) == 0 {
		for i := range m {
			m[i] = make([]float64, len(b))
		}
		return m
	}

	for i, ba := range a {
		row := make([]float64, len(b))

		areaA := ba.area()

		for j, bb := range b {
			row[j] = boxIoU(ba, bb, areaA, bb.area())
		}

		m[i] = row
	}

	return m
}

// boxIoU computes the IoU of two boxes given their precomputed areas.
func boxIoU(a, b Box, areaA, areaB float64) float64 {
	ix1 := max64(a[0], b[0])
	iy1 := max64(a[1], b[1])
	ix2 := min64(a[2], b[2])
	iy2 := min64(a[3], b[3])

	iw := max64(0, ix2-ix1)
	ih := max64(0, iy2-iy1)
	inter := iw * ih

	denom := areaA + areaB - inter
	if denom <= 0 {
		return 0
	}

	return inter / denom
}

// IoUDistance converts an IoU matrix into a cost matrix, cost = 1 - IoU, so
// that high overlap corresponds to low cost for the assignment kernel.
func IoUDistance(a, b []Box) [][]float64 {
	ious := IoU(a, b)
	cost := make([][]float64, len(ious))

	for i, row := range ious {
		c := make([]float64, len(row))
		for j, v := range row {
			c[j] = 1 - v
		}
		cost[i] = c
	}

	return cost
}

func max64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

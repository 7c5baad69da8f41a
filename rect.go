package bytetrack

// Tlwh is a box in (x, y, width, height) form.
type Tlwh [4]float64

// Tlbr is a box in (x1, y1, x2, y2) form.
type Tlbr [4]float64

// Xyah is a box in (center-x, center-y, aspect-ratio, height) form, the
// representation the Kalman filter's state mean carries internally.
type Xyah [4]float64

// TlwhToTlbr converts a top-left/width-height box to top-left/bottom-right
// form. Pure function; TlbrToTlwh is its inverse.
func TlwhToTlbr(t Tlwh) Tlbr {
	return Tlbr{t[0], t[1], t[0] + t[2], t[1] + t[3]}
}

// TlbrToTlwh converts a top-left/bottom-right box to top-left/width-height
// form. Pure function; TlwhToTlbr is its inverse.
func TlbrToTlwh(t Tlbr) Tlwh {
	return Tlwh{t[0], t[1], t[2] - t[0], t[3] - t[1]}
}

// TlwhToXyah converts a top-left/width-height box to center/aspect-ratio/
// height form. Aspect ratio is width/height.
func TlwhToXyah(t Tlwh) Xyah {
	return Xyah{
		t[0] + t[2]/2,
		t[1] + t[3]/2,
		t[2] / t[3],
		t[3],
	}
}

// XyahToTlwh converts a center/aspect-ratio/height box back to top-left/
// width-height form.
func XyahToTlwh(x Xyah) Tlwh {
	w := x[2] * x[3]
	return Tlwh{x[0] - w/2, x[1] - x[3]/2, w, x[3]}
}

// Box converts a Tlbr to the plain geometry.go Box used by the IoU kernel.
func (t Tlbr) Box() Box {
	return Box{t[0], t[1], t[2], t[3]}
}

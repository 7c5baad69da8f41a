package bytetrack

import "testing"

func TestIoUIdenticalBoxes(t *testing.T) {
	a := []Box{{0, 0, 10, 10}}
	b := []Box{{0, 0, 10, 10}}

	got := IoU(a, b)
	if len(got) != 1 || len(got[0]) != 1 {
		t.Fatalf("expected 1x1 matrix, got %v", got)
	}
	if diff := got[0][0] - 1.0; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected IoU 1.0 for identical boxes, got %v", got[0][0])
	}
}

func TestIoUDisjointBoxes(t *testing.T) {
	a := []Box{{0, 0, 10, 10}}
	b := []Box{{20, 20, 30, 30}}

	got := IoU(a, b)
	if got[0][0] != 0 {
		t.Errorf("expected IoU 0 for disjoint boxes, got %v", got[0][0])
	}
}

func TestIoUHalfOverlap(t *testing.T) {
	a := []Box{{0, 0, 10, 10}}
	b := []Box{{5, 0, 15, 10}}

	// intersection = 5x10 = 50, union = 100+100-50 = 150
	want := 50.0 / 150.0

	got := IoU(a, b)
	if diff := got[0][0] - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected IoU %v, got %v", want, got[0][0])
	}
}

func TestIoUEmptyInputs(t *testing.T) {
	if got := IoU(nil, []Box{{0, 0, 1, 1}}); len(got) != 0 {
		t.Errorf("expected empty result for empty a, got %v", got)
	}

	got := IoU([]Box{{0, 0, 1, 1}}, nil)
	if len(got) != 1 || len(got[0]) != 0 {
		t.Errorf("expected 1x0 result for empty b, got %v", got)
	}
}

func TestIoUDistanceIsOneMinusIoU(t *testing.T) {
	a := []Box{{0, 0, 10, 10}}
	b := []Box{{0, 0, 10, 10}, {20, 20, 30, 30}}

	dist := IoUDistance(a, b)
	if diff := dist[0][0] - 0; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected distance 0 for identical boxes, got %v", dist[0][0])
	}
	if diff := dist[0][1] - 1; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected distance 1 for disjoint boxes, got %v", dist[0][1])
	}
}

func TestIoUDegenerateBoxArea(t *testing.T) {
	a := []Box{{0, 0, 0, 10}} // zero width
	b := []Box{{0, 0, 10, 10}}

	got := IoU(a, b)
	if got[0][0] != 0 {
		t.Errorf("expected IoU 0 for degenerate box, got %v", got[0][0])
	}
}

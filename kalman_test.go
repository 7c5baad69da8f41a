package bytetrack

import (
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func denseEqual(t *testing.T, name string, got, want *mat.Dense, tol float64) {
	t.Helper()

	gr, gc := got.Dims()
	wr, wc := want.Dims()
	if gr != wr || gc != wc {
		t.Fatalf("%s: dimension mismatch, got %dx%d want %dx%d", name, gr, gc, wr, wc)
	}

	for i := 0; i < gr; i++ {
		for j := 0; j < gc; j++ {
			if diff := got.At(i, j) - want.At(i, j); diff > tol || diff < -tol {
				t.Errorf("%s[%d][%d]: expected %v, got %v", name, i, j, want.At(i, j), got.At(i, j))
			}
		}
	}
}

// TestKalmanFilterLifecycle exercises Initiate, Predict, and Update in
// sequence against the canonical ByteTrack constant-velocity filter's
// expected output for a single measurement stream.
func TestKalmanFilterLifecycle(t *testing.T) {
	kf := NewKalmanFilter(1.0/20, 1.0/160)

	mean, cov := kf.Initiate(Xyah{100.0, 200.0, 1.0, 50.0})

	wantMeanInit := Mean{100.0, 200.0, 1.0, 50.0, 0.0, 0.0, 0.0, 0.0}
	if !floats.EqualApprox(mean[:], wantMeanInit[:], 1e-6) {
		t.Errorf("Initiate mean: expected %v, got %v", wantMeanInit, mean)
	}

	wantCovInit := mat.NewDense(8, 8, []float64{
		25.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0,
		0.0, 25.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0,
		0.0, 0.0, 9.999999747378752e-05, 0.0, 0.0, 0.0, 0.0, 0.0,
		0.0, 0.0, 0.0, 25.0, 0.0, 0.0, 0.0, 0.0,
		0.0, 0.0, 0.0, 0.0, 9.765625, 0.0, 0.0, 0.0,
		0.0, 0.0, 0.0, 0.0, 0.0, 9.765625, 0.0, 0.0,
		0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 9.999999439624929e-11, 0.0,
		0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 9.765625,
	})
	denseEqual(t, "Initiate covariance", cov, wantCovInit, 1e-4)

	mean = kf.Predict(mean, cov)

	wantMeanPredict := Mean{100.0, 200.0, 1.0, 50.0, 0.0, 0.0, 0.0, 0.0}
	if !floats.EqualApprox(mean[:], wantMeanPredict[:], 1e-6) {
		t.Errorf("Predict mean: expected %v, got %v", wantMeanPredict, mean)
	}

	wantCovPredict := mat.NewDense(8, 8, []float64{
		41.015625, 0.0, 0.0, 0.0, 9.765625, 0.0, 0.0, 0.0,
		0.0, 41.015625, 0.0, 0.0, 0.0, 9.765625, 0.0, 0.0,
		0.0, 0.0, 0.00020000009494756943, 0.0, 0.0, 0.0, 9.999999439624929e-11, 0.0,
		0.0, 0.0, 0.0, 41.015625, 0.0, 0.0, 0.0, 9.765625,
		9.765625, 0.0, 0.0, 0.0, 9.86328125, 0.0, 0.0, 0.0,
		0.0, 9.765625, 0.0, 0.0, 0.0, 9.86328125, 0.0, 0.0,
		0.0, 0.0, 9.999999439624929e-11, 0.0, 0.0, 0.0, 1.9999998879249858e-10, 0.0,
		0.0, 0.0, 0.0, 9.765625, 0.0, 0.0, 0.0, 9.86328125,
	})
	denseEqual(t, "Predict covariance", cov, wantCovPredict, 1e-4)

	mean, err := kf.Update(mean, cov, Xyah{105.0, 205.0, 1.1, 55.0})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	wantMeanUpdate := Mean{104.338844, 204.338837, 1.001961, 54.338844, 1.033058, 1.033058, 0.0, 1.033058}
	if !floats.EqualApprox(mean[:], wantMeanUpdate[:], 1e-4) {
		t.Errorf("Update mean: expected %v, got %v", wantMeanUpdate, mean)
	}
}

func TestKalmanFilterMultiPredictMatchesPredict(t *testing.T) {
	kf := NewKalmanFilter(1.0/20, 1.0/160)

	m1, c1 := kf.Initiate(Xyah{100.0, 200.0, 1.0, 50.0})
	m2, c2 := kf.Initiate(Xyah{300.0, 150.0, 0.6, 80.0})

	m1Single := kf.Predict(m1, c1)

	batch := []Mean{m1, m2}
	kf.MultiPredict(batch, []*mat.Dense{c1, c2})

	if !floats.EqualApprox(m1Single[:], batch[0][:], 1e-9) {
		t.Errorf("MultiPredict mean diverged from Predict: expected %v, got %v", m1Single, batch[0])
	}
}

func TestKalmanFilterUpdateLeavesStateOnCholeskyFailure(t *testing.T) {
	kf := NewKalmanFilter(1.0/20, 1.0/160)

	mean, _ := kf.Initiate(Xyah{100.0, 200.0, 1.0, 50.0})

	// Update factors the projected covariance H*P*H^T + R. With strongly
	// negative position variances that sum stays negative on the diagonal
	// even after R is added, so the Cholesky factorization must fail.
	badCov := mat.NewDense(8, 8, nil)
	for i := 0; i < 4; i++ {
		badCov.Set(i, i, -100.0)
	}

	got, err := kf.Update(mean, badCov, Xyah{105.0, 205.0, 1.1, 55.0})
	if err == nil {
		t.Fatal("expected an error from Update with a non positive definite covariance")
	}
	if got != mean {
		t.Errorf("expected mean unchanged on failure, got %v want %v", got, mean)
	}
}

func TestGatingDistanceRejectsUnknownMetric(t *testing.T) {
	kf := NewKalmanFilter(1.0/20, 1.0/160)
	mean, cov := kf.Initiate(Xyah{100.0, 200.0, 1.0, 50.0})

	_, err := kf.GatingDistance(mean, cov, []Xyah{{100, 200, 1, 50}}, false, "euclidean")
	if err != ErrInvalidMetric {
		t.Errorf("expected ErrInvalidMetric, got %v", err)
	}
}

func TestGatingDistanceZeroForExactMatch(t *testing.T) {
	kf := NewKalmanFilter(1.0/20, 1.0/160)
	mean, cov := kf.Initiate(Xyah{100.0, 200.0, 1.0, 50.0})

	dists, err := kf.GatingDistance(mean, cov, []Xyah{{100, 200, 1, 50}}, false, "gaussian")
	if err != nil {
		t.Fatalf("GatingDistance failed: %v", err)
	}
	if len(dists) != 1 || dists[0] > 1e-9 {
		t.Errorf("expected zero distance for exact match, got %v", dists)
	}
}

package bytetrack

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Mean is the 8-dimensional Kalman state (cx, cy, a, h, vcx, vcy, va, vh),
// where a is the box aspect ratio width/height.
type Mean [8]float64

// KalmanFilter is a constant-velocity Kalman filter operating on the
// 8-dimensional box state. It carries no per-track state of its own — the
// motion and measurement matrices are fixed at construction — so a single
// instance can be shared across every track a tracker owns, as both the
// predict-all-tracks batch path and each track's individual predict/update
// calls.
type KalmanFilter struct {
	stdWeightPosition float64
	stdWeightVelocity float64
	motionMat         *mat.Dense
	updateMat         *mat.Dense
}

// NewKalmanFilter builds a filter with the given position/velocity noise
// weights. The tracker always constructs this with the canonical ByteTrack
// weights (1/20, 1/160); the weights are a constructor argument rather than
// package constants so the filter itself stays a pure, reusable component.
func NewKalmanFilter(stdWeightPosition, stdWeightVelocity float64) *KalmanFilter {
	motionMat := mat.NewDense(8, 8, nil)
	for i := 0; i < 8; i++ {
		motionMat.Set(i, i, 1.0)
	}
	for i := 0; i < 4; i++ {
		motionMat.Set(i, 4+i, 1.0) // dt = 1
	}

	updateMat := mat.NewDense(4, 8, nil)
	for i := 0; i < 4; i++ {
		updateMat.Set(i, i, 1.0)
	}

	return &KalmanFilter{
		stdWeightPosition: stdWeightPosition,
		stdWeightVelocity: stdWeightVelocity,
		motionMat:         motionMat,
		updateMat:         updateMat,
	}
}

// Initiate creates the mean and covariance for a newly activated track from
// its first measurement. The initial covariance is wider than the per-step
// process noise used by Predict — position variance uses a 2x factor and
// velocity variance a 10x factor, matching the canonical ByteTrack filter
// this package ports (the teacher's kalmanfilter.go carries the same
// factors; spec.md's condensed noise formula is the steady-state Predict/
// Project case, not the initial uncertainty).
func (kf *KalmanFilter) Initiate(measurement Xyah) (Mean, *mat.Dense) {
	var mean Mean
	copy(mean[:4], measurement[:])

	h := measurement[3]
	std := [8]float64{
		2 * kf.stdWeightPosition * h,
		2 * kf.stdWeightPosition * h,
		1e-2,
		2 * kf.stdWeightPosition * h,
		10 * kf.stdWeightVelocity * h,
		10 * kf.stdWeightVelocity * h,
		1e-5,
		10 * kf.stdWeightVelocity * h,
	}

	cov := mat.NewDense(8, 8, nil)
	for i, s := range std {
		cov.Set(i, i, s*s)
	}

	return mean, cov
}

// processStd returns the diagonal process-noise standard deviations used at
// Predict, proportional to the track's current height except for the fixed
// aspect-ratio components.
func (kf *KalmanFilter) processStd(h float64) [8]float64 {
	return [8]float64{
		kf.stdWeightPosition * h,
		kf.stdWeightPosition * h,
		1e-2,
		kf.stdWeightPosition * h,
		kf.stdWeightVelocity * h,
		kf.stdWeightVelocity * h,
		1e-5,
		kf.stdWeightVelocity * h,
	}
}

func diagCov(std [8]float64) *mat.Dense {
	q := mat.NewDense(8, 8, nil)
	for i, s := range std {
		q.Set(i, i, s*s)
	}
	return q
}

// Predict advances mean and covariance one time step (dt = 1) under the
// constant-velocity motion model, mutating cov in place and returning the
// updated mean. Process noise is built from the pre-predict mean's height.
func (kf *KalmanFilter) Predict(mean Mean, cov *mat.Dense) Mean {
	q := diagCov(kf.processStd(mean[3]))

	meanVec := mat.NewVecDense(8, mean[:])
	var predicted mat.VecDense
	predicted.MulVec(kf.motionMat, meanVec)

	var next Mean
	for i := 0; i < 8; i++ {
		next[i] = predicted.AtVec(i)
	}

	cov.Mul(kf.motionMat, cov)
	cov.Mul(cov, kf.motionMat.T())
	cov.Add(cov, q)

	return next
}

// MultiPredict is the vectorized form of Predict over a batch of tracks,
// yielding the same result as calling Predict independently for each track.
// The mean update for the whole batch is done as a single matrix multiply;
// the covariance update still runs per track since each track's process
// noise depends on its own height.
func (kf *KalmanFilter) MultiPredict(means []Mean, covs []*mat.Dense) {
	n := len(means)
	if n == 0 {
		return
	}

	qs := make([]*mat.Dense, n)
	for i := range means {
		qs[i] = diagCov(kf.processStd(means[i][3]))
	}

	stacked := mat.NewDense(n, 8, nil)
	for i, m := range means {
		stacked.SetRow(i, m[:])
	}

	var predicted mat.Dense
	predicted.Mul(stacked, kf.motionMat.T())

	for i := range means {
		row := predicted.RawRowView(i)
		copy(means[i][:], row)
	}

	for i, cov := range covs {
		cov.Mul(kf.motionMat, cov)
		cov.Mul(cov, kf.motionMat.T())
		cov.Add(cov, qs[i])
	}
}

// Project maps mean and covariance into measurement (xyah) space, adding
// measurement noise R. The aspect-ratio noise term here (1e-1) is distinct
// from the 1e-2 used at Predict — again matching the canonical filter.
func (kf *KalmanFilter) Project(mean Mean, cov *mat.Dense) (Xyah, *mat.SymDense) {
	h := mean[3]
	std := [4]float64{
		kf.stdWeightPosition * h,
		kf.stdWeightPosition * h,
		1e-1,
		kf.stdWeightPosition * h,
	}

	r := mat.NewSymDense(4, nil)
	for i, s := range std {
		r.SetSym(i, i, s*s)
	}

	meanVec := mat.NewVecDense(8, mean[:])
	var projMeanVec mat.VecDense
	projMeanVec.MulVec(kf.updateMat, meanVec)

	var projMean Xyah
	for i := 0; i < 4; i++ {
		projMean[i] = projMeanVec.AtVec(i)
	}

	var tmp mat.Dense
	tmp.Mul(kf.updateMat, cov)
	var projCovDense mat.Dense
	projCovDense.Mul(&tmp, kf.updateMat.T())

	projCov := mat.NewSymDense(4, nil)
	for i := 0; i < 4; i++ {
		for j := i; j < 4; j++ {
			projCov.SetSym(i, j, projCovDense.At(i, j))
		}
	}
	projCov.AddSym(projCov, r)

	return projMean, projCov
}

// Update performs the standard Kalman correction of mean and covariance
// given a new xyah measurement, using a Cholesky factorization of the
// projected covariance for a numerically stable gain solve. It returns an
// error (without mutating mean or cov) if the projected covariance is not
// positive definite; callers are expected to leave the track in its prior
// state when that happens rather than treat it as fatal.
func (kf *KalmanFilter) Update(mean Mean, cov *mat.Dense, measurement Xyah) (Mean, error) {
	projMean, projCov := kf.Project(mean, cov)

	var chol mat.Cholesky
	if ok := chol.Factorize(projCov); !ok {
		return mean, fmt.Errorf("bytetrack: cholesky factorization of projected covariance failed")
	}

	var b mat.Dense
	b.Mul(cov, kf.updateMat.T()) // 8x4

	var kalmanGain mat.Dense
	if err := chol.SolveTo(&kalmanGain, b.T()); err != nil {
		return mean, fmt.Errorf("bytetrack: kalman gain solve failed: %w", err)
	}

	innovation := mat.NewVecDense(4, nil)
	for i := 0; i < 4; i++ {
		innovation.SetVec(i, measurement[i]-projMean[i])
	}

	var delta mat.VecDense
	delta.MulVec(kalmanGain.T(), innovation)

	var next Mean
	for i := 0; i < 8; i++ {
		next[i] = mean[i] + delta.AtVec(i)
	}

	var tmp mat.Dense
	tmp.Mul(kalmanGain.T(), projCov)
	var reduction mat.Dense
	reduction.Mul(&tmp, &kalmanGain)

	newCov := mat.NewDense(8, 8, nil)
	newCov.Sub(cov, &reduction)
	cov.Copy(newCov)

	return next, nil
}

// GatingDistance returns the squared distance of each measurement from mean
// under the given metric, in projected (xyah) space. metric must be
// "gaussian" (squared Euclidean) or "maha" (squared Mahalanobis using the
// Cholesky factor of the projected covariance); any other value is an
// error. onlyPosition restricts the comparison to the first two (center
// x/y) dimensions.
func (kf *KalmanFilter) GatingDistance(mean Mean, cov *mat.Dense, measurements []Xyah, onlyPosition bool, metric string) ([]float64, error) {
	if metric != "gaussian" && metric != "maha" {
		return nil, ErrInvalidMetric
	}

	projMean, projCov := kf.Project(mean, cov)

	dim := 4
	if onlyPosition {
		dim = 2
	}

	meanSlice := projMean[:dim]

	sub := mat.NewSymDense(dim, nil)
	for i := 0; i < dim; i++ {
		for j := i; j < dim; j++ {
			sub.SetSym(i, j, projCov.At(i, j))
		}
	}

	distances := make([]float64, len(measurements))

	switch metric {
	case "gaussian":
		for k, m := range measurements {
			var d float64
			for i := 0; i < dim; i++ {
				diff := m[i] - meanSlice[i]
				d += diff * diff
			}
			distances[k] = d
		}

	case "maha":
		var chol mat.Cholesky
		if ok := chol.Factorize(sub); !ok {
			return nil, fmt.Errorf("bytetrack: cholesky factorization of gating covariance failed")
		}

		for k, m := range measurements {
			d := mat.NewVecDense(dim, nil)
			for i := 0; i < dim; i++ {
				d.SetVec(i, m[i]-meanSlice[i])
			}

			var x mat.VecDense
			if err := chol.SolveVecTo(&x, d); err != nil {
				return nil, fmt.Errorf("bytetrack: mahalanobis solve failed: %w", err)
			}

			distances[k] = mat.Dot(d, &x)
		}
	}

	return distances, nil
}

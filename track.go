package bytetrack

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// TrackState is the lifecycle state of an STrack. Removed is terminal.
type TrackState int

const (
	New TrackState = iota
	Tracked
	Lost
	Removed
)

func (s TrackState) String() string {
	switch s {
	case New:
		return "new"
	case Tracked:
		return "tracked"
	case Lost:
		return "lost"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// STrack is a single tracked object's state machine: its Kalman state, box
// representation, and lifecycle bookkeeping. The zero value is not usable;
// construct with NewSTrack.
type STrack struct {
	kf        *KalmanFilter
	mean      Mean
	cov       *mat.Dense
	hasKalman bool

	// initialTlwh is retained only until the Kalman mean is established, so
	// Tlwh can be answered before the track's first Activate.
	initialTlwh Tlwh

	state       TrackState
	isActivated bool
	score       float64

	trackID     int
	startFrame  int
	frameID     int
	trackletLen int

	// location is reserved for multi-camera fusion; the core tracker never
	// reads or writes it beyond the (+Inf, +Inf) sentinel set at
	// construction.
	location [2]float64
}

// NewSTrack constructs an un-activated track from a detection box and
// score. It is in state New until Activate is called.
func NewSTrack(tlwh Tlwh, score float64) *STrack {
	return &STrack{
		initialTlwh: tlwh,
		state:       New,
		score:       score,
		location:    [2]float64{math.Inf(1), math.Inf(1)},
	}
}

// Tlwh returns the track's box in top-left/width-height form, read from the
// Kalman mean once established, else from the detection that created it.
func (s *STrack) Tlwh() Tlwh {
	if !s.hasKalman {
		return s.initialTlwh
	}

	w := s.mean[2] * s.mean[3]
	h := s.mean[3]
	return Tlwh{s.mean[0] - w/2, s.mean[1] - h/2, w, h}
}

// Tlbr returns the track's box in top-left/bottom-right form.
func (s *STrack) Tlbr() Tlbr {
	return TlwhToTlbr(s.Tlwh())
}

func (s *STrack) TrackID() int        { return s.trackID }
func (s *STrack) State() TrackState   { return s.state }
func (s *STrack) IsActivated() bool   { return s.isActivated }
func (s *STrack) Score() float64      { return s.score }
func (s *STrack) StartFrame() int     { return s.startFrame }
func (s *STrack) FrameID() int        { return s.frameID }
func (s *STrack) TrackletLen() int    { return s.trackletLen }
func (s *STrack) Location() (x, y float64) { return s.location[0], s.location[1] }
func (s *STrack) SetLocation(x, y float64) { s.location = [2]float64{x, y} }

// Activate assigns the track its id, initiates its Kalman state from the
// detection box that created it, and moves it to Tracked. A track born on
// frame 1 is immediately activated; otherwise it stays unconfirmed until a
// second hit re-activates or updates it.
func (s *STrack) Activate(kf *KalmanFilter, trackID, frameID int) {
	s.kf = kf
	s.mean, s.cov = kf.Initiate(TlwhToXyah(s.initialTlwh))
	s.hasKalman = true

	s.state = Tracked
	if frameID == 1 {
		s.isActivated = true
	}

	s.trackID = trackID
	s.frameID = frameID
	s.startFrame = frameID
	s.trackletLen = 0
}

// ReActivate recovers a Lost (or unconfirmed) track with a fresh detection,
// optionally assigning it a new track id (newID > 0) instead of keeping its
// own. The tracklet length resets, as this begins a new contiguous run.
func (s *STrack) ReActivate(det *STrack, frameID int, newID int) error {
	mean, err := s.kf.Update(s.mean, s.cov, TlwhToXyah(det.Tlwh()))
	if err != nil {
		return err
	}
	s.mean = mean

	s.state = Tracked
	s.isActivated = true
	s.score = det.score

	if newID > 0 {
		s.trackID = newID
	}

	s.frameID = frameID
	s.trackletLen = 0

	return nil
}

// Update corrects the track with a matched detection in the current frame.
// Unlike ReActivate it never reassigns the track id and it increments
// (rather than resets) tracklet length.
func (s *STrack) Update(det *STrack, frameID int) error {
	mean, err := s.kf.Update(s.mean, s.cov, TlwhToXyah(det.Tlwh()))
	if err != nil {
		return err
	}
	s.mean = mean

	s.state = Tracked
	s.isActivated = true
	s.score = det.score
	s.frameID = frameID
	s.trackletLen++

	return nil
}

// Predict advances the track's Kalman state by one frame. For any track not
// currently Tracked, the height-velocity component is zeroed first to
// suppress vertical drift while the track is unconfirmed or lost.
func (s *STrack) Predict() {
	mean := s.mean
	if s.state != Tracked {
		mean[7] = 0
	}
	s.mean = s.kf.Predict(mean, s.cov)
}

// MultiPredict is the batched form of Predict over a list of tracks, using
// the shared Kalman filter's vectorized MultiPredict. Every track must have
// already been Activated (have a Kalman state).
func MultiPredict(kf *KalmanFilter, tracks []*STrack) {
	if len(tracks) == 0 {
		return
	}

	means := make([]Mean, len(tracks))
	covs := make([]*mat.Dense, len(tracks))

	for i, t := range tracks {
		m := t.mean
		if t.state != Tracked {
			m[7] = 0
		}
		means[i] = m
		covs[i] = t.cov
	}

	kf.MultiPredict(means, covs)

	for i, t := range tracks {
		t.mean = means[i]
	}
}

func (s *STrack) MarkLost()    { s.state = Lost }
func (s *STrack) MarkRemoved() { s.state = Removed }

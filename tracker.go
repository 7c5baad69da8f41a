package bytetrack

import (
	"fmt"
	"log"
)

// secondStageMatchThresh and unconfirmedMatchThresh are fixed thresholds for
// the low-score rescue pass and the unconfirmed-track pass, distinct from
// the caller-supplied matchThresh used for the first, high-score pass.
const (
	secondStageMatchThresh = 0.5
	unconfirmedMatchThresh = 0.7

	// duplicateIouThresh is the IoU-distance cutoff below which two tracks
	// from the tracked and lost lists are considered the same object.
	duplicateIouThresh = 0.15

	// lowScoreFloor excludes very low confidence detections from the
	// second-association rescue pass entirely; only scores strictly
	// between lowScoreFloor and trackThresh are eligible for it.
	lowScoreFloor = 0.1
)

// BYTETracker is the stateful multi-object tracker: it owns the shared
// Kalman filter and the three track lists (tracked, lost, removed) that
// persist across calls to Update.
type BYTETracker struct {
	trackThresh float64
	detThresh   float64
	matchThresh float64
	maxTimeLost int

	frameID      int
	trackIDCount int

	kf *KalmanFilter

	trackedStracks []*STrack
	lostStracks    []*STrack
	removedStracks []*STrack
}

// NewBYTETracker builds a tracker from its four tunables. frameRate and
// trackBuffer must be positive; trackThresh and matchThresh must be in
// (0, 1]. The new-track admission threshold used in step 4 of Update is
// derived as trackThresh + 0.1, matching the canonical ByteTrack reference
// rather than taking a fifth constructor argument.
func NewBYTETracker(frameRate, trackBuffer int, trackThresh, matchThresh float64) (*BYTETracker, error) {
	if frameRate <= 0 {
		return nil, ErrInvalidFrameRate
	}
	if trackBuffer <= 0 {
		return nil, ErrInvalidTrackBuffer
	}
	if trackThresh <= 0 || trackThresh > 1 {
		return nil, ErrInvalidTrackThresh
	}
	if matchThresh <= 0 || matchThresh > 1 {
		return nil, ErrInvalidMatchThresh
	}

	return &BYTETracker{
		trackThresh: trackThresh,
		detThresh:   trackThresh + 0.1,
		matchThresh: matchThresh,
		maxTimeLost: int(float64(frameRate) / 30.0 * float64(trackBuffer)),
		kf:          NewKalmanFilter(1.0/20.0, 1.0/160.0),
	}, nil
}

// Reset clears all track state and frame/id counters, as if the tracker had
// just been constructed.
func (bt *BYTETracker) Reset() {
	bt.frameID = 0
	bt.trackIDCount = 0
	bt.trackedStracks = nil
	bt.lostStracks = nil
	bt.removedStracks = nil
}

// Update advances the tracker by one frame given a raw detector output
// matrix, returning the currently active, confirmed tracks. outputResults
// and the coordinate-scaling arguments are decoded exactly as described by
// decodeDetections.
func (bt *BYTETracker) Update(outputResults [][]float64, imgInfo, imgSize [2]float64) ([]*STrack, error) {
	dets, err := decodeDetections(outputResults, imgInfo, imgSize)
	if err != nil {
		return nil, err
	}

	bt.frameID++

	var detStracks, detLowStracks []*STrack
	for _, d := range dets {
		s := NewSTrack(TlbrToTlwh(d.Box), d.Score)
		switch {
		case d.Score > bt.trackThresh:
			detStracks = append(detStracks, s)
		case d.Score > lowScoreFloor && d.Score < bt.trackThresh:
			detLowStracks = append(detLowStracks, s)
		}
	}

	var activeStracks, unconfirmedStracks []*STrack
	for _, t := range bt.trackedStracks {
		if t.IsActivated() {
			activeStracks = append(activeStracks, t)
		} else {
			unconfirmedStracks = append(unconfirmedStracks, t)
		}
	}

	strackPool := jointStracks(activeStracks, bt.lostStracks)
	MultiPredict(bt.kf, strackPool)

	// Step 2: first association, high-score detections against every
	// active or lost track.
	var trackedOut, refindOut, remainTracked, remainDets []*STrack

	cost := iouCost(strackPool, detStracks)
	matches, unmatchedTracks, unmatchedDets, err := Assign(cost, len(strackPool), len(detStracks), bt.matchThresh)
	if err != nil {
		return nil, fmt.Errorf("bytetrack: first association: %w", err)
	}

	for _, m := range matches {
		track, det := strackPool[m[0]], detStracks[m[1]]

		if track.State() == Tracked {
			bt.trackUpdate(track, det, "first association")
			trackedOut = append(trackedOut, track)
		} else {
			if err := track.ReActivate(det, bt.frameID, 0); err != nil {
				log.Printf("bytetrack: re-activation failed for track %d, dropping match: %v", track.TrackID(), err)
				continue
			}
			refindOut = append(refindOut, track)
		}
	}

	for _, i := range unmatchedDets {
		remainDets = append(remainDets, detStracks[i])
	}
	for _, i := range unmatchedTracks {
		if strackPool[i].State() == Tracked {
			remainTracked = append(remainTracked, strackPool[i])
		}
	}

	// Step 3: second association, low-score detections rescue tracks the
	// first pass left unmatched.
	var newlyLost []*STrack

	cost = iouCost(remainTracked, detLowStracks)
	matches, unmatchedTracks, _, err = Assign(cost, len(remainTracked), len(detLowStracks), secondStageMatchThresh)
	if err != nil {
		return nil, fmt.Errorf("bytetrack: second association: %w", err)
	}

	for _, m := range matches {
		track, det := remainTracked[m[0]], detLowStracks[m[1]]

		if track.State() == Tracked {
			bt.trackUpdate(track, det, "second association")
			trackedOut = append(trackedOut, track)
		} else {
			if err := track.ReActivate(det, bt.frameID, 0); err != nil {
				log.Printf("bytetrack: re-activation failed for track %d, dropping match: %v", track.TrackID(), err)
				continue
			}
			refindOut = append(refindOut, track)
		}
	}

	for _, i := range unmatchedTracks {
		track := remainTracked[i]
		if track.State() != Lost {
			track.MarkLost()
			newlyLost = append(newlyLost, track)
		}
	}

	// Step 4: resolve unconfirmed tracks against whatever high-score
	// detections are still unmatched, then spawn new tracks from the rest.
	var newlyRemoved []*STrack

	cost = iouCost(unconfirmedStracks, remainDets)
	matches, unmatchedUnconfirmed, unmatchedRemainDets, err := Assign(cost, len(unconfirmedStracks), len(remainDets), unconfirmedMatchThresh)
	if err != nil {
		return nil, fmt.Errorf("bytetrack: unconfirmed association: %w", err)
	}

	for _, m := range matches {
		track := unconfirmedStracks[m[0]]
		bt.trackUpdate(track, remainDets[m[1]], "unconfirmed association")
		trackedOut = append(trackedOut, track)
	}

	for _, i := range unmatchedUnconfirmed {
		track := unconfirmedStracks[i]
		track.MarkRemoved()
		newlyRemoved = append(newlyRemoved, track)
	}

	for _, i := range unmatchedRemainDets {
		det := remainDets[i]
		if det.Score() < bt.detThresh {
			continue
		}
		bt.trackIDCount++
		det.Activate(bt.kf, bt.trackIDCount, bt.frameID)
		trackedOut = append(trackedOut, det)
	}

	// Step 5: expire lost tracks that have exceeded the buffer, then fold
	// everything back into the three persistent lists.
	for _, t := range bt.lostStracks {
		if bt.frameID-t.FrameID() > bt.maxTimeLost {
			t.MarkRemoved()
			newlyRemoved = append(newlyRemoved, t)
		}
	}

	bt.trackedStracks = jointStracks(trackedOut, refindOut)
	bt.lostStracks = subStracks(jointStracks(subStracks(bt.lostStracks, bt.trackedStracks), newlyLost), bt.removedStracks)
	bt.removedStracks = jointStracks(bt.removedStracks, newlyRemoved)

	bt.trackedStracks, bt.lostStracks = removeDuplicateStracks(bt.trackedStracks, bt.lostStracks)

	var out []*STrack
	for _, t := range bt.trackedStracks {
		if t.IsActivated() {
			out = append(out, t)
		}
	}

	return out, nil
}

// trackUpdate applies a Kalman update to a matched track, logging and
// leaving the track in its prior state instead of failing the whole frame
// if the update is numerically unstable.
func (bt *BYTETracker) trackUpdate(track, det *STrack, stage string) {
	if err := track.Update(det, bt.frameID); err != nil {
		log.Printf("bytetrack: kalman update failed for track %d during %s, preserving prior state: %v", track.TrackID(), stage, err)
	}
}

func iouCost(a, b []*STrack) [][]float64 {
	aBoxes := make([]Box, len(a))
	for i, t := range a {
		aBoxes[i] = t.Tlbr().Box()
	}

	bBoxes := make([]Box, len(b))
	for i, t := range b {
		bBoxes[i] = t.Tlbr().Box()
	}

	return IoUDistance(aBoxes, bBoxes)
}

// jointStracks merges two track lists, keeping the first occurrence of any
// track id shared between them.
func jointStracks(a, b []*STrack) []*STrack {
	seen := make(map[int]bool, len(a)+len(b))
	res := make([]*STrack, 0, len(a)+len(b))

	for _, t := range a {
		seen[t.TrackID()] = true
		res = append(res, t)
	}
	for _, t := range b {
		if !seen[t.TrackID()] {
			seen[t.TrackID()] = true
			res = append(res, t)
		}
	}

	return res
}

// subStracks returns the tracks in a whose id does not appear in b.
func subStracks(a, b []*STrack) []*STrack {
	excluded := make(map[int]bool, len(b))
	for _, t := range b {
		excluded[t.TrackID()] = true
	}

	var res []*STrack
	for _, t := range a {
		if !excluded[t.TrackID()] {
			res = append(res, t)
		}
	}

	return res
}

// removeDuplicateStracks resolves near-duplicate tracks between the tracked
// and lost lists (IoU distance below duplicateIouThresh): the track with
// the shorter running tracklet is dropped in favor of the longer-running
// one.
func removeDuplicateStracks(tracked, lost []*STrack) (trackedOut, lostOut []*STrack) {
	ious := iouCost(tracked, lost)

	dupTracked := make([]bool, len(tracked))
	dupLost := make([]bool, len(lost))

	for i := range ious {
		for j := range ious[i] {
			if ious[i][j] >= duplicateIouThresh {
				continue
			}
			ageTracked := tracked[i].FrameID() - tracked[i].StartFrame()
			ageLost := lost[j].FrameID() - lost[j].StartFrame()
			if ageTracked > ageLost {
				dupLost[j] = true
			} else {
				dupTracked[i] = true
			}
		}
	}

	for i, t := range tracked {
		if !dupTracked[i] {
			trackedOut = append(trackedOut, t)
		}
	}
	for j, t := range lost {
		if !dupLost[j] {
			lostOut = append(lostOut, t)
		}
	}

	return trackedOut, lostOut
}

package bytetrack

import (
	"fmt"
	"math"
)

// Detection is an ephemeral per-frame observation: a box in the original
// image's pixel space plus a confidence score. It survives only for the
// duration of one Update call, unless it is promoted into a Track.
type Detection struct {
	Box   Tlbr
	Score float64
}

// decodeDetections interprets a raw detector output matrix and scales boxes
// back into the original image's coordinate space.
//
// outputResults is N x 5 (x1, y1, x2, y2, score) or N x >=6 (x1, y1, x2, y2,
// objectness, classConf, ...), in which case score = objectness * classConf.
// imgInfo is (originalHeight, originalWidth); imgSize is (targetHeight,
// targetWidth) the detector ran at; boxes are divided by
// min(imgSize[0]/imgInfo[0], imgSize[1]/imgInfo[1]) to undo letterbox
// scaling.
func decodeDetections(outputResults [][]float64, imgInfo, imgSize [2]float64) ([]Detection, error) {
	if len(outputResults) == 0 {
		return nil, nil
	}

	nCols := len(outputResults[0])
	if nCols < 5 {
		return nil, ErrInvalidInputShape
	}

	scale := min64(imgSize[0]/imgInfo[0], imgSize[1]/imgInfo[1])
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("%w: degenerate letterbox scale factor %v", ErrInvalidInputShape, scale)
	}

	dets := make([]Detection, 0, len(outputResults))

	for _, row := range outputResults {
		if len(row) != nCols {
			return nil, fmt.Errorf("%w: ragged detection matrix", ErrInvalidInputShape)
		}

		var score float64
		if nCols == 5 {
			score = row[4]
		} else {
			score = row[4] * row[5]
		}

		box := Tlbr{row[0] / scale, row[1] / scale, row[2] / scale, row[3] / scale}

		if math.IsNaN(score) || math.IsInf(score, 0) {
			return nil, ErrNonFiniteInput
		}
		for _, v := range box {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, ErrNonFiniteInput
			}
		}

		dets = append(dets, Detection{Box: box, Score: score})
	}

	return dets, nil
}

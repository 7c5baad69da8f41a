package bytetrack

// epsilon nudges a cost just above threshold so the solver always prefers a
// feasible pair over a forbidden one, matching the original Python
// implementation's `thresh + 1e-4` (cjm_byte_track/matching.py,
// linear_assignment).
const epsilon = 1e-4

// Assign solves the rectangular assignment problem on a cost matrix, gated
// by threshold thresh: a pair may only be matched if its cost is <= thresh.
// It returns the matched (row, col) pairs plus the unmatched row and column
// indices; matched and unmatched index sets are disjoint and together cover
// every row and column. An empty cost matrix (either dimension zero) yields
// no matches and every row/column reported unmatched.
func Assign(cost [][]float64, nRows, nCols int, thresh float64) (matches [][2]int, unmatchedRows, unmatchedCols []int, err error) {
	if nRows == 0 || nCols == 0 {
		for i := 0; i < nRows; i++ {
			unmatchedRows = append(unmatchedRows, i)
		}
		for j := 0; j < nCols; j++ {
			unmatchedCols = append(unmatchedCols, j)
		}
		return matches, unmatchedRows, unmatchedCols, nil
	}

	rowSol, colSol, solveErr := execLapjv(cost, thresh)
	if solveErr != nil {
		return nil, nil, nil, solveErr
	}

	for i, j := range rowSol {
		if j >= 0 {
			matches = append(matches, [2]int{i, j})
		} else {
			unmatchedRows = append(unmatchedRows, i)
		}
	}

	for j, i := range colSol {
		if i < 0 {
			unmatchedCols = append(unmatchedCols, j)
		}
	}

	return matches, unmatchedRows, unmatchedCols, nil
}

// execLapjv gates the cost matrix against thresh, extends it to a square
// matrix sized nRows+nCols as the classical rectangular LAPJV extension
// requires, solves it, and maps the solution back to the original
// dimensions. Forbidden (> thresh) cells are pushed to thresh + epsilon
// before extension so the solver treats them as merely expensive, never
// literally infeasible. Any pair the solver selects whose original cost
// exceeds thresh is then dropped from rowSol and colSol, leaving that row
// and column unmatched.
func execLapjv(cost [][]float64, thresh float64) (rowSol, colSol []int, err error) {
	nRows := len(cost)
	nCols := len(cost[0])

	gated := make([][]float64, nRows)
	costMax := 0.0
	for i := range cost {
		gated[i] = make([]float64, nCols)
		for j, c := range cost[i] {
			if c > thresh {
				gated[i][j] = thresh + epsilon
			} else {
				gated[i][j] = c
			}
			if gated[i][j] > costMax {
				costMax = gated[i][j]
			}
		}
	}

	n := nRows + nCols
	full := make([][]float64, n)
	for i := range full {
		full[i] = make([]float64, n)
		for j := range full[i] {
			full[i][j] = costMax + 1
		}
	}
	for i := 0; i < nRows; i++ {
		for j := 0; j < nCols; j++ {
			full[i][j] = gated[i][j]
		}
	}
	for i := nRows; i < n; i++ {
		for j := nCols; j < n; j++ {
			full[i][j] = 0
		}
	}

	x := make([]int, n)
	y := make([]int, n)

	if ret := lapjvInternal(n, full, x, y); ret != 0 {
		return nil, nil, errLapjvFailed
	}

	for i := 0; i < n; i++ {
		if x[i] >= nCols {
			x[i] = -1
		}
		if y[i] >= nRows {
			y[i] = -1
		}
	}

	rowSol = make([]int, nRows)
	colSol = make([]int, nCols)
	for i := 0; i < nRows; i++ {
		rowSol[i] = x[i]
		if rowSol[i] >= 0 && cost[i][rowSol[i]] > thresh {
			rowSol[i] = -1
		}
	}
	for j := 0; j < nCols; j++ {
		colSol[j] = y[j]
	}
	for j := 0; j < nCols; j++ {
		if colSol[j] >= 0 && cost[colSol[j]][j] > thresh {
			colSol[j] = -1
		}
	}

	return rowSol, colSol, nil
}


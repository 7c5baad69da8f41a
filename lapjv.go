package bytetrack

import "fmt"

// lapjvLarge stands in for +infinity in the dense LAPJV cost matrix.
const lapjvLarge = 1e6

// lapjvInternal solves the square n x n assignment problem using the dense
// Jonker-Volgenant algorithm: column-reduction and reduction transfer
// (ccrrtDense), augmenting row reduction (carrDense), then augmenting path
// search (caDense) for whatever rows remain unassigned. x[i] is the column
// assigned to row i, y[j] the row assigned to column j. Returns 0 on
// success.
func lapjvInternal(n int, cost [][]float64, x, y []int) int {
	freeRows := make([]int, n)
	v := make([]float64, n)

	nFree := ccrrtDense(n, cost, freeRows, x, y, v)

	for i := 0; nFree > 0 && i < 2; i++ {
		nFree = carrDense(n, cost, nFree, freeRows, x, y, v)
	}

	if nFree > 0 {
		if err := caDense(n, cost, nFree, freeRows, x, y, v); err != nil {
			return 1
		}
	}

	return 0
}

// ccrrtDense performs column reduction and reduction transfer.
func ccrrtDense(n int, cost [][]float64, freeRows, x, y []int, v []float64) int {
	unique := make([]bool, n)

	for i := 0; i < n; i++ {
		x[i] = -1
		v[i] = lapjvLarge
		y[i] = 0
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if c := cost[i][j]; c < v[j] {
				v[j] = c
				y[j] = i
			}
		}
	}

	for i := range unique {
		unique[i] = true
	}

	for j := n; j > 0; {
		j--
		i := y[j]
		if x[i] < 0 {
			x[i] = j
		} else {
			unique[i] = false
			y[j] = -1
		}
	}

	nFreeRows := 0

	for i := 0; i < n; i++ {
		if x[i] < 0 {
			freeRows[nFreeRows] = i
			nFreeRows++
		} else if unique[i] {
			j := x[i]
			minVal := lapjvLarge

			for j2 := 0; j2 < n; j2++ {
				if j2 == j {
					continue
				}
				if c := cost[i][j2] - v[j2]; c < minVal {
					minVal = c
				}
			}

			v[j] -= minVal
		}
	}

	return nFreeRows
}

// carrDense performs augmenting row reduction.
func carrDense(n int, cost [][]float64, nFreeRows int, freeRows, x, y []int, v []float64) int {
	current := 0
	newFreeRows := 0
	rrCnt := 0

	for current < nFreeRows {
		rrCnt++
		freeI := freeRows[current]
		current++

		j1 := 0
		v1 := cost[freeI][0] - v[0]
		j2 := -1
		v2 := lapjvLarge

		for j := 1; j < n; j++ {
			c := cost[freeI][j] - v[j]
			if c < v2 {
				if c >= v1 {
					v2 = c
					j2 = j
				} else {
					v2 = v1
					v1 = c
					j2 = j1
					j1 = j
				}
			}
		}

		i0 := y[j1]
		v1New := v[j1] - (v2 - v1)
		v1Lowers := v1New < v[j1]

		if rrCnt < current*n {
			if v1Lowers {
				v[j1] = v1New
			} else if i0 >= 0 && j2 >= 0 {
				j1 = j2
				i0 = y[j2]
			}

			if i0 >= 0 {
				if v1Lowers {
					current--
					freeRows[current] = i0
				} else {
					freeRows[newFreeRows] = i0
					newFreeRows++
				}
			}
		} else if i0 >= 0 {
			freeRows[newFreeRows] = i0
			newFreeRows++
		}

		x[freeI] = j1
		y[j1] = freeI
	}

	return newFreeRows
}

// findDense moves columns with the current minimum reduced cost to the
// front of the SCAN window [lo, hi).
func findDense(n, lo int, d []float64, cols []int) int {
	hi := lo + 1
	mind := d[cols[lo]]

	for k := hi; k < n; k++ {
		j := cols[k]
		if d[j] <= mind {
			if d[j] < mind {
				hi = lo
				mind = d[j]
			}
			cols[k] = cols[hi]
			cols[hi] = j
			hi++
		}
	}

	return hi
}

// scanDense scans columns from the SCAN window, relaxing their distance via
// the current SCAN column, and returns the first unassigned column found,
// or -1 if none yet.
func scanDense(n int, cost [][]float64, lo, hi *int, d []float64, cols, pred, y []int, v []float64) int {
	for *lo != *hi {
		j := cols[*lo]
		*lo++
		i := y[j]
		mind := d[j]
		h := cost[i][j] - v[j] - mind

		for k := *hi; k < n; k++ {
			j = cols[k]
			credIJ := cost[i][j] - v[j] - h

			if credIJ < d[j] {
				d[j] = credIJ
				pred[j] = i

				if credIJ == mind {
					if y[j] < 0 {
						return j
					}
					cols[k] = cols[*hi]
					cols[*hi] = j
					(*hi)++
				}
			}
		}
	}

	return -1
}

// findPathDense runs one modified-Dijkstra shortest augmenting path search
// from startI, as described in the Jonker-Volgenant paper.
func findPathDense(n int, cost [][]float64, startI int, y []int, v []float64, pred []int) int {
	lo, hi := 0, 0
	finalJ := -1
	nReady := 0
	cols := make([]int, n)
	d := make([]float64, n)

	for i := 0; i < n; i++ {
		cols[i] = i
		pred[i] = startI
		d[i] = cost[startI][i] - v[i]
	}

	for finalJ == -1 {
		if lo == hi {
			nReady = lo
			hi = findDense(n, lo, d, cols)

			for k := lo; k < hi; k++ {
				if j := cols[k]; y[j] < 0 {
					finalJ = j
				}
			}
		}

		if finalJ == -1 {
			finalJ = scanDense(n, cost, &lo, &hi, d, cols, pred, y, v)
		}
	}

	mind := d[cols[lo]]
	for k := 0; k < nReady; k++ {
		j := cols[k]
		v[j] += d[j] - mind
	}

	return finalJ
}

// caDense augments along a shortest path for every still-free row.
func caDense(n int, cost [][]float64, nFreeRows int, freeRows, x, y []int, v []float64) error {
	pred := make([]int, n)

	for _, freeI := range freeRows[:nFreeRows] {
		i := -1
		k := 0

		j := findPathDense(n, cost, freeI, y, v, pred)
		if j < 0 || j >= n {
			return fmt.Errorf("bytetrack: lapjv augmenting path search returned out-of-range column %d", j)
		}

		for i != freeI {
			i = pred[j]
			y[j] = i
			j, x[i] = x[i], j
			k++

			if k >= n {
				return fmt.Errorf("bytetrack: lapjv augmenting path exceeded matrix size")
			}
		}
	}

	return nil
}

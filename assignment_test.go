package bytetrack

import "testing"

func TestAssignSquareCostMatrix(t *testing.T) {
	// row 0 cheapest with col 1, row 1 cheapest with col 0.
	cost := [][]float64{
		{0.9, 0.1},
		{0.2, 0.8},
	}

	matches, unmatchedRows, unmatchedCols, err := Assign(cost, 2, 2, 0.5)
	if err != nil {
		t.Fatalf("Assign returned error: %v", err)
	}
	if len(unmatchedRows) != 0 || len(unmatchedCols) != 0 {
		t.Fatalf("expected a full match, got unmatchedRows=%v unmatchedCols=%v", unmatchedRows, unmatchedCols)
	}

	want := map[[2]int]bool{{0, 1}: true, {1, 0}: true}
	for _, m := range matches {
		if !want[m] {
			t.Errorf("unexpected match %v", m)
		}
		delete(want, m)
	}
	if len(want) != 0 {
		t.Errorf("missing expected matches: %v", want)
	}
}

func TestAssignGatesOnThreshold(t *testing.T) {
	// Every pairing costs more than the threshold, so nothing should match.
	cost := [][]float64{
		{0.9, 0.95},
		{0.92, 0.91},
	}

	matches, unmatchedRows, unmatchedCols, err := Assign(cost, 2, 2, 0.5)
	if err != nil {
		t.Fatalf("Assign returned error: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected no matches above threshold, got %v", matches)
	}
	if len(unmatchedRows) != 2 || len(unmatchedCols) != 2 {
		t.Errorf("expected both rows and cols fully unmatched, got rows=%v cols=%v", unmatchedRows, unmatchedCols)
	}
}

func TestAssignRectangular(t *testing.T) {
	// 3 rows, 2 cols: row 2 has no column left once 0 and 1 are taken.
	cost := [][]float64{
		{0.1, 0.9},
		{0.9, 0.1},
		{0.3, 0.3},
	}

	matches, unmatchedRows, _, err := Assign(cost, 3, 2, 0.5)
	if err != nil {
		t.Fatalf("Assign returned error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %v", matches)
	}
	if len(unmatchedRows) != 1 {
		t.Fatalf("expected 1 unmatched row, got %v", unmatchedRows)
	}
}

func TestAssignEmptyMatrix(t *testing.T) {
	matches, unmatchedRows, unmatchedCols, err := Assign(nil, 3, 0, 0.5)
	if err != nil {
		t.Fatalf("Assign returned error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches for empty cost matrix, got %v", matches)
	}
	if len(unmatchedRows) != 3 {
		t.Errorf("expected 3 unmatched rows, got %v", unmatchedRows)
	}
	if len(unmatchedCols) != 0 {
		t.Errorf("expected 0 unmatched cols, got %v", unmatchedCols)
	}
}

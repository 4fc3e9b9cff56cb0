package forecast

import (
	"fmt"
	"math"
)

// solveLinearSystem solves A x = b in place using Gauss-Jordan elimination
// with partial pivoting. A must be square with len(b) rows.
func solveLinearSystem(A [][]float64, b []float64) ([]float64, error) {
	n := len(b)

	for col := 0; col < n; col++ {
		// Pick the largest remaining pivot for stability.
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(A[row][col]) > math.Abs(A[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(A[pivot][col]) < 1e-12 {
			return nil, fmt.Errorf("singular system at column %d", col)
		}
		if pivot != col {
			A[col], A[pivot] = A[pivot], A[col]
			b[col], b[pivot] = b[pivot], b[col]
		}

		inv := 1.0 / A[col][col]
		for j := col; j < n; j++ {
			A[col][j] *= inv
		}
		b[col] *= inv

		for row := 0; row < n; row++ {
			if row == col {
				continue
			}
			factor := A[row][col]
			if factor == 0 {
				continue
			}
			for j := col; j < n; j++ {
				A[row][j] -= factor * A[col][j]
			}
			b[row] -= factor * b[col]
		}
	}

	return b, nil
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

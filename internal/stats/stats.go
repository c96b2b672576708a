// Package stats holds the pure statistical functions behind the derived
// reports. Undefined results are nil, never zero and never an error, so the
// NULL-propagation rules stay explicit instead of leaning on SQL semantics.
package stats

import (
	"math"
	"sort"
)

// MatrixMetrics is the fixed metric order of the correlation matrix.
var MatrixMetrics = []string{"views", "likes", "comments", "duration_seconds", "engagement_rate"}

// EngagementRate returns (likes + comments) / views. NULL or zero views make
// the rate undefined; NULL likes or comments count as zero in the numerator.
func EngagementRate(views, likes, comments *int64) *float64 {
	if views == nil || *views == 0 {
		return nil
	}
	var likeN, commentN int64
	if likes != nil {
		likeN = *likes
	}
	if comments != nil {
		commentN = *comments
	}
	r := float64(likeN+commentN) / float64(*views)
	return &r
}

// Median returns the median of values: sort ascending and average the
// elements at ranks floor((n+1)/2) and ceil((n+1)/2). For odd n both ranks
// are the middle element; for even n they straddle it. Empty input is
// undefined.
func Median(values []float64) *float64 {
	n := len(values)
	if n == 0 {
		return nil
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	lo := (n+1)/2 - 1 // floor((n+1)/2), zero-based
	hi := n / 2       // ceil((n+1)/2), zero-based
	m := (sorted[lo] + sorted[hi]) / 2
	return &m
}

// Mean returns the arithmetic mean, or nil for empty input.
func Mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	m := sum / float64(len(values))
	return &m
}

// Pearson returns the population Pearson correlation coefficient of the
// paired series x and y. Undefined with fewer than two pairs or when either
// series has zero variance.
func Pearson(x, y []float64) *float64 {
	n := len(x)
	if n != len(y) || n < 2 {
		return nil
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	if varX == 0 || varY == 0 {
		return nil
	}

	r := cov / math.Sqrt(varX*varY)
	// Rounding can push |r| a hair past 1 for perfectly collinear data.
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return &r
}

// MetricSeries is one metric's per-row values; nil marks a missing value.
// All series passed to CorrelationMatrix must be row-aligned.
type MetricSeries struct {
	Name   string
	Values []*float64
}

// PairSample holds the correlation result for one ordered metric pair.
type PairSample struct {
	R *float64
	N int64
}

// CorrelationMatrix computes the pairwise Pearson matrix over the given
// row-aligned series. Each pair is restricted to rows where both values are
// present. Diagonal entries are fixed at 1.0 with the count of present
// values; each off-diagonal pair is computed once and mirrored, so the
// matrix is symmetric bit-for-bit.
func CorrelationMatrix(series []MetricSeries) [][]PairSample {
	k := len(series)
	matrix := make([][]PairSample, k)
	for i := range matrix {
		matrix[i] = make([]PairSample, k)
	}

	one := 1.0
	for i := 0; i < k; i++ {
		var n int64
		for _, v := range series[i].Values {
			if v != nil {
				n++
			}
		}
		diag := one
		matrix[i][i] = PairSample{R: &diag, N: n}
	}

	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			x, y := pairComplete(series[i].Values, series[j].Values)
			cell := PairSample{R: Pearson(x, y), N: int64(len(x))}
			matrix[i][j] = cell
			matrix[j][i] = cell
		}
	}

	return matrix
}

// pairComplete extracts the rows where both series have a value.
func pairComplete(a, b []*float64) ([]float64, []float64) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var x, y []float64
	for i := 0; i < n; i++ {
		if a[i] == nil || b[i] == nil {
			continue
		}
		x = append(x, *a[i])
		y = append(y, *b[i])
	}
	return x, y
}

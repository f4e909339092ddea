package lookups

import "errors"

// ErrEmptyTable is returned when a lookup is attempted against a table
// with no rows. Queries outside a non-empty table's domain clamp to the
// nearest boundary entry instead of failing.
var ErrEmptyTable = errors.New("lookups: empty table")

// nearestIndex returns the index of the value in xs closest to x.
// xs must be sorted ascending. Ties break toward the lower index.
func nearestIndex(xs []float64, x float64) int {
	lo, hi := 0, len(xs)
	for lo < hi {
		mid := (lo + hi) / 2
		if xs[mid] < x {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == 0 {
		return 0
	}
	if lo == len(xs) {
		return len(xs) - 1
	}
	if x-xs[lo-1] <= xs[lo]-x {
		return lo - 1
	}
	return lo
}

// Nearest returns ys[i] for the i whose xs[i] is closest to x.
func Nearest(xs, ys []float64, x float64) (float64, error) {
	if len(xs) == 0 || len(xs) != len(ys) {
		return 0, ErrEmptyTable
	}
	return ys[nearestIndex(xs, x)], nil
}

// Package sfh loads and queries star-formation histories.
//
// Input files are two whitespace-delimited columns: time in years and
// star-formation rate in solar masses per year. Internally everything
// is rescaled to Gyr and Msun/Gyr, and the history is extrapolated
// backward to MinTime with a power law so the evolution engine always
// has a grid starting at 1 Myr.
package sfh

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// MinTime is the earliest grid time in Gyr; histories are extrapolated
// back to it.
const MinTime = 1e-3

// backfillPoints is the number of log-spaced samples prepended between
// MinTime and the first tabulated time.
const backfillPoints = 32

var (
	ErrTooFewRows   = errors.New("sfh: history needs at least two rows")
	ErrNotAscending = errors.New("sfh: history times must be strictly increasing")
)

// Sample is one (time, star-formation rate) pair in Gyr and Msun/Gyr.
type Sample struct {
	Time float64
	SFR  float64
}

// History is an immutable star-formation history on an ascending time
// grid starting at MinTime.
type History struct {
	samples []Sample
}

// Parse reads raw file rows in file units (yr, Msun/yr) and rescales
// them to (Gyr, Msun/Gyr). Blank lines and #-comments are skipped.
func Parse(r io.Reader) ([]Sample, error) {
	var raw []Sample
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, fmt.Errorf("sfh: line %d: want 2 columns, got %d", line, len(fields))
		}
		t, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("sfh: line %d: bad time: %w", line, err)
		}
		s, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("sfh: line %d: bad rate: %w", line, err)
		}
		// yr -> Gyr for time, Msun/yr -> Msun/Gyr for the rate.
		raw = append(raw, Sample{Time: t * 1e-9, SFR: s * 1e9})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return raw, nil
}

// New validates raw samples and extrapolates them backward to MinTime
// using a power law with exponent gamma anchored on the first row.
func New(raw []Sample, gamma float64) (*History, error) {
	if len(raw) < 2 {
		return nil, ErrTooFewRows
	}
	for i := 1; i < len(raw); i++ {
		if raw[i].Time <= raw[i-1].Time {
			return nil, fmt.Errorf("%w: row %d", ErrNotAscending, i)
		}
	}
	return &History{samples: extrapolate(raw, gamma)}, nil
}

// Load reads and parses a history file.
func Load(path string, gamma float64) (*History, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	raw, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("sfh: %s: %w", path, err)
	}
	h, err := New(raw, gamma)
	if err != nil {
		return nil, fmt.Errorf("sfh: %s: %w", path, err)
	}
	return h, nil
}

// extrapolate prepends log-spaced samples from MinTime up to the first
// tabulated time, following sfr = sfr0 * (t/t0)^gamma.
func extrapolate(raw []Sample, gamma float64) []Sample {
	t0, s0 := raw[0].Time, raw[0].SFR
	if t0 <= MinTime {
		out := make([]Sample, len(raw))
		copy(out, raw)
		return out
	}

	out := make([]Sample, 0, backfillPoints+len(raw))
	logLo, logHi := math.Log10(MinTime), math.Log10(t0)
	for i := 0; i < backfillPoints; i++ {
		t := math.Pow(10, logLo+(logHi-logLo)*float64(i)/float64(backfillPoints))
		out = append(out, Sample{Time: t, SFR: s0 * math.Pow(t/t0, gamma)})
	}
	return append(out, raw...)
}

// At returns the star-formation rate at the grid time nearest to t.
func (h *History) At(t float64) float64 {
	i := h.nearest(t)
	return h.samples[i].SFR
}

func (h *History) nearest(t float64) int {
	lo, hi := 0, len(h.samples)
	for lo < hi {
		mid := (lo + hi) / 2
		if h.samples[mid].Time < t {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == 0 {
		return 0
	}
	if lo == len(h.samples) {
		return len(h.samples) - 1
	}
	if t-h.samples[lo-1].Time <= h.samples[lo].Time-t {
		return lo - 1
	}
	return lo
}

// Grid returns the history times strictly before tend. This is the
// time grid both the supernova-rate precomputation and the main
// integration run on.
func (h *History) Grid(tend float64) []float64 {
	out := make([]float64, 0, len(h.samples))
	for _, s := range h.samples {
		if s.Time >= tend {
			break
		}
		out = append(out, s.Time)
	}
	return out
}

// Samples returns a copy of the full history.
func (h *History) Samples() []Sample {
	out := make([]Sample, len(h.samples))
	copy(out, h.samples)
	return out
}

// Len returns the number of grid points.
func (h *History) Len() int { return len(h.samples) }

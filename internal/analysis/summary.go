// Package analysis derives diagnostics from finished runs: scalar
// summaries of a whole evolution and named column extraction for
// plotting.
package analysis

import (
	"fmt"

	"github.com/steve-maddox/chemevol/internal/evolve"
)

// Summary condenses a run into the quantities usually quoted for a
// model galaxy.
type Summary struct {
	FinalTime        float64
	FinalGasFraction float64 // mgas / (mgas + mstars)
	FinalMetallicity float64
	FinalDustMass    float64
	FinalDustToMetal float64

	PeakSFR     float64 // Msun/yr
	PeakSFRTime float64

	MaxDustToMetal     float64
	MaxDustToMetalTime float64

	// Mean timescales in Gyr over the steps where the process was
	// active (non-zero timescale).
	MeanDestructionTimescale float64
	MeanGrainGrowthTimescale float64

	GasExhausted bool
}

// Summarize reduces a result to its Summary. An empty result yields
// the zero Summary.
func Summarize(res *evolve.Result) Summary {
	var s Summary
	if len(res.Records) == 0 {
		return s
	}

	final := res.Final()
	s.FinalTime = final.Time
	if total := final.GasMass + final.StellarMass; total > 0 {
		s.FinalGasFraction = final.GasMass / total
	}
	s.FinalMetallicity = final.Metallicity
	s.FinalDustMass = final.DustMass
	s.FinalDustToMetal = final.DustToMetal
	s.GasExhausted = res.Status == evolve.StatusGasExhausted

	var desSum, desN, ggSum, ggN float64
	for _, rec := range res.Records {
		if rec.SFR > s.PeakSFR {
			s.PeakSFR = rec.SFR
			s.PeakSFRTime = rec.Time
		}
		if rec.DustToMetal > s.MaxDustToMetal {
			s.MaxDustToMetal = rec.DustToMetal
			s.MaxDustToMetalTime = rec.Time
		}
		if rec.DestructionTimescale > 0 {
			desSum += rec.DestructionTimescale
			desN++
		}
		if rec.GrainGrowthTimescale > 0 {
			ggSum += rec.GrainGrowthTimescale
			ggN++
		}
	}
	if desN > 0 {
		s.MeanDestructionTimescale = desSum / desN
	}
	if ggN > 0 {
		s.MeanGrainGrowthTimescale = ggSum / ggN
	}
	return s
}

// Columns lists the names Column accepts, in results.dat order.
var Columns = []string{
	"mgas", "mstars", "mmetals", "metallicity", "mdust", "dust_to_metal",
	"sfr", "mdust_all", "mdust_stars", "mdust_gg", "t_destroy",
	"t_graingrowth", "moxygen", "fg", "ssfr",
}

// Column extracts one named series from the records, with the times
// alongside. The derived fg and ssfr columns are computed on the fly.
func Column(records []evolve.Record, name string) (times, values []float64, err error) {
	pick, ok := pickers[name]
	if !ok {
		return nil, nil, fmt.Errorf("analysis: unknown column %q", name)
	}
	times = make([]float64, len(records))
	values = make([]float64, len(records))
	for i, rec := range records {
		times[i] = rec.Time
		values[i] = pick(rec)
	}
	return times, values, nil
}

var pickers = map[string]func(evolve.Record) float64{
	"mgas":          func(r evolve.Record) float64 { return r.GasMass },
	"mstars":        func(r evolve.Record) float64 { return r.StellarMass },
	"mmetals":       func(r evolve.Record) float64 { return r.MetalMass },
	"metallicity":   func(r evolve.Record) float64 { return r.Metallicity },
	"mdust":         func(r evolve.Record) float64 { return r.DustMass },
	"dust_to_metal": func(r evolve.Record) float64 { return r.DustToMetal },
	"sfr":           func(r evolve.Record) float64 { return r.SFR },
	"mdust_all":     func(r evolve.Record) float64 { return r.DustAll },
	"mdust_stars":   func(r evolve.Record) float64 { return r.DustStars },
	"mdust_gg":      func(r evolve.Record) float64 { return r.DustGrainGrowth },
	"t_destroy":     func(r evolve.Record) float64 { return r.DestructionTimescale },
	"t_graingrowth": func(r evolve.Record) float64 { return r.GrainGrowthTimescale },
	"moxygen":       func(r evolve.Record) float64 { return r.OxygenMass },
	"fg": func(r evolve.Record) float64 {
		if total := r.GasMass + r.StellarMass; total > 0 {
			return r.GasMass / total
		}
		return 0
	},
	"ssfr": func(r evolve.Record) float64 {
		if r.GasMass > 0 {
			return r.SFR / r.GasMass
		}
		return 0
	},
}

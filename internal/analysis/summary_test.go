package analysis

import (
	"math"
	"testing"

	"github.com/steve-maddox/chemevol/internal/evolve"
)

func sampleResult(status evolve.Status) *evolve.Result {
	return &evolve.Result{
		Status: status,
		Records: []evolve.Record{
			{Time: 0.5, GasMass: 4e10, SFR: 2.0, DustToMetal: 0.05,
				DestructionTimescale: 2.0, GrainGrowthTimescale: 0},
			{Time: 1.0, GasMass: 3.8e10, StellarMass: 2e9, SFR: 5.0, DustToMetal: 0.2,
				DestructionTimescale: 4.0, GrainGrowthTimescale: 1.0},
			{Time: 2.0, GasMass: 3.5e10, StellarMass: 5e9, MetalMass: 2e8,
				Metallicity: 0.005, DustMass: 1e7, SFR: 3.0, DustToMetal: 0.1,
				DestructionTimescale: 0, GrainGrowthTimescale: 3.0},
		},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleResult(evolve.StatusCompleted))

	if s.FinalTime != 2.0 {
		t.Errorf("final time = %g", s.FinalTime)
	}
	if want := 3.5e10 / 4.0e10; math.Abs(s.FinalGasFraction-want) > 1e-12 {
		t.Errorf("gas fraction = %g, want %g", s.FinalGasFraction, want)
	}
	if s.FinalMetallicity != 0.005 || s.FinalDustMass != 1e7 {
		t.Errorf("final reservoirs: %+v", s)
	}
	if s.PeakSFR != 5.0 || s.PeakSFRTime != 1.0 {
		t.Errorf("peak SFR = %g at %g", s.PeakSFR, s.PeakSFRTime)
	}
	if s.MaxDustToMetal != 0.2 || s.MaxDustToMetalTime != 1.0 {
		t.Errorf("max dust-to-metal = %g at %g", s.MaxDustToMetal, s.MaxDustToMetalTime)
	}
	// Means skip the steps where the process was inactive.
	if want := 3.0; math.Abs(s.MeanDestructionTimescale-want) > 1e-12 {
		t.Errorf("mean destruction timescale = %g, want %g", s.MeanDestructionTimescale, want)
	}
	if want := 2.0; math.Abs(s.MeanGrainGrowthTimescale-want) > 1e-12 {
		t.Errorf("mean grain-growth timescale = %g, want %g", s.MeanGrainGrowthTimescale, want)
	}
	if s.GasExhausted {
		t.Error("completed run flagged as exhausted")
	}
}

func TestSummarizeExhausted(t *testing.T) {
	if s := Summarize(sampleResult(evolve.StatusGasExhausted)); !s.GasExhausted {
		t.Error("exhausted run not flagged")
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if s := Summarize(&evolve.Result{}); s != (Summary{}) {
		t.Errorf("empty result should give zero summary, got %+v", s)
	}
}

func TestColumn(t *testing.T) {
	records := sampleResult(evolve.StatusCompleted).Records

	times, gas, err := Column(records, "mgas")
	if err != nil {
		t.Fatal(err)
	}
	if len(times) != 3 || times[1] != 1.0 || gas[0] != 4e10 {
		t.Errorf("bad mgas column: %v %v", times, gas)
	}

	_, fg, err := Column(records, "fg")
	if err != nil {
		t.Fatal(err)
	}
	if want := 3.5e10 / 4.0e10; math.Abs(fg[2]-want) > 1e-12 {
		t.Errorf("fg[2] = %g, want %g", fg[2], want)
	}

	if _, _, err := Column(records, "entropy"); err == nil {
		t.Error("expected error for unknown column")
	}
}

func TestColumnNamesResolve(t *testing.T) {
	records := sampleResult(evolve.StatusCompleted).Records
	for _, name := range Columns {
		if _, _, err := Column(records, name); err != nil {
			t.Errorf("column %s: %v", name, err)
		}
	}
}

package stars

import (
	"testing"

	"github.com/steve-maddox/chemevol/internal/imf"
)

func constantBirth(sfr, z, oz float64) BirthFunc {
	return func(t float64) Birth {
		return Birth{SFR: sfr, Metallicity: z, OxygenZ: oz}
	}
}

func baseParams() Params {
	return Params{
		IMF:           imf.Chabrier,
		DeltaLIMS:     0.15,
		SNDustDivisor: 1,
		SNDust:        true,
		LIMSDust:      true,
	}
}

func TestIntegrateZeroBeforeStart(t *testing.T) {
	got := Integrate(0, 0, constantBirth(1e9, 0.02, 0.01), baseParams())
	if got != (Ejected{}) {
		t.Errorf("expected zero ejecta at t=0, got %+v", got)
	}
}

func TestIntegrateZeroWithoutStarFormation(t *testing.T) {
	got := Integrate(1, 0.02, constantBirth(0, 0.02, 0.01), baseParams())
	if got != (Ejected{}) {
		t.Errorf("expected zero ejecta with SFR=0, got %+v", got)
	}
}

func TestIntegratePositiveComponents(t *testing.T) {
	got := Integrate(1, 0.02, constantBirth(1e9, 0.02, 0.01), baseParams())
	if got.Gas <= 0 || got.Metals <= 0 || got.Oxygen <= 0 || got.Dust <= 0 {
		t.Fatalf("expected all components positive, got %+v", got)
	}
	// Metals are a minor fraction of the total returned mass.
	if got.Metals >= got.Gas {
		t.Errorf("metal ejecta %g should be below gas ejecta %g", got.Metals, got.Gas)
	}
	if got.Oxygen >= got.Metals {
		t.Errorf("oxygen ejecta %g should be below metal ejecta %g", got.Oxygen, got.Metals)
	}
}

func TestIntegrateGrowsWithTime(t *testing.T) {
	// As t grows the lower mass bound drops, so more stars contribute.
	birth := constantBirth(1e9, 0.02, 0.01)
	early := Integrate(0.05, 0.02, birth, baseParams())
	late := Integrate(5, 0.02, birth, baseParams())
	if late.Gas <= early.Gas {
		t.Errorf("gas ejecta should grow with the dying-mass window: %g vs %g", early.Gas, late.Gas)
	}
}

func TestIntegrateDustChannels(t *testing.T) {
	birth := constantBirth(1e9, 0.02, 0.01)

	all := baseParams()
	snOnly := baseParams()
	snOnly.LIMSDust = false
	limsOnly := baseParams()
	limsOnly.SNDust = false
	none := baseParams()
	none.SNDust = false
	none.LIMSDust = false

	// At t=5 Gyr both LIMS and supernova progenitors are dying.
	dAll := Integrate(5, 0.02, birth, all).Dust
	dSN := Integrate(5, 0.02, birth, snOnly).Dust
	dLIMS := Integrate(5, 0.02, birth, limsOnly).Dust
	dNone := Integrate(5, 0.02, birth, none).Dust

	if dSN <= 0 || dLIMS <= 0 {
		t.Fatalf("both channels should produce dust at 5 Gyr: SN=%g LIMS=%g", dSN, dLIMS)
	}
	if diff := dAll - (dSN + dLIMS); diff > 1e-6*dAll || diff < -1e-6*dAll {
		t.Errorf("channels should sum: ALL=%g, SN+LIMS=%g", dAll, dSN+dLIMS)
	}
	if dNone != 0 {
		t.Errorf("no channels should mean no dust, got %g", dNone)
	}

	// Shortly after the start only massive stars have died, so the
	// LIMS channel is still empty.
	if d := Integrate(0.02, 0.02, birth, limsOnly).Dust; d != 0 {
		t.Errorf("LIMS dust before any LIMS death should be 0, got %g", d)
	}
}

func TestIntegrateSNDustReduction(t *testing.T) {
	birth := constantBirth(1e9, 0.02, 0.01)
	p := baseParams()
	p.LIMSDust = false

	full := Integrate(0.02, 0.02, birth, p).Dust
	p.SNDustDivisor = 5
	reduced := Integrate(0.02, 0.02, birth, p).Dust
	if full <= 0 {
		t.Fatal("expected SN dust at 0.02 Gyr")
	}
	if got, want := full/reduced, 5.0; got < want-1e-9 || got > want+1e-9 {
		t.Errorf("reduction ratio = %g, want 5", got)
	}

	// A non-positive divisor falls back to no reduction.
	p.SNDustDivisor = 0
	if d := Integrate(0.02, 0.02, birth, p).Dust; d != full {
		t.Errorf("zero divisor should mean unreduced dust: %g vs %g", d, full)
	}
}

func TestIntegrateTopHeavyEjectsMore(t *testing.T) {
	// A top-heavy mass function puts more mass in dying massive stars.
	birth := constantBirth(1e9, 0.02, 0.01)
	chab := baseParams()
	top := baseParams()
	top.IMF = imf.TopHeavyChabrier

	if c, th := Integrate(0.05, 0.02, birth, chab), Integrate(0.05, 0.02, birth, top); th.Gas <= c.Gas {
		t.Errorf("top-heavy ejecta %g should exceed Chabrier %g", th.Gas, c.Gas)
	}
}

// Package stars integrates the stellar mass function over lifetimes to
// obtain the mass returned to the interstellar medium at an instant.
// Stars of mass m dying at time t were born at t - lifetime(m); the
// integral weights each mass by the star-formation rate prevailing at
// that birth time, so the caller supplies a lookup into the running
// integration history.
package stars

import (
	"github.com/steve-maddox/chemevol/internal/imf"
	"github.com/steve-maddox/chemevol/internal/lookups"
)

// MassStep is the Riemann step of the mass integral in Msun.
const MassStep = 0.5

// LIMSMaxMass is the heaviest star counted as a low/intermediate-mass
// dust producer.
const LIMSMaxMass = 8.0

// Birth describes the interstellar medium at a star's formation time.
type Birth struct {
	SFR         float64 // Msun/Gyr
	Metallicity float64
	OxygenZ     float64
}

// BirthFunc resolves the conditions at time t in Gyr from the running
// integration history. Queries never exceed the current model time.
type BirthFunc func(t float64) Birth

// Params selects the dust channels and their efficiencies.
type Params struct {
	IMF           imf.Kind
	DeltaLIMS     float64 // metal-to-dust condensation efficiency for LIMS ejecta
	SNDustDivisor float64 // fresh SN dust is divided by this, 1 = unreduced
	SNDust        bool
	LIMSDust      bool
}

// Ejected aggregates the mass returned to the gas during one instant,
// all in Msun/Gyr once weighted by the birth star-formation rates.
type Ejected struct {
	Gas    float64
	Metals float64
	Oxygen float64
	Dust   float64
}

// Integrate sums the ejecta of all stars dying at time t. The lower
// bound is the mass whose main-sequence lifetime equals t: anything
// lighter, born at the start, is still alive. Metals and oxygen combine
// freshly synthesized yields with the recycled birth-metallicity share
// of the returned envelope; dust follows the configured channels, with
// LIMS condensing DeltaLIMS of their metal ejecta and supernovae
// contributing their tabulated condensed mass.
func Integrate(t, z float64, birth BirthFunc, p Params) Ejected {
	var out Ejected
	if t <= 0 {
		return out
	}

	divisor := p.SNDustDivisor
	if divisor <= 0 {
		divisor = 1
	}

	mMin := lookups.MassFromLifetime(t, z)
	for m := mMin; m <= lookups.MaxTableMass; m += MassStep {
		lifetime := lookups.Lifetime(m, z)
		tBirth := t - lifetime
		if tBirth <= 0 {
			continue
		}
		b := birth(tBirth)
		if b.SFR <= 0 {
			continue
		}

		// Number of stars of mass m dying per Gyr at this instant.
		weight := p.IMF.Density(m) * MassStep * b.SFR

		returned := m - lookups.RemnantMass(m)
		if returned <= 0 {
			continue
		}
		out.Gas += returned * weight

		fresh := lookups.FreshMetals(m, b.Metallicity)
		recycled := b.Metallicity * returned
		out.Metals += (fresh + recycled) * weight
		out.Oxygen += (lookups.FreshOxygen(m, b.Metallicity) + b.OxygenZ*returned) * weight

		switch {
		case m <= LIMSMaxMass && p.LIMSDust:
			out.Dust += p.DeltaLIMS * (fresh + recycled) * weight
		case m >= lookups.MinSNMass && m <= lookups.MaxSNMass && p.SNDust:
			out.Dust += lookups.SNDustMass(m) / divisor * weight
		}
	}
	return out
}

// Package physics provides the instantaneous rate terms of the galaxy
// mass-balance equations. Every function is stateless: it maps current
// reservoir scalars and configuration to a rate in Msun/Gyr.
//
// Edge policy: any term whose denominator (gas mass, metal mass) is
// non-positive evaluates to zero so the integration stays well defined
// through near-total depletion.
package physics

import (
	"math"

	"github.com/steve-maddox/chemevol/internal/config"
)

// Astration returns the rate at which a mass component is locked into
// new stars: (component/gas) * SFR.
func Astration(componentMass, gasMass, sfr float64) float64 {
	if gasMass <= 0 {
		return 0
	}
	return componentMass / gasMass * sfr
}

// GasFlows returns the gas inflow and outflow rates, each proportional
// to the star-formation rate by its configured multiplier.
func GasFlows(in config.Inflows, out config.Outflows, sfr float64) (inflow, outflow float64) {
	if in.On {
		inflow = in.XSFR * sfr
	}
	if out.On {
		outflow = out.XSFR * sfr
	}
	return inflow, outflow
}

// MetalFlows returns the metal and oxygen mass carried by inflows and
// outflows. Inflowing gas has the configured fixed metallicity, with
// oxygen at OxygenMetalFraction of the inflowing metals; outflowing
// gas carries the system's current metallicity when the outflow metal
// switch is set, otherwise it is metal-free.
func MetalFlows(in config.Inflows, out config.Outflows, sfr, metallicity, oxyMetallicity float64) (metalIn, metalOut, oxyIn, oxyOut float64) {
	gasIn, gasOut := GasFlows(in, out, sfr)
	if in.On {
		metalIn = in.Metals * gasIn
		oxyIn = OxygenMetalFraction * in.Metals * gasIn
	}
	if out.On && out.Metals {
		metalOut = metallicity * gasOut
		oxyOut = oxyMetallicity * gasOut
	}
	return metalIn, metalOut, oxyIn, oxyOut
}

// OxygenMetalFraction is the oxygen share of inflowing metal mass.
const OxygenMetalFraction = 0.64

// DustFlows returns the dust mass carried by inflows (fixed dust
// fraction) and outflows (the system's dust-to-gas ratio when the
// outflow dust switch is set).
func DustFlows(in config.Inflows, out config.Outflows, sfr, dustToGas float64) (dustIn, dustOut float64) {
	gasIn, gasOut := GasFlows(in, out, sfr)
	if in.On {
		dustIn = in.Dust * gasIn
	}
	if out.On && out.Dust {
		dustOut = dustToGas * gasOut
	}
	return dustIn, dustOut
}

// GrainGrowth returns the rate of dust growth by accretion of metals
// onto grains in the cold ISM, and the growth timescale in Gyr. The
// timescale follows Mattsson & Andersen (2012): t_grow scales
// inversely with metallicity, star-formation efficiency and the
// configured epsilon.
func GrainGrowth(on bool, epsilon, gasMass, sfr, metallicity, dustMass, coldFraction, availableFraction float64) (rate, timescale float64) {
	if !on || metallicity <= 0 || gasMass <= 0 || epsilon <= 0 || sfr <= 0 {
		return 0, 0
	}

	// Characteristic single-grain growth time before the epsilon
	// speed-up, in Gyr.
	timescale = gasMass / (epsilon * metallicity * sfr)
	if timescale <= 0 {
		return 0, 0
	}

	available := availableFraction * metallicity * gasMass
	if available <= 0 {
		return 0, timescale
	}

	rate = coldFraction * dustMass * (1 - dustMass/available) / timescale
	if rate < 0 {
		// More dust than growable metals: growth saturates.
		rate = 0
	}
	return rate, timescale
}

// DestroyDust returns the rate of dust destruction by supernova shocks
// and the destruction timescale in Gyr. Each supernova clears
// destructMass of ISM of its dust; only the diffuse (non-cold) phase
// is exposed to shocks.
func DestroyDust(on bool, destructMass, gasMass, snRate, dustMass, coldFraction, effSNRateFactor float64) (rate, timescale float64) {
	if !on || gasMass <= 0 || snRate <= 0 || destructMass <= 0 {
		return 0, 0
	}

	cleared := destructMass * snRate * effSNRateFactor
	if cleared <= 0 {
		return 0, 0
	}
	timescale = gasMass / cleared
	rate = (1 - coldFraction) * dustMass / timescale
	return rate, timescale
}

// DustToGas returns dust/gas guarded against a non-positive gas mass.
func DustToGas(dustMass, gasMass float64) float64 {
	if gasMass <= 0 {
		return 0
	}
	return dustMass / gasMass
}

// Metallicity returns species/gas guarded against a non-positive gas
// mass and clamped to [0, 1].
func Metallicity(speciesMass, gasMass float64) float64 {
	if gasMass <= 0 {
		return 0
	}
	z := speciesMass / gasMass
	if z < 0 {
		return 0
	}
	return math.Min(z, 1)
}

// Package evolve advances the coupled gas, stellar, metal, oxygen and
// dust reservoirs of a galaxy over its star-formation history. The
// integration is an explicit forward-Euler loop on the history's own
// non-uniform time grid; each step evaluates the instantaneous rate
// terms and the stellar ejecta integral against the state accumulated
// so far.
package evolve

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/steve-maddox/chemevol/internal/config"
	"github.com/steve-maddox/chemevol/internal/lookups"
	"github.com/steve-maddox/chemevol/internal/physics"
	"github.com/steve-maddox/chemevol/internal/sfh"
	"github.com/steve-maddox/chemevol/internal/stars"
)

// Supernova-rate integral steps in Msun: fine below the coarsening
// mass, coarse above.
const (
	snFineStep     = 0.01
	snCoarseStep   = 0.5
	snCoarsenAbove = 10.0
)

var (
	// ErrMissingSNRate is returned by Run when no precomputed
	// supernova-rate series is supplied.
	ErrMissingSNRate = errors.New("evolve: supernova rate series required, call SupernovaRate first")

	// ErrGridMismatch is returned by Run when the supplied
	// supernova-rate series was built for a different time grid.
	ErrGridMismatch = errors.New("evolve: supernova rate series does not match the time grid")
)

// StepError reports a step whose state left the finite domain.
type StepError struct {
	Step    int
	Time    float64
	Message string
}

func (e StepError) Error() string {
	return fmt.Sprintf("evolve: step %d (t=%.4f Gyr): %s", e.Step, e.Time, e.Message)
}

// Status reports how a run ended.
type Status int

const (
	// StatusCompleted means the integration exhausted the time grid.
	StatusCompleted Status = iota

	// StatusGasExhausted means star formation consumed the gas
	// reservoir before the end time. This is a reported outcome of
	// the model, not an error.
	StatusGasExhausted
)

func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusGasExhausted:
		return "gas exhausted"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Record is one immutable per-step snapshot of the reservoir state.
// Masses are in Msun, times and timescales in Gyr; SFR is reported in
// Msun/yr for direct comparison with observations.
type Record struct {
	Time                 float64
	GasMass              float64
	StellarMass          float64
	MetalMass            float64
	Metallicity          float64
	DustMass             float64
	DustToMetal          float64
	SFR                  float64
	DustAll              float64 // cumulative dust produced, all sources
	DustStars            float64 // cumulative dust from stellar ejecta
	DustGrainGrowth      float64 // cumulative dust from grain growth
	DestructionTimescale float64
	GrainGrowthTimescale float64
	OxygenMass           float64
}

// SNRateSeries is the precomputed supernova rate on the truncated time
// grid, read-only during the main integration.
type SNRateSeries struct {
	Times []float64 // Gyr, strictly increasing, < end time
	Rates []float64 // events per Gyr
}

// Result is the sole output artifact of a run.
type Result struct {
	Galaxy  config.Galaxy
	Records []Record
	Status  Status
}

// Final returns the last record of the run.
func (r *Result) Final() Record {
	if len(r.Records) == 0 {
		return Record{}
	}
	return r.Records[len(r.Records)-1]
}

// Engine integrates one galaxy. It owns no mutable state between runs,
// so repeated Run calls with the same inputs produce identical results.
type Engine struct {
	cfg     config.Galaxy
	history *sfh.History
}

// New builds an engine for the configuration, loading its
// star-formation history.
func New(cfg config.Galaxy) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	h, err := cfg.History()
	if err != nil {
		return nil, fmt.Errorf("evolve: %s: %w", cfg.Name, err)
	}
	return &Engine{cfg: cfg, history: h}, nil
}

// NewWithHistory builds an engine around an already-loaded history.
func NewWithHistory(cfg config.Galaxy, h *sfh.History) *Engine {
	return &Engine{cfg: cfg, history: h}
}

// Galaxy returns the engine's configuration.
func (e *Engine) Galaxy() config.Galaxy { return e.cfg }

// SupernovaRate precomputes the supernova rate at every grid time
// before the end time. The minimum exploding progenitor mass at time t
// comes from the lifetime table until stars of the minimum supernova
// mass born at t=0 have had time to die; from then on it is fixed at
// that minimum mass. The rate is the mass-function number integral
// over exploding masses times the instantaneous star-formation rate.
//
// The returned series also fixes the time grid of the main loop, so it
// must be computed once per run and handed to Run.
func (e *Engine) SupernovaRate() *SNRateSeries {
	grid := e.history.Grid(e.cfg.EndTime)
	cutoff := lookups.Lifetime(lookups.MinSNMass, lookups.BranchThreshold)

	sn := &SNRateSeries{
		Times: grid,
		Rates: make([]float64, len(grid)),
	}
	for i, t := range grid {
		mMin := lookups.MinSNMass
		if t < cutoff {
			mMin = lookups.MassFromLifetime(t, lookups.BranchThreshold)
			if mMin > lookups.MaxSNMass {
				continue // nothing heavy enough has died yet
			}
		}
		number := e.cfg.IMF.Kind.NumberIntegral(mMin, lookups.MaxSNMass, snFineStep, snCoarseStep)
		sn.Rates[i] = number * e.history.At(t)
	}
	return sn
}

// Run integrates the reservoirs over the supernova series' time grid.
// Each step advances the state by rate * dt with the non-uniform dt of
// the grid, appends a record, and terminates early once the gas
// reservoir is exhausted; the last record always holds the last
// positive gas mass. The context is checked every step.
func (e *Engine) Run(ctx context.Context, sn *SNRateSeries) (*Result, error) {
	if sn == nil {
		return nil, ErrMissingSNRate
	}
	if len(sn.Times) != len(sn.Rates) || len(sn.Times) != len(e.history.Grid(e.cfg.EndTime)) {
		return nil, ErrGridMismatch
	}

	cfg := e.cfg
	params := stars.Params{
		IMF:           cfg.IMF.Kind,
		DeltaLIMS:     cfg.DeltaLIMS,
		SNDustDivisor: cfg.ReduceSNDust.EffectiveFactor(),
		SNDust:        cfg.DustSource.SN(),
		LIMSDust:      cfg.DustSource.LIMS(),
	}

	res := &Result{
		Galaxy:  cfg,
		Records: make([]Record, 0, len(sn.Times)),
		Status:  StatusCompleted,
	}

	// Running metallicity history for the birth-time lookups of the
	// ejecta integral. Grows one entry per recorded step.
	zTimes := make([]float64, 0, len(sn.Times))
	zVals := make([]float64, 0, len(sn.Times))
	ozVals := make([]float64, 0, len(sn.Times))
	birth := func(t float64) stars.Birth {
		b := stars.Birth{SFR: e.history.At(t)}
		if len(zTimes) > 0 {
			b.Metallicity, _ = lookups.Nearest(zTimes, zVals, t)
			b.OxygenZ, _ = lookups.Nearest(zTimes, ozVals, t)
		}
		return b
	}

	var (
		gas       = cfg.GasMassInit
		mstars    float64
		metals    float64
		oxygen    float64
		dust      float64
		dustStars float64
		dustGG    float64
	)

	prev := sn.Times[0]
	for i, t := range sn.Times {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		dt := t - prev
		sfr := e.history.At(t)
		z := physics.Metallicity(metals, gas)
		oz := physics.Metallicity(oxygen, gas)
		dtg := physics.DustToGas(dust, gas)

		ej := stars.Integrate(t, z, birth, params)

		gasIn, gasOut := physics.GasFlows(cfg.Inflows, cfg.Outflows, sfr)
		metalIn, metalOut, oxyIn, oxyOut := physics.MetalFlows(cfg.Inflows, cfg.Outflows, sfr, z, oz)
		dustIn, dustOut := physics.DustFlows(cfg.Inflows, cfg.Outflows, sfr, dtg)

		ggRate, ggTime := physics.GrainGrowth(cfg.DustSource.GrainGrowth(), cfg.EpsilonGrain,
			gas, sfr, z, dust, cfg.ColdGasFraction, cfg.AvailableMetalFraction)
		desRate, desTime := physics.DestroyDust(cfg.Destroy.On, cfg.Destroy.Mass,
			gas, sn.Rates[i], dust, cfg.ColdGasFraction, cfg.EffectiveSNRateFactor)

		// Conservation right-hand sides, Msun/Gyr.
		dGas := -sfr + ej.Gas + gasIn - gasOut
		dMetals := -physics.Astration(metals, gas, sfr) + ej.Metals + metalIn - metalOut
		dOxygen := -physics.Astration(oxygen, gas, sfr) + ej.Oxygen + oxyIn - oxyOut
		dDust := -physics.Astration(dust, gas, sfr) + ej.Dust + dustIn - dustOut + ggRate - desRate

		gas += dGas * dt
		mstars += (sfr - ej.Gas) * dt
		metals = clampMass(metals + dMetals*dt)
		oxygen = clampMass(oxygen + dOxygen*dt)
		dust = clampMass(dust + dDust*dt)
		dustStars += ej.Dust * dt
		dustGG += ggRate * dt

		if gas <= 0 {
			res.Status = StatusGasExhausted
			break
		}
		if math.IsNaN(gas) || math.IsInf(gas, 0) {
			return res, StepError{Step: i, Time: t, Message: "gas mass is not finite"}
		}

		zNow := physics.Metallicity(metals, gas)
		ozNow := physics.Metallicity(oxygen, gas)
		res.Records = append(res.Records, Record{
			Time:                 t,
			GasMass:              gas,
			StellarMass:          mstars,
			MetalMass:            metals,
			Metallicity:          zNow,
			DustMass:             dust,
			DustToMetal:          dustToMetal(dust, metals, gas),
			SFR:                  sfr * 1e-9,
			DustAll:              dustStars + dustGG,
			DustStars:            dustStars,
			DustGrainGrowth:      dustGG,
			DestructionTimescale: desTime,
			GrainGrowthTimescale: ggTime,
			OxygenMass:           oxygen,
		})
		zTimes = append(zTimes, t)
		zVals = append(zVals, zNow)
		ozVals = append(ozVals, ozNow)
		prev = t
	}

	return res, nil
}

func clampMass(m float64) float64 {
	if m < 0 {
		return 0
	}
	return m
}

// dustToMetal guards the diagnostic ratio: it is zero, not undefined,
// whenever gas or metals are depleted.
func dustToMetal(dust, metals, gas float64) float64 {
	if gas <= 0 || metals <= 0 {
		return 0
	}
	return dust / metals
}

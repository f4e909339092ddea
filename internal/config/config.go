package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/steve-maddox/chemevol/internal/imf"
	"github.com/steve-maddox/chemevol/internal/sfh"
	"gopkg.in/yaml.v3"
)

// Default parameter values, matching the reference Milky Way setup.
const (
	DefaultGasMassInit     = 4e10
	DefaultEndTime         = 20.0
	DefaultDeltaLIMS       = 0.15
	DefaultDestroyMass     = 1000.0
	DefaultColdFraction    = 0.5
	DefaultAvailableMetals = 0.3
	DefaultSNRateFactor    = 0.36
	DefaultEpsilonGrain    = 500.0
)

// IMFChoice wraps an imf.Kind so the alias set is decoded exactly once
// while unmarshaling; unrecognized spellings are configuration errors.
type IMFChoice struct {
	Kind imf.Kind
}

func (c IMFChoice) String() string { return c.Kind.String() }

func (c IMFChoice) MarshalYAML() (interface{}, error) { return c.Kind.String(), nil }

func (c *IMFChoice) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	k, err := imf.ParseKind(s)
	if err != nil {
		return err
	}
	c.Kind = k
	return nil
}

func (c IMFChoice) MarshalJSON() ([]byte, error) { return json.Marshal(c.Kind.String()) }

func (c *IMFChoice) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	k, err := imf.ParseKind(s)
	if err != nil {
		return err
	}
	c.Kind = k
	return nil
}

// DustSource selects which dust production channels are active.
type DustSource int

const (
	DustSN DustSource = iota
	DustLIMS
	DustSNAndLIMS
	DustAll // SN + LIMS + grain growth
)

func (d DustSource) SN() bool          { return d == DustSN || d == DustSNAndLIMS || d == DustAll }
func (d DustSource) LIMS() bool        { return d == DustLIMS || d == DustSNAndLIMS || d == DustAll }
func (d DustSource) GrainGrowth() bool { return d == DustAll }

func (d DustSource) String() string {
	switch d {
	case DustSN:
		return "SN"
	case DustLIMS:
		return "LIMS"
	case DustSNAndLIMS:
		return "SN+LIMS"
	case DustAll:
		return "ALL"
	}
	return fmt.Sprintf("dust(%d)", int(d))
}

// ParseDustSource decodes a dust-source alias; anything outside the
// closed set is an error.
func ParseDustSource(s string) (DustSource, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SN":
		return DustSN, nil
	case "LIMS":
		return DustLIMS, nil
	case "SN+LIMS", "LIMS+SN":
		return DustSNAndLIMS, nil
	case "ALL":
		return DustAll, nil
	}
	return 0, fmt.Errorf("config: unknown dust source %q (want SN, LIMS, SN+LIMS or ALL)", s)
}

func (d DustSource) MarshalYAML() (interface{}, error) { return d.String(), nil }

func (d *DustSource) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := ParseDustSource(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d DustSource) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

func (d *DustSource) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseDustSource(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ReduceSNDust optionally scales down the fresh supernova dust yields
// by Factor (1 = no reduction).
type ReduceSNDust struct {
	On     bool    `yaml:"on" json:"on"`
	Factor float64 `yaml:"factor" json:"factor"`
}

// EffectiveFactor resolves the switch to the divisor applied to fresh
// SN dust yields.
func (r ReduceSNDust) EffectiveFactor() float64 {
	if !r.On || r.Factor == 0 {
		return 1
	}
	return r.Factor
}

// Destroy switches on dust destruction by supernova shocks; Mass is
// the ISM mass cleared of dust per supernova event (Msun).
type Destroy struct {
	On   bool    `yaml:"on" json:"on"`
	Mass float64 `yaml:"mass" json:"mass"`
}

// Inflows configures gas inflow: rate = XSFR * SFR, carrying metals at
// fixed metallicity Metals and a fixed dust fraction Dust.
type Inflows struct {
	On     bool    `yaml:"on" json:"on"`
	Metals float64 `yaml:"metals" json:"metals"`
	XSFR   float64 `yaml:"xsfr" json:"xsfr"`
	Dust   float64 `yaml:"dust" json:"dust"`
}

// Outflows configures gas outflow at rate XSFR * SFR. Metals and Dust
// select whether the outflowing gas carries the system's current
// metallicity / dust-to-gas ratio (true) or is pristine (false).
type Outflows struct {
	On     bool    `yaml:"on" json:"on"`
	XSFR   float64 `yaml:"xsfr" json:"xsfr"`
	Metals bool    `yaml:"metals" json:"metals"`
	Dust   bool    `yaml:"dust" json:"dust"`
}

// Galaxy is one immutable per-run configuration record.
type Galaxy struct {
	Name         string       `yaml:"name" json:"name"`
	GasMassInit  float64      `yaml:"gasmass_init" json:"gasmass_init"`
	SFH          string       `yaml:"sfh" json:"sfh"` // empty = bundled Milky Way history
	EndTime      float64      `yaml:"t_end" json:"t_end"`
	Gamma        float64      `yaml:"gamma" json:"gamma"`
	IMF          IMFChoice    `yaml:"imf" json:"imf"`
	DustSource   DustSource   `yaml:"dust_source" json:"dust_source"`
	DeltaLIMS    float64      `yaml:"delta_lims_fresh" json:"delta_lims_fresh"`
	ReduceSNDust ReduceSNDust `yaml:"reduce_sn_dust" json:"reduce_sn_dust"`
	Destroy      Destroy      `yaml:"destroy" json:"destroy"`
	Inflows      Inflows      `yaml:"inflows" json:"inflows"`
	Outflows     Outflows     `yaml:"outflows" json:"outflows"`

	ColdGasFraction        float64 `yaml:"cold_gas_fraction" json:"cold_gas_fraction"`
	AvailableMetalFraction float64 `yaml:"available_metal_fraction" json:"available_metal_fraction"`
	EffectiveSNRateFactor  float64 `yaml:"effective_snrate_factor" json:"effective_snrate_factor"`
	EpsilonGrain           float64 `yaml:"epsilon_grain" json:"epsilon_grain"`
}

// DefaultGalaxy returns the reference Milky Way configuration.
func DefaultGalaxy() Galaxy {
	return Galaxy{
		Name:         "galaxy",
		GasMassInit:  DefaultGasMassInit,
		EndTime:      DefaultEndTime,
		Gamma:        0,
		IMF:          IMFChoice{Kind: imf.Chabrier},
		DustSource:   DustAll,
		DeltaLIMS:    DefaultDeltaLIMS,
		ReduceSNDust: ReduceSNDust{On: false, Factor: 1},
		Destroy:      Destroy{On: true, Mass: DefaultDestroyMass},

		ColdGasFraction:        DefaultColdFraction,
		AvailableMetalFraction: DefaultAvailableMetals,
		EffectiveSNRateFactor:  DefaultSNRateFactor,
		EpsilonGrain:           DefaultEpsilonGrain,
	}
}

// Validate checks the invariants every run depends on: positive masses
// and times, fractional parameters inside [0, 1].
func (g Galaxy) Validate() error {
	if g.Name == "" {
		return fmt.Errorf("config: galaxy needs a name")
	}
	if g.GasMassInit <= 0 {
		return fmt.Errorf("config: %s: gasmass_init must be positive, got %g", g.Name, g.GasMassInit)
	}
	if g.EndTime <= sfh.MinTime {
		return fmt.Errorf("config: %s: t_end must exceed %g Gyr, got %g", g.Name, sfh.MinTime, g.EndTime)
	}
	fractions := []struct {
		name string
		v    float64
	}{
		{"delta_lims_fresh", g.DeltaLIMS},
		{"cold_gas_fraction", g.ColdGasFraction},
		{"available_metal_fraction", g.AvailableMetalFraction},
		{"inflows.metals", g.Inflows.Metals},
	}
	for _, f := range fractions {
		if f.v < 0 || f.v > 1 {
			return fmt.Errorf("config: %s: %s must lie in [0,1], got %g", g.Name, f.name, f.v)
		}
	}
	if g.ReduceSNDust.On && g.ReduceSNDust.Factor < 0 {
		return fmt.Errorf("config: %s: reduce_sn_dust.factor must be >= 0, got %g", g.Name, g.ReduceSNDust.Factor)
	}
	if g.Destroy.On && g.Destroy.Mass <= 0 {
		return fmt.Errorf("config: %s: destroy.mass must be positive, got %g", g.Name, g.Destroy.Mass)
	}
	if g.Inflows.On && g.Inflows.XSFR < 0 {
		return fmt.Errorf("config: %s: inflows.xsfr must be >= 0, got %g", g.Name, g.Inflows.XSFR)
	}
	if g.Outflows.On && g.Outflows.XSFR < 0 {
		return fmt.Errorf("config: %s: outflows.xsfr must be >= 0, got %g", g.Name, g.Outflows.XSFR)
	}
	if g.EffectiveSNRateFactor < 0 {
		return fmt.Errorf("config: %s: effective_snrate_factor must be >= 0, got %g", g.Name, g.EffectiveSNRateFactor)
	}
	if g.EpsilonGrain < 0 {
		return fmt.Errorf("config: %s: epsilon_grain must be >= 0, got %g", g.Name, g.EpsilonGrain)
	}
	return nil
}

// History loads the configured star-formation history, falling back to
// the bundled Milky Way history when no file is named.
func (g Galaxy) History() (*sfh.History, error) {
	if g.SFH == "" {
		return sfh.MilkyWay(g.Gamma), nil
	}
	return sfh.Load(g.SFH, g.Gamma)
}

// Load reads a single-galaxy yaml configuration, applying defaults for
// absent keys.
func Load(path string) (Galaxy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Galaxy{}, err
	}
	g := DefaultGalaxy()
	if err := yaml.Unmarshal(data, &g); err != nil {
		return Galaxy{}, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := g.Validate(); err != nil {
		return Galaxy{}, err
	}
	return g, nil
}

// Save writes a galaxy configuration as yaml.
func Save(path string, g Galaxy) error {
	data, err := yaml.Marshal(g)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

package config

import "github.com/steve-maddox/chemevol/internal/imf"

// Presets are ready-made galaxy configurations.
var Presets = map[string]Galaxy{
	"milkyway": func() Galaxy {
		g := DefaultGalaxy()
		g.Name = "milkyway"
		g.ReduceSNDust = ReduceSNDust{On: true, Factor: 5}
		g.Destroy = Destroy{On: true, Mass: 1000}
		return g
	}(),
	"dwarf": func() Galaxy {
		g := DefaultGalaxy()
		g.Name = "dwarf"
		g.GasMassInit = 5e8
		g.DustSource = DustSNAndLIMS
		g.Destroy = Destroy{On: true, Mass: 100}
		g.Outflows = Outflows{On: true, XSFR: 2, Metals: true, Dust: true}
		g.ColdGasFraction = 0.3
		return g
	}(),
	"highz": func() Galaxy {
		g := DefaultGalaxy()
		g.Name = "highz"
		g.GasMassInit = 1e11
		g.EndTime = 3.0
		g.IMF = IMFChoice{Kind: imf.TopHeavyChabrier}
		g.Inflows = Inflows{On: true, Metals: 1e-4, XSFR: 1.5, Dust: 0}
		g.ColdGasFraction = 0.9
		g.EpsilonGrain = 2000
		return g
	}(),
	"closedbox": func() Galaxy {
		g := DefaultGalaxy()
		g.Name = "closedbox"
		g.DustSource = DustSNAndLIMS
		g.Destroy = Destroy{}
		return g
	}(),
}

// GetPreset returns the named preset, or false when it does not exist.
func GetPreset(name string) (Galaxy, bool) {
	g, ok := Presets[name]
	return g, ok
}

// ListPresets returns the preset names in map order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}

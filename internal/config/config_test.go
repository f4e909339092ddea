package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/steve-maddox/chemevol/internal/imf"
)

func TestDefaultGalaxyValid(t *testing.T) {
	g := DefaultGalaxy()
	if err := g.Validate(); err != nil {
		t.Fatalf("default galaxy should validate: %v", err)
	}
	if g.IMF.Kind != imf.Chabrier {
		t.Errorf("default IMF should be Chabrier, got %v", g.IMF)
	}
	if !g.DustSource.GrainGrowth() {
		t.Error("default dust source should include grain growth")
	}
}

func TestParseDustSource(t *testing.T) {
	tests := []struct {
		in      string
		want    DustSource
		wantErr bool
	}{
		{"SN", DustSN, false},
		{"sn", DustSN, false},
		{"LIMS", DustLIMS, false},
		{"SN+LIMS", DustSNAndLIMS, false},
		{"lims+sn", DustSNAndLIMS, false},
		{"ALL", DustAll, false},
		{"all", DustAll, false},
		{"everything", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDustSource(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDustSource(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDustSource(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDustSource(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDustSourceChannels(t *testing.T) {
	tests := []struct {
		src          DustSource
		sn, lims, gg bool
	}{
		{DustSN, true, false, false},
		{DustLIMS, false, true, false},
		{DustSNAndLIMS, true, true, false},
		{DustAll, true, true, true},
	}
	for _, tt := range tests {
		if tt.src.SN() != tt.sn || tt.src.LIMS() != tt.lims || tt.src.GrainGrowth() != tt.gg {
			t.Errorf("%v channels = (%v,%v,%v), want (%v,%v,%v)", tt.src,
				tt.src.SN(), tt.src.LIMS(), tt.src.GrainGrowth(), tt.sn, tt.lims, tt.gg)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Galaxy)
	}{
		{"empty name", func(g *Galaxy) { g.Name = "" }},
		{"zero gas", func(g *Galaxy) { g.GasMassInit = 0 }},
		{"negative gas", func(g *Galaxy) { g.GasMassInit = -1 }},
		{"end time below grid start", func(g *Galaxy) { g.EndTime = 1e-4 }},
		{"delta out of range", func(g *Galaxy) { g.DeltaLIMS = 1.2 }},
		{"cold fraction negative", func(g *Galaxy) { g.ColdGasFraction = -0.1 }},
		{"available fraction above one", func(g *Galaxy) { g.AvailableMetalFraction = 2 }},
		{"inflow metallicity above one", func(g *Galaxy) { g.Inflows.Metals = 1.5 }},
		{"destroy mass zero", func(g *Galaxy) { g.Destroy = Destroy{On: true, Mass: 0} }},
		{"negative snrate factor", func(g *Galaxy) { g.EffectiveSNRateFactor = -1 }},
	}
	for _, tt := range tests {
		g := DefaultGalaxy()
		tt.mutate(&g)
		if err := g.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestReduceSNDustEffectiveFactor(t *testing.T) {
	if f := (ReduceSNDust{}).EffectiveFactor(); f != 1 {
		t.Errorf("off switch should mean factor 1, got %g", f)
	}
	if f := (ReduceSNDust{On: true, Factor: 0}).EffectiveFactor(); f != 1 {
		t.Errorf("zero factor should resolve to 1, got %g", f)
	}
	if f := (ReduceSNDust{On: true, Factor: 5}).EffectiveFactor(); f != 5 {
		t.Errorf("expected factor 5, got %g", f)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "galaxy.yaml")
	content := `name: test
gasmass_init: 1.0e10
t_end: 10
imf: kroup
dust_source: SN+LIMS
destroy:
  on: true
  mass: 150
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	g, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if g.Name != "test" || g.GasMassInit != 1e10 || g.EndTime != 10 {
		t.Errorf("bad scalar fields: %+v", g)
	}
	if g.IMF.Kind != imf.Kroupa {
		t.Errorf("IMF = %v, want kroup", g.IMF)
	}
	if g.DustSource != DustSNAndLIMS {
		t.Errorf("dust source = %v, want SN+LIMS", g.DustSource)
	}
	if g.Destroy.Mass != 150 {
		t.Errorf("destroy mass = %g, want 150", g.Destroy.Mass)
	}
	// Unset keys keep defaults.
	if g.ColdGasFraction != DefaultColdFraction {
		t.Errorf("cold fraction should default, got %g", g.ColdGasFraction)
	}
}

func TestLoadRejectsUnknownAliases(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "bad_imf.yaml")
	os.WriteFile(path, []byte("name: x\nimf: charbier\n"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown IMF alias")
	}

	path = filepath.Join(dir, "bad_dust.yaml")
	os.WriteFile(path, []byte("name: x\ndust_source: DUST\n"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown dust source")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.yaml")

	want := DefaultGalaxy()
	want.Name = "roundtrip"
	want.IMF = IMFChoice{Kind: imf.Salpeter}
	want.DustSource = DustLIMS
	if err := Save(path, want); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestPresets(t *testing.T) {
	if len(ListPresets()) == 0 {
		t.Fatal("expected presets")
	}
	for name, g := range Presets {
		if err := g.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
	if _, ok := GetPreset("milkyway"); !ok {
		t.Error("milkyway preset missing")
	}
	if _, ok := GetPreset("nope"); ok {
		t.Error("unexpected preset")
	}
}

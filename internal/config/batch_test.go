package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/steve-maddox/chemevol/internal/imf"
)

func TestLoadBatchJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.json")
	content := `[
  {"name": "one", "gasmass_init": 1e10, "t_end": 5, "imf": "chab", "dust_source": "ALL"},
  {"name": "two", "gasmass_init": 2e10, "t_end": 8, "imf": "salp", "dust_source": "SN",
   "destroy": {"on": true, "mass": 100}}
]`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	galaxies, err := LoadBatchJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(galaxies) != 2 {
		t.Fatalf("expected 2 galaxies, got %d", len(galaxies))
	}
	if galaxies[0].Name != "one" || galaxies[1].Name != "two" {
		t.Errorf("bad names: %s, %s", galaxies[0].Name, galaxies[1].Name)
	}
	if galaxies[1].IMF.Kind != imf.Salpeter {
		t.Errorf("galaxy two IMF = %v, want salp", galaxies[1].IMF)
	}
	if galaxies[1].Destroy.Mass != 100 {
		t.Errorf("galaxy two destroy mass = %g, want 100", galaxies[1].Destroy.Mass)
	}
	// Sparse entries inherit defaults.
	if galaxies[0].EpsilonGrain != DefaultEpsilonGrain {
		t.Errorf("epsilon should default, got %g", galaxies[0].EpsilonGrain)
	}
}

func TestLoadBatchJSONErrors(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "notarray.json")
	os.WriteFile(path, []byte(`{"name": "x"}`), 0644)
	if _, err := LoadBatchJSON(path); err == nil {
		t.Error("expected error for non-array JSON")
	}

	path = filepath.Join(dir, "badentry.json")
	os.WriteFile(path, []byte(`[{"name": "x", "gasmass_init": -5}]`), 0644)
	if _, err := LoadBatchJSON(path); err == nil {
		t.Error("expected validation error for negative gas mass")
	}
}

const csvHeader = "name,gasmass_init,sfh,t_end,gamma,imf,dust_source,delta_lims_fresh," +
	"reduce_sn_dust_on,reduce_sn_dust_factor,destroy_on,mass_destroy,inflows_on," +
	"inflows_metals,inflows_xsfr,inflows_dust,outflows_on,outflows_metals,outflows_dust," +
	"cold_gas_fraction,available_metal_fraction,effective_snrate_factor,epsilon_grain\n"

func TestLoadBatchCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.csv")
	content := csvHeader +
		"gal1,4e10,,20,0,chab,ALL,0.15,true,5,true,1000,false,0,0,0,false,false,false,0.5,0.3,0.36,500\n" +
		"gal2,5e8,,12,0.5,kroup,SN+LIMS,0.1,false,1,true,100,true,1e-4,1.5,0,true,true,true,0.3,0.25,0.36,800\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	galaxies, err := LoadBatchCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(galaxies) != 2 {
		t.Fatalf("expected 2 galaxies, got %d", len(galaxies))
	}

	g := galaxies[0]
	if g.Name != "gal1" || g.GasMassInit != 4e10 || g.EndTime != 20 {
		t.Errorf("bad gal1 scalars: %+v", g)
	}
	if !g.ReduceSNDust.On || g.ReduceSNDust.Factor != 5 {
		t.Errorf("bad gal1 reduce_sn_dust: %+v", g.ReduceSNDust)
	}

	g = galaxies[1]
	if g.IMF.Kind != imf.Kroupa || g.DustSource != DustSNAndLIMS {
		t.Errorf("bad gal2 enums: %v %v", g.IMF, g.DustSource)
	}
	if !g.Inflows.On || g.Inflows.XSFR != 1.5 || g.Inflows.Metals != 1e-4 {
		t.Errorf("bad gal2 inflows: %+v", g.Inflows)
	}
	if !g.Outflows.On || !g.Outflows.Metals || !g.Outflows.Dust {
		t.Errorf("bad gal2 outflows: %+v", g.Outflows)
	}
}

func TestLoadBatchCSVErrors(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "short.csv")
	os.WriteFile(path, []byte("gal1,4e10,,20\n"), 0644)
	if _, err := LoadBatchCSV(path); err == nil {
		t.Error("expected error for wrong column count")
	}

	path = filepath.Join(dir, "badimf.csv")
	os.WriteFile(path, []byte(csvHeader+
		"gal1,4e10,,20,0,wrong,ALL,0.15,true,5,true,1000,false,0,0,0,false,false,false,0.5,0.3,0.36,500\n"), 0644)
	if _, err := LoadBatchCSV(path); err == nil {
		t.Error("expected error for unknown IMF alias")
	}
}

package config

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/steve-maddox/chemevol/internal/imf"
)

// csvColumns is the fixed batch CSV schema, one galaxy per row.
var csvColumns = []string{
	"name", "gasmass_init", "sfh", "t_end", "gamma", "imf", "dust_source",
	"delta_lims_fresh", "reduce_sn_dust_on", "reduce_sn_dust_factor",
	"destroy_on", "mass_destroy", "inflows_on", "inflows_metals",
	"inflows_xsfr", "inflows_dust", "outflows_on", "outflows_metals",
	"outflows_dust", "cold_gas_fraction", "available_metal_fraction",
	"effective_snrate_factor", "epsilon_grain",
}

// LoadBatchJSON reads a JSON array of galaxy configurations. Every
// entry starts from the defaults, so sparse objects are fine.
func LoadBatchJSON(path string) ([]Galaxy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("config: %s: not a JSON array of galaxies: %w", path, err)
	}

	galaxies := make([]Galaxy, 0, len(raws))
	for i, raw := range raws {
		g := DefaultGalaxy()
		if err := json.Unmarshal(raw, &g); err != nil {
			return nil, fmt.Errorf("config: %s: entry %d: %w", path, i, err)
		}
		if err := g.Validate(); err != nil {
			return nil, fmt.Errorf("config: %s: entry %d: %w", path, i, err)
		}
		galaxies = append(galaxies, g)
	}
	return galaxies, nil
}

// LoadBatchCSV reads the fixed-column batch schema. A header row
// naming the first column "name" is skipped if present.
func LoadBatchCSV(path string) ([]Galaxy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	galaxies := make([]Galaxy, 0, len(records))
	for i, rec := range records {
		if i == 0 && len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "name") {
			continue
		}
		g, err := galaxyFromCSVRow(rec)
		if err != nil {
			return nil, fmt.Errorf("config: %s: row %d: %w", path, i+1, err)
		}
		if err := g.Validate(); err != nil {
			return nil, fmt.Errorf("config: %s: row %d: %w", path, i+1, err)
		}
		galaxies = append(galaxies, g)
	}
	return galaxies, nil
}

func galaxyFromCSVRow(rec []string) (Galaxy, error) {
	if len(rec) != len(csvColumns) {
		return Galaxy{}, fmt.Errorf("want %d columns, got %d", len(csvColumns), len(rec))
	}
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}

	var err error
	num := func(i int) float64 {
		if err != nil {
			return 0
		}
		var v float64
		if v, err = strconv.ParseFloat(rec[i], 64); err != nil {
			err = fmt.Errorf("column %s: %w", csvColumns[i], err)
		}
		return v
	}
	boolean := func(i int) bool {
		if err != nil {
			return false
		}
		var v bool
		if v, err = strconv.ParseBool(rec[i]); err != nil {
			err = fmt.Errorf("column %s: %w", csvColumns[i], err)
		}
		return v
	}

	g := DefaultGalaxy()
	g.Name = rec[0]
	g.GasMassInit = num(1)
	g.SFH = rec[2]
	g.EndTime = num(3)
	g.Gamma = num(4)

	kind, kerr := imf.ParseKind(rec[5])
	if kerr != nil {
		return Galaxy{}, kerr
	}
	g.IMF = IMFChoice{Kind: kind}

	dust, derr := ParseDustSource(rec[6])
	if derr != nil {
		return Galaxy{}, derr
	}
	g.DustSource = dust

	g.DeltaLIMS = num(7)
	g.ReduceSNDust = ReduceSNDust{On: boolean(8), Factor: num(9)}
	g.Destroy = Destroy{On: boolean(10), Mass: num(11)}
	g.Inflows = Inflows{On: boolean(12), Metals: num(13), XSFR: num(14), Dust: num(15)}
	// The CSV schema carries no outflow multiplier; rows that switch
	// outflows on get rate = SFR.
	g.Outflows = Outflows{On: boolean(16), XSFR: 1, Metals: boolean(17), Dust: boolean(18)}
	g.ColdGasFraction = num(19)
	g.AvailableMetalFraction = num(20)
	g.EffectiveSNRateFactor = num(21)
	g.EpsilonGrain = num(22)

	if err != nil {
		return Galaxy{}, err
	}
	return g, nil
}

package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/steve-maddox/chemevol/internal/config"
	"github.com/steve-maddox/chemevol/internal/evolve"
)

// ExportData is the machine-readable form of a run, one parallel array
// per result column.
type ExportData struct {
	Galaxy      config.Galaxy `json:"galaxy"`
	Status      string        `json:"status"`
	Steps       int           `json:"steps"`
	Times       []float64     `json:"times"`
	GasMass     []float64     `json:"mgas"`
	StellarMass []float64     `json:"mstars"`
	MetalMass   []float64     `json:"mmetals"`
	Metallicity []float64     `json:"metallicity"`
	DustMass    []float64     `json:"mdust"`
	DustToMetal []float64     `json:"dust_to_metal"`
	SFR         []float64     `json:"sfr"`
	OxygenMass  []float64     `json:"moxygen"`
}

func exportData(res *evolve.Result) ExportData {
	n := len(res.Records)
	data := ExportData{
		Galaxy:      res.Galaxy,
		Status:      res.Status.String(),
		Steps:       n,
		Times:       make([]float64, n),
		GasMass:     make([]float64, n),
		StellarMass: make([]float64, n),
		MetalMass:   make([]float64, n),
		Metallicity: make([]float64, n),
		DustMass:    make([]float64, n),
		DustToMetal: make([]float64, n),
		SFR:         make([]float64, n),
		OxygenMass:  make([]float64, n),
	}
	for i, rec := range res.Records {
		data.Times[i] = rec.Time
		data.GasMass[i] = rec.GasMass
		data.StellarMass[i] = rec.StellarMass
		data.MetalMass[i] = rec.MetalMass
		data.Metallicity[i] = rec.Metallicity
		data.DustMass[i] = rec.DustMass
		data.DustToMetal[i] = rec.DustToMetal
		data.SFR[i] = rec.SFR
		data.OxygenMass[i] = rec.OxygenMass
	}
	return data
}

// ExportJSON writes a run as indented JSON.
func ExportJSON(w io.Writer, res *evolve.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(exportData(res))
}

// ExportJSONFile writes a run as indented JSON to a file.
func ExportJSONFile(path string, res *evolve.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ExportJSON(f, res)
}

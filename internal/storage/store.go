// Package storage persists finished runs on the filesystem. Each run
// gets its own directory under the store root, holding a metadata.json
// summary and a results.dat table with one whitespace-delimited row
// per integration step.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/steve-maddox/chemevol/internal/config"
	"github.com/steve-maddox/chemevol/internal/evolve"
)

// dataColumns is the fixed results.dat schema. The last two columns
// are derived at write time: the gas fraction mgas/(mgas+mstars) and
// the specific star-formation rate sfr/mgas.
var dataColumns = []string{
	"time", "mgas", "mstars", "mmetals", "metallicity", "mdust",
	"dust_to_metal", "sfr", "mdust_all", "mdust_stars", "mdust_gg",
	"t_destroy", "t_graingrowth", "moxygen", "fg", "ssfr",
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata summarizes one stored run.
type RunMetadata struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Timestamp   time.Time     `json:"timestamp"`
	Status      string        `json:"status"`
	Steps       int           `json:"steps"`
	Galaxy      config.Galaxy `json:"galaxy"`
	FinalTime   float64       `json:"final_time"`
	FinalGas    float64       `json:"final_gas"`
	FinalStars  float64       `json:"final_stars"`
	FinalMetals float64       `json:"final_metals"`
	FinalDust   float64       `json:"final_dust"`
}

// Save writes a finished run and returns its ID, <name>_<unix>.
func (s *Store) Save(res *evolve.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", res.Galaxy.Name, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	final := res.Final()
	meta := RunMetadata{
		ID:          runID,
		Name:        res.Galaxy.Name,
		Timestamp:   time.Now(),
		Status:      res.Status.String(),
		Steps:       len(res.Records),
		Galaxy:      res.Galaxy,
		FinalTime:   final.Time,
		FinalGas:    final.GasMass,
		FinalStars:  final.StellarMass,
		FinalMetals: final.MetalMass,
		FinalDust:   final.DustMass,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()
	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	dataFile, err := os.Create(filepath.Join(runDir, "results.dat"))
	if err != nil {
		return "", err
	}
	defer dataFile.Close()

	w := bufio.NewWriter(dataFile)
	fmt.Fprintf(w, "# %s\n", strings.Join(dataColumns, " "))
	for _, rec := range res.Records {
		fg := 0.0
		if total := rec.GasMass + rec.StellarMass; total > 0 {
			fg = rec.GasMass / total
		}
		ssfr := 0.0
		if rec.GasMass > 0 {
			ssfr = rec.SFR / rec.GasMass
		}
		fmt.Fprintf(w, "%.6e %.6e %.6e %.6e %.6e %.6e %.6e %.6e %.6e %.6e %.6e %.6e %.6e %.6e %.6e %.6e\n",
			rec.Time, rec.GasMass, rec.StellarMass, rec.MetalMass,
			rec.Metallicity, rec.DustMass, rec.DustToMetal, rec.SFR,
			rec.DustAll, rec.DustStars, rec.DustGrainGrowth,
			rec.DestructionTimescale, rec.GrainGrowthTimescale,
			rec.OxygenMass, fg, ssfr)
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return runID, nil
}

// List returns the metadata of every readable run in the store.
// Directories without valid metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

// Load reads one run's metadata.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadSeries reads a run's results.dat back into records. The derived
// trailing columns are recomputable, so they are not retained.
func (s *Store) LoadSeries(runID string) ([]evolve.Record, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "results.dat"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []evolve.Record
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < len(dataColumns) {
			return nil, fmt.Errorf("storage: %s: want %d columns, got %d", runID, len(dataColumns), len(fields))
		}
		vals := make([]float64, len(dataColumns))
		for i := range vals {
			if vals[i], err = strconv.ParseFloat(fields[i], 64); err != nil {
				return nil, fmt.Errorf("storage: %s: column %s: %w", runID, dataColumns[i], err)
			}
		}
		records = append(records, evolve.Record{
			Time:                 vals[0],
			GasMass:              vals[1],
			StellarMass:          vals[2],
			MetalMass:            vals[3],
			Metallicity:          vals[4],
			DustMass:             vals[5],
			DustToMetal:          vals[6],
			SFR:                  vals[7],
			DustAll:              vals[8],
			DustStars:            vals[9],
			DustGrainGrowth:      vals[10],
			DestructionTimescale: vals[11],
			GrainGrowthTimescale: vals[12],
			OxygenMass:           vals[13],
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

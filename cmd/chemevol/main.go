package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/steve-maddox/chemevol/internal/analysis"
	"github.com/steve-maddox/chemevol/internal/batch"
	"github.com/steve-maddox/chemevol/internal/config"
	"github.com/steve-maddox/chemevol/internal/evolve"
	"github.com/steve-maddox/chemevol/internal/storage"
	"github.com/steve-maddox/chemevol/internal/viz"
)

var (
	dataDir string
	preset  string
	column  string
	outFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "chemevol",
		Short: "galactic chemical and dust evolution models",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".chemevol", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [config.yaml]",
		Short: "evolve one galaxy and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGalaxy,
	}
	runCmd.Flags().StringVar(&preset, "preset", "", "use a preset configuration")

	batchCmd := &cobra.Command{
		Use:   "batch [galaxies.json|galaxies.csv]",
		Short: "evolve a batch of galaxies concurrently",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run column as an ASCII chart",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "mgas",
		"column to plot ("+strings.Join(analysis.Columns, ", ")+")")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "summarize a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print a stored run's metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportMetadata,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run's full series as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRunJSON,
	}
	exportJSONCmd.Flags().StringVar(&outFile, "out", "", "write to file instead of stdout")

	liveCmd := &cobra.Command{
		Use:   "live [config.yaml]",
		Short: "evolve a galaxy and replay it in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&preset, "preset", "", "use a preset configuration")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available preset configurations",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				g, _ := config.GetPreset(name)
				fmt.Printf("  %-12s imf=%s dust=%s gas=%.2e t_end=%g\n",
					name, g.IMF, g.DustSource, g.GasMassInit, g.EndTime)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, batchCmd, listCmd, plotCmd, analyzeCmd,
		exportCmd, exportJSONCmd, liveCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveGalaxy picks the run configuration from --preset, a yaml path,
// or the built-in default, in that order.
func resolveGalaxy(args []string) (config.Galaxy, error) {
	if preset != "" {
		g, ok := config.GetPreset(preset)
		if !ok {
			return config.Galaxy{}, fmt.Errorf("unknown preset %q (available: %s)",
				preset, strings.Join(config.ListPresets(), ", "))
		}
		return g, nil
	}
	if len(args) > 0 {
		return config.Load(args[0])
	}
	return config.DefaultGalaxy(), nil
}

func evolveOne(g config.Galaxy) (*evolve.Result, error) {
	engine, err := evolve.New(g)
	if err != nil {
		return nil, err
	}
	return engine.Run(context.Background(), engine.SupernovaRate())
}

func runGalaxy(cmd *cobra.Command, args []string) error {
	g, err := resolveGalaxy(args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("evolving %s...\n", g.Name)
	start := time.Now()
	res, err := evolveOne(g)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(res)
	if err != nil {
		return err
	}

	s := analysis.Summarize(res)
	fmt.Printf("completed in %v (%s)\n", elapsed, res.Status)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n\n", len(res.Records))
	fmt.Printf("  final time:        %.3f Gyr\n", s.FinalTime)
	fmt.Printf("  gas fraction:      %.4f\n", s.FinalGasFraction)
	fmt.Printf("  metallicity:       %.4e\n", s.FinalMetallicity)
	fmt.Printf("  dust mass:         %.4e Msun\n", s.FinalDustMass)
	fmt.Printf("  dust-to-metal:     %.4f\n", s.FinalDustToMetal)
	fmt.Printf("  peak SFR:          %.3f Msun/yr at %.2f Gyr\n", s.PeakSFR, s.PeakSFRTime)
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	path := args[0]

	var galaxies []config.Galaxy
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		galaxies, err = config.LoadBatchJSON(path)
	case ".csv":
		galaxies, err = config.LoadBatchCSV(path)
	default:
		return fmt.Errorf("unsupported batch format %q (want .json or .csv)", filepath.Ext(path))
	}
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("evolving %d galaxies...\n", len(galaxies))
	start := time.Now()
	outcomes := batch.New(st).Run(context.Background(), galaxies)
	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GALAXY\tSTATUS\tSTEPS\tRUN ID")
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(w, "%s\tFAILED: %v\t\t\n", o.Galaxy.Name, o.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
			o.Galaxy.Name, o.Result.Status, len(o.Result.Records), o.RunID)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if failed := batch.Failed(outcomes); len(failed) == len(outcomes) && len(outcomes) > 0 {
		return fmt.Errorf("all %d galaxies failed", len(failed))
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tGALAXY\tTIME\tSTATUS\tSTEPS\tFINAL GAS\tFINAL DUST")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.3e\t%.3e\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Status,
			run.Steps,
			run.FinalGas,
			run.FinalDust,
		)
	}
	return w.Flush()
}

// loadStored rebuilds a Result from a run directory.
func loadStored(st *storage.Store, runID string) (*evolve.Result, error) {
	meta, err := st.Load(runID)
	if err != nil {
		return nil, err
	}
	records, err := st.LoadSeries(runID)
	if err != nil {
		return nil, err
	}
	res := &evolve.Result{Galaxy: meta.Galaxy, Records: records}
	if meta.Status == evolve.StatusGasExhausted.String() {
		res.Status = evolve.StatusGasExhausted
	}
	return res, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	res, err := loadStored(storage.New(dataDir), args[0])
	if err != nil {
		return err
	}
	out, err := viz.Plot(res.Records, column)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	res, err := loadStored(storage.New(dataDir), args[0])
	if err != nil {
		return err
	}
	s := analysis.Summarize(res)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "galaxy\t%s\n", res.Galaxy.Name)
	fmt.Fprintf(w, "final time\t%.3f Gyr\n", s.FinalTime)
	fmt.Fprintf(w, "gas fraction\t%.4f\n", s.FinalGasFraction)
	fmt.Fprintf(w, "metallicity\t%.4e\n", s.FinalMetallicity)
	fmt.Fprintf(w, "dust mass\t%.4e Msun\n", s.FinalDustMass)
	fmt.Fprintf(w, "dust-to-metal\t%.4f\n", s.FinalDustToMetal)
	fmt.Fprintf(w, "peak SFR\t%.3f Msun/yr at %.2f Gyr\n", s.PeakSFR, s.PeakSFRTime)
	fmt.Fprintf(w, "max dust-to-metal\t%.4f at %.2f Gyr\n", s.MaxDustToMetal, s.MaxDustToMetalTime)
	fmt.Fprintf(w, "mean destruction timescale\t%.3f Gyr\n", s.MeanDestructionTimescale)
	fmt.Fprintf(w, "mean grain-growth timescale\t%.3f Gyr\n", s.MeanGrainGrowthTimescale)
	fmt.Fprintf(w, "gas exhausted\t%v\n", s.GasExhausted)
	return w.Flush()
}

func exportMetadata(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportRunJSON(cmd *cobra.Command, args []string) error {
	res, err := loadStored(storage.New(dataDir), args[0])
	if err != nil {
		return err
	}
	if outFile != "" {
		return storage.ExportJSONFile(outFile, res)
	}
	return storage.ExportJSON(os.Stdout, res)
}

func runLive(cmd *cobra.Command, args []string) error {
	g, err := resolveGalaxy(args)
	if err != nil {
		return err
	}
	fmt.Printf("evolving %s...\n", g.Name)
	res, err := evolveOne(g)
	if err != nil {
		return err
	}
	return viz.Live(res)
}

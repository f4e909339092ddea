// Package batch drives the engine over many galaxy configurations.
// Runs are independent, so they execute concurrently; each run's time
// loop stays strictly sequential inside its own engine.
package batch

import (
	"context"
	"sync"

	"github.com/steve-maddox/chemevol/internal/config"
	"github.com/steve-maddox/chemevol/internal/evolve"
	"github.com/steve-maddox/chemevol/internal/storage"
)

// Outcome is the per-galaxy result of a batch. A failed galaxy carries
// its error here instead of aborting the rest of the batch.
type Outcome struct {
	Galaxy config.Galaxy
	Result *evolve.Result
	RunID  string
	Err    error
}

// Runner executes batches, optionally persisting each finished run.
type Runner struct {
	store *storage.Store
}

// New builds a runner. A nil store disables persistence.
func New(store *storage.Store) *Runner {
	return &Runner{store: store}
}

// Run evolves every galaxy concurrently and returns one outcome per
// input, in input order.
func (r *Runner) Run(ctx context.Context, galaxies []config.Galaxy) []Outcome {
	outcomes := make([]Outcome, len(galaxies))

	var wg sync.WaitGroup
	for i, g := range galaxies {
		wg.Add(1)
		go func(idx int, g config.Galaxy) {
			defer wg.Done()
			outcomes[idx] = r.runOne(ctx, g)
		}(i, g)
	}
	wg.Wait()

	return outcomes
}

func (r *Runner) runOne(ctx context.Context, g config.Galaxy) Outcome {
	out := Outcome{Galaxy: g}

	engine, err := evolve.New(g)
	if err != nil {
		out.Err = err
		return out
	}
	res, err := engine.Run(ctx, engine.SupernovaRate())
	if err != nil {
		out.Err = err
		return out
	}
	out.Result = res

	if r.store != nil {
		out.RunID, out.Err = r.store.Save(res)
	}
	return out
}

// Failed returns the outcomes that carry an error.
func Failed(outcomes []Outcome) []Outcome {
	var failed []Outcome
	for _, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

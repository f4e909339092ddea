package evolve_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/steve-maddox/chemevol/internal/config"
	"github.com/steve-maddox/chemevol/internal/evolve"
)

func run(g config.Galaxy) *evolve.Result {
	GinkgoHelper()
	e, err := evolve.New(g)
	Expect(err).NotTo(HaveOccurred())
	res, err := e.Run(context.Background(), e.SupernovaRate())
	Expect(err).NotTo(HaveOccurred())
	return res
}

var _ = Describe("Milky Way reference run", func() {
	var res *evolve.Result

	BeforeEach(func() {
		g := config.DefaultGalaxy()
		g.Name = "mw-scenario"
		g.DustSource = config.DustAll
		g.ReduceSNDust = config.ReduceSNDust{On: true, Factor: 5}
		g.Destroy = config.Destroy{On: true, Mass: 10}
		res = run(g)
	})

	It("runs the full grid", func() {
		Expect(res.Status).To(Equal(evolve.StatusCompleted))
		Expect(res.Records).NotTo(BeEmpty())
	})

	It("ends with a physical gas fraction", func() {
		final := res.Final()
		fg := final.GasMass / (final.GasMass + final.StellarMass)
		Expect(fg).To(BeNumerically(">", 0))
		Expect(fg).To(BeNumerically("<", 1))
	})

	It("enriches monotonically over the first 5 Gyr", func() {
		prev := 0.0
		for _, rec := range res.Records {
			if rec.Time > 5 {
				break
			}
			Expect(rec.Metallicity).To(BeNumerically(">=", prev),
				"metallicity dropped at t=%g", rec.Time)
			prev = rec.Metallicity
		}
	})

	It("builds up dust", func() {
		Expect(res.Final().DustMass).To(BeNumerically(">", 0))
	})
})

var _ = Describe("Dust source selection", func() {
	It("produces no grain growth when only supernova dust is enabled", func() {
		g := config.DefaultGalaxy()
		g.Name = "sn-only"
		g.DustSource = config.DustSN
		for _, rec := range run(g).Records {
			Expect(rec.DustGrainGrowth).To(BeZero(), "grain growth active at t=%g", rec.Time)
		}
	})

	It("grows more dust with all channels than with supernovae alone", func() {
		snOnly := config.DefaultGalaxy()
		snOnly.Name = "sn-only"
		snOnly.DustSource = config.DustSN
		snOnly.Destroy.On = false

		all := snOnly
		all.Name = "all-channels"
		all.DustSource = config.DustAll

		Expect(run(all).Final().DustMass).To(
			BeNumerically(">", run(snOnly).Final().DustMass))
	})
})

var _ = Describe("Gas flows", func() {
	It("retains more gas with inflows than the closed box", func() {
		closed := config.DefaultGalaxy()
		closed.Name = "closed"

		fed := closed
		fed.Name = "fed"
		fed.Inflows = config.Inflows{On: true, XSFR: 1.5}

		Expect(run(fed).Final().GasMass).To(
			BeNumerically(">", run(closed).Final().GasMass))
	})

	It("keeps less gas when outflows vent the interstellar medium", func() {
		closed := config.DefaultGalaxy()
		closed.Name = "closed"

		vented := closed
		vented.Name = "vented"
		vented.Outflows = config.Outflows{On: true, XSFR: 1, Metals: true, Dust: true}

		Expect(run(vented).Final().GasMass).To(
			BeNumerically("<", run(closed).Final().GasMass))
	})
})

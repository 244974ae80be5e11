package montecarlo_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/epipeak/internal/models"
	"github.com/san-kum/epipeak/internal/montecarlo"
	"github.com/san-kum/epipeak/internal/sampler"
	"github.com/san-kum/epipeak/internal/sim"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

const baselinePeak = 2046217.3810230955

type dayCounter struct {
	days int
	last float64
}

func (c *dayCounter) OnStep(x sim.State, t float64) {
	c.days++
	c.last = x[models.Infected]
}

var _ = Describe("Driver", func() {
	var (
		ctx    context.Context
		params montecarlo.Params
	)

	BeforeEach(func() {
		ctx = context.Background()
		params = montecarlo.DefaultParams()
		params.Iterations = 200
	})

	Describe("Run", func() {
		It("rejects a run without iterations", func() {
			params.Iterations = 0
			_, err := montecarlo.New(params, sampler.NewSeeded(1)).Run(ctx)
			Expect(err).To(MatchError(montecarlo.ErrNoIterations))
		})

		It("collapses to the fixture peak when R0 has no spread", func() {
			params.R0Std = 0
			res, err := montecarlo.New(params, sampler.NewNormal()).Run(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(res.Peaks).To(HaveLen(200))
			for _, p := range res.Peaks {
				Expect(p).To(Equal(baselinePeak))
			}
			Expect(res.Mean()).To(BeNumerically("~", baselinePeak, 1e-6))
			Expect(res.StdDev()).To(BeNumerically("~", 0, 1e-6))
		})

		It("applies control effectiveness to every draw", func() {
			res, err := montecarlo.New(params, sampler.NewReplay(2.0, 3.0)).Run(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(res.R0s[0]).To(Equal(2.0 * (1 - params.ControlEffectiveness)))
			Expect(res.R0s[1]).To(Equal(3.0 * (1 - params.ControlEffectiveness)))
		})

		It("leaves draws untouched without control", func() {
			params.ControlEffectiveness = 0
			d := montecarlo.New(params, nil)
			r0, err := d.Draw(sampler.NewReplay(2.345678))
			Expect(err).NotTo(HaveOccurred())
			Expect(r0).To(Equal(2.345678))
		})

		It("passes negative draws through untruncated", func() {
			params.Iterations = 1
			res, err := montecarlo.New(params, sampler.NewReplay(-1)).Run(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(res.R0s[0]).To(BeNumerically("<", 0))
			Expect(res.Peaks[0]).To(BeNumerically("<", params.InitialInfected))
		})

		It("summarises peaks consistently", func() {
			res, err := montecarlo.New(params, sampler.NewSeeded(11)).Run(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(res.Summary.Count).To(Equal(200))
			Expect(res.Summary.Min).To(BeNumerically("<=", res.Mean()))
			Expect(res.Summary.Max).To(BeNumerically(">=", res.Mean()))
			Expect(res.StdDev()).To(BeNumerically(">", 0))
		})

		It("reports progress once per trial", func() {
			calls := 0
			d := montecarlo.New(params, sampler.NewSeeded(3), montecarlo.WithProgress(func(int, float64, float64) {
				calls++
			}))
			_, err := d.Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(calls).To(Equal(200))
		})

		It("stops when the context is canceled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			_, err := montecarlo.New(params, sampler.NewSeeded(3)).Run(cctx)
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		})

		DescribeTable("rejects invalid parameters",
			func(mutate func(*montecarlo.Params)) {
				mutate(&params)
				_, err := montecarlo.New(params, sampler.NewSeeded(1)).Run(ctx)
				Expect(err).To(MatchError(montecarlo.ErrInvalidParams))
			},
			Entry("zero days", func(p *montecarlo.Params) { p.Days = 0 }),
			Entry("zero population", func(p *montecarlo.Params) { p.Population = 0 }),
			Entry("zero duration", func(p *montecarlo.Params) { p.InfectionDuration = 0 }),
			Entry("too many infected", func(p *montecarlo.Params) { p.InitialInfected = p.Population + 1 }),
			Entry("negative std", func(p *montecarlo.Params) { p.R0Std = -0.1 }),
			Entry("full control", func(p *montecarlo.Params) { p.ControlEffectiveness = 1 }),
		)
	})

	Describe("parallel Run", func() {
		It("is reproducible with seeded workers", func() {
			run := func() []float64 {
				d := montecarlo.New(params, nil, montecarlo.WithWorkers(4, sampler.SeededFactory(99)))
				res, err := d.Run(ctx)
				Expect(err).NotTo(HaveOccurred())
				return res.Peaks
			}
			Expect(run()).To(Equal(run()))
		})

		It("gives each worker its own stream", func() {
			d := montecarlo.New(params, nil, montecarlo.WithWorkers(2, sampler.SeededFactory(5)))
			res, err := d.Run(ctx)
			Expect(err).NotTo(HaveOccurred())

			first := sampler.NewSeeded(5)
			second := sampler.NewSeeded(6)
			Expect(res.R0s[0]).To(Equal(first.Sample(params.R0Mean, params.R0Std) * (1 - params.ControlEffectiveness)))
			Expect(res.R0s[100]).To(Equal(second.Sample(params.R0Mean, params.R0Std) * (1 - params.ControlEffectiveness)))
		})

		It("matches the serial peaks for the same R0 values", func() {
			d := montecarlo.New(params, nil, montecarlo.WithWorkers(3, sampler.EntropyFactory()))
			res, err := d.Run(ctx)
			Expect(err).NotTo(HaveOccurred())

			replayed, err := d.Replay(ctx, res.R0s)
			Expect(err).NotTo(HaveOccurred())
			Expect(replayed.Peaks).To(Equal(res.Peaks))
		})

		It("caps workers at the number of trials", func() {
			logger, hook := test.NewNullLogger()
			params.Iterations = 2
			d := montecarlo.New(params, nil,
				montecarlo.WithWorkers(16, sampler.SeededFactory(1)),
				montecarlo.WithLogger(log.NewEntry(logger)),
			)
			res, err := d.Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Peaks).To(HaveLen(2))

			Expect(hook.LastEntry()).NotTo(BeNil())
			Expect(hook.LastEntry().Data).To(HaveKeyWithValue("workers", 2))
		})

		It("logs a single worker without a factory", func() {
			logger, hook := test.NewNullLogger()
			d := montecarlo.New(params, nil,
				montecarlo.WithWorkers(8, nil),
				montecarlo.WithLogger(log.NewEntry(logger)),
			)
			_, err := d.Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(hook.LastEntry().Data).To(HaveKeyWithValue("workers", 1))
		})
	})

	Describe("Trajectory", func() {
		It("notifies observers once per day", func() {
			obs := &dayCounter{}
			d := montecarlo.New(params, nil, montecarlo.WithObserver(obs))

			traj, err := d.Trajectory(ctx, 1.75)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.Peak).To(Equal(baselinePeak))
			Expect(obs.days).To(Equal(params.Days))
			Expect(obs.last).To(Equal(traj.Infected[params.Days-1]))
		})

		It("does not observe Monte Carlo trials", func() {
			obs := &dayCounter{}
			_, err := montecarlo.New(params, sampler.NewSeeded(4), montecarlo.WithObserver(obs)).Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(obs.days).To(BeZero())
		})
	})

	Describe("Replay", func() {
		It("is bit-reproducible", func() {
			r0s := []float64{1.61, 1.75, 1.88, 1.70}
			d := montecarlo.New(params, nil)

			a, err := d.Replay(ctx, r0s)
			Expect(err).NotTo(HaveOccurred())
			b, err := d.Replay(ctx, r0s)
			Expect(err).NotTo(HaveOccurred())

			Expect(a.Peaks).To(Equal(b.Peaks))
			for i, r0 := range r0s {
				peak, err := d.Trial(ctx, r0)
				Expect(err).NotTo(HaveOccurred())
				Expect(a.Peaks[i]).To(Equal(peak))
			}
		})

		It("reproduces the end-to-end fixture", func() {
			params.Iterations = 1
			res, err := montecarlo.New(params, nil).Replay(ctx, []float64{2.5 * (1 - 0.3)})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Peaks).To(Equal([]float64{baselinePeak}))
			Expect(res.StdDev()).To(Equal(0.0))
		})

		It("rejects an empty sequence", func() {
			_, err := montecarlo.New(params, nil).Replay(ctx, nil)
			Expect(err).To(MatchError(montecarlo.ErrNoIterations))
		})
	})

	Describe("TrialError", func() {
		It("unwraps to its cause", func() {
			err := &montecarlo.TrialError{Trial: 7, Wrapped: context.Canceled}
			Expect(err.Error()).To(Equal("trial 7: context canceled"))
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		})
	})
})

package billiard_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ebeyhan/tubesim/internal/billiard"
	"github.com/ebeyhan/tubesim/internal/geom"
	"github.com/ebeyhan/tubesim/internal/wall"
)

var _ = Describe("Simulator", func() {
	Context("in a plain circle", func() {
		var (
			sim *billiard.Simulator
			buf billiard.Buffer
		)

		BeforeEach(func() {
			w, err := wall.New(2*math.Pi, 0, 1)
			Expect(err).NotTo(HaveOccurred())
			sim, err = billiard.New(w, nil)
			Expect(err).NotTo(HaveOccurred())
			buf = billiard.Buffer{}
		})

		It("keeps every record inside or on the unit boundary", func() {
			_, err := sim.Run(context.Background(), billiard.State{X: 0.3, VX: 0.8, VZ: 0.55}, 12, &buf)
			Expect(err).NotTo(HaveOccurred())
			for _, r := range buf.Records {
				Expect(math.Hypot(r.X, r.Z)).To(BeNumerically("<=", 1+1e-5))
			}
		})

		It("conserves speed at every record", func() {
			init := billiard.State{X: 0.3, VX: 0.8, VZ: 0.55}
			res, err := sim.Run(context.Background(), init, 12, &buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Collisions).To(BeNumerically(">", 0))
			for _, r := range buf.Records {
				Expect(math.Hypot(r.VX, r.VZ)).To(BeNumerically("~", init.Speed(), 1e-9))
			}
		})

		It("opens with the initial state and closes at the exact duration", func() {
			init := billiard.State{X: 0.3, VX: 0.8, VZ: 0.55}
			_, err := sim.Run(context.Background(), init, 12, &buf)
			Expect(err).NotTo(HaveOccurred())

			first := buf.Records[0]
			Expect(first.Collision).To(Equal(0))
			Expect(first.Time).To(Equal(0.0))
			Expect(first.X).To(Equal(init.X))
			Expect(first.VX).To(Equal(init.VX))

			last := buf.Records[len(buf.Records)-1]
			Expect(last.Time).To(Equal(12.0))

			for i := 1; i < len(buf.Records); i++ {
				Expect(buf.Records[i].Time).To(BeNumerically(">=", buf.Records[i-1].Time))
			}
		})

		It("reports a single grazing contact for a tangential boundary start", func() {
			res, err := sim.Run(context.Background(), billiard.State{X: 1, VZ: -1}, 0.4, &buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Collisions).To(Equal(1))

			last := buf.Records[len(buf.Records)-1]
			Expect(last.VX).To(Equal(0.0))
			Expect(last.VZ).To(Equal(-1.0))
			Expect(last.X).To(BeNumerically("~", 1, 1e-12))
			Expect(last.Z).To(BeNumerically("~", -0.4, 1e-12))
		})
	})

	Context("with a corrugated boundary", func() {
		var (
			w   wall.Wall
			sim *billiard.Simulator
			buf billiard.Buffer
		)

		BeforeEach(func() {
			var err error
			w, err = wall.New(1, 0.04, 8)
			Expect(err).NotTo(HaveOccurred())
			sim, err = billiard.New(w, nil)
			Expect(err).NotTo(HaveOccurred())
			buf = billiard.Buffer{}
		})

		It("places every contact on the wall within solver tolerance", func() {
			res, err := sim.Run(context.Background(), billiard.State{X: 0.4, Z: 0.1, VX: 0.7, VZ: 0.45}, 8, &buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Collisions).To(BeNumerically(">", 0))

			contacts := 0
			for i := 1; i < len(buf.Records); i++ {
				if buf.Records[i].Collision == buf.Records[i-1].Collision {
					continue
				}
				contacts++
				r := buf.Records[i]
				th := geom.PolarAngle(r.X, r.Z)
				Expect(math.Hypot(r.X, r.Z)).To(BeNumerically("~", w.Radius(th), 1e-5))
			}
			Expect(contacts).To(Equal(res.Collisions))
		})

		It("conserves speed across many reflections", func() {
			init := billiard.State{X: 0.4, Z: 0.1, VX: 0.7, VZ: 0.45}
			_, err := sim.Run(context.Background(), init, 8, &buf)
			Expect(err).NotTo(HaveOccurred())
			for _, r := range buf.Records {
				Expect(math.Hypot(r.VX, r.VZ)).To(BeNumerically("~", init.Speed(), 1e-9))
			}
		})
	})
})

var _ = Describe("Sampler", func() {
	var w wall.Wall

	BeforeEach(func() {
		var err error
		w, err = wall.New(1, 0.05, 8)
		Expect(err).NotTo(HaveOccurred())
	})

	It("accepts a start pinned exactly on a crest", func() {
		crest := w.Radius(0)
		s := billiard.NewSampler(w, billiard.SampleParams{
			FlowSpeed: 1,
			Override:  billiard.Overrides{X: &crest, Z: new(float64)},
		}, 1, nil)

		st := s.Sample()
		Expect(st.X).To(Equal(crest))
		Expect(st.Z).To(Equal(0.0))
	})

	It("resamples a start pinned outside the wall", func() {
		out := 5.0
		s := billiard.NewSampler(w, billiard.SampleParams{
			FlowSpeed: 1,
			Override:  billiard.Overrides{X: &out, Z: &out},
		}, 1, nil)

		st := s.Sample()
		th := geom.PolarAngle(st.X, st.Z)
		Expect(math.Hypot(st.X, st.Z)).To(BeNumerically("<=", w.Radius(th)))
	})
})

package popup_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pointfield/internal/catalog"
	"github.com/san-kum/pointfield/internal/mathutil"
	"github.com/san-kum/pointfield/internal/popup"
	"github.com/san-kum/pointfield/internal/sched"
)

type transition struct {
	id    uint64
	phase popup.Phase
}

type phaseLog struct {
	entries []transition
}

func (l *phaseLog) OnPhase(p *popup.Popup) {
	l.entries = append(l.entries, transition{p.ID, p.Phase})
}

func (l *phaseLog) phasesOf(id uint64) []popup.Phase {
	var out []popup.Phase
	for _, e := range l.entries {
		if e.id == id {
			out = append(out, e.phase)
		}
	}
	return out
}

// frames advances the scheduler in 16ms steps the way a host loop would.
func frames(s *sched.Scheduler, d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += 16 * time.Millisecond {
		s.Advance(16 * time.Millisecond)
	}
}

var _ = Describe("Controller", func() {
	var (
		s        *sched.Scheduler
		log      *phaseLog
		c        *popup.Controller
		cfg      popup.Config
		projects []catalog.Project
		center   mathutil.Vec2
	)

	BeforeEach(func() {
		s = sched.New()
		log = &phaseLog{}
		cfg = popup.DefaultConfig()
		c = popup.NewController(cfg, s, log)
		c.SetViewport(1280, 720)
		projects = catalog.Default()
		center = mathutil.Vec2{X: 640, Y: 360}
	})

	It("walks through opening and visible", func() {
		p := c.Open(&projects[0], center)
		Expect(p.Phase).To(Equal(popup.Opening))
		Expect(c.Active()).To(BeIdenticalTo(p))

		frames(s, 50*time.Millisecond)
		Expect(p.Phase).To(Equal(popup.Visible))
		Expect(log.phasesOf(p.ID)).To(Equal([]popup.Phase{popup.Opening, popup.Visible}))
	})

	It("ignores a nil project", func() {
		Expect(c.Open(nil, center)).To(BeNil())
		Expect(c.Active()).To(BeNil())
		Expect(s.Len()).To(BeZero())
	})

	It("auto-dismisses after seven seconds", func() {
		p := c.Open(&projects[1], center)

		frames(s, 6900*time.Millisecond)
		Expect(p.Phase).To(Equal(popup.Visible))

		frames(s, 100*time.Millisecond)
		Expect(c.Active()).To(BeNil())
		Expect(p.Phase).To(Equal(popup.Closing))
		Expect(p.Reason).To(Equal(popup.ReasonTimeout))

		frames(s, cfg.ExitDuration)
		Expect(p.Phase).To(Equal(popup.Closed))
		Expect(c.Closing()).To(BeEmpty())
		Expect(s.Len()).To(BeZero())
	})

	Context("when a second popup opens", func() {
		It("keeps exactly one active popup and no timer for the first", func() {
			first := c.Open(&projects[0], center)
			firstTimer := c.Timer()

			frames(s, 3*time.Second)
			second := c.Open(&projects[1], center)

			Expect(c.Active()).To(BeIdenticalTo(second))
			Expect(first.Phase).To(Equal(popup.Closed))
			Expect(first.Reason).To(Equal(popup.ReasonSuperseded))
			Expect(s.Pending(firstTimer)).To(BeFalse())
			Expect(c.Timer()).NotTo(Equal(firstTimer))
			Expect(c.Closing()).To(BeEmpty())
		})

		It("is not closed early by the first popup's timer", func() {
			c.Open(&projects[0], center)
			frames(s, 5*time.Second)
			second := c.Open(&projects[1], center)

			frames(s, 3*time.Second)
			Expect(c.Active()).To(BeIdenticalTo(second))
			Expect(second.Phase).To(Equal(popup.Visible))

			frames(s, 4100*time.Millisecond)
			Expect(c.Active()).To(BeNil())
		})
	})

	It("closes on explicit close within the exit duration", func() {
		p := c.Open(&projects[2], center)
		frames(s, time.Second)

		Expect(c.Close(popup.ReasonEscape)).To(BeTrue())
		Expect(c.Active()).To(BeNil())
		Expect(c.Timer()).To(BeZero())
		Expect(p.Phase).To(Equal(popup.Closing))

		frames(s, cfg.ExitDuration)
		Expect(p.Phase).To(Equal(popup.Closed))
		Expect(log.phasesOf(p.ID)).To(Equal([]popup.Phase{popup.Opening, popup.Visible, popup.Closing, popup.Closed}))
	})

	It("cancels the entry and dismiss timers on both supersede and close", func() {
		first := c.Open(&projects[0], center)
		Expect(s.Len()).To(Equal(2))

		second := c.Open(&projects[1], center)
		Expect(s.Len()).To(Equal(2))
		Expect(first.Phase).To(Equal(popup.Closed))

		c.Close(popup.ReasonEscape)
		Expect(c.Timer()).To(BeZero())
		Expect(s.Len()).To(Equal(1))

		frames(s, cfg.ExitDuration)
		Expect(s.Len()).To(BeZero())
		Expect(log.phasesOf(first.ID)).To(Equal([]popup.Phase{popup.Opening, popup.Closed}))
		Expect(log.phasesOf(second.ID)).To(Equal([]popup.Phase{popup.Opening, popup.Closing, popup.Closed}))
	})

	It("treats close with nothing open as a no-op", func() {
		Expect(c.Close(popup.ReasonEscape)).To(BeFalse())
		Expect(log.entries).To(BeEmpty())
	})

	It("lets a new popup open while the previous one is still closing", func() {
		first := c.Open(&projects[0], center)
		c.Close(popup.ReasonAffordance)
		second := c.Open(&projects[1], center)

		Expect(c.Active()).To(BeIdenticalTo(second))
		Expect(first.Phase).To(Equal(popup.Closing))

		frames(s, cfg.ExitDuration)
		Expect(first.Phase).To(Equal(popup.Closed))
		Expect(c.Active()).To(BeIdenticalTo(second))
		Expect(second.Phase).To(Equal(popup.Visible))
	})

	Describe("pointer-down", func() {
		It("closes when outside the popup bounds", func() {
			p := c.Open(&projects[0], center)
			Expect(c.PointerDown(mathutil.Vec2{X: 700, Y: 400})).To(BeFalse())
			Expect(c.Active()).To(BeIdenticalTo(p))

			Expect(c.PointerDown(mathutil.Vec2{X: 10, Y: 10})).To(BeTrue())
			Expect(p.Reason).To(Equal(popup.ReasonOutside))
		})
	})

	DescribeTable("clamps the anchor into the viewport",
		func(in, want mathutil.Vec2) {
			p := c.Open(&projects[0], in)
			Expect(p.Anchor).To(Equal(want))
		},
		Entry("inside", mathutil.Vec2{X: 500, Y: 300}, mathutil.Vec2{X: 500, Y: 300}),
		Entry("top-left corner", mathutil.Vec2{X: 5, Y: -40}, mathutil.Vec2{X: 160, Y: 160}),
		Entry("bottom-right corner", mathutil.Vec2{X: 1300, Y: 719}, mathutil.Vec2{X: 1120, Y: 560}),
	)

	It("centers the anchor on a viewport smaller than the margins", func() {
		c.SetViewport(200, 900)
		p := c.Open(&projects[0], mathutil.Vec2{X: 10, Y: 10})
		Expect(p.Anchor).To(Equal(mathutil.Vec2{X: 100, Y: 160}))
	})
})

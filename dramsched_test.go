package dramsched_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sahil-g0/dramsched"
)

var _ = Describe("Coordinator", func() {
	var (
		mockCtrl *gomock.Controller
		sched    *dramsched.Scheduler
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		sched = dramsched.MakeBuilder().Build()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	Context("before any batch", func() {
		It("starts IDLE with nothing scheduled", func() {
			Expect(sched.State()).To(Equal(dramsched.Idle))
			Expect(sched.ScheduleDone()).To(BeFalse())
			Expect(sched.ScheduleBusy()).To(BeFalse())
		})
	})

	Context("submitting and scheduling a batch", func() {
		It("accepts requests, runs to DONE, and exposes the critical path", func() {
			id0, ok := sched.Submit(0, 0, 512, 0)
			Expect(ok).To(BeTrue())
			Expect(id0).To(Equal(0))

			_, ok = sched.Submit(0, 0, 512, 8)
			Expect(ok).To(BeTrue())

			sched.ScheduleStart()

			Expect(sched.State()).To(Equal(dramsched.Done))
			Expect(sched.ScheduleDone()).To(BeTrue())
			Expect(sched.NumRequests()).To(Equal(2))
			Expect(sched.NumSRREntries()).To(Equal(1))
			Expect(sched.NumSBREntries()).To(Equal(1))

			bg, bank, ok := sched.CriticalPathBank()
			Expect(ok).To(BeTrue())
			Expect(bg).To(Equal(0))
			Expect(bank).To(Equal(0))

			Expect(sched.Read(0).Cmd.String()).To(Equal("ACT"))
		})

		It("keeps accepting submissions once a batch has completed", func() {
			sched.Submit(0, 0, 1, 0)
			sched.ScheduleStart()
			Expect(sched.State()).To(Equal(dramsched.Done))
			Expect(sched.ScheduleBusy()).To(BeFalse())

			id, ok := sched.Submit(0, 0, 2, 0)
			Expect(ok).To(BeTrue())
			Expect(id).To(Equal(1))
			Expect(sched.NumRequests()).To(Equal(2))
		})

		It("assigns a distinct batch ID to each run", func() {
			sched.Submit(0, 0, 1, 0)
			sched.ScheduleStart()
			first := sched.BatchID()

			sched.Reset()
			sched.Submit(0, 0, 2, 0)
			sched.ScheduleStart()

			Expect(sched.BatchID()).NotTo(Equal(first))
			Expect(sched.BatchID()).NotTo(BeEmpty())
		})
	})

	Context("an empty batch", func() {
		It("reports no critical path and an all-deselect schedule", func() {
			sched.ScheduleStart()

			_, _, ok := sched.CriticalPathBank()
			Expect(ok).To(BeFalse())
			Expect(sched.MaxCycle()).To(Equal(0))
		})
	})

	Context("with a trace writer attached", func() {
		It("mirrors every emitted command and flushes once", func() {
			trace := NewMockWriter(mockCtrl)
			trace.EXPECT().WriteCommand(gomock.Any(), gomock.Any()).AnyTimes()
			trace.EXPECT().Flush().Times(1)

			traced := dramsched.MakeBuilder().WithTraceWriter(trace).Build()
			traced.Submit(0, 0, 1, 0)
			traced.ScheduleStart()
		})
	})

	Context("Reset", func() {
		It("clears the request buffer and returns to IDLE", func() {
			sched.Submit(0, 0, 1, 0)
			sched.ScheduleStart()

			sched.Reset()

			Expect(sched.State()).To(Equal(dramsched.Idle))
			Expect(sched.NumRequests()).To(Equal(0))
		})
	})
})

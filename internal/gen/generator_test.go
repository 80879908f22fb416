package gen_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sahil-g0/dramsched/internal/bankstate"
	"github.com/sahil-g0/dramsched/internal/batch"
	"github.com/sahil-g0/dramsched/internal/gen"
	"github.com/sahil-g0/dramsched/internal/reqbuf"
	"github.com/sahil-g0/dramsched/internal/sbr"
	"github.com/sahil-g0/dramsched/internal/schedmem"
	"github.com/sahil-g0/dramsched/internal/srr"
	"github.com/sahil-g0/dramsched/internal/timing"
)

type tuple struct {
	bg, bank, row, col int
}

// fixture bundles one schedule_start's worth of fresh component state and
// runs both phases, mirroring how the top-level coordinator will drive
// them in sequence.
type fixture struct {
	cst  timing.Constants
	buf  *reqbuf.Buffer
	srrT *srr.Table
	sbrT *sbr.Table
	bst  *bankstate.Tracker
	mem  *schedmem.Memory
}

func newFixture() *fixture {
	return &fixture{
		cst:  timing.Default(),
		buf:  reqbuf.NewBuffer(64),
		srrT: srr.NewTable(32),
		sbrT: sbr.NewTable(16),
		bst:  bankstate.NewTracker(),
		mem:  schedmem.NewMemory(2048),
	}
}

func (f *fixture) submit(tuples []tuple) {
	for _, tp := range tuples {
		f.buf.Submit(tp.bg, tp.bank, tp.row, tp.col)
	}
}

func (f *fixture) run() batch.Result {
	result := batch.Run(f.buf, f.srrT, f.sbrT)
	gen.New(f.cst, f.buf, f.srrT, f.sbrT, f.bst, f.mem).Run(result.CriticalPathSBR)
	return result
}

var _ = Describe("Schedule Generator Phase 2", func() {
	var f *fixture

	BeforeEach(func() {
		f = newFixture()
	})

	Context("row hits on a single bank (scenario 1)", func() {
		It("issues one ACT then back-to-back RDs spaced by T_CCD_L", func() {
			f.submit([]tuple{{0, 0, 512, 0}, {0, 0, 512, 8}, {0, 0, 512, 16}})
			f.run()

			Expect(f.mem.Read(0).Cmd).To(Equal(schedmem.Activate))
			Expect(f.mem.Read(0).Row).To(Equal(512))

			Expect(f.mem.Read(14).Cmd).To(Equal(schedmem.Read))
			Expect(f.mem.Read(14).RequestID).To(Equal(0))

			Expect(f.mem.Read(21).Cmd).To(Equal(schedmem.Read))
			Expect(f.mem.Read(21).RequestID).To(Equal(1))

			Expect(f.mem.Read(28).Cmd).To(Equal(schedmem.Read))
			Expect(f.mem.Read(28).RequestID).To(Equal(2))

			Expect(f.mem.MaxCycle()).To(Equal(28))
		})
	})

	Context("row conflict on a single bank (scenario 2)", func() {
		It("inserts PRE/ACT between the two rows, respecting T_RAS and T_RP", func() {
			f.submit([]tuple{{0, 0, 10, 0}, {0, 0, 11, 0}})
			f.run()

			Expect(f.mem.Read(0).Cmd).To(Equal(schedmem.Activate))
			Expect(f.mem.Read(0).Row).To(Equal(10))

			Expect(f.mem.Read(14).Cmd).To(Equal(schedmem.Read))
			Expect(f.mem.Read(14).RequestID).To(Equal(0))

			pre := f.mem.Read(32)
			Expect(pre.Cmd).To(Equal(schedmem.Precharge))

			act2 := f.mem.Read(46)
			Expect(act2.Cmd).To(Equal(schedmem.Activate))
			Expect(act2.Row).To(Equal(11))

			rd2 := f.mem.Read(60)
			Expect(rd2.Cmd).To(Equal(schedmem.Read))
			Expect(rd2.RequestID).To(Equal(1))

			// I6: PRE must land in [prevACT+T_RAS, nextACT-T_RP].
			Expect(32).To(BeNumerically(">=", 0+f.cst.TRAS))
			Expect(32).To(BeNumerically("<=", 46-f.cst.TRP))
		})
	})

	Context("multi-bank different groups (scenario 3)", func() {
		It("reads every request exactly once across the three banks", func() {
			f.submit([]tuple{
				{0, 0, 100, 0},
				{0, 1, 200, 0},
				{0, 0, 100, 8},
				{1, 0, 300, 0},
			})
			result := f.run()
			Expect(result.NumSBREntries).To(Equal(3))

			// Every request must eventually appear exactly once as an RD.
			seen := map[int]bool{}
			for c := 0; c <= f.mem.MaxCycle(); c++ {
				slot := f.mem.Read(c)
				if slot.Cmd == schedmem.Read {
					Expect(seen[slot.RequestID]).To(BeFalse())
					seen[slot.RequestID] = true
				}
			}
			Expect(seen).To(HaveLen(4))
		})
	})

	Context("row thrashing (scenario 5)", func() {
		It("emits all four requests with PRE/ACT bracketing the row switch", func() {
			f.submit([]tuple{
				{0, 0, 10, 0}, {0, 0, 11, 0}, {0, 0, 10, 8}, {0, 0, 11, 8},
			})
			f.run()

			counts := map[schedmem.CommandKind]int{}
			seenReq := map[int]bool{}
			for c := 0; c <= f.mem.MaxCycle(); c++ {
				slot := f.mem.Read(c)
				counts[slot.Cmd]++
				if slot.Cmd == schedmem.Read {
					seenReq[slot.RequestID] = true
				}
			}

			Expect(counts[schedmem.Activate]).To(Equal(2))
			Expect(counts[schedmem.Precharge]).To(Equal(1))
			Expect(counts[schedmem.Read]).To(Equal(4))
			Expect(seenReq).To(HaveLen(4))
		})
	})

	Context("kitchen sink (scenario 6)", func() {
		It("schedules every request exactly once", func() {
			f.submit([]tuple{
				{0, 0, 100, 0},
				{1, 0, 200, 0},
				{0, 1, 300, 0},
				{0, 0, 100, 8},
				{0, 1, 301, 0},
				{1, 0, 200, 8},
				{0, 0, 100, 16},
			})
			f.run()

			seenReq := map[int]bool{}
			for c := 0; c <= f.mem.MaxCycle(); c++ {
				slot := f.mem.Read(c)
				if slot.Cmd == schedmem.Read {
					Expect(seenReq[slot.RequestID]).To(BeFalse())
					seenReq[slot.RequestID] = true
				}
			}
			Expect(seenReq).To(HaveLen(7))
		})
	})

	Context("empty batch boundary", func() {
		It("produces an all-deselect schedule at cycle zero", func() {
			result := f.run()
			Expect(result.HasCriticalPath).To(BeFalse())
			Expect(f.mem.MaxCycle()).To(Equal(0))
			Expect(f.mem.Read(0).Cmd).To(Equal(schedmem.Deselect))
		})
	})

	Context("single request boundary", func() {
		It("emits exactly one ACT and one RD", func() {
			f.submit([]tuple{{0, 0, 7, 0}})
			f.run()

			Expect(f.mem.Read(0).Cmd).To(Equal(schedmem.Activate))
			Expect(f.mem.Read(14).Cmd).To(Equal(schedmem.Read))
			Expect(f.mem.MaxCycle()).To(Equal(14))
		})
	})

	Context("four-activate window (T_FAW)", func() {
		It("delays the fifth ACT in any rolling window of four", func() {
			f.submit([]tuple{
				{0, 0, 1, 0},
				{0, 1, 2, 0},
				{0, 2, 3, 0},
				{0, 3, 4, 0},
				{1, 0, 5, 0},
			})
			f.run()

			var actCycles []int
			for c := 0; c <= f.mem.MaxCycle(); c++ {
				if f.mem.Read(c).Cmd == schedmem.Activate {
					actCycles = append(actCycles, c)
				}
			}
			Expect(actCycles).To(HaveLen(5))
			Expect(actCycles[4] - actCycles[0]).To(BeNumerically(">=", f.cst.TFAW))
		})
	})
})

// Package batch implements Phase 1 of the scheduling algorithm: grouping
// ingested requests into Same-Row and Same-Bank chains and picking the
// critical-path bank.
package batch

import (
	"github.com/sahil-g0/dramsched/internal/reqbuf"
	"github.com/sahil-g0/dramsched/internal/sbr"
	"github.com/sahil-g0/dramsched/internal/srr"
)

// Result is the outcome of running Phase 1 over a batch of requests.
type Result struct {
	NumSRREntries   int
	NumSBREntries   int
	CriticalPathSBR int
	HasCriticalPath bool
}

// Run executes Phase 1a (process requests into SRR), Phase 1b (build SBR
// chains from SRR) and Phase 1c (critical-path selection) against the
// given (already-populated) request buffer, writing into the given
// (freshly-cleared) SRR and SBR tables.
//
// Table-full conditions surface as a panic from srr.Table.New/sbr.Table.New
// and abort the batch; nothing is recovered. Phase 1a allocates at most one
// SRR entry per request and Phase 1b at most one SBR entry per SRR entry,
// so the SRR table fills only when a batch holds more distinct rows than
// its capacity (32 by default, against a default of 64 requests).
func Run(buf *reqbuf.Buffer, srrTable *srr.Table, sbrTable *sbr.Table) Result {
	processRequests(buf, srrTable)
	buildSBRChains(buf, srrTable, sbrTable)

	critical, ok := sbrTable.FindMax()

	return Result{
		NumSRREntries:   srrTable.Len(),
		NumSBREntries:   sbrTable.Len(),
		CriticalPathSBR: critical,
		HasCriticalPath: ok,
	}
}

// processRequests implements Phase 1a: for each request in ingest
// order, find or allocate its SRR entry and extend the entry's
// request chain on a hit.
func processRequests(buf *reqbuf.Buffer, srrTable *srr.Table) {
	for i := 0; i < buf.Len(); i++ {
		req := buf.Get(i)
		tag := req.HitTag()

		addr, hit := srrTable.LookupByHitTag(tag)
		if !hit {
			srrTable.New(tag, i)
			continue
		}

		entry := srrTable.Get(addr)
		buf.SetChainNext(entry.TailReq, i)
		srrTable.Update(addr, entry.Count+1, i)
	}
}

// buildSBRChains implements Phase 1b: for each SRR entry in allocation
// order, find or allocate the owning SBR entry and chain the SRR into it
// on a hit.
func buildSBRChains(buf *reqbuf.Buffer, srrTable *srr.Table, sbrTable *sbr.Table) {
	for s := 0; s < srrTable.Len(); s++ {
		entry := srrTable.Get(s)
		tag := buf.Get(entry.HeadReq).MissTag()

		addr, hit := sbrTable.LookupByMissTag(tag)
		if !hit {
			sbrTable.New(tag, s, entry.Count)
			continue
		}

		owner := sbrTable.Get(addr)
		srrTable.ChainSet(owner.TailSRR, s)
		sbrTable.Update(addr, owner.RowCount+1, owner.TotalRequests+entry.Count, s)
	}
}

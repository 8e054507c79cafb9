package trainer

import "github.com/hd220/spikenet/network"

// checkpointRing is the three-level ring buffer of spec §4.6 step 2:
// cheap, frequent L0 checkpoints; L0 overflow promotes its oldest entry to
// L1; L1 overflow promotes to L2; L2 overflow drops the oldest. Revert pops
// L0 first, then L1, then L2 (spec §4.6 step 3).
type checkpointRing struct {
	l0, l1, l2             []network.Snapshot
	l0Size, l1Size, l2Size int
}

func newCheckpointRing(l0Size, l1Size, l2Size int) *checkpointRing {
	return &checkpointRing{l0Size: l0Size, l1Size: l1Size, l2Size: l2Size}
}

// Push appends snap to L0, cascading overflow down to L1 then L2.
func (r *checkpointRing) Push(snap network.Snapshot) {
	r.l0 = append(r.l0, snap)
	if len(r.l0) > r.l0Size && r.l0Size > 0 {
		promoted := r.l0[0]
		r.l0 = r.l0[1:]
		r.l1 = append(r.l1, promoted)
		if len(r.l1) > r.l1Size && r.l1Size > 0 {
			promoted := r.l1[0]
			r.l1 = r.l1[1:]
			r.l2 = append(r.l2, promoted)
			if len(r.l2) > r.l2Size && r.l2Size > 0 {
				r.l2 = r.l2[1:]
			}
		}
	}
}

// Pop removes and returns the most suitable checkpoint to revert to: the
// newest from L0 if non-empty, else the newest from L1, else the newest
// from L2. ok is false if the ring is entirely empty.
func (r *checkpointRing) Pop() (snap network.Snapshot, ok bool) {
	if n := len(r.l0); n > 0 {
		snap = r.l0[n-1]
		r.l0 = r.l0[:n-1]
		return snap, true
	}
	if n := len(r.l1); n > 0 {
		snap = r.l1[n-1]
		r.l1 = r.l1[:n-1]
		return snap, true
	}
	if n := len(r.l2); n > 0 {
		snap = r.l2[n-1]
		r.l2 = r.l2[:n-1]
		return snap, true
	}
	return network.Snapshot{}, false
}

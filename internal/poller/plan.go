// internal/poller/plan.go
package poller

import (
	"sort"

	"github.com/elmotron/modpoll/internal/registry"
)

// MaxReadWords is the largest register quantity one read request may carry,
// limited by the protocol.
const MaxReadWords = 125

// Member is one register inside a ReadRange, with its word offset from the
// range start precomputed so the raw buffer can be sliced directly.
type Member struct {
	Register registry.Register
	Offset   uint16
}

// ReadRange is one contiguous address span read in a single transport call.
type ReadRange struct {
	Start   uint16
	Count   uint16
	Members []Member
}

// Plan coalesces register definitions into the minimal ordered list of
// contiguous read ranges. Ranges are sorted by address and non-overlapping;
// every input register lands in exactly one range's member list.
//
// A pending batch is closed when the next register would stretch the request
// past MaxReadWords, or when its address breaks contiguity with the previous
// register (gap or overlap). A single register wider than MaxReadWords is
// never split; such definitions must respect the hardware limit themselves.
func Plan(regs []registry.Register) []ReadRange {
	if len(regs) == 0 {
		return nil
	}

	sorted := make([]registry.Register, len(regs))
	copy(sorted, regs)
	// Stable: same-address definitions keep their input order.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Addr < sorted[j].Addr
	})

	var out []ReadRange
	start, end := 0, 0

	for i := 1; i < len(sorted); i++ {
		r := sorted[i]
		if r.Addr-sorted[start].Addr > MaxReadWords ||
			r.Addr != sorted[end].Addr+sorted[end].Words {
			out = append(out, makeRange(sorted[start:end+1]))
			start = i
		}
		end = i
	}

	// The last pending batch is flushed here, once, unconditionally.
	// Folding this into the loop condition has historically dropped the
	// trailing batch for some register-set shapes.
	out = append(out, makeRange(sorted[start:end+1]))

	return out
}

func makeRange(regs []registry.Register) ReadRange {
	first := regs[0]
	last := regs[len(regs)-1]

	rr := ReadRange{
		Start:   first.Addr,
		Count:   last.Addr + last.Words - first.Addr,
		Members: make([]Member, len(regs)),
	}
	for i, r := range regs {
		rr.Members[i] = Member{Register: r, Offset: r.Addr - first.Addr}
	}
	return rr
}

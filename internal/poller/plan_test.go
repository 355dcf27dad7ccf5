// internal/poller/plan_test.go
package poller

import (
	"testing"

	"github.com/elmotron/modpoll/internal/registry"
)

func reg(name string, addr, words uint16) registry.Register {
	return registry.Register{Name: name, Addr: addr, Words: words, Type: registry.UInt16}
}

func TestPlan_Empty(t *testing.T) {
	if got := Plan(nil); got != nil {
		t.Fatalf("Plan(nil)=%v, want nil", got)
	}
}

func TestPlan_ContiguousMerge(t *testing.T) {
	// Touching registers coalesce into one range.
	ranges := Plan([]registry.Register{
		reg("a", 10, 2),
		reg("b", 12, 3),
	})

	if len(ranges) != 1 {
		t.Fatalf("got %d ranges, want 1", len(ranges))
	}
	if ranges[0].Start != 10 || ranges[0].Count != 5 {
		t.Errorf("range = [%d,%d), want [10,5)", ranges[0].Start, ranges[0].Count)
	}
	if len(ranges[0].Members) != 2 {
		t.Errorf("members=%d, want 2", len(ranges[0].Members))
	}
	if ranges[0].Members[1].Offset != 2 {
		t.Errorf("member b offset=%d, want 2", ranges[0].Members[1].Offset)
	}
}

func TestPlan_GapSplits(t *testing.T) {
	ranges := Plan([]registry.Register{
		reg("a", 10, 2),
		reg("b", 15, 3),
	})

	if len(ranges) != 2 {
		t.Fatalf("got %d ranges, want 2", len(ranges))
	}
	if ranges[0].Start != 10 || ranges[0].Count != 2 {
		t.Errorf("range 0 = [%d,%d), want [10,2)", ranges[0].Start, ranges[0].Count)
	}
	if ranges[1].Start != 15 || ranges[1].Count != 3 {
		t.Errorf("range 1 = [%d,%d), want [15,3)", ranges[1].Start, ranges[1].Count)
	}
}

func TestPlan_SplitOnSize(t *testing.T) {
	// A contiguous run of 1-word registers longer than the protocol limit
	// must split at the point the limit would be exceeded.
	var regs []registry.Register
	for i := 0; i < 200; i++ {
		regs = append(regs, reg("r", uint16(i), 1))
	}

	ranges := Plan(regs)
	if len(ranges) < 2 {
		t.Fatalf("got %d ranges, want >= 2", len(ranges))
	}
	for i, rr := range ranges {
		if rr.Count > MaxReadWords+1 {
			t.Errorf("range %d count=%d exceeds limit", i, rr.Count)
		}
	}
}

func TestPlan_SpanBound(t *testing.T) {
	// Random-ish shapes: every emitted range must respect the span rule
	// relative to its start register.
	regs := []registry.Register{
		reg("a", 0, 2), reg("b", 2, 2), reg("c", 4, 1),
		reg("d", 300, 4), reg("e", 304, 33),
		reg("f", 500, 1),
	}

	for _, rr := range Plan(regs) {
		if len(rr.Members) == 0 {
			t.Fatal("empty member list")
		}
		last := rr.Members[len(rr.Members)-1]
		if last.Register.Addr-rr.Start > MaxReadWords {
			t.Errorf("range starting at %d spans too far", rr.Start)
		}
	}
}

func TestPlan_Coverage(t *testing.T) {
	// Every input register appears in exactly one range's member list.
	regs := []registry.Register{
		reg("a", 0, 1), reg("b", 1, 2), reg("c", 10, 1),
		reg("d", 11, 4), reg("e", 200, 2), reg("f", 1000, 33),
	}

	seen := make(map[string]int)
	for _, rr := range Plan(regs) {
		for _, m := range rr.Members {
			seen[m.Register.Name]++
		}
	}

	if len(seen) != len(regs) {
		t.Fatalf("covered %d registers, want %d", len(seen), len(regs))
	}
	for name, n := range seen {
		if n != 1 {
			t.Errorf("register %s appears %d times", name, n)
		}
	}
}

func TestPlan_FinalBatchFlushed(t *testing.T) {
	// Three touching registers must come back as a single range; a
	// previous revision folded the trailing flush into the loop bound and
	// dropped the last batch.
	ranges := Plan([]registry.Register{
		reg("a", 0, 2),
		reg("b", 2, 2),
		reg("c", 4, 2),
	})

	if len(ranges) != 1 {
		t.Fatalf("got %d ranges, want 1", len(ranges))
	}
	if len(ranges[0].Members) != 3 {
		t.Fatalf("members=%d, want 3", len(ranges[0].Members))
	}
	if ranges[0].Start != 0 || ranges[0].Count != 6 {
		t.Errorf("range = [%d,%d), want [0,6)", ranges[0].Start, ranges[0].Count)
	}
}

func TestPlan_OversizedRegisterNotSplit(t *testing.T) {
	// A single register wider than the protocol limit is planned as-is;
	// respecting the hardware limit per definition is the caller's problem.
	ranges := Plan([]registry.Register{reg("huge", 0, 130)})

	if len(ranges) != 1 {
		t.Fatalf("got %d ranges, want 1", len(ranges))
	}
	if ranges[0].Count != 130 {
		t.Errorf("count=%d, want 130", ranges[0].Count)
	}
}

func TestPlan_DuplicateAddressesKeepInputOrder(t *testing.T) {
	// Same-address definitions are accepted and planned in input order.
	first := registry.Register{Name: "first", Addr: 5, Words: 1, Type: registry.UInt16}
	second := registry.Register{Name: "second", Addr: 5, Words: 1, Type: registry.UInt16}

	ranges := Plan([]registry.Register{first, second})

	var order []string
	for _, rr := range ranges {
		for _, m := range rr.Members {
			order = append(order, m.Register.Name)
		}
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("member order=%v", order)
	}
}

package registry

import (
	"sync"
	"testing"
)

func TestHolder_ClaimOnce(t *testing.T) {
	t.Parallel()

	h := newHolder(1, "Clock")
	if h.currentState() != stateNotStarted {
		t.Fatalf("new holder state = %s", h.currentState())
	}

	if _, creator := h.claim(); !creator {
		t.Fatal("first claim should become the creator")
	}
	if h.currentState() != stateCreating {
		t.Fatalf("claimed holder state = %s", h.currentState())
	}
	if _, ok := h.created(); ok {
		t.Fatal("creating holder must not expose a handle")
	}

	handle := &fakeHandle{}
	h.settle(handle)

	got, creator := h.claim()
	if creator || got != handle {
		t.Fatalf("claim after settle = (%v, %t)", got, creator)
	}
	if got, ok := h.created(); !ok || got != handle {
		t.Fatal("settled holder should expose its handle")
	}
}

func TestHolder_WaitersReleasedOnSettle(t *testing.T) {
	t.Parallel()

	h := newHolder(1, "Clock")
	if _, creator := h.claim(); !creator {
		t.Fatal("expected creator")
	}

	const waiters = 16
	results := make(chan struct {
		handle  any
		creator bool
	}, waiters)
	var wg sync.WaitGroup
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			handle, creator := h.claim()
			results <- struct {
				handle  any
				creator bool
			}{handle, creator}
		}()
	}

	handle := &fakeHandle{}
	h.settle(handle)
	wg.Wait()
	close(results)

	for r := range results {
		if r.creator || r.handle != handle {
			t.Errorf("waiter got (%v, %t)", r.handle, r.creator)
		}
	}
}

func TestHolder_SettleEmpty(t *testing.T) {
	t.Parallel()

	h := newHolder(7, "Unknown")
	h.claim()
	h.settle(nil)

	if h.currentState() != stateDone {
		t.Fatalf("state = %s, want done", h.currentState())
	}
	if _, ok := h.created(); ok {
		t.Error("empty holder must not report a handle")
	}
	if handle, creator := h.claim(); handle != nil || creator {
		t.Errorf("claim on empty holder = (%v, %t)", handle, creator)
	}
}

func TestHolderState_String(t *testing.T) {
	t.Parallel()

	for state, want := range map[holderState]string{
		stateNotStarted: "not_started",
		stateCreating:   "creating",
		stateDone:       "done",
		holderState(9):  "unknown",
	} {
		if got := state.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", state, got, want)
		}
	}
}

package registry

import (
	"sync"

	"github.com/shuldan/nativebridge/pkg/contracts"
)

type holderState uint8

const (
	stateNotStarted holderState = iota
	stateCreating
	stateDone
)

func (s holderState) String() string {
	switch s {
	case stateNotStarted:
		return "not_started"
	case stateCreating:
		return "creating"
	case stateDone:
		return "done"
	default:
		return "unknown"
	}
}

// holder guards a single module construction. Its cond is paired with mu and is only
// ever waited on by callers of the same module name.
type holder struct {
	id   int64
	name string

	mu     sync.Mutex
	cond   *sync.Cond
	state  holderState
	handle contracts.ServiceHandle
}

func newHolder(id int64, name string) *holder {
	h := &holder{id: id, name: name}
	h.cond = sync.NewCond(&h.mu)
	return h
}

// claim reports whether the caller became the creator. When it did not, claim blocks
// until the creator has finished and returns the settled handle.
func (h *holder) claim() (contracts.ServiceHandle, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state == stateNotStarted {
		h.state = stateCreating
		return nil, true
	}
	for h.state != stateDone {
		h.cond.Wait()
	}
	return h.handle, false
}

// settle stores the creation result and releases every waiter. It runs once per holder.
func (h *holder) settle(handle contracts.ServiceHandle) {
	h.mu.Lock()
	h.handle = handle
	h.state = stateDone
	h.mu.Unlock()
	h.cond.Broadcast()
}

// created returns the handle without blocking; ok is false unless creation finished
// with a usable handle.
func (h *holder) created() (contracts.ServiceHandle, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != stateDone || h.handle == nil {
		return nil, false
	}
	return h.handle, true
}

func (h *holder) currentState() holderState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

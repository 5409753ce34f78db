package squadstest

import (
	"sync/atomic"

	"github.com/zcombinatorio/squads"
)

// Handler implements squads.Handler interface with configurable results
// and call counters.
type Handler struct {
	checkCall   int64
	deliverCall int64

	// CheckResult is returned by Check.
	CheckResult squads.CheckResult

	// CheckErr if set is returned by Check.
	CheckErr error

	// DeliverResult is returned by Deliver.
	DeliverResult squads.DeliverResult

	// DeliverErr if set is returned by Deliver.
	DeliverErr error
}

var _ squads.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx squads.Context, store squads.KVStore, tx squads.Tx) (*squads.CheckResult, error) {
	atomic.AddInt64(&h.checkCall, 1)
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx squads.Context, store squads.KVStore, tx squads.Tx) (*squads.DeliverResult, error) {
	atomic.AddInt64(&h.deliverCall, 1)
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

// CheckCallCount returns the number of times Check was called.
func (h *Handler) CheckCallCount() int {
	return int(atomic.LoadInt64(&h.checkCall))
}

// DeliverCallCount returns the number of times Deliver was called.
func (h *Handler) DeliverCallCount() int {
	return int(atomic.LoadInt64(&h.deliverCall))
}

// CallCount returns the total number of calls of both Check and Deliver.
func (h *Handler) CallCount() int {
	return h.CheckCallCount() + h.DeliverCallCount()
}

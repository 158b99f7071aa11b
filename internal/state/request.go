package state

import (
	"context"
	"errors"
	"sync"
	"time"
)

// RequestStatus is the lifecycle stage of a named network request.
type RequestStatus int

const (
	RequestIdle RequestStatus = iota
	RequestPending
	RequestSucceeded
	RequestFailed
	RequestCanceled
)

func (s RequestStatus) String() string {
	switch s {
	case RequestPending:
		return "pending"
	case RequestSucceeded:
		return "succeeded"
	case RequestFailed:
		return "failed"
	case RequestCanceled:
		return "canceled"
	default:
		return "idle"
	}
}

// RequestState is the observable state of one named request.
type RequestState struct {
	Status     RequestStatus
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

type requestEntry struct {
	state  RequestState
	cancel context.CancelFunc
	gen    uint64
}

// Requests tracks pending/success/failure per named request so views can
// render progress and cancel in-flight calls.
type Requests struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]*requestEntry
	gen     uint64
}

// NewRequests returns an empty tracker.
func NewRequests() *Requests {
	return &Requests{now: time.Now, entries: make(map[string]*requestEntry)}
}

// Start marks name pending and returns a context to run the request under
// plus the func that records its outcome. Starting a name that is already
// pending cancels the earlier request; its late outcome is discarded.
func (r *Requests) Start(ctx context.Context, name string) (context.Context, func(error)) {
	ctx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	if prev, ok := r.entries[name]; ok && prev.cancel != nil {
		prev.cancel()
	}
	r.gen++
	gen := r.gen
	r.entries[name] = &requestEntry{
		state:  RequestState{Status: RequestPending, StartedAt: r.now()},
		cancel: cancel,
		gen:    gen,
	}
	r.mu.Unlock()

	finish := func(err error) {
		defer cancel()
		r.mu.Lock()
		defer r.mu.Unlock()
		e, ok := r.entries[name]
		if !ok || e.gen != gen {
			return
		}
		e.cancel = nil
		e.state.FinishedAt = r.now()
		switch {
		case err == nil:
			e.state.Status = RequestSucceeded
		case errors.Is(err, context.Canceled) || ctx.Err() != nil:
			e.state.Status = RequestCanceled
			e.state.Err = err
		default:
			e.state.Status = RequestFailed
			e.state.Err = err
		}
	}
	return ctx, finish
}

// Cancel aborts the in-flight request name, if any.
func (r *Requests) Cancel(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[name]; ok && e.cancel != nil {
		e.cancel()
	}
}

// Get returns the state of name. Unknown names are idle.
func (r *Requests) Get(name string) RequestState {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[name]; ok {
		return e.state
	}
	return RequestState{}
}

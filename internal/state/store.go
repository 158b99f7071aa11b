package state

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Listener is called with the new state after every dispatch.
type Listener func(State)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for persistence failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithClock overrides the time source used to stamp messages and
// submissions.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithSlices restricts write-through persistence to the given slices.
func WithSlices(slices ...SliceName) Option {
	return func(s *Store) { s.watched = slices }
}

// Store holds one application's state. Each application constructs its own
// Store; instances never share state or storage keys.
type Store struct {
	app     string
	storage Storage
	logger  *slog.Logger
	now     func() time.Time
	watched []SliceName

	mu         sync.Mutex
	state      State
	written    map[SliceName][]byte
	rehydrated bool
	listeners  map[int]Listener
	nextID     int
}

// New creates a store for app persisting through storage. A nil storage
// keeps everything in memory.
func New(app string, storage Storage, opts ...Option) *Store {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	s := &Store{
		app:       app,
		storage:   storage,
		logger:    slog.Default(),
		now:       time.Now,
		watched:   PersistedSlices,
		state:     Initial(),
		written:   make(map[SliceName][]byte),
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// App returns the application scope of the store.
func (s *Store) App() string {
	return s.app
}

// State returns the current state. Callers must treat it as read-only.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn and returns a func that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Dispatch reduces a into the state, writes changed slices through to
// storage and notifies listeners. Persistence has finished when Dispatch
// returns.
func (s *Store) Dispatch(a Action) State {
	a = s.stamp(a)

	s.mu.Lock()
	prev := s.state
	next := Reduce(prev, a)
	s.state = next
	if _, ok := a.(ClearAll); ok {
		s.erase()
	} else {
		s.persist(prev, next)
	}
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
	return next
}

func (s *Store) stamp(a Action) Action {
	switch v := a.(type) {
	case AppendMessage:
		if v.Message.CreatedAt.IsZero() {
			v.Message.CreatedAt = s.now()
		}
		return v
	case SubmitProfile:
		if v.At.IsZero() {
			v.At = s.now()
		}
		return v
	}
	return a
}

func (s *Store) snapshotListeners() []Listener {
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]Listener, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.listeners[id])
	}
	return out
}

// persist writes every watched slice whose encoding changed. Must be called
// with s.mu held.
func (s *Store) persist(prev, next State) {
	for _, name := range s.watched {
		data, err := EncodeSlice(next, name)
		if err != nil {
			s.logger.Warn("Failed to encode slice", "app", s.app, "slice", name, "error", err)
			continue
		}
		last, ok := s.written[name]
		if !ok {
			last, err = EncodeSlice(prev, name)
			if err != nil {
				last = nil
			}
		}
		if bytes.Equal(last, data) {
			continue
		}
		if err := s.storage.Set(Key(s.app, name), data); err != nil {
			s.logger.Warn("Failed to persist slice", "app", s.app, "slice", name, "error", err)
			continue
		}
		s.written[name] = data
	}
}

// erase removes every persisted key of the application. Must be called with
// s.mu held.
func (s *Store) erase() {
	for _, name := range PersistedSlices {
		if err := s.storage.Remove(Key(s.app, name)); err != nil {
			s.logger.Warn("Failed to erase slice", "app", s.app, "slice", name, "error", err)
		}
	}
	clear(s.written)
}

// RehydrateReport describes what Rehydrate found in storage.
type RehydrateReport struct {
	Loaded  []SliceName
	Missing []SliceName
	Failed  []SliceName
}

type readResult struct {
	snap    Snapshot
	missing bool
	err     error
}

// Rehydrate reads every watched slice concurrently and loads the ones that
// parse. Missing or unreadable slices keep their defaults; a failure in one
// slice never blocks the others. Only the first completed call has any
// effect. The returned error is non-nil only when ctx ends before the reads
// finish; nothing is loaded then and a later call may try again.
func (s *Store) Rehydrate(ctx context.Context) (RehydrateReport, error) {
	s.mu.Lock()
	if s.rehydrated {
		s.mu.Unlock()
		return RehydrateReport{}, nil
	}
	s.rehydrated = true
	watched := slices.Clone(s.watched)
	s.mu.Unlock()

	results := make([]readResult, len(watched))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range watched {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = readResult{err: err}
				return nil
			}
			results[i] = s.read(name)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		s.mu.Lock()
		s.rehydrated = false
		s.mu.Unlock()
		return RehydrateReport{}, err
	}

	var report RehydrateReport
	s.mu.Lock()
	for i, name := range watched {
		res := results[i]
		switch {
		case res.missing:
			report.Missing = append(report.Missing, name)
		case res.err != nil:
			s.logger.Warn("Failed to rehydrate slice, using default", "app", s.app, "slice", name, "error", res.err)
			report.Failed = append(report.Failed, name)
		default:
			s.state = Reduce(s.state, LoadPersistedState{Snapshot: res.snap})
			if data, err := EncodeSlice(s.state, name); err == nil {
				s.written[name] = data
			}
			report.Loaded = append(report.Loaded, name)
		}
	}
	next := s.state
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	s.logger.Debug("Store rehydrated", "app", s.app, "loaded", report.Loaded, "missing", report.Missing, "failed", report.Failed)
	for _, fn := range listeners {
		fn(next)
	}
	return report, nil
}

func (s *Store) read(name SliceName) readResult {
	data, err := s.storage.Get(Key(s.app, name))
	if errors.Is(err, ErrKeyNotFound) {
		return readResult{missing: true}
	}
	if err != nil {
		return readResult{err: err}
	}
	snap, err := DecodeSlice(name, data)
	if err != nil {
		return readResult{err: err}
	}
	return readResult{snap: snap}
}

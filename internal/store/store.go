// Package store keeps an in-memory mirror of the remote tables. Reads are
// served from immutable snapshots; every write goes to the remote system of
// record first and the mirror is refreshed from it afterwards.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/remote"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock sets the clock used for FetchedAt and review timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithRetryInterval sets how often Run retries while no fetch has ever
// succeeded. Non-positive values keep the default.
func WithRetryInterval(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.retry = d
		}
	}
}

// WithRefreshLimit bounds how often change notifications may trigger a
// refresh in Run.
func WithRefreshLimit(r rate.Limit, burst int) Option {
	return func(s *Store) { s.limiter = rate.NewLimiter(r, burst) }
}

type Store struct {
	client  remote.Client
	logger  *slog.Logger
	now     func() time.Time
	limiter *rate.Limiter
	retry   time.Duration

	mu      sync.RWMutex
	snap    *Snapshot
	version uint64

	lmu       sync.Mutex
	listeners map[int]func(*Snapshot)
	nextID    int

	dmu      sync.Mutex
	notified uint64

	refresh chan struct{}
}

func New(client remote.Client, opts ...Option) *Store {
	s := &Store{
		client:    client,
		logger:    slog.Default(),
		now:       time.Now,
		limiter:   rate.NewLimiter(rate.Inf, 1),
		retry:     5 * time.Second,
		snap:      emptySnapshot(),
		listeners: make(map[int]func(*Snapshot)),
		refresh:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current mirror. It is empty until the first
// successful FetchAll.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// FetchAll re-reads every watched table and publishes a new snapshot. On
// failure the previous snapshot stays in place. Overlapping calls are safe:
// each completion publishes its own complete snapshot, so the last one to
// finish wins.
func (s *Store) FetchAll(ctx context.Context) (*Snapshot, error) {
	start := time.Now()

	var raw rawTables
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.client.Select(gctx, remote.TableProperties, &raw.properties) })
	g.Go(func() error { return s.client.Select(gctx, remote.TableUnits, &raw.units) })
	g.Go(func() error { return s.client.Select(gctx, remote.TableTenants, &raw.tenants) })
	g.Go(func() error { return s.client.Select(gctx, remote.TableManagers, &raw.managers) })
	g.Go(func() error { return s.client.Select(gctx, remote.TablePayments, &raw.payments) })
	g.Go(func() error { return s.client.Select(gctx, remote.TableNotifications, &raw.notifications) })

	if err := g.Wait(); err != nil {
		metrics.ObserveFetch(start, err)
		return nil, &Error{Op: OpFetch, Err: err}
	}

	snap := buildSnapshot(raw, s.now().UTC())

	s.mu.Lock()
	s.version++
	snap.Version = s.version
	s.snap = snap
	s.mu.Unlock()

	metrics.ObserveFetch(start, nil)
	metrics.MirrorVersion.Set(float64(snap.Version))
	s.notify(snap)
	return snap, nil
}

// Mutation is a single remote write.
type Mutation struct {
	Table  remote.Table
	Op     Op
	ID     string         // update, delete
	Record any            // insert: pointer to the table's model
	Fields map[string]any // update: column -> value, nil clears
}

// Mutate sends exactly one request to the remote client. A failed write
// leaves the mirror untouched. A successful write is followed by FetchAll
// before Mutate returns.
func (s *Store) Mutate(ctx context.Context, m Mutation) error {
	var err error
	switch m.Op {
	case OpInsert:
		err = s.client.Insert(ctx, m.Table, m.Record)
	case OpUpdate:
		err = s.client.Update(ctx, m.Table, m.ID, m.Fields)
	case OpDelete:
		err = s.client.Delete(ctx, m.Table, m.ID)
	default:
		return fmt.Errorf("unsupported mutation op %q", m.Op)
	}
	metrics.ObserveMutation(string(m.Table), string(m.Op), err)
	if err != nil {
		s.logger.Error("remote write failed", "table", string(m.Table), "op", string(m.Op), "id", m.ID, "error", err)
		return &Error{Op: m.Op, Table: m.Table, ID: m.ID, Err: err}
	}

	if _, err := s.FetchAll(ctx); err != nil {
		s.logger.Error("refresh after write failed", "table", string(m.Table), "op", string(m.Op), "id", m.ID, "error", err)
		var fe *Error
		if errors.As(err, &fe) {
			err = fe.Err
		}
		return &Error{Op: m.Op, Table: m.Table, ID: m.ID, Applied: true, Err: err}
	}
	return nil
}

// OnExternalChange schedules a refresh. Bursts of notifications collapse
// into one pending refresh.
func (s *Store) OnExternalChange(ev remote.ChangeEvent) {
	metrics.ExternalChangeTotal.WithLabelValues(string(ev.Table)).Inc()
	s.queueRefresh()
}

func (s *Store) queueRefresh() {
	select {
	case s.refresh <- struct{}{}:
	default:
	}
}

// Run subscribes to remote changes and refreshes the mirror for each batch
// of notifications until ctx is done. Until a first fetch succeeds it also
// retries on its own every retry interval, since an empty mirror rejects the
// writes that would otherwise produce change events.
func (s *Store) Run(ctx context.Context) {
	unsubscribe := s.client.SubscribeAll(s.OnExternalChange)
	defer unsubscribe()

	retry := time.NewTicker(s.retry)
	defer retry.Stop()
	if s.Snapshot().Version == 0 {
		s.queueRefresh()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-retry.C:
			if s.Snapshot().Version == 0 {
				s.queueRefresh()
			}
		case <-s.refresh:
			if err := s.limiter.Wait(ctx); err != nil {
				return
			}
			if _, err := s.FetchAll(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				s.logger.Warn("refresh after change notification failed", "error", err)
			}
		}
	}
}

// Subscribe registers fn to be called with every newly published snapshot.
func (s *Store) Subscribe(fn func(*Snapshot)) (unsubscribe func()) {
	s.lmu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.lmu.Unlock()

	return func() {
		s.lmu.Lock()
		delete(s.listeners, id)
		s.lmu.Unlock()
	}
}

// notify delivers snap to listeners. Overlapping fetches may finish
// publishing out of order; delivery is serialized and a snapshot older than
// one already delivered is dropped, so listeners see increasing versions.
// Listeners must not call FetchAll or Mutate.
func (s *Store) notify(snap *Snapshot) {
	s.dmu.Lock()
	defer s.dmu.Unlock()
	if snap.Version <= s.notified {
		return
	}
	s.notified = snap.Version

	s.lmu.Lock()
	fns := make([]func(*Snapshot), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.lmu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

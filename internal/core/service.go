// Package core implements the directory consistency engine: every mutation of
// clergy, parishes, deaneries and user accounts goes through Service, which
// keeps the denormalized copies held by each collection in agreement.
package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"diocese/internal/blob"
	"diocese/pkg/domain"
)

// Service is the only writer of the directory collections. It holds no record
// state between calls; each operation loads what it needs from the store.
type Service struct {
	store   domain.CollectionStore
	engine  *domain.RulesEngine
	images  blob.Store
	logger  Logger
	clock   Clock
	metrics MetricsRecorder
	tracer  Tracer
	audit   AuditRecorder
	newID   func() string

	// mu serializes read-modify-write cycles issued through this Service.
	mu sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithLogger routes service logs to logger. A nil logger is ignored.
func WithLogger(logger Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used for record timestamps.
func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithMetricsRecorder installs an operation metrics sink.
func WithMetricsRecorder(recorder MetricsRecorder) Option {
	return func(s *Service) {
		if recorder != nil {
			s.metrics = recorder
		}
	}
}

// WithTracer installs an operation tracer.
func WithTracer(tracer Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithAuditRecorder installs an audit sink for mutations.
func WithAuditRecorder(recorder AuditRecorder) Option {
	return func(s *Service) {
		if recorder != nil {
			s.audit = recorder
		}
	}
}

// WithIDGenerator overrides the record id generator (uuid v4 by default).
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithProfileImages enables clergy portrait storage.
func WithProfileImages(store blob.Store) Option {
	return func(s *Service) { s.images = store }
}

// WithRulesEngine replaces the default integrity rules.
func WithRulesEngine(engine *domain.RulesEngine) Option {
	return func(s *Service) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// NewService constructs a service over the supplied collection store.
func NewService(store domain.CollectionStore, opts ...Option) *Service {
	s := &Service{
		store:   store,
		engine:  NewDefaultRulesEngine(),
		logger:  noopLogger{},
		clock:   ClockFunc(time.Now),
		metrics: noopMetrics{},
		tracer:  noopTracer{},
		audit:   noopAudit{},
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying collection store.
func (s *Service) Store() domain.CollectionStore { return s.store }

// RulesEngine returns the engine evaluated after every mutation.
func (s *Service) RulesEngine() *domain.RulesEngine { return s.engine }

// Close releases the underlying store.
func (s *Service) Close() error { return s.store.Close() }

func (s *Service) now() time.Time { return s.clock.Now().UTC() }

// writeOrder is the fixed order in which changed collections are persisted.
// A failure part way leaves earlier collections written; RepairAll restores
// consistency from whatever was stored.
var writeOrder = []string{
	domain.CollectionParishes,
	domain.CollectionDeaneries,
	domain.CollectionClergy,
	domain.CollectionUsers,
	domain.CollectionCredentials,
	domain.CollectionCalendarEvents,
}

// state is a loaded snapshot plus the encoding each collection had when read.
type state struct {
	snap     domain.Snapshot
	original map[string][]byte
}

func (st *state) target(key string) any {
	switch key {
	case domain.CollectionClergy:
		return &st.snap.Clergy
	case domain.CollectionParishes:
		return &st.snap.Parishes
	case domain.CollectionDeaneries:
		return &st.snap.Deaneries
	case domain.CollectionUsers:
		return &st.snap.Users
	case domain.CollectionCredentials:
		return &st.snap.Credentials
	case domain.CollectionCalendarEvents:
		return &st.snap.CalendarEvents
	}
	return nil
}

func (s *Service) load(ctx context.Context) (*state, error) {
	st := &state{original: make(map[string][]byte, len(writeOrder))}
	payloads := make([][]byte, len(writeOrder))
	g, gctx := errgroup.WithContext(ctx)
	for i, key := range writeOrder {
		g.Go(func() error {
			raw, ok, err := s.store.Get(gctx, key)
			if err != nil {
				return &domain.StorageError{Op: "get", Key: key, Err: err}
			}
			if ok {
				payloads[i] = raw
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, key := range writeOrder {
		target := st.target(key)
		if len(payloads[i]) > 0 && !bytes.Equal(payloads[i], []byte("null")) {
			if err := json.Unmarshal(payloads[i], target); err != nil {
				return nil, &domain.StorageError{Op: "decode", Key: key, Err: err}
			}
		}
		encoded, err := encodeCollection(target)
		if err != nil {
			return nil, err
		}
		st.original[key] = encoded
	}
	return st, nil
}

// encodeCollection marshals a pointer to a slice, writing nil slices as [].
func encodeCollection(target any) ([]byte, error) {
	var v any = target
	switch t := target.(type) {
	case *[]domain.Clergy:
		v = nonNil(*t)
	case *[]domain.Parish:
		v = nonNil(*t)
	case *[]domain.Deanery:
		v = nonNil(*t)
	case *[]domain.UserAccount:
		v = nonNil(*t)
	case *[]domain.LoginCredential:
		v = nonNil(*t)
	case *[]domain.CalendarEvent:
		v = nonNil(*t)
	}
	encoded, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode collection: %w", err)
	}
	return encoded, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// commit writes every collection whose encoding changed, in writeOrder. It
// returns the keys it wrote.
func (s *Service) commit(ctx context.Context, st *state) ([]string, error) {
	var written []string
	for _, key := range writeOrder {
		encoded, err := encodeCollection(st.target(key))
		if err != nil {
			return written, err
		}
		if bytes.Equal(encoded, st.original[key]) {
			continue
		}
		if err := s.store.Set(ctx, key, encoded); err != nil {
			return written, &domain.StorageError{Op: "set", Key: key, Err: err}
		}
		st.original[key] = encoded
		written = append(written, key)
	}
	return written, nil
}

// mutate runs one read-modify-write cycle: load, apply fn, synchronize the
// denormalized copies, evaluate the rules and persist. Errors from fn abort
// before anything is written.
func (s *Service) mutate(ctx context.Context, fn func(st *state) ([]domain.Change, error)) (*state, domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx)
	if err != nil {
		return nil, domain.Result{}, err
	}
	changes, err := fn(st)
	if err != nil {
		return nil, domain.Result{}, err
	}
	synchronize(&st.snap)

	res, err := s.engine.Evaluate(ctx, &st.snap, changes)
	if err != nil {
		return nil, domain.Result{}, err
	}
	if res.HasBlocking() {
		return nil, res, domain.RuleViolationError{Result: res}
	}
	if n := res.Count(domain.SeverityWarn); n > 0 {
		s.logger.Debug("integrity warnings after mutation", "warnings", n)
	}

	written, err := s.commit(ctx, st)
	if err != nil {
		s.logger.Error("partial commit", "written", written, "error", err)
		return nil, res, err
	}
	return st, res, nil
}

// read loads a consistent snapshot without writing.
func (s *Service) read(ctx context.Context) (*state, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Service) stamp(b *domain.Base, existing *domain.Base) {
	now := s.now()
	if b.ID == "" {
		b.ID = s.newID()
	}
	if existing != nil && !existing.CreatedAt.IsZero() {
		b.CreatedAt = existing.CreatedAt
	} else if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

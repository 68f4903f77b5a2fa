package activity

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/v4ner/sugarch-utilities/pkg/sugarch/observability"
)

// Subscription is the handle returned by the subscribe operations. It
// identifies one registration; duplicate registrations of the same
// callback get distinct handles and fire independently.
type Subscription struct {
	router *Router
	mode   Mode
	filter Name
	fn     Listener
	once   bool

	// guarded by router.mu
	fired   bool
	removed bool
}

// Mode returns the mode this subscription is registered at.
func (s *Subscription) Mode() Mode { return s.mode }

// Activity returns the activity filter, AnyActivity if unfiltered.
func (s *Subscription) Activity() Name { return s.filter }

// Once returns true for one-shot subscriptions.
func (s *Subscription) Once() bool { return s.once }

// Unsubscribe removes this registration. It is idempotent; removing an
// already-removed subscription is a no-op. When called from inside a
// listener during a dispatch cycle, the subscription still fires for
// that cycle and never for later ones.
func (s *Subscription) Unsubscribe() {
	r := s.router
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.removed {
		return
	}
	s.removed = true
	for i, sub := range r.entries {
		if sub == s {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			break
		}
	}
	r.metrics.RecordSubscriptions(s.mode.String(), -1)
}

// claim marks a one-shot subscription as fired. Returns false if it
// already fired, which can happen when a nested dispatch cycle reaches
// the same entry first.
func (s *Subscription) claim() bool {
	r := s.router
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.fired {
		return false
	}
	s.fired = true
	return true
}

// Router routes activity events to subscribed listeners. Listeners are
// invoked synchronously, in registration order, on the goroutine that
// calls Dispatch. The zero value is not usable; use NewRouter.
type Router struct {
	mu      sync.RWMutex
	entries []*Subscription

	logger  *slog.Logger
	metrics observability.MetricsRecorder
	onPanic func(mode Mode, filter Name, recovered any)
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger for dispatch diagnostics. The router is
// silent when no logger is set.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithMetrics sets the metrics recorder. Defaults to a no-op recorder.
func WithMetrics(metrics observability.MetricsRecorder) Option {
	return func(r *Router) {
		if metrics != nil {
			r.metrics = metrics
		}
	}
}

// WithOnPanic sets a hook called after a listener panic is recovered,
// with the mode and activity filter of the registration that was firing.
func WithOnPanic(fn func(mode Mode, filter Name, recovered any)) Option {
	return func(r *Router) {
		r.onPanic = fn
	}
}

// NewRouter creates an empty router.
func NewRouter(opts ...Option) *Router {
	r := &Router{
		metrics: observability.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// On subscribes fn to every activity dispatched at mode.
func (r *Router) On(mode Mode, fn Listener) (*Subscription, error) {
	return r.subscribe(mode, AnyActivity, fn, false)
}

// OnActivity subscribes fn to the named activity at mode.
func (r *Router) OnActivity(mode Mode, name Name, fn Listener) (*Subscription, error) {
	return r.subscribe(mode, name, fn, false)
}

// Once subscribes fn to every activity at mode, firing at most once.
// The subscription is removed after its first matching dispatch.
func (r *Router) Once(mode Mode, fn Listener) (*Subscription, error) {
	return r.subscribe(mode, AnyActivity, fn, true)
}

// OnceActivity subscribes fn to the named activity at mode, firing at
// most once.
func (r *Router) OnceActivity(mode Mode, name Name, fn Listener) (*Subscription, error) {
	return r.subscribe(mode, name, fn, true)
}

func (r *Router) subscribe(mode Mode, filter Name, fn Listener, once bool) (*Subscription, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
	}
	if fn == nil {
		return nil, ErrNilListener
	}

	sub := &Subscription{
		router: r,
		mode:   mode,
		filter: filter,
		fn:     fn,
		once:   once,
	}

	r.mu.Lock()
	r.entries = append(r.entries, sub)
	r.mu.Unlock()

	r.metrics.RecordSubscriptions(mode.String(), 1)
	return sub, nil
}

// UnsubscribeAll removes every registration whose (mode, filter) pair
// matches exactly. Use AnyActivity to target the unfiltered entries for
// a mode. Removing nothing is a no-op.
func (r *Router) UnsubscribeAll(mode Mode, filter Name) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := make([]*Subscription, 0, len(r.entries))
	for _, sub := range r.entries {
		if sub.mode == mode && sub.filter == filter {
			sub.removed = true
			r.metrics.RecordSubscriptions(sub.mode.String(), -1)
			continue
		}
		kept = append(kept, sub)
	}
	r.entries = kept
}

// Len returns the number of live registrations.
func (r *Router) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Dispatch delivers one activity event to every registration whose mode
// is in modes and whose filter is AnyActivity or equals name. Listeners
// run synchronously in registration order; a panicking listener is
// recovered and reported without aborting delivery to the rest.
//
// Delivery is decided from a snapshot of the registrations taken at the
// start of the cycle: entries subscribed during the cycle do not receive
// this event, and entries unsubscribed during the cycle still do.
// One-shot entries that fired are removed when the cycle completes.
//
// Dispatch never fails; errors stop at the listener boundary.
func (r *Router) Dispatch(modes ModeSet, name Name, evt *Event) {
	start := time.Now()
	dispatchID := fmt.Sprintf("disp-%s", uuid.New().String()[:8])
	logger := observability.DispatchLogger(r.logger, dispatchID, string(name))

	r.mu.RLock()
	snapshot := make([]*Subscription, len(r.entries))
	copy(snapshot, r.entries)
	r.mu.RUnlock()

	matched := 0
	for _, sub := range snapshot {
		if !modes.Has(sub.mode) {
			continue
		}
		if sub.filter != AnyActivity && sub.filter != name {
			continue
		}
		if sub.once && !sub.claim() {
			continue
		}
		matched++
		r.invoke(logger, sub, evt)
	}

	r.swap(snapshot)

	elapsed := time.Since(start)
	observability.LogDispatchComplete(logger, string(name), matched, float64(elapsed.Microseconds())/1000.0)
	r.metrics.RecordDispatch(string(name), matched, elapsed)
}

// invoke runs one listener inside the panic boundary.
func (r *Router) invoke(logger *slog.Logger, sub *Subscription, evt *Event) {
	defer func() {
		if rec := recover(); rec != nil {
			observability.LogListenerPanic(logger, sub.mode.String(), string(sub.filter), rec)
			r.metrics.RecordListenerFailure(sub.mode.String(), string(sub.filter))
			if r.onPanic != nil {
				r.onPanic(sub.mode, sub.filter, rec)
			}
		}
	}()
	sub.fn(evt)
}

// swap replaces the live registrations at the end of a dispatch cycle:
// snapshot entries that were neither unsubscribed nor consumed as
// one-shots, in their original order, followed by entries subscribed
// during the cycle.
func (r *Router) swap(snapshot []*Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inSnapshot := make(map[*Subscription]struct{}, len(snapshot))
	for _, sub := range snapshot {
		inSnapshot[sub] = struct{}{}
	}

	next := make([]*Subscription, 0, len(r.entries))
	for _, sub := range snapshot {
		if sub.removed {
			continue
		}
		if sub.once && sub.fired {
			sub.removed = true
			r.metrics.RecordSubscriptions(sub.mode.String(), -1)
			continue
		}
		next = append(next, sub)
	}
	for _, sub := range r.entries {
		if _, ok := inSnapshot[sub]; !ok {
			next = append(next, sub)
		}
	}
	r.entries = next
}

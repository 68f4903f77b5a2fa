// Package chatfeed connects a chat host to an activity router.
//
// The feed waits for the host to finish loading, registers a message
// handler, and from then on turns every activity room message into a
// dispatch: the body is parsed into a structured record, classified
// relative to the observing character, and delivered synchronously to
// the router. Malformed bodies are logged and dropped; they never stop
// the feed or reach the host.
//
// Common flow:
//
//	feed, err := chatfeed.New(host, shared.Router("R114"), observer)
//	if err != nil {
//	    return err
//	}
//	if err := feed.Attach(ctx); err != nil {
//	    return err
//	}
package chatfeed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/v4ner/sugarch-utilities/pkg/sugarch/activity"
	"github.com/v4ner/sugarch-utilities/pkg/sugarch/config"
	"github.com/v4ner/sugarch-utilities/pkg/sugarch/observability"
)

// Feed errors.
var (
	ErrNilHost         = errors.New("host is required")
	ErrNilRouter       = errors.New("router is required")
	ErrAlreadyAttached = errors.New("feed already attached")
	ErrHostNotReady    = errors.New("host not ready")
)

// Settings holds the tunable feed parameters. Fields carry env tags so
// the struct can be filled from SUGARCH_FEED_* variables.
type Settings struct {
	// PollInterval is how often Attach re-checks host readiness.
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"100ms"`

	// ReadyTimeout bounds the readiness wait. Zero means wait until
	// the context is cancelled.
	ReadyTimeout time.Duration `env:"READY_TIMEOUT" envDefault:"10s"`
}

// DefaultSettings are the settings used when none are supplied.
var DefaultSettings = Settings{
	PollInterval: 100 * time.Millisecond,
	ReadyTimeout: 10 * time.Second,
}

// SettingsFromConfig reads feed settings from a Config, falling back to
// the defaults for missing keys.
func SettingsFromConfig(cfg config.Config) Settings {
	return Settings{
		PollInterval: cfg.Duration("poll_interval", DefaultSettings.PollInterval),
		ReadyTimeout: cfg.Duration("ready_timeout", DefaultSettings.ReadyTimeout),
	}
}

// SettingsFromEnv reads feed settings from SUGARCH_FEED_* environment
// variables.
func SettingsFromEnv() (Settings, error) {
	var s Settings
	if err := config.FromEnv("SUGARCH_FEED_", &s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Feed binds a host, an activity router, and an observing character.
type Feed struct {
	host     Host
	router   *activity.Router
	observer activity.MemberID

	settings Settings
	logger   *slog.Logger
	spans    observability.SpanManager

	mu       sync.Mutex
	attached bool
}

// Option configures a Feed.
type Option func(*Feed)

// WithLogger sets the logger for feed diagnostics. The feed is silent
// when no logger is set.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Feed) {
		f.logger = logger
	}
}

// WithSpans sets the span manager for per-message tracing. Defaults to
// a no-op manager.
func WithSpans(spans observability.SpanManager) Option {
	return func(f *Feed) {
		if spans != nil {
			f.spans = spans
		}
	}
}

// WithSettings overrides the default feed settings.
func WithSettings(s Settings) Option {
	return func(f *Feed) {
		if s.PollInterval > 0 {
			f.settings.PollInterval = s.PollInterval
		}
		f.settings.ReadyTimeout = s.ReadyTimeout
	}
}

// New creates a feed routing the host's activity messages to router,
// classified relative to observer.
func New(host Host, router *activity.Router, observer activity.MemberID, opts ...Option) (*Feed, error) {
	if host == nil {
		return nil, ErrNilHost
	}
	if router == nil {
		return nil, ErrNilRouter
	}

	f := &Feed{
		host:     host,
		router:   router,
		observer: observer,
		settings: DefaultSettings,
		spans:    observability.NoopSpanManager{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Attach waits for the host to become ready, then registers the message
// handler. It returns ErrHostNotReady if the readiness wait times out
// or the context is cancelled first, and ErrAlreadyAttached on repeated
// calls.
func (f *Feed) Attach(ctx context.Context) error {
	f.mu.Lock()
	if f.attached {
		f.mu.Unlock()
		return ErrAlreadyAttached
	}
	f.mu.Unlock()

	if err := f.waitReady(ctx); err != nil {
		return err
	}

	if err := f.host.RegisterMessageHandler(f.handle); err != nil {
		return fmt.Errorf("register message handler: %w", err)
	}

	f.mu.Lock()
	f.attached = true
	f.mu.Unlock()

	observability.LogFeedAttached(f.logger, uint32(f.observer))
	return nil
}

// Attached reports whether the feed has registered its handler.
func (f *Feed) Attached() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attached
}

// waitReady polls host readiness until ready, timeout, or cancellation.
func (f *Feed) waitReady(ctx context.Context) error {
	if f.host.Ready() {
		return nil
	}

	if f.settings.ReadyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.settings.ReadyTimeout)
		defer cancel()
	}

	ticker := time.NewTicker(f.settings.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrHostNotReady, ctx.Err())
		case <-ticker.C:
			if f.host.Ready() {
				return nil
			}
		}
	}
}

// handle routes one room message. Runs synchronously on the host's
// delivery goroutine.
func (f *Feed) handle(msg RoomMessage) {
	if msg.Kind != KindActivity {
		// Not ours; other message kinds are handled elsewhere.
		return
	}

	ctx, span := f.spans.StartMessageSpan(context.Background(), msg.Kind, uint32(msg.Sender))

	parsed, err := ParseActivity(msg)
	if err != nil {
		observability.LogMessageDropped(f.logger, msg.Kind, "malformed activity body", err)
		f.spans.EndSpanWithError(span, err)
		return
	}

	modes := activity.Classify(parsed.Info.SourceMember, parsed.Info.TargetMember, f.observer)
	evt := &activity.Event{
		Source: activity.Actor{
			Member: parsed.Info.SourceMember,
			Name:   parsed.SourceName,
		},
		Observer: activity.Actor{
			Member: f.observer,
			Name:   f.observerName(parsed),
		},
		Info: parsed.Info,
	}

	_, dispatchSpan := f.spans.StartDispatchSpan(ctx, string(parsed.Info.Name), modes.String())
	f.router.Dispatch(modes, parsed.Info.Name, evt)
	f.spans.EndSpanWithError(dispatchSpan, nil)
	f.spans.EndSpanWithError(span, nil)
}

// observerName recovers the observer's display name from the parsed
// message when the observer is one of the two actors.
func (f *Feed) observerName(parsed ParsedActivity) string {
	switch f.observer {
	case parsed.Info.TargetMember:
		return parsed.TargetName
	case parsed.Info.SourceMember:
		return parsed.SourceName
	default:
		return ""
	}
}

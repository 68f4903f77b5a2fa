package chatfeed_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v4ner/sugarch-utilities/pkg/sugarch/activity"
	"github.com/v4ner/sugarch-utilities/pkg/sugarch/chatfeed"
	"github.com/v4ner/sugarch-utilities/pkg/sugarch/config"
)

const observer = activity.MemberID(1001)

func configFrom(t *testing.T, yamlDoc string) config.Config {
	t.Helper()
	cfg, err := config.FromYAML([]byte(yamlDoc))
	require.NoError(t, err)
	return cfg
}

// fakeHost is an in-memory Host for tests. Deliver pushes a message to
// the registered handler.
type fakeHost struct {
	mu          sync.Mutex
	ready       bool
	handler     func(chatfeed.RoomMessage)
	registerErr error
}

func (h *fakeHost) Ready() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ready
}

func (h *fakeHost) SetReady(ready bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ready = ready
}

func (h *fakeHost) RegisterMessageHandler(handler func(chatfeed.RoomMessage)) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.registerErr != nil {
		return h.registerErr
	}
	h.handler = handler
	return nil
}

func (h *fakeHost) Deliver(msg chatfeed.RoomMessage) {
	h.mu.Lock()
	handler := h.handler
	h.mu.Unlock()
	if handler != nil {
		handler(msg)
	}
}

func kissMessage(t *testing.T) chatfeed.RoomMessage {
	t.Helper()
	return activityMessage(t, map[string]any{
		"source_member": 2002,
		"target_member": 1001,
		"group":         "ItemMouth",
		"name":          "Kiss",
		"source_name":   "Dot",
		"target_name":   "Sara",
	})
}

func TestAttachAndRoute(t *testing.T) {
	host := &fakeHost{ready: true}
	router := activity.NewRouter()

	var events []*activity.Event
	_, err := router.On(activity.ModeOthersOnSelf, func(evt *activity.Event) {
		events = append(events, evt)
	})
	require.NoError(t, err)

	feed, err := chatfeed.New(host, router, observer)
	require.NoError(t, err)
	require.NoError(t, feed.Attach(context.Background()))
	assert.True(t, feed.Attached())

	host.Deliver(kissMessage(t))

	require.Len(t, events, 1)
	evt := events[0]
	assert.Equal(t, activity.Name("Kiss"), evt.Info.Name)
	assert.Equal(t, activity.MemberID(2002), evt.Source.Member)
	assert.Equal(t, "Dot", evt.Source.Name)
	assert.Equal(t, observer, evt.Observer.Member)
	assert.Equal(t, "Sara", evt.Observer.Name, "observer name recovered from target_name")
}

func TestRoutePerspectiveWidening(t *testing.T) {
	host := &fakeHost{ready: true}
	router := activity.NewRouter()

	counts := map[activity.Mode]int{}
	for _, mode := range []activity.Mode{
		activity.ModeOthersOnSelf,
		activity.ModeAnyOnSelf,
		activity.ModeSelfInvolved,
		activity.ModeAnyInvolved,
		activity.ModeSelfOnOthers,
	} {
		m := mode
		_, err := router.On(m, func(*activity.Event) { counts[m]++ })
		require.NoError(t, err)
	}

	feed, err := chatfeed.New(host, router, observer)
	require.NoError(t, err)
	require.NoError(t, feed.Attach(context.Background()))

	// Someone else acting on the observer widens to four modes.
	host.Deliver(kissMessage(t))

	assert.Equal(t, 1, counts[activity.ModeOthersOnSelf])
	assert.Equal(t, 1, counts[activity.ModeAnyOnSelf])
	assert.Equal(t, 1, counts[activity.ModeSelfInvolved])
	assert.Equal(t, 1, counts[activity.ModeAnyInvolved])
	assert.Equal(t, 0, counts[activity.ModeSelfOnOthers])
}

func TestNonActivityMessagesSkipped(t *testing.T) {
	host := &fakeHost{ready: true}
	router := activity.NewRouter()

	var calls int
	router.On(activity.ModeAnyInvolved, func(*activity.Event) { calls++ })

	feed, err := chatfeed.New(host, router, observer)
	require.NoError(t, err)
	require.NoError(t, feed.Attach(context.Background()))

	host.Deliver(chatfeed.RoomMessage{Kind: "chat", Body: json.RawMessage(`"hello"`)})

	assert.Zero(t, calls)
}

func TestMalformedActivityDropped(t *testing.T) {
	host := &fakeHost{ready: true}
	router := activity.NewRouter()

	var calls int
	router.On(activity.ModeAnyInvolved, func(*activity.Event) { calls++ })

	feed, err := chatfeed.New(host, router, observer)
	require.NoError(t, err)
	require.NoError(t, feed.Attach(context.Background()))

	// Must not panic and must not dispatch.
	host.Deliver(chatfeed.RoomMessage{Kind: chatfeed.KindActivity, Body: []byte("{{")})
	assert.Zero(t, calls)

	// The feed keeps routing afterwards.
	host.Deliver(kissMessage(t))
	assert.Equal(t, 1, calls)
}

func TestAttachWaitsForReadiness(t *testing.T) {
	host := &fakeHost{}
	router := activity.NewRouter()

	feed, err := chatfeed.New(host, router, observer,
		chatfeed.WithSettings(chatfeed.Settings{
			PollInterval: time.Millisecond,
			ReadyTimeout: time.Second,
		}),
	)
	require.NoError(t, err)

	go func() {
		time.Sleep(10 * time.Millisecond)
		host.SetReady(true)
	}()

	require.NoError(t, feed.Attach(context.Background()))
	assert.True(t, feed.Attached())
}

func TestAttachReadyTimeout(t *testing.T) {
	host := &fakeHost{} // never ready
	router := activity.NewRouter()

	feed, err := chatfeed.New(host, router, observer,
		chatfeed.WithSettings(chatfeed.Settings{
			PollInterval: time.Millisecond,
			ReadyTimeout: 20 * time.Millisecond,
		}),
	)
	require.NoError(t, err)

	err = feed.Attach(context.Background())
	assert.ErrorIs(t, err, chatfeed.ErrHostNotReady)
	assert.False(t, feed.Attached())
}

func TestAttachContextCancelled(t *testing.T) {
	host := &fakeHost{} // never ready
	router := activity.NewRouter()

	feed, err := chatfeed.New(host, router, observer,
		chatfeed.WithSettings(chatfeed.Settings{
			PollInterval: time.Millisecond,
			ReadyTimeout: 0, // wait on the context alone
		}),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err = feed.Attach(ctx)
	assert.ErrorIs(t, err, chatfeed.ErrHostNotReady)
}

func TestAttachTwice(t *testing.T) {
	host := &fakeHost{ready: true}
	router := activity.NewRouter()

	feed, err := chatfeed.New(host, router, observer)
	require.NoError(t, err)
	require.NoError(t, feed.Attach(context.Background()))

	assert.ErrorIs(t, feed.Attach(context.Background()), chatfeed.ErrAlreadyAttached)
}

func TestAttachRegisterError(t *testing.T) {
	host := &fakeHost{ready: true, registerErr: assert.AnError}
	router := activity.NewRouter()

	feed, err := chatfeed.New(host, router, observer)
	require.NoError(t, err)

	err = feed.Attach(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, feed.Attached())
}

func TestNewValidation(t *testing.T) {
	router := activity.NewRouter()

	_, err := chatfeed.New(nil, router, observer)
	assert.ErrorIs(t, err, chatfeed.ErrNilHost)

	_, err = chatfeed.New(&fakeHost{}, nil, observer)
	assert.ErrorIs(t, err, chatfeed.ErrNilRouter)
}

func TestSettingsFromConfig(t *testing.T) {
	cfg := configFrom(t, "poll_interval: 50ms\nready_timeout: 2s\n")
	s := chatfeed.SettingsFromConfig(cfg)
	assert.Equal(t, 50*time.Millisecond, s.PollInterval)
	assert.Equal(t, 2*time.Second, s.ReadyTimeout)

	// Missing keys fall back to the defaults.
	s = chatfeed.SettingsFromConfig(configFrom(t, "other: 1\n"))
	assert.Equal(t, chatfeed.DefaultSettings, s)
}

func TestSettingsFromEnv(t *testing.T) {
	t.Setenv("SUGARCH_FEED_POLL_INTERVAL", "25ms")
	t.Setenv("SUGARCH_FEED_READY_TIMEOUT", "3s")

	s, err := chatfeed.SettingsFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 25*time.Millisecond, s.PollInterval)
	assert.Equal(t, 3*time.Second, s.ReadyTimeout)
}

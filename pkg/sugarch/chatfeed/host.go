package chatfeed

import (
	"encoding/json"

	"github.com/v4ner/sugarch-utilities/pkg/sugarch/activity"
)

// Message kinds the feed recognizes. Everything else is skipped.
const KindActivity = "activity"

// RoomMessage is the transport-level payload the host delivers to
// registered message handlers.
type RoomMessage struct {
	// Kind discriminates the message type ("activity", "chat", ...).
	Kind string

	// Sender is the member number of the character that sent the message.
	Sender activity.MemberID

	// Body is the kind-specific payload, left undecoded by the host.
	Body json.RawMessage
}

// Host is the chat runtime the feed attaches to. Registration is only
// possible once the host reports ready; Feed.Attach polls Ready before
// calling RegisterMessageHandler.
type Host interface {
	// Ready reports whether the host has finished loading.
	Ready() bool

	// RegisterMessageHandler registers a callback invoked synchronously
	// for every room message.
	RegisterMessageHandler(handler func(msg RoomMessage)) error
}

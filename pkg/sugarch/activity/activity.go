package activity

// MemberID identifies a character by their member number.
type MemberID uint32

// Name identifies an activity ("Kiss", "Slap", ...).
type Name string

// AnyActivity is the match-any activity filter. A subscription registered
// with AnyActivity fires for every activity name.
const AnyActivity = Name("")

// Actor is a lightweight character record carried in event payloads.
type Actor struct {
	// Member is the character's member number.
	Member MemberID

	// Name is the character's display name, if known.
	Name string
}

// Info is a parsed activity record.
type Info struct {
	// SourceMember performed the activity.
	SourceMember MemberID

	// TargetMember was acted on.
	TargetMember MemberID

	// Group is the body group the activity applies to, if any.
	Group string

	// Name is the activity identifier.
	Name Name
}

// Event is the payload delivered to listeners: the acting character, the
// observing character, and the parsed activity record. The router passes
// it through opaquely; listeners must treat it as read-only.
type Event struct {
	Source   Actor
	Observer Actor
	Info     Info
}

// Listener receives dispatched activity events.
type Listener func(evt *Event)

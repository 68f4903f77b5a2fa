package activity

// Perspective classifies an activity relative to an observing character:
// who acted on whom. It is derived per event, never stored.
type Perspective int

// Perspective categories.
const (
	// PerspectiveSelfOnSelf: the observer acted on themselves.
	PerspectiveSelfOnSelf Perspective = iota

	// PerspectiveOthersOnSelf: someone else acted on the observer.
	PerspectiveOthersOnSelf

	// PerspectiveSelfOnOthers: the observer acted on someone else.
	PerspectiveSelfOnOthers

	// PerspectiveOthersOnOthers: the observer was on neither end.
	PerspectiveOthersOnOthers
)

var perspectiveNames = [...]string{
	PerspectiveSelfOnSelf:     "self_on_self",
	PerspectiveOthersOnSelf:   "others_on_self",
	PerspectiveSelfOnOthers:   "self_on_others",
	PerspectiveOthersOnOthers: "others_on_others",
}

// String returns the category's snake_case name.
func (p Perspective) String() string {
	if p < 0 || int(p) >= len(perspectiveNames) {
		return "invalid"
	}
	return perspectiveNames[p]
}

// PerspectiveOf classifies an activity by comparing its source and target
// against the observer. Any two comparable identifiers produce a valid
// category; there are no error conditions.
func PerspectiveOf(source, target, observer MemberID) Perspective {
	switch {
	case target == observer && source == observer:
		return PerspectiveSelfOnSelf
	case target == observer:
		return PerspectiveOthersOnSelf
	case source == observer:
		return PerspectiveSelfOnOthers
	default:
		return PerspectiveOthersOnOthers
	}
}

// broadcastTable is the fixed widening rule: each perspective category
// maps to every subscription mode that subsumes it. A listener on a broad
// mode (ModeAnyInvolved) fires regardless of direction; ModeAnyOnSelf
// fires whenever the observer is the target no matter who acted;
// ModeSelfInvolved fires whenever the observer is either actor.
var broadcastTable = [...]ModeSet{
	PerspectiveSelfOnSelf:     NewModeSet(ModeSelfOnSelf, ModeAnyOnSelf, ModeSelfInvolved, ModeAnyInvolved),
	PerspectiveOthersOnSelf:   NewModeSet(ModeOthersOnSelf, ModeAnyOnSelf, ModeSelfInvolved, ModeAnyInvolved),
	PerspectiveSelfOnOthers:   NewModeSet(ModeSelfOnOthers, ModeSelfInvolved, ModeAnyInvolved),
	PerspectiveOthersOnOthers: NewModeSet(ModeAnyInvolved),
}

// Broadcast returns the set of subscription modes that must be notified
// for this perspective category.
func (p Perspective) Broadcast() ModeSet {
	if p < 0 || int(p) >= len(broadcastTable) {
		return 0
	}
	return broadcastTable[p]
}

// Classify maps a (source, target, observer) triple straight to the
// broadcast set: PerspectiveOf composed with Broadcast.
func Classify(source, target, observer MemberID) ModeSet {
	return PerspectiveOf(source, target, observer).Broadcast()
}

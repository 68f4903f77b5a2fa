package activity

import "strings"

// Mode is the granularity a listener subscribes at, relative to the
// observing character. Modes form a closed set; Subscribe rejects values
// outside it.
type Mode int

// Subscription modes, narrowest to broadest.
const (
	// ModeSelfOnSelf matches the observer acting on themselves.
	ModeSelfOnSelf Mode = iota

	// ModeOthersOnSelf matches someone else acting on the observer.
	ModeOthersOnSelf

	// ModeSelfOnOthers matches the observer acting on someone else.
	ModeSelfOnOthers

	// ModeAnyOnSelf matches anyone acting on the observer.
	ModeAnyOnSelf

	// ModeSelfInvolved matches the observer on either end.
	ModeSelfInvolved

	// ModeAnyInvolved matches every activity, any direction.
	ModeAnyInvolved

	modeCount // sentinel, keep last
)

var modeNames = [...]string{
	ModeSelfOnSelf:   "self_on_self",
	ModeOthersOnSelf: "others_on_self",
	ModeSelfOnOthers: "self_on_others",
	ModeAnyOnSelf:    "any_on_self",
	ModeSelfInvolved: "self_involved",
	ModeAnyInvolved:  "any_involved",
}

// Valid returns true if m is one of the defined subscription modes.
func (m Mode) Valid() bool {
	return m >= 0 && m < modeCount
}

// String returns the mode's snake_case name, or "invalid" for values
// outside the defined set.
func (m Mode) String() string {
	if !m.Valid() {
		return "invalid"
	}
	return modeNames[m]
}

// ModeSet is a set of subscription modes, used as the broadcast set of a
// dispatch cycle. The zero value is the empty set.
type ModeSet uint8

// NewModeSet builds a set from the given modes. Invalid modes are ignored.
func NewModeSet(modes ...Mode) ModeSet {
	var s ModeSet
	for _, m := range modes {
		s = s.With(m)
	}
	return s
}

// Has returns true if the set contains m.
func (s ModeSet) Has(m Mode) bool {
	if !m.Valid() {
		return false
	}
	return s&(1<<uint(m)) != 0
}

// With returns a copy of the set with m added.
func (s ModeSet) With(m Mode) ModeSet {
	if !m.Valid() {
		return s
	}
	return s | 1<<uint(m)
}

// Modes returns the members of the set, narrowest mode first.
func (s ModeSet) Modes() []Mode {
	modes := make([]Mode, 0, modeCount)
	for m := Mode(0); m < modeCount; m++ {
		if s.Has(m) {
			modes = append(modes, m)
		}
	}
	return modes
}

// Len returns the number of modes in the set.
func (s ModeSet) Len() int {
	n := 0
	for m := Mode(0); m < modeCount; m++ {
		if s.Has(m) {
			n++
		}
	}
	return n
}

// String returns the set as "{self_on_self|any_on_self}".
func (s ModeSet) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, m := range s.Modes() {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(m.String())
	}
	b.WriteByte('}')
	return b.String()
}

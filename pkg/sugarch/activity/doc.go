// Package activity provides an in-process publish/subscribe router for
// activity notifications between characters in a chat room.
//
// # Overview
//
// An activity is a discrete named interaction between two characters, a
// source (who acted) and a target (who was acted on). Listeners subscribe
// to activities at a chosen granularity, the subscription Mode, relative
// to an observing character:
//
//   - ModeSelfOnSelf: the observer acting on themselves
//   - ModeOthersOnSelf: someone else acting on the observer
//   - ModeSelfOnOthers: the observer acting on someone else
//   - ModeAnyOnSelf: anyone acting on the observer
//   - ModeSelfInvolved: the observer on either end
//   - ModeAnyInvolved: every activity, any direction
//
// # Classification and widening
//
// Each incoming activity is classified into one of four perspective
// categories by comparing its source and target against the observer
// (PerspectiveOf), then widened into the full set of modes that must be
// notified (Perspective.Broadcast). Classify composes the two:
//
//	modes := activity.Classify(info.SourceMember, info.TargetMember, observer)
//	router.Dispatch(modes, info.Name, evt)
//
// # Dispatch semantics
//
// Dispatch walks a snapshot of the registrations in registration order
// and invokes every listener whose mode is in the broadcast set and whose
// activity filter matches. Listeners may subscribe, unsubscribe, or even
// dispatch again from inside a callback:
//
//   - a listener subscribed during a cycle never sees the event of that
//     cycle; it becomes visible on the next one
//   - a listener unsubscribed during a cycle still fires for that cycle
//     (removal is deferred to the end of the cycle) and never after
//   - one-shot listeners fire at most once globally, including across
//     nested dispatch cycles
//
// A panicking listener is recovered, reported, and never prevents
// delivery to the remaining listeners.
package activity

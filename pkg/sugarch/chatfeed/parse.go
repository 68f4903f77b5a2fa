package chatfeed

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/v4ner/sugarch-utilities/pkg/sugarch/activity"
)

// ParseError reports a room message whose body could not be decoded
// into a well-formed activity record.
type ParseError struct {
	Kind string // message kind that failed
	Err  error  // underlying cause
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s message: %v", e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// activityBody is the wire shape of an activity message body.
type activityBody struct {
	SourceMember uint32 `json:"source_member"`
	TargetMember uint32 `json:"target_member"`
	Group        string `json:"group,omitempty"`
	Name         string `json:"name"`
	SourceName   string `json:"source_name,omitempty"`
	TargetName   string `json:"target_name,omitempty"`
}

// ParsedActivity is a decoded activity message: the structured record
// plus the display names the sender attached, when present.
type ParsedActivity struct {
	Info       activity.Info
	SourceName string
	TargetName string
}

// ParseActivity extracts an activity record from a room message.
// Returns a *ParseError when the body is malformed or incomplete.
func ParseActivity(msg RoomMessage) (ParsedActivity, error) {
	var body activityBody
	if err := json.Unmarshal(msg.Body, &body); err != nil {
		return ParsedActivity{}, &ParseError{Kind: msg.Kind, Err: err}
	}

	if body.Name == "" {
		return ParsedActivity{}, &ParseError{Kind: msg.Kind, Err: errors.New("activity name is required")}
	}
	if body.SourceMember == 0 {
		return ParsedActivity{}, &ParseError{Kind: msg.Kind, Err: errors.New("source member is required")}
	}
	if body.TargetMember == 0 {
		return ParsedActivity{}, &ParseError{Kind: msg.Kind, Err: errors.New("target member is required")}
	}

	return ParsedActivity{
		Info: activity.Info{
			SourceMember: activity.MemberID(body.SourceMember),
			TargetMember: activity.MemberID(body.TargetMember),
			Group:        body.Group,
			Name:         activity.Name(body.Name),
		},
		SourceName: body.SourceName,
		TargetName: body.TargetName,
	}, nil
}

package models

import "errors"

var (
	// ErrNotFound reports a cache addressing miss or a rule lookup miss.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput reports a request the rule engine cannot act on,
	// e.g. a date bucketing switch without a date kind.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicateName reports a rename or merge that would collide with an
	// existing name.
	ErrDuplicateName = errors.New("duplicate name")
	// ErrUnmatchedRules reports a switch combination no rule case handles.
	ErrUnmatchedRules = errors.New("rules didn't match any case")
)

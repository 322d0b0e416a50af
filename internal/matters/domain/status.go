// Package domain provides core business rules for the matters bounded context:
// the matter status state machine and matter number formatting.
package domain

import (
	"fmt"

	"practicedesk_backend/platform/apperr"
)

// Status is the lifecycle state of a matter. Stored as text; every value read
// from storage or supplied by a caller must pass ParseStatus before it reaches
// the state machine.
type Status string

const (
	StatusLead       Status = "lead"
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusArchived   Status = "archived"
)

// transitions is the full set of legal status changes. lead is the only
// initial state. There is no terminal state: archived matters can be reopened
// and completed matters can go back to in_progress when a case is re-litigated.
var transitions = map[Status][]Status{
	StatusLead:       {StatusOpen, StatusArchived},
	StatusOpen:       {StatusInProgress, StatusArchived},
	StatusInProgress: {StatusOpen, StatusCompleted, StatusArchived},
	StatusCompleted:  {StatusArchived, StatusInProgress},
	StatusArchived:   {StatusOpen},
}

// ParseStatus validates a raw status string against the enumerated set.
// Unrecognized values fail fast instead of propagating into the state machine.
func ParseStatus(raw string) (Status, error) {
	status := Status(raw)
	if _, ok := transitions[status]; !ok {
		return "", apperr.Internal(fmt.Sprintf("invalid matter status %q", raw)).WithOp("domain.ParseStatus")
	}
	return status, nil
}

// CanTransition reports whether moving from current to target is legal.
// A no-op transition (target == current) is never legal.
func CanTransition(current, target Status) bool {
	if current == target {
		return false
	}
	for _, allowed := range transitions[current] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsClosed reports whether the status requires closed_at to be set.
// Invariant: closed_at is non-null iff the status is completed or archived.
func (s Status) IsClosed() bool {
	return s == StatusCompleted || s == StatusArchived
}

// ValidateTransition returns a typed domain error when the requested change
// is illegal, nil otherwise.
func ValidateTransition(current, target Status) error {
	if !CanTransition(current, target) {
		return apperr.Validation(fmt.Sprintf("Cannot transition matter from %s to %s", current, target))
	}
	return nil
}

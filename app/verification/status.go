// Package verification holds the seller verification states and the rules
// for moving between them. It has no storage dependencies.
//
//	PENDING ──► IN_REVIEW ──► VERIFIED
//	   │            │
//	   └──────┬─────┘
//	          ▼
//	      REJECTED ──(seller resubmits)──► PENDING
package verification

import (
	"errors"
	"fmt"
	"strings"
)

// Status is the verification state of a seller profile.
type Status string

const (
	Pending  Status = "PENDING"
	InReview Status = "IN_REVIEW"
	Verified Status = "VERIFIED"
	Rejected Status = "REJECTED"
)

// All lists the states in workflow order.
var All = []Status{Pending, InReview, Verified, Rejected}

var (
	ErrUnknownStatus     = errors.New("unknown verification status")
	ErrIllegalTransition = errors.New("illegal verification transition")
	ErrNotesRequired     = errors.New("notes are required when rejecting a verification")
)

// Parse accepts a status name in any case.
func Parse(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return st, nil
}

func (s Status) Valid() bool {
	switch s {
	case Pending, InReview, Verified, Rejected:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// Terminal reports whether an admin can no longer move the profile on.
// REJECTED only leaves through seller resubmission.
func (s Status) Terminal() bool { return s == Verified || s == Rejected }

// admin-driven edges; self-loops are handled separately
var edges = map[Status][]Status{
	Pending:  {InReview, Verified, Rejected},
	InReview: {Verified, Rejected},
}

// Check validates an admin moving a profile from → to with notes. It
// returns noop=true when to equals from.
func Check(from, to Status, notes string) (noop bool, err error) {
	if !from.Valid() || !to.Valid() {
		return false, ErrUnknownStatus
	}
	if to == Rejected && strings.TrimSpace(notes) == "" {
		return false, ErrNotesRequired
	}
	if from == to {
		return true, nil
	}
	for _, next := range edges[from] {
		if next == to {
			return false, nil
		}
	}
	return false, fmt.Errorf("%w: %s → %s", ErrIllegalTransition, from, to)
}

// Resubmit is the state after a seller edits their profile: a rejected
// application goes back to PENDING, everything else stays put.
func Resubmit(from Status) Status {
	if from == Rejected {
		return Pending
	}
	return from
}

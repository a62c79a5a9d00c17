package bot

import "errors"

// Status represents the lifecycle status of a bot.
type Status string

const (
	StatusPending    Status = "pending"    // Created, waiting for its scheduled activation
	StatusActivating Status = "activating" // Assistant provisioning in flight
	StatusActive     Status = "active"     // Provisioned and usable when an assistant reference is present
	StatusFailed     Status = "failed"     // Provisioning failed, owner may retry
)

// ErrInvalidTransition is returned when a status transition is not allowed.
var ErrInvalidTransition = errors.New("invalid status transition")

// ValidTransitions defines allowed status transitions.
var ValidTransitions = map[Status][]Status{
	StatusPending:    {StatusActivating},
	StatusActivating: {StatusActive, StatusFailed},
	StatusActive:     {StatusPending}, // owner deactivation only
	StatusFailed:     {StatusActivating},
}

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	_, ok := ValidTransitions[s]
	return ok
}

func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if a transition from current status to target status is valid.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range ValidTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// TransitionTo attempts to transition to the target status and returns error if invalid.
func (s Status) TransitionTo(target Status) (Status, error) {
	if !s.CanTransitionTo(target) {
		return s, ErrInvalidTransition
	}
	return target, nil
}

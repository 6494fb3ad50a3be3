package fetchstatus

import (
	"fmt"
	"time"
)

// Status is the state of the order list fetch.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

var transitions = map[Status][]Status{
	StatusIdle:    {StatusLoading},
	StatusLoading: {StatusSuccess, StatusFailure},
	StatusSuccess: {StatusLoading},
	StatusFailure: {StatusLoading},
}

func (s Status) String() string {
	return string(s)
}

// CanTransition reports whether the machine may move from s to next.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// Transition returns next or an error if the move is not allowed.
func (s Status) Transition(next Status) (Status, error) {
	if !s.CanTransition(next) {
		return s, fmt.Errorf("invalid fetch status transition %s -> %s", s, next)
	}

	return next, nil
}

// Report describes the last fetch for health endpoints.
type Report struct {
	Status   Status    `json:"status"`
	Serving  bool      `json:"serving"`
	LoadedAt time.Time `json:"loadedAt,omitzero"`
	Orders   int       `json:"orders"`
	Error    string    `json:"error,omitempty"`
}

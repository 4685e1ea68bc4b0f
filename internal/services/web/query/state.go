package query

import "time"

// Key identifies one cache entry, e.g. "projects" or "project:7".
type Key string

// AnyKey subscribes to changes of every key.
const AnyKey Key = "*"

// Status is the lifecycle position of one cache entry.
type Status int

const (
	// StatusIdle means the key has never been fetched.
	StatusIdle Status = iota
	// StatusLoading means a producer call is in flight.
	StatusLoading
	// StatusSuccess means Data holds the last produced value.
	StatusSuccess
	// StatusError means the last producer call failed; Data is empty.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is a snapshot of one cache entry.
type State struct {
	Status    Status
	Data      any
	Err       error
	Stale     bool
	UpdatedAt time.Time
}

// Fresh reports whether the snapshot can be served without refetching.
func (s State) Fresh() bool {
	return s.Status == StatusSuccess && !s.Stale
}

// Subscriber receives state changes. It is called outside the client lock,
// in change order.
type Subscriber func(Key, State)

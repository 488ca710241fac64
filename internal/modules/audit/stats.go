package audit

import (
	"sync"
	"time"
)

// Stats counts verification outcomes since startup. It lives in memory only.
type Stats struct {
	mu       sync.Mutex
	verified int
	failed   int
	bypassed int
	last     time.Time
}

// Snapshot is a point-in-time copy of Stats.
type Snapshot struct {
	Verified int       `json:"verified"`
	Failed   int       `json:"failed"`
	Bypassed int       `json:"bypassed"`
	Last     time.Time `json:"last,omitempty"`
}

func (s *Stats) record(state string, bypass bool, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch state {
	case "verified":
		s.verified++
	case "failed":
		s.failed++
	}
	if bypass {
		s.bypassed++
	}
	if at.After(s.last) {
		s.last = at
	}
}

// Snapshot returns the current counters.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Verified: s.verified,
		Failed:   s.failed,
		Bypassed: s.bypassed,
		Last:     s.last,
	}
}

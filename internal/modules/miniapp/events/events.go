package events

import (
	"time"

	"github.com/nfrund/miniapp/internal/pubsub"
)

// Outcome is published after every verification attempt. It never carries
// the init data itself.
type Outcome struct {
	AttemptID  string    `json:"attempt_id"`
	State      string    `json:"state"`
	StatusCode int       `json:"status_code,omitempty"`
	UserID     int64     `json:"user_id,omitempty"`
	Bypass     bool      `json:"bypass"`
	Error      string    `json:"error,omitempty"`
	At         time.Time `json:"at"`
}

// VerificationOutcome is the topic verification outcomes are published on.
var VerificationOutcome = pubsub.NewEvent[Outcome](
	"verification.outcome",
	"Result of a mini-app session verification attempt",
)

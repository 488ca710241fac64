package verifier

// State is a step of the verification state machine:
// Idle -> Checking -> Verified | Failed.
type State int

const (
	Idle State = iota
	Checking
	Verified
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Checking:
		return "checking"
	case Verified:
		return "verified"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can follow s.
func (s State) Terminal() bool {
	return s == Verified || s == Failed
}

// Status texts shown in the status indicator.
const (
	StatusStarting = "Starting verification..."
	StatusChecking = "Checking with server..."
	StatusVerified = "✅ Data verified!"
	StatusBypassed = "✅ Data verified! (development bypass)"
)

func statusFailed(msg string) string   { return "❌ Error: " + msg }
func statusCritical(msg string) string { return "Critical error: " + msg }

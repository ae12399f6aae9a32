package authsession

// State is the lifecycle position of one authentication attempt.
type State int32

const (
	// StatePending means the session exists but no poll has been issued yet.
	StatePending State = iota
	// StateWaiting means a guard confirmation is still outstanding.
	StateWaiting
	// StatePolling means confirmation is satisfied or not required, and the
	// loop is waiting for token issuance.
	StatePolling
	// StateRefreshed means the server reissued the client id / challenge URL
	// (QR flow only); the loop continues under the new identifiers.
	StateRefreshed
	// StateResolved means tokens were issued.
	StateResolved
	// StateDenied means a guard approval was explicitly refused or the server
	// rejected the session.
	StateDenied
	// StateExpired means the server declared the session no longer valid, or
	// the poll retry ceiling was exhausted.
	StateExpired
	// StateCancelled means the caller aborted the session.
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "PENDING"
	case StateWaiting:
		return "WAITING"
	case StatePolling:
		return "POLLING"
	case StateRefreshed:
		return "REFRESHED"
	case StateResolved:
		return "RESOLVED"
	case StateDenied:
		return "DENIED"
	case StateExpired:
		return "EXPIRED"
	case StateCancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether the session can make no further progress.
func (s State) Terminal() bool {
	switch s {
	case StateResolved, StateDenied, StateExpired, StateCancelled:
		return true
	default:
		return false
	}
}

package authsession

import (
	"sync"
	"time"

	"github.com/tendric/steamauth/pkg/authapi"
)

// record is the mutable state of one authentication attempt. All fields are
// guarded by mu; the poll loop is the only writer after creation, with the
// exceptions noted on the mutating methods (guard submissions mark
// confirmation, cancellation marks the terminal state).
type record struct {
	mu sync.Mutex

	clientID     uint64
	requestID    []byte
	interval     time.Duration
	allowed      []authapi.AllowedConfirmation
	platformType authapi.PlatformType
	persistence  authapi.Persistence

	steamID      uint64
	accountName  string
	weakToken    string
	guardData    string
	challengeURL string
	version      int32

	state     State
	confirmed bool
}

// Snapshot is a consistent read-only copy of the record, safe to hand to
// callers while the poll loop keeps mutating the original.
type Snapshot struct {
	ClientID             uint64
	RequestID            []byte
	PollInterval         time.Duration
	AllowedConfirmations []authapi.AllowedConfirmation
	PlatformType         authapi.PlatformType
	Persistence          authapi.Persistence
	SteamID              uint64
	AccountName          string
	WeakToken            string
	ChallengeURL         string
	Version              int32
	State                State
	Confirmed            bool
}

func (r *record) snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	allowed := make([]authapi.AllowedConfirmation, len(r.allowed))
	copy(allowed, r.allowed)
	requestID := make([]byte, len(r.requestID))
	copy(requestID, r.requestID)

	return Snapshot{
		ClientID:             r.clientID,
		RequestID:            requestID,
		PollInterval:         r.interval,
		AllowedConfirmations: allowed,
		PlatformType:         r.platformType,
		Persistence:          r.persistence,
		SteamID:              r.steamID,
		AccountName:          r.accountName,
		WeakToken:            r.weakToken,
		ChallengeURL:         r.challengeURL,
		Version:              r.version,
		State:                r.state,
		Confirmed:            r.confirmed,
	}
}

// pollIdentifiers returns the pair a poll call needs, read atomically so a
// concurrent refresh can never yield a half-updated combination.
func (r *record) pollIdentifiers() (clientID uint64, requestID []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	requestID = make([]byte, len(r.requestID))
	copy(requestID, r.requestID)
	return r.clientID, requestID
}

// applyRefresh swaps in the reissued client id and challenge URL. The
// request id is deliberately untouched; it stays valid across reissues.
func (r *record) applyRefresh(newClientID uint64, newChallengeURL string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if newClientID != 0 {
		r.clientID = newClientID
	}
	if newChallengeURL != "" {
		r.challengeURL = newChallengeURL
	}
	if !r.state.Terminal() {
		r.state = StateRefreshed
	}
}

// setState transitions the lifecycle state unless already terminal.
func (r *record) setState(s State) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state.Terminal() {
		return false
	}
	r.state = s
	return true
}

func (r *record) currentState() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// markConfirmed records that one guard mechanism was satisfied. Returns
// false when a confirmation was already accepted.
func (r *record) markConfirmed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.confirmed {
		return false
	}
	r.confirmed = true
	if !r.state.Terminal() {
		r.state = StatePolling
	}
	return true
}

func (r *record) isConfirmed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.confirmed
}

// allows reports whether the server offered the given guard type for this
// session.
func (r *record) allows(gt authapi.GuardType) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.allowed {
		if c.Type == gt {
			return true
		}
	}
	return false
}

// guardRequired reports whether any interactive confirmation is outstanding.
func (r *record) guardRequired() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.confirmed {
		return false
	}
	for _, c := range r.allowed {
		if c.Type != authapi.GuardTypeNone {
			return true
		}
	}
	return false
}

func (r *record) setAccountName(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if name != "" {
		r.accountName = name
	}
}

func (r *record) setSteamID(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id != 0 {
		r.steamID = id
	}
}

func (r *record) identity() (steamID uint64, accountName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.steamID, r.accountName
}

func (r *record) guardBlob() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.guardData
}

func (r *record) pollInterval() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.interval
}

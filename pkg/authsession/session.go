package authsession

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tendric/steamauth/pkg/authapi"
	"github.com/tendric/steamauth/pkg/errors"
	"github.com/tendric/steamauth/pkg/transport"
)

// Session is one in-flight authentication attempt. Guard submissions and
// info queries may run concurrently with the poll loop; all record mutation
// is funneled through the single record mutex.
type Session struct {
	svc *Service
	rec *record

	cancelOnce sync.Once
	cancelCh   chan struct{}

	// nudge wakes the poll loop out of its interval sleep, used after a
	// successful confirmation and on push events.
	nudge chan struct{}

	mu     sync.Mutex
	result *Result
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	return s.rec.currentState()
}

// Snapshot returns a consistent copy of the session record.
func (s *Session) Snapshot() Snapshot {
	return s.rec.snapshot()
}

// ChallengeURL returns the current scannable challenge URL (QR flow). It can
// change when the server reissues the session mid-poll.
func (s *Session) ChallengeURL() string {
	return s.rec.snapshot().ChallengeURL
}

// Result returns the resolved tokens, or nil while the session is still in
// flight.
func (s *Session) Result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Cancel aborts the session. A poll loop sleeping out its interval wakes
// immediately; the state becomes CANCELLED unless already terminal.
func (s *Session) Cancel() {
	if s.rec.setState(StateCancelled) {
		slog.Info("Auth session cancelled", "clientID", s.rec.snapshot().ClientID)
	}
	s.cancelOnce.Do(func() {
		close(s.cancelCh)
	})
}

// callContext ties a transport call's context to session cancellation, so
// Cancel unblocks an in-flight round trip instead of waiting it out.
func (s *Session) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		select {
		case <-s.cancelCh:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// Info fetches the read-only risk snapshot for this session: requesting IP,
// coarse geolocation, device description and login-history classification.
// It never mutates the session record.
func (s *Session) Info(ctx context.Context) (*authapi.GetAuthSessionInfoResponse, error) {
	clientID, _ := s.rec.pollIdentifiers()
	req := &authapi.GetAuthSessionInfoRequest{ClientID: clientID}
	resp := &authapi.GetAuthSessionInfoResponse{}
	if err := s.svc.transport.Send(ctx, transport.KindGetAuthSessionInfo, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ConsumePush feeds guard-completion events from a push listener into the
// session until the listener closes or the session is cancelled. An approval
// wakes the poll loop immediately; a refusal resolves the session as
// explicitly denied.
func (s *Session) ConsumePush(listener transport.PushListener) {
	go func() {
		for {
			select {
			case ev, ok := <-listener.Events():
				if !ok {
					return
				}
				clientID, _ := s.rec.pollIdentifiers()
				if ev.ClientID != 0 && ev.ClientID != clientID {
					continue
				}
				if !ev.Confirmed {
					slog.Info("Push event: guard denied", "clientID", ev.ClientID, "guardType", ev.GuardType)
					s.rec.setState(StateDenied)
					s.wake()
					return
				}
				slog.Debug("Push event: guard confirmed", "clientID", ev.ClientID, "guardType", ev.GuardType)
				s.rec.markConfirmed()
				s.wake()
			case <-s.cancelCh:
				return
			}
		}
	}()
}

// wake nudges the poll loop without blocking; a pending nudge is enough.
func (s *Session) wake() {
	select {
	case s.nudge <- struct{}{}:
	default:
	}
}

func (s *Session) setResult(result *Result) {
	s.mu.Lock()
	s.result = result
	s.mu.Unlock()
}

// terminalError translates a terminal state into the matching taxonomy
// error, nil for RESOLVED.
func terminalError(state State) *errors.Error {
	switch state {
	case StateDenied:
		return errors.New(errors.ErrCodeSessionDenied, "session explicitly denied")
	case StateExpired:
		return errors.New(errors.ErrCodeSessionExpired, "session no longer valid")
	case StateCancelled:
		return errors.Cancelled()
	default:
		return nil
	}
}

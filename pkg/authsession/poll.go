package authsession

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/tendric/steamauth/pkg/authapi"
	"github.com/tendric/steamauth/pkg/errors"
	"github.com/tendric/steamauth/pkg/token"
	"github.com/tendric/steamauth/pkg/transport"
)

// Poll issues a single status call and folds the response into the session
// record. It returns the resolved tokens once the server issues them, or
// (nil, nil) while the session is still pending. Terminal conditions come
// back as taxonomy errors.
func (s *Session) Poll(ctx context.Context) (*Result, error) {
	state := s.rec.currentState()
	if state.Terminal() {
		if state == StateResolved {
			return s.Result(), nil
		}
		return nil, terminalError(state)
	}

	if s.rec.guardRequired() {
		s.rec.setState(StateWaiting)
	} else {
		s.rec.setState(StatePolling)
	}

	clientID, requestID := s.rec.pollIdentifiers()
	req := &authapi.PollAuthSessionStatusRequest{
		ClientID:  clientID,
		RequestID: requestID,
	}
	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	resp := &authapi.PollAuthSessionStatusResponse{}
	if err := s.svc.transport.Send(callCtx, transport.KindPollAuthSessionStatus, req, resp); err != nil {
		if st := s.rec.currentState(); st.Terminal() {
			return nil, terminalError(st)
		}
		switch errors.GetCode(err) {
		case errors.ErrCodeSessionExpired:
			s.rec.setState(StateExpired)
		case errors.ErrCodeSessionDenied:
			s.rec.setState(StateDenied)
		}
		return nil, err
	}

	return s.applyPollResponse(ctx, resp)
}

// applyPollResponse is the single place poll events mutate the record.
func (s *Session) applyPollResponse(ctx context.Context, resp *authapi.PollAuthSessionStatusResponse) (*Result, error) {
	if resp.NewClientID != 0 || resp.NewChallengeURL != "" {
		s.rec.applyRefresh(resp.NewClientID, resp.NewChallengeURL)
		slog.Info("Session identifiers reissued",
			"newClientID", resp.NewClientID,
			"hasChallengeURL", resp.NewChallengeURL != "")
	}

	if resp.HadRemoteInteraction {
		slog.Debug("Remote interaction observed on session")
	}

	s.rec.setAccountName(resp.AccountName)

	if resp.RefreshToken != "" {
		return s.resolve(ctx, resp)
	}

	// A rotated trust token can arrive before resolution; store it as soon
	// as the account is known.
	if resp.NewGuardData != "" {
		s.storeGuardData(ctx, resp.NewGuardData, "")
	}
	return nil, nil
}

func (s *Session) resolve(ctx context.Context, resp *authapi.PollAuthSessionStatusResponse) (*Result, error) {
	if steamID, err := token.SteamID(resp.RefreshToken); err == nil {
		s.rec.setSteamID(steamID)
	} else {
		slog.Debug("Could not derive account id from refresh token", "err", err)
	}

	if resp.NewGuardData != "" {
		s.storeGuardData(ctx, resp.NewGuardData, resp.RefreshToken)
	}

	snap := s.rec.snapshot()
	result := &Result{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		AccountName:  snap.AccountName,
		SteamID:      snap.SteamID,
		WeakToken:    snap.WeakToken,
		NewGuardData: resp.NewGuardData,
	}
	s.setResult(result)
	s.rec.setState(StateResolved)

	slog.Info("Auth session resolved",
		"clientID", snap.ClientID,
		"accountName", snap.AccountName,
		"steamID", snap.SteamID)
	return result, nil
}

// storeGuardData records a rotated machine-trust token, deriving the account
// id from the refresh token when the record does not know it yet (QR flow).
func (s *Session) storeGuardData(ctx context.Context, guardData, refreshToken string) {
	if s.svc.trust == nil {
		return
	}
	steamID, _ := s.rec.identity()
	if steamID == 0 && refreshToken != "" {
		if id, err := token.SteamID(refreshToken); err == nil {
			steamID = id
		}
	}
	if steamID == 0 {
		slog.Debug("Dropping trust token rotation, account not yet known")
		return
	}
	if err := s.svc.trust.Store(ctx, steamID, guardData); err != nil {
		slog.Error("Failed to store rotated machine-trust token", "err", err, "steamID", steamID)
	}
}

// Wait runs the poll loop until the session reaches a terminal outcome. It
// never polls faster than the server-supplied interval, wakes early on
// confirmations and cancellation, and retries transient transport failures
// up to the configured ceiling. The overall timeout is carried on the
// context so it cuts short an in-flight transport call, not just the sleep.
func (s *Session) Wait(ctx context.Context) (*Result, error) {
	if s.svc.overallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.svc.overallTimeout)
		defer cancel()
	}

	timer := time.NewTimer(s.rec.pollInterval())
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	retries := 0
	for {
		result, err := s.Poll(ctx)
		if result != nil {
			return result, nil
		}
		if err != nil {
			code := errors.GetCode(err)
			switch {
			case code == errors.ErrCodeTransport:
				retries++
				if retries >= s.svc.pollRetryCeiling {
					s.rec.setState(StateExpired)
					return nil, errors.Wrapf(err, errors.ErrCodeTransport,
						"poll retry ceiling %d reached", s.svc.pollRetryCeiling)
				}
				slog.Debug("Transient poll failure, retrying", "attempt", retries, "err", err)
			case code == errors.ErrCodeRateLimited:
				slog.Debug("Poll rate limited, keeping cadence", "err", err)
			default:
				return nil, err
			}
		} else {
			retries = 0
		}

		timer.Reset(s.rec.pollInterval())
		select {
		case <-timer.C:
		case <-s.nudge:
			if !timer.Stop() {
				<-timer.C
			}
		case <-s.cancelCh:
			if !timer.Stop() {
				<-timer.C
			}
			s.rec.setState(StateCancelled)
			return nil, errors.Cancelled()
		case <-ctx.Done():
			if !timer.Stop() {
				<-timer.C
			}
			s.rec.setState(StateCancelled)
			if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, errors.TimedOut()
			}
			return nil, errors.Cancelled()
		}
	}
}

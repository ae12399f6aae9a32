package authsession

import (
	"context"
	"log/slog"

	"github.com/tendric/steamauth/pkg/authapi"
	"github.com/tendric/steamauth/pkg/errors"
	"github.com/tendric/steamauth/pkg/transport"
)

// MobileConfirmation is a signed approval or refusal produced on a companion
// device for a pending session.
type MobileConfirmation struct {
	Version   int32
	Signature []byte
	Confirm   bool
}

// SubmitGuardCode submits an emailed or device-authenticator code. The code
// type must be one the server offered for this session; a mismatch fails
// locally without any transport call.
func (s *Session) SubmitGuardCode(ctx context.Context, code string, codeType authapi.GuardType) error {
	if code == "" {
		return errors.InvalidInput("code", "must not be empty")
	}
	if !codeType.IsCodeEntry() {
		return errors.Newf(errors.ErrCodeUnsupportedConfirmationType,
			"guard type %s is not satisfied by a code", codeType)
	}
	if s.rec.isConfirmed() {
		return errors.New(errors.ErrCodeGuardAlreadySatisfied, "a confirmation was already accepted for this session")
	}
	if !s.rec.allows(codeType) {
		return errors.Newf(errors.ErrCodeUnsupportedConfirmationType,
			"guard type %s was not offered for this session", codeType)
	}

	clientID, _ := s.rec.pollIdentifiers()
	steamID, _ := s.rec.identity()
	req := &authapi.UpdateAuthSessionWithSteamGuardCodeRequest{
		ClientID:  clientID,
		SteamID:   steamID,
		Code:      code,
		CodeType:  codeType,
		GuardData: s.rec.guardBlob(),
	}
	resp := &authapi.UpdateAuthSessionWithSteamGuardCodeResponse{}
	if err := s.svc.transport.Send(ctx, transport.KindUpdateAuthSessionWithSteamGuardCode, req, resp); err != nil {
		return err
	}

	s.rec.markConfirmed()
	s.wake()
	slog.Info("Guard code accepted", "clientID", clientID, "codeType", codeType)
	return nil
}

// SubmitMobileConfirmation relays a companion-device approval. Confirm=false
// resolves the session as explicitly denied, never as a timeout.
func (s *Session) SubmitMobileConfirmation(ctx context.Context, mc MobileConfirmation) error {
	if len(mc.Signature) == 0 {
		return errors.InvalidInput("signature", "must not be empty")
	}
	if s.rec.isConfirmed() {
		return errors.New(errors.ErrCodeGuardAlreadySatisfied, "a confirmation was already accepted for this session")
	}
	if !s.rec.allows(authapi.GuardTypeDeviceConfirmation) {
		return errors.Newf(errors.ErrCodeUnsupportedConfirmationType,
			"guard type %s was not offered for this session", authapi.GuardTypeDeviceConfirmation)
	}

	snap := s.rec.snapshot()
	req := &authapi.UpdateAuthSessionWithMobileConfirmationRequest{
		Version:     mc.Version,
		ClientID:    snap.ClientID,
		SteamID:     snap.SteamID,
		Signature:   mc.Signature,
		Confirm:     mc.Confirm,
		Persistence: snap.Persistence,
	}
	resp := &authapi.UpdateAuthSessionWithMobileConfirmationResponse{}
	if err := s.svc.transport.Send(ctx, transport.KindUpdateAuthSessionWithMobileConfirmation, req, resp); err != nil {
		return err
	}

	if !mc.Confirm {
		s.rec.setState(StateDenied)
		s.wake()
		slog.Info("Mobile confirmation refused", "clientID", snap.ClientID)
		return nil
	}

	s.rec.markConfirmed()
	s.wake()
	slog.Info("Mobile confirmation accepted", "clientID", snap.ClientID)
	return nil
}

// CheckMachineAuth presents the cached machine-trust token for this
// session's account, or an explicitly supplied one, to skip interactive
// guard. A failed check is not a session failure: it only means interactive
// guard is still required, so the caller falls back to the next offered
// confirmation type.
func (s *Session) CheckMachineAuth(ctx context.Context, explicitToken string) (bool, authapi.EResult, error) {
	if s.rec.isConfirmed() {
		return true, authapi.EResultOK, nil
	}
	if !s.rec.allows(authapi.GuardTypeMachineToken) && !s.rec.allows(authapi.GuardTypeLegacyMachineAuth) {
		return false, authapi.EResultInvalid, errors.Newf(errors.ErrCodeUnsupportedConfirmationType,
			"guard type %s was not offered for this session", authapi.GuardTypeMachineToken)
	}

	snap := s.rec.snapshot()
	machineToken := explicitToken
	if machineToken == "" && s.svc.trust != nil && snap.SteamID != 0 {
		cached, err := s.svc.trust.TokenForAccount(ctx, snap.SteamID)
		if err != nil {
			return false, authapi.EResultInvalid, err
		}
		machineToken = cached
	}
	if machineToken == "" {
		slog.Debug("No machine-trust token available", "steamID", snap.SteamID)
		return false, authapi.EResultFileNotFound, nil
	}

	req := &authapi.CheckMachineAuthRequest{
		ClientID:         snap.ClientID,
		SteamID:          snap.SteamID,
		MachineAuthToken: machineToken,
	}
	resp := &authapi.CheckMachineAuthResponse{}
	if err := s.svc.transport.Send(ctx, transport.KindCheckMachineAuth, req, resp); err != nil {
		return false, authapi.EResultInvalid, err
	}

	if !resp.Success {
		slog.Info("Machine-trust check declined, interactive guard still required",
			"clientID", snap.ClientID, "result", resp.Result)
		return false, resp.Result, nil
	}

	s.rec.markConfirmed()
	s.wake()
	slog.Info("Machine-trust check accepted", "clientID", snap.ClientID)
	return true, resp.Result, nil
}

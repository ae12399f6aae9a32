package authsession

import (
	"context"
	"log/slog"
	"time"

	"github.com/tendric/steamauth/pkg/authapi"
	"github.com/tendric/steamauth/pkg/errors"
	"github.com/tendric/steamauth/pkg/machinetrust"
	"github.com/tendric/steamauth/pkg/transport"
)

// Service builds authentication sessions over one transport. It is safe for
// concurrent use; each started session carries its own record and poll loop.
type Service struct {
	transport transport.Transport
	trust     *machinetrust.Service

	platformType  authapi.PlatformType
	deviceDetails *authapi.DeviceDetails
	websiteID     string

	pollRetryCeiling int
	overallTimeout   time.Duration
	minPollInterval  time.Duration
}

// NewService creates an authentication session service
func NewService(tp transport.Transport, opts ...Option) *Service {
	s := &Service{
		transport:        tp,
		platformType:     authapi.PlatformTypeSteamClient,
		websiteID:        defaultWebsiteID,
		pollRetryCeiling: DefaultPollRetryCeiling,
		minPollInterval:  DefaultMinPollInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CredentialsParams are the inputs for a credentials-flow session start. The
// encrypted password and key timestamp come from the RSA pre-step and are
// passed through opaquely.
type CredentialsParams struct {
	AccountName       string
	EncryptedPassword string
	KeyTimestamp      uint64
	Persistence       authapi.Persistence

	// SteamID, when the caller knows it from an earlier login, lets the
	// engine look up a cached machine-trust token before the account id is
	// resolved by the server.
	SteamID uint64

	// GuardData explicitly presents a machine-trust token, overriding the
	// cache lookup.
	GuardData string
}

// QRParams are the inputs for a scannable-code session start.
type QRParams struct {
	// WebsiteID overrides the service-level website id for this session.
	WebsiteID string
}

// Result carries the durable tokens of a resolved session.
type Result struct {
	AccessToken  string
	RefreshToken string
	AccountName  string
	SteamID      uint64
	WeakToken    string

	// NewGuardData is the machine-trust token issued alongside the session,
	// already stored in the trust cache when one is attached.
	NewGuardData string
}

// StartWithCredentials opens an authentication session from an account name
// and encrypted password. A cached machine-trust token is presented
// automatically when available, which can remove the guard step entirely.
func (s *Service) StartWithCredentials(ctx context.Context, params CredentialsParams) (*Session, error) {
	if params.AccountName == "" {
		return nil, errors.InvalidInput("accountName", "must not be empty")
	}
	if params.EncryptedPassword == "" {
		return nil, errors.InvalidInput("encryptedPassword", "must not be empty")
	}
	if params.Persistence == authapi.PersistenceInvalid {
		params.Persistence = authapi.PersistencePersistent
	}

	guardData := params.GuardData
	if guardData == "" && s.trust != nil && params.SteamID != 0 {
		cached, err := s.trust.TokenForAccount(ctx, params.SteamID)
		if err != nil {
			slog.Error("Machine-trust lookup failed, continuing without token", "err", err, "steamID", params.SteamID)
		} else {
			guardData = cached
		}
	}

	req := &authapi.BeginAuthSessionViaCredentialsRequest{
		AccountName:       params.AccountName,
		EncryptedPassword: params.EncryptedPassword,
		KeyTimestamp:      params.KeyTimestamp,
		RememberLogin:     params.Persistence == authapi.PersistencePersistent,
		Persistence:       params.Persistence,
		WebsiteID:         s.websiteID,
		DeviceDetails:     s.deviceInfo(),
		GuardData:         guardData,
	}
	resp := &authapi.BeginAuthSessionViaCredentialsResponse{}
	if err := s.transport.Send(ctx, transport.KindBeginAuthSessionViaCredentials, req, resp); err != nil {
		return nil, err
	}

	rec := &record{
		clientID:     resp.ClientID,
		requestID:    resp.RequestID,
		interval:     s.normalizeInterval(resp.Interval),
		allowed:      knownConfirmations(resp.AllowedConfirmations),
		platformType: s.platformType,
		persistence:  params.Persistence,
		steamID:      resp.SteamID,
		accountName:  params.AccountName,
		weakToken:    resp.WeakToken,
		guardData:    resp.GuardData,
		state:        StatePending,
	}
	if !rec.guardRequired() {
		rec.confirmed = true
	}

	slog.Info("Auth session started",
		"flow", "credentials",
		"clientID", rec.clientID,
		"steamID", rec.steamID,
		"interval", rec.interval,
		"confirmations", len(rec.allowed))

	return s.newSession(rec), nil
}

// StartWithQR opens an authentication session that resolves once the
// returned challenge URL is scanned and approved on another device.
func (s *Service) StartWithQR(ctx context.Context, params QRParams) (*Session, error) {
	websiteID := params.WebsiteID
	if websiteID == "" {
		websiteID = s.websiteID
	}

	req := &authapi.BeginAuthSessionViaQRRequest{
		DeviceDetails: s.deviceInfo(),
		WebsiteID:     websiteID,
	}
	resp := &authapi.BeginAuthSessionViaQRResponse{}
	if err := s.transport.Send(ctx, transport.KindBeginAuthSessionViaQR, req, resp); err != nil {
		return nil, err
	}

	rec := &record{
		clientID:     resp.ClientID,
		requestID:    resp.RequestID,
		interval:     s.normalizeInterval(resp.Interval),
		allowed:      knownConfirmations(resp.AllowedConfirmations),
		platformType: s.platformType,
		persistence:  authapi.PersistencePersistent,
		challengeURL: resp.ChallengeURL,
		version:      resp.Version,
		state:        StatePending,
	}
	if !rec.guardRequired() {
		rec.confirmed = true
	}

	slog.Info("Auth session started",
		"flow", "qr",
		"clientID", rec.clientID,
		"version", rec.version,
		"interval", rec.interval)

	return s.newSession(rec), nil
}

// deviceInfo builds the device description sent on session start. The
// declared platform type always goes on the wire, it steers which guard
// types the server offers.
func (s *Service) deviceInfo() *authapi.DeviceDetails {
	if s.deviceDetails == nil {
		return &authapi.DeviceDetails{PlatformType: s.platformType}
	}
	dd := *s.deviceDetails
	if dd.PlatformType == authapi.PlatformTypeUnknown {
		dd.PlatformType = s.platformType
	}
	return &dd
}

func (s *Service) newSession(rec *record) *Session {
	return &Session{
		svc:      s,
		rec:      rec,
		cancelCh: make(chan struct{}),
		nudge:    make(chan struct{}, 1),
	}
}

func (s *Service) normalizeInterval(interval float32) time.Duration {
	d := time.Duration(interval * float32(time.Second))
	if d < s.minPollInterval {
		return s.minPollInterval
	}
	return d
}

// knownConfirmations collapses guard types this client does not understand
// into the explicit unknown variant so they surface as a reportable error
// instead of a silent mismatch.
func knownConfirmations(confirmations []authapi.AllowedConfirmation) []authapi.AllowedConfirmation {
	out := make([]authapi.AllowedConfirmation, 0, len(confirmations))
	for _, c := range confirmations {
		if !c.Type.IsKnown() {
			slog.Warn("Server offered unknown guard type", "guardType", int32(c.Type))
			c.Type = authapi.GuardTypeUnknown
		}
		out = append(out, c)
	}
	return out
}

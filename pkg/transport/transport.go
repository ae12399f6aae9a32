package transport

import (
	"context"

	"github.com/tendric/steamauth/pkg/authapi"
)

// RequestKind names one authentication service operation. The transport maps
// a kind onto whatever framing its channel uses; callers never see that
// framing.
type RequestKind string

const (
	KindBeginAuthSessionViaCredentials          RequestKind = "BeginAuthSessionViaCredentials"
	KindBeginAuthSessionViaQR                   RequestKind = "BeginAuthSessionViaQR"
	KindPollAuthSessionStatus                   RequestKind = "PollAuthSessionStatus"
	KindUpdateAuthSessionWithSteamGuardCode     RequestKind = "UpdateAuthSessionWithSteamGuardCode"
	KindUpdateAuthSessionWithMobileConfirmation RequestKind = "UpdateAuthSessionWithMobileConfirmation"
	KindCheckMachineAuth                        RequestKind = "CheckMachineAuth"
	KindGetAuthSessionInfo                      RequestKind = "GetAuthSessionInfo"
)

// Transport delivers one request record and decodes the response into resp.
// req and resp are the matching pair of structs from pkg/authapi for the
// given kind. Implementations return a structured error with code
// ErrCodeTransport for delivery failures, and map non-OK server result codes
// through the pkg/errors taxonomy.
type Transport interface {
	Send(ctx context.Context, kind RequestKind, req, resp interface{}) error
}

// PushEvent is a guard-completion notification delivered over an optional
// server-push channel. Confirmed=false is an explicit denial, not a timeout.
type PushEvent struct {
	ClientID  uint64            `json:"client_id,string"`
	GuardType authapi.GuardType `json:"guard_type"`
	Confirmed bool              `json:"confirmed"`
}

// PushListener is the optional second half of the transport boundary: a
// stream of guard-completion events. The channel is closed when the listener
// shuts down; Err reports why.
type PushListener interface {
	Events() <-chan PushEvent
	Err() error
	Close() error
}

package authapi

// DeviceDetails describes the device a session is started from.
type DeviceDetails struct {
	DeviceFriendlyName string       `json:"device_friendly_name,omitempty"`
	PlatformType       PlatformType `json:"platform_type"`
	OSType             int32        `json:"os_type,omitempty"`
	GamingDeviceType   uint32       `json:"gaming_device_type,omitempty"`
}

// AllowedConfirmation is one guard mechanism the server will accept for a
// session, optionally with a rendering hint such as a masked email address.
type AllowedConfirmation struct {
	Type    GuardType `json:"confirmation_type"`
	Message string    `json:"associated_message,omitempty"`
}

// BeginAuthSessionViaCredentialsRequest opens a session from an account name
// and an already-encrypted password. EncryptedPassword and KeyTimestamp come
// from the RSA key pre-step and are treated as opaque here.
type BeginAuthSessionViaCredentialsRequest struct {
	AccountName       string         `json:"account_name"`
	EncryptedPassword string         `json:"encrypted_password"`
	KeyTimestamp      uint64         `json:"encryption_timestamp,string"`
	RememberLogin     bool           `json:"remember_login"`
	Persistence       Persistence    `json:"persistence"`
	WebsiteID         string         `json:"website_id,omitempty"`
	DeviceDetails     *DeviceDetails `json:"device_details,omitempty"`
	GuardData         string         `json:"guard_data,omitempty"`
	Language          uint32         `json:"language,omitempty"`
}

// BeginAuthSessionViaCredentialsResponse carries the common session handle
// plus the credentials-flow extras: the resolved account, a short-lived weak
// token, and the guard-data blob that must be echoed on guard submissions.
type BeginAuthSessionViaCredentialsResponse struct {
	ClientID             uint64                `json:"client_id,string"`
	RequestID            []byte                `json:"request_id"`
	Interval             float32               `json:"interval"`
	AllowedConfirmations []AllowedConfirmation `json:"allowed_confirmations,omitempty"`
	SteamID              uint64                `json:"steamid,string"`
	WeakToken            string                `json:"weak_token,omitempty"`
	GuardData            string                `json:"guard_data,omitempty"`
	AgreementSessionURL  string                `json:"agreement_session_url,omitempty"`
	ExtendedErrorMessage string                `json:"extended_error_message,omitempty"`
}

// BeginAuthSessionViaQRRequest opens a session that is approved out-of-band
// by scanning a challenge URL. No account is known at this point.
type BeginAuthSessionViaQRRequest struct {
	DeviceDetails *DeviceDetails `json:"device_details,omitempty"`
	WebsiteID     string         `json:"website_id,omitempty"`
}

type BeginAuthSessionViaQRResponse struct {
	ClientID             uint64                `json:"client_id,string"`
	RequestID            []byte                `json:"request_id"`
	Interval             float32               `json:"interval"`
	AllowedConfirmations []AllowedConfirmation `json:"allowed_confirmations,omitempty"`
	ChallengeURL         string                `json:"challenge_url"`
	Version              int32                 `json:"version"`
}

// PollAuthSessionStatusRequest asks for the current state of a session. The
// request id stays fixed even when the client id is reissued mid-flight.
type PollAuthSessionStatusRequest struct {
	ClientID      uint64 `json:"client_id,string"`
	RequestID     []byte `json:"request_id"`
	TokenToRevoke string `json:"token_to_revoke,omitempty"`
}

// PollAuthSessionStatusResponse carries zero or more events: issued tokens,
// a reissued client id and challenge URL, a rotated machine-trust token, or
// purely informational fields.
type PollAuthSessionStatusResponse struct {
	NewClientID          uint64  `json:"new_client_id,string,omitempty"`
	NewChallengeURL      string  `json:"new_challenge_url,omitempty"`
	RefreshToken         string  `json:"refresh_token,omitempty"`
	AccessToken          string  `json:"access_token,omitempty"`
	HadRemoteInteraction bool    `json:"had_remote_interaction,omitempty"`
	AccountName          string  `json:"account_name,omitempty"`
	NewGuardData         string  `json:"new_guard_data,omitempty"`
	AgreementSessionURL  string  `json:"agreement_session_url,omitempty"`
	Result               EResult `json:"eresult,omitempty"`
}

// UpdateAuthSessionWithSteamGuardCodeRequest submits an emailed or
// authenticator code against a pending session.
type UpdateAuthSessionWithSteamGuardCodeRequest struct {
	ClientID  uint64    `json:"client_id,string"`
	SteamID   uint64    `json:"steamid,string"`
	Code      string    `json:"code"`
	CodeType  GuardType `json:"code_type"`
	GuardData string    `json:"guard_data,omitempty"`
}

type UpdateAuthSessionWithSteamGuardCodeResponse struct {
	AgreementSessionURL string `json:"agreement_session_url,omitempty"`
}

// UpdateAuthSessionWithMobileConfirmationRequest relays a signed approval or
// denial produced on a companion device.
type UpdateAuthSessionWithMobileConfirmationRequest struct {
	Version     int32       `json:"version"`
	ClientID    uint64      `json:"client_id,string"`
	SteamID     uint64      `json:"steamid,string"`
	Signature   []byte      `json:"signature"`
	Confirm     bool        `json:"confirm"`
	Persistence Persistence `json:"persistence"`
}

type UpdateAuthSessionWithMobileConfirmationResponse struct {
	Success bool `json:"success,omitempty"`
}

// CheckMachineAuthRequest asks whether a cached machine-trust token still
// lets this device skip interactive guard.
type CheckMachineAuthRequest struct {
	ClientID         uint64 `json:"client_id,string"`
	SteamID          uint64 `json:"steamid,string"`
	MachineAuthToken string `json:"machine_auth_token,omitempty"`
}

type CheckMachineAuthResponse struct {
	Success bool    `json:"success"`
	Result  EResult `json:"result"`
}

// GetAuthSessionInfoRequest fetches the read-only risk snapshot for a
// pending session.
type GetAuthSessionInfoRequest struct {
	ClientID uint64 `json:"client_id,string"`
}

type GetAuthSessionInfoResponse struct {
	IP                   string          `json:"ip"`
	Geoloc               string          `json:"geoloc"`
	City                 string          `json:"city"`
	State                string          `json:"state"`
	PlatformType         PlatformType    `json:"platform_type"`
	DeviceFriendlyName   string          `json:"device_friendly_name"`
	Version              int32           `json:"version"`
	LoginHistory         SecurityHistory `json:"login_history"`
	LocationMismatch     bool            `json:"requestor_location_mismatch"`
	HighUsageLogin       bool            `json:"high_usage_login"`
	RequestedPersistence Persistence     `json:"requested_persistence"`
}

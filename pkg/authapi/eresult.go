package authapi

import "fmt"

// EResult is the service-wide result code. Only the values the login flow can
// actually produce are enumerated here.
type EResult int32

const (
	EResultInvalid                         EResult = 0
	EResultOK                              EResult = 1
	EResultFail                            EResult = 2
	EResultInvalidPassword                 EResult = 5
	EResultFileNotFound                    EResult = 9
	EResultInvalidParam                    EResult = 10
	EResultAccessDenied                    EResult = 15
	EResultTimeout                         EResult = 16
	EResultAccountNotFound                 EResult = 18
	EResultServiceUnavailable              EResult = 20
	EResultBusy                            EResult = 21
	EResultRevoked                         EResult = 26
	EResultExpired                         EResult = 27
	EResultDuplicateRequest                EResult = 29
	EResultInvalidLoginAuthCode            EResult = 65
	EResultRateLimitExceeded               EResult = 84
	EResultAccountLoginDeniedNeedTwoFactor EResult = 85
	EResultAccountLoginDeniedThrottle      EResult = 87
	EResultTwoFactorCodeMismatch           EResult = 88
)

func (r EResult) String() string {
	switch r {
	case EResultOK:
		return "OK"
	case EResultFail:
		return "Fail"
	case EResultInvalidPassword:
		return "InvalidPassword"
	case EResultFileNotFound:
		return "FileNotFound"
	case EResultInvalidParam:
		return "InvalidParam"
	case EResultAccessDenied:
		return "AccessDenied"
	case EResultTimeout:
		return "Timeout"
	case EResultAccountNotFound:
		return "AccountNotFound"
	case EResultServiceUnavailable:
		return "ServiceUnavailable"
	case EResultBusy:
		return "Busy"
	case EResultRevoked:
		return "Revoked"
	case EResultExpired:
		return "Expired"
	case EResultDuplicateRequest:
		return "DuplicateRequest"
	case EResultInvalidLoginAuthCode:
		return "InvalidLoginAuthCode"
	case EResultRateLimitExceeded:
		return "RateLimitExceeded"
	case EResultAccountLoginDeniedNeedTwoFactor:
		return "AccountLoginDeniedNeedTwoFactor"
	case EResultAccountLoginDeniedThrottle:
		return "AccountLoginDeniedThrottle"
	case EResultTwoFactorCodeMismatch:
		return "TwoFactorCodeMismatch"
	default:
		return fmt.Sprintf("EResult(%d)", int32(r))
	}
}

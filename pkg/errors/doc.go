// Package errors provides structured error handling with error codes for
// steamauth.
//
// Every error the engine surfaces carries a typed ErrorCode so callers can
// distinguish retryable failures (transport hiccups, rate limits, mistyped
// guard codes) from terminal ones (bad credentials, denial, expiry) without
// string matching. Server EResult values are folded into the same taxonomy
// through FromEResult, and kept on the error for diagnostics.
//
// Creating errors:
//
//	err := errors.New(errors.ErrCodeInvalidCredentials, "account/password rejected")
//	err := errors.Newf(errors.ErrCodeUnsupportedConfirmationType, "guard type %s not offered", gt)
//	err := errors.Transport(netErr, "poll call failed")
//
// Inspecting errors:
//
//	if errors.IsCode(err, errors.ErrCodeSessionExpired) { ... }
//	if errors.IsRetryable(err) { ... }
//	result := errors.GetResult(err) // raw EResult, when the server sent one
package errors

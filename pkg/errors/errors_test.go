package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tendric/steamauth/pkg/authapi"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeSessionDenied, "approval refused")
	assert.Equal(t, "[SESSION_DENIED] approval refused", err.Error())

	wrapped := Wrap(fmt.Errorf("connection reset"), ErrCodeTransport, "poll failed")
	assert.Equal(t, "[TRANSPORT_ERROR] poll failed: connection reset", wrapped.Error())
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "nothing"))
	assert.Nil(t, Wrapf(nil, ErrCodeInternal, "nothing %d", 1))
}

func TestUnwrapChain(t *testing.T) {
	inner := fmt.Errorf("connection reset")
	err := Wrap(inner, ErrCodeTransport, "poll failed")
	assert.True(t, stderrors.Is(err, inner))

	// Codes survive one more layer of %w wrapping.
	outer := fmt.Errorf("wait loop: %w", err)
	assert.True(t, IsCode(outer, ErrCodeTransport))
	assert.Equal(t, ErrCodeTransport, GetCode(outer))
}

func TestGetCodeFallback(t *testing.T) {
	assert.Equal(t, ErrCodeInternal, GetCode(fmt.Errorf("plain")))
	assert.False(t, IsCode(fmt.Errorf("plain"), ErrCodeTransport))
}

func TestTerminalAndRetryable(t *testing.T) {
	retryable := []ErrorCode{ErrCodeTransport, ErrCodeRateLimited, ErrCodeGuardCodeMismatch}
	for _, code := range retryable {
		err := New(code, "x")
		assert.False(t, err.Terminal(), string(code))
		assert.True(t, IsRetryable(err), string(code))
	}

	terminal := []ErrorCode{
		ErrCodeInvalidCredentials, ErrCodeSessionExpired, ErrCodeSessionDenied,
		ErrCodeCancelled, ErrCodeTimedOut, ErrCodeUnsupportedConfirmationType,
	}
	for _, code := range terminal {
		err := New(code, "x")
		assert.True(t, err.Terminal(), string(code))
		assert.False(t, IsRetryable(err), string(code))
	}

	assert.False(t, IsRetryable(fmt.Errorf("plain")))
}

func TestFromEResult(t *testing.T) {
	assert.Nil(t, FromEResult(authapi.EResultOK, ""))

	tests := []struct {
		result authapi.EResult
		code   ErrorCode
	}{
		{authapi.EResultInvalidPassword, ErrCodeInvalidCredentials},
		{authapi.EResultAccountNotFound, ErrCodeInvalidCredentials},
		{authapi.EResultRateLimitExceeded, ErrCodeRateLimited},
		{authapi.EResultAccountLoginDeniedThrottle, ErrCodeRateLimited},
		{authapi.EResultTwoFactorCodeMismatch, ErrCodeGuardCodeMismatch},
		{authapi.EResultInvalidLoginAuthCode, ErrCodeGuardCodeMismatch},
		{authapi.EResultExpired, ErrCodeSessionExpired},
		{authapi.EResultRevoked, ErrCodeSessionExpired},
		{authapi.EResultFileNotFound, ErrCodeSessionExpired},
		{authapi.EResultAccessDenied, ErrCodeSessionDenied},
		{authapi.EResultTimeout, ErrCodeTimedOut},
		{authapi.EResultServiceUnavailable, ErrCodeTransport},
		{authapi.EResultBusy, ErrCodeTransport},
		{authapi.EResultInvalidParam, ErrCodeInvalidInput},
		{authapi.EResultFail, ErrCodeInternal},
	}
	for _, tc := range tests {
		err := FromEResult(tc.result, "")
		assert.Equal(t, tc.code, err.Code, tc.result.String())
		assert.Equal(t, tc.result, err.Result)
		assert.Equal(t, tc.result, GetResult(err))
	}
}

func TestWithDetail(t *testing.T) {
	err := New(ErrCodeTransport, "poll failed").
		WithDetail("kind", "PollAuthSessionStatus").
		WithResult(authapi.EResultServiceUnavailable)
	assert.Equal(t, "PollAuthSessionStatus", err.Details["kind"])
	assert.Equal(t, authapi.EResultServiceUnavailable, GetResult(err))
}

func TestGetResultFallback(t *testing.T) {
	assert.Equal(t, authapi.EResultInvalid, GetResult(fmt.Errorf("plain")))
	assert.Equal(t, authapi.EResultInvalid, GetResult(New(ErrCodeInternal, "no result attached")))
}

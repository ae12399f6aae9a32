package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendric/steamauth/pkg/authapi"
	"github.com/tendric/steamauth/pkg/errors"
)

func TestHTTPTransportSend(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody authapi.PollAuthSessionStatusRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("x-eresult", "1")
		_, _ = w.Write([]byte(`{"response":{"access_token":"access","refresh_token":"refresh"}}`))
	}))
	defer srv.Close()

	tp := NewHTTPTransport(WithAPIBase(srv.URL))
	req := &authapi.PollAuthSessionStatusRequest{ClientID: 100, RequestID: []byte("req-1")}
	resp := &authapi.PollAuthSessionStatusResponse{}
	err := tp.Send(context.Background(), KindPollAuthSessionStatus, req, resp)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/IAuthenticationService/PollAuthSessionStatus/v1/", gotPath)
	assert.Equal(t, uint64(100), gotBody.ClientID)
	assert.Equal(t, "access", resp.AccessToken)
	assert.Equal(t, "refresh", resp.RefreshToken)
}

func TestHTTPTransportMapsResultHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-eresult", "5")
		_, _ = w.Write([]byte(`{"response":{}}`))
	}))
	defer srv.Close()

	tp := NewHTTPTransport(WithAPIBase(srv.URL))
	req := &authapi.BeginAuthSessionViaCredentialsRequest{AccountName: "gaben"}
	resp := &authapi.BeginAuthSessionViaCredentialsResponse{}
	err := tp.Send(context.Background(), KindBeginAuthSessionViaCredentials, req, resp)

	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidCredentials))
	assert.Equal(t, authapi.EResultInvalidPassword, errors.GetResult(err))
}

func TestHTTPTransportEmptyResponseBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-eresult", "1")
		_, _ = w.Write([]byte(`{"response":{}}`))
	}))
	defer srv.Close()

	tp := NewHTTPTransport(WithAPIBase(srv.URL))
	resp := &authapi.PollAuthSessionStatusResponse{}
	err := tp.Send(context.Background(), KindPollAuthSessionStatus, &authapi.PollAuthSessionStatusRequest{}, resp)

	// A pending poll returns an empty body with an OK result.
	require.NoError(t, err)
	assert.Equal(t, "", resp.RefreshToken)
}

func TestHTTPTransportNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	tp := NewHTTPTransport(WithAPIBase(srv.URL))
	err := tp.Send(context.Background(), KindPollAuthSessionStatus,
		&authapi.PollAuthSessionStatusRequest{}, &authapi.PollAuthSessionStatusResponse{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeTransport))
}

func TestHTTPTransportConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	tp := NewHTTPTransport(WithAPIBase(srv.URL))
	err := tp.Send(context.Background(), KindPollAuthSessionStatus,
		&authapi.PollAuthSessionStatusRequest{}, &authapi.PollAuthSessionStatusResponse{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeTransport))
}

func TestHTTPTransportCheckDevice(t *testing.T) {
	var gotCookie, gotClientID, gotSteamID string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotClientID = r.PostFormValue("clientid")
		gotSteamID = r.PostFormValue("steamid")
		gotCookie = r.Header.Get("Cookie")
		_, _ = w.Write([]byte(`{"success":true,"result":1}`))
	}))
	defer srv.Close()

	tp := NewHTTPTransport(WithCheckDeviceURL(srv.URL))
	req := &authapi.CheckMachineAuthRequest{
		ClientID:         100,
		SteamID:          76561198000000001,
		MachineAuthToken: "trust-1",
	}
	resp := &authapi.CheckMachineAuthResponse{}
	err := tp.Send(context.Background(), KindCheckMachineAuth, req, resp)
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, authapi.EResultOK, resp.Result)
	assert.Equal(t, "100", gotClientID)
	assert.Equal(t, "76561198000000001", gotSteamID)
	assert.Equal(t, "steamMachineAuth76561198000000001=trust-1", gotCookie)
}

func TestHTTPTransportCheckDeviceRequiresTypedRequest(t *testing.T) {
	tp := NewHTTPTransport()
	err := tp.Send(context.Background(), KindCheckMachineAuth, struct{}{}, &authapi.CheckMachineAuthResponse{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInternal))
}

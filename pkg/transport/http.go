package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tendric/steamauth/pkg/authapi"
	"github.com/tendric/steamauth/pkg/errors"
)

const (
	defaultAPIBase        = "https://api.steampowered.com"
	defaultCheckDeviceURL = "https://login.steampowered.com/jwt/checkdevice"
	defaultUserAgent      = "steamauth"
	defaultHTTPTimeout    = 60 * time.Second

	// Result code the web API attaches to every response.
	eresultHeader = "x-eresult"
)

// HTTPTransport speaks the authentication service over the JSON web API.
// All session operations are POSTed to
// <base>/IAuthenticationService/<method>/v1/; the machine-auth check goes to
// its own endpoint.
type HTTPTransport struct {
	client         *http.Client
	apiBase        string
	checkDeviceURL string
	userAgent      string
}

// HTTPOption configures an HTTPTransport
type HTTPOption func(*HTTPTransport)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(t *HTTPTransport) {
		t.client = client
	}
}

// WithAPIBase points the transport at a different API host, mainly for tests
func WithAPIBase(base string) HTTPOption {
	return func(t *HTTPTransport) {
		t.apiBase = base
	}
}

// WithCheckDeviceURL overrides the machine-auth check endpoint
func WithCheckDeviceURL(u string) HTTPOption {
	return func(t *HTTPTransport) {
		t.checkDeviceURL = u
	}
}

// WithUserAgent sets the User-Agent header on every request
func WithUserAgent(ua string) HTTPOption {
	return func(t *HTTPTransport) {
		t.userAgent = ua
	}
}

// NewHTTPTransport creates a web API transport with default endpoints
func NewHTTPTransport(opts ...HTTPOption) *HTTPTransport {
	t := &HTTPTransport{
		client:         &http.Client{Timeout: defaultHTTPTimeout},
		apiBase:        defaultAPIBase,
		checkDeviceURL: defaultCheckDeviceURL,
		userAgent:      defaultUserAgent,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// apiEnvelope is the wrapper the web API puts around every response body
type apiEnvelope struct {
	Response json.RawMessage `json:"response"`
}

// Send implements Transport
func (t *HTTPTransport) Send(ctx context.Context, kind RequestKind, req, resp interface{}) error {
	if kind == KindCheckMachineAuth {
		return t.sendCheckDevice(ctx, req, resp)
	}
	return t.sendAPI(ctx, kind, req, resp)
}

func (t *HTTPTransport) sendAPI(ctx context.Context, kind RequestKind, req, resp interface{}) error {
	apiURL := fmt.Sprintf("%s/IAuthenticationService/%s/v1/", t.apiBase, kind)

	body, err := json.Marshal(req)
	if err != nil {
		return errors.Wrapf(err, errors.ErrCodeInternal, "marshal %s request", kind)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return errors.Wrapf(err, errors.ErrCodeInternal, "build %s request", kind)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", t.userAgent)

	raw, result, err := t.do(httpReq, kind)
	if err != nil {
		return err
	}
	if rerr := errors.FromEResult(result, ""); rerr != nil {
		return rerr.WithDetail("kind", string(kind))
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return errors.Transport(err, fmt.Sprintf("decode %s response envelope", kind))
	}
	if len(envelope.Response) == 0 {
		// Empty response body with an OK result is legal, e.g. a pending poll.
		return nil
	}
	if err := json.Unmarshal(envelope.Response, resp); err != nil {
		return errors.Transport(err, fmt.Sprintf("decode %s response", kind))
	}
	return nil
}

// sendCheckDevice posts the machine-auth token as a form, matching the
// dedicated check endpoint, and decodes the bare {success, result} body.
func (t *HTTPTransport) sendCheckDevice(ctx context.Context, req, resp interface{}) error {
	check, ok := req.(*authapi.CheckMachineAuthRequest)
	if !ok {
		return errors.Internal("CheckMachineAuth requires *authapi.CheckMachineAuthRequest")
	}

	form := url.Values{}
	form.Set("clientid", strconv.FormatUint(check.ClientID, 10))
	form.Set("steamid", strconv.FormatUint(check.SteamID, 10))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.checkDeviceURL, bytes.NewBufferString(form.Encode()))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "build CheckMachineAuth request")
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("User-Agent", t.userAgent)
	if check.MachineAuthToken != "" {
		httpReq.Header.Set("Cookie", "steamMachineAuth"+strconv.FormatUint(check.SteamID, 10)+"="+check.MachineAuthToken)
	}

	raw, _, err := t.do(httpReq, KindCheckMachineAuth)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, resp); err != nil {
		return errors.Transport(err, "decode CheckMachineAuth response")
	}
	return nil
}

func (t *HTTPTransport) do(req *http.Request, kind RequestKind) ([]byte, authapi.EResult, error) {
	start := time.Now()
	httpResp, err := t.client.Do(req)
	if err != nil {
		return nil, authapi.EResultInvalid, errors.Transport(err, fmt.Sprintf("send %s request", kind))
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, authapi.EResultInvalid, errors.Transport(err, fmt.Sprintf("read %s response", kind))
	}

	slog.Debug("api call completed",
		"kind", kind,
		"status", httpResp.StatusCode,
		"duration", time.Since(start))

	if httpResp.StatusCode != http.StatusOK {
		return nil, authapi.EResultInvalid, errors.Newf(errors.ErrCodeTransport, "%s returned status %d", kind, httpResp.StatusCode)
	}

	result := authapi.EResultOK
	if h := httpResp.Header.Get(eresultHeader); h != "" {
		if v, perr := strconv.ParseInt(h, 10, 32); perr == nil {
			result = authapi.EResult(v)
		}
	}
	return raw, result, nil
}

package sessions

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/tripkit/agentd/internal/credential"
	"github.com/tripkit/agentd/internal/errdefs"
)

var jsonc = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// DefaultTimeout bounds each control plane call.
	DefaultTimeout = 30 * time.Second

	// DefaultAPIVersion is the control plane API version requested when none
	// is configured.
	DefaultAPIVersion = "2024-02-02-preview"

	// MinCodeLength/MaxCodeLength bound the snippet size accepted by
	// 'ExecuteCode'; validated locally, oversized snippets never leave the
	// process.
	MinCodeLength = 1
	MaxCodeLength = 50_000
)

// ClientOptions encapsulates the options available when creating a new
// client.
type ClientOptions struct {
	// Endpoint is the base URL of the control plane.
	//
	// NOTE: Required
	Endpoint string

	// Resolver supplies the credential attached to each call.
	//
	// NOTE: Required
	Resolver *credential.Resolver

	// APIVersion overrides 'DefaultAPIVersion'.
	APIVersion string

	// Timeout overrides 'DefaultTimeout'.
	Timeout time.Duration

	// Client allows overriding the underlying HTTP client.
	Client *http.Client
}

// Client dispatches requests to the session control plane. Safe for
// concurrent use.
type Client struct {
	endpoint   string
	resolver   *credential.Resolver
	apiVersion string
	timeout    time.Duration
	client     *http.Client
}

// NewClient creates a new client using the given options; no network I/O
// takes place, connectivity/credential failures surface on the first call.
func NewClient(options ClientOptions) (*Client, error) {
	if options.Endpoint == "" {
		return nil, errdefs.New(errdefs.KindInvalidRequest, "a control plane endpoint is required")
	}

	if options.Resolver == nil {
		return nil, errdefs.New(errdefs.KindInvalidRequest, "a credential resolver is required")
	}

	parsed, err := url.Parse(options.Endpoint)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, errdefs.Newf(errdefs.KindInvalidRequest, "invalid control plane endpoint '%s'",
			options.Endpoint)
	}

	if options.APIVersion == "" {
		options.APIVersion = DefaultAPIVersion
	}

	if options.Timeout == 0 {
		options.Timeout = DefaultTimeout
	}

	if options.Client == nil {
		options.Client = http.DefaultClient
	}

	return &Client{
		endpoint:   strings.TrimSuffix(options.Endpoint, "/"),
		resolver:   options.Resolver,
		apiVersion: options.APIVersion,
		timeout:    options.Timeout,
		client:     options.Client,
	}, nil
}

// CreateSession provisions a new session in the given pool, forwarding the
// given config to the control plane. The returned session may still be
// provisioning; the caller owns any polling policy.
func (c *Client) CreateSession(ctx context.Context, pool string, config SessionConfig) (*Session, error) {
	if pool == "" {
		return nil, errdefs.New(errdefs.KindInvalidRequest, "a session pool is required")
	}

	// The name is generated client side; the control plane echoes it back or
	// assigns its own.
	request := createEnvelope{Name: uuid.NewString(), Properties: config}

	status, body, err := c.do(ctx, http.MethodPost, EndpointCreateSession.Format(pool), &request)
	if err != nil {
		return nil, err
	}

	// Pool existence is validated server side; a 404 here is not given special
	// treatment, it surfaces as an opaque remote failure like any other
	// unexpected status.
	err = mapStatus(status, body, "")
	if err != nil {
		return nil, err
	}

	session, err := decodeSession(body)
	if err != nil {
		return nil, err
	}

	if session.ID == "" {
		session.ID = request.Name
	}

	session.Pool = pool

	return session, nil
}

// GetStatus fetches the current state of the given session.
func (c *Client) GetStatus(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, errdefs.New(errdefs.KindInvalidRequest, "a session id is required")
	}

	status, body, err := c.do(ctx, http.MethodGet, EndpointSession.Format(id), nil)
	if err != nil {
		return nil, err
	}

	err = mapStatus(status, body, fmt.Sprintf("session '%s' not found", id))
	if err != nil {
		return nil, err
	}

	return decodeSession(body)
}

// ExecuteCode runs the given snippet synchronously inside the session. The
// snippet length is validated locally before anything is sent.
func (c *Client) ExecuteCode(ctx context.Context, id, code string) (*ExecutionResult, error) {
	if id == "" {
		return nil, errdefs.New(errdefs.KindInvalidRequest, "a session id is required")
	}

	if length := utf8.RuneCountInString(code); length < MinCodeLength || length > MaxCodeLength {
		return nil, errdefs.Newf(errdefs.KindInvalidRequest,
			"code length %d outside the allowed range [%d, %d]", length, MinCodeLength, MaxCodeLength)
	}

	request := executionEnvelope{Properties: executionProperties{
		CodeInputType: "inline",
		ExecutionType: "synchronous",
		Code:          code,
	}}

	status, body, err := c.do(ctx, http.MethodPost, EndpointExecuteCode.Format(id), &request)
	if err != nil {
		return nil, err
	}

	// A rejected snippet carries user-actionable compiler/runtime feedback, the
	// one place the remote supplied text is surfaced verbatim.
	if status == http.StatusBadRequest {
		return nil, errdefs.Newf(errdefs.KindInvalidRequest, "remote rejected the code: %s", body)
	}

	err = mapStatus(status, body, fmt.Sprintf("session '%s' not found", id))
	if err != nil {
		return nil, err
	}

	var envelope resultEnvelope
	if err := jsonc.Unmarshal(body, &envelope); err != nil {
		return nil, errdefs.Wrap(errdefs.KindUnexpectedRemoteError, err,
			"failed to decode execution result")
	}

	result := envelope.toResult()
	result.SessionID = id

	return result, nil
}

// DeleteSession releases the given session. Deleting a session which no
// longer exists is an error; idempotent teardown is the caller's concern.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	if id == "" {
		return errdefs.New(errdefs.KindInvalidRequest, "a session id is required")
	}

	status, body, err := c.do(ctx, http.MethodDelete, EndpointSession.Format(id), nil)
	if err != nil {
		return err
	}

	return mapStatus(status, body, fmt.Sprintf("session '%s' not found", id))
}

// do dispatches a single request, acquiring a fresh credential first. The
// response body is fully read so status mapping can include it.
func (c *Client) do(ctx context.Context, method string, endpoint Endpoint, body any) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cred, err := c.resolver.Resolve(ctx, credential.ScopeDynamicSessions)
	if err != nil {
		return 0, nil, err
	}

	if cred.Token == "" {
		return 0, nil, errdefs.Newf(errdefs.KindAuthenticationFailed,
			"strategy '%s' does not produce bearer tokens", cred.Source)
	}

	var reader io.Reader

	if body != nil {
		encoded, err := jsonc.Marshal(body)
		if err != nil {
			return 0, nil, errdefs.Wrap(errdefs.KindInvalidRequest, err, "failed to encode request body")
		}

		reader = bytes.NewReader(encoded)
	}

	target := fmt.Sprintf("%s%s?%s", c.endpoint, endpoint,
		url.Values{"api-version": []string{c.apiVersion}}.Encode())

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, nil, errdefs.Wrap(errdefs.KindInvalidRequest, err, "failed to create request")
	}

	req.Header.Set("Authorization", "Bearer "+cred.Token)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, errdefs.FromTransport(err, fmt.Sprintf("'%s' request to '%s'", method, endpoint))
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, errdefs.FromTransport(err, "read response body")
	}

	return resp.StatusCode, payload, nil
}

// mapStatus converts a non-success status code into the matching domain
// error; 'notFound' is the message used for a 404 since which resource is
// missing depends on the operation. An empty 'notFound' means 404 carries no
// meaning for the operation and is treated as unexpected.
func mapStatus(status int, body []byte, notFound string) error {
	switch status {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted, http.StatusNoContent:
		return nil
	case http.StatusBadRequest:
		return errdefs.Newf(errdefs.KindInvalidRequest, "remote rejected the request (status %d)", status)
	case http.StatusUnauthorized:
		return errdefs.New(errdefs.KindAuthenticationFailed, "control plane rejected the credential")
	case http.StatusForbidden:
		return errdefs.New(errdefs.KindAuthorizationDenied,
			"credential lacks permission for the session control plane")
	case http.StatusNotFound:
		if notFound != "" {
			return errdefs.New(errdefs.KindNotFound, notFound)
		}
	}

	if status >= http.StatusInternalServerError {
		return errdefs.Newf(errdefs.KindRemoteUnavailable, "control plane unavailable (status %d)", status)
	}

	return errdefs.Newf(errdefs.KindUnexpectedRemoteError, "unexpected status code %d: %s", status, body)
}

func decodeSession(body []byte) (*Session, error) {
	var envelope sessionEnvelope
	if err := jsonc.Unmarshal(body, &envelope); err != nil {
		return nil, errdefs.Wrap(errdefs.KindUnexpectedRemoteError, err, "failed to decode session")
	}

	return envelope.toSession(body), nil
}

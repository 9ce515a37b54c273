// Package httpclient is the REST implementation of the backend service
// contract. It speaks the /auth API: JSON request bodies, a uniform
// result envelope in every response, and a session cookie carrying the
// backend session.
//
// Transport failures are operational outcomes, not faults: a refused
// connection surfaces as a failed envelope so flows degrade into a
// normal failed state instead of an exceptional one. Only a response
// the client cannot interpret is reported as a Go error.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/strategiz-io/authflow"
)

const (
	defaultTimeout  = 15 * time.Second
	maxResponseSize = 1 << 20
)

// Client is an HTTP-backed [authflow.Service]. Create one with [New].
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The caller owns
// cookie handling when overriding.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New returns a client for the auth API rooted at baseURL. The default
// underlying client carries a cookie jar for the backend session cookie
// and a 15s timeout.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		jar, _ := cookiejar.New(nil)
		c.http = &http.Client{
			Timeout: defaultTimeout,
			Jar:     jar,
		}
	}
	return c
}

var _ authflow.Service = (*Client)(nil)

func (c *Client) SignIn(ctx context.Context, email, password string) (authflow.Result[authflow.User], error) {
	return post[authflow.User](ctx, c, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

func (c *Client) SignInWithProvider(ctx context.Context, provider authflow.OAuthProvider) (authflow.Result[authflow.User], error) {
	return post[authflow.User](ctx, c, "/auth/oauth/"+string(provider), nil)
}

func (c *Client) SignInWithPasskey(ctx context.Context) (authflow.Result[authflow.User], error) {
	return post[authflow.User](ctx, c, "/auth/passkey/login", nil)
}

func (c *Client) RegisterPasskey(ctx context.Context, userID string) (authflow.Result[bool], error) {
	return post[bool](ctx, c, "/auth/passkey/register", map[string]string{
		"user_id": userID,
	})
}

func (c *Client) SendSMSCode(ctx context.Context, phone string) (authflow.Result[bool], error) {
	return post[bool](ctx, c, "/auth/sms/send", map[string]string{
		"phone": phone,
	})
}

func (c *Client) VerifySMSCode(ctx context.Context, code string) (authflow.Result[authflow.User], error) {
	return post[authflow.User](ctx, c, "/auth/sms/verify", map[string]string{
		"code": code,
	})
}

func (c *Client) VerifyTOTP(ctx context.Context, email, code string) (authflow.Result[authflow.User], error) {
	return post[authflow.User](ctx, c, "/auth/totp/verify", map[string]string{
		"email": email,
		"code":  code,
	})
}

func (c *Client) CreateUser(ctx context.Context, input authflow.CreateUserInput) (authflow.Result[authflow.User], error) {
	return post[authflow.User](ctx, c, "/auth/register", input)
}

func (c *Client) SignOut(ctx context.Context) (authflow.Result[authflow.Void], error) {
	return post[authflow.Void](ctx, c, "/auth/logout", nil)
}

func (c *Client) RefreshSession(ctx context.Context) (authflow.Result[authflow.User], error) {
	return get[authflow.User](ctx, c, "/auth/me")
}

// PasskeySupported probes the backend's passkey endpoint. Any failure
// reads as unsupported.
func (c *Client) PasskeySupported(ctx context.Context) bool {
	res, err := get[bool](ctx, c, "/auth/passkey/supported")
	if err != nil || !res.Success || res.Data == nil {
		return false
	}
	return *res.Data
}

func (c *Client) AvailableAuthMethods(ctx context.Context) (authflow.AuthMethods, error) {
	res, err := get[authflow.AuthMethods](ctx, c, "/auth/methods")
	if err != nil {
		return authflow.AuthMethods{}, err
	}
	if !res.Success || res.Data == nil {
		return authflow.AuthMethods{}, fmt.Errorf("auth methods unavailable: %s", res.FailureText())
	}
	return *res.Data, nil
}

func post[T any](ctx context.Context, c *Client, path string, body any) (authflow.Result[T], error) {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return authflow.Result[T]{}, fmt.Errorf("encode %s request: %w", path, err)
		}
		payload = bytes.NewReader(data)
	}
	return do[T](ctx, c, http.MethodPost, path, payload)
}

func get[T any](ctx context.Context, c *Client, path string) (authflow.Result[T], error) {
	return do[T](ctx, c, http.MethodGet, path, nil)
}

func do[T any](ctx context.Context, c *Client, method, path string, body io.Reader) (authflow.Result[T], error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return authflow.Result[T]{}, fmt.Errorf("build %s request: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return authflow.Failure[T]("request failed", "Could not reach the authentication service"), nil
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return authflow.Failure[T]("request failed", "Could not read the service response"), nil
	}

	var envelope authflow.Result[T]
	if err := json.Unmarshal(data, &envelope); err != nil {
		return authflow.Result[T]{}, fmt.Errorf("decode %s response (status %d): %w", path, resp.StatusCode, err)
	}

	// The envelope is authoritative; an error status with a decodable
	// envelope is an expected failure, not a fault.
	if envelope.Success && resp.StatusCode >= 400 {
		return authflow.Result[T]{}, fmt.Errorf("contract violation on %s: success envelope with status %d", path, resp.StatusCode)
	}

	return envelope, nil
}

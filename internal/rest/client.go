// Package rest is the outbound boundary: a thin HTTP client against the
// provider plus Twilio-shaped resource services built on it. The document
// model and the event normalizer never touch this package; they exchange
// only data structures.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// Environment variables consulted when explicit credentials are absent.
const (
	EnvAccountSID = "TWILIO_ACCOUNT_SID"
	EnvAuthToken  = "TWILIO_AUTH_TOKEN"
)

// APIVersion is the compatibility surface we present, regardless of what
// the provider underneath speaks.
const APIVersion = "2010-04-01"

// DefaultBaseURL is the provider backend this layer fronts.
const DefaultBaseURL = "http://142.93.223.79:3000"

const requestTimeout = 30 * time.Second

// ErrMissingCredentials is returned by NewClient when neither arguments nor
// environment supply both credential values.
var ErrMissingCredentials = errors.New("rest: account SID and auth token are required")

// Option customizes a Client at construction.
type Option func(*Client)

// WithBaseURL overrides the provider base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient substitutes the underlying HTTP client, mainly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// Client holds provider credentials and issues authenticated JSON requests
// with a fixed timeout. It is safe for concurrent use.
type Client struct {
	accountSID string
	authToken  string
	baseURL    string
	http       *http.Client
}

// NewClient builds a client from explicit credentials, falling back to the
// TWILIO_ACCOUNT_SID / TWILIO_AUTH_TOKEN environment variables.
func NewClient(accountSID, authToken string, opts ...Option) (*Client, error) {
	if accountSID == "" {
		accountSID = os.Getenv(EnvAccountSID)
	}
	if authToken == "" {
		authToken = os.Getenv(EnvAuthToken)
	}
	if accountSID == "" || authToken == "" {
		return nil, ErrMissingCredentials
	}
	c := &Client{
		accountSID: accountSID,
		authToken:  authToken,
		baseURL:    DefaultBaseURL,
		http:       &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) AccountSID() string { return c.accountSID }

// AuthToken exposes the secret for signature verification; callers must not
// log it.
func (c *Client) AuthToken() string { return c.authToken }

func (c *Client) Calls() *CallService           { return &CallService{client: c} }
func (c *Client) Messages() *MessageService     { return &MessageService{client: c} }
func (c *Client) Recordings() *RecordingService { return &RecordingService{client: c} }

// do issues one request and decodes the JSON response. Non-2xx responses and
// transport failures come back as *RestError; the provider's message, code
// and more-info fields are carried through when it sends them.
func (c *Client) do(ctx context.Context, method, path string, payload map[string]any) (map[string]any, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("rest: encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("rest: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.authToken)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.http.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) && ue.Timeout() {
			return nil, &RestError{Message: "request timeout", Code: CodeTimeout, Method: method, URI: path}
		}
		return nil, &RestError{Message: "connection error: unable to reach provider", Code: CodeConnection, Method: method, URI: path}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RestError{Message: "connection error: reading response", Code: CodeConnection, Method: method, URI: path}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		decoded := map[string]any{}
		if len(raw) > 0 {
			// A non-JSON 2xx body is tolerated; callers get an empty map.
			_ = json.Unmarshal(raw, &decoded)
		}
		return decoded, nil
	}

	re := &RestError{
		Message: fmt.Sprintf("HTTP %d error", resp.StatusCode),
		Status:  resp.StatusCode,
		Method:  method,
		URI:     path,
	}
	var errBody struct {
		Message  string `json:"message"`
		Code     int    `json:"code"`
		MoreInfo string `json:"more_info"`
	}
	if json.Unmarshal(raw, &errBody) == nil && errBody.Message != "" {
		re.Message = errBody.Message
		re.Code = errBody.Code
		re.MoreInfo = errBody.MoreInfo
	}
	return nil, re
}

package authority

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/kolo/xmlrpc"
)

// Client opens per-repair sessions with the remote warranty authority over
// XML-RPC. One Session covers exactly one confirmation reference and must be
// closed after use regardless of outcome.
type Client struct {
	URL       string
	Username  string
	Password  string
	CommonURL string
	CaseURL   string
	transport http.RoundTripper
}

// NewClient creates a new authority client. The timeout bounds per-call
// latency; a timed-out call surfaces as a connect failure.
func NewClient(url, username, password string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		URL:       url,
		Username:  username,
		Password:  password,
		CommonURL: fmt.Sprintf("%s/xmlrpc/2/common", url),
		CaseURL:   fmt.Sprintf("%s/xmlrpc/2/case", url),
		transport: &http.Transport{
			DialContext:           (&net.Dialer{Timeout: timeout}).DialContext,
			ResponseHeaderTimeout: timeout,
		},
	}
}

// Session is an authenticated conversation about a single confirmation
// reference.
type Session struct {
	client       *xmlrpc.Client
	token        string
	confirmation string
}

// Connect authenticates against the authority for the given confirmation
// reference and returns an open session. Any failure here (transport,
// timeout, auth) is a ConnectError and classified remote-unreachable.
func (c *Client) Connect(ctx context.Context, confirmation string) (*Session, error) {
	if confirmation == "" {
		return nil, &ConnectError{Confirmation: confirmation, Err: fmt.Errorf("empty confirmation reference")}
	}
	if err := ctx.Err(); err != nil {
		return nil, &ConnectError{Confirmation: confirmation, Err: err}
	}

	common, err := xmlrpc.NewClient(c.CommonURL, c.transport)
	if err != nil {
		return nil, &ConnectError{Confirmation: confirmation, Err: fmt.Errorf("failed to create XML-RPC client: %w", err)}
	}
	defer common.Close()

	args := []interface{}{c.Username, c.Password, confirmation}
	var token string
	if err := common.Call("authenticate", args, &token); err != nil {
		return nil, &ConnectError{Confirmation: confirmation, Err: fmt.Errorf("authentication failed: %w", err)}
	}

	caseClient, err := xmlrpc.NewClient(c.CaseURL, c.transport)
	if err != nil {
		return nil, &ConnectError{Confirmation: confirmation, Err: fmt.Errorf("failed to create XML-RPC client: %w", err)}
	}

	return &Session{
		client:       caseClient,
		token:        token,
		confirmation: confirmation,
	}, nil
}

// FetchDetails requests the authoritative detail payload for the session's
// confirmation. The authority answers with a struct; it is decoded via a JSON
// round-trip into RepairDetail. A response that cannot be obtained or decoded
// is a FetchError (remote-rejected unless it was a timeout).
func (s *Session) FetchDetails(ctx context.Context) (*RepairDetail, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Confirmation: s.confirmation, Err: err}
	}

	args := []interface{}{s.token, s.confirmation}
	var raw map[string]interface{}
	if err := s.client.Call("case.details", args, &raw); err != nil {
		return nil, &FetchError{Confirmation: s.confirmation, Err: fmt.Errorf("failed to fetch case details: %w", err)}
	}

	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, &FetchError{Confirmation: s.confirmation, Err: fmt.Errorf("failed to marshal raw result: %w", err)}
	}

	var detail RepairDetail
	if err := json.Unmarshal(jsonData, &detail); err != nil {
		return nil, &FetchError{Confirmation: s.confirmation, Err: fmt.Errorf("failed to unmarshal into target: %w", err)}
	}

	return &detail, nil
}

// Close releases the session's underlying connection
func (s *Session) Close() error {
	return s.client.Close()
}

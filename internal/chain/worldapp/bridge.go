// Package worldapp implements the backend that runs inside the World App
// host. Transactions are not signed locally; they are handed to the host
// wallet bridge, which collects user approval, signs any Permit2 payloads,
// and submits on the user's behalf.
package worldapp

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/scallionlabs/manor/internal/chain"
	manorerr "github.com/scallionlabs/manor/pkg/errors"
)

// Argument placeholders the host substitutes from the permit2 section of a
// transaction request before signing and submission.
const (
	// PermitTransferPlaceholder stands in for the PermitTransferFrom tuple.
	PermitTransferPlaceholder = "PERMIT_TRANSFER_PLACEHOLDER"

	// PermitSignaturePlaceholder stands in for the signature over the first
	// permit in the request.
	PermitSignaturePlaceholder = "PERMIT2_SIGNATURE_PLACEHOLDER_0"
)

const (
	httpTimeout = 30 * time.Second

	// maxResponseBody is the maximum response body size to read (1 MB).
	maxResponseBody = 1 << 20
)

// Sentinel errors for the wallet bridge.
var (
	// ErrBridgeRequest indicates a bridge request could not be delivered.
	ErrBridgeRequest = &manorerr.ManorError{
		Code:     "BRIDGE_REQUEST_FAILED",
		Message:  "wallet bridge request failed",
		ExitCode: manorerr.ExitGeneral,
	}

	// ErrBridgeResponse indicates the bridge returned an unparsable response.
	ErrBridgeResponse = &manorerr.ManorError{
		Code:     "BRIDGE_INVALID_RESPONSE",
		Message:  "invalid wallet bridge response",
		ExitCode: manorerr.ExitGeneral,
	}
)

// PermittedToken is the token/amount pair inside a permit request.
type PermittedToken struct {
	Token  string `json:"token"`
	Amount string `json:"amount"`
}

// PermitRequest asks the host to sign one Permit2 PermitTransferFrom for
// the given spender. All numeric fields are decimal strings.
type PermitRequest struct {
	Permitted PermittedToken `json:"permitted"`
	Spender   string         `json:"spender"`
	Nonce     string         `json:"nonce"`
	Deadline  string         `json:"deadline"`
}

// TransactionCall is one contract call within a transaction request.
type TransactionCall struct {
	Address      string          `json:"address"`
	ABI          json.RawMessage `json:"abi"`
	FunctionName string          `json:"functionName"`
	Args         []any           `json:"args"`
}

// TransactionRequest is the payload handed to the host wallet. Placeholder
// args reference entries in Permit2 by index.
type TransactionRequest struct {
	Transaction []TransactionCall `json:"transaction"`
	Permit2     []PermitRequest   `json:"permit2,omitempty"`
}

// Bridge is the host wallet surface the backend talks to. It exists as an
// interface so tests can substitute a scripted implementation.
type Bridge interface {
	// Install performs the host handshake. It must succeed before any other
	// bridge call; Installed reports the handshake state without I/O.
	Install(ctx context.Context) error
	Installed() bool

	// WalletAuth authenticates the user with the host wallet and returns
	// the wallet address.
	WalletAuth(ctx context.Context) (string, error)

	// SendTransaction hands a transaction request to the host for approval,
	// signing, and submission.
	SendTransaction(ctx context.Context, req TransactionRequest) (*chain.TransactionResult, error)

	// AppID returns the mini-app identifier registered with the host.
	AppID() string
}

// HTTPBridge talks to the host wallet over its local HTTP surface.
type HTTPBridge struct {
	baseURL    string
	appID      string
	httpClient *http.Client
	installed  atomic.Bool
}

// BridgeOptions configures the HTTP bridge.
type BridgeOptions struct {
	// HTTPClient overrides the default HTTP client (useful for testing).
	HTTPClient *http.Client
}

// NewHTTPBridge creates a bridge client for the host at baseURL.
func NewHTTPBridge(baseURL, appID string, opts *BridgeOptions) *HTTPBridge {
	b := &HTTPBridge{
		baseURL:    baseURL,
		appID:      appID,
		httpClient: &http.Client{Timeout: httpTimeout},
	}
	if opts != nil && opts.HTTPClient != nil {
		b.httpClient = opts.HTTPClient
	}
	return b
}

// AppID returns the registered mini-app identifier.
func (b *HTTPBridge) AppID() string {
	return b.appID
}

// Installed reports whether the host handshake has completed.
func (b *HTTPBridge) Installed() bool {
	return b.installed.Load()
}

// Install performs the host handshake. Safe to call more than once.
func (b *HTTPBridge) Install(ctx context.Context) error {
	if b.installed.Load() {
		return nil
	}

	var resp struct {
		Status string `json:"status"`
	}
	if err := b.post(ctx, "/minikit/install", map[string]string{"app_id": b.appID}, &resp); err != nil {
		return manorerr.Wrap(err, manorerr.ErrBridgeUnavailable, "wallet host not reachable")
	}
	if resp.Status != "success" {
		return manorerr.WithDetails(manorerr.ErrBridgeUnavailable, map[string]string{
			"status": resp.Status,
		})
	}

	b.installed.Store(true)
	return nil
}

// WalletAuth runs the wallet-auth flow with a random challenge nonce and
// returns the authenticated wallet address.
func (b *HTTPBridge) WalletAuth(ctx context.Context) (string, error) {
	nonceBytes := make([]byte, 16)
	if _, err := rand.Read(nonceBytes); err != nil {
		return "", manorerr.Wrap(err, manorerr.ErrGeneral, "generating auth nonce")
	}

	req := map[string]string{
		"app_id": b.appID,
		"nonce":  hex.EncodeToString(nonceBytes),
	}

	var resp struct {
		Status  string `json:"status"`
		Address string `json:"address"`
	}
	if err := b.post(ctx, "/minikit/wallet-auth", req, &resp); err != nil {
		return "", err
	}
	if resp.Status != "success" || resp.Address == "" {
		return "", manorerr.WithDetails(manorerr.ErrAuth, map[string]string{
			"status": resp.Status,
		})
	}

	return resp.Address, nil
}

// txResponse is the host's answer to a transaction request.
type txResponse struct {
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
	MiniAppID     string `json:"mini_app_id"`
	ErrorCode     string `json:"error_code"`
	Description   string `json:"description"`
}

// SendTransaction submits a transaction request to the host. A decline by
// the user comes back as the structured error code "user_rejected" and is
// mapped to ErrUserRejected; everything else is a hard failure.
func (b *HTTPBridge) SendTransaction(ctx context.Context, req TransactionRequest) (*chain.TransactionResult, error) {
	payload := struct {
		AppID string `json:"app_id"`
		TransactionRequest
	}{AppID: b.appID, TransactionRequest: req}

	var resp txResponse
	if err := b.post(ctx, "/minikit/transaction", payload, &resp); err != nil {
		return nil, err
	}

	if resp.Status != "success" {
		if resp.ErrorCode == "user_rejected" {
			return nil, manorerr.ErrUserRejected
		}
		return nil, manorerr.WithDetails(ErrBridgeRequest, map[string]string{
			"error_code":  resp.ErrorCode,
			"description": resp.Description,
		})
	}

	if resp.TransactionID == "" {
		return nil, manorerr.ErrTransactionIDMissing
	}

	miniAppID := resp.MiniAppID
	if miniAppID == "" {
		miniAppID = b.appID
	}

	return &chain.TransactionResult{
		TransactionID: resp.TransactionID,
		MiniAppID:     miniAppID,
	}, nil
}

// post sends a JSON POST to the bridge and decodes the response into out.
func (b *HTTPBridge) post(ctx context.Context, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling bridge request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("creating bridge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return manorerr.Wrap(err, manorerr.ErrNetwork, "wallet bridge unreachable")
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	if err != nil {
		return manorerr.Wrap(err, manorerr.ErrNetwork, "reading bridge response")
	}

	if httpResp.StatusCode != http.StatusOK {
		return manorerr.WithDetails(ErrBridgeRequest, map[string]string{
			"status": fmt.Sprintf("%d", httpResp.StatusCode),
		})
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return manorerr.Wrap(err, ErrBridgeResponse, "parsing bridge response")
	}

	return nil
}

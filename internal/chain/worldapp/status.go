package worldapp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/scallionlabs/manor/internal/chain"
	manorerr "github.com/scallionlabs/manor/pkg/errors"
)

// DefaultStatusBaseURL is the developer portal endpoint that reports the
// status of transactions submitted through the host wallet.
const DefaultStatusBaseURL = "https://developer.worldcoin.org/api/v2"

// statusResponse is the portal's transaction status record. Only the
// status field matters for confirmation.
type statusResponse struct {
	TransactionStatus string `json:"transactionStatus"`
	TransactionHash   string `json:"transactionHash"`
}

// StatusClient polls the developer portal for transaction finality.
type StatusClient struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *chain.RateLimiter
}

// StatusClientOptions configures the status client.
type StatusClientOptions struct {
	// BaseURL overrides the default portal URL (useful for testing).
	BaseURL string
	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client
}

// NewStatusClient creates a transaction status client.
func NewStatusClient(opts *StatusClientOptions) *StatusClient {
	c := &StatusClient{
		baseURL:     DefaultStatusBaseURL,
		httpClient:  &http.Client{Timeout: httpTimeout},
		rateLimiter: chain.NewRateLimiter(5, 5),
	}

	if opts != nil {
		if opts.BaseURL != "" {
			c.baseURL = opts.BaseURL
		}
		if opts.HTTPClient != nil {
			c.httpClient = opts.HTTPClient
		}
	}

	return c
}

// Check probes the status of one transaction. It returns true for a mined
// transaction, false while the portal still reports it pending, and
// ErrTransactionFailed for any terminal non-mined status.
func (c *StatusClient) Check(ctx context.Context, transactionID, appID string) (bool, error) {
	if err := c.rateLimiter.Wait(ctx, "status"); err != nil {
		return false, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("app_id", appID)
	params.Set("type", "transaction")
	reqURL := fmt.Sprintf("%s/minikit/transaction/%s?%s", c.baseURL, url.PathEscape(transactionID), params.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return false, manorerr.Wrap(err, manorerr.ErrNetwork, "status endpoint unreachable")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return false, manorerr.Wrap(err, manorerr.ErrNetwork, "reading status response")
	}

	// The portal answers 404 for transactions it has not indexed yet;
	// treat that window as still pending rather than a failure.
	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}

	if resp.StatusCode != http.StatusOK {
		return false, manorerr.WithDetails(manorerr.ErrNetwork, map[string]string{
			"status": fmt.Sprintf("%d", resp.StatusCode),
		})
	}

	var statusResp statusResponse
	if err := json.Unmarshal(body, &statusResp); err != nil {
		return false, manorerr.Wrap(err, manorerr.ErrNetwork, "parsing status response")
	}

	switch statusResp.TransactionStatus {
	case "mined":
		return true, nil
	case "pending":
		return false, nil
	default:
		return false, manorerr.WithDetails(manorerr.ErrTransactionFailed, map[string]string{
			"transaction_id": transactionID,
			"status":         statusResp.TransactionStatus,
		})
	}
}

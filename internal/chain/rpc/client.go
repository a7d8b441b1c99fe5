// Package rpc provides a minimal JSON-RPC 2.0 client for the Worldchain
// node endpoints the backends read from.
package rpc

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/scallionlabs/manor/internal/metrics"
	manorerr "github.com/scallionlabs/manor/pkg/errors"
)

var (
	// ErrRPCRequest indicates an RPC request failed.
	ErrRPCRequest = &manorerr.ManorError{
		Code:     "RPC_REQUEST_FAILED",
		Message:  "RPC request failed",
		ExitCode: manorerr.ExitGeneral,
	}

	// ErrRPCResponse indicates an invalid RPC response.
	ErrRPCResponse = &manorerr.ManorError{
		Code:     "RPC_INVALID_RESPONSE",
		Message:  "invalid RPC response",
		ExitCode: manorerr.ExitGeneral,
	}

	// ErrInvalidHexNumber indicates an invalid hex number.
	ErrInvalidHexNumber = &manorerr.ManorError{
		Code:     "RPC_INVALID_HEX",
		Message:  "invalid hex number",
		ExitCode: manorerr.ExitInput,
	}

	// ErrReceiptNotFound indicates the node does not know the transaction.
	// Some nodes answer unknown hashes with an error reply instead of a
	// null result; the confirmation path treats both as still pending.
	ErrReceiptNotFound = &manorerr.ManorError{
		Code:     "RPC_RECEIPT_NOT_FOUND",
		Message:  "transaction receipt not available yet",
		ExitCode: manorerr.ExitGeneral,
	}
)

// Client is a minimal Ethereum JSON-RPC client.
type Client struct {
	url        string
	httpClient *http.Client
	idCounter  atomic.Uint64
}

// NewClient creates a new RPC client for the given endpoint URL.
func NewClient(url string) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// request represents a JSON-RPC 2.0 request.
type request struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      uint64 `json:"id"`
}

// response represents a JSON-RPC 2.0 response.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error,omitempty"`
}

// rpcError represents a JSON-RPC error.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// Call performs a JSON-RPC call. Transport failures are classified as
// network errors so callers can surface them uniformly.
func (c *Client) Call(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	start := time.Now()
	result, err := c.call(ctx, method, params...)
	metrics.Global.RecordRPCCall(time.Since(start), err)
	return result, err
}

func (c *Client) call(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}

	req := request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.idCounter.Add(1),
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, manorerr.Wrap(err, manorerr.ErrNetwork, "RPC endpoint unreachable")
	}
	// Body.Close error is intentionally ignored as it only fails if the
	// connection is already broken, and there's no recovery action.
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, manorerr.Wrap(err, manorerr.ErrNetwork, "reading RPC response failed")
	}

	var resp response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, manorerr.Wrap(err, ErrRPCResponse, "unmarshaling response")
	}

	if resp.Error != nil {
		return nil, manorerr.Wrap(resp.Error, ErrRPCRequest, resp.Error.Message)
	}

	return resp.Result, nil
}

// ChainID returns the chain ID.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	result, err := c.Call(ctx, "eth_chainId")
	if err != nil {
		return nil, err
	}

	var hexVal string
	if err := json.Unmarshal(result, &hexVal); err != nil {
		return nil, fmt.Errorf("parsing chain ID: %w", err)
	}

	return parseHexBigInt(hexVal)
}

// GetTransactionCount returns the nonce for an address.
func (c *Client) GetTransactionCount(ctx context.Context, address, block string) (uint64, error) {
	if block == "" {
		block = "pending"
	}

	result, err := c.Call(ctx, "eth_getTransactionCount", address, block)
	if err != nil {
		return 0, err
	}

	var hexVal string
	if unmarshalErr := json.Unmarshal(result, &hexVal); unmarshalErr != nil {
		return 0, fmt.Errorf("parsing nonce: %w", unmarshalErr)
	}

	n, err := parseHexBigInt(hexVal)
	if err != nil {
		return 0, err
	}

	return n.Uint64(), nil
}

// GasPrice returns the current gas price in wei.
func (c *Client) GasPrice(ctx context.Context) (*big.Int, error) {
	result, err := c.Call(ctx, "eth_gasPrice")
	if err != nil {
		return nil, err
	}

	var hexVal string
	if err := json.Unmarshal(result, &hexVal); err != nil {
		return nil, fmt.Errorf("parsing gas price: %w", err)
	}

	return parseHexBigInt(hexVal)
}

// CallMsg represents the parameters for eth_call.
type CallMsg struct {
	From  string   `json:"from,omitempty"`
	To    string   `json:"to"`
	Gas   uint64   `json:"gas,omitempty"`
	Value *big.Int `json:"value,omitempty"`
	Data  []byte   `json:"data,omitempty"`
}

// MarshalJSON implements custom JSON marshaling for CallMsg.
func (m CallMsg) MarshalJSON() ([]byte, error) {
	type callMsgJSON struct {
		From  string `json:"from,omitempty"`
		To    string `json:"to"`
		Gas   string `json:"gas,omitempty"`
		Value string `json:"value,omitempty"`
		Data  string `json:"data,omitempty"`
	}

	msg := callMsgJSON{
		From: m.From,
		To:   m.To,
	}

	if m.Gas > 0 {
		msg.Gas = fmt.Sprintf("0x%x", m.Gas)
	}
	if m.Value != nil && m.Value.Sign() > 0 {
		msg.Value = "0x" + m.Value.Text(16)
	}
	if len(m.Data) > 0 {
		msg.Data = "0x" + hex.EncodeToString(m.Data)
	}

	return json.Marshal(msg)
}

// EthCall performs an eth_call against the latest block by default.
func (c *Client) EthCall(ctx context.Context, msg CallMsg, block string) ([]byte, error) {
	if block == "" {
		block = "latest"
	}

	result, err := c.Call(ctx, "eth_call", msg, block)
	if err != nil {
		return nil, err
	}

	var hexVal string
	if err := json.Unmarshal(result, &hexVal); err != nil {
		return nil, fmt.Errorf("parsing call result: %w", err)
	}

	return parseHexBytes(hexVal)
}

// SendRawTransaction sends a signed transaction and returns its hash.
func (c *Client) SendRawTransaction(ctx context.Context, signedTx []byte) (string, error) {
	hexTx := "0x" + hex.EncodeToString(signedTx)

	result, err := c.Call(ctx, "eth_sendRawTransaction", hexTx)
	if err != nil {
		return "", err
	}

	var txHash string
	if err := json.Unmarshal(result, &txHash); err != nil {
		return "", fmt.Errorf("parsing tx hash: %w", err)
	}

	return txHash, nil
}

// Receipt is the subset of a transaction receipt the confirmation path
// inspects.
type Receipt struct {
	TxHash      string
	Status      uint64
	BlockNumber *big.Int
	GasUsed     uint64
}

// receiptJSON matches the eth_getTransactionReceipt wire format.
type receiptJSON struct {
	TransactionHash string `json:"transactionHash"`
	Status          string `json:"status"`
	BlockNumber     string `json:"blockNumber"`
	GasUsed         string `json:"gasUsed"`
}

// TransactionReceipt returns the receipt for a mined transaction. A nil
// receipt with nil error means the transaction is still pending. A node
// that answers the lookup with a not-found error reply instead of a null
// result yields ErrReceiptNotFound.
func (c *Client) TransactionReceipt(ctx context.Context, txHash string) (*Receipt, error) {
	result, err := c.Call(ctx, "eth_getTransactionReceipt", txHash)
	if err != nil {
		if isReceiptNotFound(err) {
			return nil, manorerr.Wrap(err, ErrReceiptNotFound, txHash)
		}
		return nil, err
	}

	if len(result) == 0 || string(result) == "null" {
		return nil, nil
	}

	var raw receiptJSON
	if err := json.Unmarshal(result, &raw); err != nil {
		return nil, manorerr.Wrap(err, ErrRPCResponse, "parsing receipt")
	}

	status, err := parseHexBigInt(raw.Status)
	if err != nil {
		return nil, err
	}
	blockNumber, err := parseHexBigInt(raw.BlockNumber)
	if err != nil {
		return nil, err
	}
	gasUsed, err := parseHexBigInt(raw.GasUsed)
	if err != nil {
		return nil, err
	}

	return &Receipt{
		TxHash:      raw.TransactionHash,
		Status:      status.Uint64(),
		BlockNumber: blockNumber,
		GasUsed:     gasUsed.Uint64(),
	}, nil
}

// isReceiptNotFound reports whether an RPC error reply means the node has
// not seen the transaction. This is the one place the provider's error
// vocabulary for unknown hashes is interpreted; callers match on the
// ErrReceiptNotFound sentinel.
func isReceiptNotFound(err error) bool {
	var replyErr *rpcError
	if !errors.As(err, &replyErr) {
		return false
	}
	msg := strings.ToLower(replyErr.Message)
	return strings.Contains(msg, "not found") || strings.Contains(msg, "indexing")
}

// parseHexBigInt parses a hex string (with or without 0x prefix) to big.Int.
func parseHexBigInt(s string) (*big.Int, error) {
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return big.NewInt(0), nil
	}

	n := new(big.Int)
	if _, ok := n.SetString(s, 16); !ok {
		return nil, ErrInvalidHexNumber
	}

	return n, nil
}

// parseHexBytes parses a hex string to bytes.
func parseHexBytes(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return []byte{}, nil
	}
	return hex.DecodeString(s)
}

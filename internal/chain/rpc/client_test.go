package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	manorerr "github.com/scallionlabs/manor/pkg/errors"
)

// rpcHandler answers each JSON-RPC method with a canned result.
func rpcHandler(t *testing.T, results map[string]string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			JSONRPC string `json:"jsonrpc"`
			Method  string `json:"method"`
			ID      uint64 `json:"id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "2.0", req.JSONRPC)

		result, ok := results[req.Method]
		if !ok {
			http.Error(w, "unexpected method "+req.Method, http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":` + result + `}`))
	}
}

func TestClient_ChainID(t *testing.T) {
	srv := httptest.NewServer(rpcHandler(t, map[string]string{
		"eth_chainId": `"0x1e0"`,
	}))
	defer srv.Close()

	id, err := NewClient(srv.URL).ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(480), id.Int64())
}

func TestClient_GetTransactionCount(t *testing.T) {
	srv := httptest.NewServer(rpcHandler(t, map[string]string{
		"eth_getTransactionCount": `"0x2a"`,
	}))
	defer srv.Close()

	nonce, err := NewClient(srv.URL).GetTransactionCount(context.Background(),
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", "")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), nonce)
}

func TestClient_EthCall(t *testing.T) {
	srv := httptest.NewServer(rpcHandler(t, map[string]string{
		"eth_call": `"0xdeadbeef"`,
	}))
	defer srv.Close()

	data, err := NewClient(srv.URL).EthCall(context.Background(), CallMsg{
		To:   "0x6EA33738ef28C274F8E08F0b5fD213C79e0E569C",
		Data: []byte{0x01, 0x02},
	}, "")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, data)
}

func TestClient_SendRawTransaction(t *testing.T) {
	srv := httptest.NewServer(rpcHandler(t, map[string]string{
		"eth_sendRawTransaction": `"0xabc123"`,
	}))
	defer srv.Close()

	hash, err := NewClient(srv.URL).SendRawTransaction(context.Background(), []byte{0x01})
	require.NoError(t, err)
	assert.Equal(t, "0xabc123", hash)
}

func TestClient_TransactionReceipt_Mined(t *testing.T) {
	srv := httptest.NewServer(rpcHandler(t, map[string]string{
		"eth_getTransactionReceipt": `{"transactionHash":"0xabc","status":"0x1","blockNumber":"0x64","gasUsed":"0x5208"}`,
	}))
	defer srv.Close()

	receipt, err := NewClient(srv.URL).TransactionReceipt(context.Background(), "0xabc")
	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, uint64(1), receipt.Status)
	assert.Equal(t, int64(100), receipt.BlockNumber.Int64())
	assert.Equal(t, uint64(21000), receipt.GasUsed)
}

func TestClient_TransactionReceipt_Pending(t *testing.T) {
	srv := httptest.NewServer(rpcHandler(t, map[string]string{
		"eth_getTransactionReceipt": `null`,
	}))
	defer srv.Close()

	receipt, err := NewClient(srv.URL).TransactionReceipt(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.Nil(t, receipt)
}

func TestClient_TransactionReceipt_NotFoundErrorReply(t *testing.T) {
	tests := []struct {
		name    string
		message string
	}{
		{name: "not found", message: "transaction not found"},
		{name: "indexing", message: "transaction indexing is in progress"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32000,"message":"` + tc.message + `"}}`))
			}))
			defer srv.Close()

			receipt, err := NewClient(srv.URL).TransactionReceipt(context.Background(), "0xabc")
			require.Error(t, err)
			assert.Nil(t, receipt)
			assert.True(t, manorerr.Is(err, ErrReceiptNotFound))
		})
	}
}

func TestClient_TransactionReceipt_OtherErrorReplyPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32000,"message":"header limit exceeded"}}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).TransactionReceipt(context.Background(), "0xabc")
	require.Error(t, err)
	assert.False(t, manorerr.Is(err, ErrReceiptNotFound))
	assert.True(t, manorerr.Is(err, ErrRPCRequest))
}

func TestClient_RPCError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32000,"message":"execution reverted"}}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Call(context.Background(), "eth_call")
	require.Error(t, err)
	assert.True(t, manorerr.Is(err, ErrRPCRequest))
	assert.Contains(t, err.Error(), "execution reverted")
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused

	_, err := NewClient(srv.URL).Call(context.Background(), "eth_chainId")
	require.Error(t, err)
	assert.True(t, manorerr.Is(err, manorerr.ErrNetwork))
}

func TestCallMsg_MarshalJSON(t *testing.T) {
	msg := CallMsg{
		From: "0x1111111111111111111111111111111111111111",
		To:   "0x2222222222222222222222222222222222222222",
		Gas:  500000,
		Data: []byte{0xab, 0xcd},
	}

	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "0x7a120", decoded["gas"])
	assert.Equal(t, "0xabcd", decoded["data"])
	assert.NotContains(t, decoded, "value")
}

func TestParseHexBigInt(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
		wantErr  bool
	}{
		{name: "with prefix", input: "0x1e0", expected: 480},
		{name: "without prefix", input: "ff", expected: 255},
		{name: "empty", input: "", expected: 0},
		{name: "bare prefix", input: "0x", expected: 0},
		{name: "invalid", input: "0xzz", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n, err := parseHexBigInt(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, manorerr.Is(err, ErrInvalidHexNumber))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, n.Int64())
		})
	}
}

package worldapp

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

const testAppID = "app_test"

func bridgeServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *HTTPBridge) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, NewHTTPBridge(srv.URL, testAppID, nil)
}

func TestHTTPBridge_Install(t *testing.T) {
	_, bridge := bridgeServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/minikit/install", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, testAppID, req["app_id"])

		_, _ = w.Write([]byte(`{"status":"success"}`))
	})

	assert.False(t, bridge.Installed())
	require.NoError(t, bridge.Install(context.Background()))
	assert.True(t, bridge.Installed())

	// Second install is a no-op.
	require.NoError(t, bridge.Install(context.Background()))
}

func TestHTTPBridge_Install_HostUnreachable(t *testing.T) {
	srv, bridge := bridgeServer(t, func(http.ResponseWriter, *http.Request) {})
	srv.Close()

	err := bridge.Install(context.Background())
	require.Error(t, err)
	assert.True(t, manorerr.Is(err, manorerr.ErrBridgeUnavailable))
	assert.False(t, bridge.Installed())
}

func TestHTTPBridge_WalletAuth(t *testing.T) {
	_, bridge := bridgeServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/minikit/wallet-auth", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, testAppID, req["app_id"])
		assert.Len(t, req["nonce"], 32) // 16 random bytes hex-encoded

		_, _ = w.Write([]byte(`{"status":"success","address":"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"}`))
	})

	address, err := bridge.WalletAuth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", address)
}

func TestHTTPBridge_WalletAuth_Declined(t *testing.T) {
	_, bridge := bridgeServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error"}`))
	})

	_, err := bridge.WalletAuth(context.Background())
	require.Error(t, err)
	assert.True(t, manorerr.Is(err, manorerr.ErrAuth))
}

func TestHTTPBridge_SendTransaction(t *testing.T) {
	_, bridge := bridgeServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/minikit/transaction", r.URL.Path)

		var req struct {
			AppID       string            `json:"app_id"`
			Transaction []TransactionCall `json:"transaction"`
			Permit2     []PermitRequest   `json:"permit2"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, testAppID, req.AppID)
		require.Len(t, req.Transaction, 1)
		assert.Equal(t, "purchaseManorAccess", req.Transaction[0].FunctionName)
		require.Len(t, req.Permit2, 1)
		assert.Equal(t, "5000000000000000000", req.Permit2[0].Permitted.Amount)

		_, _ = w.Write([]byte(`{"status":"success","transaction_id":"tx-1","mini_app_id":"app_host"}`))
	})

	result, err := bridge.SendTransaction(context.Background(), TransactionRequest{
		Transaction: []TransactionCall{{
			Address:      "0x6EA33738ef28C274F8E08F0b5fD213C79e0E569C",
			FunctionName: "purchaseManorAccess",
			Args:         []any{PermitTransferPlaceholder, PermitSignaturePlaceholder},
		}},
		Permit2: []PermitRequest{{
			Permitted: PermittedToken{Token: "0x2cFc85d8E48F8EAB294be644d9E25C3030863003", Amount: "5000000000000000000"},
			Spender:   "0x6EA33738ef28C274F8E08F0b5fD213C79e0E569C",
			Nonce:     "1700000000000",
			Deadline:  "1700001800",
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, "tx-1", result.TransactionID)
	assert.Equal(t, "app_host", result.MiniAppID)
}

func TestHTTPBridge_SendTransaction_UserRejected(t *testing.T) {
	_, bridge := bridgeServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error","error_code":"user_rejected","description":"declined"}`))
	})

	_, err := bridge.SendTransaction(context.Background(), TransactionRequest{})
	require.Error(t, err)
	assert.True(t, manorerr.IsUserRejected(err))
	assert.Equal(t, manorerr.ExitSuccess, manorerr.ExitCode(err))
}

func TestHTTPBridge_SendTransaction_OtherErrorIsNotRejection(t *testing.T) {
	_, bridge := bridgeServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error","error_code":"simulation_failed","description":"revert"}`))
	})

	_, err := bridge.SendTransaction(context.Background(), TransactionRequest{})
	require.Error(t, err)
	assert.False(t, manorerr.IsUserRejected(err))
	assert.True(t, manorerr.Is(err, ErrBridgeRequest))
}

func TestHTTPBridge_SendTransaction_MissingTransactionID(t *testing.T) {
	_, bridge := bridgeServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success"}`))
	})

	_, err := bridge.SendTransaction(context.Background(), TransactionRequest{})
	require.Error(t, err)
	assert.True(t, manorerr.Is(err, manorerr.ErrTransactionIDMissing))
}

func TestHTTPBridge_SendTransaction_MiniAppIDFallback(t *testing.T) {
	_, bridge := bridgeServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","transaction_id":"tx-2"}`))
	})

	result, err := bridge.SendTransaction(context.Background(), TransactionRequest{})
	require.NoError(t, err)
	assert.Equal(t, testAppID, result.MiniAppID)
}

func TestHTTPBridge_NonOKStatusCode(t *testing.T) {
	_, bridge := bridgeServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := bridge.SendTransaction(context.Background(), TransactionRequest{})
	require.Error(t, err)
	assert.True(t, manorerr.Is(err, ErrBridgeRequest))
}

// Package metrics provides application-level metrics collection.
// This is a lightweight metrics foundation using atomic counters.
package metrics

import (
	"sync/atomic"
	"time"
)

// Metrics holds application metrics using atomic counters for thread safety.
type Metrics struct {
	// RPC metrics
	rpcCallsTotal   atomic.Int64
	rpcErrorsTotal  atomic.Int64
	rpcLatencyNanos atomic.Int64

	// Transaction metrics
	txSubmitted atomic.Int64
	txConfirmed atomic.Int64
	txFailed    atomic.Int64
	txRejected  atomic.Int64

	// Confirmation polling
	confirmProbes   atomic.Int64
	confirmTimeouts atomic.Int64

	// Per-backend write counts
	worldappTx  atomic.Int64
	walletextTx atomic.Int64
	mockTx      atomic.Int64
}

// Global is the global metrics instance.
//
//nolint:gochecknoglobals // Intentional global for metrics access
var Global = &Metrics{}

// RecordRPCCall records an RPC call with its duration and success status.
func (m *Metrics) RecordRPCCall(duration time.Duration, err error) {
	m.rpcCallsTotal.Add(1)
	m.rpcLatencyNanos.Add(duration.Nanoseconds())

	if err != nil {
		m.rpcErrorsTotal.Add(1)
	}
}

// RecordSubmission records a transaction submission by backend name.
func (m *Metrics) RecordSubmission(backend string) {
	m.txSubmitted.Add(1)

	switch backend {
	case "worldapp":
		m.worldappTx.Add(1)
	case "walletext":
		m.walletextTx.Add(1)
	case "mock":
		m.mockTx.Add(1)
	}
}

// RecordConfirmed records a confirmed transaction.
func (m *Metrics) RecordConfirmed() {
	m.txConfirmed.Add(1)
}

// RecordFailed records a transaction that failed on chain.
func (m *Metrics) RecordFailed() {
	m.txFailed.Add(1)
}

// RecordRejected records a user-declined transaction.
func (m *Metrics) RecordRejected() {
	m.txRejected.Add(1)
}

// RecordConfirmProbe records one confirmation poll.
func (m *Metrics) RecordConfirmProbe() {
	m.confirmProbes.Add(1)
}

// RecordConfirmTimeout records an exhausted confirmation wait.
func (m *Metrics) RecordConfirmTimeout() {
	m.confirmTimeouts.Add(1)
}

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	RPCCallsTotal   int64
	RPCErrorsTotal  int64
	RPCLatencyNanos int64
	TxSubmitted     int64
	TxConfirmed     int64
	TxFailed        int64
	TxRejected      int64
	ConfirmProbes   int64
	ConfirmTimeouts int64
	WorldAppTx      int64
	WalletExtTx     int64
	MockTx          int64
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		RPCCallsTotal:   m.rpcCallsTotal.Load(),
		RPCErrorsTotal:  m.rpcErrorsTotal.Load(),
		RPCLatencyNanos: m.rpcLatencyNanos.Load(),
		TxSubmitted:     m.txSubmitted.Load(),
		TxConfirmed:     m.txConfirmed.Load(),
		TxFailed:        m.txFailed.Load(),
		TxRejected:      m.txRejected.Load(),
		ConfirmProbes:   m.confirmProbes.Load(),
		ConfirmTimeouts: m.confirmTimeouts.Load(),
		WorldAppTx:      m.worldappTx.Load(),
		WalletExtTx:     m.walletextTx.Load(),
		MockTx:          m.mockTx.Load(),
	}
}

// RPCLatencyAvgMs returns the average RPC latency in milliseconds.
// Returns 0 if no calls have been made.
func (m *Metrics) RPCLatencyAvgMs() float64 {
	calls := m.rpcCallsTotal.Load()
	if calls == 0 {
		return 0
	}
	nanos := m.rpcLatencyNanos.Load()
	return float64(nanos) / float64(calls) / 1e6
}

// Reset resets all metrics to zero. Useful for testing.
func (m *Metrics) Reset() {
	m.rpcCallsTotal.Store(0)
	m.rpcErrorsTotal.Store(0)
	m.rpcLatencyNanos.Store(0)
	m.txSubmitted.Store(0)
	m.txConfirmed.Store(0)
	m.txFailed.Store(0)
	m.txRejected.Store(0)
	m.confirmProbes.Store(0)
	m.confirmTimeouts.Store(0)
	m.worldappTx.Store(0)
	m.walletextTx.Store(0)
	m.mockTx.Store(0)
}

//go:build consul

package store

import (
	"review-board/pkg/consul"
)

// NewConsulLedger creates a Consul-backed ledger (requires build tag consul).
func NewConsulLedger(addr string) Ledger {
	return consul.NewLedger(addr)
}

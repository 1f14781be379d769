//go:build !consul

package store

import (
	"log"
)

// NewConsulLedger returns a memory ledger when the consul build tag is not enabled.
func NewConsulLedger(addr string) Ledger {
	log.Printf("consul ledger requested (addr=%s) but consul build tag not enabled; using memory ledger", addr)
	return NewMemoryLedger()
}

package dmarc

import (
	"errors"
)

// DMARC lookup errors.
var (
	// ErrNoRecord indicates no DMARC DNS record was found.
	ErrNoRecord = errors.New("dmarc: no DMARC DNS record found")

	// ErrDNS indicates a DNS lookup error occurred.
	ErrDNS = errors.New("dmarc: DNS lookup error")
)

// Prefix is the label DMARC records are published under.
const Prefix = "_dmarc."

// RecordName returns the DNS name holding the DMARC record of domain.
func RecordName(domain string) string {
	return Prefix + domain
}

// Package dns provides the small DNS surface mailcheck needs: TXT and MX
// lookups behind a Resolver interface, with one implementation on
// github.com/miekg/dns, one on the standard library, and a MockResolver for
// tests.
package dns

import (
	"context"
	"errors"
	"net"
	"strings"
)

// Lookup errors. Implementations translate rcodes and net.DNSError values
// into these so callers can classify failures with errors.Is.
var (
	ErrDNSNotFound = errors.New("dns: record not found")
	ErrDNSTimeout  = errors.New("dns: query timed out")
	ErrDNSServFail = errors.New("dns: server failure")
	ErrDNSRefused  = errors.New("dns: query refused")
	ErrDNSBogus    = errors.New("dns: DNSSEC validation failed")
)

// Result holds the records of one lookup.
type Result[T any] struct {
	Records []T

	// Authentic is true when the answer carried the AD bit from a
	// DNSSEC-validating upstream.
	Authentic bool
}

// Resolver is the lookup interface used by the mailcheck packages.
type Resolver interface {
	// LookupTXT returns the TXT records at name. Character strings of a
	// single RR are joined.
	LookupTXT(ctx context.Context, name string) (Result[string], error)

	// LookupMX returns the MX records at name.
	LookupMX(ctx context.Context, name string) (Result[*net.MX], error)
}

// IsNotFound reports whether err means the name or record type does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDNSNotFound)
}

// IsTimeout reports whether err is a query timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrDNSTimeout)
}

// IsServFail reports whether err is a SERVFAIL answer.
func IsServFail(err error) bool {
	return errors.Is(err, ErrDNSServFail)
}

// IsTemporary reports whether err may succeed if asked again later.
func IsTemporary(err error) bool {
	return IsTimeout(err) || IsServFail(err)
}

// Fqdn returns name with a trailing dot.
func Fqdn(name string) string {
	if !strings.HasSuffix(name, ".") {
		return name + "."
	}
	return name
}

// Unquote strips the surrounding double quotes some presentation formats
// keep around TXT data.
func Unquote(txt string) string {
	return strings.Trim(txt, `"`)
}

// Answer is one lookup step as it appears in a report: either the records
// that were found or a human-readable failure. Exactly one side is set.
type Answer struct {
	Records []string

	// Failure describes why no records are available. Empty on success.
	Failure string

	// Err is the underlying error behind Failure, for errors.Is checks.
	Err error

	Authentic bool
}

// Found returns a successful Answer.
func Found(records []string, authentic bool) Answer {
	return Answer{Records: records, Authentic: authentic}
}

// Failed returns a failed Answer carrying msg and its cause.
func Failed(msg string, err error) Answer {
	return Answer{Failure: msg, Err: err}
}

// OK reports whether the answer holds records.
func (a Answer) OK() bool {
	return a.Failure == ""
}

// First returns the first record, or "" for a failed answer.
func (a Answer) First() string {
	if !a.OK() || len(a.Records) == 0 {
		return ""
	}
	return a.Records[0]
}

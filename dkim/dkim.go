// Package dkim locates a domain's DomainKeys Identified Mail (RFC 6376)
// public key in DNS and estimates its strength.
//
// The key lives in a TXT record at <selector>._domainkey.<domain>. When no
// selector is known, Resolve infers one from the MX hosts of the domain:
// Google Workspace publishes under "google", Microsoft 365 under
// "selector1" or "selector2".
//
// # Basic Usage
//
//	mx := ... // MX hosts of the domain as a dns.Answer
//	res := dkim.Resolve(ctx, resolver, "example.com", "", mx)
//	if res.Answer.OK() {
//	    fmt.Println(res.Selector, dkim.Classify(res.Answer.Records))
//	}
package dkim

import (
	"errors"
)

// Common errors.
var (
	ErrNoRecord         = errors.New("dkim: no DKIM DNS record found")
	ErrDNS              = errors.New("dkim: DNS lookup failed")
	ErrSyntax           = errors.New("dkim: syntax error in DKIM record")
	ErrSelectorRequired = errors.New("dkim: selector required")
	ErrKeyRevoked       = errors.New("dkim: key has been revoked")
)

// Well-known selectors of hosted mail providers.
const (
	SelectorGoogle     = "google"
	SelectorMicrosoft1 = "selector1"
	SelectorMicrosoft2 = "selector2"
)

// RecordName returns the DNS name of the key published under selector.
func RecordName(selector, domain string) string {
	return selector + "._domainkey." + domain
}

// Package dmarc finds the DMARC policy record of a domain (RFC 7489).
//
// DMARC records are identified by their location alone: every TXT record at
// "_dmarc.<domain>" is returned, without a keyword filter and without
// parsing the policy.
//
// # Basic Usage
//
//	resolver := dns.NewResolver(dns.ResolverConfig{})
//
//	answer, where := dmarc.Lookup(ctx, resolver, "mail.example.com", false)
//	if answer.OK() {
//	    fmt.Println(where, answer.Records)
//	}
//
// With orgFallback set, a missing record at the exact name is looked up
// again at the organizational domain, which is determined with the Public
// Suffix List.
package dmarc

// Package spf finds a domain's Sender Policy Framework record.
//
// The lookup is a keyword heuristic, not an RFC 7208 evaluator: it returns
// the first TXT record at the domain whose lower-cased text contains the
// keyword, normally "spf". Multiple or malformed SPF records are not
// disambiguated.
//
// Basic Usage:
//
//	resolver := dns.NewResolver(dns.ResolverConfig{
//	    Nameservers: []string{"8.8.8.8:53"},
//	})
//
//	answer := spf.Lookup(ctx, resolver, "example.com", spf.Keyword)
//	if !answer.OK() {
//	    fmt.Println(answer.Failure)
//	}
package spf

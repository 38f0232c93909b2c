package dkim

import (
	"context"
	"fmt"

	"github.com/synqronlabs/mailcheck/dns"
)

// Lookup returns the TXT records at <selector>._domainkey.<domain>, quotes
// stripped. A failure names the selector that was tried.
func Lookup(ctx context.Context, resolver dns.Resolver, selector, domain string) dns.Answer {
	result, err := resolver.LookupTXT(ctx, RecordName(selector, domain))
	if err != nil {
		cause := fmt.Errorf("%w: %w", ErrDNS, err)
		if dns.IsNotFound(err) {
			cause = fmt.Errorf("%w: %w", ErrNoRecord, err)
		}
		return dns.Failed(fmt.Sprintf("DKIM record not found for selector '%s': %v", selector, err), cause)
	}

	records := make([]string, 0, len(result.Records))
	for _, txt := range result.Records {
		records = append(records, dns.Unquote(txt))
	}
	return dns.Found(records, result.Authentic)
}

package dmarc

import (
	"context"
	"fmt"

	"github.com/synqronlabs/mailcheck/dns"
)

// Lookup looks up the DMARC TXT records for the given domain.
//
// It queries "_dmarc.<domain>" and returns every TXT record there, quotes
// stripped. If orgFallback is set and the name does not exist, it queries
// "_dmarc.<orgdomain>" once, where orgdomain is the organizational domain.
//
// Returns the answer and the domain the final query was made for.
func Lookup(ctx context.Context, resolver dns.Resolver, domain string, orgFallback bool) (dns.Answer, string) {
	answer := lookupRecord(ctx, resolver, domain)
	if answer.OK() || !orgFallback || !dns.IsNotFound(answer.Err) {
		return answer, domain
	}

	if IsOrganizationalDomain(domain) {
		return answer, domain
	}
	orgDomain := OrganizationalDomain(domain)

	return lookupRecord(ctx, resolver, orgDomain), orgDomain
}

// lookupRecord performs the actual DNS lookup for a DMARC record.
func lookupRecord(ctx context.Context, resolver dns.Resolver, domain string) dns.Answer {
	result, err := resolver.LookupTXT(ctx, RecordName(domain))
	if err != nil {
		cause := fmt.Errorf("%w: %w", ErrDNS, err)
		if dns.IsNotFound(err) {
			cause = fmt.Errorf("%w: %w", ErrNoRecord, err)
		}
		return dns.Failed(fmt.Sprintf("Error resolving DMARC record: %v", err), cause)
	}

	records := make([]string, 0, len(result.Records))
	for _, txt := range result.Records {
		records = append(records, dns.Unquote(txt))
	}
	return dns.Found(records, result.Authentic)
}

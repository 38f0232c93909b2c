package spf

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/synqronlabs/mailcheck/dns"
)

// Keyword is the substring that identifies an SPF record.
const Keyword = "spf"

// ErrNoRecord indicates the domain has TXT records but none contains the keyword.
var ErrNoRecord = errors.New("spf: no matching TXT record")

// Lookup returns the first TXT record at domain whose lower-cased text
// contains keyword, with surrounding quotes stripped. The keyword is
// expected in lower case.
//
// Failures are returned as data:
//   - no match: "<KEYWORD> record not found."
//   - lookup error: "Error resolving <KEYWORD> record: <cause>"
func Lookup(ctx context.Context, resolver dns.Resolver, domain, keyword string) dns.Answer {
	label := strings.ToUpper(keyword)

	result, err := resolver.LookupTXT(ctx, domain)
	if err != nil {
		return dns.Failed(fmt.Sprintf("Error resolving %s record: %v", label, err), err)
	}

	if txt, ok := Match(result.Records, keyword); ok {
		return dns.Found([]string{txt}, result.Authentic)
	}

	return dns.Failed(label+" record not found.", ErrNoRecord)
}

// Match returns the first record, quotes stripped, whose lower-cased text
// contains keyword.
func Match(records []string, keyword string) (string, bool) {
	for _, raw := range records {
		txt := dns.Unquote(raw)
		if strings.Contains(strings.ToLower(txt), keyword) {
			return txt, true
		}
	}
	return "", false
}

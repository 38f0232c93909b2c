package dkim

import (
	"context"
	"strings"

	"github.com/synqronlabs/mailcheck/dns"
)

// Provider is a hosted mail service recognized from MX host names.
type Provider string

const (
	ProviderNone      Provider = ""
	ProviderGoogle    Provider = "Google Workspace"
	ProviderMicrosoft Provider = "Microsoft 365"
)

// selectorRequired is the failure reported when no selector was supplied
// and none could be inferred.
const selectorRequired = "DKIM selector required: no known mail provider in MX records"

// DetectProvider inspects MX host names. Any Google host wins over any
// Microsoft host.
func DetectProvider(mxHosts []string) Provider {
	for _, mx := range mxHosts {
		if strings.Contains(strings.ToLower(mx), "google.com") {
			return ProviderGoogle
		}
	}
	for _, mx := range mxHosts {
		h := strings.ToLower(mx)
		if strings.Contains(h, "outlook.com") || strings.Contains(h, "onmicrosoft.com") {
			return ProviderMicrosoft
		}
	}
	return ProviderNone
}

// InferSelector returns the first selector to try for the provider
// behind mxHosts, or "" when the provider is unknown.
func InferSelector(mxHosts []string) (string, Provider) {
	switch p := DetectProvider(mxHosts); p {
	case ProviderGoogle:
		return SelectorGoogle, p
	case ProviderMicrosoft:
		return SelectorMicrosoft1, p
	default:
		return "", p
	}
}

// Resolution is the outcome of Resolve.
type Resolution struct {
	// Answer holds the DKIM TXT records or the failure.
	Answer dns.Answer

	// Selector is the selector of the final query; "" if none was made.
	Selector string

	// Provider is the provider inferred from MX hosts, if inference ran.
	Provider Provider

	// Tried lists the selectors queried, in order.
	Tried []string
}

// Resolve fetches the DKIM key record of domain.
//
// A non-empty selector is queried directly. Otherwise the selector is
// inferred from mx, the MX answer of the domain: "google" for Google hosts;
// "selector1" for Microsoft hosts, followed by exactly one retry with
// "selector2" if the first record is not found. Without a known provider no
// query is made and the answer fails with ErrSelectorRequired.
func Resolve(ctx context.Context, resolver dns.Resolver, domain, selector string, mx dns.Answer) Resolution {
	if selector != "" {
		return Resolution{
			Answer:   Lookup(ctx, resolver, selector, domain),
			Selector: selector,
			Tried:    []string{selector},
		}
	}

	var hosts []string
	if mx.OK() {
		hosts = mx.Records
	}

	selector, provider := InferSelector(hosts)
	res := Resolution{Provider: provider}
	if selector == "" {
		res.Answer = dns.Failed(selectorRequired, ErrSelectorRequired)
		return res
	}

	res.Selector = selector
	res.Tried = append(res.Tried, selector)
	res.Answer = Lookup(ctx, resolver, selector, domain)

	if provider == ProviderMicrosoft && notFound(res.Answer) {
		res.Selector = SelectorMicrosoft2
		res.Tried = append(res.Tried, SelectorMicrosoft2)
		res.Answer = Lookup(ctx, resolver, SelectorMicrosoft2, domain)
	}

	return res
}

func notFound(a dns.Answer) bool {
	return strings.Contains(strings.ToLower(a.Failure), "not found")
}

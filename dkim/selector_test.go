package dkim

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/synqronlabs/mailcheck/dns"
)

const testKey = "v=DKIM1; k=rsa; p=MIGfMA0GCSqGSIb3DQEBAQUAA4GNADCBiQKBgQC"

func mxAnswer(hosts ...string) dns.Answer {
	return dns.Found(hosts, false)
}

func TestInferSelector(t *testing.T) {
	tests := []struct {
		name         string
		hosts        []string
		wantSelector string
		wantProvider Provider
	}{
		{"google", []string{"aspmx.l.google.com."}, SelectorGoogle, ProviderGoogle},
		{"google upper case", []string{"ASPMX.L.GOOGLE.COM."}, SelectorGoogle, ProviderGoogle},
		{"outlook", []string{"example-com.mail.protection.outlook.com."}, SelectorMicrosoft1, ProviderMicrosoft},
		{"onmicrosoft", []string{"example.onmicrosoft.com."}, SelectorMicrosoft1, ProviderMicrosoft},
		{"google wins over microsoft", []string{"x.mail.protection.outlook.com.", "aspmx.l.google.com."}, SelectorGoogle, ProviderGoogle},
		{"unknown", []string{"mx1.example.net."}, "", ProviderNone},
		{"googlemail is not google.com", []string{"mx.googlemail.net."}, "", ProviderNone},
		{"no hosts", nil, "", ProviderNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, p := InferSelector(tt.hosts)
			if sel != tt.wantSelector || p != tt.wantProvider {
				t.Errorf("InferSelector() = %q, %q; want %q, %q", sel, p, tt.wantSelector, tt.wantProvider)
			}
		})
	}
}

func TestResolveGoogle(t *testing.T) {
	r := &dns.MockResolver{TXT: map[string][]string{
		"google._domainkey.example.com.": {testKey},
	}}

	res := Resolve(context.Background(), r, "example.com", "", mxAnswer("aspmx.l.google.com."))
	if !res.Answer.OK() {
		t.Fatalf("unexpected failure: %s", res.Answer.Failure)
	}
	if res.Selector != "google" || res.Provider != ProviderGoogle {
		t.Errorf("selector = %q, provider = %q", res.Selector, res.Provider)
	}
	if !r.Asked("txt", "google._domainkey.example.com") {
		t.Errorf("queries = %v", r.Queries())
	}
	for _, sel := range []string{"selector1", "selector2"} {
		if r.Asked("txt", RecordName(sel, "example.com")) {
			t.Errorf("%s queried for a Google domain", sel)
		}
	}
	// Inference reuses the MX answer it is given.
	if r.Asked("mx", "example.com") {
		t.Error("unexpected MX query")
	}
}

func TestResolveMicrosoft(t *testing.T) {
	mx := mxAnswer("example-com.mail.protection.outlook.com.")

	t.Run("selector1 found", func(t *testing.T) {
		r := &dns.MockResolver{TXT: map[string][]string{
			"selector1._domainkey.example.com.": {testKey},
			"selector2._domainkey.example.com.": {testKey},
		}}
		res := Resolve(context.Background(), r, "example.com", "", mx)
		if res.Selector != "selector1" || !slices.Equal(res.Tried, []string{"selector1"}) {
			t.Errorf("selector = %q, tried = %v", res.Selector, res.Tried)
		}
		if r.Asked("txt", "selector2._domainkey.example.com") {
			t.Error("selector2 queried although selector1 was found")
		}
	})

	t.Run("falls back to selector2 once", func(t *testing.T) {
		r := &dns.MockResolver{TXT: map[string][]string{
			"selector2._domainkey.example.com.": {testKey},
		}}
		res := Resolve(context.Background(), r, "example.com", "", mx)
		if !res.Answer.OK() || res.Selector != "selector2" {
			t.Fatalf("got %+v", res)
		}
		want := []string{"txt selector1._domainkey.example.com.", "txt selector2._domainkey.example.com."}
		if !slices.Equal(r.Queries(), want) {
			t.Errorf("queries = %v, want %v", r.Queries(), want)
		}
	})

	t.Run("both missing", func(t *testing.T) {
		r := &dns.MockResolver{}
		res := Resolve(context.Background(), r, "example.com", "", mx)
		if res.Answer.OK() {
			t.Fatal("expected failure")
		}
		if !strings.HasPrefix(res.Answer.Failure, "DKIM record not found for selector 'selector2': ") {
			t.Errorf("Failure = %q", res.Answer.Failure)
		}
		if len(r.Queries()) != 2 {
			t.Errorf("queries = %v, want exactly two", r.Queries())
		}
	})
}

func TestResolveExplicitSelector(t *testing.T) {
	r := &dns.MockResolver{TXT: map[string][]string{
		"s1._domainkey.example.com.": {`"` + testKey + `"`},
	}}

	res := Resolve(context.Background(), r, "example.com", "s1", mxAnswer("aspmx.l.google.com."))
	if res.Selector != "s1" || res.Answer.First() != testKey {
		t.Errorf("got %+v", res)
	}
	if res.Provider != ProviderNone {
		t.Errorf("provider = %q, inference should not run", res.Provider)
	}
	if len(r.Queries()) != 1 {
		t.Errorf("queries = %v", r.Queries())
	}
}

func TestResolveSelectorRequired(t *testing.T) {
	tests := []struct {
		name string
		mx   dns.Answer
	}{
		{"unknown provider", mxAnswer("mx1.example.net.")},
		{"failed MX answer", dns.Failed("Error resolving MX records: boom", dns.ErrDNSNotFound)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &dns.MockResolver{}
			res := Resolve(context.Background(), r, "example.com", "", tt.mx)
			if res.Answer.OK() || !errors.Is(res.Answer.Err, ErrSelectorRequired) {
				t.Fatalf("got %+v", res.Answer)
			}
			if !strings.Contains(res.Answer.Failure, "selector required") {
				t.Errorf("Failure = %q", res.Answer.Failure)
			}
			if res.Selector != "" || len(r.Queries()) != 0 {
				t.Errorf("selector = %q, queries = %v", res.Selector, r.Queries())
			}
		})
	}
}

func TestLookupFailureNamesSelector(t *testing.T) {
	r := &dns.MockResolver{Fail: []string{"txt sel._domainkey.example.com."}}

	a := Lookup(context.Background(), r, "sel", "example.com")
	if !strings.HasPrefix(a.Failure, "DKIM record not found for selector 'sel': ") {
		t.Errorf("Failure = %q", a.Failure)
	}
	if !errors.Is(a.Err, ErrDNS) || !dns.IsServFail(a.Err) {
		t.Errorf("Err = %v", a.Err)
	}

	a = Lookup(context.Background(), r, "missing", "example.com")
	if !errors.Is(a.Err, ErrNoRecord) {
		t.Errorf("Err = %v", a.Err)
	}
}

package dmarc

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/synqronlabs/mailcheck/dns"
)

func TestLookup(t *testing.T) {
	resolver := &dns.MockResolver{
		TXT: map[string][]string{
			"_dmarc.example.com.": {`"v=DMARC1; p=reject; rua=mailto:dmarc@example.com"`},
			"_dmarc.multi.example.": {
				"v=DMARC1; p=none",
				"not a dmarc record",
			},
		},
		Fail: []string{"txt _dmarc.broken.example."},
	}
	ctx := context.Background()

	answer, where := Lookup(ctx, resolver, "example.com", false)
	if !answer.OK() {
		t.Fatalf("unexpected failure: %s", answer.Failure)
	}
	if where != "example.com" {
		t.Errorf("domain = %q", where)
	}
	if want := []string{"v=DMARC1; p=reject; rua=mailto:dmarc@example.com"}; !reflect.DeepEqual(answer.Records, want) {
		t.Errorf("Records = %q, want %q", answer.Records, want)
	}

	// No keyword filter: every record at the name is returned.
	answer, _ = Lookup(ctx, resolver, "multi.example", false)
	if len(answer.Records) != 2 {
		t.Errorf("expected 2 records, got %q", answer.Records)
	}

	answer, _ = Lookup(ctx, resolver, "missing.example", false)
	if answer.OK() {
		t.Fatal("expected failure for missing record")
	}
	if !strings.HasPrefix(answer.Failure, "Error resolving DMARC record: ") {
		t.Errorf("Failure = %q", answer.Failure)
	}
	if !errors.Is(answer.Err, ErrNoRecord) || !dns.IsNotFound(answer.Err) {
		t.Errorf("Err = %v, want ErrNoRecord wrapping not found", answer.Err)
	}

	answer, _ = Lookup(ctx, resolver, "broken.example", false)
	if !errors.Is(answer.Err, ErrDNS) || !dns.IsServFail(answer.Err) {
		t.Errorf("Err = %v, want ErrDNS wrapping SERVFAIL", answer.Err)
	}
}

func TestLookupOrgFallback(t *testing.T) {
	newResolver := func() *dns.MockResolver {
		return &dns.MockResolver{
			TXT: map[string][]string{
				"_dmarc.example.co.uk.": {"v=DMARC1; p=quarantine"},
			},
			Fail: []string{"txt _dmarc.flaky.example.co.uk."},
		}
	}
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		r := newResolver()
		answer, where := Lookup(ctx, r, "mail.example.co.uk", false)
		if answer.OK() || where != "mail.example.co.uk" {
			t.Errorf("got %v at %q, want failure at exact domain", answer, where)
		}
		if r.Asked("txt", "_dmarc.example.co.uk") {
			t.Error("fallback query made while disabled")
		}
	})

	t.Run("enabled", func(t *testing.T) {
		r := newResolver()
		answer, where := Lookup(ctx, r, "mail.example.co.uk", true)
		if !answer.OK() {
			t.Fatalf("unexpected failure: %s", answer.Failure)
		}
		if where != "example.co.uk" {
			t.Errorf("domain = %q, want example.co.uk", where)
		}
		if answer.First() != "v=DMARC1; p=quarantine" {
			t.Errorf("record = %q", answer.First())
		}
	})

	t.Run("temporary error does not fall back", func(t *testing.T) {
		r := newResolver()
		answer, where := Lookup(ctx, r, "flaky.example.co.uk", true)
		if answer.OK() || where != "flaky.example.co.uk" {
			t.Errorf("got %v at %q", answer, where)
		}
		if r.Asked("txt", "_dmarc.example.co.uk") {
			t.Error("fallback query made after SERVFAIL")
		}
	})

	t.Run("already organizational", func(t *testing.T) {
		r := newResolver()
		answer, _ := Lookup(ctx, r, "other.example", true)
		if answer.OK() {
			t.Error("expected failure")
		}
		if n := len(r.Queries()); n != 1 {
			t.Errorf("expected 1 query, got %v", r.Queries())
		}
	})
}

func TestOrganizationalDomain(t *testing.T) {
	tests := []struct {
		domain string
		want   string
	}{
		{"example.com", "example.com"},
		{"sub.example.com", "example.com"},
		{"a.b.example.com.", "example.com"},
		{"Sub.Example.Co.UK", "example.co.uk"},
		{"localhost", "localhost"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := OrganizationalDomain(tt.domain); got != tt.want {
			t.Errorf("OrganizationalDomain(%q) = %q, want %q", tt.domain, got, tt.want)
		}
	}

	if !IsOrganizationalDomain("example.com") || IsOrganizationalDomain("mail.example.com") {
		t.Error("IsOrganizationalDomain mismatch")
	}
}

func TestRecordName(t *testing.T) {
	if got := RecordName("example.com"); got != "_dmarc.example.com" {
		t.Errorf("RecordName() = %q", got)
	}
}

package dns

import (
	"context"
	"fmt"
	"net"
	"slices"
	"sync"
)

// MockResolver is a Resolver used for testing.
// Set DNS records in the fields, which map FQDNs (with trailing dot) to values.
type MockResolver struct {
	TXT map[string][]string
	MX  map[string][]*net.MX

	// Fail contains records that will return a temporary error (SERVFAIL).
	// Format: "type name", e.g. "txt example.com." where type is lowercase.
	Fail []string

	// AllAuthentic sets Authentic on every answer.
	AllAuthentic bool

	mu      sync.Mutex
	queries []string
}

var _ Resolver = (*MockResolver)(nil)

// mockReq represents a mock DNS request.
type mockReq struct {
	Type string // "txt" or "mx"
	Name string // FQDN with trailing dot
}

func (mr mockReq) String() string {
	return mr.Type + " " + mr.Name
}

// Queries returns the requests seen so far, in "type name" form.
func (r *MockResolver) Queries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.queries)
}

// Asked reports whether a query for typ and name was made.
func (r *MockResolver) Asked(typ, name string) bool {
	return slices.Contains(r.Queries(), mockReq{typ, Fqdn(name)}.String())
}

// record logs the request and checks for context and configured failures.
func (r *MockResolver) record(ctx context.Context, mr mockReq) error {
	r.mu.Lock()
	r.queries = append(r.queries, mr.String())
	r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if slices.Contains(r.Fail, mr.String()) {
		return fmt.Errorf("%w: %s", ErrDNSServFail, mr)
	}
	return nil
}

// LookupTXT returns TXT records for the given name.
func (r *MockResolver) LookupTXT(ctx context.Context, name string) (Result[string], error) {
	mr := mockReq{"txt", Fqdn(name)}
	result := Result[string]{Authentic: r.AllAuthentic}

	if err := r.record(ctx, mr); err != nil {
		return result, err
	}

	records, ok := r.TXT[mr.Name]
	if !ok || len(records) == 0 {
		return result, fmt.Errorf("%w: %s", ErrDNSNotFound, mr)
	}

	result.Records = records
	return result, nil
}

// LookupMX returns MX records for the given name.
func (r *MockResolver) LookupMX(ctx context.Context, name string) (Result[*net.MX], error) {
	mr := mockReq{"mx", Fqdn(name)}
	result := Result[*net.MX]{Authentic: r.AllAuthentic}

	if err := r.record(ctx, mr); err != nil {
		return result, err
	}

	records, ok := r.MX[mr.Name]
	if !ok || len(records) == 0 {
		return result, fmt.Errorf("%w: %s", ErrDNSNotFound, mr)
	}

	result.Records = records
	return result, nil
}

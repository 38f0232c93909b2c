package dns

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// StdResolver implements Resolver using the standard library net package.
// Authentic is always false.
type StdResolver struct {
	resolver *net.Resolver
}

// NewStdResolver creates a resolver using the standard library.
func NewStdResolver() *StdResolver {
	return &StdResolver{
		resolver: net.DefaultResolver,
	}
}

// NewStdResolverWithDialer creates a resolver using a custom dialer.
// This allows configuring custom DNS servers while using the stdlib interface.
func NewStdResolverWithDialer(dial func(ctx context.Context, network, address string) (net.Conn, error)) *StdResolver {
	return &StdResolver{
		resolver: &net.Resolver{
			PreferGo:     true,
			StrictErrors: true,
			Dial:         dial,
		},
	}
}

// NewStdResolverWithConfig creates a pure-Go stdlib resolver that sends every
// query to the first nameserver in config, bounded by config.Timeout.
func NewStdResolverWithConfig(config ResolverConfig) *StdResolver {
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if len(config.Nameservers) == 0 {
		return NewStdResolver()
	}
	server := withPort(config.Nameservers)[0]
	return NewStdResolverWithDialer(func(ctx context.Context, network, _ string) (net.Conn, error) {
		d := &net.Dialer{Timeout: config.Timeout}
		return d.DialContext(ctx, network, server)
	})
}

// LookupTXT retrieves TXT records using the standard library.
func (r *StdResolver) LookupTXT(ctx context.Context, name string) (Result[string], error) {
	// Strip trailing dot for stdlib compatibility
	name = strings.TrimSuffix(name, ".")

	records, err := r.resolver.LookupTXT(ctx, name)
	if err != nil {
		return Result[string]{}, convertError(err)
	}

	if len(records) == 0 {
		return Result[string]{}, fmt.Errorf("%w: no TXT answer for %s", ErrDNSNotFound, name)
	}

	return Result[string]{Records: records}, nil
}

// LookupMX retrieves MX records using the standard library.
func (r *StdResolver) LookupMX(ctx context.Context, name string) (Result[*net.MX], error) {
	name = strings.TrimSuffix(name, ".")

	records, err := r.resolver.LookupMX(ctx, name)
	if err != nil {
		return Result[*net.MX]{}, convertError(err)
	}

	if len(records) == 0 {
		return Result[*net.MX]{}, fmt.Errorf("%w: no MX answer for %s", ErrDNSNotFound, name)
	}

	return Result[*net.MX]{Records: records}, nil
}

// convertError converts standard library DNS errors to package errors.
func convertError(err error) error {
	if err == nil {
		return nil
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsNotFound {
			return fmt.Errorf("%w: %v", ErrDNSNotFound, dnsErr)
		}
		if dnsErr.IsTimeout {
			return fmt.Errorf("%w: %v", ErrDNSTimeout, dnsErr)
		}
		if dnsErr.IsTemporary {
			return fmt.Errorf("%w: %v", ErrDNSServFail, dnsErr)
		}
	}

	return fmt.Errorf("dns lookup failed: %w", err)
}

package mailcheck

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/synqronlabs/mailcheck/dns"
)

// Config contains the inputs of one check.
//
//	checker, err := mailcheck.New(mailcheck.Config{
//	    Domain: "example.com",
//	    Logger: logger,
//	})
type Config struct {
	// Domain is the mail domain under test. Required.
	Domain string

	// Selector is the DKIM selector to query. If empty, it is inferred from
	// the MX hosts of the domain.
	Selector string

	// Resolver performs the DNS queries. If nil, a miekg/dns resolver is
	// built from ResolverConfig.
	Resolver dns.Resolver

	// ResolverConfig configures the default resolver. Ignored when
	// Resolver is set.
	ResolverConfig dns.ResolverConfig

	// PreserveMXCase keeps MX host names as published instead of
	// lower-casing them.
	PreserveMXCase bool

	// DMARCOrgFallback looks up the organizational domain's DMARC record
	// when the domain itself has none.
	DMARCOrgFallback bool

	// Logger receives debug output for every query.
	// Default: a logger that discards everything.
	Logger *slog.Logger
}

// Validate checks the config and normalizes the domain.
func (c *Config) Validate() error {
	c.Domain = strings.TrimSuffix(strings.TrimSpace(c.Domain), ".")
	if c.Domain == "" {
		return ErrDomainRequired
	}
	c.Selector = strings.TrimSpace(c.Selector)
	if strings.ContainsAny(c.Selector, " \t;") {
		return fmt.Errorf("%w: %q", ErrInvalidSelector, c.Selector)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.Resolver == nil {
		c.Resolver = dns.NewResolver(c.ResolverConfig)
	}
}

package dns

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	mdns "github.com/miekg/dns"
)

// DefaultTimeout bounds a single query when ResolverConfig.Timeout is zero.
const DefaultTimeout = 5 * time.Second

// UDPSize is the EDNS0 buffer size advertised on every query. It holds a
// 4096-bit DKIM key record, which does not fit in a plain 512-byte reply.
const UDPSize = 4096

// ResolverConfig contains configuration for the DNS resolver.
type ResolverConfig struct {
	// Nameservers is a list of DNS servers to query (e.g., "8.8.8.8:53").
	// If empty, system resolvers from /etc/resolv.conf are used,
	// falling back to public DNS (8.8.8.8, 1.1.1.1).
	Nameservers []string

	// DNSSEC sets the DO bit so a validating upstream can mark answers
	// authentic. SERVFAIL is then reported as ErrDNSBogus.
	DNSSEC bool

	// Timeout is the timeout for individual DNS queries. Default is 5 seconds.
	Timeout time.Duration
}

// DNSResolver implements Resolver using github.com/miekg/dns.
//
// Each nameserver is asked at most once per lookup, in order, until one
// gives a usable answer. There is no retry loop. A truncated UDP reply is
// asked again over TCP on the same server.
type DNSResolver struct {
	config    ResolverConfig
	client    *mdns.Client
	tcpClient *mdns.Client
}

// NewResolver creates a new DNS resolver.
func NewResolver(config ResolverConfig) *DNSResolver {
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if len(config.Nameservers) == 0 {
		config.Nameservers = getSystemNameservers()
	} else {
		config.Nameservers = withPort(config.Nameservers)
	}

	return &DNSResolver{
		config: config,
		client: &mdns.Client{
			Net:     "udp",
			UDPSize: UDPSize,
			Timeout: config.Timeout,
		},
		tcpClient: &mdns.Client{
			Net:     "tcp",
			Timeout: config.Timeout,
		},
	}
}

// getSystemNameservers tries to get system DNS servers from resolv.conf.
func getSystemNameservers() []string {
	config, err := mdns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil || len(config.Servers) == 0 {
		// Fallback to common public DNS servers
		return []string{"8.8.8.8:53", "1.1.1.1:53"}
	}
	return withPort(config.Servers)
}

// withPort appends ":53" to servers given without a port.
func withPort(servers []string) []string {
	out := make([]string, 0, len(servers))
	for _, s := range servers {
		if _, _, err := net.SplitHostPort(s); err != nil {
			s = net.JoinHostPort(s, "53")
		}
		out = append(out, s)
	}
	return out
}

// query sends one question to the configured nameservers.
func (r *DNSResolver) query(ctx context.Context, name string, qtype uint16) (*mdns.Msg, bool, error) {
	m := new(mdns.Msg)
	m.SetQuestion(mdns.Fqdn(name), qtype)
	m.RecursionDesired = true

	m.SetEdns0(UDPSize, r.config.DNSSEC)

	var lastErr error
	for _, server := range r.config.Nameservers {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}

		resp, _, err := r.client.ExchangeContext(ctx, m, server)
		if err == nil && resp.Truncated {
			resp, _, err = r.tcpClient.ExchangeContext(ctx, m, server)
		}
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				lastErr = fmt.Errorf("%w: %s: %v", ErrDNSTimeout, server, err)
			} else {
				lastErr = fmt.Errorf("dns query to %s failed: %w", server, err)
			}
			continue
		}

		authentic := r.config.DNSSEC && resp.AuthenticatedData

		switch resp.Rcode {
		case mdns.RcodeSuccess:
			return resp, authentic, nil
		case mdns.RcodeNameError:
			return nil, authentic, fmt.Errorf("%w: %s does not exist (NXDOMAIN)", ErrDNSNotFound, strings.TrimSuffix(name, "."))
		case mdns.RcodeServerFailure:
			// SERVFAIL from a validating resolver usually means bogus data.
			if r.config.DNSSEC {
				lastErr = ErrDNSBogus
			} else {
				lastErr = ErrDNSServFail
			}
		case mdns.RcodeRefused:
			lastErr = ErrDNSRefused
		default:
			lastErr = fmt.Errorf("dns: unexpected rcode %s", mdns.RcodeToString[resp.Rcode])
		}
	}

	if lastErr != nil {
		return nil, false, lastErr
	}
	return nil, false, ErrDNSServFail
}

// LookupTXT retrieves TXT records for the given name.
func (r *DNSResolver) LookupTXT(ctx context.Context, name string) (Result[string], error) {
	resp, authentic, err := r.query(ctx, name, mdns.TypeTXT)
	if err != nil {
		return Result[string]{Authentic: authentic}, err
	}

	var records []string
	for _, rr := range resp.Answer {
		if txt, ok := rr.(*mdns.TXT); ok {
			records = append(records, strings.Join(txt.Txt, ""))
		}
	}

	if len(records) == 0 {
		return Result[string]{Authentic: authentic}, fmt.Errorf("%w: no TXT answer for %s", ErrDNSNotFound, strings.TrimSuffix(name, "."))
	}

	return Result[string]{Records: records, Authentic: authentic}, nil
}

// LookupMX retrieves MX records for the given name.
func (r *DNSResolver) LookupMX(ctx context.Context, name string) (Result[*net.MX], error) {
	resp, authentic, err := r.query(ctx, name, mdns.TypeMX)
	if err != nil {
		return Result[*net.MX]{Authentic: authentic}, err
	}

	var records []*net.MX
	for _, rr := range resp.Answer {
		if mx, ok := rr.(*mdns.MX); ok {
			records = append(records, &net.MX{
				Host: mx.Mx,
				Pref: mx.Preference,
			})
		}
	}

	if len(records) == 0 {
		return Result[*net.MX]{Authentic: authentic}, fmt.Errorf("%w: no MX answer for %s", ErrDNSNotFound, strings.TrimSuffix(name, "."))
	}

	return Result[*net.MX]{Records: records, Authentic: authentic}, nil
}

// Config returns the resolver's current configuration.
func (r *DNSResolver) Config() ResolverConfig {
	return r.config
}

package mailcheck

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"net"
	"slices"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/synqronlabs/mailcheck/dkim"
	"github.com/synqronlabs/mailcheck/dmarc"
	"github.com/synqronlabs/mailcheck/dns"
	"github.com/synqronlabs/mailcheck/spf"
)

// Checker runs the lookups for one domain.
type Checker struct {
	config   Config
	resolver dns.Resolver
	logger   *slog.Logger
}

// New validates config and returns a Checker.
func New(config Config) (*Checker, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.setDefaults()

	return &Checker{
		config:   config,
		resolver: config.Resolver,
		logger:   config.Logger.With(slog.String("domain", config.Domain)),
	}, nil
}

// Run performs the MX, SPF, DMARC and DKIM lookups in that order and
// returns the report. Lookup failures are recorded in the report, never
// returned.
func (c *Checker) Run(ctx context.Context) *Report {
	domain := c.config.Domain
	r := &Report{
		ID:     ulid.Make(),
		Domain: domain,
	}
	logger := c.logger.With(slog.String("report_id", r.ID.String()))

	r.MailServers = c.resolveMX(ctx, domain)
	logAnswer(logger, "MX", domain, r.MailServers)

	r.SPF = spf.Lookup(ctx, c.resolver, domain, spf.Keyword)
	logAnswer(logger, "TXT", domain, r.SPF)

	r.DMARC, r.DMARCDomain = dmarc.Lookup(ctx, c.resolver, domain, c.config.DMARCOrgFallback)
	logAnswer(logger, "TXT", dmarc.RecordName(r.DMARCDomain), r.DMARC)

	res := dkim.Resolve(ctx, c.resolver, domain, c.config.Selector, r.MailServers)
	r.DKIM = res.Answer
	r.Selector = res.Selector
	r.Provider = res.Provider
	for _, sel := range res.Tried {
		logger.Debug("dkim selector tried", slog.String("selector", sel), slog.String("provider", string(res.Provider)))
	}
	if r.Selector != "" {
		logAnswer(logger, "TXT", dkim.RecordName(r.Selector, domain), r.DKIM)
	} else {
		logger.Debug("dkim lookup skipped", slog.String("reason", r.DKIM.Failure))
	}

	if r.DKIM.OK() {
		r.DKIMStrength = dkim.Classify(r.DKIM.Records)
		if key, err := dkim.FirstKey(r.DKIM.Records); err == nil {
			r.DKIMKeyType = key.Key
			r.DKIMKeyBits = key.Bits()
			r.DKIMTesting = key.IsTesting()
		} else {
			logger.Debug("dkim key not decoded", slog.Any("error", err))
		}
	}

	logger.Info("check complete",
		slog.String("selector", r.Selector),
		slog.String("dkim_strength", r.DKIMStrength.String()),
	)
	return r
}

// resolveMX returns the MX host names of domain ordered by preference.
func (c *Checker) resolveMX(ctx context.Context, domain string) dns.Answer {
	result, err := c.resolver.LookupMX(ctx, domain)
	if err != nil {
		return dns.Failed(fmt.Sprintf("Error resolving MX records: %v", err), err)
	}

	mxs := slices.Clone(result.Records)
	slices.SortStableFunc(mxs, func(a, b *net.MX) int {
		return cmp.Compare(a.Pref, b.Pref)
	})

	hosts := make([]string, 0, len(mxs))
	for _, mx := range mxs {
		host := mx.Host
		if !c.config.PreserveMXCase {
			host = strings.ToLower(host)
		}
		hosts = append(hosts, host)
	}
	return dns.Found(hosts, result.Authentic)
}

func logAnswer(logger *slog.Logger, qtype, name string, a dns.Answer) {
	if a.OK() {
		logger.Debug("dns lookup",
			slog.String("type", qtype),
			slog.String("name", name),
			slog.Int("records", len(a.Records)),
			slog.Bool("authentic", a.Authentic),
		)
		return
	}
	logger.Debug("dns lookup failed",
		slog.String("type", qtype),
		slog.String("name", name),
		slog.Any("error", a.Err),
	)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/synqronlabs/mailcheck"
	"github.com/synqronlabs/mailcheck/dns"
)

const version = "0.1.0"

// The stdlib resolver dials a single server and does not set the DO bit.
var errStdlibFlags = errors.New("--stdlib accepts at most one --nameserver and no --dnssec")

type options struct {
	domain           string
	selector         string
	nameservers      []string
	stdlib           bool
	dnssec           bool
	timeout          time.Duration
	preserveMXCase   bool
	dmarcOrgFallback bool
	format           string
	verbose          bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "mailcheck --domain <domain> [--selector <selector>]",
		Short: "Check the MX, SPF, DMARC and DKIM records of a mail domain",
		Long: `mailcheck looks up the mail servers, SPF record, DMARC record and DKIM key
of a domain and estimates the DKIM key strength.

DKIM selectors are detected automatically for Google Workspace and
Microsoft 365. For other providers pass --selector; the selector can be
found in the s= tag of a DKIM-Signature header.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, stdout, stderr)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.domain, "domain", "d", "", "domain to check (required)")
	f.StringVarP(&opts.selector, "selector", "s", "", "DKIM selector (optional)")
	f.StringSliceVarP(&opts.nameservers, "nameserver", "n", nil, "DNS server to query, repeatable (default: /etc/resolv.conf)")
	f.BoolVar(&opts.stdlib, "stdlib", false, "use the Go standard library resolver")
	f.BoolVar(&opts.dnssec, "dnssec", false, "request DNSSEC validation from the nameserver")
	f.DurationVar(&opts.timeout, "timeout", dns.DefaultTimeout, "timeout for each DNS query")
	f.BoolVar(&opts.preserveMXCase, "preserve-mx-case", false, "print MX hosts as published instead of lower case")
	f.BoolVar(&opts.dmarcOrgFallback, "dmarc-org-fallback", false, "look up the organizational domain's DMARC record if the domain has none")
	f.StringVarP(&opts.format, "format", "f", string(mailcheck.FormatText), "output format: "+mailcheck.FormatList())
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log every DNS query to stderr")
	_ = cmd.MarkFlagRequired("domain")

	return cmd
}

func run(ctx context.Context, opts *options, stdout, stderr io.Writer) error {
	format, err := mailcheck.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if opts.stdlib && (opts.dnssec || len(opts.nameservers) > 1) {
		return errStdlibFlags
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	resolverConfig := dns.ResolverConfig{
		Nameservers: opts.nameservers,
		DNSSEC:      opts.dnssec,
		Timeout:     opts.timeout,
	}

	var resolver dns.Resolver
	if opts.stdlib {
		resolver = dns.NewStdResolverWithConfig(resolverConfig)
		logger.Debug("resolver", slog.String("kind", "stdlib"), slog.Any("nameservers", opts.nameservers))
	} else {
		r := dns.NewResolver(resolverConfig)
		cfg := r.Config()
		logger.Debug("resolver",
			slog.String("kind", "miekg"),
			slog.Any("nameservers", cfg.Nameservers),
			slog.Bool("dnssec", cfg.DNSSEC),
			slog.Duration("timeout", cfg.Timeout),
		)
		resolver = r
	}

	checker, err := mailcheck.New(mailcheck.Config{
		Domain:           opts.domain,
		Selector:         opts.selector,
		Resolver:         resolver,
		PreserveMXCase:   opts.preserveMXCase,
		DMARCOrgFallback: opts.dmarcOrgFallback,
		Logger:           logger,
	})
	if err != nil {
		return err
	}

	report := checker.Run(ctx)
	return mailcheck.Write(stdout, report, format)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(2)
	}
}

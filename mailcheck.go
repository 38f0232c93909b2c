// Mailcheck inspects the email-security posture of a domain.
//
// One check queries DNS for the domain's MX hosts, its SPF record, its
// DMARC record at _dmarc.<domain> and its DKIM key at
// <selector>._domainkey.<domain>, then estimates the DKIM key strength from
// the length of the published key.
//
//	checker, err := mailcheck.New(mailcheck.Config{
//	    Domain: "example.com",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report := checker.Run(ctx)
//	report.WriteText(os.Stdout)
//
// Output:
//
//	Domain: example.com
//	MailServers: ['aspmx.l.google.com.', 'alt1.aspmx.l.google.com.']
//	SPF: v=spf1 include:_spf.google.com ~all
//	DMARC: ['v=DMARC1; p=reject']
//	DKIM: ['v=DKIM1; k=rsa; p=MIIBIjANBg...']
//	DKIM Encryption: 2048
//
// # DKIM selectors
//
// Without Config.Selector the selector is inferred from the MX hosts:
// "google" for Google Workspace, "selector1" and then "selector2" for
// Microsoft 365. Other providers need an explicit selector; the DKIM field
// then reports that a selector is required.
//
// # Failures
//
// Every lookup yields a dns.Answer holding either records or a failure
// message. A failed lookup never stops the check; its message is printed in
// place of the records.
//
// # Serialization
//
// Reports can also be written as JSON or MessagePack:
//
//	mailcheck.Write(os.Stdout, report, mailcheck.FormatJSON)
package mailcheck

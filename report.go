package mailcheck

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/synqronlabs/mailcheck/dkim"
	"github.com/synqronlabs/mailcheck/dns"
)

// Report is the result of one check. It is built by Checker.Run and not
// modified afterwards.
type Report struct {
	// ID identifies the run in logs and machine-readable output.
	ID ulid.ULID

	Domain      string
	MailServers dns.Answer
	SPF         dns.Answer
	DMARC       dns.Answer
	DKIM        dns.Answer

	// DMARCDomain is the domain whose _dmarc record was queried last.
	DMARCDomain string

	// Selector is the DKIM selector of the final query, "" if none was made.
	Selector string

	// Provider is the mail provider inferred from MX hosts.
	Provider dkim.Provider

	// DKIMStrength is estimated from the encoded key length.
	DKIMStrength dkim.KeyStrength

	// DKIMKeyType and DKIMKeyBits describe the decoded key, when it decodes.
	DKIMKeyType string
	DKIMKeyBits int

	// DKIMTesting is set when the key record carries t=y.
	DKIMTesting bool
}

// Field is one line of the text report.
type Field struct {
	Name  string
	Value string
}

// Field names of the text report, in output order.
const (
	FieldDomain         = "Domain"
	FieldMailServers    = "MailServers"
	FieldSPF            = "SPF"
	FieldDMARC          = "DMARC"
	FieldDKIM           = "DKIM"
	FieldDKIMEncryption = "DKIM Encryption"
)

// Fields returns the six report fields in output order.
func (r *Report) Fields() []Field {
	return []Field{
		{FieldDomain, r.Domain},
		{FieldMailServers, listValue(r.MailServers)},
		{FieldSPF, scalarValue(r.SPF)},
		{FieldDMARC, listValue(r.DMARC)},
		{FieldDKIM, listValue(r.DKIM)},
		{FieldDKIMEncryption, r.DKIMStrength.String()},
	}
}

// WriteText writes the report as "Name: value" lines.
func (r *Report) WriteText(w io.Writer) error {
	for _, f := range r.Fields() {
		if _, err := fmt.Fprintf(w, "%s: %s\n", f.Name, f.Value); err != nil {
			return err
		}
	}
	return nil
}

// listValue renders records as ['a', 'b'], or the failure text.
func listValue(a dns.Answer) string {
	if !a.OK() {
		return a.Failure
	}
	quoted := make([]string, len(a.Records))
	for i, s := range a.Records {
		quoted[i] = quote(s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// scalarValue renders a single-record answer without brackets.
func scalarValue(a dns.Answer) string {
	if !a.OK() {
		return a.Failure
	}
	return a.First()
}

// quote wraps s in single quotes, or in double quotes when s contains a
// single quote and no double quote. Control bytes are escaped as \n, \r, \t
// or \xNN.
func quote(s string) string {
	q := byte('\'')
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		q = '"'
	}

	var b strings.Builder
	b.WriteByte(q)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			b.WriteString(`\\`)
		case c == q:
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\t':
			b.WriteString(`\t`)
		case c == '\r':
			b.WriteString(`\r`)
		case c < 0x20 || c == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(q)
	return b.String()
}

// answerView is the machine-readable form of a dns.Answer.
type answerView struct {
	Records   []string `json:"records,omitempty"`
	Error     string   `json:"error,omitempty"`
	Authentic bool     `json:"authentic"`
}

func viewAnswer(a dns.Answer) answerView {
	if !a.OK() {
		return answerView{Error: a.Failure}
	}
	return answerView{Records: a.Records, Authentic: a.Authentic}
}

// reportView is the machine-readable form of a Report, shared by the JSON
// and MessagePack encodings.
type reportView struct {
	ID             string     `json:"id"`
	Domain         string     `json:"domain"`
	MailServers    answerView `json:"mail_servers"`
	SPF            answerView `json:"spf"`
	DMARC          answerView `json:"dmarc"`
	DMARCDomain    string     `json:"dmarc_domain"`
	DKIM           answerView `json:"dkim"`
	DKIMSelector   string     `json:"dkim_selector"`
	Provider       string     `json:"provider"`
	DKIMEncryption string     `json:"dkim_encryption"`
	DKIMKeyType    string     `json:"dkim_key_type"`
	DKIMKeyBits    int        `json:"dkim_key_bits"`
	DKIMTesting    bool       `json:"dkim_testing"`
}

func (r *Report) view() reportView {
	return reportView{
		ID:             r.ID.String(),
		Domain:         r.Domain,
		MailServers:    viewAnswer(r.MailServers),
		SPF:            viewAnswer(r.SPF),
		DMARC:          viewAnswer(r.DMARC),
		DMARCDomain:    r.DMARCDomain,
		DKIM:           viewAnswer(r.DKIM),
		DKIMSelector:   r.Selector,
		Provider:       string(r.Provider),
		DKIMEncryption: r.DKIMStrength.String(),
		DKIMKeyType:    r.DKIMKeyType,
		DKIMKeyBits:    r.DKIMKeyBits,
		DKIMTesting:    r.DKIMTesting,
	}
}

// MarshalJSON implements json.Marshaler.
func (r *Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.view())
}

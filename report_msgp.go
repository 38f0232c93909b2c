package mailcheck

import (
	"github.com/tinylib/msgp/msgp"
)

// MarshalMsg implements msgp.Marshaler. The map keys match the JSON
// encoding.
func (r *Report) MarshalMsg(b []byte) ([]byte, error) {
	v := r.view()
	o := msgp.Require(b, v.Msgsize())

	o = msgp.AppendMapHeader(o, 13)
	o = msgp.AppendString(o, "id")
	o = msgp.AppendString(o, v.ID)
	o = msgp.AppendString(o, "domain")
	o = msgp.AppendString(o, v.Domain)
	o = msgp.AppendString(o, "mail_servers")
	o = v.MailServers.appendMsg(o)
	o = msgp.AppendString(o, "spf")
	o = v.SPF.appendMsg(o)
	o = msgp.AppendString(o, "dmarc")
	o = v.DMARC.appendMsg(o)
	o = msgp.AppendString(o, "dmarc_domain")
	o = msgp.AppendString(o, v.DMARCDomain)
	o = msgp.AppendString(o, "dkim")
	o = v.DKIM.appendMsg(o)
	o = msgp.AppendString(o, "dkim_selector")
	o = msgp.AppendString(o, v.DKIMSelector)
	o = msgp.AppendString(o, "provider")
	o = msgp.AppendString(o, v.Provider)
	o = msgp.AppendString(o, "dkim_encryption")
	o = msgp.AppendString(o, v.DKIMEncryption)
	o = msgp.AppendString(o, "dkim_key_type")
	o = msgp.AppendString(o, v.DKIMKeyType)
	o = msgp.AppendString(o, "dkim_key_bits")
	o = msgp.AppendInt(o, v.DKIMKeyBits)
	o = msgp.AppendString(o, "dkim_testing")
	o = msgp.AppendBool(o, v.DKIMTesting)
	return o, nil
}

// Msgsize returns an upper bound estimate of the number of bytes occupied
// by the serialized message.
func (v reportView) Msgsize() int {
	s := msgp.MapHeaderSize
	for _, str := range []string{v.ID, v.Domain, v.DMARCDomain, v.DKIMSelector, v.Provider, v.DKIMEncryption, v.DKIMKeyType} {
		s += msgp.StringPrefixSize + len(str)
	}
	s += v.MailServers.Msgsize() + v.SPF.Msgsize() + v.DMARC.Msgsize() + v.DKIM.Msgsize()
	s += msgp.IntSize + msgp.BoolSize
	// keys
	s += 13*msgp.StringPrefixSize + 140
	return s
}

// appendMsg mirrors the JSON omitempty rules of answerView.
func (a answerView) appendMsg(o []byte) []byte {
	n := uint32(1)
	if len(a.Records) > 0 {
		n++
	}
	if a.Error != "" {
		n++
	}

	o = msgp.AppendMapHeader(o, n)
	if len(a.Records) > 0 {
		o = msgp.AppendString(o, "records")
		o = msgp.AppendArrayHeader(o, uint32(len(a.Records)))
		for _, s := range a.Records {
			o = msgp.AppendString(o, s)
		}
	}
	if a.Error != "" {
		o = msgp.AppendString(o, "error")
		o = msgp.AppendString(o, a.Error)
	}
	o = msgp.AppendString(o, "authentic")
	o = msgp.AppendBool(o, a.Authentic)
	return o
}

func (a answerView) Msgsize() int {
	s := msgp.MapHeaderSize + 3*(msgp.StringPrefixSize+9) + msgp.ArrayHeaderSize + msgp.BoolSize
	s += msgp.StringPrefixSize + len(a.Error)
	for _, r := range a.Records {
		s += msgp.StringPrefixSize + len(r)
	}
	return s
}

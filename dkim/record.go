package dkim

import (
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"strings"
)

// Record represents a DKIM DNS TXT record (RFC 6376 Section 3.6.1).
// The record is retrieved from <selector>._domainkey.<domain>.
type Record struct {
	// Version is the record version, must be "DKIM1".
	Version string

	// Key is the key type: "rsa" (default) or "ed25519".
	Key string

	// Pubkey is the raw public key data (base64-decoded).
	// Empty means the key has been revoked.
	Pubkey []byte

	// Flags contains key flags:
	//   "y" - Domain is testing DKIM
	//   "s" - i= domain must exactly match d= domain
	Flags []string

	// PublicKey is the parsed public key.
	// This is *rsa.PublicKey or ed25519.PublicKey.
	PublicKey any
}

// IsTesting returns true if the key is marked for testing (t=y).
func (r *Record) IsTesting() bool {
	for _, f := range r.Flags {
		if strings.EqualFold(f, "y") {
			return true
		}
	}
	return false
}

// Bits returns the size of the public key in bits, or 0 if there is none.
func (r *Record) Bits() int {
	switch k := r.PublicKey.(type) {
	case *rsa.PublicKey:
		return k.N.BitLen()
	case ed25519.PublicKey:
		return 8 * len(k)
	default:
		return 0
	}
}

// ParseRecord parses a DKIM DNS TXT record.
// Returns the parsed record and a boolean indicating if it's a DKIM record.
func ParseRecord(txt string) (*Record, bool, error) {
	record := &Record{
		Version: "DKIM1",
		Key:     "rsa",
	}

	seen := make(map[string]bool)
	isDKIM := false

	for _, part := range strings.Split(txt, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		tag, value, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		tag = strings.TrimSpace(tag)
		value = strings.TrimSpace(value)

		if seen[tag] {
			if isDKIM {
				return nil, true, fmt.Errorf("%w: duplicate tag %s", ErrSyntax, tag)
			}
			continue
		}
		seen[tag] = true

		switch tag {
		case "v":
			if value != "DKIM1" {
				return nil, false, fmt.Errorf("not a DKIM1 record")
			}
			record.Version = value
			isDKIM = true

		case "h":
			isDKIM = true

		case "k":
			record.Key = strings.ToLower(value)
			isDKIM = true

		case "p":
			if cleaned := stripSpace(value); cleaned != "" {
				decoded, err := base64.StdEncoding.DecodeString(cleaned)
				if err != nil {
					return nil, true, fmt.Errorf("%w: invalid public key encoding: %v", ErrSyntax, err)
				}
				record.Pubkey = decoded
			}
			isDKIM = true

		case "t":
			record.Flags = splitList(value)
			isDKIM = true
		}
	}

	if !isDKIM {
		return nil, false, fmt.Errorf("not a DKIM record")
	}

	// Public key is required (but can be empty for revoked keys)
	if !seen["p"] {
		return nil, true, fmt.Errorf("%w: missing public key (p=)", ErrSyntax)
	}

	if len(record.Pubkey) > 0 {
		pk, err := parsePublicKey(record.Key, record.Pubkey)
		if err != nil {
			return nil, true, fmt.Errorf("%w: %v", ErrSyntax, err)
		}
		record.PublicKey = pk
	}

	return record, true, nil
}

// FirstKey parses records in order and returns the first DKIM record.
// A revoked key (empty p=) yields ErrKeyRevoked.
func FirstKey(records []string) (*Record, error) {
	var lastErr error = ErrNoRecord
	for _, txt := range records {
		r, isDKIM, err := ParseRecord(txt)
		if !isDKIM {
			continue
		}
		if err != nil {
			lastErr = err
			continue
		}
		if r.PublicKey == nil {
			return r, ErrKeyRevoked
		}
		return r, nil
	}
	return nil, lastErr
}

// splitList splits a colon-separated tag value.
func splitList(value string) []string {
	var out []string
	for _, s := range strings.Split(value, ":") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// parsePublicKey parses a public key based on the key type.
func parsePublicKey(keyType string, data []byte) (any, error) {
	switch strings.ToLower(keyType) {
	case "", "rsa":
		// RSA keys are usually PKIX; some publishers use bare PKCS#1.
		pk, err := x509.ParsePKIXPublicKey(data)
		if err != nil {
			if rsaPK, err1 := x509.ParsePKCS1PublicKey(data); err1 == nil {
				return rsaPK, nil
			}
			return nil, fmt.Errorf("invalid RSA public key: %w", err)
		}
		rsaPK, ok := pk.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("expected RSA public key, got %T", pk)
		}
		return rsaPK, nil

	case "ed25519":
		if len(data) != ed25519.PublicKeySize {
			return nil, fmt.Errorf("invalid Ed25519 public key size: %d", len(data))
		}
		return ed25519.PublicKey(data), nil

	default:
		return nil, fmt.Errorf("unsupported key type: %s", keyType)
	}
}

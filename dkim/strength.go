package dkim

import (
	"strconv"
	"strings"
)

// KeyStrength is the approximate RSA modulus size implied by the length of
// a base64-encoded public key. Unknown is zero.
type KeyStrength int

const (
	Unknown KeyStrength = 0
	RSA1024 KeyStrength = 1024
	RSA2048 KeyStrength = 2048
	RSA3072 KeyStrength = 3072
	RSA4096 KeyStrength = 4096
)

func (s KeyStrength) String() string {
	if s == Unknown {
		return "Unknown"
	}
	return strconv.Itoa(int(s))
}

// Threshold maps a minimum encoded key length to a strength.
type Threshold struct {
	MinLength int
	Strength  KeyStrength
}

// Thresholds apply to the text of the p= tag alone, longest first.
var Thresholds = []Threshold{
	{684, RSA4096},
	{512, RSA3072},
	{342, RSA2048},
	{170, RSA1024},
}

// ClassifyLength maps an encoded key length to a strength. It is monotonic
// in n.
func ClassifyLength(n int) KeyStrength {
	for _, t := range Thresholds {
		if n >= t.MinLength {
			return t.Strength
		}
	}
	return Unknown
}

// Classify estimates the key strength of a DKIM record list from the
// length of its first public key. Unknown is returned for an empty list or
// when no record has a p= fragment.
func Classify(records []string) KeyStrength {
	n, ok := KeyLength(records)
	if !ok {
		return Unknown
	}
	return ClassifyLength(n)
}

// KeyLength returns the length of the base64 public key text in the first
// record containing "p=". ok is false if there is none.
func KeyLength(records []string) (n int, ok bool) {
	for _, txt := range records {
		if !strings.Contains(txt, "p=") {
			continue
		}
		return len(publicKeyText(txt)), true
	}
	return 0, false
}

// publicKeyText returns the value of the p tag with whitespace removed. A
// record without a proper p tag yields the text after the first "p=", up
// to the next ";".
func publicKeyText(txt string) string {
	for _, part := range strings.Split(txt, ";") {
		tag, value, found := strings.Cut(part, "=")
		if found && strings.TrimSpace(tag) == "p" {
			return stripSpace(value)
		}
	}

	_, rest, _ := strings.Cut(txt, "p=")
	rest, _, _ = strings.Cut(rest, ";")
	return stripSpace(rest)
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, s)
}

package mailcheck

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
)

// Format selects how a report is written.
type Format string

const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatMsgPack Format = "msgpack"
)

// Formats lists the supported output formats.
var Formats = []Format{FormatText, FormatJSON, FormatMsgPack}

// ParseFormat returns the Format named s, case-insensitively. An empty s
// selects FormatText.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatText, nil
	}
	if slices.Contains(Formats, f) {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q (want %s)", ErrUnknownFormat, s, FormatList())
}

// FormatList returns the supported format names, comma separated.
func FormatList() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// Write encodes r to w in format f.
func Write(w io.Writer, r *Report, f Format) error {
	switch f {
	case FormatText, "":
		return r.WriteText(w)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatMsgPack:
		b, err := r.MarshalMsg(nil)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

package corpus

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

const (
	EncodingUTF8 = "utf-8"
	// EncodingNone disables the fallback decoder.
	EncodingNone = "none"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// NormalizeEncoding maps common spellings of the supported fallback encodings
// to a canonical name. It returns "" for unsupported names.
func NormalizeEncoding(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "latin-1", "latin1", "iso-8859-1", "iso8859-1", "iso_8859-1", "l1":
		return "latin-1"
	case "windows-1252", "cp1252", "windows1252":
		return "windows-1252"
	case "iso-8859-15", "iso8859-15", "latin-9", "latin9":
		return "iso-8859-15"
	case "none", "":
		return EncodingNone
	default:
		return ""
	}
}

func fallbackEncoding(name string) encoding.Encoding {
	switch NormalizeEncoding(name) {
	case "latin-1":
		return charmap.ISO8859_1
	case "windows-1252":
		return charmap.Windows1252
	case "iso-8859-15":
		return charmap.ISO8859_15
	default:
		return nil
	}
}

// Decode converts raw page bytes to text. Strict UTF-8 is tried first (a
// leading BOM is dropped); otherwise the fallback charmap is used. The
// returned name identifies the decoder that succeeded.
func Decode(data []byte, fallback string) (string, string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), EncodingUTF8, nil
	}

	enc := fallbackEncoding(fallback)
	if enc == nil {
		return "", "", fmt.Errorf("%w: invalid utf-8 and no usable fallback (%q)", ErrPageDecode, fallback)
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s: %w", ErrPageDecode, NormalizeEncoding(fallback), err)
	}
	return string(decoded), NormalizeEncoding(fallback), nil
}

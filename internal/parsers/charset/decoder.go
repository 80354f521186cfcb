package charset

import (
	"bytes"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Encoding represents a text encoding
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingWindows1252 Encoding = "windows-1252"
	EncodingISO88591    Encoding = "iso-8859-1"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectEncoding detects the encoding of a byte buffer.
// ERP exports saved from a Spanish-locale Excel are Windows-1252 when they are not UTF-8.
func DetectEncoding(data []byte) Encoding {
	if bytes.HasPrefix(data, utf8BOM) {
		return EncodingUTF8
	}
	if utf8.Valid(data) {
		return EncodingUTF8
	}
	return EncodingWindows1252
}

// Decode converts a byte buffer from the specified encoding to a UTF-8 string.
// A UTF-8 byte order mark is stripped.
func Decode(data []byte, enc Encoding) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	// Valid UTF-8 is never re-decoded, whatever the caller asked for:
	// accented letters in UTF-8 would otherwise come out as mojibake.
	if utf8.Valid(data) {
		return string(data), nil
	}

	var dec encoding.Encoding
	switch enc {
	case EncodingISO88591:
		dec = charmap.ISO8859_1
	default:
		dec = charmap.Windows1252
	}

	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), dec.NewDecoder()))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

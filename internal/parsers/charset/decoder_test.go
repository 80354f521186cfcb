package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectEncoding(t *testing.T) {
	tests := []struct {
		name     string
		content  []byte
		expected Encoding
	}{
		{"UTF-8 BOM", []byte("\xEF\xBB\xBFID;Empresa"), EncodingUTF8},
		{"UTF-8 accents", []byte("Córdoba"), EncodingUTF8},
		{"Plain ASCII", []byte("ID;Empresa"), EncodingUTF8},
		{"Windows-1252 accents", []byte("C\xf3rdoba"), EncodingWindows1252},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectEncoding(tt.content))
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		content  []byte
		enc      Encoding
		expected string
	}{
		{"Windows-1252", []byte("Pe\xf1a \x80 100"), EncodingWindows1252, "Peña € 100"},
		{"ISO-8859-1", []byte("Pe\xf1a"), EncodingISO88591, "Peña"},
		{"BOM stripped", []byte("\xEF\xBB\xBFID"), EncodingUTF8, "ID"},
		{"Valid UTF-8 is not re-decoded", []byte("Peña"), EncodingWindows1252, "Peña"},
		{"Unknown falls back to Windows-1252", []byte("Pe\xf1a"), Encoding("latin-9"), "Peña"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.content, tt.enc)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

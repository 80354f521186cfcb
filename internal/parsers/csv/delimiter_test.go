package csv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected CsvDelimiter
	}{
		{
			name:     "comma",
			content:  "ID,Empresa,NetoItems_USD\nP-1,Acme,100\nP-2,Beta,200",
			expected: DelimiterComma,
		},
		{
			name:     "semicolon with decimal commas",
			content:  "ID;Empresa;NetoItems_USD\nP-1;Acme;1,50\nP-2;Beta;2,75",
			expected: DelimiterSemicolon,
		},
		{
			name:     "tab",
			content:  "ID\tEmpresa\tNetoItems_USD\nP-1\tAcme\t100",
			expected: DelimiterTab,
		},
		{
			name:     "commas inside quotes are ignored",
			content:  "ID;Empresa\nP-1;\"Acme, Inc\"\nP-2;\"Beta, SA\"",
			expected: DelimiterSemicolon,
		},
		{
			name:     "empty content defaults to comma",
			content:  "",
			expected: DelimiterComma,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectDelimiter(tt.content))
		})
	}
}

func TestDetectDelimiter_Header(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		delim CsvDelimiter
		want  bool
	}{
		{"semicolon export", "ID;Empresa;FechaCreacion;NroItem;NetoItems_USD;Validez", DelimiterSemicolon, true},
		{"quoted names", `"ID","Empresa","FechaCreacion","NetoItems_USD"`, DelimiterComma, true},
		{"byte order mark", "\ufeffID\tEmpresa\tFechaCreacion\tNetoItems_USD", DelimiterTab, true},
		{"wrong delimiter", "ID;Empresa;FechaCreacion;NetoItems_USD", DelimiterComma, false},
		{"missing amount column", "ID;Empresa;FechaCreacion", DelimiterSemicolon, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, headerMatches(tt.line, tt.delim))
		})
	}

	content := "ID;Empresa;FechaCreacion;NetoItems_USD\nP-1;Acme, Inc, SA;01/03/2024;1,50\n"
	assert.Equal(t, DelimiterSemicolon, DetectDelimiter(content))
}

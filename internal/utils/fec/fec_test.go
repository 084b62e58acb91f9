package fec

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderSchema(t *testing.T) {
	h := Header()
	require.Len(t, h, 18)
	assert.Equal(t, "JournalCode|JournalLib|EcritureNum|EcritureDate|CompteNum|CompteLib|CompAuxNum|CompAuxLib|PieceRef|PieceDate|EcritureLib|Debit|Credit|EcritureLet|DateLet|ValidDate|Montantdevise|Idevise",
		strings.Join(h, Separator))
	assert.Empty(t, ValidateHeader(h))
	assert.Equal(t, "EcritureDate", Columns[ColEntryDate].Name)
	assert.Equal(t, "Debit", Columns[ColDebit].Name)
	assert.Equal(t, "Credit", Columns[ColCredit].Name)

	swapped := Header()
	swapped[11], swapped[12] = swapped[12], swapped[11]
	assert.Len(t, ValidateHeader(swapped), 2)
	assert.NotEmpty(t, ValidateHeader(h[:17]))
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		max       int
		want      string
		truncated bool
	}{
		{"plain", "Ventes", 100, "Ventes", false},
		{"separator and controls", "a|b\tc\r\nd", 100, "abcd", false},
		{"truncate runes", "Éléphant", 3, "Élé", true},
		{"trim", "  x  ", 10, "x", false},
		{"transliterate before cut", "Łódź Sp. z o.o.", 4, "Lódz", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated := Sanitize(tt.in, tt.max)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.truncated, truncated)
		})
	}
}

func TestAmountsAndDates(t *testing.T) {
	assert.Equal(t, "1200,00", FormatAmount(decimal.RequireFromString("1200")))
	assert.Equal(t, "1234567,50", FormatAmount(decimal.RequireFromString("1234567.5")))
	assert.Equal(t, "", FormatAmount(decimal.Zero))

	v, err := ParseAmount("1200,00")
	require.NoError(t, err)
	assert.True(t, v.Equal(decimal.NewFromInt(1200)))
	v, err = ParseAmount("")
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	d := time.Date(2024, 3, 5, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "20240305", FormatDate(&d))
	assert.Equal(t, "", FormatDate(nil))
	assert.True(t, IsValidDate("20240229"))
	assert.True(t, IsValidDate(""))
	assert.False(t, IsValidDate("20230229"))
	assert.False(t, IsValidDate("2024-03-05"))
}

func TestEncodeISO885915WithCRLF(t *testing.T) {
	data, replaced, err := Encode([][]string{{"a", "€uro"}, {"é", "b"}})
	require.NoError(t, err)
	assert.Empty(t, replaced)
	// € is 0xA4 and é is 0xE9 in ISO-8859-15.
	assert.Equal(t, []byte{'a', '|', 0xA4, 'u', 'r', 'o', '\r', '\n', 0xE9, '|', 'b', '\r', '\n'}, data)

	rows, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "€uro"}, {"é", "b"}}, rows)
}

func TestEncodeReportsUnsupportedCharacters(t *testing.T) {
	data, replaced, err := Encode([][]string{{"ok"}, {"日本"}})
	require.NoError(t, err)
	assert.Equal(t, []int{2}, replaced)
	assert.Equal(t, []byte("ok\r\n??\r\n"), data)
}

func TestToCharset(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		changed bool
	}{
		{"Société Générale", "Société Générale", false},
		{"Œuvre €", "Œuvre €", false},
		{"Łódź Sp. z o.o.", "Lódz Sp. z o.o.", true},
		{"Dvořák", "Dvorák", true},
		{"Đorđe", "Dorde", true},
		{"l\u2019atelier \u2013 Paris", "l'atelier - Paris", true},
		{"東京", "??", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, changed := ToCharset(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.changed, changed)
		})
	}
}

func TestSanitizeFieldReportsTransliteration(t *testing.T) {
	v, transliterated, truncated := SanitizeField("Łódź", 35)
	assert.Equal(t, "Lódz", v)
	assert.True(t, transliterated)
	assert.False(t, truncated)

	data, replaced, err := Encode([][]string{{v}})
	require.NoError(t, err)
	assert.Empty(t, replaced)
	for _, b := range data {
		if b < 0x20 {
			assert.Contains(t, []byte{'\r', '\n'}, b)
		}
	}
}

func TestFileName(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "123456789FEC2024010120241231.txt", FileName("123456789", start, end))
}

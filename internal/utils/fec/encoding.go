package fec

import (
	"bytes"
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// LineEnding terminates every line, the header included.
const LineEnding = "\r\n"

// Replacement stands in for a character with no ISO-8859-15 rendering.
const Replacement = '?'

// Letters without a canonical decomposition, and common typographic marks.
var fallbacks = map[rune]string{
	'Ł': "L", 'ł': "l", 'Đ': "D", 'đ': "d", 'Ħ': "H", 'ħ': "h", 'ı': "i",
	'\u2018': "'", '\u2019': "'", '\u201C': "\"", '\u201D': "\"",
	'\u2013': "-", '\u2014': "-", '\u2026': "...",
}

var stripMarks = runes.Remove(runes.In(unicode.Mn))

// ToCharset rewrites s so that every rune is representable in ISO-8859-15.
// Accented letters lose the accents the charset lacks ("ź" becomes "z"),
// anything else becomes Replacement. It reports whether s changed.
func ToCharset(s string) (string, bool) {
	if encodable(s) {
		return s, false
	}
	var b strings.Builder
	for _, r := range s {
		if _, ok := charmap.ISO8859_15.EncodeRune(r); ok {
			b.WriteRune(r)
			continue
		}
		if alt, ok := fallbacks[r]; ok {
			b.WriteString(alt)
			continue
		}
		base, _, err := transform.String(stripMarks, norm.NFD.String(string(r)))
		if err == nil && base != "" && encodable(base) {
			b.WriteString(base)
			continue
		}
		b.WriteRune(Replacement)
	}
	return b.String(), true
}

func encodable(s string) bool {
	for _, r := range s {
		if _, ok := charmap.ISO8859_15.EncodeRune(r); !ok {
			return false
		}
	}
	return true
}

// Encode joins rows with the separator and CRLF and encodes the result in
// ISO-8859-15. Characters outside the charset go through ToCharset, so the
// output never carries the encoder's 0x1A substitute; the affected 1-based
// line numbers are reported.
func Encode(rows [][]string) ([]byte, []int, error) {
	enc := charmap.ISO8859_15.NewEncoder()

	var buf bytes.Buffer
	var replaced []int
	for i, row := range rows {
		line, changed := ToCharset(strings.Join(row, Separator))
		if changed {
			replaced = append(replaced, i+1)
		}
		out, err := enc.String(line + LineEnding)
		if err != nil {
			return nil, nil, err
		}
		buf.WriteString(out)
	}
	return buf.Bytes(), replaced, nil
}

// Decode reads ISO-8859-15 bytes back into UTF-8 rows.
func Decode(data []byte) ([][]string, error) {
	text, err := charmap.ISO8859_15.NewDecoder().Bytes(data)
	if err != nil {
		return nil, err
	}
	var rows [][]string
	for _, line := range strings.Split(string(text), LineEnding) {
		if line == "" {
			continue
		}
		rows = append(rows, strings.Split(line, Separator))
	}
	return rows, nil
}

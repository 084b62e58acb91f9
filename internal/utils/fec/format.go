// Package fec renders ledger lines in the regulatory flat-file layout:
// 18 pipe-delimited columns, ISO-8859-15, CRLF line endings.
package fec

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// FieldKind tells how a column is formatted and checked.
type FieldKind int

const (
	KindText FieldKind = iota
	KindDate
	KindAmount
)

// Column describes one of the 18 fixed columns.
type Column struct {
	Name      string
	MaxLen    int
	Mandatory bool
	Kind      FieldKind
}

// Columns is the canonical schema, in file order.
var Columns = []Column{
	{Name: "JournalCode", MaxLen: 3, Mandatory: true},
	{Name: "JournalLib", MaxLen: 100, Mandatory: true},
	{Name: "EcritureNum", MaxLen: 20, Mandatory: true},
	{Name: "EcritureDate", Mandatory: true, Kind: KindDate},
	{Name: "CompteNum", MaxLen: 20, Mandatory: true},
	{Name: "CompteLib", MaxLen: 100, Mandatory: true},
	{Name: "CompAuxNum", MaxLen: 20},
	{Name: "CompAuxLib", MaxLen: 100},
	{Name: "PieceRef", MaxLen: 20, Mandatory: true},
	{Name: "PieceDate", Mandatory: true, Kind: KindDate},
	{Name: "EcritureLib", MaxLen: 200, Mandatory: true},
	{Name: "Debit", Kind: KindAmount},
	{Name: "Credit", Kind: KindAmount},
	{Name: "EcritureLet", MaxLen: 10},
	{Name: "DateLet", Kind: KindDate},
	{Name: "ValidDate", Mandatory: true, Kind: KindDate},
	{Name: "Montantdevise", Kind: KindAmount},
	{Name: "Idevise", MaxLen: 3},
}

// Column indexes used by the validators.
const (
	ColEntryDate = 3
	ColDebit     = 11
	ColCredit    = 12
)

// Separator is the field delimiter.
const Separator = "|"

// DateLayout is the only accepted date format.
const DateLayout = "20060102"

var dateRe = regexp.MustCompile(`^[0-9]{8}$`)

// Header returns the column names in order.
func Header() []string {
	names := make([]string, len(Columns))
	for i, c := range Columns {
		names[i] = c.Name
	}
	return names
}

// ValidateHeader reports the positions where header differs from the schema.
func ValidateHeader(header []string) []string {
	var problems []string
	if len(header) != len(Columns) {
		problems = append(problems, fmt.Sprintf("header has %d columns, want %d", len(header), len(Columns)))
	}
	for i, c := range Columns {
		if i >= len(header) {
			break
		}
		if header[i] != c.Name {
			problems = append(problems, fmt.Sprintf("column %d is %q, want %q", i+1, header[i], c.Name))
		}
	}
	return problems
}

// Sanitize strips the separator and control characters, trims surrounding
// spaces and cuts the value to maxLen runes. It reports whether it truncated.
func Sanitize(s string, maxLen int) (string, bool) {
	v, _, truncated := SanitizeField(s, maxLen)
	return v, truncated
}

// SanitizeField is Sanitize that also reports whether characters outside
// ISO-8859-15 had to be transliterated. The cut happens after transliteration.
func SanitizeField(s string, maxLen int) (value string, transliterated, truncated bool) {
	cleaned := strings.Map(func(r rune) rune {
		if r == '|' || unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	cleaned, transliterated = ToCharset(cleaned)
	cleaned = strings.TrimSpace(cleaned)
	if maxLen > 0 && utf8.RuneCountInString(cleaned) > maxLen {
		return strings.TrimSpace(string([]rune(cleaned)[:maxLen])), transliterated, true
	}
	return cleaned, transliterated, false
}

// FormatDate renders t as YYYYMMDD, or blank when t is nil or zero.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// IsValidDate accepts a blank value or exactly eight digits forming a real date.
func IsValidDate(s string) bool {
	if s == "" {
		return true
	}
	if !dateRe.MatchString(s) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// FormatAmount renders d with two decimals and a comma separator, or blank
// when d is zero. No thousands separator is used.
func FormatAmount(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}

// ParseAmount reads a value written by FormatAmount; blank is zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(strings.Replace(s, ",", ".", 1))
}

// FileName builds "{taxId}FEC{start}{end}.txt".
func FileName(taxID string, start, end time.Time) string {
	return fmt.Sprintf("%sFEC%s%s.txt", taxID, start.Format(DateLayout), end.Format(DateLayout))
}

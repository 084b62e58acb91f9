package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrLineBothSides    = errors.New("ledger line carries both a debit and a credit amount")
	ErrLineNoSide       = errors.New("ledger line carries neither a debit nor a credit amount")
	ErrLineNegative     = errors.New("ledger line amount must be positive")
	ErrLineScale        = errors.New("ledger line amount exceeds two fraction digits")
	ErrLineAccount      = errors.New("ledger line account code is required")
	ErrEntryMinLines    = errors.New("ledger entry must have at least two lines")
	ErrEntryNotBalanced = errors.New("ledger entry debit total does not equal credit total")
	ErrLineForeign      = errors.New("ledger line foreign amount requires a 3-letter currency code")
)

// LedgerEntry is one balanced double-entry posting produced from a source document.
type LedgerEntry struct {
	EntryID        string       `json:"entryID"`
	JournalCode    string       `json:"journalCode"`
	EntryNumber    int64        `json:"entryNumber"` // unique and strictly increasing per journal
	EntryDate      time.Time    `json:"entryDate"`
	PieceDate      time.Time    `json:"pieceDate"`
	Source         DocumentRef  `json:"source"`
	Label          string       `json:"label"`
	FiscalPeriodID string       `json:"fiscalPeriodID"`
	FiscalYear     int          `json:"fiscalYear"`
	Validated      bool         `json:"validated"` // immutable once true
	ValidatedAt    *time.Time   `json:"validatedAt,omitempty"`
	Lines          []LedgerLine `json:"lines"`
	AuditFields
}

// LedgerLine is one debit or credit movement of a LedgerEntry.
type LedgerLine struct {
	LineID             string           `json:"lineID"`
	EntryID            string           `json:"entryID"`
	LineOrder          int              `json:"lineOrder"`
	AccountCode        string           `json:"accountCode"`
	Debit              decimal.Decimal  `json:"debit"`
	Credit             decimal.Decimal  `json:"credit"`
	Label              string           `json:"label"`
	SubsidiaryAccount  string           `json:"subsidiaryAccount,omitempty"`
	SubsidiaryLabel    string           `json:"subsidiaryLabel,omitempty"`
	DueDate            *time.Time       `json:"dueDate,omitempty"`
	ReconciliationCode string           `json:"reconciliationCode,omitempty"`
	ReconciledAt       *time.Time       `json:"reconciledAt,omitempty"`
	ForeignAmount      *decimal.Decimal `json:"foreignAmount,omitempty"`
	ForeignCurrency    string           `json:"foreignCurrency,omitempty"`
}

// NewDebitLine builds a debit line rounded to the money scale.
func NewDebitLine(account string, amount decimal.Decimal, label string) LedgerLine {
	return LedgerLine{AccountCode: account, Debit: RoundMoney(amount), Credit: decimal.Zero, Label: label}
}

// NewCreditLine builds a credit line rounded to the money scale.
func NewCreditLine(account string, amount decimal.Decimal, label string) LedgerLine {
	return LedgerLine{AccountCode: account, Debit: decimal.Zero, Credit: RoundMoney(amount), Label: label}
}

// IsDebit reports whether the line is on the debit side.
func (l LedgerLine) IsDebit() bool {
	return !l.Debit.IsZero()
}

// Amount returns the nonzero side of the line.
func (l LedgerLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.Debit
	}
	return l.Credit
}

// Validate enforces the debit XOR credit rule and the money scale.
func (l LedgerLine) Validate() error {
	if l.AccountCode == "" {
		return ErrLineAccount
	}
	hasDebit, hasCredit := !l.Debit.IsZero(), !l.Credit.IsZero()
	switch {
	case hasDebit && hasCredit:
		return fmt.Errorf("%w: account %s", ErrLineBothSides, l.AccountCode)
	case !hasDebit && !hasCredit:
		return fmt.Errorf("%w: account %s", ErrLineNoSide, l.AccountCode)
	}
	amount := l.Amount()
	if amount.IsNegative() {
		return fmt.Errorf("%w: account %s amount %s", ErrLineNegative, l.AccountCode, amount)
	}
	if !HasMoneyScale(amount) {
		return fmt.Errorf("%w: account %s amount %s", ErrLineScale, l.AccountCode, amount)
	}
	if l.ForeignAmount != nil && len(l.ForeignCurrency) != 3 {
		return fmt.Errorf("%w: account %s", ErrLineForeign, l.AccountCode)
	}
	return nil
}

// IsForeignCurrency reports whether the line carries both a foreign amount and
// its currency code.
func (l LedgerLine) IsForeignCurrency() bool {
	return l.ForeignAmount != nil && l.ForeignCurrency != ""
}

// Totals returns the debit and credit sums of the entry lines.
func (e LedgerEntry) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range e.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// IsBalanced reports whether the debit total equals the credit total exactly.
func (e LedgerEntry) IsBalanced() bool {
	debit, credit := e.Totals()
	return debit.Equal(credit)
}

// Validate checks every line and the balance invariant.
func (e LedgerEntry) Validate() error {
	if len(e.Lines) < 2 {
		return ErrEntryMinLines
	}
	for _, l := range e.Lines {
		if err := l.Validate(); err != nil {
			return err
		}
	}
	if debit, credit := e.Totals(); !debit.Equal(credit) {
		return fmt.Errorf("%w: debit %s, credit %s", ErrEntryNotBalanced, FormatMoney(debit), FormatMoney(credit))
	}
	return nil
}

// Snapshot returns the field map recorded in audit before/after images.
func (e LedgerEntry) Snapshot() map[string]any {
	debit, credit := e.Totals()
	lines := make([]any, 0, len(e.Lines))
	for _, l := range e.Lines {
		lines = append(lines, map[string]any{
			"line_order": l.LineOrder,
			"account":    l.AccountCode,
			"subsidiary": l.SubsidiaryAccount,
			"debit":      FormatMoney(l.Debit),
			"credit":     FormatMoney(l.Credit),
			"label":      l.Label,
		})
	}
	snap := map[string]any{
		"journal_code":   e.JournalCode,
		"entry_number":   e.EntryNumber,
		"entry_date":     e.EntryDate.Format(DateLayout),
		"piece_date":     e.PieceDate.Format(DateLayout),
		"source_type":    string(e.Source.Type),
		"source_id":      e.Source.ID,
		"source_number":  e.Source.Number,
		"label":          e.Label,
		"fiscal_period":  e.FiscalPeriodID,
		"validated":      e.Validated,
		"total_debit":    FormatMoney(debit),
		"total_credit":   FormatMoney(credit),
		"lines":          lines,
		"created_by":     e.CreatedBy,
		"entry_id":       e.EntryID,
		"fiscal_year":    e.FiscalYear,
		"last_update_by": e.LastUpdatedBy,
	}
	if e.ValidatedAt != nil {
		snap["validated_at"] = e.ValidatedAt.UTC().Format(time.RFC3339)
	}
	return snap
}

// DocumentRef implements SealableDocument.
func (e LedgerEntry) DocumentRef() DocumentRef {
	return DocumentRef{
		Type:   DocumentTypeLedgerEntry,
		ID:     e.EntryID,
		Number: fmt.Sprintf("%s-%d", e.JournalCode, e.EntryNumber),
	}
}

// DocumentVersion implements SealableDocument.
func (e LedgerEntry) DocumentVersion() int { return 1 }

// CanonicalFields implements SealableDocument.
func (e LedgerEntry) CanonicalFields() (map[string]any, error) {
	debit, credit := e.Totals()
	lines := make([]any, 0, len(e.Lines))
	for _, l := range e.Lines {
		lines = append(lines, map[string]any{
			"account": l.AccountCode,
			"debit":   FormatMoney(l.Debit),
			"credit":  FormatMoney(l.Credit),
		})
	}
	return map[string]any{
		"entry_id":     e.EntryID,
		"journal_code": e.JournalCode,
		"entry_number": e.EntryNumber,
		"entry_date":   e.EntryDate.Format(DateLayout),
		"source_type":  string(e.Source.Type),
		"source_id":    e.Source.ID,
		"validated":    e.Validated,
		"total_debit":  FormatMoney(debit),
		"total_credit": FormatMoney(credit),
		"lines":        lines,
	}, nil
}

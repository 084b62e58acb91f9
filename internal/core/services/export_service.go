package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_integrity/internal/apperrors"
	"github.com/SscSPs/ledger_integrity/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_integrity/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_integrity/internal/core/ports/services"
	"github.com/SscSPs/ledger_integrity/internal/utils/fec"
)

// Export validation rules.
const (
	RuleHeader      = "header_schema"
	RuleRowWidth    = "row_width"
	RuleMandatory   = "mandatory_field"
	RuleDateFormat  = "date_format"
	RuleAmount      = "amount_format"
	RuleExclusive   = "debit_credit_exclusive"
	RuleEntryBal    = "entry_balance"
	RuleGlobalBal   = "global_balance"
	RulePeriodBound = "period_bounds"
)

// ExportValidationError carries every violation found before emission.
type ExportValidationError struct {
	Violations []domain.ExportViolation
}

func (e *ExportValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "export validation failed"
	}
	first := e.Violations[0]
	return fmt.Sprintf("export validation failed with %d violation(s), first: %s: %s", len(e.Violations), first.Rule, first.Message)
}

func (e *ExportValidationError) Unwrap() error {
	return apperrors.ErrValidation
}

type exportService struct {
	BaseService
	store portsrepo.Store
	chart portsrepo.ChartReader
	audit portssvc.AuditWriterSvc
}

// ExportOption is a functional option for configuring the export service
type ExportOption func(*exportService)

// WithExportClock overrides the time source.
func WithExportClock(c Clock) ExportOption {
	return func(s *exportService) {
		s.Clock = c
	}
}

// NewExportService creates the regulatory export generator.
func NewExportService(store portsrepo.Store, chart portsrepo.ChartReader, audit portssvc.AuditWriterSvc, options ...ExportOption) portssvc.ExportSvc {
	svc := &exportService{
		BaseService: newBaseService(),
		store:       store,
		chart:       chart,
		audit:       audit,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ExportSvc = (*exportService)(nil)

// GenerateExport builds, validates and encodes the file in memory.
func (s *exportService) GenerateExport(ctx context.Context, req domain.ExportRequest, actor domain.Actor) (*domain.ExportFile, error) {
	file, err := s.generate(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.logExport(ctx, req, file, "", actor); err != nil {
		return nil, err
	}
	return file, nil
}

// WriteExport generates the file and stores it under dir.
func (s *exportService) WriteExport(ctx context.Context, req domain.ExportRequest, dir string, actor domain.Actor) (string, *domain.ExportFile, error) {
	file, err := s.generate(ctx, req)
	if err != nil {
		return "", nil, err
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(dir, file.FileName)
	if err := os.WriteFile(path, file.Content, 0o640); err != nil {
		return "", nil, fmt.Errorf("failed to write export file: %w", err)
	}
	if err := s.logExport(ctx, req, file, path, actor); err != nil {
		return "", nil, err
	}
	return path, file, nil
}

func (s *exportService) logExport(ctx context.Context, req domain.ExportRequest, file *domain.ExportFile, path string, actor domain.Actor) error {
	after := map[string]any{
		"file_name":    file.FileName,
		"period_start": req.PeriodStart.Format(domain.DateLayout),
		"period_end":   req.PeriodEnd.Format(domain.DateLayout),
		"rows":         file.RowCount,
		"entries":      file.EntryCount,
		"total_debit":  domain.FormatMoney(file.TotalDebit),
		"total_credit": domain.FormatMoney(file.TotalCredit),
	}
	if path != "" {
		after["path"] = path
	}
	if req.FiscalYear != nil {
		after["fiscal_year"] = *req.FiscalYear
	}
	_, err := s.audit.LogChange(ctx, domain.AuditChange{
		EntityType: "regulatory_export",
		EntityID:   file.FileName,
		Action:     domain.AuditExport,
		After:      after,
	}, actor)
	return err
}

func (s *exportService) generate(ctx context.Context, req domain.ExportRequest) (*domain.ExportFile, error) {
	if err := s.Validator.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	start, end := domain.CalendarDate(req.PeriodStart), domain.CalendarDate(req.PeriodEnd)
	logger := s.GetLogger(ctx).With(
		slog.String("period_start", start.Format(domain.DateLayout)),
		slog.String("period_end", end.Format(domain.DateLayout)))

	entries, err := s.store.ListValidatedEntries(ctx, portsrepo.EntryFilter{
		PeriodStart: start,
		PeriodEnd:   end,
		FiscalYear:  req.FiscalYear,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read validated entries: %w", err)
	}

	lines, err := s.exportLines(ctx, entries)
	if err != nil {
		return nil, err
	}

	var warnings []string
	rows := make([][]string, 0, len(lines))
	for i, l := range lines {
		row, truncated, transliterated := formatRow(l)
		for _, col := range transliterated {
			logger.Warn("Export field transliterated to ISO-8859-15",
				slog.Int("row", i+1), slog.String("column", fec.Columns[col].Name))
			warnings = append(warnings, fmt.Sprintf("row %d: %s transliterated to ISO-8859-15", i+1, fec.Columns[col].Name))
		}
		for _, col := range truncated {
			logger.Warn("Export field truncated",
				slog.Int("row", i+1), slog.String("column", fec.Columns[col].Name), slog.Int("max_len", fec.Columns[col].MaxLen))
			warnings = append(warnings, fmt.Sprintf("row %d: %s truncated to %d characters", i+1, fec.Columns[col].Name, fec.Columns[col].MaxLen))
		}
		rows = append(rows, row)
	}

	header := fec.Header()
	violations, totalDebit, totalCredit := validateRows(header, rows, start, end)
	if len(violations) > 0 {
		logger.Warn("Regulatory export rejected", slog.Int("violations", len(violations)))
		return nil, &ExportValidationError{Violations: violations}
	}

	content, replaced, err := fec.Encode(append([][]string{header}, rows...))
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	for _, n := range replaced {
		warnings = append(warnings, fmt.Sprintf("line %d: characters outside ISO-8859-15 replaced", n))
	}

	file := &domain.ExportFile{
		FileName:    fec.FileName(req.TaxID, start, end),
		Content:     content,
		RowCount:    len(rows),
		EntryCount:  len(entries),
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		Warnings:    warnings,
		GeneratedAt: s.Now(),
	}
	logger.Info("Regulatory export generated",
		slog.String("file_name", file.FileName),
		slog.Int("rows", file.RowCount),
		slog.Int("warnings", len(warnings)))
	return file, nil
}

// exportLines flattens entries into rows, resolving journal and account labels.
// A label that cannot be resolved is left blank and reported by validation.
func (s *exportService) exportLines(ctx context.Context, entries []domain.LedgerEntry) ([]domain.ExportLine, error) {
	journalLabels := make(map[string]string)
	accountLabels := make(map[string]string)

	journalLabel := func(code string) (string, error) {
		if label, ok := journalLabels[code]; ok {
			return label, nil
		}
		j, err := s.chart.FindJournal(ctx, code)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return "", err
		}
		if j != nil {
			journalLabels[code] = j.Label
		} else {
			journalLabels[code] = ""
		}
		return journalLabels[code], nil
	}
	accountLabel := func(code string) (string, error) {
		if label, ok := accountLabels[code]; ok {
			return label, nil
		}
		a, err := s.chart.FindAccount(ctx, code)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return "", err
		}
		if a != nil {
			accountLabels[code] = a.Label
		} else {
			accountLabels[code] = ""
		}
		return accountLabels[code], nil
	}

	var out []domain.ExportLine
	for _, e := range entries {
		jl, err := journalLabel(e.JournalCode)
		if err != nil {
			return nil, err
		}
		entryDate, pieceDate := e.EntryDate, e.PieceDate
		for _, l := range e.Lines {
			al, err := accountLabel(l.AccountCode)
			if err != nil {
				return nil, err
			}
			label := l.Label
			if label == "" {
				label = e.Label
			}
			row := domain.ExportLine{
				JournalCode:    e.JournalCode,
				JournalLabel:   jl,
				EntryNumber:    strconv.FormatInt(e.EntryNumber, 10),
				EntryDate:      &entryDate,
				AccountNumber:  l.AccountCode,
				AccountLabel:   al,
				AuxAccount:     l.SubsidiaryAccount,
				AuxLabel:       l.SubsidiaryLabel,
				PieceRef:       e.Source.Number,
				PieceDate:      &pieceDate,
				EntryLabel:     label,
				Debit:          l.Debit,
				Credit:         l.Credit,
				ReconcileCode:  l.ReconciliationCode,
				ReconcileDate:  l.ReconciledAt,
				ValidationDate: e.ValidatedAt,
			}
			if l.IsForeignCurrency() {
				row.ForeignAmount = l.ForeignAmount
				row.CurrencyCode = l.ForeignCurrency
			}
			out = append(out, row)
		}
	}
	return out, nil
}

// formatRow renders the 18 columns and returns the indexes of text columns
// that were cut and of those that needed transliteration.
func formatRow(l domain.ExportLine) (row []string, truncated, transliterated []int) {
	foreign := ""
	if l.ForeignAmount != nil {
		foreign = fec.FormatAmount(domain.RoundMoney(*l.ForeignAmount))
	}
	raw := []string{
		l.JournalCode, l.JournalLabel, l.EntryNumber, fec.FormatDate(l.EntryDate),
		l.AccountNumber, l.AccountLabel, l.AuxAccount, l.AuxLabel,
		l.PieceRef, fec.FormatDate(l.PieceDate), l.EntryLabel,
		fec.FormatAmount(l.Debit), fec.FormatAmount(l.Credit),
		l.ReconcileCode, fec.FormatDate(l.ReconcileDate), fec.FormatDate(l.ValidationDate),
		foreign, l.CurrencyCode,
	}
	row = make([]string, len(raw))
	for i, v := range raw {
		col := fec.Columns[i]
		if col.Kind != fec.KindText {
			row[i] = v
			continue
		}
		clean, changed, cut := fec.SanitizeField(v, col.MaxLen)
		if changed {
			transliterated = append(transliterated, i)
		}
		if cut {
			truncated = append(truncated, i)
		}
		row[i] = clean
	}
	return row, truncated, transliterated
}

// validateRows collects every violation of the file rules. Rows are 1-based
// in the returned violations, the header excluded.
func validateRows(header []string, rows [][]string, start, end time.Time) ([]domain.ExportViolation, decimal.Decimal, decimal.Decimal) {
	var violations []domain.ExportViolation
	for _, p := range fec.ValidateHeader(header) {
		violations = append(violations, domain.ExportViolation{Rule: RuleHeader, Message: p})
	}

	startKey, endKey := start.Format(fec.DateLayout), end.Format(fec.DateLayout)
	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	type balance struct{ debit, credit decimal.Decimal }
	perEntry := make(map[string]*balance)
	var entryOrder []string

	for i, row := range rows {
		n := i + 1
		if len(row) != len(fec.Columns) {
			violations = append(violations, domain.ExportViolation{
				Row: n, Rule: RuleRowWidth,
				Message: fmt.Sprintf("row has %d fields, want %d", len(row), len(fec.Columns)),
			})
			continue
		}
		entryKey := row[0] + "-" + row[2]

		for c, col := range fec.Columns {
			v := row[c]
			if col.Mandatory && strings.TrimSpace(v) == "" {
				violations = append(violations, domain.ExportViolation{
					Row: n, Field: col.Name, Entry: entryKey, Rule: RuleMandatory,
					Message: col.Name + " is mandatory",
				})
			}
			if col.Kind == fec.KindDate && !fec.IsValidDate(v) {
				violations = append(violations, domain.ExportViolation{
					Row: n, Field: col.Name, Entry: entryKey, Rule: RuleDateFormat,
					Message: fmt.Sprintf("%s %q is not YYYYMMDD", col.Name, v),
				})
			}
		}

		debit, derr := fec.ParseAmount(row[fec.ColDebit])
		credit, cerr := fec.ParseAmount(row[fec.ColCredit])
		if derr != nil || cerr != nil {
			violations = append(violations, domain.ExportViolation{
				Row: n, Entry: entryKey, Rule: RuleAmount, Message: "debit or credit is not a decimal amount",
			})
			continue
		}
		if (row[fec.ColDebit] == "") == (row[fec.ColCredit] == "") {
			violations = append(violations, domain.ExportViolation{
				Row: n, Entry: entryKey, Rule: RuleExclusive,
				Message: "exactly one of Debit and Credit must be set",
			})
		}

		if d := row[fec.ColEntryDate]; d != "" && (d < startKey || d > endKey) {
			violations = append(violations, domain.ExportViolation{
				Row: n, Field: fec.Columns[fec.ColEntryDate].Name, Entry: entryKey, Rule: RulePeriodBound,
				Message: fmt.Sprintf("entry date %s outside %s-%s", d, startKey, endKey),
			})
		}

		b, ok := perEntry[entryKey]
		if !ok {
			b = &balance{debit: decimal.Zero, credit: decimal.Zero}
			perEntry[entryKey] = b
			entryOrder = append(entryOrder, entryKey)
		}
		b.debit = b.debit.Add(debit)
		b.credit = b.credit.Add(credit)
		totalDebit = totalDebit.Add(debit)
		totalCredit = totalCredit.Add(credit)
	}

	for _, key := range entryOrder {
		b := perEntry[key]
		if !b.debit.Equal(b.credit) {
			violations = append(violations, domain.ExportViolation{
				Entry: key, Rule: RuleEntryBal,
				Message: fmt.Sprintf("entry %s debit %s, credit %s", key, domain.FormatMoney(b.debit), domain.FormatMoney(b.credit)),
			})
		}
	}
	if !totalDebit.Equal(totalCredit) {
		violations = append(violations, domain.ExportViolation{
			Rule:    RuleGlobalBal,
			Message: fmt.Sprintf("file debit %s, credit %s", domain.FormatMoney(totalDebit), domain.FormatMoney(totalCredit)),
		})
	}
	return violations, totalDebit, totalCredit
}

package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SscSPs/ledger_integrity/internal/apperrors"
	"github.com/SscSPs/ledger_integrity/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_integrity/internal/core/ports/repositories"
)

// Chart is an in-memory chart of accounts, journal registry and fiscal calendar.
type Chart struct {
	mu       sync.RWMutex
	accounts map[string]domain.ChartAccount
	journals map[string]domain.LedgerJournal
	periods  []domain.FiscalPeriod
	lookups  int
}

// NewChart creates an empty chart.
func NewChart() *Chart {
	return &Chart{
		accounts: make(map[string]domain.ChartAccount),
		journals: make(map[string]domain.LedgerJournal),
	}
}

// NewDefaultChart seeds the sales accounts, the VT journal and one open
// fiscal period covering the calendar year.
func NewDefaultChart(year int) *Chart {
	c := NewChart()
	for code, label := range map[string]string{
		"411000": "Clients",
		"701000": "Ventes de produits finis 20%",
		"701100": "Ventes de produits finis 10%",
		"701200": "Ventes de produits finis 5,5%",
		"701300": "Ventes de produits finis 2,1%",
		"701900": "Ventes exonérées",
		"445711": "TVA collectée 20%",
		"445712": "TVA collectée 10%",
		"445713": "TVA collectée 5,5%",
		"445714": "TVA collectée 2,1%",
	} {
		c.AddAccount(domain.ChartAccount{Code: code, Label: label, IsActive: true})
	}
	c.AddJournal(domain.LedgerJournal{Code: "VT", Label: "Journal des ventes", Kind: domain.JournalSales, IsActive: true})
	c.AddPeriod(domain.FiscalPeriod{
		PeriodID:   fmt.Sprintf("FY%d", year),
		FiscalYear: year,
		StartDate:  time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC),
	})
	return c
}

var _ portsrepo.ChartReader = (*Chart)(nil)

// AddAccount adds or replaces an account.
func (c *Chart) AddAccount(a domain.ChartAccount) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accounts[a.Code] = a
}

// AddJournal adds or replaces a journal.
func (c *Chart) AddJournal(j domain.LedgerJournal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.journals[j.Code] = j
}

// AddPeriod appends a fiscal period.
func (c *Chart) AddPeriod(p domain.FiscalPeriod) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.periods = append(c.periods, p)
}

// ClosePeriods marks every period as closed.
func (c *Chart) ClosePeriods() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.periods {
		c.periods[i].Closed = true
	}
}

// Lookups returns how many account and journal lookups were served.
func (c *Chart) Lookups() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lookups
}

func (c *Chart) FindAccount(_ context.Context, code string) (*domain.ChartAccount, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lookups++
	a, ok := c.accounts[code]
	if !ok || !a.IsActive {
		return nil, apperrors.NewNotFoundError("account " + code)
	}
	return &a, nil
}

func (c *Chart) FindJournal(_ context.Context, code string) (*domain.LedgerJournal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lookups++
	j, ok := c.journals[code]
	if !ok || !j.IsActive {
		return nil, apperrors.NewNotFoundError("journal " + code)
	}
	return &j, nil
}

func (c *Chart) FindOpenPeriod(_ context.Context, date time.Time) (*domain.FiscalPeriod, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.periods {
		if !p.Closed && p.Covers(date) {
			return &p, nil
		}
	}
	return nil, apperrors.NewNotFoundError("open fiscal period for " + date.Format(domain.DateLayout))
}

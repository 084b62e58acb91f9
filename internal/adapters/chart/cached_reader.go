// Package chart wraps a chart-of-accounts reader with bounded caches.
package chart

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2"

	"github.com/SscSPs/ledger_integrity/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_integrity/internal/core/ports/repositories"
)

// CachedReader caches account and journal lookups. Fiscal periods open and
// close, so period lookups always reach the underlying reader. Misses are
// not cached.
type CachedReader struct {
	next     portsrepo.ChartReader
	accounts *lru.Cache[string, domain.ChartAccount]
	journals *lru.Cache[string, domain.LedgerJournal]
}

var _ portsrepo.ChartReader = (*CachedReader)(nil)

// NewCachedReader creates caches holding up to size entries each.
func NewCachedReader(next portsrepo.ChartReader, size int) (*CachedReader, error) {
	accounts, err := lru.New[string, domain.ChartAccount](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create account cache: %w", err)
	}
	journals, err := lru.New[string, domain.LedgerJournal](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create journal cache: %w", err)
	}
	return &CachedReader{next: next, accounts: accounts, journals: journals}, nil
}

func (r *CachedReader) FindAccount(ctx context.Context, code string) (*domain.ChartAccount, error) {
	if a, ok := r.accounts.Get(code); ok {
		return &a, nil
	}
	a, err := r.next.FindAccount(ctx, code)
	if err != nil {
		return nil, err
	}
	r.accounts.Add(code, *a)
	return a, nil
}

func (r *CachedReader) FindJournal(ctx context.Context, code string) (*domain.LedgerJournal, error) {
	if j, ok := r.journals.Get(code); ok {
		return &j, nil
	}
	j, err := r.next.FindJournal(ctx, code)
	if err != nil {
		return nil, err
	}
	r.journals.Add(code, *j)
	return j, nil
}

func (r *CachedReader) FindOpenPeriod(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error) {
	return r.next.FindOpenPeriod(ctx, date)
}

// Purge drops every cached entry.
func (r *CachedReader) Purge() {
	r.accounts.Purge()
	r.journals.Purge()
}

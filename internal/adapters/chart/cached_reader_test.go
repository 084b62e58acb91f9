package chart_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/ledger_integrity/internal/adapters/chart"
	"github.com/SscSPs/ledger_integrity/internal/apperrors"
	"github.com/SscSPs/ledger_integrity/internal/repositories/memory"
)

func TestCachedReaderServesRepeatLookupsFromCache(t *testing.T) {
	ctx := context.Background()
	base := memory.NewDefaultChart(2024)
	cached, err := chart.NewCachedReader(base, 16)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		a, err := cached.FindAccount(ctx, "411000")
		require.NoError(t, err)
		assert.Equal(t, "Clients", a.Label)

		j, err := cached.FindJournal(ctx, "VT")
		require.NoError(t, err)
		assert.Equal(t, "VT", j.Code)
	}
	assert.Equal(t, 2, base.Lookups())

	cached.Purge()
	_, err = cached.FindAccount(ctx, "411000")
	require.NoError(t, err)
	assert.Equal(t, 3, base.Lookups())
}

func TestCachedReaderDoesNotCacheMisses(t *testing.T) {
	ctx := context.Background()
	base := memory.NewDefaultChart(2024)
	cached, err := chart.NewCachedReader(base, 16)
	require.NoError(t, err)

	_, err = cached.FindAccount(ctx, "999999")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = cached.FindAccount(ctx, "999999")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, 2, base.Lookups())
}

func TestNewCachedReaderRejectsBadSize(t *testing.T) {
	_, err := chart.NewCachedReader(memory.NewChart(), 0)
	assert.Error(t, err)
}

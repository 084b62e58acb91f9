package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRateAccounts(t *testing.T) {
	rates, err := ParseRateAccounts(defaultRateAccounts)
	require.NoError(t, err)
	require.Len(t, rates, 4)
	assert.Equal(t, "5.5", rates[2].Rate.String())
	assert.Equal(t, "701200", rates[2].RevenueAccount)
	assert.Equal(t, "445713", rates[2].TaxAccount)

	_, err = ParseRateAccounts("20:701000")
	assert.Error(t, err)
	_, err = ParseRateAccounts("twenty:701000:445711")
	assert.Error(t, err)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SALES_JOURNAL_CODE", "VE")
	t.Setenv("BULK_DELETE_WINDOW", "90s")
	t.Setenv("SEALED_DOCUMENT_TYPES", "invoice, quote")
	t.Setenv("BUSINESS_TIMEZONE", "Not/AZone")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "VE", cfg.SalesJournalCode)
	assert.Equal(t, 90*time.Second, cfg.BulkDeleteWindow)
	assert.Equal(t, []string{"invoice", "quote"}, cfg.SealedDocumentTypes)
	assert.Equal(t, time.UTC, cfg.BusinessTimezone)
	assert.Equal(t, 1000, cfg.AuditRedactionMaxLength)
}

func TestLoadConfigRejectsInvertedBusinessHours(t *testing.T) {
	t.Setenv("BUSINESS_HOUR_START", "21")
	t.Setenv("BUSINESS_HOUR_END", "8")
	_, err := LoadConfig()
	assert.Error(t, err)
}

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/SscSPs/ledger_integrity/internal/adapters/keys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportFlagsRequest(t *testing.T) {
	req, err := exportFlags{start: "2024-01-01", end: "2024-12-31", taxID: "123456789", fiscalYear: 2024}.request()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), req.PeriodEnd)
	require.NotNil(t, req.FiscalYear)
	assert.Equal(t, 2024, *req.FiscalYear)

	req, err = exportFlags{start: "2024-01-01", end: "2024-01-31", taxID: "123456789"}.request()
	require.NoError(t, err)
	assert.Nil(t, req.FiscalYear)

	_, err = exportFlags{start: "01/01/2024", end: "2024-12-31", taxID: "123456789"}.request()
	assert.ErrorContains(t, err, "--start")

	_, err = exportFlags{start: "2024-12-31", end: "2024-01-01", taxID: "123456789"}.request()
	assert.ErrorContains(t, err, "before")

	_, err = exportFlags{start: "2024-01-01", end: "2024-12-31"}.request()
	assert.ErrorContains(t, err, "--tax-id")
}

func TestParseSince(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	got, err := parseSince("2024-03-01T08:00:00Z", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), got)

	got, err = parseSince("2024-03-01", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got)

	got, err = parseSince("48h", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC), got)

	_, err = parseSince("-1h", now)
	assert.Error(t, err)
	_, err = parseSince("last week", now)
	assert.Error(t, err)
}

func TestKeysGenerateWritesLoadableKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signing.pem")
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(&bytes.Buffer{})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	rootCmd.SetArgs([]string{"keys", "generate", "--bits", "2048", "--out", path, "--passphrase-env", ""})
	require.NoError(t, rootCmd.Execute())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	signer, err := keys.LoadSignerFromFile(path, "")
	require.NoError(t, err)
	assert.True(t, signer.CanSign())
	assert.Contains(t, out.String(), signer.Fingerprint())

	rootCmd.SetArgs([]string{"keys", "generate", "--bits", "2048", "--out", path, "--passphrase-env", ""})
	assert.Error(t, rootCmd.Execute(), "an existing key must not be overwritten")
}

func TestFailedError(t *testing.T) {
	err := failedf("broken chains: %s", "invoice")
	assert.EqualError(t, err, "broken chains: invoice")
}

package services_test

import (
	"crypto/rand"
	"crypto/rsa"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/ledger_integrity/internal/adapters/keys"
	"github.com/SscSPs/ledger_integrity/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_integrity/internal/core/ports/services"
	"github.com/SscSPs/ledger_integrity/internal/core/services"
	"github.com/SscSPs/ledger_integrity/internal/repositories/memory"
)

// testClock is a settable clock shared by every service of a test env.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock(t time.Time) *testClock { return &testClock{t: t} }

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

var (
	sharedKeyOnce sync.Once
	sharedKey     *rsa.PrivateKey
	sharedKeyErr  error
)

func testSigner(t *testing.T) *keys.RSASigner {
	t.Helper()
	sharedKeyOnce.Do(func() {
		sharedKey, sharedKeyErr = rsa.GenerateKey(rand.Reader, 2048)
	})
	require.NoError(t, sharedKeyErr)
	s, err := keys.NewRSASigner(sharedKey)
	require.NoError(t, err)
	return s
}

// businessMorning is a Friday, 10:00 UTC.
var businessMorning = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	store     *memory.Store
	chart     *memory.Chart
	clock     *testClock
	audit     portssvc.AuditSvcFacade
	integrity portssvc.IntegritySvcFacade
	posting   portssvc.PostingSvcFacade
	export    portssvc.ExportSvc
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithSigner(testSigner(t))
}

func newTestEnvWithSigner(signer portssvc.Signer) *testEnv {
	return newTestEnvOver(memory.NewStore(), memory.NewDefaultChart(2024), signer)
}

// newTestEnvOver wires fresh services over an existing store and chart.
func newTestEnvOver(store *memory.Store, chart *memory.Chart, signer portssvc.Signer) *testEnv {
	env := &testEnv{
		store: store,
		chart: chart,
		clock: newTestClock(businessMorning),
	}
	env.audit = services.NewAuditService(env.store,
		services.WithAuditClock(env.clock),
		services.WithBusinessHours(7, 20, time.UTC),
		services.WithWeekendFlagging(true),
		services.WithBulkDeleteRule(5, time.Minute),
	)
	env.integrity = services.NewIntegrityService(env.store, signer,
		services.WithDocumentTypes(
			domain.DocumentTypeInvoice,
			domain.DocumentTypeCreditNote,
			domain.DocumentTypeQuote,
			domain.DocumentTypeLedgerEntry,
		),
		services.WithIntegrityClock(env.clock),
		services.WithAuditTrail(env.audit),
	)
	env.posting = services.NewPostingService(env.store, env.chart, env.integrity, env.audit,
		services.WithPostingClock(env.clock),
	)
	env.export = services.NewExportService(env.store, env.chart, env.audit,
		services.WithExportClock(env.clock),
	)
	return env
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// sampleInvoice is 10 items at 100.00 with 20 % tax: 1200.00 inclusive.
func sampleInvoice(id, number string) domain.Invoice {
	return domain.Invoice{
		InvoiceID:        id,
		Number:           number,
		Kind:             domain.InvoiceKindStandard,
		IssueDate:        time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		CounterpartyID:   42,
		CounterpartyName: "ACME SARL",
		Currency:         "EUR",
		Status:           "issued",
		Lines: []domain.InvoiceLine{
			{LineID: "L1", Description: "Widget", Quantity: dec("10"), UnitPrice: dec("100.00"), TaxRate: dec("20")},
		},
		Version: 1,
	}
}

func sampleQuote(id string) domain.Quote {
	return domain.Quote{
		QuoteID:        id,
		Number:         "Q-" + id,
		IssueDate:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil:     time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		CounterpartyID: 42,
		Status:         "sent",
		Lines: []domain.InvoiceLine{
			{LineID: "Q1", Quantity: dec("1"), UnitPrice: dec("100.00"), TaxRate: dec("10")},
		},
	}
}

var testActor = domain.Actor{ID: "user-1", IPAddress: "10.0.0.1", UserAgent: "go-test", SessionID: "sess-1"}

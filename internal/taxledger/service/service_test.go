package service

import (
	"bufio"
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	clientdomain "github.com/viatica/backoffice/internal/client/domain"
	invoicedomain "github.com/viatica/backoffice/internal/invoice/domain"
	"github.com/viatica/backoffice/internal/taxledger/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newLedgerService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&clientdomain.Client{},
		&invoicedomain.Document{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{DB: db, Log: zap.NewNop()})
	return svc, db, node
}

func seedDocument(t *testing.T, db *gorm.DB, doc invoicedomain.Document) {
	t.Helper()
	require.NoError(t, db.Create(&doc).Error)
}

func TestBuildLedger(t *testing.T) {
	svc, db, node := newLedgerService(t)

	client := clientdomain.Client{
		ID:           node.Generate(),
		Name:         "Turismo Norte SA",
		TaxID:        "30-33333333-9",
		VATCondition: clientdomain.VATConditionRegistered,
	}
	require.NoError(t, db.Create(&client).Error)

	august := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)

	seedDocument(t, db, invoicedomain.Document{
		ID: node.Generate(), Kind: invoicedomain.KindInvoice, Letter: "A",
		Status: invoicedomain.StatusIssued, PointOfSale: 1, Number: 1,
		BookingID: node.Generate(), ServiceID: node.Generate(), ClientID: client.ID,
		TaxableBase21: 1000, VAT21Amount: 210, OtherTaxes: 40, Total: 1250,
		IssuedAt: august,
	})
	seedDocument(t, db, invoicedomain.Document{
		ID: node.Generate(), Kind: invoicedomain.KindCreditNote, Letter: "A",
		Status: invoicedomain.StatusIssued, PointOfSale: 1, Number: 2,
		BookingID: node.Generate(), ServiceID: node.Generate(), ClientID: client.ID,
		TaxableBase21: 400, VAT21Amount: 84, Total: 484,
		IssuedAt: august.Add(24 * time.Hour),
	})
	// voided documents never reach the ledger
	seedDocument(t, db, invoicedomain.Document{
		ID: node.Generate(), Kind: invoicedomain.KindInvoice, Letter: "A",
		Status: invoicedomain.StatusVoid, PointOfSale: 1, Number: 3,
		BookingID: node.Generate(), ServiceID: node.Generate(), ClientID: client.ID,
		TaxableBase21: 9999, VAT21Amount: 2100, Total: 12099,
		IssuedAt: august.Add(48 * time.Hour),
	})
	// outside the period
	seedDocument(t, db, invoicedomain.Document{
		ID: node.Generate(), Kind: invoicedomain.KindInvoice, Letter: "A",
		Status: invoicedomain.StatusIssued, PointOfSale: 1, Number: 4,
		BookingID: node.Generate(), ServiceID: node.Generate(), ClientID: client.ID,
		TaxableBase21: 500, VAT21Amount: 105, Total: 605,
		IssuedAt: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	})

	ledger, err := svc.Build(context.Background(), "2026-08")
	require.NoError(t, err)

	require.Len(t, ledger.Rows, 2)
	assert.Equal(t, "0001-00000001", ledger.Rows[0].Number)
	assert.Equal(t, "Turismo Norte SA", ledger.Rows[0].ClientName)
	assert.InDelta(t, -400, ledger.Rows[1].TaxableBase21, 1e-9)
	assert.InDelta(t, -84, ledger.Rows[1].VAT21, 1e-9)

	assert.InDelta(t, 600, ledger.Totals.TaxableBase21, 1e-9)
	assert.InDelta(t, 126, ledger.Totals.VAT21, 1e-9)
	assert.InDelta(t, 40, ledger.Totals.OtherTaxes, 1e-9)
	assert.InDelta(t, 766, ledger.Totals.Total, 1e-9)
}

func TestBuildLedgerRejectsBadPeriod(t *testing.T) {
	svc, _, _ := newLedgerService(t)

	_, err := svc.Build(context.Background(), "agosto")
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
}

func TestExportCSV(t *testing.T) {
	svc, db, node := newLedgerService(t)

	client := clientdomain.Client{ID: node.Generate(), Name: "Cliente CSV"}
	require.NoError(t, db.Create(&client).Error)

	seedDocument(t, db, invoicedomain.Document{
		ID: node.Generate(), Kind: invoicedomain.KindInvoice, Letter: "B",
		Status: invoicedomain.StatusIssued, PointOfSale: 2, Number: 1,
		BookingID: node.Generate(), ServiceID: node.Generate(), ClientID: client.ID,
		TaxableBase21: 100, VAT21Amount: 21, Total: 121,
		IssuedAt: time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC),
	})

	reader, err := svc.ExportCSV(context.Background(), "2026-08")
	require.NoError(t, err)

	scanner := bufio.NewScanner(reader)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.NoError(t, scanner.Err())

	// header + one row + totals
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "neto_21")
	assert.Contains(t, lines[1], "0002-00000001")
	assert.Contains(t, lines[2], "TOTALES")
}

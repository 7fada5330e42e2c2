package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	bookingdomain "github.com/viatica/backoffice/internal/booking/domain"
	bookingrepo "github.com/viatica/backoffice/internal/booking/repository"
	clientdomain "github.com/viatica/backoffice/internal/client/domain"
	clientrepo "github.com/viatica/backoffice/internal/client/repository"
	"github.com/viatica/backoffice/internal/config"
	"github.com/viatica/backoffice/internal/providers/pdf"
	"github.com/viatica/backoffice/internal/receipt/domain"
	receiptrepo "github.com/viatica/backoffice/internal/receipt/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newReceiptFixture(t *testing.T) (domain.Service, *gorm.DB, bookingdomain.Booking) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&clientdomain.Client{},
		&bookingdomain.Booking{},
		&bookingdomain.Service{},
		&domain.Receipt{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	client := clientdomain.Client{
		ID:   node.Generate(),
		Name: "Cliente Recibo",
	}
	require.NoError(t, db.Create(&client).Error)

	booking := bookingdomain.Booking{
		ID:         node.Generate(),
		FileNumber: "F-2026-0200",
		ClientID:   client.ID,
		Status:     bookingdomain.BookingStatusConfirmed,
	}
	require.NoError(t, db.Create(&booking).Error)

	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		Cfg:         config.Config{AgencyName: "Viatica Viajes", AgencyCUIT: "30-99999999-5"},
		GenID:       node,
		Repo:        receiptrepo.Provide(),
		BookingRepo: bookingrepo.Provide(),
		ClientRepo:  clientrepo.Provide(),
		PDF:         pdf.New(),
	})

	return svc, db, booking
}

func TestCreateReceipt(t *testing.T) {
	svc, _, booking := newReceiptFixture(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, domain.CreateReceiptRequest{
		BookingID:   booking.ID.String(),
		PointOfSale: 1,
		Amount:      500,
		Method:      "transferencia",
		Concept:     "Seña paquete Bariloche",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.Number)
	assert.Equal(t, booking.ClientID, first.ClientID)
	assert.Equal(t, domain.MethodTransfer, first.Method)
	assert.False(t, first.ReceivedAt.IsZero())

	second, err := svc.Create(ctx, domain.CreateReceiptRequest{
		BookingID:   booking.ID.String(),
		PointOfSale: 1,
		Amount:      700,
		Method:      "EFECTIVO",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Number)
	assert.Equal(t, domain.MethodCash, second.Method)
}

func TestCreateReceiptValidation(t *testing.T) {
	svc, _, booking := newReceiptFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateReceiptRequest{
		BookingID: booking.ID.String(), PointOfSale: 1, Amount: 0, Method: "efectivo",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Create(ctx, domain.CreateReceiptRequest{
		BookingID: booking.ID.String(), PointOfSale: 1, Amount: 100, Method: "cheque",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidMethod)

	_, err = svc.Create(ctx, domain.CreateReceiptRequest{
		BookingID: booking.ID.String(), PointOfSale: 0, Amount: 100, Method: "efectivo",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPointOfSale)

	_, err = svc.Create(ctx, domain.CreateReceiptRequest{
		BookingID: "not-an-id", PointOfSale: 1, Amount: 100, Method: "efectivo",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestListReceiptsByBooking(t *testing.T) {
	svc, _, booking := newReceiptFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, domain.CreateReceiptRequest{
			BookingID:   booking.ID.String(),
			PointOfSale: 1,
			Amount:      100,
			Method:      "tarjeta",
		})
		require.NoError(t, err)
	}

	resp, err := svc.List(ctx, domain.ListReceiptRequest{BookingID: booking.ID.String()})
	require.NoError(t, err)
	assert.Len(t, resp.Receipts, 3)
	assert.False(t, resp.HasMore)
}

func TestRenderReceiptPDF(t *testing.T) {
	svc, _, booking := newReceiptFixture(t)
	ctx := context.Background()

	receipt, err := svc.Create(ctx, domain.CreateReceiptRequest{
		BookingID:   booking.ID.String(),
		PointOfSale: 1,
		Amount:      300,
		Method:      "efectivo",
	})
	require.NoError(t, err)

	reader, err := svc.RenderPDF(ctx, receipt.ID.String())
	require.NoError(t, err)
	require.NotNil(t, reader)
}

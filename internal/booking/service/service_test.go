package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	billingservice "github.com/viatica/backoffice/internal/billing/service"
	"github.com/viatica/backoffice/internal/booking/domain"
	bookingrepo "github.com/viatica/backoffice/internal/booking/repository"
	clientdomain "github.com/viatica/backoffice/internal/client/domain"
	clientrepo "github.com/viatica/backoffice/internal/client/repository"
	"github.com/viatica/backoffice/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.BookingService, *gorm.DB, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&clientdomain.Client{},
		&domain.Booking{},
		&domain.Service{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	policy := config.DefaultBillingPolicy()
	policy.TransferFeePct = 0

	billingSvc := billingservice.New(billingservice.Params{
		Log:    zap.NewNop(),
		Policy: config.StaticBillingPolicyHolder(policy),
	})

	svc := New(Params{
		DB:         db,
		Log:        zap.NewNop(),
		GenID:      node,
		Repo:       bookingrepo.Provide(),
		ClientRepo: clientrepo.Provide(),
		Billing:    billingSvc,
	})

	return svc, db, node
}

func seedClient(t *testing.T, db *gorm.DB, node *snowflake.Node) clientdomain.Client {
	t.Helper()

	client := clientdomain.Client{
		ID:           node.Generate(),
		Name:         "Agencia Demo SA",
		TaxID:        "30-11111111-7",
		VATCondition: clientdomain.VATConditionRegistered,
	}
	require.NoError(t, db.Create(&client).Error)
	return client
}

func TestCreateBooking(t *testing.T) {
	svc, db, node := newTestService(t)
	client := seedClient(t, db, node)
	ctx := context.Background()

	booking, err := svc.Create(ctx, domain.CreateBookingRequest{
		FileNumber:  "F-2026-0001",
		ClientID:    client.ID.String(),
		Destination: "Bariloche",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusOpen, booking.Status)
	assert.Equal(t, client.ID, booking.ClientID)

	_, err = svc.Create(ctx, domain.CreateBookingRequest{
		FileNumber: "F-2026-0001",
		ClientID:   client.ID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateFile)
}

func TestCreateBookingUnknownClient(t *testing.T) {
	svc, _, node := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateBookingRequest{
		FileNumber: "F-2026-0002",
		ClientID:   node.Generate().String(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidClient)
}

func TestAddServicePersistsBreakdown(t *testing.T) {
	svc, db, node := newTestService(t)
	client := seedClient(t, db, node)
	ctx := context.Background()

	booking, err := svc.Create(ctx, domain.CreateBookingRequest{
		FileNumber: "F-2026-0003",
		ClientID:   client.ID.String(),
	})
	require.NoError(t, err)

	req := domain.ServiceRequest{Description: "Hotel 7 noches"}
	req.Billing.SalePrice = 1210
	req.Billing.CostPrice = 1000
	req.Billing.VAT21Amount = 210

	saved, err := svc.AddService(ctx, booking.ID.String(), req)
	require.NoError(t, err)

	assert.InDelta(t, 1000, saved.TaxableBase21, 1e-9)
	assert.InDelta(t, -210, saved.NonComputable, 1e-9)
	assert.InDelta(t, 210/1.21, saved.TotalCommissionWithoutVAT, 1e-9)
	assert.Equal(t, "auto", saved.Mode)

	var stored domain.Service
	require.NoError(t, db.First(&stored, "id = ?", saved.ID).Error)
	assert.InDelta(t, saved.TotalCommissionWithoutVAT, stored.TotalCommissionWithoutVAT, 1e-9)
}

func TestUpdateServiceRecomputes(t *testing.T) {
	svc, db, node := newTestService(t)
	client := seedClient(t, db, node)
	ctx := context.Background()

	booking, err := svc.Create(ctx, domain.CreateBookingRequest{
		FileNumber: "F-2026-0004",
		ClientID:   client.ID.String(),
	})
	require.NoError(t, err)

	req := domain.ServiceRequest{Description: "Paquete"}
	req.Billing.SalePrice = 1210
	req.Billing.CostPrice = 1000
	req.Billing.VAT21Amount = 210

	saved, err := svc.AddService(ctx, booking.ID.String(), req)
	require.NoError(t, err)

	req.Billing.SalePrice = 1500
	updated, err := svc.UpdateService(ctx, booking.ID.String(), saved.ID.String(), req)
	require.NoError(t, err)

	assert.InDelta(t, 1500, updated.SalePrice, 1e-9)
	assert.Greater(t, updated.TotalCommissionWithoutVAT, saved.TotalCommissionWithoutVAT)
}

func TestClosedBookingRejectsEdits(t *testing.T) {
	svc, db, node := newTestService(t)
	client := seedClient(t, db, node)
	ctx := context.Background()

	booking, err := svc.Create(ctx, domain.CreateBookingRequest{
		FileNumber: "F-2026-0005",
		ClientID:   client.ID.String(),
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, domain.UpdateStatusRequest{
		ID:     booking.ID.String(),
		Status: "closed",
	})
	require.NoError(t, err)

	req := domain.ServiceRequest{Description: "Excursion"}
	req.Billing.SalePrice = 100

	_, err = svc.AddService(ctx, booking.ID.String(), req)
	assert.ErrorIs(t, err, domain.ErrBookingClosed)
}

func TestRemoveService(t *testing.T) {
	svc, db, node := newTestService(t)
	client := seedClient(t, db, node)
	ctx := context.Background()

	booking, err := svc.Create(ctx, domain.CreateBookingRequest{
		FileNumber: "F-2026-0006",
		ClientID:   client.ID.String(),
	})
	require.NoError(t, err)

	req := domain.ServiceRequest{Description: "Traslado"}
	req.Billing.SalePrice = 300
	saved, err := svc.AddService(ctx, booking.ID.String(), req)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveService(ctx, booking.ID.String(), saved.ID.String()))

	err = svc.RemoveService(ctx, booking.ID.String(), saved.ID.String())
	assert.ErrorIs(t, err, domain.ErrServiceNotFound)
}

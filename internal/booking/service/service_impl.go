package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/viatica/backoffice/internal/billing/breakdown"
	billingdomain "github.com/viatica/backoffice/internal/billing/domain"
	"github.com/viatica/backoffice/internal/booking/domain"
	clientdomain "github.com/viatica/backoffice/internal/client/domain"
	"github.com/viatica/backoffice/pkg/db"
	"github.com/viatica/backoffice/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	ClientRepo clientdomain.Repository
	Billing    billingdomain.Service
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	clientRepo clientdomain.Repository
	billing    billingdomain.Service
}

func New(p Params) domain.BookingService {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("booking.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		clientRepo: p.ClientRepo,
		billing:    p.Billing,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateBookingRequest) (domain.Booking, error) {
	fileNumber := strings.TrimSpace(req.FileNumber)
	if fileNumber == "" {
		return domain.Booking{}, domain.ErrInvalidFileNumber
	}

	clientID, err := snowflake.ParseString(strings.TrimSpace(req.ClientID))
	if err != nil {
		return domain.Booking{}, domain.ErrInvalidClient
	}
	client, err := s.clientRepo.FindByID(ctx, s.db, clientID)
	if err != nil {
		return domain.Booking{}, err
	}
	if client == nil {
		return domain.Booking{}, domain.ErrInvalidClient
	}

	now := time.Now().UTC()
	booking := domain.Booking{
		ID:            s.genID.Generate(),
		FileNumber:    fileNumber,
		ClientID:      clientID,
		Status:        domain.BookingStatusOpen,
		Destination:   strings.TrimSpace(req.Destination),
		DepartureDate: req.DepartureDate,
		ReturnDate:    req.ReturnDate,
		Notes:         strings.TrimSpace(req.Notes),
		Metadata:      datatypes.JSONMap{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Insert(ctx, s.db, &booking); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Booking{}, domain.ErrDuplicateFile
		}
		return domain.Booking{}, err
	}

	return booking, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Booking, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil {
		return domain.Booking{}, domain.ErrInvalidID
	}

	booking, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if booking == nil {
		return domain.Booking{}, domain.ErrNotFound
	}
	return *booking, nil
}

func (s *Service) List(ctx context.Context, req domain.ListBookingRequest) (domain.ListBookingResponse, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, domain.ListBookingFilter{
		ClientID: strings.TrimSpace(req.ClientID),
		Status:   strings.TrimSpace(req.Status),
	}, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListBookingResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(booking *domain.Booking) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        booking.ID.String(),
			CreatedAt: booking.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	bookings := make([]domain.Booking, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		bookings = append(bookings, *item)
	}

	return domain.ListBookingResponse{
		PageInfo: *pageInfo,
		Bookings: bookings,
	}, nil
}

func (s *Service) UpdateStatus(ctx context.Context, req domain.UpdateStatusRequest) (domain.Booking, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return domain.Booking{}, domain.ErrInvalidID
	}

	status := domain.BookingStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	switch status {
	case domain.BookingStatusOpen, domain.BookingStatusConfirmed,
		domain.BookingStatusClosed, domain.BookingStatusCancelled:
	default:
		return domain.Booking{}, domain.ErrInvalidStatus
	}

	booking, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if booking == nil {
		return domain.Booking{}, domain.ErrNotFound
	}

	booking.Status = status
	booking.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, s.db, booking); err != nil {
		return domain.Booking{}, err
	}
	return *booking, nil
}

func (s *Service) AddService(ctx context.Context, bookingID string, req domain.ServiceRequest) (domain.Service, error) {
	booking, err := s.editableBooking(ctx, bookingID)
	if err != nil {
		return domain.Service{}, err
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return domain.Service{}, domain.ErrInvalidDescription
	}

	in := s.billing.ResolveInput(req.Billing)
	res, err := breakdown.Compute(in)
	if err != nil {
		return domain.Service{}, err
	}

	now := time.Now().UTC()
	svc := domain.Service{
		ID:          s.genID.Generate(),
		BookingID:   booking.ID,
		Description: description,
		Operator:    strings.TrimSpace(req.Operator),
		ServiceDate: req.ServiceDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	applyFigures(&svc, in)
	svc.ApplyBreakdown(res)

	if err := s.repo.InsertService(ctx, s.db, &svc); err != nil {
		return domain.Service{}, err
	}
	return svc, nil
}

func (s *Service) UpdateService(ctx context.Context, bookingID, serviceID string, req domain.ServiceRequest) (domain.Service, error) {
	booking, err := s.editableBooking(ctx, bookingID)
	if err != nil {
		return domain.Service{}, err
	}

	svcID, err := snowflake.ParseString(strings.TrimSpace(serviceID))
	if err != nil {
		return domain.Service{}, domain.ErrInvalidID
	}

	svc, err := s.repo.FindServiceByID(ctx, s.db, booking.ID, svcID)
	if err != nil {
		return domain.Service{}, err
	}
	if svc == nil {
		return domain.Service{}, domain.ErrServiceNotFound
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return domain.Service{}, domain.ErrInvalidDescription
	}

	// Every edit recomputes the whole breakdown; stale columns from a
	// previous engine run never survive an update.
	in := s.billing.ResolveInput(req.Billing)
	res, err := breakdown.Compute(in)
	if err != nil {
		return domain.Service{}, err
	}

	svc.Description = description
	svc.Operator = strings.TrimSpace(req.Operator)
	svc.ServiceDate = req.ServiceDate
	applyFigures(svc, in)
	svc.ApplyBreakdown(res)
	svc.UpdatedAt = time.Now().UTC()

	if err := s.repo.SaveService(ctx, s.db, svc); err != nil {
		return domain.Service{}, err
	}
	return *svc, nil
}

func (s *Service) RemoveService(ctx context.Context, bookingID, serviceID string) error {
	booking, err := s.editableBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	svcID, err := snowflake.ParseString(strings.TrimSpace(serviceID))
	if err != nil {
		return domain.ErrInvalidID
	}

	svc, err := s.repo.FindServiceByID(ctx, s.db, booking.ID, svcID)
	if err != nil {
		return err
	}
	if svc == nil {
		return domain.ErrServiceNotFound
	}

	return s.repo.DeleteService(ctx, s.db, booking.ID, svcID)
}

func (s *Service) editableBooking(ctx context.Context, rawID string) (*domain.Booking, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	booking, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, domain.ErrNotFound
	}
	if booking.Status == domain.BookingStatusClosed || booking.Status == domain.BookingStatusCancelled {
		return nil, domain.ErrBookingClosed
	}
	return booking, nil
}

// applyFigures stores the figures the engine actually ran with, including the
// mode and fee resolved from agency policy.
func applyFigures(svc *domain.Service, in breakdown.Input) {
	svc.Mode = string(in.Mode)
	svc.SalePrice = in.SalePrice
	svc.CostPrice = in.CostPrice
	svc.VAT21Amount = in.VAT21Amount
	svc.VAT105Amount = in.VAT105Amount
	svc.ExemptAmount = in.ExemptAmount
	svc.OtherTaxesAmount = in.OtherTaxesAmount
	svc.CardInterestAmount = in.CardInterestAmount
	svc.CardInterestVATAmount = in.CardInterestVATAmount
	svc.TransferFeePct = in.TransferFeePct
}

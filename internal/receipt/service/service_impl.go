package service

import (
	"context"
	"io"
	"math"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	bookingdomain "github.com/viatica/backoffice/internal/booking/domain"
	clientdomain "github.com/viatica/backoffice/internal/client/domain"
	"github.com/viatica/backoffice/internal/config"
	"github.com/viatica/backoffice/internal/providers/pdf"
	"github.com/viatica/backoffice/internal/receipt/domain"
	"github.com/viatica/backoffice/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Cfg         config.Config
	GenID       *snowflake.Node
	Repo        domain.Repository
	BookingRepo bookingdomain.Repository
	ClientRepo  clientdomain.Repository
	PDF         pdf.Provider
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	cfg         config.Config
	genID       *snowflake.Node
	repo        domain.Repository
	bookingRepo bookingdomain.Repository
	clientRepo  clientdomain.Repository
	pdf         pdf.Provider
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("receipt.service"),
		cfg:         p.Cfg,
		genID:       p.GenID,
		repo:        p.Repo,
		bookingRepo: p.BookingRepo,
		clientRepo:  p.ClientRepo,
		pdf:         p.PDF,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateReceiptRequest) (domain.Receipt, error) {
	if req.Amount <= 0 || math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
		return domain.Receipt{}, domain.ErrInvalidAmount
	}
	method := domain.PaymentMethod(strings.ToLower(strings.TrimSpace(req.Method)))
	if !method.Valid() {
		return domain.Receipt{}, domain.ErrInvalidMethod
	}
	if req.PointOfSale <= 0 {
		return domain.Receipt{}, domain.ErrInvalidPointOfSale
	}

	bookingID, err := snowflake.ParseString(strings.TrimSpace(req.BookingID))
	if err != nil {
		return domain.Receipt{}, domain.ErrInvalidID
	}

	booking, err := s.bookingRepo.FindByID(ctx, s.db, bookingID)
	if err != nil {
		return domain.Receipt{}, err
	}
	if booking == nil {
		return domain.Receipt{}, domain.ErrNotFound
	}

	now := time.Now().UTC()
	receivedAt := now
	if req.ReceivedAt != nil {
		receivedAt = req.ReceivedAt.UTC()
	}

	receipt := domain.Receipt{
		ID:          s.genID.Generate(),
		PointOfSale: req.PointOfSale,
		BookingID:   bookingID,
		ClientID:    booking.ClientID,
		Amount:      req.Amount,
		Method:      method,
		Concept:     strings.TrimSpace(req.Concept),
		ReceivedAt:  receivedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := s.repo.NextNumber(ctx, tx, req.PointOfSale)
		if err != nil {
			return err
		}
		receipt.Number = number
		return s.repo.Insert(ctx, tx, &receipt)
	})
	if err != nil {
		return domain.Receipt{}, err
	}

	s.log.Info("receipt created",
		zap.String("number", receipt.FormattedNumber()),
		zap.String("booking_id", receipt.BookingID.String()),
		zap.Float64("amount", receipt.Amount),
	)

	return receipt, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Receipt, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil {
		return domain.Receipt{}, domain.ErrInvalidID
	}

	receipt, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Receipt{}, err
	}
	if receipt == nil {
		return domain.Receipt{}, domain.ErrNotFound
	}
	return *receipt, nil
}

func (s *Service) List(ctx context.Context, req domain.ListReceiptRequest) (domain.ListReceiptResponse, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, domain.ListReceiptFilter{
		BookingID: strings.TrimSpace(req.BookingID),
		ClientID:  strings.TrimSpace(req.ClientID),
		From:      req.From,
		To:        req.To,
	}, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListReceiptResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(r *domain.Receipt) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        r.ID.String(),
			CreatedAt: r.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	receipts := make([]domain.Receipt, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		receipts = append(receipts, *item)
	}

	return domain.ListReceiptResponse{
		PageInfo: *pageInfo,
		Receipts: receipts,
	}, nil
}

func (s *Service) RenderPDF(ctx context.Context, rawID string) (io.Reader, error) {
	receipt, err := s.GetByID(ctx, rawID)
	if err != nil {
		return nil, err
	}

	client, err := s.clientRepo.FindByID(ctx, s.db, receipt.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}

	return s.pdf.GenerateReceipt(ctx, pdf.ReceiptData{
		Number:      receipt.FormattedNumber(),
		DatePaid:    receipt.ReceivedAt.Format("02/01/2006"),
		AgencyName:  s.cfg.AgencyName,
		AgencyCUIT:  s.cfg.AgencyCUIT,
		ClientName:  client.Name,
		ClientTaxID: client.TaxID,
		Concept:     receipt.Concept,
		Method:      string(receipt.Method),
		Amount:      receipt.Amount,
	})
}

package service

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	bookingdomain "github.com/viatica/backoffice/internal/booking/domain"
	clientdomain "github.com/viatica/backoffice/internal/client/domain"
	"github.com/viatica/backoffice/internal/config"
	"github.com/viatica/backoffice/internal/invoice/domain"
	obsmetrics "github.com/viatica/backoffice/internal/observability/metrics"
	"github.com/viatica/backoffice/internal/providers/pdf"
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
	ObsMetrics  *obsmetrics.Metrics `optional:"true"`
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
	obsMetrics  *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("invoice.service"),
		cfg:         p.Cfg,
		genID:       p.GenID,
		repo:        p.Repo,
		bookingRepo: p.BookingRepo,
		clientRepo:  p.ClientRepo,
		pdf:         p.PDF,
		obsMetrics:  p.ObsMetrics,
	}
}

func (s *Service) Issue(ctx context.Context, req domain.IssueRequest) (domain.Document, error) {
	kind := domain.DocumentKind(strings.ToUpper(strings.TrimSpace(req.Kind)))
	if kind != domain.KindInvoice && kind != domain.KindCreditNote {
		return domain.Document{}, domain.ErrInvalidKind
	}
	if req.PointOfSale <= 0 {
		return domain.Document{}, domain.ErrInvalidPointOfSale
	}

	bookingID, err := snowflake.ParseString(strings.TrimSpace(req.BookingID))
	if err != nil {
		return domain.Document{}, domain.ErrInvalidID
	}
	serviceID, err := snowflake.ParseString(strings.TrimSpace(req.ServiceID))
	if err != nil {
		return domain.Document{}, domain.ErrInvalidID
	}

	booking, err := s.bookingRepo.FindByID(ctx, s.db, bookingID)
	if err != nil {
		return domain.Document{}, err
	}
	if booking == nil {
		return domain.Document{}, domain.ErrNotFound
	}

	svc, err := s.bookingRepo.FindServiceByID(ctx, s.db, bookingID, serviceID)
	if err != nil {
		return domain.Document{}, err
	}
	if svc == nil {
		return domain.Document{}, domain.ErrServiceNotFound
	}

	client, err := s.clientRepo.FindByID(ctx, s.db, booking.ClientID)
	if err != nil {
		return domain.Document{}, err
	}
	if client == nil {
		return domain.Document{}, domain.ErrNotFound
	}

	var refID *snowflake.ID
	if kind == domain.KindCreditNote {
		parsed, err := snowflake.ParseString(strings.TrimSpace(req.RefID))
		if err != nil {
			return domain.Document{}, domain.ErrInvalidReference
		}
		ref, err := s.repo.FindByID(ctx, s.db, parsed)
		if err != nil {
			return domain.Document{}, err
		}
		if ref == nil || ref.Kind != domain.KindInvoice {
			return domain.Document{}, domain.ErrInvalidReference
		}
		refID = &parsed
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = svc.Description
	}

	now := time.Now().UTC()
	doc := domain.Document{
		ID:          s.genID.Generate(),
		Kind:        kind,
		Letter:      letterFor(client.VATCondition),
		Status:      domain.StatusIssued,
		PointOfSale: req.PointOfSale,
		BookingID:   bookingID,
		ServiceID:   serviceID,
		ClientID:    client.ID,
		RefID:       refID,
		Description: description,

		// Copied from the service row, never recomputed here.
		TaxableBase21:       svc.TaxableBase21,
		TaxableBase105:      svc.TaxableBase105,
		VAT21Amount:         svc.VAT21Amount,
		VAT105Amount:        svc.VAT105Amount,
		ExemptAmount:        svc.ExemptAmount,
		NonComputable:       svc.NonComputable,
		OtherTaxes:          svc.OtherTaxes,
		TaxableCardInterest: svc.TaxableCardInterest,
		VATOnCardInterest:   svc.VATOnCardInterest,

		Total: svc.SalePrice + svc.OtherTaxesAmount + svc.CardInterestAmount + svc.CardInterestVATAmount,

		IssuedAt:  now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := s.repo.NextNumber(ctx, tx, req.PointOfSale)
		if err != nil {
			return err
		}
		doc.Number = number
		return s.repo.Insert(ctx, tx, &doc)
	})
	if err != nil {
		return domain.Document{}, err
	}

	s.obsMetrics.RecordDocumentIssued(string(doc.Kind))
	s.log.Info("document issued",
		zap.String("kind", string(doc.Kind)),
		zap.String("number", doc.FormattedNumber()),
		zap.String("client_id", doc.ClientID.String()),
	)

	return doc, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Document, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil {
		return domain.Document{}, domain.ErrInvalidID
	}

	doc, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Document{}, err
	}
	if doc == nil {
		return domain.Document{}, domain.ErrNotFound
	}
	return *doc, nil
}

func (s *Service) List(ctx context.Context, req domain.ListDocumentRequest) (domain.ListDocumentResponse, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, domain.ListDocumentFilter{
		Kind:     strings.ToUpper(strings.TrimSpace(req.Kind)),
		Status:   strings.ToUpper(strings.TrimSpace(req.Status)),
		ClientID: strings.TrimSpace(req.ClientID),
		From:     req.From,
		To:       req.To,
	}, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListDocumentResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(doc *domain.Document) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        doc.ID.String(),
			CreatedAt: doc.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	docs := make([]domain.Document, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		docs = append(docs, *item)
	}

	return domain.ListDocumentResponse{
		PageInfo:  *pageInfo,
		Documents: docs,
	}, nil
}

func (s *Service) Void(ctx context.Context, rawID string) (domain.Document, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil {
		return domain.Document{}, domain.ErrInvalidID
	}

	doc, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Document{}, err
	}
	if doc == nil {
		return domain.Document{}, domain.ErrNotFound
	}
	if doc.Status == domain.StatusVoid {
		return domain.Document{}, domain.ErrAlreadyVoid
	}

	now := time.Now().UTC()
	doc.Status = domain.StatusVoid
	doc.VoidedAt = &now
	doc.UpdatedAt = now

	if err := s.repo.Save(ctx, s.db, doc); err != nil {
		return domain.Document{}, err
	}
	return *doc, nil
}

func (s *Service) RenderPDF(ctx context.Context, rawID string) (io.Reader, error) {
	doc, err := s.GetByID(ctx, rawID)
	if err != nil {
		return nil, err
	}

	client, err := s.clientRepo.FindByID(ctx, s.db, doc.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}

	title := "Factura " + doc.Letter
	if doc.Kind == domain.KindCreditNote {
		title = "Nota de Crédito " + doc.Letter
	}

	return s.pdf.GenerateInvoice(ctx, pdf.InvoiceData{
		Title:          title,
		Number:         doc.FormattedNumber(),
		IssueDate:      doc.IssuedAt.Format("02/01/2006"),
		AgencyName:     s.cfg.AgencyName,
		AgencyCUIT:     s.cfg.AgencyCUIT,
		ClientName:     client.Name,
		ClientTaxID:    client.TaxID,
		Description:    doc.Description,
		TaxableBase21:  doc.TaxableBase21,
		TaxableBase105: doc.TaxableBase105,
		VAT21:          doc.VAT21Amount,
		VAT105:         doc.VAT105Amount,
		Exempt:         doc.ExemptAmount,
		NonComputable:  doc.NonComputable,
		OtherTaxes:     doc.OtherTaxes,
		Total:          doc.Total,
		CAE:            stringOrEmpty(doc.CAE),
	})
}

// Registered taxpayers get an A document with VAT discriminated; everyone else
// gets a B document.
func letterFor(condition clientdomain.VATCondition) string {
	if condition == clientdomain.VATConditionRegistered {
		return "A"
	}
	return "B"
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

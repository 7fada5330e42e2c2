// Package server wires the HTTP surface: routing, error mapping, and the
// request middlewares.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/viatica/backoffice/internal/billing"
	billingdomain "github.com/viatica/backoffice/internal/billing/domain"
	"github.com/viatica/backoffice/internal/booking"
	bookingdomain "github.com/viatica/backoffice/internal/booking/domain"
	"github.com/viatica/backoffice/internal/client"
	clientdomain "github.com/viatica/backoffice/internal/client/domain"
	"github.com/viatica/backoffice/internal/config"
	"github.com/viatica/backoffice/internal/invoice"
	invoicedomain "github.com/viatica/backoffice/internal/invoice/domain"
	obsmetrics "github.com/viatica/backoffice/internal/observability/metrics"
	"github.com/viatica/backoffice/internal/providers/pdf"
	"github.com/viatica/backoffice/internal/receipt"
	receiptdomain "github.com/viatica/backoffice/internal/receipt/domain"
	"github.com/viatica/backoffice/internal/taxledger"
	taxledgerdomain "github.com/viatica/backoffice/internal/taxledger/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	obsmetrics.Module,
	fx.Provide(registerGin),
	pdf.Module,
	billing.Module,
	client.Module,
	booking.Module,
	invoice.Module,
	receipt.Module,
	taxledger.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, log *zap.Logger, httpMetrics *obsmetrics.Metrics) *gin.Engine {
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(cfg config.Config, log *zap.Logger, httpMetrics *obsmetrics.Metrics) *gin.Engine {
	return NewEngine(cfg, log, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	billingSvc   billingdomain.Service
	clientSvc    clientdomain.Service
	bookingSvc   bookingdomain.BookingService
	invoiceSvc   invoicedomain.Service
	receiptSvc   receiptdomain.Service
	taxLedgerSvc taxledgerdomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	BillingSvc   billingdomain.Service
	ClientSvc    clientdomain.Service
	BookingSvc   bookingdomain.BookingService
	InvoiceSvc   invoicedomain.Service
	ReceiptSvc   receiptdomain.Service
	TaxLedgerSvc taxledgerdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		billingSvc:   p.BillingSvc,
		clientSvc:    p.ClientSvc,
		bookingSvc:   p.BookingSvc,
		invoiceSvc:   p.InvoiceSvc,
		receiptSvc:   p.ReceiptSvc,
		taxLedgerSvc: p.TaxLedgerSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1")

	// -------- Billing preview --------
	v1.POST("/billing/preview", s.PreviewBreakdown)

	// -------- Clients --------
	v1.GET("/clients", s.ListClients)
	v1.POST("/clients", s.CreateClient)
	v1.GET("/clients/:id", s.GetClientByID)
	v1.PATCH("/clients/:id", s.UpdateClient)

	// -------- Bookings --------
	v1.GET("/bookings", s.ListBookings)
	v1.POST("/bookings", s.CreateBooking)
	v1.GET("/bookings/:id", s.GetBookingByID)
	v1.POST("/bookings/:id/status", s.UpdateBookingStatus)
	v1.POST("/bookings/:id/services", s.AddBookingService)
	v1.PUT("/bookings/:id/services/:serviceId", s.UpdateBookingService)
	v1.DELETE("/bookings/:id/services/:serviceId", s.RemoveBookingService)

	// -------- Documents --------
	v1.GET("/documents", s.ListDocuments)
	v1.POST("/documents", s.IssueDocument)
	v1.GET("/documents/:id", s.GetDocumentByID)
	v1.POST("/documents/:id/void", s.VoidDocument)
	v1.GET("/documents/:id/render", s.RenderDocument)

	// -------- Receipts --------
	v1.GET("/receipts", s.ListReceipts)
	v1.POST("/receipts", s.CreateReceipt)
	v1.GET("/receipts/:id", s.GetReceiptByID)
	v1.GET("/receipts/:id/render", s.RenderReceipt)

	// -------- Sales VAT ledger --------
	v1.GET("/tax-ledger/:period", s.GetTaxLedger)
	v1.GET("/tax-ledger/:period/export", s.ExportTaxLedger)
}

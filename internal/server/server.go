package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/brandloom/brandloom/internal/auth"
	catalogdomain "github.com/brandloom/brandloom/internal/catalog/domain"
	"github.com/brandloom/brandloom/internal/config"
	conversationdomain "github.com/brandloom/brandloom/internal/conversation/domain"
	"github.com/brandloom/brandloom/internal/conversation/ws"
	invoicedomain "github.com/brandloom/brandloom/internal/invoice/domain"
	milestonedomain "github.com/brandloom/brandloom/internal/milestone/domain"
	"github.com/brandloom/brandloom/internal/observability"
	obslogger "github.com/brandloom/brandloom/internal/observability/logger"
	obsmetrics "github.com/brandloom/brandloom/internal/observability/metrics"
	obstracing "github.com/brandloom/brandloom/internal/observability/tracing"
	organizationdomain "github.com/brandloom/brandloom/internal/organization/domain"
	paymentdomain "github.com/brandloom/brandloom/internal/payment/domain"
	"github.com/brandloom/brandloom/internal/providers/email"
	"github.com/brandloom/brandloom/internal/providers/storage"
	referraldomain "github.com/brandloom/brandloom/internal/referral/domain"
	requestdomain "github.com/brandloom/brandloom/internal/servicerequest/domain"
	userdomain "github.com/brandloom/brandloom/internal/user/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(*Server) {}),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
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
	engine *gin.Engine
	cfg    config.Config
	log    *zap.Logger
	db     *gorm.DB
	genID  *snowflake.Node
	tokens *auth.TokenIssuer

	userSvc         userdomain.Service
	organizationSvc organizationdomain.Service
	catalogSvc      catalogdomain.CatalogService
	requestSvc      requestdomain.Service
	milestoneSvc    milestonedomain.Service
	invoiceSvc      invoicedomain.Service
	referralSvc     referraldomain.Service
	paymentSvc      paymentdomain.Service
	conversationSvc conversationdomain.Service

	hub      *ws.Hub
	uploader storage.Uploader
	disk     *storage.LocalDisk
	emails   email.Provider
}

type Params struct {
	fx.In

	Gin    *gin.Engine
	Cfg    config.Config
	Log    *zap.Logger
	DB     *gorm.DB
	GenID  *snowflake.Node
	Tokens *auth.TokenIssuer

	UserSvc         userdomain.Service
	OrganizationSvc organizationdomain.Service
	CatalogSvc      catalogdomain.CatalogService
	RequestSvc      requestdomain.Service
	MilestoneSvc    milestonedomain.Service
	InvoiceSvc      invoicedomain.Service
	ReferralSvc     referraldomain.Service
	PaymentSvc      paymentdomain.Service
	ConversationSvc conversationdomain.Service

	Hub      *ws.Hub
	Uploader storage.Uploader
	Disk     *storage.LocalDisk
	Emails   email.Provider
}

func NewServer(p Params) *Server {
	s := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		log:             p.Log.Named("server"),
		db:              p.DB,
		genID:           p.GenID,
		tokens:          p.Tokens,
		userSvc:         p.UserSvc,
		organizationSvc: p.OrganizationSvc,
		catalogSvc:      p.CatalogSvc,
		requestSvc:      p.RequestSvc,
		milestoneSvc:    p.MilestoneSvc,
		invoiceSvc:      p.InvoiceSvc,
		referralSvc:     p.ReferralSvc,
		paymentSvc:      p.PaymentSvc,
		conversationSvc: p.ConversationSvc,
		hub:             p.Hub,
		uploader:        p.Uploader,
		disk:            p.Disk,
		emails:          p.Emails,
	}

	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes() {
	s.engine.Static("/uploads", s.disk.Dir())

	api := s.engine.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", s.Register)
	authGroup.POST("/login", s.Login)

	api.GET("/services/public", s.ListPublicServices)

	authed := api.Group("")
	authed.Use(s.AuthRequired())

	users := authed.Group("/users")
	users.GET("", s.RequireAdmin(), s.ListUsers)
	users.GET("/:id", s.GetUser)
	users.PUT("/:id", s.UpdateUser)
	users.DELETE("/:id", s.RequireAdmin(), s.DeleteUser)

	orgs := authed.Group("/organizations")
	orgs.GET("/contacts", s.ListContacts)
	orgs.POST("/contacts", s.CreateContact)
	orgs.GET("/contacts/:id", s.GetContact)
	orgs.PUT("/contacts/:id", s.UpdateContact)
	orgs.DELETE("/contacts/:id", s.DeleteContact)
	orgs.GET("", s.ListOrganizations)
	orgs.POST("", s.CreateOrganization)
	orgs.GET("/:id", s.GetOrganization)
	orgs.PUT("/:id", s.UpdateOrganization)
	orgs.DELETE("/:id", s.DeleteOrganization)

	services := authed.Group("/services")
	services.GET("", s.ListServices)
	services.GET("/:id", s.GetService)
	services.POST("", s.RequireAdmin(), s.CreateService)
	services.PUT("/:id", s.RequireAdmin(), s.UpdateService)
	services.DELETE("/:id", s.RequireAdmin(), s.DeleteService)

	requests := authed.Group("/service-requests")
	requests.POST("/initialize", s.InitializeRequest)
	requests.POST("/initialize-with-referral", s.InitializeRequestWithReferral)
	requests.GET("", s.RequireAdmin(), s.ListRequests)
	requests.GET("/my-requests", s.ListMyRequests)
	requests.GET("/:id", s.GetRequest)
	requests.PATCH("/:id/status", s.RequireAdmin(), s.UpdateRequestStatus)
	requests.GET("/:id/messages", s.GetMessages)
	requests.POST("/:id/messages", s.PostMessage)

	milestones := authed.Group("/milestones")
	milestones.POST("", s.RequireAdmin(), s.CreateMilestone)
	milestones.GET("", s.ListMilestones)
	milestones.GET("/:id", s.GetMilestone)
	milestones.PUT("/:id", s.RequireAdmin(), s.UpdateMilestone)
	milestones.DELETE("/:id", s.RequireAdmin(), s.DeleteMilestone)
	milestones.POST("/:id/deliverable", s.RequireAdmin(), s.SubmitDeliverable)
	milestones.PATCH("/:id/review", s.ReviewMilestone)

	invoices := authed.Group("/invoices")
	invoices.GET("/my-invoices", s.ListMyInvoices)
	invoices.GET("/:id", s.GetInvoice)

	authed.POST("/referrals/validate", s.ValidateReferralEmail)

	payments := authed.Group("/payments/paystack")
	payments.POST("/initialize", s.InitializePayment)
	payments.GET("/verify/:reference", s.VerifyPayment)

	conversations := authed.Group("/conversations")
	conversations.GET("", s.RequireAdmin(), s.ListConversations)
	conversations.GET("/my-conversations", s.ListMyConversations)

	s.engine.GET("/ws/conversations/:id", s.AuthRequired(), s.ServeConversationSocket)
}

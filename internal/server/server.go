package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/raqtkosh/backend/internal/handler"
	"github.com/raqtkosh/backend/internal/identity"
	appmw "github.com/raqtkosh/backend/internal/middleware"
	"github.com/raqtkosh/backend/internal/repository"
	"github.com/raqtkosh/backend/internal/service"
	"gorm.io/gorm"
)

type Options struct {
	GitSHA              string
	BuildTime           string
	AllowedOriginSuffix string

	// Auth guards every /api route except the identity webhook. Without it
	// those routes answer 401.
	Auth *appmw.AuthMiddleware
	// Webhook verifies identity deliveries; nil leaves the webhook unrouted.
	Webhook   *identity.Verifier
	Store     service.ObjectStore
	Publisher service.EventPublisher
}

type Server struct {
	e     *echo.Echo
	repos []interface{ SetDB(*gorm.DB) }
}

func New(db *gorm.DB, opts Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(appmw.RequestContext)
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc:  originAllowed(opts.AllowedOriginSuffix),
	}))

	userRepo := repository.NewUserRepository(db)
	centerRepo := repository.NewCenterRepository(db)
	donationRepo := repository.NewDonationRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	rewardRepo := repository.NewRewardRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	addressRepo := repository.NewAddressRepository(db)

	notificationSvc := service.NewNotificationService(notificationRepo, userRepo)
	ledgerSvc := service.NewLedgerService(userRepo, ledgerRepo)
	referralSvc := service.NewReferralService(userRepo, referralRepo, ledgerSvc, notificationSvc)
	profileSvc := service.NewProfileService(userRepo, referralSvc)
	donationSvc := service.NewDonationService(userRepo, donationRepo, centerRepo, ledgerSvc, notificationSvc)
	requestSvc := service.NewRequestService(userRepo, requestRepo, centerRepo, addressRepo, ledgerSvc, notificationSvc)
	redemptionSvc := service.NewRedemptionService(userRepo, rewardRepo, notificationSvc)
	shortageSvc := service.NewShortageService(requestRepo, inventoryRepo, userRepo, notificationRepo, opts.Publisher)
	inventorySvc := service.NewInventoryService(inventoryRepo, centerRepo)
	dashboardSvc := service.NewDashboardService(userRepo, donationRepo, requestRepo, notificationRepo)
	uploadSvc := service.NewUploadService(opts.Store)
	addressSvc := service.NewAddressService(userRepo, addressRepo)

	profileHandler := handler.NewProfileHandler(profileSvc)
	donationHandler := handler.NewDonationHandler(donationSvc)
	requestHandler := handler.NewRequestHandler(requestSvc, shortageSvc)
	rewardHandler := handler.NewRewardHandler(redemptionSvc, ledgerSvc)
	referralHandler := handler.NewReferralHandler(referralSvc)
	inventoryHandler := handler.NewInventoryHandler(inventorySvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	uploadHandler := handler.NewUploadHandler(uploadSvc)
	addressHandler := handler.NewAddressHandler(addressSvc)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    opts.GitSHA,
			"build_time": opts.BuildTime,
		})
	})

	api := e.Group("/api")
	api.GET("/feedbacks", profileHandler.Feedbacks)
	if opts.Webhook != nil {
		api.POST("/webhooks/identity", handler.NewWebhookHandler(opts.Webhook, profileSvc).Identity)
	}

	authed := api.Group("", requireAuth(opts.Auth))
	authed.POST("/me/sync", profileHandler.Sync)
	authed.GET("/profile", profileHandler.Get)
	authed.PUT("/profile", profileHandler.Update)
	authed.GET("/me/eligibility", profileHandler.Eligibility)
	authed.GET("/user/addresses", addressHandler.List)
	authed.POST("/user/addresses", addressHandler.Create)

	authed.POST("/donations", donationHandler.Submit)
	authed.GET("/me/donations", donationHandler.ListMine)

	authed.POST("/requests", requestHandler.Create)
	authed.GET("/requests", requestHandler.List)
	authed.GET("/requests/:id", requestHandler.Get)
	authed.GET("/me/requests", requestHandler.ListMine)
	authed.POST("/requests/notify-users", requestHandler.NotifyUsers)
	authed.POST("/home-donation", requestHandler.HomeDonation)

	authed.GET("/centers", inventoryHandler.Centers)

	authed.GET("/rewards", rewardHandler.Mine)
	authed.GET("/rewards/catalog", rewardHandler.Catalog)
	authed.POST("/rewards/redeem", rewardHandler.Redeem)
	authed.GET("/achievements", rewardHandler.Achievements)
	authed.GET("/points/history", rewardHandler.History)

	authed.GET("/referrals", referralHandler.List)
	authed.POST("/referrals", referralHandler.Create)

	authed.GET("/notifications", notificationHandler.List)
	authed.POST("/notifications/read", notificationHandler.MarkAllRead)

	authed.POST("/upload", uploadHandler.Upload)

	admin := authed.Group("/admin", appmw.RequireAdmin(profileSvc))
	admin.GET("/dashboard", dashboardHandler.Get)
	admin.GET("/users", profileHandler.ListUsers)
	admin.GET("/donations", donationHandler.ListAll)
	admin.PATCH("/donations/:id", donationHandler.UpdateStatus)
	admin.PATCH("/requests/:id", requestHandler.UpdateStatus)
	admin.POST("/blood-requests", requestHandler.ShortageAlert)
	admin.GET("/inventory", inventoryHandler.List)
	admin.POST("/inventory", inventoryHandler.AddStock)
	admin.POST("/referrals/:id/complete", referralHandler.Complete)

	return &Server{
		e: e,
		repos: []interface{ SetDB(*gorm.DB) }{
			userRepo, centerRepo, donationRepo, requestRepo, referralRepo,
			rewardRepo, inventoryRepo, notificationRepo, ledgerRepo, addressRepo,
		},
	}
}

func requireAuth(m *appmw.AuthMiddleware) echo.MiddlewareFunc {
	if m != nil {
		return m.RequireAuth
	}
	return func(echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized", "authentication is not configured"))
		}
	}
}

func originAllowed(suffix string) func(string) (bool, error) {
	return func(origin string) (bool, error) {
		low := strings.ToLower(origin)
		if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
			strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
			return true, nil
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false, nil
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return false, nil
		}
		if suffix != "" && strings.HasSuffix(u.Hostname(), suffix) {
			return true, nil
		}
		return false, nil
	}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.e
}

// SetDB hands the connection to every repository once it is available.
func (s *Server) SetDB(db *gorm.DB) {
	for _, r := range s.repos {
		r.SetDB(db)
	}
}

package main

import (
	"log"
	"time"

	"aduana_flow_app_go/config"
	"aduana_flow_app_go/db"
	"aduana_flow_app_go/handlers"
	"aduana_flow_app_go/middleware"
	"aduana_flow_app_go/models"
	"aduana_flow_app_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.Case{}, &models.CaseParty{},
		&models.Hearing{}, &models.HearingStatement{}, &models.HearingEvidence{},
		&models.Act{},
		&models.Charge{}, &models.ChargeAccountLine{}, &models.ChargeParty{},
		&models.Levy{}, &models.LevyAccountLine{}, &models.LevyPayment{},
		&models.Claim{},
		&models.Good{}, &models.GoodEvent{},
		&models.Notification{}, &models.AuditLog{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize storage (R2 or local fallback)
	services.InitializeStorage(cfg)

	// Wire the signing service when configured; the local simulated
	// signer stays in place otherwise.
	if cfg.SigningServiceURL != "" {
		services.Signer = services.NewRemoteSigner(cfg.SigningServiceURL,
			time.Duration(cfg.SigningTimeoutSeconds)*time.Second)
		log.Printf("Signing service configured at %s", cfg.SigningServiceURL)
	}

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.AuditContext())

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	api := e.Group("/api")
	api.Use(middleware.APIRateLimiter.Middleware())

	// Cases (denuncias)
	api.POST("/cases", handlers.RegisterCaseHandler)
	api.GET("/cases/lookup", handlers.GetCaseByNumberHandler)
	api.GET("/cases/:id", handlers.GetCaseHandler)
	api.POST("/cases/:id/close", handlers.CloseCaseHandler)

	// Hearings (audiencias)
	api.POST("/hearings", handlers.ScheduleHearingHandler)
	api.GET("/hearings/:id", handlers.GetHearingHandler)
	api.POST("/hearings/:id/start", handlers.StartHearingHandler)
	api.POST("/hearings/:id/attendance", handlers.RecordAttendanceHandler)
	api.POST("/hearings/:id/plea", handlers.RecordPleaHandler)
	api.POST("/hearings/:id/statements", handlers.AddStatementHandler)
	api.POST("/hearings/:id/evidence", handlers.AddEvidenceHandler)
	api.POST("/hearings/:id/finalize", handlers.FinalizeHearingHandler)
	api.POST("/hearings/:id/act", handlers.PrepareActHandler)

	// Acts (actas)
	api.GET("/acts/:id", handlers.GetActHandler)
	api.POST("/acts/:id/sign", handlers.SignActHandler, middleware.SigningRateLimiter.Middleware())
	api.POST("/acts/:id/issue", handlers.IssueActHandler)
	api.GET("/acts/:id/pdf", handlers.DownloadActPDFHandler)

	// Charges (cargos)
	api.POST("/charges", handlers.DraftChargeHandler)
	api.GET("/charges/:id", handlers.GetChargeHandler)
	api.POST("/charges/:id/lines", handlers.AddAccountLineHandler)
	api.POST("/charges/:id/parties", handlers.AddResponsiblePartyHandler)
	api.PUT("/charges/:id/parties/:partyId", handlers.UpdateResponsiblePartyHandler)
	api.POST("/charges/:id/issue", handlers.IssueChargeHandler)

	// Levies (giros)
	api.POST("/levies/from-charge/:chargeId", handlers.DeriveLevyFromChargeHandler)
	api.POST("/levies/from-case/:caseId", handlers.DeriveLevyFromCaseHandler)
	api.GET("/levies/export", handlers.ExportLeviesHandler, middleware.ExportRateLimiter.Middleware())
	api.GET("/levies/:id", handlers.GetLevyHandler)
	api.PUT("/levies/:id/term", handlers.UpdateLevyTermHandler)
	api.POST("/levies/:id/payments", handlers.ApplyPaymentHandler)
	api.POST("/levies/:id/cancel", handlers.CancelLevyHandler)

	// Claims (reclamos)
	api.POST("/claims", handlers.FileClaimHandler)
	api.GET("/claims", handlers.GetClaimsByOriginHandler)
	api.GET("/claims/:id", handlers.GetClaimHandler)
	api.POST("/claims/:id/admit", handlers.AdmitClaimHandler)
	api.POST("/claims/:id/resolve", handlers.ResolveClaimHandler)

	// Goods (mercancías)
	api.POST("/goods", handlers.RegisterGoodHandler)
	api.GET("/goods/:id", handlers.GetGoodHandler)
	api.POST("/goods/:id/events", handlers.RecordGoodEventHandler)

	// Notifications and audit trail
	api.GET("/notifications", handlers.GetNotificationsHandler)
	api.GET("/notifications/count", handlers.GetNotificationCountHandler)
	api.PUT("/notifications/:id/read", handlers.MarkNotificationReadHandler)
	api.PUT("/notifications/read-all", handlers.MarkAllNotificationsReadHandler)
	api.GET("/audit-trail", handlers.GetAuditTrailHandler)

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

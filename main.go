package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/worldmotoclash/wmc-capital-hub-sub000/config"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/handler"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/middleware"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/repository"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/services"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/usecase"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/utils"
)

func init() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Printf("No .env file loaded: %v", err)
	}

	// The CRM endpoints have no sane defaults; refuse to start without them.
	requiredEnvVars := []string{
		"DIRECTORY_URL",
		"TRACKING_URL",
		"VERIFICATION_URL",
		"RESET_URL",
	}
	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" && os.Getenv("GO_ENV") != "test" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}

	utils.InitJWT()
	utils.InitMongoClient()
}

type app struct {
	cfg       *config.Config
	store     *services.SessionStore
	auth      *usecase.AuthService
	tracker   *services.Tracker
	geo       *services.GeoResolver
	ips       *services.PublicIPResolver
	directory *repository.DirectoryClient
	crm       *repository.CRMClient

	deadLetters    *repository.DeadLetterRepo
	securityEvents *repository.SecurityEventRepo
}

func buildApp(cfg *config.Config) *app {
	// Location cache is optional: without redis every lookup goes upstream.
	if redisURL := utils.GetEnvAsString("REDIS_URL", ""); redisURL != "" {
		cache, err := services.NewLocationCache(redisURL, cfg.GeoCacheTTL)
		if err != nil {
			log.Printf("Warning: location cache disabled: %v", err)
		} else {
			services.GlobalLocationCache = cache
		}
	}

	ips := services.NewPublicIPResolver(cfg.IPEchoServices, cfg.HTTPTimeout)
	geo := services.NewGeoResolver(services.GlobalLocationCache, cfg.GeoPrimaryURL, cfg.GeoFallbackURL, cfg.GeoLiteDBPath, cfg.HTTPTimeout)

	directory := repository.NewDirectoryClient(cfg)
	crm := repository.NewCRMClient(cfg)

	var deadLetters *repository.DeadLetterRepo
	var securityEvents *repository.SecurityEventRepo
	if utils.MongoClient != nil {
		deadLetters = repository.GetDeadLetterRepo(utils.MongoClient)
		securityEvents = repository.GetSecurityEventRepo(utils.MongoClient)
	}

	// Interface values must stay nil when the repo pointer is nil.
	var deadLetterSink services.DeadLetterSink
	if deadLetters != nil {
		deadLetterSink = deadLetters
	}
	var securityJournal usecase.SecurityJournal
	if securityEvents != nil {
		securityJournal = securityEvents
	}

	tracker := services.NewTracker(crm, ips, geo, deadLetterSink,
		cfg.TrackerQueueSize, cfg.TrackerMaxRetries, cfg.TrackerBackoff)

	var mailer *services.MailSender
	if cfg.SMTPHost != "" {
		mailer = services.NewMailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	}
	verifier := services.NewVerifier(crm, mailer)

	store := services.NewSessionStore()

	auth := &usecase.AuthService{
		Directory:      directory,
		IPs:            ips,
		Geo:            geo,
		Tracker:        tracker,
		Verifier:       verifier,
		SecurityEvents: securityJournal,
		LoginURL:       utils.GetEnvAsString("PORTAL_LOGIN_URL", "https://invest.worldmotoclash.com/login"),
	}

	return &app{
		cfg:            cfg,
		store:          store,
		auth:           auth,
		tracker:        tracker,
		geo:            geo,
		ips:            ips,
		directory:      directory,
		crm:            crm,
		deadLetters:    deadLetters,
		securityEvents: securityEvents,
	}
}

func setupRouter(a *app) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestSizeLimiter(1 << 20))
	router.Use(middleware.SessionMiddleware(a.store, a.cfg.SessionIdleTimeout))

	router.GET("/health", handler.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := router.Group("/api")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/login", func(c *gin.Context) {
				handler.LoginHandler(c, a.auth, a.store)
			})
			auth.POST("/reset-password", func(c *gin.Context) {
				handler.RequestPasswordResetHandler(c, a.directory, a.crm)
			})
			auth.POST("/reset-password/complete", func(c *gin.Context) {
				handler.CompletePasswordResetHandler(c, a.directory, a.crm)
			})
		}

		public.GET("/geo", func(c *gin.Context) {
			handler.WhereAmIHandler(c, a.ips, a.geo)
		})
	}

	protected := router.Group("/api")
	protected.Use(middleware.RequireSession())
	{
		user := protected.Group("/user")
		{
			user.GET("/profile", handler.GetProfileHandler)
			user.POST("/logout", func(c *gin.Context) {
				handler.LogoutHandler(c, a.store)
			})
		}

		sessions := protected.Group("/sessions")
		{
			sessions.GET("/active", func(c *gin.Context) {
				handler.GetActiveSessions(c, a.store)
			})
			sessions.POST("/logout-all", func(c *gin.Context) {
				handler.LogoutAllSessions(c, a.store)
			})
		}

		protected.POST("/track", func(c *gin.Context) {
			handler.TrackHandler(c, a.tracker)
		})

		protected.GET("/stats", func(c *gin.Context) {
			handler.StatsHandler(c, a.store, a.deadLetters)
		})
	}

	return router
}

func main() {
	cfg := config.Load()
	a := buildApp(cfg)

	a.tracker.Start(utils.GetEnvAsInt("TRACKER_WORKERS", 2))
	defer a.tracker.Stop()
	defer a.geo.Close()

	router := setupRouter(a)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	serverAddr := fmt.Sprintf(":%s", port)
	log.Printf("Server starting on %s", serverAddr)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

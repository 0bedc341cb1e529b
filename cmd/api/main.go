package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"homeservices/internal/catalog"
	"homeservices/internal/config"
	"homeservices/internal/database"
	"homeservices/internal/middleware"
	"homeservices/internal/modules/admin"
	"homeservices/internal/modules/auth"
	"homeservices/internal/modules/notification"
	"homeservices/internal/modules/provider"
	"homeservices/internal/modules/request"
	jwtsvc "homeservices/internal/pkg/jwt"
	"homeservices/internal/pkg/mailer"
	"homeservices/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	providerRepo := repository.NewProviderRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	var mail mailer.Mailer
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPUser, cfg.SMTPPass)
	} else {
		mail = mailer.NewLog()
	}

	table := catalog.Default()
	feed := notification.NewFeed()

	notificationService := notification.NewService(notificationRepo, providerRepo, table, feed)
	notificationHandler := notification.NewHandler(notificationService, feed)

	providerService := provider.NewService(providerRepo, userRepo, mail, notificationService, cfg.PublicBaseURL)
	providerHandler := provider.NewHandler(providerService)

	authService := auth.NewService(userRepo, providerService, j, cfg.ProviderLoginRequiresVerified)
	authHandler := auth.NewHandler(authService)

	requestService := request.NewService(requestRepo, providerRepo, userRepo, notificationService, mail, table, cfg.CancelAnyActive)
	requestHandler := request.NewHandler(requestService)

	adminService := admin.NewService(requestRepo, providerRepo, userRepo, notificationService)
	adminHandler := admin.NewHandler(adminService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	api := r.Group("/api")
	{
		// public
		authHandler.RegisterRoutes(api)
		providerHandler.RegisterPublicRoutes(api)

		protected := api.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterAuthedRoutes(protected)
			requestHandler.RegisterCustomerRoutes(protected)
			notificationHandler.RegisterRoutes(protected)

			providers := protected.Group("/")
			providers.Use(middleware.ProviderOnly())
			{
				requestHandler.RegisterProviderRoutes(providers)
				providerHandler.RegisterProviderRoutes(providers)
			}

			admins := protected.Group("/")
			admins.Use(middleware.AdminOnly())
			{
				adminHandler.RegisterRoutes(admins)
			}
		}
	}

	log.Printf("listening on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}

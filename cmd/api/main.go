package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"servicemarket/internal/database"
	"servicemarket/internal/events"
	"servicemarket/internal/middleware"
	"servicemarket/internal/modules/auth"
	"servicemarket/internal/modules/booking"
	"servicemarket/internal/modules/catalog"
	"servicemarket/internal/modules/geocode"
	"servicemarket/internal/modules/notification"
	"servicemarket/internal/modules/payment"
	"servicemarket/internal/modules/wallet"
	"servicemarket/internal/paystack"
	jwtsvc "servicemarket/internal/pkg/jwt"
	applog "servicemarket/internal/pkg/log"
	"servicemarket/internal/pkg/mailer"
	"servicemarket/internal/repository"
)

func main() {
	_ = godotenv.Load()
	applog.Init("servicemarket-api", applog.WithConsole())

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal().Msg("DATABASE_URL is empty")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal().Msg("JWT_SECRET is empty")
	}
	paystackSecret := os.Getenv("PAYSTACK_SECRET_KEY")
	if paystackSecret == "" {
		log.Fatal().Msg("PAYSTACK_SECRET_KEY is empty")
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("database migrate failed")
	}

	userRepo := repository.NewUserRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	locationRepo := repository.NewLocationRepository(db)

	j := jwtsvc.New(secret, 24*time.Hour)
	hub := events.NewHub()
	mail := mailer.NewDevConsoleMailer(os.Getenv("DEV_EMAIL_LOG") != "")
	gateway := paystack.NewClient(paystackSecret, gatewayOptions()...)

	notifService := notification.NewService(notificationRepo)
	fanout := notification.NewFanout(notifService, hub, mail, userRepo)

	geocodeService := geocode.NewService(locationRepo, geocodeProviders()...)

	authService := auth.NewService(userRepo, userRepo, j)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(serviceRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	bookingService := booking.NewService(bookingRepo, serviceRepo, geocodeService, fanout)
	bookingHandler := booking.NewHandler(bookingService)

	walletService := wallet.NewService(db, transactionRepo, gateway, fanout)
	walletHandler := wallet.NewHandler(walletService, db)

	paymentService := payment.NewService(bookingRepo, userRepo, gateway, fanout, paystackSecret)
	paymentHandler := payment.NewHandler(paymentService)

	notifHandler := notification.NewHandler(notifService)
	geocodeHandler := geocode.NewHandler(geocodeService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.RequestLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		catalogHandler.RegisterPublicRoutes(v1)
		paymentHandler.RegisterPublicRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			walletHandler.RegisterRoutes(protected)
			paymentHandler.RegisterProtectedRoutes(protected)
			notifHandler.RegisterRoutes(protected)
			geocodeHandler.RegisterRoutes(protected)

			protected.GET("/ws", func(c *gin.Context) {
				if err := hub.Upgrade(c.Writer, c.Request, c.GetInt64("user_id")); err != nil {
					log.Warn().Err(err).Msg("websocket upgrade failed")
				}
			})

			agents := protected.Group("/")
			agents.Use(middleware.AgentOnly())
			{
				catalogHandler.RegisterAgentRoutes(agents)
			}
		}
	}

	addr := ":" + envOrDefault("PORT", "8080")
	if err := r.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func gatewayOptions() []paystack.Option {
	if base := os.Getenv("PAYSTACK_BASE_URL"); base != "" {
		return []paystack.Option{paystack.WithBaseURL(base)}
	}
	return nil
}

func geocodeProviders() []geocode.Provider {
	providers := []geocode.Provider{
		&geocode.NominatimProvider{BaseURL: envOrDefault("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org")},
	}
	if key := os.Getenv("POSITIONSTACK_ACCESS_KEY"); key != "" {
		providers = append(providers, &geocode.PositionstackProvider{
			BaseURL:   envOrDefault("POSITIONSTACK_BASE_URL", "http://api.positionstack.com"),
			AccessKey: key,
		})
	}
	return providers
}

func envOrDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	marketHTTP "petit-marche/internal/controller/http"
	"petit-marche/internal/mailer"
	"petit-marche/internal/paydunya"
	"petit-marche/internal/repo/persistent"
	"petit-marche/internal/usecase"
	"petit-marche/pkg/cache"
	"petit-marche/pkg/config"
	"petit-marche/pkg/database"
	"petit-marche/pkg/jwt"
	"petit-marche/pkg/logger"
	"petit-marche/pkg/middleware"
	"petit-marche/pkg/queue"
	"petit-marche/pkg/s3"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "petit-marche/docs" // Swagger docs
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	s3Client    *s3.Client
	jwtService  *jwt.Service
	queueClient *queue.Client
	httpServer  *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.New()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v (continuing without cache)", err)
		redisClient = nil
	}

	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Error("Failed to create S3 client: %v", err)
		return nil, err
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v (continuing without queue)", err)
		queueClient = nil
	}

	jwtService := jwt.NewService(cfg.JWTSecret)

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		s3Client:    s3Client,
		jwtService:  jwtService,
		queueClient: queueClient,
	}, nil
}

func (a *App) Run() error {
	// Repositories
	userRepo := persistent.NewUserRepository(a.db)
	listingRepo := persistent.NewListingRepository(a.db)
	creditRepo := persistent.NewCreditRepository(a.db)
	transactionRepo := persistent.NewTransactionRepository(a.db)
	messageRepo := persistent.NewMessageRepository(a.db)
	reviewRepo := persistent.NewReviewRepository(a.db)

	// External clients
	gateway := paydunya.NewClient(paydunya.Config{
		MasterKey:  a.cfg.PayDunyaMasterKey,
		PrivateKey: a.cfg.PayDunyaPrivateKey,
		PublicKey:  a.cfg.PayDunyaPublicKey,
		Token:      a.cfg.PayDunyaToken,
		Mode:       a.cfg.PayDunyaMode,
	}, a.log)
	mail := mailer.New(a.cfg.ResendAPIKey, a.cfg.SenderEmail, a.cfg.OperatorEmail, a.log)

	// Use cases
	userUseCase := usecase.NewUserUseCase(userRepo, listingRepo, reviewRepo, a.jwtService, a.log)
	listingUseCase := usecase.NewListingUseCase(listingRepo, userRepo, creditRepo, a.s3Client, a.redisClient, a.queueClient, a.log)
	creditUseCase := usecase.NewCreditUseCase(creditRepo, a.log)
	paymentUseCase := usecase.NewPaymentUseCase(transactionRepo, creditRepo, userRepo, listingUseCase, gateway, mail, a.queueClient, a.cfg.PublicBaseURL, a.log)
	messageUseCase := usecase.NewMessageUseCase(messageRepo, listingRepo, a.queueClient, a.log)
	reviewUseCase := usecase.NewReviewUseCase(reviewRepo, listingRepo, a.log)

	// HTTP handlers
	userHandler := marketHTTP.NewUserHandler(userUseCase)
	listingHandler := marketHTTP.NewListingHandler(listingUseCase)
	creditHandler := marketHTTP.NewCreditHandler(creditUseCase)
	paymentHandler := marketHTTP.NewPaymentHandler(paymentUseCase)
	messageHandler := marketHTTP.NewMessageHandler(messageUseCase)
	reviewHandler := marketHTTP.NewReviewHandler(reviewUseCase)

	r := gin.Default()

	// The mobile and web clients live on changing origins, so CORS stays open.
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	{
		api.POST("/auth/register", userHandler.Register)
		api.POST("/auth/login", userHandler.Login)

		api.GET("/listings", listingHandler.Browse)
		api.GET("/listings/:id", listingHandler.Get)
		api.GET("/sellers/:id", userHandler.GetSeller)
		api.GET("/users/:id/reviews", reviewHandler.ListForUser)
		api.GET("/credits/packs", creditHandler.Packs)

		// The gateway and the manual proof flows authenticate by content,
		// not by session: callbacks carry the invoice token, proof relays
		// carry the payer's phone number.
		payments := api.Group("/payments")
		payments.POST("/callback", paymentHandler.Callback)
		payments.POST("/credit-request", paymentHandler.CreditRequest)
		payments.POST("/manual", paymentHandler.ManualPayment)
		if a.redisClient != nil {
			payments.Use(middleware.RateLimitMiddleware(a.redisClient, 30, time.Minute))
		}
		payments.POST("/create-invoice", paymentHandler.CreateInvoice)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(a.jwtService))
		{
			protected.GET("/me", userHandler.Me)
			protected.PUT("/me", userHandler.UpdateProfile)
			protected.GET("/me/listings", listingHandler.MyListings)
			protected.GET("/me/credits", creditHandler.Balance)
			protected.GET("/me/transactions", paymentHandler.Transactions)

			protected.POST("/listings", listingHandler.Publish)
			protected.PUT("/listings/:id/price", listingHandler.UpdatePrice)
			protected.POST("/listings/:id/sold", listingHandler.MarkSold)
			protected.DELETE("/listings/:id", listingHandler.Delete)

			protected.POST("/messages", messageHandler.Send)
			protected.GET("/messages", messageHandler.Conversations)
			protected.GET("/messages/:listing_id/:user_id", messageHandler.Thread)

			protected.POST("/reviews", reviewHandler.Create)
		}
	}

	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	go func() {
		a.log.Info("Petit Marché API starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) Wait() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sqlDB, err := a.db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			a.log.Error("Error closing database: %v", err)
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	if a.queueClient != nil {
		if err := a.queueClient.Close(); err != nil {
			a.log.Error("Error closing RabbitMQ: %v", err)
		}
	}

	return a.httpServer.Shutdown(ctx)
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/ai"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/analytics"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/auth"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/cart"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/checkout"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/config"
	apihttp "github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/http"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/menu"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/orders"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/payment"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/publisher"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/realtime"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	ctx := context.Background()

	// MongoDB holds users, canteens, menus and carts.
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURL))
	if err != nil {
		log.WithError(err).Fatal("failed to connect to mongodb")
	}
	defer mongoClient.Disconnect(context.Background())
	if err := mongoClient.Ping(ctx, nil); err != nil {
		log.WithError(err).Fatal("mongodb not reachable")
	}
	mongoDB := mongoClient.Database(cfg.MongoDB)
	log.WithField("url", cfg.MongoURL).Info("connected to mongodb")

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	// Postgres holds orders, bills, the outbox and spending analytics.
	creds := &orders.Credentials{
		Host:              cfg.PostgresHost,
		Port:              cfg.PostgresPort,
		User:              cfg.PostgresUser,
		Password:          cfg.PostgresPassword,
		DBName:            cfg.PostgresDB,
		MigrationsDirPath: cfg.MigrationsDir,
	}
	ordersRepo, err := orders.NewRepository(creds)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to postgres")
	}
	defer ordersRepo.Close()

	if err := ordersRepo.RunMigrations(creds); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}
	log.Info("database migrations completed")

	hub := realtime.NewHub(log)

	cartSvc := cart.NewService(cart.NewMongoRepository(mongoDB), cart.NewRedisCache(redisClient), log)
	menuRepo := menu.NewMongoRepository(mongoDB)
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	authSvc := auth.NewService(auth.NewMongoUserRepository(mongoDB), issuer)

	gateway := payment.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.RazorpayEnabled)
	checkoutSvc := checkout.NewService(cartSvc, ordersRepo, gateway, hub, log)
	ordersSvc := orders.NewService(ordersRepo, hub, log)
	analyticsRepo := analytics.NewRepository(ordersRepo.DB())

	var model llms.Model
	if cfg.OpenAIKey != "" {
		llm, err := openai.New(openai.WithToken(cfg.OpenAIKey), openai.WithModel(cfg.OpenAIModel))
		if err != nil {
			log.WithError(err).Warn("llm unavailable, ai endpoints will return empty results")
		} else {
			model = llm
		}
	} else {
		log.Warn("no openai key configured, ai endpoints will return empty results")
	}
	aiSvc := ai.NewService(model, log)

	// Background workers: the outbox poller pushes committed order events to
	// Kafka, the analytics consumer folds paid orders into spending totals.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	poller := publisher.NewOutboxPoller(ordersRepo, log, cfg.KafkaBrokers...)
	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Run(workerCtx)
	}()

	consumer := analytics.NewConsumer(analyticsRepo, log, cfg.KafkaBrokers...)
	wg.Add(1)
	go func() {
		defer wg.Done()
		consumer.Run(workerCtx)
	}()

	router := apihttp.NewRouter(apihttp.Handlers{
		Auth:      apihttp.NewAuthHandler(authSvc),
		Cart:      apihttp.NewCartHandler(cartSvc, menuRepo),
		Orders:    apihttp.NewOrderHandler(checkoutSvc, ordersSvc),
		Menu:      apihttp.NewMenuHandler(menuRepo),
		AI:        apihttp.NewAIHandler(aiSvc, menuRepo, ordersSvc),
		Analytics: apihttp.NewAnalyticsHandler(analyticsRepo, ordersSvc),
		Hub:       hub,
		Issuer:    issuer,
	}, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: otelhttp.NewHandler(router, "campus-bites"),
	}

	go func() {
		log.WithField("port", cfg.HTTPPort).Info("campus bites server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}

	stopWorkers()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		log.Info("workers stopped cleanly")
	case <-shutdownCtx.Done():
		log.Warn("workers didn't stop in time")
	}

	poller.Close()
	consumer.Close()
	log.Info("server exited")
}

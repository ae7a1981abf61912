package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ateaze/config"
	"ateaze/controllers"
	"ateaze/database"
	"ateaze/logging"
	"ateaze/metrics"
	"ateaze/payment"
	"ateaze/repository"
	"ateaze/routes"
	"ateaze/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.MustNew(cfg.ServiceName, cfg.Env)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, db, err := database.Connect(connectCtx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		logger.Fatal("mongo_connect_failed", zap.Error(err))
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error("mongo_disconnect_failed", zap.Error(err))
		}
	}()

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		logger.Fatal("upload_dir_create_failed", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	users := repository.NewMongoUserStore(db)
	products := repository.NewMongoProductStore(db)
	orders := repository.NewMongoOrderStore(db)
	applications := repository.NewMongoApplicationStore(db)
	tokens := repository.NewMongoTokenStore(db)

	gateway := payment.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)

	orderService := services.NewOrderService(orders, products, gateway, cfg.RazorpayKeySecret, logger, m)
	ratingService := services.NewRatingService(products)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	r.Static("/uploads", cfg.UploadDir)

	routes.RegisterRoutes(r, routes.Handlers{
		Auth:         controllers.NewAuthController(users, tokens, cfg.JWTSecret, cfg.GoogleClientID, logger),
		Products:     controllers.NewProductController(products, ratingService),
		Orders:       controllers.NewOrderController(orderService, logger),
		Vendors:      controllers.NewVendorController(users, products, orders, logger),
		Applications: controllers.NewApplicationController(applications, users, logger),
		Uploads:      controllers.NewUploadController(cfg.UploadDir),
		JWTSecret:    cfg.JWTSecret,
		Tokens:       tokens,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server_started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server_failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown_started")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_failed", zap.Error(err))
	}
	logger.Info("shutdown_complete")
}

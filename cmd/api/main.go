package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"venuebook/internal/config"
	"venuebook/internal/database"
	"venuebook/internal/domain/customer"
	"venuebook/internal/domain/department"
	"venuebook/internal/domain/order"
	"venuebook/internal/domain/venue"
	"venuebook/internal/logger"
	"venuebook/internal/middleware"
	jwtsvc "venuebook/internal/pkg/jwt"
	"venuebook/internal/storage"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	appLog, err := logger.New(logger.Options{
		Service: "venuebook",
		Dir:     cfg.LogDir,
		Level:   logger.ParseLevel(cfg.LogLevel),
	})
	if err != nil {
		log.Fatal(err)
	}
	defer appLog.Close()

	if envErr != nil {
		appLog.Warn("CONFIG", ".env file not found, using environment variables")
	}
	appLog.Info("APP", fmt.Sprintf("starting venuebook (env=%s)", cfg.AppEnv))

	db, err := database.Connect(cfg.DatabaseURL, database.ParseLogLevel(cfg.DBLogLevel))
	if err != nil {
		appLog.Fatal("DATABASE", err.Error())
	}
	if err := order.Migrate(db); err != nil {
		appLog.Fatal("DATABASE", "migrate: "+err.Error())
	}
	appLog.LogDatabase("MIGRATE", "*", "schema up to date")

	files := storage.NewLocal(cfg.UploadsDir, cfg.StaticURLBase, cfg.MaxUploadSize)
	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	venueHandler := venue.NewHandler(venue.NewService(venue.NewRepository(db), files))
	customerHandler := customer.NewHandler(customer.NewService(db))
	departmentHandler := department.NewHandler(department.NewService(db))
	orderHandler := order.NewHandler(order.NewService(order.NewGateway(db), appLog))

	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.ErrorLogger(appLog),
		middleware.RequestLogger(appLog),
		middleware.CORS(cfg.CORSOrigins),
	)
	r.Static(cfg.StaticURLBase, files.BaseDir())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RequestTimeout(cfg.RequestTimeout), middleware.JWTAuth(j), middleware.StaffOnly())
	{
		venue.RegisterRoutes(v1, venueHandler)
		customer.RegisterRoutes(v1, customerHandler)
		department.RegisterRoutes(v1, departmentHandler)
		order.RegisterRoutes(v1, orderHandler)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLog.Info("HTTP", "listening on "+cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("HTTP", err.Error())
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("APP", "shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLog.Error("HTTP", "shutdown: "+err.Error())
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

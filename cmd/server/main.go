package main

import (
	"alcyxob/workout-log/internal/api"
	"alcyxob/workout-log/internal/config"
	"alcyxob/workout-log/internal/repository/mongo"
	"alcyxob/workout-log/internal/service"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
)

// Upper bound for connecting to and disconnecting from MongoDB.
const dbTimeout = 10 * time.Second

func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "workout-log",
		Level: hclog.Info,
	})

	if err := run(logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(logger hclog.Logger) error {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return err
	}
	if level := hclog.LevelFromString(cfg.Log.Level); level != hclog.NoLevel {
		logger.SetLevel(level)
	}
	logger.Debug("configuration loaded", "port", cfg.Server.Port)

	// --- Database Connection ---
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), dbTimeout)
	dbClient, err := mongo.ConnectDB(connectCtx, cfg.Database.URI)
	cancelConnect()
	if err != nil {
		logger.Error("MongoDB connection error", "error", err)
		return err
	}
	defer func() {
		logger.Info("disconnecting MongoDB")
		ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
		defer cancel()
		if err := mongo.DisconnectDB(ctx, dbClient); err != nil {
			logger.Error("failed to disconnect MongoDB", "error", err)
		}
	}()
	dbName := mongo.DatabaseName(cfg.Database.URI, cfg.Database.Name)
	appDB := dbClient.Database(dbName)
	logger.Info("Connected to MongoDB", "database", dbName)

	// --- Repositories & Services ---
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)
	workoutService := service.NewWorkoutService(workoutRepo)

	// --- Initialize Gin Engine ---
	if logger.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	api.SetupRoutes(router, logger, cfg.CORS.AllowOrigin, workoutService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server is running", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", "signal", sig.String())
	}

	// Give in-flight requests 5 seconds to finish.
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		return err
	}

	logger.Info("server exiting")
	return nil
}

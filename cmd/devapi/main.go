// devapi serves an in-memory course service on DEVAPI_ADDR for local work
// with coursectl.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"course-studio/internal/config"
	"course-studio/internal/devapi"
	"course-studio/internal/logger"
)

func main() {
	envFile := flag.String("env-file", ".env", "dotenv file merged into the environment")
	flag.Parse()

	if err := config.LoadDotEnv(*envFile); err != nil {
		panic(err)
	}
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	srv, err := devapi.New(devapi.Options{
		NodeID:    cfg.DevAPINodeID,
		ExportDir: cfg.DevAPIExportDir,
		Log:       log,
	})
	if err != nil {
		log.Error("devapi init failed", "error", err)
		os.Exit(1)
	}

	if cfg.LogMode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	server := &http.Server{
		Addr:              cfg.DevAPIAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info("devapi listening", "addr", cfg.DevAPIAddr, "export_dir", cfg.DevAPIExportDir)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", "error", err)
	}
}

package main

import (
	"context"
	"embed"
	"io/fs"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"edadash/app"
	"edadash/internal/config"
	"edadash/internal/events"
	"edadash/internal/session"
	"edadash/ui"
)

//go:embed ui/templates ui/static
var embeddedFiles embed.FS

// sweepInterval is how often idle sessions are evicted
const sweepInterval = 5 * time.Minute

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessions := session.NewStore(appConfig.Session.TTL)
	go sessions.Run(ctx, sweepInterval)

	hub := events.NewHub()
	dashboard := app.NewDashboardService(appConfig).WithEvents(hub)

	uiFiles, err := fs.Sub(embeddedFiles, "ui")
	if err != nil {
		log.Fatalf("Failed to open embedded UI files: %v", err)
	}
	server, err := ui.NewServer(uiFiles, appConfig, dashboard, sessions, hub)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	if appConfig.Profiling.Enabled {
		go func() {
			log.Printf("Performance profiling server starting on :%s", appConfig.Profiling.Port)
			log.Printf("View profiles: go tool pprof -http=:8081 http://localhost:%s/debug/pprof/profile?seconds=30", appConfig.Profiling.Port)
			if err := http.ListenAndServe(":"+appConfig.Profiling.Port, nil); err != nil {
				log.Printf("pprof server failed: %v", err)
			}
		}()
	}

	httpServer := &http.Server{
		Addr:              ":" + appConfig.Server.Port,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown failed: %v", err)
		}
	}()

	log.Printf("Starting EDA dashboard on port %s (default dataset %s)", appConfig.Server.Port, appConfig.Data.DefaultDatasetPath)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed: %v", err)
	}
	log.Println("Server stopped")
}

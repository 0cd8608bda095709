// backend/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aeroshield/oracle/backend/config"
	"github.com/aeroshield/oracle/backend/database"
	"github.com/aeroshield/oracle/backend/handlers"
	"github.com/aeroshield/oracle/backend/metrics"
	"github.com/aeroshield/oracle/backend/models"
	"github.com/aeroshield/oracle/backend/providers"
	"github.com/aeroshield/oracle/backend/reference"
	"github.com/aeroshield/oracle/backend/services"
)

func main() {
	log.Println("Starting AeroShield Oracle Bridge...")

	// .env is optional; real deployments inject the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment overrides from .env")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "backend/config/config.yaml"
		}
	}
	if err := config.LoadConfig(configPath); err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	log.Printf("Configuration loaded. Server port: %s, DB name: %s",
		config.AppConfig.Server.Port, config.AppConfig.Database.DBName)

	if err := database.InitDB(config.AppConfig.Database); err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	defer database.CloseDB()

	var carriers *reference.CarrierTable
	if path := config.AppConfig.Reference.CarriersCSV; path != "" {
		var err error
		carriers, err = reference.LoadCarriers(path)
		if err != nil {
			log.Fatalf("Error loading carrier reference data: %v", err)
		}
	} else {
		log.Println("No carrier reference CSV configured; airline codes pass through unmapped.")
	}

	// Primary -> fallback order is configuration here, not control flow:
	// FlightAware first, FlightStats only when FlightAware cannot answer.
	flightAware := providers.NewFlightAwareClient(config.AppConfig.Providers.FlightAware)
	flightStats := providers.NewFlightStatsClient(config.AppConfig.Providers.FlightStats)
	resolver := services.NewResolver(
		services.Attempt{
			Role:    models.SourcePrimary,
			Client:  flightAware,
			Timeout: config.AppConfig.Providers.FlightAware.Timeout,
		},
		services.Attempt{
			Role:    models.SourceSecondary,
			Client:  flightStats,
			Timeout: config.AppConfig.Providers.FlightStats.Timeout,
		},
	)

	ledger := database.NewPolicyStore(database.DB)
	flightDataHandler := handlers.NewFlightDataHandler(resolver, ledger, carriers)

	// --- Setup HTTP routes ---
	http.HandleFunc("/flight-data", metrics.InstrumentHandler("flight-data", flightDataHandler.Handle))
	http.HandleFunc("/health", metrics.InstrumentHandler("health", handlers.HealthHandler))
	http.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         ":" + config.AppConfig.Server.Port,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost%s\n", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server shutdown complete.")
}

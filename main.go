package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"plant-advisor/internal/config"
	"plant-advisor/internal/domain/entities"
	"plant-advisor/internal/domain/interfaces/repository"
	Iservices "plant-advisor/internal/domain/interfaces/services"
	"plant-advisor/internal/infra/handlers"
	"plant-advisor/internal/infra/logger"
	mongorepo "plant-advisor/internal/infra/repository"
	"plant-advisor/internal/infra/routes"
	"plant-advisor/internal/infra/services"
	"plant-advisor/internal/middleware"
	client "plant-advisor/internal/pkg"

	"github.com/gorilla/mux"
)

func main() {
	config.LoadEnv()

	ctx := context.Background()
	log := logger.NewLogger(ctx, true)

	// The transcript store is optional; the server answers without it.
	var conversationRepo repository.Repository[entities.Conversation]
	if uri := config.GetOptionalEnv("MONGODB_URI", ""); uri != "" {
		mongoClient, err := client.MongoClient(uri)
		if err != nil {
			log.Error(fmt.Sprintf("Transcript store unavailable: %v", err))
		} else {
			conversationRepo = mongorepo.NewMongoRepository[entities.Conversation](mongoClient.Database("PlantAdvisor"))
		}
	}

	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware(log))

	httpClient := &http.Client{Timeout: 60 * time.Second}

	var conversationSvc Iservices.IConversationService = services.NewConversationService(
		log,
		httpClient,
		config.GetOptionalEnv("GEMINI_API_KEY", ""),
		config.GetOptionalEnv("GEMINI_API_HOST", ""),
	)
	var detectorSvc Iservices.IDetectorService = services.NewDetectorService(
		log,
		httpClient,
		config.GetOptionalEnv("DETECTOR_API_HOST", ""),
	)
	var weatherSvc Iservices.IWeatherService = services.NewWeatherService(
		log,
		httpClient,
		config.GetOptionalEnv("WEATHER_API_KEY", ""),
		config.GetOptionalEnv("WEATHER_API_HOST", ""),
	)
	var peerReportSvc Iservices.IPeerReportService = services.NewPeerReportService(log, time.Now().UnixNano())
	var remedyStore Iservices.IRemedyStore = services.NewRemedyStore(log, config.GetOptionalEnv("REMEDIES_FILE", "remedies.json"))
	var transcriptSvc Iservices.ITranscriptService = services.NewTranscriptService(conversationRepo, ctx, log)

	diagnoseHandlers := handlers.NewDiagnoseHandlers(
		log,
		conversationSvc,
		detectorSvc,
		weatherSvc,
		peerReportSvc,
		remedyStore,
		transcriptSvc,
	)

	routes := routes.NewRoutes(router, diagnoseHandlers)
	routes.Init()

	port := config.GetOptionalEnv("PORT", "8000")
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: router,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	go func() {
		log.Info(fmt.Sprintf("Server is running on port %s", port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(fmt.Sprintf("Error running HTTP server: %s", err))
			os.Exit(1)
		}
	}()

	<-stop
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(fmt.Sprintf("Server forced to shutdown: %v", err))
	} else {
		log.Info("Server stopped gracefully.")
	}
}

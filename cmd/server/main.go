package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"core/internal/config"
	"core/internal/gazetteer"
	"core/internal/handler"
	"core/internal/repository"
	"core/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Print version info
	log.Printf("HomeScout Buyer Concierge")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	ctx := context.Background()

	// Lead persistence is optional; the concierge runs fine without it
	var repo *repository.LeadRepository
	if cfg.Database.Enabled {
		repo, err = repository.NewLeadRepository(&cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer repo.Close()
	} else {
		log.Println("⚠️  Database is disabled - leads will not be persisted")
		log.Println("   Set DATABASE_URL environment variable to enable lead persistence")
	}

	// Initialize Gemini client
	var gemini *service.GeminiClient
	if cfg.Gemini.Enabled {
		gemini, err = service.NewGeminiClient(ctx, &cfg.Gemini)
		if err != nil {
			log.Fatalf("Failed to initialize Gemini client: %v", err)
		}
		defer gemini.Close()
		log.Printf("✅ Gemini client initialized")
		log.Printf("   - Chat model: %s", cfg.Gemini.ChatModel)
		log.Printf("   - Analysis model: %s", cfg.Gemini.AnalysisModel)
		log.Printf("   - Chat Temperature: %.2f", cfg.Gemini.ChatTemperature)
		log.Printf("   - Chat TopP: %.2f", cfg.Gemini.ChatTopP)
		log.Printf("   - Chat MaxTokens: %d", cfg.Gemini.ChatMaxTokens)
	} else {
		log.Println("⚠️  Gemini is disabled - replies will use deterministic fallbacks")
		log.Println("   Set GEMINI_API_KEY environment variable to enable AI features")
	}

	// Initialize ATTOM client
	var attom *service.ATTOMClient
	if cfg.ATTOM.Enabled {
		attom = service.NewATTOMClient(&cfg.ATTOM)
		log.Printf("✅ ATTOM client initialized")
		log.Printf("   - API Base: %s", cfg.ATTOM.APIBase)
		log.Printf("   - Page size: %d", cfg.ATTOM.PageSize)
	} else {
		log.Println("⚠️  ATTOM is disabled - searches will serve mock properties")
		log.Println("   Set ATTOM_API_KEY environment variable to enable live property data")
	}

	// Load the city gazetteer
	gaz, err := gazetteer.Load()
	if err != nil {
		log.Fatalf("Failed to load city gazetteer: %v", err)
	}
	log.Printf("✅ Gazetteer loaded (%d cities)", gaz.Size())

	// Initialize services
	var generator service.Generator
	var analyzer service.Analyzer
	if gemini != nil {
		generator = gemini
		analyzer = gemini
	}

	extractor := service.NewExtractor(gaz)
	classifier := service.NewSegmentClassifier(cfg.Session.SegmentHistory)
	valuer := service.NewValuationEngine(analyzer)
	finder := service.NewPropertyFinder(attom, valuer, gaz, &cfg.ATTOM)
	ranker := service.NewDealRanker(&cfg.Ranking)

	registry := service.NewSessionRegistry(time.Duration(cfg.Session.TTLMinutes) * time.Minute)
	registry.StartSweeper(time.Duration(cfg.Session.SweepSeconds) * time.Second)
	defer registry.Close()

	var leads service.LeadRecorder
	if repo != nil {
		leads = repo
	}
	chatService := service.NewChatService(registry, extractor, classifier, generator, leads, &cfg.Session, cfg.Search.SummaryTopN)
	service.NewSearchDispatcher(finder, ranker, chatService, cfg.Search.DefaultLimit)

	log.Println("✅ Services initialized")

	// Initialize handlers
	chatHandler := handler.NewChatHandler(chatService)
	searchHandler := handler.NewSearchHandler(finder, ranker, &cfg.Search)
	var feedbackStore handler.FeedbackStore
	if repo != nil {
		feedbackStore = repo
	}
	feedbackHandler := handler.NewFeedbackHandler(feedbackStore)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "healthy",
			"service":    "homescout-concierge",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		// Conversational endpoints
		apiV1.POST("/chat/start", chatHandler.Start)
		apiV1.POST("/chat/message", chatHandler.Message)
		apiV1.POST("/chat/results", chatHandler.Results)
		apiV1.POST("/chat/refine", chatHandler.Refine)
		apiV1.GET("/chat/sessions/:id", chatHandler.Status)
		apiV1.DELETE("/chat/sessions/:id", chatHandler.End)

		// Direct search endpoint
		apiV1.POST("/search", searchHandler.Search)

		// Feedback endpoint
		apiV1.POST("/feedback", feedbackHandler.Submit)
	}

	// Serve static files (frontend)
	// This function is implemented in embed.go (production) or static_dev.go (development)
	setupStaticFiles(router)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("🚀 Starting server on %s", addr)
	log.Printf("📝 API Documentation: http://localhost:%d/api/v1", cfg.Server.Port)
	log.Printf("🌐 Web UI: http://localhost:%d", cfg.Server.Port)

	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	log.Println("✅ Server stopped")
}

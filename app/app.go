package app

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"modiv-eventcraft/app/controller"
	"modiv-eventcraft/app/router"
	"modiv-eventcraft/auth"
	"modiv-eventcraft/calculator"
	"modiv-eventcraft/db"
	"modiv-eventcraft/ratelimit"
	"modiv-eventcraft/repository"
	"modiv-eventcraft/service"
)

// Initialize initializes the application
func Initialize() error {
	// Initialize database connection
	if err := db.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	verifier, err := auth.NewVerifierFromEnv()
	if err != nil {
		return err
	}

	// Initialize repositories
	categoryRepo := repository.NewCategoryRepository()
	itemRepo := repository.NewItemRepository()
	templateRepo := repository.NewTemplateRepository()
	inquiryRepo := repository.NewInquiryRepository()

	// Calculator sessions live in memory and are swept on a TTL
	ttl := envMinutes("SESSION_TTL_MINUTES", 120)
	registry := calculator.NewRegistry(ttl)
	registry.StartSweeper(5*time.Minute, nil)

	// Submission rate limiter persisted as JSON ledgers on disk
	rateLimitDir := os.Getenv("RATE_LIMIT_DIR")
	if rateLimitDir == "" {
		rateLimitDir = "data/ratelimit"
	}
	store, err := ratelimit.NewFileStore(rateLimitDir)
	if err != nil {
		return fmt.Errorf("failed to initialize rate limit store: %w", err)
	}
	limiter := ratelimit.NewLimiter(store,
		envInt("RATE_LIMIT_MAX", ratelimit.DefaultMaxPerWindow),
		time.Duration(envInt("RATE_LIMIT_WINDOW_SECONDS", 0))*time.Second)

	// Initialize services
	emailService := service.NewEmailService(service.LoadEmailConfigFromEnv())
	inquiryService := service.NewInquiryService(inquiryRepo, limiter, emailService)

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		baseURL = "http://localhost:" + port
	}
	quotationService := service.NewQuotationService(inquiryRepo, baseURL)

	// Photo sync is optional: without Drive credentials the catalog still
	// works, items just keep whatever imageUrl they already have
	var syncService *service.SyncService
	if credentialsPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credentialsPath != "" {
		driveService, err := service.NewDriveService(credentialsPath)
		if err != nil {
			return err
		}
		if err := service.EnsureCacheDir(); err != nil {
			return err
		}
		syncService = service.NewSyncService(driveService, itemRepo)
	} else {
		log.Println("⚠️ GOOGLE_APPLICATION_CREDENTIALS not set, photo sync disabled")
	}

	// Create controllers
	controllers := &router.Controllers{
		Calculator: controller.NewCalculatorController(registry, itemRepo, categoryRepo, templateRepo, inquiryService),
		Category:   controller.NewCategoryController(categoryRepo),
		Item:       controller.NewItemController(itemRepo, syncService),
		Template:   controller.NewTemplateController(templateRepo),
		Inquiry:    controller.NewInquiryController(inquiryRepo, quotationService),
	}

	// Setup routes using standard http router
	router.SetupRoutes(controllers, verifier)

	return nil
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("⚠️ Invalid %s=%q, using %d", key, raw, fallback)
		return fallback
	}
	return value
}

func envMinutes(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Minute
}

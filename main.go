package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"task-reward-system/handlers"
	"task-reward-system/middleware"
	"task-reward-system/models"
	"task-reward-system/services"
	"task-reward-system/utils"
	"task-reward-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{})

	// 🔐 GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-User-Roles",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	db, err := openDatabase()
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.SnapshotRecord{},
		&models.ActivityEvent{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	blobStore, err := selectBlobStore(ctx, db)
	if err != nil {
		log.Fatal("failed to initialize blob store:", err)
	}

	snapshotWorker := workers.NewSnapshotWorker(blobStore, 256)
	go snapshotWorker.Run(ctx)

	activityLogger := services.NewActivityLogger(db)
	sessions := services.NewSessionManager(blobStore, snapshotWorker, activityLogger)

	// --- Optional external collaborators ---
	var calendarClient *services.CalendarSyncClient
	if calURL := os.Getenv("CALENDAR_SERVICE_URL"); calURL != "" {
		calendarClient = services.NewCalendarSyncClient(calURL, os.Getenv("CALENDAR_SERVICE_TOKEN"))
		log.Println("✅ Calendar sync enabled")
	}

	if notifyURL := os.Getenv("NOTIFY_WEBHOOK_URL"); notifyURL != "" {
		notifier := services.NewWebhookNotifier(notifyURL, os.Getenv("NOTIFY_WEBHOOK_TOKEN"))
		if err := services.StartReminderScheduler(sessions, notifier, 30*time.Minute); err != nil {
			log.Fatal("failed to start reminder scheduler:", err)
		}
		log.Println("✅ Due-task reminder scheduler running (every 1m)")
	}

	// ✅ Setup routes — enforced Gateway auth + user context on secured groups
	handlers.SetupTaskRoutes(app, sessions, calendarClient)
	handlers.SetupProgressRoutes(app, sessions, activityLogger)

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Snapshot worker running")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}

// openDatabase prefers DATABASE_URL (postgres); without it the service runs
// off a local sqlite file, which matches the single-device deployments this
// core came from.
func openDatabase() (*gorm.DB, error) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	path := os.Getenv("SQLITE_PATH")
	if path == "" {
		path = "task-reward.db"
	}
	log.Printf("⚠️  DATABASE_URL not set, using local sqlite database at %s", path)
	return gorm.Open(sqlite.Open(path), &gorm.Config{})
}

func selectBlobStore(ctx context.Context, db *gorm.DB) (utils.BlobStore, error) {
	if os.Getenv("BLOB_BACKEND") == "r2" {
		log.Println("✅ Using R2 blob store for profile snapshots")
		return utils.NewS3BlobStore(ctx)
	}
	return utils.NewGormBlobStore(db), nil
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clubhub/backend/internal/config"
	"github.com/clubhub/backend/internal/database"
	"github.com/clubhub/backend/internal/handlers"
	"github.com/clubhub/backend/internal/middleware"
	"github.com/clubhub/backend/internal/services"
	"github.com/clubhub/backend/internal/storage"
	"github.com/clubhub/backend/pkg/logger"
	"github.com/clubhub/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	logger.Init()

	cfg := config.Load()
	utils.ConfigureJWT(cfg.JWT.Secret, cfg.JWT.ExpirationHours)

	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	storageClient, err := storage.NewMinIOClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("minio initialization failed: %v", err)
	}
	if err := storageClient.EnsureBucket(context.Background()); err != nil {
		log.Fatalf("failed ensuring minio bucket: %v", err)
	}

	membershipService := services.NewMembershipService(db)

	authHandler := handlers.NewAuthHandler(db, storageClient)
	usersHandler := handlers.NewUsersHandler(db)
	clubsHandler := handlers.NewClubsHandler(db, storageClient)
	membershipsHandler := handlers.NewMembershipsHandler(db, membershipService)
	notificationsHandler := handlers.NewNotificationsHandler(db)
	eventsHandler := handlers.NewEventsHandler(db)
	messagesHandler := handlers.NewMessagesHandler(db)
	dashboardHandler := handlers.NewDashboardHandler(db)
	statsHandler := handlers.NewStatsHandler(db)

	authMiddleware := middleware.NewAuthMiddleware(db)

	app := fiber.New(fiber.Config{BodyLimit: 10 * 1024 * 1024})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.SecurityLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	api.Get("/home", dashboardHandler.Home)
	api.Get("/dashboard", authMiddleware.RequireAuth, dashboardHandler.Dashboard)

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Get("/me", authMiddleware.RequireAuth, authHandler.Me)
	authRoutes.Put("/me", authMiddleware.RequireAuth, authHandler.UpdateMe)
	authRoutes.Put("/password", authMiddleware.RequireAuth, authHandler.ChangePassword)
	authRoutes.Post("/me/avatar", authMiddleware.RequireAuth, authHandler.UploadAvatar)

	userRoutes := api.Group("/users", authMiddleware.RequireAuth, middleware.AdminOnly)
	userRoutes.Get("/", usersHandler.List)
	userRoutes.Post("/", usersHandler.Create)
	userRoutes.Get("/:id", usersHandler.Get)
	userRoutes.Put("/:id", usersHandler.Update)
	userRoutes.Delete("/:id", usersHandler.Delete)

	clubRoutes := api.Group("/clubs")
	clubRoutes.Get("/categories", clubsHandler.Categories)
	clubRoutes.Get("/", authMiddleware.RequireAuth, clubsHandler.List)
	clubRoutes.Post("/", authMiddleware.RequireAuth, middleware.AdminOnly, clubsHandler.Create)
	clubRoutes.Get("/:id", authMiddleware.RequireAuth, clubsHandler.Get)
	clubRoutes.Put("/:id", authMiddleware.RequireAuth, middleware.AdminOnly, clubsHandler.Update)
	clubRoutes.Delete("/:id", authMiddleware.RequireAuth, middleware.AdminOnly, clubsHandler.Delete)
	clubRoutes.Get("/:id/logo-url", authMiddleware.OptionalAuth, clubsHandler.LogoURL)
	clubRoutes.Post("/:id/logo", authMiddleware.RequireAuth, middleware.AdminOnly, clubsHandler.UploadLogo)
	clubRoutes.Post("/:id/apply", authMiddleware.RequireAuth, membershipsHandler.Apply)
	clubRoutes.Get("/:id/memberships", authMiddleware.RequireAuth, membershipsHandler.Manage)
	clubRoutes.Post("/:id/memberships/:membershipId/decide", authMiddleware.RequireAuth, membershipsHandler.Decide)

	api.Get("/my-clubs", authMiddleware.RequireAuth, membershipsHandler.MyClubs)

	notificationRoutes := api.Group("/notifications", authMiddleware.RequireAuth)
	notificationRoutes.Get("/", notificationsHandler.List)
	notificationRoutes.Post("/", notificationsHandler.Create)
	notificationRoutes.Delete("/:id", notificationsHandler.Deactivate)

	eventRoutes := api.Group("/events", authMiddleware.RequireAuth)
	eventRoutes.Get("/", eventsHandler.List)
	eventRoutes.Post("/", eventsHandler.Create)
	eventRoutes.Post("/:id/register", eventsHandler.Register)
	eventRoutes.Put("/:id/attendance/:userId", eventsHandler.MarkAttendance)

	messageRoutes := api.Group("/messages", authMiddleware.RequireAuth)
	messageRoutes.Get("/", messagesHandler.Inbox)
	messageRoutes.Post("/", messagesHandler.Send)
	messageRoutes.Get("/:id", messagesHandler.Get)

	api.Get("/admin/statistics", authMiddleware.RequireAuth, middleware.AdminOnly, statsHandler.Get)

	listenAddr := fmt.Sprintf(":%s", cfg.Server.Port)

	logger.Info("server_starting", map[string]interface{}{
		"port":    cfg.Server.Port,
		"address": listenAddr,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(listenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("shutting down server due to signal: %s", sig)
		shutdownDone := make(chan struct{})
		go func() {
			_ = app.Shutdown()
			close(shutdownDone)
		}()
		select {
		case <-shutdownDone:
		case <-time.After(10 * time.Second):
			log.Print("forced shutdown timeout reached")
		}
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}
}

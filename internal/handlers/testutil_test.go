package handlers

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/clubhub/backend/internal/middleware"
	"github.com/clubhub/backend/internal/models"
	"github.com/clubhub/backend/internal/services"
	"github.com/clubhub/backend/pkg/logger"
	"github.com/clubhub/backend/pkg/utils"
	gosqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
}

var testSetupOnce sync.Once

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	testSetupOnce.Do(func() {
		gosqlite.MustRegisterScalarFunction("NOW", 0, func(ctx *gosqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			return time.Now().UTC(), nil
		})
		logger.Init()
		utils.ConfigureJWT("test-secret", 24)
	})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	err = db.AutoMigrate(
		&models.User{},
		&models.Club{},
		&models.Membership{},
		&models.Notification{},
		&models.Event{},
		&models.EventAttendance{},
		&models.Message{},
	)
	if err != nil {
		t.Fatalf("failed automigrating models: %v", err)
	}

	membershipService := services.NewMembershipService(db)

	authHandler := NewAuthHandler(db, nil)
	usersHandler := NewUsersHandler(db)
	clubsHandler := NewClubsHandler(db, nil)
	membershipsHandler := NewMembershipsHandler(db, membershipService)
	notificationsHandler := NewNotificationsHandler(db)
	eventsHandler := NewEventsHandler(db)
	messagesHandler := NewMessagesHandler(db)
	dashboardHandler := NewDashboardHandler(db)
	statsHandler := NewStatsHandler(db)

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

	return &testEnv{app: app, db: db}
}

func createTestUser(t *testing.T, db *gorm.DB, username, email, password string, role models.UserRole) (*models.User, string) {
	t.Helper()

	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("failed hashing password: %v", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		IsActive:     true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed creating test user: %v", err)
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		t.Fatalf("failed generating auth token: %v", err)
	}

	return user, token
}

func createTestClub(t *testing.T, db *gorm.DB, name string, category models.ClubCategory, leaderID *uuid.UUID) *models.Club {
	t.Helper()

	club := &models.Club{
		Name:     name,
		Category: category,
		IsActive: true,
		LeaderID: leaderID,
	}
	if err := db.Create(club).Error; err != nil {
		t.Fatalf("failed creating test club: %v", err)
	}
	return club
}

func createTestMembership(t *testing.T, db *gorm.DB, userID, clubID uuid.UUID, status models.MembershipStatus) *models.Membership {
	t.Helper()

	membership := &models.Membership{
		UserID:    userID,
		ClubID:    clubID,
		Status:    status,
		AppliedAt: time.Now().UTC(),
	}
	if status == models.MembershipStatusApproved {
		now := time.Now().UTC()
		membership.ApprovedAt = &now
	}
	if err := db.Create(membership).Error; err != nil {
		t.Fatalf("failed creating test membership: %v", err)
	}
	return membership
}

func authHeaders(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func performRequest(t *testing.T, app *fiber.App, method, path string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := app.Test(req, int((10 * time.Second).Milliseconds()))
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}

	return resp
}

func performJSONRequest(t *testing.T, app *fiber.App, method, path string, payload any, headers map[string]string) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	requestHeaders := map[string]string{}
	for key, value := range headers {
		requestHeaders[key] = value
	}
	if payload != nil {
		requestHeaders["Content-Type"] = "application/json"
	}

	return performRequest(t, app, method, path, body, requestHeaders)
}

func decodeJSONMap(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed reading response body: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("failed decoding JSON response: %v body=%q", err, string(raw))
	}

	return payload
}

func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Fatalf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

func assertEnvelopeError(t *testing.T, body map[string]any, expected string) {
	t.Helper()
	if success, _ := body["success"].(bool); success {
		t.Fatalf("expected success=false, got %+v", body)
	}
	if got, _ := body["error"].(string); got != expected {
		t.Fatalf("expected error %q, got %q", expected, got)
	}
}

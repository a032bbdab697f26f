package handlers

import (
	"strings"
	"time"

	"github.com/clubhub/backend/internal/authz"
	"github.com/clubhub/backend/internal/middleware"
	"github.com/clubhub/backend/internal/models"
	"github.com/clubhub/backend/internal/services"
	"github.com/clubhub/backend/pkg/logger"
	"github.com/clubhub/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventsHandler struct {
	DB *gorm.DB
}

func NewEventsHandler(db *gorm.DB) *EventsHandler {
	return &EventsHandler{DB: db}
}

type eventFeedResponse struct {
	Upcoming []models.Event `json:"upcoming"`
	Past     []models.Event `json:"past"`
}

// List returns the caller's event calendar over their visible clubs:
// upcoming ascending, past descending capped at ten.
func (h *EventsHandler) List(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	clubIDs, err := services.VisibleClubIDs(c.Context(), h.DB, currentUser.ID)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed resolving visible clubs")
	}

	feed := eventFeedResponse{Upcoming: []models.Event{}, Past: []models.Event{}}
	if len(clubIDs) == 0 {
		return utils.Success(c, fiber.StatusOK, feed)
	}

	now := time.Now().UTC()
	if err := h.DB.Preload("Club").
		Where("club_id IN ? AND date >= ?", clubIDs, now).
		Order("date ASC").
		Find(&feed.Upcoming).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing upcoming events")
	}
	if err := h.DB.Preload("Club").
		Where("club_id IN ? AND date < ?", clubIDs, now).
		Order("date DESC").
		Limit(10).
		Find(&feed.Past).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing past events")
	}

	return utils.Success(c, fiber.StatusOK, feed)
}

type createEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ClubID      uuid.UUID `json:"clubID"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
}

func (h *EventsHandler) Create(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req createEventRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return utils.Error(c, fiber.StatusBadRequest, "title is required")
	}
	if req.ClubID == uuid.Nil {
		return utils.Error(c, fiber.StatusBadRequest, "clubID is required")
	}
	if req.Date.IsZero() {
		return utils.Error(c, fiber.StatusBadRequest, "date is required")
	}

	var club models.Club
	if err := h.DB.First(&club, "id = ?", req.ClubID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "club not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading club")
	}
	if !authz.CanManageClub(currentUser, &club) {
		return utils.Error(c, fiber.StatusForbidden, "not authorized to create events for this club")
	}

	event := models.Event{
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		ClubID:      req.ClubID,
		Date:        req.Date,
		Location:    strings.TrimSpace(req.Location),
	}
	if err := h.DB.Create(&event).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed creating event")
	}

	logger.InfoWithUser(currentUser.ID.String(), "event_created", map[string]interface{}{
		"event_id": event.ID.String(),
		"club_id":  event.ClubID.String(),
	})

	return utils.Success(c, fiber.StatusCreated, event)
}

// Register signs the caller up for an event. Requires posting rights in the
// club (leader or approved member). Repeat registration is a no-op outcome.
func (h *EventsHandler) Register(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	eventID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid event id")
	}

	var event models.Event
	if err := h.DB.Preload("Club").First(&event, "id = ?", eventID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "event not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading event")
	}

	var membership *models.Membership
	var own models.Membership
	if err := h.DB.First(&own, "user_id = ? AND club_id = ?", currentUser.ID, event.ClubID).Error; err == nil {
		membership = &own
	} else if err != gorm.ErrRecordNotFound {
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading membership")
	}
	if !authz.CanPostToClub(currentUser, &event.Club, membership) {
		return utils.Error(c, fiber.StatusForbidden, "not authorized to register for this event")
	}

	var existing models.EventAttendance
	if err := h.DB.First(&existing, "event_id = ? AND user_id = ?", eventID, currentUser.ID).Error; err == nil {
		return utils.Success(c, fiber.StatusOK, fiber.Map{
			"alreadyRegistered": true,
			"status":            existing.Status,
		})
	} else if err != gorm.ErrRecordNotFound {
		return utils.Error(c, fiber.StatusInternalServerError, "failed checking registration")
	}

	attendance := models.EventAttendance{
		EventID:      eventID,
		UserID:       currentUser.ID,
		Status:       models.AttendanceStatusRegistered,
		RegisteredAt: time.Now().UTC(),
	}
	if err := h.DB.Create(&attendance).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed registering for event")
	}

	return utils.Success(c, fiber.StatusCreated, attendance)
}

type markAttendanceRequest struct {
	Status models.AttendanceStatus `json:"status"`
}

// MarkAttendance lets the club's leader or an admin record whether a
// registered user showed up.
func (h *EventsHandler) MarkAttendance(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	eventID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid event id")
	}
	userID, err := parseUUID(c.Params("userId"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid user id")
	}

	var req markAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !models.IsValidAttendanceStatus(req.Status) {
		return utils.Error(c, fiber.StatusBadRequest, "invalid attendance status")
	}

	var event models.Event
	if err := h.DB.Preload("Club").First(&event, "id = ?", eventID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "event not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading event")
	}
	if !authz.CanManageClub(currentUser, &event.Club) {
		return utils.Error(c, fiber.StatusForbidden, "not authorized to manage this event")
	}

	result := h.DB.Model(&models.EventAttendance{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Update("status", req.Status)
	if result.Error != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed updating attendance")
	}
	if result.RowsAffected == 0 {
		return utils.Error(c, fiber.StatusNotFound, "attendance not found")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "attendance updated"})
}

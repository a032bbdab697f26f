package handlers

import (
	"strings"

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

type NotificationsHandler struct {
	DB *gorm.DB
}

func NewNotificationsHandler(db *gorm.DB) *NotificationsHandler {
	return &NotificationsHandler{DB: db}
}

// List returns the caller's visible notification feed: global announcements
// plus those scoped to clubs they lead or are approved members of.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	clubIDs, err := services.VisibleClubIDs(c.Context(), h.DB, currentUser.ID)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed resolving visible clubs")
	}

	var notifications []models.Notification
	if err := services.VisibleNotifications(c.Context(), h.DB, clubIDs).Find(&notifications).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing notifications")
	}

	return utils.Success(c, fiber.StatusOK, notifications)
}

type createNotificationRequest struct {
	Title   string                  `json:"title"`
	Content string                  `json:"content"`
	Type    models.NotificationType `json:"type"`
	ClubID  *uuid.UUID              `json:"clubID"`
}

// Create posts a notification. Global notifications (no club) are reserved
// for admins; club-scoped ones require manage rights or approved membership
// in that club.
func (h *NotificationsHandler) Create(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req createNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if req.Title == "" || req.Content == "" {
		return utils.Error(c, fiber.StatusBadRequest, "title and content are required")
	}
	if req.Type == "" {
		req.Type = models.NotificationTypeAnnouncement
	}
	if !models.IsValidNotificationType(req.Type) {
		return utils.Error(c, fiber.StatusBadRequest, "invalid notification type")
	}

	if req.ClubID == nil {
		if !authz.IsAdmin(currentUser) {
			return utils.Error(c, fiber.StatusForbidden, "only admins can post global notifications")
		}
	} else {
		var club models.Club
		if err := h.DB.First(&club, "id = ?", *req.ClubID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return utils.Error(c, fiber.StatusNotFound, "club not found")
			}
			return utils.Error(c, fiber.StatusInternalServerError, "failed loading club")
		}

		var membership *models.Membership
		var own models.Membership
		if err := h.DB.First(&own, "user_id = ? AND club_id = ?", currentUser.ID, club.ID).Error; err == nil {
			membership = &own
		} else if err != gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusInternalServerError, "failed loading membership")
		}

		if !authz.CanPostToClub(currentUser, &club, membership) {
			return utils.Error(c, fiber.StatusForbidden, "not authorized to post to this club")
		}
	}

	notification := models.Notification{
		Title:       req.Title,
		Content:     req.Content,
		Type:        req.Type,
		ClubID:      req.ClubID,
		CreatedByID: currentUser.ID,
		IsActive:    true,
	}
	if err := h.DB.Create(&notification).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed creating notification")
	}

	logger.InfoWithUser(currentUser.ID.String(), "notification_created", map[string]interface{}{
		"notification_id": notification.ID.String(),
		"type":            string(notification.Type),
		"global":          notification.ClubID == nil,
	})

	return utils.Success(c, fiber.StatusCreated, notification)
}

// Deactivate retires a notification without deleting it. Authors may retire
// their own; admins may retire any.
func (h *NotificationsHandler) Deactivate(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	notificationID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid notification id")
	}

	var notification models.Notification
	if err := h.DB.First(&notification, "id = ?", notificationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "notification not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading notification")
	}

	if notification.CreatedByID != currentUser.ID && !authz.IsAdmin(currentUser) {
		return utils.Error(c, fiber.StatusForbidden, "not authorized to deactivate this notification")
	}

	if err := h.DB.Model(&models.Notification{}).
		Where("id = ?", notificationID).
		Update("is_active", false).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed deactivating notification")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "notification deactivated"})
}

package handlers

import (
	"strings"
	"time"

	"github.com/clubhub/backend/internal/middleware"
	"github.com/clubhub/backend/internal/models"
	"github.com/clubhub/backend/pkg/logger"
	"github.com/clubhub/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessagesHandler struct {
	DB *gorm.DB
}

func NewMessagesHandler(db *gorm.DB) *MessagesHandler {
	return &MessagesHandler{DB: db}
}

type sendMessageRequest struct {
	ReceiverID uuid.UUID `json:"receiverID"`
	Subject    string    `json:"subject"`
	Content    string    `json:"content"`
}

func (h *MessagesHandler) Send(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.Subject = strings.TrimSpace(req.Subject)
	req.Content = strings.TrimSpace(req.Content)
	if req.ReceiverID == uuid.Nil {
		return utils.Error(c, fiber.StatusBadRequest, "receiverID is required")
	}
	if req.Subject == "" {
		return utils.Error(c, fiber.StatusBadRequest, "subject is required")
	}
	if req.Content == "" {
		return utils.Error(c, fiber.StatusBadRequest, "content is required")
	}
	if req.ReceiverID == currentUser.ID {
		return utils.Error(c, fiber.StatusBadRequest, "cannot send a message to yourself")
	}

	var receiver models.User
	if err := h.DB.First(&receiver, "id = ?", req.ReceiverID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "receiver not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading receiver")
	}

	message := models.Message{
		SenderID:   currentUser.ID,
		ReceiverID: req.ReceiverID,
		Subject:    req.Subject,
		Content:    req.Content,
		SentAt:     time.Now().UTC(),
		IsRead:     false,
	}
	if err := h.DB.Create(&message).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed sending message")
	}

	logger.InfoWithUser(currentUser.ID.String(), "message_sent", map[string]interface{}{
		"message_id":  message.ID.String(),
		"receiver_id": message.ReceiverID.String(),
	})

	return utils.Success(c, fiber.StatusCreated, message)
}

type inboxResponse struct {
	Received []models.Message `json:"received"`
	Sent     []models.Message `json:"sent"`
}

// Inbox lists the caller's received and sent messages newest-first, and
// marks every unread received message as read in a single update.
func (h *MessagesHandler) Inbox(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	// Mark before loading so the payload reflects the persisted read state.
	if err := h.DB.Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", currentUser.ID, false).
		Update("is_read", true).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed marking messages read")
	}

	inbox := inboxResponse{Received: []models.Message{}, Sent: []models.Message{}}
	if err := h.DB.Preload("Sender").
		Where("receiver_id = ?", currentUser.ID).
		Order("sent_at DESC").
		Find(&inbox.Received).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing messages")
	}
	if err := h.DB.Preload("Receiver").
		Where("sender_id = ?", currentUser.ID).
		Order("sent_at DESC").
		Find(&inbox.Sent).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing messages")
	}

	return utils.Success(c, fiber.StatusOK, inbox)
}

// Get returns a single message. Only the sender or the receiver may read
// it; opening it as the receiver marks it read.
func (h *MessagesHandler) Get(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	messageID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid message id")
	}

	var message models.Message
	if err := h.DB.Preload("Sender").Preload("Receiver").
		First(&message, "id = ?", messageID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "message not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading message")
	}

	if message.SenderID != currentUser.ID && message.ReceiverID != currentUser.ID {
		return utils.Error(c, fiber.StatusForbidden, "not authorized to read this message")
	}

	if message.ReceiverID == currentUser.ID && !message.IsRead {
		if err := h.DB.Model(&message).Update("is_read", true).Error; err != nil {
			return utils.Error(c, fiber.StatusInternalServerError, "failed marking message read")
		}
		message.IsRead = true
	}

	return utils.Success(c, fiber.StatusOK, message)
}

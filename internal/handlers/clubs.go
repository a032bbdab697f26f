package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/clubhub/backend/internal/authz"
	"github.com/clubhub/backend/internal/middleware"
	"github.com/clubhub/backend/internal/models"
	"github.com/clubhub/backend/internal/storage"
	"github.com/clubhub/backend/pkg/logger"
	"github.com/clubhub/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const clubPageSize = 9

type ClubsHandler struct {
	DB      *gorm.DB
	Storage *storage.MinIOClient
}

func NewClubsHandler(db *gorm.DB, store *storage.MinIOClient) *ClubsHandler {
	return &ClubsHandler{DB: db, Storage: store}
}

// List serves the club catalog: searchable, filterable by category, nine per
// page. Non-admins only see active clubs.
func (h *ClubsHandler) List(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	p := utils.ParsePaginationWithDefault(c, clubPageSize)
	search := strings.TrimSpace(c.Query("search"))
	category := strings.TrimSpace(c.Query("category"))

	query := h.DB.Model(&models.Club{})
	if search != "" {
		searchValue := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", searchValue, searchValue)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if !authz.IsAdmin(currentUser) {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed counting clubs")
	}

	var clubs []models.Club
	if err := utils.ApplyPagination(query.Preload("Leader").Order("name ASC"), p).Find(&clubs).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing clubs")
	}

	return utils.Paginated(c, clubs, p.Page, p.Limit, total)
}

// Categories exposes the category enum with display labels for filters and
// forms.
func (h *ClubsHandler) Categories(c *fiber.Ctx) error {
	type categoryOption struct {
		ID    models.ClubCategory `json:"id"`
		Label string              `json:"label"`
	}
	options := make([]categoryOption, 0, len(models.ClubCategories))
	for _, category := range models.ClubCategories {
		options = append(options, categoryOption{ID: category, Label: category.Label()})
	}
	return utils.Success(c, fiber.StatusOK, options)
}

type clubDetailResponse struct {
	Club          models.Club           `json:"club"`
	Members       []models.Membership   `json:"members"`
	Notifications []models.Notification `json:"notifications"`
	Events        []models.Event        `json:"events"`
	Membership    *models.Membership    `json:"membership,omitempty"`
	LeaderName    string                `json:"leaderName,omitempty"`
	MemberCount   int64                 `json:"memberCount"`
	CanManage     bool                  `json:"canManage"`
	CanPost       bool                  `json:"canPost"`
}

// Get assembles the club detail view-model: approved members, the latest
// active notifications, the event calendar, and the caller's own standing.
func (h *ClubsHandler) Get(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	clubID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid club id")
	}

	var club models.Club
	if err := h.DB.Preload("Leader").First(&club, "id = ?", clubID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "club not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading club")
	}

	if !club.IsActive && !authz.IsAdmin(currentUser) {
		return utils.Error(c, fiber.StatusForbidden, "club is not active")
	}

	var membership *models.Membership
	var own models.Membership
	if err := h.DB.First(&own, "user_id = ? AND club_id = ?", currentUser.ID, clubID).Error; err == nil {
		membership = &own
	} else if err != gorm.ErrRecordNotFound {
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading membership")
	}

	var members []models.Membership
	if err := h.DB.Preload("User").
		Where("club_id = ? AND status = ?", clubID, models.MembershipStatusApproved).
		Order("applied_at DESC").
		Find(&members).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading members")
	}

	var notifications []models.Notification
	if err := h.DB.Preload("CreatedBy").
		Where("club_id = ? AND is_active = ?", clubID, true).
		Order("created_at DESC").
		Limit(10).
		Find(&notifications).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading notifications")
	}

	var events []models.Event
	if err := h.DB.Where("club_id = ?", clubID).Order("date ASC").Find(&events).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading events")
	}

	leaderName := ""
	if club.Leader != nil {
		leaderName = club.Leader.FullName()
	}

	return utils.Success(c, fiber.StatusOK, clubDetailResponse{
		Club:          club,
		Members:       members,
		Notifications: notifications,
		Events:        events,
		Membership:    membership,
		LeaderName:    leaderName,
		MemberCount:   int64(len(members)),
		CanManage:     authz.CanManageClub(currentUser, &club),
		CanPost:       authz.CanPostToClub(currentUser, &club, membership),
	})
}

type createClubRequest struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Category    models.ClubCategory `json:"category"`
	LeaderID    *uuid.UUID          `json:"leaderID"`
	IsActive    *bool               `json:"isActive"`
}

func (h *ClubsHandler) Create(c *fiber.Ctx) error {
	var req createClubRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return utils.Error(c, fiber.StatusBadRequest, "name is required")
	}
	if req.Category == "" {
		req.Category = models.ClubCategoryOther
	}
	if !models.IsValidClubCategory(req.Category) {
		return utils.Error(c, fiber.StatusBadRequest, "invalid category")
	}

	club := models.Club{
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		Category:    req.Category,
		IsActive:    true,
	}
	if req.IsActive != nil {
		club.IsActive = *req.IsActive
	}
	if req.LeaderID != nil {
		var leader models.User
		if err := h.DB.First(&leader, "id = ?", *req.LeaderID).Error; err != nil {
			return utils.Error(c, fiber.StatusBadRequest, "leader not found")
		}
		club.LeaderID = req.LeaderID
	}

	if err := h.DB.Create(&club).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed creating club")
	}

	logger.Info("club_created", map[string]interface{}{
		"club_id":   club.ID.String(),
		"club_name": club.Name,
		"category":  string(club.Category),
	})

	return utils.Success(c, fiber.StatusCreated, club)
}

type updateClubRequest struct {
	Name        *string              `json:"name"`
	Description *string              `json:"description"`
	Category    *models.ClubCategory `json:"category"`
	LeaderID    *uuid.UUID           `json:"leaderID"`
	ClearLeader bool                 `json:"clearLeader"`
	IsActive    *bool                `json:"isActive"`
}

func (h *ClubsHandler) Update(c *fiber.Ctx) error {
	clubID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid club id")
	}

	var req updateClubRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return utils.Error(c, fiber.StatusBadRequest, "name cannot be empty")
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Category != nil {
		if !models.IsValidClubCategory(*req.Category) {
			return utils.Error(c, fiber.StatusBadRequest, "invalid category")
		}
		updates["category"] = *req.Category
	}
	if req.ClearLeader {
		updates["leader_id"] = nil
	} else if req.LeaderID != nil {
		var leader models.User
		if err := h.DB.First(&leader, "id = ?", *req.LeaderID).Error; err != nil {
			return utils.Error(c, fiber.StatusBadRequest, "leader not found")
		}
		updates["leader_id"] = *req.LeaderID
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		return utils.Error(c, fiber.StatusBadRequest, "no valid fields to update")
	}

	result := h.DB.Model(&models.Club{}).Where("id = ?", clubID).Updates(updates)
	if result.Error != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed updating club")
	}
	if result.RowsAffected == 0 {
		return utils.Error(c, fiber.StatusNotFound, "club not found")
	}

	var updated models.Club
	if err := h.DB.Preload("Leader").First(&updated, "id = ?", clubID).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading updated club")
	}

	return utils.Success(c, fiber.StatusOK, updated)
}

// Delete removes a club and cascades to its memberships, notifications,
// events, and event attendance rows so nothing is orphaned.
func (h *ClubsHandler) Delete(c *fiber.Ctx) error {
	clubID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid club id")
	}

	var club models.Club
	if err := h.DB.First(&club, "id = ?", clubID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "club not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading club")
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var eventIDs []uuid.UUID
		if err := tx.Model(&models.Event{}).Where("club_id = ?", clubID).Pluck("id", &eventIDs).Error; err != nil {
			return err
		}
		if len(eventIDs) > 0 {
			if err := tx.Where("event_id IN ?", eventIDs).Delete(&models.EventAttendance{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("club_id = ?", clubID).Delete(&models.Event{}).Error; err != nil {
			return err
		}
		if err := tx.Where("club_id = ?", clubID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("club_id = ?", clubID).Delete(&models.Membership{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Club{}, "id = ?", clubID).Error
	})
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed deleting club")
	}

	logger.Info("club_deleted", map[string]interface{}{
		"club_id":   clubID.String(),
		"club_name": club.Name,
	})

	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "club deleted"})
}

func (h *ClubsHandler) UploadLogo(c *fiber.Ctx) error {
	clubID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid club id")
	}
	if h.Storage == nil {
		return utils.Error(c, fiber.StatusServiceUnavailable, "file storage is not configured")
	}

	var club models.Club
	if err := h.DB.First(&club, "id = ?", clubID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "club not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading club")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "failed reading uploaded file")
	}
	defer file.Close()

	objectName := fmt.Sprintf("club-logos/%s/%s-%s", clubID.String(), uuid.New().String(), fileHeader.Filename)
	contentType := fileHeader.Header.Get("Content-Type")
	if err := h.Storage.Upload(c.Context(), objectName, file, fileHeader.Size, contentType); err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed storing logo")
	}

	if err := h.DB.Model(&models.Club{}).Where("id = ?", clubID).Update("logo_path", objectName).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed updating club")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"logoPath": objectName})
}

func (h *ClubsHandler) LogoURL(c *fiber.Ctx) error {
	clubID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid club id")
	}
	if h.Storage == nil {
		return utils.Error(c, fiber.StatusServiceUnavailable, "file storage is not configured")
	}

	var club models.Club
	if err := h.DB.First(&club, "id = ?", clubID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "club not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading club")
	}
	if club.LogoPath == nil {
		return utils.Error(c, fiber.StatusNotFound, "club has no logo")
	}

	url, err := h.Storage.PresignedGetURL(c.Context(), *club.LogoPath, 15*time.Minute)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed generating logo url")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"url": url})
}

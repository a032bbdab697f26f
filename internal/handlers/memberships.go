package handlers

import (
	"errors"
	"strings"

	"github.com/clubhub/backend/internal/authz"
	"github.com/clubhub/backend/internal/middleware"
	"github.com/clubhub/backend/internal/models"
	"github.com/clubhub/backend/internal/services"
	"github.com/clubhub/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type MembershipsHandler struct {
	DB      *gorm.DB
	Service *services.MembershipService
}

func NewMembershipsHandler(db *gorm.DB, service *services.MembershipService) *MembershipsHandler {
	return &MembershipsHandler{DB: db, Service: service}
}

// Apply submits a join request. A repeat application is not an error: the
// response reports the existing row's status instead of creating a new one.
func (h *MembershipsHandler) Apply(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	clubID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid club id")
	}

	membership, err := h.Service.Apply(c.Context(), currentUser, clubID)
	if err != nil {
		var duplicate *services.DuplicateApplicationError
		switch {
		case errors.As(err, &duplicate):
			return utils.Success(c, fiber.StatusOK, fiber.Map{
				"alreadyApplied": true,
				"status":         duplicate.Existing.Status,
				"membership":     duplicate.Existing,
			})
		case errors.Is(err, services.ErrClubNotFound):
			return utils.Error(c, fiber.StatusNotFound, "club not found")
		case errors.Is(err, services.ErrClubInactive):
			return utils.Error(c, fiber.StatusBadRequest, "club is not active")
		default:
			return utils.Error(c, fiber.StatusInternalServerError, "failed applying for membership")
		}
	}

	return utils.Success(c, fiber.StatusCreated, fiber.Map{
		"alreadyApplied": false,
		"status":         membership.Status,
		"membership":     membership,
	})
}

// Manage returns the club's applications partitioned into pending, approved,
// and rejected buckets for the leader's management view.
func (h *MembershipsHandler) Manage(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

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
	if !authz.CanManageClub(currentUser, &club) {
		return utils.Error(c, fiber.StatusForbidden, "not authorized to manage this club")
	}

	status := models.MembershipStatus(strings.TrimSpace(c.Query("status")))
	buckets, err := h.Service.ListByClub(c.Context(), clubID, status)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing memberships")
	}

	return utils.Success(c, fiber.StatusOK, buckets)
}

type decideRequest struct {
	Decision services.Decision `json:"decision"`
	Notes    string            `json:"notes"`
}

func (h *MembershipsHandler) Decide(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	clubID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid club id")
	}
	membershipID, err := parseUUID(c.Params("membershipId"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid membership id")
	}

	var req decideRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	membership, err := h.Service.Decide(c.Context(), currentUser, clubID, membershipID, req.Decision, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidDecision):
			return utils.Error(c, fiber.StatusBadRequest, "decision must be approve or reject")
		case errors.Is(err, services.ErrClubNotFound):
			return utils.Error(c, fiber.StatusNotFound, "club not found")
		case errors.Is(err, services.ErrMembershipNotFound):
			return utils.Error(c, fiber.StatusNotFound, "membership not found")
		case errors.Is(err, services.ErrNotClubManager):
			return utils.Error(c, fiber.StatusForbidden, "not authorized to manage this club")
		case errors.Is(err, services.ErrAlreadyDecided):
			return utils.Error(c, fiber.StatusConflict, "membership already decided")
		default:
			return utils.Error(c, fiber.StatusInternalServerError, "failed deciding membership")
		}
	}

	return utils.Success(c, fiber.StatusOK, membership)
}

type myClubsResponse struct {
	Memberships         []models.Membership `json:"memberships"`
	LedClubs            []models.Club       `json:"ledClubs"`
	PendingApplications []models.Membership `json:"pendingApplications"`
}

func (h *MembershipsHandler) MyClubs(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var approved []models.Membership
	if err := h.DB.Preload("Club").
		Where("user_id = ? AND status = ?", currentUser.ID, models.MembershipStatusApproved).
		Order("applied_at DESC").
		Find(&approved).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing memberships")
	}

	var ledClubs []models.Club
	if err := h.DB.Where("leader_id = ?", currentUser.ID).Order("name ASC").Find(&ledClubs).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing led clubs")
	}

	var pending []models.Membership
	if err := h.DB.Preload("Club").
		Where("user_id = ? AND status = ?", currentUser.ID, models.MembershipStatusPending).
		Order("applied_at DESC").
		Find(&pending).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing pending applications")
	}

	return utils.Success(c, fiber.StatusOK, myClubsResponse{
		Memberships:         approved,
		LedClubs:            ledClubs,
		PendingApplications: pending,
	})
}

package handlers

import (
	"time"

	"github.com/clubhub/backend/internal/authz"
	"github.com/clubhub/backend/internal/middleware"
	"github.com/clubhub/backend/internal/models"
	"github.com/clubhub/backend/internal/services"
	"github.com/clubhub/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	DB *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{DB: db}
}

type homeResponse struct {
	Clubs         []models.Club         `json:"clubs"`
	Notifications []models.Notification `json:"notifications"`
	Events        []models.Event        `json:"events"`
}

// Home is the public landing payload: a small sample of active clubs,
// recent global notifications, and the next few events.
func (h *DashboardHandler) Home(c *fiber.Ctx) error {
	resp := homeResponse{
		Clubs:         []models.Club{},
		Notifications: []models.Notification{},
		Events:        []models.Event{},
	}

	if err := h.DB.Where("is_active = ?", true).
		Order("created_at DESC").
		Limit(6).
		Find(&resp.Clubs).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading clubs")
	}
	if err := h.DB.Where("is_active = ? AND club_id IS NULL", true).
		Order("created_at DESC").
		Limit(5).
		Find(&resp.Notifications).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading notifications")
	}
	if err := h.DB.Preload("Club").
		Where("date >= ?", time.Now().UTC()).
		Order("date ASC").
		Limit(3).
		Find(&resp.Events).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading events")
	}

	return utils.Success(c, fiber.StatusOK, resp)
}

type adminDashboard struct {
	TotalUsers         int64         `json:"totalUsers"`
	TotalClubs         int64         `json:"totalClubs"`
	PendingMemberships int64         `json:"pendingMemberships"`
	RecentUsers        []models.User `json:"recentUsers"`
	RecentClubs        []models.Club `json:"recentClubs"`
}

type leaderDashboard struct {
	LedClubs    []models.Club `json:"ledClubs"`
	MemberCount int64         `json:"memberCount"`
	EventCount  int64         `json:"eventCount"`
}

type dashboardResponse struct {
	User                *models.User          `json:"user"`
	JoinedClubs         []models.Club         `json:"joinedClubs"`
	PendingApplications []models.Membership   `json:"pendingApplications"`
	UnreadMessages      int64                 `json:"unreadMessages"`
	Notifications       []models.Notification `json:"notifications"`
	UpcomingEvents      []models.Event        `json:"upcomingEvents"`
	Admin               *adminDashboard       `json:"admin,omitempty"`
	Leader              *leaderDashboard      `json:"leader,omitempty"`
}

// Dashboard builds the caller's landing view-model fresh on every request.
// Admins and leaders get extra sections on top of the member payload.
func (h *DashboardHandler) Dashboard(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	resp := dashboardResponse{
		User:                currentUser,
		JoinedClubs:         []models.Club{},
		PendingApplications: []models.Membership{},
		Notifications:       []models.Notification{},
		UpcomingEvents:      []models.Event{},
	}

	var approved []models.Membership
	if err := h.DB.Preload("Club").
		Where("user_id = ? AND status = ?", currentUser.ID, models.MembershipStatusApproved).
		Find(&approved).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading memberships")
	}
	for _, m := range approved {
		resp.JoinedClubs = append(resp.JoinedClubs, m.Club)
	}

	if err := h.DB.Preload("Club").
		Where("user_id = ? AND status = ?", currentUser.ID, models.MembershipStatusPending).
		Order("applied_at DESC").
		Find(&resp.PendingApplications).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading applications")
	}

	if err := h.DB.Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", currentUser.ID, false).
		Count(&resp.UnreadMessages).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed counting messages")
	}

	clubIDs, err := services.VisibleClubIDs(c.Context(), h.DB, currentUser.ID)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed resolving visible clubs")
	}
	if err := services.VisibleNotifications(c.Context(), h.DB, clubIDs).
		Limit(5).
		Find(&resp.Notifications).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading notifications")
	}

	if len(clubIDs) > 0 {
		if err := h.DB.Preload("Club").
			Where("club_id IN ? AND date >= ?", clubIDs, time.Now().UTC()).
			Order("date ASC").
			Limit(5).
			Find(&resp.UpcomingEvents).Error; err != nil {
			return utils.Error(c, fiber.StatusInternalServerError, "failed loading events")
		}
	}

	if authz.IsAdmin(currentUser) {
		admin, err := h.adminSection()
		if err != nil {
			return utils.Error(c, fiber.StatusInternalServerError, "failed loading admin dashboard")
		}
		resp.Admin = admin
	}

	if authz.IsLeaderOrAdmin(currentUser) {
		leader, err := h.leaderSection(currentUser)
		if err != nil {
			return utils.Error(c, fiber.StatusInternalServerError, "failed loading leader dashboard")
		}
		if len(leader.LedClubs) > 0 {
			resp.Leader = leader
		}
	}

	return utils.Success(c, fiber.StatusOK, resp)
}

func (h *DashboardHandler) adminSection() (*adminDashboard, error) {
	section := &adminDashboard{
		RecentUsers: []models.User{},
		RecentClubs: []models.Club{},
	}
	if err := h.DB.Model(&models.User{}).Count(&section.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := h.DB.Model(&models.Club{}).Count(&section.TotalClubs).Error; err != nil {
		return nil, err
	}
	if err := h.DB.Model(&models.Membership{}).
		Where("status = ?", models.MembershipStatusPending).
		Count(&section.PendingMemberships).Error; err != nil {
		return nil, err
	}
	if err := h.DB.Order("created_at DESC").Limit(5).Find(&section.RecentUsers).Error; err != nil {
		return nil, err
	}
	if err := h.DB.Order("created_at DESC").Limit(5).Find(&section.RecentClubs).Error; err != nil {
		return nil, err
	}
	return section, nil
}

func (h *DashboardHandler) leaderSection(user *models.User) (*leaderDashboard, error) {
	section := &leaderDashboard{LedClubs: []models.Club{}}
	if err := h.DB.Where("leader_id = ?", user.ID).Find(&section.LedClubs).Error; err != nil {
		return nil, err
	}
	if len(section.LedClubs) == 0 {
		return section, nil
	}

	ledIDs := make([]uuid.UUID, 0, len(section.LedClubs))
	for _, club := range section.LedClubs {
		ledIDs = append(ledIDs, club.ID)
	}
	if err := h.DB.Model(&models.Membership{}).
		Where("club_id IN ? AND status = ?", ledIDs, models.MembershipStatusApproved).
		Count(&section.MemberCount).Error; err != nil {
		return nil, err
	}
	if err := h.DB.Model(&models.Event{}).
		Where("club_id IN ?", ledIDs).
		Count(&section.EventCount).Error; err != nil {
		return nil, err
	}
	return section, nil
}

package services

import (
	"context"
	"time"

	"github.com/clubhub/backend/internal/models"
	"github.com/clubhub/backend/pkg/logger"
	"gorm.io/gorm"
)

type CategoryCount struct {
	Category models.ClubCategory `json:"category"`
	Label    string              `json:"label"`
	Count    int64               `json:"count"`
}

type StatusCount struct {
	Status models.MembershipStatus `json:"status"`
	Count  int64                   `json:"count"`
}

// Statistics is the admin dashboard aggregate. All counts, so the zero value
// is a valid (empty) result.
type Statistics struct {
	TotalClubs           int64           `json:"totalClubs"`
	ActiveClubs          int64           `json:"activeClubs"`
	TotalUsers           int64           `json:"totalUsers"`
	TotalMemberships     int64           `json:"totalMemberships"`
	ApprovedMemberships  int64           `json:"approvedMemberships"`
	ClubsByCategory      []CategoryCount `json:"clubsByCategory"`
	MembershipsByStatus  []StatusCount   `json:"membershipsByStatus"`
	NewUsersWeek         int64           `json:"newUsersWeek"`
	NewMembershipsWeek   int64           `json:"newMembershipsWeek"`
	NewNotificationsWeek int64           `json:"newNotificationsWeek"`
	AdminCount           int64           `json:"adminCount"`
	LeaderCount          int64           `json:"leaderCount"`
	MemberCount          int64           `json:"memberCount"`
	UserCount            int64           `json:"userCount"`
	TotalByRoles         int64           `json:"totalByRoles"`
}

type StatsService struct {
	DB *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{DB: db}
}

// Compute aggregates the admin statistics. Any failure degrades to an empty
// result so the dashboard always renders; the error is logged, not returned.
func (s *StatsService) Compute(ctx context.Context) *Statistics {
	stats, err := s.compute(ctx)
	if err != nil {
		logger.Error("statistics_failed", err, nil)
		return emptyStatistics()
	}
	return stats
}

func (s *StatsService) compute(ctx context.Context) (*Statistics, error) {
	db := s.DB.WithContext(ctx)
	stats := emptyStatistics()

	if err := db.Model(&models.Club{}).Count(&stats.TotalClubs).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Club{}).Where("is_active = ?", true).Count(&stats.ActiveClubs).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Membership{}).Count(&stats.TotalMemberships).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Membership{}).
		Where("status = ?", models.MembershipStatusApproved).
		Count(&stats.ApprovedMemberships).Error; err != nil {
		return nil, err
	}

	for _, category := range models.ClubCategories {
		var count int64
		if err := db.Model(&models.Club{}).Where("category = ?", category).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			stats.ClubsByCategory = append(stats.ClubsByCategory, CategoryCount{
				Category: category,
				Label:    category.Label(),
				Count:    count,
			})
		}
	}

	statuses := []models.MembershipStatus{
		models.MembershipStatusPending,
		models.MembershipStatusApproved,
		models.MembershipStatusRejected,
	}
	for _, status := range statuses {
		var count int64
		if err := db.Model(&models.Membership{}).Where("status = ?", status).Count(&count).Error; err != nil {
			return nil, err
		}
		stats.MembershipsByStatus = append(stats.MembershipsByStatus, StatusCount{Status: status, Count: count})
	}

	weekAgo := time.Now().UTC().AddDate(0, 0, -7)
	if err := db.Model(&models.User{}).Where("created_at >= ?", weekAgo).Count(&stats.NewUsersWeek).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Membership{}).Where("applied_at >= ?", weekAgo).Count(&stats.NewMembershipsWeek).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Notification{}).Where("created_at >= ?", weekAgo).Count(&stats.NewNotificationsWeek).Error; err != nil {
		return nil, err
	}

	roleCounts := []struct {
		role models.UserRole
		dest *int64
	}{
		{models.UserRoleAdmin, &stats.AdminCount},
		{models.UserRoleLeader, &stats.LeaderCount},
		{models.UserRoleMember, &stats.MemberCount},
		{models.UserRoleUser, &stats.UserCount},
	}
	for _, rc := range roleCounts {
		if err := db.Model(&models.User{}).Where("role = ?", rc.role).Count(rc.dest).Error; err != nil {
			return nil, err
		}
	}
	stats.TotalByRoles = stats.AdminCount + stats.LeaderCount + stats.MemberCount + stats.UserCount

	return stats, nil
}

func emptyStatistics() *Statistics {
	return &Statistics{
		ClubsByCategory:     []CategoryCount{},
		MembershipsByStatus: []StatusCount{},
	}
}

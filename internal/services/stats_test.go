package services

import (
	"context"
	"testing"
	"time"

	"github.com/clubhub/backend/internal/models"
)

func TestStatsService_Compute(t *testing.T) {
	db := setupServiceTestDB(t)
	service := NewStatsService(db)
	ctx := context.Background()

	leader := createServiceUser(t, db, "stats-leader", models.UserRoleLeader)
	member := createServiceUser(t, db, "stats-member", models.UserRoleMember)
	createServiceUser(t, db, "stats-plain", models.UserRoleUser)

	clubs := []*models.Club{
		{Name: "Stats Academic", Category: models.ClubCategoryAcademic, IsActive: true, LeaderID: &leader.ID},
		{Name: "Stats Sports", Category: models.ClubCategorySports, IsActive: false},
	}
	for _, club := range clubs {
		if err := db.Create(club).Error; err != nil {
			t.Fatalf("failed creating club: %v", err)
		}
	}

	now := time.Now().UTC()
	memberships := []models.Membership{
		{UserID: member.ID, ClubID: clubs[0].ID, Status: models.MembershipStatusApproved, AppliedAt: now},
		{UserID: leader.ID, ClubID: clubs[1].ID, Status: models.MembershipStatusPending, AppliedAt: now},
	}
	for i := range memberships {
		if err := db.Create(&memberships[i]).Error; err != nil {
			t.Fatalf("failed creating membership: %v", err)
		}
	}

	stats := service.Compute(ctx)

	if stats.TotalClubs != 2 || stats.ActiveClubs != 1 {
		t.Fatalf("unexpected club counts: total=%d active=%d", stats.TotalClubs, stats.ActiveClubs)
	}
	if stats.TotalUsers != 3 {
		t.Fatalf("expected 3 users, got %d", stats.TotalUsers)
	}
	if stats.TotalMemberships != 2 || stats.ApprovedMemberships != 1 {
		t.Fatalf("unexpected membership counts: total=%d approved=%d", stats.TotalMemberships, stats.ApprovedMemberships)
	}
	if stats.NewUsersWeek != 3 || stats.NewMembershipsWeek != 2 {
		t.Fatalf("unexpected weekly deltas: users=%d memberships=%d", stats.NewUsersWeek, stats.NewMembershipsWeek)
	}
	if stats.TotalByRoles != stats.TotalUsers {
		t.Fatalf("role counts %d do not add up to total users %d", stats.TotalByRoles, stats.TotalUsers)
	}

	// Empty categories are omitted from the breakdown.
	if len(stats.ClubsByCategory) != 2 {
		t.Fatalf("expected 2 non-empty categories, got %+v", stats.ClubsByCategory)
	}
	for _, bucket := range stats.ClubsByCategory {
		if bucket.Count == 0 {
			t.Fatalf("empty category leaked into breakdown: %+v", bucket)
		}
		if bucket.Label == "" {
			t.Fatalf("expected display label for %s", bucket.Category)
		}
	}
}

func TestStatsService_ComputeDegradesToEmpty(t *testing.T) {
	db := setupServiceTestDB(t)
	service := NewStatsService(db)

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB: %v", err)
	}
	_ = sqlDB.Close()

	stats := service.Compute(context.Background())
	if stats == nil {
		t.Fatal("expected empty statistics, got nil")
	}
	if stats.TotalClubs != 0 || stats.TotalUsers != 0 {
		t.Fatalf("expected zeroed statistics on failure, got %+v", stats)
	}
	if stats.ClubsByCategory == nil || stats.MembershipsByStatus == nil {
		t.Fatal("expected empty slices, not nil")
	}
}

package services

import (
	"context"

	"github.com/clubhub/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VisibleClubIDs returns the clubs a user belongs to for feed purposes:
// clubs they lead plus clubs where they hold an approved membership. Global
// notifications are visible regardless and are handled by the callers.
func VisibleClubIDs(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID

	var ledIDs []uuid.UUID
	if err := db.WithContext(ctx).
		Model(&models.Club{}).
		Where("leader_id = ?", userID).
		Pluck("id", &ledIDs).Error; err != nil {
		return nil, err
	}
	ids = append(ids, ledIDs...)

	var memberIDs []uuid.UUID
	if err := db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("user_id = ? AND status = ?", userID, models.MembershipStatusApproved).
		Pluck("club_id", &memberIDs).Error; err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	for _, id := range memberIDs {
		if _, ok := seen[id]; !ok {
			ids = append(ids, id)
			seen[id] = struct{}{}
		}
	}
	return ids, nil
}

// VisibleNotifications builds the feed query for a user's club set: global
// rows union club-scoped rows, active only, newest first.
func VisibleNotifications(ctx context.Context, db *gorm.DB, clubIDs []uuid.UUID) *gorm.DB {
	query := db.WithContext(ctx).
		Model(&models.Notification{}).
		Preload("Club").
		Preload("CreatedBy").
		Where("is_active = ?", true).
		Order("created_at DESC")
	if len(clubIDs) == 0 {
		return query.Where("club_id IS NULL")
	}
	return query.Where("club_id IS NULL OR club_id IN ?", clubIDs)
}

package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/clubhub/backend/internal/authz"
	"github.com/clubhub/backend/internal/models"
	"github.com/clubhub/backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrClubNotFound       = errors.New("club not found")
	ErrClubInactive       = errors.New("club is not active")
	ErrMembershipNotFound = errors.New("membership not found")
	ErrNotClubManager     = errors.New("not authorized to manage this club")
	ErrAlreadyDecided     = errors.New("membership already decided")
	ErrInvalidDecision    = errors.New("invalid decision")
)

// DuplicateApplicationError reports a repeated apply for the same (user, club)
// pair. It carries the existing row so callers can surface its status as an
// informational outcome rather than a failure.
type DuplicateApplicationError struct {
	Existing models.Membership
}

func (e *DuplicateApplicationError) Error() string {
	return "membership application already exists with status " + string(e.Existing.Status)
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// MembershipService owns the application workflow: pending → approved|rejected,
// with role promotion as an explicit side effect of approval.
type MembershipService struct {
	DB *gorm.DB
}

func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{DB: db}
}

// Apply creates a pending membership for user in club. The club must be
// active and the pair must not already have a row. The composite unique index
// on (user_id, club_id) is the real duplicate guard; the pre-check only
// shortcuts the common case, and a constraint violation from a concurrent
// apply is folded into the same duplicate outcome.
func (s *MembershipService) Apply(ctx context.Context, user *models.User, clubID uuid.UUID) (*models.Membership, error) {
	var club models.Club
	if err := s.DB.WithContext(ctx).First(&club, "id = ?", clubID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	if !club.IsActive {
		return nil, ErrClubInactive
	}

	var existing models.Membership
	err := s.DB.WithContext(ctx).First(&existing, "user_id = ? AND club_id = ?", user.ID, clubID).Error
	if err == nil {
		return nil, &DuplicateApplicationError{Existing: existing}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	membership := models.Membership{
		UserID:    user.ID,
		ClubID:    clubID,
		Status:    models.MembershipStatusPending,
		AppliedAt: time.Now().UTC(),
	}
	if err := s.DB.WithContext(ctx).Create(&membership).Error; err != nil {
		if isUniqueViolation(err) {
			var raced models.Membership
			if fetchErr := s.DB.WithContext(ctx).
				First(&raced, "user_id = ? AND club_id = ?", user.ID, clubID).Error; fetchErr == nil {
				return nil, &DuplicateApplicationError{Existing: raced}
			}
		}
		return nil, err
	}

	logger.InfoWithUser(user.ID.String(), "membership_applied", map[string]interface{}{
		"membership_id": membership.ID.String(),
		"club_id":       clubID.String(),
	})

	return &membership, nil
}

// Decide moves a pending membership to approved or rejected. Only the club's
// leader or an admin may decide, and a decided row cannot be re-decided.
// Approval promotes the applicant's role via PromoteIfEligible inside the
// same transaction.
func (s *MembershipService) Decide(ctx context.Context, actor *models.User, clubID, membershipID uuid.UUID, decision Decision, notes string) (*models.Membership, error) {
	if decision != DecisionApprove && decision != DecisionReject {
		return nil, ErrInvalidDecision
	}

	var club models.Club
	if err := s.DB.WithContext(ctx).First(&club, "id = ?", clubID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	if !authz.CanManageClub(actor, &club) {
		return nil, ErrNotClubManager
	}

	var membership models.Membership
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&membership, "id = ? AND club_id = ?", membershipID, clubID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMembershipNotFound
			}
			return err
		}
		if membership.Decided() {
			return ErrAlreadyDecided
		}

		updates := map[string]interface{}{}
		trimmed := strings.TrimSpace(notes)
		if trimmed != "" {
			updates["notes"] = trimmed
		}

		switch decision {
		case DecisionApprove:
			now := time.Now().UTC()
			updates["status"] = models.MembershipStatusApproved
			updates["approved_at"] = now
			membership.Status = models.MembershipStatusApproved
			membership.ApprovedAt = &now
		case DecisionReject:
			updates["status"] = models.MembershipStatusRejected
			membership.Status = models.MembershipStatusRejected
		}
		if trimmed != "" {
			membership.Notes = &trimmed
		}

		if err := tx.Model(&models.Membership{}).Where("id = ?", membership.ID).Updates(updates).Error; err != nil {
			return err
		}

		if decision == DecisionApprove {
			var applicant models.User
			if err := tx.First(&applicant, "id = ?", membership.UserID).Error; err != nil {
				return err
			}
			if err := PromoteIfEligible(tx, &applicant); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.InfoWithUser(actor.ID.String(), "membership_decided", map[string]interface{}{
		"membership_id": membership.ID.String(),
		"club_id":       clubID.String(),
		"decision":      string(decision),
	})

	return &membership, nil
}

// PromoteIfEligible raises a plain user to member after their first approval.
// Leaders and admins are never touched, and members stay members.
func PromoteIfEligible(tx *gorm.DB, user *models.User) error {
	if user.Role != models.UserRoleUser {
		return nil
	}
	if err := tx.Model(&models.User{}).
		Where("id = ? AND role = ?", user.ID, models.UserRoleUser).
		Update("role", models.UserRoleMember).Error; err != nil {
		return err
	}
	user.Role = models.UserRoleMember
	return nil
}

// MembershipBuckets partitions a club's applications by status for the
// management view.
type MembershipBuckets struct {
	Pending  []models.Membership `json:"pending"`
	Approved []models.Membership `json:"approved"`
	Rejected []models.Membership `json:"rejected"`
}

// ListByClub returns the club's memberships grouped by status. A non-empty
// status narrows the result to that bucket only.
func (s *MembershipService) ListByClub(ctx context.Context, clubID uuid.UUID, status models.MembershipStatus) (*MembershipBuckets, error) {
	query := s.DB.WithContext(ctx).
		Preload("User").
		Where("club_id = ?", clubID).
		Order("applied_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var memberships []models.Membership
	if err := query.Find(&memberships).Error; err != nil {
		return nil, err
	}

	buckets := &MembershipBuckets{
		Pending:  []models.Membership{},
		Approved: []models.Membership{},
		Rejected: []models.Membership{},
	}
	for _, m := range memberships {
		switch m.Status {
		case models.MembershipStatusApproved:
			buckets.Approved = append(buckets.Approved, m)
		case models.MembershipStatusRejected:
			buckets.Rejected = append(buckets.Rejected, m)
		default:
			buckets.Pending = append(buckets.Pending, m)
		}
	}
	return buckets, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique failed")
}

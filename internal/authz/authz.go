// Package authz holds the capability predicates that gate every mutating
// operation. They are pure functions over already-loaded rows; the membership
// lookup needed by CanPostToClub is passed in by the caller so the predicates
// stay database-free and unit-testable.
package authz

import "github.com/clubhub/backend/internal/models"

// IsAdmin reports global management capability. The role and the superuser
// flag are independent admin signals; either grants the capability.
func IsAdmin(user *models.User) bool {
	if user == nil {
		return false
	}
	return user.Role == models.UserRoleAdmin || user.IsSuperuser
}

func IsLeaderOrAdmin(user *models.User) bool {
	if user == nil {
		return false
	}
	return user.Role == models.UserRoleLeader || IsAdmin(user)
}

// CanManageClub is true for admins and for the club's designated leader.
// Approved members cannot manage.
func CanManageClub(user *models.User, club *models.Club) bool {
	if user == nil || club == nil {
		return false
	}
	if IsAdmin(user) {
		return true
	}
	return club.LeaderID != nil && *club.LeaderID == user.ID
}

// CanPostToClub is true for anyone who can manage the club, plus users
// holding an approved membership in it. membership may be nil.
func CanPostToClub(user *models.User, club *models.Club, membership *models.Membership) bool {
	if CanManageClub(user, club) {
		return true
	}
	if user == nil || membership == nil {
		return false
	}
	return membership.UserID == user.ID &&
		membership.ClubID == club.ID &&
		membership.Status == models.MembershipStatusApproved
}

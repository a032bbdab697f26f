package authz

import (
	"testing"

	"github.com/clubhub/backend/internal/models"
	"github.com/google/uuid"
)

func TestIsAdmin(t *testing.T) {
	if IsAdmin(nil) {
		t.Fatal("nil user must not be admin")
	}
	if !IsAdmin(&models.User{Role: models.UserRoleAdmin}) {
		t.Fatal("admin role must grant admin capability")
	}
	if !IsAdmin(&models.User{Role: models.UserRoleUser, IsSuperuser: true}) {
		t.Fatal("superuser flag must grant admin capability regardless of role")
	}
	if IsAdmin(&models.User{Role: models.UserRoleLeader}) {
		t.Fatal("leader must not be admin")
	}
}

func TestIsLeaderOrAdmin(t *testing.T) {
	if IsLeaderOrAdmin(nil) {
		t.Fatal("nil user must not be leader or admin")
	}
	if !IsLeaderOrAdmin(&models.User{Role: models.UserRoleLeader}) {
		t.Fatal("leader role must qualify")
	}
	if !IsLeaderOrAdmin(&models.User{Role: models.UserRoleMember, IsSuperuser: true}) {
		t.Fatal("superuser must qualify through the admin signal")
	}
	if IsLeaderOrAdmin(&models.User{Role: models.UserRoleMember}) {
		t.Fatal("plain member must not qualify")
	}
}

func TestCanManageClub(t *testing.T) {
	leaderID := uuid.New()
	leader := &models.User{BaseModel: models.BaseModel{ID: leaderID}, Role: models.UserRoleLeader}
	other := &models.User{BaseModel: models.BaseModel{ID: uuid.New()}, Role: models.UserRoleLeader}
	admin := &models.User{BaseModel: models.BaseModel{ID: uuid.New()}, Role: models.UserRoleAdmin}

	club := &models.Club{LeaderID: &leaderID}
	leaderless := &models.Club{}

	if !CanManageClub(leader, club) {
		t.Fatal("designated leader must manage their club")
	}
	if CanManageClub(other, club) {
		t.Fatal("a leader of another club must not manage this one")
	}
	if !CanManageClub(admin, club) {
		t.Fatal("admin must manage any club")
	}
	if CanManageClub(leader, leaderless) {
		t.Fatal("no one but admins manages a leaderless club")
	}
	if CanManageClub(nil, club) || CanManageClub(leader, nil) {
		t.Fatal("nil inputs must never grant capability")
	}
}

func TestCanPostToClub(t *testing.T) {
	memberID := uuid.New()
	member := &models.User{BaseModel: models.BaseModel{ID: memberID}, Role: models.UserRoleMember}
	club := &models.Club{BaseModel: models.BaseModel{ID: uuid.New()}}

	approved := &models.Membership{UserID: memberID, ClubID: club.ID, Status: models.MembershipStatusApproved}
	pending := &models.Membership{UserID: memberID, ClubID: club.ID, Status: models.MembershipStatusPending}
	foreign := &models.Membership{UserID: uuid.New(), ClubID: club.ID, Status: models.MembershipStatusApproved}

	if !CanPostToClub(member, club, approved) {
		t.Fatal("approved member must post to their club")
	}
	if CanPostToClub(member, club, pending) {
		t.Fatal("pending applicant must not post")
	}
	if CanPostToClub(member, club, foreign) {
		t.Fatal("someone else's membership must not grant posting")
	}
	if CanPostToClub(member, club, nil) {
		t.Fatal("no membership, no posting")
	}
	if !CanPostToClub(&models.User{Role: models.UserRoleAdmin}, club, nil) {
		t.Fatal("admin posts without membership")
	}
}

package models

import (
	"time"

	"github.com/google/uuid"
)

type MembershipStatus string

const (
	MembershipStatusPending  MembershipStatus = "pending"
	MembershipStatusApproved MembershipStatus = "approved"
	MembershipStatusRejected MembershipStatus = "rejected"
)

// Membership records a user's application to a club. The composite unique
// index is the authority for "one application per (user, club)" and closes
// the race between concurrent apply calls.
type Membership struct {
	BaseModel
	UserID     uuid.UUID        `json:"userID" gorm:"type:uuid;not null;index;uniqueIndex:idx_user_club"`
	ClubID     uuid.UUID        `json:"clubID" gorm:"type:uuid;not null;index;uniqueIndex:idx_user_club"`
	Status     MembershipStatus `json:"status" gorm:"type:varchar(10);not null;default:'pending';index"`
	AppliedAt  time.Time        `json:"appliedAt" gorm:"not null"`
	ApprovedAt *time.Time       `json:"approvedAt,omitempty"`
	Notes      *string          `json:"notes,omitempty" gorm:"type:text"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Club Club `json:"club,omitempty" gorm:"foreignKey:ClubID"`
}

// Decided reports whether the application has reached a terminal status.
func (m *Membership) Decided() bool {
	return m.Status == MembershipStatusApproved || m.Status == MembershipStatusRejected
}

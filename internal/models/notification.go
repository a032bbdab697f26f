package models

import "github.com/google/uuid"

type NotificationType string

const (
	NotificationTypeAnnouncement NotificationType = "announcement"
	NotificationTypeEvent        NotificationType = "event"
	NotificationTypeMembership   NotificationType = "membership"
	NotificationTypeGeneral      NotificationType = "general"
	NotificationTypeImportant    NotificationType = "important"
)

func IsValidNotificationType(t NotificationType) bool {
	switch t {
	case NotificationTypeAnnouncement, NotificationTypeEvent, NotificationTypeMembership,
		NotificationTypeGeneral, NotificationTypeImportant:
		return true
	default:
		return false
	}
}

type Notification struct {
	BaseModel
	Title   string           `json:"title" gorm:"type:varchar(200);not null"`
	Content string           `json:"content" gorm:"type:text;not null"`
	Type    NotificationType `json:"type" gorm:"type:varchar(20);not null;default:'announcement'"`
	// ClubID nil means a global, system-wide notification.
	ClubID      *uuid.UUID `json:"clubID,omitempty" gorm:"type:uuid;index"`
	CreatedByID uuid.UUID  `json:"createdByID" gorm:"type:uuid;not null;index"`
	IsActive    bool       `json:"isActive" gorm:"not null;default:true;index"`

	Club      *Club `json:"club,omitempty" gorm:"foreignKey:ClubID"`
	CreatedBy User  `json:"createdBy,omitempty" gorm:"foreignKey:CreatedByID"`
}

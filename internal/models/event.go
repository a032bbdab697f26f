package models

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	BaseModel
	Title       string    `json:"title" gorm:"type:varchar(200);not null"`
	Description string    `json:"description" gorm:"type:text;not null;default:''"`
	ClubID      uuid.UUID `json:"clubID" gorm:"type:uuid;not null;index"`
	Date        time.Time `json:"date" gorm:"not null;index"`
	Location    string    `json:"location" gorm:"type:varchar(200);not null;default:''"`

	Club        Club              `json:"club,omitempty" gorm:"foreignKey:ClubID"`
	Attendances []EventAttendance `json:"attendances,omitempty" gorm:"foreignKey:EventID"`
}

type AttendanceStatus string

const (
	AttendanceStatusRegistered AttendanceStatus = "registered"
	AttendanceStatusAttended   AttendanceStatus = "attended"
	AttendanceStatusAbsent     AttendanceStatus = "absent"
)

func IsValidAttendanceStatus(status AttendanceStatus) bool {
	switch status {
	case AttendanceStatusRegistered, AttendanceStatusAttended, AttendanceStatusAbsent:
		return true
	default:
		return false
	}
}

type EventAttendance struct {
	BaseModel
	EventID      uuid.UUID        `json:"eventID" gorm:"type:uuid;not null;index;uniqueIndex:idx_event_user"`
	UserID       uuid.UUID        `json:"userID" gorm:"type:uuid;not null;index;uniqueIndex:idx_event_user"`
	Status       AttendanceStatus `json:"status" gorm:"type:varchar(10);not null;default:'registered'"`
	RegisteredAt time.Time        `json:"registeredAt" gorm:"not null"`

	Event Event `json:"event,omitempty" gorm:"foreignKey:EventID"`
	User  User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (EventAttendance) TableName() string {
	return "event_attendances"
}

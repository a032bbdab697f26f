package models

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	BaseModel
	SenderID   uuid.UUID `json:"senderID" gorm:"type:uuid;not null;index"`
	ReceiverID uuid.UUID `json:"receiverID" gorm:"type:uuid;not null;index"`
	Subject    string    `json:"subject" gorm:"type:varchar(200);not null"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	SentAt     time.Time `json:"sentAt" gorm:"not null;index"`
	IsRead     bool      `json:"isRead" gorm:"not null;default:false;index"`

	Sender   User `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	Receiver User `json:"receiver,omitempty" gorm:"foreignKey:ReceiverID"`
}

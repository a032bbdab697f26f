package models

type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleLeader UserRole = "leader"
	UserRoleMember UserRole = "member"
	UserRoleUser   UserRole = "user"
)

func IsValidUserRole(role UserRole) bool {
	switch role {
	case UserRoleAdmin, UserRoleLeader, UserRoleMember, UserRoleUser:
		return true
	default:
		return false
	}
}

type User struct {
	BaseModel
	Username     string   `json:"username" gorm:"type:varchar(150);uniqueIndex;not null"`
	Email        string   `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string   `json:"-" gorm:"type:text;not null"`
	FirstName    string   `json:"firstName" gorm:"type:varchar(100);not null;default:''"`
	LastName     string   `json:"lastName" gorm:"type:varchar(100);not null;default:''"`
	Role         UserRole `json:"role" gorm:"type:varchar(20);not null;default:'user'"`
	StudentID    *string  `json:"studentID,omitempty" gorm:"type:varchar(20)"`
	Phone        *string  `json:"phone,omitempty" gorm:"type:varchar(15)"`
	AvatarPath   *string  `json:"avatarPath,omitempty" gorm:"type:text"`
	IsActive     bool     `json:"isActive" gorm:"not null;default:true"`
	// IsSuperuser is a second admin signal independent of Role. Capability
	// checks must consult both; see authz.IsAdmin.
	IsSuperuser bool `json:"isSuperuser" gorm:"not null;default:false"`

	Memberships      []Membership   `json:"-" gorm:"foreignKey:UserID"`
	LedClubs         []Club         `json:"-" gorm:"foreignKey:LeaderID"`
	SentMessages     []Message      `json:"-" gorm:"foreignKey:SenderID"`
	ReceivedMessages []Message      `json:"-" gorm:"foreignKey:ReceiverID"`
	Notifications    []Notification `json:"-" gorm:"foreignKey:CreatedByID"`
}

func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

package models

import "github.com/google/uuid"

type ClubCategory string

const (
	ClubCategoryAcademic  ClubCategory = "academic"
	ClubCategorySports    ClubCategory = "sports"
	ClubCategoryCultural  ClubCategory = "cultural"
	ClubCategoryTechnical ClubCategory = "technical"
	ClubCategoryArt       ClubCategory = "art"
	ClubCategoryVolunteer ClubCategory = "volunteer"
	ClubCategoryOther     ClubCategory = "other"
)

// ClubCategories is ordered for presentation (category filters, stats).
var ClubCategories = []ClubCategory{
	ClubCategoryAcademic,
	ClubCategorySports,
	ClubCategoryCultural,
	ClubCategoryTechnical,
	ClubCategoryArt,
	ClubCategoryVolunteer,
	ClubCategoryOther,
}

var clubCategoryLabels = map[ClubCategory]string{
	ClubCategoryAcademic:  "Academic",
	ClubCategorySports:    "Sports",
	ClubCategoryCultural:  "Cultural",
	ClubCategoryTechnical: "Technical",
	ClubCategoryArt:       "Art",
	ClubCategoryVolunteer: "Volunteer",
	ClubCategoryOther:     "Other",
}

func IsValidClubCategory(category ClubCategory) bool {
	_, ok := clubCategoryLabels[category]
	return ok
}

// Label returns the display name for a category; unknown values fall
// back to the raw string so stale rows still render.
func (c ClubCategory) Label() string {
	if label, ok := clubCategoryLabels[c]; ok {
		return label
	}
	return string(c)
}

type Club struct {
	BaseModel
	Name        string       `json:"name" gorm:"type:varchar(200);not null"`
	Description string       `json:"description" gorm:"type:text;not null;default:''"`
	Category    ClubCategory `json:"category" gorm:"type:varchar(20);not null;default:'other';index"`
	LogoPath    *string      `json:"logoPath,omitempty" gorm:"type:text"`
	IsActive    bool         `json:"isActive" gorm:"not null;default:true;index"`
	// LeaderID is nullable: a leader stepping down does not delete the club.
	LeaderID *uuid.UUID `json:"leaderID,omitempty" gorm:"type:uuid;index"`

	Leader        *User          `json:"leader,omitempty" gorm:"foreignKey:LeaderID"`
	Memberships   []Membership   `json:"memberships,omitempty" gorm:"foreignKey:ClubID"`
	Notifications []Notification `json:"-" gorm:"foreignKey:ClubID"`
	Events        []Event        `json:"-" gorm:"foreignKey:ClubID"`
}

package models

import "gorm.io/gorm"

// Member is an app user. MemberID in the API is the Firebase UID.
type Member struct {
	gorm.Model
	FirebaseUID    string `gorm:"uniqueIndex;size:128;not null"`
	Nickname       string `gorm:"size:50"`
	IsPregnantMode bool
	PregnancyWeek  *int // nil when unknown
}

package model

import (
	"strings"
	"time"
)

type User struct {
	ID           uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UID          string     `gorm:"column:uid;size:128;uniqueIndex:uk_users_uid;not null" json:"uid"`
	ExternalID   *string    `gorm:"column:external_id;size:128;uniqueIndex:uk_users_external_id" json:"-"`
	Email        string     `gorm:"size:255;uniqueIndex:uk_users_email;not null" json:"email"`
	FirstName    string     `gorm:"column:first_name;size:120" json:"firstName"`
	LastName     string     `gorm:"column:last_name;size:120" json:"lastName"`
	PhoneNumber  string     `gorm:"column:phone_number;size:32;index" json:"phoneNumber"`
	BloodType    *BloodType `gorm:"column:blood_type;size:16;index" json:"bloodType"`
	Role         Role       `gorm:"column:role;size:16;not null;default:USER;index" json:"role"`
	Points       int64      `gorm:"column:points;not null;default:0" json:"points"`
	RewardTier   string     `gorm:"column:reward_tier;size:16;not null;default:BRONZE" json:"rewardTier"`
	PointsVer    int64      `gorm:"column:points_version;not null;default:0" json:"-"`
	LastDonation *time.Time `gorm:"column:last_donation;index" json:"lastDonation"`
	NextDonation *time.Time `gorm:"column:next_donation" json:"nextDonation"`
	Feedback     *string    `gorm:"column:feedback;type:text" json:"feedback,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// PendingUID is the placeholder uid of a user the identity webhook created
// before their first sign-in; /me/sync replaces it.
func PendingUID(externalID string) string {
	return "ext:" + externalID
}

// FullName joins first and last name, or "" when both are empty.
func (u User) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

func (u User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return "Donor"
}

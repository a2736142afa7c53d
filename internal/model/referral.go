package model

import "time"

type Referral struct {
	ID          uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	ReferrerID  uint64         `gorm:"column:referrer_id;not null;uniqueIndex:uk_referrals_referrer_phone" json:"referrerId"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	PhoneNumber string         `gorm:"column:phone_number;size:16;not null;uniqueIndex:uk_referrals_referrer_phone;index" json:"phoneNumber"`
	Status      ReferralStatus `gorm:"column:status;size:16;not null;default:PENDING;index" json:"status"`
	CompletedAt *time.Time     `gorm:"column:completed_at" json:"completedAt,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Referral) TableName() string {
	return "referrals"
}

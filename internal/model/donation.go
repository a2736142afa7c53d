package model

import "time"

type Donation struct {
	ID           uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint64          `gorm:"column:user_id;index;not null" json:"userId"`
	CenterID     *uint64         `gorm:"column:center_id;index" json:"centerId"`
	RequestID    *uint64         `gorm:"column:request_id;uniqueIndex:uk_donations_request" json:"requestId,omitempty"`
	BloodType    BloodType       `gorm:"column:blood_type;size:16;not null" json:"bloodType"`
	Quantity     int             `gorm:"column:quantity;not null" json:"quantity"` // millilitres
	Status       DonationStatus  `gorm:"column:status;size:16;not null;index" json:"status"`
	PointsEarned int64           `gorm:"column:points_earned;not null;default:0" json:"pointsEarned"`
	Date         time.Time       `gorm:"column:date;not null" json:"date"`
	Center       *DonationCenter `gorm:"foreignKey:CenterID" json:"center,omitempty"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Donation) TableName() string {
	return "donations"
}

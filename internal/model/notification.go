package model

import "time"

const (
	NotificationTypeBloodRequest = "BLOOD_REQUEST"
	NotificationTypeReferral     = "REFERRAL"
	NotificationTypeReward       = "REWARD"
	NotificationTypeDonation     = "DONATION"
)

type Notification struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint64    `gorm:"column:user_id;index:idx_notifications_user_read;not null" json:"userId"`
	Type      string    `gorm:"column:type;size:64;not null" json:"type"`
	Title     string    `gorm:"column:title;size:255" json:"title"`
	Message   string    `gorm:"column:message;type:text" json:"message"`
	RelatedID *uint64   `gorm:"column:related_id" json:"relatedId,omitempty"`
	IsRead    bool      `gorm:"column:is_read;not null;default:false;index:idx_notifications_user_read" json:"isRead"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}

func (Notification) TableName() string {
	return "notifications"
}

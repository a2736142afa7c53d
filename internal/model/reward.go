package model

import "time"

type Reward struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"size:255;not null;uniqueIndex:uk_rewards_name" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	PointsCost  int64     `gorm:"column:points_cost;not null" json:"pointsCost"`
	ImageURL    *string   `gorm:"column:image_url;size:512" json:"imageUrl,omitempty"`
	Active      bool      `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Reward) TableName() string {
	return "rewards"
}

// UserReward is one redeemed unit of a reward.
type UserReward struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint64    `gorm:"column:user_id;index;not null" json:"userId"`
	RewardID   uint64    `gorm:"column:reward_id;index;not null" json:"rewardId"`
	RedeemRef  string    `gorm:"column:redeem_ref;size:64;index;not null" json:"redeemRef"`
	IsUsed     bool      `gorm:"column:is_used;not null;default:false" json:"isUsed"`
	RedeemedAt time.Time `gorm:"column:redeemed_at;autoCreateTime" json:"redeemedAt"`
	Reward     *Reward   `gorm:"foreignKey:RewardID" json:"reward,omitempty"`
}

func (UserReward) TableName() string {
	return "user_rewards"
}

package model

import "time"

type DonationCenter struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string    `gorm:"size:255;not null;uniqueIndex:uk_centers_name_city" json:"name"`
	Address    string    `gorm:"size:512" json:"address"`
	City       string    `gorm:"size:120;uniqueIndex:uk_centers_name_city" json:"city"`
	State      string    `gorm:"size:120" json:"state"`
	PostalCode string    `gorm:"column:postal_code;size:16" json:"postalCode"`
	Phone      string    `gorm:"size:32" json:"phone"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (DonationCenter) TableName() string {
	return "donation_centers"
}

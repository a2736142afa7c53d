package model

import "time"

// DefaultCountry fills addresses saved without a country.
const DefaultCountry = "India"

type Address struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint64    `gorm:"column:user_id;index;not null" json:"-"`
	Street     string    `gorm:"size:255;not null" json:"street"`
	City       string    `gorm:"size:120;not null" json:"city"`
	State      string    `gorm:"size:120;not null" json:"state"`
	PostalCode string    `gorm:"column:postal_code;size:16;not null" json:"postalCode"`
	Country    string    `gorm:"size:120;not null;default:India" json:"country"`
	IsPrimary  bool      `gorm:"column:is_primary;not null;default:false" json:"isPrimary"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Address) TableName() string {
	return "addresses"
}

package model

import "time"

type BloodInventory struct {
	ID          uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	CenterID    uint64          `gorm:"column:center_id;not null;uniqueIndex:uk_inventory_center_type" json:"centerId"`
	BloodType   BloodType       `gorm:"column:blood_type;size:16;not null;uniqueIndex:uk_inventory_center_type;index" json:"bloodType"`
	Quantity    int             `gorm:"column:quantity;not null;default:0" json:"quantity"`
	LastUpdated time.Time       `gorm:"column:last_updated;autoUpdateTime" json:"lastUpdated"`
	Center      *DonationCenter `gorm:"foreignKey:CenterID" json:"center,omitempty"`
}

func (BloodInventory) TableName() string {
	return "blood_inventories"
}

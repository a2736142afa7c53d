package model

import "time"

type Request struct {
	ID              uint64        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          uint64        `gorm:"column:user_id;index;not null" json:"userId"`
	BloodType       BloodType     `gorm:"column:blood_type;size:16;not null;index" json:"bloodType"`
	Quantity        int           `gorm:"column:quantity;not null" json:"quantity"` // units
	Urgency         string        `gorm:"column:urgency;size:32;not null;default:normal" json:"urgency"`
	PatientName     string        `gorm:"column:patient_name;size:255" json:"patientName"`
	Reason          string        `gorm:"column:reason;type:text" json:"reason"`
	Hospital        string        `gorm:"column:hospital;size:255" json:"hospital"`
	CenterID        *uint64       `gorm:"column:center_id;index" json:"centerId"`
	AddressID       *uint64       `gorm:"column:address_id;index" json:"addressId,omitempty"`
	PrescriptionURL *string       `gorm:"column:prescription_url;size:1024" json:"prescriptionUrl,omitempty"`
	Status          RequestStatus `gorm:"column:status;size:16;not null;default:PENDING;index" json:"status"`
	AssignedTo      *string       `gorm:"column:assigned_to;size:128" json:"assignedTo,omitempty"`
	FulfilledAt     *time.Time    `gorm:"column:fulfilled_at" json:"fulfilledAt,omitempty"`
	CreatedAt       time.Time     `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time     `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Request) TableName() string {
	return "requests"
}

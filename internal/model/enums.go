package model

import "strings"

type BloodType string

const (
	BloodTypeAPositive  BloodType = "A_POSITIVE"
	BloodTypeANegative  BloodType = "A_NEGATIVE"
	BloodTypeBPositive  BloodType = "B_POSITIVE"
	BloodTypeBNegative  BloodType = "B_NEGATIVE"
	BloodTypeABPositive BloodType = "AB_POSITIVE"
	BloodTypeABNegative BloodType = "AB_NEGATIVE"
	BloodTypeOPositive  BloodType = "O_POSITIVE"
	BloodTypeONegative  BloodType = "O_NEGATIVE"
)

var bloodTypes = []BloodType{
	BloodTypeAPositive, BloodTypeANegative,
	BloodTypeBPositive, BloodTypeBNegative,
	BloodTypeABPositive, BloodTypeABNegative,
	BloodTypeOPositive, BloodTypeONegative,
}

func BloodTypes() []BloodType {
	out := make([]BloodType, len(bloodTypes))
	copy(out, bloodTypes)
	return out
}

func (b BloodType) Valid() bool {
	for _, v := range bloodTypes {
		if v == b {
			return true
		}
	}
	return false
}

// Label renders the type for humans, e.g. "O-POSITIVE".
func (b BloodType) Label() string {
	return strings.Replace(string(b), "_", "-", 1)
}

type Role string

const (
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "PENDING"
	DonationStatusCompleted DonationStatus = "COMPLETED"
	DonationStatusCancelled DonationStatus = "CANCELLED"
	DonationStatusRejected  DonationStatus = "REJECTED"
)

func (s DonationStatus) Valid() bool {
	switch s {
	case DonationStatusPending, DonationStatusCompleted, DonationStatusCancelled, DonationStatusRejected:
		return true
	}
	return false
}

func (s DonationStatus) Terminal() bool {
	return s == DonationStatusCompleted || s == DonationStatusCancelled || s == DonationStatusRejected
}

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusApproved  RequestStatus = "APPROVED"
	RequestStatusFulfilled RequestStatus = "FULFILLED"
	RequestStatusRejected  RequestStatus = "REJECTED"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusFulfilled, RequestStatusRejected:
		return true
	}
	return false
}

func (s RequestStatus) Terminal() bool {
	return s == RequestStatusFulfilled || s == RequestStatusRejected
}

type ReferralStatus string

const (
	ReferralStatusPending   ReferralStatus = "PENDING"
	ReferralStatusCompleted ReferralStatus = "COMPLETED"
)

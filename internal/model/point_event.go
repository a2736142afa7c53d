package model

import "time"

type PointEventKind string

const (
	PointEventRequestFulfilled  PointEventKind = "REQUEST_FULFILLED"
	PointEventDonationCompleted PointEventKind = "DONATION_COMPLETED"
	PointEventReferralCompleted PointEventKind = "REFERRAL_COMPLETED"
	PointEventRedemption        PointEventKind = "REDEMPTION"
)

// PointEvent is an append-only ledger entry. RefKey makes each source fact
// count at most once, e.g. "request:12" or "redeem:<uuid>".
type PointEvent struct {
	ID        uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint64         `gorm:"column:user_id;index;not null" json:"userId"`
	Kind      PointEventKind `gorm:"column:kind;size:32;not null" json:"kind"`
	Points    int64          `gorm:"column:points;not null" json:"points"`
	RefKey    string         `gorm:"column:ref_key;size:96;not null;uniqueIndex:uk_point_events_ref" json:"refKey"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
}

func (PointEvent) TableName() string {
	return "point_events"
}

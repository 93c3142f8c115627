package models

import (
	"time"

	"gorm.io/datatypes"
)

// SubscriptionRecord mirrors the last observed Google Play state for one
// purchase token. The purchase token is the natural key; reconciliation and
// linking both converge on the same row via upsert.
type SubscriptionRecord struct {
	ID             string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	PurchaseToken  string `gorm:"column:purchase_token;type:varchar(255);not null;uniqueIndex" json:"purchase_token"`
	SubscriptionID string `gorm:"column:subscription_id;type:varchar(128)" json:"subscription_id"`
	// UserID stays nil until the link endpoint associates the purchaser with
	// an account; the record is "unclaimed" in the meantime.
	UserID *string `gorm:"column:user_id;type:varchar(64);index" json:"user_id"`
	// ExpiryTimeMillis is the expiry as last observed from Google Play.
	ExpiryTimeMillis int64 `gorm:"column:expiry_time_millis;not null;default:0" json:"expiry_time_millis"`
	// IsActive is a snapshot of expiry > now taken at reconciliation time.
	// It is not re-derived at read time; see EntitledBy.
	IsActive bool `gorm:"column:is_active;not null;default:false" json:"is_active"`
	// Advisory passthrough metadata from the provider response.
	AutoRenewing      *bool   `gorm:"column:auto_renewing" json:"auto_renewing"`
	PaymentState      *int64  `gorm:"column:payment_state" json:"payment_state"`
	Kind              string  `gorm:"column:kind;type:varchar(64)" json:"kind"`
	OrderID           string  `gorm:"column:order_id;type:varchar(128)" json:"order_id"`
	CountryCode       string  `gorm:"column:country_code;type:varchar(8)" json:"country_code"`
	PriceCurrencyCode string  `gorm:"column:price_currency_code;type:varchar(8)" json:"price_currency_code"`
	PriceAmountMicros *int64  `gorm:"column:price_amount_micros" json:"price_amount_micros"`
	// Snapshot stores the raw provider response from the last reconciliation.
	Snapshot datatypes.JSON `gorm:"column:snapshot;type:jsonb;default:'{}'" json:"snapshot"`
	// CreatedAt is set on first upsert only; UpdatedAt on every upsert.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SubscriptionRecord) TableName() string {
	return "subscription_record"
}

// ExpiryTime returns the observed expiry as a time, or the zero time when the
// record has never been reconciled.
func (r *SubscriptionRecord) ExpiryTime() time.Time {
	if r == nil || r.ExpiryTimeMillis == 0 {
		return time.Time{}
	}
	return time.UnixMilli(r.ExpiryTimeMillis)
}

// EntitledBy reports whether the record grants premium to userID at now.
// All four conditions must hold at once: ownership, the cached active flag,
// and an expiry still in the future.
func (r *SubscriptionRecord) EntitledBy(userID string, now time.Time) bool {
	return r != nil &&
		r.UserID != nil && *r.UserID == userID &&
		r.IsActive &&
		r.ExpiryTimeMillis > now.UnixMilli()
}

package models

import "time"

// Session state keys
const (
	SessionKeyCart    = "cart"
	SessionKeyAuth    = "auth"
	SessionKeyFilters = "filters"
	SessionKeyCoupon  = "coupon"
)

// SessionRecord is one persisted key of a session in the SQL-backed stores
type SessionRecord struct {
	SessionID string    `gorm:"primaryKey;size:64"`
	Key       string    `gorm:"primaryKey;size:32"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"index"`
}

func (SessionRecord) TableName() string {
	return "storefront_sessions"
}

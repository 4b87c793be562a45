package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DayKeyLayout formats the calendar day that keys a revenue bucket
const DayKeyLayout = "2006-01-02"

// DailyRevenue aggregates the non-discount payments received on one local day
type DailyRevenue struct {
	Date        string          `gorm:"primaryKey;size:10" json:"date"`
	TotalAmount decimal.Decimal `gorm:"type:text;not null" json:"total_amount"`
	LastReset   time.Time       `json:"last_reset"`
}

// DayKey returns the bucket key for t in its own location
func DayKey(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// TableName returns the table name for the DailyRevenue model
func (DailyRevenue) TableName() string {
	return "daily_revenue"
}

package entity

import (
	"time"
)

// ShopConfigID is the fixed key of the singleton shop record
const ShopConfigID = "shop"

// ShopConfig holds the shop identity printed on invoices and receipts
type ShopConfig struct {
	ID        string    `gorm:"primaryKey;size:16" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Address   string    `gorm:"type:text" json:"address"`
	Mobile    string    `gorm:"size:100" json:"mobile"`
	GSTIN     *string   `gorm:"size:20;column:gstin" json:"gstin,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultShopConfig returns the shop shown before anything has been saved
func DefaultShopConfig() *ShopConfig {
	return &ShopConfig{
		ID:      ShopConfigID,
		Name:    "RK Jewellers",
		Address: "Main Road, Achampet, Telangana",
		Mobile:  "9440370408, 9490324969",
	}
}

// TableName returns the table name for the ShopConfig model
func (ShopConfig) TableName() string {
	return "shop"
}

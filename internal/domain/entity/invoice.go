package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/rkjewellers/billing-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice represents a sale to a customer together with its payment history.
// CustomerName and CustomerMobile are copied at creation and not kept in sync
// with later edits to the customer. Amounts are stored as decimal text so
// the engine never rounds them.
type Invoice struct {
	ID             string          `gorm:"primaryKey;size:36" json:"id"`
	SerialNumber   int64           `gorm:"index" json:"serial_number"`
	CustomerID     string          `gorm:"size:36;not null;index" json:"customer_id"`
	CustomerName   string          `gorm:"size:255" json:"customer_name"`
	CustomerMobile string          `gorm:"size:15" json:"customer_mobile"`
	Items          JewelryItems    `json:"items"`
	TotalAmount    decimal.Decimal `gorm:"type:text" json:"total_amount"`
	PaidAmount     decimal.Decimal `gorm:"type:text" json:"paid_amount"`
	DueAmount      decimal.Decimal `gorm:"type:text" json:"due_amount"`
	DiscountAmount decimal.Decimal `gorm:"type:text" json:"discount_amount"`
	InvoiceDate    time.Time       `gorm:"index" json:"invoice_date"`
	Notes          *string         `gorm:"type:text" json:"notes,omitempty"`
	Payments       Payments        `json:"payments"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// BeforeCreate generates an ID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// ApplyPayment appends p to the history and moves its amount from due to paid.
// Discount entries are also tracked in DiscountAmount.
func (i *Invoice) ApplyPayment(p PaymentDetails) {
	i.PaidAmount = i.PaidAmount.Add(p.Amount)
	i.DueAmount = i.DueAmount.Sub(p.Amount)
	if p.Mode.IsDiscount() {
		i.DiscountAmount = i.DiscountAmount.Add(p.Amount)
	}
	i.Payments = append(i.Payments, p)
}

// ReceivedAmount is the money actually collected, excluding discount write-offs
func (i *Invoice) ReceivedAmount() decimal.Decimal {
	return i.PaidAmount.Sub(i.DiscountAmount)
}

// HasDue reports whether anything is still owed on the invoice
func (i *Invoice) HasDue() bool {
	return i.DueAmount.IsPositive()
}

// IsBalanced reports whether paid and due still add up to the total
func (i *Invoice) IsBalanced() bool {
	return i.PaidAmount.Add(i.DueAmount).Equal(i.TotalAmount)
}

// LastPayment returns the most recent payment entry, or nil
func (i *Invoice) LastPayment() *PaymentDetails {
	if len(i.Payments) == 0 {
		return nil
	}
	return &i.Payments[len(i.Payments)-1]
}

// JewelryItem is one priced line of an invoice. NetWeight and Amount are
// derived from the other fields and are recomputed before every save.
type JewelryItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	GrossWeight decimal.Decimal `json:"gross_weight"`
	Wastage     decimal.Decimal `json:"wastage"`
	GoldRate    decimal.Decimal `json:"gold_rate"`
	LabRate     decimal.Decimal `json:"lab_rate"`
	NetWeight   decimal.Decimal `json:"net_weight"`
	Amount      decimal.Decimal `json:"amount"`
}

// PaymentDetails is one append-only entry in an invoice's payment history
type PaymentDetails struct {
	Mode               enum.PaymentMode `json:"mode"`
	Receiver           enum.Receiver    `json:"receiver,omitempty"`
	CustomReceiverName string           `json:"custom_receiver_name,omitempty"`
	Amount             decimal.Decimal  `json:"amount"`
	Timestamp          time.Time        `json:"timestamp"`
}

// ReceiverName returns who received a PhonePe transfer, or "" for other modes
func (p PaymentDetails) ReceiverName() string {
	if p.Mode != enum.PaymentModePhonePe {
		return ""
	}
	if p.Receiver == enum.ReceiverOthers {
		return p.CustomReceiverName
	}
	return p.Receiver.String()
}

package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// CustomerExportRecord is a loosely typed customer row; missing columns stay nil
type CustomerExportRecord struct {
	ID        string
	Name      *string
	Mobile    *string
	Address   *string
	CreatedAt *time.Time
}

// InvoiceExportRecord is a loosely typed invoice row. Amounts may be NULL and
// the embedded lists are left undecoded so one corrupt row cannot fail a read.
type InvoiceExportRecord struct {
	ID             string
	CustomerName   *string
	CustomerMobile *string
	InvoiceDate    *time.Time
	TotalAmount    decimal.NullDecimal
	PaidAmount     decimal.NullDecimal
	DueAmount      decimal.NullDecimal
	DiscountAmount decimal.NullDecimal
	Items          datatypes.JSON
	Payments       datatypes.JSON
}

// ExportRepository reads raw rows for reporting
type ExportRepository interface {
	CustomerRecords(ctx context.Context) ([]CustomerExportRecord, error)
	InvoiceRecords(ctx context.Context) ([]InvoiceExportRecord, error)
}

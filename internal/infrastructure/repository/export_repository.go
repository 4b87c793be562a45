package repository

import (
	"context"

	domainRepo "github.com/rkjewellers/billing-api/internal/domain/repository"
	"gorm.io/gorm"
)

type exportRepository struct {
	db *gorm.DB
}

// NewExportRepository creates a repository reading raw rows for reports
func NewExportRepository(db *gorm.DB) domainRepo.ExportRepository {
	return &exportRepository{db: db}
}

func (r *exportRepository) CustomerRecords(ctx context.Context) ([]domainRepo.CustomerExportRecord, error) {
	var records []domainRepo.CustomerExportRecord
	err := conn(ctx, r.db).Table("customers").
		Select("id, name, mobile, address, created_at").
		Find(&records).Error
	if err != nil {
		return nil, translateError(err, "Customer")
	}
	return records, nil
}

func (r *exportRepository) InvoiceRecords(ctx context.Context) ([]domainRepo.InvoiceExportRecord, error) {
	var records []domainRepo.InvoiceExportRecord
	err := conn(ctx, r.db).Table("invoices").
		Select("id, customer_name, customer_mobile, invoice_date, total_amount, paid_amount, due_amount, discount_amount, " +
			"COALESCE(items, '[]') AS items, COALESCE(payments, '[]') AS payments").
		Find(&records).Error
	if err != nil {
		return nil, translateError(err, "Invoice")
	}
	return records, nil
}

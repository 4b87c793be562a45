package repository

import (
	"context"

	"github.com/rkjewellers/billing-api/internal/domain/entity"
	domainRepo "github.com/rkjewellers/billing-api/internal/domain/repository"
	"gorm.io/gorm"
)

var invoiceSortColumns = map[string]string{
	"date":   "invoice_date",
	"name":   "customer_name",
	"amount": "CAST(total_amount AS NUMERIC)",
}

type invoiceRepository struct {
	gormStore[entity.Invoice]
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{gormStore: newGormStore[entity.Invoice](db, "id", "Invoice")}
}

func (r *invoiceRepository) FindByCustomerID(ctx context.Context, customerID string) ([]entity.Invoice, error) {
	var invoices []entity.Invoice
	if err := conn(ctx, r.db).Where("customer_id = ?", customerID).Find(&invoices).Error; err != nil {
		return nil, translateError(err, r.resource)
	}
	return invoices, nil
}

func (r *invoiceRepository) MaxSerialNumber(ctx context.Context) (int64, error) {
	var max int64
	err := conn(ctx, r.db).Model(&entity.Invoice{}).
		Select("COALESCE(MAX(serial_number), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, translateError(err, r.resource)
	}
	return max, nil
}

func (r *invoiceRepository) List(ctx context.Context, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := conn(ctx, r.db).Model(&entity.Invoice{}).
		Scopes(SubstringScope(params.Search, []string{"customer_name", "id"}, []string{"customer_mobile"}))

	if params.CustomerID != "" {
		query = query.Where("customer_id = ?", params.CustomerID)
	}
	if params.StartDate != nil {
		query = query.Where("invoice_date >= ?", params.StartDate.UTC())
	}
	if params.EndDate != nil {
		query = query.Where("invoice_date <= ?", params.EndDate.UTC())
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, r.resource)
	}

	sortColumn, ok := invoiceSortColumns[params.SortBy]
	if !ok {
		sortColumn = "invoice_date"
	}
	sortOrder := "DESC"
	if params.SortOrder == "asc" {
		sortOrder = "ASC"
	}
	query = query.Order(sortColumn + " " + sortOrder + ", id ASC")

	if params.Pagination != nil {
		params.Pagination.Validate()
		query = query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage)
	}

	if err := query.Find(&invoices).Error; err != nil {
		return nil, 0, translateError(err, r.resource)
	}
	return invoices, total, nil
}

func (r *invoiceRepository) Recent(ctx context.Context, limit int) ([]entity.Invoice, error) {
	var invoices []entity.Invoice
	err := conn(ctx, r.db).Order("invoice_date DESC, id ASC").Limit(limit).Find(&invoices).Error
	if err != nil {
		return nil, translateError(err, r.resource)
	}
	return invoices, nil
}

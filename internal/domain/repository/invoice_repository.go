package repository

import (
	"context"
	"time"

	"github.com/rkjewellers/billing-api/internal/domain/entity"
	"github.com/rkjewellers/billing-api/pkg/pagination"
)

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	Store[entity.Invoice]
	FindByCustomerID(ctx context.Context, customerID string) ([]entity.Invoice, error)
	// MaxSerialNumber returns the highest serial number in use, or 0
	MaxSerialNumber(ctx context.Context) (int64, error)
	List(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
	Recent(ctx context.Context, limit int) ([]entity.Invoice, error)
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string // customer name, mobile or invoice id
	CustomerID string
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string // date, name or amount
	SortOrder  string // asc or desc
}

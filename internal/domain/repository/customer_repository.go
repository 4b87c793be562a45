package repository

import (
	"context"

	"github.com/rkjewellers/billing-api/internal/domain/entity"
)

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Store[entity.Customer]
	GetByMobile(ctx context.Context, mobile string) (*entity.Customer, error)
	// Search matches name case-insensitively or mobile by substring. An empty
	// query returns every customer.
	Search(ctx context.Context, query string) ([]entity.Customer, error)
}

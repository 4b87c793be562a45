package repository

import (
	"context"
	"errors"

	"github.com/rkjewellers/billing-api/internal/domain/entity"
	domainRepo "github.com/rkjewellers/billing-api/internal/domain/repository"
	"gorm.io/gorm"
)

type customerRepository struct {
	gormStore[entity.Customer]
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{gormStore: newGormStore[entity.Customer](db, "id", "Customer")}
}

func (r *customerRepository) GetByMobile(ctx context.Context, mobile string) (*entity.Customer, error) {
	var customer entity.Customer
	err := conn(ctx, r.db).First(&customer, "mobile = ?", mobile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err, r.resource)
	}
	return &customer, nil
}

func (r *customerRepository) Search(ctx context.Context, query string) ([]entity.Customer, error) {
	var customers []entity.Customer
	err := conn(ctx, r.db).
		Scopes(SubstringScope(query, []string{"name"}, []string{"mobile"})).
		Find(&customers).Error
	if err != nil {
		return nil, translateError(err, r.resource)
	}
	return customers, nil
}

package service

import (
	"context"
	"sort"
	"strings"

	"github.com/rkjewellers/billing-api/internal/domain/entity"
	"github.com/rkjewellers/billing-api/internal/domain/repository"
	"github.com/rkjewellers/billing-api/pkg/apperror"
	"go.uber.org/zap"
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// customerFields is the validated shape of a customer after merging input
type customerFields struct {
	Name   string `json:"name" validate:"required,max=255"`
	Mobile string `json:"mobile" validate:"required,mobile"`
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	Name    string
	Mobile  string
	Address *string
}

// CreateCustomer creates a new customer. Mobile numbers are unique.
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	customer := &entity.Customer{
		Name:    strings.TrimSpace(input.Name),
		Mobile:  strings.TrimSpace(input.Mobile),
		Address: normalizeOptional(input.Address),
	}
	if err := validateStruct(customerFields{Name: customer.Name, Mobile: customer.Mobile}); err != nil {
		return nil, err
	}

	existing, err := s.customerRepo.GetByMobile(ctx, customer.Mobile)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A customer with this mobile number already exists")
	}

	if err := s.customerRepo.Add(ctx, customer); err != nil {
		return nil, err
	}

	zap.L().Info("customer created", zap.String("customer_id", customer.ID))
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id string) (*entity.Customer, error) {
	customer, err := s.customerRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers returns customers matching search, ordered by name. An empty
// search returns everyone.
func (s *CustomerService) ListCustomers(ctx context.Context, search string) ([]entity.Customer, error) {
	customers, err := s.customerRepo.Search(ctx, search)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(customers, func(i, j int) bool {
		return strings.ToLower(customers[i].Name) < strings.ToLower(customers[j].Name)
	})
	return customers, nil
}

// UpdateCustomerInput represents the update customer input. Nil fields are
// left unchanged.
type UpdateCustomerInput struct {
	ID      string
	Name    *string
	Mobile  *string
	Address *string
}

// UpdateCustomer merges the supplied fields into an existing customer.
// Invoices keep the name and mobile they were created with.
func (s *CustomerService) UpdateCustomer(ctx context.Context, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.customerRepo.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	fields := map[string]interface{}{}
	merged := customerFields{Name: customer.Name, Mobile: customer.Mobile}
	if input.Name != nil {
		merged.Name = strings.TrimSpace(*input.Name)
		fields["name"] = merged.Name
	}
	if input.Mobile != nil {
		merged.Mobile = strings.TrimSpace(*input.Mobile)
		fields["mobile"] = merged.Mobile
	}
	if input.Address != nil {
		fields["address"] = normalizeOptional(input.Address)
	}
	if err := validateStruct(merged); err != nil {
		return nil, err
	}

	if merged.Mobile != customer.Mobile {
		other, err := s.customerRepo.GetByMobile(ctx, merged.Mobile)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != customer.ID {
			return nil, apperror.NewConflictError("A customer with this mobile number already exists")
		}
	}

	return s.customerRepo.Patch(ctx, input.ID, fields)
}

// normalizeOptional trims s and maps blank values to nil
func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

package request

import "github.com/rkjewellers/billing-api/internal/application/service"

// CreateCustomerRequest is the request body for creating a customer
type CreateCustomerRequest struct {
	Name    string  `json:"name"`
	Mobile  string  `json:"mobile"`
	Address *string `json:"address"`
}

// ToInput converts the request into the service input
func (r *CreateCustomerRequest) ToInput() *service.CreateCustomerInput {
	return &service.CreateCustomerInput{Name: r.Name, Mobile: r.Mobile, Address: r.Address}
}

// UpdateCustomerRequest is the request body for editing a customer; omitted
// fields keep their value
type UpdateCustomerRequest struct {
	Name    *string `json:"name"`
	Mobile  *string `json:"mobile"`
	Address *string `json:"address"`
}

// ToInput converts the request into the service input for customer id
func (r *UpdateCustomerRequest) ToInput(id string) *service.UpdateCustomerInput {
	return &service.UpdateCustomerInput{ID: id, Name: r.Name, Mobile: r.Mobile, Address: r.Address}
}

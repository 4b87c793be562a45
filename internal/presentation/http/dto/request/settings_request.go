package request

import "github.com/rkjewellers/billing-api/internal/application/service"

// UpdateShopRequest is the request body for saving the shop profile
type UpdateShopRequest struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Mobile  string  `json:"mobile"`
	GSTIN   *string `json:"gstin"`
}

// ToInput converts the request into the service input
func (r *UpdateShopRequest) ToInput() *service.UpdateShopInput {
	return &service.UpdateShopInput{Name: r.Name, Address: r.Address, Mobile: r.Mobile, GSTIN: r.GSTIN}
}

package request

import "github.com/rkjewellers/billing-api/internal/application/service"

// RecordPaymentRequest is the request body for a payment split over invoices
type RecordPaymentRequest struct {
	CustomerID string   `json:"customer_id" binding:"required"`
	InvoiceIDs []string `json:"invoice_ids" binding:"required"`
	PaymentRequest
}

// ToInput converts the request into the service input
func (r *RecordPaymentRequest) ToInput() *service.RecordPaymentInput {
	return &service.RecordPaymentInput{
		CustomerID:   r.CustomerID,
		InvoiceIDs:   r.InvoiceIDs,
		PaymentInput: r.PaymentRequest.ToInput(),
	}
}

// ResetRequest carries the confirmation code for destructive operations
type ResetRequest struct {
	Code string `json:"code" binding:"required"`
}

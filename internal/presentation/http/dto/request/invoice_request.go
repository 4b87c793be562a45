package request

import (
	"strings"

	"github.com/rkjewellers/billing-api/internal/application/service"
	"github.com/rkjewellers/billing-api/internal/domain/enum"
	"github.com/rkjewellers/billing-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// ItemRequest is one jewelry line. Amounts may be sent as numbers or strings.
type ItemRequest struct {
	Name        string          `json:"name"`
	GrossWeight decimal.Decimal `json:"gross_weight"`
	Wastage     decimal.Decimal `json:"wastage"`
	GoldRate    decimal.Decimal `json:"gold_rate"`
	LabRate     decimal.Decimal `json:"lab_rate"`
}

// PaymentRequest describes money received at the counter
type PaymentRequest struct {
	Amount             decimal.Decimal `json:"amount"`
	Mode               string          `json:"mode"`
	Receiver           string          `json:"receiver"`
	CustomReceiverName string          `json:"custom_receiver_name"`
}

// ToInput converts the request into the ledger's payment input. Mode and
// receiver are matched case-insensitively; unknown values fail validation
// in the service.
func (r *PaymentRequest) ToInput() service.PaymentInput {
	return service.PaymentInput{
		Amount:             r.Amount,
		Mode:               enum.PaymentMode(strings.ToUpper(strings.TrimSpace(r.Mode))),
		Receiver:           enum.Receiver(strings.ToUpper(strings.TrimSpace(r.Receiver))),
		CustomReceiverName: r.CustomReceiverName,
	}
}

// CreateInvoiceRequest is the request body for creating an invoice
type CreateInvoiceRequest struct {
	CustomerID     string          `json:"customer_id" binding:"required"`
	Items          []ItemRequest   `json:"items" binding:"required"`
	InitialPayment *PaymentRequest `json:"initial_payment"`
	SerialNumber   *int64          `json:"serial_number"`
	Notes          *string         `json:"notes"`
}

// ToInput converts the request into the service input
func (r *CreateInvoiceRequest) ToInput() *service.CreateInvoiceInput {
	items := make([]service.ItemInput, len(r.Items))
	for i, item := range r.Items {
		items[i] = service.ItemInput{
			Name:        item.Name,
			GrossWeight: item.GrossWeight,
			Wastage:     item.Wastage,
			GoldRate:    item.GoldRate,
			LabRate:     item.LabRate,
		}
	}

	input := &service.CreateInvoiceInput{
		CustomerID:   r.CustomerID,
		Items:        items,
		SerialNumber: r.SerialNumber,
		Notes:        r.Notes,
	}
	if r.InitialPayment != nil {
		payment := r.InitialPayment.ToInput()
		input.InitialPayment = &payment
	}
	return input
}

// UpdateSerialRequest is the request body for changing an invoice serial
type UpdateSerialRequest struct {
	SerialNumber int64 `json:"serial_number" binding:"required"`
}

// UpdateNotesRequest is the request body for editing invoice notes. A null
// or blank value removes the notes.
type UpdateNotesRequest struct {
	Notes *string `json:"notes"`
}

// ListInvoicesQuery holds the query parameters for listing invoices
type ListInvoicesQuery struct {
	Search     string `form:"search"`
	CustomerID string `form:"customer_id"`
	From       string `form:"from"`
	To         string `form:"to"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}

// ToInput converts the query into the service input
func (q *ListInvoicesQuery) ToInput() *service.ListInvoicesInput {
	return &service.ListInvoicesInput{
		Search:     q.Search,
		CustomerID: q.CustomerID,
		From:       q.From,
		To:         q.To,
		SortBy:     q.SortBy,
		SortOrder:  q.SortOrder,
		Pagination: &pagination.PaginationParams{Page: q.Page, PerPage: q.PerPage},
	}
}

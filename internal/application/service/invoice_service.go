package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/rkjewellers/billing-api/internal/domain/calculator"
	"github.com/rkjewellers/billing-api/internal/domain/entity"
	"github.com/rkjewellers/billing-api/internal/domain/enum"
	"github.com/rkjewellers/billing-api/internal/domain/repository"
	"github.com/rkjewellers/billing-api/pkg/apperror"
	"github.com/rkjewellers/billing-api/pkg/pagination"
	"github.com/rkjewellers/billing-api/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoiceService handles invoice creation and the edits allowed afterwards
type InvoiceService struct {
	transactor   repository.Transactor
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	revenueRepo  repository.RevenueRepository
	clock        *Clock
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	transactor repository.Transactor,
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	revenueRepo repository.RevenueRepository,
	clock *Clock,
) *InvoiceService {
	return &InvoiceService{
		transactor:   transactor,
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		revenueRepo:  revenueRepo,
		clock:        clock,
	}
}

// ItemInput is one jewelry line as entered at the counter
type ItemInput struct {
	Name        string          `json:"name" validate:"required,max=255"`
	GrossWeight decimal.Decimal `json:"gross_weight"`
	Wastage     decimal.Decimal `json:"wastage"`
	GoldRate    decimal.Decimal `json:"gold_rate"`
	LabRate     decimal.Decimal `json:"lab_rate"`
}

// CreateInvoiceInput represents the create invoice input
type CreateInvoiceInput struct {
	CustomerID string      `json:"customer_id" validate:"required"`
	Items      []ItemInput `json:"items" validate:"min=1,dive"`
	// InitialPayment is what the customer paid at the counter; nil means nothing
	InitialPayment *PaymentInput `json:"-"`
	// SerialNumber overrides the next sequential number when set
	SerialNumber *int64  `json:"serial_number"`
	Notes        *string `json:"notes"`
}

// CreateInvoice prices the items, snapshots the customer's name and mobile,
// and records the initial payment. Received money is credited to today's
// revenue in the same transaction.
func (s *InvoiceService) CreateInvoice(ctx context.Context, input *CreateInvoiceInput) (*entity.Invoice, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	items, err := buildItems(input.Items)
	if err != nil {
		return nil, err
	}
	total := calculator.PriceItems(items)

	payment := PaymentInput{Amount: decimal.Zero, Mode: enum.PaymentModeCash}
	if input.InitialPayment != nil {
		payment = *input.InitialPayment
		if err := validatePaymentMode(&payment); err != nil {
			return nil, err
		}
	}
	if payment.Amount.IsNegative() {
		return nil, apperror.NewFieldError("paid_amount", "must not be negative")
	}
	if payment.Amount.GreaterThan(total) {
		return nil, apperror.NewFieldError("paid_amount",
			fmt.Sprintf("must not exceed the invoice total of %s", total.String()))
	}

	var invoice *entity.Invoice
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		customer, err := s.customerRepo.Get(ctx, input.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return apperror.NewNotFoundError("Customer")
		}

		serial, err := s.nextSerialNumber(ctx, input.SerialNumber)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		invoice = &entity.Invoice{
			ID:             utils.NewID(),
			SerialNumber:   serial,
			CustomerID:     customer.ID,
			CustomerName:   customer.Name,
			CustomerMobile: customer.Mobile,
			Items:          items,
			TotalAmount:    total,
			PaidAmount:     decimal.Zero,
			DueAmount:      total,
			DiscountAmount: decimal.Zero,
			InvoiceDate:    now.UTC(),
			Notes:          normalizeOptional(input.Notes),
		}
		invoice.ApplyPayment(payment.details(payment.Amount, now))

		if err := s.invoiceRepo.Add(ctx, invoice); err != nil {
			return err
		}
		if payment.Amount.IsPositive() {
			return creditRevenue(ctx, s.revenueRepo, entity.DayKey(now), payment.Amount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("invoice created",
		zap.String("invoice_id", invoice.ID),
		zap.Int64("serial_number", invoice.SerialNumber),
		zap.String("total", invoice.TotalAmount.String()),
	)
	return invoice, nil
}

func (s *InvoiceService) nextSerialNumber(ctx context.Context, requested *int64) (int64, error) {
	if requested != nil {
		if *requested <= 0 {
			return 0, apperror.NewFieldError("serial_number", "must be greater than 0")
		}
		return *requested, nil
	}
	max, err := s.invoiceRepo.MaxSerialNumber(ctx)
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

func buildItems(inputs []ItemInput) (entity.JewelryItems, error) {
	items := make(entity.JewelryItems, len(inputs))
	for i, in := range inputs {
		for field, v := range map[string]decimal.Decimal{
			"gross_weight": in.GrossWeight,
			"wastage":      in.Wastage,
			"gold_rate":    in.GoldRate,
			"lab_rate":     in.LabRate,
		} {
			if v.IsNegative() {
				return nil, apperror.NewFieldError(fmt.Sprintf("items[%d].%s", i, field), "must not be negative")
			}
		}
		items[i] = entity.JewelryItem{
			ID:          utils.NewID(),
			Name:        strings.TrimSpace(in.Name),
			GrossWeight: in.GrossWeight,
			Wastage:     in.Wastage,
			GoldRate:    in.GoldRate,
			LabRate:     in.LabRate,
		}
	}
	return items, nil
}

// GetInvoice retrieves an invoice by ID
func (s *InvoiceService) GetInvoice(ctx context.Context, id string) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// ListInvoicesInput holds the raw list filters. From and To accept any
// format dateparse understands; a date without a time covers the whole day.
type ListInvoicesInput struct {
	Search     string
	CustomerID string
	From       string
	To         string
	SortBy     string
	SortOrder  string
	Pagination *pagination.PaginationParams
}

// ListInvoices searches, filters and sorts invoices, one page at a time
func (s *InvoiceService) ListInvoices(ctx context.Context, input *ListInvoicesInput) (*pagination.PaginatedResult[entity.Invoice], error) {
	params := &repository.InvoiceFilterParams{
		Pagination: input.Pagination,
		Search:     input.Search,
		CustomerID: input.CustomerID,
		SortBy:     input.SortBy,
		SortOrder:  strings.ToLower(input.SortOrder),
	}
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	switch params.SortBy {
	case "", "date", "name", "amount":
	default:
		return nil, apperror.NewFieldError("sort_by", "must be one of date, name, amount")
	}
	switch params.SortOrder {
	case "", "asc", "desc":
	default:
		return nil, apperror.NewFieldError("sort_order", "must be asc or desc")
	}

	var err error
	if params.StartDate, err = s.parseBound(input.From, false); err != nil {
		return nil, apperror.NewFieldError("from", "is not a recognizable date")
	}
	if params.EndDate, err = s.parseBound(input.To, true); err != nil {
		return nil, apperror.NewFieldError("to", "is not a recognizable date")
	}

	invoices, total, err := s.invoiceRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(invoices, pag), nil
}

func (s *InvoiceService) parseBound(raw string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := dateparse.ParseIn(raw, s.clock.Location())
	if err != nil {
		return nil, err
	}
	if endOfDay && t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}

// UpdateSerialNumber sets a human-chosen serial number. Serials are not
// required to be unique.
func (s *InvoiceService) UpdateSerialNumber(ctx context.Context, id string, serial int64) (*entity.Invoice, error) {
	if serial <= 0 {
		return nil, apperror.NewFieldError("serial_number", "must be greater than 0")
	}
	return s.invoiceRepo.Patch(ctx, id, map[string]interface{}{"serial_number": serial})
}

// UpdateNotes replaces the invoice notes; blank notes are removed
func (s *InvoiceService) UpdateNotes(ctx context.Context, id string, notes *string) (*entity.Invoice, error) {
	return s.invoiceRepo.Patch(ctx, id, map[string]interface{}{"notes": normalizeOptional(notes)})
}

// DeleteInvoice removes an invoice. Revenue already credited stays.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id string) error {
	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		return err
	}
	zap.L().Info("invoice deleted", zap.String("invoice_id", id))
	return nil
}

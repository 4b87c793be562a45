package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rkjewellers/billing-api/internal/domain/entity"
	"github.com/rkjewellers/billing-api/internal/domain/enum"
	"github.com/rkjewellers/billing-api/internal/domain/repository"
	"github.com/rkjewellers/billing-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ResetConfirmationCode must be supplied to every destructive bulk operation.
// It guards against accidental taps, it is not a credential.
const ResetConfirmationCode = "0077"

func checkResetCode(code string) error {
	if subtle.ConstantTimeCompare([]byte(code), []byte(ResetConfirmationCode)) != 1 {
		return apperror.ErrInvalidResetCode
	}
	return nil
}

// PaymentInput describes money handed over by a customer
type PaymentInput struct {
	Amount             decimal.Decimal
	Mode               enum.PaymentMode
	Receiver           enum.Receiver
	CustomReceiverName string
}

// validatePaymentMode checks the mode and receiver rules shared by every
// path that records received money
func validatePaymentMode(p *PaymentInput) error {
	if !p.Mode.IsValid() {
		return apperror.NewFieldError("mode", "must be CASH or PHONEPE")
	}
	if p.Mode.IsDiscount() {
		return apperror.NewFieldError("mode", "discounts are recorded with the clear-with-discount operation")
	}
	if !p.Mode.RequiresReceiver() {
		return nil
	}
	if !p.Receiver.IsValid() {
		return apperror.NewFieldError("receiver", "is required for PHONEPE payments")
	}
	if p.Receiver == enum.ReceiverOthers && strings.TrimSpace(p.CustomReceiverName) == "" {
		return apperror.NewFieldError("custom_receiver_name", "is required when receiver is OTHERS")
	}
	return nil
}

// details converts the input into a history entry for amount
func (p *PaymentInput) details(amount decimal.Decimal, at time.Time) entity.PaymentDetails {
	d := entity.PaymentDetails{Mode: p.Mode, Amount: amount, Timestamp: at}
	if p.Mode.RequiresReceiver() {
		d.Receiver = p.Receiver
		if p.Receiver == enum.ReceiverOthers {
			d.CustomReceiverName = strings.TrimSpace(p.CustomReceiverName)
		}
	}
	return d
}

// creditRevenue adds amount to the bucket for day, creating it if needed
func creditRevenue(ctx context.Context, revenueRepo repository.RevenueRepository, day string, amount decimal.Decimal) error {
	bucket, err := revenueRepo.Get(ctx, day)
	if err != nil {
		return err
	}
	if bucket == nil {
		bucket = &entity.DailyRevenue{Date: day, TotalAmount: decimal.Zero}
	}
	bucket.TotalAmount = bucket.TotalAmount.Add(amount)
	return revenueRepo.Put(ctx, bucket)
}

// LedgerService is the only place where invoice money state and revenue
// buckets are changed after an invoice is created
type LedgerService struct {
	transactor   repository.Transactor
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	revenueRepo  repository.RevenueRepository
	clock        *Clock
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	transactor repository.Transactor,
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	revenueRepo repository.RevenueRepository,
	clock *Clock,
) *LedgerService {
	return &LedgerService{
		transactor:   transactor,
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		revenueRepo:  revenueRepo,
		clock:        clock,
	}
}

// RecordPaymentInput represents one payment split across invoices
type RecordPaymentInput struct {
	CustomerID string
	// InvoiceIDs are allocated in the order given
	InvoiceIDs []string
	PaymentInput
}

// RecordPayment allocates the amount greedily over the selected invoices in
// order and credits today's revenue once with the full amount. Nothing is
// written unless every check passes, and all writes share one transaction.
func (s *LedgerService) RecordPayment(ctx context.Context, input *RecordPaymentInput) ([]entity.Invoice, error) {
	if !input.Amount.IsPositive() {
		return nil, apperror.NewFieldError("amount", "must be greater than 0")
	}
	ids := uniqueIDs(input.InvoiceIDs)
	if len(ids) == 0 {
		return nil, apperror.NewFieldError("invoice_ids", "select at least one invoice")
	}
	if err := validatePaymentMode(&input.PaymentInput); err != nil {
		return nil, err
	}

	var updated []entity.Invoice
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		customer, err := s.customerRepo.Get(ctx, input.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return apperror.NewNotFoundError("Customer")
		}

		selected := make([]*entity.Invoice, 0, len(ids))
		totalDue := decimal.Zero
		for _, id := range ids {
			invoice, err := s.invoiceRepo.Get(ctx, id)
			if err != nil {
				return err
			}
			if invoice == nil {
				return apperror.NewNotFoundError("Invoice")
			}
			if invoice.CustomerID != input.CustomerID {
				return apperror.NewFieldError("invoice_ids",
					fmt.Sprintf("invoice %s does not belong to this customer", id))
			}
			if !invoice.HasDue() {
				continue
			}
			selected = append(selected, invoice)
			totalDue = totalDue.Add(invoice.DueAmount)
		}
		if len(selected) == 0 {
			return apperror.NewFieldError("invoice_ids", "the selected invoices have nothing due")
		}
		if input.Amount.GreaterThan(totalDue) {
			return apperror.NewFieldError("amount",
				fmt.Sprintf("exceeds the total due of %s", totalDue.String()))
		}

		now := s.clock.Now()
		remaining := input.Amount
		for _, invoice := range selected {
			if !remaining.IsPositive() {
				break
			}
			applied := decimal.Min(remaining, invoice.DueAmount)
			invoice.ApplyPayment(input.details(applied, now))
			if err := s.invoiceRepo.Put(ctx, invoice); err != nil {
				return err
			}
			remaining = remaining.Sub(applied)
			updated = append(updated, *invoice)
		}

		return creditRevenue(ctx, s.revenueRepo, entity.DayKey(now), input.Amount)
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("payment recorded",
		zap.String("customer_id", input.CustomerID),
		zap.String("mode", input.Mode.String()),
		zap.String("amount", input.Amount.String()),
		zap.Int("invoices", len(updated)),
	)
	return updated, nil
}

// ClearWithDiscount writes off the whole due amount of an invoice. The
// discount is not received cash, so revenue is left alone.
func (s *LedgerService) ClearWithDiscount(ctx context.Context, invoiceID string) (*entity.Invoice, error) {
	var cleared *entity.Invoice
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		invoice, err := s.invoiceRepo.Get(ctx, invoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return apperror.NewNotFoundError("Invoice")
		}
		if !invoice.HasDue() {
			return apperror.NewFieldError("invoice_id", "invoice has no due amount to discount")
		}

		invoice.ApplyPayment(entity.PaymentDetails{
			Mode:      enum.PaymentModeDiscount,
			Amount:    invoice.DueAmount,
			Timestamp: s.clock.Now(),
		})
		invoice.PaidAmount = invoice.TotalAmount
		invoice.DueAmount = decimal.Zero

		if err := s.invoiceRepo.Put(ctx, invoice); err != nil {
			return err
		}
		cleared = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("invoice cleared with discount",
		zap.String("invoice_id", invoiceID),
		zap.String("discount", cleared.LastPayment().Amount.String()),
	)
	return cleared, nil
}

// TodayRevenue returns today's bucket, or an empty one if nothing was
// received yet
func (s *LedgerService) TodayRevenue(ctx context.Context) (*entity.DailyRevenue, error) {
	today := s.clock.Today()
	bucket, err := s.revenueRepo.Get(ctx, today)
	if err != nil {
		return nil, err
	}
	if bucket == nil {
		return &entity.DailyRevenue{Date: today, TotalAmount: decimal.Zero}, nil
	}
	return bucket, nil
}

// ResetTodayRevenue zeroes today's bucket. Invoice balances are untouched.
func (s *LedgerService) ResetTodayRevenue(ctx context.Context, code string) (*entity.DailyRevenue, error) {
	if err := checkResetCode(code); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	bucket := &entity.DailyRevenue{
		Date:        entity.DayKey(now),
		TotalAmount: decimal.Zero,
		LastReset:   now,
	}
	if err := s.revenueRepo.Put(ctx, bucket); err != nil {
		return nil, err
	}

	zap.L().Warn("today's revenue reset", zap.String("date", bucket.Date))
	return bucket, nil
}

// ResetAllInvoices deletes every invoice. Customers and revenue history stay.
func (s *LedgerService) ResetAllInvoices(ctx context.Context, code string) error {
	if err := checkResetCode(code); err != nil {
		return err
	}
	if err := s.invoiceRepo.Clear(ctx); err != nil {
		return err
	}
	zap.L().Warn("all invoices deleted")
	return nil
}

// ResetTotalRevenue marks every invoice as fully unpaid. Payment history is
// kept, so afterwards it no longer adds up to the paid amounts.
func (s *LedgerService) ResetTotalRevenue(ctx context.Context, code string) (int, error) {
	if err := checkResetCode(code); err != nil {
		return 0, err
	}

	var count int
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		invoices, err := s.invoiceRepo.GetAll(ctx)
		if err != nil {
			return err
		}
		for i := range invoices {
			invoice := &invoices[i]
			invoice.PaidAmount = decimal.Zero
			invoice.DiscountAmount = decimal.Zero
			invoice.DueAmount = invoice.TotalAmount
			if err := s.invoiceRepo.Put(ctx, invoice); err != nil {
				return err
			}
		}
		count = len(invoices)
		return nil
	})
	if err != nil {
		return 0, err
	}

	zap.L().Warn("total revenue reset; payment history no longer matches invoice balances",
		zap.Int("invoices", count))
	return count, nil
}

// CustomerSummary is a customer's invoices with their balances rolled up
type CustomerSummary struct {
	Customer        *entity.Customer `json:"customer"`
	Invoices        []entity.Invoice `json:"invoices"`
	PendingInvoices []entity.Invoice `json:"pending_invoices"`
	TotalAmount     decimal.Decimal  `json:"total_amount"`
	TotalPaid       decimal.Decimal  `json:"total_paid"`
	TotalDiscount   decimal.Decimal  `json:"total_discount"`
	TotalDue        decimal.Decimal  `json:"total_due"`
}

// CustomerSummary returns the customer's invoices newest first. TotalPaid
// counts received money only; discounts are reported separately.
func (s *LedgerService) CustomerSummary(ctx context.Context, customerID string) (*CustomerSummary, error) {
	customer, err := s.customerRepo.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	invoices, err := s.invoiceRepo.FindByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(invoices)

	summary := &CustomerSummary{
		Customer:        customer,
		Invoices:        invoices,
		PendingInvoices: []entity.Invoice{},
		TotalAmount:     decimal.Zero,
		TotalPaid:       decimal.Zero,
		TotalDiscount:   decimal.Zero,
		TotalDue:        decimal.Zero,
	}
	for i := range invoices {
		invoice := &invoices[i]
		summary.TotalAmount = summary.TotalAmount.Add(invoice.TotalAmount)
		summary.TotalPaid = summary.TotalPaid.Add(invoice.ReceivedAmount())
		summary.TotalDiscount = summary.TotalDiscount.Add(invoice.DiscountAmount)
		summary.TotalDue = summary.TotalDue.Add(invoice.DueAmount)
		if invoice.HasDue() {
			summary.PendingInvoices = append(summary.PendingInvoices, *invoice)
		}
	}
	return summary, nil
}

func sortNewestFirst(invoices []entity.Invoice) {
	sort.SliceStable(invoices, func(i, j int) bool {
		return invoices[i].InvoiceDate.After(invoices[j].InvoiceDate)
	})
}

// uniqueIDs drops blanks and repeats, keeping first-seen order
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

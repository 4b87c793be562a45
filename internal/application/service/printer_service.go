package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rkjewellers/billing-api/internal/domain/entity"
	"github.com/rkjewellers/billing-api/internal/domain/enum"
	"github.com/rkjewellers/billing-api/internal/domain/repository"
	"github.com/rkjewellers/billing-api/pkg/apperror"
	"github.com/rkjewellers/billing-api/pkg/printer"
	"github.com/rkjewellers/billing-api/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PrinterService composes receipts and sends them to the thermal printer
type PrinterService struct {
	printer      printer.Printer
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	shopRepo     repository.ShopRepository
	loc          *time.Location
	width        int
}

// NewPrinterService creates a new printer service. width is the paper width
// in characters.
func NewPrinterService(
	p printer.Printer,
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	shopRepo repository.ShopRepository,
	loc *time.Location,
	width int,
) *PrinterService {
	return &PrinterService{
		printer:      p,
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		shopRepo:     shopRepo,
		loc:          loc,
		width:        width,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printer.Kind() != "none",
		Connected:  s.printer.IsConnected(ctx),
		Type:       s.printer.Kind(),
	}
}

// BuildReceipt composes the receipt for an invoice. Paid is money received;
// discounts are listed on their own line.
func (s *PrinterService) BuildReceipt(ctx context.Context, invoiceID string) (*entity.Receipt, error) {
	invoice, err := s.invoiceRepo.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	shop, err := s.shopRepo.Get(ctx, entity.ShopConfigID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		shop = entity.DefaultShopConfig()
	}

	receipt := &entity.Receipt{
		Header: entity.ReceiptHeader{
			ShopName: shop.Name,
			Address:  shop.Address,
			Mobile:   shop.Mobile,
		},
		InvoiceNo:      utils.ShortInvoiceNo(invoice.ID),
		SerialNumber:   invoice.SerialNumber,
		Date:           utils.FormatDate(invoice.InvoiceDate, s.loc),
		CustomerName:   invoice.CustomerName,
		CustomerMobile: invoice.CustomerMobile,
		Total:          invoice.TotalAmount,
		Paid:           invoice.ReceivedAmount(),
		Discount:       invoice.DiscountAmount,
		Due:            invoice.DueAmount,
	}
	if shop.GSTIN != nil {
		receipt.Header.GSTIN = *shop.GSTIN
	}
	if invoice.Notes != nil {
		receipt.Notes = *invoice.Notes
	}

	// the address is not part of the invoice snapshot
	customer, err := s.customerRepo.Get(ctx, invoice.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer != nil && customer.Address != nil {
		receipt.CustomerAddress = *customer.Address
	}

	for _, item := range invoice.Items {
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:        item.Name,
			GrossWeight: item.GrossWeight,
			Wastage:     item.Wastage,
			NetWeight:   item.NetWeight,
			GoldRate:    item.GoldRate,
			LabRate:     item.LabRate,
			Amount:      item.Amount,
		})
	}
	for _, p := range invoice.Payments {
		receipt.Payments = append(receipt.Payments, entity.ReceiptLine{
			Label:  paymentLabel(p),
			Amount: p.Amount,
			Date:   utils.FormatDate(p.Timestamp, s.loc),
		})
	}
	return receipt, nil
}

// ShareMessage renders the receipt as a plain-text chat message
func (s *PrinterService) ShareMessage(ctx context.Context, invoiceID string) (string, error) {
	r, err := s.BuildReceipt(ctx, invoiceID)
	if err != nil {
		return "", err
	}
	return FormatShareMessage(r), nil
}

// PrintInvoice prints the invoice receipt. The receipt is returned even when
// printing fails so the caller can fall back to showing it.
func (s *PrinterService) PrintInvoice(ctx context.Context, invoiceID string) (*entity.Receipt, error) {
	receipt, err := s.BuildReceipt(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.width)); err != nil {
		zap.L().Error("printer error", zap.String("invoice_id", invoiceID), zap.Error(err))
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}
	return receipt, nil
}

// TestPrint sends a sample receipt to the printer
func (s *PrinterService) TestPrint(ctx context.Context) (*entity.Receipt, error) {
	receipt := &entity.Receipt{
		Header:       entity.ReceiptHeader{ShopName: "PRINTER TEST"},
		InvoiceNo:    "TEST0001",
		Date:         utils.FormatDate(time.Now(), s.loc),
		CustomerName: "Test Customer",
		Items: []entity.ReceiptItem{{
			Name:        "Test Ring",
			GrossWeight: decimal.NewFromInt(10),
			Wastage:     decimal.NewFromInt(5),
			NetWeight:   decimal.RequireFromString("10.5"),
			GoldRate:    decimal.NewFromInt(100),
			LabRate:     decimal.Zero,
			Amount:      decimal.NewFromInt(1050),
		}},
		Total: decimal.NewFromInt(1050),
		Paid:  decimal.NewFromInt(1050),
		Due:   decimal.Zero,
	}

	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.width)); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}
	return receipt, nil
}

func paymentLabel(p entity.PaymentDetails) string {
	switch p.Mode {
	case enum.PaymentModePhonePe:
		if name := p.ReceiverName(); name != "" {
			return "PhonePe (" + name + ")"
		}
		return "PhonePe"
	case enum.PaymentModeDiscount:
		return "Discount"
	default:
		return "Cash"
	}
}

func weight(d decimal.Decimal) string {
	return d.StringFixed(3) + "g"
}

// printable swaps the rupee sign for text most printer code pages can show
func printable(s string) string {
	return strings.ReplaceAll(s, "₹", "Rs.")
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.ShopName).
		SetFontSize(printer.FontNormal).
		SetBold(false)
	if r.Header.Address != "" {
		doc.Wrap(r.Header.Address)
	}
	if r.Header.Mobile != "" {
		doc.TextF("Ph: %s", r.Header.Mobile)
	}
	if r.Header.GSTIN != "" {
		doc.TextF("GSTIN: %s", r.Header.GSTIN)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-').
		KeyValue("Invoice:", r.InvoiceNo)
	if r.SerialNumber > 0 {
		doc.KeyValue("Serial:", fmt.Sprintf("%d", r.SerialNumber))
	}
	doc.KeyValue("Date:", r.Date).
		KeyValue("Customer:", r.CustomerName)
	if r.CustomerMobile != "" {
		doc.KeyValue("Mobile:", r.CustomerMobile)
	}

	doc.Separator('-')
	for _, item := range r.Items {
		doc.ItemLine(item.Name, printable(utils.FormatCurrency(item.Amount))).
			TextF("  %s + %s%% = %s", weight(item.GrossWeight), item.Wastage.String(), weight(item.NetWeight)).
			TextF("  @ %s, lab %s", printable(utils.FormatCurrency(item.GoldRate)), printable(utils.FormatCurrency(item.LabRate)))
	}
	doc.Separator('-')

	doc.SetBold(true).
		KeyValue("TOTAL:", printable(utils.FormatCurrency(r.Total))).
		SetBold(false).
		KeyValue("Paid:", printable(utils.FormatCurrency(r.Paid)))
	if r.Discount.IsPositive() {
		doc.KeyValue("Discount:", printable(utils.FormatCurrency(r.Discount)))
	}
	doc.KeyValue("Due:", printable(utils.FormatCurrency(r.Due)))

	if r.Notes != "" {
		doc.Separator('-').Wrap(r.Notes)
	}

	doc.Separator('-').
		SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Thank you for your business!").
		LineFeed().
		SetAlign(printer.AlignLeft).
		FeedLines(3).
		PartialCut()

	return doc.Bytes()
}

// FormatShareMessage renders the receipt with chat-style bold markers
func FormatShareMessage(r *entity.Receipt) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*%s - Invoice #%s*\n\n", r.Header.ShopName, r.InvoiceNo)
	fmt.Fprintf(&b, "*Customer:* %s\n", r.CustomerName)
	fmt.Fprintf(&b, "*Mobile:* %s\n", r.CustomerMobile)
	if r.CustomerAddress != "" {
		fmt.Fprintf(&b, "*Address:* %s\n", r.CustomerAddress)
	}
	fmt.Fprintf(&b, "*Date:* %s\n\n", r.Date)

	b.WriteString("*Items:*\n")
	for i, item := range r.Items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item.Name)
		fmt.Fprintf(&b, "   Gross: %s, Wastage: %s%%\n", weight(item.GrossWeight), item.Wastage.String())
		fmt.Fprintf(&b, "   Net: %s, Gold Rate: %s\n", weight(item.NetWeight), utils.FormatCurrency(item.GoldRate))
		fmt.Fprintf(&b, "   Lab Rate: %s, Amount: %s\n\n", utils.FormatCurrency(item.LabRate), utils.FormatCurrency(item.Amount))
	}

	b.WriteString("*Payment Details:*\n")
	fmt.Fprintf(&b, "Total Amount: %s\n", utils.FormatCurrency(r.Total))
	fmt.Fprintf(&b, "Paid Amount: %s\n", utils.FormatCurrency(r.Paid))
	if r.Discount.IsPositive() {
		fmt.Fprintf(&b, "Discount: %s\n", utils.FormatCurrency(r.Discount))
	}
	fmt.Fprintf(&b, "Due Amount: %s\n\n", utils.FormatCurrency(r.Due))

	if len(r.Payments) > 0 {
		b.WriteString("*Payments:*\n")
		for i, p := range r.Payments {
			fmt.Fprintf(&b, "%d. %s\n", i+1, p.Label)
			fmt.Fprintf(&b, "   Amount: %s\n", utils.FormatCurrency(p.Amount))
			fmt.Fprintf(&b, "   Date: %s\n\n", p.Date)
		}
	}

	b.WriteString("Thank you for your business!\n")
	b.WriteString(r.Header.ShopName)
	if r.Header.Address != "" {
		b.WriteString("\n" + r.Header.Address)
	}
	if r.Header.Mobile != "" {
		b.WriteString("\nTel: " + r.Header.Mobile)
	}
	return b.String()
}

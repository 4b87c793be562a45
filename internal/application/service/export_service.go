package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rkjewellers/billing-api/internal/domain/entity"
	"github.com/rkjewellers/billing-api/internal/domain/enum"
	"github.com/rkjewellers/billing-api/internal/domain/repository"
	"github.com/rkjewellers/billing-api/pkg/export"
	"github.com/rkjewellers/billing-api/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	placeholderError = "Error"
	placeholderNA    = "N/A"
)

type customerRow struct {
	ID          string `csv:"ID"`
	Name        string `csv:"Name"`
	Mobile      string `csv:"Mobile"`
	Address     string `csv:"Address"`
	CreatedDate string `csv:"Created Date"`
}

type invoiceRow struct {
	InvoiceID       string `csv:"Invoice ID"`
	CustomerName    string `csv:"Customer Name"`
	Mobile          string `csv:"Mobile"`
	Date            string `csv:"Date"`
	TotalAmount     string `csv:"Total Amount"`
	PaidAmount      string `csv:"Paid Amount"`
	DueAmount       string `csv:"Due Amount"`
	ItemsCount      string `csv:"Items Count"`
	PaymentMode     string `csv:"Payment Mode"`
	PaymentReceiver string `csv:"Payment Receiver"`
}

// ExportService produces downloadable reports. A malformed stored row is
// exported with placeholder values instead of failing the whole report.
type ExportService struct {
	exportRepo repository.ExportRepository
	loc        *time.Location
}

// NewExportService creates a new export service. Dates are shown in loc.
func NewExportService(exportRepo repository.ExportRepository, loc *time.Location) *ExportService {
	return &ExportService{exportRepo: exportRepo, loc: loc}
}

// CustomersCSV returns every customer as quoted CSV
func (s *ExportService) CustomersCSV(ctx context.Context) ([]byte, error) {
	rows, err := s.customerRows(ctx)
	if err != nil {
		return nil, err
	}
	return marshalQuoted(rows)
}

// InvoicesCSV returns every invoice as quoted CSV. Payment mode and receiver
// come from the latest payment entry.
func (s *ExportService) InvoicesCSV(ctx context.Context) ([]byte, error) {
	rows, err := s.invoiceRows(ctx)
	if err != nil {
		return nil, err
	}
	return marshalQuoted(rows)
}

// InvoicesXLSX writes a workbook with an Invoices and a Customers sheet
func (s *ExportService) InvoicesXLSX(ctx context.Context, w io.Writer) error {
	invoices, err := s.invoiceRows(ctx)
	if err != nil {
		return err
	}
	customers, err := s.customerRows(ctx)
	if err != nil {
		return err
	}

	invoiceRecords := &export.Collector{}
	if err := gocsv.MarshalCSV(invoices, invoiceRecords); err != nil {
		return fmt.Errorf("failed to project invoices: %w", err)
	}
	customerRecords := &export.Collector{}
	if err := gocsv.MarshalCSV(customers, customerRecords); err != nil {
		return fmt.Errorf("failed to project customers: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			zap.L().Warn("failed to close workbook", zap.Error(err))
		}
	}()

	if err := f.SetSheetName("Sheet1", "Invoices"); err != nil {
		return err
	}
	if _, err := f.NewSheet("Customers"); err != nil {
		return err
	}
	if err := writeSheet(f, "Invoices", invoiceRecords.Records); err != nil {
		return err
	}
	if err := writeSheet(f, "Customers", customerRecords.Records); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

func writeSheet(f *excelize.File, sheet string, records [][]string) error {
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(record))
		for j, v := range record {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	if len(records) > 0 {
		return f.SetRowStyle(sheet, 1, 1, header)
	}
	return nil
}

func marshalQuoted(rows interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gocsv.MarshalCSV(rows, export.NewQuotedWriter(&buf)); err != nil {
		return nil, fmt.Errorf("failed to encode csv: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *ExportService) customerRows(ctx context.Context) ([]customerRow, error) {
	records, err := s.exportRepo.CustomerRecords(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]customerRow, 0, len(records))
	for _, r := range records {
		row := customerRow{
			ID:      r.ID,
			Name:    deref(r.Name),
			Mobile:  deref(r.Mobile),
			Address: deref(r.Address),
		}
		if r.CreatedAt != nil {
			row.CreatedDate = utils.FormatDate(*r.CreatedAt, s.loc)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *ExportService) invoiceRows(ctx context.Context) ([]invoiceRow, error) {
	records, err := s.exportRepo.InvoiceRecords(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]invoiceRow, 0, len(records))
	for _, r := range records {
		row, err := s.invoiceRow(r)
		if err != nil {
			zap.L().Warn("exporting malformed invoice with placeholders",
				zap.String("invoice_id", r.ID), zap.Error(err))
			row = errorInvoiceRow(r.ID)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *ExportService) invoiceRow(r repository.InvoiceExportRecord) (invoiceRow, error) {
	var items entity.JewelryItems
	if err := decodeList(r.Items, &items); err != nil {
		return invoiceRow{}, fmt.Errorf("items: %w", err)
	}
	var payments entity.Payments
	if err := decodeList(r.Payments, &payments); err != nil {
		return invoiceRow{}, fmt.Errorf("payments: %w", err)
	}

	paid := nullOrZero(r.PaidAmount)
	if r.DiscountAmount.Valid {
		paid = paid.Sub(r.DiscountAmount.Decimal)
	}

	row := invoiceRow{
		InvoiceID:       r.ID,
		CustomerName:    deref(r.CustomerName),
		Mobile:          deref(r.CustomerMobile),
		TotalAmount:     nullOrZero(r.TotalAmount).String(),
		PaidAmount:      paid.String(),
		DueAmount:       nullOrZero(r.DueAmount).String(),
		ItemsCount:      strconv.Itoa(len(items)),
		PaymentMode:     placeholderNA,
		PaymentReceiver: placeholderNA,
	}
	if r.InvoiceDate != nil {
		row.Date = utils.FormatDate(*r.InvoiceDate, s.loc)
	}
	if len(payments) > 0 {
		last := payments[len(payments)-1]
		row.PaymentMode = last.Mode.String()
		if last.Mode == enum.PaymentModePhonePe {
			if name := last.ReceiverName(); name != "" {
				row.PaymentReceiver = name
			}
		}
	}
	return row, nil
}

// decodeList treats a missing column as an empty list
func decodeList(raw []byte, v interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func errorInvoiceRow(id string) invoiceRow {
	return invoiceRow{
		InvoiceID:       id,
		CustomerName:    placeholderError,
		Mobile:          placeholderError,
		Date:            placeholderError,
		TotalAmount:     "0",
		PaidAmount:      "0",
		DueAmount:       "0",
		ItemsCount:      "0",
		PaymentMode:     placeholderNA,
		PaymentReceiver: placeholderNA,
	}
}

func nullOrZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package entity

import "github.com/shopspring/decimal"

// ReceiptHeader holds the shop header printed at the top of a receipt.
type ReceiptHeader struct {
	ShopName string `json:"shop_name"`
	Address  string `json:"address,omitempty"`
	Mobile   string `json:"mobile,omitempty"`
	GSTIN    string `json:"gstin,omitempty"`
}

// ReceiptItem represents a single jewelry line on a receipt.
type ReceiptItem struct {
	Name        string          `json:"name"`
	GrossWeight decimal.Decimal `json:"gross_weight"`
	Wastage     decimal.Decimal `json:"wastage"`
	NetWeight   decimal.Decimal `json:"net_weight"`
	GoldRate    decimal.Decimal `json:"gold_rate"`
	LabRate     decimal.Decimal `json:"lab_rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// ReceiptLine is one payment entry as shown on a receipt
type ReceiptLine struct {
	Label  string          `json:"label"` // e.g. "Cash" or "PhonePe (PAVAN)"
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
}

// Receipt is a value object representing a printable or shareable invoice.
// It is not persisted; it is composed from the invoice and shop config on demand.
type Receipt struct {
	Header          ReceiptHeader   `json:"header"`
	InvoiceNo       string          `json:"invoice_no"`
	SerialNumber    int64           `json:"serial_number,omitempty"`
	Date            string          `json:"date"`
	CustomerName    string          `json:"customer_name"`
	CustomerMobile  string          `json:"customer_mobile"`
	CustomerAddress string          `json:"customer_address,omitempty"`
	Items           []ReceiptItem   `json:"items"`
	Payments        []ReceiptLine   `json:"payments"`
	Total           decimal.Decimal `json:"total"`
	Paid            decimal.Decimal `json:"paid"`
	Discount        decimal.Decimal `json:"discount"`
	Due             decimal.Decimal `json:"due"`
	Notes           string          `json:"notes,omitempty"`
}

package utils

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DisplayDateLayout is the dd/mm/yyyy, hh:mm am layout used on exports and receipts
const DisplayDateLayout = "02/01/2006, 03:04 pm"

var indianEnglish = language.MustParse("en-IN")

// FormatCurrency renders a rupee amount with exactly two fraction digits
func FormatCurrency(d decimal.Decimal) string {
	p := message.NewPrinter(indianEnglish)
	return "₹" + p.Sprintf("%v", number.Decimal(d.Round(2).InexactFloat64(),
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// FormatDate renders t in loc using DisplayDateLayout
func FormatDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DisplayDateLayout)
}

package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestShortInvoiceNo(t *testing.T) {
	assert.Equal(t, "3F2A9C1B", ShortInvoiceNo("3f2a9c1b-7d0e-4c55-a1d2-0b9e8f7a6c5d"))
	assert.Equal(t, "AB12", ShortInvoiceNo("ab12"))
}

func TestNewID_Unique(t *testing.T) {
	assert.NotEqual(t, NewID(), NewID())
	assert.Len(t, NewID(), 36)
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "₹500.00", FormatCurrency(decimal.NewFromInt(500)))
}

func TestFormatDate(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Skip("tzdata not available")
	}
	ts := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "05/03/2024, 02:30 pm", FormatDate(ts, loc))
	assert.Equal(t, "", FormatDate(time.Time{}, loc))
}

package calculator

import (
	"testing"

	"github.com/rkjewellers/billing-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNetWeight(t *testing.T) {
	tests := []struct {
		name    string
		gross   string
		wastage string
		want    string
	}{
		{name: "zero weight", gross: "0", wastage: "12", want: "0"},
		{name: "zero wastage", gross: "10.5", wastage: "0", want: "10.5"},
		{name: "ten percent", gross: "10", wastage: "10", want: "11"},
		{name: "fractional", gross: "7.35", wastage: "8.5", want: "7.974750"},
		{name: "negative input tolerated", gross: "-10", wastage: "10", want: "-11"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NetWeight(d(tt.gross), d(tt.wastage))
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)

			// gross*(1+wastage/100) must agree exactly
			alt := d(tt.gross).Mul(decimal.NewFromInt(1).Add(d(tt.wastage).Div(decimal.NewFromInt(100))))
			assert.True(t, got.Equal(alt), "got %s alt %s", got, alt)
		})
	}
}

func TestItemAmount(t *testing.T) {
	tests := []struct {
		name     string
		net      string
		goldRate string
		labRate  string
		want     string
	}{
		{name: "all zero", net: "0", goldRate: "0", labRate: "0", want: "0"},
		{name: "lab only", net: "0", goldRate: "6200", labRate: "500", want: "500"},
		{name: "typical", net: "11", goldRate: "6200", labRate: "500", want: "68700"},
		{name: "fractional", net: "7.97475", goldRate: "6235.5", labRate: "250.25", want: "49976.803625"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ItemAmount(d(tt.net), d(tt.goldRate), d(tt.labRate))
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestInvoiceTotal_IgnoresStaleCache(t *testing.T) {
	items := []entity.JewelryItem{
		{Name: "Ring", GrossWeight: d("10"), Wastage: d("10"), GoldRate: d("6200"), LabRate: d("500"), Amount: d("1")},
		{Name: "Chain", GrossWeight: d("20"), Wastage: d("5"), GoldRate: d("6000"), LabRate: d("0"), NetWeight: d("999")},
	}

	// 11*6200+500 + 21*6000
	assert.True(t, InvoiceTotal(items).Equal(d("194700")))
	assert.True(t, InvoiceTotal(nil).IsZero())
}

func TestPriceItems(t *testing.T) {
	items := []entity.JewelryItem{
		{Name: "Ring", GrossWeight: d("10"), Wastage: d("10"), GoldRate: d("6200"), LabRate: d("500")},
		{Name: "Studs", GrossWeight: d("2.5"), Wastage: d("0"), GoldRate: d("6200"), LabRate: d("300")},
	}

	total := PriceItems(items)

	assert.True(t, items[0].NetWeight.Equal(d("11")))
	assert.True(t, items[0].Amount.Equal(d("68700")))
	assert.True(t, items[1].NetWeight.Equal(d("2.5")))
	assert.True(t, items[1].Amount.Equal(d("15800")))
	assert.True(t, total.Equal(d("84500")))
	assert.True(t, total.Equal(InvoiceTotal(items)))
}

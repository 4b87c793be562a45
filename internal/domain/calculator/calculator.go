// Package calculator derives item weights and prices. Every function is pure
// and exact: values are decimals, never floats. Negative inputs are accepted
// and simply yield negative results.
package calculator

import (
	"github.com/rkjewellers/billing-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// NetWeight returns gross + gross*wastagePct/100
func NetWeight(gross, wastagePct decimal.Decimal) decimal.Decimal {
	return gross.Add(gross.Mul(wastagePct).Div(hundred))
}

// ItemAmount returns netWeight*goldRate + labRate
func ItemAmount(netWeight, goldRate, labRate decimal.Decimal) decimal.Decimal {
	return netWeight.Mul(goldRate).Add(labRate)
}

// InvoiceTotal sums the amounts of items, recomputed from their raw inputs.
// Cached NetWeight/Amount values on the items are ignored.
func InvoiceTotal(items []entity.JewelryItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(ItemAmount(NetWeight(item.GrossWeight, item.Wastage), item.GoldRate, item.LabRate))
	}
	return total
}

// PriceItem refreshes the derived fields of item in place
func PriceItem(item *entity.JewelryItem) {
	item.NetWeight = NetWeight(item.GrossWeight, item.Wastage)
	item.Amount = ItemAmount(item.NetWeight, item.GoldRate, item.LabRate)
}

// PriceItems refreshes every item and returns the invoice total
func PriceItems(items []entity.JewelryItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		PriceItem(&items[i])
		total = total.Add(items[i].Amount)
	}
	return total
}

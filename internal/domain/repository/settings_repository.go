package repository

import (
	"context"

	"github.com/rkjewellers/billing-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ShopRepository stores the singleton shop configuration
type ShopRepository interface {
	Store[entity.ShopConfig]
}

// RevenueRepository stores one revenue bucket per local calendar day
type RevenueRepository interface {
	Store[entity.DailyRevenue]
	// Sum totals every bucket between the two day keys, inclusive
	Sum(ctx context.Context, fromDay, toDay string) (decimal.Decimal, error)
}

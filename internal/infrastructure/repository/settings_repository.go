package repository

import (
	"context"

	"github.com/rkjewellers/billing-api/internal/domain/entity"
	domainRepo "github.com/rkjewellers/billing-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type shopRepository struct {
	gormStore[entity.ShopConfig]
}

// NewShopRepository creates a new shop config repository
func NewShopRepository(db *gorm.DB) domainRepo.ShopRepository {
	return &shopRepository{gormStore: newGormStore[entity.ShopConfig](db, "id", "Shop config")}
}

type revenueRepository struct {
	gormStore[entity.DailyRevenue]
}

// NewRevenueRepository creates a new daily revenue repository
func NewRevenueRepository(db *gorm.DB) domainRepo.RevenueRepository {
	return &revenueRepository{gormStore: newGormStore[entity.DailyRevenue](db, "date", "Daily revenue")}
}

func (r *revenueRepository) Sum(ctx context.Context, fromDay, toDay string) (decimal.Decimal, error) {
	var buckets []entity.DailyRevenue
	err := conn(ctx, r.db).
		Where("date >= ? AND date <= ?", fromDay, toDay).
		Find(&buckets).Error
	if err != nil {
		return decimal.Zero, translateError(err, r.resource)
	}

	total := decimal.Zero
	for _, b := range buckets {
		total = total.Add(b.TotalAmount)
	}
	return total, nil
}

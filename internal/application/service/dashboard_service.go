package service

import (
	"context"
	"time"

	"github.com/rkjewellers/billing-api/internal/domain/entity"
	"github.com/rkjewellers/billing-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

const recentInvoiceLimit = 5

// DashboardService builds the figures shown on the home screen
type DashboardService struct {
	customerRepo repository.CustomerRepository
	invoiceRepo  repository.InvoiceRepository
	revenueRepo  repository.RevenueRepository
	clock        *Clock
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	customerRepo repository.CustomerRepository,
	invoiceRepo repository.InvoiceRepository,
	revenueRepo repository.RevenueRepository,
	clock *Clock,
) *DashboardService {
	return &DashboardService{
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
		revenueRepo:  revenueRepo,
		clock:        clock,
	}
}

// DashboardStats represents the statistics for the dashboard
type DashboardStats struct {
	TotalCustomers int64            `json:"total_customers"`
	TotalInvoices  int64            `json:"total_invoices"`
	TotalRevenue   decimal.Decimal  `json:"total_revenue"`
	TotalDue       decimal.Decimal  `json:"total_due"`
	TodayRevenue   decimal.Decimal  `json:"today_revenue"`
	MonthRevenue   decimal.Decimal  `json:"month_revenue"`
	RecentInvoices []entity.Invoice `json:"recent_invoices"`
}

// GetStats retrieves dashboard statistics. TotalRevenue is money received
// across all invoices; discounts are excluded.
func (s *DashboardService) GetStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{
		TotalRevenue: decimal.Zero,
		TotalDue:     decimal.Zero,
		TodayRevenue: decimal.Zero,
		MonthRevenue: decimal.Zero,
	}

	var err error
	if stats.TotalCustomers, err = s.customerRepo.Count(ctx); err != nil {
		return nil, err
	}

	invoices, err := s.invoiceRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalInvoices = int64(len(invoices))
	for i := range invoices {
		stats.TotalRevenue = stats.TotalRevenue.Add(invoices[i].ReceivedAmount())
		stats.TotalDue = stats.TotalDue.Add(invoices[i].DueAmount)
	}

	now := s.clock.Now()
	today, err := s.revenueRepo.Get(ctx, entity.DayKey(now))
	if err != nil {
		return nil, err
	}
	if today != nil {
		stats.TodayRevenue = today.TotalAmount
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if stats.MonthRevenue, err = s.revenueRepo.Sum(ctx, entity.DayKey(monthStart), entity.DayKey(now)); err != nil {
		return nil, err
	}

	if stats.RecentInvoices, err = s.invoiceRepo.Recent(ctx, recentInvoiceLimit); err != nil {
		return nil, err
	}
	return stats, nil
}

package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rkjewellers/billing-api/internal/config"
	"github.com/rkjewellers/billing-api/internal/domain/entity"
	"github.com/rkjewellers/billing-api/internal/domain/repository"
	"github.com/rkjewellers/billing-api/internal/infrastructure/database"
	infraRepo "github.com/rkjewellers/billing-api/internal/infrastructure/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var ist = time.FixedZone("IST", 5*3600+1800)

// 15 March 2024, 10:30 in the shop's timezone
var testNow = time.Date(2024, 3, 15, 10, 30, 0, 0, ist)

const testToday = "2024-03-15"

type fixture struct {
	db         *gorm.DB
	transactor repository.Transactor
	customers  repository.CustomerRepository
	invoices   repository.InvoiceRepository
	revenue    repository.RevenueRepository
	shop       repository.ShopRepository
	clock      *Clock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Open(&config.DatabaseConfig{
		Driver:   "sqlite",
		Path:     filepath.Join(t.TempDir(), "ledger.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	return &fixture{
		db:         db,
		transactor: infraRepo.NewTransactor(db),
		customers:  infraRepo.NewCustomerRepository(db),
		invoices:   infraRepo.NewInvoiceRepository(db),
		revenue:    infraRepo.NewRevenueRepository(db),
		shop:       infraRepo.NewShopRepository(db),
		clock:      NewFixedClock(testNow, ist),
	}
}

func (f *fixture) ledger() *LedgerService {
	return NewLedgerService(f.transactor, f.invoices, f.customers, f.revenue, f.clock)
}

func (f *fixture) invoiceService() *InvoiceService {
	return NewInvoiceService(f.transactor, f.invoices, f.customers, f.revenue, f.clock)
}

func (f *fixture) seedCustomer(t *testing.T, name, mobile string) *entity.Customer {
	t.Helper()
	c := &entity.Customer{Name: name, Mobile: mobile}
	require.NoError(t, f.customers.Add(context.Background(), c))
	return c
}

// seedInvoice stores an unpaid single-item invoice whose total is total
func (f *fixture) seedInvoice(t *testing.T, customer *entity.Customer, total string, at time.Time) *entity.Invoice {
	t.Helper()
	amount := dec(total)
	inv := &entity.Invoice{
		CustomerID:     customer.ID,
		CustomerName:   customer.Name,
		CustomerMobile: customer.Mobile,
		Items: entity.JewelryItems{{
			ID: "item", Name: "Chain", GrossWeight: decimal.NewFromInt(1), Wastage: decimal.Zero,
			GoldRate: amount, LabRate: decimal.Zero, NetWeight: decimal.NewFromInt(1), Amount: amount,
		}},
		TotalAmount:    amount,
		PaidAmount:     decimal.Zero,
		DueAmount:      amount,
		DiscountAmount: decimal.Zero,
		InvoiceDate:    at.UTC(),
	}
	require.NoError(t, f.invoices.Add(context.Background(), inv))
	return inv
}

func (f *fixture) mustInvoice(t *testing.T, id string) *entity.Invoice {
	t.Helper()
	inv, err := f.invoices.Get(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, inv)
	return inv
}

// todayRevenue returns today's bucket total, or nil when no bucket exists
func (f *fixture) todayRevenue(t *testing.T) *decimal.Decimal {
	t.Helper()
	bucket, err := f.revenue.Get(context.Background(), testToday)
	require.NoError(t, err)
	if bucket == nil {
		return nil
	}
	return &bucket.TotalAmount
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sumPayments(inv *entity.Invoice) decimal.Decimal {
	total := decimal.Zero
	for _, p := range inv.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

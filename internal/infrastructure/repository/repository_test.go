package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rkjewellers/billing-api/internal/config"
	"github.com/rkjewellers/billing-api/internal/domain/entity"
	"github.com/rkjewellers/billing-api/internal/domain/enum"
	domainRepo "github.com/rkjewellers/billing-api/internal/domain/repository"
	"github.com/rkjewellers/billing-api/internal/infrastructure/database"
	"github.com/rkjewellers/billing-api/pkg/apperror"
	"github.com/rkjewellers/billing-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(&config.DatabaseConfig{
		Driver:   "sqlite",
		Path:     filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func strPtr(s string) *string { return &s }

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCustomerRepository_AddGetConflict(t *testing.T) {
	ctx := context.Background()
	repo := NewCustomerRepository(newTestDB(t))

	c := &entity.Customer{Name: "Ravi Kumar", Mobile: "9876543210", Address: strPtr("Achampet")}
	require.NoError(t, repo.Add(ctx, c))
	require.NotEmpty(t, c.ID)

	got, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ravi Kumar", got.Name)
	assert.Equal(t, "Achampet", *got.Address)

	missing, err := repo.Get(ctx, "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, missing)

	// same id
	err = repo.Add(ctx, &entity.Customer{ID: c.ID, Name: "Other", Mobile: "9000000000"})
	assert.True(t, apperror.IsConflict(err))

	// same mobile
	err = repo.Add(ctx, &entity.Customer{Name: "Other", Mobile: "9876543210"})
	assert.True(t, apperror.IsConflict(err))

	byMobile, err := repo.GetByMobile(ctx, "9876543210")
	require.NoError(t, err)
	require.NotNil(t, byMobile)
	assert.Equal(t, c.ID, byMobile.ID)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestStore_PatchDeleteClear(t *testing.T) {
	ctx := context.Background()
	repo := NewCustomerRepository(newTestDB(t))

	_, err := repo.Patch(ctx, "missing", map[string]interface{}{"name": "X"})
	assert.True(t, apperror.IsNotFound(err))

	c := &entity.Customer{Name: "Lakshmi", Mobile: "9123456780"}
	require.NoError(t, repo.Add(ctx, c))

	updated, err := repo.Patch(ctx, c.ID, map[string]interface{}{"address": "Nagarkurnool"})
	require.NoError(t, err)
	assert.Equal(t, "Lakshmi", updated.Name)
	require.NotNil(t, updated.Address)
	assert.Equal(t, "Nagarkurnool", *updated.Address)

	require.NoError(t, repo.Delete(ctx, c.ID))
	require.NoError(t, repo.Delete(ctx, c.ID))

	require.NoError(t, repo.Add(ctx, &entity.Customer{Name: "A", Mobile: "9000000001"}))
	require.NoError(t, repo.Add(ctx, &entity.Customer{Name: "B", Mobile: "9000000002"}))
	require.NoError(t, repo.Clear(ctx))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCustomerRepository_Search(t *testing.T) {
	ctx := context.Background()
	repo := NewCustomerRepository(newTestDB(t))

	require.NoError(t, repo.Add(ctx, &entity.Customer{Name: "Ravi Kumar", Mobile: "9876543210"}))
	require.NoError(t, repo.Add(ctx, &entity.Customer{Name: "Sita Devi", Mobile: "9440012345"}))

	all, err := repo.Search(ctx, "  ")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byName, err := repo.Search(ctx, "RAVI")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Ravi Kumar", byName[0].Name)

	byMobile, err := repo.Search(ctx, "40012")
	require.NoError(t, err)
	require.Len(t, byMobile, 1)
	assert.Equal(t, "Sita Devi", byMobile[0].Name)

	none, err := repo.Search(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCustomerRepository_SearchLiteralWildcards(t *testing.T) {
	ctx := context.Background()
	repo := NewCustomerRepository(newTestDB(t))

	require.NoError(t, repo.Add(ctx, &entity.Customer{Name: "Ravi Kumar", Mobile: "9876543210"}))
	require.NoError(t, repo.Add(ctx, &entity.Customer{Name: "Sita Devi", Mobile: "9440012345"}))

	for _, q := range []string{"_", "%", `\`} {
		got, err := repo.Search(ctx, q)
		require.NoError(t, err)
		assert.Empty(t, got, "query %q", q)
	}

	require.NoError(t, repo.Add(ctx, &entity.Customer{Name: "Gold_Smith 100%", Mobile: "9000000001"}))

	got, err := repo.Search(ctx, "_")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Gold_Smith 100%", got[0].Name)

	got, err = repo.Search(ctx, "0%")
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now \\ ok`, escapeLike(`50% off_now \ ok`))
	assert.Equal(t, "ravi", escapeLike("ravi"))
}

func newInvoice(customerID, name string, serial int64, total string, at time.Time) *entity.Invoice {
	return &entity.Invoice{
		SerialNumber:   serial,
		CustomerID:     customerID,
		CustomerName:   name,
		CustomerMobile: "9876543210",
		Items: entity.JewelryItems{{
			ID: "item-1", Name: "Ring", GrossWeight: d("10"), Wastage: d("5"),
			GoldRate: d("6000"), LabRate: d("500"), NetWeight: d("10.5"), Amount: d("63500"),
		}},
		TotalAmount: d(total),
		PaidAmount:  decimal.Zero,
		DueAmount:   d(total),
		InvoiceDate: at,
	}
}

func TestInvoiceRepository_RoundTripAndPut(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepository(newTestDB(t))
	at := time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

	inv := newInvoice("c1", "Ravi", 1, "63500", at)
	require.NoError(t, repo.Add(ctx, inv))

	got, err := repo.Get(ctx, inv.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Ring", got.Items[0].Name)
	assert.True(t, got.TotalAmount.Equal(d("63500")))
	assert.True(t, got.InvoiceDate.Equal(at))
	assert.Empty(t, got.Payments)

	got.ApplyPayment(entity.PaymentDetails{Mode: enum.PaymentModeCash, Amount: d("63500"), Timestamp: at})
	require.NoError(t, repo.Put(ctx, got))

	again, err := repo.Get(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, again.DueAmount.IsZero())
	assert.True(t, again.PaidAmount.Equal(d("63500")))
	require.Len(t, again.Payments, 1)
	assert.Equal(t, enum.PaymentModeCash, again.Payments[0].Mode)
}

func TestInvoiceRepository_ExactAmounts(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewInvoiceRepository(db)
	at := time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

	precise := newInvoice("c1", "Ravi", 1, "866703.09662368275", at)
	require.NoError(t, repo.Add(ctx, precise))

	large := newInvoice("c2", "Sita", 2, "12345678901.23", at)
	large.ApplyPayment(entity.PaymentDetails{Mode: enum.PaymentModeCash, Amount: d("0.00000001"), Timestamp: at})
	require.NoError(t, repo.Add(ctx, large))

	require.NoError(t, repo.Add(ctx, newInvoice("c3", "Anil", 3, "99.5", at)))

	got, err := repo.Get(ctx, precise.ID)
	require.NoError(t, err)
	assert.Equal(t, "866703.09662368275", got.TotalAmount.String())
	assert.Equal(t, "866703.09662368275", got.DueAmount.String())

	got, err = repo.Get(ctx, large.ID)
	require.NoError(t, err)
	assert.Equal(t, "12345678901.22999999", got.DueAmount.String())
	assert.Equal(t, "0.00000001", got.PaidAmount.String())
	assert.True(t, got.IsBalanced())

	// ordered by value, not by text
	list, _, err := repo.List(ctx, &domainRepo.InvoiceFilterParams{SortBy: "amount", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1, 2}, serials(list))

	revenue := NewRevenueRepository(db)
	require.NoError(t, revenue.Put(ctx, &entity.DailyRevenue{Date: "2024-03-10", TotalAmount: d("0.123456789012")}))
	sum, err := revenue.Sum(ctx, "2024-03-10", "2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, "0.123456789012", sum.String())
}

func TestInvoiceRepository_Queries(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepository(newTestDB(t))
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	max, err := repo.MaxSerialNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), max)

	require.NoError(t, repo.Add(ctx, newInvoice("c1", "Ravi Kumar", 1, "1000", base)))
	require.NoError(t, repo.Add(ctx, newInvoice("c2", "Sita Devi", 7, "3000", base.AddDate(0, 0, 1))))
	require.NoError(t, repo.Add(ctx, newInvoice("c1", "Ravi Kumar", 3, "2000", base.AddDate(0, 0, 2))))

	max, err = repo.MaxSerialNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), max)

	forC1, err := repo.FindByCustomerID(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, forC1, 2)

	// default: newest first
	list, total, err := repo.List(ctx, &domainRepo.InvoiceFilterParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, list, 3)
	assert.Equal(t, int64(3), list[0].SerialNumber)

	list, _, err = repo.List(ctx, &domainRepo.InvoiceFilterParams{SortBy: "amount", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 7}, serials(list))

	list, total, err = repo.List(ctx, &domainRepo.InvoiceFilterParams{Search: "sita"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Sita Devi", list[0].CustomerName)

	_, total, err = repo.List(ctx, &domainRepo.InvoiceFilterParams{Search: "%"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	from := base.Add(time.Hour)
	list, total, err = repo.List(ctx, &domainRepo.InvoiceFilterParams{StartDate: &from})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	list, total, err = repo.List(ctx, &domainRepo.InvoiceFilterParams{
		Pagination: &pagination.PaginationParams{Page: 2, PerPage: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].SerialNumber)

	recent, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 7}, serials(recent))
}

func serials(invoices []entity.Invoice) []int64 {
	out := make([]int64, len(invoices))
	for i, inv := range invoices {
		out[i] = inv.SerialNumber
	}
	return out
}

func TestRevenueRepository_PutAndSum(t *testing.T) {
	ctx := context.Background()
	repo := NewRevenueRepository(newTestDB(t))

	require.NoError(t, repo.Put(ctx, &entity.DailyRevenue{Date: "2024-03-01", TotalAmount: d("100.50")}))
	require.NoError(t, repo.Put(ctx, &entity.DailyRevenue{Date: "2024-03-02", TotalAmount: d("200")}))
	require.NoError(t, repo.Put(ctx, &entity.DailyRevenue{Date: "2024-04-01", TotalAmount: d("999")}))

	// overwrite to zero must persist
	require.NoError(t, repo.Put(ctx, &entity.DailyRevenue{Date: "2024-03-02", TotalAmount: decimal.Zero}))
	bucket, err := repo.Get(ctx, "2024-03-02")
	require.NoError(t, err)
	require.NotNil(t, bucket)
	assert.True(t, bucket.TotalAmount.IsZero())

	sum, err := repo.Sum(ctx, "2024-03-01", "2024-03-31")
	require.NoError(t, err)
	assert.True(t, sum.Equal(d("100.5")), sum.String())
}

func TestShopRepository_Singleton(t *testing.T) {
	ctx := context.Background()
	repo := NewShopRepository(newTestDB(t))

	shop, err := repo.Get(ctx, entity.ShopConfigID)
	require.NoError(t, err)
	assert.Nil(t, shop)

	cfg := entity.DefaultShopConfig()
	require.NoError(t, repo.Put(ctx, cfg))
	cfg.Name = "RK Jewellers & Sons"
	require.NoError(t, repo.Put(ctx, cfg))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	shop, err = repo.Get(ctx, entity.ShopConfigID)
	require.NoError(t, err)
	assert.Equal(t, "RK Jewellers & Sons", shop.Name)
}

func TestTransactor_RollbackAndJoin(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewCustomerRepository(db)
	tx := NewTransactor(db)

	boom := errors.New("boom")
	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, repo.Add(ctx, &entity.Customer{Name: "Temp", Mobile: "9999999999"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	err = tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := repo.Add(ctx, &entity.Customer{Name: "Outer", Mobile: "9000000011"}); err != nil {
			return err
		}
		// nested call joins the outer transaction
		return tx.WithinTransaction(ctx, func(ctx context.Context) error {
			return repo.Add(ctx, &entity.Customer{Name: "Inner", Mobile: "9000000012"})
		})
	})
	require.NoError(t, err)

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestIdempotencyRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewIdempotencyRepository(newTestDB(t))
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, &entity.IdempotencyKey{
		Key: "old", Endpoint: "POST /api/v1/payments", ResponseCode: 200, ExpiresAt: now.Add(-time.Hour),
	}))
	require.NoError(t, repo.Create(ctx, &entity.IdempotencyKey{
		Key: "fresh", Endpoint: "POST /api/v1/payments", ResponseCode: 200, ResponseBody: `{"ok":true}`,
		ExpiresAt: now.Add(time.Hour),
	}))

	removed, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	gone, err := repo.GetByKey(ctx, "old")
	require.NoError(t, err)
	assert.Nil(t, gone)

	fresh, err := repo.GetByKey(ctx, "fresh")
	require.NoError(t, err)
	require.NotNil(t, fresh)
	assert.Equal(t, `{"ok":true}`, fresh.ResponseBody)
}

func TestExportRepository_LooseRows(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewExportRepository(db)

	require.NoError(t, NewInvoiceRepository(db).Add(ctx, newInvoice("c1", "Ravi", 1, "1000", time.Now().UTC())))
	require.NoError(t, db.Exec(
		"INSERT INTO invoices (id, serial_number, customer_id, customer_name) VALUES (?, ?, ?, ?)",
		"broken", 2, "c2", "Broken Row",
	).Error)

	records, err := repo.InvoiceRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	byID := map[string]domainRepo.InvoiceExportRecord{}
	for _, r := range records {
		byID[r.ID] = r
	}
	broken := byID["broken"]
	assert.False(t, broken.TotalAmount.Valid)
	assert.Nil(t, broken.InvoiceDate)
	assert.JSONEq(t, "[]", string(broken.Items))
}

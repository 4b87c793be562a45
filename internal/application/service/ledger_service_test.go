package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rkjewellers/billing-api/internal/domain/entity"
	"github.com/rkjewellers/billing-api/internal/domain/enum"
	"github.com/rkjewellers/billing-api/internal/domain/repository"
	"github.com/rkjewellers/billing-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cash(amount string) PaymentInput {
	return PaymentInput{Amount: dec(amount), Mode: enum.PaymentModeCash}
}

func TestRecordPayment_SplitsGreedilyInCallerOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := f.seedCustomer(t, "Ravi", "9876543210")
	a := f.seedInvoice(t, customer, "100", testNow)
	b := f.seedInvoice(t, customer, "50", testNow)
	c := f.seedInvoice(t, customer, "80", testNow)

	updated, err := f.ledger().RecordPayment(ctx, &RecordPaymentInput{
		CustomerID:   customer.ID,
		InvoiceIDs:   []string{a.ID, b.ID},
		PaymentInput: cash("120"),
	})
	require.NoError(t, err)
	require.Len(t, updated, 2)

	gotA := f.mustInvoice(t, a.ID)
	assert.True(t, gotA.DueAmount.IsZero())
	assert.True(t, gotA.PaidAmount.Equal(dec("100")))

	gotB := f.mustInvoice(t, b.ID)
	assert.True(t, gotB.DueAmount.Equal(dec("30")))
	assert.True(t, gotB.PaidAmount.Equal(dec("20")))

	gotC := f.mustInvoice(t, c.ID)
	assert.True(t, gotC.DueAmount.Equal(dec("80")))
	assert.Empty(t, gotC.Payments)

	for _, inv := range []*entity.Invoice{gotA, gotB} {
		assert.True(t, inv.IsBalanced())
		assert.True(t, inv.PaidAmount.Equal(sumPayments(inv)))
		require.Len(t, inv.Payments, 1)
		assert.Equal(t, enum.PaymentModeCash, inv.Payments[0].Mode)
		assert.True(t, inv.Payments[0].Timestamp.Equal(testNow))
	}
	assert.True(t, gotA.Payments[0].Amount.Equal(dec("100")))
	assert.True(t, gotB.Payments[0].Amount.Equal(dec("20")))

	revenue := f.todayRevenue(t)
	require.NotNil(t, revenue)
	assert.True(t, revenue.Equal(dec("120")))
}

func TestRecordPayment_ExactAmountClearsEveryInvoice(t *testing.T) {
	f := newFixture(t)
	customer := f.seedCustomer(t, "Ravi", "9876543210")
	var ids []string
	for _, total := range []string{"1000", "250.50", "49.50"} {
		ids = append(ids, f.seedInvoice(t, customer, total, testNow).ID)
	}

	_, err := f.ledger().RecordPayment(context.Background(), &RecordPaymentInput{
		CustomerID:   customer.ID,
		InvoiceIDs:   ids,
		PaymentInput: cash("1300"),
	})
	require.NoError(t, err)

	for _, id := range ids {
		inv := f.mustInvoice(t, id)
		assert.True(t, inv.DueAmount.IsZero(), id)
		assert.True(t, inv.PaidAmount.Equal(inv.TotalAmount), id)
	}
}

func TestRecordPayment_CreditsRevenueOnce(t *testing.T) {
	f := newFixture(t)
	customer := f.seedCustomer(t, "Ravi", "9876543210")
	a := f.seedInvoice(t, customer, "300", testNow)
	b := f.seedInvoice(t, customer, "400", testNow)
	require.NoError(t, f.revenue.Put(context.Background(), &entity.DailyRevenue{Date: testToday, TotalAmount: dec("1000")}))

	_, err := f.ledger().RecordPayment(context.Background(), &RecordPaymentInput{
		CustomerID:   customer.ID,
		InvoiceIDs:   []string{a.ID, b.ID},
		PaymentInput: cash("500"),
	})
	require.NoError(t, err)

	revenue := f.todayRevenue(t)
	require.NotNil(t, revenue)
	assert.True(t, revenue.Equal(dec("1500")), revenue.String())
}

func TestRecordPayment_SkipsSettledAndDuplicateInvoices(t *testing.T) {
	f := newFixture(t)
	customer := f.seedCustomer(t, "Ravi", "9876543210")
	settled := f.seedInvoice(t, customer, "100", testNow)
	open := f.seedInvoice(t, customer, "100", testNow)

	ledger := f.ledger()
	_, err := ledger.RecordPayment(context.Background(), &RecordPaymentInput{
		CustomerID: customer.ID, InvoiceIDs: []string{settled.ID}, PaymentInput: cash("100"),
	})
	require.NoError(t, err)

	updated, err := ledger.RecordPayment(context.Background(), &RecordPaymentInput{
		CustomerID:   customer.ID,
		InvoiceIDs:   []string{settled.ID, open.ID, open.ID},
		PaymentInput: cash("60"),
	})
	require.NoError(t, err)
	require.Len(t, updated, 1)
	assert.Equal(t, open.ID, updated[0].ID)

	assert.Len(t, f.mustInvoice(t, settled.ID).Payments, 1)
	gotOpen := f.mustInvoice(t, open.ID)
	assert.Len(t, gotOpen.Payments, 1)
	assert.True(t, gotOpen.DueAmount.Equal(dec("40")))
}

func TestRecordPayment_PhonePeReceiver(t *testing.T) {
	f := newFixture(t)
	customer := f.seedCustomer(t, "Ravi", "9876543210")
	inv := f.seedInvoice(t, customer, "100", testNow)

	_, err := f.ledger().RecordPayment(context.Background(), &RecordPaymentInput{
		CustomerID: customer.ID,
		InvoiceIDs: []string{inv.ID},
		PaymentInput: PaymentInput{
			Amount:             dec("40"),
			Mode:               enum.PaymentModePhonePe,
			Receiver:           enum.ReceiverOthers,
			CustomReceiverName: "  Suresh ",
		},
	})
	require.NoError(t, err)

	last := f.mustInvoice(t, inv.ID).LastPayment()
	require.NotNil(t, last)
	assert.Equal(t, enum.PaymentModePhonePe, last.Mode)
	assert.Equal(t, "Suresh", last.ReceiverName())
}

func TestRecordPayment_RejectsBeforeAnyWrite(t *testing.T) {
	f := newFixture(t)
	customer := f.seedCustomer(t, "Ravi", "9876543210")
	other := f.seedCustomer(t, "Sita", "9123456780")
	a := f.seedInvoice(t, customer, "100", testNow)
	b := f.seedInvoice(t, customer, "50", testNow)
	foreign := f.seedInvoice(t, other, "70", testNow)

	tests := []struct {
		name    string
		input   RecordPaymentInput
		checkFn func(error) bool
	}{
		{"zero amount", RecordPaymentInput{CustomerID: customer.ID, InvoiceIDs: []string{a.ID}, PaymentInput: cash("0")}, apperror.IsValidation},
		{"negative amount", RecordPaymentInput{CustomerID: customer.ID, InvoiceIDs: []string{a.ID}, PaymentInput: cash("-5")}, apperror.IsValidation},
		{"no invoices", RecordPaymentInput{CustomerID: customer.ID, InvoiceIDs: []string{" "}, PaymentInput: cash("10")}, apperror.IsValidation},
		{"exceeds due", RecordPaymentInput{CustomerID: customer.ID, InvoiceIDs: []string{a.ID, b.ID}, PaymentInput: cash("150.01")}, apperror.IsValidation},
		{"discount mode", RecordPaymentInput{CustomerID: customer.ID, InvoiceIDs: []string{a.ID},
			PaymentInput: PaymentInput{Amount: dec("10"), Mode: enum.PaymentModeDiscount}}, apperror.IsValidation},
		{"unknown mode", RecordPaymentInput{CustomerID: customer.ID, InvoiceIDs: []string{a.ID},
			PaymentInput: PaymentInput{Amount: dec("10"), Mode: "CARD"}}, apperror.IsValidation},
		{"phonepe without receiver", RecordPaymentInput{CustomerID: customer.ID, InvoiceIDs: []string{a.ID},
			PaymentInput: PaymentInput{Amount: dec("10"), Mode: enum.PaymentModePhonePe}}, apperror.IsValidation},
		{"others without name", RecordPaymentInput{CustomerID: customer.ID, InvoiceIDs: []string{a.ID},
			PaymentInput: PaymentInput{Amount: dec("10"), Mode: enum.PaymentModePhonePe, Receiver: enum.ReceiverOthers, CustomReceiverName: "  "}}, apperror.IsValidation},
		{"invoice of another customer", RecordPaymentInput{CustomerID: customer.ID, InvoiceIDs: []string{a.ID, foreign.ID}, PaymentInput: cash("10")}, apperror.IsValidation},
		{"missing invoice", RecordPaymentInput{CustomerID: customer.ID, InvoiceIDs: []string{a.ID, "nope"}, PaymentInput: cash("10")}, apperror.IsNotFound},
		{"missing customer", RecordPaymentInput{CustomerID: "nope", InvoiceIDs: []string{a.ID}, PaymentInput: cash("10")}, apperror.IsNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.input
			_, err := f.ledger().RecordPayment(context.Background(), &input)
			require.Error(t, err)
			assert.True(t, tt.checkFn(err), err.Error())

			for _, inv := range []*entity.Invoice{a, b, foreign} {
				got := f.mustInvoice(t, inv.ID)
				assert.Empty(t, got.Payments)
				assert.True(t, got.DueAmount.Equal(inv.TotalAmount))
			}
			assert.Nil(t, f.todayRevenue(t))
		})
	}
}

// flakyInvoiceRepo fails the nth Put
type flakyInvoiceRepo struct {
	repository.InvoiceRepository
	failOn int
	puts   int
}

func (r *flakyInvoiceRepo) Put(ctx context.Context, inv *entity.Invoice) error {
	r.puts++
	if r.puts == r.failOn {
		return errors.New("disk I/O error")
	}
	return r.InvoiceRepository.Put(ctx, inv)
}

func TestRecordPayment_FailureMidAllocationRollsBack(t *testing.T) {
	f := newFixture(t)
	customer := f.seedCustomer(t, "Ravi", "9876543210")
	a := f.seedInvoice(t, customer, "100", testNow)
	b := f.seedInvoice(t, customer, "50", testNow)

	ledger := NewLedgerService(f.transactor, &flakyInvoiceRepo{InvoiceRepository: f.invoices, failOn: 2},
		f.customers, f.revenue, f.clock)

	_, err := ledger.RecordPayment(context.Background(), &RecordPaymentInput{
		CustomerID: customer.ID, InvoiceIDs: []string{a.ID, b.ID}, PaymentInput: cash("150"),
	})
	require.Error(t, err)

	assert.Empty(t, f.mustInvoice(t, a.ID).Payments)
	assert.True(t, f.mustInvoice(t, a.ID).DueAmount.Equal(dec("100")))
	assert.Nil(t, f.todayRevenue(t))
}

func TestClearWithDiscount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := f.seedCustomer(t, "Ravi", "9876543210")
	inv := f.seedInvoice(t, customer, "275", testNow)
	ledger := f.ledger()

	_, err := ledger.RecordPayment(ctx, &RecordPaymentInput{
		CustomerID: customer.ID, InvoiceIDs: []string{inv.ID}, PaymentInput: cash("200"),
	})
	require.NoError(t, err)
	revenueBefore := *f.todayRevenue(t)

	cleared, err := ledger.ClearWithDiscount(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, cleared.DueAmount.IsZero())

	got := f.mustInvoice(t, inv.ID)
	assert.True(t, got.DueAmount.IsZero())
	assert.True(t, got.PaidAmount.Equal(got.TotalAmount))
	assert.True(t, got.DiscountAmount.Equal(dec("75")))
	assert.True(t, got.ReceivedAmount().Equal(dec("200")))
	require.Len(t, got.Payments, 2)
	last := got.LastPayment()
	assert.Equal(t, enum.PaymentModeDiscount, last.Mode)
	assert.True(t, last.Amount.Equal(dec("75")))

	assert.True(t, f.todayRevenue(t).Equal(revenueBefore))

	_, err = ledger.ClearWithDiscount(ctx, inv.ID)
	assert.True(t, apperror.IsValidation(err))
	assert.Len(t, f.mustInvoice(t, inv.ID).Payments, 2)

	_, err = ledger.ClearWithDiscount(ctx, "missing")
	assert.True(t, apperror.IsNotFound(err))
}

func TestResetTodayRevenue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := f.seedCustomer(t, "Ravi", "9876543210")
	inv := f.seedInvoice(t, customer, "500", testNow)
	ledger := f.ledger()

	_, err := ledger.RecordPayment(ctx, &RecordPaymentInput{
		CustomerID: customer.ID, InvoiceIDs: []string{inv.ID}, PaymentInput: cash("500"),
	})
	require.NoError(t, err)

	_, err = ledger.ResetTodayRevenue(ctx, "1234")
	assert.ErrorIs(t, err, apperror.ErrInvalidResetCode)
	assert.True(t, f.todayRevenue(t).Equal(dec("500")))

	bucket, err := ledger.ResetTodayRevenue(ctx, ResetConfirmationCode)
	require.NoError(t, err)
	assert.True(t, bucket.LastReset.Equal(testNow))

	today, err := ledger.TodayRevenue(ctx)
	require.NoError(t, err)
	assert.True(t, today.TotalAmount.IsZero())
	assert.True(t, today.LastReset.Equal(testNow))

	// invoice balances are a separate ledger
	got := f.mustInvoice(t, inv.ID)
	assert.True(t, got.PaidAmount.Equal(dec("500")))
}

func TestTodayRevenue_EmptyBucket(t *testing.T) {
	f := newFixture(t)

	today, err := f.ledger().TodayRevenue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testToday, today.Date)
	assert.True(t, today.TotalAmount.IsZero())
	assert.Nil(t, f.todayRevenue(t))
}

func TestResetAllInvoices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := f.seedCustomer(t, "Ravi", "9876543210")
	f.seedInvoice(t, customer, "100", testNow)
	require.NoError(t, f.revenue.Put(ctx, &entity.DailyRevenue{Date: "2024-03-01", TotalAmount: dec("10")}))
	ledger := f.ledger()

	err := ledger.ResetAllInvoices(ctx, "0078")
	assert.ErrorIs(t, err, apperror.ErrInvalidResetCode)
	count, err := f.invoices.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, ledger.ResetAllInvoices(ctx, ResetConfirmationCode))

	count, err = f.invoices.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	count, err = f.customers.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	count, err = f.revenue.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestResetTotalRevenue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := f.seedCustomer(t, "Ravi", "9876543210")
	a := f.seedInvoice(t, customer, "100", testNow)
	b := f.seedInvoice(t, customer, "80", testNow)
	ledger := f.ledger()

	_, err := ledger.RecordPayment(ctx, &RecordPaymentInput{
		CustomerID: customer.ID, InvoiceIDs: []string{a.ID, b.ID}, PaymentInput: cash("130"),
	})
	require.NoError(t, err)
	_, err = ledger.ClearWithDiscount(ctx, b.ID)
	require.NoError(t, err)

	_, err = ledger.ResetTotalRevenue(ctx, "")
	assert.ErrorIs(t, err, apperror.ErrInvalidResetCode)
	assert.True(t, f.mustInvoice(t, a.ID).DueAmount.IsZero())

	count, err := ledger.ResetTotalRevenue(ctx, ResetConfirmationCode)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	for _, id := range []string{a.ID, b.ID} {
		got := f.mustInvoice(t, id)
		assert.True(t, got.PaidAmount.IsZero())
		assert.True(t, got.DiscountAmount.IsZero())
		assert.True(t, got.DueAmount.Equal(got.TotalAmount))
		assert.NotEmpty(t, got.Payments, "history is kept")
	}
}

func TestCustomerSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := f.seedCustomer(t, "Ravi", "9876543210")
	older := f.seedInvoice(t, customer, "100", testNow.AddDate(0, 0, -2))
	newer := f.seedInvoice(t, customer, "300", testNow.AddDate(0, 0, -1))
	paidOff := f.seedInvoice(t, customer, "50", testNow)
	ledger := f.ledger()

	_, err := ledger.RecordPayment(ctx, &RecordPaymentInput{
		CustomerID: customer.ID, InvoiceIDs: []string{paidOff.ID, older.ID}, PaymentInput: cash("80"),
	})
	require.NoError(t, err)
	_, err = ledger.ClearWithDiscount(ctx, older.ID)
	require.NoError(t, err)

	summary, err := ledger.CustomerSummary(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, summary.Invoices, 3)
	assert.Equal(t, paidOff.ID, summary.Invoices[0].ID)
	assert.Equal(t, older.ID, summary.Invoices[2].ID)

	assert.True(t, summary.TotalAmount.Equal(dec("450")))
	assert.True(t, summary.TotalPaid.Equal(dec("80")))
	assert.True(t, summary.TotalDiscount.Equal(dec("70")))
	assert.True(t, summary.TotalDue.Equal(dec("300")))
	require.Len(t, summary.PendingInvoices, 1)
	assert.Equal(t, newer.ID, summary.PendingInvoices[0].ID)

	_, err = ledger.CustomerSummary(ctx, "missing")
	assert.True(t, apperror.IsNotFound(err))
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []string{"b", "a", "c"}, uniqueIDs([]string{"b", "a", " b ", "", "c", "a"}))
	assert.Empty(t, uniqueIDs(nil))
}

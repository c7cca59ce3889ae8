package dashboard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finflow/internal/dashboard"
	"github.com/MrJamesThe3rd/finflow/internal/ledger"
)

var base = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func entry(amount int64, minutes int, party string, dir ledger.Direction) ledger.Entry {
	return ledger.Entry{
		ID:        uuid.New(),
		Party:     party,
		Amount:    amount,
		Direction: dir,
		CreatedAt: base.Add(time.Duration(minutes) * time.Minute),
	}
}

func cheque(amount int64, minutes int, bank string) *ledger.Cheque {
	return &ledger.Cheque{Entry: entry(amount, minutes, "Party", ledger.DirectionIncoming), BankName: bank}
}

func transfer(amount int64, minutes int, bank string) *ledger.Digital {
	return &ledger.Digital{Entry: entry(amount, minutes, "Party", ledger.DirectionIncoming), BankName: bank}
}

func cash(amount int64, minutes int) *ledger.Cash {
	return &ledger.Cash{Entry: entry(amount, minutes, "Party", ledger.DirectionIncoming)}
}

func TestSummarize(t *testing.T) {
	t.Run("ChequeTotals", func(t *testing.T) {
		s := dashboard.Summarize(ledger.Set{
			Cheques: []*ledger.Cheque{cheque(100, 1, "SBI"), cheque(200, 2, "SBI"), cheque(300, 3, "HDFC")},
		})

		assert.Equal(t, int64(600), s.ChequeAmount)
		assert.Equal(t, 3, s.ChequeTransactions)
		assert.Equal(t, int64(600), s.TotalInflow)
		assert.Len(t, s.Recent, 3)
	})

	t.Run("InflowIsSumOfKinds", func(t *testing.T) {
		set := ledger.Set{
			Cash:    []*ledger.Cash{cash(50, 1), cash(70, 2)},
			Cheques: []*ledger.Cheque{cheque(1000, 3, "SBI")},
			Digital: []*ledger.Digital{transfer(5, 4, "ICICI")},
		}
		set.Cash[1].Direction = ledger.DirectionOutgoing

		s := dashboard.Summarize(set)
		assert.Equal(t, s.CashAmount+s.ChequeAmount+s.DigitalAmount, s.TotalInflow)
		assert.Equal(t, int64(1125), s.TotalInflow)
		assert.Equal(t, 2, s.CashTransactions)
		assert.Equal(t, 1, s.DigitalTransactions)
	})

	t.Run("RecentFiveNewestFirst", func(t *testing.T) {
		set := ledger.Set{
			Cash:    []*ledger.Cash{cash(1, 10), cash(1, 1)},
			Cheques: []*ledger.Cheque{cheque(1, 30, "SBI"), cheque(1, 2, "SBI")},
			Digital: []*ledger.Digital{transfer(1, 20, "SBI"), transfer(1, 40, "SBI"), transfer(1, 3, "SBI")},
		}

		s := dashboard.Summarize(set)
		require.Len(t, s.Recent, dashboard.RecentLimit)

		var got []time.Time
		for _, r := range s.Recent {
			got = append(got, r.Common().CreatedAt)
		}

		assert.Equal(t, []time.Time{
			base.Add(40 * time.Minute),
			base.Add(30 * time.Minute),
			base.Add(20 * time.Minute),
			base.Add(10 * time.Minute),
			base.Add(3 * time.Minute),
		}, got)
	})

	t.Run("Empty", func(t *testing.T) {
		s := dashboard.Summarize(ledger.Set{})
		assert.Equal(t, dashboard.Zero(), s)
		assert.NotNil(t, s.Recent)
	})
}

func TestBankDistribution(t *testing.T) {
	tests := []struct {
		name string
		set  ledger.Set
		want []dashboard.BankTotal
	}{
		{
			name: "GroupsByTrimmedName",
			set: ledger.Set{
				Cheques: []*ledger.Cheque{cheque(100, 1, "SBI "), cheque(50, 2, "HDFC")},
				Digital: []*ledger.Digital{transfer(25, 3, " SBI"), transfer(10, 4, "ICICI")},
			},
			want: []dashboard.BankTotal{
				{Name: "SBI", Amount: 125},
				{Name: "HDFC", Amount: 50},
				{Name: "ICICI", Amount: 10},
			},
		},
		{
			name: "BlankIsOthers",
			set: ledger.Set{
				Cheques: []*ledger.Cheque{cheque(7, 1, "  ")},
				Digital: []*ledger.Digital{transfer(3, 2, "")},
			},
			want: []dashboard.BankTotal{{Name: "Others", Amount: 10}},
		},
		{
			name: "CashBucketLast",
			set: ledger.Set{
				Cash:    []*ledger.Cash{cash(40, 1), cash(60, 2)},
				Digital: []*ledger.Digital{transfer(5, 3, "Axis")},
			},
			want: []dashboard.BankTotal{
				{Name: "Axis", Amount: 5},
				{Name: "Cash", Amount: 100},
			},
		},
		{
			name: "BankNamedCashMerges",
			set: ledger.Set{
				Cash:    []*ledger.Cash{cash(40, 1)},
				Cheques: []*ledger.Cheque{cheque(9, 2, "Cash")},
			},
			want: []dashboard.BankTotal{{Name: "Cash", Amount: 49}},
		},
		{
			name: "NoCashNoBucket",
			set:  ledger.Set{},
			want: []dashboard.BankTotal{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dashboard.BankDistribution(tt.set)
			assert.Equal(t, tt.want, got)

			var total int64
			for _, b := range got {
				total += b.Amount
			}

			assert.Equal(t, dashboard.Summarize(tt.set).TotalInflow, total)
		})
	}
}

func TestPartyTotals(t *testing.T) {
	in := &ledger.Cash{Entry: entry(500, 1, "Verma", ledger.DirectionIncoming)}
	out := &ledger.Cheque{Entry: entry(200, 2, " Verma ", ledger.DirectionOutgoing)}
	other := &ledger.Digital{Entry: entry(10, 3, "Agarwal", ledger.DirectionOutgoing)}

	got := dashboard.PartyTotals(ledger.Set{Cash: []*ledger.Cash{in}, Cheques: []*ledger.Cheque{out}, Digital: []*ledger.Digital{other}})

	require.Len(t, got, 2)
	assert.Equal(t, dashboard.PartyTotal{Party: "Agarwal", Outgoing: 10}, got[0])
	assert.Equal(t, dashboard.PartyTotal{Party: "Verma", Incoming: 500, Outgoing: 200}, got[1])
	assert.Equal(t, int64(300), got[1].Net())
}

type cashBook struct {
	rows   []*ledger.Cash
	filter *ledger.Filter
}

func (b *cashBook) List(_ context.Context, f ledger.Filter) ([]*ledger.Cash, error) {
	b.filter = &f
	return b.rows, nil
}

type chequeBook struct {
	rows []*ledger.Cheque
	err  error
}

func (b chequeBook) List(context.Context, ledger.Filter) ([]*ledger.Cheque, error) {
	return b.rows, b.err
}

type digitalBook []*ledger.Digital

func (b digitalBook) List(context.Context, ledger.Filter) ([]*ledger.Digital, error) { return b, nil }

func TestService_Summary(t *testing.T) {
	userID := uuid.New()
	now := func() time.Time { return time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC) }

	t.Run("FiltersCurrentYear", func(t *testing.T) {
		cb := &cashBook{rows: []*ledger.Cash{cash(10, 1)}}
		books := ledger.Books{
			Cash:    cb,
			Cheques: chequeBook{rows: []*ledger.Cheque{cheque(100, 2, "SBI"), cheque(200, 3, "SBI"), cheque(300, 4, "SBI")}},
			Digital: digitalBook{},
		}

		s, err := dashboard.NewService(books).WithClock(now).Summary(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, int64(600), s.ChequeAmount)
		assert.Equal(t, 3, s.ChequeTransactions)
		assert.Equal(t, int64(610), s.TotalInflow)

		require.NotNil(t, cb.filter)
		assert.Equal(t, userID, cb.filter.UserID)
		require.NotNil(t, cb.filter.FinancialYear)
		assert.Equal(t, ledger.FinancialYear("2025-2026"), *cb.filter.FinancialYear)
	})

	t.Run("FetchErrorYieldsZero", func(t *testing.T) {
		books := ledger.Books{
			Cash:    &cashBook{rows: []*ledger.Cash{cash(10, 1)}},
			Cheques: chequeBook{err: errors.New("connection refused")},
			Digital: digitalBook{},
		}

		svc := dashboard.NewService(books).WithClock(now)

		s, err := svc.Summary(context.Background(), userID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
		assert.Equal(t, dashboard.Zero(), s)

		banks, err := svc.Banks(context.Background(), userID)
		require.Error(t, err)
		assert.Empty(t, banks)
	})
}

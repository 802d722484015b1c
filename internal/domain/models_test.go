package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantage-crm/sales-engine/internal/domain"
)

func TestLineItem_Total(t *testing.T) {
	t.Run("plain line", func(t *testing.T) {
		li := domain.LineItem{Quantity: 3, UnitPrice: 100}
		assert.Equal(t, 300.0, li.Total())
	})

	t.Run("discounted line", func(t *testing.T) {
		li := domain.LineItem{Quantity: 2, UnitPrice: 500, DiscountPercent: 10}
		assert.Equal(t, 900.0, li.Total())
	})

	t.Run("full discount", func(t *testing.T) {
		li := domain.LineItem{Quantity: 5, UnitPrice: 80, DiscountPercent: 100}
		assert.Equal(t, 0.0, li.Total())
	})

	t.Run("zero quantity", func(t *testing.T) {
		li := domain.LineItem{Quantity: 0, UnitPrice: 80}
		assert.Equal(t, 0.0, li.Total())
	})
}

func TestSumLineTotals_IgnoresStoredTotals(t *testing.T) {
	lines := []domain.LineItem{
		{Quantity: 1, UnitPrice: 100, TotalPrice: 9999}, // stale stored total
		{Quantity: 2, UnitPrice: 50},
	}
	assert.Equal(t, 200.0, domain.SumLineTotals(lines))
}

func TestCloneLineItems(t *testing.T) {
	source := []domain.LineItem{
		{ProductCode: "A-100", Quantity: 4, UnitPrice: 25},
		{ProductCode: "B-200", Quantity: 1, UnitPrice: 300, DiscountPercent: 50, TotalPrice: 1}, // stale
	}

	cloned := domain.CloneLineItems(source)
	require.Len(t, cloned, 2)

	t.Run("stored totals refreshed", func(t *testing.T) {
		assert.Equal(t, 100.0, cloned[0].TotalPrice)
		assert.Equal(t, 150.0, cloned[1].TotalPrice)
	})

	t.Run("mutating the clone leaves the source untouched", func(t *testing.T) {
		cloned[0].Quantity = 99
		cloned[1].ProductCode = "CHANGED"

		assert.Equal(t, 4.0, source[0].Quantity)
		assert.Equal(t, "B-200", source[1].ProductCode)
	})
}

func TestDeriveInvoiceStatus(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 0, 30)
	past := now.AddDate(0, 0, -3)

	tests := []struct {
		name   string
		amount float64
		paid   float64
		due    time.Time
		want   domain.InvoiceStatus
	}{
		{"fully paid", 1000, 1000, future, domain.InvoiceStatusPaid},
		{"overpaid still paid", 1000, 1200, future, domain.InvoiceStatusPaid},
		{"paid overrides overdue", 1000, 1000, past, domain.InvoiceStatusPaid},
		{"partial", 1000, 400, future, domain.InvoiceStatusPartial},
		{"partial overrides overdue", 1000, 400, past, domain.InvoiceStatusPartial},
		{"unpaid before due date", 1000, 0, future, domain.InvoiceStatusUnpaid},
		{"unpaid on due date", 1000, 0, now, domain.InvoiceStatusUnpaid},
		{"overdue", 1000, 0, past, domain.InvoiceStatusOverdue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &domain.Invoice{Amount: tt.amount, PaidAmount: tt.paid, DueDate: tt.due}
			got := domain.DeriveInvoiceStatus(inv, now)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsValid())
		})
	}
}

func TestDeriveInvoiceStatus_Total(t *testing.T) {
	// Every (amount, paid in [0, amount], due, now) combination yields
	// exactly one declared status
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	amounts := []float64{1, 100, 100000}
	fractions := []float64{0, 0.01, 0.5, 0.99, 1}
	dues := []time.Time{now.AddDate(0, 0, -365), now.AddDate(0, 0, -1), now, now.AddDate(0, 0, 1), now.AddDate(1, 0, 0)}

	for _, amount := range amounts {
		for _, f := range fractions {
			for _, due := range dues {
				inv := &domain.Invoice{Amount: amount, PaidAmount: amount * f, DueDate: due}
				assert.True(t, domain.DeriveInvoiceStatus(inv, now).IsValid())
			}
		}
	}
}

func TestLogisticsStatus_Rank(t *testing.T) {
	t.Run("progression is strictly increasing", func(t *testing.T) {
		for i := 1; i < len(domain.LogisticsOrder); i++ {
			assert.Greater(t, domain.LogisticsOrder[i].Rank(), domain.LogisticsOrder[i-1].Rank())
		}
	})

	t.Run("unknown value has no rank", func(t *testing.T) {
		assert.Equal(t, -1, domain.LogisticsStatus("TELEPORTED").Rank())
		assert.False(t, domain.LogisticsStatus("TELEPORTED").IsValid())
	})
}

func TestStageProbabilities(t *testing.T) {
	assert.Equal(t, 10, domain.StageProbabilities[domain.StageQualification])
	assert.Equal(t, 25, domain.StageProbabilities[domain.StageNeedsAnalysis])
	assert.Equal(t, 50, domain.StageProbabilities[domain.StageProposal])
	assert.Equal(t, 75, domain.StageProbabilities[domain.StageNegotiation])
	assert.Equal(t, 100, domain.StageProbabilities[domain.StageClosedWon])
	assert.Equal(t, 0, domain.StageProbabilities[domain.StageClosedLost])

	// every stage in the canonical order has a probability and vice versa
	assert.Len(t, domain.StageProbabilities, len(domain.StageOrder))
	for _, stage := range domain.StageOrder {
		assert.True(t, stage.IsValid())
	}
}

func TestOpportunity_WeightedAmount(t *testing.T) {
	opp := &domain.Opportunity{Amount: 50000, Probability: 80}
	assert.Equal(t, 40000.0, opp.WeightedAmount())
}

func TestContact_FullName(t *testing.T) {
	assert.Equal(t, "Ana Torres", (&domain.Contact{FirstName: "Ana", LastName: "Torres"}).FullName())
	assert.Equal(t, "Ana", (&domain.Contact{FirstName: "Ana"}).FullName())
}

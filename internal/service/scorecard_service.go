package service

import (
	"sort"

	"go.uber.org/zap"

	"github.com/vantage-crm/sales-engine/internal/domain"
)

// ScorecardInput is the snapshot a scorecard is computed over. The sellers
// slice defines the headcount: a seller with zero documents in the period
// still gets an all-zero row.
type ScorecardInput struct {
	Sellers  []domain.Seller
	Quotes   []domain.Quote
	Orders   []domain.Order
	Invoices []domain.Invoice
}

// ScorecardService computes per-seller conversion and collection metrics
// over a period. Read-only over caller-supplied snapshots.
type ScorecardService struct {
	logger *zap.Logger
}

// NewScorecardService creates a scorecard engine
func NewScorecardService(logger *zap.Logger) *ScorecardService {
	return &ScorecardService{logger: logger}
}

// Compute builds one scorecard per seller for the period, ranked descending
// by invoiced total (rank 1 = top performer). Documents belonging to sellers
// outside the roster are ignored; unassigned documents are the alert
// engine's concern.
func (s *ScorecardService) Compute(in ScorecardInput, period domain.Period) ([]domain.SellerScorecard, error) {
	if period.To.Before(period.From) {
		return nil, &domain.ValidationError{Field: "period", Message: "period end precedes its start"}
	}

	cards := make(map[string]*domain.SellerScorecard, len(in.Sellers))
	order := make([]string, 0, len(in.Sellers))
	for _, seller := range in.Sellers {
		if _, ok := cards[seller.ID]; ok {
			continue
		}
		cards[seller.ID] = &domain.SellerScorecard{SellerID: seller.ID, SellerName: seller.Name}
		order = append(order, seller.ID)
	}

	for i := range in.Quotes {
		q := &in.Quotes[i]
		card, ok := cards[q.SellerID]
		if !ok || !period.Contains(q.CreatedAt) {
			continue
		}
		card.QuotesCount++
		card.QuotesTotal += q.TotalAmount
	}

	for i := range in.Orders {
		o := &in.Orders[i]
		card, ok := cards[o.SellerID]
		if !ok || !period.Contains(o.CreatedAt) {
			continue
		}
		card.OrdersCount++
		card.OrdersTotal += o.TotalAmount
	}

	for i := range in.Invoices {
		inv := &in.Invoices[i]
		card, ok := cards[inv.SellerID]
		if !ok || !period.Contains(inv.IssuedAt) {
			continue
		}
		card.InvoicesCount++
		card.InvoicesTotal += inv.Amount
		card.PaidTotal += inv.PaidAmount
	}

	result := make([]domain.SellerScorecard, 0, len(order))
	for _, id := range order {
		card := cards[id]
		if card.InvoicesCount > 0 {
			card.AvgTicket = card.InvoicesTotal / float64(card.InvoicesCount)
		}
		if card.QuotesCount > 0 {
			card.ConversionRate = float64(card.OrdersCount) / float64(card.QuotesCount) * 100
		}
		if card.InvoicesTotal > 0 {
			card.CollectionRate = card.PaidTotal / card.InvoicesTotal * 100
		}
		result = append(result, *card)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].InvoicesTotal > result[j].InvoicesTotal
	})
	for i := range result {
		result[i].Rank = i + 1
	}

	s.logger.Debug("scorecard computed",
		zap.Int("sellers", len(result)),
		zap.Time("from", period.From),
		zap.Time("to", period.To))

	return result, nil
}

package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vantage-crm/sales-engine/internal/config"
	"github.com/vantage-crm/sales-engine/internal/domain"
	"github.com/vantage-crm/sales-engine/internal/guard"
)

// OrderLookup is the persistence collaborator the converter uses to inspect
// the orders already copied from a quote
type OrderLookup interface {
	ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]domain.Order, error)
}

// QuoteConverter copies accepted or pending quotes into orders while
// preserving line items and provenance
type QuoteConverter struct {
	guard    guard.Guard
	orders   OrderLookup
	clock    domain.Clock
	cfg      config.PipelineConfig
	validate *validator.Validate
	logger   *zap.Logger
}

// NewQuoteConverter creates a quote-to-order converter. orders may be nil
// when the caller cannot resolve linked orders; the terminal-supersession
// check is then skipped.
func NewQuoteConverter(g guard.Guard, orders OrderLookup, clock domain.Clock, cfg config.PipelineConfig, logger *zap.Logger) *QuoteConverter {
	return &QuoteConverter{
		guard:    g,
		orders:   orders,
		clock:    clock,
		cfg:      cfg,
		validate: newValidator(),
		logger:   logger,
	}
}

// Every stored quote status may be copied; repeat copies are allowed. The
// only rejection is a quote already superseded by a delivered order.
var copyableQuoteStatuses = []string{
	string(domain.QuoteStatusDraft),
	string(domain.QuoteStatusSent),
	string(domain.QuoteStatusAccepted),
}

// CopyToOrder creates a new order from the quote. The order's lines are a
// deep copy of the quote's (mutation isolation) and its total is recomputed
// from the copied lines rather than carried over, so stale stored totals
// never drift into the order. The quote gains a weak link to the order and
// the order points back at the quote. The quote's own status is left
// unchanged; the guard serves to serialize copies of one quote and to
// reject a status outside the declared enum.
func (s *QuoteConverter) CopyToOrder(ctx context.Context, quote *domain.Quote) (*domain.Order, error) {
	if quote == nil {
		return nil, &domain.ValidationError{Field: "quote", Message: "quote is required"}
	}

	var order *domain.Order
	err := s.guard.TryConvert(ctx, quote, copyableQuoteStatuses, string(quote.Status),
		func() error {
			for _, li := range quote.Lines {
				if err := checkStruct(s.validate, li); err != nil {
					return err
				}
			}
			if err := s.checkNotSuperseded(ctx, quote); err != nil {
				return err
			}

			now := s.clock.Now()
			quoteID := quote.ID

			currency := quote.Currency
			if currency == "" {
				currency = s.cfg.DefaultCurrency
			}

			lines := domain.CloneLineItems(quote.Lines)
			order = &domain.Order{
				BaseModel:       domain.BaseModel{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
				SellerID:        quote.SellerID,
				Currency:        currency,
				Lines:           lines,
				TotalAmount:     domain.SumLineTotals(lines),
				Status:          domain.OrderStatusOpen,
				LogisticsStatus: domain.LogisticsProcessing,
				QuoteID:         &quoteID,
			}

			quote.LinkedOrderIDs = append(quote.LinkedOrderIDs, order.ID)
			quote.UpdatedAt = now
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("quote copy rejected: %w", err)
	}

	s.logger.Info("quote copied to order",
		zap.String("quote_id", quote.ID.String()),
		zap.String("order_id", order.ID.String()),
		zap.Float64("total", order.TotalAmount))

	return order, nil
}

// checkNotSuperseded rejects copying an accepted quote that already produced
// a delivered order; that business path is closed for good
func (s *QuoteConverter) checkNotSuperseded(ctx context.Context, quote *domain.Quote) error {
	if quote.Status != domain.QuoteStatusAccepted || s.orders == nil {
		return nil
	}

	linked, err := s.orders.ListByQuote(ctx, quote.ID)
	if err != nil {
		return fmt.Errorf("failed to resolve linked orders: %w", err)
	}

	for _, o := range linked {
		if o.LogisticsStatus == domain.LogisticsDelivered {
			return &domain.ConflictError{
				Kind:    quote.EntityKind(),
				ID:      quote.ID,
				Status:  string(quote.Status),
				Allowed: []string{string(domain.QuoteStatusDraft), string(domain.QuoteStatusSent)},
			}
		}
	}
	return nil
}

package service

import (
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vantage-crm/sales-engine/internal/config"
	"github.com/vantage-crm/sales-engine/internal/domain"
)

// AlertService scans quote and invoice snapshots for SLA-relevant
// conditions. Pure filters plus a derived field; no mutation.
type AlertService struct {
	clock  domain.Clock
	cfg    config.AlertsConfig
	logger *zap.Logger
}

// NewAlertService creates an alert engine
func NewAlertService(clock domain.Clock, cfg config.AlertsConfig, logger *zap.Logger) *AlertService {
	if cfg.QuoteExpiryWindowDays <= 0 {
		cfg.QuoteExpiryWindowDays = 7
	}
	return &AlertService{clock: clock, cfg: cfg, logger: logger}
}

// ExpiringQuotes returns pending (draft or sent) quotes whose expiration
// date falls within the alert window, soonest first. The window is inclusive
// at both ends: a quote expiring in exactly window days still alerts.
func (s *AlertService) ExpiringQuotes(quotes []domain.Quote) []domain.ExpiringQuoteAlert {
	now := s.clock.Now()
	alerts := make([]domain.ExpiringQuoteAlert, 0)

	for i := range quotes {
		q := &quotes[i]
		if q.Status != domain.QuoteStatusDraft && q.Status != domain.QuoteStatusSent {
			continue
		}

		days := wholeDays(q.ExpirationDate.Sub(now))
		if days < 0 || days > s.cfg.QuoteExpiryWindowDays {
			continue
		}
		alerts = append(alerts, domain.ExpiringQuoteAlert{Quote: *q, DaysUntilExpiry: days})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].DaysUntilExpiry < alerts[j].DaysUntilExpiry
	})
	return alerts
}

// OverdueInvoices returns invoices whose derived status is OVERDUE, most
// overdue first, each carrying how many whole days past due it is
func (s *AlertService) OverdueInvoices(invoices []domain.Invoice) []domain.OverdueInvoiceAlert {
	now := s.clock.Now()
	alerts := make([]domain.OverdueInvoiceAlert, 0)

	for i := range invoices {
		inv := &invoices[i]
		if domain.DeriveInvoiceStatus(inv, now) != domain.InvoiceStatusOverdue {
			continue
		}
		alerts = append(alerts, domain.OverdueInvoiceAlert{
			Invoice:     *inv,
			DaysOverdue: wholeDays(now.Sub(inv.DueDate)),
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].DaysOverdue > alerts[j].DaysOverdue
	})
	return alerts
}

// UnassignedQuotes returns quotes with no resolvable seller. When a roster
// is supplied, a seller id not present in it counts as unresolvable.
func (s *AlertService) UnassignedQuotes(quotes []domain.Quote, roster []domain.Seller) []domain.UnassignedQuoteAlert {
	known := make(map[string]bool, len(roster))
	for _, seller := range roster {
		known[seller.ID] = true
	}

	alerts := make([]domain.UnassignedQuoteAlert, 0)
	for i := range quotes {
		q := &quotes[i]
		id := strings.TrimSpace(q.SellerID)
		if id != "" && (roster == nil || known[id]) {
			continue
		}
		alerts = append(alerts, domain.UnassignedQuoteAlert{Quote: *q})
	}

	if len(alerts) > 0 {
		s.logger.Debug("unassigned quotes found", zap.Int("count", len(alerts)))
	}
	return alerts
}

// wholeDays floors a duration to whole days so that partial days never round
// an expired document back inside the window
func wholeDays(d time.Duration) int {
	return int(math.Floor(d.Hours() / 24))
}

package service

import (
	"go.uber.org/zap"

	"github.com/vantage-crm/sales-engine/internal/config"
	"github.com/vantage-crm/sales-engine/internal/domain"
	"github.com/vantage-crm/sales-engine/internal/guard"
)

// Engine bundles the core components, wired from one configuration. The API
// layer embedding the engine constructs it once at startup and calls the
// component it needs per request.
type Engine struct {
	Status     *StatusEngine
	Leads      *LeadQualifier
	Quotes     *QuoteConverter
	Forecast   *ForecastService
	Scorecards *ScorecardService
	Alerts     *AlertService
}

// NewEngine wires the components. A nil guard defaults to the in-process
// keyed mutex guard, a nil clock to the wall clock, a nil logger to a nop
// logger; orders may be nil when linked orders cannot be resolved.
func NewEngine(cfg *config.Config, g guard.Guard, orders OrderLookup, clock domain.Clock, logger *zap.Logger) *Engine {
	if g == nil {
		g = guard.NewKeyed()
	}
	if clock == nil {
		clock = domain.SystemClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		Status:     NewStatusEngine(logger),
		Leads:      NewLeadQualifier(g, clock, logger),
		Quotes:     NewQuoteConverter(g, orders, clock, cfg.Pipeline, logger),
		Forecast:   NewForecastService(logger),
		Scorecards: NewScorecardService(logger),
		Alerts:     NewAlertService(clock, cfg.Alerts, logger),
	}
}

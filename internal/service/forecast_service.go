package service

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/vantage-crm/sales-engine/internal/domain"
)

// ForecastService computes pipeline totals and breakdowns over
// caller-supplied opportunity snapshots. Read-only; callers must pass
// snapshots no other goroutine is mutating.
type ForecastService struct {
	logger *zap.Logger
}

// NewForecastService creates a forecast aggregator
func NewForecastService(logger *zap.Logger) *ForecastService {
	return &ForecastService{logger: logger}
}

// Pipeline aggregates the open (non-closed) opportunity set: total and
// probability-weighted pipeline, per-stage and per-close-month breakdowns,
// and average deal size. Closed opportunities in the input are skipped; they
// belong to History.
func (s *ForecastService) Pipeline(open []domain.Opportunity) (*domain.PipelineForecast, error) {
	forecast := &domain.PipelineForecast{
		ByStage: make([]domain.StageBreakdown, 0),
		ByMonth: make([]domain.MonthBreakdown, 0),
	}

	byStage := make(map[domain.OpportunityStage]*domain.StageBreakdown)
	byMonth := make(map[string]*domain.MonthBreakdown)

	for i := range open {
		opp := &open[i]
		if !opp.Stage.IsValid() {
			return nil, &domain.UnknownStatusError{DocumentType: domain.DocumentOpportunity, Status: string(opp.Stage)}
		}
		if opp.Probability < 0 || opp.Probability > 100 {
			return nil, &domain.ValidationError{Field: "Probability", Message: "must be between 0 and 100"}
		}
		if opp.IsClosed || opp.Stage.IsClosedStage() {
			continue
		}

		weighted := opp.WeightedAmount()
		forecast.OpenCount++
		forecast.TotalPipeline += opp.Amount
		forecast.WeightedPipeline += weighted

		sb, ok := byStage[opp.Stage]
		if !ok {
			sb = &domain.StageBreakdown{Stage: opp.Stage}
			byStage[opp.Stage] = sb
		}
		sb.Count++
		sb.Value += opp.Amount
		sb.Weighted += weighted

		month := opp.CloseDate.Format("2006-01")
		mb, ok := byMonth[month]
		if !ok {
			mb = &domain.MonthBreakdown{Month: month}
			byMonth[month] = mb
		}
		mb.Count++
		mb.Value += opp.Amount
		mb.Weighted += weighted
	}

	// Weighted pipeline keeps full precision; the rounded figure is for
	// display only
	forecast.WeightedPipelineRounded = int64(math.Round(forecast.WeightedPipeline))

	if forecast.OpenCount > 0 {
		forecast.AvgDealSize = forecast.TotalPipeline / float64(forecast.OpenCount)
	}

	// Stages in canonical pipeline order
	for _, stage := range domain.StageOrder {
		if sb, ok := byStage[stage]; ok {
			forecast.ByStage = append(forecast.ByStage, *sb)
		}
	}

	// Months chronologically ascending, sparse: empty months are omitted
	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)
	for _, m := range months {
		forecast.ByMonth = append(forecast.ByMonth, *byMonth[m])
	}

	return forecast, nil
}

// History aggregates the closed population: win rate over both outcomes,
// average time to close over won deals only (in days)
func (s *ForecastService) History(closed []domain.Opportunity) (*domain.SalesHistory, error) {
	history := &domain.SalesHistory{}

	var closeDays float64
	var closeSamples int

	for i := range closed {
		opp := &closed[i]
		if !opp.Stage.IsValid() {
			return nil, &domain.UnknownStatusError{DocumentType: domain.DocumentOpportunity, Status: string(opp.Stage)}
		}

		switch opp.Stage {
		case domain.StageClosedWon:
			history.ClosedWonCount++
			if opp.ClosedAt != nil {
				closeDays += opp.ClosedAt.Sub(opp.CreatedAt).Hours() / 24
				closeSamples++
			}
		case domain.StageClosedLost:
			history.ClosedLostCount++
		default:
			// Open deals in the historical set carry no signal here
			s.logger.Debug("skipping open opportunity in closed population",
				zap.String("opportunity_id", opp.ID.String()),
				zap.String("stage", string(opp.Stage)))
		}
	}

	if total := history.ClosedWonCount + history.ClosedLostCount; total > 0 {
		history.WinRate = float64(history.ClosedWonCount) / float64(total) * 100
	}
	if closeSamples > 0 {
		history.AvgCloseTimeDays = closeDays / float64(closeSamples)
	}

	return history, nil
}

package domain

import "time"

// StepState represents the visual state of a progress step
type StepState string

const (
	StepCompleted StepState = "completed"
	StepActive    StepState = "active"
	StepPending   StepState = "pending"
)

// ProgressStep is one entry in a document's derived progress bar
type ProgressStep struct {
	Label string    `json:"label"`
	State StepState `json:"state"`
}

// StageBreakdown aggregates open opportunities for one pipeline stage
type StageBreakdown struct {
	Stage    OpportunityStage `json:"stage"`
	Count    int              `json:"count"`
	Value    float64          `json:"value"`
	Weighted float64          `json:"weighted"`
}

// MonthBreakdown aggregates open opportunities by expected-close month
// (YYYY-MM). Months without opportunities are omitted, not zero-filled.
type MonthBreakdown struct {
	Month    string  `json:"month"`
	Count    int     `json:"count"`
	Value    float64 `json:"value"`
	Weighted float64 `json:"weighted"`
}

// PipelineForecast is the aggregate view over the open pipeline
type PipelineForecast struct {
	OpenCount     int     `json:"openCount"`
	TotalPipeline float64 `json:"totalPipeline"`
	// WeightedPipeline keeps full precision for further aggregation;
	// WeightedPipelineRounded is the display value rounded to the nearest
	// whole unit of currency
	WeightedPipeline        float64          `json:"weightedPipeline"`
	WeightedPipelineRounded int64            `json:"weightedPipelineRounded"`
	AvgDealSize             float64          `json:"avgDealSize"`
	ByStage                 []StageBreakdown `json:"byStage"`
	ByMonth                 []MonthBreakdown `json:"byMonth"`
}

// SalesHistory aggregates the closed (historical) opportunity population
type SalesHistory struct {
	ClosedWonCount  int     `json:"closedWonCount"`
	ClosedLostCount int     `json:"closedLostCount"`
	WinRate         float64 `json:"winRate"`
	// AvgCloseTimeDays is the mean business age of won deals, in days
	AvgCloseTimeDays float64 `json:"avgCloseTimeDays"`
}

// Period is an inclusive date window used by scorecards
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t falls inside the period (inclusive bounds)
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.From) && !t.After(p.To)
}

// SellerScorecard holds per-seller performance metrics for a period
type SellerScorecard struct {
	SellerID       string  `json:"sellerId"`
	SellerName     string  `json:"sellerName"`
	Rank           int     `json:"rank"`
	QuotesCount    int     `json:"quotesCount"`
	QuotesTotal    float64 `json:"quotesTotal"`
	OrdersCount    int     `json:"ordersCount"`
	OrdersTotal    float64 `json:"ordersTotal"`
	InvoicesCount  int     `json:"invoicesCount"`
	InvoicesTotal  float64 `json:"invoicesTotal"`
	PaidTotal      float64 `json:"paidTotal"`
	AvgTicket      float64 `json:"avgTicket"`
	ConversionRate float64 `json:"conversionRate"`
	CollectionRate float64 `json:"collectionRate"`
}

// ExpiringQuoteAlert flags a pending quote close to its expiration date
type ExpiringQuoteAlert struct {
	Quote           Quote `json:"quote"`
	DaysUntilExpiry int   `json:"daysUntilExpiry"`
}

// OverdueInvoiceAlert flags an invoice whose derived status is OVERDUE
type OverdueInvoiceAlert struct {
	Invoice     Invoice `json:"invoice"`
	DaysOverdue int     `json:"daysOverdue"`
}

// UnassignedQuoteAlert flags a quote with no resolvable seller
type UnassignedQuoteAlert struct {
	Quote Quote `json:"quote"`
}

// QualificationResult carries the entities produced by qualifying a lead.
// The caller (API layer) hands them to the persistence collaborator.
type QualificationResult struct {
	Lead        *Lead        `json:"lead"`
	Account     *Account     `json:"account,omitempty"`
	Contact     *Contact     `json:"contact,omitempty"`
	Opportunity *Opportunity `json:"opportunity,omitempty"`
}

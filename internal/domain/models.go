package domain

import (
	"time"

	"github.com/google/uuid"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DocumentType identifies the kind of sales document a status belongs to
type DocumentType string

const (
	DocumentLead        DocumentType = "lead"
	DocumentQuote       DocumentType = "quote"
	DocumentOrder       DocumentType = "order"
	DocumentInvoice     DocumentType = "invoice"
	DocumentOpportunity DocumentType = "opportunity"
	DocumentCase        DocumentType = "case"
)

// LeadStatus represents the qualification state of a lead
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "NEW"
	LeadStatusQualified LeadStatus = "QUALIFIED"
)

// IsValid checks if the LeadStatus is a valid enum value
func (s LeadStatus) IsValid() bool {
	return s == LeadStatusNew || s == LeadStatusQualified
}

// Lead represents an inbound prospect before qualification.
// BANT fields (budget/authority/need/timeframe) are advisory and may be
// empty; a lead becomes immutable once it reaches QUALIFIED.
type Lead struct {
	BaseModel
	Name      string     `json:"name" validate:"required"`
	Company   string     `json:"company"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Source    string     `json:"source,omitempty"`
	Budget    *float64   `json:"budget,omitempty" validate:"omitempty,gte=0"`
	Authority *bool      `json:"authority,omitempty"`
	Need      string     `json:"need,omitempty"`
	Timeframe string     `json:"timeframe,omitempty"`
	Status    LeadStatus `json:"status"`
	OwnerID   string     `json:"ownerId,omitempty"`
	// QualifiedAt is set once when the lead flips to QUALIFIED
	QualifiedAt *time.Time `json:"qualifiedAt,omitempty"`
}

// EntityKind implements Convertible
func (l *Lead) EntityKind() string { return string(DocumentLead) }

// EntityID implements Convertible
func (l *Lead) EntityID() uuid.UUID { return l.ID }

// ConversionStatus implements Convertible
func (l *Lead) ConversionStatus() string { return string(l.Status) }

// SetConversionStatus implements Convertible
func (l *Lead) SetConversionStatus(status string) { l.Status = LeadStatus(status) }

// Account represents an organization created from a qualified lead (or via CRUD)
type Account struct {
	BaseModel
	Name     string `json:"name"`
	Industry string `json:"industry,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	OwnerID  string `json:"ownerId,omitempty"`
	// LeadID records provenance when the account was created by qualification
	LeadID *uuid.UUID `json:"leadId,omitempty"`
}

// Contact represents an individual person under an account
type Contact struct {
	BaseModel
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	AccountID *uuid.UUID `json:"accountId,omitempty"`
	LeadID    *uuid.UUID `json:"leadId,omitempty"`
}

// FullName returns the contact's full name
func (c *Contact) FullName() string {
	if c.FirstName != "" && c.LastName != "" {
		return c.FirstName + " " + c.LastName
	}
	return c.FirstName + c.LastName
}

// OpportunityStage represents the stage of an opportunity in the sales pipeline
type OpportunityStage string

const (
	StageQualification OpportunityStage = "OPPORTUNITY"
	StageNeedsAnalysis OpportunityStage = "NEEDS_ANALYSIS"
	StageProposal      OpportunityStage = "PROPOSAL"
	StageNegotiation   OpportunityStage = "NEGOTIATION"
	StageClosedWon     OpportunityStage = "CLOSED_WON"
	StageClosedLost    OpportunityStage = "CLOSED_LOST"
)

// StageOrder is the canonical pipeline order, used for stable sorting of
// per-stage aggregates
var StageOrder = []OpportunityStage{
	StageQualification,
	StageNeedsAnalysis,
	StageProposal,
	StageNegotiation,
	StageClosedWon,
	StageClosedLost,
}

// StageProbabilities maps each stage to its default win probability.
// A user edit may override the probability on an individual opportunity.
var StageProbabilities = map[OpportunityStage]int{
	StageQualification: 10,
	StageNeedsAnalysis: 25,
	StageProposal:      50,
	StageNegotiation:   75,
	StageClosedWon:     100,
	StageClosedLost:    0,
}

// IsValid checks if the OpportunityStage is a valid enum value
func (s OpportunityStage) IsValid() bool {
	_, ok := StageProbabilities[s]
	return ok
}

// IsClosedStage reports whether the stage is a terminal pipeline stage
func (s OpportunityStage) IsClosedStage() bool {
	return s == StageClosedWon || s == StageClosedLost
}

// Opportunity represents a potential deal in the pipeline
type Opportunity struct {
	BaseModel
	Name        string           `json:"name"`
	AccountID   *uuid.UUID       `json:"accountId,omitempty"`
	ContactID   *uuid.UUID       `json:"contactId,omitempty"`
	LeadID      *uuid.UUID       `json:"leadId,omitempty"`
	Amount      float64          `json:"amount" validate:"gte=0"`
	Stage       OpportunityStage `json:"stage"`
	Probability int              `json:"probability" validate:"gte=0,lte=100"`
	CloseDate   time.Time        `json:"closeDate"`
	IsClosed    bool             `json:"isClosed"`
	IsWon       *bool            `json:"isWon,omitempty"`
	ClosedAt    *time.Time       `json:"closedAt,omitempty"`
	Description string           `json:"description,omitempty"`
	OwnerID     string           `json:"ownerId,omitempty"`
}

// WeightedAmount returns the probability-weighted value of the opportunity
func (o *Opportunity) WeightedAmount() float64 {
	return o.Amount * float64(o.Probability) / 100
}

// QuoteStatus represents the status of a quote
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "DRAFT"
	QuoteStatusSent     QuoteStatus = "SENT"
	QuoteStatusAccepted QuoteStatus = "ACCEPTED"
)

// IsValid checks if the QuoteStatus is a valid enum value
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted:
		return true
	}
	return false
}

// Quote represents a priced proposal sent to an account.
// A quote exclusively owns its line items; orders produced from it receive
// deep copies, never shared slices.
type Quote struct {
	BaseModel
	Number         string      `json:"number,omitempty"`
	AccountID      *uuid.UUID  `json:"accountId,omitempty"`
	SellerID       string      `json:"sellerId,omitempty"`
	Currency       string      `json:"currency,omitempty"`
	Lines          []LineItem  `json:"lines"`
	TotalAmount    float64     `json:"totalAmount"`
	Status         QuoteStatus `json:"status"`
	ExpirationDate time.Time   `json:"expirationDate"`
	// LinkedOrderIDs is a weak, lookup-only relation to orders copied from
	// this quote
	LinkedOrderIDs []uuid.UUID `json:"linkedOrderIds,omitempty"`
}

// EntityKind implements Convertible
func (q *Quote) EntityKind() string { return string(DocumentQuote) }

// EntityID implements Convertible
func (q *Quote) EntityID() uuid.UUID { return q.ID }

// ConversionStatus implements Convertible
func (q *Quote) ConversionStatus() string { return string(q.Status) }

// SetConversionStatus implements Convertible
func (q *Quote) SetConversionStatus(status string) { q.Status = QuoteStatus(status) }

// RecomputeTotal sums the line totals, ignoring the stored TotalAmount
func (q *Quote) RecomputeTotal() float64 {
	return SumLineTotals(q.Lines)
}

// OrderStatus represents the commercial status of an order
type OrderStatus string

const (
	OrderStatusOpen      OrderStatus = "OPEN"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValid checks if the OrderStatus is a valid enum value
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusOpen, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// LogisticsStatus represents the fulfillment sub-state of an order,
// distinct from its commercial status. Transitions are forward-only.
type LogisticsStatus string

const (
	LogisticsProcessing   LogisticsStatus = "PROCESSING"
	LogisticsBilled       LogisticsStatus = "BILLED"
	LogisticsPortDispatch LogisticsStatus = "PORT_DISPATCH"
	LogisticsPortArrival  LogisticsStatus = "PORT_ARRIVAL"
	LogisticsDelivered    LogisticsStatus = "DELIVERED"
)

// LogisticsOrder is the fixed, monotonic progression of fulfillment states
var LogisticsOrder = []LogisticsStatus{
	LogisticsProcessing,
	LogisticsBilled,
	LogisticsPortDispatch,
	LogisticsPortArrival,
	LogisticsDelivered,
}

// Rank returns the position of the status in the logistics progression,
// or -1 for an unknown value
func (s LogisticsStatus) Rank() int {
	for i, st := range LogisticsOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// IsValid checks if the LogisticsStatus is a valid enum value
func (s LogisticsStatus) IsValid() bool { return s.Rank() >= 0 }

// Order represents a confirmed sale, usually copied from an accepted quote
type Order struct {
	BaseModel
	Number   string     `json:"number,omitempty"`
	SellerID string     `json:"sellerId,omitempty"`
	Currency string     `json:"currency,omitempty"`
	Lines    []LineItem `json:"lines"`
	// TotalAmount is recomputed from the lines on creation, not copied
	TotalAmount     float64         `json:"totalAmount"`
	Status          OrderStatus     `json:"status"`
	LogisticsStatus LogisticsStatus `json:"logisticsStatus"`
	// QuoteID is a weak back-reference to the originating quote
	QuoteID          *uuid.UUID  `json:"quoteId,omitempty"`
	LinkedInvoiceIDs []uuid.UUID `json:"linkedInvoiceIds,omitempty"`
}

// RecomputeTotal sums the line totals, ignoring the stored TotalAmount
func (o *Order) RecomputeTotal() float64 {
	return SumLineTotals(o.Lines)
}

// InvoiceStatus represents the derived payment state of an invoice.
// It is never stored independently of (amount, paidAmount, dueDate, now);
// see DeriveInvoiceStatus.
type InvoiceStatus string

const (
	InvoiceStatusUnpaid  InvoiceStatus = "UNPAID"
	InvoiceStatusPartial InvoiceStatus = "PARTIAL"
	InvoiceStatusPaid    InvoiceStatus = "PAID"
	InvoiceStatusOverdue InvoiceStatus = "OVERDUE"
)

// IsValid checks if the InvoiceStatus is a valid enum value
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusUnpaid, InvoiceStatusPartial, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// Invoice represents a bill issued against an order
type Invoice struct {
	BaseModel
	Number     string  `json:"number,omitempty"`
	SellerID   string  `json:"sellerId,omitempty"`
	Currency   string  `json:"currency,omitempty"`
	Amount     float64 `json:"amount" validate:"gte=0"`
	PaidAmount float64 `json:"paidAmount" validate:"gte=0"`
	// IssuedAt anchors the invoice inside a scorecard period
	IssuedAt time.Time `json:"issuedAt"`
	DueDate  time.Time `json:"dueDate"`
	// OrderID is a weak back-reference to the invoiced order
	OrderID *uuid.UUID `json:"orderId,omitempty"`
}

// DeriveInvoiceStatus computes the payment state of an invoice at a point in
// time. Pure and total; must be re-evaluated on every read because "now" is
// an implicit input (recomputation is what turns UNPAID into OVERDUE without
// any write).
func DeriveInvoiceStatus(inv *Invoice, now time.Time) InvoiceStatus {
	switch {
	case inv.PaidAmount >= inv.Amount:
		return InvoiceStatusPaid
	case inv.PaidAmount > 0:
		return InvoiceStatusPartial
	case inv.DueDate.Before(now):
		return InvoiceStatusOverdue
	default:
		return InvoiceStatusUnpaid
	}
}

// CaseStatus represents the status of a support case
type CaseStatus string

const (
	CaseStatusOpen       CaseStatus = "OPEN"
	CaseStatusInProgress CaseStatus = "IN_PROGRESS"
	CaseStatusClosed     CaseStatus = "CLOSED"
)

// IsValid checks if the CaseStatus is a valid enum value
func (s CaseStatus) IsValid() bool {
	switch s {
	case CaseStatusOpen, CaseStatusInProgress, CaseStatusClosed:
		return true
	}
	return false
}

// LineItem represents a priced product line on a quote or order
type LineItem struct {
	ProductCode     string  `json:"productCode" validate:"required"`
	Description     string  `json:"description,omitempty"`
	Quantity        float64 `json:"quantity" validate:"gte=0"`
	UnitPrice       float64 `json:"unitPrice" validate:"gte=0"`
	DiscountPercent float64 `json:"discountPercent" validate:"gte=0,lte=100"`
	TotalPrice      float64 `json:"totalPrice"`
}

// Total computes quantity * unitPrice * (1 - discount/100)
func (li LineItem) Total() float64 {
	return li.Quantity * li.UnitPrice * (1 - li.DiscountPercent/100)
}

// SumLineTotals sums the computed (not stored) totals of a set of lines
func SumLineTotals(lines []LineItem) float64 {
	total := 0.0
	for _, li := range lines {
		total += li.Total()
	}
	return total
}

// CloneLineItems returns a deep copy of the given lines with each stored
// total refreshed from its fields. Mutating the copy never affects the
// source slice.
func CloneLineItems(lines []LineItem) []LineItem {
	cloned := make([]LineItem, len(lines))
	for i, li := range lines {
		cloned[i] = li
		cloned[i].TotalPrice = li.Total()
	}
	return cloned
}

// Seller represents a sales user. Referenced, never owned, by quotes,
// orders, invoices and opportunities.
type Seller struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

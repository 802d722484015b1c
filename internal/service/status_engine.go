package service

import (
	"go.uber.org/zap"

	"github.com/vantage-crm/sales-engine/internal/domain"
)

// stepDef describes one canonical stage of a document lifecycle and the
// statuses that place the document on it
type stepDef struct {
	label    string
	statuses []string
}

// Step tables per document type, in lifecycle order. The tables are data so
// that new document types or stages are additive.
var stepTables = map[domain.DocumentType][]stepDef{
	domain.DocumentLead: {
		{label: "Nuevo", statuses: []string{string(domain.LeadStatusNew)}},
		{label: "Calificado", statuses: []string{string(domain.LeadStatusQualified)}},
	},
	domain.DocumentQuote: {
		{label: "Creada", statuses: []string{string(domain.QuoteStatusDraft)}},
		{label: "Enviada", statuses: []string{string(domain.QuoteStatusSent)}},
		{label: "Aceptada", statuses: []string{string(domain.QuoteStatusAccepted)}},
	},
	domain.DocumentOrder: {
		{label: "Procesando", statuses: []string{string(domain.LogisticsProcessing)}},
		{label: "Facturado", statuses: []string{string(domain.LogisticsBilled)}},
		{label: "Despacho en puerto", statuses: []string{string(domain.LogisticsPortDispatch)}},
		{label: "Arribo a puerto", statuses: []string{string(domain.LogisticsPortArrival)}},
		{label: "Entregado", statuses: []string{string(domain.LogisticsDelivered)}},
	},
	domain.DocumentOpportunity: {
		{label: "Calificación", statuses: []string{string(domain.StageQualification)}},
		{label: "Análisis de necesidades", statuses: []string{string(domain.StageNeedsAnalysis)}},
		{label: "Propuesta", statuses: []string{string(domain.StageProposal)}},
		{label: "Negociación", statuses: []string{string(domain.StageNegotiation)}},
		{label: "Cierre", statuses: []string{string(domain.StageClosedWon), string(domain.StageClosedLost)}},
	},
	domain.DocumentCase: {
		{label: "Abierto", statuses: []string{string(domain.CaseStatusOpen)}},
		{label: "En proceso", statuses: []string{string(domain.CaseStatusInProgress)}},
		{label: "Cerrado", statuses: []string{string(domain.CaseStatusClosed)}},
	},
}

// Terminal statuses complete every stage of their document type
var terminalStatuses = map[domain.DocumentType]map[string]bool{
	domain.DocumentLead:        {string(domain.LeadStatusQualified): true},
	domain.DocumentQuote:       {string(domain.QuoteStatusAccepted): true},
	domain.DocumentOrder:       {string(domain.LogisticsDelivered): true},
	domain.DocumentInvoice:     {string(domain.InvoiceStatusPaid): true},
	domain.DocumentCase:        {string(domain.CaseStatusClosed): true},
	domain.DocumentOpportunity: {string(domain.StageClosedWon): true, string(domain.StageClosedLost): true},
}

// Labels for the payment stage an open invoice sits on, inserted before
// "Pagada"
var invoiceActiveLabels = map[domain.InvoiceStatus]string{
	domain.InvoiceStatusUnpaid:  "Pendiente de pago",
	domain.InvoiceStatusPartial: "Pago parcial",
	domain.InvoiceStatusOverdue: "Vencida",
}

// StatusEngine derives the canonical, UI-agnostic progress steps of a
// document from its stored status. Pure reads; no side effects.
type StatusEngine struct {
	logger *zap.Logger
}

// NewStatusEngine creates a status engine
func NewStatusEngine(logger *zap.Logger) *StatusEngine {
	return &StatusEngine{logger: logger}
}

// Steps maps a document's status to its ordered progress steps. Stages
// strictly before the current one are completed, the current one is active,
// later ones pending; a terminal status completes everything. A status
// outside the declared enum is a defect and yields UnknownStatusError.
func (e *StatusEngine) Steps(docType domain.DocumentType, status string) ([]domain.ProgressStep, error) {
	if docType == domain.DocumentInvoice {
		return e.invoiceSteps(status)
	}

	table, ok := stepTables[docType]
	if !ok {
		return nil, &domain.UnknownStatusError{DocumentType: docType, Status: status}
	}

	current := -1
	for i, def := range table {
		for _, s := range def.statuses {
			if s == status {
				current = i
			}
		}
	}
	if current < 0 {
		return nil, &domain.UnknownStatusError{DocumentType: docType, Status: status}
	}

	terminal := terminalStatuses[docType][status]
	steps := make([]domain.ProgressStep, len(table))
	for i, def := range table {
		steps[i] = domain.ProgressStep{Label: def.label, State: stepState(i, current, terminal)}
	}
	return steps, nil
}

// invoiceSteps builds the invoice progress bar. Open payment statuses insert
// an active stage before "Pagada"; PAID completes the canonical three.
func (e *StatusEngine) invoiceSteps(status string) ([]domain.ProgressStep, error) {
	st := domain.InvoiceStatus(status)
	if !st.IsValid() {
		return nil, &domain.UnknownStatusError{DocumentType: domain.DocumentInvoice, Status: status}
	}

	if st == domain.InvoiceStatusPaid {
		return []domain.ProgressStep{
			{Label: "Emitida", State: domain.StepCompleted},
			{Label: "Enviada", State: domain.StepCompleted},
			{Label: "Pagada", State: domain.StepCompleted},
		}, nil
	}

	return []domain.ProgressStep{
		{Label: "Emitida", State: domain.StepCompleted},
		{Label: "Enviada", State: domain.StepCompleted},
		{Label: invoiceActiveLabels[st], State: domain.StepActive},
		{Label: "Pagada", State: domain.StepPending},
	}, nil
}

// AdvanceLogistics moves an order's fulfillment state forward. Transitions
// only move through the fixed progression; a backward or repeated move is a
// ConflictError and an unknown value an UnknownStatusError.
func (e *StatusEngine) AdvanceLogistics(order *domain.Order, to domain.LogisticsStatus) error {
	fromRank := order.LogisticsStatus.Rank()
	if fromRank < 0 {
		return &domain.UnknownStatusError{DocumentType: domain.DocumentOrder, Status: string(order.LogisticsStatus)}
	}
	toRank := to.Rank()
	if toRank < 0 {
		return &domain.UnknownStatusError{DocumentType: domain.DocumentOrder, Status: string(to)}
	}

	if toRank <= fromRank {
		return &domain.ConflictError{
			Kind:    string(domain.DocumentOrder),
			ID:      order.ID,
			Status:  string(order.LogisticsStatus),
			Allowed: laterStatuses(fromRank),
		}
	}

	e.logger.Debug("advancing order logistics",
		zap.String("order_id", order.ID.String()),
		zap.String("from", string(order.LogisticsStatus)),
		zap.String("to", string(to)))

	order.LogisticsStatus = to
	return nil
}

func laterStatuses(afterRank int) []string {
	var out []string
	for i := afterRank + 1; i < len(domain.LogisticsOrder); i++ {
		out = append(out, string(domain.LogisticsOrder[i]))
	}
	return out
}

func stepState(i, current int, terminal bool) domain.StepState {
	switch {
	case terminal, i < current:
		return domain.StepCompleted
	case i == current:
		return domain.StepActive
	default:
		return domain.StepPending
	}
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vantage-crm/sales-engine/internal/domain"
	"github.com/vantage-crm/sales-engine/internal/guard"
)

// QualifyOptions selects which entities qualification creates from the lead
type QualifyOptions struct {
	CreateAccount     bool `json:"createAccount"`
	CreateContact     bool `json:"createContact"`
	CreateOpportunity bool `json:"createOpportunity"`
}

// LeadQualifier converts qualified leads into linked
// account/contact/opportunity triples. The conversion is guarded: a lead
// qualifies at most once, then its status is immutable.
type LeadQualifier struct {
	guard    guard.Guard
	clock    domain.Clock
	validate *validator.Validate
	logger   *zap.Logger
}

// NewLeadQualifier creates a lead qualifier
func NewLeadQualifier(g guard.Guard, clock domain.Clock, logger *zap.Logger) *LeadQualifier {
	return &LeadQualifier{
		guard:    g,
		clock:    clock,
		validate: newValidator(),
		logger:   logger,
	}
}

// Qualify flips a NEW lead to QUALIFIED and creates the requested entities
// as one atomic unit: validation and construction run inside the guard's
// critical section, and a validation failure rolls the status flip back.
// BANT fields are advisory; they seed the opportunity description but
// qualification never fails because they are empty. A second qualification
// attempt yields ConflictError.
func (s *LeadQualifier) Qualify(ctx context.Context, lead *domain.Lead, opts QualifyOptions) (*domain.QualificationResult, error) {
	if lead == nil {
		return nil, &domain.ValidationError{Field: "lead", Message: "lead is required"}
	}

	var result *domain.QualificationResult
	err := s.guard.TryConvert(ctx, lead,
		[]string{string(domain.LeadStatusNew)}, string(domain.LeadStatusQualified),
		func() error {
			if err := checkStruct(s.validate, lead); err != nil {
				return err
			}

			now := s.clock.Now()
			lead.QualifiedAt = &now
			lead.UpdatedAt = now

			result = &domain.QualificationResult{Lead: lead}
			if opts.CreateAccount {
				result.Account = s.buildAccount(lead, now)
			}
			if opts.CreateContact {
				result.Contact = s.buildContact(lead, result.Account, now)
			}
			if opts.CreateOpportunity {
				result.Opportunity = s.buildOpportunity(lead, result.Account, result.Contact, now)
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("lead qualification rejected: %w", err)
	}

	s.logger.Info("lead qualified",
		zap.String("lead_id", lead.ID.String()),
		zap.Bool("account", result.Account != nil),
		zap.Bool("contact", result.Contact != nil),
		zap.Bool("opportunity", result.Opportunity != nil))

	return result, nil
}

func (s *LeadQualifier) buildAccount(lead *domain.Lead, now time.Time) *domain.Account {
	name := lead.Company
	if name == "" {
		name = lead.Name
	}
	leadID := lead.ID
	return &domain.Account{
		BaseModel: domain.BaseModel{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:      name,
		Email:     lead.Email,
		Phone:     lead.Phone,
		OwnerID:   lead.OwnerID,
		LeadID:    &leadID,
	}
}

func (s *LeadQualifier) buildContact(lead *domain.Lead, account *domain.Account, now time.Time) *domain.Contact {
	first, last := splitName(lead.Name)
	leadID := lead.ID
	contact := &domain.Contact{
		BaseModel: domain.BaseModel{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		FirstName: first,
		LastName:  last,
		Email:     lead.Email,
		Phone:     lead.Phone,
		LeadID:    &leadID,
	}
	if account != nil {
		contact.AccountID = &account.ID
	}
	return contact
}

func (s *LeadQualifier) buildOpportunity(lead *domain.Lead, account *domain.Account, contact *domain.Contact, now time.Time) *domain.Opportunity {
	leadID := lead.ID

	name := lead.Name
	if lead.Company != "" {
		name = lead.Company
	}

	opp := &domain.Opportunity{
		BaseModel:   domain.BaseModel{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:        name,
		LeadID:      &leadID,
		Stage:       domain.StageQualification,
		Probability: domain.StageProbabilities[domain.StageQualification],
		// Expected close defaults a month out; the seller adjusts it as the
		// deal takes shape
		CloseDate:   now.AddDate(0, 1, 0),
		Description: bantNotes(lead),
		OwnerID:     lead.OwnerID,
	}
	if lead.Budget != nil {
		opp.Amount = *lead.Budget
	}
	if account != nil {
		opp.AccountID = &account.ID
	}
	if contact != nil {
		opp.ContactID = &contact.ID
	}
	return opp
}

// bantNotes seeds the opportunity description from whichever BANT fields the
// lead actually carries
func bantNotes(lead *domain.Lead) string {
	var parts []string
	if lead.Budget != nil {
		parts = append(parts, fmt.Sprintf("Presupuesto: %.2f", *lead.Budget))
	}
	if lead.Authority != nil {
		if *lead.Authority {
			parts = append(parts, "Autoridad: sí")
		} else {
			parts = append(parts, "Autoridad: no")
		}
	}
	if lead.Need != "" {
		parts = append(parts, "Necesidad: "+lead.Need)
	}
	if lead.Timeframe != "" {
		parts = append(parts, "Plazo: "+lead.Timeframe)
	}
	return strings.Join(parts, "\n")
}

func splitName(full string) (first, last string) {
	full = strings.TrimSpace(full)
	if i := strings.Index(full, " "); i > 0 {
		return full[:i], strings.TrimSpace(full[i+1:])
	}
	return full, ""
}

package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vantage-crm/sales-engine/internal/domain"
	"github.com/vantage-crm/sales-engine/internal/guard"
	"github.com/vantage-crm/sales-engine/internal/service"
)

var qualifyAll = service.QualifyOptions{CreateAccount: true, CreateContact: true, CreateOpportunity: true}

func newTestLead() *domain.Lead {
	budget := 75000.0
	authority := true
	lead := &domain.Lead{
		Name:      "María González",
		Company:   "Acme Corp",
		Email:     "maria@acme.example",
		Phone:     "555-0101",
		Budget:    &budget,
		Authority: &authority,
		Need:      "Reemplazo de sistema heredado",
		Timeframe: "Q3",
		Status:    domain.LeadStatusNew,
		OwnerID:   "seller-1",
	}
	lead.ID = uuid.New()
	lead.CreatedAt = time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	return lead
}

func newQualifier(clock domain.Clock) *service.LeadQualifier {
	return service.NewLeadQualifier(guard.NewKeyed(), clock, zap.NewNop())
}

func TestLeadQualifier_Qualify(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("creates the full account contact opportunity triple", func(t *testing.T) {
		qualifier := newQualifier(domain.FixedClock(now))
		lead := newTestLead()

		result, err := qualifier.Qualify(ctx, lead, qualifyAll)
		require.NoError(t, err)

		assert.Equal(t, domain.LeadStatusQualified, lead.Status)
		require.NotNil(t, lead.QualifiedAt)
		assert.Equal(t, now, *lead.QualifiedAt)

		require.NotNil(t, result.Account)
		assert.Equal(t, "Acme Corp", result.Account.Name)
		assert.Equal(t, "maria@acme.example", result.Account.Email)
		require.NotNil(t, result.Account.LeadID)
		assert.Equal(t, lead.ID, *result.Account.LeadID)

		require.NotNil(t, result.Contact)
		assert.Equal(t, "María", result.Contact.FirstName)
		assert.Equal(t, "González", result.Contact.LastName)
		require.NotNil(t, result.Contact.AccountID)
		assert.Equal(t, result.Account.ID, *result.Contact.AccountID)

		opp := result.Opportunity
		require.NotNil(t, opp)
		assert.Equal(t, domain.StageQualification, opp.Stage)
		assert.Equal(t, 10, opp.Probability)
		assert.Equal(t, 75000.0, opp.Amount)
		assert.Equal(t, now.AddDate(0, 1, 0), opp.CloseDate)
		assert.Equal(t, result.Account.ID, *opp.AccountID)
		assert.Equal(t, result.Contact.ID, *opp.ContactID)
		assert.Equal(t, lead.ID, *opp.LeadID)
		assert.Equal(t, "seller-1", opp.OwnerID)
		assert.Contains(t, opp.Description, "Presupuesto: 75000.00")
		assert.Contains(t, opp.Description, "Autoridad: sí")
		assert.Contains(t, opp.Description, "Necesidad: Reemplazo de sistema heredado")
		assert.Contains(t, opp.Description, "Plazo: Q3")
	})

	t.Run("options limit what gets created", func(t *testing.T) {
		qualifier := newQualifier(domain.FixedClock(now))
		lead := newTestLead()

		result, err := qualifier.Qualify(ctx, lead, service.QualifyOptions{CreateOpportunity: true})
		require.NoError(t, err)

		assert.Nil(t, result.Account)
		assert.Nil(t, result.Contact)
		require.NotNil(t, result.Opportunity)
		assert.Nil(t, result.Opportunity.AccountID)
		assert.Nil(t, result.Opportunity.ContactID)
	})

	t.Run("empty BANT fields are not an error", func(t *testing.T) {
		qualifier := newQualifier(domain.FixedClock(now))
		lead := &domain.Lead{Name: "Solo", Status: domain.LeadStatusNew}
		lead.ID = uuid.New()

		result, err := qualifier.Qualify(ctx, lead, qualifyAll)
		require.NoError(t, err)

		assert.Equal(t, domain.LeadStatusQualified, lead.Status)
		assert.Equal(t, 0.0, result.Opportunity.Amount)
		assert.Empty(t, result.Opportunity.Description)
		// no company: the account falls back to the lead's name
		assert.Equal(t, "Solo", result.Account.Name)
		// single-word name: everything lands in FirstName
		assert.Equal(t, "Solo", result.Contact.FirstName)
		assert.Empty(t, result.Contact.LastName)
	})

	t.Run("second qualification conflicts", func(t *testing.T) {
		qualifier := newQualifier(domain.FixedClock(now))
		lead := newTestLead()

		_, err := qualifier.Qualify(ctx, lead, qualifyAll)
		require.NoError(t, err)

		_, err = qualifier.Qualify(ctx, lead, qualifyAll)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("negative budget fails validation and rolls the status back", func(t *testing.T) {
		qualifier := newQualifier(domain.FixedClock(now))
		lead := newTestLead()
		bad := -100.0
		lead.Budget = &bad

		_, err := qualifier.Qualify(ctx, lead, qualifyAll)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Equal(t, domain.LeadStatusNew, lead.Status)
		assert.Nil(t, lead.QualifiedAt)

		// fixing the input makes the lead qualifiable again
		lead.Budget = nil
		_, err = qualifier.Qualify(ctx, lead, qualifyAll)
		require.NoError(t, err)
	})

	t.Run("nameless lead fails validation", func(t *testing.T) {
		qualifier := newQualifier(domain.FixedClock(now))
		lead := &domain.Lead{Status: domain.LeadStatusNew}
		lead.ID = uuid.New()

		_, err := qualifier.Qualify(ctx, lead, qualifyAll)
		require.Error(t, err)

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "Name", verr.Field)
		assert.Equal(t, domain.LeadStatusNew, lead.Status)
	})

	t.Run("nil lead is rejected", func(t *testing.T) {
		qualifier := newQualifier(domain.FixedClock(now))
		_, err := qualifier.Qualify(ctx, nil, qualifyAll)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestLeadQualifier_ConcurrentQualify(t *testing.T) {
	// Two racing qualifications of one lead: exactly one wins, the loser
	// gets a conflict and no second entity set exists
	ctx := context.Background()
	qualifier := newQualifier(domain.FixedClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)))
	lead := newTestLead()

	type outcome struct {
		result *domain.QualificationResult
		err    error
	}

	var wg sync.WaitGroup
	outcomes := make([]outcome, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := qualifier.Qualify(ctx, lead, qualifyAll)
			outcomes[i] = outcome{result: res, err: err}
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, o := range outcomes {
		switch {
		case o.err == nil:
			successes++
			assert.NotNil(t, o.result.Opportunity)
		case errors.Is(o.err, domain.ErrConflict):
			conflicts++
			assert.Nil(t, o.result)
		default:
			t.Fatalf("unexpected error: %v", o.err)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
	assert.Equal(t, domain.LeadStatusQualified, lead.Status)
}

// Package repository contains the persistence-backed Guard variant. The
// engine itself never opens a database; the embedding application hands in
// the *gorm.DB it already manages.
package repository

import (
	"context"
	"fmt"

	"github.com/vantage-crm/sales-engine/internal/domain"
	"gorm.io/gorm"
)

// StatusGuard pushes the guard's check-and-flip into the database as a
// single conditional UPDATE (optimistic concurrency on the status column).
/// In a multi-process deployment this replaces the in-process mutex guard:
// whichever request's UPDATE matches a row wins, every other one gets a
// ConflictError.
type StatusGuard struct {
	db *gorm.DB
	// tables maps an entity kind to its table name; defaults pluralize the
	// kind the way the schema does
	tables map[string]string
	column string
}

// NewStatusGuard creates a database-backed conversion guard
func NewStatusGuard(db *gorm.DB) *StatusGuard {
	return &StatusGuard{
		db: db,
		tables: map[string]string{
			string(domain.DocumentLead):  "leads",
			string(domain.DocumentQuote): "quotes",
		},
		column: "status",
	}
}

// WithTable overrides the table used for an entity kind
func (g *StatusGuard) WithTable(kind, table string) *StatusGuard {
	g.tables[kind] = table
	return g
}

// TryConvert implements guard.Guard. The row is updated only when its
// status still matches one of the allowed source statuses; zero affected
// rows means another writer converted first (or the entity is missing). A
// failing convert callback triggers a compensating update back to the
// original status.
func (g *StatusGuard) TryConvert(ctx context.Context, entity domain.Convertible, from []string, to string, convert func() error) error {
	table, ok := g.tables[entity.EntityKind()]
	if !ok {
		return fmt.Errorf("no table registered for entity kind %q", entity.EntityKind())
	}

	prev := entity.ConversionStatus()

	res := g.db.WithContext(ctx).
		Table(table).
		Where("id = ? AND "+g.column+" IN ?", entity.EntityID(), from).
		Update(g.column, to)
	if res.Error != nil {
		return fmt.Errorf("failed to reserve %s conversion: %w", entity.EntityKind(), res.Error)
	}

	if res.RowsAffected == 0 {
		return &domain.ConflictError{
			Kind:    entity.EntityKind(),
			ID:      entity.EntityID(),
			Status:  prev,
			Allowed: from,
		}
	}

	// Keep the in-memory snapshot consistent with the persisted flip
	entity.SetConversionStatus(to)

	if convert != nil {
		if err := convert(); err != nil {
			revert := g.db.WithContext(ctx).
				Table(table).
				Where("id = ? AND "+g.column+" = ?", entity.EntityID(), to).
				Update(g.column, prev)
			if revert.Error != nil {
				return fmt.Errorf("conversion failed and status revert failed: %v: %w", revert.Error, err)
			}
			entity.SetConversionStatus(prev)
			return err
		}
	}
	return nil
}

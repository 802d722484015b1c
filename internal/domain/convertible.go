package domain

import "github.com/google/uuid"

// Convertible is implemented by entities that undergo guarded, irreversible
// status conversions (leads and quotes). The guard reads the current status
// and flips it in place once the transition is authorized.
type Convertible interface {
	EntityKind() string
	EntityID() uuid.UUID
	ConversionStatus() string
	SetConversionStatus(status string)
}

// ConversionKey builds the per-entity identity the guard serializes on
func ConversionKey(e Convertible) string {
	return e.EntityKind() + "/" + e.EntityID().String()
}

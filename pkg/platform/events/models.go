// Package events carries the registry's domain event pipeline. Events are an
// observable side effect of successful mutations only: a rejected operation
// emits nothing. Emission order follows mutation order.
package events

import (
	"time"

	id "cadastre/pkg/domain"
)

// Category classifies events by their primary purpose. This enables different
// retention policies, storage backends, and routing.
type Category string

const (
	// CategoryCompliance covers events with legal significance for the
	// registry: ownership transfers, registrations, transaction records.
	// These require durable storage and long retention.
	CategoryCompliance Category = "compliance"

	// CategoryOperations covers routine activity useful for debugging and
	// operational visibility. These can be sampled or aggregated.
	CategoryOperations Category = "operations"
)

// Action names one kind of registry event.
type Action string

const (
	// Property lifecycle
	ActionPropertyRegistered   Action = "property_registered"
	ActionOwnershipTransferred Action = "ownership_transferred"
	ActionStatusChanged        Action = "status_changed"
	ActionTransactionCreated   Action = "transaction_created"

	// Record flags and text fields
	ActionInspectionUpdated     Action = "inspection_updated"
	ActionViewingUpdated        Action = "viewing_updated"
	ActionLegalDocumentsUpdated Action = "legal_documents_updated"

	// Access control
	ActionPrincipalAuthorized Action = "principal_authorized"
	ActionPrincipalRevoked    Action = "principal_revoked"
)

// actionCategories maps each action to its category. Ownership, registration
// and transaction events carry legal weight; the rest is operational.
var actionCategories = map[Action]Category{
	ActionPropertyRegistered:   CategoryCompliance,
	ActionOwnershipTransferred: CategoryCompliance,
	ActionTransactionCreated:   CategoryCompliance,
	ActionStatusChanged:        CategoryCompliance,

	ActionInspectionUpdated:     CategoryOperations,
	ActionViewingUpdated:        CategoryOperations,
	ActionLegalDocumentsUpdated: CategoryOperations,
	ActionPrincipalAuthorized:   CategoryOperations,
	ActionPrincipalRevoked:      CategoryOperations,
}

// Category returns the category for this action. Unknown actions default to
// CategoryOperations.
func (a Action) Category() Category {
	if cat, ok := actionCategories[a]; ok {
		return cat
	}
	return CategoryOperations
}

// Event is emitted from domain logic to capture key registry actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	Action    Action
	Location  id.Location

	// Actor is the principal that performed the mutation.
	Actor id.Principal

	// Ownership transfer payload: previous and new owner.
	From id.Principal
	To   id.Principal

	// Status change and transaction payloads.
	Status PropertyStatusPayload
	Kind   id.TransactionKind
	Price  uint64

	// Request correlation, set from context by the publisher.
	RequestID string
	ClientIP  string
	UserAgent string
}

// PropertyStatusPayload wraps the status value so unset stays distinguishable
// from for_sale in serialized events.
type PropertyStatusPayload struct {
	Set   bool
	Value id.PropertyStatus
}

// StatusOf builds a set status payload.
func StatusOf(s id.PropertyStatus) PropertyStatusPayload {
	return PropertyStatusPayload{Set: true, Value: s}
}

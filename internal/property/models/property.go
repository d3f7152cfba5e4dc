package models

import (
	"time"

	id "cadastre/pkg/domain"
	dErrors "cadastre/pkg/domain-errors"
)

// PropertyRecord is the aggregate for one registered property, keyed by its
// location.
//
// Invariants:
//   - Location is non-empty and immutable after registration
//   - Owner is never empty once registered (later transfers may move it to
//     the zero principal; that footgun is deliberate and test-covered)
//   - Area is positive and immutable after registration
//   - Status is always one of the three enumerated values; the machine
//     cycles freely with no terminal state
//   - OwnershipHistory is append-only: every transfer appends the owner at
//     the moment of transfer, never reordered or pruned
//
// Records are permanent: no operation deletes one.
type PropertyRecord struct {
	Location         id.Location       `json:"location"`
	Owner            id.Principal      `json:"owner"`
	Price            uint64            `json:"price"`
	Description      string            `json:"description"`
	Area             uint64            `json:"area"`
	Status           id.PropertyStatus `json:"status"`
	LegalDocuments   string            `json:"legal_documents"`
	OwnershipHistory []id.Principal    `json:"ownership_history"`
	IsInspected      bool              `json:"is_inspected"`
	IsViewed         bool              `json:"is_viewed"`
	IsUsed           bool              `json:"is_used"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// NewPropertyRecord validates and constructs a fresh record. New properties
// start ForSale with an empty ownership history and all flags false except
// IsUsed, which the registrant declares.
func NewPropertyRecord(location id.Location, owner id.Principal, price uint64, description string, area uint64, isUsed bool, legalDocuments string, now time.Time) (*PropertyRecord, error) {
	if location == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "location is required")
	}
	if owner.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "owner is required")
	}
	if area == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "area must be positive")
	}
	return &PropertyRecord{
		Location:       location,
		Owner:          owner,
		Price:          price,
		Description:    description,
		Area:           area,
		Status:         id.StatusForSale,
		LegalDocuments: legalDocuments,
		IsUsed:         isUsed,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// IsAuthorized reports whether the caller may mutate this record under the
// record-level gate: the caller is the current owner, or aclAuthorized says
// the access control list carries it.
func (r *PropertyRecord) IsAuthorized(caller id.Principal, aclAuthorized bool) bool {
	return caller == r.Owner || aclAuthorized
}

// ApplyTransfer appends the current owner to the history, then hands the
// record to newOwner. The appended principal is the owner at transfer time,
// not the caller. newOwner is not validated: transfers to the zero principal
// are legal.
func (r *PropertyRecord) ApplyTransfer(newOwner id.Principal, now time.Time) {
	r.OwnershipHistory = append(r.OwnershipHistory, r.Owner)
	r.Owner = newOwner
	r.UpdatedAt = now
}

// ApplyStatus moves the record to the given status. Every transition between
// the three states is permitted; there is no precondition beyond the caller's
// authorization, checked upstream.
func (r *PropertyRecord) ApplyStatus(status id.PropertyStatus, now time.Time) {
	r.Status = status
	r.UpdatedAt = now
}

// CanCreateTransaction guards transaction-record creation: it fails once the
// price is non-zero. A property registered with a non-zero initial price can
// therefore never have a transaction record created for it; that is the
// documented behavior, not an oversight to patch here.
func (r *PropertyRecord) CanCreateTransaction() error {
	if r.Price != 0 {
		return dErrors.New(dErrors.CodeAlreadyPriced, "transaction record already created")
	}
	return nil
}

// ApplyTransaction records the transacted price. Call CanCreateTransaction
// first; the pairing mirrors the validate-then-mutate store contract.
func (r *PropertyRecord) ApplyTransaction(price uint64, now time.Time) {
	r.Price = price
	r.UpdatedAt = now
}

// TransactionKind selects the notification kind for the record's current
// status.
func (r *PropertyRecord) TransactionKind() id.TransactionKind {
	return id.TransactionKindFor(r.Status)
}

// SetInspected flips the inspection flag. No ordering constraint exists
// between the inspection, viewing, and usage flags.
func (r *PropertyRecord) SetInspected(value bool, now time.Time) {
	r.IsInspected = value
	r.UpdatedAt = now
}

// SetViewed flips the viewing flag.
func (r *PropertyRecord) SetViewed(value bool, now time.Time) {
	r.IsViewed = value
	r.UpdatedAt = now
}

// SetLegalDocuments overwrites the legal documents text.
func (r *PropertyRecord) SetLegalDocuments(documents string, now time.Time) {
	r.LegalDocuments = documents
	r.UpdatedAt = now
}

// Clone returns a deep copy so callers can hand out snapshots without
// exposing the store's record or its history slice.
func (r *PropertyRecord) Clone() *PropertyRecord {
	cp := *r
	cp.OwnershipHistory = make([]id.Principal, len(r.OwnershipHistory))
	copy(cp.OwnershipHistory, r.OwnershipHistory)
	return &cp
}

package domain

import dErrors "cadastre/pkg/domain-errors"

// PropertyStatus is the enumerated disposition of a property. Earlier models
// tracked mortgaged/rented as independent booleans, which admits invalid
// combinations; the enum forbids simultaneous Mortgaged+Rented by
// construction.
//
// The status machine cycles freely: every transition between the three states
// is permitted, and there is no terminal state. ChangePropertyStatus performs
// no precondition check beyond authorization.
type PropertyStatus string

const (
	StatusForSale   PropertyStatus = "for_sale"
	StatusMortgaged PropertyStatus = "mortgaged"
	StatusRented    PropertyStatus = "rented"
)

// validStatuses is the single source of truth for valid property statuses.
var validStatuses = map[PropertyStatus]bool{
	StatusForSale:   true,
	StatusMortgaged: true,
	StatusRented:    true,
}

// ParsePropertyStatus constructs a PropertyStatus from external input.
//
// Usage: call from handlers/adapters when parsing requests; direct casting
// bypasses the allowlist.
func ParsePropertyStatus(s string) (PropertyStatus, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "status cannot be empty")
	}
	st := PropertyStatus(s)
	if !st.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid status")
	}
	return st, nil
}

// IsValid checks if the status is one of the supported enum values.
func (s PropertyStatus) IsValid() bool { return validStatuses[s] }

// String returns the string representation of the status.
func (s PropertyStatus) String() string { return string(s) }

// TransactionKind classifies the notification emitted when a transaction
// record is created, selected by the property's status at call time.
type TransactionKind string

const (
	TransactionPurchase TransactionKind = "purchase"
	TransactionRent     TransactionKind = "rent"
	TransactionMortgage TransactionKind = "mortgage"
)

// TransactionKindFor maps the current status to the transaction kind:
// Rented selects rent, Mortgaged selects mortgage, anything else purchase.
func TransactionKindFor(status PropertyStatus) TransactionKind {
	switch status {
	case StatusRented:
		return TransactionRent
	case StatusMortgaged:
		return TransactionMortgage
	default:
		return TransactionPurchase
	}
}

// String returns the string representation of the transaction kind.
func (k TransactionKind) String() string { return string(k) }

package handler

import (
	"strings"

	"cadastre/internal/property/service"
	id "cadastre/pkg/domain"
	dErrors "cadastre/pkg/domain-errors"
)

// RegisterRequest is the HTTP request body for POST /properties.
type RegisterRequest struct {
	Location       string `json:"location"`
	Price          uint64 `json:"price"`
	Description    string `json:"description"`
	Area           uint64 `json:"area"`
	IsUsed         bool   `json:"is_used"`
	LegalDocuments string `json:"legal_documents"`

	parsedLocation id.Location
}

func (r *RegisterRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	location, err := id.ParseLocation(strings.TrimSpace(r.Location))
	if err != nil {
		return err
	}
	r.parsedLocation = location
	if r.Area == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "area must be positive")
	}
	return nil
}

// ToInput converts the validated request into service input.
func (r *RegisterRequest) ToInput() service.RegisterInput {
	return service.RegisterInput{
		Location:       r.parsedLocation,
		Price:          r.Price,
		Description:    r.Description,
		Area:           r.Area,
		IsUsed:         r.IsUsed,
		LegalDocuments: r.LegalDocuments,
	}
}

// TransferRequest is the HTTP request body for POST /properties/{location}/transfer.
// NewOwner is deliberately not trimmed or required: the registry accepts any
// destination, including the zero principal.
type TransferRequest struct {
	NewOwner string `json:"new_owner"`
}

// StatusRequest is the HTTP request body for PUT /properties/{location}/status.
type StatusRequest struct {
	Status string `json:"status"`

	parsedStatus id.PropertyStatus
}

func (r *StatusRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	status, err := id.ParsePropertyStatus(strings.TrimSpace(r.Status))
	if err != nil {
		return err
	}
	r.parsedStatus = status
	return nil
}

// ParsedStatus returns the validated status.
func (r *StatusRequest) ParsedStatus() id.PropertyStatus {
	return r.parsedStatus
}

// FlagRequest is the HTTP request body for the inspection and viewing
// endpoints.
type FlagRequest struct {
	Value bool `json:"value"`
}

// LegalDocumentsRequest is the HTTP request body for
// PUT /properties/{location}/legal-documents. An empty string clears the
// documents.
type LegalDocumentsRequest struct {
	LegalDocuments string `json:"legal_documents"`
}

// TransactionRequest is the HTTP request body for
// POST /properties/{location}/transaction.
type TransactionRequest struct {
	Price uint64 `json:"price"`
}

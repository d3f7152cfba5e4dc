package handler

import (
	"time"

	"cadastre/internal/property/models"
)

// PropertyResponse is the HTTP representation of a property record.
type PropertyResponse struct {
	Location         string    `json:"location"`
	Owner            string    `json:"owner"`
	Price            uint64    `json:"price"`
	Description      string    `json:"description"`
	Area             uint64    `json:"area"`
	Status           string    `json:"status"`
	LegalDocuments   string    `json:"legal_documents"`
	OwnershipHistory []string  `json:"ownership_history"`
	IsInspected      bool      `json:"is_inspected"`
	IsViewed         bool      `json:"is_viewed"`
	IsUsed           bool      `json:"is_used"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// FromRecord converts a property record to its HTTP response.
func FromRecord(record *models.PropertyRecord) *PropertyResponse {
	history := make([]string, len(record.OwnershipHistory))
	for i, p := range record.OwnershipHistory {
		history[i] = p.String()
	}
	return &PropertyResponse{
		Location:         record.Location.String(),
		Owner:            record.Owner.String(),
		Price:            record.Price,
		Description:      record.Description,
		Area:             record.Area,
		Status:           record.Status.String(),
		LegalDocuments:   record.LegalDocuments,
		OwnershipHistory: history,
		IsInspected:      record.IsInspected,
		IsViewed:         record.IsViewed,
		IsUsed:           record.IsUsed,
		CreatedAt:        record.CreatedAt,
		UpdatedAt:        record.UpdatedAt,
	}
}

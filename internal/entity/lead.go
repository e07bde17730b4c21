package entity

import (
	"context"
	"time"
)


const (
	RatingHot  = "HOT"
	RatingCold = "COLD"
)

type Lead struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Company            string    `json:"company"`
	Email              string    `json:"email,omitempty"`
	Phone              string    `json:"phone,omitempty"`
	MonthlyIncomeCents *int64    `json:"monthly_income_cents"` // nil = never informed
	Rating             string    `json:"rating"`               // HOT, COLD
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}


// IsHot reports whether the lead was rated HOT at ingestion time.
// Ratings are assigned once on insert; there is no re-rating on update.
func (l *Lead) IsHot() bool {
	return l.Rating == RatingHot
}


type LeadRepositoryInterface interface {

	// BulkInsert persists the whole batch in a single statement and
	// fills the generated IDs and timestamps back into each lead.
	BulkInsert(ctx context.Context, leads []*Lead) error

	FindByID(ctx context.Context, id string) (*Lead, error)

	DeleteByIDs(ctx context.Context, ids []string) error
}

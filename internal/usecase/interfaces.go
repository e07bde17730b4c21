package usecase

import (
	"context"

	"github.com/xavierca1/leadflow/internal/infra/queue"
)

// LeadInput is one record of the submitted batch. MonthlyIncomeCents is
// a pointer so that "never informed" is distinguishable from zero: an
// absent income rejects the record, a zero income is a valid COLD lead.
type LeadInput struct {
	Name               string `json:"name"`
	Company            string `json:"company"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	MonthlyIncomeCents *int64 `json:"monthly_income_cents"`
}

type IngestLeadsInput struct {
	Leads []LeadInput `json:"leads"`
}

// LeadResult reports the outcome for one record, at the same index as
// the input. Rejections never abort the siblings.
type LeadResult struct {
	Index   int    `json:"index"`
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Rating  string `json:"rating,omitempty"`
	Message string `json:"message,omitempty"`
}

type IngestLeadsOutput struct {
	Accepted     int          `json:"accepted"`
	Rejected     int          `json:"rejected"`
	TasksCreated int          `json:"tasks_created"`
	Results      []LeadResult `json:"results"`
}

type QueueProducerInterface interface {
	PublishHotLead(ctx context.Context, payload queue.HotLeadPayload) error
}

package entity

import (
	"context"
	"time"
)


const (
	TaskPriorityHigh = "HIGH"

	TaskStatusOpen    = "OPEN"
	TaskStatusOverdue = "OVERDUE"
	TaskStatusDone    = "DONE"
)

// Task is the follow-up work item created for every HOT lead.
// Exactly one task is created per hot lead per submitted batch; there
// is no deduplication across submissions.
type Task struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"lead_id"`
	Subject   string    `json:"subject"`
	Priority  string    `json:"priority"` // HIGH
	Status    string    `json:"status"`   // OPEN, OVERDUE, DONE
	DueDate   time.Time `json:"due_date"`
	CreatedAt time.Time `json:"created_at"`
}


type TaskRepositoryInterface interface {

	// BulkInsert persists all tasks in a single statement. Callers must
	// not invoke it with an empty slice.
	BulkInsert(ctx context.Context, tasks []*Task) error

	CountOpenByLeadID(ctx context.Context, leadID string) (int, error)
}

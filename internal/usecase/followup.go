package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/leadflow/internal/entity"
)

// FollowUpSubject is the fixed subject of every generated task.
const FollowUpSubject = "Follow up on hot lead"


// GenerateFollowUps derives the follow-up tasks for a committed batch:
// one task per HOT lead, priority HIGH, due on the processing date.
// COLD leads produce nothing. Must be called after BulkInsert so the
// leads already carry their IDs.
func GenerateFollowUps(leads []*entity.Lead, now time.Time) []*entity.Task {
	var tasks []*entity.Task

	for _, lead := range leads {
		if !lead.IsHot() {
			continue
		}

		tasks = append(tasks, &entity.Task{
			ID:        uuid.New().String(),
			LeadID:    lead.ID,
			Subject:   FollowUpSubject,
			Priority:  entity.TaskPriorityHigh,
			Status:    entity.TaskStatusOpen,
			DueDate:   now,
			CreatedAt: now,
		})
	}

	return tasks
}

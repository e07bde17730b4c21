package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/xavierca1/leadflow/internal/entity"
)

type TaskRepository struct {
	DB *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{DB: db}
}


// BulkInsert persists all follow-up tasks of a batch in one statement.
// A failure here fails the batch as a whole; partial success is not
// reported.
func (r *TaskRepository) BulkInsert(ctx context.Context, tasks []*entity.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	valueRows := make([]string, 0, len(tasks))
	args := make([]interface{}, 0, len(tasks)*6)

	for i, task := range tasks {
		base := i * 6
		valueRows = append(valueRows, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6,
		))
		args = append(args,
			task.ID,
			task.LeadID,
			task.Subject,
			task.Priority,
			task.Status,
			task.DueDate,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO tasks (id, lead_id, subject, priority, status, due_date)
		VALUES %s
	`, strings.Join(valueRows, ", "))

	if _, err := r.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("bulk insert tasks: %w", err)
	}

	return nil
}


// CountOpenByLeadID backs the lead detail endpoint.
func (r *TaskRepository) CountOpenByLeadID(ctx context.Context, leadID string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE lead_id = $1 AND status = $2`,
		leadID, entity.TaskStatusOpen,
	).Scan(&count)
	return count, err
}

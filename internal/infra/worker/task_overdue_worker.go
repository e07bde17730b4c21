package worker

import (
	"context"
	"database/sql"
	"log"
	"time"
)


// TaskOverdueWorker flips OPEN follow-up tasks to OVERDUE once their
// due date has passed. Follow-ups are due the day they are created, so
// anything still open the next day needs chasing.
type TaskOverdueWorker struct {
	db           *sql.DB
	tickInterval time.Duration
}


func NewTaskOverdueWorker(db *sql.DB) *TaskOverdueWorker {
	return &TaskOverdueWorker{
		db:           db,
		tickInterval: 1 * time.Hour,
	}
}


func (w *TaskOverdueWorker) Start(ctx context.Context) {
	log.Println("🕒 Task Overdue Worker started (hourly sweep)")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.markOverdue(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Task Overdue Worker stopped")
			return
		case <-ticker.C:
			w.markOverdue(ctx)
		}
	}
}


func (w *TaskOverdueWorker) markOverdue(ctx context.Context) {
	res, err := w.db.ExecContext(ctx, `
		UPDATE tasks
		SET status = 'OVERDUE', updated_at = NOW()
		WHERE status = 'OPEN' AND due_date < CURRENT_DATE
	`)
	if err != nil {
		log.Printf("❌ Overdue sweep failed: %v", err)
		return
	}

	if n, err := res.RowsAffected(); err == nil && n > 0 {
		log.Printf("🕒 Marked %d follow-up tasks as OVERDUE", n)
	}
}

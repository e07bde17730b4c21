package usecase

import (
	"context"
	"log"
	"time"

	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/infra/queue"
)

type IngestLeadsUseCase struct {
	LeadRepo   entity.LeadRepositoryInterface
	TaskRepo   entity.TaskRepositoryInterface
	Classifier *Classifier
	Queue      QueueProducerInterface

	// Now is swappable in tests to pin the due date.
	Now func() time.Time
}

func NewIngestLeadsUseCase(
	leadRepo entity.LeadRepositoryInterface,
	taskRepo entity.TaskRepositoryInterface,
	classifier *Classifier,
	queueProducer QueueProducerInterface,
) *IngestLeadsUseCase {
	return &IngestLeadsUseCase{
		LeadRepo:   leadRepo,
		TaskRepo:   taskRepo,
		Classifier: classifier,
		Queue:      queueProducer,
		Now:        time.Now,
	}
}

// Execute runs the two-phase ingestion over one batch:
//
//  1. validate and rate every record in a single pass (no I/O);
//  2. bulk-insert the accepted leads, then bulk-insert one follow-up
//     task per HOT lead, under a compensating transaction.
//
// Records failing validation are rejected individually and do not
// block the rest of the batch. Resubmitting a batch inserts new rows
// and new tasks; there is no deduplication.
func (uc *IngestLeadsUseCase) Execute(ctx context.Context, input IngestLeadsInput) (*IngestLeadsOutput, error) {
	if len(input.Leads) == 0 {
		return nil, &DomainError{
			Code:    "EMPTY_BATCH",
			Message: "batch must contain at least one lead",
		}
	}

	now := uc.Now()
	results := make([]LeadResult, len(input.Leads))

	// Phase 1: validate + rate. acceptedIdx maps each accepted lead back
	// to its slot in results so IDs can be filled in after the insert.
	var accepted []*entity.Lead
	var acceptedIdx []int

	for i, in := range input.Leads {
		if validationErrors := ValidateLeadInput(in); len(validationErrors) > 0 {
			results[i] = LeadResult{
				Index:   i,
				Success: false,
				Message: joinMessages(validationErrors),
			}
			continue
		}

		lead := &entity.Lead{
			Name:               in.Name,
			Company:            in.Company,
			Email:              in.Email,
			Phone:              in.Phone,
			MonthlyIncomeCents: in.MonthlyIncomeCents,
			Rating:             uc.Classifier.Rate(*in.MonthlyIncomeCents),
			CreatedAt:          now,
			UpdatedAt:          now,
		}

		accepted = append(accepted, lead)
		acceptedIdx = append(acceptedIdx, i)
	}

	output := &IngestLeadsOutput{
		Accepted: len(accepted),
		Rejected: len(input.Leads) - len(accepted),
		Results:  results,
	}

	if len(accepted) == 0 {
		return output, nil
	}

	// Phase 2: persist. Task generation happens inside the operation
	// because it needs the IDs assigned by the lead insert.
	var tasks []*entity.Task

	txn := NewTransaction()

	txn.AddOperation("insert_leads", func(ctx context.Context) error {
		return uc.LeadRepo.BulkInsert(ctx, accepted)
	})

	txn.AddCompensation("delete_leads", func(ctx context.Context) error {
		ids := make([]string, len(accepted))
		for i, lead := range accepted {
			ids[i] = lead.ID
		}
		return uc.LeadRepo.DeleteByIDs(ctx, ids)
	})

	txn.AddOperation("insert_followup_tasks", func(ctx context.Context) error {
		tasks = GenerateFollowUps(accepted, now)
		if len(tasks) == 0 {
			// Nothing hot in this batch; skip the call entirely.
			return nil
		}
		return uc.TaskRepo.BulkInsert(ctx, tasks)
	})

	if err := txn.Execute(ctx); err != nil {
		return nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to persist lead batch: " + err.Error(),
		}
	}

	output.TasksCreated = len(tasks)

	for pos, lead := range accepted {
		results[acceptedIdx[pos]] = LeadResult{
			Index:   acceptedIdx[pos],
			Success: true,
			ID:      lead.ID,
			Rating:  lead.Rating,
		}
	}

	// Fan the hot leads out to the sales alert queue. The batch is
	// already committed, so a broker failure is logged and swallowed.
	if uc.Queue != nil {
		for _, lead := range accepted {
			if !lead.IsHot() {
				continue
			}
			payload := queue.HotLeadPayload{
				LeadID:             lead.ID,
				Name:               lead.Name,
				Company:            lead.Company,
				Email:              lead.Email,
				Phone:              lead.Phone,
				MonthlyIncomeCents: *lead.MonthlyIncomeCents,
				Rating:             lead.Rating,
				Origin:             "BATCH_INGEST",
			}
			if err := uc.Queue.PublishHotLead(ctx, payload); err != nil {
				log.Printf("⚠️ CRITICAL: lead %s committed but hot-lead alert not queued: %v", lead.ID, err)
			}
		}
	}

	return output, nil
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/infra/queue"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) BulkInsert(ctx context.Context, leads []*entity.Lead) error {
	args := m.Called(ctx, leads)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

// MockTaskRepository
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) BulkInsert(ctx context.Context, tasks []*entity.Task) error {
	args := m.Called(ctx, tasks)
	return args.Error(0)
}

func (m *MockTaskRepository) CountOpenByLeadID(ctx context.Context, leadID string) (int, error) {
	args := m.Called(ctx, leadID)
	return args.Int(0), args.Error(1)
}

// MockQueueProducer
type MockQueueProducer struct {
	mock.Mock
}

func (m *MockQueueProducer) PublishHotLead(ctx context.Context, payload queue.HotLeadPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// assignIDs simulates the database assigning identifiers on insert.
func assignIDs(args mock.Arguments) {
	leads := args.Get(1).([]*entity.Lead)
	for i, lead := range leads {
		lead.ID = fmt.Sprintf("lead-%d", i+1)
	}
}

func newIngestUC(leadRepo *MockLeadRepository, taskRepo *MockTaskRepository, q *MockQueueProducer) *IngestLeadsUseCase {
	return NewIngestLeadsUseCase(leadRepo, taskRepo, NewClassifier(1_000_000), q)
}

func leadInput(name string, incomeCents *int64) LeadInput {
	return LeadInput{
		Name:               name,
		Company:            "Acme Ltda",
		Email:              "contact@acme.com",
		MonthlyIncomeCents: incomeCents,
	}
}

// ============ TESTS ============

// Income 15,000.00 against a 10,000.00 threshold: HOT, one HIGH
// priority follow-up task due on the processing date, one queue alert.
func TestIngestHotLeadCreatesFollowUpTask(t *testing.T) {
	ctx := context.Background()

	mockLeadRepo := new(MockLeadRepository)
	mockTaskRepo := new(MockTaskRepository)
	mockQueue := new(MockQueueProducer)

	var insertedTasks []*entity.Task
	mockLeadRepo.On("BulkInsert", ctx, mock.Anything).Run(assignIDs).Return(nil)
	mockTaskRepo.On("BulkInsert", ctx, mock.Anything).Run(func(args mock.Arguments) {
		insertedTasks = args.Get(1).([]*entity.Task)
	}).Return(nil)
	mockQueue.On("PublishHotLead", ctx, mock.Anything).Return(nil)

	uc := newIngestUC(mockLeadRepo, mockTaskRepo, mockQueue)
	processingDate := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	uc.Now = func() time.Time { return processingDate }

	output, err := uc.Execute(ctx, IngestLeadsInput{
		Leads: []LeadInput{leadInput("Maria Souza", income(1_500_000))},
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, output.Accepted)
	assert.Equal(t, 0, output.Rejected)
	assert.Equal(t, 1, output.TasksCreated)

	assert.True(t, output.Results[0].Success)
	assert.Equal(t, "lead-1", output.Results[0].ID)
	assert.Equal(t, entity.RatingHot, output.Results[0].Rating)

	assert.Len(t, insertedTasks, 1)
	assert.Equal(t, "lead-1", insertedTasks[0].LeadID)
	assert.Equal(t, FollowUpSubject, insertedTasks[0].Subject)
	assert.Equal(t, entity.TaskPriorityHigh, insertedTasks[0].Priority)
	assert.Equal(t, processingDate, insertedTasks[0].DueDate)

	mockQueue.AssertNumberOfCalls(t, "PublishHotLead", 1)
}

// Income 5,000.00: COLD, no follow-up task, no alert. The task
// repository must not even be called for an all-cold batch.
func TestIngestColdLeadCreatesNoTask(t *testing.T) {
	ctx := context.Background()

	mockLeadRepo := new(MockLeadRepository)
	mockTaskRepo := new(MockTaskRepository)
	mockQueue := new(MockQueueProducer)

	mockLeadRepo.On("BulkInsert", ctx, mock.Anything).Run(assignIDs).Return(nil)

	uc := newIngestUC(mockLeadRepo, mockTaskRepo, mockQueue)

	output, err := uc.Execute(ctx, IngestLeadsInput{
		Leads: []LeadInput{leadInput("João Lima", income(500_000))},
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, output.Accepted)
	assert.Equal(t, 0, output.TasksCreated)
	assert.Equal(t, entity.RatingCold, output.Results[0].Rating)

	mockTaskRepo.AssertNotCalled(t, "BulkInsert", mock.Anything, mock.Anything)
	mockQueue.AssertNotCalled(t, "PublishHotLead", mock.Anything, mock.Anything)
}

// Income exactly at the threshold rates HOT.
func TestIngestBoundaryIncomeIsHot(t *testing.T) {
	ctx := context.Background()

	mockLeadRepo := new(MockLeadRepository)
	mockTaskRepo := new(MockTaskRepository)
	mockQueue := new(MockQueueProducer)

	mockLeadRepo.On("BulkInsert", ctx, mock.Anything).Run(assignIDs).Return(nil)
	mockTaskRepo.On("BulkInsert", ctx, mock.Anything).Return(nil)
	mockQueue.On("PublishHotLead", ctx, mock.Anything).Return(nil)

	uc := newIngestUC(mockLeadRepo, mockTaskRepo, mockQueue)

	output, err := uc.Execute(ctx, IngestLeadsInput{
		Leads: []LeadInput{leadInput("Edge Case", income(1_000_000))},
	})

	assert.NoError(t, err)
	assert.Equal(t, entity.RatingHot, output.Results[0].Rating)
	assert.Equal(t, 1, output.TasksCreated)
}

// A record without income is rejected with the fixed message and
// nothing touches the database.
func TestIngestMissingIncomeRejectsRecord(t *testing.T) {
	ctx := context.Background()

	mockLeadRepo := new(MockLeadRepository)
	mockTaskRepo := new(MockTaskRepository)
	mockQueue := new(MockQueueProducer)

	uc := newIngestUC(mockLeadRepo, mockTaskRepo, mockQueue)

	output, err := uc.Execute(ctx, IngestLeadsInput{
		Leads: []LeadInput{leadInput("Sem Renda", nil)},
	})

	assert.NoError(t, err)
	assert.Equal(t, 0, output.Accepted)
	assert.Equal(t, 1, output.Rejected)
	assert.Equal(t, 0, output.TasksCreated)
	assert.False(t, output.Results[0].Success)
	assert.Contains(t, output.Results[0].Message, "monthly income field is required")

	mockLeadRepo.AssertNotCalled(t, "BulkInsert", mock.Anything, mock.Anything)
	mockTaskRepo.AssertNotCalled(t, "BulkInsert", mock.Anything, mock.Anything)
}

// A mixed batch: invalid records fail independently, valid records are
// classified, and the task count equals the number of accepted HOT
// leads.
func TestIngestMixedBatch(t *testing.T) {
	ctx := context.Background()

	mockLeadRepo := new(MockLeadRepository)
	mockTaskRepo := new(MockTaskRepository)
	mockQueue := new(MockQueueProducer)

	var insertedLeads []*entity.Lead
	var insertedTasks []*entity.Task
	mockLeadRepo.On("BulkInsert", ctx, mock.Anything).Run(func(args mock.Arguments) {
		assignIDs(args)
		insertedLeads = args.Get(1).([]*entity.Lead)
	}).Return(nil)
	mockTaskRepo.On("BulkInsert", ctx, mock.Anything).Run(func(args mock.Arguments) {
		insertedTasks = args.Get(1).([]*entity.Task)
	}).Return(nil)
	mockQueue.On("PublishHotLead", ctx, mock.Anything).Return(nil)

	uc := newIngestUC(mockLeadRepo, mockTaskRepo, mockQueue)

	output, err := uc.Execute(ctx, IngestLeadsInput{
		Leads: []LeadInput{
			leadInput("Hot One", income(2_000_000)),   // HOT
			leadInput("No Income", nil),               // rejected
			leadInput("Cold One", income(300_000)),    // COLD
			leadInput("Hot Two", income(1_000_000)),   // HOT (boundary)
			{Company: "Nameless", MonthlyIncomeCents: income(9_999_999)}, // rejected (no name)
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, output.Accepted)
	assert.Equal(t, 2, output.Rejected)
	assert.Equal(t, 2, output.TasksCreated)

	assert.Len(t, insertedLeads, 3)
	assert.Len(t, insertedTasks, 2)

	// Results stay aligned with input order.
	assert.True(t, output.Results[0].Success)
	assert.False(t, output.Results[1].Success)
	assert.True(t, output.Results[2].Success)
	assert.True(t, output.Results[3].Success)
	assert.False(t, output.Results[4].Success)

	assert.Equal(t, entity.RatingHot, output.Results[0].Rating)
	assert.Equal(t, entity.RatingCold, output.Results[2].Rating)
	assert.Equal(t, entity.RatingHot, output.Results[3].Rating)

	mockQueue.AssertNumberOfCalls(t, "PublishHotLead", 2)
}

func TestIngestEmptyBatch(t *testing.T) {
	uc := newIngestUC(new(MockLeadRepository), new(MockTaskRepository), new(MockQueueProducer))

	output, err := uc.Execute(context.Background(), IngestLeadsInput{})

	assert.Nil(t, output)
	assert.True(t, IsDomainError(err))
	assert.Equal(t, "EMPTY_BATCH", err.(*DomainError).Code)
}

func TestIngestLeadInsertFailureIsTechnicalError(t *testing.T) {
	ctx := context.Background()

	mockLeadRepo := new(MockLeadRepository)
	mockTaskRepo := new(MockTaskRepository)

	mockLeadRepo.On("BulkInsert", ctx, mock.Anything).Return(errors.New("connection refused"))

	uc := newIngestUC(mockLeadRepo, mockTaskRepo, new(MockQueueProducer))

	output, err := uc.Execute(ctx, IngestLeadsInput{
		Leads: []LeadInput{leadInput("Maria Souza", income(1_500_000))},
	})

	assert.Nil(t, output)
	assert.True(t, IsTechnicalError(err))
	assert.Equal(t, "DATABASE_ERROR", err.(*TechnicalError).Code)

	// Nothing to compensate when the first operation fails.
	mockLeadRepo.AssertNotCalled(t, "DeleteByIDs", mock.Anything, mock.Anything)
}

// When the task bulk insert fails, the already-inserted leads are
// removed again and the whole batch is reported as a persistence error.
func TestIngestTaskInsertFailureRollsBackLeads(t *testing.T) {
	ctx := context.Background()

	mockLeadRepo := new(MockLeadRepository)
	mockTaskRepo := new(MockTaskRepository)

	mockLeadRepo.On("BulkInsert", ctx, mock.Anything).Run(assignIDs).Return(nil)
	mockTaskRepo.On("BulkInsert", ctx, mock.Anything).Return(errors.New("malformed task"))
	mockLeadRepo.On("DeleteByIDs", ctx, []string{"lead-1"}).Return(nil)

	uc := newIngestUC(mockLeadRepo, mockTaskRepo, new(MockQueueProducer))

	output, err := uc.Execute(ctx, IngestLeadsInput{
		Leads: []LeadInput{leadInput("Maria Souza", income(1_500_000))},
	})

	assert.Nil(t, output)
	assert.True(t, IsTechnicalError(err))
	mockLeadRepo.AssertCalled(t, "DeleteByIDs", ctx, []string{"lead-1"})
}

// The batch is already committed when the alert is queued, so a broker
// failure must not fail the request.
func TestIngestQueueFailureDoesNotFailBatch(t *testing.T) {
	ctx := context.Background()

	mockLeadRepo := new(MockLeadRepository)
	mockTaskRepo := new(MockTaskRepository)
	mockQueue := new(MockQueueProducer)

	mockLeadRepo.On("BulkInsert", ctx, mock.Anything).Run(assignIDs).Return(nil)
	mockTaskRepo.On("BulkInsert", ctx, mock.Anything).Return(nil)
	mockQueue.On("PublishHotLead", ctx, mock.Anything).Return(errors.New("broker down"))

	uc := newIngestUC(mockLeadRepo, mockTaskRepo, mockQueue)

	output, err := uc.Execute(ctx, IngestLeadsInput{
		Leads: []LeadInput{leadInput("Maria Souza", income(1_500_000))},
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, output.Accepted)
	assert.Equal(t, 1, output.TasksCreated)
}

// No deduplication is promised: resubmitting the same batch creates
// new leads and new follow-up tasks.
func TestIngestResubmissionCreatesAdditionalTasks(t *testing.T) {
	ctx := context.Background()

	mockLeadRepo := new(MockLeadRepository)
	mockTaskRepo := new(MockTaskRepository)
	mockQueue := new(MockQueueProducer)

	mockLeadRepo.On("BulkInsert", ctx, mock.Anything).Run(assignIDs).Return(nil)
	mockTaskRepo.On("BulkInsert", ctx, mock.Anything).Return(nil)
	mockQueue.On("PublishHotLead", ctx, mock.Anything).Return(nil)

	uc := newIngestUC(mockLeadRepo, mockTaskRepo, mockQueue)
	batch := IngestLeadsInput{Leads: []LeadInput{leadInput("Maria Souza", income(1_500_000))}}

	first, err := uc.Execute(ctx, batch)
	assert.NoError(t, err)
	second, err := uc.Execute(ctx, batch)
	assert.NoError(t, err)

	assert.Equal(t, 1, first.TasksCreated)
	assert.Equal(t, 1, second.TasksCreated)
	mockTaskRepo.AssertNumberOfCalls(t, "BulkInsert", 2)
}

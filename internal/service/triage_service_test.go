package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/hr-triage-service/internal/autoresponse"
	"github.com/spec-kit/hr-triage-service/internal/domain"
	"github.com/spec-kit/hr-triage-service/internal/notifier"
	"github.com/spec-kit/hr-triage-service/internal/worker"
)

type stubClassifier struct {
	mu     sync.Mutex
	result *domain.Classification
	inputs []string
}

func (s *stubClassifier) Classify(_ context.Context, description string) *domain.Classification {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs = append(s.inputs, description)
	if description == "" {
		return nil
	}
	return s.result
}

type stubNotifier struct {
	mu      sync.Mutex
	tickets []domain.Ticket
	result  notifier.Result
}

func (s *stubNotifier) Notify(_ context.Context, ticket domain.Ticket) notifier.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets = append(s.tickets, ticket)
	return s.result
}

func (f *fixture) triage(t *testing.T, c Classifier, n Notifier) *TriageService {
	t.Helper()
	return NewTriageService(TriageDependencies{
		TicketRepo: f.repo,
		Classifier: c,
		Notifier:   n,
		Logger:     zaptest.NewLogger(t),
		Clock:      f.clock.Now,
	})
}

// startPipeline wires creation events to a worker pool the way main does.
func (f *fixture) startPipeline(t *testing.T, triage *TriageService) *worker.Pool {
	t.Helper()
	logger := zaptest.NewLogger(t)
	pool := worker.NewPool(2, 16, logger, nil)
	worker.StartClassificationWorker(f.dispatcher, pool, triage, logger)
	return pool
}

func TestPTOScenario(t *testing.T) {
	f := newFixture(t)
	classifier := &stubClassifier{result: &domain.Classification{Category: domain.CategoryPTO, Confidence: 0.91}}
	notify := &stubNotifier{result: notifier.Result{Success: true, StatusCode: 200}}
	pool := f.startPipeline(t, f.triage(t, classifier, notify))

	created := f.create(t, "I need to check my PTO balance")
	assert.Equal(t, domain.TicketStatusPending, created.Status, "create never waits for classification")
	require.NoError(t, pool.Shutdown(context.Background()))

	ticket, err := f.svc.GetTicket(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClassified, ticket.Status)
	require.NotNil(t, ticket.AICategory)
	assert.Equal(t, domain.CategoryPTO, *ticket.AICategory)
	assert.InDelta(t, 0.91, *ticket.AIConfidence, 1e-9)
	assert.Equal(t, autoresponse.For(domain.CategoryPTO), *ticket.AIResponse)
	assert.True(t, ticket.UpdatedAt.After(created.UpdatedAt))

	require.Len(t, notify.tickets, 1)
	assert.Equal(t, domain.TicketStatusClassified, notify.tickets[0].Status)
	assert.Equal(t, []string{"I need to check my PTO balance"}, classifier.inputs)
}

func TestEmptyDescriptionScenario(t *testing.T) {
	f := newFixture(t)
	classifier := &stubClassifier{result: &domain.Classification{Category: domain.CategoryPTO, Confidence: 0.91}}
	notify := &stubNotifier{result: notifier.Result{Success: false, Error: "No webhook URL configured"}}
	pool := f.startPipeline(t, f.triage(t, classifier, notify))

	created := f.create(t, "")
	require.NoError(t, pool.Shutdown(context.Background()))

	ticket, err := f.svc.GetTicket(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusPending, ticket.Status)
	assert.Nil(t, ticket.AICategory)
	assert.Nil(t, ticket.AIConfidence)
	assert.Nil(t, ticket.AIResponse)
	assert.Equal(t, created.UpdatedAt, ticket.UpdatedAt)

	require.Len(t, notify.tickets, 1, "webhook is called even without a label")
	assert.Equal(t, domain.TicketStatusPending, notify.tickets[0].Status)
}

func TestProcessKeepsStatusOfAlreadyHandledTicket(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.create(t, "someone was rude")
	_, err := f.svc.ResolveTicket(ctx, created.ID, TicketResolveInput{Action: domain.TicketStatusEscalated})
	require.NoError(t, err)

	classifier := &stubClassifier{result: &domain.Classification{Category: domain.CategoryComplaint, Confidence: 0.8}}
	notify := &stubNotifier{}
	require.NoError(t, f.triage(t, classifier, notify).Process(ctx, created.ID))

	ticket, err := f.svc.GetTicket(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusEscalated, ticket.Status)
	assert.Equal(t, domain.CategoryComplaint, *ticket.AICategory)
}

func TestProcessUnknownTicket(t *testing.T) {
	f := newFixture(t)
	notify := &stubNotifier{}
	err := f.triage(t, &stubClassifier{}, notify).Process(context.Background(), "missing")
	assert.Error(t, err)
	assert.Empty(t, notify.tickets)
}

func TestConcurrentClassificationDoesNotLoseResolutions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	classifier := &stubClassifier{result: &domain.Classification{Category: domain.CategoryGeneral, Confidence: 0.5}}
	triage := f.triage(t, classifier, &stubNotifier{})

	var ids []string
	for i := 0; i < 10; i++ {
		ids = append(ids, f.create(t, "help").ID)
	}

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(2)
		go func(id string) {
			defer wg.Done()
			assert.NoError(t, triage.Process(ctx, id))
		}(id)
		go func(i int, id string) {
			defer wg.Done()
			if i%2 == 0 {
				_, err := f.svc.ResolveTicket(ctx, id, TicketResolveInput{})
				assert.NoError(t, err)
			}
		}(i, id)
	}
	wg.Wait()

	all, err := f.svc.ListTickets(ctx)
	require.NoError(t, err)
	require.Len(t, all, 10)
	for i, ticket := range all {
		assert.NotNil(t, ticket.AICategory, ticket.ID)
		if i%2 == 0 {
			assert.Equal(t, domain.TicketStatusResolved, ticket.Status, ticket.ID)
		}
	}
}

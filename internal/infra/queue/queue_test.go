package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/oneconsig-crm/internal/entity"
	"github.com/xavierca1/oneconsig-crm/internal/infra/progress"
	"github.com/xavierca1/oneconsig-crm/internal/usecase"
)

type fakePublisher struct {
	exchange, key string
	msg           amqp.Publishing
	err           error
}

func (f *fakePublisher) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func TestPublishImport(t *testing.T) {
	pub := &fakePublisher{}
	msg := usecase.ImportJobMessage{
		JobID: "job-1",
		Actor: entity.Actor{ID: "u1", Role: entity.RoleUser},
		Leads: []entity.Lead{{CPF: "123", Nome: "Ana", Status: entity.StatusNovo}},
	}

	require.NoError(t, NewProducer(pub).PublishImport(context.Background(), msg))

	assert.Equal(t, ExchangeName, pub.exchange)
	assert.Equal(t, RoutingKey, pub.key)
	assert.Equal(t, amqp.Persistent, pub.msg.DeliveryMode)
	assert.Equal(t, "job-1", pub.msg.MessageId)

	var decoded usecase.ImportJobMessage
	require.NoError(t, json.Unmarshal(pub.msg.Body, &decoded))
	assert.Equal(t, "u1", decoded.Actor.ID)
	assert.Len(t, decoded.Leads, 1)
}

func TestPublishImportError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("canal fechado")}

	err := NewProducer(pub).PublishImport(context.Background(), usecase.ImportJobMessage{JobID: "x"})

	assert.ErrorContains(t, err, "canal fechado")
}

type upserterMock struct {
	mock.Mock
}

func (m *upserterMock) Execute(ctx context.Context, actor *entity.Actor, leads []entity.Lead, observer usecase.ProgressObserver) (*usecase.BulkUpsertOutput, error) {
	args := m.Called(ctx, actor, leads, observer)
	if fn, ok := args.Get(2).(func(usecase.ProgressObserver)); ok && fn != nil {
		fn(observer)
	}
	out, _ := args.Get(0).(*usecase.BulkUpsertOutput)
	return out, args.Error(1)
}

type reporterSpy struct {
	jobs []progress.ImportJob
}

func (r *reporterSpy) SendImportReport(job *progress.ImportJob) error {
	r.jobs = append(r.jobs, *job)
	return nil
}

func encode(t *testing.T, msg usecase.ImportJobMessage) []byte {
	body, err := json.Marshal(msg)
	require.NoError(t, err)
	return body
}

func TestHandleDeliverySuccess(t *testing.T) {
	ctx := context.Background()
	store := progress.NewMemoryStore()
	require.NoError(t, store.Save(ctx, &progress.ImportJob{ID: "job-1", UserID: "u1", Status: progress.JobPending, Total: 150}))

	up := &upserterMock{}
	progressCalls := func(o usecase.ProgressObserver) { o.BatchCompleted(67) }
	up.On("Execute", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&usecase.BulkUpsertOutput{Added: 150}, nil, progressCalls)

	reporter := &reporterSpy{}
	w := NewWorker(nil, up, store, reporter)

	msg := usecase.ImportJobMessage{JobID: "job-1", Actor: entity.Actor{ID: "u1"}, Leads: make([]entity.Lead, 150)}
	require.NoError(t, w.HandleDelivery(ctx, encode(t, msg)))

	job, err := store.Get(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, progress.JobDone, job.Status)
	assert.Equal(t, 100, job.Progress)
	assert.Equal(t, 150, job.Added)
	require.Len(t, reporter.jobs, 1)
	assert.Equal(t, progress.JobDone, reporter.jobs[0].Status)
}

func TestHandleDeliveryWriteFailure(t *testing.T) {
	ctx := context.Background()
	store := progress.NewMemoryStore()

	up := &upserterMock{}
	up.On("Execute", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &usecase.WriteError{Batch: 1, Processed: 100, Err: errors.New("timeout")}, nil)

	w := NewWorker(nil, up, store, nil)
	msg := usecase.ImportJobMessage{JobID: "job-2", Actor: entity.Actor{ID: "u1"}, Leads: make([]entity.Lead, 250)}

	require.NoError(t, w.HandleDelivery(ctx, encode(t, msg)))

	job, err := store.Get(ctx, "job-2")
	require.NoError(t, err)
	assert.Equal(t, progress.JobFailed, job.Status)
	assert.Equal(t, 100, job.Progress)
	assert.Equal(t, 100, job.Added)
	assert.Contains(t, job.Error, "timeout")
}

func TestHandleDeliveryRejectsGarbage(t *testing.T) {
	w := NewWorker(nil, &upserterMock{}, progress.NewMemoryStore(), nil)

	assert.Error(t, w.HandleDelivery(context.Background(), []byte("{nope")))
	assert.Error(t, w.HandleDelivery(context.Background(), []byte(`{"leads":[]}`)))
}

func TestHandleDeliveryIgnoresShutdownMidImport(t *testing.T) {
	store := progress.NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	up := &upserterMock{}
	var upsertCtxErr error
	up.On("Execute", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			cancel()
			upsertCtxErr = args.Get(0).(context.Context).Err()
		}).
		Return(&usecase.BulkUpsertOutput{Added: 150}, nil, nil)

	w := NewWorker(nil, up, store, nil)
	msg := usecase.ImportJobMessage{JobID: "job-3", Actor: entity.Actor{ID: "u1"}, Leads: make([]entity.Lead, 150)}

	require.NoError(t, w.HandleDelivery(ctx, encode(t, msg)))

	assert.NoError(t, upsertCtxErr)
	job, err := store.Get(context.Background(), "job-3")
	require.NoError(t, err)
	assert.Equal(t, progress.JobDone, job.Status)
	assert.Equal(t, 150, job.Added)
}

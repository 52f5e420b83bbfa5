package usecase

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/oneconsig-crm/internal/entity"
)

func makeLeads(n int) []entity.Lead {
	leads := make([]entity.Lead, n)
	other := "someone-else"
	for i := range leads {
		leads[i] = entity.Lead{CPF: strconv.Itoa(100000 + i), Nome: "Lead", Status: entity.StatusNovo, UserID: &other}
	}
	return leads
}

func TestBulkUpsertBatchesAndProgress(t *testing.T) {
	repo := new(MockLeadRepository)
	var sizes []int
	repo.On("UpsertBatch", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sizes = append(sizes, len(args.Get(1).([]entity.Lead)))
	}).Return(nil)

	var progress []int
	uc := NewBulkUpsertLeadsUseCase(repo, nil)
	out, err := uc.Execute(context.Background(), &entity.Actor{ID: "user-1"}, makeLeads(250), ProgressFunc(func(p int) {
		progress = append(progress, p)
	}))

	require.NoError(t, err)
	assert.Equal(t, 250, out.Added)
	assert.Equal(t, []int{100, 100, 50}, sizes)
	assert.Equal(t, []int{40, 80, 100}, progress)
}

func TestBulkUpsertStampsOwner(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("UpsertBatch", mock.Anything, mock.MatchedBy(func(batch []entity.Lead) bool {
		for _, l := range batch {
			if l.UserID == nil || *l.UserID != "user-1" {
				return false
			}
		}
		return true
	})).Return(nil)

	input := makeLeads(3)
	_, err := NewBulkUpsertLeadsUseCase(repo, nil).Execute(context.Background(), &entity.Actor{ID: "user-1"}, input, nil)

	require.NoError(t, err)
	repo.AssertExpectations(t)
	assert.Equal(t, "someone-else", *input[0].UserID, "o slice de entrada não é alterado")
}

func TestBulkUpsertProgressRounds(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("UpsertBatch", mock.Anything, mock.Anything).Return(nil)

	var progress []int
	uc := NewBulkUpsertLeadsUseCase(repo, nil)
	uc.BatchSize = 1
	_, err := uc.Execute(context.Background(), &entity.Actor{ID: "u"}, makeLeads(3), ProgressFunc(func(p int) {
		progress = append(progress, p)
	}))

	require.NoError(t, err)
	assert.Equal(t, []int{33, 67, 100}, progress)
}

func TestBulkUpsertAbortsOnFailingBatch(t *testing.T) {
	repo := new(MockLeadRepository)
	boom := errors.New("deadlock")
	repo.On("UpsertBatch", mock.Anything, mock.Anything).Return(nil).Once()
	repo.On("UpsertBatch", mock.Anything, mock.Anything).Return(boom).Once()

	metrics := &recorderSpy{}
	var progress []int
	_, err := NewBulkUpsertLeadsUseCase(repo, metrics).Execute(context.Background(), &entity.Actor{ID: "u"}, makeLeads(350),
		ProgressFunc(func(p int) { progress = append(progress, p) }))

	var werr *WriteError
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, 1, werr.Batch)
	assert.Equal(t, 100, werr.Processed)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []int{29}, progress)
	repo.AssertNumberOfCalls(t, "UpsertBatch", 2)
	assert.Equal(t, []string{"ok", "error"}, metrics.batches)
}

func TestBulkUpsertRequiresActor(t *testing.T) {
	repo := new(MockLeadRepository)

	_, err := NewBulkUpsertLeadsUseCase(repo, nil).Execute(context.Background(), nil, makeLeads(5), nil)

	var aerr *AuthError
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, "Usuário não logado", err.Error())
	repo.AssertNotCalled(t, "UpsertBatch", mock.Anything, mock.Anything)
}

func TestBulkUpsertEmptyInput(t *testing.T) {
	repo := new(MockLeadRepository)
	called := false

	out, err := NewBulkUpsertLeadsUseCase(repo, nil).Execute(context.Background(), &entity.Actor{ID: "u"}, nil,
		ProgressFunc(func(int) { called = true }))

	require.NoError(t, err)
	assert.Equal(t, 0, out.Added)
	assert.False(t, called)
	repo.AssertNotCalled(t, "UpsertBatch", mock.Anything, mock.Anything)
}

func TestBulkUpsertFinishesAfterCancel(t *testing.T) {
	repo := new(MockLeadRepository)
	var ctxErrs []error
	repo.On("UpsertBatch", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		ctxErrs = append(ctxErrs, args.Get(0).(context.Context).Err())
	}).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out, err := NewBulkUpsertLeadsUseCase(repo, nil).Execute(ctx, &entity.Actor{ID: "u"}, makeLeads(150),
		ProgressFunc(func(p int) {
			if p < 100 {
				cancel()
			}
		}))

	require.NoError(t, err)
	assert.Equal(t, 150, out.Added)
	assert.Equal(t, []error{nil, nil}, ctxErrs)
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestBulkUpsertClampsBatchSize(t *testing.T) {
	repo := new(MockLeadRepository)
	var sizes []int
	repo.On("UpsertBatch", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sizes = append(sizes, len(args.Get(1).([]entity.Lead)))
	}).Return(nil)

	uc := NewBulkUpsertLeadsUseCase(repo, nil)
	uc.BatchSize = 10000
	out, err := uc.Execute(context.Background(), &entity.Actor{ID: "u"}, makeLeads(5000), nil)

	require.NoError(t, err)
	assert.Equal(t, 5000, out.Added)
	assert.Equal(t, []int{MaxLeadBatchSize, 5000 - MaxLeadBatchSize}, sizes)
}

package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/oneconsig-crm/internal/entity"
)

func strPtr(s string) *string { return &s }

var (
	userActor  = &entity.Actor{ID: "user-1", Role: entity.RoleUser}
	adminActor = &entity.Actor{ID: entity.AdminMasterID, Role: entity.RoleAdmin}
)

func TestUpdateStatusSameStatusIsNoop(t *testing.T) {
	repo := new(MockLeadRepository)
	history := new(MockHistoryRepository)
	repo.On("FindByID", mock.Anything, "l1").Return(&entity.Lead{ID: "l1", Status: entity.StatusAnalise}, nil)

	err := NewUpdateLeadStatusUseCase(repo, history, nil, nil).Execute(context.Background(), adminActor, "l1", entity.StatusAnalise)

	require.NoError(t, err)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	history.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestUpdateStatusHistoryFailureIsSwallowed(t *testing.T) {
	repo := new(MockLeadRepository)
	history := new(MockHistoryRepository)
	repo.On("FindByID", mock.Anything, "l1").Return(&entity.Lead{ID: "l1", UserID: strPtr("user-1"), Status: entity.StatusNovo}, nil)
	repo.On("UpdateStatus", mock.Anything, "l1", entity.StatusReprovado).Return(nil)
	history.On("Insert", mock.Anything, mock.Anything).Return(errors.New("sem permissão"))
	metrics := &recorderSpy{}

	err := NewUpdateLeadStatusUseCase(repo, history, nil, metrics).Execute(context.Background(), userActor, "l1", entity.StatusReprovado)

	require.NoError(t, err)
	assert.Equal(t, []string{"reprovado"}, metrics.statuses)
}

func TestUpdateStatusApprovedHandsOff(t *testing.T) {
	repo := new(MockLeadRepository)
	history := new(MockHistoryRepository)
	lead := &entity.Lead{ID: "l1", Nome: "Ana", Status: entity.StatusAnalise, MargemDisponivel: decimal.NewFromInt(300)}
	repo.On("FindByID", mock.Anything, "l1").Return(lead, nil)
	repo.On("UpdateStatus", mock.Anything, "l1", entity.StatusAprovado).Return(nil)
	history.On("Insert", mock.Anything, mock.Anything).Return(nil)

	handoff := &MockHandoff{done: make(chan struct{})}
	handoff.On("HandoffApprovedLead", mock.Anything, mock.MatchedBy(func(l *entity.Lead) bool {
		return l.ID == "l1" && l.Status == entity.StatusAprovado
	})).Return(nil)

	err := NewUpdateLeadStatusUseCase(repo, history, handoff, nil).Execute(context.Background(), adminActor, "l1", entity.StatusAprovado)
	require.NoError(t, err)

	select {
	case <-handoff.done:
	case <-time.After(time.Second):
		t.Fatal("handoff não foi chamado")
	}
	handoff.AssertExpectations(t)
}

func TestUpdateStatusInvalid(t *testing.T) {
	repo := new(MockLeadRepository)

	err := NewUpdateLeadStatusUseCase(repo, new(MockHistoryRepository), nil, nil).Execute(context.Background(), adminActor, "l1", "ganho")

	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestBulkUpdateStatusScoped(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("BulkUpdateStatus", mock.Anything, entity.LeadScope{OwnerID: "user-1"}, []string{"a", "b"}, entity.StatusAnalise).
		Return(int64(2), nil)

	out, err := NewUpdateLeadStatusUseCase(repo, nil, nil, nil).ExecuteBulk(context.Background(), userActor, []string{"a", "b"}, entity.StatusAnalise)

	require.NoError(t, err)
	assert.Equal(t, int64(2), out.Updated)
}

func TestBulkUpdateStatusEmptyIDs(t *testing.T) {
	repo := new(MockLeadRepository)

	out, err := NewUpdateLeadStatusUseCase(repo, nil, nil, nil).ExecuteBulk(context.Background(), userActor, nil, entity.StatusAnalise)

	require.NoError(t, err)
	assert.Equal(t, int64(0), out.Updated)
	repo.AssertNotCalled(t, "BulkUpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateInfoPartial(t *testing.T) {
	repo := new(MockLeadRepository)
	update := entity.LeadInfoUpdate{Observacoes: strPtr("ligar à tarde")}
	repo.On("FindByID", mock.Anything, "l1").Return(&entity.Lead{ID: "l1", UserID: strPtr("user-1")}, nil)
	repo.On("UpdateInfo", mock.Anything, "l1", update).Return(nil)

	require.NoError(t, NewUpdateLeadInfoUseCase(repo).Execute(context.Background(), userActor, "l1", update))
	repo.AssertExpectations(t)
}

func TestUpdateInfoRejectsBadUF(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("FindByID", mock.Anything, "l1").Return(&entity.Lead{ID: "l1"}, nil)

	err := NewUpdateLeadInfoUseCase(repo).Execute(context.Background(), adminActor, "l1", entity.LeadInfoUpdate{UF: strPtr("SPX")})

	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}

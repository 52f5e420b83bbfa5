package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/oneconsig-crm/internal/entity"
)

func TestPaginatedClampsPage(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("ListPaginated", mock.Anything, entity.LeadScope{OwnerID: "user-1"}, entity.LeadFilter{}, 0, 50).
		Return(nil, 0, nil)

	resp, err := NewLeadQueryUseCase(repo, nil).Paginated(context.Background(), userActor, 0, 0, entity.LeadFilter{})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 50, resp.PageSize)
	assert.NotNil(t, resp.Data)
}

func TestPaginatedCapsPageSize(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("ListPaginated", mock.Anything, entity.LeadScope{}, entity.LeadFilter{}, 500, 500).Return([]entity.Lead{}, 900, nil)

	resp, err := NewLeadQueryUseCase(repo, nil).Paginated(context.Background(), adminActor, 2, 10000, entity.LeadFilter{})

	require.NoError(t, err)
	assert.Equal(t, 500, resp.PageSize)
	assert.Equal(t, 900, resp.Count)
}

func TestPaginatedRejectsUnknownStatus(t *testing.T) {
	_, err := NewLeadQueryUseCase(new(MockLeadRepository), nil).
		Paginated(context.Background(), adminActor, 1, 10, entity.LeadFilter{Status: "ganho"})

	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestSearchEmptyTerm(t *testing.T) {
	repo := new(MockLeadRepository)

	leads, err := NewLeadQueryUseCase(repo, nil).Search(context.Background(), userActor, "   ")

	require.NoError(t, err)
	assert.Empty(t, leads)
	repo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDetailsIncludesHistory(t *testing.T) {
	repo := new(MockLeadRepository)
	history := new(MockHistoryRepository)
	repo.On("FindByID", mock.Anything, "l1").Return(&entity.Lead{ID: "l1", UserID: strPtr("user-1")}, nil)
	history.On("FindByLeadID", mock.Anything, "l1").Return([]entity.HistoryLog{{LeadID: "l1", StatusNovo: entity.StatusAnalise}}, nil)

	out, err := NewLeadQueryUseCase(repo, history).Details(context.Background(), userActor, "l1")

	require.NoError(t, err)
	assert.Len(t, out.History, 1)
}

func TestDetailsUnownedLeadVisible(t *testing.T) {
	repo := new(MockLeadRepository)
	history := new(MockHistoryRepository)
	repo.On("FindByID", mock.Anything, "l1").Return(&entity.Lead{ID: "l1"}, nil)
	history.On("FindByLeadID", mock.Anything, "l1").Return(nil, nil)

	out, err := NewLeadQueryUseCase(repo, history).Details(context.Background(), userActor, "l1")

	require.NoError(t, err)
	assert.NotNil(t, out.History)
}

func TestCreateLeadOwnership(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	uc := NewCreateLeadUseCase(repo)
	input := CreateLeadInput{Nome: "Ana", CPF: "123.456.789-09", UserID: "user-9", MargemDisponivel: decimal.NewFromInt(100)}

	lead, err := uc.Execute(context.Background(), userActor, input)
	require.NoError(t, err)
	assert.Equal(t, "user-1", *lead.UserID)
	assert.Equal(t, entity.StatusNovo, lead.Status)

	lead, err = uc.Execute(context.Background(), adminActor, input)
	require.NoError(t, err)
	assert.Equal(t, "user-9", *lead.UserID)
}

func TestCreateLeadValidation(t *testing.T) {
	repo := new(MockLeadRepository)

	_, err := NewCreateLeadUseCase(repo).Execute(context.Background(), userActor, CreateLeadInput{CPF: "111.111.111-11"})

	assert.Equal(t, CodeValidation, domainCode(t, err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateLeadDuplicateCPF(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(entity.ErrDuplicateCPF)

	_, err := NewCreateLeadUseCase(repo).Execute(context.Background(), userActor, CreateLeadInput{Nome: "Ana", CPF: "123.456.789-09"})

	assert.ErrorIs(t, err, entity.ErrDuplicateCPF)
}

func TestResetDatabaseAdminOnly(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("DeleteAll", mock.Anything).Return(nil)
	uc := NewResetDatabaseUseCase(repo)

	assert.Equal(t, CodeForbidden, domainCode(t, uc.Execute(context.Background(), userActor)))
	require.NoError(t, uc.Execute(context.Background(), adminActor))
	repo.AssertNumberOfCalls(t, "DeleteAll", 1)
}

func TestDashboardFillsDistribution(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("Stats", mock.Anything, entity.LeadScope{}, 30).Return(&entity.DashboardStats{
		TotalLeads: 8,
		StatusDistribution: []entity.StatusCount{
			{Name: "novo", Value: 4},
			{Name: "aprovado", Value: 2},
			{Name: "reprovado", Value: 2},
		},
	}, nil)

	stats, err := NewDashboardUseCase(repo).Execute(context.Background(), adminActor)

	require.NoError(t, err)
	assert.Equal(t, []entity.StatusCount{
		{Name: "Novos", Value: 4},
		{Name: "Análise", Value: 0},
		{Name: "Aprovados", Value: 2},
		{Name: "Reprovados", Value: 2},
	}, stats.StatusDistribution)
	assert.InDelta(t, 25.0, stats.ApprovedPercentage, 0.001)
	assert.NotNil(t, stats.DailyEvolution)
}

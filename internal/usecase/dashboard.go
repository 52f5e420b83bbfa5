package usecase

import (
	"context"
	"fmt"

	"github.com/xavierca1/oneconsig-crm/internal/entity"
)

var statusLabels = map[string]string{
	string(entity.StatusNovo):      "Novos",
	string(entity.StatusAnalise):   "Análise",
	string(entity.StatusAprovado):  "Aprovados",
	string(entity.StatusReprovado): "Reprovados",
}

type DashboardUseCase struct {
	Repo entity.LeadRepositoryInterface
}

func NewDashboardUseCase(repo entity.LeadRepositoryInterface) *DashboardUseCase {
	return &DashboardUseCase{Repo: repo}
}

func (uc *DashboardUseCase) Execute(ctx context.Context, actor *entity.Actor) (*entity.DashboardStats, error) {
	if actor == nil {
		return nil, &AuthError{}
	}

	stats, err := uc.Repo.Stats(ctx, actor.Scope(), dashboardDays)
	if err != nil {
		return nil, fmt.Errorf("erro ao calcular dashboard: %w", err)
	}

	// O repositório conta por código de status; aqui vira a distribuição completa,
	// na ordem do pipeline e com zero para status sem leads.
	counts := make(map[string]int, len(stats.StatusDistribution))
	for _, c := range stats.StatusDistribution {
		counts[c.Name] = c.Value
	}

	dist := make([]entity.StatusCount, 0, len(entity.AllStatuses))
	for _, s := range entity.AllStatuses {
		dist = append(dist, entity.StatusCount{Name: statusLabels[string(s)], Value: counts[string(s)]})
	}
	stats.StatusDistribution = dist

	stats.ApprovedPercentage = 0
	if stats.TotalLeads > 0 {
		stats.ApprovedPercentage = float64(counts[string(entity.StatusAprovado)]) / float64(stats.TotalLeads) * 100
	}
	if stats.DailyEvolution == nil {
		stats.DailyEvolution = []entity.DailyCount{}
	}

	return stats, nil
}

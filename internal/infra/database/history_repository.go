package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/oneconsig-crm/internal/entity"
)

type HistoryRepository struct {
	DB *sql.DB
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{DB: db}
}

func (r *HistoryRepository) Insert(ctx context.Context, h *entity.HistoryLog) error {
	query := `
		INSERT INTO historico_status (lead_id, status_anterior, status_novo)
		VALUES ($1, $2, $3)
		RETURNING id, data_mudanca
	`
	err := r.DB.QueryRowContext(ctx, query, h.LeadID, string(h.StatusAnterior), string(h.StatusNovo)).
		Scan(&h.ID, &h.DataMudanca)
	if err != nil {
		return fmt.Errorf("erro ao gravar histórico: %w", err)
	}
	return nil
}

func (r *HistoryRepository) FindByLeadID(ctx context.Context, leadID string) ([]entity.HistoryLog, error) {
	query := `
		SELECT id, lead_id, status_anterior, status_novo, data_mudanca
		FROM historico_status
		WHERE lead_id = $1
		ORDER BY data_mudanca DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, leadID)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar histórico: %w", err)
	}
	defer rows.Close()

	history := []entity.HistoryLog{}
	for rows.Next() {
		var h entity.HistoryLog
		var anterior, novo string
		if err := rows.Scan(&h.ID, &h.LeadID, &anterior, &novo, &h.DataMudanca); err != nil {
			return nil, fmt.Errorf("erro ao escanear histórico: %w", err)
		}
		h.StatusAnterior = entity.LeadStatus(anterior)
		h.StatusNovo = entity.LeadStatus(novo)
		history = append(history, h)
	}
	return history, rows.Err()
}

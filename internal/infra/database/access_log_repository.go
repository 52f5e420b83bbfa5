package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/oneconsig-crm/internal/entity"
)

type AccessLogRepository struct {
	DB *sql.DB
}

func NewAccessLogRepository(db *sql.DB) *AccessLogRepository {
	return &AccessLogRepository{DB: db}
}

func (r *AccessLogRepository) Insert(ctx context.Context, a entity.AccessLog) error {
	query := `INSERT INTO acessos_usuarios (usuario_id, nome_usuario, tipo_acesso) VALUES ($1, $2, $3)`
	_, err := r.DB.ExecContext(ctx, query, a.UsuarioID, a.NomeUsuario, a.TipoAcesso)
	return err
}

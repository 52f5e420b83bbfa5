package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/xavierca1/oneconsig-crm/internal/entity"
)

const userColumns = `id, nome, telefone, status, data_inicio, data_fim, observacoes`

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func scanUser(s rowScanner) (*entity.AuthorizedUser, error) {
	var u entity.AuthorizedUser
	var status string
	if err := s.Scan(&u.ID, &u.Nome, &u.Telefone, &status, &u.DataInicio, &u.DataFim, &u.Observacoes); err != nil {
		return nil, err
	}
	u.Status = entity.UserStatus(status)
	return &u, nil
}

// FindByPhone aceita várias grafias do mesmo telefone (com máscara, só dígitos...).
func (r *UserRepository) FindByPhone(ctx context.Context, candidates []string) (*entity.AuthorizedUser, error) {
	if len(candidates) == 0 {
		return nil, entity.ErrUserNotFound
	}

	query := `SELECT ` + userColumns + ` FROM usuarios_autorizados WHERE telefone = ANY($1) LIMIT 1`
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, pq.Array(candidates)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]entity.AuthorizedUser, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM usuarios_autorizados ORDER BY nome`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []entity.AuthorizedUser{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear usuário: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Create(ctx context.Context, u *entity.AuthorizedUser) error {
	query := `
		INSERT INTO usuarios_autorizados (nome, telefone, status, data_inicio, data_fim, observacoes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		u.Nome, u.Telefone, string(u.Status), u.DataInicio, u.DataFim, u.Observacoes,
	).Scan(&u.ID)
}

func (r *UserRepository) Update(ctx context.Context, u *entity.AuthorizedUser) error {
	query := `
		UPDATE usuarios_autorizados
		SET nome = $2, telefone = $3, status = $4, data_fim = $5, observacoes = $6
		WHERE id = $1
		RETURNING data_inicio
	`
	err := r.DB.QueryRowContext(ctx, query,
		u.ID, u.Nome, u.Telefone, string(u.Status), u.DataFim, u.Observacoes,
	).Scan(&u.DataInicio)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrUserNotFound
	}
	return err
}

func (r *UserRepository) UpdateStatus(ctx context.Context, id string, status entity.UserStatus) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE usuarios_autorizados SET status = $1 WHERE id = $2`, string(status), id)
	return err
}

// Delete remove o atendente e solta os leads dele.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE leads SET user_id = NULL WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("erro ao liberar leads: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM usuarios_autorizados WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrUserNotFound
	}
	return tx.Commit()
}

// ExpireOverdue marca como expirado quem passou da data_fim.
func (r *UserRepository) ExpireOverdue(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE usuarios_autorizados
		SET status = 'expirado'
		WHERE status = 'ativo' AND data_fim IS NOT NULL AND data_fim < NOW()
	`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

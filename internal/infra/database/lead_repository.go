package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/xavierca1/oneconsig-crm/internal/entity"
)

const leadColumns = `id, user_id, nome, cpf, beneficio, ddb::text, valor_beneficio,
	data_nascimento::text, idade, codigo_especie, margem_disponivel, municipio, uf,
	telefone1, telefone2, telefone3, status, data_criacao, data_status, observacoes`

// Colunas gravadas pela importação, na ordem dos placeholders.
var upsertColumns = []string{
	"user_id", "nome", "cpf", "beneficio", "ddb", "valor_beneficio",
	"data_nascimento", "idade", "codigo_especie", "margem_disponivel",
	"municipio", "uf", "telefone1", "telefone2", "telefone3", "status",
}

const uniqueViolation = "23505"

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

// UpsertBatch grava o lote num único INSERT ... ON CONFLICT (cpf) DO UPDATE.
// Registros existentes são sobrescritos por inteiro.
func (r *LeadRepository) UpsertBatch(ctx context.Context, leads []entity.Lead) error {
	leads = dedupeByCPF(leads)
	if len(leads) == 0 {
		return nil
	}

	query, args := buildUpsert(leads)
	if _, err := r.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert de %d leads: %w", len(leads), err)
	}
	return nil
}

// O Postgres não aceita atualizar a mesma linha duas vezes no mesmo comando,
// então CPFs repetidos no lote ficam só com a última ocorrência.
func dedupeByCPF(leads []entity.Lead) []entity.Lead {
	last := make(map[string]int, len(leads))
	for i, l := range leads {
		last[l.CPF] = i
	}
	if len(last) == len(leads) {
		return leads
	}

	out := make([]entity.Lead, 0, len(last))
	for i, l := range leads {
		if last[l.CPF] == i {
			out = append(out, l)
		}
	}
	return out
}

func buildUpsert(leads []entity.Lead) (string, []any) {
	var sb strings.Builder
	args := make([]any, 0, len(leads)*len(upsertColumns))

	sb.WriteString("INSERT INTO leads (")
	sb.WriteString(strings.Join(upsertColumns, ", "))
	sb.WriteString(") VALUES ")

	for i, l := range leads {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j := range upsertColumns {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", len(args)+j+1)
		}
		sb.WriteString(")")

		args = append(args,
			l.UserID, l.Nome, l.CPF, l.Beneficio, l.DDB, l.ValorBeneficio,
			l.DataNascimento, l.Idade, l.CodigoEspecie, l.MargemDisponivel,
			l.Municipio, l.UF, l.Telefone1, l.Telefone2, l.Telefone3, string(l.Status),
		)
	}

	sb.WriteString(" ON CONFLICT (cpf) DO UPDATE SET ")
	for j, c := range upsertColumns {
		if c == "cpf" {
			continue
		}
		if j > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s = EXCLUDED.%s", c, c)
	}

	return sb.String(), args
}

func (r *LeadRepository) Create(ctx context.Context, l *entity.Lead) error {
	query := `
		INSERT INTO leads (user_id, nome, cpf, beneficio, ddb, valor_beneficio, data_nascimento,
			idade, codigo_especie, margem_disponivel, municipio, uf, telefone1, telefone2,
			telefone3, status, observacoes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, data_criacao, data_status
	`

	err := r.DB.QueryRowContext(ctx, query,
		l.UserID, l.Nome, l.CPF, l.Beneficio, l.DDB, l.ValorBeneficio, l.DataNascimento,
		l.Idade, l.CodigoEspecie, l.MargemDisponivel, l.Municipio, l.UF, l.Telefone1,
		l.Telefone2, l.Telefone3, string(l.Status), l.Observacoes,
	).Scan(&l.ID, &l.DataCriacao, &l.DataStatus)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return entity.ErrDuplicateCPF
		}
		return err
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(s rowScanner) (*entity.Lead, error) {
	var l entity.Lead
	var status string
	err := s.Scan(
		&l.ID, &l.UserID, &l.Nome, &l.CPF, &l.Beneficio, &l.DDB, &l.ValorBeneficio,
		&l.DataNascimento, &l.Idade, &l.CodigoEspecie, &l.MargemDisponivel, &l.Municipio, &l.UF,
		&l.Telefone1, &l.Telefone2, &l.Telefone3, &status, &l.DataCriacao, &l.DataStatus, &l.Observacoes,
	)
	if err != nil {
		return nil, err
	}
	l.Status = entity.LeadStatus(status)
	return &l, nil
}

func scanLeads(rows *sql.Rows) ([]entity.Lead, error) {
	defer rows.Close()

	leads := []entity.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear lead: %w", err)
		}
		leads = append(leads, *l)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	l, err := scanLead(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrLeadNotFound
		}
		return nil, err
	}
	return l, nil
}

// whereBuilder monta cláusulas WHERE com placeholders numerados.
type whereBuilder struct {
	conds []string
	args  []any
}

func (w *whereBuilder) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(w.args))))
}

func (w *whereBuilder) scope(scope entity.LeadScope) {
	if scope.OwnerID != "" {
		w.add("user_id = ?", scope.OwnerID)
	}
}

func (w *whereBuilder) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

func (w *whereBuilder) next() string {
	return fmt.Sprintf("$%d", len(w.args)+1)
}

func (r *LeadRepository) List(ctx context.Context, scope entity.LeadScope, limit int) ([]entity.Lead, error) {
	var w whereBuilder
	w.scope(scope)

	query := `SELECT ` + leadColumns + ` FROM leads` + w.sql() +
		` ORDER BY data_status DESC LIMIT ` + w.next()

	rows, err := r.DB.QueryContext(ctx, query, append(w.args, limit)...)
	if err != nil {
		return nil, err
	}
	return scanLeads(rows)
}

func (r *LeadRepository) ListPaginated(
	ctx context.Context,
	scope entity.LeadScope,
	f entity.LeadFilter,
	offset, limit int,
) ([]entity.Lead, int, error) {
	var w whereBuilder
	w.scope(scope)
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.Municipio != "" {
		w.add("municipio ILIKE ?", "%"+f.Municipio+"%")
	}
	if f.Search != "" {
		w.add("(nome ILIKE ? OR cpf ILIKE ?)", "%"+f.Search+"%")
	}
	if f.DDBStart != "" {
		w.add("ddb >= ?", f.DDBStart)
	}
	if f.DDBEnd != "" {
		w.add("ddb <= ?", f.DDBEnd)
	}

	var count int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads`+w.sql(), w.args...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("erro ao contar leads: %w", err)
	}

	n := len(w.args)
	query := `SELECT ` + leadColumns + ` FROM leads` + w.sql() +
		fmt.Sprintf(` ORDER BY ddb ASC NULLS LAST LIMIT $%d OFFSET $%d`, n+1, n+2)

	rows, err := r.DB.QueryContext(ctx, query, append(w.args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	leads, err := scanLeads(rows)
	if err != nil {
		return nil, 0, err
	}
	return leads, count, nil
}

func (r *LeadRepository) Search(ctx context.Context, scope entity.LeadScope, term string, limit int) ([]entity.Lead, error) {
	var w whereBuilder
	w.add("(nome ILIKE ? OR cpf ILIKE ?)", "%"+term+"%")
	w.scope(scope)

	query := `SELECT ` + leadColumns + ` FROM leads` + w.sql() + ` LIMIT ` + w.next()

	rows, err := r.DB.QueryContext(ctx, query, append(w.args, limit)...)
	if err != nil {
		return nil, err
	}
	return scanLeads(rows)
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id string, status entity.LeadStatus) error {
	query := `UPDATE leads SET status = $1, data_status = NOW() WHERE id = $2`
	res, err := r.DB.ExecContext(ctx, query, string(status), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

func (r *LeadRepository) BulkUpdateStatus(ctx context.Context, scope entity.LeadScope, ids []string, status entity.LeadStatus) (int64, error) {
	var w whereBuilder
	w.add("status = ?", string(status))
	set := w.conds[0]
	w.conds = nil

	w.add("id = ANY(?)", pq.Array(ids))
	w.scope(scope)

	query := `UPDATE leads SET ` + set + `, data_status = NOW()` + w.sql()
	res, err := r.DB.ExecContext(ctx, query, w.args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *LeadRepository) UpdateInfo(ctx context.Context, id string, u entity.LeadInfoUpdate) error {
	var sets []string
	var args []any
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if u.Observacoes != nil {
		set("observacoes", *u.Observacoes)
	}
	if u.Telefone1 != nil {
		set("telefone1", *u.Telefone1)
	}
	if u.Telefone2 != nil {
		set("telefone2", *u.Telefone2)
	}
	if u.Telefone3 != nil {
		set("telefone3", *u.Telefone3)
	}
	if u.Municipio != nil {
		set("municipio", *u.Municipio)
	}
	if u.UF != nil {
		set("uf", *u.UF)
	}
	if u.MargemDisponivel != nil {
		set("margem_disponivel", *u.MargemDisponivel)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE leads SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

// DeleteAll limpa histórico e leads na mesma transação.
func (r *LeadRepository) DeleteAll(ctx context.Context) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM historico_status`); err != nil {
		return fmt.Errorf("erro ao limpar histórico: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM leads`); err != nil {
		return fmt.Errorf("erro ao limpar leads: %w", err)
	}
	return tx.Commit()
}

// Stats devolve contagens por código de status; rótulos e percentuais ficam
// com o use case.
func (r *LeadRepository) Stats(ctx context.Context, scope entity.LeadScope, days int) (*entity.DashboardStats, error) {
	var w whereBuilder
	w.scope(scope)
	where := w.sql()

	stats := &entity.DashboardStats{}
	totalsQuery := `
		SELECT
			COUNT(*),
			COALESCE(AVG(margem_disponivel), 0),
			COALESCE(AVG(EXTRACT(EPOCH FROM (data_status - data_criacao)) / 86400)
				FILTER (WHERE status IN ('aprovado', 'reprovado')), 0)
		FROM leads` + where

	if err := r.DB.QueryRowContext(ctx, totalsQuery, w.args...).Scan(
		&stats.TotalLeads, &stats.AvgMargin, &stats.AvgTimeDays,
	); err != nil {
		return nil, fmt.Errorf("erro nos totais: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, `SELECT status, COUNT(*) FROM leads`+where+` GROUP BY status`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("erro na distribuição: %w", err)
	}
	for rows.Next() {
		var c entity.StatusCount
		if err := rows.Scan(&c.Name, &c.Value); err != nil {
			rows.Close()
			return nil, err
		}
		stats.StatusDistribution = append(stats.StatusDistribution, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	w.add("data_criacao >= NOW() - make_interval(days => ?)", days)
	dailyQuery := `
		SELECT to_char(date_trunc('day', data_criacao), 'YYYY-MM-DD') AS dia, COUNT(*)
		FROM leads` + w.sql() + `
		GROUP BY dia
		ORDER BY dia`

	rows, err = r.DB.QueryContext(ctx, dailyQuery, w.args...)
	if err != nil {
		return nil, fmt.Errorf("erro na evolução diária: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d entity.DailyCount
		if err := rows.Scan(&d.Date, &d.Total); err != nil {
			return nil, err
		}
		stats.DailyEvolution = append(stats.DailyEvolution, d)
	}

	return stats, rows.Err()
}

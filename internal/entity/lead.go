package entity

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrLeadNotFound = errors.New("lead não encontrado")
	ErrDuplicateCPF = errors.New("já existe um lead com este CPF")
)

type LeadStatus string

const (
	StatusNovo      LeadStatus = "novo"
	StatusAnalise   LeadStatus = "analise"
	StatusAprovado  LeadStatus = "aprovado"
	StatusReprovado LeadStatus = "reprovado"
)

// AllStatuses segue a ordem do pipeline (colunas do kanban).
var AllStatuses = []LeadStatus{StatusNovo, StatusAnalise, StatusAprovado, StatusReprovado}

func (s LeadStatus) Valid() bool {
	switch s {
	case StatusNovo, StatusAnalise, StatusAprovado, StatusReprovado:
		return true
	}
	return false
}

// Lead é o registro de prospecção. Campos opcionais são ponteiros: nil significa
// que a coluna não veio no mailing (NULL no banco).
type Lead struct {
	ID               string          `json:"id,omitempty"`
	UserID           *string         `json:"user_id,omitempty"` // atendente dono do lead
	Nome             string          `json:"nome"`
	CPF              string          `json:"cpf"`
	Beneficio        *string         `json:"beneficio,omitempty"`
	DDB              *string         `json:"ddb,omitempty"` // YYYY-MM-DD
	ValorBeneficio   decimal.Decimal `json:"valor_beneficio"`
	DataNascimento   *string         `json:"data_nascimento,omitempty"`
	Idade            int             `json:"idade"`
	CodigoEspecie    int             `json:"codigo_especie"`
	MargemDisponivel decimal.Decimal `json:"margem_disponivel"`
	Municipio        *string         `json:"municipio,omitempty"`
	UF               *string         `json:"uf,omitempty"`
	Telefone1        *string         `json:"telefone1,omitempty"`
	Telefone2        *string         `json:"telefone2,omitempty"`
	Telefone3        *string         `json:"telefone3,omitempty"`
	Status           LeadStatus      `json:"status"`
	DataCriacao      *time.Time      `json:"data_criacao,omitempty"`
	DataStatus       *time.Time      `json:"data_status,omitempty"`
	Observacoes      *string         `json:"observacoes,omitempty"`
}

// OwnedByOther diz se o lead pertence a outro atendente que não o informado.
// Leads sem dono são visíveis para todos.
func (l *Lead) OwnedByOther(userID string) bool {
	return l.UserID != nil && *l.UserID != "" && *l.UserID != userID
}

type HistoryLog struct {
	ID             string     `json:"id"`
	LeadID         string     `json:"lead_id"`
	StatusAnterior LeadStatus `json:"status_anterior"`
	StatusNovo     LeadStatus `json:"status_novo"`
	DataMudanca    time.Time  `json:"data_mudanca"`
}

type LeadFilter struct {
	Status    string `json:"status,omitempty"`
	DDBStart  string `json:"ddb_start,omitempty"`
	DDBEnd    string `json:"ddb_end,omitempty"`
	Municipio string `json:"municipio,omitempty"`
	Search    string `json:"search,omitempty"`
}

// LeadScope restringe consultas a um dono. OwnerID vazio = sem restrição (ADMIN).
type LeadScope struct {
	OwnerID string
}

type PaginatedResponse[T any] struct {
	Data     []T `json:"data"`
	Count    int `json:"count"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// LeadInfoUpdate carrega só os campos que o atendente pode editar na ficha.
type LeadInfoUpdate struct {
	Observacoes      *string          `json:"observacoes,omitempty"`
	Telefone1        *string          `json:"telefone1,omitempty"`
	Telefone2        *string          `json:"telefone2,omitempty"`
	Telefone3        *string          `json:"telefone3,omitempty"`
	Municipio        *string          `json:"municipio,omitempty"`
	UF               *string          `json:"uf,omitempty"`
	MargemDisponivel *decimal.Decimal `json:"margem_disponivel,omitempty"`
}

func (u LeadInfoUpdate) Empty() bool {
	return u.Observacoes == nil && u.Telefone1 == nil && u.Telefone2 == nil &&
		u.Telefone3 == nil && u.Municipio == nil && u.UF == nil && u.MargemDisponivel == nil
}

type StatusCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Total int    `json:"total"`
}

type DashboardStats struct {
	TotalLeads         int             `json:"totalLeads"`
	ApprovedPercentage float64         `json:"approvedPercentage"`
	AvgMargin          decimal.Decimal `json:"avgMargin"`
	AvgTimeDays        float64         `json:"avgTimeDays"`
	StatusDistribution []StatusCount   `json:"statusDistribution"`
	DailyEvolution     []DailyCount    `json:"dailyEvolution"`
}

type LeadRepositoryInterface interface {
	UpsertBatch(ctx context.Context, leads []Lead) error
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, scope LeadScope, limit int) ([]Lead, error)
	ListPaginated(ctx context.Context, scope LeadScope, filter LeadFilter, offset, limit int) ([]Lead, int, error)
	Search(ctx context.Context, scope LeadScope, term string, limit int) ([]Lead, error)
	UpdateStatus(ctx context.Context, id string, status LeadStatus) error
	BulkUpdateStatus(ctx context.Context, scope LeadScope, ids []string, status LeadStatus) (int64, error)
	UpdateInfo(ctx context.Context, id string, update LeadInfoUpdate) error
	DeleteAll(ctx context.Context) error
	Stats(ctx context.Context, scope LeadScope, days int) (*DashboardStats, error)
}

type HistoryRepositoryInterface interface {
	Insert(ctx context.Context, log *HistoryLog) error
	FindByLeadID(ctx context.Context, leadID string) ([]HistoryLog, error)
}

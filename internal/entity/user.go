package entity

import (
	"context"
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("usuário não encontrado")

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// AdminMasterID identifica o administrador que entra com a credencial mestra.
const AdminMasterID = "admin-master-id"

// Actor é quem está operando o sistema (vem do token da sessão).
type Actor struct {
	ID       string `json:"id"`
	Nome     string `json:"nome"`
	Role     Role   `json:"role"`
	Telefone string `json:"telefone,omitempty"`
}

func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// Scope devolve o filtro de dono que as consultas de lead devem aplicar.
func (a *Actor) Scope() LeadScope {
	if a.IsAdmin() {
		return LeadScope{}
	}
	return LeadScope{OwnerID: a.ID}
}

type UserStatus string

const (
	UserAtivo     UserStatus = "ativo"
	UserBloqueado UserStatus = "bloqueado"
	UserExpirado  UserStatus = "expirado"
)

func (s UserStatus) Valid() bool {
	return s == UserAtivo || s == UserBloqueado || s == UserExpirado
}

// AuthorizedUser é o atendente cadastrado pelo admin (tabela usuarios_autorizados).
type AuthorizedUser struct {
	ID          string     `json:"id"`
	Nome        string     `json:"nome"`
	Telefone    string     `json:"telefone"`
	Status      UserStatus `json:"status"`
	DataInicio  time.Time  `json:"data_inicio"`
	DataFim     *time.Time `json:"data_fim,omitempty"`
	Observacoes *string    `json:"observacoes,omitempty"`
}

func (u *AuthorizedUser) ExpiredAt(now time.Time) bool {
	return u.DataFim != nil && now.After(*u.DataFim)
}

type AccessLog struct {
	UsuarioID   string `json:"usuario_id"`
	NomeUsuario string `json:"nome_usuario"`
	TipoAcesso  string `json:"tipo_acesso"`
}

type UserRepositoryInterface interface {
	FindByPhone(ctx context.Context, candidates []string) (*AuthorizedUser, error)
	List(ctx context.Context) ([]AuthorizedUser, error)
	Create(ctx context.Context, u *AuthorizedUser) error
	Update(ctx context.Context, u *AuthorizedUser) error
	UpdateStatus(ctx context.Context, id string, status UserStatus) error
	Delete(ctx context.Context, id string) error
	ExpireOverdue(ctx context.Context) (int64, error)
}

type AccessLogRepositoryInterface interface {
	Insert(ctx context.Context, log AccessLog) error
}

package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xavierca1/oneconsig-crm/internal/entity"
	"go.uber.org/zap"
)

const defaultAdminName = "Administrador"

type LoginUseCase struct {
	UserRepo        entity.UserRepositoryInterface
	AccessLogRepo   entity.AccessLogRepositoryInterface
	Phones          CredentialNormalizer
	AdminCredential string
	Metrics         StatusRecorder
	Now             func() time.Time
}

func NewLoginUseCase(
	userRepo entity.UserRepositoryInterface,
	accessLogRepo entity.AccessLogRepositoryInterface,
	phones CredentialNormalizer,
	adminCredential string,
	metrics StatusRecorder,
) *LoginUseCase {
	if metrics == nil {
		metrics = noopRecorder{}
	}
	return &LoginUseCase{
		UserRepo:        userRepo,
		AccessLogRepo:   accessLogRepo,
		Phones:          phones,
		AdminCredential: adminCredential,
		Metrics:         metrics,
		Now:             time.Now,
	}
}

func (uc *LoginUseCase) isMasterCredential(credencial string) bool {
	if uc.AdminCredential == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(credencial), []byte(uc.AdminCredential)) == 1
}

// Execute autentica pela credencial mestra (ADMIN) ou pelo telefone cadastrado
// do atendente (USER).
func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	credencial := strings.TrimSpace(input.Credencial)
	if credencial == "" {
		return nil, &ValidationError{Field: "credencial", Message: "is required"}
	}

	if uc.isMasterCredential(credencial) {
		nome := strings.TrimSpace(input.Nome)
		if nome == "" {
			nome = defaultAdminName
		}
		uc.Metrics.RecordLogin("admin")
		zap.L().Info("🔑 Login ADMIN", zap.String("nome", nome))
		return &LoginOutput{User: &entity.Actor{ID: entity.AdminMasterID, Nome: nome, Role: entity.RoleAdmin}}, nil
	}

	candidates := uc.Phones.Candidates(credencial)
	user, err := uc.UserRepo.FindByPhone(ctx, candidates)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			uc.Metrics.RecordLogin("not_found")
			return nil, &DomainError{Code: CodeUserNotFound, Message: "Usuário não encontrado. Fale com o administrador."}
		}
		return nil, fmt.Errorf("erro ao buscar usuário: %w", err)
	}

	if user.Status == entity.UserBloqueado {
		uc.Metrics.RecordLogin("blocked")
		return nil, &DomainError{Code: CodeUserBlocked, Message: "Seu acesso está BLOQUEADO. Contate o administrador."}
	}

	if user.ExpiredAt(uc.Now()) {
		if err := uc.UserRepo.UpdateStatus(ctx, user.ID, entity.UserExpirado); err != nil {
			zap.L().Error("⚠️ Erro ao marcar acesso expirado", zap.String("user_id", user.ID), zap.Error(err))
		}
		uc.Metrics.RecordLogin("expired")
		return nil, &DomainError{Code: CodeAccessExpired, Message: "Seu acesso EXPIROU. Contate o administrador para renovar."}
	}

	if user.Status == entity.UserExpirado {
		uc.Metrics.RecordLogin("expired")
		return nil, &DomainError{Code: CodeAccessExpired, Message: "Acesso expirado."}
	}

	if err := uc.AccessLogRepo.Insert(ctx, entity.AccessLog{
		UsuarioID:   user.ID,
		NomeUsuario: user.Nome,
		TipoAcesso:  "LOGIN",
	}); err != nil {
		zap.L().Error("⚠️ Erro ao registrar acesso", zap.String("user_id", user.ID), zap.Error(err))
	}

	uc.Metrics.RecordLogin("ok")
	zap.L().Info("🔓 Login atendente", zap.String("user_id", user.ID))

	return &LoginOutput{User: &entity.Actor{
		ID:       user.ID,
		Nome:     user.Nome,
		Role:     entity.RoleUser,
		Telefone: user.Telefone,
	}}, nil
}

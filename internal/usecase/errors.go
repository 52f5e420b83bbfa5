package usecase

import (
	"errors"
	"fmt"
	"strings"
)

const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeAccessDenied  = "ACCESS_DENIED"
	CodeForbidden     = "FORBIDDEN"
	CodeNotFound      = "NOT_FOUND"
	CodeUserNotFound  = "USER_NOT_FOUND"
	CodeUserBlocked   = "USER_BLOCKED"
	CodeAccessExpired = "ACCESS_EXPIRED"
)

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// ValidationError é devolvido pelo parser quando faltam colunas obrigatórias
// e pelos validadores de entrada (Field preenchido).
type ValidationError struct {
	Field   string
	Message string
	Missing []string
	Headers []string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("Colunas obrigatórias não encontradas (%s). Headers lidos: %s.",
			strings.Join(e.Missing, ", "), strings.Join(e.Headers, ", "))
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// EmptyResultError: o arquivo foi lido mas nenhuma linha tinha CPF.
type EmptyResultError struct{}

func (e *EmptyResultError) Error() string {
	return "Nenhum lead válido encontrado."
}

type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "Usuário não logado"
	}
	return e.Message
}

// WriteError indica que o lote Batch (base 0) falhou. Os lotes anteriores
// continuam gravados: Processed conta só o que já foi persistido.
type WriteError struct {
	Batch     int
	Processed int
	Err       error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("erro no lote %d (%d leads já gravados, importação incompleta): %v",
		e.Batch, e.Processed, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

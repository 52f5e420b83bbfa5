package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xavierca1/oneconsig-crm/internal/entity"
	"github.com/xavierca1/oneconsig-crm/internal/infra/http/middleware"
	"github.com/xavierca1/oneconsig-crm/internal/usecase"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeUseCaseError traduz os erros tipados dos casos de uso em status HTTP.
func writeUseCaseError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *usecase.ValidationError
		emptyErr      *usecase.EmptyResultError
		authErr       *usecase.AuthError
		domainErr     *usecase.DomainError
		writeErr      *usecase.WriteError
		techErr       *usecase.TechnicalError
	)

	switch {
	case errors.As(err, &validationErr):
		resp := ErrorResponse{Error: usecase.CodeValidation, Message: validationErr.Error()}
		if len(validationErr.Missing) > 0 {
			resp.Details = map[string][]string{"missing": validationErr.Missing, "headers": validationErr.Headers}
		}
		writeJSON(w, http.StatusBadRequest, resp)
	case errors.As(err, &emptyErr):
		writeErrorResponse(w, http.StatusBadRequest, "EMPTY_IMPORT", emptyErr.Error())
	case errors.As(err, &authErr):
		writeErrorResponse(w, http.StatusUnauthorized, "UNAUTHORIZED", authErr.Error())
	case errors.As(err, &domainErr):
		writeErrorResponse(w, domainStatus(domainErr.Code), domainErr.Code, domainErr.Message)
	case errors.As(err, &writeErr):
		writeJSON(w, http.StatusBadGateway, ErrorResponse{
			Error:   "IMPORT_INCOMPLETE",
			Message: writeErr.Error(),
			Details: map[string]int{"batch": writeErr.Batch, "processed": writeErr.Processed},
		})
	case errors.Is(err, entity.ErrDuplicateCPF):
		writeErrorResponse(w, http.StatusConflict, "DUPLICATE_CPF", err.Error())
	case errors.As(err, &techErr):
		zap.L().Error("❌ Erro técnico", zap.String("path", r.URL.Path), zap.String("code", techErr.Code), zap.Error(err))
		writeErrorResponse(w, http.StatusInternalServerError, techErr.Code, techErr.Message)
	default:
		zap.L().Error("❌ Erro inesperado", zap.String("path", r.URL.Path), zap.Error(err))
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Erro interno")
	}
}

func domainStatus(code string) int {
	switch code {
	case usecase.CodeValidation:
		return http.StatusBadRequest
	case usecase.CodeUserNotFound:
		return http.StatusUnauthorized
	case usecase.CodeForbidden, usecase.CodeAccessDenied, usecase.CodeUserBlocked, usecase.CodeAccessExpired:
		return http.StatusForbidden
	case usecase.CodeNotFound:
		return http.StatusNotFound
	}
	return http.StatusUnprocessableEntity
}

func actorFrom(r *http.Request) *entity.Actor {
	return middleware.ActorFromContext(r.Context())
}

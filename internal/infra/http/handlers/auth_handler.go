package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/xavierca1/oneconsig-crm/internal/entity"
	"github.com/xavierca1/oneconsig-crm/internal/usecase"
)

// TokenIssuer assina o token da sessão.
type TokenIssuer interface {
	Issue(actor *entity.Actor) (string, time.Time, error)
}

type AuthHandler struct {
	LoginUC     *usecase.LoginUseCase
	Tokens      TokenIssuer
	RateLimiter *RateLimiter // nil = sem limite
}

func NewAuthHandler(loginUC *usecase.LoginUseCase, tokens TokenIssuer, rl *RateLimiter) *AuthHandler {
	return &AuthHandler{
		LoginUC:     loginUC,
		Tokens:      tokens,
		RateLimiter: rl,
	}
}

type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      *entity.Actor `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.RateLimiter != nil && !h.RateLimiter.Allow(r.Context(), getClientIP(r)) {
		writeErrorResponse(w, http.StatusTooManyRequests, "RATE_LIMITED", "Muitas tentativas. Tente novamente em instantes.")
		return
	}

	var input usecase.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	out, err := h.LoginUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}

	token, expiresAt, err := h.Tokens.Issue(out.User)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Token: token, ExpiresAt: expiresAt, User: out.User})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	if actor == nil {
		writeUseCaseError(w, r, &usecase.AuthError{})
		return
	}
	writeJSON(w, http.StatusOK, actor)
}

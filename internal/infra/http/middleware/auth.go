package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/xavierca1/oneconsig-crm/internal/entity"
)

type ctxKey int

const actorKey ctxKey = iota

// TokenParser valida o bearer token e devolve o ator da sessão.
type TokenParser interface {
	Parse(token string) (*entity.Actor, error)
}

func Authenticate(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				deny(w, http.StatusUnauthorized, "Usuário não logado")
				return
			}

			actor, err := tokens.Parse(strings.TrimSpace(token))
			if err != nil {
				deny(w, http.StatusUnauthorized, "Sessão inválida ou expirada")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := ActorFromContext(r.Context())
		if actor == nil {
			deny(w, http.StatusUnauthorized, "Usuário não logado")
			return
		}
		if !actor.IsAdmin() {
			deny(w, http.StatusForbidden, "Acesso restrito a administradores")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithActor(ctx context.Context, actor *entity.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

func ActorFromContext(ctx context.Context) *entity.Actor {
	actor, _ := ctx.Value(actorKey).(*entity.Actor)
	return actor
}

func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

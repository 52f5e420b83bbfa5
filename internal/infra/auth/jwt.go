package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/xavierca1/oneconsig-crm/internal/entity"
)

var ErrInvalidToken = errors.New("token inválido")

const issuer = "oneconsig-crm"

// SessionClaims carrega o ator da sessão dentro do JWT.
type SessionClaims struct {
	Nome     string `json:"nome"`
	Role     string `json:"role"`
	Telefone string `json:"telefone,omitempty"`
	jwt.RegisteredClaims
}

type TokenService struct {
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time
}

func NewTokenService(signingKey string, ttl time.Duration) *TokenService {
	return &TokenService{
		signingKey: []byte(signingKey),
		ttl:        ttl,
		now:        time.Now,
	}
}

func (s *TokenService) Issue(actor *entity.Actor) (string, time.Time, error) {
	if actor == nil || actor.ID == "" {
		return "", time.Time{}, fmt.Errorf("ator vazio")
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := SessionClaims{
		Nome:     actor.Nome,
		Role:     string(actor.Role),
		Telefone: actor.Telefone,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("erro ao assinar token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *TokenService) Parse(tokenString string) (*entity.Actor, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	role := entity.Role(claims.Role)
	if claims.Subject == "" || (role != entity.RoleAdmin && role != entity.RoleUser) {
		return nil, ErrInvalidToken
	}

	return &entity.Actor{
		ID:       claims.Subject,
		Nome:     claims.Nome,
		Role:     role,
		Telefone: claims.Telefone,
	}, nil
}

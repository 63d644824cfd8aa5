package auth

import (
	"context"
	"strings"
	"time"

	"github.com/vinifvision/alerta-conecta-mobile/internal/models"
)

// MockAuthenticator accepts any non-empty credential pair, for fixture mode.
type MockAuthenticator struct {
	Delay time.Duration
}

func (a MockAuthenticator) Login(ctx context.Context, cpf, pass string) (models.User, error) {
	if a.Delay > 0 {
		select {
		case <-time.After(a.Delay):
		case <-ctx.Done():
			return models.User{}, ctx.Err()
		}
	}
	if strings.TrimSpace(cpf) == "" || strings.TrimSpace(pass) == "" {
		return models.User{}, ErrInvalidCredentials
	}
	return models.User{
		Name:   "Desenvolvedor Gerente (Mock)",
		Email:  "dev@mock.com",
		Role:   "Gerente",
		CPF:    cpf,
		Token:  "mock-token",
		Status: "sucesso (mock)",
	}, nil
}

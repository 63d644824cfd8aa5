package auth

import (
	"context"
	"errors"

	"github.com/vinifvision/alerta-conecta-mobile/internal/models"
)

// ErrInvalidCredentials is returned for a rejected login, regardless of
// whether the upstream answered 404 or a JSON error envelope.
var ErrInvalidCredentials = errors.New("usuário ou senha inválidos")

// Authenticator validates operator credentials. Token issuance and storage
// stay with the upstream user service; this side only forwards them.
type Authenticator interface {
	Login(ctx context.Context, cpf, pass string) (models.User, error)
}
